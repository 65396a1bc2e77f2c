// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package syncstate

import (
	"maps"
	"slices"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/bureau-foundation/boardsync/lib/ref"
)

// Column is one mirrored board column.
type Column struct {
	Name string
	ID   string
}

// Record is the persisted bridge state.
type Record struct {
	// GuildID is the Matrix space the bot serves. Commands and the
	// periodic loop stay disabled until the bot has joined it.
	GuildID ref.RoomID `json:"guild_id"`

	// ChannelID is the target room, either a room ID or an alias.
	ChannelID string `json:"channel_id"`

	// MessageID is the last board message posted by the bot. Zero
	// when no message has been posted yet.
	MessageID ref.EventID `json:"message_id,omitzero"`

	IsUpdating bool `json:"is_updating"`
	AutoPin    bool `json:"auto_pin"`

	// ColumnIDs maps column name to board column ID, in the order the
	// sections appear in the board message.
	ColumnIDs *orderedmap.OrderedMap[string, string] `json:"column_ids"`

	Flags         map[string][]string `json:"flags"`
	Responses     map[string]string   `json:"responses"`
	TrainingTexts []string            `json:"training_texts"`
}

// NewRecord returns an empty record with every collection allocated.
func NewRecord() *Record {
	record := &Record{}
	record.normalize()
	return record
}

// normalize allocates nil collections so that a saved record always
// carries every key.
func (r *Record) normalize() {
	if r.ColumnIDs == nil {
		r.ColumnIDs = orderedmap.New[string, string]()
	}
	if r.Flags == nil {
		r.Flags = map[string][]string{}
	}
	if r.Responses == nil {
		r.Responses = map[string]string{}
	}
	if r.TrainingTexts == nil {
		r.TrainingTexts = []string{}
	}
}

// Columns returns the configured columns in record order.
func (r *Record) Columns() []Column {
	if r.ColumnIDs == nil {
		return nil
	}
	columns := make([]Column, 0, r.ColumnIDs.Len())
	for pair := r.ColumnIDs.Oldest(); pair != nil; pair = pair.Next() {
		columns = append(columns, Column{Name: pair.Key, ID: pair.Value})
	}
	return columns
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	clone := *r
	clone.ColumnIDs = orderedmap.New[string, string]()
	if r.ColumnIDs != nil {
		for pair := r.ColumnIDs.Oldest(); pair != nil; pair = pair.Next() {
			clone.ColumnIDs.Set(pair.Key, pair.Value)
		}
	}
	clone.Flags = make(map[string][]string, len(r.Flags))
	for flag, words := range r.Flags {
		clone.Flags[flag] = slices.Clone(words)
	}
	clone.Responses = maps.Clone(r.Responses)
	if clone.Responses == nil {
		clone.Responses = map[string]string{}
	}
	clone.TrainingTexts = slices.Clone(r.TrainingTexts)
	if clone.TrainingTexts == nil {
		clone.TrainingTexts = []string{}
	}
	return &clone
}
