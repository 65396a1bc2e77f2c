// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package boardsync

import "github.com/bureau-foundation/boardsync/lib/ref"

// Control socket actions served by the daemon.
const (
	ActionSync        = "sync"
	ActionStartUpdate = "start-update"
	ActionStopUpdate  = "stop-update"
	ActionAutoPin     = "auto-pin"
	ActionTaskDesc    = "task-desc"
	ActionTextTrain   = "text-train"
	ActionStatus      = "status"
)

// Status is the reply to the status action.
type Status struct {
	UserID     ref.UserID  `cbor:"user_id" json:"user_id"`
	GuildID    ref.RoomID  `cbor:"guild_id" json:"guild_id"`
	Channel    string      `cbor:"channel" json:"channel"`
	MessageID  ref.EventID `cbor:"message_id" json:"message_id"`
	Updating   bool        `cbor:"updating" json:"updating"`
	Running    bool        `cbor:"running" json:"running"`
	AutoPin    bool        `cbor:"auto_pin" json:"auto_pin"`
	Columns    []string    `cbor:"columns" json:"columns"`
	FreeTasks  []string    `cbor:"free_tasks" json:"free_tasks"`
	CommandsOn bool        `cbor:"commands_enabled" json:"commands_enabled"`
}

// LoopState is the reply to start-update and stop-update.
type LoopState struct {
	Running bool `cbor:"running" json:"running"`
	// AlreadyRunning is set when start-update found the loop active.
	AlreadyRunning bool `cbor:"already_running,omitempty" json:"already_running,omitempty"`
}

// PinState is the reply to auto-pin.
type PinState struct {
	AutoPin bool `cbor:"auto_pin" json:"auto_pin"`
}

// TaskDescRequest carries the task-desc argument.
type TaskDescRequest struct {
	Name string `cbor:"name" json:"name"`
}

// TaskInfo is the reply to task-desc. Description is markdown.
type TaskInfo struct {
	Found       bool   `cbor:"found" json:"found"`
	ID          string `cbor:"id,omitempty" json:"id,omitempty"`
	Title       string `cbor:"title,omitempty" json:"title,omitempty"`
	Description string `cbor:"description,omitempty" json:"description,omitempty"`
}

// BroadcastResult is the reply to text-train.
type BroadcastResult struct {
	Sent int `cbor:"sent" json:"sent"`
}
