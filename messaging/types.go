// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"encoding/json"

	"github.com/bureau-foundation/boardsync/lib/ref"
)

// Event types the bridge sends or reads.
const (
	EventTypeMessage      = "m.room.message"
	EventTypePinnedEvents = "m.room.pinned_events"
)

// Message types.
const (
	MsgTypeText   = "m.text"
	MsgTypeNotice = "m.notice"
)

// FormatHTML is the only rich-text format Matrix defines.
const FormatHTML = "org.matrix.custom.html"

// RelTypeReplace marks an edit of an earlier event.
const RelTypeReplace = "m.replace"

// MessageContent is the content of an m.room.message event.
//
// An edit carries the replacement in NewContent and an m.replace
// relation; Body and FormattedBody then hold the "* " fallback shown
// by clients that do not understand edits.
type MessageContent struct {
	MsgType       string          `json:"msgtype"`
	Body          string          `json:"body"`
	Format        string          `json:"format,omitempty"`
	FormattedBody string          `json:"formatted_body,omitempty"`
	Mentions      *Mentions       `json:"m.mentions,omitempty"`
	RelatesTo     *RelatesTo      `json:"m.relates_to,omitempty"`
	NewContent    *MessageContent `json:"m.new_content,omitempty"`
}

// Mentions identifies users referenced in a message, in the m.mentions
// format.
type Mentions struct {
	UserIDs []string `json:"user_ids,omitempty"`
}

// RelatesTo expresses relationships between events. Replies set only
// InReplyTo; edits set RelType to m.replace and EventID to the
// original event.
type RelatesTo struct {
	RelType   string      `json:"rel_type,omitempty"`
	EventID   ref.EventID `json:"event_id,omitzero"`
	InReplyTo *InReplyTo  `json:"m.in_reply_to,omitempty"`
}

// InReplyTo references the event being replied to.
type InReplyTo struct {
	EventID ref.EventID `json:"event_id"`
}

// NewTextMessage creates a plain text message.
func NewTextMessage(body string) MessageContent {
	return MessageContent{
		MsgType: MsgTypeText,
		Body:    body,
	}
}

// NewHTMLMessage creates a text message with an HTML rendering. body
// is the plain fallback.
func NewHTMLMessage(body, html string) MessageContent {
	return MessageContent{
		MsgType:       MsgTypeText,
		Body:          body,
		Format:        FormatHTML,
		FormattedBody: html,
	}
}

// NewNoticeReply creates an m.notice replying to replyTo. Bots use
// notices for responses so other bots do not answer them.
func NewNoticeReply(replyTo ref.EventID, body string) MessageContent {
	return MessageContent{
		MsgType: MsgTypeNotice,
		Body:    body,
		RelatesTo: &RelatesTo{
			InReplyTo: &InReplyTo{EventID: replyTo},
		},
	}
}

// NewEdit wraps replacement as an m.replace edit of original.
func NewEdit(original ref.EventID, replacement MessageContent) MessageContent {
	replacement.RelatesTo = nil
	replacement.NewContent = nil
	edit := MessageContent{
		MsgType:    replacement.MsgType,
		Body:       "* " + replacement.Body,
		RelatesTo:  &RelatesTo{RelType: RelTypeReplace, EventID: original},
		NewContent: &replacement,
	}
	if replacement.FormattedBody != "" {
		edit.Format = replacement.Format
		edit.FormattedBody = "* " + replacement.FormattedBody
	}
	return edit
}

// Event represents a Matrix event from the server.
type Event struct {
	EventID        ref.EventID    `json:"event_id"`
	Type           string         `json:"type"`
	Sender         ref.UserID     `json:"sender"`
	OriginServerTS int64          `json:"origin_server_ts"`
	Content        map[string]any `json:"content"`
	RoomID         ref.RoomID     `json:"room_id,omitzero"`
	StateKey       *string        `json:"state_key,omitempty"`
	Unsigned       *EventUnsigned `json:"unsigned,omitempty"`
}

// EventUnsigned holds optional unsigned data attached to events.
type EventUnsigned struct {
	Age             int64           `json:"age,omitempty"`
	TransactionID   string          `json:"transaction_id,omitempty"`
	RedactedBecause json.RawMessage `json:"redacted_because,omitempty"`
}

// IsRedacted reports whether the event has been redacted. The
// homeserver strips a redacted event's content and usually records
// the redaction under unsigned.
func (e Event) IsRedacted() bool {
	if e.Unsigned != nil && len(e.Unsigned.RedactedBecause) > 0 {
		return true
	}
	return len(e.Content) == 0
}

// Message decodes an m.room.message event's content. ok is false for
// other event types or content that does not decode.
func (e Event) Message() (content MessageContent, ok bool) {
	if e.Type != EventTypeMessage {
		return MessageContent{}, false
	}
	raw, err := json.Marshal(e.Content)
	if err != nil {
		return MessageContent{}, false
	}
	if err := json.Unmarshal(raw, &content); err != nil {
		return MessageContent{}, false
	}
	return content, true
}

// PinnedEventsContent is the content of m.room.pinned_events.
type PinnedEventsContent struct {
	Pinned []ref.EventID `json:"pinned"`
}

// SyncOptions controls the behavior of the /sync endpoint.
type SyncOptions struct {
	Since      string // next_batch token from previous sync; empty for initial sync
	Timeout    int    // long-poll timeout in milliseconds; 0 for immediate return
	SetTimeout bool   // if true, send the timeout parameter (needed to distinguish "not set" from "0")
	Filter     string // filter ID or inline JSON filter
}

// SyncResponse is the top-level response from /sync.
type SyncResponse struct {
	NextBatch string       `json:"next_batch"`
	Rooms     RoomsSection `json:"rooms"`
}

// RoomsSection contains per-room sync data grouped by membership state.
// Map keys decode through ref.RoomID's TextUnmarshaler.
type RoomsSection struct {
	Join   map[ref.RoomID]JoinedRoom  `json:"join,omitempty"`
	Invite map[ref.RoomID]InvitedRoom `json:"invite,omitempty"`
}

// JoinedRoom contains sync data for a room the user has joined.
type JoinedRoom struct {
	Timeline TimelineSection `json:"timeline"`
	State    StateSection    `json:"state"`
}

// InvitedRoom contains sync data for a room the user was invited to.
type InvitedRoom struct {
	InviteState StateSection `json:"invite_state"`
}

// TimelineSection contains timeline events from a sync response.
type TimelineSection struct {
	Events    []Event `json:"events"`
	PrevBatch string  `json:"prev_batch"`
	Limited   bool    `json:"limited"`
}

// StateSection contains state events from a sync response.
type StateSection struct {
	Events []Event `json:"events"`
}

// SendEventResponse is returned by SendMessage, SendEvent, and SendStateEvent.
type SendEventResponse struct {
	EventID ref.EventID `json:"event_id"`
}

// WhoAmIResponse is returned by WhoAmI.
type WhoAmIResponse struct {
	UserID   ref.UserID `json:"user_id"`
	DeviceID string     `json:"device_id,omitempty"`
}

// ResolveAliasResponse is returned by ResolveAlias.
type ResolveAliasResponse struct {
	RoomID  ref.RoomID `json:"room_id"`
	Servers []string   `json:"servers"`
}

// JoinedRoomsResponse is returned by JoinedRooms.
type JoinedRoomsResponse struct {
	JoinedRooms []ref.RoomID `json:"joined_rooms"`
}
