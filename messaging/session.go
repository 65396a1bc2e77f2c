// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"context"
	"encoding/json"

	"github.com/bureau-foundation/boardsync/lib/ref"
)

// Session is the set of Matrix operations the bridge performs.
// *DirectSession is the production implementation; tests substitute
// in-memory fakes.
type Session interface {
	// UserID returns the bot's fully-qualified Matrix user ID.
	UserID() ref.UserID

	// ResolveAlias resolves a room alias to a room ID.
	ResolveAlias(ctx context.Context, alias ref.RoomAlias) (ref.RoomID, error)

	// JoinRoom joins a room by room ID. Idempotent.
	JoinRoom(ctx context.Context, roomID ref.RoomID) (ref.RoomID, error)

	// JoinedRooms returns the list of room IDs the user has joined.
	JoinedRooms(ctx context.Context) ([]ref.RoomID, error)

	// SendMessage sends a message to a room. Returns the event ID.
	SendMessage(ctx context.Context, roomID ref.RoomID, content MessageContent) (ref.EventID, error)

	// EditMessage replaces an earlier message's content.
	EditMessage(ctx context.Context, roomID ref.RoomID, original ref.EventID, replacement MessageContent) (ref.EventID, error)

	// GetEvent fetches one event by ID.
	GetEvent(ctx context.Context, roomID ref.RoomID, eventID ref.EventID) (*Event, error)

	// GetStateEvent fetches a state event's raw content.
	GetStateEvent(ctx context.Context, roomID ref.RoomID, eventType, stateKey string) (json.RawMessage, error)

	// PinEvent adds an event to the room's pinned events.
	PinEvent(ctx context.Context, roomID ref.RoomID, eventID ref.EventID) error

	// Sync performs an incremental sync with the homeserver.
	Sync(ctx context.Context, options SyncOptions) (*SyncResponse, error)
}

// Compile-time check: *DirectSession implements Session.
var _ Session = (*DirectSession)(nil)
