// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bureau-foundation/boardsync/lib/ref"
)

// stateReader is the subset of Session GetState needs.
type stateReader interface {
	GetStateEvent(ctx context.Context, roomID ref.RoomID, eventType, stateKey string) (json.RawMessage, error)
}

// GetState reads a typed state event from a Matrix room:
//
//	pinned, err := messaging.GetState[messaging.PinnedEventsContent](ctx, session, roomID, messaging.EventTypePinnedEvents, "")
//
// Returns an error if the state event does not exist (M_NOT_FOUND) or
// if the content cannot be unmarshaled into T.
func GetState[T any](ctx context.Context, session stateReader, roomID ref.RoomID, eventType, stateKey string) (T, error) {
	var zero T
	content, err := session.GetStateEvent(ctx, roomID, eventType, stateKey)
	if err != nil {
		return zero, fmt.Errorf("reading %s[%q] from room %s: %w", eventType, stateKey, roomID, err)
	}
	var result T
	if err := json.Unmarshal(content, &result); err != nil {
		return zero, fmt.Errorf("unmarshaling %s from room %s: %w", eventType, roomID, err)
	}
	return result, nil
}

// roomResolver is the subset of Session ResolveRoom needs.
type roomResolver interface {
	ResolveAlias(ctx context.Context, alias ref.RoomAlias) (ref.RoomID, error)
	JoinRoom(ctx context.Context, roomID ref.RoomID) (ref.RoomID, error)
}

// ResolveRoom turns a configured room reference, either a room ID
// ("!x:server") or an alias ("#x:server"), into a joined room ID. The
// join is idempotent, so calling this before every use is safe.
func ResolveRoom(ctx context.Context, session roomResolver, raw string) (ref.RoomID, error) {
	var roomID ref.RoomID
	if ref.IsRoomAlias(raw) {
		alias, err := ref.ParseRoomAlias(raw)
		if err != nil {
			return ref.RoomID{}, err
		}
		roomID, err = session.ResolveAlias(ctx, alias)
		if err != nil {
			return ref.RoomID{}, err
		}
	} else {
		var err error
		roomID, err = ref.ParseRoomID(raw)
		if err != nil {
			return ref.RoomID{}, fmt.Errorf("room %q is neither a room ID nor an alias: %w", raw, err)
		}
	}

	joined, err := session.JoinRoom(ctx, roomID)
	if err != nil {
		return ref.RoomID{}, err
	}
	if joined.IsZero() {
		return roomID, nil
	}
	return joined, nil
}

// RoomTimelineFilter builds an inline /sync filter that delivers only
// m.room.message timeline events from the given rooms, with presence,
// account data and room state suppressed.
func RoomTimelineFilter(rooms ...ref.RoomID) string {
	roomIDs := make([]string, 0, len(rooms))
	for _, roomID := range rooms {
		roomIDs = append(roomIDs, roomID.String())
	}

	filter := map[string]any{
		"room": map[string]any{
			"rooms":    roomIDs,
			"timeline": map[string]any{"types": []string{EventTypeMessage}},
			"state":    map[string]any{"types": []string{}},
		},
		"presence":     map[string]any{"types": []string{}},
		"account_data": map[string]any{"types": []string{}},
	}

	data, _ := json.Marshal(filter)
	return string(data)
}
