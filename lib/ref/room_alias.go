// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ref

import "strings"

// RoomAlias is a validated Matrix room alias (e.g., "#board:example.org").
// Operators usually configure the board room by alias; the bridge
// resolves it to a RoomID before sending.
type RoomAlias struct {
	alias string
}

// ParseRoomAlias validates and wraps a raw room alias string.
func ParseRoomAlias(raw string) (RoomAlias, error) {
	if _, _, err := parseSigilID(raw, '#', "room alias"); err != nil {
		return RoomAlias{}, err
	}
	return RoomAlias{alias: raw}, nil
}

// String returns the full alias.
func (a RoomAlias) String() string { return a.alias }

// IsZero reports whether the RoomAlias is unset.
func (a RoomAlias) IsZero() bool { return a.alias == "" }

// IsRoomAlias reports whether raw looks like an alias rather than a
// room ID. It checks only the sigil; use ParseRoomAlias to validate.
func IsRoomAlias(raw string) bool {
	return strings.HasPrefix(raw, "#")
}
