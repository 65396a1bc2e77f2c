// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package ref provides validated, immutable Matrix identifiers used by
// the board bridge: room IDs, room aliases, event IDs, and user IDs.
//
// Identifiers arrive as strings from the durable record, the service
// config, and homeserver responses. They are parsed into these types at
// the boundary so the rest of the code never handles a malformed ID.
// All types implement encoding.TextMarshaler and TextUnmarshaler and
// serialize as the canonical Matrix string.
package ref
