// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package messaging wraps the subset of the Matrix client-server API
// the board bridge uses.
//
// [Client] is an unauthenticated client holding the homeserver URL and
// HTTP transport. [Client.Authenticate] turns an access token into a
// [DirectSession] bound to the bot's user ID (verified with whoami).
//
// [DirectSession] covers the operations the bridge needs: resolving and
// joining rooms, sending messages and notices, fetching an event by ID
// to confirm it is still the bot's own unredacted message, editing it
// in place with an m.replace relation, pinning it through the
// m.room.pinned_events state event, and the /sync long-poll that
// delivers commands and mentions.
//
// The access token is held in a [secret.Buffer]. Callers must call
// DirectSession.Close to release it.
//
// All API errors are returned as [*MatrixError] carrying the Matrix
// error code and HTTP status. [IsMatrixError] tests for a specific
// code. Request URLs are built by string concatenation so path
// segments such as room aliases are escaped exactly once.
package messaging
