// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for boardsync packages.
//
// [SocketDir] creates a short temporary directory for Unix domain
// sockets, whose paths are limited to 108 bytes.
//
// [RequireReceive] and [RequireClosed] wrap the select-with-timeout
// pattern so that scheduler and socket tests never block forever on a
// channel. They are the only place where tests wait on the real clock.
//
// All helpers call t.Fatalf on failure.
package testutil
