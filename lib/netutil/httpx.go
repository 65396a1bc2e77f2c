// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil bounds HTTP response reads for the bridge's two JSON
// API clients: the Matrix homeserver and the task board.
package netutil

import (
	"io"
)

// MaxResponseSize caps a single JSON response body at 32 MB. A board
// column or a Matrix /sync batch is far below this; the cap only stops
// a broken upstream from exhausting memory.
const MaxResponseSize int64 = 32 << 20

// ReadResponse reads a response body up to MaxResponseSize bytes. Use
// it instead of io.ReadAll on HTTP bodies.
func ReadResponse(body io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(body, MaxResponseSize))
}

// maxErrorBody limits how much of an error response is kept for log
// messages.
const maxErrorBody = 4 << 10

// ErrorBody reads at most a few kilobytes of an error response for
// diagnostics. Read errors are ignored: a partial body still helps.
func ErrorBody(body io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(body, maxErrorBody))
	return string(data)
}
