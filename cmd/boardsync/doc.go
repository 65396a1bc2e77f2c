// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// boardsync is the task-board bridge daemon. It keeps one message in a
// Matrix room mirroring the columns of a YouGile board, edits it in
// place on every update, and answers operator commands and mentions.
//
// Configuration comes from a YAML file (--config or BOARDSYNC_CONFIG).
// The Matrix access token and the YouGile API key are read from the
// BOARDSYNC_MATRIX_TOKEN and YOUGILE_API_TOKEN environment variables,
// optionally populated from a .env file. The durable record (target
// room, columns, toggles, canned responses) lives in the JSON file or
// Redis key named by the state section.
//
// Operators drive the bridge with "!" commands in the target room or
// through the local control socket with boardsyncctl.
package main
