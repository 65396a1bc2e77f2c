// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package boardsync mirrors task-board columns into one chat message
// that is edited in place on every run.
//
// [Engine.RunSync] fetches every configured column, renders the
// composite message, and reconciles it with the message recorded in
// the durable state: a live message sent by the bot is edited, while a
// missing, redacted or foreign one is replaced by a fresh post whose
// event ID is persisted. A [Scheduler] triggers RunSync periodically;
// operators trigger it on demand. Both paths go through the engine
// mutex, so runs never overlap.
//
// A board column that fails to load renders as empty. The run itself
// fails only when the room cannot be resolved or the message cannot
// be sent.
package boardsync
