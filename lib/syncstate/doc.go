// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package syncstate holds the durable record of the board bridge: which
// room it serves, which board columns it mirrors, the event ID of the
// last board message, and the operator toggles.
//
// The record is owned by a single process. Two backends implement
// [Store]: [FileStore] keeps a hand-editable JSON file (comments and
// trailing commas are tolerated on read), and [RedisStore] keeps the
// same JSON under one Redis key for deployments without a persistent
// volume. Every Save is a full overwrite.
package syncstate
