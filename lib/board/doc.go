// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package board reads task lists from the YouGile REST API.
//
// [Client.FetchColumn] is the only operation the bridge needs: one GET
// of /task-list?columnId=... per board column. It never returns an
// error. Transport failures, non-200 statuses, empty bodies and
// malformed JSON are logged with the column ID and degrade to an empty
// task list, so one broken column cannot abort a sync of the others.
// Each call makes exactly one HTTP attempt.
//
// [Task] keeps the stickers object in payload order so that
// [Task.FirstSticker] is deterministic for a given response.
package board
