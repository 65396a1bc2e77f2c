// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package boardsync

import "errors"

var (
	// ErrNoChannel is returned when the record names no target room.
	ErrNoChannel = errors.New("boardsync: no target room configured")

	// ErrNoTrainingText is returned by Broadcast when the record holds
	// no training texts.
	ErrNoTrainingText = errors.New("boardsync: no training texts configured")

	// ErrAlreadyRunning is returned by Scheduler.Start while the
	// periodic loop is active.
	ErrAlreadyRunning = errors.New("boardsync: periodic update already running")
)
