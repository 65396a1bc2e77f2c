// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock is the bridge's injectable time source.
//
// The scheduler's hourly ticker, the pause between broadcast fragments,
// and the timestamp on the board message all read time through a
// Clock. Production wires Real(); tests wire Fake() and drive time with
// Advance, using WaitForTimers to avoid racing the goroutine that
// registers the ticker:
//
//	fake := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	scheduler := boardsync.NewScheduler(engine, time.Hour, fake, logger)
//	scheduler.Start(ctx)
//	fake.WaitForTimers(1)
//	fake.Advance(time.Hour)
package clock
