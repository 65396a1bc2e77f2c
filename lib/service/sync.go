// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bureau-foundation/boardsync/lib/clock"
	"github.com/bureau-foundation/boardsync/lib/ref"
	"github.com/bureau-foundation/boardsync/messaging"
)

// Syncer performs Matrix /sync requests.
type Syncer interface {
	Sync(ctx context.Context, options messaging.SyncOptions) (*messaging.SyncResponse, error)
}

// Joiner joins rooms.
type Joiner interface {
	JoinRoom(ctx context.Context, roomID ref.RoomID) (ref.RoomID, error)
}

// SyncConfig configures the /sync long-poll loop.
type SyncConfig struct {
	// Filter is the inline JSON filter restricting which events the
	// homeserver returns.
	Filter string

	// Timeout is the long-poll timeout. Default: 30s.
	Timeout time.Duration

	// MaxBackoff caps the delay between retries after a failed
	// /sync. The delay starts at one second and doubles. Default: 30s.
	MaxBackoff time.Duration
}

// SyncHandler is called for each /sync response. The next poll starts
// after the handler returns.
type SyncHandler func(ctx context.Context, response *messaging.SyncResponse)

// InitialSync performs the first /sync with no since token and returns
// the next_batch token for the incremental loop. Its events predate
// the daemon and are not dispatched as commands.
func InitialSync(ctx context.Context, session Syncer, filter string) (string, *messaging.SyncResponse, error) {
	response, err := session.Sync(ctx, messaging.SyncOptions{Filter: filter})
	if err != nil {
		return "", nil, fmt.Errorf("initial sync: %w", err)
	}
	return response.NextBatch, response, nil
}

// RunSyncLoop polls /sync from sinceToken and calls handler for each
// response until ctx is cancelled. Failed polls are retried with
// exponential backoff on clk, or after the server's retry_after_ms
// when it rate-limits the bot.
func RunSyncLoop(ctx context.Context, session Syncer, config SyncConfig, sinceToken string, handler SyncHandler, clk clock.Clock, logger *slog.Logger) {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	maxBackoff := config.MaxBackoff
	if maxBackoff <= 0 {
		maxBackoff = 30 * time.Second
	}

	backoff := time.Second

	for {
		if ctx.Err() != nil {
			return
		}

		response, err := session.Sync(ctx, messaging.SyncOptions{
			Since:      sinceToken,
			Timeout:    int(timeout / time.Millisecond),
			SetTimeout: true,
			Filter:     config.Filter,
		})
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			delay := backoff
			if requested, ok := messaging.RetryAfter(err); ok {
				delay = max(delay, requested)
			}
			logger.Error("sync failed, retrying", "error", err, "backoff", delay)
			select {
			case <-ctx.Done():
				return
			case <-clk.After(delay):
			}
			backoff = min(backoff*2, maxBackoff)
			continue
		}

		backoff = time.Second
		sinceToken = response.NextBatch

		handler(ctx, response)
	}
}

// AcceptInvites joins the invited rooms for which allow returns true
// and returns the rooms joined. Other invites are left pending.
func AcceptInvites(ctx context.Context, session Joiner, invites map[ref.RoomID]messaging.InvitedRoom, allow func(ref.RoomID) bool, logger *slog.Logger) []ref.RoomID {
	var accepted []ref.RoomID
	for roomID := range invites {
		if !allow(roomID) {
			logger.Info("ignoring room invite", "room_id", roomID)
			continue
		}
		logger.Info("accepting room invite", "room_id", roomID)
		if _, err := session.JoinRoom(ctx, roomID); err != nil {
			logger.Error("failed to accept room invite", "room_id", roomID, "error", err)
			continue
		}
		accepted = append(accepted, roomID)
	}
	return accepted
}
