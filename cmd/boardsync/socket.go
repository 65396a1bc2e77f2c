// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bureau-foundation/boardsync/lib/boardsync"
	"github.com/bureau-foundation/boardsync/lib/codec"
	"github.com/bureau-foundation/boardsync/lib/service"
)

// registerActions exposes the operator intents on the control socket.
// Socket callers are trusted by file permission, so the guild and
// operator checks of chat commands do not apply.
func (b *bot) registerActions(server *service.SocketServer) {
	server.Handle(boardsync.ActionSync, b.actionSync)
	server.Handle(boardsync.ActionStartUpdate, b.actionStartUpdate)
	server.Handle(boardsync.ActionStopUpdate, b.actionStopUpdate)
	server.Handle(boardsync.ActionAutoPin, b.actionAutoPin)
	server.Handle(boardsync.ActionTaskDesc, b.actionTaskDesc)
	server.Handle(boardsync.ActionTextTrain, b.actionTextTrain)
	server.Handle(boardsync.ActionStatus, b.actionStatus)
}

func (b *bot) actionSync(ctx context.Context, _ []byte) (any, error) {
	result, err := b.engine.RunSync(ctx)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (b *bot) actionStartUpdate(ctx context.Context, _ []byte) (any, error) {
	err := b.scheduler.Start(ctx)
	if errors.Is(err, boardsync.ErrAlreadyRunning) {
		return boardsync.LoopState{Running: true, AlreadyRunning: true}, nil
	}
	if err != nil {
		return nil, err
	}
	return boardsync.LoopState{Running: true}, nil
}

func (b *bot) actionStopUpdate(ctx context.Context, _ []byte) (any, error) {
	if err := b.scheduler.Stop(ctx); err != nil {
		return nil, err
	}
	return boardsync.LoopState{Running: false}, nil
}

func (b *bot) actionAutoPin(ctx context.Context, _ []byte) (any, error) {
	enabled, err := b.engine.TogglePin(ctx)
	if err != nil {
		return nil, err
	}
	return boardsync.PinState{AutoPin: enabled}, nil
}

func (b *bot) actionTaskDesc(ctx context.Context, raw []byte) (any, error) {
	var request boardsync.TaskDescRequest
	if err := codec.Unmarshal(raw, &request); err != nil {
		return nil, fmt.Errorf("invalid task-desc request: %w", err)
	}
	if strings.TrimSpace(request.Name) == "" {
		return nil, errors.New("missing required field: name")
	}
	return b.lookupTask(ctx, request.Name), nil
}

func (b *bot) actionTextTrain(ctx context.Context, _ []byte) (any, error) {
	sent, err := b.engine.Broadcast(ctx)
	if err != nil {
		return nil, err
	}
	return boardsync.BroadcastResult{Sent: sent}, nil
}

func (b *bot) actionStatus(context.Context, []byte) (any, error) {
	state := b.engine.State()

	columns := make([]string, 0)
	for _, column := range state.Columns() {
		columns = append(columns, column.Name)
	}
	free := make([]string, 0)
	for _, task := range b.engine.FreeTasks() {
		free = append(free, task.Title)
	}

	return boardsync.Status{
		UserID:     b.chat.UserID(),
		GuildID:    state.GuildID,
		Channel:    state.ChannelID,
		MessageID:  state.MessageID,
		Updating:   state.IsUpdating,
		Running:    b.scheduler.Running(),
		AutoPin:    state.AutoPin,
		Columns:    columns,
		FreeTasks:  free,
		CommandsOn: b.guildReady,
	}, nil
}
