// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"strings"

	"github.com/bureau-foundation/boardsync/lib/boardsync"
	"github.com/bureau-foundation/boardsync/lib/markup"
	"github.com/bureau-foundation/boardsync/lib/ref"
)

// commandRequest is one parsed command invocation.
type commandRequest struct {
	sender ref.UserID
	args   string
}

// command is a chat command. run returns the reply text.
type command struct {
	usage string
	help  string
	run   func(ctx context.Context, request commandRequest) (string, error)
}

func (b *bot) registerCommands() {
	b.commands = make(map[string]command)
	add := func(name string, cmd command) {
		b.commands[name] = cmd
		b.commandOrder = append(b.commandOrder, name)
	}

	add("send-list", command{help: "post or update the board message", run: b.commandSync})
	add("update-list", command{help: "update the board message now", run: b.commandSync})
	add("start-update", command{help: "start hourly board updates", run: b.commandStartUpdate})
	add("stop-update", command{help: "stop hourly board updates", run: b.commandStopUpdate})
	add("auto-pin", command{help: "toggle pinning of new board messages", run: b.commandAutoPin})
	add("task-desc", command{usage: "<task name>", help: "show a task's description", run: b.commandTaskDesc})
	add("text-train", command{help: "post the training texts", run: b.commandTextTrain})
	add("help", command{help: "list commands", run: b.commandHelp})
}

func (b *bot) commandSync(ctx context.Context, _ commandRequest) (string, error) {
	if _, err := b.engine.RunSync(ctx); err != nil {
		if reply, ok := b.errorReply(err); ok {
			return reply, nil
		}
		return "", err
	}
	return b.messages.Synced, nil
}

func (b *bot) commandStartUpdate(ctx context.Context, _ commandRequest) (string, error) {
	err := b.scheduler.Start(ctx)
	if errors.Is(err, boardsync.ErrAlreadyRunning) {
		return b.messages.AlreadyRunning, nil
	}
	if err != nil {
		return "", err
	}
	return b.messages.LoopStarted, nil
}

func (b *bot) commandStopUpdate(ctx context.Context, _ commandRequest) (string, error) {
	if err := b.scheduler.Stop(ctx); err != nil {
		return "", err
	}
	return b.messages.LoopStopped, nil
}

func (b *bot) commandAutoPin(ctx context.Context, _ commandRequest) (string, error) {
	enabled, err := b.engine.TogglePin(ctx)
	if err != nil {
		return "", err
	}
	if enabled {
		return b.messages.PinEnabled, nil
	}
	return b.messages.PinDisabled, nil
}

func (b *bot) commandTaskDesc(ctx context.Context, request commandRequest) (string, error) {
	if request.args == "" {
		return b.messages.TaskUsage, nil
	}
	info := b.lookupTask(ctx, request.args)
	if !info.Found {
		return b.messages.TaskNotFound, nil
	}
	return "**" + info.Title + "**\n\n" + info.Description, nil
}

// lookupTask finds a task and converts its description to markdown.
func (b *bot) lookupTask(ctx context.Context, name string) boardsync.TaskInfo {
	task, ok := b.engine.LookupTask(ctx, name)
	if !ok {
		return boardsync.TaskInfo{}
	}
	description := markup.HTMLToMarkdown(task.Description)
	if description == "" {
		description = b.messages.NoDescription
	}
	return boardsync.TaskInfo{
		Found:       true,
		ID:          task.ID,
		Title:       task.Title,
		Description: description,
	}
}

func (b *bot) commandTextTrain(ctx context.Context, _ commandRequest) (string, error) {
	if _, err := b.engine.Broadcast(ctx); err != nil {
		if reply, ok := b.errorReply(err); ok {
			return reply, nil
		}
		return "", err
	}
	return b.messages.BroadcastDone, nil
}

func (b *bot) commandHelp(context.Context, commandRequest) (string, error) {
	var builder strings.Builder
	for i, name := range b.commandOrder {
		if i > 0 {
			builder.WriteByte('\n')
		}
		cmd := b.commands[name]
		builder.WriteString("- `" + b.prefix + name)
		if cmd.usage != "" {
			builder.WriteString(" " + cmd.usage)
		}
		builder.WriteString("`: " + cmd.help)
	}
	return builder.String(), nil
}
