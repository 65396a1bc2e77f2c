// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"unicode"

	"github.com/bureau-foundation/boardsync/lib/boardsync"
	"github.com/bureau-foundation/boardsync/lib/config"
	"github.com/bureau-foundation/boardsync/lib/markup"
	"github.com/bureau-foundation/boardsync/lib/ref"
	"github.com/bureau-foundation/boardsync/lib/responder"
	"github.com/bureau-foundation/boardsync/lib/service"
	"github.com/bureau-foundation/boardsync/messaging"
)

// botChat is the subset of messaging.Session the bot uses directly.
type botChat interface {
	UserID() ref.UserID
	ResolveAlias(ctx context.Context, alias ref.RoomAlias) (ref.RoomID, error)
	JoinRoom(ctx context.Context, roomID ref.RoomID) (ref.RoomID, error)
	JoinedRooms(ctx context.Context) ([]ref.RoomID, error)
	SendMessage(ctx context.Context, roomID ref.RoomID, content messaging.MessageContent) (ref.EventID, error)
}

// botConfig carries the bot's dependencies.
type botConfig struct {
	Chat      botChat
	Engine    *boardsync.Engine
	Scheduler *boardsync.Scheduler
	Responder *responder.Responder
	Commands  config.CommandsConfig
	Messages  config.MessagesConfig
	Logger    *slog.Logger
}

// bot routes room events to commands and canned responses.
type bot struct {
	chat      botChat
	engine    *boardsync.Engine
	scheduler *boardsync.Scheduler
	responder *responder.Responder
	messages  config.MessagesConfig
	prefix    string
	operators map[ref.UserID]bool
	logger    *slog.Logger

	commands     map[string]command
	commandOrder []string

	// Set by prepare before the sync loop starts; read-only after.
	targetRoom ref.RoomID
	guildReady bool

	inflight sync.WaitGroup
}

func newBot(cfg botConfig) (*bot, error) {
	operators := make(map[ref.UserID]bool, len(cfg.Commands.Operators))
	for _, raw := range cfg.Commands.Operators {
		userID, err := ref.ParseUserID(raw)
		if err != nil {
			return nil, fmt.Errorf("commands.operators: %w", err)
		}
		operators[userID] = true
	}

	b := &bot{
		chat:      cfg.Chat,
		engine:    cfg.Engine,
		scheduler: cfg.Scheduler,
		responder: cfg.Responder,
		messages:  cfg.Messages,
		prefix:    cfg.Commands.Prefix,
		operators: operators,
		logger:    cfg.Logger,
	}
	b.registerCommands()
	return b, nil
}

// prepare resolves the target room and checks that the bot has joined
// the guild space. Commands and the update loop stay disabled without
// the guild.
func (b *bot) prepare(ctx context.Context) error {
	state := b.engine.State()

	if state.ChannelID == "" {
		b.logger.Error("no target room in the record, commands are disabled")
	} else {
		roomID, err := messaging.ResolveRoom(ctx, b.chat, state.ChannelID)
		if err != nil {
			return fmt.Errorf("resolving target room %q: %w", state.ChannelID, err)
		}
		b.targetRoom = roomID
	}

	b.guildReady = b.checkGuild(ctx, state.GuildID)
	return nil
}

func (b *bot) checkGuild(ctx context.Context, guildID ref.RoomID) bool {
	if guildID.IsZero() {
		b.logger.Error("guild_id missing from the record, commands and automatic updates are disabled")
		return false
	}
	joined, err := b.chat.JoinedRooms(ctx)
	if err != nil {
		b.logger.Error("listing joined rooms failed", "error", err)
		return false
	}
	if !slices.Contains(joined, guildID) {
		b.logger.Error("bot has not joined the guild space, invite it and check guild_id in the record",
			"guild_id", guildID)
		return false
	}
	return true
}

// syncFilter restricts /sync to messages in the target room.
func (b *bot) syncFilter() string {
	return messaging.RoomTimelineFilter(b.targetRoom)
}

// allowInvite accepts invites to the target room and the guild.
func (b *bot) allowInvite(roomID ref.RoomID) bool {
	state := b.engine.State()
	return roomID == b.targetRoom || roomID == state.GuildID
}

// handleSync processes one incremental /sync response.
func (b *bot) handleSync(ctx context.Context, response *messaging.SyncResponse) {
	if len(response.Rooms.Invite) > 0 {
		service.AcceptInvites(ctx, b.chat, response.Rooms.Invite, b.allowInvite, b.logger)
	}
	for roomID, room := range response.Rooms.Join {
		if b.targetRoom.IsZero() || roomID != b.targetRoom {
			continue
		}
		for _, event := range room.Timeline.Events {
			b.handleEvent(ctx, roomID, event)
		}
	}
}

// handleEvent routes one timeline event. Commands run in their own
// goroutine so a long broadcast does not stall the sync loop.
func (b *bot) handleEvent(ctx context.Context, roomID ref.RoomID, event messaging.Event) {
	if event.Type != messaging.EventTypeMessage || event.Sender == b.chat.UserID() {
		return
	}
	content, ok := event.Message()
	if !ok || content.MsgType != messaging.MsgTypeText {
		return
	}
	if content.RelatesTo != nil && content.RelatesTo.RelType == messaging.RelTypeReplace {
		return
	}

	if name, args, ok := parseCommand(content.Body, b.prefix); ok {
		cmd, known := b.commands[name]
		if !known {
			b.logger.Debug("ignoring unknown command", "command", name, "sender", event.Sender)
			return
		}
		b.inflight.Add(1)
		go func() {
			defer b.inflight.Done()
			b.dispatch(ctx, roomID, event, name, cmd, args)
		}()
		return
	}

	if mentionsUser(content, b.chat.UserID()) {
		query := mentionQuery(content, b.chat.UserID())
		b.reply(ctx, roomID, event.EventID, b.responder.Respond(query))
	}
}

// wait blocks until every dispatched command has finished.
func (b *bot) wait() { b.inflight.Wait() }

// parseCommand splits "!name args" into a lowercased name and the
// trimmed argument text.
func parseCommand(body, prefix string) (name, args string, ok bool) {
	body = strings.TrimSpace(body)
	rest, found := strings.CutPrefix(body, prefix)
	if !found {
		return "", "", false
	}
	end := strings.IndexFunc(rest, unicode.IsSpace)
	if end < 0 {
		end = len(rest)
	}
	name = strings.ToLower(rest[:end])
	if name == "" {
		return "", "", false
	}
	return name, strings.TrimSpace(rest[end:]), true
}

func (b *bot) dispatch(ctx context.Context, roomID ref.RoomID, event messaging.Event, name string, cmd command, args string) {
	logger := b.logger.With("command", name, "sender", event.Sender)

	if !b.guildReady {
		logger.Warn("command ignored, guild not ready")
		return
	}
	if len(b.operators) > 0 && !b.operators[event.Sender] {
		logger.Warn("command refused, sender is not an operator")
		b.reply(ctx, roomID, event.EventID, b.messages.NotAuthorized)
		return
	}

	logger.Info("running command")
	reply := b.runCommand(ctx, logger, cmd, commandRequest{sender: event.Sender, args: args})
	b.reply(ctx, roomID, event.EventID, reply)
}

// runCommand runs cmd, turning an error or panic into the generic
// failure reply. The detail goes to the log only.
func (b *bot) runCommand(ctx context.Context, logger *slog.Logger, cmd command, request commandRequest) (reply string) {
	defer func() {
		if recovered := recover(); recovered != nil {
			logger.Error("command panicked", "panic", recovered)
			reply = b.messages.CommandFailed
		}
	}()

	result, err := cmd.run(ctx, request)
	if err != nil {
		logger.Error("command failed", "error", err)
		return b.messages.CommandFailed
	}
	return result
}

// reply sends body as a notice replying to eventID. Markdown in body
// is rendered for clients that show formatted messages.
func (b *bot) reply(ctx context.Context, roomID ref.RoomID, eventID ref.EventID, body string) {
	if body == "" {
		return
	}
	content := messaging.NewNoticeReply(eventID, body)
	content.Format = messaging.FormatHTML
	content.FormattedBody = markup.MarkdownToHTML(body)
	if _, err := b.chat.SendMessage(ctx, roomID, content); err != nil {
		b.logger.Error("sending reply failed", "room_id", roomID, "in_reply_to", eventID, "error", err)
	}
}

// errorReply maps the engine's precondition errors to their reply.
func (b *bot) errorReply(err error) (string, bool) {
	switch {
	case errors.Is(err, boardsync.ErrNoChannel):
		return b.messages.NoChannel, true
	case errors.Is(err, boardsync.ErrNoTrainingText):
		return b.messages.NoTrainingText, true
	default:
		return "", false
	}
}
