// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package boardsync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/bureau-foundation/boardsync/lib/board"
	"github.com/bureau-foundation/boardsync/lib/clock"
	"github.com/bureau-foundation/boardsync/lib/markup"
	"github.com/bureau-foundation/boardsync/lib/ref"
	"github.com/bureau-foundation/boardsync/lib/syncstate"
	"github.com/bureau-foundation/boardsync/messaging"
)

// Chat is the subset of messaging.Session the engine uses.
type Chat interface {
	UserID() ref.UserID
	ResolveAlias(ctx context.Context, alias ref.RoomAlias) (ref.RoomID, error)
	JoinRoom(ctx context.Context, roomID ref.RoomID) (ref.RoomID, error)
	SendMessage(ctx context.Context, roomID ref.RoomID, content messaging.MessageContent) (ref.EventID, error)
	EditMessage(ctx context.Context, roomID ref.RoomID, original ref.EventID, replacement messaging.MessageContent) (ref.EventID, error)
	GetEvent(ctx context.Context, roomID ref.RoomID, eventID ref.EventID) (*messaging.Event, error)
	PinEvent(ctx context.Context, roomID ref.RoomID, eventID ref.EventID) error
}

// Board fetches one column's tasks. Implementations never fail; a
// column that cannot be loaded yields no tasks.
type Board interface {
	FetchColumn(ctx context.Context, columnID string) []board.Task
}

// Action says how RunSync delivered the board message.
type Action string

const (
	// ActionPosted means a new message was sent and its ID recorded.
	ActionPosted Action = "posted"

	// ActionEdited means the recorded message was edited in place.
	ActionEdited Action = "edited"
)

// Result describes a completed sync run.
type Result struct {
	Action  Action      `cbor:"action" json:"action"`
	EventID ref.EventID `cbor:"event_id" json:"event_id"`
}

// EngineConfig configures an Engine. Chat, Board, Store, Record and
// Clock are required.
type EngineConfig struct {
	Chat  Chat
	Board Board
	Store syncstate.Store

	// Record is the loaded durable state. The engine takes ownership.
	Record *syncstate.Record

	Clock  clock.Clock
	Logger *slog.Logger

	// FreeColumn names the column whose tasks RunSync caches for
	// FreeTasks.
	FreeColumn string

	// AnnotatedColumns lists columns whose tasks show their first
	// sticker value.
	AnnotatedColumns []string

	// NoTasks is the body of a column with no tasks.
	NoTasks string

	// TimestampPrefix and TimestampLayout build the trailer line.
	// Location defaults to UTC.
	TimestampPrefix string
	TimestampLayout string
	Location        *time.Location

	// BroadcastDelay separates training text fragments.
	BroadcastDelay time.Duration
}

// Engine owns the durable record and performs sync runs. All state
// access goes through one mutex.
type Engine struct {
	chat   Chat
	board  Board
	store  syncstate.Store
	clock  clock.Clock
	logger *slog.Logger

	freeColumn       string
	annotatedColumns []string
	noTasks          string
	timestampPrefix  string
	timestampLayout  string
	location         *time.Location
	broadcastDelay   time.Duration

	mu        sync.Mutex
	record    *syncstate.Record
	freeTasks []board.Task
}

// NewEngine validates config and returns an Engine.
func NewEngine(config EngineConfig) (*Engine, error) {
	switch {
	case config.Chat == nil:
		return nil, errors.New("boardsync: Chat is required")
	case config.Board == nil:
		return nil, errors.New("boardsync: Board is required")
	case config.Store == nil:
		return nil, errors.New("boardsync: Store is required")
	case config.Record == nil:
		return nil, errors.New("boardsync: Record is required")
	case config.Clock == nil:
		return nil, errors.New("boardsync: Clock is required")
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	location := config.Location
	if location == nil {
		location = time.UTC
	}
	layout := config.TimestampLayout
	if layout == "" {
		layout = "2006-01-02 15:04"
	}

	return &Engine{
		chat:             config.Chat,
		board:            config.Board,
		store:            config.Store,
		clock:            config.Clock,
		logger:           logger,
		freeColumn:       config.FreeColumn,
		annotatedColumns: slices.Clone(config.AnnotatedColumns),
		noTasks:          config.NoTasks,
		timestampPrefix:  config.TimestampPrefix,
		timestampLayout:  layout,
		location:         location,
		broadcastDelay:   config.BroadcastDelay,
		record:           config.Record,
	}, nil
}

// RunSync renders the board and reconciles it with the recorded
// message: edit in place when the message is still live and ours,
// otherwise post a new one and record its ID.
//
// When the new ID cannot be persisted, RunSync returns the posted
// result together with the error; the ID stays in memory so the next
// run edits the message instead of posting again.
func (e *Engine) RunSync(ctx context.Context) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.record.ChannelID == "" {
		return Result{}, ErrNoChannel
	}
	roomID, err := messaging.ResolveRoom(ctx, e.chat, e.record.ChannelID)
	if err != nil {
		return Result{}, fmt.Errorf("boardsync: resolving room %q: %w", e.record.ChannelID, err)
	}

	body := e.renderLocked(ctx)
	content := messaging.NewHTMLMessage(body, markup.MarkdownToHTML(body))

	if previous := e.record.MessageID; !previous.IsZero() {
		if e.ownsMessage(ctx, roomID, previous) {
			_, err := e.chat.EditMessage(ctx, roomID, previous, content)
			if err == nil {
				e.logger.Info("board message updated", "room_id", roomID, "event_id", previous)
				return Result{Action: ActionEdited, EventID: previous}, nil
			}
			e.logger.Warn("editing board message failed, posting a new one",
				"room_id", roomID, "event_id", previous, "error", err)
		} else {
			// Never offer a message the bot no longer owns for editing.
			e.record.MessageID = ref.EventID{}
		}
	}

	eventID, err := e.chat.SendMessage(ctx, roomID, content)
	if err != nil {
		return Result{}, fmt.Errorf("boardsync: posting board message: %w", err)
	}
	e.record.MessageID = eventID
	result := Result{Action: ActionPosted, EventID: eventID}
	e.logger.Info("board message posted", "room_id", roomID, "event_id", eventID)

	persistErr := e.store.Save(ctx, e.record)

	if e.record.AutoPin {
		if err := e.chat.PinEvent(ctx, roomID, eventID); err != nil {
			e.logger.Warn("pinning board message failed", "room_id", roomID, "event_id", eventID, "error", err)
		} else {
			e.logger.Info("board message pinned", "room_id", roomID, "event_id", eventID)
		}
	}

	if persistErr != nil {
		return result, fmt.Errorf("boardsync: persisting message id: %w", persistErr)
	}
	return result, nil
}

// renderLocked fetches every column in record order and composes the
// board message. It refreshes the free-column cache.
func (e *Engine) renderLocked(ctx context.Context) string {
	columns := e.record.Columns()
	sections := make([]Section, 0, len(columns))
	for _, column := range columns {
		tasks := e.board.FetchColumn(ctx, column.ID)
		if column.Name == e.freeColumn {
			e.freeTasks = tasks
		}
		sections = append(sections, Section{
			Name: column.Name,
			Body: RenderColumn(tasks, column.Name, e.annotatedColumns, e.noTasks),
		})
	}
	return Compose(sections, e.stamp())
}

func (e *Engine) stamp() string {
	now := e.clock.Now().In(e.location).Format(e.timestampLayout)
	if e.timestampPrefix == "" {
		return now
	}
	return e.timestampPrefix + " " + now
}

// ownsMessage reports whether eventID is a live message sent by the
// bot. Any failure to fetch it counts as stale.
func (e *Engine) ownsMessage(ctx context.Context, roomID ref.RoomID, eventID ref.EventID) bool {
	event, err := e.chat.GetEvent(ctx, roomID, eventID)
	if err != nil {
		e.logger.Warn("recorded board message unavailable", "room_id", roomID, "event_id", eventID, "error", err)
		return false
	}
	if event.Sender != e.chat.UserID() {
		e.logger.Warn("recorded board message has another sender",
			"room_id", roomID, "event_id", eventID, "sender", event.Sender)
		return false
	}
	if event.IsRedacted() {
		e.logger.Warn("recorded board message was redacted", "room_id", roomID, "event_id", eventID)
		return false
	}
	return true
}

// State returns a copy of the durable record.
func (e *Engine) State() syncstate.Record {
	e.mu.Lock()
	defer e.mu.Unlock()
	return *e.record.Clone()
}

// SetUpdating records whether the periodic loop is on. The in-memory
// value is restored if persisting fails.
func (e *Engine) SetUpdating(ctx context.Context, updating bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	previous := e.record.IsUpdating
	e.record.IsUpdating = updating
	if err := e.store.Save(ctx, e.record); err != nil {
		e.record.IsUpdating = previous
		return fmt.Errorf("boardsync: persisting update flag: %w", err)
	}
	return nil
}

// TogglePin flips auto-pinning of new board messages and returns the
// new value.
func (e *Engine) TogglePin(ctx context.Context) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.record.AutoPin = !e.record.AutoPin
	if err := e.store.Save(ctx, e.record); err != nil {
		e.record.AutoPin = !e.record.AutoPin
		return e.record.AutoPin, fmt.Errorf("boardsync: persisting auto-pin flag: %w", err)
	}
	return e.record.AutoPin, nil
}

// FreeTasks returns the free column's tasks as of the last RunSync.
func (e *Engine) FreeTasks() []board.Task {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.freeTasks)
}

// LookupTask fetches every column fresh and returns the first task
// whose title equals name under Unicode case folding.
func (e *Engine) LookupTask(ctx context.Context, name string) (board.Task, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return board.Task{}, false
	}

	e.mu.Lock()
	columns := e.record.Columns()
	e.mu.Unlock()

	for _, column := range columns {
		for _, task := range e.board.FetchColumn(ctx, column.ID) {
			if strings.EqualFold(task.Title, name) {
				return task, true
			}
		}
	}
	return board.Task{}, false
}

// Broadcast sends the training texts to the target room in order,
// waiting BroadcastDelay between fragments. A fragment that fails to
// send is logged and skipped. Returns the number of fragments sent.
func (e *Engine) Broadcast(ctx context.Context) (int, error) {
	e.mu.Lock()
	channel := e.record.ChannelID
	texts := slices.Clone(e.record.TrainingTexts)
	e.mu.Unlock()

	if channel == "" {
		return 0, ErrNoChannel
	}
	if len(texts) == 0 {
		return 0, ErrNoTrainingText
	}
	roomID, err := messaging.ResolveRoom(ctx, e.chat, channel)
	if err != nil {
		return 0, fmt.Errorf("boardsync: resolving room %q: %w", channel, err)
	}

	sent := 0
	for i, text := range texts {
		if i > 0 && e.broadcastDelay > 0 {
			e.clock.Sleep(e.broadcastDelay)
		}
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		content := messaging.NewHTMLMessage(text, markup.MarkdownToHTML(text))
		if _, err := e.chat.SendMessage(ctx, roomID, content); err != nil {
			e.logger.Error("sending training text failed", "room_id", roomID, "fragment", i, "error", err)
			continue
		}
		sent++
	}
	e.logger.Info("training texts sent", "room_id", roomID, "sent", sent, "total", len(texts))
	return sent, nil
}
