// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/bureau-foundation/boardsync/lib/board"
	"github.com/bureau-foundation/boardsync/lib/boardsync"
	"github.com/bureau-foundation/boardsync/lib/clock"
	"github.com/bureau-foundation/boardsync/lib/config"
	"github.com/bureau-foundation/boardsync/lib/ref"
	"github.com/bureau-foundation/boardsync/lib/responder"
	"github.com/bureau-foundation/boardsync/lib/syncstate"
	"github.com/bureau-foundation/boardsync/messaging"
)

var (
	botID      = ref.MustParseUserID("@board:example.org")
	operatorID = ref.MustParseUserID("@lead:example.org")
	strangerID = ref.MustParseUserID("@guest:example.org")
	taskRoom   = ref.MustParseRoomID("!tasks:example.org")
	spaceRoom  = ref.MustParseRoomID("!space:example.org")
)

// fakeSession is an in-memory homeserver for one bot account.
type fakeSession struct {
	mu      sync.Mutex
	joined  []ref.RoomID
	sent    []fakeMessage
	events  map[ref.EventID]*messaging.Event
	counter int
}

type fakeMessage struct {
	roomID  ref.RoomID
	content messaging.MessageContent
}

func newFakeSession(joined ...ref.RoomID) *fakeSession {
	return &fakeSession{joined: joined, events: make(map[ref.EventID]*messaging.Event)}
}

func (s *fakeSession) UserID() ref.UserID { return botID }

func (s *fakeSession) ResolveAlias(_ context.Context, alias ref.RoomAlias) (ref.RoomID, error) {
	if alias.String() == "#tasks:example.org" {
		return taskRoom, nil
	}
	return ref.RoomID{}, &messaging.MatrixError{Code: messaging.ErrCodeNotFound, StatusCode: http.StatusNotFound}
}

func (s *fakeSession) JoinRoom(_ context.Context, roomID ref.RoomID) (ref.RoomID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !slices.Contains(s.joined, roomID) {
		s.joined = append(s.joined, roomID)
	}
	return roomID, nil
}

func (s *fakeSession) JoinedRooms(context.Context) ([]ref.RoomID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.joined), nil
}

func (s *fakeSession) SendMessage(_ context.Context, roomID ref.RoomID, content messaging.MessageContent) (ref.EventID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counter++
	eventID := ref.MustParseEventID(fmt.Sprintf("$sent%d", s.counter))
	s.events[eventID] = &messaging.Event{
		EventID: eventID,
		Type:    messaging.EventTypeMessage,
		Sender:  botID,
		Content: map[string]any{"msgtype": content.MsgType, "body": content.Body},
	}
	s.sent = append(s.sent, fakeMessage{roomID: roomID, content: content})
	return eventID, nil
}

func (s *fakeSession) EditMessage(context.Context, ref.RoomID, ref.EventID, messaging.MessageContent) (ref.EventID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counter++
	return ref.MustParseEventID(fmt.Sprintf("$edit%d", s.counter)), nil
}

func (s *fakeSession) GetEvent(_ context.Context, _ ref.RoomID, eventID ref.EventID) (*messaging.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if event, ok := s.events[eventID]; ok {
		copied := *event
		return &copied, nil
	}
	return nil, &messaging.MatrixError{Code: messaging.ErrCodeNotFound, StatusCode: http.StatusNotFound}
}

func (s *fakeSession) PinEvent(context.Context, ref.RoomID, ref.EventID) error { return nil }

func (s *fakeSession) messages() []fakeMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.sent)
}

// notices returns the bodies of every m.notice sent so far.
func (s *fakeSession) notices() []string {
	var bodies []string
	for _, message := range s.messages() {
		if message.content.MsgType == messaging.MsgTypeNotice {
			bodies = append(bodies, message.content.Body)
		}
	}
	return bodies
}

type fakeBoard struct {
	columns map[string][]board.Task
}

func (b *fakeBoard) FetchColumn(_ context.Context, columnID string) []board.Task {
	return b.columns[columnID]
}

type memoryStore struct {
	mu    sync.Mutex
	saved *syncstate.Record
}

func (s *memoryStore) Load(context.Context) (*syncstate.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saved == nil {
		return syncstate.NewRecord(), nil
	}
	return s.saved.Clone(), nil
}

func (s *memoryStore) Save(_ context.Context, record *syncstate.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = record.Clone()
	return nil
}

// testBot bundles a prepared bot with its fakes.
type testBot struct {
	*bot
	session   *fakeSession
	board     *fakeBoard
	store     *memoryStore
	scheduler *boardsync.Scheduler
}

type botOptions struct {
	operators []string
	// notInGuild leaves the guild out of the joined rooms.
	notInGuild bool
}

// testRecord is the record used by most bot tests.
func testRecord() *syncstate.Record {
	record := syncstate.NewRecord()
	record.GuildID = spaceRoom
	record.ChannelID = "#tasks:example.org"
	record.ColumnIDs.Set("Свободные", "col-free")
	record.ColumnIDs.Set("В процессе выполнения", "col-progress")
	record.Flags = map[string][]string{"greeting": {"hello", "привет"}}
	record.Responses = map[string]string{"greeting": "Hi there"}
	record.TrainingTexts = []string{"Welcome", "Rules"}
	return record
}

func newTestBot(t *testing.T, record *syncstate.Record, options botOptions) *testBot {
	t.Helper()

	joined := []ref.RoomID{taskRoom}
	if !options.notInGuild {
		joined = append(joined, spaceRoom)
	}
	session := newFakeSession(joined...)
	boardFake := &fakeBoard{columns: map[string][]board.Task{
		"col-free": {{ID: "t1", Title: "Fix bug", Description: "<p>Steps to <strong>reproduce</strong></p>"}},
		"col-progress": {{ID: "t2", Title: "Write docs"}},
	}}
	store := &memoryStore{}
	fakeClock := clock.Fake(time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC))
	logger := slog.New(slog.DiscardHandler)

	engine, err := boardsync.NewEngine(boardsync.EngineConfig{
		Chat:       session,
		Board:      boardFake,
		Store:      store,
		Record:     record,
		Clock:      fakeClock,
		Logger:     logger,
		FreeColumn: "Свободные",
		NoTasks:    "No tasks.",
	})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	scheduler := boardsync.NewScheduler(engine, time.Hour, fakeClock, logger)
	t.Cleanup(scheduler.Close)

	cfg := config.Default()
	cfg.Commands.Operators = options.operators
	b, err := newBot(botConfig{
		Chat:      session,
		Engine:    engine,
		Scheduler: scheduler,
		Responder: responder.New(record.Flags, record.Responses, cfg.Messages.Unrecognized),
		Commands:  cfg.Commands,
		Messages:  cfg.Messages,
		Logger:    logger,
	})
	if err != nil {
		t.Fatalf("newBot: %v", err)
	}
	if err := b.prepare(context.Background()); err != nil {
		t.Fatalf("prepare: %v", err)
	}

	return &testBot{bot: b, session: session, board: boardFake, store: store, scheduler: scheduler}
}

// say delivers a text message from sender to the target room through
// handleSync and waits for any command it started.
func (tb *testBot) say(t *testing.T, sender ref.UserID, body string) {
	t.Helper()
	tb.deliver(t, messaging.Event{
		EventID: ref.MustParseEventID(fmt.Sprintf("$in-%d", time.Now().UnixNano())),
		Type:    messaging.EventTypeMessage,
		Sender:  sender,
		Content: map[string]any{"msgtype": messaging.MsgTypeText, "body": body},
	})
}

func (tb *testBot) deliver(t *testing.T, event messaging.Event) {
	t.Helper()
	tb.handleSync(context.Background(), &messaging.SyncResponse{
		NextBatch: "s2",
		Rooms: messaging.RoomsSection{
			Join: map[ref.RoomID]messaging.JoinedRoom{
				taskRoom: {Timeline: messaging.TimelineSection{Events: []messaging.Event{event}}},
			},
		},
	})
	tb.wait()
}

// lastNotice returns the most recent notice body, failing if none.
func (tb *testBot) lastNotice(t *testing.T) string {
	t.Helper()
	notices := tb.session.notices()
	if len(notices) == 0 {
		t.Fatal("no notice sent")
	}
	return notices[len(notices)-1]
}
