// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package boardsync

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/bureau-foundation/boardsync/lib/board"
	"github.com/bureau-foundation/boardsync/lib/clock"
	"github.com/bureau-foundation/boardsync/lib/ref"
	"github.com/bureau-foundation/boardsync/lib/syncstate"
	"github.com/bureau-foundation/boardsync/messaging"
)

var (
	botUserID   = ref.MustParseUserID("@bot:example.org")
	targetRoom  = ref.MustParseRoomID("!c1:example.org")
	testEpoch   = time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)
	annotations = []string{"В процессе выполнения", "Проверяются и дорабатываются"}
)

// sentMessage is one message the fake chat accepted.
type sentMessage struct {
	roomID  ref.RoomID
	eventID ref.EventID
	content messaging.MessageContent
}

// fakeChat is an in-memory Matrix room. Messages it sends are
// retrievable through GetEvent until removed.
type fakeChat struct {
	mu      sync.Mutex
	events  map[ref.EventID]*messaging.Event
	sent    []sentMessage
	edits   []sentMessage
	pins    []ref.EventID
	counter int

	// joinFailures makes the next n JoinRoom calls fail.
	joinFailures int
	sendErr      error
	editErr      error
	pinErr       error
	// failBodies makes SendMessage fail for these bodies.
	failBodies map[string]bool

	// posted receives the ID of every successful SendMessage.
	posted chan ref.EventID

	// edited receives the original ID of every successful EditMessage.
	edited chan ref.EventID

	// joinAttempts receives a value on every JoinRoom call.
	joinAttempts chan struct{}
}

func newFakeChat() *fakeChat {
	return &fakeChat{
		events:       make(map[ref.EventID]*messaging.Event),
		failBodies:   make(map[string]bool),
		posted:       make(chan ref.EventID, 64),
		edited:       make(chan ref.EventID, 64),
		joinAttempts: make(chan struct{}, 64),
	}
}

func (c *fakeChat) UserID() ref.UserID { return botUserID }

func (c *fakeChat) ResolveAlias(_ context.Context, alias ref.RoomAlias) (ref.RoomID, error) {
	if alias.String() == "#tasks:example.org" {
		return targetRoom, nil
	}
	return ref.RoomID{}, &messaging.MatrixError{Code: messaging.ErrCodeNotFound, StatusCode: http.StatusNotFound}
}

func (c *fakeChat) JoinRoom(_ context.Context, roomID ref.RoomID) (ref.RoomID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	select {
	case c.joinAttempts <- struct{}{}:
	default:
	}
	if c.joinFailures > 0 {
		c.joinFailures--
		return ref.RoomID{}, errors.New("join refused")
	}
	return roomID, nil
}

func (c *fakeChat) SendMessage(_ context.Context, roomID ref.RoomID, content messaging.MessageContent) (ref.EventID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sendErr != nil {
		return ref.EventID{}, c.sendErr
	}
	if c.failBodies[content.Body] {
		return ref.EventID{}, fmt.Errorf("send of %q refused", content.Body)
	}
	c.counter++
	eventID := ref.MustParseEventID(fmt.Sprintf("$event%d", c.counter))
	c.events[eventID] = &messaging.Event{
		EventID: eventID,
		Type:    messaging.EventTypeMessage,
		Sender:  botUserID,
		RoomID:  roomID,
		Content: map[string]any{"msgtype": content.MsgType, "body": content.Body},
	}
	c.sent = append(c.sent, sentMessage{roomID: roomID, eventID: eventID, content: content})
	select {
	case c.posted <- eventID:
	default:
	}
	return eventID, nil
}

func (c *fakeChat) EditMessage(_ context.Context, roomID ref.RoomID, original ref.EventID, replacement messaging.MessageContent) (ref.EventID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.editErr != nil {
		return ref.EventID{}, c.editErr
	}
	c.counter++
	eventID := ref.MustParseEventID(fmt.Sprintf("$edit%d", c.counter))
	c.edits = append(c.edits, sentMessage{roomID: roomID, eventID: original, content: replacement})
	select {
	case c.edited <- original:
	default:
	}
	return eventID, nil
}

func (c *fakeChat) GetEvent(_ context.Context, _ ref.RoomID, eventID ref.EventID) (*messaging.Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	event, ok := c.events[eventID]
	if !ok {
		return nil, &messaging.MatrixError{Code: messaging.ErrCodeNotFound, StatusCode: http.StatusNotFound, Message: "Event not found"}
	}
	copied := *event
	return &copied, nil
}

func (c *fakeChat) PinEvent(_ context.Context, _ ref.RoomID, eventID ref.EventID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pinErr != nil {
		return c.pinErr
	}
	c.pins = append(c.pins, eventID)
	return nil
}

// putEvent stores an arbitrary event, e.g. a foreign or redacted one.
func (c *fakeChat) putEvent(event messaging.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events[event.EventID] = &event
}

func (c *fakeChat) sentCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sent)
}

func (c *fakeChat) editCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.edits)
}

func (c *fakeChat) lastSent() sentMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sent[len(c.sent)-1]
}

// fakeBoard serves fixed task lists per column ID.
type fakeBoard struct {
	mu      sync.Mutex
	columns map[string][]board.Task
	fetches int

	// When block is non-nil, FetchColumn signals fetching and then
	// waits until block is closed.
	block    chan struct{}
	fetching chan struct{}
}

func (b *fakeBoard) FetchColumn(_ context.Context, columnID string) []board.Task {
	b.mu.Lock()
	block, fetching := b.block, b.fetching
	b.mu.Unlock()
	if block != nil {
		select {
		case fetching <- struct{}{}:
		default:
		}
		<-block
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.fetches++
	return b.columns[columnID]
}

// gate makes every following FetchColumn block until the returned
// release function is called.
func (b *fakeBoard) gate() (fetching <-chan struct{}, release func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.block = make(chan struct{})
	b.fetching = make(chan struct{}, 64)
	block := b.block
	var once sync.Once
	return b.fetching, func() { once.Do(func() { close(block) }) }
}

func (b *fakeBoard) fetchCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.fetches
}

// memoryStore is a syncstate.Store that keeps the last saved record.
type memoryStore struct {
	mu      sync.Mutex
	saved   *syncstate.Record
	saves   int
	saveErr error
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
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves++
	s.saved = record.Clone()
	return nil
}

func (s *memoryStore) last() *syncstate.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saved
}

func (s *memoryStore) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// fixture bundles an engine with its fakes.
type fixture struct {
	engine *Engine
	chat   *fakeChat
	board  *fakeBoard
	store  *memoryStore
	clock  *clock.FakeClock
}

// newFixture builds an engine over record. columns is a list of
// name, ID pairs in display order.
func newFixture(t *testing.T, record *syncstate.Record, columns ...string) *fixture {
	t.Helper()
	if len(columns)%2 != 0 {
		t.Fatal("columns must be name, ID pairs")
	}
	for i := 0; i < len(columns); i += 2 {
		record.ColumnIDs.Set(columns[i], columns[i+1])
	}

	f := &fixture{
		chat:  newFakeChat(),
		board: &fakeBoard{columns: make(map[string][]board.Task)},
		store: &memoryStore{},
		clock: clock.Fake(testEpoch),
	}
	engine, err := NewEngine(EngineConfig{
		Chat:             f.chat,
		Board:            f.board,
		Store:            f.store,
		Record:           record,
		Clock:            f.clock,
		FreeColumn:       "Свободные",
		AnnotatedColumns: annotations,
		NoTasks:          "No tasks.",
		TimestampPrefix:  "Updated",
		TimestampLayout:  "2006-01-02 15:04",
		BroadcastDelay:   time.Second,
	})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	f.engine = engine
	return f
}

// recordFor returns an empty record targeting channel.
func recordFor(channel string) *syncstate.Record {
	record := syncstate.NewRecord()
	record.ChannelID = channel
	return record
}

func tasks(titles ...string) []board.Task {
	list := make([]board.Task, 0, len(titles))
	for i, title := range titles {
		list = append(list, board.Task{ID: fmt.Sprintf("task-%d", i), Title: title})
	}
	return list
}
