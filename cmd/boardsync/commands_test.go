// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/bureau-foundation/boardsync/lib/boardsync"
	"github.com/bureau-foundation/boardsync/lib/config"
	"github.com/bureau-foundation/boardsync/messaging"
)

func TestSendListThenUpdateList(t *testing.T) {
	tb := newTestBot(t, testRecord(), botOptions{})
	messages := config.Default().Messages

	tb.say(t, operatorID, "!send-list")
	if got := tb.lastNotice(t); got != messages.Synced {
		t.Fatalf("reply = %q, want %q", got, messages.Synced)
	}
	first := tb.engine.State().MessageID
	if first.IsZero() {
		t.Fatal("message_id not recorded after send-list")
	}
	saved, _ := tb.store.Load(context.Background())
	if saved.MessageID != first {
		t.Errorf("persisted message_id = %s, want %s", saved.MessageID, first)
	}

	var board messaging.MessageContent
	for _, message := range tb.session.messages() {
		if message.content.MsgType == messaging.MsgTypeText {
			board = message.content
		}
	}
	for _, want := range []string{"## Свободные", "Fix bug", "## В процессе выполнения", "Write docs"} {
		if !strings.Contains(board.Body, want) {
			t.Errorf("board message missing %q:\n%s", want, board.Body)
		}
	}

	before := len(tb.session.messages())
	tb.say(t, operatorID, "!update-list")
	if got := tb.lastNotice(t); got != messages.Synced {
		t.Errorf("reply = %q, want %q", got, messages.Synced)
	}
	if after := len(tb.session.messages()); after != before+1 {
		t.Errorf("update-list sent %d messages, want only the reply", after-before)
	}
	if got := tb.engine.State().MessageID; got != first {
		t.Errorf("message_id changed to %s after edit", got)
	}
}

func TestTaskDesc(t *testing.T) {
	messages := config.Default().Messages
	tests := []struct {
		name string
		body string
		want func(string) bool
	}{
		{"usage", "!task-desc", func(reply string) bool { return reply == messages.TaskUsage }},
		{"not found", "!task-desc Nonexistent", func(reply string) bool { return reply == messages.TaskNotFound }},
		{"found", "!task-desc fix bug", func(reply string) bool {
			return strings.HasPrefix(reply, "**Fix bug**\n\n") && strings.Contains(reply, "**reproduce**")
		}},
		{"no description", "!task-desc Write docs", func(reply string) bool {
			return reply == "**Write docs**\n\n"+messages.NoDescription
		}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			tb := newTestBot(t, testRecord(), botOptions{})
			tb.say(t, operatorID, test.body)
			if got := tb.lastNotice(t); !test.want(got) {
				t.Errorf("reply = %q", got)
			}
		})
	}
}

func TestStartStopUpdate(t *testing.T) {
	tb := newTestBot(t, testRecord(), botOptions{})
	messages := config.Default().Messages

	tb.say(t, operatorID, "!start-update")
	if got := tb.lastNotice(t); got != messages.LoopStarted {
		t.Errorf("first start reply = %q, want %q", got, messages.LoopStarted)
	}
	if !tb.scheduler.Running() {
		t.Error("scheduler not running after start-update")
	}

	tb.say(t, operatorID, "!start-update")
	if got := tb.lastNotice(t); got != messages.AlreadyRunning {
		t.Errorf("second start reply = %q, want %q", got, messages.AlreadyRunning)
	}

	tb.say(t, operatorID, "!stop-update")
	if got := tb.lastNotice(t); got != messages.LoopStopped {
		t.Errorf("stop reply = %q, want %q", got, messages.LoopStopped)
	}
	if tb.scheduler.Running() {
		t.Error("scheduler still running after stop-update")
	}
	saved, _ := tb.store.Load(context.Background())
	if saved.IsUpdating {
		t.Error("is_updating persisted as true after stop-update")
	}
}

func TestAutoPinToggles(t *testing.T) {
	tb := newTestBot(t, testRecord(), botOptions{})
	messages := config.Default().Messages

	for _, want := range []string{messages.PinEnabled, messages.PinDisabled, messages.PinEnabled} {
		tb.say(t, operatorID, "!auto-pin")
		if got := tb.lastNotice(t); got != want {
			t.Errorf("reply = %q, want %q", got, want)
		}
	}
}

func TestTextTrain(t *testing.T) {
	messages := config.Default().Messages

	t.Run("sends every text", func(t *testing.T) {
		tb := newTestBot(t, testRecord(), botOptions{})
		tb.say(t, operatorID, "!text-train")

		var texts []string
		for _, message := range tb.session.messages() {
			if message.content.MsgType == messaging.MsgTypeText {
				texts = append(texts, message.content.Body)
			}
		}
		if fmt.Sprint(texts) != "[Welcome Rules]" {
			t.Errorf("training texts = %v, want [Welcome Rules]", texts)
		}
		if got := tb.lastNotice(t); got != messages.BroadcastDone {
			t.Errorf("reply = %q, want %q", got, messages.BroadcastDone)
		}
	})

	t.Run("no texts", func(t *testing.T) {
		record := testRecord()
		record.TrainingTexts = nil
		tb := newTestBot(t, record, botOptions{})
		tb.say(t, operatorID, "!text-train")
		if got := tb.lastNotice(t); got != messages.NoTrainingText {
			t.Errorf("reply = %q, want %q", got, messages.NoTrainingText)
		}
	})
}

func TestCommandFailureReplies(t *testing.T) {
	messages := config.Default().Messages
	tests := []struct {
		name string
		run  func(context.Context, commandRequest) (string, error)
	}{
		{"error", func(context.Context, commandRequest) (string, error) {
			return "", errors.New("token=secret")
		}},
		{"panic", func(context.Context, commandRequest) (string, error) {
			panic("boom")
		}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			tb := newTestBot(t, testRecord(), botOptions{})
			tb.commands["explode"] = command{run: test.run}

			tb.say(t, operatorID, "!explode")
			got := tb.lastNotice(t)
			if got != messages.CommandFailed {
				t.Errorf("reply = %q, want %q", got, messages.CommandFailed)
			}
			if strings.Contains(got, "secret") {
				t.Error("error detail leaked into the reply")
			}
		})
	}
}

func TestHelpListsCommands(t *testing.T) {
	tb := newTestBot(t, testRecord(), botOptions{})
	tb.say(t, operatorID, "!help")

	reply := tb.lastNotice(t)
	for _, name := range tb.commandOrder {
		if !strings.Contains(reply, "`!"+name) {
			t.Errorf("help is missing %q:\n%s", name, reply)
		}
	}
	if !strings.Contains(reply, "`!task-desc <task name>`") {
		t.Errorf("help is missing task-desc usage:\n%s", reply)
	}
}

func TestErrorReply(t *testing.T) {
	tb := newTestBot(t, testRecord(), botOptions{})
	messages := config.Default().Messages

	tests := []struct {
		err    error
		want   string
		wantOK bool
	}{
		{boardsync.ErrNoChannel, messages.NoChannel, true},
		{fmt.Errorf("wrapped: %w", boardsync.ErrNoTrainingText), messages.NoTrainingText, true},
		{errors.New("other"), "", false},
	}
	for _, test := range tests {
		got, ok := tb.errorReply(test.err)
		if got != test.want || ok != test.wantOK {
			t.Errorf("errorReply(%v) = (%q, %v), want (%q, %v)", test.err, got, ok, test.want, test.wantOK)
		}
	}
}
