// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package syncstate

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/bureau-foundation/boardsync/lib/ref"
)

const handEdited = `{
  // the space the bot serves
  "guild_id": "!space:example.org",
  "channel_id": "#tasks:example.org",
  "is_updating": true,
  "auto_pin": false,
  "column_ids": {
    "Свободные": "col-free",
    "В процессе выполнения": "col-progress",
    "Готово": "col-done", /* trailing comma below */
  },
  "flags": {"greeting": ["hello", "привет"]},
  "responses": {"greeting": "Hi there"},
  "training_texts": ["one", "two"],
}`

func TestDecode_HandEditedRecord(t *testing.T) {
	record, err := Decode([]byte(handEdited))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if record.GuildID != ref.MustParseRoomID("!space:example.org") {
		t.Errorf("GuildID = %v", record.GuildID)
	}
	if record.ChannelID != "#tasks:example.org" {
		t.Errorf("ChannelID = %q", record.ChannelID)
	}
	if !record.MessageID.IsZero() {
		t.Errorf("MessageID = %v, want zero", record.MessageID)
	}
	if !record.IsUpdating || record.AutoPin {
		t.Errorf("toggles = %v/%v", record.IsUpdating, record.AutoPin)
	}

	want := []Column{
		{Name: "Свободные", ID: "col-free"},
		{Name: "В процессе выполнения", ID: "col-progress"},
		{Name: "Готово", ID: "col-done"},
	}
	if got := record.Columns(); !slices.Equal(got, want) {
		t.Errorf("Columns = %v, want %v", got, want)
	}
	if !slices.Equal(record.TrainingTexts, []string{"one", "two"}) {
		t.Errorf("TrainingTexts = %v", record.TrainingTexts)
	}
}

func TestDecode_Malformed(t *testing.T) {
	if _, err := Decode([]byte(`{"channel_id": `)); err == nil {
		t.Fatal("expected error for truncated record")
	}
	if _, err := Decode([]byte(`{"message_id": "not-an-event"}`)); err == nil {
		t.Fatal("expected error for malformed event ID")
	}
}

func TestEncode_KeepsColumnOrderAndIndent(t *testing.T) {
	record := NewRecord()
	record.ColumnIDs.Set("zeta", "1")
	record.ColumnIDs.Set("alpha", "2")

	data, err := Encode(record)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	text := string(data)
	if strings.Index(text, `"zeta"`) > strings.Index(text, `"alpha"`) {
		t.Errorf("column order not preserved:\n%s", text)
	}
	if !strings.Contains(text, "\n  \"channel_id\"") {
		t.Errorf("expected 2-space indentation:\n%s", text)
	}
	if strings.Contains(text, "message_id") {
		t.Errorf("zero message_id should be omitted:\n%s", text)
	}
	if !strings.HasSuffix(text, "}\n") {
		t.Errorf("expected trailing newline")
	}
}

func TestClone_IsDeep(t *testing.T) {
	record, err := Decode([]byte(handEdited))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	clone := record.Clone()

	clone.ColumnIDs.Set("Extra", "x")
	clone.Flags["greeting"][0] = "changed"
	clone.Responses["greeting"] = "changed"
	clone.TrainingTexts[0] = "changed"

	if record.ColumnIDs.Len() != 3 {
		t.Error("clone shares column map")
	}
	if record.Flags["greeting"][0] != "hello" {
		t.Error("clone shares flag keywords")
	}
	if record.Responses["greeting"] != "Hi there" {
		t.Error("clone shares responses")
	}
	if record.TrainingTexts[0] != "one" {
		t.Error("clone shares training texts")
	}
}

// storeRoundTrip exercises Load and Save against any backend.
func storeRoundTrip(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	empty, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load on empty store: %v", err)
	}
	if empty.ChannelID != "" || empty.ColumnIDs.Len() != 0 {
		t.Fatalf("empty store returned %+v", empty)
	}

	record, err := Decode([]byte(handEdited))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	record.MessageID = ref.MustParseEventID("$board:example.org")
	record.AutoPin = true
	if err := store.Save(ctx, record); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.MessageID != record.MessageID {
		t.Errorf("MessageID = %v, want %v", loaded.MessageID, record.MessageID)
	}
	if !loaded.AutoPin {
		t.Error("AutoPin not persisted")
	}
	if !slices.Equal(loaded.Columns(), record.Columns()) {
		t.Errorf("Columns = %v, want %v", loaded.Columns(), record.Columns())
	}
	if !slices.Equal(loaded.Flags["greeting"], []string{"hello", "привет"}) {
		t.Errorf("Flags = %v", loaded.Flags)
	}
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot_config.json")
	store := NewFileStore(path)
	storeRoundTrip(t, store)

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temporary file left behind: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}
}

func TestFileStore_LoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot_config.json")
	if err := os.WriteFile(path, []byte("{"), 0600); err != nil {
		t.Fatal(err)
	}
	_, err := NewFileStore(path).Load(context.Background())
	if err == nil || !strings.Contains(err.Error(), path) {
		t.Fatalf("Load error = %v, want one naming %s", err, path)
	}
}

func TestFileStore_SaveMissingDirectory(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "missing", "bot_config.json"))
	if err := store.Save(context.Background(), NewRecord()); err == nil {
		t.Fatal("expected error when the parent directory is missing")
	}
}

func TestRedisStore(t *testing.T) {
	server, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(server.Close)

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })

	storeRoundTrip(t, NewRedisStore(client, "boardsync:state"))

	stored, err := server.Get("boardsync:state")
	if err != nil {
		t.Fatalf("miniredis Get: %v", err)
	}
	if !strings.Contains(stored, `"message_id": "$board:example.org"`) {
		t.Errorf("stored value missing message_id:\n%s", stored)
	}
}

func TestRedisStore_Unreachable(t *testing.T) {
	server, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: server.Addr(), MaxRetries: -1})
	t.Cleanup(func() { client.Close() })
	server.Close()

	if _, err := NewRedisStore(client, "k").Load(context.Background()); err == nil {
		t.Fatal("expected error from closed redis")
	}
}
