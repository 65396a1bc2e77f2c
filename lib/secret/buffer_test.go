// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"os"
	"testing"
)

func TestNew_ValidSize(t *testing.T) {
	buffer, err := New(64)
	if err != nil {
		t.Fatalf("New(64) failed: %v", err)
	}
	defer buffer.Close()

	if buffer.Len() != 64 {
		t.Errorf("expected length 64, got %d", buffer.Len())
	}
	for index, value := range buffer.Bytes() {
		if value != 0 {
			t.Fatalf("expected zero at index %d, got %d", index, value)
		}
	}
}

func TestNew_InvalidSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		if _, err := New(size); err == nil {
			t.Errorf("New(%d): expected error", size)
		}
	}
}

func TestNewFromBytes_ZerosSource(t *testing.T) {
	source := []byte("syt_bot_token")

	buffer, err := NewFromBytes(source)
	if err != nil {
		t.Fatalf("NewFromBytes failed: %v", err)
	}
	defer buffer.Close()

	if got := buffer.String(); got != "syt_bot_token" {
		t.Errorf("String() = %q", got)
	}
	for index, value := range source {
		if value != 0 {
			t.Fatalf("source not zeroed at index %d", index)
		}
	}
}

func TestNewFromBytes_Empty(t *testing.T) {
	if _, err := NewFromBytes(nil); err == nil {
		t.Fatal("expected error for empty source")
	}
}

func TestClose_IdempotentAndPanicsAfter(t *testing.T) {
	buffer, err := NewFromString("token")
	if err != nil {
		t.Fatalf("NewFromString failed: %v", err)
	}
	if err := buffer.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := buffer.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Error("expected panic reading closed buffer")
		}
	}()
	_ = buffer.String()
}

func TestFromEnv(t *testing.T) {
	t.Setenv("BOARDSYNC_TEST_TOKEN", "  yougile-key \n")

	buffer, err := FromEnv("BOARDSYNC_TEST_TOKEN")
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	defer buffer.Close()

	if got := buffer.String(); got != "yougile-key" {
		t.Errorf("String() = %q, want trimmed value", got)
	}
	if _, present := os.LookupEnv("BOARDSYNC_TEST_TOKEN"); present {
		t.Error("variable should be unset after FromEnv")
	}
}

func TestFromEnv_Missing(t *testing.T) {
	t.Setenv("BOARDSYNC_TEST_TOKEN", " ")
	if _, err := FromEnv("BOARDSYNC_TEST_TOKEN"); err == nil {
		t.Fatal("expected error for blank variable")
	}
}
