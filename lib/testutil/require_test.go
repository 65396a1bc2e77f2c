// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"fmt"
	"testing"
	"time"
)

// recordingT captures Fatalf calls. Fatalf panics so the helper's
// control flow stops the way t.Fatalf stops a goroutine.
type recordingT struct {
	message string
}

func (r *recordingT) Helper() {}

func (r *recordingT) Fatalf(format string, args ...any) {
	r.message = fmt.Sprintf(format, args...)
	panic(r)
}

func expectFatal(t *testing.T, recorder *recordingT, call func()) {
	t.Helper()
	defer func() {
		if recovered := recover(); recovered != recorder {
			t.Fatalf("expected Fatalf, recovered %v", recovered)
		}
	}()
	call()
}

func TestRequireReceive(t *testing.T) {
	ch := make(chan int, 1)
	ch <- 7
	if got := RequireReceive(t, ch, time.Second, "buffered value"); got != 7 {
		t.Errorf("RequireReceive = %d, want 7", got)
	}

	recorder := &recordingT{}
	closed := make(chan int)
	close(closed)
	expectFatal(t, recorder, func() { RequireReceive(recorder, closed, time.Second, "closed %s", "channel") })
	if recorder.message != "channel closed without sending a value: closed channel" {
		t.Errorf("message = %q", recorder.message)
	}
}

func TestRequireClosedTimeout(t *testing.T) {
	recorder := &recordingT{}
	expectFatal(t, recorder, func() { RequireClosed(recorder, make(chan struct{}), time.Millisecond) })
	if recorder.message == "" {
		t.Error("expected a timeout message")
	}
}
