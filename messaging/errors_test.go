// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestRetryAfter(t *testing.T) {
	var limited MatrixError
	if err := json.Unmarshal([]byte(`{"errcode":"M_LIMIT_EXCEEDED","error":"Too many requests","retry_after_ms":2500}`), &limited); err != nil {
		t.Fatal(err)
	}
	limited.StatusCode = 429

	tests := []struct {
		name   string
		err    error
		want   time.Duration
		wantOK bool
	}{
		{"wrapped rate limit", fmt.Errorf("sync: %w", &limited), 2500 * time.Millisecond, true},
		{"rate limit without hint", &MatrixError{Code: ErrCodeLimitExceeded}, 0, false},
		{"other code", &MatrixError{Code: ErrCodeForbidden, RetryAfterMS: 100}, 0, false},
		{"plain error", errors.New("timeout"), 0, false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, ok := RetryAfter(test.err)
			if got != test.want || ok != test.wantOK {
				t.Errorf("RetryAfter = (%v, %v), want (%v, %v)", got, ok, test.want, test.wantOK)
			}
		})
	}
}

func TestMatrixErrorMessage(t *testing.T) {
	withMessage := &MatrixError{Code: ErrCodeNotFound, Message: "Event not found", StatusCode: 404}
	if got := withMessage.Error(); got != "matrix: M_NOT_FOUND (HTTP 404): Event not found" {
		t.Errorf("Error() = %q", got)
	}
	bare := &MatrixError{Code: ErrCodeUnknown, StatusCode: 500}
	if got := bare.Error(); got != "matrix: M_UNKNOWN (HTTP 500)" {
		t.Errorf("Error() = %q", got)
	}
}
