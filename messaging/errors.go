// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"errors"
	"fmt"
	"time"
)

// Matrix error codes the bridge distinguishes.
const (
	ErrCodeForbidden     = "M_FORBIDDEN"
	ErrCodeUnknownToken  = "M_UNKNOWN_TOKEN"
	ErrCodeNotFound      = "M_NOT_FOUND"
	ErrCodeLimitExceeded = "M_LIMIT_EXCEEDED"
	ErrCodeUnknown       = "M_UNKNOWN"
)

// MatrixError is the standard error body of a failed client-server
// API request, plus the HTTP status it came with. Extract it with
// errors.As, or test a code with IsMatrixError.
type MatrixError struct {
	Code    string `json:"errcode"`
	Message string `json:"error"`

	// RetryAfterMS accompanies M_LIMIT_EXCEEDED.
	RetryAfterMS int64 `json:"retry_after_ms,omitempty"`

	StatusCode int `json:"-"`
}

func (e *MatrixError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("matrix: %s (HTTP %d)", e.Code, e.StatusCode)
	}
	return fmt.Sprintf("matrix: %s (HTTP %d): %s", e.Code, e.StatusCode, e.Message)
}

// IsMatrixError reports whether err wraps a *MatrixError with code.
func IsMatrixError(err error, code string) bool {
	var matrixErr *MatrixError
	return errors.As(err, &matrixErr) && matrixErr.Code == code
}

// RetryAfter returns the server's requested delay when err is a rate
// limit carrying one.
func RetryAfter(err error) (time.Duration, bool) {
	var matrixErr *MatrixError
	if !errors.As(err, &matrixErr) || matrixErr.Code != ErrCodeLimitExceeded || matrixErr.RetryAfterMS <= 0 {
		return 0, false
	}
	return time.Duration(matrixErr.RetryAfterMS) * time.Millisecond, true
}
