// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package board

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError represents a non-200 response from the board API.
type APIError struct {
	// StatusCode is the HTTP response status code.
	StatusCode int

	// Body is a truncated copy of the response body.
	Body string
}

func (err *APIError) Error() string {
	if err.Body == "" {
		return fmt.Sprintf("board: HTTP %d", err.StatusCode)
	}
	return fmt.Sprintf("board: HTTP %d: %s", err.StatusCode, err.Body)
}

// IsUnauthorized reports whether err is a 401 or 403 response, which
// means the API key is wrong or lacks access to the column.
func IsUnauthorized(err error) bool {
	var apiError *APIError
	return errors.As(err, &apiError) &&
		(apiError.StatusCode == http.StatusUnauthorized || apiError.StatusCode == http.StatusForbidden)
}

// errEmptyBody is returned by fetch when a 200 response has no body.
var errEmptyBody = errors.New("board: empty response body")
