// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package board

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/bureau-foundation/boardsync/lib/netutil"
	"github.com/bureau-foundation/boardsync/lib/secret"
)

// DefaultBaseURL is the YouGile API root.
const DefaultBaseURL = "https://ru.yougile.com/api-v2"

// Config holds configuration for creating a board Client.
type Config struct {
	// BaseURL is the API root. Defaults to DefaultBaseURL.
	BaseURL string

	// Token is the API key sent as a bearer token. Required. The
	// client does not take ownership; the caller closes it.
	Token *secret.Buffer

	// HTTPClient is used for all requests. Its Timeout bounds each
	// fetch. Defaults to http.DefaultClient.
	HTTPClient *http.Client

	// Logger receives fetch failures. Defaults to slog.Default().
	Logger *slog.Logger
}

// Client reads task lists from the board API.
type Client struct {
	baseURL    string
	token      *secret.Buffer
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a board API client.
func NewClient(config Config) (*Client, error) {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("board: invalid BaseURL %q: %w", baseURL, err)
	}
	if config.Token == nil {
		return nil, errors.New("board: Token is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      config.Token,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// FetchColumn returns the tasks in one column. It never fails: every
// error is logged and yields an empty list.
func (client *Client) FetchColumn(ctx context.Context, columnID string) []Task {
	tasks, err := client.fetch(ctx, columnID)
	if err != nil {
		level := slog.LevelWarn
		if IsUnauthorized(err) {
			level = slog.LevelError
		}
		client.logger.Log(ctx, level, "fetching board column failed",
			"column_id", columnID,
			"error", err,
		)
		return []Task{}
	}
	return tasks
}

// fetch performs one GET /task-list request and classifies failures.
func (client *Client) fetch(ctx context.Context, columnID string) ([]Task, error) {
	requestURL := client.baseURL + "/task-list?" + url.Values{"columnId": {columnID}}.Encode()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("board: creating request: %w", err)
	}
	request.Header.Set("Authorization", "Bearer "+client.token.String())
	request.Header.Set("Content-Type", "application/json")

	response, err := client.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("board: request for column %s failed: %w", columnID, err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, &APIError{
			StatusCode: response.StatusCode,
			Body:       netutil.ErrorBody(response.Body),
		}
	}

	body, err := netutil.ReadResponse(response.Body)
	if err != nil {
		return nil, fmt.Errorf("board: reading response body: %w", err)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, errEmptyBody
	}

	var list taskListResponse
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("board: decoding task list: %w", err)
	}
	if list.Content == nil {
		return []Task{}, nil
	}
	return list.Content, nil
}
