// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package board

import (
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Task is one task record from the board. Read-only.
type Task struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	ColumnID string `json:"columnId"`

	// Description is board HTML; empty when the task has none.
	Description string `json:"description,omitempty"`

	// Stickers maps sticker ID to value in payload order. Nil when
	// the task carries no stickers.
	Stickers *orderedmap.OrderedMap[string, any] `json:"stickers,omitempty"`
}

// FirstSticker returns the first non-empty sticker value in payload
// order. Non-string values are formatted with %v.
func (t Task) FirstSticker() (string, bool) {
	if t.Stickers == nil {
		return "", false
	}
	for pair := t.Stickers.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value == nil {
			continue
		}
		value, isString := pair.Value.(string)
		if !isString {
			value = fmt.Sprintf("%v", pair.Value)
		}
		if value != "" {
			return value, true
		}
	}
	return "", false
}

// taskListResponse is the body of GET /task-list.
type taskListResponse struct {
	Content []Task `json:"content"`
}
