// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"slices"
	"strings"

	"github.com/bureau-foundation/boardsync/lib/ref"
	"github.com/bureau-foundation/boardsync/messaging"
)

// maxPillLength bounds the "Display Name: " prefix clients put in
// front of a message that mentions a user.
const maxPillLength = 64

// mentionsUser reports whether content mentions userID, either in
// m.mentions or by its ID in the body.
func mentionsUser(content messaging.MessageContent, userID ref.UserID) bool {
	if content.Mentions != nil && slices.Contains(content.Mentions.UserIDs, userID.String()) {
		return true
	}
	return strings.Contains(content.Body, userID.String())
}

// mentionQuery strips the mention from the body and returns the
// lowercased remainder. When the body does not spell out the user ID,
// a leading "Display Name:" pill is removed instead.
func mentionQuery(content messaging.MessageContent, userID ref.UserID) string {
	body := content.Body
	if strings.Contains(body, userID.String()) {
		body = strings.ReplaceAll(body, userID.String(), "")
		body = strings.TrimLeft(strings.TrimSpace(body), ":,")
	} else if end := strings.Index(body, ": "); end > 0 && end <= maxPillLength && !strings.Contains(body[:end], "\n") {
		body = body[end+2:]
	}
	return strings.ToLower(strings.TrimSpace(body))
}
