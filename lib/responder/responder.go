// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package responder picks a canned reply for a message that mentions
// the bot.
//
// Flags are named keyword sets. A message raises every flag with at
// least one keyword among its words. Responses are keyed by "+"-joined
// flag sets ("greeting+deadline"); the most specific key whose flags
// were all raised wins. Equal-sized keys are ordered lexicographically
// so the choice never depends on map iteration.
package responder

import (
	"cmp"
	"slices"
	"strings"
	"unicode"
)

// responseKey is one parsed entry of the response table.
type responseKey struct {
	key   string
	flags []string
	reply string
}

// Responder holds the flag and response tables. It is immutable after
// New and safe for concurrent use.
type Responder struct {
	keywords     map[string][]string
	responses    []responseKey
	unrecognized string
}

// New builds a Responder. Keywords are matched case-insensitively.
// Response keys with no non-empty parts are ignored.
func New(flags map[string][]string, responses map[string]string, unrecognized string) *Responder {
	keywords := make(map[string][]string, len(flags))
	for flag, words := range flags {
		for _, word := range words {
			if word = strings.ToLower(strings.TrimSpace(word)); word != "" {
				keywords[flag] = append(keywords[flag], word)
			}
		}
	}

	parsed := make([]responseKey, 0, len(responses))
	for key, reply := range responses {
		var parts []string
		for _, part := range strings.Split(key, "+") {
			if part = strings.TrimSpace(part); part != "" {
				parts = append(parts, part)
			}
		}
		if len(parts) == 0 {
			continue
		}
		parsed = append(parsed, responseKey{key: key, flags: parts, reply: reply})
	}
	slices.SortFunc(parsed, func(a, b responseKey) int {
		if c := cmp.Compare(len(b.flags), len(a.flags)); c != 0 {
			return c
		}
		return strings.Compare(a.key, b.key)
	})

	return &Responder{
		keywords:     keywords,
		responses:    parsed,
		unrecognized: unrecognized,
	}
}

// Words splits text into maximal runs of Unicode letters, digits and
// underscores.
func Words(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
}

// Match returns the flags raised by text.
func (r *Responder) Match(text string) map[string]bool {
	present := make(map[string]bool)
	for _, word := range Words(strings.ToLower(text)) {
		present[word] = true
	}

	matched := make(map[string]bool)
	for flag, words := range r.keywords {
		for _, word := range words {
			if present[word] {
				matched[flag] = true
				break
			}
		}
	}
	return matched
}

// Select returns the reply of the first response key, in specificity
// order, whose flags are all in matched. ok is false when none fits.
func (r *Responder) Select(matched map[string]bool) (reply string, ok bool) {
	if len(matched) == 0 {
		return "", false
	}
	for _, candidate := range r.responses {
		if allMatched(candidate.flags, matched) {
			return candidate.reply, true
		}
	}
	return "", false
}

func allMatched(flags []string, matched map[string]bool) bool {
	for _, flag := range flags {
		if !matched[flag] {
			return false
		}
	}
	return true
}

// Respond returns the reply for a mention query, or the unrecognized
// reply when nothing matches.
func (r *Responder) Respond(query string) string {
	if reply, ok := r.Select(r.Match(query)); ok {
		return reply
	}
	return r.unrecognized
}
