// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package boardsync

import (
	"slices"
	"strings"

	"github.com/bureau-foundation/boardsync/lib/board"
)

// Section is one rendered column of the board message.
type Section struct {
	Name string
	Body string
}

// RenderColumn renders one column's tasks as a markdown list, one
// "- title" line per task. In annotated columns a task's first sticker
// value is appended in bold. An empty column renders as noTasks.
func RenderColumn(tasks []board.Task, columnName string, annotated []string, noTasks string) string {
	if len(tasks) == 0 {
		return noTasks
	}

	annotate := slices.Contains(annotated, columnName)
	lines := make([]string, 0, len(tasks))
	for _, task := range tasks {
		// Line breaks inside a title would split one task over several lines.
		line := "- " + strings.Join(strings.Fields(task.Title), " ")
		if annotate {
			if sticker, ok := task.FirstSticker(); ok {
				line += " — **" + sticker + "**"
			}
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// Compose joins sections in order under "## name" headers and appends
// stamp as an italic trailer line.
func Compose(sections []Section, stamp string) string {
	var builder strings.Builder
	for i, section := range sections {
		if i > 0 {
			builder.WriteByte('\n')
		}
		builder.WriteString("## ")
		builder.WriteString(section.Name)
		builder.WriteByte('\n')
		builder.WriteString(section.Body)
	}
	builder.WriteString("\n\n_")
	builder.WriteString(stamp)
	builder.WriteString("_")
	return builder.String()
}
