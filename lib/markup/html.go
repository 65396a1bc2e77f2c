// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package markup

import (
	"regexp"
	"strings"
)

// rule is one rewrite step of HTMLToMarkdown.
type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// htmlRules run in order. The catch-all tag strip must stay last.
var htmlRules = []rule{
	{regexp.MustCompile(`(?i)</?strong\s*>`), "**"},
	{regexp.MustCompile(`(?i)</?em\s*>`), "*"},
	{regexp.MustCompile(`(?i)<p(\s[^>]*)?>`), ""},
	{regexp.MustCompile(`(?i)</p\s*>`), "\n\n"},
	{regexp.MustCompile(`(?i)<br\s*/?>`), "\n"},
	{regexp.MustCompile(`(?i)&nbsp;`), " "},
	{regexp.MustCompile(`(?i)</?(ul|ol)(\s[^>]*)?>`), ""},
	{regexp.MustCompile(`(?i)<li(\s[^>]*)?>`), "- "},
	{regexp.MustCompile(`(?i)</li\s*>`), "\n"},
	{regexp.MustCompile(`<[^>]+>`), ""},
}

// HTMLToMarkdown converts a board task description to chat markdown.
func HTMLToMarkdown(input string) string {
	output := input
	for _, step := range htmlRules {
		output = step.pattern.ReplaceAllString(output, step.replacement)
	}
	return strings.TrimSpace(output)
}
