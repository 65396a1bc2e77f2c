// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package markup

import (
	"bytes"
	"html"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
)

// The converter configuration never changes; goldmark creates per-call
// state inside Convert.
var (
	markdownInstance goldmark.Markdown
	markdownOnce     sync.Once
)

func getMarkdown() goldmark.Markdown {
	markdownOnce.Do(func() {
		markdownInstance = goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			// Single newlines in the board message are line breaks,
			// not reflowable soft wraps.
			goldmark.WithRendererOptions(goldmarkhtml.WithHardWraps()),
		)
	})
	return markdownInstance
}

// MarkdownToHTML renders markdown as HTML for a Matrix formatted_body.
// Raw HTML in the input is escaped, not passed through.
func MarkdownToHTML(input string) string {
	var buffer bytes.Buffer
	if err := getMarkdown().Convert([]byte(input), &buffer); err != nil {
		return "<pre>" + html.EscapeString(input) + "</pre>"
	}
	return strings.TrimSpace(buffer.String())
}
