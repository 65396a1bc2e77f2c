// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package markup converts between the three text formats the bridge
// handles: the board's task description HTML, the markdown the bridge
// composes, and the HTML Matrix clients render from formatted_body.
//
// [HTMLToMarkdown] applies a fixed, ordered rule table. It understands
// only the tags the board editor emits and strips everything else.
// [MarkdownToHTML] renders with goldmark and GitHub Flavored Markdown.
// Both are pure and safe for concurrent use.
package markup
