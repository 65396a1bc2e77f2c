// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for boardsync.
//
// Configuration is loaded from a single file specified by either the
// BOARDSYNC_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There is no automatic file search.
//
// The service configuration describes how the bridge runs: homeserver,
// board API, sync interval, user-facing strings, where the durable bot
// record lives, and logging. It never holds secrets. Access tokens come
// from BOARDSYNC_MATRIX_TOKEN and YOUGILE_API_TOKEN. The bot record
// itself (target room, message ID, column mapping, flags) is owned by
// lib/syncstate because the bridge rewrites it at runtime.
//
// ${HOME} and ${VAR:-default} patterns are expanded in path fields
// after loading.
package config
