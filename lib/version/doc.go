// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports build information for the boardsync
// binaries. [Commit], [Dirty] and [BuildTime] are injected with
// -ldflags -X; development builds and tests see the defaults.
package version
