// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// boardsyncctl drives a running boardsync daemon over its control
// socket. Each subcommand maps to one socket action:
//
//	boardsyncctl sync
//	boardsyncctl start-update | stop-update
//	boardsyncctl auto-pin
//	boardsyncctl task-desc <task name>
//	boardsyncctl text-train
//	boardsyncctl status
//
// The socket path comes from --socket or BOARDSYNC_SOCKET. Output is
// styled on a terminal; --json prints the raw result instead.
package main
