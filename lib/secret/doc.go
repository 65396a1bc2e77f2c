// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package secret holds the bridge's API tokens in memory that the Go
// garbage collector never sees.
//
// [Buffer] allocates memory via mmap(MAP_ANONYMOUS), locks it into RAM
// with mlock, and excludes it from core dumps with MADV_DONTDUMP. Close
// zeroes, unlocks and unmaps it. After Close, any access panics.
//
// [FromEnv] moves a token out of the process environment into a Buffer
// and unsets the variable, so the Matrix and YouGile tokens are not
// left readable in /proc/self/environ.
//
// Depends on golang.org/x/sys/unix.
package secret
