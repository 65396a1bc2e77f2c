// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/bureau-foundation/boardsync/lib/config"
	"github.com/bureau-foundation/boardsync/lib/syncstate"
)

// openStore returns the configured record store and a function that
// releases its resources.
func openStore(cfg config.StateConfig) (syncstate.Store, func() error, error) {
	switch cfg.Backend {
	case config.StateBackendFile:
		return syncstate.NewFileStore(cfg.Path), func() error { return nil }, nil
	case config.StateBackendRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddress})
		return syncstate.NewRedisStore(client, cfg.RedisKey), client.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown state backend %q", cfg.Backend)
	}
}
