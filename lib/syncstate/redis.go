// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package syncstate

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the record as JSON under a single Redis key.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore returns a store backed by client. The caller owns
// client and closes it.
func NewRedisStore(client *redis.Client, key string) *RedisStore {
	return &RedisStore{client: client, key: key}
}

func (s *RedisStore) Load(ctx context.Context) (*Record, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return NewRecord(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("syncstate: reading redis key %q: %w", s.key, err)
	}
	return Decode(data)
}

func (s *RedisStore) Save(ctx context.Context, record *Record) error {
	data, err := Encode(record)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("syncstate: writing redis key %q: %w", s.key, err)
	}
	return nil
}
