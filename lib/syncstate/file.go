// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package syncstate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore keeps the record in a JSON file.
type FileStore struct {
	path string
}

// NewFileStore returns a store for the file at path. The parent
// directory must exist by the first Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the record file path.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Load(ctx context.Context) (*Record, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return NewRecord(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("syncstate: reading %s: %w", s.path, err)
	}
	record, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	return record, nil
}

// Save writes the record to a temporary file beside the target, syncs
// it and renames it into place. Readers never see a partial record.
func (s *FileStore) Save(ctx context.Context, record *Record) error {
	data, err := Encode(record)
	if err != nil {
		return err
	}

	temporaryPath := s.path + ".tmp"
	file, err := os.OpenFile(temporaryPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("syncstate: creating temporary record file: %w", err)
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("syncstate: writing temporary record file: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("syncstate: syncing temporary record file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("syncstate: closing temporary record file: %w", err)
	}
	if err := os.Rename(temporaryPath, s.path); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("syncstate: renaming record file into place: %w", err)
	}

	if directory, err := os.Open(filepath.Dir(s.path)); err == nil {
		directory.Sync()
		directory.Close()
	}
	return nil
}
