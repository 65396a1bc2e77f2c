// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package syncstate

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tidwall/jsonc"
)

// Store loads and saves the bridge record.
type Store interface {
	// Load returns the stored record. A store that has never been
	// written returns an empty record, not an error.
	Load(ctx context.Context) (*Record, error)

	// Save overwrites the stored record.
	Save(ctx context.Context, record *Record) error
}

// Decode parses a record. Comments and trailing commas are accepted.
func Decode(data []byte) (*Record, error) {
	record := &Record{}
	if err := json.Unmarshal(jsonc.ToJSON(data), record); err != nil {
		return nil, fmt.Errorf("syncstate: parsing record: %w", err)
	}
	record.normalize()
	return record, nil
}

// Encode renders a record as 2-space indented JSON with a trailing
// newline.
func Encode(record *Record) ([]byte, error) {
	normalized := record.Clone()
	data, err := json.MarshalIndent(normalized, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("syncstate: encoding record: %w", err)
	}
	return append(data, '\n'), nil
}
