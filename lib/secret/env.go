// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"fmt"
	"os"
	"strings"
)

// FromEnv moves the value of the named environment variable into a
// protected Buffer and unsets the variable. Surrounding whitespace is
// trimmed, which matters for values pasted into .env files. An unset
// or blank variable is an error.
func FromEnv(name string) (*Buffer, error) {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return nil, fmt.Errorf("%s is not set", name)
	}
	buffer, err := NewFromString(value)
	if err != nil {
		return nil, fmt.Errorf("protecting %s: %w", name, err)
	}
	if err := os.Unsetenv(name); err != nil {
		buffer.Close()
		return nil, fmt.Errorf("unsetting %s: %w", name, err)
	}
	return buffer, nil
}
