// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ref

import (
	"fmt"
	"strings"
)

// parseSigilID splits a Matrix identifier of the form
// "<sigil>localpart:server" into its localpart and server. The sigil
// is checked but not returned.
func parseSigilID(raw string, sigil byte, kind string) (string, string, error) {
	if raw == "" {
		return "", "", fmt.Errorf("empty %s", kind)
	}
	if raw[0] != sigil {
		return "", "", fmt.Errorf("%s must start with '%c': %q", kind, sigil, raw)
	}
	colonIndex := strings.IndexByte(raw[1:], ':')
	if colonIndex < 0 {
		return "", "", fmt.Errorf("%s missing ':server' suffix: %q", kind, raw)
	}
	localpart := raw[1 : 1+colonIndex]
	server := raw[1+colonIndex+1:]
	if localpart == "" {
		return "", "", fmt.Errorf("%s has empty local part: %q", kind, raw)
	}
	if server == "" {
		return "", "", fmt.Errorf("%s has empty server name: %q", kind, raw)
	}
	return localpart, server, nil
}
