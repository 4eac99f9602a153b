// Copyright (c) 2026 Tahmin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid provides time-ordered unique identifiers for the platform.

It wraps google/uuid to generate Version 7 values, which are naturally ordered
by creation time and keep PostgreSQL B-tree indexes compact.
*/
package uuid

import (
	"strings"

	"github.com/google/uuid"
)

// # Generators

// New generates a new UUIDv7 string.
func New() string {
	id, err := uuid.NewV7()

	// entropy failure is an unrecoverable system-level error
	if err != nil {
		panic("uuid: failed to generate UUIDv7: " + err.Error())
	}

	return id.String()
}

// Short returns the last 8 hex characters of a fresh UUIDv7.
// The tail is random bits, so it works as a collision-resistant suffix.
func Short() string {
	id := strings.ReplaceAll(New(), "-", "")
	return id[len(id)-8:]
}

// # Validation

// IsValid reports whether s parses as a UUID of any version.
func IsValid(s string) bool {
	return uuid.Validate(s) == nil
}
