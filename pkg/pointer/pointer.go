// Copyright (c) 2026 Tahmin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pointer provides generic helpers for optional values.
package pointer

// To returns a pointer to v. Useful for optional scores and JSON fields.
func To[T any](v T) *T {
	return &v
}

// Val dereferences p, returning the zero value if p is nil.
func Val[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}
