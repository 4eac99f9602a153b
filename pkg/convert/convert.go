// Copyright (c) 2026 Tahmin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package convert provides fault-tolerant string conversions for query parameters.

Malformed input yields the zero value (or the given default) instead of an
error. Handlers that must tell "absent" from "malformed" check the raw string
first, as the football fixtures endpoint does for its league filter.
*/
package convert

import (
	"strconv"
	"strings"
)

// ToInt converts a string to an integer, silencing parsing errors.
// It returns 0 if the string is empty or cannot be parsed.
func ToInt(s string) int {
	return ToIntD(s, 0)
}

// ToIntD converts a string to an int, returning def if parsing fails or the string is empty.
func ToIntD(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}

	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}
