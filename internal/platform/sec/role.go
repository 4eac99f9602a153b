// Copyright (c) 2026 Tahmin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"fmt"
	"strings"
)

// # User Roles

// Role represents the authorization level granted to an account.
type Role string

const (
	// Reads content and follows editors
	RoleUser Role = "user"

	// Publishes articles and predictions
	RoleEditor Role = "editor"

	// Unrestricted system access, including role changes
	RoleAdmin Role = "admin"
)

// ErrUnknownRole is returned by [ParseRole] for strings outside the role set.
var ErrUnknownRole = fmt.Errorf("sec: unknown role")

// ParseRole normalises s (trimmed, case-insensitive) into a [Role].
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleUser:
		return RoleUser, nil
	case RoleEditor:
		return RoleEditor, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
}

// String implements [fmt.Stringer].
func (r Role) String() string { return string(r) }

// # Role Predicates

// IsAdmin reports whether r grants administrative access.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// IsEditorOrAdmin reports whether r may publish content.
func (r Role) IsEditorOrAdmin() bool {
	return r == RoleEditor || r == RoleAdmin
}
