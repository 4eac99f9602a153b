// Copyright (c) 2026 Tahmin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements account enrollment and credential checks.

It defines the User entity shared by the users/* packages, the registration
and login flows, and the role lookup the authorization gate relies on.

# Architecture

Tokens are stateless: there is no session table and no revocation list.
Logging out is a client-side credential discard.
*/
package auth

import (
	"time"

	"github.com/taibuivan/tahmin/internal/platform/sec"
)

// # Domain Entities

// User represents a registered member of the Tahmin platform.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         sec.Role  `json:"role"`
	Bio          string    `json:"bio,omitempty"`
	AvatarURL    string    `json:"avatarUrl,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// # Field Identifiers

// Global field names for validation in the users domain.
const (
	FieldUserID   = "userId"
	FieldUsername = "username"
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldBio      = "bio"
	FieldRole     = "newRole"
	FieldAvatar   = "avatar"
)

// # Constraints

const (
	MinUsernameLength = 3
	MaxUsernameLength = 32
	MaxBioLength      = 500
)

// Unique index names from the migrations; used to tell email and username conflicts apart.
const (
	ConstraintEmail    = "account_email_key"
	ConstraintUsername = "account_username_key"
)
