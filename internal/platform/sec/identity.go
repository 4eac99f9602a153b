// Copyright (c) 2026 Tahmin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// Identity is the caller resolved by the authorization gate for a single request.
//
// Role always comes from the account store at request time, never from the
// token payload, so promotions and demotions take effect without re-login.
type Identity struct {
	UserID string
	Role   Role
}

// CanModify reports whether the caller may mutate a resource owned by ownerID.
// Admins may modify anything; everyone else only their own resources.
func CanModify(id *Identity, ownerID string) bool {
	if id == nil {
		return false
	}
	return id.Role.IsAdmin() || id.UserID == ownerID
}

// IsSelfOrAdmin reports whether the caller is the target user or an admin.
func IsSelfOrAdmin(id *Identity, targetUserID string) bool {
	return CanModify(id, targetUserID)
}
