package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table     string
	ID        string
	Username  string
	Email     string
	Password  string
	Role      string
	Bio       string
	AvatarURL string
	CreatedAt string
	UpdatedAt string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:     "users.account",
	ID:        "id",
	Username:  "username",
	Email:     "email",
	Password:  "passwordhash",
	Role:      "role",
	Bio:       "bio",
	AvatarURL: "avatarurl",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

// Columns returns the public profile columns (no password hash)
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Username, t.Email, t.Role, t.Bio, t.AvatarURL, t.CreatedAt, t.UpdatedAt,
	}
}
