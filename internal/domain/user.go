package domain

import "time"

// User is the persisted account record. PasswordHash never crosses the
// transport boundary; handlers expose users via Principal or response DTOs.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Bio          *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal is the minimal authenticated identity attached to a request
// after the session is resolved. It deliberately carries no credentials.
type Principal struct {
	ID       int64
	Username string
	Email    string
}

// PrincipalOf derives a Principal from a full user record.
func PrincipalOf(u *User) Principal {
	return Principal{ID: u.ID, Username: u.Username, Email: u.Email}
}
