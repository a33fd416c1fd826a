package models

// User represents an operator account.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Username is the unique login name.
	Username string

	// PasswordHash is the bcrypt hash of the user's password. The plain
	// password is never stored.
	PasswordHash string

	// IsAdmin is stored at registration but currently consulted by no
	// route; all signed-in users see the same pages.
	IsAdmin bool

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64
}
