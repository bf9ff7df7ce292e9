package auth

import "errors"

// User is an administrator credential record. Passwords are stored only as
// bcrypt hashes.
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}

var (
	// ErrInvalidCredentials is the uniform failure for login. It covers both
	// unknown usernames and wrong passwords so the response never reveals
	// which one happened.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUserNotFound is returned by repository lookups for a missing user.
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameTaken is returned when creating a user with a username that
	// already exists.
	ErrUsernameTaken = errors.New("username already taken")
)
