package models

import "time"

// User is the credential store record. PasswordHash is a bcrypt hash; the
// plaintext password never leaves the registration/login request scope.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RegisterRequest is the POST /register payload.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the POST /login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Profile is the public projection of a user returned by /login and /profile.
type Profile struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// LoginResult bundles the issued token with the user's public profile.
type LoginResult struct {
	Token string  `json:"token"`
	User  Profile `json:"user"`
}
