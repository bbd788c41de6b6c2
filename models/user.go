package models

import "time"

// Class names used by the authentication service.
const (
	ClassUser    = "_User"
	ClassSession = "_Session"
)

// User is an application account.
// HashedPassword and the verification token never leave the server.
type User struct {
	ObjectID string `json:"objectId,omitempty"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`

	// Password is the plaintext password of a sign-up or login request.
	Password string `json:"password,omitempty"`

	HashedPassword string `json:"-"`
	EmailVerified  bool   `json:"emailVerified"`

	EmailVerifyToken          string    `json:"-"`
	EmailVerifyTokenExpiresAt time.Time `json:"-"`

	CreatedAt time.Time `json:"-"`
}

// Session is issued on sign-up and login.
type Session struct {
	SessionToken string
	UserID       string
	CreatedAt    time.Time
}
