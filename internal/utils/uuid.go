package utils

import (
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

const objectIDLength = 10

// NewObjectID returns a random 10-character alphanumeric object id.
func NewObjectID() string {
	return newRandomHex()[:objectIDLength]
}

// NewSessionToken returns a revocable session token in the "r:" format.
func NewSessionToken() string {
	return "r:" + newRandomHex()
}

// NewToken returns an opaque random token, e.g. for email verification.
func NewToken() string {
	return newRandomHex()
}

func newRandomHex() string {
	id := uuid.New()
	return strings.ToLower(hex.EncodeToString(id[:]))
}
