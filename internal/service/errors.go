package service

import "errors"

var (
	ErrUsernameMissing    = errors.New("bad or missing username")
	ErrPasswordMissing    = errors.New("password is required")
	ErrWrongPassword      = errors.New("invalid username/password")
	ErrAccountLocked      = errors.New("account is locked due to multiple failed login attempts")
	ErrEmailNotVerified   = errors.New("user email is not verified")
	ErrInvalidVerifyToken = errors.New("invalid or expired email verification link")

	ErrInvalidAccountLockout     = errors.New("invalid account lockout policy")
	ErrInvalidPasswordPolicy     = errors.New("invalid password policy")
	ErrInvalidEmailVerifyOptions = errors.New("invalid email verification options")
)
