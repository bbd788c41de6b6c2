package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidClassName = errors.New("invalid class name")
	ErrInvalidKeyName   = errors.New("invalid field name")

	ErrInvalidPasswordPattern   = errors.New("invalid password validator pattern")
	ErrPasswordPolicy           = errors.New("password does not meet the password policy requirements")
	ErrPasswordContainsUsername = errors.New("password cannot contain your username")
)
