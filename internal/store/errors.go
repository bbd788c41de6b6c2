package store

import "errors"

// Sentinel errors returned by repository methods. Callers should use
// [errors.Is] to match against these values.
var (
	// ErrObjectNotFound is returned when no object matches the id or filter.
	ErrObjectNotFound = errors.New("object not found")

	// ErrDuplicateObject is returned when an object id is already taken.
	ErrDuplicateObject = errors.New("duplicate object id")

	// ErrDuplicateValue is returned by InsertUniqueObject when another
	// object of the class already holds the unique field value.
	ErrDuplicateValue = errors.New("duplicate value for unique field")

	// ErrUsernameTaken is returned when signing up with a username that
	// already exists.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrNoUserWasFound is returned when a username lookup has no match.
	ErrNoUserWasFound = errors.New("no user was found")

	// ErrUnsupportedDatabaseURI is returned for URIs that are neither
	// MongoDB nor the in-process memory store.
	ErrUnsupportedDatabaseURI = errors.New("unsupported database URI")
)
