package store

import (
	"context"
	"time"

	"github.com/MKhiriev/baas-sample/models"
)

// ObjectRepository persists schemaless objects grouped by class name.
type ObjectRepository interface {
	// InsertObject stores obj under obj.ObjectID(). Returns
	// ErrDuplicateObject when the id is taken.
	InsertObject(ctx context.Context, className string, obj models.Object) error
	// InsertUniqueObject stores obj unless another object of the class has
	// the same value in uniqueField, in which case it returns
	// ErrDuplicateValue. The check and the write are atomic.
	InsertUniqueObject(ctx context.Context, className string, obj models.Object, uniqueField string) error
	// FindObject returns the object with the given id or ErrObjectNotFound.
	FindObject(ctx context.Context, className, objectID string) (models.Object, error)
	// FindOneObject returns the first object whose fields equal every entry
	// of filter, or ErrObjectNotFound.
	FindOneObject(ctx context.Context, className string, filter map[string]any) (models.Object, error)
	// UpdateObject sets the given fields on an existing object.
	UpdateObject(ctx context.Context, className, objectID string, set map[string]any) error
	// Close releases the underlying connection.
	Close(ctx context.Context) error
}

// UserRepository stores accounts and their sessions.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) error
	FindUserByUsername(ctx context.Context, username string) (models.User, error)
	MarkEmailVerified(ctx context.Context, objectID string) error
	CreateSession(ctx context.Context, session models.Session) error
}

// LockoutState is the failed-login record of one account.
type LockoutState struct {
	FailedCount int
	LockedUntil *time.Time
}

// LockoutStore tracks consecutive failed logins per account key.
type LockoutStore interface {
	Get(ctx context.Context, key string) (LockoutState, error)
	// RecordFailure increments the failure count of key and locks it until
	// now+lockoutWindow once the count reaches threshold.
	RecordFailure(ctx context.Context, key string, now time.Time, threshold int, lockoutWindow time.Duration) (LockoutState, error)
	Clear(ctx context.Context, key string) error
}
