package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/baas-sample/models"
)

// Internal fields of stored _User objects.
const (
	fieldUsername              = "username"
	fieldEmail                 = "email"
	fieldEmailVerified         = "emailVerified"
	fieldHashedPassword        = "_hashed_password"
	fieldEmailVerifyToken      = "_email_verify_token"
	fieldEmailVerifyTokenUntil = "_email_verify_token_expires_at"
	fieldSessionToken          = "sessionToken"
	fieldSessionUser           = "user"
)

type userRepository struct {
	objects ObjectRepository
}

// NewUserRepository stores users and sessions as objects of the _User and
// _Session classes.
func NewUserRepository(objects ObjectRepository) UserRepository {
	return &userRepository{objects: objects}
}

// CreateUser stores user. Usernames are unique: the repository rejects a
// second account with the same username atomically, so concurrent sign-ups
// cannot both succeed.
func (r *userRepository) CreateUser(ctx context.Context, user models.User) error {
	createdAt := models.FormatTime(user.CreatedAt)
	obj := models.Object{
		models.FieldObjectID:       user.ObjectID,
		models.FieldCreatedAt:      createdAt,
		models.FieldUpdatedAt:      createdAt,
		fieldUsername:              user.Username,
		fieldEmailVerified:         user.EmailVerified,
		fieldHashedPassword:        user.HashedPassword,
		fieldEmailVerifyToken:      user.EmailVerifyToken,
		fieldEmailVerifyTokenUntil: user.EmailVerifyTokenExpiresAt.UnixMilli(),
	}
	if user.Email != "" {
		obj[fieldEmail] = user.Email
	}

	err := r.objects.InsertUniqueObject(ctx, models.ClassUser, obj, fieldUsername)
	if errors.Is(err, ErrDuplicateValue) {
		return fmt.Errorf("%w: %s", ErrUsernameTaken, user.Username)
	}
	return err
}

func (r *userRepository) FindUserByUsername(ctx context.Context, username string) (models.User, error) {
	obj, err := r.objects.FindOneObject(ctx, models.ClassUser, map[string]any{fieldUsername: username})
	if errors.Is(err, ErrObjectNotFound) {
		return models.User{}, ErrNoUserWasFound
	}
	if err != nil {
		return models.User{}, err
	}

	user := models.User{ObjectID: obj.ObjectID()}
	user.Username, _ = obj[fieldUsername].(string)
	user.Email, _ = obj[fieldEmail].(string)
	user.HashedPassword, _ = obj[fieldHashedPassword].(string)
	user.EmailVerified, _ = obj[fieldEmailVerified].(bool)
	user.EmailVerifyToken, _ = obj[fieldEmailVerifyToken].(string)
	if ms, ok := toInt64(obj[fieldEmailVerifyTokenUntil]); ok {
		user.EmailVerifyTokenExpiresAt = time.UnixMilli(ms).UTC()
	}
	if raw, ok := obj[models.FieldCreatedAt].(string); ok {
		user.CreatedAt, _ = time.Parse("2006-01-02T15:04:05.000Z", raw)
	}

	return user, nil
}

func (r *userRepository) MarkEmailVerified(ctx context.Context, objectID string) error {
	return r.objects.UpdateObject(ctx, models.ClassUser, objectID, map[string]any{
		fieldEmailVerified:    true,
		fieldEmailVerifyToken: "",
		models.FieldUpdatedAt: models.FormatTime(time.Now()),
	})
}

func (r *userRepository) CreateSession(ctx context.Context, session models.Session) error {
	createdAt := models.FormatTime(session.CreatedAt)
	return r.objects.InsertObject(ctx, models.ClassSession, models.Object{
		models.FieldObjectID:  session.SessionToken,
		models.FieldCreatedAt: createdAt,
		models.FieldUpdatedAt: createdAt,
		fieldSessionToken:     session.SessionToken,
		fieldSessionUser:      session.UserID,
	})
}

// toInt64 converts numbers decoded by either backend.
func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int32:
		return int64(n), true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}
