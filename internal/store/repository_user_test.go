package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MKhiriev/baas-sample/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUser() models.User {
	return models.User{
		ObjectID:                  "u1",
		Username:                  "alice",
		Email:                     "alice@example.com",
		HashedPassword:            "hash",
		EmailVerifyToken:          "token",
		EmailVerifyTokenExpiresAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		CreatedAt:                 time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(NewMemoryObjectRepository())

	require.NoError(t, repo.CreateUser(ctx, newTestUser()))

	found, err := repo.FindUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, newTestUser(), found)
}

func TestUserRepository_UsernameTaken(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(NewMemoryObjectRepository())

	require.NoError(t, repo.CreateUser(ctx, newTestUser()))

	other := newTestUser()
	other.ObjectID = "u2"
	assert.ErrorIs(t, repo.CreateUser(ctx, other), ErrUsernameTaken)
}

func TestUserRepository_ConcurrentSignUpSameUsername(t *testing.T) {
	ctx := context.Background()
	objects := NewMemoryObjectRepository()
	repo := NewUserRepository(objects)

	const attempts = 50
	var (
		wg        sync.WaitGroup
		succeeded atomic.Int32
		taken     atomic.Int32
	)
	for i := range attempts {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user := newTestUser()
			user.ObjectID = fmt.Sprintf("u%d", i)
			err := repo.CreateUser(ctx, user)
			switch {
			case err == nil:
				succeeded.Add(1)
			case errors.Is(err, ErrUsernameTaken):
				taken.Add(1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), succeeded.Load())
	assert.Equal(t, int32(attempts-1), taken.Load())

	found, err := repo.FindUserByUsername(ctx, "alice")
	require.NoError(t, err)
	for i := range attempts {
		id := fmt.Sprintf("u%d", i)
		if id == found.ObjectID {
			continue
		}
		_, err := objects.FindObject(ctx, models.ClassUser, id)
		assert.ErrorIs(t, err, ErrObjectNotFound, id)
	}
}

func TestUserRepository_NotFound(t *testing.T) {
	repo := NewUserRepository(NewMemoryObjectRepository())

	_, err := repo.FindUserByUsername(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNoUserWasFound)
}

func TestUserRepository_MarkEmailVerified(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(NewMemoryObjectRepository())
	require.NoError(t, repo.CreateUser(ctx, newTestUser()))

	require.NoError(t, repo.MarkEmailVerified(ctx, "u1"))

	found, err := repo.FindUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, found.EmailVerified)
	assert.Empty(t, found.EmailVerifyToken)
}

func TestUserRepository_CreateSession(t *testing.T) {
	ctx := context.Background()
	objects := NewMemoryObjectRepository()
	repo := NewUserRepository(objects)

	require.NoError(t, repo.CreateSession(ctx, models.Session{
		SessionToken: "r:abc",
		UserID:       "u1",
		CreatedAt:    time.Now(),
	}))

	stored, err := objects.FindObject(ctx, models.ClassSession, "r:abc")
	require.NoError(t, err)
	assert.Equal(t, "u1", stored["user"])
	assert.Equal(t, "r:abc", stored["sessionToken"])
}
