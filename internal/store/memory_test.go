package store

import (
	"context"
	"sync"
	"testing"

	"github.com/MKhiriev/baas-sample/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryObjectRepository_InsertAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryObjectRepository()

	obj := models.Object{models.FieldObjectID: "a1", "title": "hello"}
	require.NoError(t, repo.InsertObject(ctx, "Posts", obj))

	found, err := repo.FindObject(ctx, "Posts", "a1")
	require.NoError(t, err)
	assert.Equal(t, obj, found)

	// the stored copy is independent of the caller's map
	obj["title"] = "changed"
	found, err = repo.FindObject(ctx, "Posts", "a1")
	require.NoError(t, err)
	assert.Equal(t, "hello", found["title"])
}

func TestMemoryObjectRepository_Duplicate(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryObjectRepository()

	obj := models.Object{models.FieldObjectID: "a1"}
	require.NoError(t, repo.InsertObject(ctx, "Posts", obj))
	assert.ErrorIs(t, repo.InsertObject(ctx, "Posts", obj), ErrDuplicateObject)

	// ids are scoped per class
	assert.NoError(t, repo.InsertObject(ctx, "Comments", obj))
}

func TestMemoryObjectRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryObjectRepository()

	_, err := repo.FindObject(ctx, "Posts", "missing")
	assert.ErrorIs(t, err, ErrObjectNotFound)

	_, err = repo.FindOneObject(ctx, "Posts", map[string]any{"title": "x"})
	assert.ErrorIs(t, err, ErrObjectNotFound)

	assert.ErrorIs(t, repo.UpdateObject(ctx, "Posts", "missing", map[string]any{"a": 1}), ErrObjectNotFound)
}

func TestMemoryObjectRepository_FindOneAndUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryObjectRepository()

	require.NoError(t, repo.InsertObject(ctx, "Posts", models.Object{models.FieldObjectID: "a1", "author": "ann", "n": int64(1)}))
	require.NoError(t, repo.InsertObject(ctx, "Posts", models.Object{models.FieldObjectID: "b2", "author": "bob", "n": int64(2)}))

	found, err := repo.FindOneObject(ctx, "Posts", map[string]any{"author": "bob"})
	require.NoError(t, err)
	assert.Equal(t, "b2", found.ObjectID())

	require.NoError(t, repo.UpdateObject(ctx, "Posts", "b2", map[string]any{"author": "carl"}))

	_, err = repo.FindOneObject(ctx, "Posts", map[string]any{"author": "bob"})
	assert.ErrorIs(t, err, ErrObjectNotFound)

	found, err = repo.FindOneObject(ctx, "Posts", map[string]any{"author": "carl", "n": int64(2)})
	require.NoError(t, err)
	assert.Equal(t, "b2", found.ObjectID())
}

func TestMemoryObjectRepository_ConcurrentInserts(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryObjectRepository()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = repo.InsertObject(ctx, "Posts", models.Object{models.FieldObjectID: string(rune('a' + i%26)), "i": i})
		}(i)
	}
	wg.Wait()

	for i := range 26 {
		_, err := repo.FindObject(ctx, "Posts", string(rune('a'+i)))
		assert.NoError(t, err)
	}
}

func TestMemoryObjectRepository_InsertUniqueObject(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryObjectRepository()

	require.NoError(t, repo.InsertUniqueObject(ctx, "Tags", models.Object{models.FieldObjectID: "t1", "name": "go"}, "name"))

	err := repo.InsertUniqueObject(ctx, "Tags", models.Object{models.FieldObjectID: "t2", "name": "go"}, "name")
	assert.ErrorIs(t, err, ErrDuplicateValue)

	err = repo.InsertUniqueObject(ctx, "Tags", models.Object{models.FieldObjectID: "t1", "name": "rust"}, "name")
	assert.ErrorIs(t, err, ErrDuplicateObject)

	// Same value in another class does not collide.
	assert.NoError(t, repo.InsertUniqueObject(ctx, "Labels", models.Object{models.FieldObjectID: "l1", "name": "go"}, "name"))

	_, err = repo.FindObject(ctx, "Tags", "t2")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}
