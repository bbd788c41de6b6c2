package store

import (
	"context"
	"fmt"
	"maps"
	"reflect"
	"sync"

	"github.com/MKhiriev/baas-sample/models"
)

// memoryObjectRepository keeps objects in process memory. It backs the
// "memory://" database URI used for local development.
type memoryObjectRepository struct {
	mu      sync.RWMutex
	classes map[string]map[string]models.Object
}

// NewMemoryObjectRepository returns an empty in-process repository.
func NewMemoryObjectRepository() ObjectRepository {
	return &memoryObjectRepository{
		classes: make(map[string]map[string]models.Object),
	}
}

func (r *memoryObjectRepository) InsertObject(_ context.Context, className string, obj models.Object) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.insertLocked(className, obj)
}

// insertLocked must be called with r.mu held.
func (r *memoryObjectRepository) insertLocked(className string, obj models.Object) error {
	objects, ok := r.classes[className]
	if !ok {
		objects = make(map[string]models.Object)
		r.classes[className] = objects
	}

	id := obj.ObjectID()
	if _, exists := objects[id]; exists {
		return fmt.Errorf("%w: %s/%s", ErrDuplicateObject, className, id)
	}
	objects[id] = maps.Clone(obj)
	return nil
}

func (r *memoryObjectRepository) InsertUniqueObject(_ context.Context, className string, obj models.Object, uniqueField string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	value, ok := obj[uniqueField]
	if ok {
		for _, existing := range r.classes[className] {
			if matches(existing, map[string]any{uniqueField: value}) {
				return fmt.Errorf("%w: %s.%s", ErrDuplicateValue, className, uniqueField)
			}
		}
	}
	return r.insertLocked(className, obj)
}

func (r *memoryObjectRepository) FindObject(_ context.Context, className, objectID string) (models.Object, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	obj, ok := r.classes[className][objectID]
	if !ok {
		return nil, ErrObjectNotFound
	}
	return maps.Clone(obj), nil
}

func (r *memoryObjectRepository) FindOneObject(_ context.Context, className string, filter map[string]any) (models.Object, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, obj := range r.classes[className] {
		if matches(obj, filter) {
			return maps.Clone(obj), nil
		}
	}
	return nil, ErrObjectNotFound
}

func (r *memoryObjectRepository) UpdateObject(_ context.Context, className, objectID string, set map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	obj, ok := r.classes[className][objectID]
	if !ok {
		return ErrObjectNotFound
	}
	maps.Copy(obj, set)
	return nil
}

func (r *memoryObjectRepository) Close(context.Context) error {
	return nil
}

func matches(obj models.Object, filter map[string]any) bool {
	for k, want := range filter {
		if got, ok := obj[k]; !ok || !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}
