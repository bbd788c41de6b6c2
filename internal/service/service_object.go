package service

import (
	"context"
	"fmt"
	"maps"
	"time"

	"github.com/MKhiriev/baas-sample/internal/logger"
	"github.com/MKhiriev/baas-sample/internal/store"
	"github.com/MKhiriev/baas-sample/internal/utils"
	"github.com/MKhiriev/baas-sample/models"
)

type objectService struct {
	objects   store.ObjectRepository
	publisher EventPublisher

	now func() time.Time

	logger *logger.Logger
}

// NewObjectService stores objects in objects and announces every created
// object through publisher.
func NewObjectService(objects store.ObjectRepository, publisher EventPublisher, logger *logger.Logger) ObjectService {
	return &objectService{
		objects:   objects,
		publisher: publisher,
		now:       time.Now,
		logger:    logger,
	}
}

// CreateObject assigns the object id and timestamps, stores the object and
// publishes a create event. Publish failures are logged only.
//
// Returns the objectId and createdAt of the stored object.
func (s *objectService) CreateObject(ctx context.Context, className string, data models.Object) (models.Object, error) {
	log := logger.FromContext(ctx)

	createdAt := models.FormatTime(s.now())
	obj := maps.Clone(data)
	if obj == nil {
		obj = models.Object{}
	}
	obj[models.FieldObjectID] = utils.NewObjectID()
	obj[models.FieldCreatedAt] = createdAt
	obj[models.FieldUpdatedAt] = createdAt

	if err := s.objects.InsertObject(ctx, className, obj); err != nil {
		log.Err(err).Str("class", className).Msg("error saving object")
		return nil, fmt.Errorf("error saving object: %w", err)
	}

	event := models.Event{Op: models.EventCreate, ClassName: className, Object: obj.Public()}
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Err(err).Str("class", className).Msg("error publishing live query event")
	}

	return models.Object{
		models.FieldObjectID:  obj.ObjectID(),
		models.FieldCreatedAt: createdAt,
	}, nil
}

func (s *objectService) GetObject(ctx context.Context, className, objectID string) (models.Object, error) {
	obj, err := s.objects.FindObject(ctx, className, objectID)
	if err != nil {
		return nil, fmt.Errorf("error getting object: %w", err)
	}
	return obj.Public(), nil
}
