package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/baas-sample/internal/logger"
	"github.com/MKhiriev/baas-sample/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
)

const (
	// DefaultDatabaseURI is used when no database URI was configured.
	DefaultDatabaseURI  = "mongodb://localhost:27017/parse"
	defaultDatabaseName = "parse"
)

type mongoObjectRepository struct {
	client   *mongo.Client
	database *mongo.Database
	logger   *logger.Logger

	// uniqueIndexes records the "class.field" unique indexes already ensured.
	uniqueIndexes sync.Map
}

// NewMongoObjectRepository creates a repository on the database named in
// uri. The driver connects lazily, so an unreachable server surfaces on the
// first request rather than at startup.
func NewMongoObjectRepository(ctx context.Context, uri string, log *logger.Logger) (ObjectRepository, error) {
	name, err := databaseName(uri)
	if err != nil {
		return nil, err
	}

	opts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(10 * time.Second).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		log.Err(err).Msg("error creating mongo client")
		return nil, fmt.Errorf("error creating mongo client: %w", err)
	}
	log.Info().Str("database", name).Msg("mongo client created")

	return &mongoObjectRepository{
		client:   client,
		database: client.Database(name),
		logger:   log,
	}, nil
}

// databaseName extracts the database path segment of uri, defaulting to
// "parse".
func databaseName(uri string) (string, error) {
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnsupportedDatabaseURI, err)
	}
	if cs.Database == "" {
		return defaultDatabaseName, nil
	}
	return cs.Database, nil
}

func (r *mongoObjectRepository) InsertObject(ctx context.Context, className string, obj models.Object) error {
	_, err := r.database.Collection(className).InsertOne(ctx, toDocument(obj))
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %s/%s", ErrDuplicateObject, className, obj.ObjectID())
	}
	if err != nil {
		return fmt.Errorf("error inserting object: %w", err)
	}
	return nil
}

func (r *mongoObjectRepository) InsertUniqueObject(ctx context.Context, className string, obj models.Object, uniqueField string) error {
	indexName, err := r.ensureUniqueIndex(ctx, className, uniqueField)
	if err != nil {
		return err
	}

	_, err = r.database.Collection(className).InsertOne(ctx, toDocument(obj))
	if mongo.IsDuplicateKeyError(err) {
		if strings.Contains(err.Error(), indexName) {
			return fmt.Errorf("%w: %s.%s", ErrDuplicateValue, className, uniqueField)
		}
		return fmt.Errorf("%w: %s/%s", ErrDuplicateObject, className, obj.ObjectID())
	}
	if err != nil {
		return fmt.Errorf("error inserting object: %w", err)
	}
	return nil
}

// ensureUniqueIndex creates a unique index on className.field once per
// repository. Documents without the field are left out of the index.
func (r *mongoObjectRepository) ensureUniqueIndex(ctx context.Context, className, field string) (string, error) {
	indexName := "unique_" + field
	key := className + "." + field
	if _, ok := r.uniqueIndexes.Load(key); ok {
		return indexName, nil
	}

	opts := options.Index().
		SetName(indexName).
		SetUnique(true).
		SetPartialFilterExpression(bson.D{{Key: field, Value: bson.D{{Key: "$exists", Value: true}}}})
	model := mongo.IndexModel{Keys: bson.D{{Key: field, Value: 1}}, Options: opts}
	if _, err := r.database.Collection(className).Indexes().CreateOne(ctx, model); err != nil {
		r.logger.Err(err).Str("class", className).Str("field", field).Msg("error creating unique index")
		return "", fmt.Errorf("error creating unique index on %s: %w", key, err)
	}
	r.uniqueIndexes.Store(key, struct{}{})
	return indexName, nil
}

func (r *mongoObjectRepository) FindObject(ctx context.Context, className, objectID string) (models.Object, error) {
	return r.FindOneObject(ctx, className, map[string]any{models.FieldObjectID: objectID})
}

func (r *mongoObjectRepository) FindOneObject(ctx context.Context, className string, filter map[string]any) (models.Object, error) {
	var doc bson.M
	err := r.database.Collection(className).FindOne(ctx, toFilter(filter)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrObjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error finding object: %w", err)
	}
	return fromDocument(doc), nil
}

func (r *mongoObjectRepository) UpdateObject(ctx context.Context, className, objectID string, set map[string]any) error {
	res, err := r.database.Collection(className).UpdateOne(ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M(set)},
	)
	if err != nil {
		return fmt.Errorf("error updating object: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrObjectNotFound
	}
	return nil
}

func (r *mongoObjectRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

// toDocument maps the objectId field onto the MongoDB _id.
func toDocument(obj models.Object) bson.M {
	doc := make(bson.M, len(obj))
	for k, v := range obj {
		if k == models.FieldObjectID {
			doc["_id"] = v
			continue
		}
		doc[k] = v
	}
	return doc
}

func toFilter(filter map[string]any) bson.M {
	return toDocument(filter)
}

func fromDocument(doc bson.M) models.Object {
	obj := make(models.Object, len(doc))
	for k, v := range doc {
		if k == "_id" {
			obj[models.FieldObjectID] = v
			continue
		}
		obj[k] = v
	}
	return obj
}
