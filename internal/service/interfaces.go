package service

import (
	"context"

	"github.com/MKhiriev/baas-sample/models"
)

type AuthService interface {
	// SignUp creates an account and opens its first session.
	SignUp(ctx context.Context, user models.User) (models.User, models.Session, error)
	// Login checks credentials against the lockout policy and opens a session.
	Login(ctx context.Context, username, password string) (models.User, models.Session, error)
	// VerifyEmail consumes an email verification token.
	VerifyEmail(ctx context.Context, username, token string) error
}

type ObjectService interface {
	CreateObject(ctx context.Context, className string, data models.Object) (models.Object, error)
	GetObject(ctx context.Context, className, objectID string) (models.Object, error)
}

type ServerInfoService interface {
	ServerInfo(ctx context.Context) models.ServerInfo
}

// EventPublisher forwards object changes to live query subscribers.
type EventPublisher interface {
	Publish(ctx context.Context, event models.Event) error
}

// ObjectServiceWrapper defines middleware composition for ObjectService.
// Implementations wrap an existing ObjectService to add behavior such as
// validation.
type ObjectServiceWrapper interface {
	Wrap(ObjectService) ObjectService // returns a decorated ObjectService applying additional behavior
}
