package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/baas-sample/internal/validators"
	"github.com/MKhiriev/baas-sample/models"
)

// ObjectValidationService checks class and field names before delegating
// to the wrapped ObjectService.
type ObjectValidationService struct {
	inner     ObjectService
	validator validators.Validator
}

func NewObjectValidationService() ObjectServiceWrapper {
	return &ObjectValidationService{
		validator: validators.NewObjectValidator(),
	}
}

func (v *ObjectValidationService) CreateObject(ctx context.Context, className string, data models.Object) (models.Object, error) {
	if err := v.validator.Validate(ctx, models.ClassObject{ClassName: className, Object: data}); err != nil {
		return nil, fmt.Errorf("error during object validation before saving: %w", err)
	}

	return v.inner.CreateObject(ctx, className, data)
}

func (v *ObjectValidationService) GetObject(ctx context.Context, className, objectID string) (models.Object, error) {
	if err := v.validator.Validate(ctx, models.ClassObject{ClassName: className}, validators.FieldClassName); err != nil {
		return nil, fmt.Errorf("error during object validation before reading: %w", err)
	}

	return v.inner.GetObject(ctx, className, objectID)
}

func (v *ObjectValidationService) Wrap(wrapped ObjectService) ObjectService {
	v.inner = wrapped
	return v
}
