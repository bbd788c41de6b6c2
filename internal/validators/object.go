package validators

import (
	"context"
	"fmt"
	"regexp"

	"github.com/MKhiriev/baas-sample/models"
)

// Field name constants used to restrict object validation to a subset of
// checks.
const (
	// FieldClassName targets the class name of the object.
	FieldClassName = "class_name"

	// FieldKeys targets the client supplied field names of the object.
	FieldKeys = "keys"
)

var (
	classNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)
	keyNamePattern   = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)
)

// reservedKeys are maintained by the server and cannot be set by clients.
var reservedKeys = map[string]struct{}{
	models.FieldObjectID:  {},
	models.FieldCreatedAt: {},
	models.FieldUpdatedAt: {},
	"ACL":                 {},
}

type ObjectValidator struct {
}

// NewObjectValidator returns a validator for [models.ClassObject] values.
func NewObjectValidator() Validator {
	return &ObjectValidator{}
}

func (v *ObjectValidator) Validate(_ context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.ClassObject:
		return v.validateClassObject(value, fields...)
	case *models.ClassObject:
		return v.validateClassObject(*value, fields...)
	default:
		return ErrUnsupportedType
	}
}

func (v *ObjectValidator) validateClassObject(obj models.ClassObject, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldClassName, FieldKeys}
	}

	for _, field := range fields {
		switch field {
		case FieldClassName:
			if !classNamePattern.MatchString(obj.ClassName) {
				return fmt.Errorf("%w: %q", ErrInvalidClassName, obj.ClassName)
			}
		case FieldKeys:
			for key := range obj.Object {
				if _, reserved := reservedKeys[key]; reserved || !keyNamePattern.MatchString(key) {
					return fmt.Errorf("%w: %q", ErrInvalidKeyName, key)
				}
			}
		default:
			return fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
	}
	return nil
}
