package api

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/baas-sample/internal/service"
	"github.com/MKhiriev/baas-sample/internal/store"
	"github.com/MKhiriev/baas-sample/internal/validators"
	"github.com/MKhiriev/baas-sample/models"
)

// apiError is the HTTP rendering of a service or store error.
type apiError struct {
	status  int
	code    int
	message string
}

// errorMappings is ordered; the first matching target wins.
var errorMappings = []struct {
	target error
	apiError
}{
	{service.ErrUsernameMissing, apiError{http.StatusBadRequest, models.CodeUsernameMissing, "bad or missing username"}},
	{service.ErrPasswordMissing, apiError{http.StatusBadRequest, models.CodePasswordMissing, "password is required"}},
	{store.ErrUsernameTaken, apiError{http.StatusBadRequest, models.CodeUsernameTaken, "Account already exists for this username."}},
	{validators.ErrPasswordPolicy, apiError{http.StatusBadRequest, models.CodeValidationError, "Password does not meet the Password Policy requirements."}},
	{validators.ErrPasswordContainsUsername, apiError{http.StatusBadRequest, models.CodeValidationError, "Password cannot contain your username."}},
	{service.ErrWrongPassword, apiError{http.StatusNotFound, models.CodeObjectNotFound, "Invalid username/password."}},
	{service.ErrEmailNotVerified, apiError{http.StatusBadRequest, models.CodeEmailNotFound, "User email is not verified."}},
	{validators.ErrInvalidClassName, apiError{http.StatusBadRequest, models.CodeInvalidClassName, "invalid className"}},
	{validators.ErrInvalidKeyName, apiError{http.StatusBadRequest, models.CodeInvalidKeyName, "invalid field name"}},
	{store.ErrObjectNotFound, apiError{http.StatusNotFound, models.CodeObjectNotFound, "Object not found."}},
	{store.ErrDuplicateObject, apiError{http.StatusBadRequest, models.CodeDuplicateValue, "A duplicate value for a field with unique values was provided"}},
	{store.ErrDuplicateValue, apiError{http.StatusBadRequest, models.CodeDuplicateValue, "A duplicate value for a field with unique values was provided"}},
}

// errorFromService maps err to its HTTP rendering. Unknown errors become
// 500 with code 1.
func errorFromService(err error) apiError {
	// the lockout message carries the configured duration
	if errors.Is(err, service.ErrAccountLocked) {
		return apiError{http.StatusNotFound, models.CodeObjectNotFound, "Your " + err.Error() + "."}
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.apiError
		}
	}
	return apiError{http.StatusInternalServerError, models.CodeInternalServerError, "Internal server error."}
}
