package validators

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/baas-sample/internal/config"
	"github.com/MKhiriev/baas-sample/models"
	"github.com/dlclark/regexp2"
)

const passwordMatchTimeout = 100 * time.Millisecond

type PasswordPolicyValidator struct {
	pattern            *regexp2.Regexp
	doNotAllowUsername bool
}

// NewPasswordPolicyValidator compiles the policy pattern with ECMAScript
// semantics so lookaheads behave like the pattern authors expect. An empty
// pattern disables the pattern check.
func NewPasswordPolicyValidator(cfg config.PasswordPolicy) (Validator, error) {
	v := &PasswordPolicyValidator{doNotAllowUsername: cfg.DoNotAllowUsername}

	if cfg.ValidatorPattern != "" {
		re, err := regexp2.Compile(cfg.ValidatorPattern, regexp2.ECMAScript)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidPasswordPattern, err)
		}
		re.MatchTimeout = passwordMatchTimeout
		v.pattern = re
	}

	return v, nil
}

// Validate checks the password of a [models.User]. Field scoping is not
// supported.
func (v *PasswordPolicyValidator) Validate(_ context.Context, obj any, _ ...string) error {
	switch value := obj.(type) {
	case models.User:
		return v.validateUser(value)
	case *models.User:
		return v.validateUser(*value)
	default:
		return ErrUnsupportedType
	}
}

func (v *PasswordPolicyValidator) validateUser(user models.User) error {
	if v.pattern != nil {
		ok, err := v.pattern.MatchString(user.Password)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrPasswordPolicy, err)
		}
		if !ok {
			return ErrPasswordPolicy
		}
	}

	if v.doNotAllowUsername && user.Username != "" &&
		strings.Contains(strings.ToLower(user.Password), strings.ToLower(user.Username)) {
		return ErrPasswordContainsUsername
	}

	return nil
}
