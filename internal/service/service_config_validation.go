package service

import (
	"fmt"

	"github.com/MKhiriev/baas-sample/internal/config"
)

// Limits accepted by the API services, inclusive unless noted.
const (
	maxLockoutDuration    = 100000 // exclusive, minutes
	maxLockoutThreshold   = 1000   // exclusive
	maxPasswordHistoryLen = 20
)

// validateAPIConfig rejects policies the services cannot enforce. The
// password pattern itself is compiled by the password policy validator.
func validateAPIConfig(cfg config.API) error {
	lockout := cfg.AccountLockout
	if lockout.Duration != 0 || lockout.Threshold != 0 {
		if lockout.Duration <= 0 || lockout.Duration >= maxLockoutDuration {
			return fmt.Errorf("%w: duration should be greater than 0 and less than %d", ErrInvalidAccountLockout, maxLockoutDuration)
		}
		if lockout.Threshold <= 0 || lockout.Threshold >= maxLockoutThreshold {
			return fmt.Errorf("%w: threshold should be greater than 0 and less than %d", ErrInvalidAccountLockout, maxLockoutThreshold)
		}
	}

	if cfg.PasswordPolicy.MaxPasswordHistory < 0 || cfg.PasswordPolicy.MaxPasswordHistory > maxPasswordHistoryLen {
		return fmt.Errorf("%w: maxPasswordHistory must be an integer ranging 0 - %d", ErrInvalidPasswordPolicy, maxPasswordHistoryLen)
	}
	if cfg.PasswordPolicy.ResetTokenValidityDuration < 0 {
		return fmt.Errorf("%w: resetTokenValidityDuration must be a positive duration", ErrInvalidPasswordPolicy)
	}

	if cfg.Email.VerifyUserEmails {
		if cfg.Email.EmailVerifyTokenValidityDuration < 0 {
			return fmt.Errorf("%w: emailVerifyTokenValidityDuration must be a positive duration", ErrInvalidEmailVerifyOptions)
		}
		if cfg.App.PublicServerURL == "" {
			return fmt.Errorf("%w: publicServerURL is required to verify user emails", ErrInvalidEmailVerifyOptions)
		}
	}

	return nil
}
