package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/MKhiriev/baas-sample/internal/adapter"
	"github.com/MKhiriev/baas-sample/internal/config"
	"github.com/MKhiriev/baas-sample/internal/logger"
	"github.com/MKhiriev/baas-sample/internal/store"
	"github.com/MKhiriev/baas-sample/internal/utils"
	"github.com/MKhiriev/baas-sample/internal/validators"
	"github.com/MKhiriev/baas-sample/models"
	"golang.org/x/crypto/bcrypt"
)

// authService is the concrete implementation of AuthService.
// It handles sign-up, password login and email verification using a
// UserRepository for persistence, bcrypt for password hashing and a
// LockoutStore for the account lockout policy.
type authService struct {
	users   store.UserRepository
	lockout store.LockoutStore
	mailer  adapter.EmailAdapter

	// passwordValidator enforces the password policy on sign-up.
	passwordValidator validators.Validator

	app      config.App
	email    config.Email
	policy   config.AccountLockout
	hashCost int

	// now is replaced in tests.
	now func() time.Time

	logger *logger.Logger
}

// NewAuthService constructs a new AuthService. It fails when the password
// policy pattern does not compile.
//
// The returned service is safe for concurrent use; all state is read-only after
// construction.
func NewAuthService(users store.UserRepository, lockout store.LockoutStore, mailer adapter.EmailAdapter, cfg config.API, logger *logger.Logger) (AuthService, error) {
	passwordValidator, err := validators.NewPasswordPolicyValidator(cfg.PasswordPolicy)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPasswordPolicy, err)
	}

	return &authService{
		users:             users,
		lockout:           lockout,
		mailer:            mailer,
		passwordValidator: passwordValidator,
		app:               cfg.App,
		email:             cfg.Email,
		policy:            cfg.AccountLockout,
		hashCost:          bcrypt.DefaultCost,
		now:               time.Now,
		logger:            logger,
	}, nil
}

// SignUp validates the password policy, stores the account with a bcrypt
// hash and opens a session. When email verification is enabled and an email
// was given, a verification link is mailed; delivery failures are logged
// and do not fail the sign-up.
//
// Returns the stored user or:
//   - ErrUsernameMissing / ErrPasswordMissing for empty credentials.
//   - a wrapped validators error if the password policy rejects the password.
//   - store.ErrUsernameTaken (wrapped) if the username exists.
func (a *authService) SignUp(ctx context.Context, user models.User) (models.User, models.Session, error) {
	log := logger.FromContext(ctx)

	if user.Username == "" {
		return models.User{}, models.Session{}, ErrUsernameMissing
	}
	if user.Password == "" {
		return models.User{}, models.Session{}, ErrPasswordMissing
	}
	if err := a.passwordValidator.Validate(ctx, user); err != nil {
		log.Debug().Err(err).Str("username", user.Username).Msg("password rejected by policy")
		return models.User{}, models.Session{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), a.hashCost)
	if err != nil {
		return models.User{}, models.Session{}, fmt.Errorf("error hashing password: %w", err)
	}

	now := a.now()
	user.ObjectID = utils.NewObjectID()
	user.HashedPassword = string(hash)
	user.Password = ""
	user.CreatedAt = now
	user.EmailVerified = false

	sendVerification := a.email.VerifyUserEmails && user.Email != ""
	if sendVerification {
		user.EmailVerifyToken = utils.NewToken()
		user.EmailVerifyTokenExpiresAt = now.Add(a.email.EmailVerifyTokenValidityDuration)
	}

	if err = a.users.CreateUser(ctx, user); err != nil {
		log.Err(err).Str("username", user.Username).Msg("user creation ended with error")
		return models.User{}, models.Session{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	if sendVerification {
		if err = a.mailer.SendMail(ctx, a.verificationMessage(user)); err != nil {
			log.Err(err).Str("username", user.Username).Msg("error sending verification email")
		}
	}

	session, err := a.openSession(ctx, user)
	if err != nil {
		return models.User{}, models.Session{}, err
	}

	return user, session, nil
}

// Login authenticates an existing user.
//
// Lockout is keyed by username and only applies to existing accounts. The
// failed attempt that reaches the threshold already reports ErrAccountLocked.
func (a *authService) Login(ctx context.Context, username, password string) (models.User, models.Session, error) {
	log := logger.FromContext(ctx)

	if username == "" {
		return models.User{}, models.Session{}, ErrUsernameMissing
	}
	if password == "" {
		return models.User{}, models.Session{}, ErrPasswordMissing
	}

	user, err := a.users.FindUserByUsername(ctx, username)
	if errors.Is(err, store.ErrNoUserWasFound) {
		return models.User{}, models.Session{}, ErrWrongPassword
	}
	if err != nil {
		log.Err(err).Str("username", username).Msg("user search by username failed")
		return models.User{}, models.Session{}, fmt.Errorf("user search by username failed: %w", err)
	}

	if err = a.checkNotLocked(ctx, username); err != nil {
		return models.User{}, models.Session{}, err
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return models.User{}, models.Session{}, a.handleFailedLogin(ctx, username)
	}

	if a.lockoutEnabled() {
		if err = a.lockout.Clear(ctx, username); err != nil {
			log.Err(err).Str("username", username).Msg("error clearing failed login count")
		}
	}

	if a.email.VerifyUserEmails && a.email.PreventLoginWithUnverifiedEmail && user.Email != "" && !user.EmailVerified {
		return models.User{}, models.Session{}, ErrEmailNotVerified
	}

	session, err := a.openSession(ctx, user)
	if err != nil {
		return models.User{}, models.Session{}, err
	}

	return user, session, nil
}

// VerifyEmail marks the address of username as verified. Verifying an
// already verified address succeeds.
func (a *authService) VerifyEmail(ctx context.Context, username, token string) error {
	if username == "" || token == "" {
		return ErrInvalidVerifyToken
	}

	user, err := a.users.FindUserByUsername(ctx, username)
	if errors.Is(err, store.ErrNoUserWasFound) {
		return ErrInvalidVerifyToken
	}
	if err != nil {
		return fmt.Errorf("user search by username failed: %w", err)
	}

	if user.EmailVerified {
		return nil
	}
	if user.EmailVerifyToken != token {
		return ErrInvalidVerifyToken
	}
	if !user.EmailVerifyTokenExpiresAt.IsZero() && a.now().After(user.EmailVerifyTokenExpiresAt) {
		return ErrInvalidVerifyToken
	}

	if err = a.users.MarkEmailVerified(ctx, user.ObjectID); err != nil {
		return fmt.Errorf("error marking email verified: %w", err)
	}
	return nil
}

func (a *authService) lockoutEnabled() bool {
	return a.policy.Threshold > 0 && a.policy.Duration > 0
}

func (a *authService) checkNotLocked(ctx context.Context, username string) error {
	if !a.lockoutEnabled() {
		return nil
	}

	state, err := a.lockout.Get(ctx, username)
	if err != nil {
		return fmt.Errorf("error reading lockout state: %w", err)
	}
	if state.LockedUntil != nil && a.now().Before(*state.LockedUntil) {
		return a.lockedError()
	}
	if state.LockedUntil != nil {
		// expired lock, start counting again
		if err = a.lockout.Clear(ctx, username); err != nil {
			return fmt.Errorf("error clearing expired lockout: %w", err)
		}
	}
	return nil
}

func (a *authService) handleFailedLogin(ctx context.Context, username string) error {
	if !a.lockoutEnabled() {
		return ErrWrongPassword
	}

	window := time.Duration(a.policy.Duration) * time.Minute
	state, err := a.lockout.RecordFailure(ctx, username, a.now(), a.policy.Threshold, window)
	if err != nil {
		return fmt.Errorf("error recording failed login: %w", err)
	}
	if state.LockedUntil != nil {
		logger.FromContext(ctx).Warn().Str("username", username).Msg("account locked")
		return a.lockedError()
	}
	return ErrWrongPassword
}

func (a *authService) lockedError() error {
	return fmt.Errorf("%w, please try again after %d minute(s)", ErrAccountLocked, a.policy.Duration)
}

func (a *authService) openSession(ctx context.Context, user models.User) (models.Session, error) {
	session := models.Session{
		SessionToken: utils.NewSessionToken(),
		UserID:       user.ObjectID,
		CreatedAt:    a.now(),
	}
	if err := a.users.CreateSession(ctx, session); err != nil {
		return models.Session{}, fmt.Errorf("error creating session: %w", err)
	}
	return session, nil
}

func (a *authService) verificationMessage(user models.User) adapter.Message {
	link := fmt.Sprintf("%s/apps/%s/verify_email?%s",
		a.app.PublicServerURL,
		url.PathEscape(a.app.AppID),
		url.Values{"token": {user.EmailVerifyToken}, "username": {user.Username}}.Encode(),
	)

	return adapter.Message{
		To:      user.Email,
		Subject: "Please verify your e-mail for " + a.app.AppName,
		Text: "Hi,\n\n" +
			"You are being asked to confirm the e-mail address " + user.Email + " with " + a.app.AppName + "\n\n" +
			"Click here to confirm it:\n" + link,
	}
}
