// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"time"

	"github.com/MKhiriev/baas-sample/internal/logger"
	"github.com/caarlos0/env/v11"
)

// StructuredConfig is the top-level configuration container of the
// baas-sample server. Every field has exactly one winning source after
// resolution; see [Resolve] for the precedence order.
type StructuredConfig struct {
	// App holds the identity and key material of the hosted application
	// together with the URLs it is reachable under.
	App App

	// Storage holds the connection strings of the backing stores.
	Storage Storage

	// Push holds push notification credentials.
	Push Push

	// LiveQuery holds the real-time subscription settings.
	LiveQuery LiveQuery

	// Email holds the email verification policy.
	Email Email

	// EmailAdapter describes the outbound mail provider.
	EmailAdapter EmailAdapter

	// AccountLockout holds the failed-login lockout policy.
	AccountLockout AccountLockout

	// PasswordPolicy holds the password acceptance rules.
	PasswordPolicy PasswordPolicy

	// Dashboard holds the administrative dashboard settings.
	Dashboard Dashboard

	// Server holds listener and front-end settings.
	Server Server

	// LocalConfigPath is the path of the local defaults file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	LocalConfigPath string
}

// App holds application-level settings shared by the API and the dashboard.
type App struct {
	// AppID identifies the application. Env: APP_ID, file: appId.
	AppID string

	// MasterKey grants unrestricted API access. Env: MASTER_KEY, file: masterKey.
	MasterKey string

	// ClientKey is an optional client key. Env: CLIENT_KEY, file: clientKey.
	ClientKey string

	// RESTAPIKey is an optional REST key. Env: REST_KEY, file: restAPIKey.
	RESTAPIKey string

	// AppName is the display name used in emails and the dashboard.
	AppName string

	// ServerURL is the URL the dashboard uses to reach the API.
	// Env: SERVER_URL, file: serverURL.
	ServerURL string

	// PublicServerURL is the externally visible API URL used in email links.
	PublicServerURL string

	// CloudCodeMain is the cloud code entry point. Env: CLOUD_CODE_MAIN.
	CloudCodeMain string

	// MountPath is the URL prefix of the API. Env: PARSE_MOUNT.
	MountPath string
}

// Storage groups connection strings of the backing stores.
type Storage struct {
	// DatabaseURI is the MongoDB connection string.
	// Env: DATABASE_URI, then MONGODB_URI; file: databaseURI.
	DatabaseURI string

	// RedisURL enables the Redis live query bridge and the shared lockout
	// store when set. Env: REDIS_URL, file: redisURL.
	RedisURL string
}

// Push holds push notification credentials per platform.
type Push struct {
	Android AndroidPush
}

// AndroidPush holds the FCM credentials. Env: FCM_API_KEY, file: fcmApiKey.
type AndroidPush struct {
	APIKey string
}

// LiveQuery holds the allowlist of classes that accept query subscriptions.
type LiveQuery struct {
	ClassNames []string
}

// Email holds the email verification policy of the API.
type Email struct {
	VerifyUserEmails                 bool
	EmailVerifyTokenValidityDuration time.Duration
	PreventLoginWithUnverifiedEmail  bool
}

// EmailAdapter names the mail provider module and its credentials.
type EmailAdapter struct {
	Module  string
	Options MailgunOptions
}

// MailgunOptions are the credentials of the Mailgun provider.
type MailgunOptions struct {
	// FromAddress is the sender of outgoing mail.
	// Env: MAILGUN_FROMADDRESS, file: mailgunFromAddress.
	FromAddress string
	// Domain is the Mailgun sending domain.
	// Env: MAILGUN_DOMAIN, file: mailgunDomain.
	Domain string
	// APIKey is the Mailgun API key.
	// Env: MAILGUN_APIKEY, file: mailgunApiKey.
	APIKey string
}

// AccountLockout locks an account for Duration minutes after Threshold
// consecutive failed logins.
type AccountLockout struct {
	Duration  int
	Threshold int
}

// PasswordPolicy describes the rules a new password must satisfy.
type PasswordPolicy struct {
	ValidatorPattern           string
	DoNotAllowUsername         bool
	MaxPasswordHistory         int
	ResetTokenValidityDuration time.Duration
}

// Dashboard holds the administrative dashboard settings.
type Dashboard struct {
	AdminUser string
	// AdminPassword env: DASHADMIN_PASSWORD.
	AdminPassword         string
	TrustProxy            int
	AllowInsecureHTTP     bool
	UseEncryptedPasswords bool
}

// Server holds listener and front-end settings.
type Server struct {
	// Port is the TCP port of the single listener. Env: PORT.
	Port int

	// PublicDir is served under /public.
	PublicDir string

	// TestPage is served under /test.
	TestPage string

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration
}

// API is the curated configuration surface accepted by the API collaborator.
type API struct {
	App            App
	Storage        Storage
	Push           Push
	LiveQuery      LiveQuery
	Email          Email
	EmailAdapter   EmailAdapter
	AccountLockout AccountLockout
	PasswordPolicy PasswordPolicy
}

// DashboardApp describes one application shown by the dashboard.
type DashboardApp struct {
	ServerURL string `json:"serverURL"`
	AppID     string `json:"appId"`
	MasterKey string `json:"masterKey"`
	AppName   string `json:"appName"`
}

// DashboardUser is a dashboard login credential.
type DashboardUser struct {
	User string
	Pass string
}

// DashboardOptions is the curated configuration surface accepted by the
// dashboard collaborator.
type DashboardOptions struct {
	Apps                  []DashboardApp
	Users                 []DashboardUser
	TrustProxy            int
	AllowInsecureHTTP     bool
	UseEncryptedPasswords bool
}

// API returns the sub-object of cfg passed to the API collaborator.
func (cfg *StructuredConfig) API() API {
	return API{
		App:            cfg.App,
		Storage:        cfg.Storage,
		Push:           cfg.Push,
		LiveQuery:      cfg.LiveQuery,
		Email:          cfg.Email,
		EmailAdapter:   cfg.EmailAdapter,
		AccountLockout: cfg.AccountLockout,
		PasswordPolicy: cfg.PasswordPolicy,
	}
}

// DashboardOptions returns the sub-object of cfg passed to the dashboard
// collaborator. The single app entry mirrors the API identity.
func (cfg *StructuredConfig) DashboardOptions() DashboardOptions {
	return DashboardOptions{
		Apps: []DashboardApp{{
			ServerURL: cfg.App.ServerURL,
			AppID:     cfg.App.AppID,
			MasterKey: cfg.App.MasterKey,
			AppName:   cfg.App.AppName,
		}},
		Users: []DashboardUser{{
			User: cfg.Dashboard.AdminUser,
			Pass: cfg.Dashboard.AdminPassword,
		}},
		TrustProxy:            cfg.Dashboard.TrustProxy,
		AllowInsecureHTTP:     cfg.Dashboard.AllowInsecureHTTP,
		UseEncryptedPasswords: cfg.Dashboard.UseEncryptedPasswords,
	}
}

// Sources are the raw inputs of configuration resolution.
type Sources struct {
	// Environ maps environment variable names to values. Absent variables
	// are simply not present.
	Environ map[string]string

	// Args are the command-line arguments without the program name.
	Args []string
}

// Resolve merges all configuration layers into one [StructuredConfig].
// For every setting the first layer holding a non-zero value wins:
//  1. Environment variables
//  2. Environment aliases (MONGODB_URI)
//  3. Command-line flags
//  4. Local defaults file (path resolved from layers 1 and 3)
//  5. Hardcoded literals
//
// Missing values never fail resolution.
func Resolve(src Sources, log *logger.Logger) (*StructuredConfig, error) {
	return newConfigBuilder(src, log).
		withEnv().
		withEnvAliases().
		withFlags().
		withLocalDefaults().
		withLiterals().
		build()
}

// GetStructuredConfig resolves the configuration of the running process.
func GetStructuredConfig(log *logger.Logger) (*StructuredConfig, error) {
	return Resolve(Sources{
		Environ: env.ToMap(os.Environ()),
		Args:    os.Args[1:],
	}, log)
}
