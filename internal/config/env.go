// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"strconv"

	"github.com/caarlos0/env/v11"
)

// Names of the environment variables that feed the database URI. They are
// checked in this order.
const (
	envDatabaseURI = "DATABASE_URI"
	envMongoDBURI  = "MONGODB_URI"
)

// environment is the flat set of environment variables recognised by the
// server. Values are mapped onto [StructuredConfig] by parseEnv.
type environment struct {
	DatabaseURI   string `env:"DATABASE_URI"`
	RedisURL      string `env:"REDIS_URL"`
	CloudCodeMain string `env:"CLOUD_CODE_MAIN"`
	AppID         string `env:"APP_ID"`
	MasterKey     string `env:"MASTER_KEY"`
	ServerURL     string `env:"SERVER_URL"`
	ClientKey     string `env:"CLIENT_KEY"`
	RESTAPIKey    string `env:"REST_KEY"`
	FCMAPIKey     string `env:"FCM_API_KEY"`

	MailgunFromAddress string `env:"MAILGUN_FROMADDRESS"`
	MailgunDomain      string `env:"MAILGUN_DOMAIN"`
	MailgunAPIKey      string `env:"MAILGUN_APIKEY"`

	DashboardAdminPassword string `env:"DASHADMIN_PASSWORD"`

	MountPath string `env:"PARSE_MOUNT"`
	// Port is kept raw: a value that is not a positive integer is ignored.
	Port string `env:"PORT"`

	LocalConfigPath string `env:"CONFIG"`
}

// environmentAliases holds alternate names of settings that already have a
// primary environment variable.
type environmentAliases struct {
	MongoDBURI string `env:"MONGODB_URI"`
}

// parseEnv builds the environment layer from environ using the caarlos0/env
// library.
//
// Returns a wrapped error if env.ParseWithOptions fails.
func parseEnv(environ map[string]string) (*StructuredConfig, error) {
	var e environment
	if err := env.ParseWithOptions(&e, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("error getting env configs: %w", err)
	}

	return &StructuredConfig{
		App: App{
			AppID:         e.AppID,
			MasterKey:     e.MasterKey,
			ClientKey:     e.ClientKey,
			RESTAPIKey:    e.RESTAPIKey,
			ServerURL:     e.ServerURL,
			CloudCodeMain: e.CloudCodeMain,
			MountPath:     e.MountPath,
		},
		Storage: Storage{
			DatabaseURI: e.DatabaseURI,
			RedisURL:    e.RedisURL,
		},
		Push: Push{
			Android: AndroidPush{APIKey: e.FCMAPIKey},
		},
		EmailAdapter: EmailAdapter{
			Options: MailgunOptions{
				FromAddress: e.MailgunFromAddress,
				Domain:      e.MailgunDomain,
				APIKey:      e.MailgunAPIKey,
			},
		},
		Dashboard: Dashboard{
			AdminPassword: e.DashboardAdminPassword,
		},
		Server: Server{
			Port: parsePort(e.Port),
		},
		LocalConfigPath: e.LocalConfigPath,
	}, nil
}

// parseEnvAliases builds the alias layer, consulted only for settings whose
// primary variable is absent.
func parseEnvAliases(environ map[string]string) (*StructuredConfig, error) {
	var a environmentAliases
	if err := env.ParseWithOptions(&a, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("error getting env alias configs: %w", err)
	}

	return &StructuredConfig{
		Storage: Storage{DatabaseURI: a.MongoDBURI},
	}, nil
}

// parsePort returns the port encoded in raw, or 0 when raw is not a
// positive integer in the TCP port range.
func parsePort(raw string) int {
	if raw == "" {
		return 0
	}
	port, err := strconv.Atoi(raw)
	if err != nil || port < 1 || port > 65535 {
		return 0
	}
	return port
}
