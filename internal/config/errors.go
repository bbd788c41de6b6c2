package config

import "errors"

// Errors returned while resolving configuration.
var (
	// ErrLocalConfigNotFound indicates that the local defaults file does not
	// exist. The builder treats it as an empty layer.
	ErrLocalConfigNotFound = errors.New("local config file not found")
	// ErrMalformedLocalConfig indicates that the local defaults file exists
	// but cannot be decoded.
	ErrMalformedLocalConfig = errors.New("malformed local config file")
	// ErrInvalidServerConfigs indicates a listen port outside 1..65535.
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
)
