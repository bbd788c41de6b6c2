package livequery

import "errors"

var (
	ErrHubClosed         = errors.New("live query hub is closed")
	ErrMalformedEvent    = errors.New("malformed live query event")
	ErrRedisNotAvailable = errors.New("redis client is not configured")
)
