package adapter

import "errors"

var (
	ErrIncompleteMailgunOptions = errors.New("mailgun adapter requires an API key, domain and from address")

	ErrUnauthorized        = errors.New("mail provider rejected credentials")
	ErrBadRequest          = errors.New("mail provider rejected message")
	ErrNotFound            = errors.New("mail provider domain not found")
	ErrTooManyRequests     = errors.New("mail provider rate limit exceeded")
	ErrInternalServerError = errors.New("mail provider internal error")
)
