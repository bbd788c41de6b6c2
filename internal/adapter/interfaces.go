// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides outbound integrations used by the API services.
//
// The primary abstraction is [EmailAdapter], which decouples the auth service
// from the mail provider. The package ships a Mailgun implementation
// ([NewMailgunAdapter]) built on resty and a logging fallback
// ([NewLogEmailAdapter]) used when no provider credentials are configured.
//
// Provider responses are mapped to the sentinel values in errors.go by
// mapHTTPError so that callers can use [errors.Is].
package adapter

import "context"

// Message is a plain-text email.
type Message struct {
	To      string
	Subject string
	Text    string
}

// EmailAdapter delivers transactional emails such as address verification
// links.
type EmailAdapter interface {
	// SendMail delivers msg or returns an error describing why the provider
	// rejected it.
	SendMail(ctx context.Context, msg Message) error
}
