package adapter

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/baas-sample/internal/config"
	"github.com/MKhiriev/baas-sample/internal/logger"
	"github.com/MKhiriev/baas-sample/internal/utils"
)

const (
	// DefaultMailgunBaseURL is the public Mailgun API endpoint.
	DefaultMailgunBaseURL = "https://api.mailgun.net"

	mailgunTimeout = 15 * time.Second
)

type mailgunAdapter struct {
	client *utils.HTTPClient
	from   string
	domain string

	logger *logger.Logger
}

// NewMailgunAdapter creates an adapter posting to the Mailgun messages API
// at baseURL. Returns ErrIncompleteMailgunOptions unless the API key, domain
// and from address are all set.
func NewMailgunAdapter(opts config.MailgunOptions, baseURL string, log *logger.Logger) (EmailAdapter, error) {
	if opts.APIKey == "" || opts.Domain == "" || opts.FromAddress == "" {
		return nil, ErrIncompleteMailgunOptions
	}
	if baseURL == "" {
		baseURL = DefaultMailgunBaseURL
	}

	client := utils.NewHTTPClient(baseURL, mailgunTimeout)
	client.SetBasicAuth("api", opts.APIKey)

	return &mailgunAdapter{
		client: client,
		from:   opts.FromAddress,
		domain: opts.Domain,
		logger: log,
	}, nil
}

func (m *mailgunAdapter) SendMail(ctx context.Context, msg Message) error {
	resp, err := m.client.R().
		SetContext(ctx).
		SetPathParam("domain", m.domain).
		SetFormData(map[string]string{
			"from":    m.from,
			"to":      msg.To,
			"subject": msg.Subject,
			"text":    msg.Text,
		}).
		Post("/v3/{domain}/messages")
	if err != nil {
		return fmt.Errorf("mailgun request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		m.logger.Err(err).Str("to", msg.To).Msg("mailgun rejected message")
		return err
	}

	m.logger.Debug().Str("to", msg.To).Msg("mail sent")
	return nil
}

type logEmailAdapter struct {
	logger *logger.Logger
}

// NewLogEmailAdapter returns an adapter that only logs outgoing messages.
func NewLogEmailAdapter(log *logger.Logger) EmailAdapter {
	return &logEmailAdapter{logger: log}
}

func (l *logEmailAdapter) SendMail(_ context.Context, msg Message) error {
	l.logger.Info().Str("to", msg.To).Str("subject", msg.Subject).Msg("no mail provider configured, message not sent")
	return nil
}

// NewEmailAdapter picks the adapter described by cfg. Incomplete Mailgun
// options fall back to the logging adapter with a warning.
func NewEmailAdapter(cfg config.EmailAdapter, log *logger.Logger) EmailAdapter {
	mailgun, err := NewMailgunAdapter(cfg.Options, DefaultMailgunBaseURL, log)
	if err != nil {
		log.Warn().Err(err).Str("module", cfg.Module).Msg("email adapter disabled")
		return NewLogEmailAdapter(log)
	}
	return mailgun
}
