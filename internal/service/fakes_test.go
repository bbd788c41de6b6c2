package service

import (
	"context"
	"sync"

	"github.com/MKhiriev/baas-sample/internal/adapter"
	"github.com/MKhiriev/baas-sample/models"
)

// ─────────────────────────────────────────────
// Fake: adapter.EmailAdapter
// ─────────────────────────────────────────────

type fakeMailer struct {
	mu   sync.Mutex
	sent []adapter.Message
	err  error
}

func (m *fakeMailer) SendMail(_ context.Context, msg adapter.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return m.err
}

func (m *fakeMailer) messages() []adapter.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]adapter.Message(nil), m.sent...)
}

// ─────────────────────────────────────────────
// Fake: EventPublisher
// ─────────────────────────────────────────────

type fakePublisher struct {
	mu     sync.Mutex
	events []models.Event
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, event models.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *fakePublisher) published() []models.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.Event(nil), p.events...)
}
