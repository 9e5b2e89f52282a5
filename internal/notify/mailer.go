// Package notify renders and sends customer emails.
package notify

import (
	"context"
	"errors"

	"flightclaim/backend/internal/logger"
)

var ErrNoRecipient = errors.New("email has no recipient")

// Email is a rendered HTML message.
type Email struct {
	To      string
	Subject string
	HTML    string
}

// Mailer delivers rendered emails.
type Mailer interface {
	Send(ctx context.Context, e Email) error
}

// LogMailer only logs the emails. Used when Gmail is not configured.
type LogMailer struct {
	log logger.Logger
}

func NewLogMailer(log logger.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(_ context.Context, e Email) error {
	if e.To == "" {
		return ErrNoRecipient
	}
	m.log.Info("email not sent, mailer not configured", "to", e.To, "subject", e.Subject)
	return nil
}
