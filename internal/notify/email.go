package notify

import (
	"context"
	"fmt"
	"log"

	"github.com/resend/resend-go/v2"
)

// EmailSender sends transactional mail. Failures are terminal: callers
// log and move on, they never retry or queue.
type EmailSender interface {
	Send(ctx context.Context, to []string, subject, html string) error
}

// ResendSender sends via the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
}

func NewResendSender(apiKey, from string) *ResendSender {
	return &ResendSender{client: resend.NewClient(apiKey), from: from}
}

func (s *ResendSender) Send(ctx context.Context, to []string, subject, html string) error {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      to,
		Subject: subject,
		Html:    html,
	}
	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("resend send failed: %w", err)
	}
	log.Printf("email sent id=%s to=%v subject=%q", sent.Id, to, subject)
	return nil
}

// LogSender is the no-API-key fallback: messages go to the log so
// local development works without credentials.
type LogSender struct{}

func (LogSender) Send(_ context.Context, to []string, subject, _ string) error {
	log.Printf("email (dev, not sent) to=%v subject=%q", to, subject)
	return nil
}
