package email

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/resend/resend-go/v2"
)

// CodeMessage is a one-time code addressed to a single recipient.
type CodeMessage struct {
	To        string
	Subject   string
	Code      int
	ExpiresAt time.Time
}

// HTML renders the message body.
func (m CodeMessage) HTML() string {
	return fmt.Sprintf(`<h1>%d</h1><p>The code expires at %s.</p>`, m.Code, m.ExpiresAt.UTC().Format(time.RFC1123))
}

// Sender delivers one code message. Implementations must not retry.
type Sender interface {
	SendCode(ctx context.Context, msg CodeMessage) error
}

// LogSender writes code messages to the log instead of delivering them. The
// code itself is only emitted at debug level.
type LogSender struct {
	logger *slog.Logger
}

func (s *LogSender) SendCode(ctx context.Context, msg CodeMessage) error {
	s.logger.InfoContext(ctx, "code email skipped in local env",
		"to", msg.To, "subject", msg.Subject, "expires_at", msg.ExpiresAt)
	s.logger.DebugContext(ctx, "code email content", "to", msg.To, "code", msg.Code)
	return nil
}

// ResendSender delivers through the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
}

func (s *ResendSender) SendCode(ctx context.Context, msg CodeMessage) error {
	_, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML(),
	})
	if err != nil {
		return fmt.Errorf("send %q to resend: %w", msg.Subject, err)
	}
	return nil
}

func NewSender(env, apiKey, from string, logger *slog.Logger) Sender {
	if env == "local" {
		return &LogSender{logger: logger.With("component", "email")}
	}
	return &ResendSender{client: resend.NewClient(apiKey), from: from}
}
