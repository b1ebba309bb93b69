package services

import (
	"context"

	"github.com/oullim/market/internal/logging"
)

// EmailSender dispatches transactional mail (auth codes). Delivery itself is
// an external service; the core only depends on this interface.
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogEmailSender is the development fallback: it logs the mail instead of
// sending it, so activation flows can be exercised without an SMTP backend.
type LogEmailSender struct {
	logger logging.Logger
}

func NewLogEmailSender(logger logging.Logger) *LogEmailSender {
	return &LogEmailSender{logger: logger}
}

func (s *LogEmailSender) Send(ctx context.Context, to, subject, body string) error {
	s.logger.Info(ctx, "email not sent (log sender)", "to", to, "subject", subject, "body", body)
	return nil
}
