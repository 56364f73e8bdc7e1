// Package mailer sends verification emails. Delivery is best-effort: a send
// failure is logged and never affects the operation that triggered it.
package mailer

import (
	"context"

	"github.com/thecloudydeveloper/expense-tracker/internal/logging"
)

// Sender delivers a verification code to an email address.
type Sender interface {
	Send(ctx context.Context, toEmail, verificationCode string) error
}

// LogSender is used when no mail API key is configured. It only logs the
// message, which keeps local development working without credentials.
type LogSender struct {
	logger logging.Logger
}

func NewLogSender(logger logging.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, toEmail, verificationCode string) error {
	s.logger.Info(ctx, "mail sending disabled, verification code not delivered", "to", toEmail, "code", verificationCode)
	return nil
}
