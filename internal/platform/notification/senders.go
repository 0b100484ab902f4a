package notification

import (
	"context"

	"github.com/rs/zerolog"
)

// LogEmailSender writes outbound email to the log instead of a provider.
// Used until a real SMTP or transactional-mail integration is configured.
type LogEmailSender struct {
	log zerolog.Logger
}

func NewLogEmailSender(log zerolog.Logger) *LogEmailSender {
	return &LogEmailSender{log: log.With().Str("component", "email-sender").Logger()}
}

func (s *LogEmailSender) SendEmail(_ context.Context, to, subject, _ string) error {
	s.log.Info().Str("to", to).Str("subject", subject).Msg("Email sent")
	return nil
}

// LogSMSSender is the SMS counterpart of LogEmailSender.
type LogSMSSender struct {
	log zerolog.Logger
}

func NewLogSMSSender(log zerolog.Logger) *LogSMSSender {
	return &LogSMSSender{log: log.With().Str("component", "sms-sender").Logger()}
}

func (s *LogSMSSender) SendSMS(_ context.Context, to, _ string) error {
	s.log.Info().Str("to", to).Msg("SMS sent")
	return nil
}
