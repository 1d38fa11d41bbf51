// Package email delivers notification messages over SMTP. Delivery failure
// is never fatal to the calling workflow; callers are expected to degrade
// gracefully when Send returns an error.
package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog"
)

// Sender is any collaborator that can deliver a notification message.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// SMTPConfig holds configuration for the SMTP server.
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
}

// SMTPSender implements Sender over plain SMTP with AUTH.
type SMTPSender struct {
	config SMTPConfig
	logger zerolog.Logger
}

// NewSMTPSender creates a new SMTPSender.
func NewSMTPSender(config SMTPConfig, logger zerolog.Logger) *SMTPSender {
	return &SMTPSender{config: config, logger: logger}
}

// Send delivers a single HTML message. When SMTP credentials are not
// configured it logs the message instead and succeeds, so development
// environments work without a mail account.
func (s *SMTPSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	if s.config.Username == "" || s.config.Password == "" {
		s.logger.Warn().
			Str("to", to).
			Str("subject", subject).
			Msg("SMTP credentials not configured - message logged instead of sent")
		s.logger.Debug().Str("body", htmlBody).Msg("Message body")
		return nil
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("send cancelled: %w", err)
	}

	from := s.config.FromEmail
	msg := strings.Join([]string{
		fmt.Sprintf("From: %s <%s>", s.config.FromName, from),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
		"",
		htmlBody,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)

	if err := smtp.SendMail(addr, auth, from, []string{to}, []byte(msg)); err != nil {
		s.logger.Error().Err(err).Str("to", to).Msg("Failed to send email")
		return fmt.Errorf("error sending email: %w", err)
	}

	s.logger.Info().Str("to", to).Str("subject", subject).Msg("Email sent")
	return nil
}

// OTPSubject is the subject line used for signup verification mail.
const OTPSubject = "Your Feedback Portal OTP Code"

// OTPBody renders the HTML body for a signup verification message.
func OTPBody(otp string) string {
	return fmt.Sprintf(`
		<h2>Verify Your Email</h2>
		<p>Use the following OTP to complete your signup:</p>
		<h3 style="color: blue;">%s</h3>
		<p>This code will expire in 5 minutes.</p>`, otp)
}
