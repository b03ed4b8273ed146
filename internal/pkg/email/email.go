package email

import (
	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

// SMTPConfig holds configuration for the SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
}

// Sender defines the interface for outbound email delivery
type Sender interface {
	Send(toEmail, subject, htmlBody string) error
}

// SMTPSender implements Sender over gomail
type SMTPSender struct {
	config SMTPConfig
	dialer *gomail.Dialer
	logger zerolog.Logger
}

// NewSMTPSender creates a new SMTP-backed sender
func NewSMTPSender(config SMTPConfig, logger zerolog.Logger) *SMTPSender {
	return &SMTPSender{
		config: config,
		dialer: gomail.NewDialer(config.Host, config.Port, config.Username, config.Password),
		logger: logger,
	}
}

// Send delivers a single HTML email. When SMTP credentials are not
// configured the message is logged instead, so local development works
// without a mail account.
func (s *SMTPSender) Send(toEmail, subject, htmlBody string) error {
	if s.config.Username == "" || s.config.Password == "" {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("subject", subject).
			Msg("SMTP credentials not configured - email not sent")
		return nil
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.config.FromEmail, s.config.FromName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		s.logger.Error().Err(err).Str("toEmail", toEmail).Msg("Failed to send email")
		return err
	}

	s.logger.Debug().Str("toEmail", toEmail).Str("subject", subject).Msg("Email sent")
	return nil
}
