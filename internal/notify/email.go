package notify

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"reviewhub/internal/config"
)

// EmailNotifier sends confirmation codes over SMTP.
type EmailNotifier struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewEmailNotifier creates an SMTP-backed notifier.
func NewEmailNotifier(cfg *config.Config, logger *zap.Logger) *EmailNotifier {
	return &EmailNotifier{
		cfg:    cfg,
		logger: logger,
	}
}

// SendConfirmationCode emails the confirmation code to the user. With SMTP
// unconfigured the send is skipped with a warning so local development does
// not require a mail server.
func (n *EmailNotifier) SendConfirmationCode(toEmail, username, code string) error {
	if n.cfg.SMTPHost == "" {
		n.logger.Warn("smtp not configured, skipping confirmation email",
			zap.String("username", username))
		return nil
	}
	if strings.TrimSpace(toEmail) == "" {
		return fmt.Errorf("empty recipient")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.EmailFrom)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "ReviewHub confirmation code")
	m.SetBody("text/plain", fmt.Sprintf(
		"Your login: %s\nYour confirmation_code: %s\n\nExchange it at POST /api/v1/auth/token for an access token.",
		username, code))

	d := gomail.NewDialer(n.cfg.SMTPHost, n.cfg.SMTPPort, n.cfg.SMTPUser, n.cfg.SMTPPass)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	n.logger.Info("confirmation email sent", zap.String("to", toEmail))
	return nil
}
