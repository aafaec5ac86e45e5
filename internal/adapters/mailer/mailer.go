package mailer

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/districhem/backoffice/internal/infrastructure/config"
	"github.com/districhem/backoffice/internal/infrastructure/logger"
	"github.com/districhem/backoffice/internal/ports"
)

// SMTPSender delivers contact and quote requests to the company mailbox.
type SMTPSender struct {
	cfg    config.MailConfig
	dialer *gomail.Dialer
	logger *logger.Logger
}

// New creates an SMTP sender, or nil when mail is disabled.
func New(cfg config.MailConfig, appLogger *logger.Logger) *SMTPSender {
	if !cfg.Enabled {
		return nil
	}
	return &SMTPSender{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		logger: appLogger.WithComponent("mailer"),
	}
}

// Send delivers one message. The context deadline is honored before
// dialing; gomail itself has no context support.
func (s *SMTPSender) Send(ctx context.Context, msg ports.ContactMessage) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", s.cfg.To)
	m.SetHeader("Reply-To", msg.Email)
	m.SetHeader("Subject", fmt.Sprintf("[%s] %s", template(msg.Template), msg.Subject))
	m.SetBody("text/plain", body(msg))

	if err := s.dialer.DialAndSend(m); err != nil {
		s.logger.Errorw("Mail delivery failed", "error", err, "template", msg.Template)
		return fmt.Errorf("send mail: %w", err)
	}

	return nil
}

func template(name string) string {
	switch name {
	case "quote":
		return "Demande de devis"
	default:
		return "Contact"
	}
}

func body(msg ports.ContactMessage) string {
	return fmt.Sprintf("Nom: %s\nEmail: %s\nTéléphone: %s\n\n%s\n", msg.Name, msg.Email, msg.Phone, msg.Body)
}
