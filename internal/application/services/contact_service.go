package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/districhem/backoffice/internal/domain/entities"
	"github.com/districhem/backoffice/internal/infrastructure/logger"
	"github.com/districhem/backoffice/internal/ports"
)

// ContactService hands contact and quote requests to the email dispatch
// boundary and builds the WhatsApp deep link for quotes.
type ContactService struct {
	sender ports.EmailSender
	logger *logger.Logger
}

// NewContactService creates a new contact service
func NewContactService(sender ports.EmailSender, appLogger *logger.Logger) *ContactService {
	return &ContactService{
		sender: sender,
		logger: appLogger,
	}
}

// Send dispatches a contact message. Success or failure only, no retry.
func (s *ContactService) Send(ctx context.Context, msg ports.ContactMessage) error {
	if s.sender == nil {
		return fmt.Errorf("mail dispatch is not configured")
	}

	if err := s.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("dispatch contact message: %w", err)
	}

	s.logger.Infow("Contact message dispatched", "subject", msg.Subject, "template", msg.Template)
	return nil
}

// WhatsAppQuoteLink builds the deep link prefilled with a quote request
// for the given product. Pure projection, nothing persisted.
func WhatsAppQuoteLink(phone string, product *entities.Product, quantity float64) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)

	text := fmt.Sprintf("Bonjour, je souhaite un devis pour %s (réf. %s), quantité: %g.",
		product.Name, product.Reference, quantity)

	return fmt.Sprintf("https://wa.me/%s?text=%s", digits, url.QueryEscape(text))
}
