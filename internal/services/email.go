package services

import (
	"context"
	"fmt"
	"log"

	"micrositebuilder/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer}
}

// SendWelcomeMessage sends a welcome email using the "welcome" template and the given data.
func (s *emailService) SendWelcomeMessage(ctx context.Context, data *domain.WelcomeMessageEmailData) error {
	if data == nil {
		return fmt.Errorf("welcome message data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("welcome", data)
	if err != nil {
		return fmt.Errorf("failed to render welcome template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}
	log.Printf("[EMAIL] Welcome email sent to %s", data.Email)
	return nil
}

// SendSiteLive sends the publish confirmation email using the "site_live" template.
func (s *emailService) SendSiteLive(ctx context.Context, data *domain.SiteLiveEmailData) error {
	if data == nil {
		return fmt.Errorf("site live email data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("site_live", data)
	if err != nil {
		return fmt.Errorf("failed to render site_live template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send site_live email: %w", err)
	}
	log.Printf("[EMAIL] Site-live email sent to %s", data.Email)
	return nil
}

// SendPaymentReceipt sends the purchase receipt using the "payment_receipt" template.
func (s *emailService) SendPaymentReceipt(ctx context.Context, data *domain.PaymentReceiptEmailData) error {
	if data == nil {
		return fmt.Errorf("payment receipt email data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("payment_receipt", data)
	if err != nil {
		return fmt.Errorf("failed to render payment_receipt template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send payment receipt email: %w", err)
	}
	log.Printf("[EMAIL] Payment receipt sent to %s", data.Email)
	return nil
}
