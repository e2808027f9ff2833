package domain

import (
	"context"
	"fmt"
)

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// WelcomeMessageEmailData holds data for the welcome email.
type WelcomeMessageEmailData struct {
	Email string
	Name  string
}

// SiteLiveEmailData holds data for the "your site is live" email sent when
// an event is published.
type SiteLiveEmailData struct {
	Email     string
	Name      string
	EventName string
	SiteURL   string
}

// PaymentReceiptEmailData holds data for the purchase receipt email.
type PaymentReceiptEmailData struct {
	Email        string
	Name         string
	TemplateName string
	AmountMinor  int64
	Reference    string
}

// AmountDisplay formats the minor-unit amount as a major-unit string for
// rendering in email templates.
func (d *PaymentReceiptEmailData) AmountDisplay() string {
	return fmt.Sprintf("%d.%02d", d.AmountMinor/100, d.AmountMinor%100)
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendWelcomeMessage(ctx context.Context, data *WelcomeMessageEmailData) error
	SendSiteLive(ctx context.Context, data *SiteLiveEmailData) error
	SendPaymentReceipt(ctx context.Context, data *PaymentReceiptEmailData) error
}
