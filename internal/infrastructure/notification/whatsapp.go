// Package notification wires outbound channels: WhatsApp via Twilio for lead
// updates and SMTP mail for verification, invitations and contact forwarding.
// Delivery is best effort throughout; callers log failures and carry on.
package notification

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/propertyspotter/backend/internal/infrastructure/config"
)

// WhatsAppSender delivers a message to a phone number and returns the
// provider's message SID for delivery tracking.
type WhatsAppSender interface {
	Send(ctx context.Context, toNumber, body string) (sid string, err error)
}

// TwilioWhatsAppSender sends WhatsApp messages through the Twilio REST API.
type TwilioWhatsAppSender struct {
	client     *twilio.RestClient
	fromNumber string
}

// NewTwilioWhatsAppSender creates a sender from configuration.
func NewTwilioWhatsAppSender(cfg config.WhatsAppConfig) *TwilioWhatsAppSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return &TwilioWhatsAppSender{
		client:     client,
		fromNumber: cfg.FromNumber,
	}
}

// Send delivers the body to the given E.164 number over WhatsApp.
func (s *TwilioWhatsAppSender) Send(_ context.Context, toNumber, body string) (string, error) {
	params := &twilioapi.CreateMessageParams{}
	params.SetTo("whatsapp:" + toNumber)
	params.SetFrom("whatsapp:" + s.fromNumber)
	params.SetBody(body)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return "", fmt.Errorf("twilio send failed: %w", err)
	}
	if resp.Sid == nil {
		return "", fmt.Errorf("twilio send returned no message sid")
	}
	return *resp.Sid, nil
}

var _ WhatsAppSender = (*TwilioWhatsAppSender)(nil)

// NoopWhatsAppSender discards messages, used when WhatsApp is disabled.
type NoopWhatsAppSender struct{}

// Send reports success without delivering anything.
func (NoopWhatsAppSender) Send(context.Context, string, string) (string, error) {
	return "", nil
}

var _ WhatsAppSender = (*NoopWhatsAppSender)(nil)
