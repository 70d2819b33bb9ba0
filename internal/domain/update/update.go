// Package update contains the lead update aggregate: status messages sent
// to spotters over WhatsApp as their leads progress, with per-message
// delivery tracking.
package update

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/propertyspotter/backend/internal/domain/shared"
)

// DeliveryStatus tracks a message through the WhatsApp delivery pipeline.
type DeliveryStatus string

const (
	DeliveryPending   DeliveryStatus = "PENDING"
	DeliverySent      DeliveryStatus = "SENT"
	DeliveryDelivered DeliveryStatus = "DELIVERED"
	DeliveryRead      DeliveryStatus = "READ"
	DeliveryFailed    DeliveryStatus = "FAILED"
)

// IsValid reports whether the status is one of the known delivery states.
func (s DeliveryStatus) IsValid() bool {
	switch s {
	case DeliveryPending, DeliverySent, DeliveryDelivered, DeliveryRead, DeliveryFailed:
		return true
	}
	return false
}

// rank orders delivery states so provider callbacks arriving out of order
// never move a message backwards.
func (s DeliveryStatus) rank() int {
	switch s {
	case DeliveryPending:
		return 0
	case DeliverySent:
		return 1
	case DeliveryDelivered:
		return 2
	case DeliveryRead:
		return 3
	case DeliveryFailed:
		return 4
	}
	return -1
}

// Update is a progress message about a lead, addressed to its spotter.
type Update struct {
	shared.BaseAggregateRoot
	LeadID       uuid.UUID
	RecipientID  uuid.UUID
	AuthorID     *uuid.UUID
	Body         string
	Channel      string
	Delivery     DeliveryStatus
	ProviderSID  string
	FailureNote  string
	DeliveredAt  *time.Time
	ReadAt       *time.Time
	SystemIssued bool
}

// ChannelWhatsApp is the only delivery channel currently wired.
const ChannelWhatsApp = "whatsapp"

// NewUpdate creates a pending update addressed to the lead's spotter.
// A nil author marks the update as system generated.
func NewUpdate(leadID, recipientID uuid.UUID, authorID *uuid.UUID, body string) (*Update, error) {
	if leadID == uuid.Nil || recipientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_UPDATE", "update requires a lead and a recipient")
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, shared.NewDomainError("INVALID_UPDATE", "update body is required")
	}
	if len(body) > 1600 {
		return nil, shared.NewDomainError("INVALID_UPDATE", "update body cannot exceed 1600 characters")
	}

	u := &Update{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		LeadID:            leadID,
		RecipientID:       recipientID,
		AuthorID:          authorID,
		Body:              body,
		Channel:           ChannelWhatsApp,
		Delivery:          DeliveryPending,
		SystemIssued:      authorID == nil,
	}
	u.AddDomainEvent(NewUpdateQueuedEvent(u))
	return u, nil
}

// MarkSent records the provider accepting the message.
func (u *Update) MarkSent(providerSID string) error {
	return u.advance(DeliverySent, providerSID, "")
}

// MarkDelivered records a provider delivery callback.
func (u *Update) MarkDelivered() error {
	if err := u.advance(DeliveryDelivered, "", ""); err != nil {
		return err
	}
	now := time.Now()
	u.DeliveredAt = &now
	return nil
}

// MarkRead records a provider read callback.
func (u *Update) MarkRead() error {
	if err := u.advance(DeliveryRead, "", ""); err != nil {
		return err
	}
	now := time.Now()
	u.ReadAt = &now
	return nil
}

// MarkFailed records a terminal delivery failure.
func (u *Update) MarkFailed(reason string) error {
	if u.Delivery == DeliveryFailed {
		return nil
	}
	u.Delivery = DeliveryFailed
	u.FailureNote = reason
	u.Touch()
	return nil
}

func (u *Update) advance(to DeliveryStatus, providerSID, note string) error {
	if u.Delivery == DeliveryFailed {
		return shared.NewDomainError("INVALID_UPDATE_STATUS", "a failed update cannot advance")
	}
	if to.rank() <= u.Delivery.rank() {
		// Stale callback, nothing to do.
		return nil
	}
	u.Delivery = to
	if providerSID != "" {
		u.ProviderSID = providerSID
	}
	if note != "" {
		u.FailureNote = note
	}
	u.Touch()
	return nil
}
