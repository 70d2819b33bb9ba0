package update

import "github.com/propertyspotter/backend/internal/domain/shared"

// UpdateQueuedEvent is raised when an update is created and awaiting
// delivery.
type UpdateQueuedEvent struct {
	shared.BaseDomainEvent
	LeadID      string `json:"lead_id"`
	RecipientID string `json:"recipient_id"`
}

func NewUpdateQueuedEvent(u *Update) *UpdateQueuedEvent {
	return &UpdateQueuedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("update.queued", "Update", u.ID),
		LeadID:          u.LeadID.String(),
		RecipientID:     u.RecipientID.String(),
	}
}
