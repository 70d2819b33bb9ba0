package blog

import (
	"regexp"
	"strings"
	"time"

	"github.com/propertyspotter/backend/internal/domain/shared"
)

var subscriberEmailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Subscriber is a newsletter subscription. Unsubscribing keeps the row with
// an UnsubscribedAt timestamp so a later resubscribe reactivates it.
type Subscriber struct {
	shared.BaseEntity
	Email          string
	UnsubscribedAt *time.Time
}

// NewSubscriber creates an active newsletter subscription.
func NewSubscriber(email string) (*Subscriber, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !subscriberEmailPattern.MatchString(email) {
		return nil, shared.NewDomainError("INVALID_EMAIL", "invalid email format")
	}
	return &Subscriber{
		BaseEntity: shared.NewBaseEntity(),
		Email:      email,
	}, nil
}

// Active reports whether the subscription currently receives the newsletter.
func (s *Subscriber) Active() bool {
	return s.UnsubscribedAt == nil
}

// Unsubscribe deactivates the subscription.
func (s *Subscriber) Unsubscribe() {
	if s.UnsubscribedAt != nil {
		return
	}
	now := time.Now()
	s.UnsubscribedAt = &now
	s.Touch()
}

// Resubscribe reactivates a previously unsubscribed email.
func (s *Subscriber) Resubscribe() {
	s.UnsubscribedAt = nil
	s.Touch()
}
