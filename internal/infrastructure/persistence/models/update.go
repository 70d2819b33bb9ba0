package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/propertyspotter/backend/internal/domain/update"
)

// LeadUpdateModel is the persistence model for the lead Update aggregate.
type LeadUpdateModel struct {
	AggregateModel
	LeadID       uuid.UUID             `gorm:"type:uuid;not null;index"`
	RecipientID  uuid.UUID             `gorm:"type:uuid;not null;index"`
	AuthorID     *uuid.UUID            `gorm:"type:uuid"`
	Body         string                `gorm:"type:varchar(1600);not null"`
	Channel      string                `gorm:"type:varchar(20);not null"`
	Delivery     update.DeliveryStatus `gorm:"type:varchar(20);not null;index"`
	ProviderSID  string                `gorm:"type:varchar(100);index"`
	FailureNote  string                `gorm:"type:varchar(255)"`
	DeliveredAt  *time.Time
	ReadAt       *time.Time
	SystemIssued bool `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (LeadUpdateModel) TableName() string {
	return "lead_updates"
}

// ToDomain converts the persistence model to a domain Update aggregate.
func (m *LeadUpdateModel) ToDomain() *update.Update {
	return &update.Update{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		LeadID:            m.LeadID,
		RecipientID:       m.RecipientID,
		AuthorID:          m.AuthorID,
		Body:              m.Body,
		Channel:           m.Channel,
		Delivery:          m.Delivery,
		ProviderSID:       m.ProviderSID,
		FailureNote:       m.FailureNote,
		DeliveredAt:       m.DeliveredAt,
		ReadAt:            m.ReadAt,
		SystemIssued:      m.SystemIssued,
	}
}

// FromDomain populates the persistence model from a domain Update aggregate.
func (m *LeadUpdateModel) FromDomain(u *update.Update) {
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	m.LeadID = u.LeadID
	m.RecipientID = u.RecipientID
	m.AuthorID = u.AuthorID
	m.Body = u.Body
	m.Channel = u.Channel
	m.Delivery = u.Delivery
	m.ProviderSID = u.ProviderSID
	m.FailureNote = u.FailureNote
	m.DeliveredAt = u.DeliveredAt
	m.ReadAt = u.ReadAt
	m.SystemIssued = u.SystemIssued
}

// LeadUpdateModelFromDomain creates a new persistence model from a domain Update.
func LeadUpdateModelFromDomain(u *update.Update) *LeadUpdateModel {
	m := &LeadUpdateModel{}
	m.FromDomain(u)
	return m
}
