package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/propertyspotter/backend/internal/domain/contact"
)

// ContactMessageModel is the persistence model for contact-form messages.
type ContactMessageModel struct {
	AggregateModel
	Name        string `gorm:"type:varchar(100);not null"`
	Email       string `gorm:"type:varchar(200);not null;index"`
	Phone       string `gorm:"type:varchar(20)"`
	Subject     string `gorm:"type:varchar(200)"`
	Body        string `gorm:"type:text;not null"`
	ForwardedAt *time.Time
	ResolvedAt  *time.Time `gorm:"index"`
	ResolvedBy  *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (ContactMessageModel) TableName() string {
	return "contact_messages"
}

// ToDomain converts the persistence model to a domain Message aggregate.
func (m *ContactMessageModel) ToDomain() *contact.Message {
	return &contact.Message{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Email:             m.Email,
		Phone:             m.Phone,
		Subject:           m.Subject,
		Body:              m.Body,
		ForwardedAt:       m.ForwardedAt,
		ResolvedAt:        m.ResolvedAt,
		ResolvedBy:        m.ResolvedBy,
	}
}

// FromDomain populates the persistence model from a domain Message aggregate.
func (m *ContactMessageModel) FromDomain(msg *contact.Message) {
	m.FromDomainAggregateRoot(msg.BaseAggregateRoot)
	m.Name = msg.Name
	m.Email = msg.Email
	m.Phone = msg.Phone
	m.Subject = msg.Subject
	m.Body = msg.Body
	m.ForwardedAt = msg.ForwardedAt
	m.ResolvedAt = msg.ResolvedAt
	m.ResolvedBy = msg.ResolvedBy
}

// ContactMessageModelFromDomain creates a new persistence model from a domain Message.
func ContactMessageModelFromDomain(msg *contact.Message) *ContactMessageModel {
	m := &ContactMessageModel{}
	m.FromDomain(msg)
	return m
}
