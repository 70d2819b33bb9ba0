package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/propertyspotter/backend/internal/domain/lead"
)

// LeadModel is the persistence model for the Lead aggregate.
type LeadModel struct {
	AggregateModel
	FirstName         string           `gorm:"type:varchar(100);not null"`
	LastName          string           `gorm:"type:varchar(100);not null"`
	Email             string           `gorm:"type:varchar(200);index"`
	Phone             string           `gorm:"type:varchar(20)"`
	NotesText         string           `gorm:"type:text"`
	Status            lead.Status      `gorm:"type:varchar(20);not null;index"`
	SpotterID         uuid.UUID        `gorm:"type:uuid;not null;index"`
	AgencyID          *uuid.UUID       `gorm:"type:uuid;index"`
	AgentID           *uuid.UUID       `gorm:"type:uuid;index"`
	RequestedAgentID  *uuid.UUID       `gorm:"type:uuid"`
	PropertyID        *uuid.UUID       `gorm:"type:uuid;index"`
	AgreedCommission  *decimal.Decimal `gorm:"type:decimal(20,2)"`
	SpotterPercentage *decimal.Decimal `gorm:"type:decimal(5,2)"`
	AssignedAt        *time.Time
	ClosedAt          *time.Time
}

// TableName returns the table name for GORM
func (LeadModel) TableName() string {
	return "leads"
}

// ToDomain converts the persistence model to a domain Lead aggregate.
func (m *LeadModel) ToDomain() *lead.Lead {
	return &lead.Lead{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		FirstName:         m.FirstName,
		LastName:          m.LastName,
		Email:             m.Email,
		Phone:             m.Phone,
		NotesText:         m.NotesText,
		Status:            m.Status,
		SpotterID:         m.SpotterID,
		AgencyID:          m.AgencyID,
		AgentID:           m.AgentID,
		RequestedAgentID:  m.RequestedAgentID,
		PropertyID:        m.PropertyID,
		AgreedCommission:  m.AgreedCommission,
		SpotterPercentage: m.SpotterPercentage,
		AssignedAt:        m.AssignedAt,
		ClosedAt:          m.ClosedAt,
	}
}

// FromDomain populates the persistence model from a domain Lead aggregate.
func (m *LeadModel) FromDomain(l *lead.Lead) {
	m.FromDomainAggregateRoot(l.BaseAggregateRoot)
	m.FirstName = l.FirstName
	m.LastName = l.LastName
	m.Email = l.Email
	m.Phone = l.Phone
	m.NotesText = l.NotesText
	m.Status = l.Status
	m.SpotterID = l.SpotterID
	m.AgencyID = l.AgencyID
	m.AgentID = l.AgentID
	m.RequestedAgentID = l.RequestedAgentID
	m.PropertyID = l.PropertyID
	m.AgreedCommission = l.AgreedCommission
	m.SpotterPercentage = l.SpotterPercentage
	m.AssignedAt = l.AssignedAt
	m.ClosedAt = l.ClosedAt
}

// LeadModelFromDomain creates a new persistence model from a domain Lead.
func LeadModelFromDomain(l *lead.Lead) *LeadModel {
	m := &LeadModel{}
	m.FromDomain(l)
	return m
}

// LeadNoteModel is the persistence model for notes attached to a lead.
type LeadNoteModel struct {
	BaseModel
	LeadID   uuid.UUID `gorm:"type:uuid;not null;index"`
	AuthorID uuid.UUID `gorm:"type:uuid;not null"`
	Content  string    `gorm:"type:text;not null"`
}

// TableName returns the table name for GORM
func (LeadNoteModel) TableName() string {
	return "lead_notes"
}

// ToDomain converts the persistence model to a domain Note.
func (m *LeadNoteModel) ToDomain() *lead.Note {
	return &lead.Note{
		BaseEntity: m.BaseModel.ToDomain(),
		LeadID:     m.LeadID,
		AuthorID:   m.AuthorID,
		Content:    m.Content,
	}
}

// FromDomain populates the persistence model from a domain Note.
func (m *LeadNoteModel) FromDomain(n *lead.Note) {
	m.FromDomainBaseEntity(n.BaseEntity)
	m.LeadID = n.LeadID
	m.AuthorID = n.AuthorID
	m.Content = n.Content
}

// LeadImageModel is the persistence model for images attached to a lead.
type LeadImageModel struct {
	BaseModel
	LeadID      uuid.UUID `gorm:"type:uuid;not null;index"`
	URL         string    `gorm:"type:varchar(500);not null"`
	Description string    `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (LeadImageModel) TableName() string {
	return "lead_images"
}

// ToDomain converts the persistence model to a domain Image.
func (m *LeadImageModel) ToDomain() *lead.Image {
	return &lead.Image{
		BaseEntity:  m.BaseModel.ToDomain(),
		LeadID:      m.LeadID,
		URL:         m.URL,
		Description: m.Description,
	}
}

// FromDomain populates the persistence model from a domain Image.
func (m *LeadImageModel) FromDomain(i *lead.Image) {
	m.FromDomainBaseEntity(i.BaseEntity)
	m.LeadID = i.LeadID
	m.URL = i.URL
	m.Description = i.Description
}
