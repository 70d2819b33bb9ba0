package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/propertyspotter/backend/internal/domain/commission"
)

// CommissionModel is the persistence model for the Commission aggregate.
type CommissionModel struct {
	AggregateModel
	LeadID            uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex"`
	SpotterID         uuid.UUID         `gorm:"type:uuid;not null;index"`
	AgencyID          *uuid.UUID        `gorm:"type:uuid;index"`
	AgentID           *uuid.UUID        `gorm:"type:uuid;index"`
	TotalAmount       decimal.Decimal   `gorm:"type:decimal(20,2);not null"`
	SpotterPercentage decimal.Decimal   `gorm:"type:decimal(5,2);not null"`
	SpotterAmount     decimal.Decimal   `gorm:"type:decimal(20,2);not null"`
	PlatformAmount    decimal.Decimal   `gorm:"type:decimal(20,2);not null"`
	Status            commission.Status `gorm:"type:varchar(20);not null;index"`
	ApprovedAt        *time.Time
	ApprovedBy        *uuid.UUID `gorm:"type:uuid"`
	PaidAt            *time.Time
	PaymentReference  string `gorm:"type:varchar(100)"`
	CancelReason      string `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (CommissionModel) TableName() string {
	return "commissions"
}

// ToDomain converts the persistence model to a domain Commission aggregate.
func (m *CommissionModel) ToDomain() *commission.Commission {
	return &commission.Commission{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		LeadID:            m.LeadID,
		SpotterID:         m.SpotterID,
		AgencyID:          m.AgencyID,
		AgentID:           m.AgentID,
		TotalAmount:       m.TotalAmount,
		SpotterPercentage: m.SpotterPercentage,
		SpotterAmount:     m.SpotterAmount,
		PlatformAmount:    m.PlatformAmount,
		Status:            m.Status,
		ApprovedAt:        m.ApprovedAt,
		ApprovedBy:        m.ApprovedBy,
		PaidAt:            m.PaidAt,
		PaymentReference:  m.PaymentReference,
		CancelReason:      m.CancelReason,
	}
}

// FromDomain populates the persistence model from a domain Commission aggregate.
func (m *CommissionModel) FromDomain(c *commission.Commission) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.LeadID = c.LeadID
	m.SpotterID = c.SpotterID
	m.AgencyID = c.AgencyID
	m.AgentID = c.AgentID
	m.TotalAmount = c.TotalAmount
	m.SpotterPercentage = c.SpotterPercentage
	m.SpotterAmount = c.SpotterAmount
	m.PlatformAmount = c.PlatformAmount
	m.Status = c.Status
	m.ApprovedAt = c.ApprovedAt
	m.ApprovedBy = c.ApprovedBy
	m.PaidAt = c.PaidAt
	m.PaymentReference = c.PaymentReference
	m.CancelReason = c.CancelReason
}

// CommissionModelFromDomain creates a new persistence model from a domain Commission.
func CommissionModelFromDomain(c *commission.Commission) *CommissionModel {
	m := &CommissionModel{}
	m.FromDomain(c)
	return m
}
