package models

import (
	"time"

	"github.com/dealerdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BaseModel provides common persistence fields for all models
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to a domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomain populates BaseModel from a domain BaseEntity
func (m *BaseModel) FromDomain(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// CompanyModel provides common persistence fields for company-scoped rows
type CompanyModel struct {
	BaseModel
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// ToDomain converts CompanyModel to a domain CompanyEntity
func (m *CompanyModel) ToDomain() shared.CompanyEntity {
	return shared.CompanyEntity{
		BaseEntity: m.BaseModel.ToDomain(),
		CompanyID:  m.CompanyID,
	}
}

// FromDomain populates CompanyModel from a domain CompanyEntity
func (m *CompanyModel) FromDomain(e shared.CompanyEntity) {
	m.BaseModel.FromDomain(e.BaseEntity)
	m.CompanyID = e.CompanyID
}
