package models

import (
	"github.com/partshop/backend/internal/domain/partner"
)

// PartyModel is the persistence model for suppliers and customers
type PartyModel struct {
	AggregateModel
	SoftDeleteModel
	Kind    partner.PartyKind `gorm:"type:varchar(20);not null;index"`
	Name    string            `gorm:"type:varchar(200);not null;index"`
	GSTIN   string            `gorm:"column:gstin;type:varchar(15)"`
	Phone   string            `gorm:"type:varchar(30)"`
	Email   string            `gorm:"type:varchar(100)"`
	Address string            `gorm:"type:text"`
	State   string            `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (PartyModel) TableName() string {
	return "parties"
}

// ToDomain converts the persistence model to a domain Party
func (m *PartyModel) ToDomain() *partner.Party {
	return &partner.Party{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		SoftDeletable:     m.SoftDeleteModel.ToDomain(),
		Kind:              m.Kind,
		Name:              m.Name,
		GSTIN:             m.GSTIN,
		Phone:             m.Phone,
		Email:             m.Email,
		Address:           m.Address,
		State:             m.State,
	}
}

// FromDomain populates the persistence model from a domain Party
func (m *PartyModel) FromDomain(p *partner.Party) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.SoftDeleteModel.FromDomain(p.SoftDeletable)
	m.Kind = p.Kind
	m.Name = p.Name
	m.GSTIN = p.GSTIN
	m.Phone = p.Phone
	m.Email = p.Email
	m.Address = p.Address
	m.State = p.State
}

// PartyModelFromDomain creates a new persistence model from a domain Party
func PartyModelFromDomain(p *partner.Party) *PartyModel {
	m := &PartyModel{}
	m.FromDomain(p)
	return m
}
