package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/partshop/backend/internal/domain/partner"
	"github.com/partshop/backend/internal/domain/shared"
)

// PartyRequest creates or updates a supplier or customer
type PartyRequest struct {
	Kind    partner.PartyKind `json:"kind" binding:"omitempty,oneof=SUPPLIER CUSTOMER"`
	Name    string            `json:"name" binding:"required,min=1,max=200"`
	GSTIN   string            `json:"gstin" binding:"omitempty,len=15"`
	Phone   string            `json:"phone" binding:"max=50"`
	Email   string            `json:"email" binding:"omitempty,email,max=200"`
	Address string            `json:"address" binding:"max=500"`
	State   string            `json:"state" binding:"max=100"`
}

func (r PartyRequest) details() partner.PartyDetails {
	return partner.PartyDetails{
		Name:    r.Name,
		GSTIN:   r.GSTIN,
		Phone:   r.Phone,
		Email:   r.Email,
		Address: r.Address,
		State:   r.State,
	}
}

// PartyListFilter represents filter options for party list
type PartyListFilter struct {
	Kind           partner.PartyKind `form:"kind" binding:"omitempty,oneof=SUPPLIER CUSTOMER"`
	Search         string            `form:"search"`
	IncludeDeleted bool              `form:"include_deleted"`
	Page           int               `form:"page"`
	PageSize       int               `form:"page_size"`
	OrderBy        string            `form:"order_by"`
	OrderDir       string            `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func (f PartyListFilter) toDomain() partner.PartyFilter {
	orderBy := f.OrderBy
	if orderBy == "" {
		orderBy = "name"
	}
	dir := f.OrderDir
	if dir == "" {
		dir = "asc"
	}
	return partner.PartyFilter{
		Filter: shared.Filter{
			Page:     f.Page,
			PageSize: f.PageSize,
			OrderBy:  orderBy,
			OrderDir: dir,
			Search:   f.Search,
		},
		Kind:           f.Kind,
		IncludeDeleted: f.IncludeDeleted,
	}
}

// PartyResponse represents a party in API responses
type PartyResponse struct {
	ID        uuid.UUID         `json:"id"`
	Kind      partner.PartyKind `json:"kind"`
	Name      string            `json:"name"`
	GSTIN     string            `json:"gstin,omitempty"`
	Phone     string            `json:"phone,omitempty"`
	Email     string            `json:"email,omitempty"`
	Address   string            `json:"address,omitempty"`
	State     string            `json:"state,omitempty"`
	IsDeleted bool              `json:"is_deleted"`
	Version   int               `json:"version"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// ToPartyResponse converts a domain Party to PartyResponse
func ToPartyResponse(p *partner.Party) PartyResponse {
	return PartyResponse{
		ID:        p.ID,
		Kind:      p.Kind,
		Name:      p.Name,
		GSTIN:     p.GSTIN,
		Phone:     p.Phone,
		Email:     p.Email,
		Address:   p.Address,
		State:     p.State,
		IsDeleted: p.IsDeleted,
		Version:   p.GetVersion(),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
