package partner

import (
	"context"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/partshop/backend/internal/domain/shared"
)

// PartyKind distinguishes suppliers from customers
type PartyKind string

const (
	PartyKindSupplier PartyKind = "SUPPLIER"
	PartyKindCustomer PartyKind = "CUSTOMER"
)

// IsValid checks if the kind is known
func (k PartyKind) IsValid() bool {
	return k == PartyKindSupplier || k == PartyKindCustomer
}

var gstinPattern = regexp.MustCompile(`^[0-9]{2}[A-Z0-9]{13}$`)

// Party is a supplier or a customer
type Party struct {
	shared.BaseAggregateRoot
	shared.SoftDeletable
	Kind    PartyKind
	Name    string
	GSTIN   string
	Phone   string
	Email   string
	Address string
	State   string
}

// PartyDetails carries the mutable attributes of a party
type PartyDetails struct {
	Name    string
	GSTIN   string
	Phone   string
	Email   string
	Address string
	State   string
}

// NewParty creates a new supplier or customer
func NewParty(kind PartyKind, details PartyDetails) (*Party, error) {
	if !kind.IsValid() {
		return nil, shared.NewValidationError("INVALID_PARTY_KIND", "Party kind must be SUPPLIER or CUSTOMER")
	}
	p := &Party{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Kind:              kind,
	}
	if err := p.apply(details); err != nil {
		return nil, err
	}
	return p, nil
}

// Update replaces the mutable attributes
func (p *Party) Update(details PartyDetails) error {
	if err := p.apply(details); err != nil {
		return err
	}
	p.Touch()
	p.IncrementVersion()
	return nil
}

// Delete tombstones the party
func (p *Party) Delete() {
	if p.IsDeleted {
		return
	}
	p.MarkDeleted()
	p.Touch()
	p.IncrementVersion()
}

func (p *Party) apply(d PartyDetails) error {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return shared.NewValidationError("INVALID_NAME", "Party name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewValidationError("INVALID_NAME", "Party name cannot exceed 200 characters")
	}
	gstin := strings.ToUpper(strings.TrimSpace(d.GSTIN))
	if gstin != "" && !gstinPattern.MatchString(gstin) {
		return shared.NewValidationError("INVALID_GSTIN", "GSTIN must be 15 characters starting with a 2-digit state code")
	}
	p.Name = name
	p.GSTIN = gstin
	p.Phone = strings.TrimSpace(d.Phone)
	p.Email = strings.TrimSpace(d.Email)
	p.Address = strings.TrimSpace(d.Address)
	p.State = strings.TrimSpace(d.State)
	return nil
}

// PartyFilter narrows party listings
type PartyFilter struct {
	shared.Filter
	Kind           PartyKind
	IncludeDeleted bool
}

// PartyRepository defines the interface for party persistence
type PartyRepository interface {
	// FindByID finds a live party
	FindByID(ctx context.Context, id uuid.UUID) (*Party, error)

	// FindByIDIncludingDeleted finds a party regardless of its tombstone
	FindByIDIncludingDeleted(ctx context.Context, id uuid.UUID) (*Party, error)

	// FindAll lists parties
	FindAll(ctx context.Context, filter PartyFilter) ([]Party, int64, error)

	// Save creates or updates a party
	Save(ctx context.Context, party *Party) error
}
