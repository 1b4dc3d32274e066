package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/partshop/backend/internal/domain/partner"
	"github.com/partshop/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PartyService handles supplier and customer operations
type PartyService struct {
	partyRepo partner.PartyRepository
	logger    *zap.Logger
}

// NewPartyService creates a new PartyService
func NewPartyService(partyRepo partner.PartyRepository) *PartyService {
	return &PartyService{partyRepo: partyRepo, logger: zap.NewNop()}
}

// SetLogger sets the logger
func (s *PartyService) SetLogger(logger *zap.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Create creates a new party
func (s *PartyService) Create(ctx context.Context, req PartyRequest) (*PartyResponse, error) {
	party, err := partner.NewParty(req.Kind, req.details())
	if err != nil {
		return nil, err
	}
	party.StampCreatedBy(shared.ActorFromContext(ctx).ID)
	if err := s.partyRepo.Save(ctx, party); err != nil {
		return nil, err
	}
	s.logger.Info("Party created",
		zap.String("party_id", party.ID.String()),
		zap.String("kind", string(party.Kind)))
	resp := ToPartyResponse(party)
	return &resp, nil
}

// GetByID returns a live party
func (s *PartyService) GetByID(ctx context.Context, id uuid.UUID) (*PartyResponse, error) {
	party, err := s.partyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToPartyResponse(party)
	return &resp, nil
}

// List returns a page of parties
func (s *PartyService) List(ctx context.Context, filter PartyListFilter) ([]PartyResponse, int64, error) {
	parties, total, err := s.partyRepo.FindAll(ctx, filter.toDomain())
	if err != nil {
		return nil, 0, err
	}
	out := make([]PartyResponse, len(parties))
	for i := range parties {
		out[i] = ToPartyResponse(&parties[i])
	}
	return out, total, nil
}

// Update replaces a party's details. The kind cannot change once invoices
// may reference the party.
func (s *PartyService) Update(ctx context.Context, id uuid.UUID, req PartyRequest) (*PartyResponse, error) {
	party, err := s.partyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Kind != "" && req.Kind != party.Kind {
		return nil, shared.NewValidationError("PARTY_KIND_IMMUTABLE", "Party kind cannot be changed")
	}
	if err := party.Update(req.details()); err != nil {
		return nil, err
	}
	party.StampUpdatedBy(shared.ActorFromContext(ctx).ID)
	if err := s.partyRepo.Save(ctx, party); err != nil {
		return nil, err
	}
	resp := ToPartyResponse(party)
	return &resp, nil
}

// Delete tombstones a party. Existing invoices keep their reference.
func (s *PartyService) Delete(ctx context.Context, id uuid.UUID) error {
	party, err := s.partyRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	party.Delete()
	party.StampUpdatedBy(shared.ActorFromContext(ctx).ID)
	if err := s.partyRepo.Save(ctx, party); err != nil {
		return err
	}
	s.logger.Info("Party deleted", zap.String("party_id", id.String()))
	return nil
}
