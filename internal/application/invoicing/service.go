package invoicing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/partshop/backend/internal/domain/catalog"
	"github.com/partshop/backend/internal/domain/inventory"
	"github.com/partshop/backend/internal/domain/invoicing"
	"github.com/partshop/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// MetricsRecorder receives ledger write counters
type MetricsRecorder interface {
	RecordInvoiceWrite(ctx context.Context, invoiceType, operation string)
	RecordNumberingRetry(ctx context.Context, invoiceType string)
}

// Options tunes the invoice service
type Options struct {
	SalePrefix        string
	PurchasePrefix    string
	Retry             RetryPolicy
	EnforceStockFloor bool
	CacheTTL          time.Duration
}

// MaxInvoiceCacheTTL caps how long a single invoice read is cached
const MaxInvoiceCacheTTL = 30 * time.Second

// DefaultOptions returns the defaults used when no configuration is given
func DefaultOptions() Options {
	return Options{
		SalePrefix:     DefaultSalePrefix,
		PurchasePrefix: DefaultPurchasePrefix,
		Retry:          DefaultRetryPolicy(),
		CacheTTL:       5 * time.Minute,
	}
}

// InvoiceService owns every invoice write. Each write runs in one
// transaction; events are published only after it commits.
type InvoiceService struct {
	txScope        TransactionScope
	invoiceRepo    invoicing.InvoiceRepository
	sequencer      *Sequencer
	opts           Options
	eventPublisher shared.EventPublisher
	cache          shared.ReadCache
	metrics        MetricsRecorder
	logger         *zap.Logger
}

// NewInvoiceService creates a new InvoiceService. invoiceRepo serves reads
// outside of transactions.
func NewInvoiceService(txScope TransactionScope, invoiceRepo invoicing.InvoiceRepository, opts Options) *InvoiceService {
	if opts.Retry.MaxAttempts <= 0 {
		opts.Retry = DefaultRetryPolicy()
	}
	return &InvoiceService{
		txScope:     txScope,
		invoiceRepo: invoiceRepo,
		sequencer:   NewSequencer(opts.SalePrefix, opts.PurchasePrefix),
		opts:        opts,
		logger:      zap.NewNop(),
	}
}

// SetEventPublisher sets the event publisher for post-commit events
func (s *InvoiceService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetCache sets the read cache used by Get
func (s *InvoiceService) SetCache(cache shared.ReadCache) {
	s.cache = cache
}

// SetMetrics sets the metrics recorder
func (s *InvoiceService) SetMetrics(metrics MetricsRecorder) {
	s.metrics = metrics
}

// SetLogger sets the logger
func (s *InvoiceService) SetLogger(logger *zap.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Create validates the request, allocates a number when none is given,
// and writes the invoice, its lines and one ledger entry per line.
func (s *InvoiceService) Create(ctx context.Context, req InvoiceRequest) (*InvoiceResponse, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	actor := shared.ActorFromContext(ctx).ID

	var created *invoicing.Invoice
	err := s.withRetry(ctx, req.Type, func() error {
		return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
			inv, err := s.create(ctx, repos, req, actor)
			if err != nil {
				return err
			}
			created = inv
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.afterWrite(ctx, invoicing.NewInvoiceEvent(invoicing.EventTypeInvoiceCreated, created, actor), created.Type, "create")
	s.logger.Info("Invoice created",
		zap.String("invoice_id", created.ID.String()),
		zap.String("invoice_number", created.InvoiceNumber),
		zap.String("type", string(created.Type)),
		zap.String("total", created.Total.String()))
	return ToInvoiceResponse(created), nil
}

func (s *InvoiceService) create(ctx context.Context, repos TransactionalRepositories, req InvoiceRequest, actor uuid.UUID) (*invoicing.Invoice, error) {
	if err := s.checkCounterparty(ctx, repos, req); err != nil {
		return nil, err
	}

	number, err := s.resolveNumber(ctx, repos, req, nil, "")
	if err != nil {
		return nil, err
	}

	inv, err := invoicing.NewInvoice(req.header(number))
	if err != nil {
		return nil, err
	}
	if err := s.applyLines(ctx, repos, inv, req); err != nil {
		return nil, err
	}
	if actor != uuid.Nil {
		inv.StampCreatedBy(actor)
	}

	if err := repos.InvoiceRepo().Create(ctx, inv); err != nil {
		return nil, err
	}
	return inv, s.appendLedger(ctx, repos, inv, actor)
}

// Update rewrites an invoice in place: its previous lines and their ledger
// entries are removed, then the request is applied as on create. The
// number is kept unless the request supplies one or moves the invoice to
// another type or numbering bucket.
func (s *InvoiceService) Update(ctx context.Context, id uuid.UUID, req InvoiceRequest, opts UpdateOptions) (*InvoiceResponse, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	actor := shared.ActorFromContext(ctx).ID

	var updated *invoicing.Invoice
	err := s.withRetry(ctx, req.Type, func() error {
		return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
			inv, err := s.update(ctx, repos, id, req, opts, actor)
			if err != nil {
				return err
			}
			updated = inv
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.afterWrite(ctx, invoicing.NewInvoiceEvent(invoicing.EventTypeInvoiceUpdated, updated, actor), updated.Type, "update")
	s.logger.Info("Invoice updated",
		zap.String("invoice_id", updated.ID.String()),
		zap.String("invoice_number", updated.InvoiceNumber),
		zap.Int("version", updated.Version))
	return ToInvoiceResponse(updated), nil
}

func (s *InvoiceService) update(ctx context.Context, repos TransactionalRepositories, id uuid.UUID, req InvoiceRequest, opts UpdateOptions, actor uuid.UUID) (*invoicing.Invoice, error) {
	inv, err := repos.InvoiceRepo().FindByIDForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := inv.EnsureEditable(opts.AllowEditSubmitted); err != nil {
		return nil, err
	}
	if err := s.checkCounterparty(ctx, repos, req); err != nil {
		return nil, err
	}

	current := ""
	if s.keepsNumber(inv, req) {
		current = inv.InvoiceNumber
	} else if req.InvoiceNumber == inv.InvoiceNumber {
		// an echoed stored number is not a request to keep it
		req.InvoiceNumber = ""
	}
	number, err := s.resolveNumber(ctx, repos, req, &inv.ID, current)
	if err != nil {
		return nil, err
	}

	// retract
	if err := repos.LedgerRepo().DeleteByInvoice(ctx, inv.ID); err != nil {
		return nil, err
	}
	if err := repos.InvoiceRepo().DeleteItems(ctx, inv.ID); err != nil {
		return nil, err
	}

	// apply
	if err := inv.Revise(req.header(number)); err != nil {
		return nil, err
	}
	if err := s.applyLines(ctx, repos, inv, req); err != nil {
		return nil, err
	}
	if actor != uuid.Nil {
		inv.StampUpdatedBy(actor)
	}
	if err := repos.InvoiceRepo().UpdateHeader(ctx, inv); err != nil {
		return nil, err
	}
	if err := repos.InvoiceRepo().InsertItems(ctx, inv.Items); err != nil {
		return nil, err
	}
	return inv, s.appendLedger(ctx, repos, inv, actor)
}

// keepsNumber reports whether an update may keep the stored number. A
// sequenced number stays only while type and bucket are unchanged; a custom
// number that never belonged to a bucket stays while the type does.
func (s *InvoiceService) keepsNumber(inv *invoicing.Invoice, req InvoiceRequest) bool {
	if req.Type != inv.Type {
		return false
	}
	before := s.sequencer.Bucket(inv.Type, inv.Date)
	if _, sequenced := before.ParseSequence(inv.InvoiceNumber); !sequenced {
		return true
	}
	return before.Key() == s.sequencer.Bucket(req.Type, req.Date).Key()
}

// Delete removes an invoice, its lines and its ledger entries. Only DRAFT
// invoices can be deleted unless force is set.
func (s *InvoiceService) Delete(ctx context.Context, id uuid.UUID, force bool) error {
	actor := shared.ActorFromContext(ctx).ID

	var deleted *invoicing.Invoice
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		inv, err := repos.InvoiceRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := inv.EnsureDeletable(force); err != nil {
			return err
		}
		if err := repos.LedgerRepo().DeleteByInvoice(ctx, inv.ID); err != nil {
			return err
		}
		if err := repos.InvoiceRepo().DeleteItems(ctx, inv.ID); err != nil {
			return err
		}
		if err := repos.InvoiceRepo().DeleteHeaders(ctx, inv.ID); err != nil {
			return err
		}
		deleted = inv
		return nil
	})
	if err != nil {
		return err
	}

	s.afterWrite(ctx, invoicing.NewInvoiceEvent(invoicing.EventTypeInvoiceDeleted, deleted, actor), deleted.Type, "delete")
	s.logger.Info("Invoice deleted",
		zap.String("invoice_id", deleted.ID.String()),
		zap.String("invoice_number", deleted.InvoiceNumber),
		zap.Bool("forced", force && deleted.Status != invoicing.InvoiceStatusDraft))
	return nil
}

// BulkDelete removes every listed invoice or none of them. Any id that is
// missing or not in DRAFT aborts the whole operation.
func (s *InvoiceService) BulkDelete(ctx context.Context, req BulkDeleteRequest) (*BulkDeleteResult, error) {
	ids := uniqueIDs(req.IDs)
	if len(ids) == 0 {
		return nil, shared.NewValidationError("NO_IDS", "At least one invoice id is required")
	}
	actor := shared.ActorFromContext(ctx).ID

	var headers []invoicing.Invoice
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		found, err := repos.InvoiceRepo().FindHeadersByIDs(ctx, ids)
		if err != nil {
			return err
		}
		if missing := missingIDs(ids, found); len(missing) > 0 {
			return shared.NewNotFoundError("INVOICE_NOT_FOUND", "Some invoices do not exist").
				WithDetail("missing_ids", missing)
		}
		blocked := make([]uuid.UUID, 0)
		for _, inv := range found {
			if inv.Status != invoicing.InvoiceStatusDraft {
				blocked = append(blocked, inv.ID)
			}
		}
		if len(blocked) > 0 {
			return shared.NewConflictError("BULK_DELETE_BLOCKED", "Only DRAFT invoices can be bulk deleted").
				WithDetail("blocked_ids", blocked)
		}

		if err := repos.LedgerRepo().DeleteByInvoices(ctx, ids); err != nil {
			return err
		}
		if err := repos.InvoiceRepo().DeleteItems(ctx, ids...); err != nil {
			return err
		}
		if err := repos.InvoiceRepo().DeleteHeaders(ctx, ids...); err != nil {
			return err
		}
		headers = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	events := make([]shared.DomainEvent, len(headers))
	for i := range headers {
		events[i] = invoicing.NewInvoiceEvent(invoicing.EventTypeInvoiceDeleted, &headers[i], actor)
	}
	s.publish(ctx, events...)
	for i := range headers {
		s.recordWrite(ctx, headers[i].Type, "delete")
	}
	s.logger.Info("Invoices bulk deleted", zap.Int("count", len(headers)))
	return &BulkDeleteResult{DeletedCount: len(headers)}, nil
}

// BulkUpdateStatus writes one status on every listed invoice with a single
// statement. Only the status value itself is validated.
func (s *InvoiceService) BulkUpdateStatus(ctx context.Context, req BulkStatusRequest) (*BulkStatusResult, error) {
	if !req.Status.IsValid() {
		return nil, shared.NewValidationError("INVALID_STATUS", "Unknown invoice status").
			WithDetail("status", req.Status)
	}
	ids := uniqueIDs(req.IDs)
	if len(ids) == 0 {
		return nil, shared.NewValidationError("NO_IDS", "At least one invoice id is required")
	}
	actor := shared.ActorFromContext(ctx).ID
	var actorID *uuid.UUID
	if actor != uuid.Nil {
		actorID = &actor
	}

	var updated int64
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		n, err := repos.InvoiceRepo().UpdateStatus(ctx, ids, req.Status, actorID)
		updated = n
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, invoicing.NewBulkStatusChangedEvent(ids, req.Status, updated, actor))
	s.logger.Info("Invoice status bulk updated",
		zap.String("status", string(req.Status)),
		zap.Int("requested", len(ids)),
		zap.Int64("updated", updated))
	return &BulkStatusResult{UpdatedCount: updated}, nil
}

// NextInvoiceNumber previews the number the next create would get. Nothing
// is reserved.
func (s *InvoiceService) NextInvoiceNumber(ctx context.Context, typ invoicing.InvoiceType, date time.Time) (*NextNumberResponse, error) {
	if !typ.IsValid() {
		return nil, shared.NewValidationError("INVALID_INVOICE_TYPE", "Invoice type must be PURCHASE or SALE")
	}
	if date.IsZero() {
		date = time.Now()
	}
	number, err := s.sequencer.Preview(ctx, s.invoiceRepo, typ, date)
	if err != nil {
		return nil, err
	}
	return &NextNumberResponse{Type: typ, Date: date, InvoiceNumber: number}, nil
}

// GetByID returns one invoice with its lines
func (s *InvoiceService) GetByID(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	key := shared.CachePrefixInvoice + id.String()
	return shared.ReadThrough(ctx, s.cache, key, min(s.opts.CacheTTL, MaxInvoiceCacheTTL), func() (*InvoiceResponse, error) {
		inv, err := s.invoiceRepo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return ToInvoiceResponse(inv), nil
	})
}

// GetByNumber returns the invoice of typ carrying number
func (s *InvoiceService) GetByNumber(ctx context.Context, typ invoicing.InvoiceType, number string) (*InvoiceResponse, error) {
	if !typ.IsValid() {
		return nil, shared.NewValidationError("INVALID_INVOICE_TYPE", "Invoice type must be PURCHASE or SALE")
	}
	inv, err := s.invoiceRepo.FindByNumber(ctx, typ, number)
	if err != nil {
		return nil, err
	}
	return ToInvoiceResponse(inv), nil
}

// List returns a page of invoice headers
func (s *InvoiceService) List(ctx context.Context, filter InvoiceListFilter) ([]InvoiceResponse, int64, error) {
	invoices, total, err := s.invoiceRepo.FindAll(ctx, filter.toDomain())
	if err != nil {
		return nil, 0, err
	}
	return ToInvoiceResponses(invoices), total, nil
}

// ==================== helpers ====================

func (s *InvoiceService) withRetry(ctx context.Context, typ invoicing.InvoiceType, fn func() error) error {
	return s.opts.Retry.run(ctx, fn, func(attempt int, err error) {
		s.logger.Warn("Retrying invoice write",
			zap.String("type", string(typ)),
			zap.Int("attempt", attempt),
			zap.Error(err))
		if s.metrics != nil {
			s.metrics.RecordNumberingRetry(ctx, string(typ))
		}
	})
}

// checkCounterparty requires a live party of the kind the invoice type needs
func (s *InvoiceService) checkCounterparty(ctx context.Context, repos TransactionalRepositories, req InvoiceRequest) error {
	party, err := repos.PartyRepo().FindByID(ctx, req.CounterpartyID)
	if err != nil {
		if shared.IsKind(err, shared.KindNotFound) {
			return counterpartyNotFound(req)
		}
		return err
	}
	if party.Kind != req.Type.CounterpartyKind() {
		return counterpartyNotFound(req).WithDetail("kind", party.Kind)
	}
	return nil
}

func counterpartyNotFound(req InvoiceRequest) *shared.DomainError {
	code, msg := "CUSTOMER_NOT_FOUND", "Customer not found"
	if req.Type == invoicing.InvoiceTypePurchase {
		code, msg = "SUPPLIER_NOT_FOUND", "Supplier not found"
	}
	return shared.NewNotFoundError(code, msg).WithDetail("counterparty_id", req.CounterpartyID)
}

// resolveNumber returns the requested number after a uniqueness check, the
// current number when nothing changes, or a freshly allocated one.
func (s *InvoiceService) resolveNumber(ctx context.Context, repos TransactionalRepositories, req InvoiceRequest, excludeID *uuid.UUID, current string) (string, error) {
	requested := req.InvoiceNumber
	if requested == "" || requested == current {
		if current != "" {
			return current, nil
		}
		return s.sequencer.Allocate(ctx, repos, req.Type, req.Date)
	}
	exists, err := repos.InvoiceRepo().ExistsByNumber(ctx, req.Type, requested, excludeID)
	if err != nil {
		return "", err
	}
	if exists {
		return "", shared.NewConflictError("DUPLICATE_INVOICE_NUMBER", "Invoice number already exists for this type").
			WithDetail("invoice_number", requested)
	}
	return requested, nil
}

// applyLines loads the referenced parts in one query, snapshots them onto
// new lines and recomputes totals and payment.
func (s *InvoiceService) applyLines(ctx context.Context, repos TransactionalRepositories, inv *invoicing.Invoice, req InvoiceRequest) error {
	parts, err := s.loadParts(ctx, repos, req)
	if err != nil {
		return err
	}

	items := make([]invoicing.InvoiceItem, len(req.Items))
	for i, in := range req.Items {
		p := parts[in.PartID]
		item, err := invoicing.NewInvoiceItem(inv.ID, invoicing.PartSnapshot{
			PartID:     p.ID,
			PartNumber: p.PartNumber,
			ItemName:   p.ItemName,
			HSNCode:    p.HSNCode,
			Unit:       p.Unit,
		}, in.Quantity, in.Rate)
		if err != nil {
			return err
		}
		items[i] = *item
	}
	if err := inv.SetItems(items, req.discount(), req.taxRates()); err != nil {
		return err
	}
	inv.RecordPayment(req.Payment.PaidAmount, req.Payment.Date, req.Payment.Method, req.Payment.Note)

	if s.opts.EnforceStockFloor && inv.Type == invoicing.InvoiceTypeSale {
		return s.checkStockFloor(ctx, repos, inv)
	}
	return nil
}

func (s *InvoiceService) loadParts(ctx context.Context, repos TransactionalRepositories, req InvoiceRequest) (map[uuid.UUID]*catalog.Part, error) {
	ids := req.partIDs()
	var (
		found []catalog.Part
		err   error
	)
	if s.opts.EnforceStockFloor && req.Type == invoicing.InvoiceTypeSale {
		found, err = repos.PartRepo().LockByIDs(ctx, ids)
	} else {
		found, err = repos.PartRepo().FindByIDsIncludingDeleted(ctx, ids)
	}
	if err != nil {
		return nil, err
	}

	parts := make(map[uuid.UUID]*catalog.Part, len(found))
	for i := range found {
		if !found[i].IsDeleted {
			parts[found[i].ID] = &found[i]
		}
	}
	var missing []uuid.UUID
	for _, id := range ids {
		if _, ok := parts[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, shared.NewNotFoundError("PART_NOT_FOUND", "Some parts do not exist or are deleted").
			WithDetail("part_ids", missing)
	}
	return parts, nil
}

// checkStockFloor rejects a sale that would take any part below zero. The
// invoice's own movements are projected per part, so repeated lines of one
// part are checked against their combined quantity.
func (s *InvoiceService) checkStockFloor(ctx context.Context, repos TransactionalRepositories, inv *invoicing.Invoice) error {
	levels, err := repos.LedgerRepo().BulkStock(ctx, inv.PartIDs())
	if err != nil {
		return err
	}
	entries, err := inv.LedgerEntries(uuid.Nil)
	if err != nil {
		return err
	}
	movements := make([]inventory.LedgerEntry, len(entries))
	for i, e := range entries {
		movements[i] = *e
	}
	demand := inventory.Project(movements)
	for _, item := range inv.Items {
		requested := demand[item.PartID].Outgoing
		if available := levels[item.PartID].Stock(); available < requested {
			return shared.NewValidationError("INSUFFICIENT_STOCK", "Not enough stock for "+item.PartNumber).
				WithDetail("part_id", item.PartID).
				WithDetail("available", available).
				WithDetail("requested", requested)
		}
	}
	return nil
}

func (s *InvoiceService) appendLedger(ctx context.Context, repos TransactionalRepositories, inv *invoicing.Invoice, actor uuid.UUID) error {
	entries, err := inv.LedgerEntries(actor)
	if err != nil {
		return err
	}
	return repos.LedgerRepo().Append(ctx, entries...)
}

func (s *InvoiceService) afterWrite(ctx context.Context, event shared.DomainEvent, typ invoicing.InvoiceType, op string) {
	s.publish(ctx, event)
	s.recordWrite(ctx, typ, op)
}

func (s *InvoiceService) recordWrite(ctx context.Context, typ invoicing.InvoiceType, op string) {
	if s.metrics != nil {
		s.metrics.RecordInvoiceWrite(ctx, string(typ), op)
	}
}

// publish runs after commit; handler errors are logged by the bus
func (s *InvoiceService) publish(ctx context.Context, events ...shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish invoice events", zap.Error(err))
	}
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func missingIDs(ids []uuid.UUID, found []invoicing.Invoice) []uuid.UUID {
	present := make(map[uuid.UUID]struct{}, len(found))
	for _, inv := range found {
		present[inv.ID] = struct{}{}
	}
	var missing []uuid.UUID
	for _, id := range ids {
		if _, ok := present[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}
