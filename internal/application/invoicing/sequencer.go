package invoicing

import (
	"context"
	"strings"
	"time"

	"github.com/partshop/backend/internal/domain/invoicing"
)

// Default number prefixes per invoice type
const (
	DefaultSalePrefix     = "JCB"
	DefaultPurchasePrefix = "PUR"
)

// Sequencer issues PREFIX/SEQ/MON/YY-YY numbers. The smallest free SEQ in a
// bucket is reused, so deleted numbers are handed out again.
type Sequencer struct {
	prefixes map[invoicing.InvoiceType]string
}

// NewSequencer creates a Sequencer; empty prefixes fall back to the defaults
func NewSequencer(salePrefix, purchasePrefix string) *Sequencer {
	if strings.TrimSpace(salePrefix) == "" {
		salePrefix = DefaultSalePrefix
	}
	if strings.TrimSpace(purchasePrefix) == "" {
		purchasePrefix = DefaultPurchasePrefix
	}
	return &Sequencer{prefixes: map[invoicing.InvoiceType]string{
		invoicing.InvoiceTypeSale:     salePrefix,
		invoicing.InvoiceTypePurchase: purchasePrefix,
	}}
}

// Bucket returns the bucket an invoice of typ dated date belongs to
func (s *Sequencer) Bucket(typ invoicing.InvoiceType, date time.Time) invoicing.Bucket {
	return invoicing.NewBucket(typ, s.prefixes[typ], date)
}

// Allocate claims the bucket row, which serialises allocators of the same
// bucket until the enclosing transaction ends, then picks the smallest free SEQ.
func (s *Sequencer) Allocate(ctx context.Context, repos TransactionalRepositories, typ invoicing.InvoiceType, date time.Time) (string, error) {
	bucket := s.Bucket(typ, date)
	if _, err := repos.SequenceRepo().Claim(ctx, bucket); err != nil {
		return "", err
	}
	seq, err := s.next(ctx, repos.InvoiceRepo(), bucket)
	if err != nil {
		return "", err
	}
	if err := repos.SequenceRepo().Record(ctx, bucket, seq); err != nil {
		return "", err
	}
	return bucket.Format(seq), nil
}

// Preview computes the number Allocate would issue right now, without
// locking or reserving anything.
func (s *Sequencer) Preview(ctx context.Context, invoices invoicing.InvoiceRepository, typ invoicing.InvoiceType, date time.Time) (string, error) {
	bucket := s.Bucket(typ, date)
	seq, err := s.next(ctx, invoices, bucket)
	if err != nil {
		return "", err
	}
	return bucket.Format(seq), nil
}

func (s *Sequencer) next(ctx context.Context, invoices invoicing.InvoiceRepository, bucket invoicing.Bucket) (int, error) {
	numbers, err := invoices.NumbersLike(ctx, bucket.Type, bucket.LikePattern())
	if err != nil {
		return 0, err
	}
	return invoicing.NextSequence(bucket.Sequences(numbers)), nil
}
