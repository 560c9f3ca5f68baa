package invoices

import (
	"context"
	"errors"

	"estates-backend/internal/models"
	"estates-backend/internal/store"

	"gorm.io/gorm"
)

// ErrChainBranched means two versions claim the same predecessor. The unique
// index on previous_invoice_id rejects this at write time, so seeing it at
// read time indicates external tampering with the collection.
var ErrChainBranched = errors.New("invoice chain is branched")

// Resolver walks invoice version chains. Both directions are point lookups
// on indexed columns: root follows the back-link, latest follows the inverse
// of the back-link. O(chain length), never a collection scan.
type Resolver struct {
	DB *gorm.DB
}

func (r *Resolver) Get(ctx context.Context, id string) (*models.Invoice, error) {
	var inv models.Invoice
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&inv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// Root resolves the oldest version of the chain containing id.
func (r *Resolver) Root(ctx context.Context, id string) (*models.Invoice, error) {
	current, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	for current.PreviousInvoiceID != nil {
		prev, err := r.Get(ctx, *current.PreviousInvoiceID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				// Dangling back-link: treat the last reachable version as root.
				return current, nil
			}
			return nil, err
		}
		current = prev
	}
	return current, nil
}

// Latest resolves the chain tip: the version no other version extends.
func (r *Resolver) Latest(ctx context.Context, id string) (*models.Invoice, error) {
	current, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	for {
		var successors []models.Invoice
		if err := r.DB.WithContext(ctx).Where("previous_invoice_id = ?", current.ID).Limit(2).Find(&successors).Error; err != nil {
			return nil, err
		}
		switch len(successors) {
		case 0:
			return current, nil
		case 1:
			current = &successors[0]
		default:
			return nil, ErrChainBranched
		}
	}
}

// CreateVersion appends a new version to a chain. Extending a predecessor
// that already has a successor is rejected with store.ErrConflict, which is
// what keeps every chain a simple path.
func (r *Resolver) CreateVersion(ctx context.Context, inv *models.Invoice) error {
	if inv.PreviousInvoiceID != nil {
		prev, err := r.Get(ctx, *inv.PreviousInvoiceID)
		if err != nil {
			return err
		}
		var n int64
		if err := r.DB.WithContext(ctx).Model(&models.Invoice{}).
			Where("previous_invoice_id = ?", prev.ID).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return store.ErrConflict
		}
		inv.Version = prev.Version + 1
	} else {
		inv.Version = 1
	}
	return r.DB.WithContext(ctx).Create(inv).Error
}
