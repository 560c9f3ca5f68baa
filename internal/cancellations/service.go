package cancellations

import (
	"context"
	"errors"

	"estates-backend/internal/flats"
	"estates-backend/internal/models"
	"estates-backend/internal/schedule"
	"estates-backend/internal/store"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Service resolves cancellation version chains and drives the flat resets
// they imply. A cancellation chain is scoped by its owning invoice chain
// (inv_id) and ordered by the version ordinal; the unique (inv_id, version)
// index makes min/max resolution deterministic.
type Service struct {
	DB       *gorm.DB
	Flats    *flats.Service
	Schedule *schedule.Service
}

func (s *Service) Get(ctx context.Context, id string) (*models.Cancellation, error) {
	var can models.Cancellation
	err := s.DB.WithContext(ctx).Where("id = ?", id).First(&can).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &can, nil
}

// Root resolves the oldest version of the chain containing id.
func (s *Service) Root(ctx context.Context, id string) (*models.Cancellation, error) {
	return s.endpointByVersion(ctx, id, "version ASC")
}

// Latest resolves the newest version of the chain containing id.
func (s *Service) Latest(ctx context.Context, id string) (*models.Cancellation, error) {
	return s.endpointByVersion(ctx, id, "version DESC")
}

func (s *Service) endpointByVersion(ctx context.Context, id, order string) (*models.Cancellation, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	var out models.Cancellation
	err = s.DB.WithContext(ctx).Where("inv_id = ?", current.InvID).Order(order).First(&out).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

// CreateVersion appends a new version to the invoice chain's cancellations.
// A duplicate version ordinal within the chain is rejected.
func (s *Service) CreateVersion(ctx context.Context, can *models.Cancellation) error {
	var maxVersion int
	err := s.DB.WithContext(ctx).Model(&models.Cancellation{}).
		Where("inv_id = ?", can.InvID).
		Select("COALESCE(MAX(version), 0)").Scan(&maxVersion).Error
	if err != nil {
		return err
	}
	can.Version = maxVersion + 1
	return s.DB.WithContext(ctx).Create(can).Error
}

// AttachResult reports the linkage after attaching a cancellation.
type AttachResult struct {
	FlatStatus           string `json:"flatStatus"`
	LatestCancellationID string `json:"latestCancellationId"`
	RootCancellationID   string `json:"rootCancellationId"`
}

// AttachToFlat links the chain's latest and root cancellation to the flat.
// A cancellation is an exit, not a sale tier: the flat resets fully to free
// and the customer's schedule slot is cleared.
func (s *Service) AttachToFlat(ctx context.Context, cancellationID, projectID, flatID, phone string) (*AttachResult, error) {
	if err := s.Schedule.Delete(ctx, phone); err != nil {
		log.Warn().Err(err).Str("phone", phone).Msg("schedule cleanup failed")
	}

	latest, err := s.Latest(ctx, cancellationID)
	if err != nil {
		return nil, err
	}
	root, err := s.Root(ctx, cancellationID)
	if err != nil {
		return nil, err
	}

	if _, err := s.Flats.Get(ctx, projectID, flatID); err != nil {
		return nil, err
	}
	if err := s.Flats.AttachCancellation(ctx, projectID, flatID, latest.ID, root.ID); err != nil {
		return nil, err
	}
	return &AttachResult{
		FlatStatus:           models.FlatStatusFree,
		LatestCancellationID: latest.ID,
		RootCancellationID:   root.ID,
	}, nil
}

// CustomerSummary is the read projection for the cancellation detail screen.
type CustomerSummary struct {
	CustomerName    string  `json:"customerName"`
	PAN             string  `json:"pan"`
	NetReturn       float64 `json:"net_return"`
	AlreadyReturned float64 `json:"already_returned"`
	YetToBeReturned float64 `json:"yetTB_returned"`
}

// SummaryForFlat returns the summary of the cancellation currently linked to
// the flat, store.ErrNotFound when none is linked.
func (s *Service) SummaryForFlat(ctx context.Context, projectID, flatID string) (*CustomerSummary, error) {
	flat, err := s.Flats.Get(ctx, projectID, flatID)
	if err != nil {
		return nil, err
	}
	if flat.LatestCancellationID == nil {
		return nil, store.ErrNotFound
	}
	can, err := s.Get(ctx, *flat.LatestCancellationID)
	if err != nil {
		return nil, err
	}
	cust := can.Customer.Data()
	return &CustomerSummary{
		CustomerName:    cust.Name,
		PAN:             cust.PAN,
		NetReturn:       can.NetReturn,
		AlreadyReturned: can.AlreadyReturned,
		YetToBeReturned: can.YetToBeReturned,
	}, nil
}

// SwapLatest replaces the attached latest cancellation, guarded by the
// expected currentID. Empty newID detaches: links clear, flat resets to
// free, and the customer's schedule slot is removed.
func (s *Service) SwapLatest(ctx context.Context, currentID, newID string) error {
	flat, err := s.Flats.ByLatestCancellationID(ctx, currentID)
	if err != nil {
		return err
	}

	if newID == "" {
		if err := s.Flats.DetachCancellation(ctx, flat, currentID); err != nil {
			return err
		}
		s.clearScheduleFor(ctx, currentID)
		return nil
	}

	if _, err := s.Get(ctx, newID); err != nil {
		return err
	}
	return s.Flats.SwapLatestCancellation(ctx, flat, currentID, newID)
}

func (s *Service) clearScheduleFor(ctx context.Context, cancellationID string) {
	can, err := s.Get(ctx, cancellationID)
	if err != nil {
		return
	}
	phone := can.Customer.Data().Phone
	if phone == "" {
		return
	}
	if err := s.Schedule.Delete(ctx, phone); err != nil {
		log.Warn().Err(err).Str("phone", phone).Msg("schedule cleanup failed")
	}
}
