package flats

import (
	"context"
	"errors"
	"fmt"

	"estates-backend/internal/models"
	"estates-backend/internal/store"

	"gorm.io/gorm"
)

// ErrLoanAlreadyApproved is returned when approving a loan a second time.
var ErrLoanAlreadyApproved = errors.New("Loan already approved for this flat")

// Service is the flat status engine: it owns every mutation of a flat's
// lifecycle status and of the invoice/cancellation back-links, and keeps
// them mutually consistent. Swap, detach and loan approval go through
// store.UpdateIf so a lost race surfaces as store.ErrConflict instead of a
// silent overwrite.
type Service struct {
	DB *gorm.DB
}

// FlatInput is one unit in a project-creation request.
type FlatInput struct {
	Block  string  `json:"block" validate:"required"`
	Floor  int     `json:"floor"`
	FlatNo string  `json:"flatno" validate:"required"`
	Sqft   float64 `json:"sqft"`
	BHK    int     `json:"bhk"`
	Status string  `json:"status"`
}

// ProjectStats are the denormalized counters stored on a Project.
type ProjectStats struct {
	TotalApartments  int
	TotalBlocks      int
	SoldApartments   int
	FreeApartments   int
	BookedApartments int
}

// BuildStats aggregates counters over the flats of a new project.
func BuildStats(inputs []FlatInput) ProjectStats {
	stats := ProjectStats{TotalApartments: len(inputs)}
	blocks := make(map[string]struct{})
	for _, f := range inputs {
		blocks[f.Block] = struct{}{}
		switch f.Status {
		case models.FlatStatusSold:
			stats.SoldApartments++
		case models.FlatStatusBooked:
			stats.BookedApartments++
		default:
			stats.FreeApartments++
		}
	}
	stats.TotalBlocks = len(blocks)
	return stats
}

// CreateForProject bulk-inserts the flats of a new project. FlatID is the
// composite block-floor-flatno key.
func (s *Service) CreateForProject(ctx context.Context, projectID string, inputs []FlatInput) error {
	flats := make([]models.Flat, 0, len(inputs))
	for _, in := range inputs {
		status := in.Status
		if status == "" {
			status = models.FlatStatusFree
		}
		flats = append(flats, models.Flat{
			ProjectID: projectID,
			FlatID:    fmt.Sprintf("%s-%d-%s", in.Block, in.Floor, in.FlatNo),
			Block:     in.Block,
			Floor:     in.Floor,
			FlatNo:    in.FlatNo,
			Sqft:      in.Sqft,
			BHK:       in.BHK,
			Status:    status,
		})
	}
	return s.DB.WithContext(ctx).CreateInBatches(flats, 25).Error
}

func (s *Service) GetByProject(ctx context.Context, projectID string) ([]models.Flat, error) {
	var flats []models.Flat
	if err := s.DB.WithContext(ctx).Where("project_id = ?", projectID).Order("flat_id").Find(&flats).Error; err != nil {
		return nil, err
	}
	return flats, nil
}

func (s *Service) Get(ctx context.Context, projectID, flatID string) (*models.Flat, error) {
	var flat models.Flat
	err := s.DB.WithContext(ctx).Where("project_id = ? AND flat_id = ?", projectID, flatID).First(&flat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &flat, nil
}

// ByLatestInvoiceID locates the flat currently linked to the given invoice
// version, nil when no flat holds the link.
func (s *Service) ByLatestInvoiceID(ctx context.Context, invoiceID string) (*models.Flat, error) {
	var flat models.Flat
	err := s.DB.WithContext(ctx).Where("latest_invoice_id = ?", invoiceID).First(&flat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &flat, nil
}

func (s *Service) ByLatestCancellationID(ctx context.Context, cancellationID string) (*models.Flat, error) {
	var flat models.Flat
	err := s.DB.WithContext(ctx).Where("latest_cancellation_id = ?", cancellationID).First(&flat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &flat, nil
}

// UpdateStatus sets the lifecycle status unconditionally (booking/payment path).
func (s *Service) UpdateStatus(ctx context.Context, projectID, flatID, status string) error {
	res := s.DB.WithContext(ctx).Model(&models.Flat{}).
		Where("project_id = ? AND flat_id = ?", projectID, flatID).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// AttachInvoice stores the resolved latest/root invoice pair and the derived
// status on the flat.
func (s *Service) AttachInvoice(ctx context.Context, projectID, flatID, latestID, rootID, status string) error {
	res := s.DB.WithContext(ctx).Model(&models.Flat{}).
		Where("project_id = ? AND flat_id = ?", projectID, flatID).
		Updates(map[string]interface{}{
			"latest_invoice_id": latestID,
			"root_invoice_id":   rootID,
			"status":            status,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// SwapLatestInvoice replaces the currently-attached latest invoice. The
// update only applies while the flat still holds currentID; a concurrent
// swap loses with store.ErrConflict.
func (s *Service) SwapLatestInvoice(ctx context.Context, flat *models.Flat, currentID, newID, status string) error {
	return store.UpdateIf(ctx, s.DB, &models.Flat{},
		map[string]interface{}{"project_id": flat.ProjectID, "flat_id": flat.FlatID},
		map[string]interface{}{"latest_invoice_id": currentID},
		map[string]interface{}{"latest_invoice_id": newID, "status": status},
	)
}

// DetachInvoice resets the flat to free and clears both invoice links,
// guarded by the expected current latest id.
func (s *Service) DetachInvoice(ctx context.Context, flat *models.Flat, currentID string) error {
	return store.UpdateIf(ctx, s.DB, &models.Flat{},
		map[string]interface{}{"project_id": flat.ProjectID, "flat_id": flat.FlatID},
		map[string]interface{}{"latest_invoice_id": currentID},
		map[string]interface{}{
			"latest_invoice_id": nil,
			"root_invoice_id":   nil,
			"status":            models.FlatStatusFree,
		},
	)
}

// AttachCancellation stores the resolved cancellation pair. A cancellation
// represents an exit, so the invoice links are cleared and the flat goes free.
func (s *Service) AttachCancellation(ctx context.Context, projectID, flatID, latestID, rootID string) error {
	res := s.DB.WithContext(ctx).Model(&models.Flat{}).
		Where("project_id = ? AND flat_id = ?", projectID, flatID).
		Updates(map[string]interface{}{
			"latest_cancellation_id": latestID,
			"root_cancellation_id":   rootID,
			"latest_invoice_id":      nil,
			"root_invoice_id":        nil,
			"status":                 models.FlatStatusFree,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// SwapLatestCancellation replaces the attached latest cancellation under the
// same optimistic guard as invoice swaps. Status is untouched: the flat is
// already free once a cancellation is attached.
func (s *Service) SwapLatestCancellation(ctx context.Context, flat *models.Flat, currentID, newID string) error {
	return store.UpdateIf(ctx, s.DB, &models.Flat{},
		map[string]interface{}{"project_id": flat.ProjectID, "flat_id": flat.FlatID},
		map[string]interface{}{"latest_cancellation_id": currentID},
		map[string]interface{}{"latest_cancellation_id": newID},
	)
}

// DetachCancellation clears both cancellation links and resets to free.
func (s *Service) DetachCancellation(ctx context.Context, flat *models.Flat, currentID string) error {
	return store.UpdateIf(ctx, s.DB, &models.Flat{},
		map[string]interface{}{"project_id": flat.ProjectID, "flat_id": flat.FlatID},
		map[string]interface{}{"latest_cancellation_id": currentID},
		map[string]interface{}{
			"latest_cancellation_id": nil,
			"root_cancellation_id":   nil,
			"status":                 models.FlatStatusFree,
		},
	)
}

// ResetToFree clears the invoice links and frees the flat by primary key.
func (s *Service) ResetToFree(ctx context.Context, projectID, flatID string) (*models.Flat, error) {
	res := s.DB.WithContext(ctx).Model(&models.Flat{}).
		Where("project_id = ? AND flat_id = ?", projectID, flatID).
		Updates(map[string]interface{}{
			"latest_invoice_id": nil,
			"root_invoice_id":   nil,
			"status":            models.FlatStatusFree,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, store.ErrNotFound
	}
	return s.Get(ctx, projectID, flatID)
}

// ApproveLoan is a guarded one-way transition: only applies while
// loan_approved is still false, and forces the flat to sold. A second
// approval reports ErrLoanAlreadyApproved.
func (s *Service) ApproveLoan(ctx context.Context, projectID, flatID string) (*models.Flat, error) {
	err := store.UpdateIf(ctx, s.DB, &models.Flat{},
		map[string]interface{}{"project_id": projectID, "flat_id": flatID},
		map[string]interface{}{"loan_approved": false},
		map[string]interface{}{"loan_approved": true, "status": models.FlatStatusSold},
	)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, ErrLoanAlreadyApproved
		}
		return nil, err
	}
	return s.Get(ctx, projectID, flatID)
}

// DeleteByProject removes every flat of a project (project deletion cascade).
func (s *Service) DeleteByProject(ctx context.Context, projectID string) error {
	return s.DB.WithContext(ctx).Where("project_id = ?", projectID).Delete(&models.Flat{}).Error
}
