package projects

import (
	"context"
	"errors"
	"strings"

	"estates-backend/internal/flats"
	"estates-backend/internal/models"
	"estates-backend/internal/store"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	DB    *gorm.DB
	Flats *flats.Service
}

type CreateInput struct {
	Name  string
	Flats []flats.FlatInput
}

// Create stores the project with aggregate counters computed from its flats,
// then bulk-inserts the flats. The two writes are not atomic together; the
// analytics module recomputes aggregates on read.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Project, error) {
	projectID := strings.ToLower(strings.Join(strings.Fields(in.Name), "-")) + "-" + uuid.NewString()[:6]

	stats := flats.BuildStats(in.Flats)
	project := &models.Project{
		ProjectID:        projectID,
		Name:             in.Name,
		TotalApartments:  stats.TotalApartments,
		TotalBlocks:      stats.TotalBlocks,
		SoldApartments:   stats.SoldApartments,
		FreeApartments:   stats.FreeApartments,
		BookedApartments: stats.BookedApartments,
	}
	if err := s.DB.WithContext(ctx).Create(project).Error; err != nil {
		return nil, err
	}
	if err := s.Flats.CreateForProject(ctx, projectID, in.Flats); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *Service) List(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	if err := s.DB.WithContext(ctx).Order("created_at DESC").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (s *Service) Get(ctx context.Context, projectID string) (*models.Project, error) {
	var project models.Project
	err := s.DB.WithContext(ctx).Where("project_id = ?", projectID).First(&project).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &project, nil
}

// NameByID returns the project name for payment snapshots, empty when the
// project is gone.
func (s *Service) NameByID(ctx context.Context, projectID string) (string, error) {
	p, err := s.Get(ctx, projectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return p.Name, nil
}

// IncrementSold moves one apartment from the booked to the sold counter.
func (s *Service) IncrementSold(ctx context.Context, projectID string) error {
	return s.DB.WithContext(ctx).Model(&models.Project{}).
		Where("project_id = ?", projectID).
		Updates(map[string]interface{}{
			"sold_apartments":   gorm.Expr("sold_apartments + 1"),
			"booked_apartments": gorm.Expr("booked_apartments - 1"),
		}).Error
}

// IncrementBooked moves one apartment from the free to the booked counter.
func (s *Service) IncrementBooked(ctx context.Context, projectID string) error {
	return s.DB.WithContext(ctx).Model(&models.Project{}).
		Where("project_id = ?", projectID).
		Updates(map[string]interface{}{
			"booked_apartments": gorm.Expr("booked_apartments + 1"),
			"free_apartments":   gorm.Expr("free_apartments - 1"),
		}).Error
}

// Delete removes the project and cascades to its flats.
func (s *Service) Delete(ctx context.Context, projectID string) error {
	if _, err := s.Get(ctx, projectID); err != nil {
		return err
	}
	if err := s.Flats.DeleteByProject(ctx, projectID); err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Where("project_id = ?", projectID).Delete(&models.Project{}).Error
}
