package analytics

import (
	"context"

	"estates-backend/internal/models"

	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

// CustomerCounts partitions the KYC directory by status.
type CustomerCounts struct {
	Total    int64 `json:"total"`
	Approved int64 `json:"approved"`
	Pending  int64 `json:"pending"`
}

func (s *Service) CountCustomers(ctx context.Context) (*CustomerCounts, error) {
	var counts CustomerCounts
	tx := s.DB.WithContext(ctx).Model(&models.KYCCustomer{})
	if err := tx.Count(&counts.Total).Error; err != nil {
		return nil, err
	}
	if err := tx.Where("status = ?", models.KYCStatusApproved).Count(&counts.Approved).Error; err != nil {
		return nil, err
	}
	counts.Pending = counts.Total - counts.Approved
	return &counts, nil
}

// SalesSummary aggregates the apartment counters. Free is recomputed from
// total minus sold and booked on every read so counter drift on individual
// projects cannot leak into the dashboard.
type SalesSummary struct {
	TotalApartments  int64 `json:"totalApartments"`
	SoldApartments   int64 `json:"soldApartments"`
	BookedApartments int64 `json:"bookedApartments"`
	FreeApartments   int64 `json:"freeApartments"`
	TotalProjects    int64 `json:"totalProjects"`
}

func (s *Service) SalesSummary(ctx context.Context) (*SalesSummary, error) {
	var row struct {
		Total  int64
		Sold   int64
		Booked int64
	}
	err := s.DB.WithContext(ctx).Model(&models.Project{}).
		Select("COALESCE(SUM(total_apartments),0) AS total, COALESCE(SUM(sold_apartments),0) AS sold, COALESCE(SUM(booked_apartments),0) AS booked").
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	var projects int64
	if err := s.DB.WithContext(ctx).Model(&models.Project{}).Count(&projects).Error; err != nil {
		return nil, err
	}
	return &SalesSummary{
		TotalApartments:  row.Total,
		SoldApartments:   row.Sold,
		BookedApartments: row.Booked,
		FreeApartments:   row.Total - row.Sold - row.Booked,
		TotalProjects:    projects,
	}, nil
}

// ProjectRef is the id+name pair used by dashboard pickers.
type ProjectRef struct {
	ProjectID string `json:"projectId"`
	Name      string `json:"name"`
}

func (s *Service) ProjectRefs(ctx context.Context) ([]ProjectRef, error) {
	var refs []ProjectRef
	err := s.DB.WithContext(ctx).Model(&models.Project{}).
		Select("project_id, name").
		Order("created_at ASC").
		Scan(&refs).Error
	if err != nil {
		return nil, err
	}
	return refs, nil
}

// ProjectSummary is the per-project counter breakdown.
type ProjectSummary struct {
	ProjectID        string `json:"projectId"`
	Name             string `json:"name"`
	TotalApartments  int    `json:"totalApartments"`
	SoldApartments   int    `json:"soldApartments"`
	BookedApartments int    `json:"bookedApartments"`
	FreeApartments   int    `json:"freeApartments"`
}

func (s *Service) ProjectSummary(ctx context.Context, projectID string) (*ProjectSummary, error) {
	var project models.Project
	if err := s.DB.WithContext(ctx).Where("project_id = ?", projectID).First(&project).Error; err != nil {
		return nil, err
	}
	return &ProjectSummary{
		ProjectID:        project.ProjectID,
		Name:             project.Name,
		TotalApartments:  project.TotalApartments,
		SoldApartments:   project.SoldApartments,
		BookedApartments: project.BookedApartments,
		FreeApartments:   project.TotalApartments - project.SoldApartments - project.BookedApartments,
	}, nil
}
