package payments

import (
	"context"
	"fmt"
	"strings"

	"estates-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// pageSize is the fixed page size for the admin payment listings.
const pageSize = 10

// Service owns the append-only payment audit trail. Records are never
// mutated or deleted.
type Service struct {
	DB *gorm.DB
}

type AppendInput struct {
	ProjectID   string
	ProjectName string
	FlatID      string
	Customer    models.PaymentCustomer
	Amount      float64
	Summary     string
}

// Append writes one payment record and returns its id.
func (s *Service) Append(ctx context.Context, in AppendInput) (string, error) {
	payment := &models.Payment{
		PaymentID:      uuid.NewString(),
		ProjectFlatKey: fmt.Sprintf("%s#%s", in.ProjectID, in.FlatID),
		ProjectID:      in.ProjectID,
		ProjectName:    in.ProjectName,
		FlatID:         in.FlatID,
		Customer:       datatypes.NewJSONType(in.Customer),
		Amount:         in.Amount,
		Summary:        in.Summary,
	}
	if err := s.DB.WithContext(ctx).Create(payment).Error; err != nil {
		return "", err
	}
	return payment.PaymentID, nil
}

// ByFlat returns the flat's payment history, newest first.
func (s *Service) ByFlat(ctx context.Context, projectID, flatID string) ([]models.Payment, error) {
	var payments []models.Payment
	key := fmt.Sprintf("%s#%s", projectID, flatID)
	err := s.DB.WithContext(ctx).Where("project_flat_key = ?", key).
		Order("created_at DESC").Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

// Page is a paginated payment listing.
type Page struct {
	Payments    []models.Payment `json:"payments"`
	TotalCount  int64            `json:"totalCount"`
	TotalPages  int64            `json:"totalPages"`
	CurrentPage int              `json:"currentPage"`
}

// List returns one page of all payments, newest first.
func (s *Service) List(ctx context.Context, page int) (*Page, error) {
	return s.paginate(ctx, s.DB.WithContext(ctx).Model(&models.Payment{}), page)
}

// Search returns one page of payments matching the query as a
// case-insensitive substring of payment id, project id/name, flat id or
// customer name.
func (s *Service) Search(ctx context.Context, query string, page int) (*Page, error) {
	q := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	tx := s.DB.WithContext(ctx).Model(&models.Payment{}).Where(
		"LOWER(payment_id) LIKE ? OR LOWER(project_id) LIKE ? OR LOWER(project_name) LIKE ? OR LOWER(flat_id) LIKE ? OR LOWER(customer) LIKE ?",
		q, q, q, q, q,
	)
	return s.paginate(ctx, tx, page)
}

func (s *Service) paginate(ctx context.Context, tx *gorm.DB, page int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	var total int64
	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}
	var payments []models.Payment
	err := tx.Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return &Page{
		Payments:    payments,
		TotalCount:  total,
		TotalPages:  (total + pageSize - 1) / pageSize,
		CurrentPage: page,
	}, nil
}
