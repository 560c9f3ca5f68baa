package kyc

import (
	"context"
	"errors"

	"estates-backend/internal/models"
	"estates-backend/internal/store"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ErrDuplicatePhone rejects a second record with the same phone number.
// Phone uniqueness is authoritative; identical names with distinct phones
// are allowed.
var ErrDuplicatePhone = errors.New("A customer with this phone number already exists")

// pageSize is the fixed page size for the directory listings.
const pageSize = 10

// DocumentRemover deletes uploaded identity documents from object storage.
type DocumentRemover interface {
	RemoveObjects(ctx context.Context, keys []string) error
}

type Service struct {
	DB        *gorm.DB
	Documents DocumentRemover
}

type CreateInput struct {
	CustomerID string `json:"customerId"`
	Name       string `json:"name" validate:"required"`
	Phone      string `json:"phone" validate:"required"`
	Address    string `json:"address"`
	Aadhaar    string `json:"aadhaar" validate:"required"`
	PAN        string `json:"pan" validate:"required"`
	Voter      string `json:"voter"`
	Other      string `json:"other"`
	AadhaarKey string `json:"aadhaarKey" validate:"required"`
	PANKey     string `json:"panKey" validate:"required"`
	VoterKey   string `json:"voterKey"`
	OtherKey   string `json:"otherKey"`
}

// Create stores a new pending customer after the duplicate-phone gate.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.KYCCustomer, error) {
	var n int64
	if err := s.DB.WithContext(ctx).Model(&models.KYCCustomer{}).Where("phone = ?", in.Phone).Count(&n).Error; err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, ErrDuplicatePhone
	}

	id := in.CustomerID
	if id == "" {
		id = uuid.NewString()
	}
	customer := &models.KYCCustomer{
		ID:             id,
		Name:           in.Name,
		NormalizedName: NormalizeName(in.Name),
		Phone:          in.Phone,
		Address:        in.Address,
		Aadhaar:        in.Aadhaar,
		PAN:            in.PAN,
		NormalizedPAN:  NormalizePAN(in.PAN),
		VoterID:        in.Voter,
		OtherID:        in.Other,
		AadhaarKey:     in.AadhaarKey,
		PANKey:         in.PANKey,
		VoterKey:       in.VoterKey,
		OtherKey:       in.OtherKey,
		Status:         models.KYCStatusPending,
	}
	if err := s.DB.WithContext(ctx).Create(customer).Error; err != nil {
		return nil, err
	}
	return customer, nil
}

// Page is a paginated customer listing.
type Page struct {
	Customers   []models.KYCCustomer `json:"customers"`
	TotalCount  int64                `json:"totalCount"`
	TotalPages  int64                `json:"totalPages"`
	CurrentPage int                  `json:"currentPage"`
}

// List returns one page of a status partition; empty status means all.
func (s *Service) List(ctx context.Context, status string, page int) (*Page, error) {
	tx := s.DB.WithContext(ctx).Model(&models.KYCCustomer{})
	if status != "" {
		tx = tx.Where("status = ?", status)
	}
	return s.paginate(tx, page)
}

// Search applies exactly one predicate, dispatched on the query's shape:
// 10 digits → phone, 12 digits → aadhaar, PAN shape → normalized PAN,
// anything else → partial case-folded name.
func (s *Service) Search(ctx context.Context, status, query string, page int) (*Page, error) {
	tx := s.DB.WithContext(ctx).Model(&models.KYCCustomer{})
	if status != "" {
		tx = tx.Where("status = ?", status)
	}

	normalized := NormalizePAN(query)
	switch {
	case phoneRe.MatchString(query):
		tx = tx.Where("phone = ?", query)
	case aadhaarRe.MatchString(query):
		tx = tx.Where("aadhaar = ?", query)
	case panRe.MatchString(normalized):
		tx = tx.Where("normalized_pan = ?", normalized)
	default:
		tx = tx.Where("normalized_name LIKE ?", "%"+NormalizeName(query)+"%")
	}
	return s.paginate(tx, page)
}

func (s *Service) paginate(tx *gorm.DB, page int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	var total int64
	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}
	var customers []models.KYCCustomer
	err := tx.Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&customers).Error
	if err != nil {
		return nil, err
	}
	return &Page{
		Customers:   customers,
		TotalCount:  total,
		TotalPages:  (total + pageSize - 1) / pageSize,
		CurrentPage: page,
	}, nil
}

func (s *Service) Get(ctx context.Context, customerID string) (*models.KYCCustomer, error) {
	var customer models.KYCCustomer
	err := s.DB.WithContext(ctx).Where("id = ?", customerID).First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &customer, nil
}

// Approve is the one-way pending → approved transition. Re-approving an
// approved customer is an accepted no-op set.
func (s *Service) Approve(ctx context.Context, customerID string) (*models.KYCCustomer, error) {
	if _, err := s.Get(ctx, customerID); err != nil {
		return nil, err
	}
	err := s.DB.WithContext(ctx).Model(&models.KYCCustomer{}).
		Where("id = ?", customerID).
		Update("status", models.KYCStatusApproved).Error
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, customerID)
}

// Delete removes the record and best-effort deletes its stored documents.
func (s *Service) Delete(ctx context.Context, customerID string) (*models.KYCCustomer, error) {
	customer, err := s.Get(ctx, customerID)
	if err != nil {
		return nil, err
	}

	var keys []string
	for _, k := range []string{customer.AadhaarKey, customer.PANKey, customer.VoterKey, customer.OtherKey} {
		if k != "" {
			keys = append(keys, k)
		}
	}
	if len(keys) > 0 && s.Documents != nil {
		if err := s.Documents.RemoveObjects(ctx, keys); err != nil {
			log.Warn().Err(err).Str("customer_id", customerID).Msg("stored document cleanup failed")
		}
	}

	if err := s.DB.WithContext(ctx).Where("id = ?", customerID).Delete(&models.KYCCustomer{}).Error; err != nil {
		return nil, err
	}
	return customer, nil
}
