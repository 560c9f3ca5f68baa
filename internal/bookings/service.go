package bookings

import (
	"context"
	"errors"

	"estates-backend/internal/flats"
	"estates-backend/internal/models"
	"estates-backend/internal/payments"
	"estates-backend/internal/projects"
	"estates-backend/internal/store"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	// ErrInvalidAmounts rejects missing or non-positive booking amounts.
	ErrInvalidAmounts = errors.New("amount and totalPayment must be positive")
	// ErrAmountExceedsTotal rejects a first payment above the agreed total.
	ErrAmountExceedsTotal = errors.New("amount cannot exceed totalPayment")
	// ErrPaymentExceedsTotal rejects a payment that would push paid past the total.
	ErrPaymentExceedsTotal = errors.New("Payment exceeds total amount")
	// ErrAlreadyBooked rejects booking a flat that already has a booking.
	ErrAlreadyBooked = errors.New("Flat is already booked")
)

// Service runs the booking and payment workflow: it creates bookings,
// appends payment records and re-evaluates flat status as payments accrue.
type Service struct {
	DB       *gorm.DB
	Flats    *flats.Service
	Projects *projects.Service
	Payments *payments.Service
}

type BookInput struct {
	ProjectID    string
	FlatID       string
	CustomerID   string
	CustomerName string
	Amount       float64
	TotalPayment float64
	Summary      string
}

// Book creates the booking, marks the flat booked (or sold when the first
// payment already reaches half the total), bumps the matching project
// counter and appends the first payment record.
func (s *Service) Book(ctx context.Context, in BookInput) error {
	if in.Amount <= 0 || in.TotalPayment <= 0 {
		return ErrInvalidAmounts
	}
	if decimal.NewFromFloat(in.Amount).GreaterThan(decimal.NewFromFloat(in.TotalPayment)) {
		return ErrAmountExceedsTotal
	}
	if _, err := s.Flats.Get(ctx, in.ProjectID, in.FlatID); err != nil {
		return err
	}
	if existing, err := s.Get(ctx, in.ProjectID, in.FlatID); err == nil && existing != nil {
		return ErrAlreadyBooked
	} else if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}

	booking := &models.Booking{
		ProjectID:    in.ProjectID,
		FlatID:       in.FlatID,
		CustomerID:   in.CustomerID,
		CustomerName: in.CustomerName,
		TotalPayment: in.TotalPayment,
		Paid:         in.Amount,
	}
	if err := s.DB.WithContext(ctx).Create(booking).Error; err != nil {
		return err
	}

	if flats.ReachedSoldThreshold(in.TotalPayment, in.Amount) {
		if err := s.Flats.UpdateStatus(ctx, in.ProjectID, in.FlatID, models.FlatStatusSold); err != nil {
			return err
		}
		if err := s.Projects.IncrementSold(ctx, in.ProjectID); err != nil {
			return err
		}
	} else {
		if err := s.Flats.UpdateStatus(ctx, in.ProjectID, in.FlatID, models.FlatStatusBooked); err != nil {
			return err
		}
		if err := s.Projects.IncrementBooked(ctx, in.ProjectID); err != nil {
			return err
		}
	}

	projectName, err := s.Projects.NameByID(ctx, in.ProjectID)
	if err != nil {
		return err
	}
	_, err = s.Payments.Append(ctx, payments.AppendInput{
		ProjectID:   in.ProjectID,
		ProjectName: projectName,
		FlatID:      in.FlatID,
		Customer:    models.PaymentCustomer{ID: in.CustomerID, Name: in.CustomerName},
		Amount:      in.Amount,
		Summary:     in.Summary,
	})
	return err
}

// Get returns the booking for a flat, store.ErrNotFound when the flat has
// never been booked.
func (s *Service) Get(ctx context.Context, projectID, flatID string) (*models.Booking, error) {
	var booking models.Booking
	err := s.DB.WithContext(ctx).Where("project_id = ? AND flat_id = ?", projectID, flatID).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &booking, nil
}

// AddPayment appends a payment to an existing booking. Paid is capped by
// the agreed total, and the flat is promoted to sold exactly once, the
// first time cumulative paid crosses the 50% threshold.
func (s *Service) AddPayment(ctx context.Context, projectID, flatID string, amount float64, summary string) (float64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmounts
	}
	booking, err := s.Get(ctx, projectID, flatID)
	if err != nil {
		return 0, err
	}
	flat, err := s.Flats.Get(ctx, projectID, flatID)
	if err != nil {
		return 0, err
	}

	newPaid, _ := decimal.NewFromFloat(booking.Paid).Add(decimal.NewFromFloat(amount)).Float64()
	if decimal.NewFromFloat(newPaid).GreaterThan(decimal.NewFromFloat(booking.TotalPayment)) {
		return 0, ErrPaymentExceedsTotal
	}

	err = s.DB.WithContext(ctx).Model(&models.Booking{}).
		Where("project_id = ? AND flat_id = ?", projectID, flatID).
		Update("paid", gorm.Expr("paid + ?", amount)).Error
	if err != nil {
		return 0, err
	}

	projectName, err := s.Projects.NameByID(ctx, projectID)
	if err != nil {
		return 0, err
	}
	_, err = s.Payments.Append(ctx, payments.AppendInput{
		ProjectID:   projectID,
		ProjectName: projectName,
		FlatID:      flatID,
		Customer:    models.PaymentCustomer{ID: booking.CustomerID, Name: booking.CustomerName},
		Amount:      amount,
		Summary:     summary,
	})
	if err != nil {
		return 0, err
	}

	if flats.ReachedSoldThreshold(booking.TotalPayment, newPaid) && flat.Status != models.FlatStatusSold {
		if err := s.Projects.IncrementSold(ctx, projectID); err != nil {
			return 0, err
		}
		if err := s.Flats.UpdateStatus(ctx, projectID, flatID, models.FlatStatusSold); err != nil {
			return 0, err
		}
	}
	return newPaid, nil
}
