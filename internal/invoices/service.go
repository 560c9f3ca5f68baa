package invoices

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

// ErrInvalidTotalAmount rejects attaching an invoice whose total is not positive.
var ErrInvalidTotalAmount = errors.New("Invalid totalAmount in invoice")

type Service struct {
	DB       *gorm.DB
	Resolver *Resolver
	Flats    *flats.Service
	Schedule *schedule.Service
}

// AttachResult reports the linkage and financials after an attach.
type AttachResult struct {
	FlatStatus      string  `json:"flatStatus"`
	LatestInvoiceID string  `json:"latestInvoiceId"`
	RootInvoiceID   string  `json:"rootInvoiceId"`
	TotalAmount     float64 `json:"totalAmount"`
	Advance         float64 `json:"advance"`
}

// AttachToFlat resolves the chain from any member id and links its latest and
// root versions to the flat, deriving the status from the latest financials.
func (s *Service) AttachToFlat(ctx context.Context, invoiceID, projectID, flatID string) (*AttachResult, error) {
	latest, err := s.Resolver.Latest(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	root, err := s.Resolver.Root(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if latest.TotalAmount <= 0 {
		return nil, ErrInvalidTotalAmount
	}

	flat, err := s.Flats.Get(ctx, projectID, flatID)
	if err != nil {
		return nil, err
	}

	status := flats.DeriveStatus(latest.TotalAmount, latest.Advance, flat.LoanApproved)
	if err := s.Flats.AttachInvoice(ctx, projectID, flatID, latest.ID, root.ID, status); err != nil {
		return nil, err
	}
	return &AttachResult{
		FlatStatus:      status,
		LatestInvoiceID: latest.ID,
		RootInvoiceID:   root.ID,
		TotalAmount:     latest.TotalAmount,
		Advance:         latest.Advance,
	}, nil
}

// CustomerSummary is the read projection for the flat detail screen.
type CustomerSummary struct {
	CustomerName  string  `json:"customerName"`
	PAN           string  `json:"pan"`
	TotalAmount   float64 `json:"totalAmount"`
	Advance       float64 `json:"advance"`
	CustomerPhone string  `json:"customerPhone"`
}

// SummaryForFlat returns the customer summary of the invoice currently
// linked to the flat. store.ErrNotFound when no invoice is linked.
func (s *Service) SummaryForFlat(ctx context.Context, projectID, flatID string) (*CustomerSummary, error) {
	flat, err := s.Flats.Get(ctx, projectID, flatID)
	if err != nil {
		return nil, err
	}
	if flat.LatestInvoiceID == nil {
		return nil, store.ErrNotFound
	}
	inv, err := s.Resolver.Get(ctx, *flat.LatestInvoiceID)
	if err != nil {
		return nil, err
	}
	cust := inv.Customer.Data()
	return &CustomerSummary{
		CustomerName:  cust.Name,
		PAN:           cust.PAN,
		TotalAmount:   inv.TotalAmount,
		Advance:       inv.Advance,
		CustomerPhone: cust.Phone,
	}, nil
}

// SwapResult reports the linkage after a swap or detach.
type SwapResult struct {
	FlatStatus      string  `json:"flatStatus"`
	LatestInvoiceID *string `json:"latestInvoiceId"`
}

// SwapLatest replaces the flat's attached latest invoice with newID, guarded
// by the expected currentID. Empty newID detaches: the flat goes free, both
// links clear, and the customer's schedule slot is removed.
func (s *Service) SwapLatest(ctx context.Context, currentID, newID string) (*SwapResult, error) {
	flat, err := s.Flats.ByLatestInvoiceID(ctx, currentID)
	if err != nil {
		return nil, err
	}

	if newID == "" {
		if err := s.Flats.DetachInvoice(ctx, flat, currentID); err != nil {
			return nil, err
		}
		s.clearScheduleFor(ctx, currentID)
		return &SwapResult{FlatStatus: models.FlatStatusFree}, nil
	}

	newInvoice, err := s.Resolver.Get(ctx, newID)
	if err != nil {
		return nil, err
	}
	status := flats.DeriveStatus(newInvoice.TotalAmount, newInvoice.Advance, flat.LoanApproved)
	if err := s.Flats.SwapLatestInvoice(ctx, flat, currentID, newID, status); err != nil {
		return nil, err
	}
	return &SwapResult{FlatStatus: status, LatestInvoiceID: &newInvoice.ID}, nil
}

// Reset frees a flat by key, clearing its invoice links and the schedule
// slot for the given phone.
func (s *Service) Reset(ctx context.Context, projectID, flatID, phone string) (*models.Flat, error) {
	if phone != "" {
		if err := s.Schedule.Delete(ctx, phone); err != nil {
			log.Warn().Err(err).Str("phone", phone).Msg("schedule cleanup failed")
		}
	}
	return s.Flats.ResetToFree(ctx, projectID, flatID)
}

// clearScheduleFor removes the schedule slot of the customer on the given
// invoice version. Best effort: a missing invoice or slot is not an error.
func (s *Service) clearScheduleFor(ctx context.Context, invoiceID string) {
	inv, err := s.Resolver.Get(ctx, invoiceID)
	if err != nil {
		return
	}
	phone := inv.Customer.Data().Phone
	if phone == "" {
		return
	}
	if err := s.Schedule.Delete(ctx, phone); err != nil {
		log.Warn().Err(err).Str("phone", phone).Msg("schedule cleanup failed")
	}
}
