package invoices

import (
	"errors"

	"estates-backend/internal/models"
	"estates-backend/internal/pkg/response"
	"estates-backend/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Handlers struct {
	Service *Service
}

type attachRequest struct {
	InvoiceID string `json:"invoiceId"`
	ProjectID string `json:"projectId"`
	FlatID    string `json:"flatId"`
}

// POST /api/v1/invoices/attach-to-flat
func (h *Handlers) AttachToFlat(c *fiber.Ctx) error {
	var body attachRequest
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if body.InvoiceID == "" || body.ProjectID == "" || body.FlatID == "" {
		return response.Error(c, fiber.StatusBadRequest, "invoiceId, projectId and flatId are required")
	}

	result, err := h.Service.AttachToFlat(c.Context(), body.InvoiceID, body.ProjectID, body.FlatID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return response.Error(c, fiber.StatusNotFound, "Invoice or flat not found")
		case errors.Is(err, ErrInvalidTotalAmount):
			return response.Error(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, ErrChainBranched):
			return response.Error(c, fiber.StatusConflict, err.Error())
		}
		return response.Error(c, fiber.StatusInternalServerError, "Failed to attach invoice")
	}
	return response.Success(c, "Invoice linked and flat status updated", result)
}

// GET /api/v1/invoices/:projectId/:flatId/invoice-summary
func (h *Handlers) SummaryForFlat(c *fiber.Ctx) error {
	summary, err := h.Service.SummaryForFlat(c.Context(), c.Params("projectId"), c.Params("flatId"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return response.Error(c, fiber.StatusNotFound, "No invoice linked to this flat")
		}
		return response.Error(c, fiber.StatusInternalServerError, "Failed to fetch invoice summary")
	}
	return response.Success(c, "Invoice summary fetched", summary)
}

type swapRequest struct {
	CurrentLatestInvoiceID string  `json:"currentLatestInvoiceId"`
	NewLatestInvoiceID     *string `json:"newLatestInvoiceId"`
}

// PATCH /api/v1/invoices/flats/swap-latest-invoice
func (h *Handlers) SwapLatest(c *fiber.Ctx) error {
	var body swapRequest
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if body.CurrentLatestInvoiceID == "" {
		return response.Error(c, fiber.StatusBadRequest, "currentLatestInvoiceId is required")
	}

	newID := ""
	if body.NewLatestInvoiceID != nil {
		newID = *body.NewLatestInvoiceID
	}

	result, err := h.Service.SwapLatest(c.Context(), body.CurrentLatestInvoiceID, newID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrConflict):
			return response.Error(c, fiber.StatusConflict, "Latest invoice mismatch. Update rejected.")
		case errors.Is(err, store.ErrNotFound):
			return response.Error(c, fiber.StatusNotFound, "No flat linked to current latest invoice")
		}
		return response.Error(c, fiber.StatusInternalServerError, "Failed to swap latest invoice")
	}
	if newID == "" {
		return response.Success(c, "Invoice detached and flat marked as free", result)
	}
	return response.Success(c, "Latest invoice and flat status updated successfully", result)
}

type resetRequest struct {
	ProjectID string `json:"projectId"`
	FlatID    string `json:"flatId"`
	Phone     string `json:"phone"`
}

// PATCH /api/v1/invoices/reset
func (h *Handlers) Reset(c *fiber.Ctx) error {
	var body resetRequest
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if body.ProjectID == "" || body.FlatID == "" {
		return response.Error(c, fiber.StatusBadRequest, "projectId and flatId are required")
	}

	flat, err := h.Service.Reset(c.Context(), body.ProjectID, body.FlatID, body.Phone)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return response.Error(c, fiber.StatusNotFound, "Flat not found")
		}
		return response.Error(c, fiber.StatusInternalServerError, "Failed to reset flat")
	}
	return response.Success(c, "Flat reset to FREE successfully", fiber.Map{
		"projectId": flat.ProjectID,
		"flatId":    flat.FlatID,
		"status":    flat.Status,
	})
}

type createVersionRequest struct {
	PreviousInvoiceID *string                `json:"previousInvoiceId"`
	TotalAmount       float64                `json:"totalAmount"`
	Advance           float64                `json:"advance"`
	Customer          models.InvoiceCustomer `json:"customer"`
}

// POST /api/v1/invoices
func (h *Handlers) CreateVersion(c *fiber.Ctx) error {
	var body createVersionRequest
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if body.TotalAmount <= 0 {
		return response.Error(c, fiber.StatusBadRequest, "totalAmount must be positive")
	}

	inv := &models.Invoice{
		ID:                uuid.NewString(),
		PreviousInvoiceID: body.PreviousInvoiceID,
		TotalAmount:       body.TotalAmount,
		Advance:           body.Advance,
		Customer:          datatypes.NewJSONType(body.Customer),
	}
	if err := h.Service.Resolver.CreateVersion(c.Context(), inv); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return response.Error(c, fiber.StatusNotFound, "Previous invoice not found")
		case errors.Is(err, store.ErrConflict):
			return response.Error(c, fiber.StatusConflict, "Previous invoice already has a newer version")
		}
		return response.Error(c, fiber.StatusInternalServerError, "Failed to create invoice version")
	}
	return response.Created(c, "Invoice version created", inv)
}
