package cancellations

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
	CancellationID string `json:"cancellationId"`
	ProjectID      string `json:"projectId"`
	FlatID         string `json:"flatId"`
	Phone          string `json:"phone"`
}

// POST /api/v1/cancellations/attach-to-flat
func (h *Handlers) AttachToFlat(c *fiber.Ctx) error {
	var body attachRequest
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if body.CancellationID == "" || body.ProjectID == "" || body.FlatID == "" || body.Phone == "" {
		return response.Error(c, fiber.StatusBadRequest, "cancellationId, projectId, flatId and phone are required")
	}

	result, err := h.Service.AttachToFlat(c.Context(), body.CancellationID, body.ProjectID, body.FlatID, body.Phone)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return response.Error(c, fiber.StatusNotFound, "Cancellation or flat not found")
		}
		return response.Error(c, fiber.StatusInternalServerError, "Failed to attach cancellation")
	}
	return response.Success(c, "Cancellation linked and flat status updated", result)
}

// GET /api/v1/cancellations/:projectId/:flatId/cancellation-summary
func (h *Handlers) SummaryForFlat(c *fiber.Ctx) error {
	summary, err := h.Service.SummaryForFlat(c.Context(), c.Params("projectId"), c.Params("flatId"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return response.Error(c, fiber.StatusNotFound, "No cancellation linked to this flat")
		}
		return response.Error(c, fiber.StatusInternalServerError, "Failed to fetch cancellation summary")
	}
	return response.Success(c, "Cancellation summary fetched", summary)
}

type swapRequest struct {
	CurrentLatestCancellationID string  `json:"currentLatestCancellationId"`
	NewLatestCancellationID     *string `json:"newLatestCancellationId"`
}

// PATCH /api/v1/cancellations/flats/swap-latest-cancellation
func (h *Handlers) SwapLatest(c *fiber.Ctx) error {
	var body swapRequest
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if body.CurrentLatestCancellationID == "" {
		return response.Error(c, fiber.StatusBadRequest, "currentLatestCancellationId is required")
	}

	newID := ""
	if body.NewLatestCancellationID != nil {
		newID = *body.NewLatestCancellationID
	}

	err := h.Service.SwapLatest(c.Context(), body.CurrentLatestCancellationID, newID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrConflict):
			return response.Error(c, fiber.StatusConflict, "Latest cancellation mismatch. Update rejected.")
		case errors.Is(err, store.ErrNotFound):
			return response.Error(c, fiber.StatusNotFound, "No flat linked to current latest cancellation")
		}
		return response.Error(c, fiber.StatusInternalServerError, "Failed to swap latest cancellation")
	}
	if newID == "" {
		return response.Success(c, "Cancellation detached and flat marked as free", fiber.Map{"flatStatus": models.FlatStatusFree})
	}
	return response.Success(c, "Latest cancellation updated successfully", nil)
}

type createVersionRequest struct {
	InvID           string                 `json:"inv_id"`
	Customer        models.InvoiceCustomer `json:"customer"`
	NetReturn       float64                `json:"net_return"`
	AlreadyReturned float64                `json:"already_returned"`
	YetToBeReturned float64                `json:"yetTB_returned"`
}

// POST /api/v1/cancellations
func (h *Handlers) CreateVersion(c *fiber.Ctx) error {
	var body createVersionRequest
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if body.InvID == "" {
		return response.Error(c, fiber.StatusBadRequest, "inv_id is required")
	}

	can := &models.Cancellation{
		ID:              uuid.NewString(),
		InvID:           body.InvID,
		Customer:        datatypes.NewJSONType(body.Customer),
		NetReturn:       body.NetReturn,
		AlreadyReturned: body.AlreadyReturned,
		YetToBeReturned: body.YetToBeReturned,
	}
	if err := h.Service.CreateVersion(c.Context(), can); err != nil {
		return response.Error(c, fiber.StatusInternalServerError, "Failed to create cancellation version")
	}
	return response.Created(c, "Cancellation version created", can)
}
