package schedule

import (
	"errors"

	"estates-backend/internal/pkg/response"
	"estates-backend/internal/store"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *Service
}

type upsertRequest struct {
	Phone string `json:"phone"`
	Date  string `json:"date"`
}

// POST /api/v1/schedule
func (h *Handlers) Upsert(c *fiber.Ctx) error {
	var body upsertRequest
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if body.Phone == "" || body.Date == "" {
		return response.Error(c, fiber.StatusBadRequest, "phone and date are required")
	}
	if err := h.Service.Upsert(c.Context(), body.Phone, body.Date); err != nil {
		if errors.Is(err, ErrInvalidDate) {
			return response.Error(c, fiber.StatusBadRequest, err.Error())
		}
		return response.Error(c, fiber.StatusInternalServerError, "Internal server error")
	}
	return response.Success(c, "Schedule saved successfully", Entry{Phone: body.Phone, Date: body.Date})
}

// GET /api/v1/schedule/:phone
func (h *Handlers) Get(c *fiber.Ctx) error {
	phone := c.Params("phone")
	if phone == "" {
		return response.Error(c, fiber.StatusBadRequest, "phone is required")
	}
	entry, err := h.Service.Get(c.Context(), phone)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return response.Success(c, "No schedule found for this phone", nil)
		}
		return response.Error(c, fiber.StatusInternalServerError, "Internal server error")
	}
	return response.Success(c, "Schedule fetched", entry)
}
