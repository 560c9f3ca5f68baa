package bookings

import (
	"errors"

	"estates-backend/internal/pkg/response"
	"estates-backend/internal/store"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *Service
}

type bookRequest struct {
	Customer struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"customer"`
	Amount       float64 `json:"amount"`
	TotalPayment float64 `json:"totalPayment"`
	Summary      string  `json:"summary"`
}

// POST /api/v1/bookings/flats/:projectId/:flatId/book
func (h *Handlers) Book(c *fiber.Ctx) error {
	var body bookRequest
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if body.Customer.ID == "" || body.Amount <= 0 || body.TotalPayment <= 0 {
		return response.Error(c, fiber.StatusBadRequest, "customer, amount, and totalPayment required")
	}

	err := h.Service.Book(c.Context(), BookInput{
		ProjectID:    c.Params("projectId"),
		FlatID:       c.Params("flatId"),
		CustomerID:   body.Customer.ID,
		CustomerName: body.Customer.Name,
		Amount:       body.Amount,
		TotalPayment: body.TotalPayment,
		Summary:      body.Summary,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidAmounts), errors.Is(err, ErrAmountExceedsTotal):
			return response.Error(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, ErrAlreadyBooked):
			return response.Error(c, fiber.StatusConflict, err.Error())
		case errors.Is(err, store.ErrNotFound):
			return response.Error(c, fiber.StatusNotFound, "Flat not found")
		}
		return response.Error(c, fiber.StatusInternalServerError, "Booking failed")
	}
	return response.Created(c, "Flat booked and payment recorded", nil)
}

// GET /api/v1/bookings/flats/:projectId/:flatId/booked
func (h *Handlers) GetBooked(c *fiber.Ctx) error {
	booking, err := h.Service.Get(c.Context(), c.Params("projectId"), c.Params("flatId"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return response.Error(c, fiber.StatusNotFound, "Flat is not booked")
		}
		return response.Error(c, fiber.StatusInternalServerError, "Failed to fetch")
	}
	return c.JSON(fiber.Map{"success": true, "booked": booking})
}

type addPaymentRequest struct {
	Amount  float64 `json:"amount"`
	Summary string  `json:"summary"`
}

// POST /api/v1/payments/flats/:projectId/:flatId
func (h *Handlers) AddPayment(c *fiber.Ctx) error {
	var body addPaymentRequest
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}

	paid, err := h.Service.AddPayment(c.Context(), c.Params("projectId"), c.Params("flatId"), body.Amount, body.Summary)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidAmounts), errors.Is(err, ErrPaymentExceedsTotal):
			return response.Error(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, store.ErrNotFound):
			return response.Error(c, fiber.StatusNotFound, "Flat is not booked")
		}
		return response.Error(c, fiber.StatusInternalServerError, "Payment failed")
	}
	return c.JSON(fiber.Map{"success": true, "message": "Payment added", "paid": paid})
}
