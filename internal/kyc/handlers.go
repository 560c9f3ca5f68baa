package kyc

import (
	"errors"
	"strconv"

	"estates-backend/internal/middleware"
	"estates-backend/internal/models"
	"estates-backend/internal/pkg/response"
	"estates-backend/internal/store"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *Service
}

// POST /api/v1/customer-kyc
func (h *Handlers) Create(c *fiber.Ctx) error {
	var body CreateInput
	if err := middleware.BindAndValidate(c, &body); err != nil {
		var verr validator.ValidationErrors
		if errors.As(err, &verr) {
			return response.Error(c, fiber.StatusBadRequest, "Aadhaar and PAN are mandatory")
		}
		return response.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}

	customer, err := h.Service.Create(c.Context(), body)
	if err != nil {
		if errors.Is(err, ErrDuplicatePhone) {
			return response.Error(c, fiber.StatusConflict, err.Error())
		}
		return response.Error(c, fiber.StatusInternalServerError, "Failed to save KYC data")
	}
	return response.Created(c, "KYC submitted successfully", customer)
}

// GET /api/v1/customer-kyc, /approved, /pending
func (h *Handlers) ListAll(c *fiber.Ctx) error {
	return h.list(c, "")
}

func (h *Handlers) ListApproved(c *fiber.Ctx) error {
	return h.list(c, models.KYCStatusApproved)
}

func (h *Handlers) ListPending(c *fiber.Ctx) error {
	return h.list(c, models.KYCStatusPending)
}

func (h *Handlers) list(c *fiber.Ctx, status string) error {
	result, err := h.Service.List(c.Context(), status, pageParam(c))
	if err != nil {
		return response.Error(c, fiber.StatusInternalServerError, "Failed to fetch KYC customers")
	}
	return paged(c, result)
}

// GET /api/v1/customer-kyc/search/{all,approved,pending}?query=...&page=1
func (h *Handlers) SearchAll(c *fiber.Ctx) error {
	return h.search(c, "")
}

func (h *Handlers) SearchApproved(c *fiber.Ctx) error {
	return h.search(c, models.KYCStatusApproved)
}

func (h *Handlers) SearchPending(c *fiber.Ctx) error {
	return h.search(c, models.KYCStatusPending)
}

func (h *Handlers) search(c *fiber.Ctx, status string) error {
	query := c.Query("query")
	if query == "" {
		return response.Error(c, fiber.StatusBadRequest, "Search query is required")
	}
	result, err := h.Service.Search(c.Context(), status, query, pageParam(c))
	if err != nil {
		return response.Error(c, fiber.StatusInternalServerError, "Failed to search KYC customers")
	}
	return paged(c, result)
}

// PATCH /api/v1/customer-kyc/:customerId/approve
func (h *Handlers) Approve(c *fiber.Ctx) error {
	customerID := c.Params("customerId")
	if customerID == "" {
		return response.Error(c, fiber.StatusBadRequest, "customerId is required")
	}
	customer, err := h.Service.Approve(c.Context(), customerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return response.Error(c, fiber.StatusNotFound, "Customer not found")
		}
		return response.Error(c, fiber.StatusInternalServerError, "Failed to approve KYC")
	}
	return c.JSON(fiber.Map{"success": true, "message": "KYC approved successfully", "customer": customer})
}

// DELETE /api/v1/customer-kyc/:customerId
func (h *Handlers) Delete(c *fiber.Ctx) error {
	customerID := c.Params("customerId")
	if customerID == "" {
		return response.Error(c, fiber.StatusBadRequest, "Customer ID is required")
	}
	customer, err := h.Service.Delete(c.Context(), customerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return response.Error(c, fiber.StatusNotFound, "Customer not found")
		}
		return response.Error(c, fiber.StatusInternalServerError, "Failed to delete customer")
	}
	return c.JSON(fiber.Map{"success": true, "message": "Customer deleted successfully", "customer": customer})
}

func pageParam(c *fiber.Ctx) int {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func paged(c *fiber.Ctx, p *Page) error {
	return c.JSON(fiber.Map{
		"success":     true,
		"customers":   p.Customers,
		"totalCount":  p.TotalCount,
		"totalPages":  p.TotalPages,
		"currentPage": p.CurrentPage,
	})
}
