package analytics

import (
	"errors"

	"estates-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type Handlers struct {
	Service *Service
}

// GET /api/v1/analytics/customers
func (h *Handlers) Customers(c *fiber.Ctx) error {
	counts, err := h.Service.CountCustomers(c.Context())
	if err != nil {
		return response.Error(c, fiber.StatusInternalServerError, "Failed to count customers")
	}
	return c.JSON(fiber.Map{"success": true, "counts": counts})
}

// GET /api/v1/analytics/sales
func (h *Handlers) Sales(c *fiber.Ctx) error {
	summary, err := h.Service.SalesSummary(c.Context())
	if err != nil {
		return response.Error(c, fiber.StatusInternalServerError, "Failed to compute sales summary")
	}
	return c.JSON(fiber.Map{"success": true, "summary": summary})
}

// GET /api/v1/analytics/projects
func (h *Handlers) Projects(c *fiber.Ctx) error {
	refs, err := h.Service.ProjectRefs(c.Context())
	if err != nil {
		return response.Error(c, fiber.StatusInternalServerError, "Failed to fetch projects")
	}
	return c.JSON(fiber.Map{"success": true, "projects": refs})
}

// GET /api/v1/analytics/projects/:projectId
func (h *Handlers) Project(c *fiber.Ctx) error {
	summary, err := h.Service.ProjectSummary(c.Context(), c.Params("projectId"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.Error(c, fiber.StatusNotFound, "Project not found")
		}
		return response.Error(c, fiber.StatusInternalServerError, "Failed to fetch project summary")
	}
	return c.JSON(fiber.Map{"success": true, "project": summary})
}
