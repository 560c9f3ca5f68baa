package payments

import (
	"strconv"
	"strings"

	"estates-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *Service
}

// GET /api/v1/payments/flats/:projectId/:flatId
func (h *Handlers) History(c *fiber.Ctx) error {
	projectID, flatID := c.Params("projectId"), c.Params("flatId")
	if projectID == "" || flatID == "" {
		return response.Error(c, fiber.StatusBadRequest, "projectId and flatId are required")
	}
	list, err := h.Service.ByFlat(c.Context(), projectID, flatID)
	if err != nil {
		return response.Error(c, fiber.StatusInternalServerError, "Failed to fetch payment history")
	}
	return c.JSON(fiber.Map{"success": true, "payments": list, "count": len(list)})
}

// GET /api/v1/payments?page=1
func (h *Handlers) List(c *fiber.Ctx) error {
	result, err := h.Service.List(c.Context(), pageParam(c))
	if err != nil {
		return response.Error(c, fiber.StatusInternalServerError, "Failed to fetch payments")
	}
	return paged(c, result)
}

// GET /api/v1/payments/search?q=rahul&page=1
func (h *Handlers) Search(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return response.Error(c, fiber.StatusBadRequest, "Search query is required")
	}
	result, err := h.Service.Search(c.Context(), query, pageParam(c))
	if err != nil {
		return response.Error(c, fiber.StatusInternalServerError, "Failed to search payments")
	}
	return paged(c, result)
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
		"payments":    p.Payments,
		"totalCount":  p.TotalCount,
		"totalPages":  p.TotalPages,
		"currentPage": p.CurrentPage,
	})
}
