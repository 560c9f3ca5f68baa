package uploads

import (
	"strings"

	"estates-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *Service
}

// POST /api/v1/customer-kyc/presign
func (h *Handlers) Presign(c *fiber.Ctx) error {
	var body PresignInput
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	result, err := h.Service.Presign(c.Context(), body)
	if err != nil {
		if strings.HasPrefix(err.Error(), "Invalid") {
			return response.Error(c, fiber.StatusBadRequest, err.Error())
		}
		return response.Error(c, fiber.StatusInternalServerError, "Failed to generate upload URLs")
	}
	return c.JSON(result)
}
