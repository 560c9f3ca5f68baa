package users

import (
	"errors"

	"estates-backend/internal/pkg/response"
	"estates-backend/internal/store"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *Service
}

// GET /api/v1/users
func (h *Handlers) List(c *fiber.Ctx) error {
	users, err := h.Service.List(c.Context())
	if err != nil {
		return response.Error(c, fiber.StatusInternalServerError, "Failed to fetch users")
	}
	return c.JSON(fiber.Map{"success": true, "count": len(users), "users": users})
}

type deleteInput struct {
	ID    string `json:"_id"`
	Email string `json:"email"`
}

// DELETE /api/v1/users
func (h *Handlers) Delete(c *fiber.Ctx) error {
	var body deleteInput
	if err := c.BodyParser(&body); err != nil || body.ID == "" || body.Email == "" {
		return response.Error(c, fiber.StatusBadRequest, "_id and email are required")
	}
	user, err := h.Service.Delete(c.Context(), body.ID, body.Email)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return response.Error(c, fiber.StatusNotFound, "User not found")
		case errors.Is(err, ErrAdminDelete):
			return response.Error(c, fiber.StatusBadRequest, err.Error())
		}
		return response.Error(c, fiber.StatusInternalServerError, "Failed to delete user")
	}
	return response.Success(c, "User deleted successfully", user)
}
