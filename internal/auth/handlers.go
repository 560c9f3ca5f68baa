package auth

import (
	"errors"

	"estates-backend/internal/middleware"
	"estates-backend/internal/models"
	"estates-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service   *Service
	JWTSecret string
}

// POST /api/v1/auth/register
func (h *Handlers) Register(c *fiber.Ctx) error {
	var body RegisterInput
	if err := middleware.BindAndValidate(c, &body); err != nil {
		return response.Error(c, fiber.StatusBadRequest, "name, email, and password are required")
	}
	user, err := h.Service.Register(c.Context(), body)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return response.Error(c, fiber.StatusBadRequest, err.Error())
		}
		return response.Error(c, fiber.StatusInternalServerError, "Failed to register user")
	}
	return h.session(c, fiber.StatusCreated, user)
}

// POST /api/v1/auth/register-admin
func (h *Handlers) RegisterAdmin(c *fiber.Ctx) error {
	var body RegisterAdminInput
	if err := middleware.BindAndValidate(c, &body); err != nil {
		return response.Error(c, fiber.StatusBadRequest, "name, email, and password are required")
	}
	user, err := h.Service.RegisterAdmin(c.Context(), body)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidAdminToken):
			return response.Error(c, fiber.StatusForbidden, err.Error())
		case errors.Is(err, ErrEmailTaken):
			return response.Error(c, fiber.StatusBadRequest, err.Error())
		}
		return response.Error(c, fiber.StatusInternalServerError, "Failed to register admin")
	}
	return h.session(c, fiber.StatusCreated, user)
}

// POST /api/v1/auth/login
func (h *Handlers) Login(c *fiber.Ctx) error {
	var body LoginInput
	if err := middleware.BindAndValidate(c, &body); err != nil {
		return response.Error(c, fiber.StatusBadRequest, "email and password are required")
	}
	user, err := h.Service.Login(c.Context(), body)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return response.Error(c, fiber.StatusUnauthorized, err.Error())
		}
		return response.Error(c, fiber.StatusInternalServerError, "Failed to log in")
	}
	return h.session(c, fiber.StatusOK, user)
}

func (h *Handlers) session(c *fiber.Ctx, status int, user *models.User) error {
	token, err := middleware.GenerateToken(h.JWTSecret, user.ID, user.Role)
	if err != nil {
		return response.Error(c, fiber.StatusInternalServerError, "Failed to issue token")
	}
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"token":   token,
		"user": fiber.Map{
			"_id":   user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}
