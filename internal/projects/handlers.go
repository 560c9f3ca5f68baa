package projects

import (
	"errors"

	"estates-backend/internal/flats"
	"estates-backend/internal/pkg/response"
	"estates-backend/internal/store"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *Service
	Flats   *flats.Service
}

type createRequest struct {
	Name  string            `json:"name"`
	Flats []flats.FlatInput `json:"flats"`
}

// POST /api/v1/projects
func (h *Handlers) Create(c *fiber.Ctx) error {
	var body createRequest
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if body.Name == "" || len(body.Flats) == 0 {
		return response.Error(c, fiber.StatusBadRequest, "Project name and flats are required")
	}

	project, err := h.Service.Create(c.Context(), CreateInput{Name: body.Name, Flats: body.Flats})
	if err != nil {
		return response.Error(c, fiber.StatusInternalServerError, "Failed to create project")
	}
	return response.Created(c, "Project created successfully", project)
}

// GET /api/v1/projects
func (h *Handlers) List(c *fiber.Ctx) error {
	projects, err := h.Service.List(c.Context())
	if err != nil {
		return response.Error(c, fiber.StatusInternalServerError, "Failed to fetch projects")
	}
	return c.JSON(fiber.Map{"success": true, "projects": projects})
}

// GET /api/v1/projects/:projectId/flats
func (h *Handlers) ListFlats(c *fiber.Ctx) error {
	projectID := c.Params("projectId")
	if projectID == "" {
		return response.Error(c, fiber.StatusBadRequest, "Project ID is required")
	}
	list, err := h.Flats.GetByProject(c.Context(), projectID)
	if err != nil {
		return response.Error(c, fiber.StatusInternalServerError, "Failed to fetch project flats")
	}
	return c.JSON(fiber.Map{"success": true, "flats": list})
}

// GET /api/v1/projects/:projectId/flats/:flatId
func (h *Handlers) GetFlat(c *fiber.Ctx) error {
	flat, err := h.Flats.Get(c.Context(), c.Params("projectId"), c.Params("flatId"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return response.Error(c, fiber.StatusNotFound, "Flat not found")
		}
		return response.Error(c, fiber.StatusInternalServerError, "Failed to fetch flat")
	}
	return c.JSON(fiber.Map{"success": true, "flat": flat})
}

// PATCH /api/v1/projects/:projectId/flats/:flatId/approve-loan
func (h *Handlers) ApproveLoan(c *fiber.Ctx) error {
	flat, err := h.Flats.ApproveLoan(c.Context(), c.Params("projectId"), c.Params("flatId"))
	if err != nil {
		switch {
		case errors.Is(err, flats.ErrLoanAlreadyApproved):
			return response.Error(c, fiber.StatusConflict, err.Error())
		case errors.Is(err, store.ErrNotFound):
			return response.Error(c, fiber.StatusNotFound, "Flat not found")
		}
		return response.Error(c, fiber.StatusInternalServerError, "Failed to approve loan")
	}
	return response.Success(c, "Loan approved", flat)
}

// DELETE /api/v1/projects/:projectId
func (h *Handlers) Delete(c *fiber.Ctx) error {
	err := h.Service.Delete(c.Context(), c.Params("projectId"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return response.Error(c, fiber.StatusNotFound, "Project not found")
		}
		return response.Error(c, fiber.StatusInternalServerError, "Failed to delete project")
	}
	return response.Success(c, "Project deleted successfully", nil)
}
