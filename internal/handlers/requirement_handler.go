package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-matcher/internal/models"
	"alfredoptarigan/resume-matcher/internal/services"
)

type RequirementHandler struct {
	service services.WorkspaceService
}

func NewRequirementHandler(service services.WorkspaceService) *RequirementHandler {
	return &RequirementHandler{service: service}
}

// HandleAdd handles POST /workspaces/:id/requirements. An empty body adds a
// blank pair.
func (h *RequirementHandler) HandleAdd(c *fiber.Ctx) error {
	id, err := workspaceID(c)
	if err != nil {
		return err
	}

	var req models.RequirementRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request payload",
			})
		}
	}

	requirement, err := h.service.AddRequirement(id, req.Label, req.Value)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(requirement)
}

// HandleUpdate handles PUT /workspaces/:id/requirements/:reqID
func (h *RequirementHandler) HandleUpdate(c *fiber.Ctx) error {
	id, err := workspaceID(c)
	if err != nil {
		return err
	}
	reqID, err := strconv.Atoi(c.Params("reqID"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid requirement ID",
		})
	}

	var req models.RequirementRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	requirement, err := h.service.UpdateRequirement(id, reqID, req.Label, req.Value)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(requirement)
}

// HandleRemove handles DELETE /workspaces/:id/requirements/:reqID
func (h *RequirementHandler) HandleRemove(c *fiber.Ctx) error {
	id, err := workspaceID(c)
	if err != nil {
		return err
	}
	reqID, err := strconv.Atoi(c.Params("reqID"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid requirement ID",
		})
	}

	if err := h.service.RemoveRequirement(id, reqID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
