package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/resume-matcher/internal/models"
	"alfredoptarigan/resume-matcher/internal/services"
)

type WorkspaceHandler struct {
	service services.WorkspaceService
}

func NewWorkspaceHandler(service services.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{service: service}
}

// HandleCreate handles POST /workspaces
func (h *WorkspaceHandler) HandleCreate(c *fiber.Ctx) error {
	ws, err := h.service.Create()
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(models.NewWorkspaceResponse(ws))
}

// HandleGet handles GET /workspaces/:id
func (h *WorkspaceHandler) HandleGet(c *fiber.Ctx) error {
	id, err := workspaceID(c)
	if err != nil {
		return err
	}

	ws, err := h.service.Get(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.NewWorkspaceResponse(ws))
}

// HandleDelete handles DELETE /workspaces/:id
func (h *WorkspaceHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := workspaceID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleGetCurrent handles GET /workspaces/:id/current
func (h *WorkspaceHandler) HandleGetCurrent(c *fiber.Ctx) error {
	id, err := workspaceID(c)
	if err != nil {
		return err
	}

	ws, err := h.service.Get(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(currentFileResponse(ws))
}

// HandleNext handles POST /workspaces/:id/current/next
func (h *WorkspaceHandler) HandleNext(c *fiber.Ctx) error {
	return h.navigate(c, h.service.Next)
}

// HandlePrev handles POST /workspaces/:id/current/prev
func (h *WorkspaceHandler) HandlePrev(c *fiber.Ctx) error {
	return h.navigate(c, h.service.Prev)
}

func (h *WorkspaceHandler) navigate(c *fiber.Ctx, move func(id uuid.UUID) (*models.Workspace, error)) error {
	id, err := workspaceID(c)
	if err != nil {
		return err
	}

	ws, err := move(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(currentFileResponse(ws))
}

// HandleSaveText handles PUT /workspaces/:id/current/text
func (h *WorkspaceHandler) HandleSaveText(c *fiber.Ctx) error {
	id, err := workspaceID(c)
	if err != nil {
		return err
	}

	var req models.TextUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	ws, err := h.service.SaveCurrentText(id, req.Text)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(currentFileResponse(ws))
}

// HandleRemoveFile handles DELETE /workspaces/:id/files/:index
func (h *WorkspaceHandler) HandleRemoveFile(c *fiber.Ctx) error {
	id, err := workspaceID(c)
	if err != nil {
		return err
	}

	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid file index",
		})
	}

	ws, err := h.service.RemoveFile(id, index)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.NewWorkspaceResponse(ws))
}

// HandleClearFiles handles DELETE /workspaces/:id/files
func (h *WorkspaceHandler) HandleClearFiles(c *fiber.Ctx) error {
	id, err := workspaceID(c)
	if err != nil {
		return err
	}

	ws, err := h.service.ClearFiles(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.NewWorkspaceResponse(ws))
}

func currentFileResponse(ws *models.Workspace) models.CurrentFileResponse {
	file, text, ok := ws.Current()
	if !ok {
		return models.CurrentFileResponse{Index: -1}
	}

	_, hasText := ws.Text(file.Name)
	return models.CurrentFileResponse{
		Index:   ws.CurrentIndex,
		Name:    file.Name,
		Text:    text,
		HasText: hasText,
		HasPrev: ws.CurrentIndex > 0,
		HasNext: ws.CurrentIndex < len(ws.Files)-1,
	}
}
