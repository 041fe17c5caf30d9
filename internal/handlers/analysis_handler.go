package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-matcher/internal/models"
	"alfredoptarigan/resume-matcher/internal/services"
)

type AnalysisHandler struct {
	service services.WorkspaceService
}

func NewAnalysisHandler(service services.WorkspaceService) *AnalysisHandler {
	return &AnalysisHandler{service: service}
}

// HandleAnalyze handles POST /workspaces/:id/analyze
func (h *AnalysisHandler) HandleAnalyze(c *fiber.Ctx) error {
	id, err := workspaceID(c)
	if err != nil {
		return err
	}

	batch, err := h.service.StartAnalysis(id)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(models.AnalyzeResponse{
		ID:     batch.ID.String(),
		Status: string(batch.Status),
		Total:  batch.Total(),
	})
}

// HandleGetAnalysis handles GET /workspaces/:id/analysis
func (h *AnalysisHandler) HandleGetAnalysis(c *fiber.Ctx) error {
	id, err := workspaceID(c)
	if err != nil {
		return err
	}

	ws, err := h.service.Get(id)
	if err != nil {
		return respondError(c, err)
	}

	if ws.Analysis == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No analysis has been started for this workspace",
		})
	}

	return c.JSON(models.NewAnalysisResponse(ws.Analysis))
}
