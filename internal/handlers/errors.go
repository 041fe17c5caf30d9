package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/resume-matcher/internal/models"
)

const (
	msgNoResumes      = "Please upload at least one resume"
	msgNoRequirements = "Please add at least one job requirement"
	msgExportFailed   = "Error generating PDF. Please try again."
)

// respondError maps domain errors to a status code and a JSON error body.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "Internal server error"

	switch {
	case errors.Is(err, models.ErrWorkspaceNotFound):
		status, message = fiber.StatusNotFound, "Workspace not found"
	case errors.Is(err, models.ErrNoFiles):
		status, message = fiber.StatusBadRequest, msgNoResumes
	case errors.Is(err, models.ErrNoRequirements):
		status, message = fiber.StatusBadRequest, msgNoRequirements
	case errors.Is(err, models.ErrFileIndexOutOfRange):
		status, message = fiber.StatusNotFound, "File not found"
	case errors.Is(err, models.ErrRequirementNotFound):
		status, message = fiber.StatusNotFound, "Requirement not found"
	case errors.Is(err, models.ErrAnalysisInProgress):
		status, message = fiber.StatusConflict, "An analysis is already running for this workspace"
	case errors.Is(err, models.ErrFileTooLarge):
		status, message = fiber.StatusBadRequest, err.Error()
	default:
		log.Printf("❌ %s %s: %v", c.Method(), c.Path(), err)
	}

	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}

func workspaceID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid workspace ID format")
	}
	return id, nil
}

// ErrorHandler renders errors that escape a handler as JSON.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
