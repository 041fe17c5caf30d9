package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-matcher/internal/models"
	"alfredoptarigan/resume-matcher/internal/services"
)

type UploadHandler struct {
	service        services.WorkspaceService
	storageService services.StorageService
}

func NewUploadHandler(
	service services.WorkspaceService,
	storageService services.StorageService,
) *UploadHandler {
	return &UploadHandler{
		service:        service,
		storageService: storageService,
	}
}

// HandleUpload handles POST /workspaces/:id/files
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	id, err := workspaceID(c)
	if err != nil {
		return err
	}

	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to parse multipart form",
		})
	}

	headers := form.File["files"]
	if len(headers) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No files uploaded. Please upload resumes as 'files'.",
		})
	}

	source := models.SourcePicker
	if values := form.Value["source"]; len(values) > 0 {
		source = models.ParseUploadSource(values[0])
	}

	files := make([]models.UploadedFile, 0, len(headers))
	for _, header := range headers {
		file, err := h.storageService.ReadUpload(header)
		if err != nil {
			return respondError(c, err)
		}
		files = append(files, file)
	}

	outcome, err := h.service.Upload(c.UserContext(), id, source, files)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(models.UploadResponse{
		Added:     outcome.Added,
		Extracted: outcome.Extracted,
		Failed:    outcome.Failed,
		Files:     models.NewFileEntries(outcome.Workspace),
	})
}
