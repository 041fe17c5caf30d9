package handlers

import (
	"bytes"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-matcher/internal/services"
)

type ResultHandler struct {
	service  services.WorkspaceService
	renderer *services.ReportRenderer
}

func NewResultHandler(service services.WorkspaceService, renderer *services.ReportRenderer) *ResultHandler {
	return &ResultHandler{
		service:  service,
		renderer: renderer,
	}
}

// HandleGetResults handles GET /workspaces/:id/results and returns the
// result cards as an HTML fragment.
func (h *ResultHandler) HandleGetResults(c *fiber.Ctx) error {
	id, err := workspaceID(c)
	if err != nil {
		return err
	}

	ws, err := h.service.Get(id)
	if err != nil {
		return respondError(c, err)
	}

	var buf bytes.Buffer
	if err := services.RenderResultCards(&buf, services.BuildResultCards(ws.Results())); err != nil {
		return respondError(c, err)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(buf.Bytes())
}

// HandleExportReport handles GET /workspaces/:id/report.pdf
func (h *ResultHandler) HandleExportReport(c *fiber.Ctx) error {
	id, err := workspaceID(c)
	if err != nil {
		return err
	}

	ws, err := h.service.Get(id)
	if err != nil {
		return respondError(c, err)
	}

	report := services.BuildReport(ws.Requirements, ws.Results(), time.Now())

	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, report); err != nil {
		log.Printf("❌ Error generating PDF for workspace %s: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": msgExportFailed,
		})
	}

	c.Attachment(services.ReportFilename)
	c.Set(fiber.HeaderContentType, "application/pdf")
	return c.Send(buf.Bytes())
}
