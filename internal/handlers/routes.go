package handlers

import (
	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Workspace   *WorkspaceHandler
	Upload      *UploadHandler
	Requirement *RequirementHandler
	Analysis    *AnalysisHandler
	Result      *ResultHandler
}

// RegisterRoutes mounts the workspace API on router. analyzeLimiter guards
// the analyze route only.
func RegisterRoutes(router fiber.Router, h Handlers, analyzeLimiter fiber.Handler) {
	router.Post("/workspaces", h.Workspace.HandleCreate)

	ws := router.Group("/workspaces/:id")
	ws.Get("/", h.Workspace.HandleGet)
	ws.Delete("/", h.Workspace.HandleDelete)

	ws.Post("/files", h.Upload.HandleUpload)
	ws.Delete("/files", h.Workspace.HandleClearFiles)
	ws.Delete("/files/:index", h.Workspace.HandleRemoveFile)

	ws.Get("/current", h.Workspace.HandleGetCurrent)
	ws.Post("/current/next", h.Workspace.HandleNext)
	ws.Post("/current/prev", h.Workspace.HandlePrev)
	ws.Put("/current/text", h.Workspace.HandleSaveText)

	ws.Post("/requirements", h.Requirement.HandleAdd)
	ws.Put("/requirements/:reqID", h.Requirement.HandleUpdate)
	ws.Delete("/requirements/:reqID", h.Requirement.HandleRemove)

	if analyzeLimiter != nil {
		ws.Post("/analyze", analyzeLimiter, h.Analysis.HandleAnalyze)
	} else {
		ws.Post("/analyze", h.Analysis.HandleAnalyze)
	}
	ws.Get("/analysis", h.Analysis.HandleGetAnalysis)

	ws.Get("/results", h.Result.HandleGetResults)
	ws.Get("/report.pdf", h.Result.HandleExportReport)
}
