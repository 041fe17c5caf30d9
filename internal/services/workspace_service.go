package services

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"alfredoptarigan/resume-matcher/internal/models"
)

// JobQueue accepts workspace IDs whose analysis batch is ready to run.
type JobQueue interface {
	EnqueueJob(workspaceID uuid.UUID)
}

// UploadOutcome reports what happened to one upload request.
type UploadOutcome struct {
	Workspace *models.Workspace
	Added     int
	Extracted int
	Failed    []string
}

type WorkspaceService interface {
	Create() (*models.Workspace, error)
	Get(id uuid.UUID) (*models.Workspace, error)
	Delete(id uuid.UUID) error

	Upload(ctx context.Context, id uuid.UUID, source models.UploadSource, files []models.UploadedFile) (*UploadOutcome, error)
	Next(id uuid.UUID) (*models.Workspace, error)
	Prev(id uuid.UUID) (*models.Workspace, error)
	SaveCurrentText(id uuid.UUID, text string) (*models.Workspace, error)
	RemoveFile(id uuid.UUID, index int) (*models.Workspace, error)
	ClearFiles(id uuid.UUID) (*models.Workspace, error)

	AddRequirement(id uuid.UUID, label, value string) (models.Requirement, error)
	UpdateRequirement(id uuid.UUID, reqID int, label, value string) (models.Requirement, error)
	RemoveRequirement(id uuid.UUID, reqID int) error

	StartAnalysis(id uuid.UUID) (*models.AnalysisBatch, error)
}

type workspaceService struct {
	store     *WorkspaceStore
	pdfParser PDFParserService
	queue     JobQueue
}

func NewWorkspaceService(store *WorkspaceStore, pdfParser PDFParserService, queue JobQueue) WorkspaceService {
	return &workspaceService{
		store:     store,
		pdfParser: pdfParser,
		queue:     queue,
	}
}

func (s *workspaceService) Create() (*models.Workspace, error) {
	ws := models.NewWorkspace()
	if err := s.store.Create(ws); err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}
	log.Printf("🆕 Workspace %s created", ws.ID)
	return ws, nil
}

func (s *workspaceService) Get(id uuid.UUID) (*models.Workspace, error) {
	return s.store.Get(id)
}

func (s *workspaceService) Delete(id uuid.UUID) error {
	if err := s.store.Delete(id); err != nil {
		return err
	}
	log.Printf("🗑️ Workspace %s deleted", id)
	return nil
}

// Upload adds the files, then extracts text from each new file in order.
// Extraction runs outside the store lock and each text is merged back as
// soon as it is ready. A file that fails to parse stays without text.
func (s *workspaceService) Upload(ctx context.Context, id uuid.UUID, source models.UploadSource, files []models.UploadedFile) (*UploadOutcome, error) {
	if source.FiltersPDF() {
		files = models.FilterPDFs(files)
	}

	var added []models.UploadedFile
	ws, err := s.store.Update(id, func(ws *models.Workspace) error {
		added = ws.AddFiles(files)
		return nil
	})
	if err != nil {
		return nil, err
	}

	outcome := &UploadOutcome{Workspace: ws, Added: len(added)}
	if len(added) > 0 {
		log.Printf("📥 %d file(s) added to workspace %s from %s", len(added), id, source)
	}

	for _, file := range added {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("upload cancelled: %w", err)
		}

		text, err := s.pdfParser.ExtractText(file.Content)
		if err != nil {
			log.Printf("❌ Error parsing PDF %s: %v", file.Name, err)
			outcome.Failed = append(outcome.Failed, file.Name)
			continue
		}

		ws, err = s.store.Update(id, func(ws *models.Workspace) error {
			if !ws.SetText(file.Name, text) {
				log.Printf("⚠️ %s was removed before its text was stored", file.Name)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		outcome.Workspace = ws
		outcome.Extracted++
	}

	return outcome, nil
}

func (s *workspaceService) Next(id uuid.UUID) (*models.Workspace, error) {
	return s.store.Update(id, func(ws *models.Workspace) error {
		ws.Next()
		return nil
	})
}

func (s *workspaceService) Prev(id uuid.UUID) (*models.Workspace, error) {
	return s.store.Update(id, func(ws *models.Workspace) error {
		ws.Prev()
		return nil
	})
}

func (s *workspaceService) SaveCurrentText(id uuid.UUID, text string) (*models.Workspace, error) {
	return s.store.Update(id, func(ws *models.Workspace) error {
		return ws.SaveCurrentText(text)
	})
}

func (s *workspaceService) RemoveFile(id uuid.UUID, index int) (*models.Workspace, error) {
	return s.store.Update(id, func(ws *models.Workspace) error {
		return ws.RemoveFile(index)
	})
}

func (s *workspaceService) ClearFiles(id uuid.UUID) (*models.Workspace, error) {
	return s.store.Update(id, func(ws *models.Workspace) error {
		ws.ClearFiles()
		return nil
	})
}

func (s *workspaceService) AddRequirement(id uuid.UUID, label, value string) (models.Requirement, error) {
	var req models.Requirement
	_, err := s.store.Update(id, func(ws *models.Workspace) error {
		req = ws.AddRequirement(label, value)
		return nil
	})
	return req, err
}

func (s *workspaceService) UpdateRequirement(id uuid.UUID, reqID int, label, value string) (models.Requirement, error) {
	var req models.Requirement
	_, err := s.store.Update(id, func(ws *models.Workspace) error {
		var err error
		req, err = ws.UpdateRequirement(reqID, label, value)
		return err
	})
	return req, err
}

func (s *workspaceService) RemoveRequirement(id uuid.UUID, reqID int) error {
	_, err := s.store.Update(id, func(ws *models.Workspace) error {
		return ws.RemoveRequirement(reqID)
	})
	return err
}

// StartAnalysis queues a new batch over every uploaded file and hands the
// workspace to the worker.
func (s *workspaceService) StartAnalysis(id uuid.UUID) (*models.AnalysisBatch, error) {
	var batch *models.AnalysisBatch
	_, err := s.store.Update(id, func(ws *models.Workspace) error {
		var err error
		batch, err = ws.BeginAnalysis()
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Printf("📋 Analysis %s queued for workspace %s (%d files)", batch.ID, id, batch.Total())
	s.queue.EnqueueJob(id)

	return batch, nil
}
