package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/resume-matcher/internal/models"
)

// AnalysisFailedMessage is shown for any batch that stopped on an error.
const AnalysisFailedMessage = "An error occurred while analyzing the resumes"

var errNothingQueued = errors.New("no queued analysis")

type AnalysisService interface {
	RunAnalysis(ctx context.Context, workspaceID uuid.UUID) error
}

type analysisService struct {
	store    *WorkspaceStore
	analyzer ResumeAnalyzer
}

func NewAnalysisService(store *WorkspaceStore, analyzer ResumeAnalyzer) AnalysisService {
	return &analysisService{
		store:    store,
		analyzer: analyzer,
	}
}

// RunAnalysis processes the queued batch of a workspace one file at a time,
// in upload order. Each result is stored as soon as it arrives. The first
// file that still fails after retries fails the whole batch; results stored
// before it are kept.
func (a *analysisService) RunAnalysis(ctx context.Context, workspaceID uuid.UUID) error {
	batch, err := a.claim(workspaceID)
	if err != nil {
		if errors.Is(err, errNothingQueued) || errors.Is(err, models.ErrWorkspaceNotFound) {
			return nil
		}
		return fmt.Errorf("failed to start analysis: %w", err)
	}

	log.Printf("🔄 Starting analysis %s for workspace %s\n", batch.ID, workspaceID)

	for i, item := range batch.Items {
		err := a.updateBatch(workspaceID, batch.ID, func(b *models.AnalysisBatch) {
			b.CurrentFile = item.FileName
		})
		if err != nil {
			return a.stopped(workspaceID, batch.ID, err)
		}

		if !item.HasText {
			log.Printf("⚠️ %s has no extracted text, sending it empty", item.FileName)
		}

		log.Printf("🤖 Analyzing %s (%d/%d)...", item.FileName, i+1, batch.Total())
		result, err := a.analyzer.Analyze(ctx, item.Text, batch.Requirements)
		if err != nil {
			if ctx.Err() != nil {
				a.requeue(workspaceID, batch.ID)
				return fmt.Errorf("analysis interrupted: %w", ctx.Err())
			}
			log.Printf("❌ Error analyzing %s: %v", item.FileName, err)
			a.fail(workspaceID, batch.ID)
			return fmt.Errorf("failed to analyze %s: %w", item.FileName, err)
		}

		err = a.updateBatch(workspaceID, batch.ID, func(b *models.AnalysisBatch) {
			b.Results = append(b.Results, models.FileAnalysis{
				FileName: item.FileName,
				Result:   *result,
			})
			b.Processed = i + 1
		})
		if err != nil {
			return a.stopped(workspaceID, batch.ID, err)
		}
	}

	err = a.updateBatch(workspaceID, batch.ID, func(b *models.AnalysisBatch) {
		now := time.Now()
		b.Status = models.StatusCompleted
		b.CurrentFile = ""
		b.FinishedAt = &now
	})
	if err != nil {
		return a.stopped(workspaceID, batch.ID, err)
	}

	log.Printf("✅ Analysis %s completed for workspace %s\n", batch.ID, workspaceID)
	return nil
}

// claim moves the queued batch to processing and returns a private copy of
// it. Only one worker can claim a given batch.
func (a *analysisService) claim(workspaceID uuid.UUID) (*models.AnalysisBatch, error) {
	ws, err := a.store.Update(workspaceID, func(ws *models.Workspace) error {
		if ws.Analysis == nil || ws.Analysis.Status != models.StatusQueued {
			return errNothingQueued
		}
		now := time.Now()
		ws.Analysis.Status = models.StatusProcessing
		ws.Analysis.StartedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ws.Analysis, nil
}

// updateBatch applies fn to the batch if it is still the one being
// processed. A cleared workspace or a newer batch yields
// ErrAnalysisSuperseded.
func (a *analysisService) updateBatch(workspaceID, batchID uuid.UUID, fn func(b *models.AnalysisBatch)) error {
	_, err := a.store.Update(workspaceID, func(ws *models.Workspace) error {
		b := ws.Analysis
		if b == nil || b.ID != batchID || b.Status != models.StatusProcessing {
			return models.ErrAnalysisSuperseded
		}
		fn(b)
		return nil
	})
	return err
}

func (a *analysisService) fail(workspaceID, batchID uuid.UUID) {
	err := a.updateBatch(workspaceID, batchID, func(b *models.AnalysisBatch) {
		now := time.Now()
		b.Status = models.StatusFailed
		b.CurrentFile = ""
		b.ErrorMessage = AnalysisFailedMessage
		b.FinishedAt = &now
	})
	if err != nil {
		log.Printf("⚠️ Could not mark analysis %s as failed: %v", batchID, err)
	}
}

// requeue puts an interrupted batch back in the queue with its progress
// reset, so the poller restarts it from the first file.
func (a *analysisService) requeue(workspaceID, batchID uuid.UUID) {
	err := a.updateBatch(workspaceID, batchID, func(b *models.AnalysisBatch) {
		b.Requeue()
	})
	if err != nil {
		log.Printf("⚠️ Could not requeue analysis %s: %v", batchID, err)
		return
	}
	log.Printf("↩️ Analysis %s requeued", batchID)
}

// stopped handles a failed store update. Any error other than a superseded
// batch or a deleted workspace fails the batch, so it does not stay in
// processing.
func (a *analysisService) stopped(workspaceID, batchID uuid.UUID, err error) error {
	if errors.Is(err, models.ErrAnalysisSuperseded) || errors.Is(err, models.ErrWorkspaceNotFound) {
		log.Printf("🛑 Analysis %s for workspace %s stopped: %v", batchID, workspaceID, err)
		return nil
	}
	log.Printf("❌ Error storing progress of analysis %s: %v", batchID, err)
	a.fail(workspaceID, batchID)
	return fmt.Errorf("failed to update analysis %s: %w", batchID, err)
}
