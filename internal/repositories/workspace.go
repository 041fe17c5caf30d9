package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/resume-matcher/internal/models"
)

type WorkspaceRepository interface {
	Create(ws *models.Workspace) error
	FindByID(id uuid.UUID) (*models.Workspace, error)
	Save(ws *models.Workspace) error
	Delete(id uuid.UUID) error
	FindPendingAnalyses(limit int) ([]uuid.UUID, error)
	ResetStaleAnalyses() (int, error)
}

type workspaceRepository struct {
	db *gorm.DB
}

func NewWorkspaceRepository(db *gorm.DB) WorkspaceRepository {
	return &workspaceRepository{db: db}
}

func (r *workspaceRepository) Create(ws *models.Workspace) error {
	syncAnalysisStatus(ws)
	if err := r.db.Create(ws).Error; err != nil {
		return fmt.Errorf("failed to create workspace: %w", err)
	}
	return nil
}

func (r *workspaceRepository) FindByID(id uuid.UUID) (*models.Workspace, error) {
	var ws models.Workspace
	if err := r.db.Where("id = ?", id).First(&ws).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("failed to find workspace: %w", err)
	}
	if ws.Texts == nil {
		ws.Texts = make(map[string]string)
	}
	return &ws, nil
}

func (r *workspaceRepository) Save(ws *models.Workspace) error {
	syncAnalysisStatus(ws)
	ws.UpdatedAt = time.Now()

	result := r.db.Save(ws)
	if result.Error != nil {
		return fmt.Errorf("failed to save workspace: %w", result.Error)
	}
	return nil
}

func (r *workspaceRepository) Delete(id uuid.UUID) error {
	result := r.db.Where("id = ?", id).Delete(&models.Workspace{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete workspace: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return models.ErrWorkspaceNotFound
	}
	return nil
}

// FindPendingAnalyses returns workspaces whose latest batch is still queued,
// oldest first.
func (r *workspaceRepository) FindPendingAnalyses(limit int) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.Model(&models.Workspace{}).
		Where("analysis_status = ?", models.StatusQueued).
		Order("updated_at ASC").
		Limit(limit).
		Pluck("id", &ids).Error

	if err != nil {
		return nil, fmt.Errorf("failed to find pending analyses: %w", err)
	}

	return ids, nil
}

// ResetStaleAnalyses requeues batches left in processing by a previous run
// of the server. It must be called before workers start.
func (r *workspaceRepository) ResetStaleAnalyses() (int, error) {
	var stale []models.Workspace
	err := r.db.Where("analysis_status = ?", models.StatusProcessing).Find(&stale).Error
	if err != nil {
		return 0, fmt.Errorf("failed to find stale analyses: %w", err)
	}

	for i := range stale {
		ws := &stale[i]
		if ws.Analysis == nil {
			continue
		}
		ws.Analysis.Requeue()
		if err := r.Save(ws); err != nil {
			return i, err
		}
	}

	return len(stale), nil
}

func syncAnalysisStatus(ws *models.Workspace) {
	if ws.Analysis == nil {
		ws.AnalysisStatus = ""
		return
	}
	ws.AnalysisStatus = ws.Analysis.Status
}
