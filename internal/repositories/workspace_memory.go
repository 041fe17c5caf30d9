package repositories

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/resume-matcher/internal/models"
)

// memoryWorkspaceRepository keeps workspaces in process memory. Workspaces
// are copied in and out so callers never share state with the store.
type memoryWorkspaceRepository struct {
	mu         sync.RWMutex
	workspaces map[uuid.UUID]*models.Workspace
}

func NewMemoryWorkspaceRepository() WorkspaceRepository {
	return &memoryWorkspaceRepository{
		workspaces: make(map[uuid.UUID]*models.Workspace),
	}
}

// Create implements WorkspaceRepository.
func (m *memoryWorkspaceRepository) Create(ws *models.Workspace) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	syncAnalysisStatus(ws)
	m.workspaces[ws.ID] = ws.Clone()
	return nil
}

// FindByID implements WorkspaceRepository.
func (m *memoryWorkspaceRepository) FindByID(id uuid.UUID) (*models.Workspace, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ws, ok := m.workspaces[id]
	if !ok {
		return nil, models.ErrWorkspaceNotFound
	}
	return ws.Clone(), nil
}

// Save implements WorkspaceRepository.
func (m *memoryWorkspaceRepository) Save(ws *models.Workspace) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.workspaces[ws.ID]; !ok {
		return models.ErrWorkspaceNotFound
	}
	syncAnalysisStatus(ws)
	ws.UpdatedAt = time.Now()
	m.workspaces[ws.ID] = ws.Clone()
	return nil
}

// Delete implements WorkspaceRepository.
func (m *memoryWorkspaceRepository) Delete(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.workspaces[id]; !ok {
		return models.ErrWorkspaceNotFound
	}
	delete(m.workspaces, id)
	return nil
}

// FindPendingAnalyses implements WorkspaceRepository.
func (m *memoryWorkspaceRepository) FindPendingAnalyses(limit int) ([]uuid.UUID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var pending []*models.Workspace
	for _, ws := range m.workspaces {
		if ws.AnalysisStatus == models.StatusQueued {
			pending = append(pending, ws)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].UpdatedAt.Before(pending[j].UpdatedAt)
	})

	ids := make([]uuid.UUID, 0, min(limit, len(pending)))
	for _, ws := range pending {
		if len(ids) == limit {
			break
		}
		ids = append(ids, ws.ID)
	}
	return ids, nil
}

// ResetStaleAnalyses implements WorkspaceRepository.
func (m *memoryWorkspaceRepository) ResetStaleAnalyses() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	reset := 0
	for _, ws := range m.workspaces {
		if ws.Analysis == nil || ws.Analysis.Status != models.StatusProcessing {
			continue
		}
		ws.Analysis.Requeue()
		syncAnalysisStatus(ws)
		ws.UpdatedAt = time.Now()
		reset++
	}
	return reset, nil
}
