package services

import (
	"sync"

	"github.com/google/uuid"

	"alfredoptarigan/resume-matcher/internal/models"
	"alfredoptarigan/resume-matcher/internal/repositories"
)

// WorkspaceStore serializes every read-modify-write cycle on workspaces.
// Callers must not do network calls or PDF parsing inside Update.
type WorkspaceStore struct {
	mu   sync.Mutex
	repo repositories.WorkspaceRepository
}

func NewWorkspaceStore(repo repositories.WorkspaceRepository) *WorkspaceStore {
	return &WorkspaceStore{repo: repo}
}

func (s *WorkspaceStore) Create(ws *models.Workspace) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.Create(ws)
}

func (s *WorkspaceStore) Get(id uuid.UUID) (*models.Workspace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.FindByID(id)
}

func (s *WorkspaceStore) Delete(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.Delete(id)
}

// Update loads the workspace, applies fn and saves it. Nothing is saved when
// fn returns an error.
func (s *WorkspaceStore) Update(id uuid.UUID, fn func(ws *models.Workspace) error) (*models.Workspace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ws, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if err := fn(ws); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ws); err != nil {
		return nil, err
	}
	return ws, nil
}
