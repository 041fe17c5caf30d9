package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-matcher/internal/models"
	"alfredoptarigan/resume-matcher/internal/repositories"
)

// queuedWorkspace stores a workspace with the given files (name to text,
// "" meaning no text) and a queued batch.
func queuedWorkspace(t *testing.T, store *WorkspaceStore, files []string, texts map[string]string) uuid.UUID {
	t.Helper()

	ws := models.NewWorkspace()
	for _, name := range files {
		ws.AddFiles([]models.UploadedFile{{Name: name}})
		if text, ok := texts[name]; ok {
			ws.SetText(name, text)
		}
	}
	ws.AddRequirement("Skills", "Go")
	_, err := ws.BeginAnalysis()
	require.NoError(t, err)
	require.NoError(t, store.Create(ws))
	return ws.ID
}

func TestAnalysisService_ProcessesFilesInOrder(t *testing.T) {
	store := NewWorkspaceStore(repositories.NewMemoryWorkspaceRepository())
	id := queuedWorkspace(t, store, []string{"a.pdf", "b.pdf", "c.pdf"}, map[string]string{
		"a.pdf": "resume a", "c.pdf": "resume c",
	})

	analyzer := &fakeAnalyzer{results: []*models.AnalysisResult{
		{MatchScore: 80}, {MatchScore: 40}, {MatchScore: 95},
	}}
	require.NoError(t, NewAnalysisService(store, analyzer).RunAnalysis(context.Background(), id))

	calls := analyzer.Calls()
	require.Len(t, calls, 3)
	assert.Equal(t, "resume a", calls[0].ResumeText)
	assert.Equal(t, "", calls[1].ResumeText, "a file without text is sent empty")
	assert.Equal(t, "resume c", calls[2].ResumeText)
	assert.Equal(t, []models.Requirement{{ID: 2, Label: "Skills", Value: "Go"}}, calls[0].Requirements)

	ws, err := store.Get(id)
	require.NoError(t, err)
	batch := ws.Analysis
	assert.Equal(t, models.StatusCompleted, batch.Status)
	assert.Equal(t, 3, batch.Processed)
	assert.Empty(t, batch.CurrentFile)
	assert.NotNil(t, batch.FinishedAt)
	require.Len(t, batch.Results, 3)
	assert.Equal(t, "a.pdf", batch.Results[0].FileName)
	assert.Equal(t, 40.0, batch.Results[1].Result.MatchScore)
	assert.Equal(t, "c.pdf", batch.Results[2].FileName)
}

func TestAnalysisService_FailureKeepsEarlierResults(t *testing.T) {
	store := NewWorkspaceStore(repositories.NewMemoryWorkspaceRepository())
	id := queuedWorkspace(t, store, []string{"a.pdf", "b.pdf", "c.pdf"}, nil)

	analyzer := &fakeAnalyzer{
		results: []*models.AnalysisResult{{MatchScore: 60}},
		errs:    []error{nil, errUpstream},
	}
	err := NewAnalysisService(store, analyzer).RunAnalysis(context.Background(), id)
	require.Error(t, err)
	assert.ErrorIs(t, err, errUpstream)

	assert.Len(t, analyzer.Calls(), 2, "remaining files are not processed")

	ws, err := store.Get(id)
	require.NoError(t, err)
	batch := ws.Analysis
	assert.Equal(t, models.StatusFailed, batch.Status)
	assert.Equal(t, AnalysisFailedMessage, batch.ErrorMessage)
	require.Len(t, batch.Results, 1)
	assert.Equal(t, "a.pdf", batch.Results[0].FileName)
}

func TestAnalysisService_IgnoresBatchesNotQueued(t *testing.T) {
	store := NewWorkspaceStore(repositories.NewMemoryWorkspaceRepository())
	id := queuedWorkspace(t, store, []string{"a.pdf"}, nil)
	analyzer := &fakeAnalyzer{}
	service := NewAnalysisService(store, analyzer)

	require.NoError(t, service.RunAnalysis(context.Background(), id))
	require.NoError(t, service.RunAnalysis(context.Background(), id), "a completed batch is not run twice")
	assert.Len(t, analyzer.Calls(), 1)

	assert.NoError(t, service.RunAnalysis(context.Background(), uuid.New()))
}

func TestAnalysisService_StopsWhenFilesCleared(t *testing.T) {
	store := NewWorkspaceStore(repositories.NewMemoryWorkspaceRepository())
	id := queuedWorkspace(t, store, []string{"a.pdf", "b.pdf"}, nil)

	analyzer := &fakeAnalyzer{}
	analyzer.onCall = func(n int) {
		if n == 1 {
			_, err := store.Update(id, func(ws *models.Workspace) error {
				ws.ClearFiles()
				return nil
			})
			assert.NoError(t, err)
		}
	}

	require.NoError(t, NewAnalysisService(store, analyzer).RunAnalysis(context.Background(), id))
	assert.Len(t, analyzer.Calls(), 1)

	ws, err := store.Get(id)
	require.NoError(t, err)
	assert.Nil(t, ws.Analysis)
	assert.Empty(t, ws.Results())
}

func TestAnalysisService_RequeuesOnCancellation(t *testing.T) {
	store := NewWorkspaceStore(repositories.NewMemoryWorkspaceRepository())
	id := queuedWorkspace(t, store, []string{"a.pdf", "b.pdf"}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	analyzer := &fakeAnalyzer{}
	analyzer.onCall = func(n int) {
		if n == 2 {
			cancel()
		}
	}

	err := NewAnalysisService(store, analyzer).RunAnalysis(ctx, id)
	assert.ErrorIs(t, err, context.Canceled)

	ws, err := store.Get(id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusQueued, ws.Analysis.Status)
	assert.Empty(t, ws.Analysis.Results)
	assert.Equal(t, 0, ws.Analysis.Processed)
}

func TestAnalysisService_FailsWhenProgressCannotBeStored(t *testing.T) {
	// claim and the first CurrentFile update succeed, storing the first
	// result does not.
	repo := &flakyRepo{WorkspaceRepository: repositories.NewMemoryWorkspaceRepository(), failAt: 3}
	store := NewWorkspaceStore(repo)
	id := queuedWorkspace(t, store, []string{"a.pdf", "b.pdf"}, nil)

	err := NewAnalysisService(store, &fakeAnalyzer{}).RunAnalysis(context.Background(), id)
	assert.ErrorIs(t, err, errConnReset)

	ws, err := store.Get(id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, ws.Analysis.Status)
	assert.Equal(t, AnalysisFailedMessage, ws.Analysis.ErrorMessage)

	pending, err := repo.FindPendingAnalyses(10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	_, err = store.Update(id, func(ws *models.Workspace) error {
		_, err := ws.BeginAnalysis()
		return err
	})
	assert.NoError(t, err, "a failed batch can be started again")
}

func TestAnalysisService_StaleBatchIsRequeuedAndRerun(t *testing.T) {
	repo := repositories.NewMemoryWorkspaceRepository()
	store := NewWorkspaceStore(repo)
	id := queuedWorkspace(t, store, []string{"a.pdf", "b.pdf"}, nil)

	// Leave the batch in processing with partial progress, as a crash would.
	_, err := store.Update(id, func(ws *models.Workspace) error {
		ws.Analysis.Status = models.StatusProcessing
		ws.Analysis.Processed = 1
		ws.Analysis.Results = []models.FileAnalysis{{FileName: "a.pdf"}}
		return nil
	})
	require.NoError(t, err)

	n, err := repo.ResetStaleAnalyses()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	pending, err := repo.FindPendingAnalyses(10)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{id}, pending)

	analyzer := &fakeAnalyzer{}
	require.NoError(t, NewAnalysisService(store, analyzer).RunAnalysis(context.Background(), id))
	assert.Len(t, analyzer.Calls(), 2)

	ws, err := store.Get(id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, ws.Analysis.Status)
	assert.Len(t, ws.Analysis.Results, 2)
}
