package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-matcher/internal/models"
	"alfredoptarigan/resume-matcher/internal/repositories"
)

func TestWorker_RunsEnqueuedAnalysis(t *testing.T) {
	repo := repositories.NewMemoryWorkspaceRepository()
	store := NewWorkspaceStore(repo)
	id := queuedWorkspace(t, store, []string{"a.pdf", "b.pdf"}, nil)

	w := NewWorker(repo, NewAnalysisService(store, &fakeAnalyzer{}), 2, 10, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)
	defer w.Stop()

	w.EnqueueJob(id)

	assert.Eventually(t, func() bool {
		ws, err := store.Get(id)
		return err == nil && ws.Analysis.Status == models.StatusCompleted
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWorker_PollerPicksUpQueuedBatches(t *testing.T) {
	repo := repositories.NewMemoryWorkspaceRepository()
	store := NewWorkspaceStore(repo)
	id := queuedWorkspace(t, store, []string{"a.pdf"}, nil)

	w := NewWorker(repo, NewAnalysisService(store, &fakeAnalyzer{}), 1, 10, 20*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)
	defer w.Stop()

	assert.Eventually(t, func() bool {
		ws, err := store.Get(id)
		return err == nil && ws.Analysis.Status == models.StatusCompleted
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWorker_EnqueueNeverBlocks(t *testing.T) {
	repo := repositories.NewMemoryWorkspaceRepository()
	store := NewWorkspaceStore(repo)
	w := NewWorker(repo, NewAnalysisService(store, &fakeAnalyzer{}), 1, 1, time.Hour)

	id := queuedWorkspace(t, store, []string{"a.pdf"}, nil)
	done := make(chan struct{})
	go func() {
		w.EnqueueJob(id)
		w.EnqueueJob(id)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		require.Fail(t, "EnqueueJob blocked on a full queue")
	}

	w.Stop()
	w.EnqueueJob(id)
}
