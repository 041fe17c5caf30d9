package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/resume-matcher/internal/repositories"
)

type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueJob(workspaceID uuid.UUID)
}

type worker struct {
	repo            repositories.WorkspaceRepository
	analysisService AnalysisService
	jobQueue        chan uuid.UUID
	concurrency     int
	pollInterval    time.Duration
	wg              sync.WaitGroup
	stopChan        chan struct{}
	stopOnce        sync.Once
}

func NewWorker(
	repo repositories.WorkspaceRepository,
	analysisService AnalysisService,
	concurrency int,
	queueSize int,
	pollInterval time.Duration,
) Worker {
	if concurrency < 1 {
		concurrency = 1
	}
	if pollInterval <= 0 {
		pollInterval = 10 * time.Second
	}
	return &worker{
		repo:            repo,
		analysisService: analysisService,
		jobQueue:        make(chan uuid.UUID, queueSize),
		concurrency:     concurrency,
		pollInterval:    pollInterval,
		stopChan:        make(chan struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	log.Printf("🚀 Starting worker with %d concurrent workers\n", w.concurrency)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	w.wg.Add(1)
	go w.pollPendingJobs(ctx)

	log.Println("✅ Worker started successfully")
}

// Stop implements Worker.
func (w *worker) Stop() {
	w.stopOnce.Do(func() {
		log.Println("🛑 Stopping worker...")
		close(w.stopChan)
	})
	w.wg.Wait()
	log.Println("✅ Worker stopped")
}

// EnqueueJob implements Worker. It never blocks: when the queue is full the
// batch stays queued and the poller picks it up later.
func (w *worker) EnqueueJob(workspaceID uuid.UUID) {
	select {
	case <-w.stopChan:
		log.Printf("⚠️ Worker stopped, cannot enqueue workspace %s\n", workspaceID)
		return
	default:
	}

	select {
	case w.jobQueue <- workspaceID:
		log.Printf("📥 Workspace %s enqueued\n", workspaceID)
	default:
		log.Printf("⚠️ Job queue full, workspace %s left for the poller\n", workspaceID)
	}
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			log.Printf("👷 Worker #%d stopped\n", workerID)
			return
		case <-ctx.Done():
			log.Printf("👷 Worker #%d stopped\n", workerID)
			return
		case workspaceID := <-w.jobQueue:
			log.Printf("👷 Worker #%d processing workspace %s\n", workerID, workspaceID)
			if err := w.analysisService.RunAnalysis(ctx, workspaceID); err != nil {
				log.Printf("❌ Worker #%d failed to process workspace %s: %v\n", workerID, workspaceID, err)
			}
		}
	}
}

func (w *worker) pollPendingJobs(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			log.Println("🔄 Pending jobs poller stopped")
			return
		case <-ctx.Done():
			log.Println("🔄 Pending jobs poller stopped")
			return
		case <-ticker.C:
			pending, err := w.repo.FindPendingAnalyses(10)
			if err != nil {
				log.Printf("⚠️ Failed to fetch pending analyses: %v\n", err)
				continue
			}

			if len(pending) > 0 {
				log.Printf("📋 Found %d pending analyses\n", len(pending))
			}

			for _, id := range pending {
				w.EnqueueJob(id)
			}
		}
	}
}
