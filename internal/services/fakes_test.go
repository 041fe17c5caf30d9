package services

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"alfredoptarigan/resume-matcher/internal/models"
	"alfredoptarigan/resume-matcher/internal/repositories"
)

type analyzeCall struct {
	ResumeText   string
	Requirements []models.Requirement
}

// fakeAnalyzer answers from a script of results and errors, one per call.
// Once the script runs out it keeps returning the last entry.
type fakeAnalyzer struct {
	mu      sync.Mutex
	calls   []analyzeCall
	results []*models.AnalysisResult
	errs    []error
	onCall  func(n int)
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, resumeText string, requirements []models.Requirement) (*models.AnalysisResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, analyzeCall{ResumeText: resumeText, Requirements: requirements})
	n := len(f.calls)
	hook := f.onCall
	f.mu.Unlock()

	if hook != nil {
		hook(n)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	i := n - 1
	var err error
	if len(f.errs) > 0 {
		err = f.errs[min(i, len(f.errs)-1)]
	}
	if err != nil {
		return nil, err
	}
	if len(f.results) == 0 {
		return &models.AnalysisResult{MatchScore: 50}, nil
	}
	return f.results[min(i, len(f.results)-1)], nil
}

func (f *fakeAnalyzer) Calls() []analyzeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]analyzeCall(nil), f.calls...)
}

// fakeParser returns the file content as text, or an error for names
// listed in fail.
type fakeParser struct {
	fail map[string]bool
}

var errNotAPDF = errors.New("not a PDF")

func (p *fakeParser) ExtractText(data []byte) (string, error) {
	if p.fail[string(data)] {
		return "", errNotAPDF
	}
	return "text of " + string(data), nil
}

type fakeQueue struct {
	mu  sync.Mutex
	ids []uuid.UUID
}

func (q *fakeQueue) EnqueueJob(id uuid.UUID) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.ids = append(q.ids, id)
}

func (q *fakeQueue) Jobs() []uuid.UUID {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]uuid.UUID(nil), q.ids...)
}

func pdfFile(name string) models.UploadedFile {
	return models.UploadedFile{Name: name, Size: int64(len(name)), Content: []byte(name)}
}

var errConnReset = errors.New("connection reset")

// flakyRepo fails the failAt-th Save once and delegates everything else.
type flakyRepo struct {
	repositories.WorkspaceRepository
	mu     sync.Mutex
	saves  int
	failAt int
}

func (r *flakyRepo) Save(ws *models.Workspace) error {
	r.mu.Lock()
	r.saves++
	n := r.saves
	r.mu.Unlock()

	if n == r.failAt {
		return errConnReset
	}
	return r.WorkspaceRepository.Save(ws)
}
