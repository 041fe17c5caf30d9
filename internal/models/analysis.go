package models

import (
	"time"

	"github.com/google/uuid"
)

type AnalysisStatus string

const (
	StatusQueued     AnalysisStatus = "queued"
	StatusProcessing AnalysisStatus = "processing"
	StatusCompleted  AnalysisStatus = "completed"
	StatusFailed     AnalysisStatus = "failed"
)

// AnalysisResult is the structured reply of the analysis service for one
// resume. Values are taken as returned; nothing is range-checked.
type AnalysisResult struct {
	MatchScore     float64  `json:"matchScore"`
	MatchingSkills []string `json:"matchingSkills"`
	MissingSkills  []string `json:"missingSkills"`
	Suggestions    []string `json:"suggestions"`
}

// Normalize replaces absent lists with empty ones.
func (r *AnalysisResult) Normalize() {
	if r.MatchingSkills == nil {
		r.MatchingSkills = []string{}
	}
	if r.MissingSkills == nil {
		r.MissingSkills = []string{}
	}
	if r.Suggestions == nil {
		r.Suggestions = []string{}
	}
}

type FileAnalysis struct {
	FileName string         `json:"file_name"`
	Result   AnalysisResult `json:"result"`
}

// AnalysisItem is one file queued for analysis, with the text it had when
// the batch was started.
type AnalysisItem struct {
	FileName string `json:"file_name"`
	Text     string `json:"text"`
	HasText  bool   `json:"has_text"`
}

// AnalysisBatch is one run of the analyze action over every uploaded file.
type AnalysisBatch struct {
	ID           uuid.UUID      `json:"id"`
	Status       AnalysisStatus `json:"status"`
	Requirements []Requirement  `json:"requirements"`
	Items        []AnalysisItem `json:"items"`
	Processed    int            `json:"processed"`
	CurrentFile  string         `json:"current_file,omitempty"`
	Results      []FileAnalysis `json:"results"`
	ErrorMessage string         `json:"error_message,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	StartedAt    *time.Time     `json:"started_at,omitempty"`
	FinishedAt   *time.Time     `json:"finished_at,omitempty"`
}

func (b *AnalysisBatch) Total() int {
	return len(b.Items)
}

// Requeue puts the batch back in the queue with its progress discarded, so
// it restarts from the first file.
func (b *AnalysisBatch) Requeue() {
	b.Status = StatusQueued
	b.CurrentFile = ""
	b.Processed = 0
	b.Results = []FileAnalysis{}
	b.StartedAt = nil
}

func (b *AnalysisBatch) IsActive() bool {
	return b.Status == StatusQueued || b.Status == StatusProcessing
}

func (b *AnalysisBatch) clone() *AnalysisBatch {
	if b == nil {
		return nil
	}
	c := *b
	c.Requirements = append([]Requirement(nil), b.Requirements...)
	c.Items = append([]AnalysisItem(nil), b.Items...)
	c.Results = make([]FileAnalysis, len(b.Results))
	for i, fa := range b.Results {
		c.Results[i] = FileAnalysis{
			FileName: fa.FileName,
			Result: AnalysisResult{
				MatchScore:     fa.Result.MatchScore,
				MatchingSkills: append([]string(nil), fa.Result.MatchingSkills...),
				MissingSkills:  append([]string(nil), fa.Result.MissingSkills...),
				Suggestions:    append([]string(nil), fa.Result.Suggestions...),
			},
		}
	}
	if b.StartedAt != nil {
		t := *b.StartedAt
		c.StartedAt = &t
	}
	if b.FinishedAt != nil {
		t := *b.FinishedAt
		c.FinishedAt = &t
	}
	return &c
}
