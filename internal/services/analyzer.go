package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"alfredoptarigan/resume-matcher/internal/models"
)

// ResumeAnalyzer scores one resume against a set of job requirements.
type ResumeAnalyzer interface {
	Analyze(ctx context.Context, resumeText string, requirements []models.Requirement) (*models.AnalysisResult, error)
}

// decodeAnalysisResult parses the JSON reply of the analysis service. Scores
// and list contents are taken as they come; absent lists become empty.
func decodeAnalysisResult(content string) (*models.AnalysisResult, error) {
	jsonStr := extractJSON(content)

	var result models.AnalysisResult
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal analysis result: %w", err)
	}
	result.Normalize()

	return &result, nil
}

// extractJSON strips markdown fences and returns the outermost JSON object
// found in text, or text unchanged when there is none.
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end > start {
		return text[start : end+1]
	}

	return strings.TrimSpace(text)
}
