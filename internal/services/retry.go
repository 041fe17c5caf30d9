package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"alfredoptarigan/resume-matcher/internal/models"
)

// retryingAnalyzer retries a failed analysis up to maxRetries more times,
// sleeping a fixed delay between attempts.
type retryingAnalyzer struct {
	inner      ResumeAnalyzer
	maxRetries int
	delay      time.Duration
}

func NewRetryingAnalyzer(inner ResumeAnalyzer, maxRetries int, delay time.Duration) ResumeAnalyzer {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &retryingAnalyzer{
		inner:      inner,
		maxRetries: maxRetries,
		delay:      delay,
	}
}

// Analyze implements ResumeAnalyzer.
func (r *retryingAnalyzer) Analyze(ctx context.Context, resumeText string, requirements []models.Requirement) (*models.AnalysisResult, error) {
	var lastErr error

	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		result, err := r.inner.Analyze(ctx, resumeText, requirements)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt == r.maxRetries {
			break
		}

		log.Printf("⚠️ Attempt %d failed: %v. Retrying in %s...", attempt+1, err, r.delay)

		timer := time.NewTimer(r.delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("context cancelled: %w", ctx.Err())
		}
	}

	return nil, fmt.Errorf("failed after %d attempts: %w", r.maxRetries+1, lastErr)
}
