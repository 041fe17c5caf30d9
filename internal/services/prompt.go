package services

import (
	"fmt"
	"strings"

	"alfredoptarigan/resume-matcher/internal/models"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildResumeAnalysisPrompt creates the prompt for matching one resume
// against the job requirements.
func (pb *PromptBuilder) BuildResumeAnalysisPrompt(resumeText string, requirements []models.Requirement) string {
	return fmt.Sprintf(`Act as an expert resume analyzer. Analyze this resume against the following job requirements.
Provide a detailed analysis including:
1. An overall match score (0-100)
2. Specific matching skills/requirements found
3. Missing requirements
4. Detailed suggestions for improvement

Resume Content:
%s

Job Requirements:
%s

Provide the analysis in the following JSON format:
{
    "matchScore": number,
    "matchingSkills": string[],
    "missingSkills": string[],
    "suggestions": string[]
}`, resumeText, FormatRequirements(requirements))
}

// FormatRequirements renders requirements as "label: value" lines.
func FormatRequirements(requirements []models.Requirement) string {
	lines := make([]string, 0, len(requirements))
	for _, req := range requirements {
		lines = append(lines, fmt.Sprintf("%s: %s", req.Label, req.Value))
	}
	return strings.Join(lines, "\n")
}
