package services

import (
	"context"
	"fmt"
	"log"

	"google.golang.org/genai"

	"alfredoptarigan/resume-matcher/internal/models"
)

type geminiAnalyzer struct {
	client        *genai.Client
	modelName     string
	temperature   float32
	promptBuilder *PromptBuilder
}

func NewGeminiAnalyzer(ctx context.Context, apiKey, model string, temperature float64) (ResumeAnalyzer, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiAnalyzer{
		client:        client,
		modelName:     model,
		temperature:   float32(temperature),
		promptBuilder: NewPromptBuilder(),
	}, nil
}

// Analyze implements ResumeAnalyzer.
func (g *geminiAnalyzer) Analyze(ctx context.Context, resumeText string, requirements []models.Requirement) (*models.AnalysisResult, error) {
	prompt := g.promptBuilder.BuildResumeAnalysisPrompt(resumeText, requirements)

	temperature := g.temperature
	config := &genai.GenerateContentConfig{
		Temperature:      &temperature,
		MaxOutputTokens:  4096,
		ResponseMIMEType: "application/json",
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), config)
	if err != nil {
		log.Printf("❌ Gemini API error: %v", err)
		return nil, fmt.Errorf("failed to generate analysis: %w", err)
	}
	if resp == nil {
		return nil, fmt.Errorf("no response generated (nil response)")
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("no text content in response")
	}

	return decodeAnalysisResult(text)
}
