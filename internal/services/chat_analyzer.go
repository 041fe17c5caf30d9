package services

import (
	"context"
	"fmt"
	"log"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"alfredoptarigan/resume-matcher/internal/config"
	"alfredoptarigan/resume-matcher/internal/models"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatCompletionRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    float64        `json:"temperature"`
	ResponseFormat responseFormat `json:"response_format"`
}

// chatAnalyzer talks to an OpenAI-compatible chat-completions endpoint
// (Mistral by default).
type chatAnalyzer struct {
	client        *resty.Client
	endpoint      string
	apiKey        string
	model         string
	temperature   float64
	promptBuilder *PromptBuilder
}

func NewChatAnalyzer(cfg config.AnalyzerConfig) ResumeAnalyzer {
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json")

	return &chatAnalyzer{
		client:        client,
		endpoint:      cfg.Endpoint,
		apiKey:        cfg.APIKey,
		model:         cfg.Model,
		temperature:   cfg.Temperature,
		promptBuilder: NewPromptBuilder(),
	}
}

// Analyze implements ResumeAnalyzer.
func (a *chatAnalyzer) Analyze(ctx context.Context, resumeText string, requirements []models.Requirement) (*models.AnalysisResult, error) {
	prompt := a.promptBuilder.BuildResumeAnalysisPrompt(resumeText, requirements)

	resp, err := a.client.R().
		SetContext(ctx).
		SetAuthToken(a.apiKey).
		SetBody(chatCompletionRequest{
			Model:          a.model,
			Messages:       []chatMessage{{Role: "user", Content: prompt}},
			Temperature:    a.temperature,
			ResponseFormat: responseFormat{Type: "json_object"},
		}).
		Post(a.endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to call analysis service: %w", err)
	}

	if !resp.IsSuccess() {
		return nil, fmt.Errorf("API request failed with status %d", resp.StatusCode())
	}

	content := gjson.Get(resp.String(), "choices.0.message.content")
	if !content.Exists() {
		return nil, fmt.Errorf("no message content in analysis response")
	}

	result, err := decodeAnalysisResult(content.String())
	if err != nil {
		log.Printf("❌ Failed to parse analysis response: %v", err)
		return nil, err
	}

	return result, nil
}
