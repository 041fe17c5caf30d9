package services

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strconv"

	"alfredoptarigan/resume-matcher/internal/models"
)

//go:embed templates/result_cards.html
var templateFS embed.FS

var resultCardsTemplate = template.Must(template.ParseFS(templateFS, "templates/result_cards.html"))

// ResultCard is the display form of one analyzed resume.
type ResultCard struct {
	FileName       string   `json:"file_name"`
	ScoreLabel     string   `json:"score_label"`
	ScoreWidth     float64  `json:"score_width"`
	Suggestions    []string `json:"suggestions"`
	MatchingSkills []string `json:"matching_skills"`
	MissingSkills  []string `json:"missing_skills"`
}

func NewResultCard(fa models.FileAnalysis) ResultCard {
	result := fa.Result
	result.Normalize()

	return ResultCard{
		FileName:       fa.FileName,
		ScoreLabel:     FormatScore(result.MatchScore),
		ScoreWidth:     min(max(result.MatchScore, 0), 100),
		Suggestions:    result.Suggestions,
		MatchingSkills: result.MatchingSkills,
		MissingSkills:  result.MissingSkills,
	}
}

func BuildResultCards(results []models.FileAnalysis) []ResultCard {
	cards := make([]ResultCard, 0, len(results))
	for _, fa := range results {
		cards = append(cards, NewResultCard(fa))
	}
	return cards
}

// FormatScore prints the score as returned, followed by a percent sign.
func FormatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64) + "%"
}

// RenderResultCards writes the cards as an escaped HTML fragment.
func RenderResultCards(w io.Writer, cards []ResultCard) error {
	if err := resultCardsTemplate.ExecuteTemplate(w, "result_cards", cards); err != nil {
		return fmt.Errorf("failed to render result cards: %w", err)
	}
	return nil
}
