package services

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"alfredoptarigan/resume-matcher/internal/models"
)

const (
	ReportTitle    = "Resume Analysis Report"
	ReportFilename = "resume-analysis-report.pdf"

	reportTimeFormat = "2006-01-02 15:04:05"
)

// Report is the export document, built from structured results only.
type Report struct {
	Title        string
	GeneratedOn  string
	Requirements []models.Requirement
	Results      []ReportEntry
}

type ReportEntry struct {
	FileName    string
	ScoreLabel  string
	Suggestions []string
	Matching    string
	Missing     string
}

// BuildReport assembles the report. Blank requirement pairs are dropped. The
// results section exists even when there are no results.
func BuildReport(requirements []models.Requirement, results []models.FileAnalysis, generatedAt time.Time) *Report {
	report := &Report{
		Title:        ReportTitle,
		GeneratedOn:  generatedAt.Format(reportTimeFormat),
		Requirements: models.ValidRequirements(requirements),
		Results:      make([]ReportEntry, 0, len(results)),
	}

	for _, card := range BuildResultCards(results) {
		report.Results = append(report.Results, ReportEntry{
			FileName:    card.FileName,
			ScoreLabel:  card.ScoreLabel,
			Suggestions: card.Suggestions,
			Matching:    joinOr(card.MatchingSkills, "None found"),
			Missing:     joinOr(card.MissingSkills, "None missing"),
		})
	}

	return report
}

func joinOr(items []string, empty string) string {
	if len(items) == 0 {
		return empty
	}
	return strings.Join(items, ", ")
}

// ReportFonts holds the TrueType data the PDF report is set in. Text is
// embedded as UTF-8, so any script the fonts cover is reproduced.
type ReportFonts struct {
	Regular []byte
	Bold    []byte
}

// DefaultReportFonts returns the Go fonts, which cover Latin, Greek and
// Cyrillic.
func DefaultReportFonts() ReportFonts {
	return ReportFonts{Regular: goregular.TTF, Bold: gobold.TTF}
}

// LoadReportFonts reads TTF files over the defaults. An empty path keeps the
// default face; a regular font without a bold one is used for both.
func LoadReportFonts(regularPath, boldPath string) (ReportFonts, error) {
	fonts := DefaultReportFonts()
	if regularPath != "" {
		data, err := os.ReadFile(regularPath)
		if err != nil {
			return fonts, fmt.Errorf("failed to read report font: %w", err)
		}
		fonts.Regular = data
		fonts.Bold = data
	}
	if boldPath != "" {
		data, err := os.ReadFile(boldPath)
		if err != nil {
			return fonts, fmt.Errorf("failed to read report bold font: %w", err)
		}
		fonts.Bold = data
	}
	return fonts, nil
}

const (
	reportFont = "report"

	// labels wider than this go on their own line
	maxInlineLabelWidth = 60.0
)

type ReportRenderer struct {
	fonts ReportFonts
}

func NewReportRenderer(fonts ReportFonts) *ReportRenderer {
	return &ReportRenderer{fonts: fonts}
}

// RenderPDF renders report with the default fonts.
func RenderPDF(w io.Writer, report *Report) error {
	return NewReportRenderer(DefaultReportFonts()).Render(w, report)
}

// Render lays the report out on A4 portrait pages with 10mm margins.
func (r *ReportRenderer) Render(w io.Writer, report *Report) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddUTF8FontFromBytes(reportFont, "", r.fonts.Regular)
	pdf.AddUTF8FontFromBytes(reportFont, "B", r.fonts.Bold)
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 10)
	pdf.SetTitle(report.Title, true)
	pdf.AddPage()

	pdf.SetFont(reportFont, "B", 22)
	pdf.CellFormat(0, 11, report.Title, "", 1, "L", false, 0, "")
	pdf.SetFont(reportFont, "", 10)
	pdf.SetTextColor(75, 85, 99)
	pdf.CellFormat(0, 6, "Generated on: "+report.GeneratedOn, "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(6)

	if len(report.Requirements) > 0 {
		pdf.SetFont(reportFont, "B", 16)
		pdf.CellFormat(0, 9, "Job Requirements", "", 1, "L", false, 0, "")
		for _, req := range report.Requirements {
			label := req.Label + ":"
			pdf.SetFont(reportFont, "B", 11)
			if width, inline := labelWidth(pdf, label); inline {
				pdf.CellFormat(width, 6, label, "", 0, "L", false, 0, "")
			} else {
				pdf.MultiCell(0, 6, label, "", "L", false)
			}
			pdf.SetFont(reportFont, "", 11)
			pdf.MultiCell(0, 6, req.Value, "", "L", false)
		}
		pdf.Ln(6)
	}

	pdf.SetFont(reportFont, "B", 16)
	pdf.CellFormat(0, 9, "Analysis Results", "", 1, "L", false, 0, "")

	for _, entry := range report.Results {
		pdf.Ln(2)
		x, y := pdf.GetXY()
		pageWidth, _ := pdf.GetPageSize()
		pdf.SetDrawColor(229, 231, 235)
		pdf.Line(x, y, pageWidth-10, y)
		pdf.Ln(3)

		pdf.SetFont(reportFont, "B", 14)
		pdf.MultiCell(0, 7, entry.FileName, "", "L", false)

		pdf.SetFont(reportFont, "B", 11)
		width, _ := labelWidth(pdf, "Match Score:")
		pdf.CellFormat(width, 7, "Match Score:", "", 0, "L", false, 0, "")
		pdf.SetTextColor(37, 99, 235)
		pdf.CellFormat(0, 7, entry.ScoreLabel, "", 1, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(2)

		pdf.SetFont(reportFont, "B", 11)
		pdf.CellFormat(0, 6, "Suggestions for Improvement:", "", 1, "L", false, 0, "")
		pdf.SetFont(reportFont, "", 10)
		for _, s := range entry.Suggestions {
			pdf.MultiCell(0, 5, "- "+s, "", "L", false)
		}
		pdf.Ln(2)

		pdf.SetFont(reportFont, "B", 11)
		pdf.CellFormat(0, 6, "Matching Requirements:", "", 1, "L", false, 0, "")
		pdf.SetFont(reportFont, "", 10)
		pdf.SetFillColor(240, 253, 244)
		pdf.MultiCell(0, 5, entry.Matching, "", "L", true)
		pdf.Ln(2)

		pdf.SetFont(reportFont, "B", 11)
		pdf.CellFormat(0, 6, "Missing Requirements:", "", 1, "L", false, 0, "")
		pdf.SetFont(reportFont, "", 10)
		pdf.SetFillColor(254, 252, 232)
		pdf.MultiCell(0, 5, entry.Missing, "", "L", true)
		pdf.Ln(4)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render PDF report: %w", err)
	}
	return nil
}

// labelWidth sizes a label cell to its text in the current font and reports
// whether it leaves room for a value beside it.
func labelWidth(pdf *fpdf.Fpdf, label string) (float64, bool) {
	width := pdf.GetStringWidth(label) + 2
	return width, width <= maxInlineLabelWidth
}
