package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"alfredoptarigan/resume-matcher/internal/config"
	"alfredoptarigan/resume-matcher/internal/models"
	"alfredoptarigan/resume-matcher/internal/repositories"
	"alfredoptarigan/resume-matcher/internal/services"
)

var (
	folder       string
	requirements []string
	outputPath   string
)

// noopQueue leaves the batch queued; the script runs it inline.
type noopQueue struct{}

func (noopQueue) EnqueueJob(uuid.UUID) {}

func main() {
	rootCmd := &cobra.Command{
		Use:   "analyze_folder",
		Short: "Analyze every PDF resume in a folder and write the PDF report",
		Example: `  go run ./scripts/analyze_folder.go --dir ./resumes \
    --req "Experience=5 years backend" --req "Skills=Go, PostgreSQL"`,
		RunE: runAnalyzeFolder,
	}

	rootCmd.Flags().StringVarP(&folder, "dir", "d", "", "folder containing PDF resumes")
	rootCmd.Flags().StringArrayVarP(&requirements, "req", "r", nil, `job requirement as "label=value" (repeatable)`)
	rootCmd.Flags().StringVarP(&outputPath, "out", "o", services.ReportFilename, "path of the generated report")
	_ = rootCmd.MarkFlagRequired("dir")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runAnalyzeFolder(cmd *cobra.Command, args []string) error {
	log.Println("🚀 Starting folder analysis...")
	cfg := config.Load()
	ctx := context.Background()

	files, err := readFolder(folder)
	if err != nil {
		return err
	}
	log.Printf("📂 Found %d PDF file(s) in %s", len(files), folder)

	var analyzer services.ResumeAnalyzer
	if cfg.Analyzer.Provider == "gemini" {
		analyzer, err = services.NewGeminiAnalyzer(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Analyzer.Temperature)
		if err != nil {
			return fmt.Errorf("failed to initialize Gemini: %w", err)
		}
	} else {
		analyzer = services.NewChatAnalyzer(cfg.Analyzer)
	}
	analyzer = services.NewRetryingAnalyzer(analyzer, cfg.Analyzer.MaxRetries, cfg.Analyzer.RetryDelay)

	store := services.NewWorkspaceStore(repositories.NewMemoryWorkspaceRepository())
	workspaceService := services.NewWorkspaceService(store, services.NewPDFParserService(), noopQueue{})
	analysisService := services.NewAnalysisService(store, analyzer)

	ws, err := workspaceService.Create()
	if err != nil {
		return err
	}
	for _, raw := range requirements {
		label, value, ok := strings.Cut(raw, "=")
		if !ok {
			return fmt.Errorf("invalid requirement %q, expected label=value", raw)
		}
		if _, err := workspaceService.AddRequirement(ws.ID, label, value); err != nil {
			return err
		}
	}

	outcome, err := workspaceService.Upload(ctx, ws.ID, models.SourceFolder, files)
	if err != nil {
		return err
	}
	log.Printf("📄 Extracted text from %d/%d file(s)", outcome.Extracted, outcome.Added)

	if _, err := workspaceService.StartAnalysis(ws.ID); err != nil {
		switch {
		case errors.Is(err, models.ErrNoFiles):
			return fmt.Errorf("please upload at least one resume")
		case errors.Is(err, models.ErrNoRequirements):
			return fmt.Errorf("please add at least one job requirement (--req label=value)")
		}
		return err
	}

	runErr := analysisService.RunAnalysis(ctx, ws.ID)
	if runErr != nil {
		log.Printf("❌ %s: %v", services.AnalysisFailedMessage, runErr)
	}

	ws, err = workspaceService.Get(ws.ID)
	if err != nil {
		return err
	}
	for _, card := range services.BuildResultCards(ws.Results()) {
		fmt.Printf("%-40s %s\n", card.FileName, card.ScoreLabel)
	}

	fonts, err := services.LoadReportFonts(cfg.Report.FontRegular, cfg.Report.FontBold)
	if err != nil {
		return err
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer out.Close()

	report := services.BuildReport(ws.Requirements, ws.Results(), time.Now())
	if err := services.NewReportRenderer(fonts).Render(out, report); err != nil {
		return err
	}
	log.Printf("✅ Report written to %s", outputPath)

	return runErr
}

// readFolder loads the .pdf files of dir in name order, the order
// os.ReadDir returns them in.
func readFolder(dir string) ([]models.UploadedFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read folder: %w", err)
	}

	var files []models.UploadedFile
	for _, entry := range entries {
		if entry.IsDir() || !models.HasPDFExtension(entry.Name()) {
			continue
		}
		content, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", entry.Name(), err)
		}
		files = append(files, models.UploadedFile{
			Name:    entry.Name(),
			Size:    int64(len(content)),
			Content: content,
		})
	}
	return files, nil
}
