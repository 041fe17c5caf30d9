package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"alfredoptarigan/resume-matcher/internal/config"
	"alfredoptarigan/resume-matcher/internal/handlers"
	"alfredoptarigan/resume-matcher/internal/middleware"
	"alfredoptarigan/resume-matcher/internal/repositories"
	"alfredoptarigan/resume-matcher/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize repository
	repo, err := newWorkspaceRepository(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize workspace store: %v", err)
	}
	store := services.NewWorkspaceStore(repo)
	log.Printf("✅ Workspace store initialized (%s)\n", cfg.Storage.Driver)

	if n, err := repo.ResetStaleAnalyses(); err != nil {
		log.Printf("⚠️ Failed to requeue stale analyses: %v", err)
	} else if n > 0 {
		log.Printf("↩️ Requeued %d analyses left in processing\n", n)
	}

	// Initialize analyzer
	analyzer, err := newAnalyzer(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize analyzer: %v", err)
	}
	analyzer = services.NewRetryingAnalyzer(analyzer, cfg.Analyzer.MaxRetries, cfg.Analyzer.RetryDelay)
	log.Printf("✅ Analyzer initialized (%s, %d retries)\n", cfg.Analyzer.Provider, cfg.Analyzer.MaxRetries)

	// Initialize services
	analysisService := services.NewAnalysisService(store, analyzer)
	worker := services.NewWorker(
		repo,
		analysisService,
		cfg.Worker.Concurrency,
		cfg.Worker.QueueSize,
		cfg.Worker.PollInterval,
	)
	workspaceService := services.NewWorkspaceService(store, services.NewPDFParserService(), worker)
	storageService := services.NewStorageService(cfg.Storage.MaxFileSize)
	reportFonts, err := services.LoadReportFonts(cfg.Report.FontRegular, cfg.Report.FontBold)
	if err != nil {
		log.Fatalf("❌ Failed to load report fonts: %v", err)
	}
	reportRenderer := services.NewReportRenderer(reportFonts)
	log.Println("✅ Services initialized successfully")

	// Start worker
	worker.Start(ctx)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Resume Matcher API",
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize) * 20,
		ErrorHandler: handlers.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New(recover.Config{
		EnableStackTrace: cfg.Server.Env != "production",
	}))
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowMethods:  "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders: "Content-Disposition",
	}))
	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// Routes
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	handlers.RegisterRoutes(api, handlers.Handlers{
		Workspace:   handlers.NewWorkspaceHandler(workspaceService),
		Upload:      handlers.NewUploadHandler(workspaceService, storageService),
		Requirement: handlers.NewRequirementHandler(workspaceService),
		Analysis:    handlers.NewAnalysisHandler(workspaceService),
		Result:      handlers.NewResultHandler(workspaceService, reportRenderer),
	}, middleware.RateLimiter(cfg.RateLimit.AnalyzeMax, cfg.RateLimit.AnalyzeWindow))

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Resume Matcher API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/workspaces",
				"POST /api/v1/workspaces/:id/files",
				"GET /api/v1/workspaces/:id/current",
				"POST /api/v1/workspaces/:id/requirements",
				"POST /api/v1/workspaces/:id/analyze",
				"GET /api/v1/workspaces/:id/analysis",
				"GET /api/v1/workspaces/:id/results",
				"GET /api/v1/workspaces/:id/report.pdf",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		cancel()
		worker.Stop()
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func newWorkspaceRepository(cfg *config.Config) (repositories.WorkspaceRepository, error) {
	switch cfg.Storage.Driver {
	case "postgres":
		db, err := config.InitDatabase(cfg)
		if err != nil {
			return nil, err
		}
		return repositories.NewWorkspaceRepository(db), nil
	case "memory", "":
		return repositories.NewMemoryWorkspaceRepository(), nil
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.Storage.Driver)
	}
}

func newAnalyzer(ctx context.Context, cfg *config.Config) (services.ResumeAnalyzer, error) {
	switch cfg.Analyzer.Provider {
	case "gemini":
		return services.NewGeminiAnalyzer(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Analyzer.Temperature)
	case "mistral", "openai", "":
		if cfg.Analyzer.APIKey == "" {
			log.Println("⚠️ MISTRAL_API_KEY is empty, analysis requests will be rejected upstream")
		}
		return services.NewChatAnalyzer(cfg.Analyzer), nil
	default:
		return nil, fmt.Errorf("unknown ANALYZER_PROVIDER %q", cfg.Analyzer.Provider)
	}
}
