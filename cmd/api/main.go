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
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"talentrank/candidate-ranker/internal/cache"
	"talentrank/candidate-ranker/internal/config"
	"talentrank/candidate-ranker/internal/handlers"
	"talentrank/candidate-ranker/internal/middleware"
	"talentrank/candidate-ranker/internal/repositories"
	"talentrank/candidate-ranker/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Initialize database. The durable cache tier is optional: if Postgres is
	// unreachable the service runs on the in-process tier alone.
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Printf("⚠️  Durable cache tier unavailable, running on memory tier only: %v\n", err)
		db = nil
	}

	// Initialize cache tiers
	cacheRepo := repositories.NewCacheRepository(db)
	memoryStore := cache.NewMemoryStore(cfg.Cache.MemoryCapacity)
	tieredCache := cache.NewTieredCache(cacheRepo, memoryStore)
	log.Println("✅ Cache tiers initialized successfully")

	// Periodically sweep expired rows out of the durable tier.
	if db != nil {
		go func() {
			ticker := time.NewTicker(10 * time.Minute)
			defer ticker.Stop()
			for range ticker.C {
				if n, err := cacheRepo.DeleteExpired(); err != nil {
					log.Printf("⚠️  Expired cache sweep failed: %v\n", err)
				} else if n > 0 {
					log.Printf("🧹 Removed %d expired cache entries\n", n)
				}
			}
		}()
	}

	// Initialize scoring oracle
	oracle, err := buildOracle(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize scoring oracle: %v", err)
	}
	oracle = services.NewBreakerOracle(oracle)
	log.Printf("✅ Scoring oracle initialized (%s)\n", oracle.Provider())

	// Initialize scoring pipeline
	retryer := services.NewRetryer(cfg.Scoring.RetryMaxAttempts, cfg.Scoring.RetryBaseDelay)
	batchScorer := services.NewBatchScorer(oracle, retryer, cfg.Scoring)

	// The spreadsheet store and local file reader are external collaborators;
	// with neither configured the orchestrator serves the embedded example set.
	candidateSource := services.NewCandidateSource(nil, nil, tieredCache, cfg.Scoring.CandidateTTL)

	orchestrator := services.NewOrchestrator(batchScorer, candidateSource, tieredCache, cfg.Scoring)
	log.Println("✅ Scoring orchestrator initialized")

	// Initialize worker for async scoring jobs
	worker := services.NewWorker(orchestrator, cfg.Worker.Concurrency, cfg.Worker.MaxJobs)
	worker.Start(context.Background())

	// Initialize handlers
	scoreHandler := handlers.NewScoreHandler(orchestrator, worker)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Candidate Ranker API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	// Metrics endpoint sits outside the admission-gated API group.
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Routes: every path under the API prefix goes through admission control.
	admission := middleware.NewAdmission(cfg.RateLimit)
	api := app.Group("/api/v1", admission.Handler())

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Post("/score", scoreHandler.HandleScore)
	api.Post("/score/async", scoreHandler.HandleScoreAsync)
	api.Get("/score/status/:id", scoreHandler.HandleScoreStatus)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Candidate Ranker API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/score",
				"POST /api/v1/score/async",
				"GET /api/v1/score/status/:id",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
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

func buildOracle(cfg *config.Config) (services.Oracle, error) {
	switch cfg.Oracle.Provider {
	case "gemini":
		return services.NewGeminiOracle(cfg.Oracle.GeminiAPIKey, cfg.Oracle.GeminiModel)
	default:
		return services.NewOpenAIOracle(cfg.Oracle.OpenAIAPIKey, cfg.Oracle.OpenAIModel)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
