package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"spellstory/internal/audio"
	"spellstory/internal/config"
	"spellstory/internal/database"
	"spellstory/internal/handlers"
	"spellstory/internal/llm"
	"spellstory/internal/repository"
	"spellstory/internal/security"
	"spellstory/internal/service"
	"spellstory/internal/sharelink"
	"spellstory/internal/storage"
	"spellstory/internal/story"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	if err := db.SeedBlockedWords(ctx, cfg.BlocklistURL); err != nil {
		log.Printf("Warning: Failed to seed blocked words: %v", err)
	}

	checkers := map[string]storage.Checker{
		"database": handlers.CheckFunc(db.PingContext),
	}

	store, closeStore, err := repository.OpenStore(ctx, cfg.StoreBackend, cfg.RedisURL, db)
	if err != nil {
		log.Fatalf("Failed to open progress store: %v", err)
	}
	defer closeStore()
	if checker, ok := store.(storage.Checker); ok && cfg.StoreBackend == "redis" {
		checkers["redis"] = checker
	}
	progress := storage.NewProgress(store)

	// Text generation
	var observer llm.Observer = llm.NoopObserver{}
	if cfg.LLMLogCalls {
		observer = llm.NewLogObserver(log.Default())
	}
	llmClient := llm.NewClient(llmConfig(cfg), observer)
	storyService := story.NewService(story.NewLLMGenerator(llmClient), cfg.Story)

	// Pronunciation audio
	var pronouncer service.Pronouncer
	audioDir := ""
	if cfg.AudioEnabled {
		audioDir = filepath.Join(cfg.StaticFilesPath, "audio")
		pronouncer = audio.NewTTSService(audioDir, cfg.TTSURL)
	}

	emailService, err := service.NewEmailService(ctx, cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.ReportEmail, cfg.Debug)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	// Initialize repositories and services
	listRepo := repository.NewListRepository(db)
	codec := sharelink.NewCodec(cfg.ShareSecret, cfg.ShareTTL)
	listService := service.NewListService(listRepo, db, codec, pronouncer)
	sessionService := service.NewSessionService(listService, storyService, progress, emailService, cfg.SessionDuration)
	learnerService := service.NewLearnerService(progress)
	backupService := service.NewBackupService(listRepo, progress)

	storyLimit := security.NewRateLimiter(cfg.StoryRateLimit, cfg.StoryRateWindow)

	routes := handlers.Routes{
		Lists:      handlers.NewListHandler(listService),
		Sessions:   handlers.NewSessionHandler(sessionService),
		Learners:   handlers.NewLearnerHandler(learnerService),
		Admin:      handlers.NewAdminHandler(backupService),
		Checkers:   checkers,
		StoryLimit: storyLimit,
		AdminToken: cfg.AdminToken,
		AudioDir:   audioDir,
	}

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      routes.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		storyLimit.Cleanup(gctx, 10*time.Minute)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Println("Server shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func llmConfig(cfg *config.Config) llm.Config {
	lc := llm.DefaultConfig()
	lc.Endpoint = cfg.LLMEndpoint
	lc.APIKey = cfg.LLMAPIKey
	lc.Model = cfg.LLMModel
	lc.TimeoutMs = cfg.LLMTimeoutMs
	lc.MaxRetries = cfg.LLMMaxRetries
	lc.LogCalls = cfg.LLMLogCalls

	storyTask := lc.Tasks[llm.TaskStory]
	storyTask.Temperature = cfg.Story.Temperature
	storyTask.MaxTokens = cfg.Story.MaxTokens
	lc.Tasks[llm.TaskStory] = storyTask

	if cfg.Story.WordInfoModel != "" {
		wordInfo := lc.Tasks[llm.TaskWordInfo]
		wordInfo.Model = cfg.Story.WordInfoModel
		lc.Tasks[llm.TaskWordInfo] = wordInfo
	}
	return lc
}
