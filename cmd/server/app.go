package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/commerceprecision/cpe-api/internal/config"
	"github.com/commerceprecision/cpe-api/internal/llm"
	"github.com/commerceprecision/cpe-api/internal/pipeline"
	"github.com/commerceprecision/cpe-api/internal/platform/gemini"
	"github.com/commerceprecision/cpe-api/internal/platform/groq"
	"github.com/commerceprecision/cpe-api/internal/platform/postgres"
	"github.com/commerceprecision/cpe-api/internal/service"
	"github.com/commerceprecision/cpe-api/internal/service/auth"
	"github.com/commerceprecision/cpe-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores
	userStore     store.UserStore
	subjectStore  store.SubjectStore
	questionStore store.QuestionStore
	answerStore   store.AnswerStore

	// Services
	jwtService      auth.JWTService
	authService     *service.AuthService
	questionService *service.QuestionService

	// Verification pipeline
	llmClient    llm.Client
	orchestrator *pipeline.Orchestrator
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger, and
// database connection that must be established before application
// initialization.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.userStore = postgres.NewUserStore(db)
	app.subjectStore = postgres.NewSubjectStore(db)
	app.questionStore = postgres.NewQuestionStore(db)
	app.answerStore = postgres.NewAnswerStore(db)

	app.llmClient, err = setupLLMClient(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	app.orchestrator, err = pipeline.NewOrchestrator(app.llmClient, pipeline.Config{
		QualityThreshold: cfg.Pipeline.QualityThreshold,
		MaxRetries:       cfg.Pipeline.MaxRetries,
		StageTimeout:     time.Duration(cfg.Pipeline.StageTimeoutSeconds) * time.Second,
		RunTimeout:       time.Duration(cfg.Pipeline.RunTimeoutSeconds) * time.Second,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize verification pipeline: %w", err)
	}
	logger.Info("Verification pipeline initialized",
		"quality_threshold", cfg.Pipeline.QualityThreshold,
		"max_retries", cfg.Pipeline.MaxRetries)

	app.authService, err = service.NewAuthService(app.userStore, app.jwtService, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth service: %w", err)
	}

	app.questionService, err = service.NewQuestionService(
		db,
		app.questionStore,
		app.answerStore,
		app.subjectStore,
		app.orchestrator,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create question service: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// setupLLMClient builds the model client stack: Gemini as the primary
// provider, with Groq as an automatic fallback when an API key for it is
// configured.
func setupLLMClient(ctx context.Context, cfg *config.Config, logger *slog.Logger) (llm.Client, error) {
	primary, err := gemini.New(ctx, logger.With("component", "gemini_client"), cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}

	if cfg.LLM.GroqAPIKey == "" {
		logger.Info("LLM client initialized", "provider", primary.Name(), "fallback", "none")
		return primary, nil
	}

	secondary, err := groq.New(logger.With("component", "groq_client"), cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Groq client: %w", err)
	}

	client, err := llm.NewFallback(primary, secondary, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize provider fallback: %w", err)
	}

	logger.Info("LLM client initialized",
		"provider", primary.Name(),
		"fallback", secondary.Name())
	return client, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
