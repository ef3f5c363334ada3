package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/stackit/stackit-api/internal/annotation"
	"github.com/stackit/stackit-api/internal/config"
	"github.com/stackit/stackit-api/internal/events"
	"github.com/stackit/stackit-api/internal/platform/gemini"
	"github.com/stackit/stackit-api/internal/platform/postgres"
	"github.com/stackit/stackit-api/internal/service"
	"github.com/stackit/stackit-api/internal/service/auth"
	"github.com/stackit/stackit-api/internal/task"
)

// application bundles the wired dependencies of the running server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	jwtService auth.JWTService

	userService       *service.UserService
	membershipService *service.MembershipService
	engagementService *service.EngagementService
	journalService    *service.JournalService
	draftService      *service.DraftService

	taskRunner *task.TaskRunner
}

// newApplication wires every layer of the server: database, stores, the
// annotation pipeline (when an API key is configured), services and auth.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	db, err := openDatabase(ctx, cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	userStore := postgres.NewPostgresUserStore(db, logger)
	communityStore := postgres.NewPostgresCommunityStore(db, logger)
	joinRequestStore := postgres.NewPostgresJoinRequestStore(db, logger)
	inviteStore := postgres.NewPostgresInviteStore(db, logger)
	questionStore := postgres.NewPostgresQuestionStore(db, logger)
	answerStore := postgres.NewPostgresAnswerStore(db, logger)
	journalStore := postgres.NewPostgresJournalStore(db, logger)

	// The annotation pipeline is optional: without an API key the services
	// run with no emitter and no annotator, and every annotation field
	// simply stays empty.
	var (
		annotator  annotation.Annotator
		emitter    events.EventEmitter
		taskRunner *task.TaskRunner
	)
	if cfg.LLM.GeminiAPIKey != "" {
		geminiAnnotator, err := gemini.NewGeminiAnnotator(ctx, logger, cfg.LLM)
		if err != nil {
			return nil, fmt.Errorf("failed to create annotator: %w", err)
		}
		annotator = geminiAnnotator

		taskStore := postgres.NewPostgresTaskStore(db, logger)
		runnerConfig := task.DefaultTaskRunnerConfig()
		if cfg.Task.WorkerCount > 0 {
			runnerConfig.WorkerCount = cfg.Task.WorkerCount
		}
		if cfg.Task.QueueSize > 0 {
			runnerConfig.QueueSize = cfg.Task.QueueSize
		}
		if cfg.Task.StuckTaskAge > 0 {
			runnerConfig.StuckTaskAge = cfg.Task.StuckTaskAge
		}
		taskRunner = task.NewTaskRunner(taskStore, runnerConfig, logger)

		factory := task.NewAnnotationTaskFactory(
			annotator, questionStore, answerStore, cfg.LLM.RequestTimeout, logger)
		handler := task.NewAnnotationEventHandler(factory, taskRunner, logger)

		inMemoryEmitter := events.NewInMemoryEventEmitter(logger)
		inMemoryEmitter.RegisterHandler(handler)
		emitter = inMemoryEmitter
	} else {
		logger.Info("no Gemini API key configured, annotation pipeline disabled")
	}

	app := &application{
		config:     cfg,
		logger:     logger,
		db:         db,
		jwtService: jwtService,
		userService: service.NewUserService(
			userStore, auth.NewBcryptVerifier(), cfg.Auth.BcryptCost, logger),
		membershipService: service.NewMembershipService(
			db, userStore, communityStore, joinRequestStore, inviteStore, logger),
		engagementService: service.NewEngagementService(
			db, userStore, communityStore, questionStore, answerStore, journalStore, emitter, logger),
		journalService: service.NewJournalService(userStore, journalStore, logger),
		draftService:   service.NewDraftService(annotator, cfg.LLM.RequestTimeout, logger),
		taskRunner:     taskRunner,
	}

	return app, nil
}

// run starts the background task runner (when configured) and the HTTP
// server, blocking until shutdown.
func (app *application) run(ctx context.Context) error {
	if app.taskRunner != nil {
		if err := app.taskRunner.Start(); err != nil {
			return fmt.Errorf("failed to start task runner: %w", err)
		}
	}

	return app.startHTTPServer(ctx, app.setupRouter())
}

// cleanup releases resources during shutdown.
func (app *application) cleanup() {
	if app.taskRunner != nil {
		app.taskRunner.Stop()
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("failed to close database connection pool", "error", err)
	}
}
