package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/accounts"
	"resume-builder/internal/builder"
	"resume-builder/internal/generations"
	"resume-builder/internal/llm"
	"resume-builder/internal/llm/gemini"
	"resume-builder/internal/llm/huggingface"
	"resume-builder/internal/llm/openai"
	"resume-builder/internal/queue"
	"resume-builder/internal/resumes"
	"resume-builder/internal/screening"
	"resume-builder/internal/services/health"
	"resume-builder/internal/shared/auth"
	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/server"
	"resume-builder/internal/shared/storage/db"
	"resume-builder/internal/shared/storage/object"
	localstore "resume-builder/internal/shared/storage/object/local"
	s3store "resume-builder/internal/shared/storage/object/s3"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/templates"
	"resume-builder/resume/ats"
	"resume-builder/resume/export"
)

// App holds shared dependencies and the router built from them.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.Store
	Events queue.Client
	LLM    llm.Generator

	AccountsRepo    accounts.Repo
	ResumesRepo     resumes.Repo
	GenerationsRepo generations.Repo

	AccountsService    *accounts.Service
	ResumesService     *resumes.Service
	GenerationsService *generations.Service
	Exporter           *export.Exporter
	Sessions           *builder.Registry

	closers []io.Closer
}

// Build prepares dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
	}

	app.Events, err = queue.New(ctx, queue.Options{
		Backend:   cfg.EventsBackend,
		AMQPURL:   cfg.RabbitMQURL,
		Exchange:  cfg.EventsExchange,
		SQSURL:    cfg.EventsSQSQueueURL,
		AWSRegion: cfg.AWSRegion,
	})
	if err != nil {
		if !isDevLike(cfg.Env) {
			return nil, fmt.Errorf("build events client: %w", err)
		}
		log.Printf("bootstrap: events disabled: %v", err)
		app.Events = queue.Noop{}
	}
	if c, ok := app.Events.(io.Closer); ok {
		app.closers = append(app.closers, c)
	}

	gen, closers, err := NewGenerator(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.LLM = gen
	app.closers = append(app.closers, closers...)

	if err := buildServices(app); err != nil {
		return nil, err
	}
	return app, nil
}

// Close releases sessions, broker connections and the database pool.
func (a *App) Close() error {
	if a.Sessions != nil {
		a.Sessions.Close()
	}
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	if a.DB != nil && !db.IsLambdaRuntime() {
		errs = append(errs, a.DB.Close())
	}
	return errors.Join(errs...)
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	var (
		sqlDB *sql.DB
		err   error
	)
	if db.IsLambdaRuntime() {
		opts := db.OptionsFromEnv(db.DefaultLambdaOptions())
		sqlDB, err = db.GetSingleton(ctx, cfg.DatabaseURL, opts)
	} else {
		opts := db.OptionsFromEnv(db.DefaultServerOptions())
		sqlDB, err = db.Connect(ctx, cfg.DatabaseURL, opts)
		if err == nil && isDevLike(cfg.Env) {
			err = db.RunMigrations(ctx, sqlDB)
		}
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database unavailable; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.Store, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

// NewGenerator puts the configured provider behind the mock fallback. A provider with no
// credential is skipped and every request is mocked. The closers release provider clients.
func NewGenerator(ctx context.Context, cfg config.Config) (llm.Generator, []io.Closer, error) {
	if cfg.UseMockAI || cfg.LLMProvider == "mock" {
		return llm.NewFallback(nil), nil, nil
	}

	var (
		primary llm.Generator
		closers []io.Closer
	)
	switch cfg.LLMProvider {
	case "huggingface":
		if cfg.HuggingFaceToken != "" {
			client, err := huggingface.NewClient(cfg.HuggingFaceToken, cfg.HFAPIURL, cfg.LLMModel, cfg.LLMTimeout)
			if err != nil {
				return nil, nil, err
			}
			primary = client
		}
	case "openai":
		if cfg.OpenAIAPIKey != "" {
			client, err := openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel)
			if err != nil {
				return nil, nil, err
			}
			primary = client
		}
	case "gemini":
		if cfg.GeminiAPIKey != "" {
			client, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.LLMModel)
			if err != nil {
				return nil, nil, err
			}
			closers = append(closers, client)
			primary = client
		}
	}
	if primary == nil {
		log.Printf("bootstrap: no credential for LLM provider %q; using mock replies", cfg.LLMProvider)
	}
	return llm.NewFallback(primary), closers, nil
}

func buildServices(app *App) error {
	cfg := app.Config
	if app.DB != nil {
		app.AccountsRepo = &accounts.PGRepo{DB: app.DB}
		app.ResumesRepo = &resumes.PGRepo{DB: app.DB}
		app.GenerationsRepo = &generations.PGRepo{DB: app.DB}
	} else {
		app.AccountsRepo = accounts.NewMemoryRepo()
		app.ResumesRepo = resumes.NewMemoryRepo()
		app.GenerationsRepo = generations.NewMemoryRepo()
	}

	passwords, err := auth.NewPasswordConfig()
	if err != nil {
		return err
	}

	app.AccountsService = accounts.NewService(app.AccountsRepo, passwords)
	app.ResumesService = resumes.NewService(app.ResumesRepo)
	app.GenerationsService = generations.NewService(app.GenerationsRepo, app.LLM, cfg.LLMModel)

	var capturer export.Capturer
	if cfg.ChromePath != "" || !isDevLike(cfg.Env) {
		capturer = export.NewChromeCapturer(cfg.ChromePath, cfg.CaptureTimeout)
	}
	app.Exporter = export.NewExporter(capturer)

	app.Sessions = builder.NewRegistryWithLimits(cfg.SnapshotDir, &builder.Deps{
		Exporter:  app.Exporter,
		Store:     app.Store,
		Resumes:   app.ResumesService,
		Events:    app.Events,
		Generator: app.GenerationsService,
		ATSDelay:  cfg.ATSDebounce,
		OnScore: func(principal string, res ats.Result) {
			telemetry.Info("ats.scored", map[string]any{
				"user_id": principal,
				"score":   res.Score,
			})
		},
	}, builder.Limits{MaxSessions: cfg.MaxSessions, IdleTTL: cfg.SessionIdleTTL})

	app.Router = server.NewRouter(server.RouterDeps{
		Config:      cfg,
		Accounts:    app.AccountsService,
		AccountsAPI: accounts.NewHandler(app.AccountsService),
		GoogleLogin: accounts.NewGoogleLogin(
			app.AccountsService,
			cfg.GoogleClientID,
			cfg.GoogleClientSecret,
			cfg.GoogleRedirectURL,
			cfg.UIRedirectURL,
		),
		Builder:     builder.NewHandler(app.Sessions),
		Resumes:     resumes.NewHandler(app.ResumesService),
		Generations: generations.NewHandler(app.GenerationsService),
		Screening:   screening.NewHandler(),
		Templates:   templates.NewHandler(),
		Health:      health.NewService(app.DB),
	})
	return nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
