package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"

	"github.com/gin-gonic/gin"

	googleauth "resume-builder/internal/auth"
	"resume-builder/internal/generation"
	"resume-builder/internal/llm"
	"resume-builder/internal/llm/gemini"
	"resume-builder/internal/llm/openai"
	"resume-builder/internal/resumes"
	"resume-builder/internal/services/health"
	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/server"
	"resume-builder/internal/shared/storage/db"
	"resume-builder/internal/shared/storage/object"
	localstore "resume-builder/internal/shared/storage/object/local"
	s3store "resume-builder/internal/shared/storage/object/s3"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/subscriptions"
	"resume-builder/internal/usage"
	"resume-builder/internal/users"
)

// App holds the wired services and the HTTP router.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.Store
	LLM    llm.Client

	Users         *users.Service
	Subscriptions *subscriptions.Service
	Usage         *usage.Service
	Resumes       *resumes.Service
	Generation    *generation.Service
}

// Options adjusts Build for callers other than the API process.
type Options struct {
	DBOptions     db.Options
	RunMigrations bool
	SkipRouter    bool
}

// Build connects storage, picks the LLM provider and wires every service.
func Build(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if opts.DBOptions == (db.Options{}) {
		opts.DBOptions = db.OptionsFromEnv(db.DefaultServerOptions())
	}

	sqlDB, err := buildDB(ctx, cfg, opts)
	if err != nil {
		return nil, err
	}
	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	client, err := buildLLM(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{Config: cfg, DB: sqlDB, Store: store, LLM: client}
	app.buildServices()
	if !opts.SkipRouter {
		app.Router = server.NewRouter(server.RouterDeps{
			Config:               cfg,
			Health:               health.NewService(sqlDB),
			UsersHandler:         users.NewHandler(app.Users),
			ResumesHandler:       resumes.NewHandler(app.Resumes),
			SubscriptionsHandler: subscriptions.NewHandler(app.Subscriptions),
			UsageHandler:         usage.NewHandler(app.Usage),
			GenerationHandler:    generation.NewHandler(app.Generation),
			GoogleAuth: googleauth.NewGoogleService(
				cfg.GoogleClientID,
				cfg.GoogleClientSecret,
				cfg.GoogleRedirectURL,
				cfg.UIRedirectURL,
				app.Users,
			),
		})
	}
	return app, nil
}

// Close releases the database pool and the LLM client.
func (a *App) Close() error {
	if c, ok := a.LLM.(io.Closer); ok {
		_ = c.Close()
	}
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}

func buildDB(ctx context.Context, cfg config.Config, opts Options) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.IsDevLike() {
			telemetry.Info("bootstrap.memory_repos", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts.DBOptions)
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.memory_repos", map[string]any{"reason": "connect failed", "error": err.Error()})
			return nil, nil
		}
		return nil, err
	}
	if opts.RunMigrations {
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
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

func buildLLM(ctx context.Context, cfg config.Config) (llm.Client, error) {
	switch cfg.LLMProvider {
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			break
		}
		c, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.LLMModel)
		if err != nil {
			return nil, fmt.Errorf("gemini client: %w", err)
		}
		return c, nil
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			break
		}
		c, err := openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel)
		if err != nil {
			return nil, fmt.Errorf("openai client: %w", err)
		}
		return c, nil
	}
	telemetry.Warn("bootstrap.llm_disabled", map[string]any{"provider": cfg.LLMProvider})
	return llm.PlaceholderClient{}, nil
}

func (a *App) buildServices() {
	var (
		userRepo   users.Repo
		subRepo    subscriptions.Repo
		resumeRepo resumes.Repo
	)
	if a.DB != nil {
		userRepo = &users.PGRepo{DB: a.DB}
		subRepo = &subscriptions.PGRepo{DB: a.DB}
		resumeRepo = &resumes.PGRepo{DB: a.DB}
	} else {
		userRepo = users.NewMemoryRepo()
		subRepo = subscriptions.NewMemoryRepo()
		resumeRepo = resumes.NewMemoryRepo()
	}

	a.Users = users.NewService(userRepo)
	a.Subscriptions = subscriptions.NewService(subRepo, subscriptions.Plans{
		ProPriceID:     a.Config.ProPriceID,
		ProPlusPriceID: a.Config.ProPlusPriceID,
	})
	if a.DB != nil {
		a.Usage = usage.NewPostgresService(usage.NewPGStore(a.DB), a.Subscriptions)
	} else {
		a.Usage = usage.NewService(a.Subscriptions)
	}
	if a.Config.AIWeeklyLimitPro > 0 {
		a.Usage.Limits.Pro = a.Config.AIWeeklyLimitPro
	}
	if a.Config.AIWeeklyLimitPlus > 0 {
		a.Usage.Limits.ProPlus = a.Config.AIWeeklyLimitPlus
	}
	a.Resumes = &resumes.Service{Repo: resumeRepo, Store: a.Store, Tiers: a.Subscriptions}
	a.Generation = generation.NewService(a.LLM, a.Subscriptions, a.Usage)
}
