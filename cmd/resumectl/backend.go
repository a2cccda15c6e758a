package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"resume-builder/internal/bootstrap"
	"resume-builder/internal/editor"
	"resume-builder/internal/editor/remote"
	"resume-builder/internal/resumes"
	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/storage/db"
	"resume-builder/internal/subscriptions"
)

// backend is what every subcommand talks to.
type backend interface {
	editor.Saver
	editor.Generator
	List(ctx context.Context) (resumes.ListResponse, error)
	Get(ctx context.Context, id string) (resumes.Resume, error)
	Delete(ctx context.Context, id string) error
	Level(ctx context.Context) (subscriptions.Level, error)
}

var (
	apiURL    string
	apiToken  string
	useLocal  bool
	localUser string
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&apiURL, "api", envOr("RESUMECTL_API", "http://localhost:8080"), "API base URL")
	pf.StringVar(&apiToken, "token", os.Getenv("RESUMECTL_TOKEN"), "bearer token for the API")
	pf.BoolVar(&useLocal, "local", false, "use local storage instead of the API")
	pf.StringVar(&localUser, "user", envOr("RESUMECTL_USER", "local-user"), "user id for --local")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// openBackend returns the selected backend and a func releasing it.
func openBackend(cmd *cobra.Command) (backend, func(), error) {
	if !useLocal {
		if apiToken == "" {
			return nil, nil, fmt.Errorf("--token or RESUMECTL_TOKEN is required (see `resumectl token`)")
		}
		return remote.New(apiURL, apiToken), func() {}, nil
	}
	app, err := bootstrap.Build(cmd.Context(), config.Load(), bootstrap.Options{
		DBOptions:     db.OptionsFromEnv(db.DefaultCLIOptions()),
		RunMigrations: true,
		SkipRouter:    true,
	})
	if err != nil {
		return nil, nil, err
	}
	return newLocalBackend(app, localUser), func() { _ = app.Close() }, nil
}

// localBackend serves the CLI from in-process services.
type localBackend struct {
	editor.ServiceSaver
	editor.ServiceGenerator
	app    *bootstrap.App
	userID string
}

func newLocalBackend(app *bootstrap.App, userID string) *localBackend {
	return &localBackend{
		ServiceSaver:     editor.ServiceSaver{Resumes: app.Resumes, UserID: userID},
		ServiceGenerator: editor.ServiceGenerator{Generation: app.Generation, UserID: userID},
		app:              app,
		userID:           userID,
	}
}

func (b *localBackend) List(ctx context.Context) (resumes.ListResponse, error) {
	page, err := b.app.Resumes.List(ctx, b.userID)
	if err != nil {
		return resumes.ListResponse{}, err
	}
	out := resumes.ListResponse{
		Resumes:    make([]resumes.ResumeDTO, 0, len(page.Resumes)),
		TotalCount: page.TotalCount,
		Level:      string(page.Level),
		CanCreate:  page.CanCreate,
	}
	for _, r := range page.Resumes {
		out.Resumes = append(out.Resumes, resumes.ToDTO(r))
	}
	return out, nil
}

func (b *localBackend) Get(ctx context.Context, id string) (resumes.Resume, error) {
	return b.app.Resumes.Get(ctx, b.userID, id)
}

func (b *localBackend) Delete(ctx context.Context, id string) error {
	return b.app.Resumes.Delete(ctx, b.userID, id)
}

func (b *localBackend) Level(ctx context.Context) (subscriptions.Level, error) {
	return b.app.Subscriptions.LevelFor(ctx, b.userID)
}

var (
	_ backend = (*localBackend)(nil)
	_ backend = (*remote.Client)(nil)
)
