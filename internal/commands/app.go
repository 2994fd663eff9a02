package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/budgetwatch/internal/analytics"
	"github.com/cleared-dev/budgetwatch/internal/config"
	"github.com/cleared-dev/budgetwatch/internal/i18n"
	"github.com/cleared-dev/budgetwatch/internal/insights"
	"github.com/cleared-dev/budgetwatch/internal/ledger"
	"github.com/cleared-dev/budgetwatch/internal/logger"
	"github.com/cleared-dev/budgetwatch/internal/storage"
)

const dayFormat = "2006-01-02"

// app is the per-invocation wiring of a project directory.
type app struct {
	repo string
	cfg  *config.Config
	loc  *time.Location
	log  zerolog.Logger
}

// loadApp reads <repo>/.env and <repo>/budgetwatch.yaml, applies environment
// overrides and attaches a logger to cmd's context. A project without a
// config file runs on defaults.
func loadApp(cmd *cobra.Command, repoDir string) (*app, error) {
	repo, err := filepath.Abs(repoDir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	if err := godotenv.Load(filepath.Join(repo, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg, err := config.Load(filepath.Join(repo, config.FileName))
	if errors.Is(err, fs.ErrNotExist) {
		cfg = config.Default()
	} else if err != nil {
		return nil, err
	}
	if err := config.ApplyEnv(cfg, os.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	log := logger.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format).
		With().Str("repo", repo).Logger()
	cmd.SetContext(logger.WithContext(cmd.Context(), log))

	return &app{repo: repo, cfg: cfg, loc: loc, log: log}, nil
}

func (a *app) path(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(a.repo, rel)
}

func (a *app) ledger() *ledger.Service {
	return ledger.NewService(a.path(a.cfg.Ledger.Path), a.loc)
}

func (a *app) insights() (*insights.Service, error) {
	store, err := storage.NewFileStore(a.path(a.cfg.Storage.Dir))
	if err != nil {
		return nil, err
	}
	gen := analytics.NewGenerator(a.cfg.Insights.Threshold, a.loc, i18n.New(a.cfg.Insights.Locale), a.log)
	return insights.NewService(store, gen, a.log), nil
}

// now returns the current time in the configured location, or midnight of
// day when given.
func (a *app) now(day string) (time.Time, error) {
	if day == "" {
		return time.Now().In(a.loc), nil
	}
	t, err := time.ParseInLocation(dayFormat, day, a.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", day, err)
	}
	return t, nil
}
