package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/example/vocabsrs/internal/config"
	"github.com/example/vocabsrs/internal/database"
	"github.com/example/vocabsrs/internal/learning"
	"github.com/example/vocabsrs/internal/logger"
	"github.com/example/vocabsrs/pkg/models"
)

// Exit codes per error kind.
const (
	exitError            = 1
	exitInvalidInput     = 2
	exitNotFound         = 3
	exitConflict         = 4
	exitStoreUnavailable = 5
)

// NewRootCmd builds the vocab command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "vocab",
		Short:         "Spaced-repetition vocabulary scheduler",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newMigrateCmd(),
		newImportCmd(),
		newReviewCmd(),
		newDueCmd(),
		newSessionCmd(),
		newStatsCmd(),
		newProgressCmd(),
		newTopicsCmd(),
		newWordsCmd(),
		newServeCmd(),
	)
	return root
}

// Execute runs the CLI and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return ExitCode(err)
	}
	return 0
}

// ExitCode maps an error kind to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, models.ErrInvalidInput):
		return exitInvalidInput
	case errors.Is(err, models.ErrNotFound):
		return exitNotFound
	case errors.Is(err, models.ErrConflict):
		return exitConflict
	case errors.Is(err, models.ErrStoreUnavailable):
		return exitStoreUnavailable
	default:
		return exitError
	}
}

// app is the wiring shared by every command.
type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	db        *sqlx.DB
	records   *database.ReviewRecordRepository
	catalog   *database.Catalog
	languages *database.LanguageRepository
	engine    *learning.Engine
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	db, err := database.Connect(ctx, database.Config{
		Driver:       cfg.Database.Driver,
		DSN:          cfg.Database.DSN,
		MaxOpenConns: cfg.Database.MaxOpenConns,
	})
	if err != nil {
		_ = log.Sync()
		return nil, fmt.Errorf("db connect: %w", err)
	}

	records := database.NewReviewRecordRepository(db)
	catalog := database.NewCatalog(db)
	return &app{
		cfg:       cfg,
		logger:    log,
		db:        db,
		records:   records,
		catalog:   catalog,
		languages: database.NewLanguageRepository(db),
		engine:    learning.NewEngine(records, catalog, log),
	}, nil
}

func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		a.logger.Warn("closing database", zap.Error(err))
	}
	_ = a.logger.Sync()
}

// limit applies the configured default and upper bound to a requested limit.
func (a *app) limit(requested int) (int, error) {
	if requested == 0 {
		return a.cfg.Session.DefaultLimit, nil
	}
	if requested > a.cfg.Session.MaxLimit {
		return 0, fmt.Errorf("%w: limit %d exceeds maximum %d", models.ErrInvalidInput, requested, a.cfg.Session.MaxLimit)
	}
	return requested, nil
}

// languageID resolves a language code; an empty code means every language.
func (a *app) languageID(ctx context.Context, code string) (int64, error) {
	if code == "" {
		return 0, nil
	}
	lang, err := a.languages.GetByCode(ctx, code)
	if err != nil {
		return 0, err
	}
	if lang == nil {
		return 0, fmt.Errorf("%w: language %q", models.ErrNotFound, code)
	}
	return lang.ID, nil
}

// withApp wraps a command body with app setup and teardown.
func withApp(run func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		return run(cmd, a, args)
	}
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
