// Package cli holds the cobra commands of the paragon operator tool
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/paragon/backend/internal/bootstrap"
	"github.com/paragon/backend/internal/domain/shared"
	"github.com/paragon/backend/internal/infrastructure/config"
	"github.com/paragon/backend/internal/infrastructure/logger"
	"github.com/paragon/backend/internal/infrastructure/persistence"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

// App is the state shared by every command of one invocation
type App struct {
	Config    *config.Config
	Log       *zap.Logger
	Container *bootstrap.Container

	db    *persistence.Database
	clock shared.Clock
	out   io.Writer
}

// Option configures the root command
type Option func(*App)

// WithClock fixes "today" for every service
func WithClock(clock shared.Clock) Option {
	return func(a *App) { a.clock = clock }
}

// WithOutput sends command output to w instead of stdout
func WithOutput(w io.Writer) Option {
	return func(a *App) { a.out = w }
}

// Run executes the command line args and closes the store afterwards
func Run(ctx context.Context, args []string, opts ...Option) error {
	app := &App{out: os.Stdout}
	for _, opt := range opts {
		opt(app)
	}
	root := newRootCommand(app)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if closeErr := app.close(); err == nil {
		err = closeErr
	}
	return err
}

func newRootCommand(app *App) *cobra.Command {
	var (
		dbPath   string
		logLevel string
	)
	root := &cobra.Command{
		Use:           "paragon",
		Short:         "Paragon Apartments operator tool",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.open(dbPath, logLevel)
		},
	}
	root.SetOut(app.out)
	root.SetErr(app.out)
	root.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database file (default: database.path from config)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	root.AddCommand(
		newSeedCommand(app),
		newFinanceCommand(app),
		newExportCommand(app),
		newUserCommand(app),
	)
	return root
}

// open loads config, the logger and the store. The schema is always
// brought up to date so a fresh file is usable straight away.
func (a *App) open(dbPath, logLevel string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	cfg.Database.AutoMigrate = true

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     "console",
		Output:     "stderr",
		TimeFormat: "15:04:05",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, log.Named("gorm"), gormlogger.Error)
	if err != nil {
		return err
	}

	a.Config = cfg
	a.Log = log
	a.db = db
	a.Container = bootstrap.New(cfg, db, log, a.clock)
	return nil
}

func (a *App) close() error {
	if a.db == nil {
		return nil
	}
	_ = a.Log.Sync()
	err := a.db.Close()
	a.db = nil
	return err
}

// location resolves a --location selector, empty or "all" meaning every location
func (a *App) location(ctx context.Context, selector string) (*int64, error) {
	return a.Container.Property.ResolveLocation(ctx, selector)
}
