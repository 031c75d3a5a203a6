// Package wire provides dependency injection for the eco application.
// It creates singleton services with lazy initialization.
package wire

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/fatih/color"

	cliadapter "github.com/example/eco/internal/adapters/cli"
	"github.com/example/eco/internal/adapters/jsonfile"
	"github.com/example/eco/internal/adapters/metrics"
	"github.com/example/eco/internal/adapters/sqlite"
	"github.com/example/eco/internal/app"
	"github.com/example/eco/internal/config"
	"github.com/example/eco/internal/db"
	"github.com/example/eco/internal/ports/primary"
	"github.com/example/eco/internal/ports/secondary"
)

// Overrides carries command-line flags that take precedence over ECO_* variables.
type Overrides struct {
	Backend string
	DataDir string
}

var (
	overrides Overrides

	cfg           *config.Config
	logger        *slog.Logger
	recorder      *metrics.PrometheusRecorder
	closeStore    func() error
	effortService primary.EffortService
	initErr       error
	once          sync.Once
)

// Configure records flag overrides. It must run before the first service
// accessor; later calls have no effect on already built services.
func Configure(o Overrides) {
	overrides = o
}

// EffortService returns the singleton EffortService instance.
func EffortService() (primary.EffortService, error) {
	once.Do(initServices)
	return effortService, initErr
}

// EffortAdapter returns a new EffortAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func EffortAdapter() (*cliadapter.EffortAdapter, error) {
	return EffortAdapterWithOutput(os.Stdout)
}

// EffortAdapterWithOutput returns a new EffortAdapter writing to the given output.
// This variant allows testing or alternate output destinations.
func EffortAdapterWithOutput(out io.Writer) (*cliadapter.EffortAdapter, error) {
	once.Do(initServices)
	if initErr != nil {
		return nil, initErr
	}
	return cliadapter.NewEffortAdapter(effortService, out, !cfg.NoColor && !color.NoColor), nil
}

// Migrate copies the configured ledger into the target backend.
func Migrate(ctx context.Context, target string, overwrite bool) (*app.MigrationResult, error) {
	c, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log := newLogger(c)

	if target == c.Backend {
		return nil, fmt.Errorf("ledger already uses the %s backend", target)
	}

	from, closeFrom, err := openStore(c, c.Backend)
	if err != nil {
		return nil, err
	}
	defer closeFrom()

	to, closeTo, err := openStore(c, target)
	if err != nil {
		return nil, err
	}
	defer closeTo()

	return app.MigrateLedger(ctx, from, to, overwrite, log)
}

// Shutdown flushes metrics and releases the ledger store. It is safe to
// call when no service was built.
func Shutdown() error {
	if cfg == nil {
		return nil
	}
	var firstErr error
	if recorder != nil && cfg.MetricsFile != "" {
		if err := recorder.WriteTextfile(cfg.MetricsFile); err != nil {
			logger.Warn("metrics flush failed", "path", cfg.MetricsFile, "error", err)
			firstErr = err
		}
	}
	if closeStore != nil {
		if err := closeStore(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close ledger: %w", err)
		}
		closeStore = nil
	}
	return firstErr
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	c, err := loadConfig()
	if err != nil {
		initErr = err
		return
	}
	cfg = c
	logger = newLogger(c)
	recorder = metrics.NewPrometheusRecorder()

	// Create the ledger adapter (secondary port) for the configured backend
	store, closer, err := openStore(c, c.Backend)
	if err != nil {
		initErr = err
		return
	}
	closeStore = closer

	// Create services (primary ports implementation)
	service, err := app.NewEffortService(context.Background(), store, recorder, logger)
	if err != nil {
		initErr = err
		return
	}
	effortService = service
}

func loadConfig() (*config.Config, error) {
	c, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if overrides.Backend != "" {
		c.Backend = overrides.Backend
	}
	if overrides.DataDir != "" {
		c.DataDir = overrides.DataDir
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func newLogger(c *config.Config) *slog.Logger {
	level, _ := config.ParseLogLevel(c.LogLevel)
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func openStore(c *config.Config, backend string) (secondary.LedgerStore, func() error, error) {
	switch backend {
	case config.BackendSQLite:
		path, err := c.DBPath()
		if err != nil {
			return nil, nil, err
		}
		database, err := db.Open(path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		return sqlite.NewLedgerStore(database, path), database.Close, nil
	case config.BackendJSON:
		path, err := c.LedgerPath()
		if err != nil {
			return nil, nil, err
		}
		return jsonfile.NewLedgerStore(path), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("invalid backend %q", backend)
	}
}
