// Package control assembles the healing engine, its collaborators, and
// the management server into a runnable application.
package control

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/pressly/goose/v3"

	"github.com/vietddude/mender/internal/core/config"
	"github.com/vietddude/mender/internal/healing"
	"github.com/vietddude/mender/internal/health"
	"github.com/vietddude/mender/internal/httpapi"
	"github.com/vietddude/mender/internal/infra/notify"
	"github.com/vietddude/mender/internal/infra/report"
	"github.com/vietddude/mender/internal/infra/storage/postgres"
)

// Mender is the main application struct managing the engine lifecycle.
type Mender struct {
	cfg          Config
	engine       *healing.Engine
	janitor      *healing.Janitor
	healthServer *health.Server
	db           *postgres.DB
	publisher    *notify.Publisher
	log          *slog.Logger
	cancel       context.CancelFunc
}

// Config holds the application configuration.
type Config struct {
	Port       int
	Healing    config.HealingConfig
	Strategies []config.StrategyConfig
	Redis      notify.Config
	Database   postgres.Config
}

// NewMender creates the application with all dependencies initialized.
func NewMender(cfg Config) (*Mender, error) {
	log := slog.Default()

	// 1. Error reporting storage (optional)
	var db *postgres.DB
	var reporter report.Reporter = report.Nop{}
	if cfg.Database.URL != "" {
		var err error
		db, err = postgres.NewDB(context.Background(), cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to init db: %w", err)
		}

		if err := goose.SetDialect("postgres"); err != nil {
			return nil, err
		}
		if err := goose.Up(db.DB.DB, "migrations"); err != nil {
			return nil, fmt.Errorf("failed to migrate db: %w", err)
		}

		reporter = report.NewPostgresReporter(db)
		log.Info("error reports stored in PostgreSQL")
	} else {
		log.Info("no database configured, error reports are discarded")
	}

	// 2. Critical alert notification (optional)
	var publisher *notify.Publisher
	var notifier notify.Notifier = notify.Nop{}
	if cfg.Redis.URL != "" {
		var err error
		publisher, err = notify.NewPublisher(cfg.Redis)
		if err != nil {
			log.Warn("failed to connect to Redis, notifications disabled", "error", err)
		} else {
			notifier = publisher
		}
	}

	// 3. Engine with config-declared strategies
	engine := healing.NewEngine(healing.Options{
		HistoryLimit: cfg.Healing.HistoryLimit,
		Reporter:     reporter,
		Notifier:     notifier,
		Logger:       log,
	})

	hooks := healing.Hooks{}
	if db != nil {
		hooks.Reconnect = db.PingContext
	}

	for _, sc := range cfg.Strategies {
		strategy, err := healing.BuildStrategy(sc, hooks)
		if err != nil {
			return nil, fmt.Errorf("failed to build strategy: %w", err)
		}
		if err := engine.RegisterStrategy(strategy); err != nil {
			return nil, err
		}
	}

	// 4. Janitor and management server
	janitor := healing.NewJanitor(
		engine.HistoryStore(),
		cfg.Healing.RetentionD,
		cfg.Healing.JanitorPeriod,
		log,
	)
	monitor := health.NewMonitor(engine)
	healthServer := health.NewServer(monitor, engine, cfg.Port)

	return &Mender{
		cfg:          cfg,
		engine:       engine,
		janitor:      janitor,
		healthServer: healthServer,
		db:           db,
		publisher:    publisher,
		log:          log,
	}, nil
}

// Engine returns the healing engine for direct embedding.
func (m *Mender) Engine() *healing.Engine {
	return m.engine
}

// Middleware wraps an application handler with failure interception.
func (m *Mender) Middleware(next http.Handler) http.Handler {
	return httpapi.Middleware(m.engine, m.log, next)
}

// Start launches the janitor and the management server.
func (m *Mender) Start(ctx context.Context) error {
	ctx, m.cancel = context.WithCancel(ctx)

	go m.janitor.Start(ctx)

	go func() {
		m.log.Info("management server listening", "port", m.cfg.Port)
		if err := m.healthServer.Start(); err != nil && err != http.ErrServerClosed {
			m.log.Error("management server failed", "error", err)
		}
	}()

	return nil
}

// Stop shuts everything down gracefully.
func (m *Mender) Stop(ctx context.Context) error {
	if m.cancel != nil {
		m.cancel()
	}

	if err := m.healthServer.Stop(ctx); err != nil {
		m.log.Warn("failed to stop management server", "error", err)
	}
	if m.publisher != nil {
		_ = m.publisher.Close()
	}
	if m.db != nil {
		_ = m.db.Close()
	}
	return nil
}
