package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	votingledger "tokenvote/contexts/governance/voting-ledger"
	"tokenvote/contexts/governance/voting-ledger/adapters/ethsig"
	postgresadapter "tokenvote/contexts/governance/voting-ledger/adapters/postgres"
	workerapp "tokenvote/contexts/governance/voting-ledger/application/workers"
	"tokenvote/contexts/governance/voting-ledger/domain/ledger"
	"tokenvote/internal/platform/config"
	"tokenvote/internal/platform/db"
	"tokenvote/internal/platform/httpserver"
	"tokenvote/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	module   votingledger.Module
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	outboxRelay  workerapp.OutboxRelay
	results      workerapp.ResultsProjector
	relayEnabled bool
	pollInterval time.Duration
	logger       *slog.Logger
}

func BuildAPI(ctx context.Context) (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")

	genesis, err := genesisFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		logger.Warn("POSTGRES_DSN not set, ledger events stay in process memory",
			"event", "bootstrap_api_memory_outbox",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
		module, err := votingledger.NewInMemoryModule(genesis, logger)
		if err != nil {
			return nil, err
		}
		return &APIApp{
			server: httpserver.New(module, logger, normalizeAddr(cfg.HTTPPort)),
			module: module,
			logger: logger,
		}, nil
	}

	pg, err := db.Connect(ctx, cfg.PostgresDSN, db.Options{MaxOpenConns: 10, MaxIdleConns: 5}, logger)
	if err != nil {
		return nil, err
	}
	repo := postgresadapter.NewRepository(pg.DB, logger)
	if err := repo.Migrate(ctx); err != nil {
		_ = pg.Close()
		return nil, err
	}

	module, err := votingledger.NewModule(votingledger.Dependencies{
		Genesis:  genesis,
		Verifier: ethsig.Verifier{},
		Outbox:   repo,
		Clock:    postgresadapter.SystemClock{},
		IDGen:    postgresadapter.UUIDGenerator{},
		Logger:   logger,
	})
	if err != nil {
		_ = pg.Close()
		return nil, err
	}
	return &APIApp{
		server:   httpserver.New(module, logger, normalizeAddr(cfg.HTTPPort)),
		module:   module,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker(ctx context.Context) (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(ctx, cfg.PostgresDSN, db.Options{MaxOpenConns: 4}, logger)
	if err != nil {
		return nil, err
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		_ = pg.Close()
		return nil, err
	}

	repo := postgresadapter.NewRepository(pg.DB, logger)
	if err := repo.Migrate(ctx); err != nil {
		_ = pg.Close()
		return nil, err
	}
	return &WorkerApp{
		postgres: pg,
		outboxRelay: workerapp.OutboxRelay{
			Outbox:    repo,
			Publisher: kafka,
			Clock:     postgresadapter.SystemClock{},
			BatchSize: cfg.OutboxBatchSize,
			Logger:    logger,
		},
		results: workerapp.ResultsProjector{
			Subscriber:    kafka,
			Dedup:         repo,
			Tally:         workerapp.NewResultsTally(),
			Clock:         postgresadapter.SystemClock{},
			ConsumerGroup: "voting-ledger-results-cg",
			DedupTTL:      7 * 24 * time.Hour,
			Disabled:      !cfg.EnableResultsProjection,
			Logger:        logger,
		},
		relayEnabled: cfg.EnableOutboxRelay,
		pollInterval: cfg.OutboxPollInterval,
		logger:       logger,
	}, nil
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests.
func (a *APIApp) Run(ctx context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
			"owner", a.module.Ledger.Owner().String(),
		)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	}
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	if err := w.results.Start(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
		"outbox_relay_enabled", w.relayEnabled,
	)

	for {
		if w.relayEnabled {
			// Relay failures are retried on the next tick; rows stay pending.
			_ = w.outboxRelay.RunOnce(ctx)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func genesisFromConfig(cfg config.Config) (ledger.Genesis, error) {
	owner, err := ethsig.ParseIdentity(cfg.OwnerAddress)
	if err != nil {
		return ledger.Genesis{}, fmt.Errorf("LEDGER_OWNER_ADDRESS: %w", err)
	}
	return ledger.Genesis{
		Owner:       owner,
		TotalSupply: cfg.TotalSupply,
		Name:        cfg.TokenName,
		Symbol:      cfg.TokenSymbol,
		Decimals:    cfg.TokenDecimal,
	}, nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
