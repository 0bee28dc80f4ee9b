// Package app initializes and holds long-lived application services,
// acting as a dependency injection container.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mkweon/blogfeed-crawler/internal/config"
	"github.com/mkweon/blogfeed-crawler/internal/ingest"
	"github.com/mkweon/blogfeed-crawler/internal/logging"
	"github.com/mkweon/blogfeed-crawler/internal/naver"
	"github.com/mkweon/blogfeed-crawler/internal/store"
)

// App holds the shared, long-lived services: logger, store, fetcher,
// and ingestor. It is built once at startup and closed on shutdown.
type App struct {
	cfg      config.Config
	logger   *zap.Logger
	store    store.Store
	fetcher  naver.Fetcher
	ingestor *ingest.Ingestor
}

// New creates and initializes an App from configuration. It fails fast
// if any critical service cannot be initialized.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	var st store.Store
	if cfg.DB.DSN != "" {
		logger.Info("connecting to postgres")
		st, err = store.NewPostgres(ctx, store.PostgresConfig{
			DSN:          cfg.DB.DSN,
			MaxOpenConns: cfg.DB.MaxOpenConns,
			MaxIdleConns: cfg.DB.MaxIdleConns,
		})
		if err != nil {
			return nil, fmt.Errorf("init store: %w", err)
		}
	} else {
		logger.Info("no db.dsn configured, using no-op store")
		st = store.NoOp{}
	}

	fetcher, err := naver.NewCollyFetcher(naver.FetcherConfig{
		UserAgent: cfg.Crawler.UserAgent,
		Timeout:   cfg.FetchTimeout(),
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("init fetcher: %w", err)
	}

	ingestor := ingest.New(st, ingest.Config{
		Concurrency:   cfg.Crawler.Concurrency,
		RatePerSecond: cfg.Crawler.RatePerSecond,
	}, logger)

	return &App{
		cfg:      cfg,
		logger:   logger,
		store:    st,
		fetcher:  fetcher,
		ingestor: ingestor,
	}, nil
}

// Config returns the loaded configuration.
func (a *App) Config() config.Config { return a.cfg }

// Logger returns the shared zap logger.
func (a *App) Logger() *zap.Logger { return a.logger }

// Store returns the persistence layer.
func (a *App) Store() store.Store { return a.store }

// Ingestor returns the crawl orchestrator.
func (a *App) Ingestor() *ingest.Ingestor { return a.ingestor }

// NewCrawler builds a crawl service bound to one blog, resolving its
// category taxonomy.
func (a *App) NewCrawler(ctx context.Context, blogID string) (*naver.Service, error) {
	return naver.NewService(ctx, naver.ServiceConfig{
		BlogID:  blogID,
		Fetcher: a.fetcher,
		Logger:  a.logger,
	})
}

// Close gracefully shuts down all services in the container.
func (a *App) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("error closing store", zap.Error(err))
	}
	// Best effort: stderr sync failures on shutdown are not actionable.
	_ = a.logger.Sync()
}
