package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PaulGreetham/football-insight/internal/config"
	"github.com/PaulGreetham/football-insight/internal/delivery"
	"github.com/PaulGreetham/football-insight/internal/logger"
	"github.com/PaulGreetham/football-insight/internal/scraper"
	"github.com/PaulGreetham/football-insight/internal/storage"
	"github.com/PaulGreetham/football-insight/pkg/httpclient"
	"github.com/PaulGreetham/football-insight/pkg/publishers"
)

const scrapeDelay = 250 * time.Millisecond

// Watcher refreshes the feed on an interval and forwards new live articles to
// the configured publishers. It owns the publishers and the delivery store.
type Watcher struct {
	cfg      *config.Config
	service  *delivery.Service
	fanout   *publishers.Fanout
	store    storage.Store
	interval time.Duration
	log      logger.Logger
}

// NewWatcher builds a watcher runtime from config files.
func NewWatcher(ctx context.Context, cfg *config.Config, log logger.Logger) (*Watcher, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	log = logger.Ensure(log)
	if ctx == nil {
		ctx = context.Background()
	}

	agg, err := NewAggregator(cfg, log)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.PublishersFile) == "" {
		return nil, fmt.Errorf("no publishers file configured")
	}
	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabledPublishers := publisherReg.Enabled()
	if len(enabledPublishers) == 0 {
		return nil, fmt.Errorf("no publishers configured")
	}

	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabledPublishers, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}
	fanout := publishers.NewFanout(pubClients)
	publisherSummaries := make([]map[string]string, 0, len(enabledPublishers))
	for _, pubCfg := range enabledPublishers {
		publisherSummaries = append(publisherSummaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(publisherSummaries),
		"publishers": publisherSummaries,
	})

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		TTL:             cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		_ = fanout.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"ttl_seconds":              int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	var enricher delivery.ArticleScraper
	if cfg.ScrapeImages {
		enricher = scraper.New(httpclient.NewRestyClient(cfg.HTTPTimeout), scrapeDelay, log)
	}

	return &Watcher{
		cfg:      cfg,
		service:  delivery.NewService(agg, enricher, fanout, store, cfg.FeedLimit, log),
		fanout:   fanout,
		store:    store,
		interval: cfg.RefreshInterval,
		log:      log,
	}, nil
}

// Run refreshes immediately, then on every tick until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	if w == nil || w.service == nil {
		return fmt.Errorf("watcher is not initialized")
	}
	defer w.close()

	w.log.InfoObj("watcher loop starting", "watcher_state", map[string]any{
		"publishers_count": w.fanout.Size(),
		"refresh_interval": w.interval.String(),
		"live":             w.cfg.HasAPIKey(),
	})

	if err := w.runOnce(ctx); err != nil {
		w.log.ErrorObj("initial refresh failed", "error", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.InfoObj("watcher loop exiting", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			if err := w.runOnce(ctx); err != nil {
				w.log.ErrorObj("scheduled refresh failed", "error", err)
			}
		}
	}
}

func (w *Watcher) runOnce(ctx context.Context) error {
	start := time.Now()
	summary, err := w.service.RunOnce(ctx)
	w.log.InfoObj("refresh completed", "refresh_meta", map[string]any{
		"summary":    summary,
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
	return err
}

// close releases the store and publisher connections, logging failures.
func (w *Watcher) close() {
	if err := w.store.Close(); err != nil {
		w.log.ErrorObj("storage close failed", "error", err)
	}
	if err := w.fanout.Close(); err != nil {
		w.log.ErrorObj("publishers close failed", "error", err)
	}
}
