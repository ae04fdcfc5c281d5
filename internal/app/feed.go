package app

import (
	"fmt"

	"github.com/PaulGreetham/football-insight/internal/config"
	"github.com/PaulGreetham/football-insight/internal/feed"
	"github.com/PaulGreetham/football-insight/internal/logger"
	"github.com/PaulGreetham/football-insight/pkg/gnews"
	"github.com/PaulGreetham/football-insight/pkg/httpclient"
	"github.com/PaulGreetham/football-insight/pkg/strategies"
)

// NewAggregator builds the feed pipeline from config: strategies file (or the
// built-ins), a resty-backed GNews client and the fallback catalog.
func NewAggregator(cfg *config.Config, log logger.Logger) (*feed.Aggregator, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	log = logger.Ensure(log)

	reg, err := strategies.LoadRegistry(cfg.StrategiesFile)
	if err != nil {
		return nil, fmt.Errorf("load strategies registry: %w", err)
	}
	enabled := reg.Enabled()
	ids := make([]string, 0, len(enabled))
	for _, s := range enabled {
		ids = append(ids, s.ID)
	}
	log.InfoObj("strategies registry loaded", "strategies_meta", map[string]any{
		"count": len(ids),
		"ids":   ids,
	})

	client := gnews.NewClient(cfg.GNewsAPIKey,
		gnews.WithBaseURL(cfg.GNewsBaseURL),
		gnews.WithHTTPClient(httpclient.NewRestyClient(cfg.HTTPTimeout)),
		gnews.WithLogger(log),
	)

	opts := feed.Options{
		APIKey:          cfg.GNewsAPIKey,
		Floor:           cfg.FeedFloor,
		StrategyTimeout: cfg.StrategyTimeout,
	}
	return feed.New(opts, enabled, strategies.DefaultFetcherRegistry(client, log), nil, nil, log), nil
}
