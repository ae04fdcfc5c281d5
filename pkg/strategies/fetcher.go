package strategies

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/PaulGreetham/football-insight/internal/domain"
	"github.com/PaulGreetham/football-insight/internal/logger"
	"github.com/PaulGreetham/football-insight/pkg/gnews"
)

// fetcherRegistry implements FetcherRegistry keyed by strategy mode.
type fetcherRegistry struct {
	mu     sync.RWMutex
	byMode map[string]Fetcher
}

// NewFetcherRegistry builds a registry from the provided fetchers.
func NewFetcherRegistry(fetchers ...Fetcher) FetcherRegistry {
	reg := &fetcherRegistry{byMode: make(map[string]Fetcher)}
	for _, f := range fetchers {
		reg.register(f)
	}
	return reg
}

func (r *fetcherRegistry) register(f Fetcher) {
	if f == nil {
		return
	}
	key := strings.ToLower(strings.TrimSpace(f.Mode()))
	if key == "" {
		return
	}

	r.mu.Lock()
	r.byMode[key] = f
	r.mu.Unlock()
}

// FetcherFor selects the fetcher for the strategy's mode.
func (r *fetcherRegistry) FetcherFor(s Strategy) (Fetcher, error) {
	if r == nil {
		return nil, fmt.Errorf("fetcher registry is nil")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if f, ok := r.byMode[strings.ToLower(strings.TrimSpace(s.Mode))]; ok {
		return f, nil
	}
	return nil, fmt.Errorf("no fetcher registered for strategy %q (mode %q)", s.ID, s.Mode)
}

// DefaultFetcherRegistry wires search and headlines fetchers to src.
func DefaultFetcherRegistry(src Source, log logger.Logger) FetcherRegistry {
	log = logger.Ensure(log)
	return NewFetcherRegistry(
		&searchFetcher{src: src, log: log},
		&headlinesFetcher{src: src, log: log},
	)
}

type searchFetcher struct {
	src Source
	log logger.Logger
}

func (f *searchFetcher) Mode() string { return ModeSearch }

func (f *searchFetcher) Fetch(ctx context.Context, s Strategy) ([]domain.Article, error) {
	if !strings.EqualFold(s.Mode, ModeSearch) {
		return nil, fmt.Errorf("search fetcher received incompatible strategy mode %q", s.Mode)
	}
	resp, err := f.src.Search(ctx, queryFor(s))
	if err != nil {
		return nil, err
	}
	return convert(f.log, s, resp), nil
}

type headlinesFetcher struct {
	src Source
	log logger.Logger
}

func (f *headlinesFetcher) Mode() string { return ModeHeadlines }

func (f *headlinesFetcher) Fetch(ctx context.Context, s Strategy) ([]domain.Article, error) {
	if !strings.EqualFold(s.Mode, ModeHeadlines) {
		return nil, fmt.Errorf("headlines fetcher received incompatible strategy mode %q", s.Mode)
	}
	resp, err := f.src.Headlines(ctx, queryFor(s))
	if err != nil {
		return nil, err
	}
	return convert(f.log, s, resp), nil
}

func queryFor(s Strategy) gnews.Query {
	return gnews.Query{
		Terms:    s.Query,
		Category: s.Category,
		Lang:     s.Lang,
		Country:  s.Country,
		Max:      s.Max,
	}
}

func convert(log logger.Logger, s Strategy, resp *gnews.Response) []domain.Article {
	articles, dropped := resp.ToArticles()
	if dropped > 0 {
		log.WarnObj("dropped malformed upstream articles", "strategy_drop", map[string]any{
			"strategy_id": s.ID,
			"dropped":     dropped,
		})
	}
	return articles
}
