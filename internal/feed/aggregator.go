// Package feed merges the query strategies into one ranked article list.
package feed

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/PaulGreetham/football-insight/internal/catalog"
	"github.com/PaulGreetham/football-insight/internal/domain"
	"github.com/PaulGreetham/football-insight/internal/logger"
	"github.com/PaulGreetham/football-insight/pkg/classifier"
	"github.com/PaulGreetham/football-insight/pkg/strategies"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultLimit           = 15
	DefaultFloor           = 50
	DefaultStrategyTimeout = 10 * time.Second
)

// Options configures an Aggregator. APIKey is injected here rather than read
// from the environment so the keyless path is testable.
type Options struct {
	APIKey          string
	Floor           int
	StrategyTimeout time.Duration
	Denylist        classifier.KeywordSet
}

// Aggregator fans out to the configured strategies and merges their output.
type Aggregator struct {
	opts       Options
	strategies []strategies.Strategy
	fetchers   strategies.FetcherRegistry
	classifier classifier.Classifier
	catalog    *catalog.Catalog
	log        logger.Logger
}

// New builds an Aggregator. A nil classifier defaults to substring matching,
// a nil catalog to one on the wall clock, an empty denylist to the built-in one.
func New(opts Options, list []strategies.Strategy, fetchers strategies.FetcherRegistry, cls classifier.Classifier, cat *catalog.Catalog, log logger.Logger) *Aggregator {
	opts.APIKey = strings.TrimSpace(opts.APIKey)
	if opts.Floor < 0 {
		opts.Floor = 0
	}
	if opts.StrategyTimeout <= 0 {
		opts.StrategyTimeout = DefaultStrategyTimeout
	}
	if opts.Denylist.Empty() {
		opts.Denylist = classifier.Denylist
	}
	if cls == nil {
		cls = classifier.Substring{}
	}
	if cat == nil {
		cat = catalog.New(nil)
	}

	return &Aggregator{
		opts:       opts,
		strategies: append([]strategies.Strategy(nil), list...),
		fetchers:   fetchers,
		classifier: cls,
		catalog:    cat,
		log:        logger.Ensure(log),
	}
}

// Catalog exposes the fallback catalog, e.g. for Contains checks.
func (a *Aggregator) Catalog() *catalog.Catalog { return a.catalog }

// FetchContent returns the merged feed. It never fails: every problem
// degrades to a smaller live list or to the fallback catalog. limit <= 0
// means DefaultLimit; live results are truncated to max(limit, floor).
func (a *Aggregator) FetchContent(ctx context.Context, limit int) Result {
	if limit <= 0 {
		limit = DefaultLimit
	}

	if a.opts.APIKey == "" {
		a.log.InfoObj("no api key configured; serving fallback catalog", "feed_fallback", map[string]any{
			"reason": ReasonNoAPIKey,
			"limit":  limit,
		})
		return a.fallback(limit, ReasonNoAPIKey, nil)
	}

	streams, reports := a.fanOut(ctx)

	var combined []domain.Article
	for _, s := range streams {
		combined = append(combined, s...)
	}
	unique := Dedup(combined)
	SortNewestFirst(unique)

	a.log.InfoObj("feed aggregated", "feed_summary", map[string]any{
		"strategies": reports,
		"combined":   len(combined),
		"unique":     len(unique),
	})

	if len(unique) == 0 {
		a.log.WarnObj("no live articles from any strategy; serving fallback catalog", "feed_fallback", map[string]any{
			"reason": ReasonExhausted,
			"limit":  limit,
		})
		return a.fallback(limit, ReasonExhausted, reports)
	}

	if n := max(limit, a.opts.Floor); len(unique) > n {
		unique = unique[:n]
	}
	return Result{Articles: unique, Origin: OriginLive, Strategies: reports}
}

func (a *Aggregator) fallback(limit int, reason Reason, reports []StrategyReport) Result {
	return Result{
		Articles:   a.catalog.Take(limit),
		Origin:     OriginFallback,
		Reason:     reason,
		Strategies: reports,
	}
}

// fanOut runs every strategy concurrently. Each goroutine owns one slot of
// the result slices, so no locking is needed; failures leave an empty slot.
func (a *Aggregator) fanOut(ctx context.Context) ([][]domain.Article, []StrategyReport) {
	streams := make([][]domain.Article, len(a.strategies))
	reports := make([]StrategyReport, len(a.strategies))

	g, gctx := errgroup.WithContext(ctx)
	for i, s := range a.strategies {
		g.Go(func() error {
			streams[i], reports[i] = a.runStrategy(gctx, s)
			return nil
		})
	}
	_ = g.Wait()

	return streams, reports
}

func (a *Aggregator) runStrategy(ctx context.Context, s strategies.Strategy) ([]domain.Article, StrategyReport) {
	report := StrategyReport{ID: s.ID}

	ctx, cancel := context.WithTimeout(ctx, s.Timeout(a.opts.StrategyTimeout))
	defer cancel()

	raw, err := a.fetch(ctx, s)
	if err != nil {
		report.Err = err.Error()
		report.QuotaExhausted = IsQuotaExhausted(err)
		report.TimedOut = errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded)
		a.log.WarnObj("strategy fetch failed", "strategy_error", report)
		return nil, report
	}
	report.Fetched = len(raw)

	confirm := s.Confirm()
	kept := make([]domain.Article, 0, len(raw))
	for _, art := range raw {
		if classifier.Retain(a.classifier, art, confirm, a.opts.Denylist) {
			kept = append(kept, art)
			continue
		}
		a.log.DebugObj("article filtered", "article_filtered", map[string]any{
			"strategy_id": s.ID,
			"title":       art.Title,
		})
	}
	report.Kept = len(kept)
	return kept, report
}

func (a *Aggregator) fetch(ctx context.Context, s strategies.Strategy) ([]domain.Article, error) {
	if a.fetchers == nil {
		return nil, errors.New("no fetcher registry configured")
	}
	f, err := a.fetchers.FetcherFor(s)
	if err != nil {
		return nil, err
	}
	return f.Fetch(ctx, s)
}

// Dedup drops later articles whose URL was already seen, preserving the
// order of first occurrences.
func Dedup(articles []domain.Article) []domain.Article {
	seen := make(map[string]struct{}, len(articles))
	out := make([]domain.Article, 0, len(articles))
	for _, art := range articles {
		if _, dup := seen[art.URL]; dup {
			continue
		}
		seen[art.URL] = struct{}{}
		out = append(out, art)
	}
	return out
}

// SortNewestFirst orders by PublishedAt descending; ties keep their order.
func SortNewestFirst(articles []domain.Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].PublishedAt.After(articles[j].PublishedAt)
	})
}
