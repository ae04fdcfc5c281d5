package strategies

import (
	"context"

	"github.com/PaulGreetham/football-insight/internal/domain"
	"github.com/PaulGreetham/football-insight/pkg/gnews"
)

// Fetcher runs one strategy against the upstream and returns raw
// (unclassified) articles.
type Fetcher interface {
	Mode() string
	Fetch(ctx context.Context, s Strategy) ([]domain.Article, error)
}

// FetcherRegistry resolves the fetcher implementation for a strategy.
type FetcherRegistry interface {
	FetcherFor(s Strategy) (Fetcher, error)
}

// Source is the subset of the GNews client the fetchers need.
type Source interface {
	Search(ctx context.Context, q gnews.Query) (*gnews.Response, error)
	Headlines(ctx context.Context, q gnews.Query) (*gnews.Response, error)
}
