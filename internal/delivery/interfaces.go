package delivery

import (
	"context"

	"github.com/PaulGreetham/football-insight/internal/domain"
	"github.com/PaulGreetham/football-insight/internal/feed"
	"github.com/PaulGreetham/football-insight/pkg/publishers"
)

// FeedSource produces the merged article feed.
type FeedSource interface {
	FetchContent(ctx context.Context, limit int) feed.Result
}

// ArticleScraper enriches articles with page metadata (e.g., OG tags).
type ArticleScraper interface {
	Enrich(ctx context.Context, articles []domain.Article) []domain.Article
}

// EventPublisher publishes events downstream and reports how many sinks
// accepted each one.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// Deduper remembers which URLs were already delivered.
type Deduper interface {
	Delivered(url string) (bool, error)
	MarkDelivered(url string) error
}
