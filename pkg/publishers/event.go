package publishers

import (
	"time"

	"github.com/PaulGreetham/football-insight/internal/domain"
)

// Event is the payload delivered to every sink.
type Event struct {
	Source      string         `json:"source"`
	Origin      string         `json:"origin"`
	Article     domain.Article `json:"article"`
	CollectedAt time.Time      `json:"collected_at"`
}

// NewEvent wraps an article for delivery. origin is "live" or "fallback".
func NewEvent(origin string, article domain.Article) Event {
	return Event{
		Source:      article.Source.Name,
		Origin:      origin,
		Article:     article,
		CollectedAt: time.Now().UTC(),
	}
}
