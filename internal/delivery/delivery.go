// Package delivery forwards fresh live articles from the feed to the
// configured publishers.
package delivery

import (
	"context"
	"errors"
	"fmt"

	"github.com/PaulGreetham/football-insight/internal/domain"
	"github.com/PaulGreetham/football-insight/internal/feed"
	"github.com/PaulGreetham/football-insight/internal/logger"
	"github.com/PaulGreetham/football-insight/pkg/publishers"
)

// Summary describes one delivery pass.
type Summary struct {
	Origin    feed.Origin `json:"origin"`
	Fetched   int         `json:"fetched"`
	Fresh     int         `json:"fresh"`
	Published int         `json:"published"`
	Failed    int         `json:"failed"`
}

// Service pulls the feed and pushes undelivered articles to the publishers.
type Service struct {
	source    FeedSource
	scraper   ArticleScraper
	publisher EventPublisher
	deduper   Deduper
	limit     int
	log       logger.Logger
}

// NewService wires a delivery pass. scraper and deduper are optional.
func NewService(source FeedSource, scraper ArticleScraper, pub EventPublisher, deduper Deduper, limit int, log logger.Logger) *Service {
	return &Service{
		source:    source,
		scraper:   scraper,
		publisher: pub,
		deduper:   deduper,
		limit:     limit,
		log:       logger.Ensure(log),
	}
}

// RunOnce performs a single pass. Fallback content is never published.
func (s *Service) RunOnce(ctx context.Context) (Summary, error) {
	if s == nil || s.source == nil || s.publisher == nil {
		return Summary{}, fmt.Errorf("delivery service is not initialized")
	}

	res := s.source.FetchContent(ctx, s.limit)
	summary := Summary{Origin: res.Origin, Fetched: len(res.Articles)}

	if !res.Live() {
		s.log.InfoObj("feed served fallback content; nothing to deliver", "delivery_skip", map[string]any{
			"reason": res.Reason,
		})
		return summary, nil
	}

	fresh := s.filterNew(res.Articles)
	summary.Fresh = len(fresh)
	if len(fresh) == 0 {
		return summary, nil
	}

	if s.scraper != nil {
		fresh = s.scraper.Enrich(ctx, fresh)
	}

	var errs []error
	for _, art := range fresh {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		accepted, err := s.publisher.Publish(ctx, publishers.NewEvent(string(res.Origin), art))
		if err != nil {
			s.log.WarnObj("article publish incomplete", "delivery_error", map[string]any{
				"url":      art.URL,
				"accepted": accepted,
				"error":    err.Error(),
			})
		}
		if accepted == 0 {
			if err == nil {
				err = errors.New("no publisher accepted the event")
			}
			summary.Failed++
			errs = append(errs, fmt.Errorf("publish %s: %w", art.URL, err))
			continue
		}

		summary.Published++
		s.markDelivered(art)
	}

	s.log.InfoObj("delivery pass completed", "delivery_summary", summary)
	return summary, errors.Join(errs...)
}

// filterNew drops articles the store already delivered. Lookup errors are
// logged and the article is kept.
func (s *Service) filterNew(articles []domain.Article) []domain.Article {
	if s.deduper == nil {
		return articles
	}

	out := make([]domain.Article, 0, len(articles))
	for _, art := range articles {
		delivered, err := s.deduper.Delivered(art.URL)
		if err != nil {
			s.log.WarnObj("delivery store lookup failed", "store_error", map[string]any{
				"url":   art.URL,
				"error": err.Error(),
			})
			out = append(out, art)
			continue
		}
		if !delivered {
			out = append(out, art)
		}
	}
	return out
}

func (s *Service) markDelivered(art domain.Article) {
	if s.deduper == nil {
		return
	}
	if err := s.deduper.MarkDelivered(art.URL); err != nil {
		s.log.WarnObj("delivery store mark failed", "store_error", map[string]any{
			"url":   art.URL,
			"error": err.Error(),
		})
	}
}
