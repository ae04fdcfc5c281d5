package delivery

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PaulGreetham/football-insight/internal/domain"
	"github.com/PaulGreetham/football-insight/internal/feed"
	"github.com/PaulGreetham/football-insight/pkg/publishers"
)

type fakeSource struct {
	res   feed.Result
	limit int
}

func (f *fakeSource) FetchContent(_ context.Context, limit int) feed.Result {
	f.limit = limit
	return f.res
}

// fakeScraper marks titles so enrichment is observable.
type fakeScraper struct{ calls int }

func (f *fakeScraper) Enrich(_ context.Context, articles []domain.Article) []domain.Article {
	f.calls++
	out := make([]domain.Article, len(articles))
	for i, a := range articles {
		a.ImageURL = "https://img.test/" + a.URL[strings.LastIndex(a.URL, "/")+1:] + ".jpg"
		out[i] = a
	}
	return out
}

// fakePublisher records published events and can reject URLs.
type fakePublisher struct {
	mu     sync.Mutex
	events []publishers.Event
	reject string
}

func (f *fakePublisher) Publish(_ context.Context, evt publishers.Event) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, evt)
	if evt.Article.URL == f.reject {
		return 0, errors.New("boom")
	}
	return 1, nil
}

// fakeDeduper tracks delivered URLs.
type fakeDeduper struct {
	seen    map[string]bool
	failURL string
}

func (f *fakeDeduper) Delivered(url string) (bool, error) {
	if url == f.failURL {
		return false, errors.New("lookup failed")
	}
	return f.seen[url], nil
}

func (f *fakeDeduper) MarkDelivered(url string) error {
	if f.seen == nil {
		f.seen = make(map[string]bool)
	}
	f.seen[url] = true
	return nil
}

func liveResult(urls ...string) feed.Result {
	res := feed.Result{Origin: feed.OriginLive}
	for i, u := range urls {
		res.Articles = append(res.Articles, domain.Article{
			Title:       "Story " + u,
			URL:         u,
			PublishedAt: time.Date(2026, 10, 16, 12-i, 0, 0, 0, time.UTC),
			Source:      domain.Source{Name: "Sky Sports"},
		})
	}
	return res
}

func TestRunOncePublishesFreshArticlesOnly(t *testing.T) {
	src := &fakeSource{res: liveResult("https://news.test/old", "https://news.test/new")}
	deduper := &fakeDeduper{seen: map[string]bool{"https://news.test/old": true}}
	pub := &fakePublisher{}
	scr := &fakeScraper{}

	svc := NewService(src, scr, pub, deduper, 20, nil)
	summary, err := svc.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	if src.limit != 20 {
		t.Fatalf("limit not forwarded: %d", src.limit)
	}
	if summary.Fetched != 2 || summary.Fresh != 1 || summary.Published != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if len(pub.events) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(pub.events))
	}
	evt := pub.events[0]
	if evt.Article.URL != "https://news.test/new" || evt.Article.ImageURL != "https://img.test/new.jpg" {
		t.Fatalf("unexpected article %+v", evt.Article)
	}
	if evt.Origin != "live" || evt.Source != "Sky Sports" {
		t.Fatalf("unexpected event envelope %+v", evt)
	}
	if !deduper.seen["https://news.test/new"] {
		t.Fatalf("MarkDelivered not called for new article")
	}
}

func TestRunOnceSkipsFallback(t *testing.T) {
	src := &fakeSource{res: feed.Result{
		Origin:   feed.OriginFallback,
		Reason:   feed.ReasonNoAPIKey,
		Articles: []domain.Article{{URL: "https://example.com/x"}},
	}}
	pub := &fakePublisher{}
	scr := &fakeScraper{}

	summary, err := NewService(src, scr, pub, nil, 5, nil).RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if summary.Origin != feed.OriginFallback || summary.Published != 0 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if len(pub.events) != 0 || scr.calls != 0 {
		t.Fatalf("fallback content must not be enriched or published")
	}
}

func TestRunOnceAggregatesPublishErrors(t *testing.T) {
	src := &fakeSource{res: liveResult("https://news.test/bad", "https://news.test/good")}
	pub := &fakePublisher{reject: "https://news.test/bad"}
	deduper := &fakeDeduper{}

	summary, err := NewService(src, nil, pub, deduper, 5, nil).RunOnce(context.Background())
	if err == nil || !strings.Contains(err.Error(), "https://news.test/bad") {
		t.Fatalf("expected error mentioning bad article, got %v", err)
	}
	if summary.Published != 1 || summary.Failed != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if deduper.seen["https://news.test/bad"] {
		t.Fatalf("rejected article must stay undelivered")
	}
}

func TestRunOnceStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pub := &fakePublisher{}
	_, err := NewService(&fakeSource{res: liveResult("https://news.test/a")}, nil, pub, nil, 5, nil).RunOnce(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(pub.events) != 0 {
		t.Fatalf("nothing should be published after cancellation")
	}
}

func TestRunOnceRequiresWiring(t *testing.T) {
	if _, err := NewService(nil, nil, nil, nil, 5, nil).RunOnce(context.Background()); err == nil {
		t.Fatalf("expected error for unwired service")
	}
}

func TestFilterNewKeepsArticlesOnLookupError(t *testing.T) {
	deduper := &fakeDeduper{
		seen:    map[string]bool{"https://news.test/skip": true},
		failURL: "https://news.test/error",
	}
	svc := NewService(nil, nil, nil, deduper, 0, nil)
	articles := []domain.Article{
		{URL: "https://news.test/keep"},
		{URL: "https://news.test/skip"},
		{URL: "https://news.test/error"},
	}

	filtered := svc.filterNew(articles)
	if len(filtered) != 2 {
		t.Fatalf("expected 2 articles after filter, got %d", len(filtered))
	}
	if filtered[0].URL != "https://news.test/keep" || filtered[1].URL != "https://news.test/error" {
		t.Fatalf("unexpected filter result %#v", filtered)
	}
}
