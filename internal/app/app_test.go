package app

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/PaulGreetham/football-insight/internal/config"
	"github.com/PaulGreetham/football-insight/internal/feed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gnewsArticle = `{"title":%q,"description":null,"content":"...","url":%q,"image":"https://img.test/a.jpg","publishedAt":%q,"source":{"name":"BBC Sport","url":"https://www.bbc.co.uk/sport"}}`

func newGNewsServer(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Query().Get("apikey") != "test-key" {
			http.Error(w, `{"errors":["invalid key"]}`, http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/search":
			fmt.Fprintf(w, `{"totalArticles":1,"articles":[`+gnewsArticle+`]}`,
				"Arsenal agree transfer fee for winger", "https://news.test/arsenal-winger", "2026-10-16T10:00:00Z")
		case "/top-headlines":
			fmt.Fprintf(w, `{"totalArticles":1,"articles":[`+gnewsArticle+`]}`,
				"Premier League leaders stumble", "https://news.test/leaders-stumble", "2026-10-16T11:00:00Z")
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		AppName:                "football-insight-test",
		GNewsAPIKey:            "test-key",
		GNewsBaseURL:           baseURL,
		FeedLimit:              15,
		FeedFloor:              50,
		StrategyTimeout:        2 * time.Second,
		HTTPTimeout:            2 * time.Second,
		RefreshInterval:        time.Hour,
		StorageType:            "none",
		StorageTTL:             time.Hour,
		StorageCleanupInterval: time.Hour,
	}
}

func TestNewAggregatorServesLiveFeed(t *testing.T) {
	var calls atomic.Int32
	srv := newGNewsServer(t, &calls)

	agg, err := NewAggregator(testConfig(srv.URL), nil)
	require.NoError(t, err)

	res := agg.FetchContent(context.Background(), 10)
	require.Equal(t, feed.OriginLive, res.Origin)
	require.Len(t, res.Articles, 2)
	assert.Equal(t, "https://news.test/leaders-stumble", res.Articles[0].URL)
	assert.Equal(t, "https://news.test/arsenal-winger", res.Articles[1].URL)
	assert.Equal(t, "BBC Sport", res.Articles[1].Source.Name)
	assert.EqualValues(t, 3, calls.Load())
}

func TestNewAggregatorWithoutKeyNeverCallsUpstream(t *testing.T) {
	var calls atomic.Int32
	srv := newGNewsServer(t, &calls)
	cfg := testConfig(srv.URL)
	cfg.GNewsAPIKey = ""

	agg, err := NewAggregator(cfg, nil)
	require.NoError(t, err)

	res := agg.FetchContent(context.Background(), 3)
	assert.Equal(t, feed.OriginFallback, res.Origin)
	assert.Equal(t, feed.ReasonNoAPIKey, res.Reason)
	assert.Len(t, res.Articles, 3)
	assert.Zero(t, calls.Load())
}

func TestNewAggregatorRejectsBadStrategiesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "strategies.yaml")
	require.NoError(t, os.WriteFile(path, []byte("strategies:\n  - id: broken\n    mode: carrier-pigeon\n"), 0o644))

	cfg := testConfig("http://127.0.0.1:0")
	cfg.StrategiesFile = path

	_, err := NewAggregator(cfg, nil)
	assert.Error(t, err)
}

func watcherConfig(t *testing.T, gnewsURL, hookURL string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	pubPath := filepath.Join(dir, "publishers.yaml")
	raw := fmt.Sprintf("publishers:\n  - id: hook\n    type: http\n    http:\n      url: %q\n", hookURL)
	require.NoError(t, os.WriteFile(pubPath, []byte(raw), 0o644))

	cfg := testConfig(gnewsURL)
	cfg.PublishersFile = pubPath
	cfg.StorageType = "bbolt"
	cfg.BBoltPath = filepath.Join(dir, "data", "delivered.db")
	return cfg
}

func TestWatcherDeliversEachArticleOnce(t *testing.T) {
	var gnewsCalls, hookCalls atomic.Int32
	gnewsSrv := newGNewsServer(t, &gnewsCalls)
	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hookCalls.Add(1)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer hook.Close()

	w, err := NewWatcher(context.Background(), watcherConfig(t, gnewsSrv.URL, hook.URL), nil)
	require.NoError(t, err)
	defer w.close()

	require.NoError(t, w.runOnce(context.Background()))
	assert.EqualValues(t, 2, hookCalls.Load())

	require.NoError(t, w.runOnce(context.Background()))
	assert.EqualValues(t, 2, hookCalls.Load(), "already delivered articles must not be re-sent")
}

func TestWatcherRunStopsOnCancel(t *testing.T) {
	var gnewsCalls atomic.Int32
	gnewsSrv := newGNewsServer(t, &gnewsCalls)
	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer hook.Close()

	w, err := NewWatcher(context.Background(), watcherConfig(t, gnewsSrv.URL, hook.URL), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, w.Run(ctx))
}

func TestNewWatcherRequiresPublishers(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:0")
	_, err := NewWatcher(context.Background(), cfg, nil)
	assert.Error(t, err)

	_, err = NewWatcher(context.Background(), nil, nil)
	assert.Error(t, err)
}
