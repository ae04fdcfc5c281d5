package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/PaulGreetham/football-insight/internal/domain"
	"github.com/PaulGreetham/football-insight/internal/feed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

func TestWriteListLive(t *testing.T) {
	res := feed.Result{
		Origin: feed.OriginLive,
		Articles: []domain.Article{
			{Title: "Derby day preview", URL: "https://news.test/derby", PublishedAt: now.Add(-3 * time.Hour), Source: domain.Source{Name: "Sky Sports"}},
			{Title: "Untitled source", URL: "https://news.test/x", PublishedAt: now.Add(-10 * time.Minute)},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, writeList(&buf, res, now))

	out := buf.String()
	assert.NotContains(t, out, "sample stories")
	assert.Contains(t, out, "Sky Sports · 3 hours ago\nDerby day preview\nhttps://news.test/derby\n")
	assert.Contains(t, out, "Unknown source · Just now\n")
}

func TestWriteListFallbackNotice(t *testing.T) {
	res := feed.Result{
		Origin:   feed.OriginFallback,
		Reason:   feed.ReasonExhausted,
		Articles: []domain.Article{{Title: "Sample", URL: "https://example.com/sample", PublishedAt: now.Add(-26 * time.Hour)}},
	}

	var buf bytes.Buffer
	require.NoError(t, writeList(&buf, res, now))
	assert.True(t, strings.HasPrefix(buf.String(), "Showing sample stories (live news is unavailable right now, pull again later)."))
	assert.Contains(t, buf.String(), "1 day ago")
}

func TestWriteJSON(t *testing.T) {
	res := feed.Result{Origin: feed.OriginFallback, Reason: feed.ReasonNoAPIKey}

	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, res))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "fallback", decoded["origin"])
	assert.Equal(t, "no_api_key", decoded["reason"])
}
