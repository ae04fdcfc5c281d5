package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GNEWS_API_KEY", "")
	t.Setenv("EXPO_GNEWS_API_KEY", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HasAPIKey() {
		t.Fatalf("expected no api key by default")
	}
	if cfg.FeedFloor != 50 || cfg.FeedLimit != 15 {
		t.Fatalf("unexpected feed defaults floor=%d limit=%d", cfg.FeedFloor, cfg.FeedLimit)
	}
	if cfg.StrategyTimeout != 10*time.Second {
		t.Fatalf("StrategyTimeout = %v", cfg.StrategyTimeout)
	}
	if cfg.StorageType != "none" {
		t.Fatalf("StorageType = %q", cfg.StorageType)
	}
}

func TestLoadReadsKeyFromEnv(t *testing.T) {
	t.Setenv("GNEWS_API_KEY", "  secret  ")
	t.Setenv("FEED_FLOOR", "20")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.GNewsAPIKey != "secret" {
		t.Fatalf("GNewsAPIKey = %q", cfg.GNewsAPIKey)
	}
	if cfg.FeedFloor != 20 {
		t.Fatalf("FeedFloor = %d", cfg.FeedFloor)
	}
	if got := cfg.Redacted().GNewsAPIKey; got != "***" {
		t.Fatalf("Redacted key = %q", got)
	}
}

func TestLoadAcceptsExpoKeyAlias(t *testing.T) {
	t.Setenv("GNEWS_API_KEY", "")
	t.Setenv("EXPO_GNEWS_API_KEY", "expo-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.GNewsAPIKey != "expo-key" {
		t.Fatalf("GNewsAPIKey = %q", cfg.GNewsAPIKey)
	}
}

func TestLoadRejectsInvalidTimeout(t *testing.T) {
	t.Setenv("STRATEGY_TIMEOUT", "0")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for zero strategy_timeout")
	}
}
