package feed

import (
	"errors"
	"strings"

	"github.com/PaulGreetham/football-insight/internal/domain"
	"github.com/PaulGreetham/football-insight/pkg/gnews"
)

// Origin tells live content apart from the fallback catalog.
type Origin string

const (
	OriginLive     Origin = "live"
	OriginFallback Origin = "fallback"
)

// Reason explains a fallback result.
type Reason string

const (
	ReasonNoAPIKey  Reason = "no_api_key"
	ReasonExhausted Reason = "exhausted"
)

// Result is what FetchContent returns.
type Result struct {
	Articles   []domain.Article `json:"articles"`
	Origin     Origin           `json:"origin"`
	Reason     Reason           `json:"reason,omitempty"`
	Strategies []StrategyReport `json:"strategies,omitempty"`
}

// Live reports whether the articles came from the upstream API.
func (r Result) Live() bool { return r.Origin == OriginLive }

// StrategyReport summarises one strategy's contribution.
type StrategyReport struct {
	ID             string `json:"strategy_id"`
	Fetched        int    `json:"fetched"`
	Kept           int    `json:"kept"`
	Err            string `json:"error,omitempty"`
	QuotaExhausted bool   `json:"quota_exhausted,omitempty"`
	TimedOut       bool   `json:"timed_out,omitempty"`
}

var quotaVocabulary = []string{
	"rate limit",
	"quota exceeded",
	"too many requests",
	"api limit",
	"daily limit",
	"monthly limit",
	"requests per",
	"usage limit",
}

// IsQuotaMessage reports whether text reads like a rate or usage limit error.
func IsQuotaMessage(text string) bool {
	text = strings.ToLower(text)
	for _, msg := range quotaVocabulary {
		if strings.Contains(text, msg) {
			return true
		}
	}
	return false
}

// IsQuotaExhausted inspects an upstream failure; API error bodies are checked
// as well as the error text.
func IsQuotaExhausted(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *gnews.APIError
	if errors.As(err, &apiErr) && IsQuotaMessage(apiErr.Body) {
		return true
	}
	return IsQuotaMessage(err.Error())
}
