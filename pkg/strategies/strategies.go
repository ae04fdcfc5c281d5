// Package strategies holds the query strategies the aggregator fans out to,
// loaded from YAML/JSON or taken from the built-in defaults.
package strategies

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PaulGreetham/football-insight/pkg/classifier"
	"github.com/PaulGreetham/football-insight/pkg/configfile"
)

const (
	// Supported strategy modes.
	ModeSearch    = "search"
	ModeHeadlines = "headlines"

	defaultLang = "en"
	defaultMax  = 100
)

// Strategy is one named search configuration contributing to the feed.
type Strategy struct {
	ID              string   `json:"id" yaml:"id"`
	Name            string   `json:"name" yaml:"name"`
	Mode            string   `json:"mode" yaml:"mode"`
	Query           string   `json:"query" yaml:"query"`
	Category        string   `json:"category" yaml:"category"`
	Lang            string   `json:"lang" yaml:"lang"`
	Country         string   `json:"country" yaml:"country"`
	Max             int      `json:"max" yaml:"max"`
	ConfirmSet      string   `json:"confirm_set" yaml:"confirm_set"`
	ConfirmKeywords []string `json:"confirm_keywords" yaml:"confirm_keywords"`
	Enabled         *bool    `json:"enabled" yaml:"enabled"`
	TimeoutSeconds  int      `json:"timeout_seconds" yaml:"timeout_seconds"`
}

type configFile struct {
	Strategies []Strategy `json:"strategies" yaml:"strategies"`
}

// Registry is an ordered, validated set of strategies. Order matters: it is
// the concatenation order the aggregator merges in.
type Registry struct {
	mu         sync.RWMutex
	strategies []Strategy
	idx        map[string]Strategy
}

// Defaults returns the three built-in strategies in merge order.
func Defaults() []Strategy {
	return []Strategy{
		{
			ID:         "transfers",
			Name:       "Transfer news",
			Mode:       ModeSearch,
			Query:      `football transfer OR soccer transfer OR "transfer window"`,
			ConfirmSet: classifier.SetTransfer,
		},
		{
			ID:    "global",
			Name:  "Global football",
			Mode:  ModeSearch,
			Query: `football OR soccer OR "Premier League" OR "Champions League"`,
		},
		{
			ID:         "headlines",
			Name:       "Sports headlines",
			Mode:       ModeHeadlines,
			Category:   "sports",
			ConfirmSet: classifier.SetFootball,
		},
	}
}

// DefaultRegistry builds a registry from Defaults.
func DefaultRegistry() *Registry {
	reg, err := NewRegistry(Defaults())
	if err != nil {
		panic(fmt.Sprintf("built-in strategies invalid: %v", err))
	}
	return reg
}

// NewRegistry sanitizes and validates the given strategies.
func NewRegistry(list []Strategy) (*Registry, error) {
	if len(list) == 0 {
		return nil, errors.New("no strategies configured")
	}

	reg := &Registry{
		strategies: make([]Strategy, len(list)),
		idx:        make(map[string]Strategy, len(list)),
	}
	for i := range list {
		s := sanitizeStrategy(list[i])
		if err := validateStrategy(s); err != nil {
			return nil, fmt.Errorf("strategies[%d]: %w", i, err)
		}
		if _, exists := reg.idx[s.ID]; exists {
			return nil, fmt.Errorf("duplicate strategy id %q", s.ID)
		}
		reg.strategies[i] = s
		reg.idx[s.ID] = s
	}
	return reg, nil
}

// LoadRegistry loads strategies from a YAML/JSON file. An empty path yields
// the built-in defaults.
func LoadRegistry(path string) (*Registry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return DefaultRegistry(), nil
	}

	var cfg configFile
	if err := configfile.Load(path, &cfg); err != nil {
		return nil, fmt.Errorf("load strategies file: %w", err)
	}
	if len(cfg.Strategies) == 0 {
		return nil, errors.New("strategies file contains no strategies entries")
	}
	return NewRegistry(cfg.Strategies)
}

func sanitizeStrategy(s Strategy) Strategy {
	s.ID = strings.TrimSpace(s.ID)
	s.Name = strings.TrimSpace(s.Name)
	s.Mode = strings.ToLower(strings.TrimSpace(s.Mode))
	s.Query = strings.TrimSpace(s.Query)
	s.Category = strings.ToLower(strings.TrimSpace(s.Category))
	s.Lang = strings.ToLower(strings.TrimSpace(s.Lang))
	s.Country = strings.ToLower(strings.TrimSpace(s.Country))
	s.ConfirmSet = strings.ToLower(strings.TrimSpace(s.ConfirmSet))

	if s.Name == "" {
		s.Name = s.ID
	}
	if s.Lang == "" {
		s.Lang = defaultLang
	}
	if s.Max <= 0 {
		s.Max = defaultMax
	}
	if s.Enabled == nil {
		def := true
		s.Enabled = &def
	}
	return s
}

func validateStrategy(s Strategy) error {
	if s.ID == "" {
		return errors.New("id is required")
	}
	switch s.Mode {
	case ModeSearch:
		if s.Query == "" {
			return fmt.Errorf("query is required for search strategy %q", s.ID)
		}
	case ModeHeadlines:
		if s.Category == "" {
			return fmt.Errorf("category is required for headlines strategy %q", s.ID)
		}
	case "":
		return fmt.Errorf("mode is required for strategy %q", s.ID)
	default:
		return fmt.Errorf("unsupported mode %q for strategy %q", s.Mode, s.ID)
	}
	if s.ConfirmSet != "" {
		if _, ok := classifier.NamedSet(s.ConfirmSet); !ok {
			return fmt.Errorf("unknown confirm_set %q for strategy %q", s.ConfirmSet, s.ID)
		}
	}
	return nil
}

// Confirm returns the topic-confirmation keywords for the strategy: the named
// set (if any) plus explicit terms. Empty means no positive check.
func (s Strategy) Confirm() classifier.KeywordSet {
	var terms []string
	if set, ok := classifier.NamedSet(s.ConfirmSet); ok {
		terms = append(terms, set.Terms()...)
	}
	terms = append(terms, s.ConfirmKeywords...)
	return classifier.NewKeywordSet(terms...)
}

// EnabledValue returns enabled flag defaulting to true.
func (s Strategy) EnabledValue() bool {
	if s.Enabled == nil {
		return true
	}
	return *s.Enabled
}

// Timeout returns the strategy deadline, or fallback when none is set.
func (s Strategy) Timeout(fallback time.Duration) time.Duration {
	if s.TimeoutSeconds > 0 {
		return time.Duration(s.TimeoutSeconds) * time.Second
	}
	return fallback
}

// ByID returns the strategy by id.
func (r *Registry) ByID(id string) (Strategy, bool) {
	if r == nil {
		return Strategy{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.idx[strings.TrimSpace(id)]
	return s, ok
}

// All returns every configured strategy in order.
func (r *Registry) All() []Strategy {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Strategy, len(r.strategies))
	copy(out, r.strategies)
	return out
}

// Enabled returns the enabled strategies in order.
func (r *Registry) Enabled() []Strategy {
	all := r.All()
	out := make([]Strategy, 0, len(all))
	for _, s := range all {
		if s.EnabledValue() {
			out = append(out, s)
		}
	}
	return out
}
