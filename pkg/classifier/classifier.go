// Package classifier decides whether an article belongs to the football feed.
//
// Two independent gates run over an article's title and description: a
// denylist of adjacent-sport vocabulary that always excludes, and an optional
// confirmation set that must match at least once. Matching is case-insensitive
// substring search and favours precision; valid articles that happen to
// mention "cycling" or "NFL" are dropped.
package classifier

import (
	"strings"

	"github.com/PaulGreetham/football-insight/internal/domain"
)

// Classifier holds the two keyword predicates.
type Classifier interface {
	IsOnTopic(a domain.Article, required KeywordSet) bool
	IsExcluded(a domain.Article, denylist KeywordSet) bool
}

// KeywordSet is a normalised (lower-cased, trimmed, de-duplicated) term list.
type KeywordSet struct {
	terms []string
}

// NewKeywordSet normalises terms. Blank entries are ignored.
func NewKeywordSet(terms ...string) KeywordSet {
	seen := make(map[string]struct{}, len(terms))
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return KeywordSet{terms: out}
}

// Empty reports whether the set has no terms.
func (k KeywordSet) Empty() bool { return len(k.terms) == 0 }

// Len returns the number of terms.
func (k KeywordSet) Len() int { return len(k.terms) }

// Terms returns a copy of the normalised terms.
func (k KeywordSet) Terms() []string {
	return append([]string(nil), k.terms...)
}

// Match returns the first term contained in text, which must already be lower-case.
func (k KeywordSet) Match(text string) (string, bool) {
	for _, t := range k.terms {
		if strings.Contains(text, t) {
			return t, true
		}
	}
	return "", false
}

// Substring is the default Classifier.
type Substring struct{}

// IsOnTopic reports whether the article text contains any required term.
func (Substring) IsOnTopic(a domain.Article, required KeywordSet) bool {
	_, ok := required.Match(strings.ToLower(a.Text()))
	return ok
}

// IsExcluded reports whether the article text contains any denylisted term.
func (Substring) IsExcluded(a domain.Article, denylist KeywordSet) bool {
	_, ok := denylist.Match(strings.ToLower(a.Text()))
	return ok
}

// Retain applies both gates: the article must not be excluded, and when
// confirm is non-empty it must also be on topic.
func Retain(c Classifier, a domain.Article, confirm, deny KeywordSet) bool {
	if c.IsExcluded(a, deny) {
		return false
	}
	if confirm.Empty() {
		return true
	}
	return c.IsOnTopic(a, confirm)
}
