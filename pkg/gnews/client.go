// Package gnews is a thin client for the GNews v4 search and top-headlines API.
package gnews

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PaulGreetham/football-insight/internal/domain"
	"github.com/PaulGreetham/football-insight/internal/logger"
	"github.com/PaulGreetham/football-insight/pkg/httpclient"
)

const (
	DefaultBaseURL = "https://gnews.io/api/v4"

	searchPath    = "/search"
	headlinesPath = "/top-headlines"

	// Upper bound the API accepts for max.
	maxResults = 100
)

// ErrMissingAPIKey is returned when a call is attempted without a key.
var ErrMissingAPIKey = errors.New("gnews api key is empty")

// Query parametrises a single API call. Terms is used by Search, Category by
// Headlines.
type Query struct {
	Terms    string
	Category string
	Lang     string
	Country  string
	Max      int
}

// Response is the decoded body of a successful call.
type Response struct {
	TotalArticles int       `json:"totalArticles"`
	Articles      []Article `json:"articles"`
}

// Article is the wire shape of one result. Description and Image may be null.
type Article struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Content     string  `json:"content"`
	URL         string  `json:"url"`
	Image       *string `json:"image"`
	PublishedAt string  `json:"publishedAt"`
	Source      struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	} `json:"source"`
}

// APIError carries a non-2xx response. Body is kept verbatim so callers can
// inspect it (quota messages, for instance).
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gnews returned status %d: %s", e.StatusCode, e.Body)
}

// Client performs GNews calls. It never retries.
type Client struct {
	http    httpclient.Client
	baseURL string
	apiKey  string
	log     logger.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API root (tests, proxies).
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if b := strings.TrimRight(strings.TrimSpace(base), "/"); b != "" {
			c.baseURL = b
		}
	}
}

// WithHTTPClient swaps the transport.
func WithHTTPClient(h httpclient.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(log logger.Logger) Option {
	return func(c *Client) { c.log = logger.Ensure(log) }
}

// NewClient builds a client for the given key.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  strings.TrimSpace(apiKey),
		log:     logger.NopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = httpclient.NewRestyClient(15 * time.Second)
	}
	return c
}

// Search runs a keyword search.
func (c *Client) Search(ctx context.Context, q Query) (*Response, error) {
	if strings.TrimSpace(q.Terms) == "" {
		return nil, errors.New("gnews search requires query terms")
	}
	params := c.baseParams(q)
	params.Set("q", q.Terms)
	return c.call(ctx, searchPath, params)
}

// Headlines fetches top headlines for a category.
func (c *Client) Headlines(ctx context.Context, q Query) (*Response, error) {
	if strings.TrimSpace(q.Category) == "" {
		return nil, errors.New("gnews headlines requires a category")
	}
	params := c.baseParams(q)
	params.Set("category", q.Category)
	return c.call(ctx, headlinesPath, params)
}

func (c *Client) baseParams(q Query) url.Values {
	params := url.Values{}
	if q.Lang != "" {
		params.Set("lang", q.Lang)
	}
	if q.Country != "" {
		params.Set("country", q.Country)
	}
	if q.Max > 0 {
		params.Set("max", strconv.Itoa(min(q.Max, maxResults)))
	}
	return params
}

func (c *Client) call(ctx context.Context, path string, params url.Values) (*Response, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	endpoint := c.baseURL + path
	c.log.DebugObj("gnews request", "gnews_request", map[string]any{
		"url": endpoint + "?" + params.Encode() + "&apikey=***",
	})

	params.Set("apikey", c.apiKey)
	resp, err := c.http.Get(ctx, httpclient.Request{
		URL:     endpoint,
		Query:   params,
		Headers: map[string]string{"Accept": "application/json"},
	})
	if err != nil {
		return nil, fmt.Errorf("gnews %s: %w", path, err)
	}

	body := resp.Body()
	if !resp.IsSuccess() {
		return nil, &APIError{StatusCode: resp.StatusCode(), Body: strings.TrimSpace(string(body))}
	}

	var out Response
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode gnews %s response: %w", path, err)
	}
	return &out, nil
}

// ToArticles converts wire results into domain articles. Entries without a URL
// or with an unparseable publishedAt are skipped and reported in dropped.
func (r *Response) ToArticles() (articles []domain.Article, dropped int) {
	if r == nil {
		return nil, 0
	}
	articles = make([]domain.Article, 0, len(r.Articles))
	for _, raw := range r.Articles {
		a, ok := raw.toDomain()
		if !ok {
			dropped++
			continue
		}
		articles = append(articles, a)
	}
	return articles, dropped
}

func (a Article) toDomain() (domain.Article, bool) {
	link := strings.TrimSpace(a.URL)
	if link == "" {
		return domain.Article{}, false
	}
	published, err := time.Parse(time.RFC3339, strings.TrimSpace(a.PublishedAt))
	if err != nil {
		return domain.Article{}, false
	}
	return domain.Article{
		Title:       strings.TrimSpace(a.Title),
		Description: strings.TrimSpace(deref(a.Description)),
		Body:        a.Content,
		URL:         link,
		ImageURL:    strings.TrimSpace(deref(a.Image)),
		PublishedAt: published,
		Source: domain.Source{
			Name: a.Source.Name,
			URL:  a.Source.URL,
		},
	}, true
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
