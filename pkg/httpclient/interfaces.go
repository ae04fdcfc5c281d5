package httpclient

import (
	"context"
	"net/url"
)

// Request describes a single GET call.
type Request struct {
	URL     string
	Query   url.Values
	Headers map[string]string
}

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
	IsSuccess() bool
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
type Client interface {
	Get(ctx context.Context, req Request) (Response, error)
}
