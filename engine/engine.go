// Package engine implements the HTTP transport the harvest runs on. The
// crawl core only sees the Fetcher interface; connection handling, TLS
// fingerprinting, retry/backoff on transient upstream failures, politeness
// rate limiting, and response caching all live behind it.
package engine

import (
	"bytes"
	"context"

	"github.com/PuerkitoBio/goquery"
)

// Fetcher retrieves one page. Implementations must be safe for concurrent
// use; the harvester fans out many fetches at once.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Page, error)
}

// Page is a fetched HTML page.
type Page struct {
	// URL is the requested URL.
	URL string

	// FinalURL is the effective URL after redirects.
	FinalURL string

	// StatusCode is the HTTP status of the final response.
	StatusCode int

	// Body is the raw response body.
	Body []byte
}

// Document parses the page body into a goquery document rooted at the
// final URL.
func (p *Page) Document() (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(bytes.NewReader(p.Body))
}
