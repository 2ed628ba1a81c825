package engine

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	tls "github.com/refraction-networking/utls"
	"golang.org/x/time/rate"

	"github.com/use-agent/aeroharvest/cache"
	"github.com/use-agent/aeroharvest/metrics"
	"github.com/use-agent/aeroharvest/models"
)

// TransientSignature is the upstream connectivity error the site's edge
// returns intermittently. Responses or transport errors carrying it are
// retried with backoff; anything else fails the fetch outright.
const TransientSignature = "Unable to connect to the remote server"

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36"

// HTTPConfig controls the HTTP engine.
type HTTPConfig struct {
	// UserAgent overrides the default browser-like User-Agent.
	UserAgent string

	// Timeout is the per-request deadline.
	Timeout time.Duration

	// Retries is the number of retry attempts on transient failures.
	Retries int

	// RetryWait and RetryMaxWait bound the backoff between attempts.
	RetryWait    time.Duration
	RetryMaxWait time.Duration

	// RequestsPerSecond throttles outgoing requests. 0 disables the limiter.
	RequestsPerSecond float64

	// ChromeTLS dials TLS with a Chrome ClientHello instead of Go's.
	ChromeTLS bool

	// MaxBodySize caps how much of a response body is read.
	MaxBodySize int64

	// CacheTTL is how long cached responses stay valid. Only used when a
	// cache is attached.
	CacheTTL time.Duration
}

// DefaultHTTPConfig returns the engine defaults.
func DefaultHTTPConfig() HTTPConfig {
	return HTTPConfig{
		UserAgent:         defaultUserAgent,
		Timeout:           30 * time.Second,
		Retries:           3,
		RetryWait:         500 * time.Millisecond,
		RetryMaxWait:      5 * time.Second,
		RequestsPerSecond: 0,
		ChromeTLS:         true,
		MaxBodySize:       10 << 20,
		CacheTTL:          time.Hour,
	}
}

// HTTPEngine fetches pages over plain HTTP(S) with a browser-like profile.
// Retry on the transient connectivity signature and 5xx statuses is handled
// here so the crawl core never sees a recoverable failure.
type HTTPEngine struct {
	client    *resty.Client
	limiter   *rate.Limiter
	pageCache *cache.Cache
	cacheTTL  time.Duration
}

// chromeH1Spec is a Chrome-like TLS ClientHello with ALPN forced to
// http/1.1 only. Computed once at init time and reused for every connection.
var chromeH1Spec tls.ClientHelloSpec

func init() {
	spec, err := tls.UTLSIdToSpec(tls.HelloChrome_Auto)
	if err != nil {
		return
	}
	// Replace h2 with http/1.1 only in the ALPN extension so the server
	// never negotiates HTTP/2, which Go's http.Transport cannot handle
	// over a utls connection.
	for i, ext := range spec.Extensions {
		if alpn, ok := ext.(*tls.ALPNExtension); ok {
			alpn.AlpnProtocols = []string{"http/1.1"}
			spec.Extensions[i] = alpn
			break
		}
	}
	chromeH1Spec = spec
}

// NewHTTPEngine builds the engine. pageCache may be nil to fetch
// uncached.
func NewHTTPEngine(cfg HTTPConfig, pageCache *cache.Cache) *HTTPEngine {
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.MaxBodySize <= 0 {
		cfg.MaxBodySize = 10 << 20
	}

	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8").
		SetHeader("Accept-Language", "en-US,en;q=0.9").
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(10)).
		SetRetryCount(cfg.Retries).
		SetRetryWaitTime(cfg.RetryWait).
		SetRetryMaxWaitTime(cfg.RetryMaxWait).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return isTransient(r, err)
		})

	var transport http.RoundTripper = &http.Transport{ForceAttemptHTTP2: false}
	if cfg.ChromeTLS {
		transport = newChromeTransport()
	}
	client.SetTransport(&bodyCapTransport{rt: transport, max: cfg.MaxBodySize})

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &HTTPEngine{
		client:    client,
		limiter:   limiter,
		pageCache: pageCache,
		cacheTTL:  cfg.CacheTTL,
	}
}

// Fetch retrieves a page, serving from the cache when possible. A response
// that still fails after the retry budget is exhausted comes back as a
// FETCH_FAILED error, which is fatal to the crawl.
func (e *HTTPEngine) Fetch(ctx context.Context, url string) (*Page, error) {
	if e.pageCache != nil {
		if body, ok := e.pageCache.Get(cache.Key(url), e.cacheTTL); ok {
			return &Page{URL: url, FinalURL: url, StatusCode: http.StatusOK, Body: body}, nil
		}
	}

	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	resp, err := e.client.R().SetContext(ctx).Get(url)
	metrics.FetchDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		return nil, models.NewHarvestError(models.ErrCodeFetch, fmt.Sprintf("get %s", url), err)
	}
	if resp.StatusCode() >= 400 {
		return nil, models.NewHarvestError(
			models.ErrCodeFetch,
			fmt.Sprintf("get %s: HTTP %d", url, resp.StatusCode()),
			nil,
		)
	}

	body := resp.Body()
	if bytes.Contains(body, []byte(TransientSignature)) {
		// Retries exhausted and the edge is still refusing upstream.
		return nil, models.NewHarvestError(
			models.ErrCodeFetch,
			fmt.Sprintf("get %s: upstream connectivity failure", url),
			nil,
		)
	}

	finalURL := url
	if ru := resp.RawResponse; ru != nil && ru.Request != nil && ru.Request.URL != nil {
		finalURL = ru.Request.URL.String()
	}

	page := &Page{
		URL:        url,
		FinalURL:   finalURL,
		StatusCode: resp.StatusCode(),
		Body:       body,
	}

	if e.pageCache != nil {
		e.pageCache.Set(cache.Key(url), body)
	}
	return page, nil
}

// isTransient reports whether a response or transport error matches the
// retry trigger: the connectivity signature or a server-side 5xx.
func isTransient(r *resty.Response, err error) bool {
	if err != nil {
		return strings.Contains(err.Error(), TransientSignature)
	}
	if r == nil {
		return false
	}
	if r.StatusCode() >= 500 {
		return true
	}
	return bytes.Contains(r.Body(), []byte(TransientSignature))
}

// newChromeTransport dials TLS with the pre-computed Chrome ClientHello.
func newChromeTransport() *http.Transport {
	return &http.Transport{
		DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			dialer := &net.Dialer{Timeout: 10 * time.Second}
			conn, err := dialer.DialContext(ctx, network, addr)
			if err != nil {
				return nil, err
			}
			host, _, _ := net.SplitHostPort(addr)
			tlsConn := tls.UClient(conn, &tls.Config{ServerName: host}, tls.HelloCustom)
			if err := tlsConn.ApplyPreset(&chromeH1Spec); err != nil {
				conn.Close()
				return nil, fmt.Errorf("engine: apply tls spec: %w", err)
			}
			if err := tlsConn.HandshakeContext(ctx); err != nil {
				conn.Close()
				return nil, err
			}
			return tlsConn, nil
		},
		ForceAttemptHTTP2: false,
	}
}

// bodyCapTransport limits how much of any response body can be read.
type bodyCapTransport struct {
	rt  http.RoundTripper
	max int64
}

func (t *bodyCapTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.rt.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	resp.Body = &cappedBody{Reader: io.LimitReader(resp.Body, t.max), closer: resp.Body}
	return resp, nil
}

type cappedBody struct {
	io.Reader
	closer io.Closer
}

func (b *cappedBody) Close() error { return b.closer.Close() }
