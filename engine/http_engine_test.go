package engine

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/use-agent/aeroharvest/cache"
	"github.com/use-agent/aeroharvest/models"
)

func testConfig() HTTPConfig {
	cfg := DefaultHTTPConfig()
	cfg.ChromeTLS = false
	cfg.Retries = 3
	cfg.RetryWait = time.Millisecond
	cfg.RetryMaxWait = 5 * time.Millisecond
	return cfg
}

func TestHTTPEngine_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body>ok</body></html>")
	}))
	defer srv.Close()

	e := NewHTTPEngine(testConfig(), nil)
	page, err := e.Fetch(context.Background(), srv.URL+"/page.html")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if page.StatusCode != http.StatusOK {
		t.Errorf("status = %d", page.StatusCode)
	}
	if string(page.Body) != "<html><body>ok</body></html>" {
		t.Errorf("body = %q", page.Body)
	}
}

func TestHTTPEngine_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			http.Error(w, "upstream sad", http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, "recovered")
	}))
	defer srv.Close()

	e := NewHTTPEngine(testConfig(), nil)
	page, err := e.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch failed after transient 5xx: %v", err)
	}
	if string(page.Body) != "recovered" {
		t.Errorf("body = %q", page.Body)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("server saw %d calls, want 3", got)
	}
}

func TestHTTPEngine_TransientSignatureExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		// The edge answers 200 but with the connectivity failure text.
		fmt.Fprint(w, "<html>"+TransientSignature+"</html>")
	}))
	defer srv.Close()

	cfg := testConfig()
	e := NewHTTPEngine(cfg, nil)
	_, err := e.Fetch(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("Fetch succeeded on a persistent connectivity failure")
	}

	var herr *models.HarvestError
	if !errors.As(err, &herr) || herr.Code != models.ErrCodeFetch {
		t.Errorf("error = %v, want %s", err, models.ErrCodeFetch)
	}
	if got := calls.Load(); got != int32(cfg.Retries+1) {
		t.Errorf("server saw %d calls, want %d", got, cfg.Retries+1)
	}
}

func TestHTTPEngine_ClientErrorIsFatal(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	e := NewHTTPEngine(testConfig(), nil)
	if _, err := e.Fetch(context.Background(), srv.URL); err == nil {
		t.Fatal("Fetch succeeded on 404")
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("4xx must not be retried, server saw %d calls", got)
	}
}

func TestHTTPEngine_CacheReadThrough(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, "cached body")
	}))
	defer srv.Close()

	e := NewHTTPEngine(testConfig(), cache.New(10))

	for i := 0; i < 3; i++ {
		page, err := e.Fetch(context.Background(), srv.URL)
		if err != nil {
			t.Fatalf("Fetch %d failed: %v", i, err)
		}
		if string(page.Body) != "cached body" {
			t.Errorf("Fetch %d body = %q", i, page.Body)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Errorf("server saw %d calls, want 1 (rest from cache)", got)
	}
}

func TestHTTPEngine_BodyCap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for i := 0; i < 1024; i++ {
			fmt.Fprint(w, "0123456789")
		}
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.MaxBodySize = 100
	e := NewHTTPEngine(cfg, nil)

	page, err := e.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(page.Body) != 100 {
		t.Errorf("body length = %d, want capped at 100", len(page.Body))
	}
}
