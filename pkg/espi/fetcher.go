package espi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/sony/gobreaker"
	"golang.org/x/net/html/charset"

	"github.com/umputun/espiscope/pkg/domain"
)

const maxBodySize = 10 * 1024 * 1024

// Fetcher downloads company pages and parses announcements. All company pages go through one circuit breaker,
// they live on the same host and an outage there fails all of them. Detail pages have a breaker of their own.
type Fetcher struct {
	client    *http.Client
	userAgent string
	breaker   *gobreaker.CircuitBreaker // company pages
	details   *gobreaker.CircuitBreaker // announcement detail pages, excerpts only
	now       func() time.Time
}

// FetcherConfig defines fetcher parameters
type FetcherConfig struct {
	Timeout   time.Duration
	UserAgent string
	Breaker   BreakerConfig
}

// BreakerConfig defines when the circuit breaker opens. Zero values use defaults.
type BreakerConfig struct {
	MaxRequests      uint32        // requests allowed in half-open state
	Interval         time.Duration // closed state counts reset period
	Timeout          time.Duration // open state duration
	FailureThreshold float64       // failure ratio to trip
	MinRequests      uint32        // requests before ratio is checked
}

// NewFetcher makes fetcher with http client timeout and circuit breaker
func NewFetcher(cfg FetcherConfig) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "Mozilla/5.0 (compatible; espiscope/1.0)"
	}
	bc := cfg.Breaker
	if bc.MaxRequests == 0 {
		bc.MaxRequests = 3
	}
	if bc.Interval == 0 {
		bc.Interval = 60 * time.Second
	}
	if bc.Timeout == 0 {
		bc.Timeout = 5 * time.Minute
	}
	if bc.FailureThreshold == 0 {
		bc.FailureThreshold = 0.8
	}
	if bc.MinRequests == 0 {
		bc.MinRequests = 5
	}

	return &Fetcher{
		client: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		userAgent: cfg.UserAgent,
		now:       time.Now,
		breaker:   newBreaker("espi", bc),
		details:   newBreaker("espi-details", bc),
	}
}

func newBreaker(name string, bc BreakerConfig) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:         name,
		MaxRequests:  bc.MaxRequests,
		Interval:     bc.Interval,
		Timeout:      bc.Timeout,
		IsSuccessful: isBreakerSuccess,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < bc.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= bc.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			lgr.Printf("[WARN] circuit breaker %s changed from %s to %s", name, from, to)
		},
	})
}

// isBreakerSuccess treats client errors as a healthy host, a missing page says nothing about an outage.
// 429 still counts as failure.
func isBreakerSuccess(err error) bool {
	var he *HTTPError
	if errors.As(err, &he) && he.StatusCode >= 400 && he.StatusCode < 500 && he.StatusCode != http.StatusTooManyRequests {
		return true
	}
	return err == nil
}

// Fetch returns announcements from the company page in page order, newest first.
// Errors are *HTTPError or *ParseError, both match domain.ErrFetchFailed.
func (f *Fetcher) Fetch(ctx context.Context, sourceRef string) ([]domain.Announcement, error) {
	pageURL := PageURL(sourceRef, f.now())
	body, err := f.get(ctx, f.breaker, pageURL)
	if err != nil {
		return nil, err
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, &ParseError{URL: pageURL, Reason: "invalid page url", Err: err}
	}
	return parseAnnouncements(base, bytes.NewReader(body))
}

// get downloads page body through the circuit breaker
func (f *Fetcher) get(ctx context.Context, cb *gobreaker.CircuitBreaker, pageURL string) ([]byte, error) {
	res, err := cb.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
		if err != nil {
			return nil, &HTTPError{URL: pageURL, Err: fmt.Errorf("create request: %w", err)}
		}
		req.Header.Set("User-Agent", f.userAgent)
		addBrowserHeaders(req)

		resp, err := f.client.Do(req)
		if err != nil {
			return nil, &HTTPError{URL: pageURL, Err: err}
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))
			return nil, &HTTPError{URL: pageURL, StatusCode: resp.StatusCode}
		}

		// older ESPI pages are served in iso-8859-2, goquery expects utf-8
		utf8Body, err := charset.NewReader(io.LimitReader(resp.Body, maxBodySize), resp.Header.Get("Content-Type"))
		if err != nil {
			return nil, &HTTPError{URL: pageURL, Err: fmt.Errorf("detect charset: %w", err)}
		}
		body, err := io.ReadAll(utf8Body)
		if err != nil {
			return nil, &HTTPError{URL: pageURL, Err: fmt.Errorf("read body: %w", err)}
		}
		return body, nil
	})
	if err != nil {
		if _, ok := err.(*HTTPError); ok { //nolint:errorlint // breaker returns our error as is
			return nil, err
		}
		// open or half-open breaker rejected the call
		return nil, &HTTPError{URL: pageURL, Err: err}
	}
	return res.([]byte), nil
}
