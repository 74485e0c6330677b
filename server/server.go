// Package server exposes tracking commands over REST.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/umputun/espiscope/pkg/domain"
	"github.com/umputun/espiscope/pkg/feed"
	"github.com/umputun/espiscope/pkg/scheduler"
	"github.com/umputun/espiscope/pkg/service"
)

//go:generate moq -out mocks/service.go -pkg mocks -skip-ensure -fmt goimports . Service
//go:generate moq -out mocks/scheduler.go -pkg mocks -skip-ensure -fmt goimports . Scheduler

// Server represents HTTP server instance
type Server struct {
	service   Service
	scheduler Scheduler
	feeds     *feed.Generator
	listen    string
	timeout   time.Duration
	version   string
	debug     bool

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// Service handles user commands
type Service interface {
	Track(ctx context.Context, query string) (domain.Company, error)
	Untrack(ctx context.Context, query string) (domain.Company, error)
	Resolve(ctx context.Context, query string) (service.Resolution, error)
	List(ctx context.Context) ([]domain.Company, error)
	History(ctx context.Context, query string) (domain.Company, []domain.Announcement, error)
}

// Scheduler runs poll cycles on demand and reports the last one
type Scheduler interface {
	CheckNow(ctx context.Context) (scheduler.Summary, error)
	LastRun() (scheduler.Summary, int)
}

// Params for New
type Params struct {
	Service   Service
	Scheduler Scheduler
	Listen    string
	Timeout   time.Duration
	BaseURL   string // public url for feed links
	RSSItems  int    // announcements per company feed
	Version   string
	Debug     bool
}

// New initializes a new server instance
func New(p Params) *Server {
	s := &Server{
		service:   p.Service,
		scheduler: p.Scheduler,
		feeds:     feed.NewGenerator(p.BaseURL, p.RSSItems),
		listen:    p.Listen,
		timeout:   p.Timeout,
		version:   p.Version,
		debug:     p.Debug,
		router:    routegroup.New(http.NewServeMux()),
	}
	if s.timeout == 0 {
		s.timeout = 30 * time.Second
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	log.Printf("[INFO] starting server on %s", s.listen)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:              s.listen,
		Handler:           s.router,
		ReadHeaderTimeout: s.timeout,
		WriteTimeout:      s.timeout * 4, // check-now runs a full poll cycle
	}
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		log.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}
	return nil
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("espiscope", "umputun", s.version))
	s.router.Use(rest.Ping)

	if s.debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(64 * 1024))
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	s.router.Mount("/api/v1").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /companies", s.listHandler)
		r.HandleFunc("POST /companies", s.trackHandler)
		r.HandleFunc("DELETE /companies/{query}", s.untrackHandler)
		r.HandleFunc("GET /resolve/{query}", s.resolveHandler)
		r.HandleFunc("POST /check", s.checkHandler)
		r.HandleFunc("GET /status", s.statusHandler)
	})

	s.router.HandleFunc("GET /rss/{query}", s.rssHandler)
	s.router.HandleFunc("GET /opml", s.opmlHandler)
	s.router.Handle("GET /metrics", promhttp.Handler())
}
