// Package web implements the json api of the job dashboard
package web

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/didip/tollbooth/v8"
	"github.com/didip/tollbooth/v8/limiter"
	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"

	"github.com/umputun/jobdash/app/dashboard"
	"github.com/umputun/jobdash/app/jobs"
)

// route paths used to build live poll links
const (
	jobsPath     = "/api/v1/jobs"
	overviewPath = "/api/v1/overview"
)

// Server represents the web server
type Server struct {
	svc          Dashboard
	baseURL      string // base URL path for reverse proxy (e.g., /jobs), empty for root
	version      string
	authUser     string
	passwordHash string           // bcrypt hash for basic auth of mutating routes
	limiter      *limiter.Limiter // rate limiter of mutating routes
}

//go:generate moq -out mocks/dashboard.go -pkg mocks -skip-ensure -fmt goimports . Dashboard

// Dashboard defines the dashboard operations served over http, implemented by dashboard.Service
type Dashboard interface {
	Overview(ctx context.Context, v dashboard.View) dashboard.Overview
	View(ctx context.Context, v dashboard.View, offset int) (dashboard.ViewResult, error)
	Job(ctx context.Context, id string) (jobs.Record, error)
	DeleteJob(ctx context.Context, id string) error
	RequeueJob(ctx context.Context, id string) error
	RequeueBucket(ctx context.Context, bucket jobs.Bucket) (int, error)
	ClearBucket(ctx context.Context, bucket jobs.Bucket) (int, error)
}

// Config holds server configuration
type Config struct {
	BaseURL      string  // base URL path for reverse proxy (e.g., /jobs), empty for root
	Version      string  // reported by app-info middleware
	AuthUser     string  // basic auth user, "jobdash" if not set
	PasswordHash string  // bcrypt hash for basic auth (empty to disable)
	MutationRate float64 // mutating requests per second per client, 10 if not set
}

// New creates a new web server
func New(svc Dashboard, cfg Config) (*Server, error) {
	if svc == nil {
		return nil, fmt.Errorf("web server initialization failed: dashboard is required")
	}
	if cfg.BaseURL != "" && (!strings.HasPrefix(cfg.BaseURL, "/") || strings.HasSuffix(cfg.BaseURL, "/")) {
		return nil, fmt.Errorf("web server initialization failed: base url %q should start and not end with /", cfg.BaseURL)
	}
	if cfg.AuthUser == "" {
		cfg.AuthUser = "jobdash"
	}
	if cfg.MutationRate <= 0 {
		cfg.MutationRate = 10
	}

	lmt := tollbooth.NewLimiter(cfg.MutationRate, &limiter.ExpirableOptions{DefaultExpirationTTL: time.Hour})
	lmt.SetIPLookup(limiter.IPLookup{Name: "RemoteAddr"})
	lmt.SetBurst(max(int(cfg.MutationRate), 1))
	lmt.SetMessage(`{"error":"too many requests"}`)
	lmt.SetMessageContentType("application/json")

	return &Server{
		svc:          svc,
		baseURL:      cfg.BaseURL,
		version:      cfg.Version,
		authUser:     cfg.AuthUser,
		passwordHash: cfg.PasswordHash,
		limiter:      lmt,
	}, nil
}

// Run starts the web server and blocks until ctx is canceled
func (s *Server) Run(ctx context.Context, address string) error {
	server := &http.Server{
		Addr:              address,
		Handler:           s.handler(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] failed to shutdown server: %v", err)
		}
	}()

	log.Printf("[INFO] starting web server on %s", address)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("web server failed: %w", err)
	}
	return nil
}

// handler returns the http.Handler with base URL wrapping applied
func (s *Server) handler() http.Handler {
	routes := s.routes()
	if s.baseURL == "" {
		return routes
	}
	mux := http.NewServeMux()
	mux.Handle(s.baseURL+"/", http.StripPrefix(s.baseURL, routes))
	return mux
}

// routes returns the http.Handler with all routes configured
func (s *Server) routes() http.Handler {
	router := routegroup.New(http.NewServeMux())

	router.Use(
		rest.RealIP,
		rest.Recoverer(log.Default()),
		rest.Throttle(1000),
		rest.AppInfo("jobdash", "umputun", s.version),
		rest.Ping,
		rest.SizeLimit(64*1024),
		logger.New(logger.Log(log.Default()), logger.Prefix("[DEBUG]")).Handler,
	)

	router.Mount("/api/v1").Route(func(api *routegroup.Bundle) {
		api.Use(rest.NoCache)

		api.HandleFunc("GET /overview", s.handleOverview)
		api.HandleFunc("GET /overview.poll", s.handleOverview)
		api.HandleFunc("GET /jobs/{view}", s.handleView)
		api.HandleFunc("GET /jobs/{view}/{id}", s.handleView)
		api.HandleFunc("GET /job/{id}", s.handleJob)

		api.Group().Route(func(mut *routegroup.Bundle) {
			mut.Use(tollbooth.HTTPMiddleware(s.limiter))
			if s.passwordHash != "" {
				log.Printf("[INFO] authentication enabled for mutating requests")
				mut.Use(rest.BasicAuth(s.checkAuth))
			}
			mut.HandleFunc("POST /job/{id}/requeue", s.handleRequeueJob)
			mut.HandleFunc("POST /job/{id}/remove", s.handleDeleteJob)
			mut.HandleFunc("DELETE /job/{id}", s.handleDeleteJob)
			mut.HandleFunc("POST /requeue/all", s.handleRequeueFailed)
			mut.HandleFunc("POST /failed/clear", s.handleClearFailed)
		})
	})

	return router
}
