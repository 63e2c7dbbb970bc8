// Package http exposes the JSON API: auth, transactions and reports.
package http

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/auth"
	"fintrack/internal/cache"
	"fintrack/internal/config"
	"fintrack/internal/core"
	"fintrack/internal/report"
)

// JobPublisher ships background jobs to the worker queue.
type JobPublisher interface {
	Publish(ctx context.Context, job *amqp.Job) error
}

type Server struct {
	http.Server
	store   core.Store
	auth    *auth.Manager
	reports *report.Assembler
	queue   JobPublisher
	otpTTL  time.Duration

	allowedOrigins []string
	trustProxy     bool
	rateLimiter    *rateLimiter

	// Assembled reports, keyed userID/kind/anchor. Invalidated per user
	// on every transaction write.
	reportCache *cache.LRUCache[*report.Report]

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server. queue may be nil; registration then fails closed on the
// OTP mail step.
func NewServer(cfg *config.Config, store core.Store, authMgr *auth.Manager, reports *report.Assembler, queue JobPublisher) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		store:          store,
		auth:           authMgr,
		reports:        reports,
		queue:          queue,
		otpTTL:         cfg.OTPTTL,
		allowedOrigins: cfg.AllowedOrigins,
		trustProxy:     cfg.TrustProxyHeaders,
		rateLimiter:    newRateLimiter(),
		reportCache:    cache.NewLRUCache[*report.Report](500, 5*time.Minute),
	}

	mux.HandleFunc("GET /api/health", handleHealth)
	mux.HandleFunc("OPTIONS /api/", s.handlePreflight)

	mux.HandleFunc("POST /api/auth/register", s.withRequest(s.handleRegister))
	mux.HandleFunc("POST /api/auth/verify-otp", s.withRequest(s.handleVerifyOTP))
	mux.HandleFunc("POST /api/auth/login", s.withRequest(s.handleLogin))
	mux.HandleFunc("GET /api/auth/profile/{id}", s.withRequest(s.requireAuth(s.handleProfile)))

	mux.HandleFunc("GET /api/transactions", s.withRequest(s.requireAuth(s.handleListTransactions)))
	mux.HandleFunc("POST /api/transactions", s.withRequest(s.requireAuth(s.handleCreateTransaction)))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.withRequest(s.requireAuth(s.handleDeleteTransaction)))

	mux.HandleFunc("GET /api/reports/daily", s.withRequest(s.requireAuth(s.handleReport("daily"))))
	mux.HandleFunc("GET /api/reports/weekly", s.withRequest(s.requireAuth(s.handleReport("weekly"))))
	mux.HandleFunc("GET /api/reports/monthly", s.withRequest(s.requireAuth(s.handleReport("monthly"))))
	mux.HandleFunc("GET /api/reports/annual", s.withRequest(s.requireAuth(s.handleReport("annual"))))
	mux.HandleFunc("GET /api/reports/{kind}/export", s.withRequest(s.requireAuth(s.handleReportExport)))

	return s
}

// Shutdown stops the server and its background cleanup.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handlePreflight(w http.ResponseWriter, r *http.Request) {
	s.applyCORS(w, r)
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) applyCORS(w http.ResponseWriter, r *http.Request) {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return
	}
	for _, allowed := range s.allowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
			return
		}
	}
}
