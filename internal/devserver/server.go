// Package devserver is a development stand-in for the backlog backend. It
// serves every endpoint the API client calls from a local SQLite database.
package devserver

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/alexanderramin/autobacklog/internal/api"
	"github.com/alexanderramin/autobacklog/internal/db"
	"github.com/google/uuid"
)

const (
	maxJSONBody   = 10 << 20
	maxUploadBody = 50 << 20

	shutdownTimeout = 5 * time.Second
)

type Server struct {
	db       *sql.DB
	uow      db.UnitOfWork
	analyzer Analyzer
	logger   *slog.Logger
}

type Option func(*Server)

// WithAnalyzer replaces the default analyzer, which rejects every upload.
func WithAnalyzer(a Analyzer) Option {
	return func(s *Server) {
		if a != nil {
			s.analyzer = a
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithUnitOfWork overrides the transaction boundary used for writes.
func WithUnitOfWork(u db.UnitOfWork) Option {
	return func(s *Server) {
		if u != nil {
			s.uow = u
		}
	}
}

func New(database *sql.DB, opts ...Option) *Server {
	s := &Server{
		db:       database,
		uow:      db.NewSQLiteUnitOfWork(database),
		analyzer: unavailableAnalyzer{},
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the API routes wrapped in request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/projects/listProjects", s.handleListProjects)
	mux.HandleFunc("GET /api/projects/{id}", s.handleGetProject)
	mux.HandleFunc("POST /api/projects", s.handleCreateProject)
	mux.HandleFunc("PUT /api/projects/{id}", s.handleUpdateProject)
	mux.HandleFunc("GET /api/projects/{id}/sprints", s.handleListSprints)
	mux.HandleFunc("POST /api/projects/{id}/backlog-items", s.handleCreateItem)
	mux.HandleFunc("PUT /api/backlog-items/{id}", s.handleUpdateItem)
	mux.HandleFunc("DELETE /api/backlog-items/{id}", s.handleDeleteItem)
	mux.HandleFunc("POST /api/backlog/uploadpdf", s.handleUploadPDF)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no route for %s %s", r.Method, r.URL.Path))
	})
	return s.logRequests(mux)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully. ready, when non-nil, receives the bound address.
func (s *Server) ListenAndServe(ctx context.Context, addr string, ready func(net.Addr)) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	if ready != nil {
		ready(ln.Addr())
	}
	s.logger.Info("devserver_listening", "addr", ln.Addr().String())

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		return nil
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := r.Header.Get(api.RequestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set(api.RequestIDHeader, reqID)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		defer func() {
			if p := recover(); p != nil {
				s.logger.Error("devserver_panic", "request_id", reqID, "panic", fmt.Sprint(p))
				writeError(rec, http.StatusInternalServerError, "internal server error")
			}
			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"request_id", reqID,
				"latency_ms", time.Since(start).Milliseconds(),
			}
			if rec.status >= http.StatusInternalServerError {
				s.logger.Warn("devserver_request", attrs...)
				return
			}
			s.logger.Debug("devserver_request", attrs...)
		}()

		next.ServeHTTP(rec, r)
	})
}
