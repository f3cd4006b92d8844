// Package server exposes a loaded master table and its views as a read-only
// JSON API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/influencer-kpi/internal/insight"
	"github.com/sells-group/influencer-kpi/internal/model"
)

// Snapshot is the immutable data served by the API. Requests filter and
// re-aggregate it independently.
type Snapshot struct {
	RunID    string
	Master   []model.MasterRow
	Tracking []model.Tracking
	// Seed fixes Monitor sampling per request; 0 samples from a
	// time-seeded source.
	Seed int64
}

// Options configures the HTTP layer.
type Options struct {
	AllowedOrigins []string
}

// Server serves a Snapshot.
type Server struct {
	snap Snapshot
	opts Options
}

// New creates a Server for snap.
func New(snap Snapshot, opts Options) *Server {
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	return &Server{snap: snap, opts: opts}
}

// Handler returns the API router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/master", s.report(func(w http.ResponseWriter, r *http.Request, rep insight.Report) {
			rows, err := page(r, rep.Master)
			if err != nil {
				writeError(w, http.StatusBadRequest, err)
				return
			}
			writeJSON(w, http.StatusOK, rows)
		}))
		r.Get("/platforms", s.view(func(rep insight.Report) any { return rep.Platforms }))
		r.Get("/personas", s.view(func(rep insight.Report) any { return rep.Personas }))
		r.Get("/categories", s.view(func(rep insight.Report) any { return rep.Categories }))
		r.Get("/products", s.view(func(rep insight.Report) any { return rep.Products }))
		r.Get("/actions", s.view(func(rep insight.Report) any { return rep.Actions }))
		r.Get("/summary", s.view(func(rep insight.Report) any {
			return summaryResponse{
				RunID:       s.snap.RunID,
				Influencers: len(rep.Master),
				Executive:   rep.Executive,
			}
		}))
	})

	return r
}

type summaryResponse struct {
	RunID       string              `json:"run_id,omitempty"`
	Influencers int                 `json:"influencers"`
	Executive   model.ExecutiveKPIs `json:"executive"`
}

type reportHandler func(w http.ResponseWriter, r *http.Request, rep insight.Report)

// report parses the request filter, builds the filtered report and hands it
// to h.
func (s *Server) report(h reportHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := ParseFilter(r.URL.Query())
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		var rnd *rand.Rand
		if s.snap.Seed != 0 {
			rnd = rand.New(rand.NewSource(s.snap.Seed)) //nolint:gosec
		}
		h(w, r, insight.Build(s.snap.Master, s.snap.Tracking, f, rnd))
	}
}

func (s *Server) view(pick func(insight.Report) any) http.HandlerFunc {
	return s.report(func(w http.ResponseWriter, _ *http.Request, rep insight.Report) {
		writeJSON(w, http.StatusOK, pick(rep))
	})
}

// page applies optional limit and offset query parameters.
func page(r *http.Request, rows []model.MasterRow) ([]model.MasterRow, error) {
	q := r.URL.Query()
	offset, err := intParam(q.Get("offset"), 0)
	if err != nil {
		return nil, eris.Wrap(err, "server: offset")
	}
	limit, err := intParam(q.Get("limit"), len(rows))
	if err != nil {
		return nil, eris.Wrap(err, "server: limit")
	}
	if offset >= len(rows) {
		return []model.MasterRow{}, nil
	}
	rows = rows[offset:]
	if limit < len(rows) {
		rows = rows[:limit]
	}
	return rows, nil
}

func intParam(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, eris.Wrapf(err, "invalid integer %q", v)
	}
	if n < 0 {
		return 0, eris.Errorf("negative value %d", n)
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Debug("server: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		zap.L().Debug("server: request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

// ResolvePort prefers the flag value over the configured port.
func ResolvePort(flagPort, configPort int) int {
	if flagPort != 0 {
		return flagPort
	}
	return configPort
}

// Start serves h on port until ctx is cancelled, then shuts down gracefully.
func Start(ctx context.Context, h http.Handler, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- eris.Wrap(err, "server: listen")
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	zap.L().Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return eris.Wrap(err, "server: shutdown")
	}
	return <-errCh
}
