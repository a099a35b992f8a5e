// Package web serves the browser surface: transcript upload, category
// selection, and downloadable HTML reports.
package web

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/hurttlocker/chatsift/internal/llm"
)

// maxUploadBytes caps request bodies; chat exports past 16MB are
// rejected before parsing.
const maxUploadBytes = 16 << 20

// Config holds web server settings.
type Config struct {
	ArtifactDir string     // where generated reports land (default os.TempDir())
	LLM         llm.Config // refinement provider settings
	ChunkSize   int        // candidates per refinement request (0 = library default)
	DaysBack    int        // default days-back window for uploads (0 = 7)
}

// Server handles transcript analysis requests.
type Server struct {
	cfg      Config
	provider llm.Provider // nil = pattern-level reports only
}

// New creates a Server. When the LLM provider cannot be constructed
// (usually a missing API key) the server still runs and produces
// pattern-level reports instead of refined ones.
func New(cfg Config) *Server {
	if cfg.ArtifactDir == "" {
		cfg.ArtifactDir = os.TempDir()
	}
	if cfg.DaysBack == 0 {
		cfg.DaysBack = 7
	}

	s := &Server{cfg: cfg}
	provider, err := llm.NewProvider(cfg.LLM)
	if err != nil {
		log.Printf("WARN: LLM refinement disabled: %v", err)
	} else {
		s.provider = provider
	}
	return s
}

// Router builds the chi router with the standard middleware stack.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestSize(maxUploadBytes))
	// Refinement of a large transcript is many sequential LLM calls.
	r.Use(middleware.Timeout(10 * time.Minute))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/", s.handleIndex)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Post("/analyze", s.handleAnalyze)
	r.Get("/download/{fileID}", s.handleDownload)
	r.Post("/preview", s.handlePreview)
	r.Get("/api/categories", s.handleCategories)

	return r
}

// ListenAndServe runs the server until ctx is canceled, then drains
// in-flight requests with a 10 second grace period.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		log.Println("shutdown signal received, draining...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}
