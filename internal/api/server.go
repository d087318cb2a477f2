package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/claraliu715-tech/chat-with-echo/internal/draft"
	"github.com/claraliu715-tech/chat-with-echo/internal/processor"
)

// maxBodyBytes bounds a /chat request body.
const maxBodyBytes = 64 << 10

// Response headers describing how a draft was produced.
const (
	HeaderDraftID     = "X-Draft-ID"
	HeaderDraftSource = "X-Draft-Source"
	HeaderDraftReason = "X-Draft-Reason"
)

// Drafter produces a draft for every request.
type Drafter interface {
	Draft(ctx context.Context, req draft.Request) processor.Outcome
}

type Options struct {
	Port           int
	FrontendDir    string
	AllowedOrigins []string
}

type Server struct {
	router      *chi.Mux
	http        *http.Server
	drafter     Drafter
	frontendDir string
	logger      *slog.Logger
}

func NewServer(opts Options, drafter Drafter, logger *slog.Logger) *Server {
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{HeaderDraftID, HeaderDraftSource, HeaderDraftReason},
		MaxAge:         300,
	}))

	s := &Server{
		router:      router,
		drafter:     drafter,
		frontendDir: opts.FrontendDir,
		logger:      logger,
	}
	s.http = &http.Server{
		Addr:              fmt.Sprintf(":%d", opts.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	router.Get("/", s.index)
	router.Get("/ping", s.ping)
	router.Get("/health", s.health)
	router.Post("/chat", s.chat)

	if dirExists(s.frontendDir) {
		fs := http.StripPrefix("/static/", http.FileServer(http.Dir(s.frontendDir)))
		router.Handle("/static/*", fs)
	}

	return s
}

// Handler exposes the router, mainly for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called. It returns nil on a clean shutdown.
func (s *Server) Start() error {
	s.logger.Info("API server starting", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

type chatRequest struct {
	Message  *string `json:"message"`
	Tone     string  `json:"tone"`
	Scenario string  `json:"scenario"`
	Mode     string  `json:"mode"`
}

func (s *Server) chat(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var body chatRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		if errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "empty request body")
			return
		}
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %v", err))
		return
	}
	if body.Message == nil {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	out := s.drafter.Draft(r.Context(), draft.Request{
		Message:  *body.Message,
		Tone:     body.Tone,
		Scenario: body.Scenario,
		Mode:     draft.Mode(body.Mode),
	})

	w.Header().Set(HeaderDraftID, out.ID.String())
	w.Header().Set(HeaderDraftSource, out.Source)
	if out.Reason != "" {
		w.Header().Set(HeaderDraftReason, out.Reason)
	}
	writeJSON(w, http.StatusOK, out.Result)
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	index := filepath.Join(s.frontendDir, "index.html")
	if s.frontendDir != "" && fileExists(index) {
		http.ServeFile(w, r, index)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"message": "Backend is running. Frontend not found in this service.",
		"hint":    "To serve the frontend here, set FRONTEND_DIR to a folder with index.html and assets.",
		"try":     []string{"/ping", "/health", "/chat (POST)"},
	})
}

func (s *Server) ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func dirExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
