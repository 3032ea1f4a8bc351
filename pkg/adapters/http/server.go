package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/aretw0/drama"
	"github.com/aretw0/drama/internal/presentation/graph"
	"github.com/aretw0/drama/internal/validator"
	"github.com/aretw0/drama/pkg/domain"
	"github.com/aretw0/drama/pkg/flags"
	"github.com/aretw0/drama/pkg/ports"
	"github.com/aretw0/drama/pkg/table"
	"github.com/go-chi/chi/v5"
)

// Server is the preview server: it exposes compiled sheets to designers and tools,
// and doubles as a Sink that notifies subscribers when a sheet is rewritten.
type Server struct {
	Store   ports.SheetStore
	Streams *StreamManager

	mu        sync.RWMutex
	schema    *flags.Registry
	builds    map[string]build
	metrics   http.Handler
	logger    *slog.Logger
	validator validator.Options
}

// build is what the compiler reported for a sheet when it was last finalized.
type build struct {
	entryStep string
	warnings  []domain.Warning
}

// Option configures the Server.
type Option func(*Server)

// WithSchema exposes the flag schema at /schema.
func WithSchema(reg *flags.Registry) Option {
	return func(s *Server) {
		s.schema = reg
	}
}

// WithMetrics mounts a metrics handler at /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithValidation sets the entry step and built-in targets used for /warnings
// on sheets the server has no build report for.
func WithValidation(opts validator.Options) Option {
	return func(s *Server) {
		s.validator = opts
	}
}

// NewServer creates a preview server over store.
func NewServer(store ports.SheetStore, opts ...Option) *Server {
	s := &Server{
		Store:   store,
		Streams: NewStreamManager(),
		builds:  make(map[string]build),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams.logger = s.logger
	return s
}

// Write stores the sheet and notifies subscribers.
func (s *Server) Write(ctx context.Context, sheet string, t *table.Table) error {
	if err := s.Store.Write(ctx, sheet, t); err != nil {
		return err
	}
	s.Streams.Broadcast(sheet)
	return nil
}

// Hooks records each graph's finalized warnings and entry step, so the preview
// reports what the compiler saw, including per-document entry and builtins.
func (s *Server) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnBuild: func(_ context.Context, e *domain.BuildEvent) {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.builds[e.Graph] = build{
				entryStep: e.EntryStep,
				warnings:  append([]domain.Warning(nil), e.Warnings...),
			}
		},
	}
}

// findings returns the recorded build report for sheet, or validates entries
// with the server-wide options when the sheet was written by someone else.
func (s *Server) findings(sheet string, entries []domain.Entry) (string, []domain.Warning) {
	s.mu.RLock()
	b, ok := s.builds[sheet]
	s.mu.RUnlock()
	if ok {
		return b.entryStep, b.warnings
	}
	return s.validator.EntryStep, validator.Validate(entries, s.validator)
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/events", s.SubscribeEvents)
	r.Get("/schema", s.GetSchema)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}

	r.Route("/sheets", func(r chi.Router) {
		r.Get("/", s.ListSheets)
		r.Get("/{sheet}", s.GetSheet)
		r.Get("/{sheet}/warnings", s.GetWarnings)
		r.Get("/{sheet}/graph", s.GetGraph)
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, map[string]string{
		"app":     "drama-preview",
		"version": strings.TrimSpace(drama.Version),
	})
}

// ListSheets handles the GET /sheets request.
func (s *Server) ListSheets(w http.ResponseWriter, r *http.Request) {
	sheets, err := s.Store.List(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("List error: %v", err), http.StatusInternalServerError)
		s.logger.Error("List sheets failed", "error", err)
		return
	}
	writeJSON(w, s.logger, sheets)
}

// GetSheet handles the GET /sheets/{sheet} request.
// The sheet is returned as TSV, or as decoded entries with ?format=json.
func (s *Server) GetSheet(w http.ResponseWriter, r *http.Request) {
	t, ok := s.load(w, r)
	if !ok {
		return
	}

	if r.URL.Query().Get("format") != "json" {
		w.Header().Set("Content-Type", "text/tab-separated-values; charset=utf-8")
		if err := table.WriteTSV(w, t); err != nil {
			s.logger.Error("GetSheet response write failed", "error", err)
		}
		return
	}

	entries, ok := s.decode(w, t)
	if !ok {
		return
	}
	writeJSON(w, s.logger, entries)
}

// GetWarnings handles the GET /sheets/{sheet}/warnings request.
func (s *Server) GetWarnings(w http.ResponseWriter, r *http.Request) {
	t, ok := s.load(w, r)
	if !ok {
		return
	}
	entries, ok := s.decode(w, t)
	if !ok {
		return
	}
	_, warnings := s.findings(chi.URLParam(r, "sheet"), entries)
	if warnings == nil {
		warnings = []domain.Warning{}
	}
	writeJSON(w, s.logger, warnings)
}

// GetGraph handles the GET /sheets/{sheet}/graph request (Mermaid).
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	t, ok := s.load(w, r)
	if !ok {
		return
	}
	entries, ok := s.decode(w, t)
	if !ok {
		return
	}
	entryStep, warnings := s.findings(chi.URLParam(r, "sheet"), entries)
	overlay := &graph.Overlay{
		EntryStep: entryStep,
		Warnings:  warnings,
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, graph.GenerateMermaid(entries, overlay))
}

// SetSchema replaces the schema served at /schema, e.g. after the file was edited.
func (s *Server) SetSchema(reg *flags.Registry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schema = reg
}

// GetSchema handles the GET /schema request.
func (s *Server) GetSchema(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	schema := s.schema
	s.mu.RUnlock()
	if schema == nil {
		http.Error(w, "No schema loaded", http.StatusNotFound)
		return
	}
	writeJSON(w, s.logger, schema)
}

func (s *Server) load(w http.ResponseWriter, r *http.Request) (*table.Table, bool) {
	sheet := chi.URLParam(r, "sheet")
	t, err := s.Store.Read(r.Context(), sheet)
	if err != nil {
		if errors.Is(err, domain.ErrSheetNotFound) {
			http.Error(w, fmt.Sprintf("Sheet not found: %s", sheet), http.StatusNotFound)
			return nil, false
		}
		http.Error(w, fmt.Sprintf("Read error: %v", err), http.StatusInternalServerError)
		s.logger.Error("Read sheet failed", "sheet", sheet, "error", err)
		return nil, false
	}
	return t, true
}

func (s *Server) decode(w http.ResponseWriter, t *table.Table) ([]domain.Entry, bool) {
	entries, err := table.Decode(t)
	if err != nil {
		http.Error(w, fmt.Sprintf("Decode error: %v", err), http.StatusUnprocessableEntity)
		return nil, false
	}
	return entries, true
}

// SubscribeEvents handles the GET /events request (SSE).
// Each event carries the name of a sheet that was rewritten.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe()
	defer cancel()

	// Optional filter: ?sheet=a,b
	var filter map[string]bool
	if q := r.URL.Query().Get("sheet"); q != "" {
		filter = make(map[string]bool)
		for _, name := range strings.Split(q, ",") {
			filter[strings.TrimSpace(name)] = true
		}
	}

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("SSE Client Disconnected")
			return
		case sheet, ok := <-ch:
			if !ok {
				return
			}
			if filter != nil && !filter[sheet] {
				continue
			}
			fmt.Fprintf(w, "event: reload\ndata: %s\n\n", sheet)
			flusher.Flush()
		}
	}
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Response encode failed", "error", err)
	}
}
