package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"taskgrid/internal/form"
	"taskgrid/internal/logger"
	"taskgrid/internal/result"
	"taskgrid/internal/store"
	"taskgrid/internal/view"
)

type Server struct {
	store *store.Store
	view  *view.Renderer
	log   logger.Logger
}

func New(st *store.Store, v *view.Renderer, log logger.Logger) *Server {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Server{store: st, view: v, log: log}
}

// Handler returns the routed mux wrapped in request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /tasks", s.handleCreate)
	mux.HandleFunc("POST /tasks/{id}/delete", s.handleDelete)
	mux.HandleFunc("GET /api/tasks", s.handleListTasks)
	mux.HandleFunc("GET /export", s.handleExport)
	return logger.RequestLogger(s.log)(mux)
}

// ListenAndServe blocks until ctx is cancelled or the listener fails.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	server := &http.Server{Addr: addr, Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.log.Error("server: shutdown", "error", err)
		}
	}()
	s.log.Info("server: listening", "addr", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return nil
}

// LogChange is a store change subscriber that records each mutation.
func (s *Server) LogChange(payload []byte) error {
	ev, err := store.DecodeEvent(payload)
	if err != nil {
		return fmt.Errorf("decode change event: %w", err)
	}
	s.log.Debug("server: store changed", "op", ev.Op, "id", ev.ID, "revision", ev.Revision, "count", ev.Count)
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tasks, rev := s.store.Snapshot(ctx)
	var buf bytes.Buffer
	if err := s.view.Page(&buf, view.FormData{}, tasks, rev); err != nil {
		logger.FromContext(ctx).Error("server: render page", "error", err)
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	f := form.New(s.store)
	f.SetTitle(r.PostForm.Get("title"))
	f.SetDescription(r.PostForm.Get("description"))
	t := f.Submit(ctx)
	logger.FromContext(ctx).Info("server: task created", "id", t.ID)

	// 303 so a browser refresh does not submit again
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid task id %q", r.PathValue("id")))
		return
	}
	removed := s.store.Delete(ctx, id)
	logger.FromContext(ctx).Info("server: task deleted", "id", id, "removed", removed)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.store.List(r.Context()))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = "json"
	}
	b, err := result.NewExporter(s.store).Export(ctx, format)
	if err != nil {
		if errors.Is(err, result.ErrUnknownFormat) {
			writeErr(w, http.StatusBadRequest, err)
			return
		}
		logger.FromContext(ctx).Error("server: export", "format", format, "error", err)
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", result.ContentType(format))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=tasks.%s", format))
	_, _ = w.Write(b)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
