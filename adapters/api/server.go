package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"stopstats/domain/core"
	"stopstats/domain/frame"
	"stopstats/internal"
	apperrors "stopstats/internal/errors"
)

// Server serves the analyses as a JSON API. There is no rendering layer;
// consumers plot the tables themselves.
type Server struct {
	router *chi.Mux
	svc    *Service
	log    *internal.Logger
}

// NewServer wires the routes.
func NewServer(svc *Service) *Server {
	s := &Server{
		router: chi.NewRouter(),
		svc:    svc,
		log:    internal.DefaultLogger,
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/api/schema", s.handleSchema)
	s.router.Get("/api/rates/compare", s.handleCompare)
	s.router.Get("/api/rates/{kind}", s.handleRates)
	s.router.Get("/api/solar", s.handleSolar)
	s.router.Get("/api/vod", s.handleVod)
	s.router.Get("/api/vod/profile", s.handleVodProfile)

	return s
}

// Handler returns the http handler for mounting.
func (s *Server) Handler() http.Handler {
	return s.router
}

// tableResponse wraps a table with a run identifier for log correlation.
type tableResponse struct {
	RunID   core.RunID `json:"run_id"`
	Columns []string   `json:"columns"`
	Rows    []any      `json:"rows"`
}

func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.svc.Schema())
}

func (s *Server) handleRates(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	by := splitParam(r.URL.Query().Get("by"))

	table, err := s.svc.Rates(kind, by)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeTable(w, table.Columns, rowsAsAny(table.Rows))
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	kind := q.Get("kind")
	majority := q.Get("majority")
	minorities := splitParam(q.Get("minorities"))
	extraBy := splitParam(q.Get("by"))

	if kind == "" || majority == "" || len(minorities) == 0 {
		s.writeError(w, apperrors.New(apperrors.CodeBadInput, "kind, majority and minorities are required"))
		return
	}

	table, err := s.svc.Compare(kind, extraBy, majority, minorities)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeTable(w, table.Columns, rowsAsAny(table.Rows))
}

func (s *Server) handleSolar(w http.ResponseWriter, r *http.Request) {
	times, err := s.svc.Solar(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, times)
}

func (s *Server) handleVod(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, end := q.Get("start"), q.Get("end")
	if start == "" || end == "" {
		s.writeError(w, apperrors.New(apperrors.CodeBadInput, "start and end are required (HH:MM)"))
		return
	}

	rates, err := s.svc.Vod(r.Context(), start, end)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"run_id": core.NewID(),
		"rates":  rates,
	})
}

func (s *Server) handleVodProfile(w http.ResponseWriter, r *http.Request) {
	profiles, err := s.svc.VodProfiles(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, profiles)
}

func (s *Server) writeTable(w http.ResponseWriter, columns []string, rows []any) {
	s.writeJSON(w, http.StatusOK, tableResponse{
		RunID:   core.NewID(),
		Columns: columns,
		Rows:    rows,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("failed to encode response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := apperrors.CodeInternal

	var appErr *apperrors.AppError
	switch {
	case errors.As(err, &appErr) && appErr.Code == apperrors.CodeBadInput:
		status, code = http.StatusBadRequest, appErr.Code
	case core.IsSchemaError(err), core.IsInvalidLocation(err),
		errors.Is(err, core.ErrBadClockTime), errors.Is(err, core.ErrBadDate):
		status, code = http.StatusBadRequest, apperrors.CodeBadInput
	}

	s.log.Warn("request failed: %v", err)
	s.writeJSON(w, status, map[string]string{"code": code, "error": err.Error()})
}

func splitParam(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func rowsAsAny(rows []frame.Row) []any {
	out := make([]any, len(rows))
	for i, r := range rows {
		out[i] = r
	}
	return out
}
