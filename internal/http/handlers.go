package http

import (
	"net/http"
	"time"

	"crimedash/internal/core"
	"crimedash/internal/dashboard"
	applog "crimedash/internal/log"
)

// selectionBody echoes the selection actually applied, after defaults.
type selectionBody struct {
	Units      []string `json:"units"`
	YearFrom   int      `json:"yearFrom"`
	YearTo     int      `json:"yearTo"`
	Categories []string `json:"categories"`
}

func newSelectionBody(sel core.Selection) selectionBody {
	return selectionBody{
		Units:      sel.Units,
		YearFrom:   sel.YearFrom,
		YearTo:     sel.YearTo,
		Categories: sel.Categories,
	}
}

type summaryResponse struct {
	Selection selectionBody   `json:"selection"`
	Cards     dashboard.Cards `json:"cards"`
}

type renderResponse struct {
	Selection selectionBody `json:"selection"`
	dashboard.Output
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

type readyResponse struct {
	Status     string      `json:"status"`
	Source     string      `json:"source"`
	Rows       int         `json:"rows"`
	LastImport *importBody `json:"lastImport,omitempty"`
}

// importBody describes the import run behind a sqlite-backed dataset.
type importBody struct {
	Source     string `json:"source"`
	Rows       int64  `json:"rows"`
	ImportedAt string `json:"importedAt"`
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.dataset == nil || s.dataset.Len() == 0 {
		ServiceUnavailableError(r.Context(), "dataset not loaded").
			Header("Retry-After", "5").
			Write(r.Context(), w)
		return
	}
	body := readyResponse{
		Status: "ready",
		Source: s.dataset.Source(),
		Rows:   s.dataset.Len(),
	}
	if imp := s.lastImport; imp != nil {
		body.LastImport = &importBody{Source: imp.Source, Rows: imp.RowCount, ImportedAt: imp.ImportedAt}
	}
	NewJSONResponse().Body(body).Write(r.Context(), w)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Templates not loaded", applog.FieldPath, r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	sel := s.defaults.Selection()
	data := struct {
		Options dashboard.Options
		Cards   dashboard.Cards
		Tab     dashboard.Tab
	}{
		Options: dashboard.ControlOptions(s.dataset, s.defaults),
		Cards:   dashboard.Summarize(s.dataset, sel, s.defaults),
		Tab:     s.defaults.DefaultTab(),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "dashboard.html", data); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Index template execution failed",
			applog.FieldError, err, "template", "dashboard.html")
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Body(dashboard.ControlOptions(s.dataset, s.defaults)).Write(r.Context(), w)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	sel := ParseSelection(r.URL.Query(), s.defaults)
	NewJSONResponse().Body(summaryResponse{
		Selection: newSelectionBody(sel),
		Cards:     dashboard.Summarize(s.dataset, sel, s.defaults),
	}).Write(r.Context(), w)
}

func (s *Server) handleTab(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, dashboard.Tab(r.PathValue("tab")))
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	tab, err := ParseTabParam(r.URL.Query(), s.defaults)
	if err != nil {
		NotFoundError(r.Context(), err.Error()).Write(r.Context(), w)
		return
	}
	s.render(w, r, tab)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, tab dashboard.Tab) {
	ctx := r.Context()
	tab, err := dashboard.ParseTab(string(tab))
	if err != nil {
		NotFoundError(ctx, err.Error()).Write(ctx, w)
		return
	}
	sel := ParseSelection(r.URL.Query(), s.defaults)

	start := time.Now()
	out, err := dashboard.Render(s.dataset, sel, tab, s.defaults)
	if err != nil {
		applog.NewStructuredLogger(applog.FromContext(ctx)).LogError(ctx, "Render failed", err,
			applog.ComponentDashboard, applog.OpRender,
			applog.NewFields().WithSelection(sel.Units, sel.YearFrom, sel.YearTo, sel.Categories))
		InternalServerError(ctx, "render failed").Write(ctx, w)
		return
	}
	s.metrics.ObserveRender(string(out.Tab), time.Since(start))

	rows := 0
	if out.Table != nil {
		rows = out.Table.Total
	}
	applog.NewStructuredLogger(applog.FromContext(ctx)).
		LogRender(ctx, string(out.Tab), sel.Units, sel.YearFrom, sel.YearTo, sel.Categories, rows)

	NewJSONResponse().Body(renderResponse{
		Selection: newSelectionBody(sel),
		Output:    out,
	}).Write(ctx, w)
}
