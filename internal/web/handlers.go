package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Rajas1877/structgrid/internal/grid"
	"github.com/Rajas1877/structgrid/internal/logging"
	"github.com/Rajas1877/structgrid/internal/session"
	"github.com/Rajas1877/structgrid/internal/web/templates"
	"github.com/a-h/templ"
)

// sessionCookie names the cookie that carries the editing-session ID.
const sessionCookie = "structgrid_session"

// errSessionExpired is returned when a save or export arrives for a session
// whose served page is no longer held.
var errSessionExpired = errors.New("editing session expired")

// ensureSession returns the request's editing session, creating one (and
// setting the cookie) if none exists.
func (s *Server) ensureSession(w http.ResponseWriter, r *http.Request) *session.State {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if st, ok := s.sessions.Get(c.Value); ok {
			return st
		}
	}
	st := s.sessions.Create()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    st.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return st
}

// handleStructurePage renders the full Structure page for the session's
// current filter and page.
func (s *Server) handleStructurePage(w http.ResponseWriter, r *http.Request) {
	st := s.ensureSession(w, r)
	filter, page := st.View()

	view, err := s.service.LoadStructure(r.Context(), filter, page)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	st.SetView(view.Filter, view.Page, &view.PageSnapshot)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	templates.StructurePage(templates.PageParams{
		View:          view,
		ShowAddColumn: st.AddColumnVisible(),
	}).Render(r.Context(), w)
}

// handleGrid serves the grid partial for a filter/page combination and
// records both on the session. Changing the filter resets to the first page
// unless an explicit page was requested.
func (s *Server) handleGrid(w http.ResponseWriter, r *http.Request) {
	st := s.ensureSession(w, r)
	prevFilter, page := st.View()

	filter := r.URL.Query().Get("filter")
	if filter != prevFilter {
		page = 0
	}
	if raw := r.URL.Query().Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			page = n
		}
	}

	view, err := s.service.LoadStructure(r.Context(), filter, page)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	st.SetView(filter, view.Page, &view.PageSnapshot)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	templates.GridPartial(view, nil).Render(r.Context(), w)
}

// handleSave reconciles the posted cell values against the page this
// session was served and applies the changes. The response is an outcome
// banner plus the freshly reloaded grid.
func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	st := s.ensureSession(w, r)
	served := st.Served()
	if served == nil {
		s.respondError(w, r, errSessionExpired, http.StatusConflict)
		return
	}

	if err := r.ParseForm(); err != nil {
		s.respondError(w, r, fmt.Errorf("parse form: %w", err), http.StatusBadRequest)
		return
	}

	edited := editedFromForm(r, *served)
	rows, err := s.service.SaveChanges(r.Context(), *served, edited)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	var alert templ.Component
	if rows == 0 {
		alert = templates.AlertInfo("No changes to save.")
	} else {
		alert = templates.AlertSuccess(fmt.Sprintf("%d row(s) updated.", rows))
	}
	s.renderGrid(w, r, st, alert)
}

// handleAddColumn adds a TEXT column to the table. A blank name renders a
// warning without touching the database.
func (s *Server) handleAddColumn(w http.ResponseWriter, r *http.Request) {
	st := s.ensureSession(w, r)

	if err := r.ParseForm(); err != nil {
		s.respondError(w, r, fmt.Errorf("parse form: %w", err), http.StatusBadRequest)
		return
	}
	name := r.FormValue("column_name")
	if name == "" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		templates.AlertWarning("Please enter a valid column name.").Render(r.Context(), w)
		return
	}

	if err := s.service.AddColumn(r.Context(), name); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	st.SetAddColumnVisible(false)
	alert := templates.AlertSuccess(fmt.Sprintf("Column '%s' added.", name))
	s.renderGrid(w, r, st, alert)
}

// handleToggleAddColumn flips the add-column form visibility for the
// session and re-renders the form area.
func (s *Server) handleToggleAddColumn(w http.ResponseWriter, r *http.Request) {
	st := s.ensureSession(w, r)
	show := st.ToggleAddColumn()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	templates.AddColumnForm(show).Render(r.Context(), w)
}

// handleExport downloads the currently displayed page as CSV.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	st := s.ensureSession(w, r)

	page := st.Served()
	if page == nil {
		filter, pageNum := st.View()
		view, err := s.service.LoadStructure(r.Context(), filter, pageNum)
		if err != nil {
			s.respondError(w, r, err, http.StatusInternalServerError)
			return
		}
		st.SetView(view.Filter, view.Page, &view.PageSnapshot)
		page = &view.PageSnapshot
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", s.service.ExportFileName()))
	if err := s.service.ExportCSV(w, *page); err != nil {
		// Headers are already sent, so only log.
		logging.FromContext(r.Context()).Error("csv export failed",
			"file", s.service.ExportFileName(),
			"error", err,
		)
	}
}

// handleStructureJSON returns the session's current page as JSON.
func (s *Server) handleStructureJSON(w http.ResponseWriter, r *http.Request) {
	st := s.ensureSession(w, r)
	sessFilter, page := st.View()

	filter := r.URL.Query().Get("filter")
	if filter == "" {
		filter = sessFilter
	}
	if raw := r.URL.Query().Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			page = n
		}
	}

	view, err := s.service.LoadStructure(r.Context(), filter, page)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	st.SetView(filter, view.Page, &view.PageSnapshot)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"columns":     view.PageSnapshot.Columns,
		"rows":        view.PageSnapshot.Rows,
		"page":        view.Page,
		"total_pages": view.TotalPages,
		"total_rows":  view.TotalRows,
		"filter":      view.Filter,
	})
}

// renderGrid reloads the session's page and writes the grid partial with an
// optional alert above it.
func (s *Server) renderGrid(w http.ResponseWriter, r *http.Request, st *session.State, alert templ.Component) {
	filter, page := st.View()
	view, err := s.service.LoadStructure(r.Context(), filter, page)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	st.SetView(filter, view.Page, &view.PageSnapshot)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	templates.GridPartial(view, alert).Render(r.Context(), w)
}

// editedFromForm rebuilds the edited page snapshot from posted cell fields.
// Field names are "cell:<row>:<column>"; a missing or empty field is a null
// cell. Values are typed against the served cell's kind so that unchanged
// numbers and booleans round-trip without appearing edited.
func editedFromForm(r *http.Request, served grid.Snapshot) grid.Snapshot {
	edited := grid.Snapshot{
		Columns: served.Columns,
		Rows:    make([]grid.Row, len(served.Rows)),
	}
	for i, origRow := range served.Rows {
		row := make(grid.Row, len(served.Columns))
		for _, col := range served.Columns {
			raw := r.PostFormValue(fmt.Sprintf("cell:%d:%s", i, col))
			row[col] = valueFromForm(raw, origRow.Cell(col))
		}
		edited.Rows[i] = row
	}
	return edited
}

// valueFromForm converts one posted cell string to a Value. The served
// cell's kind decides how to parse: numbers and booleans keep their type
// when the text still parses, everything else is a string. Empty text means
// null, matching how null cells render.
func valueFromForm(raw string, served grid.Value) grid.Value {
	if raw == "" {
		return grid.Null()
	}
	switch served.Kind() {
	case grid.KindNumber:
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return grid.Number(f)
		}
	case grid.KindBool:
		if b, err := strconv.ParseBool(raw); err == nil {
			return grid.Bool(b)
		}
	}
	return grid.String(raw)
}
