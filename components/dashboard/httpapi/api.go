package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/goliatone/go-admin-dashboard/components/dashboard"
	"github.com/goliatone/go-admin-dashboard/components/dashboard/commands"
	"github.com/goliatone/go-admin-dashboard/components/dashboard/queries"
	gocommand "github.com/goliatone/go-command"
)

// Handlers exposes HTTP endpoints backed by shared commands and queries.
type Handlers struct {
	Assign       gocommand.Commander[dashboard.AddWidgetRequest]
	Update       gocommand.Commander[commands.UpdateWidgetInput]
	Remove       gocommand.Commander[commands.RemoveWidgetInput]
	Reorder      gocommand.Commander[commands.ReorderWidgetsInput]
	Refresh      gocommand.Commander[commands.RefreshWidgetInput]
	Preferences  gocommand.Commander[commands.SaveLayoutPreferencesInput]
	TableAction  gocommand.Commander[commands.TableActionInput]
	TableView    gocommand.Querier[queries.SessionViewInput, dashboard.TableView]
	SelectAction gocommand.Commander[commands.SelectActionInput]
	SelectView   gocommand.Querier[queries.SessionViewInput, dashboard.SelectView]
	// Viewer resolves the viewer of a request. Defaults to ViewerFromRequest.
	Viewer func(*http.Request) dashboard.ViewerContext
}

func (h *Handlers) HandleAssignWidget(w http.ResponseWriter, r *http.Request) {
	var payload dashboard.AddWidgetRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.Assign.Execute(r.Context(), payload); err != nil {
		writeError(w, StatusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handlers) HandleUpdateWidget(w http.ResponseWriter, r *http.Request, widgetID string) {
	var payload commands.UpdateWidgetInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	payload.WidgetID = widgetID
	if payload.UserID == "" {
		payload.UserID = h.viewer(r).UserID
	}
	if err := h.Update.Execute(r.Context(), payload); err != nil {
		writeError(w, StatusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) HandleRemoveWidget(w http.ResponseWriter, r *http.Request, widgetID string) {
	input := commands.RemoveWidgetInput{WidgetID: widgetID}
	if err := h.Remove.Execute(r.Context(), input); err != nil {
		writeError(w, StatusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) HandleReorderWidgets(w http.ResponseWriter, r *http.Request) {
	var payload commands.ReorderWidgetsInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.Reorder.Execute(r.Context(), payload); err != nil {
		writeError(w, StatusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) HandleRefreshWidget(w http.ResponseWriter, r *http.Request) {
	var payload commands.RefreshWidgetInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.Refresh.Execute(r.Context(), payload); err != nil {
		writeError(w, StatusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handlers) HandleSavePreferences(w http.ResponseWriter, r *http.Request) {
	var payload commands.SaveLayoutPreferencesInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	payload.Viewer = h.viewer(r)
	if err := h.Preferences.Execute(r.Context(), payload); err != nil {
		writeError(w, StatusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// HandleTableView returns the viewer's current table state.
func (h *Handlers) HandleTableView(w http.ResponseWriter, r *http.Request, widgetID string) {
	metric := startTiming(r.Context(), "table_view")
	defer metric.Stop()
	view, err := h.TableView.Query(r.Context(), queries.SessionViewInput{Viewer: h.viewer(r), WidgetID: widgetID})
	if err != nil {
		writeError(w, StatusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleTableAction applies action to the table and responds with the new
// view. The body carries the action parameters (key, page, term, row_id).
func (h *Handlers) HandleTableAction(w http.ResponseWriter, r *http.Request, widgetID, action string) {
	metric := startTiming(r.Context(), "table_action")
	defer metric.Stop()
	var payload dashboard.TableAction
	if err := decodeOptional(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	payload.Action = action
	viewer := h.viewer(r)
	if err := h.TableAction.Execute(r.Context(), commands.TableActionInput{Viewer: viewer, WidgetID: widgetID, Action: payload}); err != nil {
		writeError(w, StatusFor(err), err)
		return
	}
	view, err := h.TableView.Query(r.Context(), queries.SessionViewInput{Viewer: viewer, WidgetID: widgetID})
	if err != nil {
		writeError(w, StatusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleSelectView returns the viewer's current select state.
func (h *Handlers) HandleSelectView(w http.ResponseWriter, r *http.Request, widgetID string) {
	metric := startTiming(r.Context(), "select_view")
	defer metric.Stop()
	view, err := h.SelectView.Query(r.Context(), queries.SessionViewInput{Viewer: h.viewer(r), WidgetID: widgetID})
	if err != nil {
		writeError(w, StatusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleSelectAction applies action to the select and responds with the new
// view. Remote results that arrive later are pushed through refresh hooks.
func (h *Handlers) HandleSelectAction(w http.ResponseWriter, r *http.Request, widgetID, action string) {
	metric := startTiming(r.Context(), "select_action")
	defer metric.Stop()
	var payload dashboard.SelectAction
	if err := decodeOptional(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	payload.Action = action
	viewer := h.viewer(r)
	if err := h.SelectAction.Execute(r.Context(), commands.SelectActionInput{Viewer: viewer, WidgetID: widgetID, Action: payload}); err != nil {
		writeError(w, StatusFor(err), err)
		return
	}
	view, err := h.SelectView.Query(r.Context(), queries.SessionViewInput{Viewer: viewer, WidgetID: widgetID})
	if err != nil {
		writeError(w, StatusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handlers) viewer(r *http.Request) dashboard.ViewerContext {
	if h.Viewer != nil {
		return h.Viewer(r)
	}
	return ViewerFromRequest(r)
}

// ViewerFromRequest reads the viewer from the X-User-ID and X-User-Roles
// headers and the locale from the query string or Accept-Language.
func ViewerFromRequest(r *http.Request) dashboard.ViewerContext {
	viewer := dashboard.ViewerContext{UserID: r.Header.Get("X-User-ID")}
	if roles := r.Header.Get("X-User-Roles"); roles != "" {
		for _, role := range strings.Split(roles, ",") {
			if role = strings.TrimSpace(role); role != "" {
				viewer.Roles = append(viewer.Roles, role)
			}
		}
	}
	viewer.Locale = strings.ToLower(r.URL.Query().Get("locale"))
	if viewer.Locale == "" {
		lang, _, _ := strings.Cut(r.Header.Get("Accept-Language"), ",")
		lang, _, _ = strings.Cut(lang, ";")
		viewer.Locale = strings.ToLower(strings.TrimSpace(lang))
	}
	return viewer
}

// StatusFor maps dashboard errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, dashboard.ErrWidgetNotFound):
		return http.StatusNotFound
	case errors.Is(err, dashboard.ErrUnknownAction), errors.Is(err, dashboard.ErrInvalidConfiguration),
		errors.Is(err, dashboard.ErrOptionUnavailable), errors.Is(err, commands.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// decodeOptional decodes a JSON body when one is present. Chunked requests
// report an unknown length, so an empty stream also counts as no body.
func decodeOptional(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// Routes mounts the handlers on a ServeMux under prefix (for example
// "/admin/dashboard") and wraps the result with server timing.
func (h *Handlers) Routes(prefix string) http.Handler {
	mux := http.NewServeMux()
	prefix = strings.TrimRight(prefix, "/")
	if h.Assign != nil {
		mux.HandleFunc("POST "+prefix+"/widgets", h.HandleAssignWidget)
	}
	if h.Update != nil {
		mux.HandleFunc("PATCH "+prefix+"/widgets/{id}", func(w http.ResponseWriter, r *http.Request) {
			h.HandleUpdateWidget(w, r, r.PathValue("id"))
		})
	}
	if h.Remove != nil {
		mux.HandleFunc("DELETE "+prefix+"/widgets/{id}", func(w http.ResponseWriter, r *http.Request) {
			h.HandleRemoveWidget(w, r, r.PathValue("id"))
		})
	}
	if h.Reorder != nil {
		mux.HandleFunc("POST "+prefix+"/widgets/reorder", h.HandleReorderWidgets)
	}
	if h.Refresh != nil {
		mux.HandleFunc("POST "+prefix+"/widgets/refresh", h.HandleRefreshWidget)
	}
	if h.Preferences != nil {
		mux.HandleFunc("POST "+prefix+"/preferences", h.HandleSavePreferences)
	}
	if h.TableView != nil {
		mux.HandleFunc("GET "+prefix+"/widgets/{id}/table", func(w http.ResponseWriter, r *http.Request) {
			h.HandleTableView(w, r, r.PathValue("id"))
		})
		if h.TableAction != nil {
			mux.HandleFunc("POST "+prefix+"/widgets/{id}/table/{action}", func(w http.ResponseWriter, r *http.Request) {
				h.HandleTableAction(w, r, r.PathValue("id"), r.PathValue("action"))
			})
		}
	}
	if h.SelectView != nil {
		mux.HandleFunc("GET "+prefix+"/widgets/{id}/select", func(w http.ResponseWriter, r *http.Request) {
			h.HandleSelectView(w, r, r.PathValue("id"))
		})
		if h.SelectAction != nil {
			mux.HandleFunc("POST "+prefix+"/widgets/{id}/select/{action}", func(w http.ResponseWriter, r *http.Request) {
				h.HandleSelectAction(w, r, r.PathValue("id"), r.PathValue("action"))
			})
		}
	}
	return WithServerTiming(mux)
}
