package dashboard

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/goliatone/go-admin-dashboard/components/dashboard/httpapi"
	"github.com/goliatone/go-admin-dashboard/components/dashboard/queries"
)

// HTTPHandler serves the dashboard on a net/http mux under base, using the
// same paths as the go-router integration plus the area lookup:
//
//	GET  {base}/dashboard               HTML page
//	GET  {base}/dashboard/_layout       layout JSON
//	GET  {base}/dashboard/areas/{code}  widgets of one area
//	     {base}/dashboard/widgets…      widget and session API
//	GET  {base}/dashboard/ws            websocket events
//	GET  {base}/dashboard/events        server-sent events
func (a *App) HTTPHandler(base string) http.Handler {
	prefix := strings.TrimRight(base, "/") + "/dashboard"
	viewer := a.Handlers.Viewer
	if viewer == nil {
		viewer = httpapi.ViewerFromRequest
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+prefix, func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		if err := a.Controller.RenderTemplate(r.Context(), viewer(r), &buf); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(buf.Bytes())
	})
	mux.HandleFunc("GET "+prefix+"/_layout", func(w http.ResponseWriter, r *http.Request) {
		payload, err := a.Controller.LayoutPayload(r.Context(), viewer(r))
		writeJSON(w, payload, err)
	})
	mux.HandleFunc("GET "+prefix+"/areas/{code}", func(w http.ResponseWriter, r *http.Request) {
		area, err := a.Areas.Query(r.Context(), queries.WidgetAreaInput{Viewer: viewer(r), AreaCode: r.PathValue("code")})
		writeJSON(w, map[string]any{"area_code": area.AreaCode, "widgets": area.Widgets}, err)
	})
	mux.HandleFunc("GET "+prefix+"/ws", a.Broadcast.ServeWebSocket)
	mux.HandleFunc("GET "+prefix+"/events", a.Broadcast.ServeSSE)

	api := a.Handlers.Routes(prefix)
	mux.Handle(prefix+"/widgets", api)
	mux.Handle(prefix+"/widgets/", api)
	mux.Handle(prefix+"/preferences", api)
	return mux
}

func writeJSON(w http.ResponseWriter, payload any, err error) {
	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		w.WriteHeader(httpapi.StatusFor(err))
		payload = map[string]string{"error": err.Error()}
	}
	_ = json.NewEncoder(w).Encode(payload)
}
