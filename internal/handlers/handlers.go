package handlers

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Billy-Davies-2/worldcup-finals-dashboard/internal/dashboard"
	"github.com/Billy-Davies-2/worldcup-finals-dashboard/internal/logger"
	"github.com/Billy-Davies-2/worldcup-finals-dashboard/internal/models"
	"github.com/Billy-Davies-2/worldcup-finals-dashboard/internal/pubsub"
	"github.com/Billy-Davies-2/worldcup-finals-dashboard/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageTitle is shown in the browser tab and the page header
const PageTitle = "FIFA World Cup Finals"

// sseReplay is how many recent events a new SSE client receives
const sseReplay = 10

// DashboardHandlers serves the dashboard page and its JSON API
type DashboardHandlers struct {
	ctrl      *dashboard.Controller
	sessions  *session.Store
	pubsub    *pubsub.PubSub
	templates *template.Template
	keepalive time.Duration
}

// NewDashboardHandlers parses the embedded templates and creates the handlers
func NewDashboardHandlers(ctrl *dashboard.Controller, sessions *session.Store, ps *pubsub.PubSub) (*DashboardHandlers, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &DashboardHandlers{
		ctrl:      ctrl,
		sessions:  sessions,
		pubsub:    ps,
		templates: tmpl,
		keepalive: 30 * time.Second,
	}, nil
}

// Register mounts every dashboard route on mux
func (h *DashboardHandlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("/", h.Page)
	mux.HandleFunc("/api/select", h.Select)
	mux.HandleFunc("GET /api/panels/{panel}", h.Panel)
	mux.HandleFunc("/api/winners", h.Winners)
	mux.HandleFunc("/api/wins", h.CountryWins)
	mux.HandleFunc("/api/finals", h.YearResult)
	mux.HandleFunc("/api/finals/all", h.AllFinals)
	mux.HandleFunc("/api/map", h.Map)
	mux.HandleFunc("/api/events", h.EventsSSE)
}

// sessionID returns the caller's session ID, issuing a new cookie when the
// request carries none or a malformed one
func (h *DashboardHandlers) sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(session.CookieName); err == nil && session.ValidID(c.Value) {
		return c.Value
	}

	id := h.sessions.NewID()
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

type pageData struct {
	Title          string
	Winners        []string
	CountryOptions []models.Option
	YearOptions    []models.Option
	Selection      models.Selection
	SelectedYear   string
	CountryWins    string
	YearResult     string
	MapFigure      map[string]interface{}
}

// Page renders the tabbed dashboard for the caller's session
func (h *DashboardHandlers) Page(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := h.sessionID(w, r)
	sel := h.ctrl.Selection(id)
	app := h.ctrl.App()

	data := pageData{
		Title:          PageTitle,
		Winners:        app.AllWinners(),
		CountryOptions: app.CountryOptions(),
		YearOptions:    app.YearOptions(),
		Selection:      sel,
		CountryWins:    app.CountryWins(sel.Country),
		YearResult:     app.YearResult(sel.Year),
		MapFigure:      app.Map().PlotlyFigure(),
	}
	if sel.HasYear() {
		data.SelectedYear = strconv.Itoa(sel.Year)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, "dashboard.html", data); err != nil {
		logger.Error("Failed to render dashboard", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Select applies a dropdown interaction to the caller's session
func (h *DashboardHandlers) Select(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var ev dashboard.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		logger.Warn("Failed to decode selection request", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id := h.sessionID(w, r)
	sel, views, err := h.ctrl.Handle(id, ev)
	if err != nil {
		if errors.Is(err, dashboard.ErrInvalidEvent) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		logger.Error("Failed to apply selection", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"selection": sel,
		"panels":    views,
	})
}

// Panel re-renders one panel for the caller's session
func (h *DashboardHandlers) Panel(w http.ResponseWriter, r *http.Request) {
	id := h.sessionID(w, r)
	view, err := h.ctrl.Render(id, r.PathValue("panel"))
	if err != nil {
		if errors.Is(err, dashboard.ErrUnknownPanel) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// Winners returns every country that has won a final
func (h *DashboardHandlers) Winners(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"winners": h.ctrl.App().AllWinners(),
	})
}

// CountryWins returns the win summary for ?country=
func (h *DashboardHandlers) CountryWins(w http.ResponseWriter, r *http.Request) {
	country := strings.TrimSpace(r.URL.Query().Get("country"))
	app := h.ctrl.App()

	resp := map[string]interface{}{
		"country": country,
		"text":    app.CountryWins(country),
		"wins":    0,
	}
	if c, ok := app.Lookup(country); ok {
		resp["wins"] = c.Wins
	}

	writeJSON(w, http.StatusOK, resp)
}

// YearResult returns the final played in ?year=
func (h *DashboardHandlers) YearResult(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(r.URL.Query().Get("year"))
	year := 0
	if raw != "" {
		var err error
		year, err = strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "year must be a number", http.StatusBadRequest)
			return
		}
	}

	app := h.ctrl.App()
	resp := map[string]interface{}{
		"year":  year,
		"text":  app.YearResult(year),
		"final": nil,
	}
	if f, ok := app.Final(year); ok {
		resp["final"] = f
	}

	writeJSON(w, http.StatusOK, resp)
}

// AllFinals returns the complete dataset
func (h *DashboardHandlers) AllFinals(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ctrl.App().Finals())
}

// Map returns the plotly.js choropleth figure
func (h *DashboardHandlers) Map(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ctrl.App().Map().PlotlyFigure())
}

// EventsSSE provides Server-Sent Events for dashboard activity
func (h *DashboardHandlers) EventsSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	flush := func() {
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
	}

	eventChan := h.pubsub.Subscribe()
	defer h.pubsub.Unsubscribe(eventChan)

	fmt.Fprintf(w, "data: {\"type\":\"connected\"}\n\n")
	for _, event := range h.pubsub.Recent(sseReplay) {
		data, _ := json.Marshal(event)
		fmt.Fprintf(w, "data: %s\n\n", data)
	}
	flush()

	ticker := time.NewTicker(h.keepalive)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			data, _ := json.Marshal(event)
			fmt.Fprintf(w, "data: %s\n\n", data)
			flush()
		case <-r.Context().Done():
			logger.Debug("SSE client disconnected")
			return
		case <-ticker.C:
			fmt.Fprintf(w, ": keepalive\n\n")
			flush()
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to encode response", "error", err)
	}
}
