package dashboard

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Billy-Davies-2/worldcup-finals-dashboard/internal/logger"
	"github.com/Billy-Davies-2/worldcup-finals-dashboard/internal/models"
	"github.com/Billy-Davies-2/worldcup-finals-dashboard/internal/pubsub"
	"github.com/Billy-Davies-2/worldcup-finals-dashboard/internal/session"
)

// EventKind identifies a dropdown interaction
type EventKind string

const (
	SelectCountry EventKind = "select_country"
	ClearCountry  EventKind = "clear_country"
	SelectYear    EventKind = "select_year"
	ClearYear     EventKind = "clear_year"
)

// Event is a user interaction with one of the dropdowns
type Event struct {
	Kind  EventKind `json:"kind"`
	Value string    `json:"value,omitempty"`
}

// ErrInvalidEvent is returned by Dispatch for malformed events
var ErrInvalidEvent = errors.New("invalid selection event")

// SelectionChanged is the pubsub event type published after each transition
const SelectionChanged = "selection:changed"

// Dispatch applies ev to state and returns the new state together with the
// panels that depend on the value that changed. A value outside the dropdown's
// option set leaves the dropdown unset.
func (a *App) Dispatch(state models.Selection, ev Event) (models.Selection, []string, error) {
	value := strings.TrimSpace(ev.Value)

	switch ev.Kind {
	case SelectCountry:
		if _, ok := a.byCountry[value]; ok {
			state.Country = value
		} else {
			state.Country = ""
		}
		return state, []string{PanelCountryWins}, nil

	case ClearCountry:
		state.Country = ""
		return state, []string{PanelCountryWins}, nil

	case SelectYear:
		if value == "" {
			state.Year = 0
			return state, []string{PanelYearResult}, nil
		}
		year, err := strconv.Atoi(value)
		if err != nil {
			return state, nil, fmt.Errorf("%w: year %q is not a number", ErrInvalidEvent, ev.Value)
		}
		if _, ok := a.byYear[year]; ok {
			state.Year = year
		} else {
			state.Year = 0
		}
		return state, []string{PanelYearResult}, nil

	case ClearYear:
		state.Year = 0
		return state, []string{PanelYearResult}, nil
	}

	return state, nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidEvent, ev.Kind)
}

// Publisher receives dashboard activity events
type Publisher interface {
	Publish(pubsub.Event)
}

// Controller applies interaction events to per-session selection state
type Controller struct {
	app      *App
	sessions *session.Store
	events   Publisher
}

// NewController creates a controller; events may be nil
func NewController(app *App, sessions *session.Store, events Publisher) *Controller {
	return &Controller{
		app:      app,
		sessions: sessions,
		events:   events,
	}
}

// App returns the application context the controller renders from
func (c *Controller) App() *App {
	return c.app
}

// Selection returns the current selection of a session
func (c *Controller) Selection(sessionID string) models.Selection {
	return c.sessions.Get(sessionID)
}

// Handle dispatches ev for the session and re-renders the affected panels
func (c *Controller) Handle(sessionID string, ev Event) (models.Selection, []models.PanelView, error) {
	var changed []string
	state, err := c.sessions.Update(sessionID, func(sel models.Selection) (models.Selection, error) {
		next, panels, err := c.app.Dispatch(sel, ev)
		changed = panels
		return next, err
	})
	if err != nil {
		logger.Warn("Rejected selection event", "kind", ev.Kind, "value", ev.Value, "error", err)
		return state, nil, err
	}

	views := make([]models.PanelView, 0, len(changed))
	for _, panel := range changed {
		view, err := c.app.Render(panel, state)
		if err != nil {
			return state, nil, err
		}
		views = append(views, view)
	}

	logger.Debug("Selection changed", "kind", ev.Kind, "country", state.Country, "year", state.Year)

	if c.events != nil {
		c.events.Publish(pubsub.Event{
			Type: SelectionChanged,
			// The selected value stays private to the session
			Payload: map[string]interface{}{
				"kind":   string(ev.Kind),
				"panels": changed,
			},
		})
	}

	return state, views, nil
}

// Render renders a single panel for the session's current selection
func (c *Controller) Render(sessionID, panel string) (models.PanelView, error) {
	return c.app.Render(panel, c.sessions.Get(sessionID))
}
