package dashboard

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Billy-Davies-2/worldcup-finals-dashboard/internal/models"
	"github.com/Billy-Davies-2/worldcup-finals-dashboard/internal/pubsub"
	"github.com/Billy-Davies-2/worldcup-finals-dashboard/internal/session"
)

func TestDispatch(t *testing.T) {
	app := newSeedApp(t)

	tests := []struct {
		name   string
		state  models.Selection
		event  Event
		want   models.Selection
		panels []string
	}{
		{"select country", models.Selection{}, Event{Kind: SelectCountry, Value: "Brazil"}, models.Selection{Country: "Brazil"}, []string{PanelCountryWins}},
		{"select unknown country", models.Selection{Country: "Italy"}, Event{Kind: SelectCountry, Value: "NotACountry"}, models.Selection{}, []string{PanelCountryWins}},
		{"clear country", models.Selection{Country: "Italy", Year: 1982}, Event{Kind: ClearCountry}, models.Selection{Year: 1982}, []string{PanelCountryWins}},
		{"select year", models.Selection{Country: "Italy"}, Event{Kind: SelectYear, Value: "2022"}, models.Selection{Country: "Italy", Year: 2022}, []string{PanelYearResult}},
		{"select missing year", models.Selection{Year: 2022}, Event{Kind: SelectYear, Value: "1999"}, models.Selection{}, []string{PanelYearResult}},
		{"select empty year", models.Selection{Year: 2022}, Event{Kind: SelectYear, Value: ""}, models.Selection{}, []string{PanelYearResult}},
		{"clear year", models.Selection{Year: 2022}, Event{Kind: ClearYear}, models.Selection{}, []string{PanelYearResult}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, panels, err := app.Dispatch(tt.state, tt.event)
			if err != nil {
				t.Fatalf("Dispatch failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
			if len(panels) != len(tt.panels) || panels[0] != tt.panels[0] {
				t.Errorf("expected panels %v, got %v", tt.panels, panels)
			}
		})
	}
}

func TestDispatchInvalid(t *testing.T) {
	app := newSeedApp(t)
	state := models.Selection{Country: "France", Year: 1998}

	for _, ev := range []Event{
		{Kind: SelectYear, Value: "nineteen"},
		{Kind: "reset_everything"},
		{},
	} {
		got, panels, err := app.Dispatch(state, ev)
		if !errors.Is(err, ErrInvalidEvent) {
			t.Errorf("%+v: expected ErrInvalidEvent, got %v", ev, err)
		}
		if got != state || panels != nil {
			t.Errorf("%+v: invalid event should not change state, got %+v %v", ev, got, panels)
		}
	}
}

func TestControllerHandle(t *testing.T) {
	app := newSeedApp(t)
	ps := pubsub.New()
	events := ps.Subscribe()
	defer ps.Unsubscribe(events)

	sessions := session.NewStore(time.Minute)
	ctrl := NewController(app, sessions, ps)
	id := sessions.NewID()

	state, views, err := ctrl.Handle(id, Event{Kind: SelectCountry, Value: "Brazil"})
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if state.Country != "Brazil" {
		t.Errorf("expected Brazil selected, got %+v", state)
	}
	if len(views) != 1 || views[0].Panel != PanelCountryWins || views[0].Text != "Brazil has won the World Cup 5 times." {
		t.Errorf("unexpected views %+v", views)
	}
	if ctrl.Selection(id).Country != "Brazil" {
		t.Error("selection not stored in session")
	}

	select {
	case ev := <-events:
		if ev.Type != SelectionChanged {
			t.Errorf("expected %s, got %s", SelectionChanged, ev.Type)
		}
		if ev.Payload["kind"] != string(SelectCountry) {
			t.Errorf("unexpected payload %v", ev.Payload)
		}
		if _, ok := ev.Payload["value"]; ok {
			t.Errorf("event must not carry the selected value: %v", ev.Payload)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("timeout waiting for selection event")
	}

	view, err := ctrl.Render(id, PanelYearResult)
	if err != nil || !view.IsEmpty {
		t.Errorf("year panel should be empty before a year is picked: %+v %v", view, err)
	}
}

func TestControllerHandleInvalidKeepsState(t *testing.T) {
	app := newSeedApp(t)
	sessions := session.NewStore(time.Minute)
	ctrl := NewController(app, sessions, nil)
	id := sessions.NewID()

	if _, _, err := ctrl.Handle(id, Event{Kind: SelectYear, Value: "1966"}); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if _, _, err := ctrl.Handle(id, Event{Kind: SelectYear, Value: "abc"}); !errors.Is(err, ErrInvalidEvent) {
		t.Fatalf("expected ErrInvalidEvent, got %v", err)
	}
	if ctrl.Selection(id).Year != 1966 {
		t.Errorf("invalid event should keep 1966, got %+v", ctrl.Selection(id))
	}
}

func TestControllerSessionsIsolated(t *testing.T) {
	app := newSeedApp(t)
	sessions := session.NewStore(time.Minute)
	ctrl := NewController(app, sessions, nil)

	var wg sync.WaitGroup
	ids := make([]string, 10)
	for i := range ids {
		ids[i] = sessions.NewID()
	}
	countries := []string{"Brazil", "Germany", "Italy", "Argentina", "France"}

	for i, id := range ids {
		wg.Add(1)
		go func(id, country string) {
			defer wg.Done()
			ctrl.Handle(id, Event{Kind: SelectCountry, Value: country})
		}(id, countries[i%len(countries)])
	}
	wg.Wait()

	for i, id := range ids {
		if got := ctrl.Selection(id).Country; got != countries[i%len(countries)] {
			t.Errorf("session %d: expected %s, got %s", i, countries[i%len(countries)], got)
		}
	}
}
