package models

// FinalRecord is one World Cup final
type FinalRecord struct {
	Year     int    `json:"year"`
	Winner   string `json:"winner"`
	RunnerUp string `json:"runnerUp"`
}

// CountryWinCount is the number of finals a country has won.
// ISOCode is empty when the country has no alpha-3 mapping.
type CountryWinCount struct {
	Country string `json:"country"`
	Wins    int    `json:"wins"`
	ISOCode string `json:"isoCode,omitempty"`
}

// HasISOCode reports whether the row can be placed on the map
func (c CountryWinCount) HasISOCode() bool {
	return c.ISOCode != ""
}

// Selection holds the dropdown values of one dashboard session.
// The zero value means nothing is selected.
type Selection struct {
	Country string `json:"country,omitempty"`
	Year    int    `json:"year,omitempty"`
}

// HasCountry reports whether a country is selected
func (s Selection) HasCountry() bool {
	return s.Country != ""
}

// HasYear reports whether a year is selected
func (s Selection) HasYear() bool {
	return s.Year != 0
}

// Option is a dropdown entry
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// ChoroplethPoint is one shaded region on the map
type ChoroplethPoint struct {
	ISOCode string `json:"isoCode"`
	Country string `json:"country"`
	Wins    int    `json:"wins"`
}

// ChoroplethFigure is the map-rendering input for the winners map
type ChoroplethFigure struct {
	Title      string            `json:"title"`
	ColorScale string            `json:"colorScale"`
	ColorLabel string            `json:"colorLabel"`
	RangeMin   int               `json:"rangeMin"`
	RangeMax   int               `json:"rangeMax"`
	Points     []ChoroplethPoint `json:"points"`
}

// PlotlyFigure converts the figure into a plotly.js figure document
func (f ChoroplethFigure) PlotlyFigure() map[string]interface{} {
	locations := make([]string, 0, len(f.Points))
	z := make([]int, 0, len(f.Points))
	text := make([]string, 0, len(f.Points))
	for _, p := range f.Points {
		locations = append(locations, p.ISOCode)
		z = append(z, p.Wins)
		text = append(text, p.Country)
	}

	return map[string]interface{}{
		"data": []map[string]interface{}{
			{
				"type":          "choropleth",
				"locationmode":  "ISO-3",
				"locations":     locations,
				"z":             z,
				"text":          text,
				"hovertemplate": "<b>%{text}</b><br>" + f.ColorLabel + ": %{z}<extra></extra>",
				"zmin":          f.RangeMin,
				"zmax":          f.RangeMax,
				"colorscale":    f.ColorScale,
				"colorbar": map[string]interface{}{
					"title": map[string]interface{}{"text": f.ColorLabel},
				},
			},
		},
		"layout": map[string]interface{}{
			"title":  map[string]interface{}{"text": f.Title},
			"margin": map[string]int{"r": 0, "t": 50, "l": 0, "b": 0},
		},
	}
}

// PanelView is the rendered content of one dashboard panel
type PanelView struct {
	Panel   string   `json:"panel"`
	Text    string   `json:"text,omitempty"`
	Items   []string `json:"items,omitempty"`
	Figure  any      `json:"figure,omitempty"`
	IsEmpty bool     `json:"empty"`
}

// HealthStatus is returned by the health endpoints
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp int64                  `json:"timestamp"`
	Checks    map[string]interface{} `json:"checks,omitempty"`
	Reason    string                 `json:"reason,omitempty"`
}
