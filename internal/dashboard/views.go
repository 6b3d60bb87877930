package dashboard

import (
	"errors"
	"fmt"

	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/Billy-Davies-2/worldcup-finals-dashboard/internal/models"
	"github.com/Billy-Davies-2/worldcup-finals-dashboard/internal/stats"
)

// Panel names
const (
	PanelAllWinners  = "all_winners"
	PanelCountryWins = "country_wins"
	PanelYearResult  = "year_result"
	PanelMap         = "map"
)

// Panels lists every panel in tab order
var Panels = []string{PanelAllWinners, PanelCountryWins, PanelYearResult, PanelMap}

// ErrUnknownPanel is returned by Render for a panel name it does not know
var ErrUnknownPanel = errors.New("unknown panel")

const (
	countryWinsKey = "%s has won the World Cup %d time(s)."

	mapTitle      = "Total World Cup Wins by Country"
	mapColorScale = "Plasma"
	mapColorLabel = "Number of Wins"
)

var printer *message.Printer

func init() {
	if err := message.Set(language.English, countryWinsKey,
		plural.Selectf(2, "%d",
			"=1", "%s has won the World Cup %d time.",
			"other", "%s has won the World Cup %d times.",
		)); err != nil {
		panic(err)
	}
	printer = message.NewPrinter(language.English)
}

// AllWinners lists every country with at least one win
func (a *App) AllWinners() []string {
	return stats.Winners(a.counts)
}

// CountryWins describes how many finals country has won.
// Returns "" when country is empty or has never won.
func (a *App) CountryWins(country string) string {
	if country == "" {
		return ""
	}
	row, ok := a.byCountry[country]
	if !ok {
		return ""
	}
	return printer.Sprintf(countryWinsKey, row.Country, row.Wins)
}

// YearResult names the winner and runner-up of the final played in year.
// Returns "" when year is 0 or no final was played that year.
func (a *App) YearResult(year int) string {
	if year == 0 {
		return ""
	}
	f, ok := a.byYear[year]
	if !ok {
		return ""
	}
	return fmt.Sprintf("In %d, the winner was %s and the runner-up was %s.", f.Year, f.Winner, f.RunnerUp)
}

// Map builds the choropleth input. Countries without an ISO code are left
// off the map; the color range always starts at 0.
func (a *App) Map() models.ChoroplethFigure {
	fig := models.ChoroplethFigure{
		Title:      mapTitle,
		ColorScale: mapColorScale,
		ColorLabel: mapColorLabel,
		RangeMin:   0,
		RangeMax:   stats.MaxWins(a.counts),
		Points:     []models.ChoroplethPoint{},
	}
	for _, c := range a.counts {
		if !c.HasISOCode() {
			continue
		}
		fig.Points = append(fig.Points, models.ChoroplethPoint{
			ISOCode: c.ISOCode,
			Country: c.Country,
			Wins:    c.Wins,
		})
	}
	return fig
}

// Render produces the content of panel for the given selection
func (a *App) Render(panel string, sel models.Selection) (models.PanelView, error) {
	view := models.PanelView{Panel: panel}
	switch panel {
	case PanelAllWinners:
		view.Items = a.AllWinners()
		view.IsEmpty = len(view.Items) == 0
	case PanelCountryWins:
		view.Text = a.CountryWins(sel.Country)
		view.IsEmpty = view.Text == ""
	case PanelYearResult:
		view.Text = a.YearResult(sel.Year)
		view.IsEmpty = view.Text == ""
	case PanelMap:
		fig := a.Map()
		view.Figure = fig.PlotlyFigure()
		view.IsEmpty = len(fig.Points) == 0
	default:
		return view, fmt.Errorf("%w: %q", ErrUnknownPanel, panel)
	}
	return view, nil
}
