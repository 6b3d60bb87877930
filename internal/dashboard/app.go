package dashboard

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Billy-Davies-2/worldcup-finals-dashboard/internal/dal"
	"github.com/Billy-Davies-2/worldcup-finals-dashboard/internal/models"
	"github.com/Billy-Davies-2/worldcup-finals-dashboard/internal/stats"
)

// App is the read-only application context: the finals table and the
// win counts derived from it once at startup. It is safe for concurrent use.
type App struct {
	finals    []models.FinalRecord
	iso       map[string]string
	counts    []models.CountryWinCount
	byYear    map[int]models.FinalRecord
	byCountry map[string]models.CountryWinCount
	years     []int
}

// NewApp loads the dataset from source and computes the win counts
func NewApp(ctx context.Context, source dal.FinalsDAL) (*App, error) {
	finals, err := source.Finals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load finals: %w", err)
	}
	iso, err := source.ISOCodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load iso codes: %w", err)
	}
	return NewAppFromRecords(finals, iso), nil
}

// NewAppFromRecords builds an App over the given rows
func NewAppFromRecords(finals []models.FinalRecord, iso map[string]string) *App {
	app := &App{
		finals:    make([]models.FinalRecord, len(finals)),
		iso:       make(map[string]string, len(iso)),
		counts:    stats.ComputeWinCounts(finals, iso),
		byYear:    make(map[int]models.FinalRecord, len(finals)),
		byCountry: make(map[string]models.CountryWinCount),
		years:     stats.Years(finals),
	}
	copy(app.finals, finals)
	for k, v := range iso {
		app.iso[k] = v
	}
	for _, f := range finals {
		// Years are unique keys; keep the first row if the table repeats one
		if _, ok := app.byYear[f.Year]; !ok {
			app.byYear[f.Year] = f
		}
	}
	for _, c := range app.counts {
		app.byCountry[c.Country] = c
	}
	return app
}

// Finals returns a copy of the finals table
func (a *App) Finals() []models.FinalRecord {
	out := make([]models.FinalRecord, len(a.finals))
	copy(out, a.finals)
	return out
}

// WinCounts returns a copy of the derived win-count table
func (a *App) WinCounts() []models.CountryWinCount {
	out := make([]models.CountryWinCount, len(a.counts))
	copy(out, a.counts)
	return out
}

// Lookup returns the win-count row for country
func (a *App) Lookup(country string) (models.CountryWinCount, bool) {
	c, ok := a.byCountry[country]
	return c, ok
}

// Final returns the final played in year
func (a *App) Final(year int) (models.FinalRecord, bool) {
	f, ok := a.byYear[year]
	return f, ok
}

// CountryOptions lists the country dropdown entries in win-count order
func (a *App) CountryOptions() []models.Option {
	opts := make([]models.Option, 0, len(a.counts))
	for _, c := range a.counts {
		opts = append(opts, models.Option{Label: c.Country, Value: c.Country})
	}
	return opts
}

// YearOptions lists the year dropdown entries in dataset order
func (a *App) YearOptions() []models.Option {
	opts := make([]models.Option, 0, len(a.years))
	for _, y := range a.years {
		s := strconv.Itoa(y)
		opts = append(opts, models.Option{Label: s, Value: s})
	}
	return opts
}
