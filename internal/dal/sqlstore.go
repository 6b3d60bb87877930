package dal

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Billy-Davies-2/worldcup-finals-dashboard/internal/models"
)

// queryFinals reads the finals table ordered by year
func queryFinals(ctx context.Context, db *sql.DB) ([]models.FinalRecord, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT year, winner, runner_up
		FROM finals ORDER BY year ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query finals: %w", err)
	}
	defer rows.Close()

	finals := []models.FinalRecord{}
	for rows.Next() {
		var f models.FinalRecord
		if err := rows.Scan(&f.Year, &f.Winner, &f.RunnerUp); err != nil {
			return nil, fmt.Errorf("failed to scan final: %w", err)
		}
		finals = append(finals, f)
	}
	return finals, rows.Err()
}

// queryISOCodes reads the country to ISO code mapping
func queryISOCodes(ctx context.Context, db *sql.DB) (map[string]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT country, iso_code FROM iso_codes`)
	if err != nil {
		return nil, fmt.Errorf("failed to query iso codes: %w", err)
	}
	defer rows.Close()

	codes := make(map[string]string)
	for rows.Next() {
		var country, code string
		if err := rows.Scan(&country, &code); err != nil {
			return nil, fmt.Errorf("failed to scan iso code: %w", err)
		}
		codes[country] = code
	}
	return codes, rows.Err()
}

// seedIfEmpty inserts the embedded dataset when the finals table has no rows.
// insertFinal and insertISO are the backend's placeholder-specific statements.
func seedIfEmpty(ctx context.Context, db *sql.DB, insertFinal, insertISO string) (bool, error) {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM finals").Scan(&count); err != nil {
		return false, fmt.Errorf("failed to count finals: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	for _, f := range seedFinals {
		if _, err := tx.ExecContext(ctx, insertFinal, f.Year, f.Winner, f.RunnerUp); err != nil {
			return false, fmt.Errorf("failed to seed final %d: %w", f.Year, err)
		}
	}
	for country, code := range seedISOCodes {
		if _, err := tx.ExecContext(ctx, insertISO, country, code); err != nil {
			return false, fmt.Errorf("failed to seed iso code for %s: %w", country, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}
