package clickhouse

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/Billy-Davies-2/worldcup-finals-dashboard/internal/dal"
	"github.com/Billy-Davies-2/worldcup-finals-dashboard/internal/logger"
	"github.com/Billy-Davies-2/worldcup-finals-dashboard/internal/models"
)

// Client serves the finals table from ClickHouse
type Client struct {
	conn driver.Conn
}

// NewClient connects to ClickHouse and seeds the finals tables if they are empty
func NewClient(addr, database, username, password string) (*Client, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: database,
			Username: username,
			Password: password,
		},
	})

	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	ctx := context.Background()
	if err := conn.Ping(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	c := &Client{conn: conn}
	if err := c.initSchema(ctx); err != nil {
		conn.Close()
		return nil, err
	}

	return c, nil
}

func (c *Client) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS worldcup_finals (
			year Int32,
			winner String,
			runner_up String
		) ENGINE = MergeTree ORDER BY year`,
		`CREATE TABLE IF NOT EXISTS worldcup_iso_codes (
			country String,
			iso_code FixedString(3)
		) ENGINE = MergeTree ORDER BY country`,
	}
	for _, stmt := range statements {
		if err := c.conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create ClickHouse table: %w", err)
		}
	}

	for _, t := range seedTables() {
		if err := c.seedIfEmpty(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

// seedTable is one embedded table and the rows it is seeded with
type seedTable struct {
	name string
	rows func() [][]any
}

func seedTables() []seedTable {
	return []seedTable{
		{name: "worldcup_finals", rows: func() [][]any {
			var rows [][]any
			for _, f := range dal.SeedFinals() {
				rows = append(rows, []any{int32(f.Year), f.Winner, f.RunnerUp})
			}
			return rows
		}},
		{name: "worldcup_iso_codes", rows: func() [][]any {
			var rows [][]any
			for country, code := range dal.SeedISOCodes() {
				rows = append(rows, []any{country, code})
			}
			return rows
		}},
	}
}

// seedIfEmpty fills t when it has no rows. Each table is checked on its own
// so a seed that failed halfway is completed on the next start.
func (c *Client) seedIfEmpty(ctx context.Context, t seedTable) error {
	var count uint64
	if err := c.conn.QueryRow(ctx, `SELECT count() FROM `+t.name).Scan(&count); err != nil {
		return fmt.Errorf("failed to count %s: %w", t.name, err)
	}
	if count > 0 {
		return nil
	}

	batch, err := c.conn.PrepareBatch(ctx, `INSERT INTO `+t.name)
	if err != nil {
		return fmt.Errorf("failed to prepare %s seed: %w", t.name, err)
	}
	rows := t.rows()
	for _, row := range rows {
		if err := batch.Append(row...); err != nil {
			return fmt.Errorf("failed to append to %s: %w", t.name, err)
		}
	}
	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to seed %s: %w", t.name, err)
	}

	logger.Info("Seeded ClickHouse table", "table", t.name, "rows", len(rows))
	return nil
}

// Finals returns every final ordered by year
func (c *Client) Finals(ctx context.Context) ([]models.FinalRecord, error) {
	rows, err := c.conn.Query(ctx, `
		SELECT year, winner, runner_up
		FROM worldcup_finals
		ORDER BY year
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	finals := []models.FinalRecord{}
	for rows.Next() {
		var (
			year             int32
			winner, runnerUp string
		)
		if err := rows.Scan(&year, &winner, &runnerUp); err != nil {
			return nil, err
		}
		finals = append(finals, models.FinalRecord{Year: int(year), Winner: winner, RunnerUp: runnerUp})
	}

	return finals, rows.Err()
}

// ISOCodes returns the country to alpha-3 mapping
func (c *Client) ISOCodes(ctx context.Context) (map[string]string, error) {
	rows, err := c.conn.Query(ctx, `SELECT country, iso_code FROM worldcup_iso_codes`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	codes := make(map[string]string)
	for rows.Next() {
		var country, code string
		if err := rows.Scan(&country, &code); err != nil {
			return nil, err
		}
		codes[country] = code
	}

	return codes, rows.Err()
}

// Ping checks the ClickHouse connection
func (c *Client) Ping(ctx context.Context) error {
	return c.conn.Ping(ctx)
}

// Close closes the ClickHouse connection
func (c *Client) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
