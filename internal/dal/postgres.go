package dal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/Billy-Davies-2/worldcup-finals-dashboard/internal/logger"
	"github.com/Billy-Davies-2/worldcup-finals-dashboard/internal/models"
)

// PostgresDAL implements FinalsDAL using PostgreSQL
type PostgresDAL struct {
	db *sql.DB
}

// NewPostgresDAL connects to connString, retrying the initial ping, and seeds the schema
func NewPostgresDAL(connString string) (*PostgresDAL, error) {
	db, err := sql.Open("postgres", connString)
	if err != nil {
		return nil, err
	}

	// The dataset is tiny and read once at startup, so a small pool is enough
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)

	if err := pingWithRetry(db, 5, 5*time.Second); err != nil {
		db.Close()
		return nil, err
	}

	dal := &PostgresDAL{db: db}

	if err := dal.initSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	return dal, nil
}

// pingWithRetry waits for the database to accept connections, which can lag
// behind pod startup while DNS propagates in Kubernetes
func pingWithRetry(db *sql.DB, maxRetries int, retryDelay time.Duration) error {
	var lastErr error
	for i := 0; i < maxRetries; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		lastErr = db.PingContext(ctx)
		cancel()

		if lastErr == nil {
			return nil
		}

		logger.Warn("Postgres ping failed", "attempt", i+1, "error", lastErr)
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}
	return fmt.Errorf("failed to ping postgres after %d retries: %w", maxRetries, lastErr)
}

func (p *PostgresDAL) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS finals (
		year INTEGER PRIMARY KEY,
		winner TEXT NOT NULL,
		runner_up TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS iso_codes (
		country TEXT PRIMARY KEY,
		iso_code CHAR(3) NOT NULL
	);
	`

	if _, err := p.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	seeded, err := seedIfEmpty(ctx, p.db,
		`INSERT INTO finals (year, winner, runner_up) VALUES ($1, $2, $3) ON CONFLICT (year) DO NOTHING`,
		`INSERT INTO iso_codes (country, iso_code) VALUES ($1, $2) ON CONFLICT (country) DO NOTHING`,
	)
	if err != nil {
		return err
	}
	if seeded {
		logger.Info("Seeded Postgres finals table", "rows", len(seedFinals))
	}
	return nil
}

func (p *PostgresDAL) Finals(ctx context.Context) ([]models.FinalRecord, error) {
	return queryFinals(ctx, p.db)
}

func (p *PostgresDAL) ISOCodes(ctx context.Context) (map[string]string, error) {
	return queryISOCodes(ctx, p.db)
}

// Ping checks the database connection
func (p *PostgresDAL) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

func (p *PostgresDAL) Close() error {
	return p.db.Close()
}
