package dal

import (
	"context"
	"database/sql"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Billy-Davies-2/worldcup-finals-dashboard/internal/logger"
	"github.com/Billy-Davies-2/worldcup-finals-dashboard/internal/models"
)

// SQLiteDAL implements FinalsDAL using SQLite
type SQLiteDAL struct {
	db *sql.DB
}

// NewSQLiteDAL opens dbPath, creating and seeding the schema if needed
func NewSQLiteDAL(dbPath string) (*SQLiteDAL, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	dal := &SQLiteDAL{db: db}

	if err := dal.initSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	return dal, nil
}

func (s *SQLiteDAL) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS finals (
		year INTEGER PRIMARY KEY,
		winner TEXT NOT NULL,
		runner_up TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS iso_codes (
		country TEXT PRIMARY KEY,
		iso_code TEXT NOT NULL
	);
	`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return err
	}

	seeded, err := seedIfEmpty(ctx, s.db,
		`INSERT INTO finals (year, winner, runner_up) VALUES (?, ?, ?)`,
		`INSERT INTO iso_codes (country, iso_code) VALUES (?, ?)`,
	)
	if err != nil {
		return err
	}
	if seeded {
		logger.Info("Seeded SQLite finals table", "rows", len(seedFinals))
	}
	return nil
}

func (s *SQLiteDAL) Finals(ctx context.Context) ([]models.FinalRecord, error) {
	return queryFinals(ctx, s.db)
}

func (s *SQLiteDAL) ISOCodes(ctx context.Context) (map[string]string, error) {
	return queryISOCodes(ctx, s.db)
}

// Ping checks the database connection
func (s *SQLiteDAL) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteDAL) Close() error {
	return s.db.Close()
}
