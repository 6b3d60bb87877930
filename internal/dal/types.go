package dal

import (
	"context"
	"errors"

	"github.com/Billy-Davies-2/worldcup-finals-dashboard/internal/models"
)

// ErrUnknownDriver reports an unsupported DB_DRIVER value
var ErrUnknownDriver = errors.New("unknown database driver")

// FinalsDAL defines the interface for data access layer.
// Every backend serves the same fixed finals table, ordered by year.
type FinalsDAL interface {
	Finals(ctx context.Context) ([]models.FinalRecord, error)
	ISOCodes(ctx context.Context) (map[string]string, error)
	Close() error
}
