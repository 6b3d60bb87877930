package dal

import (
	"context"

	"github.com/Billy-Davies-2/worldcup-finals-dashboard/internal/models"
)

// MemoryDAL implements FinalsDAL over the embedded seed data
type MemoryDAL struct {
	finals []models.FinalRecord
	iso    map[string]string
}

// NewMemoryDAL creates a new in-memory data access layer
func NewMemoryDAL() *MemoryDAL {
	return &MemoryDAL{
		finals: SeedFinals(),
		iso:    SeedISOCodes(),
	}
}

// NewMemoryDALWith serves the given rows instead of the seed, used by tests
func NewMemoryDALWith(finals []models.FinalRecord, iso map[string]string) *MemoryDAL {
	m := &MemoryDAL{
		finals: make([]models.FinalRecord, len(finals)),
		iso:    make(map[string]string, len(iso)),
	}
	copy(m.finals, finals)
	for k, v := range iso {
		m.iso[k] = v
	}
	return m
}

func (m *MemoryDAL) Finals(ctx context.Context) ([]models.FinalRecord, error) {
	// Copies keep callers from mutating the shared table
	out := make([]models.FinalRecord, len(m.finals))
	copy(out, m.finals)
	return out, nil
}

func (m *MemoryDAL) ISOCodes(ctx context.Context) (map[string]string, error) {
	out := make(map[string]string, len(m.iso))
	for k, v := range m.iso {
		out[k] = v
	}
	return out, nil
}

func (m *MemoryDAL) Close() error {
	return nil
}
