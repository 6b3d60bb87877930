package dal

import (
	"context"
	"testing"

	"github.com/Billy-Davies-2/worldcup-finals-dashboard/internal/models"
)

func TestMemoryDALFinals(t *testing.T) {
	dal := NewMemoryDAL()

	finals, err := dal.Finals(context.Background())
	if err != nil {
		t.Fatalf("Finals() failed: %v", err)
	}
	if len(finals) != 22 {
		t.Fatalf("Expected 22 finals, got %d", len(finals))
	}

	last := finals[len(finals)-1]
	if last != (models.FinalRecord{Year: 2022, Winner: "Argentina", RunnerUp: "France"}) {
		t.Errorf("Unexpected 2022 final: %+v", last)
	}

	for i := 1; i < len(finals); i++ {
		if finals[i].Year <= finals[i-1].Year {
			t.Errorf("Finals not ordered by year at %d: %d after %d", i, finals[i].Year, finals[i-1].Year)
		}
	}
}

func TestMemoryDALReturnsCopies(t *testing.T) {
	dal := NewMemoryDAL()
	ctx := context.Background()

	finals, _ := dal.Finals(ctx)
	finals[0].Winner = "Nowhere"

	codes, _ := dal.ISOCodes(ctx)
	codes["Brazil"] = "XXX"

	again, _ := dal.Finals(ctx)
	if again[0].Winner != "Uruguay" {
		t.Errorf("Mutating returned finals changed the store: %+v", again[0])
	}
	codesAgain, _ := dal.ISOCodes(ctx)
	if codesAgain["Brazil"] != "BRA" {
		t.Errorf("Mutating returned codes changed the store: %s", codesAgain["Brazil"])
	}
	if SeedFinals()[0].Winner != "Uruguay" {
		t.Error("Seed data was mutated")
	}
}

func TestSeedISOCoversEveryWinner(t *testing.T) {
	codes := SeedISOCodes()
	for _, f := range SeedFinals() {
		code, ok := codes[f.Winner]
		if !ok {
			t.Errorf("Winner %s has no ISO code", f.Winner)
			continue
		}
		if len(code) != 3 {
			t.Errorf("ISO code for %s should be 3 letters, got %q", f.Winner, code)
		}
	}
}

func TestSQLiteDAL(t *testing.T) {
	path := t.TempDir() + "/finals.sqlite"

	dal, err := NewSQLiteDAL(path)
	if err != nil {
		t.Fatalf("NewSQLiteDAL() failed: %v", err)
	}

	ctx := context.Background()
	finals, err := dal.Finals(ctx)
	if err != nil {
		t.Fatalf("Finals() failed: %v", err)
	}
	seed := SeedFinals()
	if len(finals) != len(seed) {
		t.Fatalf("Expected %d finals, got %d", len(seed), len(finals))
	}
	for i := range seed {
		if finals[i] != seed[i] {
			t.Errorf("Row %d: expected %+v, got %+v", i, seed[i], finals[i])
		}
	}

	codes, err := dal.ISOCodes(ctx)
	if err != nil {
		t.Fatalf("ISOCodes() failed: %v", err)
	}
	if len(codes) != len(SeedISOCodes()) || codes["Argentina"] != "ARG" {
		t.Errorf("Unexpected iso codes: %v", codes)
	}
	if err := dal.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	// Reopening must not seed a second copy
	dal, err = NewSQLiteDAL(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer dal.Close()

	finals, err = dal.Finals(ctx)
	if err != nil {
		t.Fatalf("Finals() after reopen failed: %v", err)
	}
	if len(finals) != len(seed) {
		t.Errorf("Expected %d finals after reopen, got %d", len(seed), len(finals))
	}
}
