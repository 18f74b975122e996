// Package testutil provides a marketplace fixture shared by the tests of the
// dashboard packages, plus assertions over record collections.
package testutil

import (
	_ "embed"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/web-source-dev/dealboard/types"
)

//go:embed testdata/marketplace.json
var marketplaceJSON []byte

// Marketplace provides typed access to the fixture records
type Marketplace struct {
	Deals       []types.Record
	Users       []types.Record
	Commitments []types.Record

	// Named deals
	OrganicApples types.Record // active, produce, two discount tiers
	WholeMilk     types.Record // active, dairy, empty tiers
	Sourdough     types.Record // inactive, ended in February
	RedWine       types.Record // active, most expensive
	FreeRangeEggs types.Record // dealEndsAt is not a date
	CoffeeBeans   types.Record // no discountPrice

	// All records by _id
	ByID map[string]types.Record
}

type fixtureData struct {
	Deals       []types.Record `json:"deals"`
	Users       []types.Record `json:"users"`
	Commitments []types.Record `json:"commitments"`
}

// LoadMarketplace parses the fixture. Every call returns fresh records, so
// tests may modify what they get.
func LoadMarketplace(t testing.TB) *Marketplace {
	t.Helper()

	var fixture fixtureData
	if err := json.Unmarshal(marketplaceJSON, &fixture); err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}

	m := &Marketplace{
		Deals:       fixture.Deals,
		Users:       fixture.Users,
		Commitments: fixture.Commitments,
		ByID:        make(map[string]types.Record),
	}

	for _, group := range [][]types.Record{m.Deals, m.Users, m.Commitments} {
		for _, record := range group {
			id, _ := record["_id"].(string)
			m.ByID[id] = record
		}
	}

	m.OrganicApples = m.ByID["deal-apples"]
	m.WholeMilk = m.ByID["deal-milk"]
	m.Sourdough = m.ByID["deal-sourdough"]
	m.RedWine = m.ByID["deal-wine"]
	m.FreeRangeEggs = m.ByID["deal-eggs"]
	m.CoffeeBeans = m.ByID["deal-coffee"]

	return m
}

// WriteDataset writes records as a JSON snapshot in a temporary directory
// and returns its path
func WriteDataset(t testing.TB, name string, records []types.Record) string {
	t.Helper()

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		t.Fatalf("failed to marshal dataset: %v", err)
	}
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write dataset: %v", err)
	}
	return path
}

// IDs returns the _id of every record, in order
func IDs(records []types.Record) []string {
	ids := make([]string, len(records))
	for i, record := range records {
		ids[i], _ = record["_id"].(string)
	}
	return ids
}
