package testutil

import (
	"testing"
)

func TestLoadMarketplace(t *testing.T) {
	m := LoadMarketplace(t)

	AssertRecordCount(t, m.Deals, 6, "deals")
	AssertRecordCount(t, m.Users, 5, "users")
	AssertRecordCount(t, m.Commitments, 5, "commitments")

	if len(m.ByID) != 16 {
		t.Errorf("expected 16 records by id, got %d", len(m.ByID))
	}

	named := map[string]string{
		"deal-apples":    IDs(m.Deals[:1])[0],
		"deal-milk":      m.WholeMilk["_id"].(string),
		"deal-sourdough": m.Sourdough["_id"].(string),
		"deal-wine":      m.RedWine["_id"].(string),
		"deal-eggs":      m.FreeRangeEggs["_id"].(string),
		"deal-coffee":    m.CoffeeBeans["_id"].(string),
	}
	for want, got := range named {
		if got != want {
			t.Errorf("named record %q resolved to %q", want, got)
		}
	}

	if v := m.OrganicApples.Value("distributor.businessName"); v != "Green Valley Co-op" {
		t.Errorf("nested distributor = %v", v)
	}
}

func TestLoadMarketplaceReturnsFreshRecords(t *testing.T) {
	first := LoadMarketplace(t)
	first.OrganicApples["name"] = "changed"

	second := LoadMarketplace(t)
	if second.OrganicApples["name"] != "Organic Apples" {
		t.Error("fixture records are shared between loads")
	}
}
