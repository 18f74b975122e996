package testutil

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/web-source-dev/dealboard/types"
)

// AssertRecordCount checks the number of records, with optional context
func AssertRecordCount(t testing.TB, records []types.Record, want int, context ...string) {
	t.Helper()
	if len(records) != want {
		t.Errorf("expected %d records%s, got %d: %v", want, suffix(context), len(records), IDs(records))
	}
}

// AssertOrder checks the records' _id values against want, in order
func AssertOrder(t testing.TB, records []types.Record, want ...string) {
	t.Helper()
	if diff := cmp.Diff(want, IDs(records)); diff != "" {
		t.Errorf("record order mismatch (-want +got):\n%s", diff)
	}
}

// AssertContains checks that a record with the given _id is present
func AssertContains(t testing.TB, records []types.Record, id string) {
	t.Helper()
	for _, got := range IDs(records) {
		if got == id {
			return
		}
	}
	t.Errorf("expected record %q in %v", id, IDs(records))
}

// AssertNotContains checks that no record has the given _id
func AssertNotContains(t testing.TB, records []types.Record, id string) {
	t.Helper()
	for _, got := range IDs(records) {
		if got == id {
			t.Errorf("record %q should not be in %v", id, IDs(records))
			return
		}
	}
}

// AssertAllHave checks that every record's field renders as want
func AssertAllHave(t testing.TB, records []types.Record, field string, want any) {
	t.Helper()
	for _, record := range records {
		got := record.Value(field)
		if fmt.Sprint(got) != fmt.Sprint(want) {
			t.Errorf("record %v: expected %s=%v, got %v", record["_id"], field, want, got)
		}
	}
}

// AssertResult checks the counts of a query result
func AssertResult(t testing.TB, result types.QueryResult, totalCount, totalPages, activeFilters int) {
	t.Helper()
	if result.TotalCount != totalCount {
		t.Errorf("TotalCount = %d, want %d", result.TotalCount, totalCount)
	}
	if result.TotalPages != totalPages {
		t.Errorf("TotalPages = %d, want %d", result.TotalPages, totalPages)
	}
	if result.ActiveFilterCount != activeFilters {
		t.Errorf("ActiveFilterCount = %d, want %d", result.ActiveFilterCount, activeFilters)
	}
}

func suffix(context []string) string {
	if len(context) == 0 {
		return ""
	}
	return " " + context[0]
}
