package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/web-source-dev/dealboard/dealboard/dataset"
	"github.com/web-source-dev/dealboard/dealboard/export"
	"github.com/web-source-dev/dealboard/testutil"
)

var exportTime = time.Date(2024, 3, 20, 15, 4, 5, 0, time.UTC)

// runCLI executes the CLI with args and returns stdout and stderr
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	// Keep logs and config discovery out of the real home directory
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("DEALBOARD_CONFIG", "")

	var stdout, stderr bytes.Buffer
	cli := NewCLI()
	cli.stdout = &stdout
	cli.stderr = &stderr
	cli.now = func() time.Time { return exportTime }
	cli.rootCmd.SetOut(&stdout)
	cli.rootCmd.SetErr(&stderr)
	cli.rootCmd.SetArgs(args)

	err := cli.Execute()
	return stdout.String(), stderr.String(), err
}

func dealsDataset(t *testing.T) string {
	t.Helper()
	m := testutil.LoadMarketplace(t)
	return testutil.WriteDataset(t, "deals.json", m.Deals)
}

// jsonTable is the structured output of the json format
type jsonTable struct {
	Title   string              `json:"title"`
	Columns []string            `json:"columns"`
	Rows    []map[string]string `json:"rows"`
	Summary string              `json:"summary"`
}

func TestQueryCommand(t *testing.T) {
	data := dealsDataset(t)

	stdout, stderr, err := runCLI(t, "query", "--view", "deals", "--data", data,
		"--filter", "category:eq:Dairy", "--sort", "name", "--format", "json")
	if err != nil {
		t.Fatalf("query failed: %v\nstderr: %s", err, stderr)
	}

	var table jsonTable
	if err := json.Unmarshal([]byte(stdout), &table); err != nil {
		t.Fatalf("failed to parse output: %v\n%s", err, stdout)
	}

	var names []string
	for _, row := range table.Rows {
		names = append(names, row["Deal"])
	}
	if diff := cmp.Diff([]string{"Free Range Eggs", "Whole Milk"}, names); diff != "" {
		t.Errorf("deal order mismatch (-want +got):\n%s", diff)
	}
	if table.Title != "Deals" {
		t.Errorf("title = %q, want Deals", table.Title)
	}
	if want := "Showing 1-2 of 2 deals (page 1 of 1), 1 filter applied"; table.Summary != want {
		t.Errorf("summary = %q, want %q", table.Summary, want)
	}
}

func TestQueryCommandPagination(t *testing.T) {
	data := dealsDataset(t)

	t.Run("second page", func(t *testing.T) {
		stdout, _, err := runCLI(t, "query", "--view", "deals", "--data", data,
			"--sort", "name", "--page-size", "2", "--page", "2", "--format", "json")
		if err != nil {
			t.Fatal(err)
		}
		var table jsonTable
		if err := json.Unmarshal([]byte(stdout), &table); err != nil {
			t.Fatal(err)
		}
		if len(table.Rows) != 2 || table.Rows[0]["Deal"] != "Organic Apples" {
			t.Errorf("unexpected page: %+v", table.Rows)
		}
		if want := "Showing 3-4 of 6 deals (page 2 of 3)"; table.Summary != want {
			t.Errorf("summary = %q, want %q", table.Summary, want)
		}
	})

	t.Run("page past the end is clamped", func(t *testing.T) {
		_, stderr, err := runCLI(t, "query", "--view", "deals", "--data", data,
			"--page-size", "2", "--page", "5")
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(stderr, "Page 5 is past the end; showing page 3 of 3") {
			t.Errorf("missing clamp notice, stderr: %q", stderr)
		}
	})

	t.Run("page zero is rejected", func(t *testing.T) {
		_, _, err := runCLI(t, "query", "--view", "deals", "--data", data, "--page", "0")
		if err == nil || !strings.Contains(err.Error(), `invalid page: "0"`) {
			t.Errorf("expected page error, got %v", err)
		}
	})

	t.Run("all rows", func(t *testing.T) {
		stdout, _, err := runCLI(t, "query", "--view", "deals", "--data", data,
			"--page-size", "2", "--all", "--format", "json")
		if err != nil {
			t.Fatal(err)
		}
		var table jsonTable
		if err := json.Unmarshal([]byte(stdout), &table); err != nil {
			t.Fatal(err)
		}
		if len(table.Rows) != 6 {
			t.Errorf("got %d rows, want 6", len(table.Rows))
		}
	})
}

func TestQueryCommandSearch(t *testing.T) {
	data := dealsDataset(t)

	stdout, _, err := runCLI(t, "query", "--view", "deals", "--data", data,
		"--search", "sourdough", "--format", "markdown")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout, "| **Sourdough** Loaves |") {
		t.Errorf("expected highlighted match, got:\n%s", stdout)
	}
	if !strings.Contains(stdout, `matching "sourdough"`) {
		t.Errorf("expected search in summary, got:\n%s", stdout)
	}
}

func TestQueryCommandCaseSensitiveSearch(t *testing.T) {
	data := dealsDataset(t)

	stdout, _, err := runCLI(t, "query", "--view", "deals", "--data", data,
		"--search", "sourdough", "--case-sensitive", "--format", "markdown")
	if err != nil {
		t.Fatal(err)
	}
	// Only the description matches; the name column keeps its capital S
	if !strings.Contains(stdout, "| Sourdough Loaves |") || strings.Contains(stdout, "**Sourdough**") {
		t.Errorf("expected an unhighlighted name, got:\n%s", stdout)
	}

	stdout, _, err = runCLI(t, "query", "--view", "deals", "--data", data,
		"--search", "SOURDOUGH", "--case-sensitive")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout, "No deals") {
		t.Errorf("expected no matches, got:\n%s", stdout)
	}
}

func TestQueryCommandUnknownEnumValue(t *testing.T) {
	data := dealsDataset(t)

	stdout, stderr, err := runCLI(t, "query", "--view", "deals", "--data", data,
		"--filter", "status:in:active,archived")
	if err != nil {
		t.Fatal(err)
	}
	want := `Note: "archived" is not a status value (expected one of active, inactive)`
	if !strings.Contains(stderr, want) {
		t.Errorf("expected %q on stderr, got %q", want, stderr)
	}
	if strings.Contains(stderr, `"active" is not`) {
		t.Errorf("declared values must not be reported: %q", stderr)
	}
	if !strings.Contains(stdout, "of 5 deals") {
		t.Errorf("the filter should still run, got:\n%s", stdout)
	}
}

func TestQueryCommandSave(t *testing.T) {
	data := dealsDataset(t)
	saved := filepath.Join(t.TempDir(), "active.yaml")

	_, stderr, err := runCLI(t, "query", "--view", "deals", "--data", data,
		"--filter", "status:eq:active", "--page-size", "1", "--save", saved)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stderr, "Saved 5 records to "+saved) {
		t.Errorf("unexpected stderr: %q", stderr)
	}

	records, err := dataset.Load(context.Background(), saved)
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertRecordCount(t, records, 5)
	testutil.AssertAllHave(t, records, "status", "active")
}

func TestQueryCommandErrors(t *testing.T) {
	data := dealsDataset(t)

	testCases := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "missing view",
			args:    []string{"query", "--data", data},
			wantErr: "no view given",
		},
		{
			name:    "unknown view",
			args:    []string{"query", "--view", "invoices", "--data", data},
			wantErr: `unknown view "invoices"`,
		},
		{
			name:    "missing data",
			args:    []string{"query", "--view", "deals"},
			wantErr: `no data file for view "deals"`,
		},
		{
			name:    "data file not found",
			args:    []string{"query", "--view", "deals", "--data", filepath.Join(t.TempDir(), "missing.json")},
			wantErr: "data file not found",
		},
		{
			name:    "undeclared filter field",
			args:    []string{"query", "--view", "deals", "--data", data, "--filter", "color:eq:red"},
			wantErr: `field "color": field is not declared`,
		},
		{
			name:    "operator does not apply",
			args:    []string{"query", "--view", "deals", "--data", data, "--filter", "views:contains:3"},
			wantErr: "operator contains does not apply to number fields",
		},
		{
			name:    "malformed filter",
			args:    []string{"query", "--view", "deals", "--data", data, "--filter", "category"},
			wantErr: `invalid filter "category"`,
		},
		{
			name:    "unknown format",
			args:    []string{"query", "--view", "deals", "--data", data, "--format", "xml"},
			wantErr: `invalid format: "xml"`,
		},
		{
			name:    "bad locale",
			args:    []string{"query", "--view", "deals", "--data", data, "--locale", "not a locale"},
			wantErr: `invalid locale`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := runCLI(t, tc.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error = %v, want it to contain %q", err, tc.wantErr)
			}
		})
	}
}

func TestExportCommand(t *testing.T) {
	data := dealsDataset(t)

	t.Run("csv ignores pagination", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "active.csv")
		_, stderr, err := runCLI(t, "export", "--view", "deals", "--data", data,
			"--filter", "status:eq:active", "--sort", "name", "--out", out)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(stderr, "Exported 5 records to "+out) {
			t.Errorf("unexpected stderr: %q", stderr)
		}

		f, err := os.Open(out)
		if err != nil {
			t.Fatal(err)
		}
		defer func() { _ = f.Close() }()
		rows, err := csv.NewReader(f).ReadAll()
		if err != nil {
			t.Fatal(err)
		}
		if len(rows) != 6 {
			t.Fatalf("got %d rows, want header plus 5", len(rows))
		}
		if rows[0][0] != "Deal" || rows[1][0] != "Coffee Beans" {
			t.Errorf("unexpected rows: %v", rows[:2])
		}
	})

	t.Run("zip archive with default name", func(t *testing.T) {
		dir := t.TempDir()
		wd, wdErr := os.Getwd()
		if wdErr != nil {
			t.Fatal(wdErr)
		}
		if err := os.Chdir(dir); err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { _ = os.Chdir(wd) })

		_, _, err := runCLI(t, "export", "--view", "deals", "--data", data,
			"--kind", "archive", "--search", "organic")
		if err != nil {
			t.Fatal(err)
		}

		path := filepath.Join(dir, "deals-20240320-150405.zip")
		raw, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("archive not written: %v", err)
		}
		manifest, err := export.ReadManifest(bytes.NewReader(raw), int64(len(raw)))
		if err != nil {
			t.Fatal(err)
		}
		if manifest.Rows != 1 || manifest.Search != "organic" || manifest.View != "deals" {
			t.Errorf("unexpected manifest: %+v", manifest)
		}
	})

	t.Run("stdout", func(t *testing.T) {
		stdout, _, err := runCLI(t, "export", "--view", "deals", "--data", data,
			"--filter", "category:eq:Bakery", "--out", "-")
		if err != nil {
			t.Fatal(err)
		}
		if !strings.HasPrefix(stdout, "Deal,Distributor,") || !strings.Contains(stdout, "Sourdough Loaves") {
			t.Errorf("unexpected csv output:\n%s", stdout)
		}
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, _, err := runCLI(t, "export", "--view", "deals", "--data", data, "--kind", "xlsx")
		if err == nil || !strings.Contains(err.Error(), `unknown export kind "xlsx"`) {
			t.Errorf("expected kind error, got %v", err)
		}
	})
}

func TestViewsCommand(t *testing.T) {
	stdout, _, err := runCLI(t, "views")
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"announcements", "commitments", "deals", "logs", "orders", "users"} {
		if !strings.Contains(stdout, name) {
			t.Errorf("views output is missing %q:\n%s", name, stdout)
		}
	}

	stdout, _, err = runCLI(t, "views", "deals", "--format", "json")
	if err != nil {
		t.Fatal(err)
	}
	var table jsonTable
	if err := json.Unmarshal([]byte(stdout), &table); err != nil {
		t.Fatal(err)
	}
	byField := make(map[string]map[string]string)
	for _, row := range table.Rows {
		byField[row["Field"]] = row
	}
	if got := byField["status"]["Values"]; got != "active, inactive" {
		t.Errorf("status values = %q", got)
	}
	if got := byField["views"]["Operators"]; got != "equals, notEquals, greaterOrEqual, lessOrEqual, inSet" {
		t.Errorf("number operators = %q", got)
	}
	if got := byField["discountTiers"]["Operators"]; got != "" {
		t.Errorf("list fields take no operators, got %q", got)
	}

	_, _, err = runCLI(t, "views", "invoices")
	if err == nil || !strings.Contains(err.Error(), `unknown view "invoices"`) {
		t.Errorf("expected view error, got %v", err)
	}
}

func TestViewsDir(t *testing.T) {
	dir := t.TempDir()
	definition := `name: suppliers
title: Suppliers
fields:
  - {name: name, type: string}
  - {name: rating, type: number}
`
	if err := os.WriteFile(filepath.Join(dir, "suppliers.yaml"), []byte(definition), 0o644); err != nil {
		t.Fatal(err)
	}

	stdout, _, err := runCLI(t, "views", "--views-dir", dir)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout, "suppliers") {
		t.Errorf("custom view not listed:\n%s", stdout)
	}
}
