package services

import (
	"encoding/csv"
	"reflect"
	"strings"
	"testing"

	"github.com/jvilchesf/ny-realstates/config"
	"github.com/jvilchesf/ny-realstates/models"
	"github.com/jvilchesf/ny-realstates/utils"
)

// TestPipelineEndToEnd drives loader, transformer and indicators over a
// three-row export: one filing approved in 2022, one in January 2023,
// one in December 2024.
func TestPipelineEndToEnd(t *testing.T) {
	fullRow := func(borough, approved string, marks map[string]string) []string {
		row := filingRow(borough, approved, "40.5", "-73.9", "1000")
		for _, jobType := range models.JobTypeColumns() {
			row = append(row, marks[jobType])
		}
		return row
	}

	records := [][]string{
		append(append([]string{}, filingHeader...), models.JobTypeColumns()...),
		fullRow("BROOKLYN", "10/06/2022", map[string]string{"Plumbing": "X"}),
		fullRow("QUEENS", "15/01/2023", map[string]string{"Plumbing": "X"}),
		fullRow("MANHATTAN", "20/12/2024", map[string]string{"Boiler": "X"}),
	}

	var sb strings.Builder
	w := csv.NewWriter(&sb)
	if err := w.WriteAll(records); err != nil {
		t.Fatal(err)
	}
	path := writeTempCSV(t, sb.String())

	logger := utils.NewLogger()
	cfg := &config.Config{YearFrom: 2023, YearTo: 2024}

	df, err := NewLoader(logger).Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	result, err := NewTransformer(cfg, logger).Transform(df)
	if err != nil {
		t.Fatalf("Transform() error: %v", err)
	}
	if got := result.Aggregated.Nrow(); got != 2 {
		t.Fatalf("aggregated rows = %d, want 2 (the 2022 filing excluded)", got)
	}

	indicators := NewIndicatorService(logger)
	long, err := indicators.Melt(result.Filtered)
	if err != nil {
		t.Fatalf("Melt() error: %v", err)
	}
	if len(long) != 24 {
		t.Fatalf("long-form records = %d, want 2 rows x 12 job types", len(long))
	}

	counts := indicators.MonthlyCounts(long)
	if !reflect.DeepEqual(counts.Months, []string{"2023-01", "2024-12"}) {
		t.Fatalf("chart months = %v, want exactly [2023-01 2024-12]", counts.Months)
	}
	if got := counts.Count("2023-01", "Plumbing"); got != 1 {
		t.Errorf("January 2023 plumbing count = %d, want 1", got)
	}
	if got := counts.Count("2024-12", "Boiler"); got != 1 {
		t.Errorf("December 2024 boiler count = %d, want 1", got)
	}
	if got := counts.Count("2024-12", "Plumbing"); got != 0 {
		t.Errorf("December 2024 plumbing count = %d, want 0", got)
	}

	// A rerun over the same raw file reproduces the aggregate exactly.
	df2, err := NewLoader(logger).Load(path)
	if err != nil {
		t.Fatalf("second Load() error: %v", err)
	}
	rerun, err := NewTransformer(cfg, logger).Transform(df2)
	if err != nil {
		t.Fatalf("second Transform() error: %v", err)
	}
	if !reflect.DeepEqual(rerun.Aggregated.Records(), result.Aggregated.Records()) {
		t.Error("rerunning over the same raw file changed the aggregated output")
	}
}
