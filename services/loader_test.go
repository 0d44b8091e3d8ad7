package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gota/gota/series"

	"github.com/jvilchesf/ny-realstates/models"
	"github.com/jvilchesf/ny-realstates/utils"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadTypesAndSentinel(t *testing.T) {
	content := "Borough,Applicant License #,GIS_LATITUDE\n" +
		"BROOKLYN,12345,40.5\n" +
		"QUEENS,H65055,40.7\n"

	loader := NewLoader(utils.NewLogger())
	df, err := loader.Load(writeTempCSV(t, content))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if df.Nrow() != 2 || df.Ncol() != 3 {
		t.Fatalf("loaded %dx%d, want 2x3", df.Nrow(), df.Ncol())
	}

	license := df.Col(models.ColApplicantLicense)
	if license.Type() != series.String {
		t.Errorf("license column type = %v, want string despite numeric-looking values", license.Type())
	}
	if !license.Elem(1).IsNA() {
		t.Errorf("license %q = %q, want missing", models.NullSentinel, license.Elem(1).String())
	}
	if license.Elem(0).String() != "12345" {
		t.Errorf("license value = %q, want %q", license.Elem(0).String(), "12345")
	}

	if lat := df.Col(models.ColGISLatitude); lat.Type() != series.Float {
		t.Errorf("latitude column type = %v, want float", lat.Type())
	}
}

func TestLoadSkipsMalformedRows(t *testing.T) {
	content := "Borough,Job Type\n" +
		"BROOKLYN,A2\n" +
		"QUEENS\n" +
		"MANHATTAN,A1,extra-field\n" +
		"BRONX,DM\n"

	loader := NewLoader(utils.NewLogger())
	df, err := loader.Load(writeTempCSV(t, content))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if df.Nrow() != 2 {
		t.Errorf("loaded %d rows, want 2 after skipping short and long rows", df.Nrow())
	}
}

func TestLoadMissingFile(t *testing.T) {
	loader := NewLoader(utils.NewLogger())
	if _, err := loader.Load(filepath.Join(t.TempDir(), "absent.csv")); err == nil {
		t.Fatal("Load() returned nil for a missing file")
	}
}

func TestLoadHeaderOnly(t *testing.T) {
	loader := NewLoader(utils.NewLogger())
	if _, err := loader.Load(writeTempCSV(t, "Borough,Job Type\n")); err == nil {
		t.Fatal("Load() returned nil for a header-only file")
	}
}
