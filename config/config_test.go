package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearPipelineEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"DATASET_URL", "DATA_DIR", "OUTPUT_DIR", "RAW_DATA_FILE",
		"FILTER_YEAR_FROM", "FILTER_YEAR_TO", "DOWNLOAD_CHUNK_BYTES",
		"POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_USER",
		"POSTGRES_PASSWORD", "POSTGRES_DB", "POSTGRES_SSLMODE",
	}
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearPipelineEnv(t)

	cfg := Load()

	if cfg.DatasetURL != defaultDatasetURL {
		t.Errorf("DatasetURL = %q, want the NYC Open Data export URL", cfg.DatasetURL)
	}
	if cfg.YearFrom != 2023 || cfg.YearTo != 2024 {
		t.Errorf("year window = %d..%d, want 2023..2024", cfg.YearFrom, cfg.YearTo)
	}
	if cfg.DownloadChunkBytes != 8192 {
		t.Errorf("DownloadChunkBytes = %d, want 8192", cfg.DownloadChunkBytes)
	}
	if cfg.PostgresEnabled() {
		t.Error("PostgresEnabled() = true with no POSTGRES_HOST set")
	}

	wantRaw := "DOB_Job_Application_Filings_" + time.Now().Format("20060102") + ".csv"
	if cfg.RawDataFile != wantRaw {
		t.Errorf("RawDataFile = %q, want %q", cfg.RawDataFile, wantRaw)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearPipelineEnv(t)
	t.Setenv("DATA_DIR", "/tmp/pipeline")
	t.Setenv("RAW_DATA_FILE", "snapshot.csv")
	t.Setenv("FILTER_YEAR_FROM", "2020")
	t.Setenv("FILTER_YEAR_TO", "2021")
	t.Setenv("POSTGRES_HOST", "db.internal")

	cfg := Load()

	if cfg.YearFrom != 2020 || cfg.YearTo != 2021 {
		t.Errorf("year window = %d..%d, want 2020..2021", cfg.YearFrom, cfg.YearTo)
	}
	if got := cfg.RawDataPath(); got != filepath.Join("/tmp/pipeline", "raw", "snapshot.csv") {
		t.Errorf("RawDataPath() = %q", got)
	}
	if !cfg.PostgresEnabled() {
		t.Error("PostgresEnabled() = false with POSTGRES_HOST set")
	}
}

func TestLoadIgnoresBadInt(t *testing.T) {
	clearPipelineEnv(t)
	t.Setenv("FILTER_YEAR_FROM", "twenty-three")

	if cfg := Load(); cfg.YearFrom != 2023 {
		t.Errorf("YearFrom = %d, want fallback 2023 for unparseable env value", cfg.YearFrom)
	}
}

func TestDerivedPaths(t *testing.T) {
	cfg := &Config{DataDir: "data", OutputDir: "output", RawDataFile: "raw.csv"}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"raw", cfg.RawDataPath(), filepath.Join("data", "raw", "raw.csv")},
		{"processed", cfg.ProcessedDataPath(), filepath.Join("data", "processed", "job_application_filings_output.csv")},
		{"chart", cfg.ChartPath(), filepath.Join("output", "jobs_by_month_type.png")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("path = %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestEnsureDirs(t *testing.T) {
	cfg := &Config{DataDir: filepath.Join(t.TempDir(), "data"), OutputDir: filepath.Join(t.TempDir(), "output")}

	if err := cfg.EnsureDirs(); err != nil {
		t.Fatalf("EnsureDirs() error: %v", err)
	}
	for _, dir := range []string{cfg.RawDir(), cfg.ProcessedDir(), cfg.OutputDir} {
		if _, err := os.Stat(dir); err != nil {
			t.Errorf("directory %s not created: %v", dir, err)
		}
	}
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		PostgresHost:     "localhost",
		PostgresPort:     "5432",
		PostgresUser:     "permits",
		PostgresPassword: "permits123",
		PostgresDB:       "permits_db",
		PostgresSSLMode:  "disable",
	}

	want := "host=localhost port=5432 user=permits password=permits123 dbname=permits_db sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}
