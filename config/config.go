package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultDatasetURL = "https://data.cityofnewyork.us/api/views/ic3t-wcy2/rows.csv?accessType=DOWNLOAD"

	processedFileName = "job_application_filings_output.csv"
	chartFileName     = "jobs_by_month_type.png"
)

// Config holds all application configuration loaded from environment
// variables. The defaults reproduce a standard pipeline run, env vars
// are overrides only.
type Config struct {
	DatasetURL  string
	DataDir     string
	OutputDir   string
	RawDataFile string // file name only, lives under RawDir

	YearFrom int
	YearTo   int

	DownloadChunkBytes int

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
}

// Load reads the .env file and returns a populated Config struct. The
// default raw file name carries today's date, so each day's download
// lands in its own file and reruns on the same day skip the fetch.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	datedRawFile := "DOB_Job_Application_Filings_" + time.Now().Format("20060102") + ".csv"

	return &Config{
		DatasetURL:  getEnv("DATASET_URL", defaultDatasetURL),
		DataDir:     getEnv("DATA_DIR", "data"),
		OutputDir:   getEnv("OUTPUT_DIR", "output"),
		RawDataFile: getEnv("RAW_DATA_FILE", datedRawFile),

		YearFrom: getEnvInt("FILTER_YEAR_FROM", 2023),
		YearTo:   getEnvInt("FILTER_YEAR_TO", 2024),

		DownloadChunkBytes: getEnvInt("DOWNLOAD_CHUNK_BYTES", 8192),

		PostgresHost:     getEnv("POSTGRES_HOST", ""),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "permits"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "permits123"),
		PostgresDB:       getEnv("POSTGRES_DB", "permits_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
	}
}

// RawDir is where downloaded exports land.
func (c *Config) RawDir() string {
	return filepath.Join(c.DataDir, "raw")
}

// ProcessedDir is where aggregated CSV output lands.
func (c *Config) ProcessedDir() string {
	return filepath.Join(c.DataDir, "processed")
}

// RawDataPath returns the full path of the dated raw export.
func (c *Config) RawDataPath() string {
	return filepath.Join(c.RawDir(), c.RawDataFile)
}

// ProcessedDataPath returns the full path of the aggregated output CSV.
func (c *Config) ProcessedDataPath() string {
	return filepath.Join(c.ProcessedDir(), processedFileName)
}

// ChartPath returns the full path of the rendered chart PNG.
func (c *Config) ChartPath() string {
	return filepath.Join(c.OutputDir, chartFileName)
}

// EnsureDirs creates the raw, processed and output directories.
func (c *Config) EnsureDirs() error {
	for _, dir := range []string{c.RawDir(), c.ProcessedDir(), c.OutputDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("config: create %s: %w", dir, err)
		}
	}
	return nil
}

// PostgresEnabled reports whether the optional warehouse sink is
// configured. An empty host leaves it off.
func (c *Config) PostgresEnabled() bool {
	return c.PostgresHost != ""
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}
