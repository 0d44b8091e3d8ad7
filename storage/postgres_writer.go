package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	_ "github.com/lib/pq"

	"github.com/jvilchesf/ny-realstates/utils"
)

// summaryColumns is the width of the aggregated table: eleven key
// columns followed by latitude, longitude and cost.
const summaryColumns = 14

// PostgresWriter persists the aggregated filings table to PostgreSQL.
// The sink is optional; the driver only constructs one when a host is
// configured.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, waits for the
// server to answer pings, runs schema migrations and returns a
// ready-to-use writer.
func NewPostgresWriter(dsn string, logger *utils.Logger) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	retry := &utils.RetryConfig{
		MaxAttempts: 10,
		BaseDelay:   2 * time.Second,
		MaxDelay:    2 * time.Second,
		Logger:      logger,
	}
	if err := retry.Do("postgres ping", db.Ping); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}
	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS filings_summary (
			id              SERIAL PRIMARY KEY,
			borough         TEXT NOT NULL DEFAULT '',
			job_type        TEXT NOT NULL DEFAULT '',
			job_status      TEXT NOT NULL DEFAULT '',
			approved        TEXT NOT NULL DEFAULT '',
			job_number      TEXT NOT NULL DEFAULT '',
			building_type   TEXT NOT NULL DEFAULT '',
			pre_filing_date TEXT NOT NULL DEFAULT '',
			building_class  TEXT NOT NULL DEFAULT '',
			job_description TEXT NOT NULL DEFAULT '',
			date_approved   DATE,
			fully_paid      TEXT NOT NULL DEFAULT '',
			gis_latitude    DOUBLE PRECISION,
			gis_longitude   DOUBLE PRECISION,
			initial_cost    DOUBLE PRECISION,
			loaded_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_filings_summary_borough  ON filings_summary(borough);
		CREATE INDEX IF NOT EXISTS idx_filings_summary_approved ON filings_summary(date_approved);
	`)
	return err
}

func (pw *PostgresWriter) clear() error {
	if _, err := pw.db.Exec("TRUNCATE filings_summary"); err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}
	return nil
}

// Write replaces the table contents with the aggregated frame, inserting
// in batches. Each run is a full refresh, not an append.
func (pw *PostgresWriter) Write(df dataframe.DataFrame) error {
	if df.Nrow() == 0 {
		return nil
	}

	if err := pw.clear(); err != nil {
		return err
	}

	records := df.Records()[1:] // first record is the header
	const batchSize = 50
	for i := 0; i < len(records); i += batchSize {
		end := i + batchSize
		if end > len(records) {
			end = len(records)
		}
		if err := pw.insertBatch(records[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (pw *PostgresWriter) insertBatch(batch [][]string) error {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*summaryColumns)

	for idx, rec := range batch {
		if len(rec) != summaryColumns {
			return fmt.Errorf("postgres: row has %d columns, want %d", len(rec), summaryColumns)
		}
		placeholders := make([]string, summaryColumns)
		for j := range placeholders {
			placeholders[j] = fmt.Sprintf("$%d", idx*summaryColumns+j+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		for _, v := range rec {
			valueArgs = append(valueArgs, v)
		}
	}

	query := fmt.Sprintf(`
		INSERT INTO filings_summary (
			borough, job_type, job_status, approved, job_number,
			building_type, pre_filing_date, building_class, job_description,
			date_approved, fully_paid, gis_latitude, gis_longitude, initial_cost
		)
		VALUES %s
	`, strings.Join(valueStrings, ","))

	if _, err := pw.db.Exec(query, valueArgs...); err != nil {
		return fmt.Errorf("postgres: insert batch: %w", err)
	}
	return nil
}

// Close releases the database connection.
func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}
