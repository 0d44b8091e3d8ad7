package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-gota/gota/dataframe"
)

// CSVWriter serializes the aggregated table to a CSV file. The file is
// only created when Write is called, so a run that ends early leaves no
// empty output behind.
type CSVWriter struct {
	path string
}

// NewCSVWriter returns a writer targeting path.
func NewCSVWriter(path string) *CSVWriter {
	return &CSVWriter{path: path}
}

// Write creates (or truncates) the target file and writes the frame as
// a header row plus records. Intermediate directories are created
// automatically.
func (c *CSVWriter) Write(df dataframe.DataFrame) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(c.path)
	if err != nil {
		return fmt.Errorf("csv: create file %q: %w", c.path, err)
	}

	if err := df.WriteCSV(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("csv: write %q: %w", c.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("csv: close %q: %w", c.path, err)
	}
	return nil
}

// Close implements SummaryWriter. Nothing is held open between writes.
func (c *CSVWriter) Close() error {
	return nil
}
