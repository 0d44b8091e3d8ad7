package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/jvilchesf/ny-realstates/models"
	"github.com/jvilchesf/ny-realstates/utils"
)

// Loader parses the raw export into a typed data frame.
type Loader struct {
	logger *utils.Logger
}

// NewLoader creates a Loader with the given logger.
func NewLoader(logger *utils.Logger) *Loader {
	return &Loader{logger: logger}
}

// Load reads the CSV at path into a data frame. The license column is
// forced to string because its values mix digits and letters, the
// export's H65055 placeholder loads as a missing value, and rows whose
// field count differs from the header are skipped rather than failing
// the whole parse.
func (l *Loader) Load(path string) (dataframe.DataFrame, error) {
	l.logger.Info("[loader] Loading data from %s...", path)

	file, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("loader: open %s: %w", path, err)
	}
	defer file.Close()

	records, skipped, err := readRecords(file)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("loader: read %s: %w", path, err)
	}
	if skipped > 0 {
		l.logger.Warn("[loader] Skipped %s malformed rows", utils.FormatCount(skipped))
	}

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.DefaultType(series.String),
		dataframe.WithTypes(map[string]series.Type{
			models.ColApplicantLicense: series.String,
		}),
		dataframe.NaNValues([]string{"NA", "NaN", "<nil>", models.NullSentinel}),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("loader: parse %s: %w", path, df.Err)
	}

	l.logger.Info("[loader] Data loaded successfully: %s rows, %d columns",
		utils.FormatCount(df.Nrow()), df.Ncol())
	return df, nil
}

// readRecords consumes the CSV stream. The header fixes the expected
// width; rows that deviate from it, or that the csv reader rejects,
// are dropped and counted.
func readRecords(r io.Reader) ([][]string, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("read header: %w", err)
	}

	records := [][]string{header}
	skipped := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}
		if len(row) != len(header) {
			skipped++
			continue
		}
		records = append(records, row)
	}
	return records, skipped, nil
}
