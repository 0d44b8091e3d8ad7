package services

import (
	"fmt"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/jvilchesf/ny-realstates/config"
	"github.com/jvilchesf/ny-realstates/models"
	"github.com/jvilchesf/ny-realstates/utils"
)

// TransformResult carries the two tables later stages consume: the
// year-filtered rows feeding the chart, and the key-collapsed aggregate
// written to CSV and the warehouse.
type TransformResult struct {
	Filtered   dataframe.DataFrame
	Aggregated dataframe.DataFrame
}

// Empty reports whether no rows survived the year filter. An empty
// result ends the run early without producing output files.
func (r TransformResult) Empty() bool {
	return r.Filtered.Nrow() == 0
}

// Transformer derives approval dates, applies the approval-year window
// and collapses duplicate filings into one row per aggregation key.
type Transformer struct {
	cfg    *config.Config
	logger *utils.Logger
}

// NewTransformer creates a Transformer bound to the configured year window.
func NewTransformer(cfg *config.Config, logger *utils.Logger) *Transformer {
	return &Transformer{cfg: cfg, logger: logger}
}

// Transform runs the derive, filter and aggregate steps in order. An
// empty window is not an error, the caller checks Empty() and stops.
func (t *Transformer) Transform(df dataframe.DataFrame) (TransformResult, error) {
	t.logger.Info("[transform] Processing data...")

	withDates, err := t.deriveApprovalDates(df)
	if err != nil {
		return TransformResult{}, err
	}

	filtered := t.filterYearWindow(withDates)
	if filtered.Err != nil {
		return TransformResult{}, fmt.Errorf("transformer: filter years: %w", filtered.Err)
	}
	if filtered.Nrow() == 0 {
		t.logger.Warn("[transform] No data found for years %d-%d. Check date format.",
			t.cfg.YearFrom, t.cfg.YearTo)
		return TransformResult{}, nil
	}
	t.logger.Info("[transform] Filtered data: %s records from %d-%d",
		utils.FormatCount(filtered.Nrow()), t.cfg.YearFrom, t.cfg.YearTo)

	aggregated, err := t.aggregateByKey(filtered)
	if err != nil {
		return TransformResult{}, err
	}
	t.logger.Info("[transform] Data aggregated: %s unique records",
		utils.FormatCount(aggregated.Nrow()))

	return TransformResult{Filtered: filtered, Aggregated: aggregated}, nil
}

// deriveApprovalDates appends the Date_Approved column: the Approved
// string parsed day-first, reserialized as ISO. Unparseable cells
// become missing values, never errors.
func (t *Transformer) deriveApprovalDates(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	approved := df.Col(models.ColApproved)
	if approved.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("transformer: column %q: %w", models.ColApproved, approved.Err)
	}

	derived := make([]string, approved.Len())
	for i := 0; i < approved.Len(); i++ {
		parsed, err := time.Parse(models.ApprovedDateLayout, approved.Elem(i).String())
		if err != nil {
			derived[i] = "NaN"
			continue
		}
		derived[i] = parsed.Format(models.ISODateLayout)
	}

	out := df.Mutate(series.New(derived, series.String, models.ColDateApproved))
	if out.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("transformer: derive %s: %w", models.ColDateApproved, out.Err)
	}
	return out, nil
}

// filterYearWindow keeps rows whose derived approval year falls inside
// the configured window. Missing dates never match.
func (t *Transformer) filterYearWindow(df dataframe.DataFrame) dataframe.DataFrame {
	return df.Filter(dataframe.F{
		Colname:    models.ColDateApproved,
		Comparator: series.CompFunc,
		Comparando: func(el series.Element) bool {
			if el.IsNA() {
				return false
			}
			parsed, err := time.Parse(models.ISODateLayout, el.String())
			if err != nil {
				return false
			}
			return parsed.Year() >= t.cfg.YearFrom && parsed.Year() <= t.cfg.YearTo
		},
	})
}

// aggregateByKey collapses rows sharing the eleven key columns into one,
// averaging the two coordinates and summing the initial cost. Rows
// missing a key value are excluded first, a group cannot be keyed on a
// missing cell.
func (t *Transformer) aggregateByKey(filtered dataframe.DataFrame) (dataframe.DataFrame, error) {
	keyed := filtered
	for _, col := range models.AggregationKey() {
		keyed = keyed.Filter(dataframe.F{Colname: col, Comparator: series.CompFunc, Comparando: hasValue})
	}
	if keyed.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("transformer: drop incomplete keys: %w", keyed.Err)
	}
	if keyed.Nrow() == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("transformer: no rows with a complete aggregation key")
	}

	grouped := keyed.GroupBy(models.AggregationKey()...)
	if grouped.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("transformer: group filings: %w", grouped.Err)
	}

	agg := grouped.Aggregation(
		[]dataframe.AggregationType{
			dataframe.Aggregation_MEAN,
			dataframe.Aggregation_MEAN,
			dataframe.Aggregation_SUM,
		},
		[]string{models.ColGISLatitude, models.ColGISLongitude, models.ColInitialCost},
	)
	if agg.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("transformer: aggregate groups: %w", agg.Err)
	}

	// Aggregation names its outputs <col>_MEAN / <col>_SUM and loses the
	// column order. Restore both, then sort rows by the key so the output
	// does not depend on input row order.
	agg = agg.Rename(models.ColGISLatitude, models.ColGISLatitude+"_MEAN")
	agg = agg.Rename(models.ColGISLongitude, models.ColGISLongitude+"_MEAN")
	agg = agg.Rename(models.ColInitialCost, models.ColInitialCost+"_SUM")
	agg = agg.Select(outputColumns())
	// gota v0.12.0's Arrange mis-composes three or more sort keys (each
	// pass subsets by the previous pass's index instead of the accumulated
	// permutation), so the rows would stay in GroupBy's random map order.
	// Applying the same keys as successive stable single-key passes, least
	// significant first, yields the lexicographic order Arrange promises.
	orders := keyOrder()
	for i := len(orders) - 1; i >= 0; i-- {
		agg = agg.Arrange(orders[i])
	}
	if agg.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("transformer: order aggregated rows: %w", agg.Err)
	}
	return agg, nil
}

func hasValue(el series.Element) bool {
	return !el.IsNA()
}

// outputColumns is the aggregated table's column order: the eleven key
// columns followed by the three aggregates.
func outputColumns() []string {
	return append(models.AggregationKey(),
		models.ColGISLatitude, models.ColGISLongitude, models.ColInitialCost)
}

func keyOrder() []dataframe.Order {
	key := models.AggregationKey()
	orders := make([]dataframe.Order, 0, len(key))
	for _, col := range key {
		orders = append(orders, dataframe.Sort(col))
	}
	return orders
}
