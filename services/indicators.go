package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/go-gota/gota/dataframe"

	"github.com/jvilchesf/ny-realstates/models"
	"github.com/jvilchesf/ny-realstates/utils"
)

// IndicatorService reshapes the twelve work-type indicator columns into
// the long-form counts behind the stacked bar chart.
type IndicatorService struct {
	logger *utils.Logger
}

// NewIndicatorService creates an IndicatorService with the given logger.
func NewIndicatorService(logger *utils.Logger) *IndicatorService {
	return &IndicatorService{logger: logger}
}

// Melt turns the filtered table into one record per (approval date, job
// type) pair: count 1 when the indicator cell holds exactly the X
// marker, 0 for anything else including a missing cell. Rows without an
// approval date are dropped. A missing indicator column is an error.
func (s *IndicatorService) Melt(filtered dataframe.DataFrame) ([]models.IndicatorCount, error) {
	dates := filtered.Col(models.ColDateApproved)
	if dates.Err != nil {
		return nil, fmt.Errorf("indicators: column %q: %w", models.ColDateApproved, dates.Err)
	}

	jobTypes := models.JobTypeColumns()
	long := make([]models.IndicatorCount, 0, filtered.Nrow()*len(jobTypes))
	for _, jobType := range jobTypes {
		col := filtered.Col(jobType)
		if col.Err != nil {
			return nil, fmt.Errorf("indicators: column %q: %w", jobType, col.Err)
		}
		for i := 0; i < filtered.Nrow(); i++ {
			if dates.Elem(i).IsNA() {
				continue
			}
			count := 0
			if col.Elem(i).String() == models.IndicatorMark {
				count = 1
			}
			long = append(long, models.IndicatorCount{
				Date:    dates.Elem(i).String(),
				JobType: jobType,
				Count:   count,
			})
		}
	}

	s.logger.Debug("[indicators] Melted %d rows into %s long-form records",
		filtered.Nrow(), utils.FormatCount(len(long)))
	return long, nil
}

// MonthlyCounts buckets long-form records by calendar month and sums the
// counts per job type. Months come out ascending and job types
// alphabetical; every (month, job type) pair resolves, zero when absent.
func (s *IndicatorService) MonthlyCounts(long []models.IndicatorCount) *models.MonthlyJobTypeCounts {
	typeSet := make(map[string]struct{})
	counts := make(map[string]map[string]int)
	for _, rec := range long {
		parsed, err := time.Parse(models.ISODateLayout, rec.Date)
		if err != nil {
			continue
		}
		month := parsed.Format(models.MonthLayout)
		if counts[month] == nil {
			counts[month] = make(map[string]int)
		}
		counts[month][rec.JobType] += rec.Count
		typeSet[rec.JobType] = struct{}{}
	}

	months := make([]string, 0, len(counts))
	for month := range counts {
		months = append(months, month)
	}
	sort.Strings(months)

	jobTypes := make([]string, 0, len(typeSet))
	for jobType := range typeSet {
		jobTypes = append(jobTypes, jobType)
	}
	sort.Strings(jobTypes)

	s.logger.Debug("[indicators] Monthly matrix: %d months x %d job types",
		len(months), len(jobTypes))
	return &models.MonthlyJobTypeCounts{Months: months, JobTypes: jobTypes, Counts: counts}
}
