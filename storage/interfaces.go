package storage

import (
	"github.com/go-gota/gota/dataframe"

	"github.com/jvilchesf/ny-realstates/models"
)

// SummaryWriter is the interface any aggregated-table sink must satisfy.
type SummaryWriter interface {
	Write(df dataframe.DataFrame) error
	Close() error
}

// ChartRenderer renders the monthly job-type matrix to an image file.
type ChartRenderer interface {
	Write(counts *models.MonthlyJobTypeCounts) error
}
