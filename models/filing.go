package models

// Column names exactly as the DOB Job Application Filings export spells
// them, including the stray space in "Pre- Filing Date".
const (
	ColBorough          = "Borough"
	ColJobType          = "Job Type"
	ColJobStatus        = "Job Status"
	ColApproved         = "Approved"
	ColJobNumber        = "Job #"
	ColBuildingType     = "Building Type"
	ColPreFilingDate    = "Pre- Filing Date"
	ColBuildingClass    = "BUILDING_CLASS"
	ColJobDescription   = "Job Description"
	ColDateApproved     = "Date_Approved"
	ColFullyPaid        = "Fully Paid"
	ColGISLatitude      = "GIS_LATITUDE"
	ColGISLongitude     = "GIS_LONGITUDE"
	ColInitialCost      = "Initial Cost"
	ColApplicantLicense = "Applicant License #"
)

const (
	// ApprovedDateLayout is day-first. The export has always been consumed
	// this way, changing it would shift every derived date.
	ApprovedDateLayout = "02/01/2006"
	// ISODateLayout is the serialization format for derived dates.
	ISODateLayout = "2006-01-02"
	// MonthLayout buckets derived dates into calendar months for the chart.
	MonthLayout = "2006-01"
)

// NullSentinel is the placeholder the export writes for missing cells.
const NullSentinel = "H65055"

// IndicatorMark flags a work type as present on a filing.
const IndicatorMark = "X"

// AggregationKey returns the columns that jointly identify one filing.
// Rows sharing all eleven values are duplicates and collapse into one.
func AggregationKey() []string {
	return []string{
		ColBorough,
		ColJobType,
		ColJobStatus,
		ColApproved,
		ColJobNumber,
		ColBuildingType,
		ColPreFilingDate,
		ColBuildingClass,
		ColJobDescription,
		ColDateApproved,
		ColFullyPaid,
	}
}

// JobTypeColumns returns the twelve work-type indicator columns. Each
// holds IndicatorMark when the filing covers that kind of work.
func JobTypeColumns() []string {
	return []string{
		"Plumbing",
		"Mechanical",
		"Boiler",
		"Fuel Burning",
		"Fuel Storage",
		"Standpipe",
		"Sprinkler",
		"Fire Alarm",
		"Equipment",
		"Fire Suppression",
		"Curb Cut",
		"Other",
	}
}

// IndicatorCount is one long-format row of the melted indicator table:
// an ISO approval date, a work type, and whether the filing carries it.
type IndicatorCount struct {
	Date    string
	JobType string
	Count   int
}

// MonthlyJobTypeCounts is the month-by-job-type matrix behind the stacked
// bar chart. Months are ascending, JobTypes alphabetical, and every pair
// resolves to a count, zero when it never occurred.
type MonthlyJobTypeCounts struct {
	Months   []string
	JobTypes []string
	Counts   map[string]map[string]int
}

// Count returns the number of filings for a job type in a month.
func (m *MonthlyJobTypeCounts) Count(month, jobType string) int {
	return m.Counts[month][jobType]
}

// Series returns the per-month values for one job type, aligned with
// Months. The chart consumes each series as one stacked layer.
func (m *MonthlyJobTypeCounts) Series(jobType string) []float64 {
	vals := make([]float64, len(m.Months))
	for i, month := range m.Months {
		vals[i] = float64(m.Counts[month][jobType])
	}
	return vals
}

// Empty reports whether the matrix covers no months at all.
func (m *MonthlyJobTypeCounts) Empty() bool {
	return len(m.Months) == 0
}
