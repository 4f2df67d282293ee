package models

// ReportType selects the aggregation granularity of a report.
type ReportType string

const (
	ReportDaily   ReportType = "daily"
	ReportWeekly  ReportType = "weekly"
	ReportMonthly ReportType = "monthly"
)

// FileFormat selects the export rendering.
type FileFormat string

const (
	FormatCSV FileFormat = "csv"
	FormatPDF FileFormat = "pdf"
)

// ReportQuery drives both /api/reports/filter and /api/reports/export.
// Dates are calendar dates in YYYY-MM-DD form.
type ReportQuery struct {
	StartDate string     `validate:"required,datetime=2006-01-02"`
	EndDate   string     `validate:"required,datetime=2006-01-02"`
	Type      ReportType `validate:"required,oneof=daily weekly monthly"`
	Search    string
}

// ReportRow is one preview row. Time is pre-formatted server-side according
// to the report type (a date, a week range, or a month).
type ReportRow struct {
	Time         string  `json:"time"`
	OperatorName string  `json:"operatorName"`
	BinningCount int     `json:"binningCount"`
	PickingCount int     `json:"pickingCount"`
	TotalItems   int     `json:"totalItems"`
	Productivity float64 `json:"productivity"`
}
