package models

import "time"

// OverviewCounts is today's headline numbers.
type OverviewCounts struct {
	TotalItemsToday    int     `json:"totalItemsToday"`
	PresentWorkers     int     `json:"presentWorkers"`
	ProductivityTarget float64 `json:"productivityTarget"`
	ProductivityActual float64 `json:"productivityActual"`
}

// TrendAverages is the data payload of GET /api/overview/trend.
type TrendAverages struct {
	DailyAverage   float64 `json:"daily_average"`
	WeeklyAverage  float64 `json:"weekly_average"`
	MonthlyAverage float64 `json:"monthly_average"`
}

// RecentLogOperator is the abbreviated operator reference embedded in
// recent-log rows.
type RecentLogOperator struct {
	Operator struct {
		ID       int    `json:"id"`
		Username string `json:"username"`
	} `json:"operator"`
}

// RecentLog is one row of the dashboard's recent-activity table.
type RecentLog struct {
	ID           int                 `json:"id"`
	LogDate      time.Time           `json:"logDate"`
	BinningCount int                 `json:"binningCount"`
	PickingCount int                 `json:"pickingCount"`
	TotalItems   *int                `json:"totalItems"`
	IssueNotes   *string             `json:"issueNotes"`
	TotalWorkers int                 `json:"totalWorkers"`
	Attendance   []RecentLogOperator `json:"attendance"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

// BarPoint is one bar of the productivity chart.
type BarPoint struct {
	Date  time.Time `json:"date"`
	Count float64   `json:"count"`
}

// BarProductivity is the data payload of GET /api/overview/bar-productivity.
type BarProductivity struct {
	Productivity []BarPoint `json:"productivity"`
	Target       float64    `json:"target"`
}
