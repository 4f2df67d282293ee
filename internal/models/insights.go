package models

import "time"

// WorkerPresence is the data payload of GET /api/insights/worker-present.
type WorkerPresence struct {
	Present int `json:"present"`
	Absent  int `json:"absent"`
}

// TrendItemPoint is one point of the inbound-vs-outbound item trend.
type TrendItemPoint struct {
	Date     time.Time `json:"date"`
	Inbound  int       `json:"inbound"`
	Outbound int       `json:"outbound"`
}

// WorkerPerformance is one bar of the operator-comparison chart.
type WorkerPerformance struct {
	OperatorName string `json:"operatorName"`
	TotalItems   int    `json:"totalItems"`
}

// Insight periods accepted by GET /api/insights/worker-performance.
const (
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
)
