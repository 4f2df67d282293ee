package models

import "time"

// Attendance records one operator present on a log's date.
type Attendance struct {
	OperatorID      int     `json:"operatorId"`
	OperatorName    string  `json:"operatorName"`
	OperatorSubRole SubRole `json:"operatorSubRole"`
}

// DailyLog is one row of the daily-logs table. Productivity is computed
// server-side and consumed verbatim.
type DailyLog struct {
	ID           int          `json:"id"`
	LogDate      time.Time    `json:"logDate"`
	BinningCount int          `json:"binningCount"`
	PickingCount int          `json:"pickingCount"`
	TotalItems   int          `json:"totalItems"`
	Productivity float64      `json:"productivity"`
	Attendance   []Attendance `json:"attendance"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// DailyLogDetail extends DailyLog with the free-form notes shown in the
// detail dialog.
type DailyLogDetail struct {
	DailyLog
	WorkNotes string `json:"workNotes,omitempty"`
}

// LogPage is the data payload of GET /api/daily-logs.
type LogPage struct {
	Logs  []DailyLog `json:"logs"`
	Total int        `json:"total"`
}

// CreateDailyLogRequest is the payload for POST /api/daily-logs. LogDate is
// a calendar date in YYYY-MM-DD form.
type CreateDailyLogRequest struct {
	LogDate        string `json:"logDate" validate:"required,datetime=2006-01-02"`
	BinningCount   int    `json:"binningCount" validate:"min=0"`
	PickingCount   int    `json:"pickingCount" validate:"min=0"`
	WorkerPresents []int  `json:"workerPresents" validate:"required,min=1,dive,min=1"`
	WorkNotes      string `json:"workNotes,omitempty"`
}

// UpdateDailyLogRequest is the payload for PUT /api/daily-logs/{id}.
type UpdateDailyLogRequest struct {
	BinningCount   int    `json:"binningCount" validate:"min=0"`
	PickingCount   int    `json:"pickingCount" validate:"min=0"`
	WorkerPresents []int  `json:"workerPresents" validate:"required,min=1,dive,min=1"`
	WorkNotes      string `json:"workNotes,omitempty"`
}
