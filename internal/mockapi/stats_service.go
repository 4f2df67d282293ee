package mockapi

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gudang-labs/warehouse-dashboard/internal/mockapi/repository"
	"github.com/gudang-labs/warehouse-dashboard/internal/models"
	apperrors "github.com/gudang-labs/warehouse-dashboard/pkg/errors"
)

// targetPercent is the productivity goal line shown on every chart.
const targetPercent = 100

// StatsService derives the dashboard aggregates from raw daily logs.
// Productivity is the handled-item count relative to what the present
// crew should handle at the configured per-operator daily target.
type StatsService struct {
	repo        repository.Repository
	dailyTarget int
	now         func() time.Time
}

// NewStatsService constructs a stats service. dailyTarget is the expected
// item count per operator per day.
func NewStatsService(repo repository.Repository, dailyTarget int) *StatsService {
	if dailyTarget <= 0 {
		dailyTarget = 55
	}
	return &StatsService{repo: repo, dailyTarget: dailyTarget, now: time.Now}
}

func (s *StatsService) productivity(log repository.LogRecord) float64 {
	workers := len(log.WorkerIDs)
	if workers == 0 {
		return 0
	}
	return float64(log.TotalItems()) / float64(workers*s.dailyTarget) * 100
}

// Counts builds today's headline numbers from the most recent log.
func (s *StatsService) Counts(ctx context.Context) (*models.OverviewCounts, error) {
	latest, err := s.latestLog(ctx)
	if err != nil {
		return nil, err
	}
	counts := &models.OverviewCounts{ProductivityTarget: targetPercent}
	if latest != nil {
		counts.TotalItemsToday = latest.TotalItems()
		counts.PresentWorkers = len(latest.WorkerIDs)
		counts.ProductivityActual = s.productivity(*latest)
	}
	return counts, nil
}

// Trend averages productivity over the last day, week and month.
func (s *StatsService) Trend(ctx context.Context) (*models.TrendAverages, error) {
	today := s.today()
	logs, err := s.repo.LogsBetween(ctx, today.AddDate(0, 0, -30), today)
	if err != nil {
		return nil, storageErr(err)
	}

	avgSince := func(from time.Time) float64 {
		var sum float64
		var n int
		for _, l := range logs {
			if l.LogDate.Before(from) {
				continue
			}
			sum += s.productivity(l)
			n++
		}
		if n == 0 {
			return 0
		}
		return sum / float64(n)
	}

	return &models.TrendAverages{
		DailyAverage:   avgSince(today.AddDate(0, 0, -1)),
		WeeklyAverage:  avgSince(today.AddDate(0, 0, -7)),
		MonthlyAverage: avgSince(today.AddDate(0, 0, -30)),
	}, nil
}

// RecentLogs returns the five most recent logs for the activity table.
func (s *StatsService) RecentLogs(ctx context.Context) ([]models.RecentLog, error) {
	logs, _, err := s.repo.ListLogs(ctx, repository.LogFilter{
		Page:      1,
		Limit:     5,
		SortBy:    "logDate",
		SortOrder: "desc",
	})
	if err != nil {
		return nil, storageErr(err)
	}

	out := make([]models.RecentLog, 0, len(logs))
	for _, l := range logs {
		total := l.TotalItems()
		row := models.RecentLog{
			ID:           l.ID,
			LogDate:      l.LogDate,
			BinningCount: l.BinningCount,
			PickingCount: l.PickingCount,
			TotalItems:   &total,
			TotalWorkers: len(l.WorkerIDs),
			CreatedAt:    l.LogDate,
			UpdatedAt:    l.LogDate,
		}
		if l.WorkNotes != "" {
			notes := l.WorkNotes
			row.IssueNotes = &notes
		}
		for _, workerID := range l.WorkerIDs {
			user, err := s.repo.FindUserByID(ctx, workerID)
			if err != nil {
				continue
			}
			var ref models.RecentLogOperator
			ref.Operator.ID = user.ID
			ref.Operator.Username = user.Username
			row.Attendance = append(row.Attendance, ref)
		}
		out = append(out, row)
	}
	return out, nil
}

// BarProductivity returns the last seven logged days as chart bars.
func (s *StatsService) BarProductivity(ctx context.Context) (*models.BarProductivity, error) {
	today := s.today()
	logs, err := s.repo.LogsBetween(ctx, today.AddDate(0, 0, -7), today)
	if err != nil {
		return nil, storageErr(err)
	}

	out := &models.BarProductivity{Target: targetPercent, Productivity: make([]models.BarPoint, 0, len(logs))}
	for _, l := range logs {
		out.Productivity = append(out.Productivity, models.BarPoint{
			Date:  l.LogDate,
			Count: s.productivity(l),
		})
	}
	return out, nil
}

// WorkerPresence compares the latest log's attendance against the roster.
func (s *StatsService) WorkerPresence(ctx context.Context) (*models.WorkerPresence, error) {
	role := models.RoleOperations
	operators, err := s.repo.ListUsers(ctx, &role)
	if err != nil {
		return nil, storageErr(err)
	}
	latest, err := s.latestLog(ctx)
	if err != nil {
		return nil, err
	}

	presence := &models.WorkerPresence{Absent: len(operators)}
	if latest != nil {
		presence.Present = len(latest.WorkerIDs)
		presence.Absent = len(operators) - presence.Present
		if presence.Absent < 0 {
			presence.Absent = 0
		}
	}
	return presence, nil
}

// TrendItem charts inbound (binning) against outbound (picking) items for
// the given range, defaulting to the last 30 days.
func (s *StatsService) TrendItem(ctx context.Context, from, to *time.Time) ([]models.TrendItemPoint, error) {
	start := s.today().AddDate(0, 0, -30)
	end := s.today()
	if from != nil {
		start = *from
	}
	if to != nil {
		end = *to
	}

	logs, err := s.repo.LogsBetween(ctx, start, end)
	if err != nil {
		return nil, storageErr(err)
	}

	out := make([]models.TrendItemPoint, 0, len(logs))
	for _, l := range logs {
		out = append(out, models.TrendItemPoint{
			Date:     l.LogDate,
			Inbound:  l.BinningCount,
			Outbound: l.PickingCount,
		})
	}
	return out, nil
}

// WorkerPerformance totals each operator's item share over the period.
// Items of a shared shift are split evenly across the crew present.
func (s *StatsService) WorkerPerformance(ctx context.Context, period string) ([]models.WorkerPerformance, error) {
	days := 7
	if period == models.PeriodMonthly {
		days = 30
	} else if period != "" && period != models.PeriodWeekly {
		return nil, apperrors.New(apperrors.KindValidation, http.StatusBadRequest, "periode tidak dikenal")
	}

	today := s.today()
	logs, err := s.repo.LogsBetween(ctx, today.AddDate(0, 0, -days), today)
	if err != nil {
		return nil, storageErr(err)
	}

	totals := make(map[int]float64)
	for _, l := range logs {
		if len(l.WorkerIDs) == 0 {
			continue
		}
		share := float64(l.TotalItems()) / float64(len(l.WorkerIDs))
		for _, id := range l.WorkerIDs {
			totals[id] += share
		}
	}

	out := make([]models.WorkerPerformance, 0, len(totals))
	for id, total := range totals {
		user, err := s.repo.FindUserByID(ctx, id)
		if err != nil {
			continue
		}
		out = append(out, models.WorkerPerformance{
			OperatorName: user.FullName,
			TotalItems:   int(total),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalItems != out[j].TotalItems {
			return out[i].TotalItems > out[j].TotalItems
		}
		return out[i].OperatorName < out[j].OperatorName
	})
	return out, nil
}

// TopPerformers ranks operators by their average productivity on the days
// they worked during the last thirty days.
func (s *StatsService) TopPerformers(ctx context.Context, search string) ([]models.TopPerformer, error) {
	today := s.today()
	logs, err := s.repo.LogsBetween(ctx, today.AddDate(0, 0, -30), today)
	if err != nil {
		return nil, storageErr(err)
	}

	type acc struct {
		sum  float64
		days int
	}
	byOperator := make(map[int]*acc)
	for _, l := range logs {
		p := s.productivity(l)
		for _, id := range l.WorkerIDs {
			a := byOperator[id]
			if a == nil {
				a = &acc{}
				byOperator[id] = a
			}
			a.sum += p
			a.days++
		}
	}

	needle := strings.ToLower(search)
	out := make([]models.TopPerformer, 0, len(byOperator))
	for id, a := range byOperator {
		user, err := s.repo.FindUserByID(ctx, id)
		if err != nil || user.SubRole == "" {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(user.FullName), needle) {
			continue
		}
		avg := a.sum / float64(a.days)
		out = append(out, models.TopPerformer{
			OperatorName: user.FullName,
			OperatorSubRole: models.SubRoleInfo{
				Name:         user.SubRole,
				TeamCategory: teamCategoryOf(user.SubRole),
			},
			AvgMonthlyProductivity: avg,
			AvgMonthlyWorkdays:     float64(a.days),
			Productivity: models.ProductivityComparison{
				AvgActual: avg,
				Target:    targetPercent,
			},
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AvgMonthlyProductivity != out[j].AvgMonthlyProductivity {
			return out[i].AvgMonthlyProductivity > out[j].AvgMonthlyProductivity
		}
		return out[i].OperatorName < out[j].OperatorName
	})
	return out, nil
}

// Report aggregates per-operator item shares into rows, one per operator
// per bucket of the requested granularity.
func (s *StatsService) Report(ctx context.Context, q models.ReportQuery) ([]models.ReportRow, error) {
	start, err := time.Parse("2006-01-02", q.StartDate)
	if err != nil {
		return nil, apperrors.New(apperrors.KindValidation, http.StatusBadRequest, "rentang tanggal tidak valid")
	}
	end, err := time.Parse("2006-01-02", q.EndDate)
	if err != nil {
		return nil, apperrors.New(apperrors.KindValidation, http.StatusBadRequest, "rentang tanggal tidak valid")
	}
	if end.Before(start) {
		return nil, apperrors.New(apperrors.KindValidation, http.StatusBadRequest, "rentang tanggal tidak valid")
	}

	logs, err := s.repo.LogsBetween(ctx, start, end)
	if err != nil {
		return nil, storageErr(err)
	}

	type key struct {
		bucket   time.Time
		operator int
	}
	type acc struct {
		binning, picking float64
		prodSum          float64
		days             int
	}
	buckets := make(map[key]*acc)
	for _, l := range logs {
		crew := len(l.WorkerIDs)
		if crew == 0 {
			continue
		}
		bucket := bucketStart(l.LogDate, q.Type)
		p := s.productivity(l)
		for _, id := range l.WorkerIDs {
			k := key{bucket: bucket, operator: id}
			a := buckets[k]
			if a == nil {
				a = &acc{}
				buckets[k] = a
			}
			a.binning += float64(l.BinningCount) / float64(crew)
			a.picking += float64(l.PickingCount) / float64(crew)
			a.prodSum += p
			a.days++
		}
	}

	needle := strings.ToLower(q.Search)
	keys := make([]key, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if !keys[i].bucket.Equal(keys[j].bucket) {
			return keys[i].bucket.Before(keys[j].bucket)
		}
		return keys[i].operator < keys[j].operator
	})

	rows := make([]models.ReportRow, 0, len(keys))
	for _, k := range keys {
		user, err := s.repo.FindUserByID(ctx, k.operator)
		if err != nil {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(user.FullName), needle) {
			continue
		}
		a := buckets[k]
		binning := int(a.binning)
		picking := int(a.picking)
		rows = append(rows, models.ReportRow{
			Time:         bucketLabel(k.bucket, q.Type),
			OperatorName: user.FullName,
			BinningCount: binning,
			PickingCount: picking,
			TotalItems:   binning + picking,
			Productivity: a.prodSum / float64(a.days),
		})
	}
	return rows, nil
}

func (s *StatsService) latestLog(ctx context.Context) (*repository.LogRecord, error) {
	logs, _, err := s.repo.ListLogs(ctx, repository.LogFilter{
		Page:      1,
		Limit:     1,
		SortBy:    "logDate",
		SortOrder: "desc",
	})
	if err != nil {
		return nil, storageErr(err)
	}
	if len(logs) == 0 {
		return nil, nil
	}
	return &logs[0], nil
}

func (s *StatsService) today() time.Time {
	return s.now().UTC().Truncate(24 * time.Hour)
}

func bucketStart(date time.Time, reportType models.ReportType) time.Time {
	switch reportType {
	case models.ReportWeekly:
		// Weeks start on Monday.
		offset := (int(date.Weekday()) + 6) % 7
		return date.AddDate(0, 0, -offset)
	case models.ReportMonthly:
		return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return date
	}
}

func bucketLabel(bucket time.Time, reportType models.ReportType) string {
	switch reportType {
	case models.ReportWeekly:
		return fmt.Sprintf("%s - %s", bucket.Format("02 Jan"), bucket.AddDate(0, 0, 6).Format("02 Jan 2006"))
	case models.ReportMonthly:
		return bucket.Format("January 2006")
	default:
		return bucket.Format("02 Jan 2006")
	}
}

func storageErr(err error) error {
	return apperrors.Wrap(err, apperrors.KindRequestFailed, http.StatusInternalServerError, "gagal memuat data")
}
