package mockapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gudang-labs/warehouse-dashboard/internal/mockapi/repository"
	"github.com/gudang-labs/warehouse-dashboard/internal/models"
	apperrors "github.com/gudang-labs/warehouse-dashboard/pkg/errors"
)

// LogService owns daily-log CRUD and the mapping from stored records to
// wire rows with computed productivity and attendance.
type LogService struct {
	repo  repository.Repository
	stats *StatsService
}

// NewLogService constructs a LogService.
func NewLogService(repo repository.Repository, stats *StatsService) *LogService {
	return &LogService{repo: repo, stats: stats}
}

// List returns one page of logs with the filter applied by the backend.
func (s *LogService) List(ctx context.Context, filter repository.LogFilter) (*models.LogPage, error) {
	records, total, err := s.repo.ListLogs(ctx, filter)
	if err != nil {
		return nil, storageErr(err)
	}

	page := &models.LogPage{Logs: make([]models.DailyLog, 0, len(records)), Total: total}
	for _, rec := range records {
		page.Logs = append(page.Logs, s.logView(ctx, rec))
	}
	return page, nil
}

// Get returns one log with its notes.
func (s *LogService) Get(ctx context.Context, id int) (*models.DailyLogDetail, error) {
	rec, err := s.repo.FindLog(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.New(apperrors.KindRequestFailed, http.StatusNotFound, "log tidak ditemukan")
		}
		return nil, storageErr(err)
	}
	detail := s.detailView(ctx, *rec)
	return &detail, nil
}

// Create stores a new log after checking every listed worker exists.
func (s *LogService) Create(ctx context.Context, req models.CreateDailyLogRequest) (*models.DailyLogDetail, error) {
	logDate, err := time.Parse("2006-01-02", req.LogDate)
	if err != nil {
		return nil, apperrors.New(apperrors.KindValidation, http.StatusBadRequest, "tanggal log tidak valid")
	}
	if err := s.checkWorkers(ctx, req.WorkerPresents); err != nil {
		return nil, err
	}

	rec := &repository.LogRecord{
		LogDate:      logDate,
		BinningCount: req.BinningCount,
		PickingCount: req.PickingCount,
		WorkNotes:    req.WorkNotes,
		WorkerIDs:    req.WorkerPresents,
	}
	if err := s.repo.CreateLog(ctx, rec); err != nil {
		return nil, storageErr(err)
	}
	detail := s.detailView(ctx, *rec)
	return &detail, nil
}

// Update replaces a log's counts, notes and attendance.
func (s *LogService) Update(ctx context.Context, id int, req models.UpdateDailyLogRequest) (*models.DailyLogDetail, error) {
	rec, err := s.repo.FindLog(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.New(apperrors.KindRequestFailed, http.StatusNotFound, "log tidak ditemukan")
		}
		return nil, storageErr(err)
	}
	if err := s.checkWorkers(ctx, req.WorkerPresents); err != nil {
		return nil, err
	}

	rec.BinningCount = req.BinningCount
	rec.PickingCount = req.PickingCount
	rec.WorkNotes = req.WorkNotes
	rec.WorkerIDs = req.WorkerPresents
	if err := s.repo.UpdateLog(ctx, rec); err != nil {
		return nil, storageErr(err)
	}
	detail := s.detailView(ctx, *rec)
	return &detail, nil
}

// Delete removes a log.
func (s *LogService) Delete(ctx context.Context, id int) error {
	if err := s.repo.DeleteLog(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.New(apperrors.KindRequestFailed, http.StatusNotFound, "log tidak ditemukan")
		}
		return storageErr(err)
	}
	return nil
}

func (s *LogService) checkWorkers(ctx context.Context, workerIDs []int) error {
	for _, id := range workerIDs {
		user, err := s.repo.FindUserByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperrors.New(apperrors.KindValidation, http.StatusBadRequest, "operator tidak ditemukan")
			}
			return storageErr(err)
		}
		if user.Role != models.RoleOperations {
			return apperrors.New(apperrors.KindValidation, http.StatusBadRequest, "hanya akun operasional yang bisa hadir")
		}
	}
	return nil
}

func (s *LogService) logView(ctx context.Context, rec repository.LogRecord) models.DailyLog {
	view := models.DailyLog{
		ID:           rec.ID,
		LogDate:      rec.LogDate,
		BinningCount: rec.BinningCount,
		PickingCount: rec.PickingCount,
		TotalItems:   rec.TotalItems(),
		Productivity: s.stats.productivity(rec),
		Attendance:   make([]models.Attendance, 0, len(rec.WorkerIDs)),
		CreatedAt:    rec.LogDate,
		UpdatedAt:    rec.LogDate,
	}
	for _, workerID := range rec.WorkerIDs {
		user, err := s.repo.FindUserByID(ctx, workerID)
		if err != nil {
			continue
		}
		view.Attendance = append(view.Attendance, models.Attendance{
			OperatorID:      user.ID,
			OperatorName:    user.FullName,
			OperatorSubRole: user.SubRole,
		})
	}
	return view
}

func (s *LogService) detailView(ctx context.Context, rec repository.LogRecord) models.DailyLogDetail {
	return models.DailyLogDetail{
		DailyLog:  s.logView(ctx, rec),
		WorkNotes: rec.WorkNotes,
	}
}
