package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gudang-labs/warehouse-dashboard/internal/models"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	return sqlxdb, mock, func() {
		db.Close()
	}
}

func TestFindUserByLogin(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPostgres(db)

	rows := sqlmock.NewRows([]string{"id", "username", "full_name", "email", "password_hash", "role", "sub_role"}).
		AddRow(4, "budi", "Budi Santoso", "budi@gudang.id", "hash", string(models.RoleOperations), string(models.SubRoleBinning))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, username, full_name, email, password_hash, role, sub_role FROM users WHERE LOWER(username) = $1 OR LOWER(email) = $1 LIMIT 1")).
		WithArgs("budi").
		WillReturnRows(rows)

	user, err := repo.FindUserByLogin(context.Background(), "Budi")
	require.NoError(t, err)
	assert.Equal(t, "budi", user.Username)
	assert.Equal(t, models.SubRoleBinning, user.SubRole)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindUserByIDNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPostgres(db)

	mock.ExpectQuery("SELECT id, username").WithArgs(99).WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindUserByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListLogsPaginatesAndCounts(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPostgres(db)

	logDate := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	listRows := sqlmock.NewRows([]string{"id", "log_date", "binning_count", "picking_count", "work_notes"}).
		AddRow(7, logDate, 180, 160, "Shift normal")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT dl.id, dl.log_date, dl.binning_count, dl.picking_count, dl.work_notes FROM daily_logs dl WHERE 1=1 ORDER BY dl.log_date DESC LIMIT 10 OFFSET 10")).
		WillReturnRows(listRows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM daily_logs dl WHERE 1=1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(23))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT worker_id FROM daily_log_workers WHERE log_id = $1 ORDER BY worker_id")).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"worker_id"}).AddRow(4).AddRow(8))

	logs, total, err := repo.ListLogs(context.Background(), LogFilter{
		Page:      2,
		Limit:     10,
		SortBy:    "logDate",
		SortOrder: "desc",
	})
	require.NoError(t, err)
	assert.Equal(t, 23, total)
	require.Len(t, logs, 1)
	assert.Equal(t, []int{4, 8}, logs[0].WorkerIDs)
	assert.Equal(t, 340, logs[0].TotalItems())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListLogsRejectsUnknownSortColumn(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPostgres(db)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY dl.log_date ASC LIMIT 10 OFFSET 0")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "log_date", "binning_count", "picking_count", "work_notes"}))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	_, _, err := repo.ListLogs(context.Background(), LogFilter{SortBy: "1; DROP TABLE users", Limit: 10, Page: 1})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateLogInsertsWorkersInOneTx(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPostgres(db)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO daily_logs").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectExec("INSERT INTO daily_log_workers").
		WithArgs(11, 4).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO daily_log_workers").
		WithArgs(11, 8).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	log := &LogRecord{
		LogDate:      time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		BinningCount: 100,
		PickingCount: 90,
		WorkerIDs:    []int{4, 8},
	}
	require.NoError(t, repo.CreateLog(context.Background(), log))
	assert.Equal(t, 11, log.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRevokeRefreshTokenMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPostgres(db)

	mock.ExpectExec("UPDATE refresh_tokens SET revoked").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.RevokeRefreshToken(context.Background(), "gone")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
