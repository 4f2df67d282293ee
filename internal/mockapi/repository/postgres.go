package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/gudang-labs/warehouse-dashboard/internal/models"
)

// Postgres persists the mock server's data in PostgreSQL. Attendance lives
// in a daily_log_workers join table.
type Postgres struct {
	db *sqlx.DB
}

// NewPostgres creates a repository over the given pool.
func NewPostgres(db *sqlx.DB) *Postgres {
	return &Postgres{db: db}
}

func (r *Postgres) ListUsers(ctx context.Context, role *models.Role) ([]UserRecord, error) {
	query := `SELECT id, username, full_name, email, password_hash, role, sub_role FROM users`
	var args []interface{}
	if role != nil {
		query += ` WHERE role = $1`
		args = append(args, string(*role))
	}
	query += ` ORDER BY id`

	var users []UserRecord
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (r *Postgres) FindUserByID(ctx context.Context, id int) (*UserRecord, error) {
	const query = `SELECT id, username, full_name, email, password_hash, role, sub_role FROM users WHERE id = $1 LIMIT 1`
	var user UserRecord
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

func (r *Postgres) FindUserByLogin(ctx context.Context, usernameOrEmail string) (*UserRecord, error) {
	const query = `SELECT id, username, full_name, email, password_hash, role, sub_role FROM users WHERE LOWER(username) = $1 OR LOWER(email) = $1 LIMIT 1`
	var user UserRecord
	if err := r.db.GetContext(ctx, &user, query, strings.ToLower(usernameOrEmail)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user by login: %w", err)
	}
	return &user, nil
}

func (r *Postgres) CreateUser(ctx context.Context, user *UserRecord) error {
	const query = `INSERT INTO users (username, full_name, email, password_hash, role, sub_role) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	if err := r.db.GetContext(ctx, &user.ID, query,
		user.Username, user.FullName, user.Email, user.PasswordHash, string(user.Role), string(user.SubRole)); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *Postgres) UpdateUser(ctx context.Context, user *UserRecord) error {
	const query = `UPDATE users SET full_name = :full_name, email = :email, role = :role, sub_role = :sub_role WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, user)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return requireRow(res)
}

func (r *Postgres) DeleteUser(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return requireRow(res)
}

func (r *Postgres) ListLogs(ctx context.Context, filter LogFilter) ([]LogRecord, int, error) {
	baseQuery := `FROM daily_logs dl WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("dl.log_date >= $%d", len(args)+1))
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("dl.log_date <= $%d", len(args)+1))
		args = append(args, *filter.EndDate)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf(`(LOWER(dl.work_notes) LIKE $%d OR EXISTS (
			SELECT 1 FROM daily_log_workers dlw JOIN users u ON u.id = dlw.worker_id
			WHERE dlw.log_id = dl.id AND LOWER(u.full_name) LIKE $%d))`, len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	allowedSorts := map[string]string{
		"logDate":      "dl.log_date",
		"binningCount": "dl.binning_count",
		"pickingCount": "dl.picking_count",
		"totalItems":   "dl.binning_count + dl.picking_count",
	}
	sortBy, ok := allowedSorts[filter.SortBy]
	if !ok {
		sortBy = "dl.log_date"
	}
	sortOrder := "ASC"
	if strings.EqualFold(filter.SortOrder, "desc") {
		sortOrder = "DESC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := (page - 1) * limit

	listQuery := fmt.Sprintf("SELECT dl.id, dl.log_date, dl.binning_count, dl.picking_count, dl.work_notes %s ORDER BY %s %s LIMIT %d OFFSET %d",
		baseQuery, sortBy, sortOrder, limit, offset)

	var logs []LogRecord
	if err := r.db.SelectContext(ctx, &logs, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list logs: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count logs: %w", err)
	}

	for i := range logs {
		if err := r.loadWorkers(ctx, &logs[i]); err != nil {
			return nil, 0, err
		}
	}
	return logs, total, nil
}

func (r *Postgres) FindLog(ctx context.Context, id int) (*LogRecord, error) {
	const query = `SELECT id, log_date, binning_count, picking_count, work_notes FROM daily_logs WHERE id = $1 LIMIT 1`
	var log LogRecord
	if err := r.db.GetContext(ctx, &log, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find log: %w", err)
	}
	if err := r.loadWorkers(ctx, &log); err != nil {
		return nil, err
	}
	return &log, nil
}

func (r *Postgres) CreateLog(ctx context.Context, log *LogRecord) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create log: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const query = `INSERT INTO daily_logs (log_date, binning_count, picking_count, work_notes) VALUES ($1, $2, $3, $4) RETURNING id`
	if err := tx.GetContext(ctx, &log.ID, query, log.LogDate, log.BinningCount, log.PickingCount, log.WorkNotes); err != nil {
		return fmt.Errorf("create log: %w", err)
	}
	if err := insertWorkers(ctx, tx, log.ID, log.WorkerIDs); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *Postgres) UpdateLog(ctx context.Context, log *LogRecord) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update log: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const query = `UPDATE daily_logs SET log_date = $2, binning_count = $3, picking_count = $4, work_notes = $5 WHERE id = $1`
	res, err := tx.ExecContext(ctx, query, log.ID, log.LogDate, log.BinningCount, log.PickingCount, log.WorkNotes)
	if err != nil {
		return fmt.Errorf("update log: %w", err)
	}
	if err := requireRow(res); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM daily_log_workers WHERE log_id = $1`, log.ID); err != nil {
		return fmt.Errorf("clear log workers: %w", err)
	}
	if err := insertWorkers(ctx, tx, log.ID, log.WorkerIDs); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *Postgres) DeleteLog(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM daily_logs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete log: %w", err)
	}
	return requireRow(res)
}

func (r *Postgres) LogsBetween(ctx context.Context, from, to time.Time) ([]LogRecord, error) {
	const query = `SELECT id, log_date, binning_count, picking_count, work_notes FROM daily_logs WHERE log_date >= $1 AND log_date <= $2 ORDER BY log_date`
	var logs []LogRecord
	if err := r.db.SelectContext(ctx, &logs, query, from, to); err != nil {
		return nil, fmt.Errorf("logs between: %w", err)
	}
	for i := range logs {
		if err := r.loadWorkers(ctx, &logs[i]); err != nil {
			return nil, err
		}
	}
	return logs, nil
}

func (r *Postgres) SaveRefreshToken(ctx context.Context, token *RefreshTokenRecord) error {
	const query = `INSERT INTO refresh_tokens (token, user_id, expires_at, revoked) VALUES (:token, :user_id, :expires_at, :revoked)`
	if _, err := r.db.NamedExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("save refresh token: %w", err)
	}
	return nil
}

func (r *Postgres) FindRefreshToken(ctx context.Context, token string) (*RefreshTokenRecord, error) {
	const query = `SELECT token, user_id, expires_at, revoked FROM refresh_tokens WHERE token = $1 LIMIT 1`
	var rt RefreshTokenRecord
	if err := r.db.GetContext(ctx, &rt, query, token); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find refresh token: %w", err)
	}
	return &rt, nil
}

func (r *Postgres) RevokeRefreshToken(ctx context.Context, token string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE refresh_tokens SET revoked = TRUE WHERE token = $1`, token)
	if err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return requireRow(res)
}

func (r *Postgres) RevokeUserRefreshTokens(ctx context.Context, userID int) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE refresh_tokens SET revoked = TRUE WHERE user_id = $1 AND revoked = FALSE`, userID); err != nil {
		return fmt.Errorf("revoke user refresh tokens: %w", err)
	}
	return nil
}

func (r *Postgres) loadWorkers(ctx context.Context, log *LogRecord) error {
	const query = `SELECT worker_id FROM daily_log_workers WHERE log_id = $1 ORDER BY worker_id`
	if err := r.db.SelectContext(ctx, &log.WorkerIDs, query, log.ID); err != nil {
		return fmt.Errorf("load log workers: %w", err)
	}
	return nil
}

func insertWorkers(ctx context.Context, tx *sqlx.Tx, logID int, workerIDs []int) error {
	for _, workerID := range workerIDs {
		if _, err := tx.ExecContext(ctx, `INSERT INTO daily_log_workers (log_id, worker_id) VALUES ($1, $2)`, logID, workerID); err != nil {
			return fmt.Errorf("insert log worker: %w", err)
		}
	}
	return nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
