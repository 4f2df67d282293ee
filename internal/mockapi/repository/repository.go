package repository

import (
	"context"
	"errors"
	"time"

	"github.com/gudang-labs/warehouse-dashboard/internal/models"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// UserRecord is a stored account, credentials included.
type UserRecord struct {
	ID           int            `db:"id"`
	Username     string         `db:"username"`
	FullName     string         `db:"full_name"`
	Email        string         `db:"email"`
	PasswordHash string         `db:"password_hash"`
	Role         models.Role    `db:"role"`
	SubRole      models.SubRole `db:"sub_role"`
}

// LogRecord is a stored daily log. WorkerIDs reference operator accounts.
type LogRecord struct {
	ID           int       `db:"id"`
	LogDate      time.Time `db:"log_date"`
	BinningCount int       `db:"binning_count"`
	PickingCount int       `db:"picking_count"`
	WorkNotes    string    `db:"work_notes"`
	WorkerIDs    []int     `db:"-"`
}

// TotalItems is the combined handled item count of one log.
func (r LogRecord) TotalItems() int {
	return r.BinningCount + r.PickingCount
}

// RefreshTokenRecord tracks one issued refresh token. Rotation revokes the
// old record and inserts the successor.
type RefreshTokenRecord struct {
	Token     string    `db:"token"`
	UserID    int       `db:"user_id"`
	ExpiresAt time.Time `db:"expires_at"`
	Revoked   bool      `db:"revoked"`
}

// LogFilter is the server-side list query for daily logs.
type LogFilter struct {
	Search    string
	StartDate *time.Time
	EndDate   *time.Time
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

// Repository is the storage boundary of the mock server. Both the
// in-memory and the postgres backends implement it.
type Repository interface {
	ListUsers(ctx context.Context, role *models.Role) ([]UserRecord, error)
	FindUserByID(ctx context.Context, id int) (*UserRecord, error)
	FindUserByLogin(ctx context.Context, usernameOrEmail string) (*UserRecord, error)
	CreateUser(ctx context.Context, user *UserRecord) error
	UpdateUser(ctx context.Context, user *UserRecord) error
	DeleteUser(ctx context.Context, id int) error

	ListLogs(ctx context.Context, filter LogFilter) ([]LogRecord, int, error)
	FindLog(ctx context.Context, id int) (*LogRecord, error)
	CreateLog(ctx context.Context, log *LogRecord) error
	UpdateLog(ctx context.Context, log *LogRecord) error
	DeleteLog(ctx context.Context, id int) error
	LogsBetween(ctx context.Context, from, to time.Time) ([]LogRecord, error)

	SaveRefreshToken(ctx context.Context, token *RefreshTokenRecord) error
	FindRefreshToken(ctx context.Context, token string) (*RefreshTokenRecord, error)
	RevokeRefreshToken(ctx context.Context, token string) error
	RevokeUserRefreshTokens(ctx context.Context, userID int) error
}
