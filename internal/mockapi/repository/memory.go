package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gudang-labs/warehouse-dashboard/internal/models"
)

// Memory is the default backend: everything lives in process, seeded on
// startup. Good enough for development against the dashboard client.
type Memory struct {
	mu         sync.RWMutex
	users      map[int]*UserRecord
	logs       map[int]*LogRecord
	tokens     map[string]*RefreshTokenRecord
	nextUserID int
	nextLogID  int
}

// NewMemory builds an empty in-memory repository.
func NewMemory() *Memory {
	return &Memory{
		users:      make(map[int]*UserRecord),
		logs:       make(map[int]*LogRecord),
		tokens:     make(map[string]*RefreshTokenRecord),
		nextUserID: 1,
		nextLogID:  1,
	}
}

func (m *Memory) ListUsers(_ context.Context, role *models.Role) ([]UserRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]UserRecord, 0, len(m.users))
	for _, u := range m.users {
		if role != nil && u.Role != *role {
			continue
		}
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) FindUserByID(_ context.Context, id int) (*UserRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *Memory) FindUserByLogin(_ context.Context, usernameOrEmail string) (*UserRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	needle := strings.ToLower(usernameOrEmail)
	for _, u := range m.users {
		if strings.ToLower(u.Username) == needle || strings.ToLower(u.Email) == needle {
			copied := *u
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) CreateUser(_ context.Context, user *UserRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	user.ID = m.nextUserID
	m.nextUserID++
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *Memory) UpdateUser(_ context.Context, user *UserRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[user.ID]; !ok {
		return ErrNotFound
	}
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *Memory) DeleteUser(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[id]; !ok {
		return ErrNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *Memory) ListLogs(ctx context.Context, filter LogFilter) ([]LogRecord, int, error) {
	m.mu.RLock()
	matched := make([]LogRecord, 0, len(m.logs))
	for _, l := range m.logs {
		if m.matchesLocked(l, filter) {
			matched = append(matched, m.copyLogLocked(l))
		}
	}
	m.mu.RUnlock()

	sortLogs(matched, filter.SortBy, filter.SortOrder)

	total := len(matched)
	if filter.Limit <= 0 {
		return matched, total, nil
	}
	start := (filter.Page - 1) * filter.Limit
	if start < 0 {
		start = 0
	}
	if start >= total {
		return []LogRecord{}, total, nil
	}
	end := start + filter.Limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

// matchesLocked applies search against the names of the workers present,
// which is how the list page's free-text search behaves.
func (m *Memory) matchesLocked(l *LogRecord, filter LogFilter) bool {
	if filter.StartDate != nil && l.LogDate.Before(*filter.StartDate) {
		return false
	}
	if filter.EndDate != nil && l.LogDate.After(filter.EndDate.Add(24*time.Hour-time.Nanosecond)) {
		return false
	}
	if filter.Search == "" {
		return true
	}
	needle := strings.ToLower(filter.Search)
	for _, id := range l.WorkerIDs {
		if u, ok := m.users[id]; ok && strings.Contains(strings.ToLower(u.FullName), needle) {
			return true
		}
	}
	return strings.Contains(strings.ToLower(l.WorkNotes), needle)
}

func (m *Memory) copyLogLocked(l *LogRecord) LogRecord {
	copied := *l
	copied.WorkerIDs = append([]int(nil), l.WorkerIDs...)
	return copied
}

func sortLogs(logs []LogRecord, sortBy, sortOrder string) {
	if sortBy == "" {
		sortBy = "logDate"
	}
	desc := sortOrder == "desc"
	sort.SliceStable(logs, func(i, j int) bool {
		var less bool
		switch sortBy {
		case "binningCount":
			less = logs[i].BinningCount < logs[j].BinningCount
		case "pickingCount":
			less = logs[i].PickingCount < logs[j].PickingCount
		case "totalItems":
			less = logs[i].TotalItems() < logs[j].TotalItems()
		default:
			less = logs[i].LogDate.Before(logs[j].LogDate)
		}
		if desc {
			return !less && !logsEqual(logs[i], logs[j], sortBy)
		}
		return less
	})
}

func logsEqual(a, b LogRecord, sortBy string) bool {
	switch sortBy {
	case "binningCount":
		return a.BinningCount == b.BinningCount
	case "pickingCount":
		return a.PickingCount == b.PickingCount
	case "totalItems":
		return a.TotalItems() == b.TotalItems()
	default:
		return a.LogDate.Equal(b.LogDate)
	}
}

func (m *Memory) FindLog(_ context.Context, id int) (*LogRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	l, ok := m.logs[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := m.copyLogLocked(l)
	return &copied, nil
}

func (m *Memory) CreateLog(_ context.Context, log *LogRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	log.ID = m.nextLogID
	m.nextLogID++
	copied := *log
	copied.WorkerIDs = append([]int(nil), log.WorkerIDs...)
	m.logs[log.ID] = &copied
	return nil
}

func (m *Memory) UpdateLog(_ context.Context, log *LogRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.logs[log.ID]; !ok {
		return ErrNotFound
	}
	copied := *log
	copied.WorkerIDs = append([]int(nil), log.WorkerIDs...)
	m.logs[log.ID] = &copied
	return nil
}

func (m *Memory) DeleteLog(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.logs[id]; !ok {
		return ErrNotFound
	}
	delete(m.logs, id)
	return nil
}

func (m *Memory) LogsBetween(_ context.Context, from, to time.Time) ([]LogRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]LogRecord, 0)
	for _, l := range m.logs {
		if l.LogDate.Before(from) || l.LogDate.After(to) {
			continue
		}
		out = append(out, m.copyLogLocked(l))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LogDate.Before(out[j].LogDate) })
	return out, nil
}

func (m *Memory) SaveRefreshToken(_ context.Context, token *RefreshTokenRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *token
	m.tokens[token.Token] = &copied
	return nil
}

func (m *Memory) FindRefreshToken(_ context.Context, token string) (*RefreshTokenRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tokens[token]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *t
	return &copied, nil
}

func (m *Memory) RevokeRefreshToken(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tokens[token]
	if !ok {
		return ErrNotFound
	}
	t.Revoked = true
	return nil
}

func (m *Memory) RevokeUserRefreshTokens(_ context.Context, userID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, t := range m.tokens {
		if t.UserID == userID {
			t.Revoked = true
		}
	}
	return nil
}
