package view

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gudang-labs/warehouse-dashboard/internal/models"
	apperrors "github.com/gudang-labs/warehouse-dashboard/pkg/errors"
)

type fetchRecorder struct {
	mu      sync.Mutex
	queries []models.ListQuery
	items   []string
	total   int
	err     error
	gates   chan struct{}
}

func (f *fetchRecorder) fetch(ctx context.Context, q models.ListQuery) ([]string, int, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	gates := f.gates
	f.mu.Unlock()
	if gates != nil {
		<-gates
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, 0, f.err
	}
	return f.items, f.total, nil
}

func (f *fetchRecorder) lastQuery() models.ListQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries[len(f.queries)-1]
}

func newView(f *fetchRecorder) *ListView[string] {
	return New[string](f.fetch, models.Sort{Key: "logDate", Direction: models.SortDesc})
}

func TestReloadPublishesItemsAndTotal(t *testing.T) {
	f := &fetchRecorder{items: []string{"a", "b"}, total: 42}
	v := newView(f)

	require.NoError(t, v.Reload(context.Background()))

	assert.Equal(t, []string{"a", "b"}, v.Items())
	assert.Equal(t, 42, v.TotalCount())
	assert.Equal(t, 5, v.TotalPages())
	assert.False(t, v.Loading())
	assert.Empty(t, v.Err())
}

func TestSearchChangeResetsToPageOne(t *testing.T) {
	f := &fetchRecorder{total: 100}
	v := newView(f)
	require.NoError(t, v.Reload(context.Background()))
	require.NoError(t, v.SetPage(context.Background(), 3))
	require.Equal(t, 3, v.Page())

	require.NoError(t, v.SetSearch(context.Background(), "budi"))

	assert.Equal(t, 1, v.Page())
	q := f.lastQuery()
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, "budi", q.Search)
}

func TestUnchangedSearchDoesNotRefetch(t *testing.T) {
	f := &fetchRecorder{}
	v := newView(f)
	require.NoError(t, v.SetSearch(context.Background(), "budi"))
	calls := len(f.queries)

	require.NoError(t, v.SetSearch(context.Background(), "budi"))

	assert.Equal(t, calls, len(f.queries))
}

func TestPageChangeKeepsFilters(t *testing.T) {
	f := &fetchRecorder{total: 100}
	v := newView(f)
	require.NoError(t, v.SetSearch(context.Background(), "siti"))
	require.NoError(t, v.SetDateRange(context.Background(), &models.DateRange{}))

	require.NoError(t, v.SetPage(context.Background(), 2))

	q := f.lastQuery()
	assert.Equal(t, 2, q.Page)
	assert.Equal(t, "siti", q.Search)
	assert.NotNil(t, q.DateRange)
}

func TestSetPageClampsToValidRange(t *testing.T) {
	f := &fetchRecorder{total: 25}
	v := newView(f) // pageSize 10 -> 3 pages
	require.NoError(t, v.Reload(context.Background()))

	require.NoError(t, v.SetPage(context.Background(), 99))
	assert.Equal(t, 3, v.Page())

	require.NoError(t, v.SetPage(context.Background(), -5))
	assert.Equal(t, 1, v.Page())
}

func TestSetPageToCurrentIsNoOp(t *testing.T) {
	f := &fetchRecorder{total: 100}
	v := newView(f)
	require.NoError(t, v.Reload(context.Background()))
	calls := len(f.queries)

	require.NoError(t, v.SetPage(context.Background(), 1))

	assert.Equal(t, calls, len(f.queries))
}

func TestToggleSortFlipsActiveColumn(t *testing.T) {
	f := &fetchRecorder{total: 100}
	v := newView(f)

	require.NoError(t, v.ToggleSort(context.Background(), "logDate"))
	assert.Equal(t, models.Sort{Key: "logDate", Direction: models.SortAsc}, v.Sort())

	require.NoError(t, v.ToggleSort(context.Background(), "logDate"))
	assert.Equal(t, models.Sort{Key: "logDate", Direction: models.SortDesc}, v.Sort())
}

func TestToggleSortNewColumnStartsAscending(t *testing.T) {
	f := &fetchRecorder{total: 100}
	v := newView(f)
	require.NoError(t, v.SetPage(context.Background(), 2))

	require.NoError(t, v.ToggleSort(context.Background(), "productivity"))

	assert.Equal(t, models.Sort{Key: "productivity", Direction: models.SortAsc}, v.Sort())
	assert.Equal(t, 1, v.Page())
}

func TestSetPageSizeResetsToPageOne(t *testing.T) {
	f := &fetchRecorder{total: 200}
	v := newView(f)
	require.NoError(t, v.Reload(context.Background()))
	require.NoError(t, v.SetPage(context.Background(), 4))

	require.NoError(t, v.SetPageSize(context.Background(), 50))

	assert.Equal(t, 1, v.Page())
	assert.Equal(t, 50, v.PageSize())
	assert.Equal(t, 4, v.TotalPages())
}

func TestSetPageSizeRejectsUnknownOption(t *testing.T) {
	f := &fetchRecorder{}
	v := newView(f)

	err := v.SetPageSize(context.Background(), 17)

	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	assert.Equal(t, models.PageSizeOptions[0], v.PageSize())
}

func TestMutationIncrementsCounterAndRefetches(t *testing.T) {
	f := &fetchRecorder{total: 10}
	v := newView(f)
	require.NoError(t, v.Reload(context.Background()))
	calls := len(f.queries)

	require.NoError(t, v.NotifyMutation(context.Background()))

	assert.Equal(t, 1, v.Mutations())
	assert.Equal(t, calls+1, len(f.queries))
}

func TestFetchFailureClearsItemsAndSetsError(t *testing.T) {
	f := &fetchRecorder{items: []string{"a"}, total: 1}
	v := newView(f)
	require.NoError(t, v.Reload(context.Background()))
	require.NotEmpty(t, v.Items())

	f.mu.Lock()
	f.err = apperrors.New(apperrors.KindRequestFailed, 500, "gagal memuat data")
	f.mu.Unlock()
	err := v.Reload(context.Background())

	require.Error(t, err)
	assert.Empty(t, v.Items())
	assert.Zero(t, v.TotalCount())
	assert.Equal(t, "gagal memuat data", v.Err())
	assert.False(t, v.Loading())
}

func TestReloadClearsPriorError(t *testing.T) {
	f := &fetchRecorder{err: apperrors.New(apperrors.KindNetwork, 0, "jaringan bermasalah")}
	v := newView(f)
	require.Error(t, v.Reload(context.Background()))
	require.NotEmpty(t, v.Err())

	f.mu.Lock()
	f.err = nil
	f.items = []string{"x"}
	f.total = 1
	f.mu.Unlock()
	require.NoError(t, v.Reload(context.Background()))

	assert.Empty(t, v.Err())
	assert.Equal(t, []string{"x"}, v.Items())
}

func TestStaleResponseDoesNotOverwriteNewerOne(t *testing.T) {
	gate := make(chan struct{})
	f := &fetchRecorder{items: []string{"old"}, total: 1, gates: gate}
	v := newView(f)

	done := make(chan error, 1)
	go func() { done <- v.Reload(context.Background()) }()

	// Wait for the slow fetch to be in flight.
	require.Eventually(t, func() bool {
		f.mu.Lock()
		defer f.mu.Unlock()
		return len(f.queries) == 1
	}, time.Second, time.Millisecond)

	// A newer fetch starts and finishes while the first one is stuck.
	f.mu.Lock()
	f.gates = nil
	f.items = []string{"new"}
	f.mu.Unlock()
	require.NoError(t, v.Reload(context.Background()))
	require.Equal(t, []string{"new"}, v.Items())

	close(gate)
	require.NoError(t, <-done)

	assert.Equal(t, []string{"new"}, v.Items())
}
