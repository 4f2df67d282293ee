package view

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/gudang-labs/warehouse-dashboard/internal/models"
	apperrors "github.com/gudang-labs/warehouse-dashboard/pkg/errors"
)

// Fetcher loads one page of items for the given filter state and reports
// the total matching count.
type Fetcher[T any] func(ctx context.Context, q models.ListQuery) (items []T, total int, err error)

// ListView drives the filter/sort/paginate state shared by every tabular
// page. Filter, sort and page-size changes reset to page one; a bare page
// change keeps all filters. Every change refetches from the server, and a
// sequence counter makes sure a slow, older response never overwrites a
// newer one.
type ListView[T any] struct {
	mu    sync.Mutex
	fetch Fetcher[T]

	page      int
	pageSize  int
	search    string
	dateRange *models.DateRange
	sort      models.Sort

	items      []T
	totalCount int
	loading    bool
	errMsg     string
	mutations  int

	seq    atomic.Uint64
	logger *zap.Logger
}

// Option customises a list view.
type Option[T any] func(*ListView[T])

// WithLogger attaches a logger.
func WithLogger[T any](l *zap.Logger) Option[T] {
	return func(v *ListView[T]) { v.logger = l }
}

// WithPageSize sets the initial page size. It must be one of the offered
// options; anything else keeps the default.
func WithPageSize[T any](n int) Option[T] {
	return func(v *ListView[T]) {
		if models.ValidPageSize(n) {
			v.pageSize = n
		}
	}
}

// New builds a list view over the fetcher, starting at page one with the
// smallest page size and the given default sort.
func New[T any](fetch Fetcher[T], defaultSort models.Sort, opts ...Option[T]) *ListView[T] {
	v := &ListView[T]{
		fetch:    fetch,
		page:     1,
		pageSize: models.PageSizeOptions[0],
		sort:     defaultSort,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Reload fetches the current page. Concurrent reloads are safe: only the
// most recently started one gets to publish its result.
func (v *ListView[T]) Reload(ctx context.Context) error {
	v.mu.Lock()
	q := v.queryLocked()
	v.loading = true
	v.errMsg = ""
	v.mu.Unlock()

	token := v.seq.Add(1)
	items, total, err := v.fetch(ctx, q)

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.seq.Load() != token {
		// A newer fetch started while this one was in flight. Its result,
		// not ours, reflects the current filter state.
		v.logger.Debug("discarding stale list response", zap.Uint64("seq", token))
		return nil
	}
	v.loading = false
	if err != nil {
		v.items = nil
		v.totalCount = 0
		v.errMsg = apperrors.Message(err)
		return err
	}
	v.items = items
	v.totalCount = total
	return nil
}

// SetSearch changes the search term, returns to page one and refetches.
// An unchanged term is a no-op.
func (v *ListView[T]) SetSearch(ctx context.Context, term string) error {
	v.mu.Lock()
	if term == v.search {
		v.mu.Unlock()
		return nil
	}
	v.search = term
	v.page = 1
	v.mu.Unlock()
	return v.Reload(ctx)
}

// SetDateRange changes the date filter, returns to page one and refetches.
// A nil range clears the filter.
func (v *ListView[T]) SetDateRange(ctx context.Context, r *models.DateRange) error {
	v.mu.Lock()
	v.dateRange = r
	v.page = 1
	v.mu.Unlock()
	return v.Reload(ctx)
}

// ToggleSort applies the column-header contract: the active key flips
// direction, a new key becomes active ascending. Either way the view
// returns to page one and refetches.
func (v *ListView[T]) ToggleSort(ctx context.Context, key string) error {
	v.mu.Lock()
	if v.sort.Key == key {
		if v.sort.Direction == models.SortAsc {
			v.sort.Direction = models.SortDesc
		} else {
			v.sort.Direction = models.SortAsc
		}
	} else {
		v.sort = models.Sort{Key: key, Direction: models.SortAsc}
	}
	v.page = 1
	v.mu.Unlock()
	return v.Reload(ctx)
}

// SetPage moves to the given page, clamped to the valid range, keeping all
// filters. Landing on the current page is a no-op.
func (v *ListView[T]) SetPage(ctx context.Context, page int) error {
	v.mu.Lock()
	if page < 1 {
		page = 1
	}
	if last := v.totalPagesLocked(); last > 0 && page > last {
		page = last
	}
	if page == v.page {
		v.mu.Unlock()
		return nil
	}
	v.page = page
	v.mu.Unlock()
	return v.Reload(ctx)
}

// SetPageSize changes the page size, returns to page one and refetches.
// Only the offered options are accepted.
func (v *ListView[T]) SetPageSize(ctx context.Context, n int) error {
	if !models.ValidPageSize(n) {
		return apperrors.New(apperrors.KindValidation, 0, "ukuran halaman tidak valid")
	}
	v.mu.Lock()
	v.pageSize = n
	v.page = 1
	v.mu.Unlock()
	return v.Reload(ctx)
}

// NotifyMutation records that a create, update or delete succeeded and
// refetches so the list shows server truth.
func (v *ListView[T]) NotifyMutation(ctx context.Context) error {
	v.mu.Lock()
	v.mutations++
	v.mu.Unlock()
	return v.Reload(ctx)
}

// Query snapshots the current filter state as a server query.
func (v *ListView[T]) Query() models.ListQuery {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.queryLocked()
}

func (v *ListView[T]) queryLocked() models.ListQuery {
	return models.ListQuery{
		Page:      v.page,
		Limit:     v.pageSize,
		Search:    v.search,
		DateRange: v.dateRange,
		Sort:      v.sort,
	}
}

// Items returns the current page of items.
func (v *ListView[T]) Items() []T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.items
}

// TotalCount returns the server-reported total matching count.
func (v *ListView[T]) TotalCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.totalCount
}

// TotalPages derives the page count from the total and the page size.
func (v *ListView[T]) TotalPages() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.totalPagesLocked()
}

func (v *ListView[T]) totalPagesLocked() int {
	if v.totalCount == 0 {
		return 0
	}
	return (v.totalCount + v.pageSize - 1) / v.pageSize
}

// Page returns the current page number.
func (v *ListView[T]) Page() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.page
}

// PageSize returns the current page size.
func (v *ListView[T]) PageSize() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.pageSize
}

// Sort returns the active sort.
func (v *ListView[T]) Sort() models.Sort {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.sort
}

// Search returns the active search term.
func (v *ListView[T]) Search() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.search
}

// Loading reports whether a fetch is in flight.
func (v *ListView[T]) Loading() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loading
}

// Err returns the user-displayable message of the last failed fetch, empty
// after a success or while loading.
func (v *ListView[T]) Err() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.errMsg
}

// Mutations returns how many successful mutations this view has seen.
func (v *ListView[T]) Mutations() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.mutations
}
