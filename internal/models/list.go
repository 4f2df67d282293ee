package models

import (
	"net/url"
	"strconv"
	"time"
)

// SortDirection is either "asc" or "desc".
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Sort names the single active sort column and its direction.
type Sort struct {
	Key       string
	Direction SortDirection
}

// DateRange bounds a query by calendar dates, inclusive.
type DateRange struct {
	From time.Time
	To   time.Time
}

// PageSizeOptions is the fixed set of page sizes list views offer.
var PageSizeOptions = []int{10, 20, 30, 50}

// ValidPageSize reports whether n is one of the offered page sizes.
func ValidPageSize(n int) bool {
	for _, opt := range PageSizeOptions {
		if opt == n {
			return true
		}
	}
	return false
}

// ListQuery is the full server-side filter state of one list view.
type ListQuery struct {
	Page      int
	Limit     int
	Search    string
	DateRange *DateRange
	Sort      Sort
}

// Values encodes the query as URL parameters. All parameters are always
// present, empty when unset, so request shapes stay stable.
func (q ListQuery) Values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("limit", strconv.Itoa(q.Limit))
	v.Set("search", q.Search)
	if q.DateRange != nil {
		v.Set("startDate", q.DateRange.From.Format("2006-01-02"))
		v.Set("endDate", q.DateRange.To.Format("2006-01-02"))
	} else {
		v.Set("startDate", "")
		v.Set("endDate", "")
	}
	v.Set("sortBy", q.Sort.Key)
	v.Set("sortOrder", string(q.Sort.Direction))
	return v
}
