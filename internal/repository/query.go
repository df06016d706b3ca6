package repository

import "time"

// ListQuery carries pagination and equality filters for list endpoints
type ListQuery struct {
	Page    int
	PerPage int
	Filters map[string]string
}

// NewListQuery creates a ListQuery with defaults
func NewListQuery() *ListQuery {
	return &ListQuery{
		Page:    1,
		PerPage: 50,
		Filters: make(map[string]string),
	}
}

// Offset returns the row offset of the requested page
func (q *ListQuery) Offset() int {
	if q == nil || q.Page < 1 {
		return 0
	}
	return (q.Page - 1) * q.PerPage
}

// Filter returns a filter value or ""
func (q *ListQuery) Filter(key string) string {
	if q == nil || q.Filters == nil {
		return ""
	}
	return q.Filters[key]
}

// DateRange bounds a date-granular listing; both ends are inclusive and optional
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// Contains reports whether day falls inside the range
func (r DateRange) Contains(day time.Time) bool {
	if r.From != nil && day.Before(*r.From) {
		return false
	}
	if r.To != nil && day.After(*r.To) {
		return false
	}
	return true
}
