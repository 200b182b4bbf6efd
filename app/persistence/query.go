package persistence

import (
	"fmt"

	"github.com/umputun/jobdash/app/jobs"
)

// Query selects records matching Predicate, ordered by created_at desc.
// Offset and Limit are ignored when Unpaged is set.
type Query struct {
	Predicate jobs.Predicate
	Offset    int
	Limit     int
	Unpaged   bool
}

// Page is a slice of matching records plus the unpaginated total
type Page struct {
	Jobs  []jobs.Record `json:"jobs"`
	Total int           `json:"total"`
}

// validate checks predicate and paging parameters
func (q Query) validate() error {
	if err := q.Predicate.Validate(); err != nil {
		return fmt.Errorf("invalid predicate: %w", err)
	}
	if q.Unpaged {
		return nil
	}
	if q.Offset < 0 {
		return fmt.Errorf("negative offset %d", q.Offset)
	}
	if q.Limit <= 0 {
		return fmt.Errorf("non-positive limit %d", q.Limit)
	}
	return nil
}
