// Package jobs defines the job record as persisted by the queue store and the bucket
// classification rules used by the dashboard.
//
// A bucket is never stored. Membership is derived at query time from locked_at, attempts
// and last_error, and a record may belong to several buckets at once: every record is
// enqueued, and a locked record with an error is both working and failed.
package jobs

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a job with the requested id does not exist
var ErrNotFound = errors.New("job not found")

// ErrInvalidBucket is returned for bucket names outside of AllBuckets
var ErrInvalidBucket = errors.New("invalid bucket")

// Record is a single persisted job
type Record struct {
	ID        string     `json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	RunAt     time.Time  `json:"run_at"`
	LockedAt  *time.Time `json:"locked_at,omitempty"` // set while a worker holds the job
	Attempts  int        `json:"attempts"`
	LastError *string    `json:"last_error,omitempty"` // message and backtrace of the last failure

	Priority  int        `json:"priority"`
	Handler   string     `json:"handler"`
	Queue     string     `json:"queue,omitempty"`
	LockedBy  string     `json:"locked_by,omitempty"`
	FailedAt  *time.Time `json:"failed_at,omitempty"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Working reports whether a worker holds the job
func (r Record) Working() bool { return r.LockedAt != nil }

// Failed reports whether the job has a recorded error
func (r Record) Failed() bool { return r.LastError != nil }

// Pending reports whether the job was never attempted.
// A job scheduled for the future with no attempts is pending as well.
func (r Record) Pending() bool { return r.Attempts == 0 }
