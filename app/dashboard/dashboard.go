// Package dashboard implements the operations behind the job queue dashboard: bucket listings
// with paging, live-poll views, per-bucket counts and the mutations (delete, requeue, bulk
// requeue and clear). It holds no state between calls besides the store it was created with,
// all consistency guarantees come from the store itself.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/go-pkgz/lgr"

	"github.com/umputun/jobdash/app/jobs"
	"github.com/umputun/jobdash/app/persistence"
)

//go:generate moq -out mocks/store.go -pkg mocks -skip-ensure -fmt goimports . Store

// DefaultPerPage is the page size used when none is configured
const DefaultPerPage = 4

// ErrStorageUnavailable is returned when the job store can't be reached or queried
var ErrStorageUnavailable = errors.New("job storage unavailable")

// Store is a job query store, implemented by persistence.SQLStore and persistence.MongoStore
type Store interface {
	Find(ctx context.Context, q persistence.Query) (persistence.Page, error)
	Count(ctx context.Context, p jobs.Predicate) (int, error)
	IDs(ctx context.Context, p jobs.Predicate) ([]string, error)
	Get(ctx context.Context, id string) (jobs.Record, error)
	Delete(ctx context.Context, id string) error
	Requeue(ctx context.Context, id string, at time.Time) error
	Ping(ctx context.Context) error
}

// Opts defines dashboard parameters
type Opts struct {
	PerPage     int              // page size for bucket listings
	Sweep       SweepPolicy      // failure handling of bulk requeue/clear
	Concurrency int              // parallel mutations in a sweep, 1 if not set
	Now         func() time.Time // clock for requeue and poll timestamps
}

// Service runs dashboard queries and mutations against a store
type Service struct {
	store  Store
	opts   Opts
	active *dedup // buckets with a running sweep
}

// Overview is a per-bucket summary of the queue. Connected is false and Message is set
// when the store can't be reached.
type Overview struct {
	Connected bool                `json:"connected"`
	Message   string              `json:"message,omitempty"`
	Counts    map[jobs.Bucket]int `json:"counts,omitempty"`
	Refresh   Refresh             `json:"refresh"`
}

// New makes a dashboard service for the store
func New(store Store, opts Opts) *Service {
	if opts.PerPage <= 0 {
		opts.PerPage = DefaultPerPage
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{store: store, opts: opts, active: newDedup()}
}

// PerPage returns the configured page size
func (s *Service) PerPage() int { return s.opts.PerPage }

// ListBucket returns up to limit records of the bucket starting at offset, newest first,
// and the total number of records in the bucket. Non-positive limit means the configured
// page size, negative offset is treated as 0.
func (s *Service) ListBucket(ctx context.Context, bucket jobs.Bucket, offset, limit int) (persistence.Page, error) {
	p, err := jobs.PredicateFor(bucket)
	if err != nil {
		return persistence.Page{}, err
	}
	if limit <= 0 {
		limit = s.opts.PerPage
	}
	offset = max(offset, 0)

	page, err := s.store.Find(ctx, persistence.Query{Predicate: p, Offset: offset, Limit: limit})
	if err != nil {
		return persistence.Page{}, fmt.Errorf("list %s: %w: %w", bucket, ErrStorageUnavailable, err)
	}
	return page, nil
}

// ListBucketFull returns all records of the bucket without paging
func (s *Service) ListBucketFull(ctx context.Context, bucket jobs.Bucket) ([]jobs.Record, error) {
	p, err := jobs.PredicateFor(bucket)
	if err != nil {
		return nil, err
	}
	page, err := s.store.Find(ctx, persistence.Query{Predicate: p, Unpaged: true})
	if err != nil {
		return nil, fmt.Errorf("list all %s: %w: %w", bucket, ErrStorageUnavailable, err)
	}
	return page.Jobs, nil
}

// Job returns a single job by id
func (s *Service) Job(ctx context.Context, id string) (jobs.Record, error) {
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, jobs.ErrNotFound) {
			return jobs.Record{}, err
		}
		return jobs.Record{}, fmt.Errorf("get job %s: %w: %w", id, ErrStorageUnavailable, err)
	}
	return rec, nil
}

// Overview counts records in every bucket. It never fails, an unreachable store is
// reported with Connected false. Only Mode and Path of v are used, for the refresh affordance.
func (s *Service) Overview(ctx context.Context, v View) Overview {
	const msg = "unable to connect to job database"
	degraded := Overview{Connected: false, Message: msg, Refresh: s.refresh(v)}
	if err := s.store.Ping(ctx); err != nil {
		log.Printf("[WARN] job store ping failed, %v", err)
		return degraded
	}

	res := Overview{Connected: true, Counts: make(map[jobs.Bucket]int, len(jobs.AllBuckets))}
	for _, b := range jobs.AllBuckets {
		p, err := jobs.PredicateFor(b)
		if err != nil {
			return Overview{Connected: false, Message: err.Error(), Refresh: s.refresh(v)}
		}
		count, err := s.store.Count(ctx, p)
		if err != nil {
			log.Printf("[WARN] failed to count %s jobs, %v", b, err)
			return degraded
		}
		res.Counts[b] = count
	}
	res.Refresh = s.refresh(v)
	return res
}
