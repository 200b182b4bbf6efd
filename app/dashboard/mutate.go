package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/syncs"

	"github.com/umputun/jobdash/app/jobs"
)

// SweepPolicy defines how bulk requeue and clear react to a failed record.
// Neither policy rolls back records already changed.
type SweepPolicy int

const (
	// SweepContinue mutates every record of the snapshot and reports all failures at the end
	SweepContinue SweepPolicy = iota
	// SweepAbort stops at the first failure, records not started yet are left alone
	SweepAbort
)

// ParseSweepPolicy converts "continue" or "abort" to SweepPolicy
func ParseSweepPolicy(s string) (SweepPolicy, error) {
	switch strings.ToLower(s) {
	case "continue", "":
		return SweepContinue, nil
	case "abort":
		return SweepAbort, nil
	}
	return SweepContinue, fmt.Errorf("unknown sweep policy %q", s)
}

func (p SweepPolicy) String() string {
	if p == SweepAbort {
		return "abort"
	}
	return "continue"
}

// PersistenceError reports a failed mutation. For sweeps Affected is the number of records
// changed before (or despite) the failures and Failed the number of records that could not be.
type PersistenceError struct {
	Op       string
	ID       string      // set for single record operations
	Bucket   jobs.Bucket // set for sweeps
	Affected int
	Failed   int
	Err      error
}

func (e *PersistenceError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s job %s failed: %v", e.Op, e.ID, e.Err)
	}
	return fmt.Sprintf("%s %s jobs: %d done, %d failed: %v", e.Op, e.Bucket, e.Affected, e.Failed, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// DeleteJob removes a job. Returns an error wrapping jobs.ErrNotFound if there is no such job.
func (s *Service) DeleteJob(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, jobs.ErrNotFound) {
			return err
		}
		return &PersistenceError{Op: "delete", ID: id, Err: err}
	}
	log.Printf("[INFO] job %s deleted", id)
	return nil
}

// RequeueJob makes a job eligible to run now by setting its run_at to the current time.
// Attempts and last error stay as they are.
func (s *Service) RequeueJob(ctx context.Context, id string) error {
	if err := s.store.Requeue(ctx, id, s.opts.Now()); err != nil {
		if errors.Is(err, jobs.ErrNotFound) {
			return err
		}
		return &PersistenceError{Op: "requeue", ID: id, Err: err}
	}
	log.Printf("[INFO] job %s requeued", id)
	return nil
}

// RequeueBucket requeues every job in the bucket at call time and returns the number of
// requeued jobs. On failures the count is returned together with a *PersistenceError.
func (s *Service) RequeueBucket(ctx context.Context, bucket jobs.Bucket) (int, error) {
	return s.sweep(ctx, "requeue", bucket, func(ctx context.Context, id string) error {
		return s.store.Requeue(ctx, id, s.opts.Now())
	})
}

// ClearBucket deletes every job in the bucket at call time and returns the number of
// deleted jobs. On failures the count is returned together with a *PersistenceError.
func (s *Service) ClearBucket(ctx context.Context, bucket jobs.Bucket) (int, error) {
	return s.sweep(ctx, "clear", bucket, s.store.Delete)
}

// sweep snapshots ids of the bucket once and applies fn to each of them.
// Jobs gone between the snapshot and the mutation are skipped, jobs entering the bucket
// during the sweep are not included.
func (s *Service) sweep(ctx context.Context, op string, bucket jobs.Bucket, fn func(context.Context, string) error) (int, error) {
	p, err := jobs.PredicateFor(bucket)
	if err != nil {
		return 0, err
	}
	if started, ok := s.active.add(bucket); !ok {
		return 0, fmt.Errorf("%s %s: %w since %s", op, bucket, ErrSweepInProgress, started.Format(time.RFC3339))
	}
	defer s.active.remove(bucket)

	ids, err := s.store.IDs(ctx, p)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w: %w", op, bucket, ErrStorageUnavailable, err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	var affected, vanished atomic.Int64
	var errsMu sync.Mutex
	var errs []error

	groupOpts := []syncs.GroupOption{syncs.Preemptive}
	if s.opts.Sweep == SweepAbort {
		groupOpts = append(groupOpts, syncs.TermOnErr)
	}
	gr := syncs.NewErrSizedGroup(s.opts.Concurrency, groupOpts...)
	for _, id := range ids {
		gr.Go(func() error {
			err := fn(ctx, id)
			switch {
			case err == nil:
				affected.Add(1)
				return nil
			case errors.Is(err, jobs.ErrNotFound):
				vanished.Add(1)
				log.Printf("[DEBUG] %s: job %s is gone, skipped", op, id)
				return nil
			default:
				errsMu.Lock()
				errs = append(errs, fmt.Errorf("job %s: %w", id, err))
				errsMu.Unlock()
				return err
			}
		})
	}
	_ = gr.Wait() // failures are collected in errs

	done := int(affected.Load())
	log.Printf("[INFO] %s %s: %d of %d jobs done, %d gone, %d failed", op, bucket, done, len(ids),
		vanished.Load(), len(errs))
	if len(errs) > 0 {
		return done, &PersistenceError{Op: op, Bucket: bucket, Affected: done, Failed: len(errs), Err: errors.Join(errs...)}
	}
	return done, nil
}
