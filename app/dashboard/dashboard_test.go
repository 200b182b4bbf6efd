package dashboard

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/jobdash/app/dashboard/mocks"
	"github.com/umputun/jobdash/app/jobs"
	"github.com/umputun/jobdash/app/persistence"
)

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestService_Scenario(t *testing.T) {
	store, _ := newFixtureStore()
	svc := New(store, Opts{})
	ctx := context.Background()

	pending, err := svc.ListBucket(ctx, jobs.BucketPending, 0, 4)
	require.NoError(t, err)
	assert.Equal(t, 2, pending.Total)
	assert.Equal(t, []string{"n1", "n2"}, handlers(pending.Jobs))

	failed, err := svc.ListBucket(ctx, jobs.BucketFailed, 0, 4)
	require.NoError(t, err)
	assert.Equal(t, 2, failed.Total)
	assert.Equal(t, []string{"f2", "f1"}, handlers(failed.Jobs), "newest first")

	deleted, err := svc.ClearBucket(ctx, jobs.BucketFailed)
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	failed, err = svc.ListBucket(ctx, jobs.BucketFailed, 0, 4)
	require.NoError(t, err)
	assert.Equal(t, 0, failed.Total)
	assert.Empty(t, failed.Jobs)

	all, err := svc.ListBucketFull(ctx, jobs.BucketEnqueued)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestService_RequeueBucket(t *testing.T) {
	store, ids := newFixtureStore()
	now := baseTime.Add(time.Hour)
	svc := New(store, Opts{Now: func() time.Time { return now }})

	before := store.snapshot()
	n, err := svc.RequeueBucket(context.Background(), jobs.BucketFailed)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	after := store.snapshot()
	for id, rec := range after {
		orig := before[id]
		if id == ids["f1"] || id == ids["f2"] {
			assert.Equal(t, now, rec.RunAt, "requeued %s", rec.Handler)
			assert.Equal(t, orig.Attempts, rec.Attempts)
			assert.Equal(t, orig.LastError, rec.LastError)
			continue
		}
		assert.Equal(t, orig, rec, "untouched %s", rec.Handler)
	}
}

func TestService_ListBucket(t *testing.T) {
	store, _ := newFixtureStore()
	svc := New(store, Opts{PerPage: 2})
	ctx := context.Background()

	t.Run("default limit", func(t *testing.T) {
		page, err := svc.ListBucket(ctx, jobs.BucketEnqueued, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, 5, page.Total)
		assert.Len(t, page.Jobs, 2)
	})

	t.Run("last partial page", func(t *testing.T) {
		page, err := svc.ListBucket(ctx, jobs.BucketEnqueued, 4, 2)
		require.NoError(t, err)
		assert.Equal(t, 5, page.Total)
		assert.Equal(t, []string{"f1"}, handlers(page.Jobs))
	})

	t.Run("offset beyond total", func(t *testing.T) {
		page, err := svc.ListBucket(ctx, jobs.BucketEnqueued, 50, 2)
		require.NoError(t, err)
		assert.Equal(t, 5, page.Total)
		assert.Empty(t, page.Jobs)
	})

	t.Run("negative offset", func(t *testing.T) {
		page, err := svc.ListBucket(ctx, jobs.BucketWorking, -3, 2)
		require.NoError(t, err)
		assert.Equal(t, []string{"l"}, handlers(page.Jobs))
	})

	t.Run("invalid bucket", func(t *testing.T) {
		_, err := svc.ListBucket(ctx, jobs.Bucket("archived"), 0, 2)
		assert.ErrorIs(t, err, jobs.ErrInvalidBucket)
		_, err = svc.ListBucketFull(ctx, jobs.Bucket("archived"))
		assert.ErrorIs(t, err, jobs.ErrInvalidBucket)
	})
}

func TestService_ListBucketStorageError(t *testing.T) {
	dbErr := errors.New("connection refused")
	store := &mocks.StoreMock{
		FindFunc: func(context.Context, persistence.Query) (persistence.Page, error) {
			return persistence.Page{}, dbErr
		},
	}
	svc := New(store, Opts{})

	_, err := svc.ListBucket(context.Background(), jobs.BucketFailed, 0, 4)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.ErrorIs(t, err, dbErr)

	_, err = svc.ListBucketFull(context.Background(), jobs.BucketFailed)
	assert.ErrorIs(t, err, ErrStorageUnavailable)

	require.Len(t, store.FindCalls(), 2)
	assert.Equal(t, persistence.Query{Predicate: jobs.Present(jobs.FieldLastError), Limit: 4}, store.FindCalls()[0].Q)
	assert.True(t, store.FindCalls()[1].Q.Unpaged)
}

func TestService_Overview(t *testing.T) {
	t.Run("connected", func(t *testing.T) {
		store, _ := newFixtureStore()
		ov := New(store, Opts{}).Overview(context.Background(), OverviewView("/overview"))
		assert.True(t, ov.Connected)
		assert.Empty(t, ov.Message)
		assert.Equal(t, Refresh{Label: "Live Poll", Link: "/overview.poll"}, ov.Refresh)
		assert.Equal(t, map[jobs.Bucket]int{
			jobs.BucketEnqueued: 5, jobs.BucketWorking: 1, jobs.BucketPending: 2, jobs.BucketFailed: 2,
		}, ov.Counts)
	})

	t.Run("ping failed", func(t *testing.T) {
		store := &mocks.StoreMock{PingFunc: func(context.Context) error { return errors.New("no route to host") }}
		ov := New(store, Opts{}).Overview(context.Background(), OverviewView("/overview"))
		assert.Equal(t, Overview{Connected: false, Message: "unable to connect to job database",
			Refresh: Refresh{Label: "Live Poll", Link: "/overview.poll"}}, ov)
		assert.Empty(t, store.CountCalls())
	})

	t.Run("count failed", func(t *testing.T) {
		store := &mocks.StoreMock{
			PingFunc:  func(context.Context) error { return nil },
			CountFunc: func(context.Context, jobs.Predicate) (int, error) { return 0, errors.New("timeout") },
		}
		ov := New(store, Opts{}).Overview(context.Background(), OverviewView("/overview"))
		assert.False(t, ov.Connected)
		assert.Nil(t, ov.Counts)
	})
}

func TestService_DeleteJob(t *testing.T) {
	store, ids := newFixtureStore()
	svc := New(store, Opts{})
	ctx := context.Background()

	require.NoError(t, svc.DeleteJob(ctx, ids["l"]))
	err := svc.DeleteJob(ctx, ids["l"])
	assert.ErrorIs(t, err, jobs.ErrNotFound)
	var perr *PersistenceError
	assert.False(t, errors.As(err, &perr), "not found is not a persistence failure")

	failing := &mocks.StoreMock{DeleteFunc: func(context.Context, string) error { return errors.New("disk full") }}
	err = New(failing, Opts{}).DeleteJob(ctx, "7")
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "delete", perr.Op)
	assert.Equal(t, "7", perr.ID)
	assert.EqualError(t, err, "delete job 7 failed: disk full")
}

func TestService_Job(t *testing.T) {
	store, ids := newFixtureStore()
	svc := New(store, Opts{})
	ctx := context.Background()

	rec, err := svc.Job(ctx, ids["l"])
	require.NoError(t, err)
	assert.Equal(t, "l", rec.Handler)
	assert.True(t, rec.Working())

	_, err = svc.Job(ctx, "999")
	assert.ErrorIs(t, err, jobs.ErrNotFound)

	failing := &mocks.StoreMock{GetFunc: func(context.Context, string) (jobs.Record, error) {
		return jobs.Record{}, errors.New("broken pipe")
	}}
	_, err = New(failing, Opts{}).Job(ctx, "1")
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.NotErrorIs(t, err, jobs.ErrNotFound)
}

func TestService_RequeueJob(t *testing.T) {
	store, ids := newFixtureStore()
	now := baseTime.Add(2 * time.Hour)
	svc := New(store, Opts{Now: func() time.Time { return now }})
	ctx := context.Background()

	require.NoError(t, svc.RequeueJob(ctx, ids["f1"]))
	rec, err := store.Get(ctx, ids["f1"])
	require.NoError(t, err)
	assert.Equal(t, now, rec.RunAt)
	assert.Equal(t, 2, rec.Attempts)
	require.NotNil(t, rec.LastError)
	assert.True(t, rec.Failed(), "requeue keeps the job in failed bucket")

	assert.ErrorIs(t, svc.RequeueJob(ctx, "999"), jobs.ErrNotFound)

	failing := &mocks.StoreMock{RequeueFunc: func(context.Context, string, time.Time) error { return errors.New("read only") }}
	var perr *PersistenceError
	require.ErrorAs(t, New(failing, Opts{}).RequeueJob(ctx, "3"), &perr)
	assert.Equal(t, "requeue", perr.Op)
}

func TestService_SweepPolicies(t *testing.T) {
	deleteErr := errors.New("lock timeout")
	newStore := func(fail map[string]error) *mocks.StoreMock {
		return &mocks.StoreMock{
			IDsFunc: func(context.Context, jobs.Predicate) ([]string, error) { return []string{"1", "2", "3"}, nil },
			DeleteFunc: func(_ context.Context, id string) error {
				return fail[id]
			},
		}
	}

	t.Run("continue", func(t *testing.T) {
		store := newStore(map[string]error{"2": deleteErr})
		n, err := New(store, Opts{Sweep: SweepContinue}).ClearBucket(context.Background(), jobs.BucketFailed)
		assert.Equal(t, 2, n)
		var perr *PersistenceError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, 2, perr.Affected)
		assert.Equal(t, 1, perr.Failed)
		assert.Equal(t, jobs.BucketFailed, perr.Bucket)
		assert.ErrorIs(t, err, deleteErr)
		assert.Len(t, store.DeleteCalls(), 3)
	})

	t.Run("abort", func(t *testing.T) {
		store := newStore(map[string]error{"2": deleteErr})
		n, err := New(store, Opts{Sweep: SweepAbort}).ClearBucket(context.Background(), jobs.BucketFailed)
		assert.Equal(t, 1, n)
		var perr *PersistenceError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, 1, perr.Affected)
		assert.Equal(t, 1, perr.Failed)
		assert.Len(t, store.DeleteCalls(), 2, "third job not touched")
	})

	t.Run("vanished job skipped", func(t *testing.T) {
		store := newStore(map[string]error{"2": jobs.ErrNotFound})
		n, err := New(store, Opts{Sweep: SweepAbort}).ClearBucket(context.Background(), jobs.BucketFailed)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Len(t, store.DeleteCalls(), 3)
	})

	t.Run("snapshot failed", func(t *testing.T) {
		store := &mocks.StoreMock{
			IDsFunc: func(context.Context, jobs.Predicate) ([]string, error) { return nil, errors.New("gone") },
		}
		n, err := New(store, Opts{}).RequeueBucket(context.Background(), jobs.BucketFailed)
		assert.Equal(t, 0, n)
		assert.ErrorIs(t, err, ErrStorageUnavailable)
	})

	t.Run("empty bucket", func(t *testing.T) {
		store := &mocks.StoreMock{
			IDsFunc: func(context.Context, jobs.Predicate) ([]string, error) { return []string{}, nil },
		}
		n, err := New(store, Opts{}).RequeueBucket(context.Background(), jobs.BucketWorking)
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})

	t.Run("invalid bucket", func(t *testing.T) {
		_, err := New(&mocks.StoreMock{}, Opts{}).ClearBucket(context.Background(), jobs.Bucket("done"))
		assert.ErrorIs(t, err, jobs.ErrInvalidBucket)
	})
}

func TestService_SweepConcurrent(t *testing.T) {
	store := &memStore{}
	for i := range 40 {
		rec := jobs.Record{Handler: "h" + strconv.Itoa(i), Attempts: 1, CreatedAt: baseTime.Add(time.Duration(i) * time.Second)}
		if i%2 == 0 {
			rec.LastError = strPtr("err")
		}
		store.add(rec)
	}
	svc := New(store, Opts{Concurrency: 8})

	n, err := svc.ClearBucket(context.Background(), jobs.BucketFailed)
	require.NoError(t, err)
	assert.Equal(t, 20, n)

	ov := svc.Overview(context.Background(), View{})
	assert.Equal(t, 0, ov.Counts[jobs.BucketFailed])
	assert.Equal(t, 20, ov.Counts[jobs.BucketEnqueued])
}

func TestParseSweepPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    SweepPolicy
		wantErr bool
	}{
		{"", SweepContinue, false},
		{"continue", SweepContinue, false},
		{"Abort", SweepAbort, false},
		{"rollback", SweepContinue, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSweepPolicy(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Equal(t, "abort", SweepAbort.String())
}

// newFixtureStore makes 2 failed, 1 locked and 2 new jobs
func newFixtureStore() (store *memStore, ids map[string]string) {
	store = &memStore{}
	ids = map[string]string{}
	add := func(rec jobs.Record) { ids[rec.Handler] = store.add(rec) }
	add(jobs.Record{Handler: "f1", Attempts: 2, LastError: strPtr("boom"), CreatedAt: baseTime.Add(-5 * time.Minute), RunAt: baseTime})
	add(jobs.Record{Handler: "f2", Attempts: 1, LastError: strPtr("bang"), CreatedAt: baseTime.Add(-4 * time.Minute), RunAt: baseTime})
	add(jobs.Record{Handler: "l", Attempts: 1, LockedAt: &baseTime, CreatedAt: baseTime.Add(-3 * time.Minute), RunAt: baseTime})
	add(jobs.Record{Handler: "n1", CreatedAt: baseTime.Add(-2 * time.Minute), RunAt: baseTime})
	add(jobs.Record{Handler: "n2", CreatedAt: baseTime.Add(-2 * time.Minute), RunAt: baseTime})
	return store, ids
}

// memStore is an in-memory Store keeping records in insertion order
type memStore struct {
	mu   sync.Mutex
	recs []jobs.Record
	seq  int
}

func (m *memStore) add(rec jobs.Record) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	rec.ID = strconv.Itoa(m.seq)
	m.recs = append(m.recs, rec)
	return rec.ID
}

func (m *memStore) snapshot() map[string]jobs.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	res := make(map[string]jobs.Record, len(m.recs))
	for _, r := range m.recs {
		res[r.ID] = r
	}
	return res
}

func (m *memStore) matching(p jobs.Predicate) []jobs.Record {
	res := []jobs.Record{}
	for _, r := range m.recs {
		if p.Match(r) {
			res = append(res, r)
		}
	}
	slices.SortStableFunc(res, func(a, b jobs.Record) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return res
}

func (m *memStore) Find(_ context.Context, q persistence.Query) (persistence.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	recs := m.matching(q.Predicate)
	page := persistence.Page{Total: len(recs)}
	if q.Unpaged {
		page.Jobs = recs
		return page, nil
	}
	start := min(q.Offset, len(recs))
	end := min(start+q.Limit, len(recs))
	page.Jobs = recs[start:end]
	return page, nil
}

func (m *memStore) Count(_ context.Context, p jobs.Predicate) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.matching(p)), nil
}

func (m *memStore) IDs(_ context.Context, p jobs.Predicate) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res := []string{}
	for _, r := range m.matching(p) {
		res = append(res, r.ID)
	}
	return res, nil
}

func (m *memStore) Get(_ context.Context, id string) (jobs.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.recs {
		if r.ID == id {
			return r, nil
		}
	}
	return jobs.Record{}, jobs.ErrNotFound
}

func (m *memStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.recs {
		if r.ID == id {
			m.recs = slices.Delete(m.recs, i, i+1)
			return nil
		}
	}
	return jobs.ErrNotFound
}

func (m *memStore) Requeue(_ context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.recs {
		if r.ID == id {
			m.recs[i].RunAt = at
			return nil
		}
	}
	return jobs.ErrNotFound
}

func (m *memStore) Ping(context.Context) error { return nil }

func handlers(recs []jobs.Record) []string {
	res := make([]string, 0, len(recs))
	for _, r := range recs {
		res = append(res, r.Handler)
	}
	return res
}

func strPtr(s string) *string { return &s }
