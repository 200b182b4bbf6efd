package dashboard

import (
	"errors"
	"sync"
	"time"

	"github.com/umputun/jobdash/app/jobs"
)

// ErrSweepInProgress is returned when a bulk operation on the same bucket is still running
var ErrSweepInProgress = errors.New("sweep in progress")

// dedup registers buckets with a running sweep in order to prevent two sweeps of one bucket at once
type dedup struct {
	active map[jobs.Bucket]time.Time
	lock   sync.Mutex
}

func newDedup() *dedup {
	return &dedup{active: make(map[jobs.Bucket]time.Time)}
}

// add registers the bucket, fails if already in. Returns the start time of the running sweep on failure.
func (d *dedup) add(b jobs.Bucket) (time.Time, bool) {
	d.lock.Lock()
	defer d.lock.Unlock()
	if started, found := d.active[b]; found {
		return started, false
	}
	d.active[b] = time.Now()
	return time.Time{}, true
}

// remove bucket from the map. Safe to call multiple times
func (d *dedup) remove(b jobs.Bucket) {
	d.lock.Lock()
	defer d.lock.Unlock()
	delete(d.active, b)
}
