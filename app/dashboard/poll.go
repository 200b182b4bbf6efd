package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/umputun/jobdash/app/jobs"
)

// PollSuffix marks the live-poll variant of a view
const PollSuffix = ".poll"

// Mode tells how a view is fetched and which refresh affordance it shows
type Mode int

const (
	// ModeNormal is a paged view with a link to its live variant
	ModeNormal Mode = iota
	// ModePolling is an unpaged view stamped with the time it was fetched
	ModePolling
)

func (m Mode) String() string {
	if m == ModePolling {
		return "polling"
	}
	return "normal"
}

// View is a requested bucket view. Path is the view url without the poll suffix.
// Bucket is empty for the overview.
type View struct {
	Bucket jobs.Bucket
	Mode   Mode
	Path   string
}

// Refresh is the refresh affordance of a view, either a link to the live variant
// or the last update time.
type Refresh struct {
	Live      bool      `json:"live"`
	Label     string    `json:"label"`
	Link      string    `json:"link,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

// ViewResult is a fetched view. Offset and Limit are zero for polling views.
type ViewResult struct {
	Bucket  jobs.Bucket   `json:"bucket"`
	Mode    string        `json:"mode"`
	Jobs    []jobs.Record `json:"jobs"`
	Total   int           `json:"total"`
	Offset  int           `json:"offset"`
	Limit   int           `json:"limit"`
	Refresh Refresh       `json:"refresh"`
}

// OverviewView makes the overview View at path, polling when path has the poll suffix
func OverviewView(path string) View {
	if strings.HasSuffix(path, PollSuffix) {
		return View{Mode: ModePolling, Path: strings.TrimSuffix(path, PollSuffix)}
	}
	return View{Mode: ModeNormal, Path: path}
}

// ParseView makes a View from the view name under prefix. Accepted names are a bucket,
// "bucket.poll" and "bucket/<id>.poll", the last one polls the whole bucket.
func ParseView(prefix, name string) (View, error) {
	name = strings.Trim(name, "/")
	mode := ModeNormal
	if strings.HasSuffix(name, PollSuffix) {
		mode = ModePolling
		name = strings.TrimSuffix(name, PollSuffix)
	}

	page, rest, hasRest := strings.Cut(name, "/")
	if hasRest && (mode != ModePolling || rest == "" || strings.Contains(rest, "/")) {
		return View{}, fmt.Errorf("%w: %q", jobs.ErrInvalidBucket, name)
	}
	bucket, err := jobs.ParseBucket(page)
	if err != nil {
		return View{}, err
	}
	return View{Bucket: bucket, Mode: mode, Path: strings.TrimSuffix(prefix, "/") + "/" + name}, nil
}

// View fetches a view. Normal views are paged from offset, polling views return the
// whole bucket and ignore offset.
func (s *Service) View(ctx context.Context, v View, offset int) (ViewResult, error) {
	res := ViewResult{Bucket: v.Bucket, Mode: v.Mode.String()}

	if v.Mode == ModePolling {
		recs, err := s.ListBucketFull(ctx, v.Bucket)
		if err != nil {
			return ViewResult{}, err
		}
		res.Jobs, res.Total = recs, len(recs)
		res.Refresh = s.refresh(v)
		return res.normalize(), nil
	}

	offset = max(offset, 0)
	page, err := s.ListBucket(ctx, v.Bucket, offset, s.opts.PerPage)
	if err != nil {
		return ViewResult{}, err
	}
	res.Jobs, res.Total, res.Offset, res.Limit = page.Jobs, page.Total, offset, s.opts.PerPage
	res.Refresh = s.refresh(v)
	return res.normalize(), nil
}

// normalize keeps an empty bucket encoded as an empty list whatever the store returned
func (r ViewResult) normalize() ViewResult {
	if r.Jobs == nil {
		r.Jobs = []jobs.Record{}
	}
	return r
}

func (s *Service) refresh(v View) Refresh {
	if v.Mode == ModePolling {
		now := s.opts.Now()
		return Refresh{Live: true, Label: "Last Updated: " + now.Format("15:04:05"), UpdatedAt: now}
	}
	return Refresh{Live: false, Label: "Live Poll", Link: v.Path + PollSuffix}
}
