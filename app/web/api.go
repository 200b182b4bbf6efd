package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	log "github.com/go-pkgz/lgr"

	"github.com/umputun/jobdash/app/dashboard"
	"github.com/umputun/jobdash/app/jobs"
)

// APIJobResponse is the JSON response of single job mutations
type APIJobResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// APISweepResponse is the JSON response of bulk requeue and clear
type APISweepResponse struct {
	Bucket   jobs.Bucket `json:"bucket"`
	Affected int         `json:"affected"`
	Failed   int         `json:"failed,omitempty"`
	Error    string      `json:"error,omitempty"`
}

// handleOverview returns per-bucket counts, 503 if the job store is unreachable.
// The .poll variant answers with the last update time instead of the live poll link.
func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	path := s.baseURL + overviewPath
	if strings.HasSuffix(r.URL.Path, dashboard.PollSuffix) {
		path += dashboard.PollSuffix
	}
	ov := s.svc.Overview(r.Context(), dashboard.OverviewView(path))
	if !ov.Connected {
		s.writeJSON(w, http.StatusServiceUnavailable, ov)
		return
	}
	s.writeJSON(w, http.StatusOK, ov)
}

// handleView returns a page of bucket jobs, or all of them for the live poll variant
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("view")
	if id := r.PathValue("id"); id != "" {
		name += "/" + id
	}
	v, err := dashboard.ParseView(s.baseURL+jobsPath, name)
	if err != nil {
		s.writeError(w, err)
		return
	}

	offset := 0
	if start := r.URL.Query().Get("start"); start != "" {
		if offset, err = strconv.Atoi(start); err != nil || offset < 0 {
			s.writeJSONError(w, http.StatusBadRequest, "invalid start")
			return
		}
	}

	res, err := s.svc.View(r.Context(), v, offset)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

// handleJob returns a single job
func (s *Server) handleJob(w http.ResponseWriter, r *http.Request) {
	rec, err := s.svc.Job(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

// handleRequeueJob makes a job eligible to run now
func (s *Server) handleRequeueJob(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.svc.RequeueJob(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, APIJobResponse{ID: id, Status: "requeued"})
}

// handleDeleteJob removes a job
func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.svc.DeleteJob(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, APIJobResponse{ID: id, Status: "removed"})
}

// handleRequeueFailed requeues all failed jobs
func (s *Server) handleRequeueFailed(w http.ResponseWriter, r *http.Request) {
	n, err := s.svc.RequeueBucket(r.Context(), jobs.BucketFailed)
	s.writeSweep(w, jobs.BucketFailed, n, err)
}

// handleClearFailed deletes all failed jobs
func (s *Server) handleClearFailed(w http.ResponseWriter, r *http.Request) {
	n, err := s.svc.ClearBucket(r.Context(), jobs.BucketFailed)
	s.writeSweep(w, jobs.BucketFailed, n, err)
}

// writeSweep writes the result of a sweep, partial counts are reported with the failure
func (s *Server) writeSweep(w http.ResponseWriter, bucket jobs.Bucket, affected int, err error) {
	if err == nil {
		s.writeJSON(w, http.StatusOK, APISweepResponse{Bucket: bucket, Affected: affected})
		return
	}
	var perr *dashboard.PersistenceError
	if errors.As(err, &perr) {
		log.Printf("[ERROR] %v", err)
		s.writeJSON(w, http.StatusInternalServerError, APISweepResponse{Bucket: bucket, Affected: perr.Affected,
			Failed: perr.Failed, Error: perr.Op + " failed"})
		return
	}
	s.writeError(w, err)
}

// writeError maps dashboard errors to http status codes
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var perr *dashboard.PersistenceError
	switch {
	case errors.Is(err, jobs.ErrInvalidBucket):
		s.writeJSONError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, jobs.ErrNotFound):
		s.writeJSONError(w, http.StatusNotFound, "job not found")
	case errors.Is(err, dashboard.ErrSweepInProgress):
		s.writeJSONError(w, http.StatusConflict, err.Error())
	case errors.Is(err, dashboard.ErrStorageUnavailable):
		log.Printf("[WARN] %v", err)
		s.writeJSONError(w, http.StatusServiceUnavailable, "unable to connect to job database")
	case errors.As(err, &perr):
		log.Printf("[ERROR] %v", err)
		s.writeJSONError(w, http.StatusInternalServerError, perr.Op+" failed")
	default:
		log.Printf("[ERROR] %v", err)
		s.writeJSONError(w, http.StatusInternalServerError, "internal error")
	}
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[WARN] failed to encode JSON response: %v", err)
	}
}

// writeJSONError writes a JSON error response
func (s *Server) writeJSONError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
