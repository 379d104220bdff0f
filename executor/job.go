// Package executor implements the Executor abstraction (C6), the three
// concrete backends and their Job types (C7), and the job-limits
// selector (C8).
package executor

import (
	"sync"

	"go.uber.org/zap"

	"github.com/slivka-go/taskqueue/record"
	"github.com/slivka-go/taskqueue/slerr"
)

// JobOutput is the return code, stdout, and stderr collected once a Job
// reaches a terminal status.
type JobOutput struct {
	ReturnCode int
	Stdout     string
	Stderr     string
}

// Job is the handle a caller holds for a running or finished invocation
// on some backend. The Python original calls the same duck-typed
// get_status(job_id) with an int, a process handle, or a string
// depending on the backend; here each backend's concrete Job type wraps
// its own reference type behind this interface instead, per spec.md's
// "Duck-typed job references" redesign note.
type Job interface {
	// Status is recomputed on every access and returns
	// JobRetrievalError if polling the backend fails.
	Status() (record.JobStatus, error)
	// CachedStatus returns the last observed status without polling the
	// backend again, for callers where an approximate answer is fine.
	CachedStatus() record.JobStatus
	// Result is only valid once Status is terminal.
	Result() (*JobOutput, error)
	// Cwd is the job's absolute working directory.
	Cwd() string
	// FileResults expands the job's declared FileResult patterns against
	// its working directory.
	FileResults() ([]string, error)
	// IsFinished reports whether the last known status is terminal.
	IsFinished() bool
}

// jobBase is embedded by every backend's Job type to share status
// caching and file-result expansion.
type jobBase struct {
	cwd         string
	fileResults []FileResult
	log         *zap.Logger

	mu     sync.Mutex
	cached record.JobStatus
}

func newJobBase(cwd string, fileResults []FileResult, log *zap.Logger) jobBase {
	if log == nil {
		log = zap.NewNop()
	}
	return jobBase{cwd: cwd, fileResults: fileResults, log: log, cached: record.JobQueued}
}

func (j *jobBase) Cwd() string { return j.cwd }

func (j *jobBase) CachedStatus() record.JobStatus {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.cached
}

func (j *jobBase) setCached(s record.JobStatus) {
	j.mu.Lock()
	j.cached = s
	j.mu.Unlock()
}

func (j *jobBase) IsFinished() bool {
	return j.CachedStatus().Terminal()
}

func (j *jobBase) FileResults() ([]string, error) {
	var paths []string
	for _, fr := range j.fileResults {
		p, err := fr.Paths(j.cwd)
		if err != nil {
			return nil, err
		}
		paths = append(paths, p...)
	}
	return paths, nil
}

// pollStatus runs poll, caches and returns its result, or wraps any
// error as a JobRetrievalError while logging the underlying cause with
// its full stack trace.
func (j *jobBase) pollStatus(poll func() (record.JobStatus, error)) (record.JobStatus, error) {
	status, err := poll()
	if err != nil {
		j.log.Error("failed retrieving job status", zap.Error(err))
		return "", slerr.NewJobRetrievalError(err)
	}
	j.setCached(status)
	return status, nil
}

// pollResult runs poll and wraps any error as a JobRetrievalError,
// logging the underlying cause with its full stack trace.
func (j *jobBase) pollResult(poll func() (*JobOutput, error)) (*JobOutput, error) {
	out, err := poll()
	if err != nil {
		j.log.Error("failed retrieving job result", zap.Error(err))
		return nil, slerr.NewJobRetrievalError(err)
	}
	return out, nil
}
