// Package record defines the persisted-state contract consumed by the
// executors and queue server. The backing store (database, ORM schema)
// is an external collaborator out of scope for this module; only the
// shape and invariants of these records matter here.
package record

import "time"

// JobStatus is the canonical status lattice shared by every backend.
// Status only moves forward along pending -> queued -> running ->
// {completed, failed, error}, with an optional deleted sink for grid
// jobs. Once terminal, status is immutable.
type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobQueued    JobStatus = "queued"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
	JobError     JobStatus = "error"
	JobDeleted   JobStatus = "deleted"
)

// Terminal reports whether status allows no further transitions.
func (s JobStatus) Terminal() bool {
	switch s {
	case JobCompleted, JobFailed, JobError, JobDeleted:
		return true
	default:
		return false
	}
}

// Option is a name/value pair bound to one Request. Name is drawn from
// the service's declared option schema; Value is the textual
// representation of the user-supplied value.
type Option struct {
	Name  string
	Value string
}

// Job is the bridge between a Request and a backend invocation.
type Job struct {
	Status        JobStatus
	RefID         string // backend-native reference: integer for local, numeric string for grid
	WorkingDir    string // absolute path
	Service       string
	Configuration string
}

// File is one produced output file.
type File struct {
	UUID     string
	Title    string
	Path     string // absolute path
	Mimetype string
}

// Result is created once the owning Job reaches a terminal status.
type Result struct {
	ReturnCode *int // may be absent when the backend cannot supply it
	Stdout     string
	Stderr     string
	Files      []File
}

// Request represents one user submission. A Request has at most one Job
// and at most one Result. Pending is true until the associated Job
// reaches a terminal status.
type Request struct {
	ID        int
	Service   string
	Token     string // opaque 32-char correlation token
	CreatedAt time.Time
	Pending   bool
	Options   []Option
	Job       *Job    // nil until a backend invocation is created
	Result    *Result // nil until the Job is terminal; survives Request deletion (orphaned, not cascaded)
}

// Status mirrors the owning Job's status, or JobPending if no Job has
// been created yet.
func (r *Request) Status() JobStatus {
	if r.Job == nil {
		return JobPending
	}
	return r.Job.Status
}

// IsFinished reports whether the Request's Job (if any) has reached a
// terminal status.
func (r *Request) IsFinished() bool {
	return r.Status().Terminal()
}
