package record

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestJobStatusTerminal(t *testing.T) {
	terminal := []JobStatus{JobCompleted, JobFailed, JobError, JobDeleted}
	for _, s := range terminal {
		assert.True(t, s.Terminal(), "expected %v to be terminal", s)
	}

	nonTerminal := []JobStatus{JobPending, JobQueued, JobRunning}
	for _, s := range nonTerminal {
		assert.False(t, s.Terminal(), "expected %v to not be terminal", s)
	}
}

func TestRequestStatusPending(t *testing.T) {
	req := &Request{ID: 1, Service: "align", CreatedAt: time.Now()}
	assert.Equal(t, JobPending, req.Status())
	assert.False(t, req.IsFinished())
}

func TestRequestStatusMirrorsJob(t *testing.T) {
	req := &Request{
		ID:      2,
		Service: "align",
		Job:     &Job{Status: JobRunning},
	}
	assert.Equal(t, JobRunning, req.Status())
	assert.False(t, req.IsFinished())

	req.Job.Status = JobCompleted
	assert.True(t, req.IsFinished())
}
