package executor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slivka-go/taskqueue/record"
	"github.com/slivka-go/taskqueue/slerr"
)

func TestJobBaseCachesStatus(t *testing.T) {
	base := newJobBase("/work/x", nil, nil)
	assert.Equal(t, record.JobQueued, base.CachedStatus())
	assert.False(t, base.IsFinished())

	status, err := base.pollStatus(func() (record.JobStatus, error) { return record.JobRunning, nil })
	require.NoError(t, err)
	assert.Equal(t, record.JobRunning, status)
	assert.Equal(t, record.JobRunning, base.CachedStatus())
}

func TestJobBasePollStatusWrapsError(t *testing.T) {
	base := newJobBase("/work/x", nil, nil)
	_, err := base.pollStatus(func() (record.JobStatus, error) { return "", errors.New("boom") })
	require.Error(t, err)
	var retrievalErr *slerr.JobRetrievalError
	assert.ErrorAs(t, err, &retrievalErr)
}

func TestJobBaseFileResults(t *testing.T) {
	base := newJobBase("/work/x", []FileResult{LiteralFileResult{Path: "a.txt"}, LiteralFileResult{Path: "b.txt"}}, nil)
	paths, err := base.FileResults()
	require.NoError(t, err)
	assert.Equal(t, []string{"/work/x/a.txt", "/work/x/b.txt"}, paths)
}
