package executor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slivka-go/taskqueue/record"
)

func newShellTestExecutor(t *testing.T) *Executor {
	t.Helper()
	exe, err := NewShellExecutor(ExecutorConfig{
		Bin:      "echo",
		WorkRoot: t.TempDir(),
	})
	require.NoError(t, err)
	return exe
}

func waitTerminal(t *testing.T, job Job) record.JobStatus {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		status, err := job.Status()
		require.NoError(t, err)
		if status.Terminal() {
			return status
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("job never reached a terminal status")
	return ""
}

func TestShellExecutorCompletes(t *testing.T) {
	exe := newShellTestExecutor(t)
	job, err := exe.Call(map[string]string{})
	require.NoError(t, err)

	status := waitTerminal(t, job)
	assert.Equal(t, record.JobCompleted, status)

	out, err := job.Result()
	require.NoError(t, err)
	assert.Equal(t, 0, out.ReturnCode)
}

func TestShellExecutorNonZeroExit(t *testing.T) {
	exe, err := NewShellExecutor(ExecutorConfig{Bin: "sh -c 'exit 5'", WorkRoot: t.TempDir()})
	require.NoError(t, err)
	job, err := exe.Call(nil)
	require.NoError(t, err)

	assert.Equal(t, record.JobFailed, waitTerminal(t, job))
	out, err := job.Result()
	require.NoError(t, err)
	assert.Equal(t, 5, out.ReturnCode)
}

func TestShellExecutorCwd(t *testing.T) {
	exe := newShellTestExecutor(t)
	job, err := exe.Call(nil)
	require.NoError(t, err)
	assert.NotEmpty(t, job.Cwd())
}
