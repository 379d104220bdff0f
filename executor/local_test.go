package executor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/slivka-go/taskqueue/queue"
	"github.com/slivka-go/taskqueue/record"
)

func startLocalTestQueue(t *testing.T) *queue.Client {
	t.Helper()
	tq := queue.New(2, zap.NewNop())
	require.NoError(t, tq.Start("127.0.0.1:0"))
	t.Cleanup(tq.Shutdown)
	return queue.NewClient(tq.Server.Addr().String())
}

func TestLocalExecutorRoundTrip(t *testing.T) {
	client := startLocalTestQueue(t)
	factory := NewLocalExecutorFactory(client)
	exe, err := factory(ExecutorConfig{Bin: "echo", WorkRoot: t.TempDir()})
	require.NoError(t, err)

	job, err := exe.Call(nil)
	require.NoError(t, err)

	deadline := time.Now().Add(2 * time.Second)
	var status record.JobStatus
	for time.Now().Before(deadline) {
		status, err = job.Status()
		require.NoError(t, err)
		if status.Terminal() {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	assert.Equal(t, record.JobCompleted, status)

	out, err := job.Result()
	require.NoError(t, err)
	assert.Equal(t, 0, out.ReturnCode)
}
