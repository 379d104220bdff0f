package queue

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/slivka-go/taskqueue/record"
)

func startTestQueue(t *testing.T) *TaskQueue {
	t.Helper()
	tq := New(2, zap.NewNop())
	require.NoError(t, tq.Start("127.0.0.1:0"))
	t.Cleanup(tq.Shutdown)
	return tq
}

func TestServerEndToEndSubmitStatusResult(t *testing.T) {
	tq := startTestQueue(t)
	client := NewClient(tq.Server.Addr().String())

	jobID, err := client.SubmitJob([]string{"echo", "integration"}, t.TempDir(), nil)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, jobID, 1)

	require.Eventually(t, func() bool {
		status, err := client.GetJobStatus(jobID)
		return err == nil && status == record.JobCompleted
	}, 2*time.Second, 10*time.Millisecond)

	out, err := client.GetJobOutput(jobID)
	require.NoError(t, err)
	assert.Equal(t, 0, out.ReturnCode)
	assert.Contains(t, out.Stdout, "integration")
}

// TestServerSubmitPropagatesEnvOverlay covers spec.md E3: a job
// submitted with an env overlay must see those variables in its actual
// child-process environment, not just echoed back in a config struct.
func TestServerSubmitPropagatesEnvOverlay(t *testing.T) {
	tq := startTestQueue(t)
	client := NewClient(tq.Server.Addr().String())

	jobID, err := client.SubmitJob([]string{"/usr/bin/env"}, t.TempDir(), map[string]string{"FOO": "bar"})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		status, err := client.GetJobStatus(jobID)
		return err == nil && status == record.JobCompleted
	}, 2*time.Second, 10*time.Millisecond)

	out, err := client.GetJobOutput(jobID)
	require.NoError(t, err)
	assert.Contains(t, out.Stdout, "FOO=bar")
}

func TestServerUnknownJobIsError(t *testing.T) {
	tq := startTestQueue(t)
	client := NewClient(tq.Server.Addr().String())

	_, err := client.GetJobStatus(99999)
	assert.Error(t, err)
}

func TestServerPing(t *testing.T) {
	tq := startTestQueue(t)
	client := NewClient(tq.Server.Addr().String())
	assert.True(t, client.CheckConnection())
}

func TestServerMonotonicJobIDs(t *testing.T) {
	tq := startTestQueue(t)
	client := NewClient(tq.Server.Addr().String())

	first, err := client.SubmitJob([]string{"echo", "one"}, t.TempDir(), nil)
	require.NoError(t, err)
	second, err := client.SubmitJob([]string{"echo", "two"}, t.TempDir(), nil)
	require.NoError(t, err)
	assert.Greater(t, second, first)
}

// TestServerRejectsUnrecognizedHeader covers spec.md E6: a connection
// that sends an unrecognized 8-byte header gets an ERROR    reply, and
// the server keeps accepting subsequent valid connections.
func TestServerRejectsUnrecognizedHeader(t *testing.T) {
	tq := startTestQueue(t)

	conn, err := net.Dial("tcp", tq.Server.Addr().String())
	require.NoError(t, err)
	_, err = conn.Write([]byte("BOGUS   "))
	require.NoError(t, err)

	resp, err := ReadHeader(conn)
	require.NoError(t, err)
	assert.Equal(t, StatusError, resp)
	conn.Close()

	client := NewClient(tq.Server.Addr().String())
	assert.True(t, client.CheckConnection())
}

func TestServerShutdownIsIdempotent(t *testing.T) {
	tq := New(1, zap.NewNop())
	require.NoError(t, tq.Start("127.0.0.1:0"))
	tq.Shutdown()
	tq.Shutdown()
}
