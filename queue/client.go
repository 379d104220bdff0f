package queue

import (
	"fmt"
	"net"
	"time"

	"github.com/slivka-go/taskqueue/record"
	"github.com/slivka-go/taskqueue/slerr"
)

// Client is a synchronous RPC helper over the queue-server wire
// protocol. Each call opens a fresh TCP connection, exactly like the
// original's module-level functions; Client exists only to carry the
// address and an optional dial timeout so callers don't have to thread
// them through every call.
type Client struct {
	Addr    string
	Timeout time.Duration
}

// NewClient creates a client pointed at addr (host:port).
func NewClient(addr string) *Client {
	return &Client{Addr: addr}
}

func (c *Client) dial() (net.Conn, error) {
	if c.Timeout > 0 {
		return net.DialTimeout("tcp", c.Addr, c.Timeout)
	}
	return net.Dial("tcp", c.Addr)
}

// SubmitJob sends a new job to the local queue and returns its ID.
func (c *Client) SubmitJob(cmd []string, cwd string, env map[string]string) (int, error) {
	conn, err := c.dial()
	if err != nil {
		return 0, slerr.WrapServerError("dialing queue server", err)
	}
	defer conn.Close()

	if env == nil {
		env = map[string]string{}
	}
	payload := map[string]interface{}{"cmd": cmd, "cwd": cwd, "env": env}
	if err := WriteFrame(conn, HeadNewTask, payload); err != nil {
		return 0, slerr.WrapServerError("sending submit request", err)
	}

	var resp struct {
		JobID int `json:"jobId"`
	}
	if err := readResponse(conn, &resp); err != nil {
		return 0, err
	}
	return resp.JobID, nil
}

// GetJobStatus requests the local queue for job status.
func (c *Client) GetJobStatus(jobID int) (record.JobStatus, error) {
	conn, err := c.dial()
	if err != nil {
		return "", slerr.WrapServerError("dialing queue server", err)
	}
	defer conn.Close()

	if err := WriteFrame(conn, HeadJobStatus, map[string]int{"jobId": jobID}); err != nil {
		return "", slerr.WrapServerError("sending status request", err)
	}

	var resp struct {
		Status record.JobStatus `json:"status"`
	}
	if err := readResponse(conn, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// GetJobOutput requests the local queue for job output.
func (c *Client) GetJobOutput(jobID int) (*ProcessOutput, error) {
	conn, err := c.dial()
	if err != nil {
		return nil, slerr.WrapServerError("dialing queue server", err)
	}
	defer conn.Close()

	if err := WriteFrame(conn, HeadJobResult, map[string]int{"jobId": jobID}); err != nil {
		return nil, slerr.WrapServerError("sending result request", err)
	}

	var out ProcessOutput
	if err := readResponse(conn, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CheckConnection tests whether the queue server is running and
// accepting connections. Any socket error yields false rather than an
// error.
func (c *Client) CheckConnection() bool {
	conn, err := c.dial()
	if err != nil {
		return false
	}
	defer conn.Close()

	if err := WriteFrame(conn, HeadPing, nil); err != nil {
		return false
	}
	header, err := ReadHeader(conn)
	if err != nil {
		return false
	}
	return header == StatusOK
}

// readResponse reads a status header and, if OK, the length-prefixed
// JSON body into v.
func readResponse(conn net.Conn, v interface{}) error {
	header, err := ReadHeader(conn)
	if err != nil {
		return slerr.WrapServerError("reading response header", err)
	}
	if header != StatusOK {
		return slerr.NewServerError("queue server returned an error response")
	}
	length, err := ReadLength(conn)
	if err != nil {
		return slerr.WrapServerError("reading response length", err)
	}
	if err := ReadJSON(conn, length, v); err != nil {
		return slerr.WrapServerError(fmt.Sprintf("decoding response body (%d bytes)", length), err)
	}
	return nil
}
