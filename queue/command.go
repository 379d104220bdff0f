package queue

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"

	"go.uber.org/zap"

	"github.com/slivka-go/taskqueue/record"
)

// ProcessOutput is the immutable triple collected once a LocalCommand
// finishes running.
type ProcessOutput struct {
	ReturnCode int    `json:"return_code"`
	Stdout     string `json:"stdout"`
	Stderr     string `json:"stderr"`
}

// LocalCommand is the queue-server-internal unit of work. It is owned
// exclusively by the queue server until terminal; clients only ever see
// its integer job ID.
type LocalCommand struct {
	Cmd []string
	Cwd string
	Env map[string]string

	log *zap.Logger

	mu        sync.RWMutex
	status    record.JobStatus
	output    *ProcessOutput
	process   *exec.Cmd
	listeners map[chan<- record.JobStatus]struct{}
}

// NewLocalCommand creates a command queued to run cmd in cwd with env
// overlaid on the parent environment.
func NewLocalCommand(cmd []string, cwd string, env map[string]string, log *zap.Logger) *LocalCommand {
	if log == nil {
		log = zap.NewNop()
	}
	return &LocalCommand{
		Cmd:    cmd,
		Cwd:    cwd,
		Env:    env,
		log:    log,
		status: record.JobQueued,
	}
}

// AddStatusListener registers updates to be sent on status transitions.
// Sends are non-blocking best-effort -- callers must size their channel
// appropriately and must call RemoveStatusListener themselves; there is
// no automatic deregistration.
func (c *LocalCommand) AddStatusListener(updates chan<- record.JobStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.listeners == nil {
		c.listeners = map[chan<- record.JobStatus]struct{}{}
	}
	c.listeners[updates] = struct{}{}
}

// RemoveStatusListener deregisters a channel previously passed to
// AddStatusListener.
func (c *LocalCommand) RemoveStatusListener(updates chan<- record.JobStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.listeners, updates)
}

func (c *LocalCommand) setStatus(s record.JobStatus) {
	c.mu.Lock()
	c.status = s
	listeners := make([]chan<- record.JobStatus, 0, len(c.listeners))
	for l := range c.listeners {
		listeners = append(listeners, l)
	}
	c.mu.Unlock()
	for _, l := range listeners {
		select {
		case l <- s:
		default:
		}
	}
}

// Status returns the command's current status.
func (c *LocalCommand) Status() record.JobStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

// Output returns the collected output, or nil if the command has not
// finished yet.
func (c *LocalCommand) Output() *ProcessOutput {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.output
}

// IsFinished reports whether the command reached completed or failed.
func (c *LocalCommand) IsFinished() bool {
	s := c.Status()
	return s == record.JobCompleted || s == record.JobFailed
}

// Run executes the command as a child process with pipes for stdout and
// stderr, blocking until it exits. On spawn failure the command
// transitions to failed and the error is returned; on normal exit -
// regardless of exit code - it transitions to completed and the output
// triple is stored.
func (c *LocalCommand) Run() error {
	c.setStatus(record.JobRunning)
	c.log.Debug("starting local command",
		zap.Strings("cmd", c.Cmd), zap.String("cwd", c.Cwd))

	if len(c.Cmd) == 0 {
		err := fmt.Errorf("empty command")
		c.setStatus(record.JobFailed)
		return err
	}

	cmd := exec.Command(c.Cmd[0], c.Cmd[1:]...)
	cmd.Dir = c.Cwd
	cmd.Env = mergeEnv(os.Environ(), c.Env)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		c.setStatus(record.JobFailed)
		return fmt.Errorf("creating stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		c.setStatus(record.JobFailed)
		return fmt.Errorf("creating stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		c.setStatus(record.JobFailed)
		return err
	}
	c.mu.Lock()
	c.process = cmd
	c.mu.Unlock()

	var outBuf, errBuf bytes.Buffer
	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); copyOutput(&outBuf, stdout, c.log) }()
	go func() { defer wg.Done(); copyOutput(&errBuf, stderr, c.log) }()
	wg.Wait()

	waitErr := cmd.Wait()
	returnCode := 0
	if exitErr, ok := waitErr.(*exec.ExitError); ok {
		returnCode = exitErr.ExitCode()
	} else if waitErr != nil {
		c.setStatus(record.JobFailed)
		return waitErr
	}

	c.mu.Lock()
	c.output = &ProcessOutput{
		ReturnCode: returnCode,
		Stdout:     outBuf.String(),
		Stderr:     errBuf.String(),
	}
	c.mu.Unlock()
	c.setStatus(record.JobCompleted)
	return nil
}

func copyOutput(dst *bytes.Buffer, src io.Reader, log *zap.Logger) {
	if _, err := io.Copy(dst, src); err != nil && err != io.EOF {
		log.Warn("non-EOF error reading child output", zap.Error(err))
	}
}

func mergeEnv(base []string, overlay map[string]string) []string {
	env := append([]string{}, base...)
	for k, v := range overlay {
		env = append(env, k+"="+v)
	}
	return env
}

// Terminate sends the process a graceful termination signal.
func (c *LocalCommand) Terminate() error {
	c.mu.RLock()
	proc := c.process
	c.mu.RUnlock()
	if proc == nil || proc.Process == nil {
		return fmt.Errorf("process not started")
	}
	return proc.Process.Signal(syscall.SIGTERM)
}

// Kill sends the platform's immediate termination signal.
func (c *LocalCommand) Kill() error {
	c.mu.RLock()
	proc := c.process
	c.mu.RUnlock()
	if proc == nil || proc.Process == nil {
		return fmt.Errorf("process not started")
	}
	return proc.Process.Kill()
}

// Suspend stops the process where the platform supports it, or logs a
// warning and does nothing otherwise.
func (c *LocalCommand) Suspend() {
	c.mu.RLock()
	proc := c.process
	c.mu.RUnlock()
	if proc == nil || proc.Process == nil {
		return
	}
	if err := sendStopSignal(proc.Process); err != nil {
		c.log.Warn("SIGSTOP is not available on this platform", zap.Error(err))
	}
}

// Resume continues a previously suspended process where the platform
// supports it, or logs a warning and does nothing otherwise.
func (c *LocalCommand) Resume() {
	c.mu.RLock()
	proc := c.process
	c.mu.RUnlock()
	if proc == nil || proc.Process == nil {
		return
	}
	if err := sendContSignal(proc.Process); err != nil {
		c.log.Warn("SIGCONT is not available on this platform", zap.Error(err))
	}
}
