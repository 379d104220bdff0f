package executor

import (
	"io"
	"os"
	"os/exec"

	"github.com/slivka-go/taskqueue/record"
)

// NewShellExecutor builds an Executor whose backend spawns the assembled
// command directly as a child process of this service, bypassing the
// queue server entirely. Grounded on the original's ShellExec/ShellJob
// backend (pybioas/scheduler/executors.py).
func NewShellExecutor(cfg ExecutorConfig) (*Executor, error) {
	return newExecutor(cfg, shellDriver{})
}

type shellDriver struct{}

func (shellDriver) submit(cfg ExecutorConfig, argv []string, cwd string) (Job, error) {
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = cwd
	cmd.Env = mergeEnvSlice(cfg.Env)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}

	job := &ShellJob{
		jobBase: newJobBase(cwd, cfg.FileResults, cfg.Log),
		cmd:     cmd,
	}
	job.collectOutput(stdout, stderr)
	return job, nil
}

// ShellJob wraps a directly-spawned *os/exec.Cmd.
type ShellJob struct {
	jobBase
	cmd *exec.Cmd

	done    chan struct{}
	out     *JobOutput
	waitErr error
}

func (j *ShellJob) collectOutput(stdout, stderr io.Reader) {
	j.done = make(chan struct{})
	go func() {
		defer close(j.done)
		outBytes, _ := io.ReadAll(stdout)
		errBytes, _ := io.ReadAll(stderr)
		waitErr := j.cmd.Wait()
		code := 0
		switch exitErr := waitErr.(type) {
		case nil:
		case *exec.ExitError:
			code = exitErr.ExitCode()
		default:
			// Equivalent of Python's OSError from process.poll(): the
			// process could not be waited on at all.
			j.waitErr = waitErr
		}
		j.out = &JobOutput{ReturnCode: code, Stdout: string(outBytes), Stderr: string(errBytes)}
	}()
}

// Status reports running while the process has not exited, completed on
// a zero exit code, failed on any other exit code, and error if the
// process could not be waited on at all.
func (j *ShellJob) Status() (record.JobStatus, error) {
	return j.pollStatus(func() (record.JobStatus, error) {
		select {
		case <-j.done:
			if j.waitErr != nil {
				return record.JobError, nil
			}
			if j.out.ReturnCode == 0 {
				return record.JobCompleted, nil
			}
			return record.JobFailed, nil
		default:
			return record.JobRunning, nil
		}
	})
}

func (j *ShellJob) Result() (*JobOutput, error) {
	return j.pollResult(func() (*JobOutput, error) {
		<-j.done
		return j.out, nil
	})
}

func mergeEnvSlice(overlay map[string]string) []string {
	if len(overlay) == 0 {
		return nil
	}
	env := os.Environ()
	for k, v := range overlay {
		env = append(env, k+"="+v)
	}
	return env
}
