package executor

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/user"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/slivka-go/taskqueue/record"
)

// NewGridEngineExecutor builds an Executor whose backend submits jobs
// through Sun/Open Grid Engine's qsub/qstat CLIs. Grounded on the
// original's GridEngineExec/GridEngineJob (pybioas/scheduler/executors.py
// lines 319-407), including its known quirks: qstat-based status is only
// consulted while the job still appears in the queue, after which status
// falls back to mtimes of "started"/"finished" marker files written by the
// submission wrapper, and get_result always reports a zero return code
// since Grid Engine's own exit status is never captured by this protocol
// (see DESIGN.md).
func NewGridEngineExecutor(cfg ExecutorConfig) (*Executor, error) {
	return newExecutor(cfg, gridEngineDriver{})
}

type gridEngineDriver struct{}

var jobSubmissionRegex = regexp.MustCompile(`Your job (\d+) \(.+\) has been submitted`)

func (gridEngineDriver) submit(cfg ExecutorConfig, argv []string, cwd string) (Job, error) {
	queueCmd := append([]string{"qsub", "-cwd", "-e", "stderr.txt", "-o", "stdout.txt", "-V"}, cfg.QueueArgs...)

	cmd := exec.Command(queueCmd[0], queueCmd[1:]...)
	cmd.Dir = cwd
	cmd.Env = mergeEnvSlice(cfg.Env)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	command := quoteJoin(argv)
	script := fmt.Sprintf("echo > started;\n%s;\necho > finished;", command)
	if _, err := io.WriteString(stdin, script); err != nil {
		return nil, err
	}
	stdin.Close()

	if err := cmd.Wait(); err != nil {
		return nil, fmt.Errorf("qsub failed: %w (stderr: %s)", err, stderr.String())
	}

	match := jobSubmissionRegex.FindStringSubmatch(stdout.String())
	if match == nil {
		return nil, fmt.Errorf("qsub output did not match expected submission format: %q", stdout.String())
	}

	return &GridEngineJob{
		jobBase: newJobBase(cwd, cfg.FileResults, cfg.Log),
		jobID:   match[1],
	}, nil
}

// GridEngineJob tracks a job by its Grid Engine job number.
type GridEngineJob struct {
	jobBase
	jobID string
}

func jobStatusRegex(jobID string) *regexp.Regexp {
	pattern := fmt.Sprintf(
		`^%s\s+[\d\.]+\s+.*?\s+[\w-]+\s+(\w{1,3})\s+[\d/]+\s+[\d:]+\s+[\w@\.-]*\s+\d+$`,
		regexp.QuoteMeta(jobID),
	)
	return regexp.MustCompile(`(?m)` + pattern)
}

func (j *GridEngineJob) Status() (record.JobStatus, error) {
	return j.pollStatus(func() (record.JobStatus, error) {
		username := "*"
		if u, err := user.Current(); err == nil && u.Username != "" {
			username = u.Username
		}
		cmd := exec.Command("qstat", "-u", username)
		// The original runs qstat with shell=True and never checks its
		// exit status, always parsing whatever stdout came back; a failed
		// or missing qstat just means no matching line is found below, and
		// falls through to the marker-file heuristic like any other miss.
		out, _ := cmd.Output()
		match := jobStatusRegex(j.jobID).FindStringSubmatch(string(out))
		if match == nil {
			return j.statusFromMarkers()
		}
		switch match[1] {
		case "r", "t":
			return record.JobRunning, nil
		case "qw", "T":
			return record.JobQueued, nil
		case "d":
			return record.JobDeleted, nil
		default:
			return record.JobError, nil
		}
	})
}

// statusFromMarkers falls back to the "started"/"finished" marker files
// written into the job's working directory by the submission wrapper
// script, once the job no longer appears in qstat's listing.
func (j *GridEngineJob) statusFromMarkers() (record.JobStatus, error) {
	started, err := os.Stat(filepath.Join(j.Cwd(), "started"))
	if err != nil {
		return record.JobQueued, nil
	}
	finished, err := os.Stat(filepath.Join(j.Cwd(), "finished"))
	if err != nil {
		return record.JobRunning, nil
	}
	if !finished.ModTime().Before(started.ModTime()) {
		return record.JobCompleted, nil
	}
	return record.JobRunning, nil
}

// Result reads stdout.txt/stderr.txt from the job's working directory.
// The return code is always 0: this protocol never captures Grid
// Engine's own exit status, a limitation preserved verbatim from the
// original implementation (see DESIGN.md).
func (j *GridEngineJob) Result() (*JobOutput, error) {
	return j.pollResult(func() (*JobOutput, error) {
		outBytes, err := os.ReadFile(filepath.Join(j.Cwd(), "stdout.txt"))
		if err != nil {
			return nil, err
		}
		errBytes, err := os.ReadFile(filepath.Join(j.Cwd(), "stderr.txt"))
		if err != nil {
			return nil, err
		}
		return &JobOutput{ReturnCode: 0, Stdout: string(outBytes), Stderr: string(errBytes)}, nil
	})
}

func quoteJoin(argv []string) string {
	quoted := make([]string, len(argv))
	for i, a := range argv {
		quoted[i] = shellQuote(a)
	}
	return strings.Join(quoted, " ")
}

// shellQuote mirrors Python's shlex.quote: wrap in single quotes,
// escaping embedded single quotes, unless the token needs no quoting.
func shellQuote(s string) string {
	if s != "" && isShellSafe(s) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}

func isShellSafe(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case strings.ContainsRune("@%_-+=:,./", r):
		default:
			return false
		}
	}
	return true
}
