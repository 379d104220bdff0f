package executor

import (
	"github.com/slivka-go/taskqueue/queue"
	"github.com/slivka-go/taskqueue/record"
)

// NewLocalExecutorFactory builds a Registry constructor for the Local
// backend, which forwards every submission to the queue server over its
// wire protocol rather than spawning the process itself. One *queue.Client
// is shared by every Executor built from the returned factory.
func NewLocalExecutorFactory(client *queue.Client) func(ExecutorConfig) (*Executor, error) {
	return func(cfg ExecutorConfig) (*Executor, error) {
		return newExecutor(cfg, localDriver{client: client})
	}
}

type localDriver struct {
	client *queue.Client
}

func (d localDriver) submit(cfg ExecutorConfig, argv []string, cwd string) (Job, error) {
	jobID, err := d.client.SubmitJob(argv, cwd, cfg.Env)
	if err != nil {
		return nil, err
	}
	return &LocalJob{
		jobBase: newJobBase(cwd, cfg.FileResults, cfg.Log),
		client:  d.client,
		jobID:   jobID,
	}, nil
}

// LocalJob is a handle into a job running under the queue server's
// worker pool, identified by its server-assigned integer ID.
type LocalJob struct {
	jobBase
	client *queue.Client
	jobID  int
}

func (j *LocalJob) Status() (record.JobStatus, error) {
	return j.pollStatus(func() (record.JobStatus, error) {
		return j.client.GetJobStatus(j.jobID)
	})
}

func (j *LocalJob) Result() (*JobOutput, error) {
	return j.pollResult(func() (*JobOutput, error) {
		out, err := j.client.GetJobOutput(j.jobID)
		if err != nil {
			return nil, err
		}
		return &JobOutput{ReturnCode: out.ReturnCode, Stdout: out.Stdout, Stderr: out.Stderr}, nil
	})
}
