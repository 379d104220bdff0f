package queue

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// DefaultWorkerCount is the default number of workers in a Pool.
const DefaultWorkerCount = 4

// killWorker is the sentinel value placed on a worker's queue to make it
// exit its loop.
var killWorker = &LocalCommand{}

// Pool is a fixed set of workers draining a shared, bounded FIFO channel
// of job references. Each worker runs one command at a time, recovering
// and logging any panic so a single bad job cannot stop the pool.
type Pool struct {
	jobs chan *LocalCommand
	log  *zap.Logger

	wg sync.WaitGroup
}

// NewPool creates a pool with numWorkers workers, not yet started.
func NewPool(numWorkers int, log *zap.Logger) *Pool {
	if numWorkers <= 0 {
		numWorkers = DefaultWorkerCount
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Pool{
		jobs: make(chan *LocalCommand, numWorkers*4),
		log:  log,
	}
}

// Start launches numWorkers worker goroutines.
func (p *Pool) Start(numWorkers int) {
	if numWorkers <= 0 {
		numWorkers = DefaultWorkerCount
	}
	for i := 0; i < numWorkers; i++ {
		name := fmt.Sprintf("worker-%d", i+1)
		p.wg.Add(1)
		go p.runWorker(name)
	}
}

func (p *Pool) runWorker(name string) {
	defer p.wg.Done()
	log := p.log.With(zap.String("worker", name))
	log.Debug("worker started")
	for job := range p.jobs {
		if job == killWorker {
			break
		}
		p.runJob(log, job)
	}
	log.Debug("worker exiting")
}

func (p *Pool) runJob(log *zap.Logger, job *LocalCommand) {
	log.Info("picked up job", zap.Strings("cmd", job.Cmd))
	defer func() {
		if r := recover(); r != nil {
			log.Error("recovered from panic while executing command", zap.Any("panic", r))
		}
	}()
	if err := job.Run(); err != nil {
		log.Error("failed to execute command", zap.Error(err))
	}
	log.Info("completed job", zap.Strings("cmd", job.Cmd))
}

// Submit enqueues a job for execution by the next available worker.
func (p *Pool) Submit(job *LocalCommand) {
	p.jobs <- job
}

// Shutdown drains any jobs still waiting in the channel (jobs already
// picked up by a worker are left to finish), places one kill sentinel
// per running worker, then waits for all workers to exit. Idempotent:
// calling this after workers have already exited simply returns.
func (p *Pool) Shutdown(numWorkers int) {
	drain := true
	for drain {
		select {
		case <-p.jobs:
		default:
			drain = false
		}
	}
	for i := 0; i < numWorkers; i++ {
		p.jobs <- killWorker
	}
	p.wg.Wait()
}
