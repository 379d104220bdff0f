package queue

import "go.uber.org/zap"

// TaskQueue bundles the worker pool and the queue server into the single
// lifecycle the rest of the system depends on: Start binds the socket
// and launches the workers, Shutdown tears both down in the right order.
type TaskQueue struct {
	Server *Server
	pool   *Pool

	numWorkers int
}

// New creates a task queue with numWorkers workers (DefaultWorkerCount
// if zero or negative), not yet started.
func New(numWorkers int, log *zap.Logger) *TaskQueue {
	if numWorkers <= 0 {
		numWorkers = DefaultWorkerCount
	}
	pool := NewPool(numWorkers, log)
	return &TaskQueue{
		Server:     NewServer(pool, numWorkers, log),
		pool:       pool,
		numWorkers: numWorkers,
	}
}

// Start binds addr and starts the server loop and all workers.
func (q *TaskQueue) Start(addr string) error {
	if err := q.Server.ListenAndServe(addr); err != nil {
		return err
	}
	q.pool.Start(q.numWorkers)
	return nil
}

// Shutdown stops the server, drains the pool (each live worker gets a
// kill sentinel), and waits for both to finish. Idempotent.
func (q *TaskQueue) Shutdown() {
	q.Server.Shutdown()
}
