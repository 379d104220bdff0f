// Package queue implements the in-process task queue: the wire codec
// (C1), local command execution (C2), the worker pool (C3), the
// non-blocking dispatch loop (C4), and the client stubs that speak to it
// (C5).
package queue

import (
	"fmt"
	"net"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/slivka-go/taskqueue/record"
	"github.com/slivka-go/taskqueue/slerr"
)

// Server is the queue-server socket loop. The Python original
// multiplexes every client socket on one OS thread with a select()
// readiness loop, explicitly tracking reading/handling/writing/closing
// states and a per-socket outgoing FIFO so a slow writer never blocks
// other clients. Each request on that wire protocol is a single
// request-response exchange over its own short-lived connection (the
// client stubs in client.go each dial, send one request, read one
// response, and close) -- so the behavior a manual readiness loop buys
// (one client's I/O never blocks another's, everything is logically
// non-blocking from the caller's perspective) is exactly what Go's
// goroutine-per-connection model gives for free. Server therefore
// accepts connections in one loop and serves each on its own goroutine,
// which preserves every guarantee in spec.md Section 5 without hand
// rolling an event loop Go doesn't need.
type Server struct {
	listener net.Listener
	pool     *Pool
	log      *zap.Logger

	numWorkers int

	jobsMu sync.Mutex
	jobs   map[int]*LocalCommand
	nextID int

	running int32
	wg      sync.WaitGroup
}

// NewServer creates a queue server backed by pool. numWorkers must match
// the worker count pool.Start was (or will be) called with, so Shutdown
// can place the right number of kill sentinels.
func NewServer(pool *Pool, numWorkers int, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		pool:       pool,
		numWorkers: numWorkers,
		log:        log,
		jobs:       map[int]*LocalCommand{},
	}
}

// ListenAndServe binds addr (host:port) and begins accepting connections
// in the background. It returns once the listener is bound; call Addr
// to discover the actual address (useful when addr's port is 0).
func (s *Server) ListenAndServe(addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("binding %v: %w", addr, err)
	}
	s.listener = l
	atomic.StoreInt32(&s.running, 1)
	s.log.Info("ready to accept connections", zap.String("addr", l.Addr().String()))
	s.wg.Add(1)
	go s.acceptLoop()
	return nil
}

// Addr returns the bound address, valid only after ListenAndServe.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Running reports whether the server is still accepting connections.
func (s *Server) Running() bool {
	return atomic.LoadInt32(&s.running) == 1
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.Running() {
				s.log.Error("accept failed", zap.Error(err))
			}
			return
		}
		s.wg.Add(1)
		go s.handleConn(conn)
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	header, err := ReadHeader(conn)
	if err != nil {
		// Connection closed without sending a full header: nothing to
		// respond to.
		return
	}

	var (
		length uint64
		resp   Header
		body   interface{}
	)
	switch {
	case !header.Valid():
		resp = StatusError
	case header == HeadPing:
		resp = StatusOK
	default:
		length, err = ReadLength(conn)
		if err != nil {
			return
		}
		resp, body, err = s.dispatch(header, conn, length)
		if err != nil {
			s.log.Error("error handling request", zap.String("header", header.String()), zap.Error(err))
		}
	}

	if err := WriteFrame(conn, resp, body); err != nil {
		s.log.Error("error writing response", zap.Error(err))
	}
}

func (s *Server) dispatch(header Header, conn net.Conn, length uint64) (Header, interface{}, error) {
	switch header {
	case HeadNewTask:
		var req struct {
			Cmd []string          `json:"cmd"`
			Cwd string            `json:"cwd"`
			Env map[string]string `json:"env"`
		}
		if err := ReadJSON(conn, length, &req); err != nil {
			return StatusError, nil, fmt.Errorf("invalid json: %w", err)
		}
		jobID := s.submitTask(req.Cmd, req.Cwd, req.Env)
		return StatusOK, map[string]int{"jobId": jobID}, nil

	case HeadJobStatus:
		var req struct {
			JobID int `json:"jobId"`
		}
		if err := ReadJSON(conn, length, &req); err != nil {
			return StatusError, nil, fmt.Errorf("invalid json: %w", err)
		}
		job := s.getJob(req.JobID)
		if job == nil {
			return StatusError, nil, slerr.NewNotFoundError(fmt.Sprintf("job %d not found", req.JobID))
		}
		return StatusOK, map[string]record.JobStatus{"status": job.Status()}, nil

	case HeadJobResult:
		var req struct {
			JobID int `json:"jobId"`
		}
		if err := ReadJSON(conn, length, &req); err != nil {
			return StatusError, nil, fmt.Errorf("invalid json: %w", err)
		}
		job := s.getJob(req.JobID)
		if job == nil {
			return StatusError, nil, slerr.NewNotFoundError(fmt.Sprintf("job %d not found", req.JobID))
		}
		output := job.Output()
		if output == nil {
			return StatusError, nil, fmt.Errorf("job %d not finished", req.JobID)
		}
		return StatusOK, output, nil

	default:
		return StatusError, nil, nil
	}
}

// submitTask assigns a job ID and enqueues the job to the pool while
// holding jobsMu across both steps. Enqueue-to-worker order must match
// ID-assignment order (spec.md Section 5): two connections racing
// through this method after the lock is released could assign IDs in
// one order but enqueue in the other, so the pool.Submit call has to
// stay inside the critical section.
func (s *Server) submitTask(cmd []string, cwd string, env map[string]string) int {
	command := NewLocalCommand(cmd, cwd, env, s.log)
	s.log.Info("created job", zap.Strings("cmd", cmd))

	s.jobsMu.Lock()
	defer s.jobsMu.Unlock()
	s.nextID++
	jobID := s.nextID
	s.jobs[jobID] = command
	s.pool.Submit(command)
	return jobID
}

func (s *Server) getJob(jobID int) *LocalCommand {
	s.jobsMu.Lock()
	defer s.jobsMu.Unlock()
	return s.jobs[jobID]
}

// Shutdown stops accepting new connections, drains the worker pool, and
// waits for in-flight connections to finish. Idempotent: a second call
// after the server has already stopped simply returns immediately.
func (s *Server) Shutdown() {
	if !atomic.CompareAndSwapInt32(&s.running, 1, 0) {
		return
	}
	s.log.Debug("shutdown signal")
	if s.listener != nil {
		s.listener.Close()
	}
	s.pool.Shutdown(s.numWorkers)
	s.wg.Wait()
}
