// Package slerr defines the error taxonomy shared by the queue server,
// executors, and client stubs. Every constructor wraps the underlying
// cause with github.com/pkg/errors so a stack trace is available at the
// point the failure was first observed, even though the error is only
// logged (never printed) at that point for the cases the spec requires
// to be caught and swallowed.
package slerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// SubmissionError is raised by Executor.Call when the backend refuses or
// fails to enqueue the job. The working directory that was created for
// the attempt may be left behind for diagnostics.
type SubmissionError struct {
	cause error
}

func NewSubmissionError(cause error) *SubmissionError {
	return &SubmissionError{cause: errors.WithStack(cause)}
}

func (e *SubmissionError) Error() string { return fmt.Sprintf("submission failed: %v", e.cause) }
func (e *SubmissionError) Unwrap() error { return e.cause }

// JobRetrievalError is raised when status or result polling throws. It is
// surfaced unchanged to the caller so callers can retry later.
type JobRetrievalError struct {
	cause error
}

func NewJobRetrievalError(cause error) *JobRetrievalError {
	return &JobRetrievalError{cause: errors.WithStack(cause)}
}

func (e *JobRetrievalError) Error() string {
	return fmt.Sprintf("failed retrieving job state: %v", e.cause)
}
func (e *JobRetrievalError) Unwrap() error { return e.cause }

// ServerError means a client stub saw a protocol violation or an
// ERROR    reply from the queue server.
type ServerError struct {
	msg   string
	cause error
}

func NewServerError(msg string) *ServerError {
	return &ServerError{msg: msg, cause: errors.New(msg)}
}

func WrapServerError(msg string, cause error) *ServerError {
	return &ServerError{msg: msg, cause: errors.Wrap(cause, msg)}
}

func (e *ServerError) Error() string { return e.cause.Error() }
func (e *ServerError) Unwrap() error { return e.cause }

// NotFoundError means the queue server was asked about an unknown job
// ID. It is mapped to the ERROR    wire response and never leaves the
// server process.
type NotFoundError struct {
	cause error
}

func NewNotFoundError(msg string) *NotFoundError {
	return &NotFoundError{cause: errors.New(msg)}
}

func (e *NotFoundError) Error() string { return e.cause.Error() }
func (e *NotFoundError) Unwrap() error { return e.cause }
