package engine

import (
	"fmt"

	"github.com/ivlev/censor/internal/source"
)

// Kind classifies where a job failed.
type Kind int

const (
	KindNone Kind = iota
	KindInputNotFound
	KindRead
	KindPrediction
	KindConversion
	KindCensor
	KindWrite
)

// Prefix is the diagnostic printed ahead of the underlying error.
func (k Kind) Prefix() string {
	switch k {
	case KindInputNotFound:
		return "input not found"
	case KindRead:
		return "failed to read image"
	case KindPrediction:
		return "failed to get prediction"
	case KindConversion:
		return "failed to convert vertex"
	case KindCensor:
		return "failed to censor"
	case KindWrite:
		return "failed to save image"
	default:
		return "failed"
	}
}

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindInputNotFound:
		return "input_not_found"
	case KindRead:
		return "read"
	case KindPrediction:
		return "prediction"
	case KindConversion:
		return "conversion"
	case KindCensor:
		return "censor"
	case KindWrite:
		return "write"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

type Status int

const (
	StatusSaved Status = iota
	StatusFailed
)

func (s Status) String() string {
	if s == StatusSaved {
		return "saved"
	}
	return "failed"
}

// Result is the outcome of one job: saved with its outputs, or failed with
// a kind and the cause. Outputs written before a failure are still listed.
type Result struct {
	Job     source.Job
	Status  Status
	Outputs []string
	Regions int
	Kind    Kind
	Err     error
}

// Error returns the failure as a *JobError, or nil for a saved job.
func (r Result) Error() error {
	if r.Status != StatusFailed {
		return nil
	}
	return &JobError{Kind: r.Kind, Input: r.Job.Input, Err: r.Err}
}

type JobError struct {
	Kind  Kind
	Input string
	Err   error
}

func (e *JobError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind.Prefix(), e.Err)
}

func (e *JobError) Unwrap() error {
	return e.Err
}

func failed(res Result, kind Kind, err error) Result {
	res.Status = StatusFailed
	res.Kind = kind
	res.Err = err
	return res
}
