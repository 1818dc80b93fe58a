package logging

import (
	"fmt"
	"strings"
)

// OperationError records which step failed, on what, and for remote calls
// the request id the service saw.
type OperationError struct {
	Operation string
	Subject   string
	RequestID string
	Err       error
}

func (e *OperationError) Error() string {
	if e == nil || e.Err == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(e.Operation)
	if e.Subject != "" {
		fmt.Fprintf(&b, " (%s)", e.Subject)
	}
	if e.RequestID != "" {
		fmt.Fprintf(&b, " [request %s]", e.RequestID)
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	return b.String()
}

func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewOperationError returns nil for a nil err.
func NewOperationError(operation, subject string, err error) error {
	return NewRequestError(operation, subject, "", err)
}

// NewRequestError is NewOperationError for a call that carried an
// X-Request-Id header.
func NewRequestError(operation, subject, requestID string, err error) error {
	if err == nil {
		return nil
	}
	return &OperationError{Operation: operation, Subject: subject, RequestID: requestID, Err: err}
}
