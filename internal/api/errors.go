package api

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed API operation.
type ErrorKind int

const (
	// KindNetwork covers transport and decode failures where no usable
	// response was obtained.
	KindNetwork ErrorKind = iota
	// KindRejected covers non-2xx responses other than auth failures.
	KindRejected
	// KindUnauthorized covers 401/403 responses and operations aborted
	// client-side because no token was present.
	KindUnauthorized
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindRejected:
		return "rejected"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "unknown"
	}
}

// Error is the failure type returned by every operation in this package.
// Status is zero for failures that never produced a response.
type Error struct {
	Kind   ErrorKind
	Op     string // "POST /login" etc.
	Status int
	Detail string
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Status != 0 && e.Detail != "":
		return fmt.Sprintf("%s: %d %s", e.Op, e.Status, e.Detail)
	case e.Status != 0:
		return fmt.Sprintf("%s: status %d", e.Op, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of an API error, or KindNetwork for any other
// non-nil error.
func KindOf(err error) ErrorKind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindNetwork
}

// IsUnauthorized reports whether err is an auth failure.
func IsUnauthorized(err error) bool {
	return err != nil && KindOf(err) == KindUnauthorized
}
