package analyzer

import (
	"errors"
	"fmt"
)

// Kind classifies analysis failures so the API boundary can pick a status
// code by table lookup instead of inspecting error strings.
type Kind int

const (
	KindBadInput Kind = iota
	KindConfig
	KindTransport
	KindFormat
	KindValidation
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindBadInput:
		return "bad_input"
	case KindConfig:
		return "config"
	case KindTransport:
		return "upstream_transport"
	case KindFormat:
		return "upstream_format"
	case KindValidation:
		return "validation"
	case KindStorage:
		return "storage"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind Kind
	err  error
}

func (e *Error) Error() string {
	return e.err.Error()
}

func (e *Error) Unwrap() error {
	return e.err
}

func wrapErr(kind Kind, err error) *Error {
	return &Error{Kind: kind, err: err}
}

func errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, err: fmt.Errorf(format, args...)}
}

// KindOf returns the failure kind of err. Untyped errors are treated as
// transport-level.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindTransport
}
