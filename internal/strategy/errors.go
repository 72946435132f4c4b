package strategy

import (
	"errors"
	"fmt"
)

// Kind classifies a failed generation.
type Kind int

const (
	// KindConfigurationMissing is a local problem: the credential is absent.
	KindConfigurationMissing Kind = iota + 1
	// KindServiceUnavailable covers every upstream failure.
	KindServiceUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindConfigurationMissing:
		return "configuration_missing"
	case KindServiceUnavailable:
		return "service_unavailable"
	default:
		return "unknown"
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "configuration_missing":
		return KindConfigurationMissing, true
	case "service_unavailable":
		return KindServiceUnavailable, true
	default:
		return 0, false
	}
}

var (
	ErrMissingField = errors.New("missing required field")
	ErrInFlight     = errors.New("a blueprint request is already in flight")
)

type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf reports the Kind carried by err, if any.
func KindOf(err error) (Kind, bool) {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind, true
	}
	return 0, false
}
