package jellyfin

import (
	"errors"
	"fmt"
)

// ErrorKind partitions API failures by what the caller can do about them.
type ErrorKind int

const (
	// KindNetwork covers transport-level failures: connection refused,
	// timeouts, DNS errors.
	KindNetwork ErrorKind = iota

	// KindUnauthorized marks a rejected or expired access token. Callers may
	// re-authenticate exactly once before surfacing the failure.
	KindUnauthorized

	// KindNotFound marks a missing resource.
	KindNotFound

	// KindServer covers every other non-success response from the server.
	KindServer
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not found"
	default:
		return "server"
	}
}

// Error is returned for every failed server interaction.
type Error struct {
	Kind   ErrorKind
	Status int
	Op     string
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("jellyfin: %s: %s (status %d)", e.Op, e.Kind, e.Status)
	}
	if e.Err != nil {
		return fmt.Sprintf("jellyfin: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("jellyfin: %s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsUnauthorized reports whether err stems from a rejected access token.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == KindUnauthorized
}

// IsNetwork reports whether err stems from a transport-level failure.
func IsNetwork(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == KindNetwork
}
