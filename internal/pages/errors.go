package pages

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateIdentifier is returned when an identifier is registered twice.
	ErrDuplicateIdentifier = errors.New("pages: duplicate page identifier")
	// ErrInvalidIdentifier is returned when a registered identifier fails validation.
	ErrInvalidIdentifier = errors.New("pages: invalid page identifier")
	// ErrNilProducer is returned when an entry is registered without a content producer.
	ErrNilProducer = errors.New("pages: nil content producer")
	// ErrDefaultNotRegistered is returned when the default page has no entry.
	ErrDefaultNotRegistered = errors.New("pages: default page not registered")
)

// ConfigurationError describes a startup-time registry problem. The process
// must not start serving when one is returned.
type ConfigurationError struct {
	Identifier string
	Err        error
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	if e.Identifier == "" {
		return fmt.Sprintf("pages: configuration error: %v", e.Err)
	}
	return fmt.Sprintf("pages: configuration error for %q: %v", e.Identifier, e.Err)
}

// Unwrap exposes the underlying sentinel.
func (e *ConfigurationError) Unwrap() error { return e.Err }

func configError(id string, err error) error {
	return &ConfigurationError{Identifier: id, Err: err}
}
