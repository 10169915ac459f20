package approval

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is returned when the hierarchy or current status has the wrong shape
	ErrConfiguration = errors.New("approval: configuration error")

	// ErrDuplicateStatus is returned when a status is appended to a hierarchy twice
	ErrDuplicateStatus = errors.New("approval: duplicate status")
)

// ConfigurationError describes a malformed top-level input. It matches ErrConfiguration.
type ConfigurationError struct {
	Path   string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %s", ErrConfiguration, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrConfiguration, e.Path, e.Reason)
}

// Unwrap lets errors.Is match ErrConfiguration
func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}

func configErrorf(path, format string, args ...interface{}) error {
	return &ConfigurationError{Path: path, Reason: fmt.Sprintf(format, args...)}
}
