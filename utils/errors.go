package utils

import (
	"github.com/pkg/errors"
)

// ConfigValidationError reports a configuration problem found while validating or building
// something from its configuration. Path names where in the configuration the problem lives.
type ConfigValidationError struct {
	Path string
	Err  error
}

func (e *ConfigValidationError) Error() string {
	if e.Path == "" {
		return errors.Wrap(e.Err, "error validating config").Error()
	}
	return errors.Wrapf(e.Err, "error validating %q", e.Path).Error()
}

// Unwrap returns the underlying cause.
func (e *ConfigValidationError) Unwrap() error {
	return e.Err
}

// NewConfigValidationError returns a config validation error occurring at a given path.
func NewConfigValidationError(path string, err error) error {
	return &ConfigValidationError{Path: path, Err: err}
}

// NewConfigValidationFieldRequiredError returns a config validation error for a field missing at a
// given path.
func NewConfigValidationFieldRequiredError(path, field string) error {
	return NewConfigValidationError(path, errors.Errorf("%q is required", field))
}

// IsConfigValidationError reports whether err, or anything it wraps, is a config validation error.
func IsConfigValidationError(err error) bool {
	var cfgErr *ConfigValidationError
	return errors.As(err, &cfgErr)
}
