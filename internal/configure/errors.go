// SPDX-License-Identifier: MPL-2.0

package configure

import (
	"errors"

	"github.com/champsim/configure/internal/makefile"
	"github.com/champsim/configure/pkg/buildspec"
)

// ErrConfiguration classifies errors caused by the build descriptors rather
// than by the environment. errors.Is(err, ErrConfiguration) holds for every
// *ConfigurationError.
var ErrConfiguration = errors.New("configuration error")

// ConfigurationError marks Err as a problem with the user's descriptors.
type ConfigurationError struct {
	Err error
}

// Error implements the error interface for ConfigurationError.
func (e *ConfigurationError) Error() string { return e.Err.Error() }

// Unwrap returns both ErrConfiguration and the underlying error.
func (e *ConfigurationError) Unwrap() []error { return []error{ErrConfiguration, e.Err} }

// configurationKinds are the sentinels that make an error a configuration error.
var configurationKinds = []error{
	buildspec.ErrInvalidDescriptor,
	buildspec.ErrModuleNameCollision,
	makefile.ErrSourceDirNotFound,
	makefile.ErrInvalidSourceExt,
}

// Classify wraps err in a *ConfigurationError when it stems from the
// descriptors. Other errors, and nil, are returned unchanged.
func Classify(err error) error {
	if err == nil || errors.Is(err, ErrConfiguration) {
		return err
	}
	for _, kind := range configurationKinds {
		if errors.Is(err, kind) {
			return &ConfigurationError{Err: err}
		}
	}
	return err
}
