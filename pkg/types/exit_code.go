// SPDX-License-Identifier: MPL-2.0

package types

import "strconv"

// ExitCode is the process status of a champsim-configure run.
type ExitCode int

const (
	// ExitSuccess is returned when every build was generated.
	ExitSuccess ExitCode = 0
	// ExitFailure is returned for I/O failures and unexpected errors.
	ExitFailure ExitCode = 1
	// ExitConfiguration is returned when a build descriptor is rejected
	// (missing module source directory, module name collision, schema error).
	ExitConfiguration ExitCode = 2
)

// ExitCodes returns the documented exit codes in ascending order.
func ExitCodes() []ExitCode {
	return []ExitCode{ExitSuccess, ExitFailure, ExitConfiguration}
}

// Describe returns a short description of c for help output.
func (c ExitCode) Describe() string {
	switch c {
	case ExitSuccess:
		return "every build was generated"
	case ExitFailure:
		return "a file could not be read or written"
	case ExitConfiguration:
		return "a build descriptor or the configuration was rejected"
	default:
		return "unknown"
	}
}

// String returns the decimal string representation of the ExitCode.
func (c ExitCode) String() string { return strconv.Itoa(int(c)) }
