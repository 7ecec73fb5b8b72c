// Package errors provides error handling for archex.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Hints and details for CLI output
//
// On top of the re-exports it defines the export error taxonomy. Every one of
// these is fatal for a run: the computation is deterministic, so an error
// always points at a defect in the input model or the configuration.
//
// Usage:
//
//	// Referenced identifier missing from the model
//	return errors.NewLookupError("basedOn %s of %s", parent.FQN(), de.Identifier.FQN())
//
//	// Check errors
//	if errors.IsCyclicHierarchyError(err) {
//	    // report the chain
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	"strings"

	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is            = crdb.Is
	IsAny         = crdb.IsAny
	As            = crdb.As
	Unwrap        = crdb.Unwrap
	UnwrapAll     = crdb.UnwrapAll
	GetAllHints   = crdb.GetAllHints
	GetAllDetails = crdb.GetAllDetails
	FlattenHints  = crdb.FlattenHints
)

// Assertions
var AssertionFailedf = crdb.AssertionFailedf

// Export error taxonomy.
// Use these with errors.Is() for type-safe error checking.
// Wrap these with errors.Wrap() to add context while preserving the type.
var (
	// ErrLookup indicates a referenced identifier is missing from the model
	ErrLookup = New("lookup failed")

	// ErrCyclicHierarchy indicates a basedOn chain revisits an element still being built
	ErrCyclicHierarchy = New("cyclic hierarchy")

	// ErrMalformedConstraint indicates a constraint whose payload does not match its kind
	ErrMalformedConstraint = New("malformed constraint")

	// ErrInvalidConfig indicates the export configuration cannot be used
	ErrInvalidConfig = New("invalid configuration")
)

// NewLookupError creates a lookup error with a formatted message
func NewLookupError(format string, args ...interface{}) error {
	return Wrap(ErrLookup, Newf(format, args...).Error())
}

// NewCyclicHierarchyError creates a cyclic-hierarchy error for the given chain
// of fully qualified names. The last entry is the revisited identifier.
func NewCyclicHierarchyError(chain []string) error {
	err := Wrapf(ErrCyclicHierarchy, "basedOn chain revisits %s", chain[len(chain)-1])
	return WithDetailf(err, "chain: %s", strings.Join(chain, " -> "))
}

// NewMalformedConstraintError creates a malformed-constraint error with a formatted message
func NewMalformedConstraintError(format string, args ...interface{}) error {
	return Wrap(ErrMalformedConstraint, Newf(format, args...).Error())
}

// NewInvalidConfigError creates an invalid-configuration error with a formatted message
func NewInvalidConfigError(format string, args ...interface{}) error {
	return Wrap(ErrInvalidConfig, Newf(format, args...).Error())
}

// IsLookupError checks if an error is or wraps ErrLookup
func IsLookupError(err error) bool {
	return err != nil && Is(err, ErrLookup)
}

// IsCyclicHierarchyError checks if an error is or wraps ErrCyclicHierarchy
func IsCyclicHierarchyError(err error) bool {
	return err != nil && Is(err, ErrCyclicHierarchy)
}

// IsMalformedConstraintError checks if an error is or wraps ErrMalformedConstraint
func IsMalformedConstraintError(err error) bool {
	return err != nil && Is(err, ErrMalformedConstraint)
}

// IsInvalidConfigError checks if an error is or wraps ErrInvalidConfig
func IsInvalidConfigError(err error) bool {
	return err != nil && Is(err, ErrInvalidConfig)
}
