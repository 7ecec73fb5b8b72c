package logger

import (
	"go.uber.org/zap"
)

// Standard field names for consistent structured logging across archex.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Components
	FieldComponent = "component"

	// Model
	FieldElement   = "element"   // Fully qualified data element name
	FieldNamespace = "namespace" // Model namespace
	FieldParent    = "parent"    // Fully qualified basedOn parent
	FieldField     = "field"     // Field or value slot name
	FieldKind      = "kind"      // Constraint kind

	// Terms
	FieldTermKind = "term_kind" // id, at, ac
	FieldNodeID   = "node_id"

	// Output
	FieldFormat = "format" // adl, bmm
	FieldFile   = "file"
	FieldPath   = "path"

	// Counts and sizes
	FieldCount = "count"
	FieldSize  = "size"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"
)

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	type Renderer struct {
//	    log *zap.SugaredLogger
//	}
//
//	func NewRenderer() *Renderer {
//	    return &Renderer{
//	        log: logger.ComponentLogger("adl"),
//	    }
//	}
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// ChildLogger creates a child logger with additional context.
//
// Example:
//
//	elLogger := logger.ChildLogger(baseLogger, logger.FieldElement, id.FQN())
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	return parent.With(keysAndValues...)
}
