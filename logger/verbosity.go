package logger

import "go.uber.org/zap/zapcore"

// Verbosity levels counted from the CLI -v flag
const (
	VerbosityUser  = 0 // warnings and errors
	VerbosityInfo  = 1 // -v: run summaries, files written
	VerbosityDebug = 2 // -vv: element construction, config details
	VerbosityTrace = 3 // -vvv: term minting and constraint dispatch
	VerbosityAll   = 4 // -vvvv: rendered documents
)

// Verbosity is the level set by InitializeWithVerbosity. Components read it
// when they are created, so set it before building registries or exporters.
var Verbosity = VerbosityUser

// InitializeWithVerbosity records verbosity and sets up the global logger at
// the matching zap level
func InitializeWithVerbosity(jsonOutput bool, verbosity int) error {
	Verbosity = verbosity
	return InitializeWithLevel(jsonOutput, VerbosityToLevel(verbosity))
}

// VerbosityToLevel maps a -v count to a zap level. zap has nothing below
// debug, so trace and all share DebugLevel and are told apart with
// ShouldLogTrace and ShouldLogAll.
func VerbosityToLevel(verbosity int) zapcore.Level {
	switch {
	case verbosity <= VerbosityUser:
		return zapcore.WarnLevel
	case verbosity == VerbosityInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

// ShouldLogTrace reports whether per-term and per-constraint logs are wanted
func ShouldLogTrace(verbosity int) bool {
	return verbosity >= VerbosityTrace
}

// ShouldLogAll reports whether whole rendered documents should be logged
func ShouldLogAll(verbosity int) bool {
	return verbosity >= VerbosityAll
}
