package epirt

import "strconv"

// Test-assertion format strings, used by this package's own test suite
// to report mismatches with a consistent message shape.
const (
	UnequalFloatParameterError  = "expected %s %f, instead got %f"
	UnequalIntParameterError    = "expected %s %d, instead got %d"
	UnequalStringParameterError = "expected %s %s, instead got %s"
	UnexpectedErrorWhileError   = "encountered error while %s: %s"
	ExpectedErrorWhileError     = "expected an error while %s, instead got none"
)

// InputErrorKind is the kind of failure the driver can encounter while
// obtaining its configuration, before the engine ever starts: a bad path,
// an unreadable file, a read failure, or malformed or invalid
// configuration JSON. Later failures (state-name resolution in
// BuildCatalog, sink writes, engine construction) are reported as plain
// errors instead of InputError values.
type InputErrorKind int

const (
	// BadInputPath means the supplied config path does not resolve.
	BadInputPath InputErrorKind = iota
	// UnreadableInputFile means the path resolved but could not be opened.
	UnreadableInputFile
	// InputReadFailure means the file or stdin stream could not be read
	// to completion.
	InputReadFailure
	// InvalidJSON means the input was read but failed to parse or
	// failed configuration validation.
	InvalidJSON
)

func (k InputErrorKind) String() string {
	switch k {
	case BadInputPath:
		return "bad input path"
	case UnreadableInputFile:
		return "unreadable input file"
	case InputReadFailure:
		return "input read failure"
	case InvalidJSON:
		return "invalid json"
	default:
		return "unknown input error"
	}
}

// InputError reports a driver-level failure that occurred before the
// engine was constructed.
type InputError struct {
	Kind InputErrorKind
	Path string

	// Line, Column, and Category are populated only when Kind is
	// InvalidJSON and the underlying failure could be localized within
	// the source document.
	Line     int
	Column   int
	Category string
}

func (e *InputError) Error() string {
	if e.Kind == InvalidJSON && e.Line > 0 {
		return e.Category + " at line " + strconv.Itoa(e.Line) + ", column " + strconv.Itoa(e.Column)
	}
	if e.Path != "" {
		return e.Kind.String() + ": " + e.Path
	}
	return e.Kind.String()
}
