// Package diag holds the error kinds, the recoverable-problem policy and the
// ordered message list shared by the deck parser and the model builders.
package diag

import (
	"errors"
	"fmt"
)

// Kind classifies an error.
type Kind int

const (
	// Structural covers lexical problems: quotes, numbers, multipliers, stray text.
	Structural Kind = iota + 1
	// Schema covers records that disagree with their keyword schema.
	Schema
	// Semantic covers domain rule violations detected while building the model.
	Semantic
	// IO covers missing or unreadable files.
	IO
)

func (k Kind) String() string {
	switch k {
	case Structural:
		return "structural"
	case Schema:
		return "schema"
	case Semantic:
		return "semantic"
	case IO:
		return "io"
	default:
		return "unknown"
	}
}

// Error codes. Codes of recoverable categories equal the category name.
const (
	// Structural.
	CodeUnterminatedQuote = "UNTERMINATED_QUOTE"
	CodeBadNumber         = "MALFORMED_NUMBER"
	CodeBadMultiplier     = "MALFORMED_MULTIPLIER"

	// Schema.
	CodeTooManyItems  = "TOO_MANY_ITEMS"
	CodeTypeMismatch  = "ITEM_TYPE_MISMATCH"
	CodeDuplicateItem = "DUPLICATE_ITEM"
	CodeRecordCount   = "RECORD_COUNT_MISMATCH"
	CodeMissingItem   = "MISSING_ITEM"
	CodeBadSchema     = "INVALID_SCHEMA"

	// Semantic.
	CodeInvalidValue         = "INVALID_VALUE"
	CodeUndefinedWell        = "UNDEFINED_WELL"
	CodeUndefinedGroup       = "UNDEFINED_GROUP"
	CodeTimeOrder            = "NON_MONOTONIC_TIME"
	CodeHeadMismatch         = "HEAD_POSITION_MISMATCH"
	CodeBadLength            = "NON_POSITIVE_LENGTH"
	CodeUnresolvedSegment    = "UNRESOLVED_SEGMENT"
	CodeUnattachedCompletion = "UNATTACHED_COMPLETION"
	CodeZeroSpan             = "ZERO_INTERPOLATION_SPAN"
	CodeUnsupported          = "UNSUPPORTED_FEATURE"
	CodeOutOfRange           = "OUT_OF_RANGE"
	CodeMissingKeyword       = "MISSING_KEYWORD"

	// IO.
	CodeReadFailed = "READ_FAILED"
)

// Error is the error type returned by the parser and the model builders.
type Error struct {
	Kind Kind
	Code string
	File string
	Line int
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, msg)
	}
	if e.File != "" {
		return e.File + ": " + msg
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Format creates an Error with no location.
func Format(kind Kind, code, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return &Error{Kind: kind, Code: code, Msg: msg}
}

// FormatAt creates an Error located at file:line.
func FormatAt(file string, line int, kind Kind, code, msg string, params ...any) *Error {
	e := Format(kind, code, msg, params...)
	e.File, e.Line = file, line
	return e
}

// Wrap attaches a kind and code to an underlying error.
func Wrap(err error, kind Kind, code, msg string, params ...any) *Error {
	e := Format(kind, code, msg, params...)
	e.Err = err
	return e
}

// Locate fills in the location of err when it is an *Error without one.
// Other errors are wrapped as schema errors located at file:line.
func Locate(err error, file string, line int) error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) {
		if de.File == "" {
			de.File, de.Line = file, line
		}
		return err
	}
	return &Error{Kind: Schema, Code: CodeBadSchema, File: file, Line: line, Msg: "invalid input", Err: err}
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// KindOf returns the kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return 0
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code string) bool {
	return err != nil && CodeOf(err) == code
}
