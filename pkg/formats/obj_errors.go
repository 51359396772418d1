package formats

import (
	"errors"
	"fmt"
)

// OBJ format errors.
var (
	ErrUnsupported            = errors.New("unsupported entry type")
	ErrInvalidEntry           = errors.New("invalid entry type")
	ErrIndexOutOfBound        = errors.New("index out of bound")
	ErrInvalidParameter       = errors.New("invalid parameter")
	ErrInvalidParameterNumber = errors.New("invalid parameter number")
	ErrInvalidLine            = errors.New("invalid line")
)

// IndexOutOfBoundError reports a face reference outside its attribute table.
// Index is the raw OBJ index as written in the file.
type IndexOutOfBoundError struct {
	Index int
}

func (e *IndexOutOfBoundError) Error() string {
	return fmt.Sprintf("index %d is out of bound", e.Index)
}

func (e *IndexOutOfBoundError) Unwrap() error {
	return ErrIndexOutOfBound
}

// InvalidParameterError reports the 0-based argument that failed to parse or
// failed the face shape check.
type InvalidParameterError struct {
	Field int
	Err   error
}

func (e *InvalidParameterError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid parameter %d: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("invalid parameter %d", e.Field)
}

func (e *InvalidParameterError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrInvalidParameter, e.Err}
	}
	return []error{ErrInvalidParameter}
}

// ParseError is returned by ParseOBJ. It carries the 0-based line number,
// the offending line when one was read, and the cause.
type ParseError struct {
	LineNo  int
	Line    string
	HasLine bool
	Err     error
}

func (e *ParseError) Error() string {
	if e.HasLine {
		return fmt.Sprintf("%d:%s : %v", e.LineNo, e.Line, e.Err)
	}
	return fmt.Sprintf("%d: %v", e.LineNo, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func unsupported(directive string) error {
	return fmt.Errorf("%w: '%s'", ErrUnsupported, directive)
}

func invalidEntry(entry string) error {
	return fmt.Errorf("%w: '%s'", ErrInvalidEntry, entry)
}

func invalidParameter(field int, cause error) error {
	return &InvalidParameterError{Field: field, Err: cause}
}
