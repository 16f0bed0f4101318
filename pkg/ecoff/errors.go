package ecoff

import (
	"errors"
	"fmt"
)

var (
	ErrTruncated     = errors.New("truncated input")
	ErrInvalidLayout = errors.New("invalid layout")
	ErrIO            = errors.New("i/o failure")
)

// TruncatedError reports a read that needed more bytes than the source had.
type TruncatedError struct {
	Requested int64
	Available int64
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("truncated input: need %d bytes, have %d", e.Requested, e.Available)
}

func (e *TruncatedError) Unwrap() error {
	return ErrTruncated
}

// LayoutError reports declared sizes or offsets that contradict each other
// or the stream length.
type LayoutError struct {
	Reason string
}

func (e *LayoutError) Error() string {
	return "invalid layout: " + e.Reason
}

func (e *LayoutError) Unwrap() error {
	return ErrInvalidLayout
}

func layoutErrorf(format string, a ...any) error {
	return &LayoutError{Reason: fmt.Sprintf(format, a...)}
}

// IOError wraps a failure of the underlying byte source that is not the end
// of input.
type IOError struct {
	Err error
}

func (e *IOError) Error() string {
	return "i/o failure: " + e.Err.Error()
}

func (e *IOError) Unwrap() []error {
	return []error{ErrIO, e.Err}
}

// Stage names the step of a decode.
type Stage string

const (
	StageFileHeader      Stage = "file header"
	StageOptionalHeader  Stage = "optional header"
	StageSectionHeader   Stage = "section header"
	StageSectionData     Stage = "section data"
	StageSymbolicHeader  Stage = "symbolic header"
	StageLocalStrings    Stage = "local string table"
	StageExternalStrings Stage = "external string table"
)

// DecodeError is the single error returned by a failed decode. Index is
// 1-based and only set for per-section stages.
type DecodeError struct {
	Stage Stage
	Index int
	Count int
	Err   error
}

func (e *DecodeError) Error() string {
	return "ecoff: " + e.Where() + ": " + e.Err.Error()
}

// Where describes the stage, e.g. "section header 3 of 7".
func (e *DecodeError) Where() string {
	if e.Count > 0 {
		return fmt.Sprintf("%s %d of %d", e.Stage, e.Index, e.Count)
	}
	return string(e.Stage)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Kind classifies err as "truncated_input", "invalid_layout", "io_failure"
// or "" when it is none of them.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrTruncated):
		return "truncated_input"
	case errors.Is(err, ErrInvalidLayout):
		return "invalid_layout"
	case errors.Is(err, ErrIO):
		return "io_failure"
	}
	return ""
}
