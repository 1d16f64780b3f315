package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound marks a recoverable miss: a section marker is absent, a header
// had no rows, or a reduction had nothing left to emit. Callers probe the next
// format instead of failing.
var ErrNotFound = errors.New("not found")

type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func NewValidation(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func NewValidationWrap(msg string, err error) *ValidationError {
	return &ValidationError{Message: msg, Err: err}
}

// InconsistentError reports readings of one metric in one run that disagree on
// their unit. Averaging them would mix incompatible quantities.
type InconsistentError struct {
	Run    string
	Metric string
	Units  []string
}

func (e *InconsistentError) Error() string {
	return fmt.Sprintf("unit mismatch for metric %q in run %q: %s", e.Metric, e.Run, strings.Join(e.Units, ", "))
}

// AmbiguousError reports a line claimed by more than one scalar pattern.
// It points at a defect in the pattern table, not in the input.
type AmbiguousError struct {
	Line     string
	Patterns []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("line %q matches multiple scalar patterns: %s", e.Line, strings.Join(e.Patterns, ", "))
}

// StageError attaches the pipeline stage, run and log source to an error.
type StageError struct {
	Stage  string
	Run    string
	Source string
	Err    error
}

func (e *StageError) Error() string {
	var b strings.Builder
	b.WriteString(e.Stage)
	if e.Run != "" {
		b.WriteString(" [run=")
		b.WriteString(e.Run)
		b.WriteString("]")
	}
	if e.Source != "" {
		b.WriteString(" [source=")
		b.WriteString(e.Source)
		b.WriteString("]")
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func NewStage(stage, run, source string, err error) *StageError {
	return &StageError{Stage: stage, Run: run, Source: source, Err: err}
}

func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotFound)
}
