// Package errors provides the typed error taxonomy for the quantile objective.
//
// Every failure mode of the objective core is an explicit, inspectable error
// value: construction attaches a stack trace via cockroachdb/errors, and each
// type implements zerolog's ObjectMarshaler so callers can log failures as
// structured events. None of these errors are retried inside the library;
// they abort the current training invocation.
package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ConfigurationError indicates the objective was used before a valid quantile
// set was configured, or the configured levels were invalid (empty list,
// non-finite values).
type ConfigurationError struct {
	Op     string
	Reason string
	Value  interface{}
}

func (e *ConfigurationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("quantileboost: %s: invalid configuration: %s (got: %v)", e.Op, e.Reason, e.Value)
	}
	return fmt.Sprintf("quantileboost: %s: invalid configuration: %s", e.Op, e.Reason)
}

// MarshalZerologObject adds structured error information to a zerolog event.
func (e *ConfigurationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ConfigurationError")
}

// NewConfigurationError creates a new ConfigurationError with a stack trace.
func NewConfigurationError(op, reason string, value interface{}) error {
	err := &ConfigurationError{Op: op, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// UnsupportedShapeError indicates labels with more than one target column.
// The quantile objective is single-target only; quantile levels occupy the
// output columns instead.
type UnsupportedShapeError struct {
	Op      string
	Columns int
}

func (e *UnsupportedShapeError) Error() string {
	return fmt.Sprintf("quantileboost: %s: multi-target labels are not supported (got %d columns)", e.Op, e.Columns)
}

// MarshalZerologObject adds structured error information to a zerolog event.
func (e *UnsupportedShapeError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("label_columns", e.Columns).
		Str("type", "UnsupportedShapeError")
}

// NewUnsupportedShapeError creates a new UnsupportedShapeError with a stack trace.
func NewUnsupportedShapeError(op string, columns int) error {
	err := &UnsupportedShapeError{Op: op, Columns: columns}
	return errors.WithStack(err)
}

// ShapeMismatchError indicates a buffer whose dimensions disagree with what
// the configured quantile set implies, e.g. a prediction matrix whose column
// count is not the target count.
type ShapeMismatchError struct {
	Op       string
	What     string
	Expected int
	Got      int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("quantileboost: %s: %s mismatch. Expected %d, got %d", e.Op, e.What, e.Expected, e.Got)
}

// MarshalZerologObject adds structured error information to a zerolog event.
func (e *ShapeMismatchError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("what", e.What).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Str("type", "ShapeMismatchError")
}

// NewShapeMismatchError creates a new ShapeMismatchError with a stack trace.
func NewShapeMismatchError(op, what string, expected, got int) error {
	err := &ShapeMismatchError{Op: op, What: what, Expected: expected, Got: got}
	return errors.WithStack(err)
}

// SchemaMismatchError indicates an attempt to deserialize a document tagged
// for a different objective.
type SchemaMismatchError struct {
	Expected string
	Got      string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("quantileboost: cannot load objective %q into %q", e.Got, e.Expected)
}

// MarshalZerologObject adds structured error information to a zerolog event.
func (e *SchemaMismatchError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("expected_name", e.Expected).
		Str("got_name", e.Got).
		Str("type", "SchemaMismatchError")
}

// NewSchemaMismatchError creates a new SchemaMismatchError with a stack trace.
func NewSchemaMismatchError(expected, got string) error {
	err := &SchemaMismatchError{Expected: expected, Got: got}
	return errors.WithStack(err)
}

// EmptyInputError indicates quantile estimation was asked for on a shard
// with zero samples.
type EmptyInputError struct {
	Op string
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("quantileboost: %s: empty input", e.Op)
}

// MarshalZerologObject adds structured error information to a zerolog event.
func (e *EmptyInputError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("type", "EmptyInputError")
}

// NewEmptyInputError creates a new EmptyInputError with a stack trace.
func NewEmptyInputError(op string) error {
	err := &EmptyInputError{Op: op}
	return errors.WithStack(err)
}

// DistributedCommError indicates the global reduction primitive failed.
// This is fatal for the whole distributed job: a partially aggregated base
// score would silently corrupt every worker's initial state, so there is no
// local fallback or retry.
type DistributedCommError struct {
	Op   string
	Rank int
	Size int
	Err  error
}

func (e *DistributedCommError) Error() string {
	return fmt.Sprintf("quantileboost: %s: collective reduction failed on worker %d/%d: %v", e.Op, e.Rank, e.Size, e.Err)
}

func (e *DistributedCommError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject adds structured error information to a zerolog event.
func (e *DistributedCommError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("worker_rank", e.Rank).
		Int("worker_size", e.Size).
		AnErr("cause", e.Err).
		Str("type", "DistributedCommError")
}

// NewDistributedCommError creates a new DistributedCommError with a stack trace.
func NewDistributedCommError(op string, rank, size int, err error) error {
	commErr := &DistributedCommError{Op: op, Rank: rank, Size: size, Err: err}
	return errors.WithStack(commErr)
}

// ===========================================================================
//
//	cockroachdb/errors wrappers
//
// ===========================================================================

// Is reports whether err matches the target error.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As reports whether err can be cast to the target type.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an existing error with a message.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf wraps an existing error with a format string.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New creates a new error.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a new formatted error.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack attaches a stack trace to an error.
func WithStack(err error) error {
	return errors.WithStack(err)
}
