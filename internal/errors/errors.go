// Package errors provides error handling for doxytags.
//
// It re-exports github.com/cockroachdb/errors so callers get stack traces,
// wrapping and user-facing hints from one import, and defines the sentinel
// kinds the pipeline classifies failures by:
//
//	ErrLoadFailure      a snapshot could not be opened or decoded (recoverable)
//	ErrPartialMetadata  a type list or a type's members are unavailable (recoverable)
//	ErrInvalidArgument  a required input is absent, a programming error (fatal)
//	ErrOutputSink       the destination cannot be written (fatal)
//
// Recoverable kinds are tested with IsRecoverable before deciding to skip.
package errors

import (
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
	Mark         = crdb.Mark
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
	Is           = crdb.Is
	IsAny        = crdb.IsAny
	As           = crdb.As
	Unwrap       = crdb.Unwrap
	UnwrapAll    = crdb.UnwrapAll
	GetAllHints  = crdb.GetAllHints
	FlattenHints = crdb.FlattenHints
)

// AssertionFailedf reports a broken internal invariant.
var AssertionFailedf = crdb.AssertionFailedf

// Sentinel kinds. Mark a concrete error with one of these to classify it
// without losing its message.
var (
	// ErrLoadFailure indicates an assembly snapshot could not be read or decoded.
	ErrLoadFailure = New("load failure")

	// ErrPartialMetadata indicates a type list or member surface is unavailable.
	ErrPartialMetadata = New("partial metadata")

	// ErrInvalidArgument indicates a required input was absent.
	ErrInvalidArgument = New("invalid argument")

	// ErrOutputSink indicates the tag file destination could not be written.
	ErrOutputSink = New("output sink failure")

	// ErrNoInput indicates no assembly snapshot survived discovery and loading.
	ErrNoInput = New("no input")
)

// IsRecoverable reports whether err is a kind the pipeline skips rather than
// aborting on.
func IsRecoverable(err error) bool {
	return err != nil && IsAny(err, ErrLoadFailure, ErrPartialMetadata)
}

// LoadFailuref creates an error marked as ErrLoadFailure.
func LoadFailuref(cause error, format string, args ...interface{}) error {
	return Mark(Wrapf(cause, format, args...), ErrLoadFailure)
}

// PartialMetadataf creates an error marked as ErrPartialMetadata.
func PartialMetadataf(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrPartialMetadata)
}

// InvalidArgumentf creates an error marked as ErrInvalidArgument.
func InvalidArgumentf(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrInvalidArgument)
}

// OutputSink wraps a write failure as ErrOutputSink.
func OutputSink(cause error, msg string) error {
	return Mark(Wrap(cause, msg), ErrOutputSink)
}
