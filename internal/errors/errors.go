// Package errors provides standardized error handling for the contrast
// application. It defines common error types, constants, and helper functions
// for consistent error creation, wrapping, and handling across the application.
package errors

import (
	"errors"
	"fmt"
)

// Standard errors package functions re-exported for convenience
var (
	// Unwrap unwraps an error to access the underlying error
	Unwrap = errors.Unwrap
	// Is reports whether any error in err's chain matches target
	Is = errors.Is
	// As finds the first error in err's chain that matches target
	As = errors.As
)

// Common error constants for frequently occurring errors
var (
	ErrFileNotFound     = NewFileError("file not found", "", FileNotFound, nil)
	ErrInvalidPath      = NewFileError("invalid file path", "", InvalidPath, nil)
	ErrInvalidConfig    = NewConfigError("invalid configuration", "", InvalidConfig, nil)
	ErrMetadataNotFound = NewMetadataError("no metadata found", "", MetadataNotFound, nil)
	ErrNoOptions        = NewSlicerError("no slicer options found", "", NoOptionsFound, nil)
	ErrUnknownSlicer    = NewSlicerError("no settings parser for slicer", "", UnknownSlicer, nil)
)

// ErrorKind represents the kind of error
type ErrorKind int

// Error kinds
const (
	Unknown ErrorKind = iota
	// File error kinds
	FileNotFound
	FileAccessDenied
	InvalidPath
	FileOperationFailed
	// Config error kinds
	InvalidConfig
	ConfigNotFound
	// Metadata error kinds
	MetadataNotFound
	DatabaseOperationFailed
	// Slicer error kinds
	NoOptionsFound
	UnknownSlicer
	ParseFailed
)

// ApplicationError is the base error type for all application errors
type ApplicationError struct {
	msg  string
	err  error
	kind ErrorKind
}

// Error returns the error message
func (e *ApplicationError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

// Unwrap returns the wrapped error
func (e *ApplicationError) Unwrap() error {
	return e.err
}

// Kind returns the kind of error
func (e *ApplicationError) Kind() ErrorKind {
	return e.kind
}

// FileError represents errors related to file operations
type FileError struct {
	ApplicationError
	path string
}

// NewFileError creates a new file error
func NewFileError(msg string, path string, kind ErrorKind, err error) *FileError {
	return &FileError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		path: path,
	}
}

// Error returns the file error message
func (e *FileError) Error() string {
	if e.path != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.path, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.path)
	}
	return e.ApplicationError.Error()
}

// Path returns the file path associated with the error
func (e *FileError) Path() string {
	return e.path
}

// ConfigError represents errors related to configuration
type ConfigError struct {
	ApplicationError
	param string
}

// NewConfigError creates a new configuration error
func NewConfigError(msg string, param string, kind ErrorKind, err error) *ConfigError {
	return &ConfigError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		param: param,
	}
}

// Error returns the config error message
func (e *ConfigError) Error() string {
	if e.param != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.param, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.param)
	}
	return e.ApplicationError.Error()
}

// Param returns the configuration parameter associated with the error
func (e *ConfigError) Param() string {
	return e.param
}

// MetadataError represents errors raised by the metadata store
type MetadataError struct {
	ApplicationError
	filename string
}

// NewMetadataError creates a new metadata error
func NewMetadataError(msg string, filename string, kind ErrorKind, err error) *MetadataError {
	return &MetadataError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		filename: filename,
	}
}

// Error returns the metadata error message
func (e *MetadataError) Error() string {
	if e.filename != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.filename, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.filename)
	}
	return e.ApplicationError.Error()
}

// Filename returns the gcode filename associated with the error
func (e *MetadataError) Filename() string {
	return e.filename
}

// SlicerError represents errors raised while parsing slicer settings
type SlicerError struct {
	ApplicationError
	slicer string
}

// NewSlicerError creates a new slicer error
func NewSlicerError(msg string, slicer string, kind ErrorKind, err error) *SlicerError {
	return &SlicerError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		slicer: slicer,
	}
}

// Error returns the slicer error message
func (e *SlicerError) Error() string {
	if e.slicer != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.slicer, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.slicer)
	}
	return e.ApplicationError.Error()
}

// Slicer returns the slicer name associated with the error
func (e *SlicerError) Slicer() string {
	return e.slicer
}

// New creates a new error with a message
func New(msg string) error {
	return &ApplicationError{
		msg:  msg,
		kind: Unknown,
	}
}

// Newf creates a new error with a formatted message
func Newf(format string, args ...interface{}) error {
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		kind: Unknown,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  msg,
		err:  err,
		kind: Unknown,
	}
}

// Wrapf wraps an existing error with additional formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		err:  err,
		kind: Unknown,
	}
}

// IsFileNotFound checks if the error is a file not found error
func IsFileNotFound(err error) bool {
	var fileErr *FileError
	if errors.As(err, &fileErr) {
		return fileErr.Kind() == FileNotFound
	}
	return false
}

// IsInvalidConfig checks if the error is an invalid configuration error
func IsInvalidConfig(err error) bool {
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return configErr.Kind() == InvalidConfig
	}
	return false
}

// IsMetadataNotFound checks if the error is a missing-metadata error
func IsMetadataNotFound(err error) bool {
	var metaErr *MetadataError
	if errors.As(err, &metaErr) {
		return metaErr.Kind() == MetadataNotFound
	}
	return false
}

// IsNoOptions checks if the error indicates a file without a settings block
func IsNoOptions(err error) bool {
	var slicerErr *SlicerError
	if errors.As(err, &slicerErr) {
		return slicerErr.Kind() == NoOptionsFound
	}
	return false
}

// IsUnknownSlicer checks if the error indicates an unrecognized slicer
func IsUnknownSlicer(err error) bool {
	var slicerErr *SlicerError
	if errors.As(err, &slicerErr) {
		return slicerErr.Kind() == UnknownSlicer
	}
	return false
}
