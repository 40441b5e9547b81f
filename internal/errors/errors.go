package errors

import (
	stderrors "errors"
	"fmt"

	"digihealth/domain/core"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context. The code of a wrapped AppError
// is kept; otherwise it is derived from the domain error underneath.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   err,
		}
	}
	return &AppError{
		Code:    codeFor(err),
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// GetCode returns the error code if it's an AppError, otherwise returns "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Predefined error codes
const (
	CodeConfigInvalid      = "CONFIG_INVALID"
	CodeDataSourceNotFound = "DATA_SOURCE_NOT_FOUND"
	CodeInvalidColumn      = "INVALID_COLUMN"
	CodeOutputError        = "OUTPUT_ERROR"
	CodeInternalError      = "INTERNAL_ERROR"
)

func codeFor(err error) string {
	switch {
	case stderrors.Is(err, core.ErrDataSourceNotFound):
		return CodeDataSourceNotFound
	case stderrors.Is(err, core.ErrInvalidColumn), stderrors.Is(err, core.ErrEmptyDataset):
		return CodeInvalidColumn
	}
	return CodeInternalError
}

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch GetCode(err) {
	case CodeDataSourceNotFound:
		return 2
	case CodeInvalidColumn:
		return 3
	case CodeConfigInvalid:
		return 4
	}
	return 1
}

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func OutputError(path string, cause error) *AppError {
	return &AppError{
		Code:    CodeOutputError,
		Message: fmt.Sprintf("failed to write %s", path),
		Cause:   cause,
	}
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}
