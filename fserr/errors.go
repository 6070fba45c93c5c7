package fserr

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
)

// Code identifies an error category in machine-readable form.
type Code string

const (
	CodeInvalidPath      Code = "INVALID_PATH"
	CodePathTraversal    Code = "PATH_TRAVERSAL"
	CodeNotFound         Code = "NOT_FOUND"
	CodeConflict         Code = "CONFLICT"
	CodePermissionDenied Code = "PERMISSION_DENIED"
	CodeUnsupportedType  Code = "UNSUPPORTED_TYPE"
	CodeInvalidArgument  Code = "INVALID_ARGUMENT"
	CodeCache            Code = "CACHE_ERROR"
	CodeStorage          Code = "STORAGE_ERROR"
	CodeHandler          Code = "HANDLER_ERROR"
	CodeLock             Code = "LOCK_ERROR"
)

// Error is the common error type for all filesystem failures. It carries a
// human-readable message, the offending path when known, a machine-readable
// code, and the wrapped cause.
type Error struct {
	Code    Code
	Message string
	Path    string
	Err     error
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s (path: %s)", e.Message, e.Path)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error with the same code, so category sentinels work with
// errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// New creates an error with an explicit code.
func New(code Code, message, path string) *Error {
	return &Error{Code: code, Message: message, Path: path}
}

// NewInvalidPath reports a malformed path input.
func NewInvalidPath(message, path string) *Error {
	return &Error{Code: CodeInvalidPath, Message: message, Path: path}
}

// NewPathTraversal reports a resolved relative path escaping the sandbox root.
func NewPathTraversal(message, path string) *Error {
	return &Error{Code: CodePathTraversal, Message: message, Path: path}
}

// NewNotFound reports a missing file or directory where existence is required.
func NewNotFound(message, path string) *Error {
	return &Error{Code: CodeNotFound, Message: message, Path: path}
}

// NewConflict reports a violated overwrite or empty-directory precondition.
func NewConflict(message, path string) *Error {
	return &Error{Code: CodeConflict, Message: message, Path: path}
}

// NewPermissionDenied reports an operation refused by the OS.
func NewPermissionDenied(message, path string) *Error {
	return &Error{Code: CodePermissionDenied, Message: message, Path: path}
}

// NewUnsupportedType reports a file type or operation no handler supports.
func NewUnsupportedType(message, path string) *Error {
	return &Error{Code: CodeUnsupportedType, Message: message, Path: path}
}

// NewInvalidArgument reports missing or invalid operation arguments.
func NewInvalidArgument(message string) *Error {
	return &Error{Code: CodeInvalidArgument, Message: message}
}

// NewCache reports an internal cache failure.
func NewCache(message string, err error) *Error {
	return &Error{Code: CodeCache, Message: message, Err: err}
}

// NewStorage reports a storage backend failure.
func NewStorage(message, path string, err error) *Error {
	return &Error{Code: CodeStorage, Message: message, Path: path, Err: err}
}

// NewHandler reports a content handler failure.
func NewHandler(message, path string, err error) *Error {
	return &Error{Code: CodeHandler, Message: message, Path: path, Err: err}
}

// NewLock reports a lock acquisition failure.
func NewLock(message, path string) *Error {
	return &Error{Code: CodeLock, Message: message, Path: path}
}

// CodeOf returns the code carried by err, or "" when err is not an *Error.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

func is(err error, code Code) bool { return CodeOf(err) == code }

// IsInvalidPath reports whether err is an INVALID_PATH error.
func IsInvalidPath(err error) bool { return is(err, CodeInvalidPath) }

// IsPathTraversal reports whether err is a PATH_TRAVERSAL error.
func IsPathTraversal(err error) bool { return is(err, CodePathTraversal) }

// IsNotFound reports whether err is a NOT_FOUND error.
func IsNotFound(err error) bool { return is(err, CodeNotFound) }

// IsConflict reports whether err is a CONFLICT error.
func IsConflict(err error) bool { return is(err, CodeConflict) }

// IsPermissionDenied reports whether err is a PERMISSION_DENIED error.
func IsPermissionDenied(err error) bool { return is(err, CodePermissionDenied) }

// IsUnsupportedType reports whether err is an UNSUPPORTED_TYPE error.
func IsUnsupportedType(err error) bool { return is(err, CodeUnsupportedType) }

// IsInvalidArgument reports whether err is an INVALID_ARGUMENT error.
func IsInvalidArgument(err error) bool { return is(err, CodeInvalidArgument) }

// IsStorage reports whether err is a STORAGE_ERROR.
func IsStorage(err error) bool { return is(err, CodeStorage) }

// FromOS maps an operating system error onto the taxonomy. Unrecognized
// errors become STORAGE_ERROR with the cause preserved.
func FromOS(err error, path string) *Error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return &Error{Code: CodeNotFound, Message: fmt.Sprintf("Path not found: %s", path), Path: path, Err: err}
	case errors.Is(err, fs.ErrExist):
		return &Error{Code: CodeConflict, Message: fmt.Sprintf("Destination exists: %s", path), Path: path, Err: err}
	case errors.Is(err, fs.ErrPermission):
		return &Error{Code: CodePermissionDenied, Message: fmt.Sprintf("Permission denied: %s", path), Path: path, Err: err}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return &Error{Code: CodeStorage, Message: fmt.Sprintf("Operation canceled: %s", path), Path: path, Err: err}
	default:
		return &Error{Code: CodeStorage, Message: err.Error(), Path: path, Err: err}
	}
}

// Wrap coerces any error to an *Error, mapping OS errors through FromOS.
// Errors that already carry a code pass through unchanged.
func Wrap(err error, path string) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return FromOS(err, path)
}
