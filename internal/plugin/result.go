package plugin

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
)

// Code classifies a failed Result
type Code string

const (
	CodeLoad             Code = "load"
	CodeCapacity         Code = "capacity"
	CodeNotFound         Code = "not_found"
	CodeNotRunning       Code = "not_running"
	CodeIO               Code = "io"
	CodeTimeout          Code = "timeout"
	CodeFunctionNotFound Code = "function_not_found"
	CodeInvalidArgument  Code = "invalid_argument"
	CodeInternal         Code = "internal"
)

// Result is the uniform envelope returned across the plugin boundary
type Result struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Code    Code        `json:"code,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// OK builds a successful result
func OK(message string, data interface{}) Result {
	return Result{Success: true, Message: message, Data: data}
}

// Fail converts an error into a failed result
func Fail(err error) Result {
	if err == nil {
		return Result{Success: true}
	}
	return Result{Success: false, Message: err.Error(), Code: CodeOf(err)}
}

// Failf builds a failed result with an explicit code
func Failf(code Code, format string, args ...interface{}) Result {
	return Result{Success: false, Code: code, Message: fmt.Sprintf(format, args...)}
}

// CodeOf maps an error onto the failure taxonomy
func CodeOf(err error) Code {
	switch {
	case errors.Is(err, ErrCapacity):
		return CodeCapacity
	case errors.Is(err, ErrPluginNotFound):
		return CodeNotFound
	case errors.Is(err, ErrNotRunning):
		return CodeNotRunning
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return CodeTimeout
	case errors.Is(err, ErrInvalidManifest), errors.Is(err, ErrMissingName),
		errors.Is(err, ErrEntryNotFound), errors.Is(err, ErrPreloadNotFound):
		return CodeLoad
	case errors.Is(err, ErrFunctionNotFound):
		return CodeFunctionNotFound
	case errors.Is(err, ErrInvalidArgument):
		return CodeInvalidArgument
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrPermission), errors.Is(err, fs.ErrExist):
		return CodeIO
	default:
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			return CodeIO
		}
		return CodeInternal
	}
}
