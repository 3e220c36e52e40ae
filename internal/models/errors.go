package models

import (
	"errors"
	"fmt"
)

// ErrorType represents different categories of errors
type ErrorType int

const (
	ErrInvalidArgument ErrorType = iota
	ErrResource
	ErrParse
	ErrTimeout
	ErrFileOp
	ErrOutput
	ErrSigning
	ErrInvalidConfig
)

// String returns the string representation of ErrorType
func (e ErrorType) String() string {
	switch e {
	case ErrInvalidArgument:
		return "InvalidArgument"
	case ErrResource:
		return "Resource"
	case ErrParse:
		return "Parse"
	case ErrTimeout:
		return "Timeout"
	case ErrFileOp:
		return "FileOp"
	case ErrOutput:
		return "Output"
	case ErrSigning:
		return "Signing"
	case ErrInvalidConfig:
		return "InvalidConfig"
	default:
		return "Unknown"
	}
}

// StatsError represents an error raised while collecting package statistics
type StatsError struct {
	Type    ErrorType
	Package string
	Err     error
}

// Error implements the error interface
func (e *StatsError) Error() string {
	if e.Package != "" {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Package, e.Err)
	}
	return fmt.Sprintf("[%s] %v", e.Type, e.Err)
}

// Unwrap returns the wrapped error
func (e *StatsError) Unwrap() error {
	return e.Err
}

// IsType reports whether err wraps a StatsError of the given type
func IsType(err error, t ErrorType) bool {
	var se *StatsError
	return errors.As(err, &se) && se.Type == t
}
