// Package errors provides application-level error types and utilities for
// the storage engines: not-found on unknown ticket ids, decode errors for
// corrupt persisted rows, and connectivity errors for unreachable backends.
package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrorTypeNotFound     ErrorType = "not_found"
	ErrorTypeDecode       ErrorType = "decode_error"
	ErrorTypeConnectivity ErrorType = "connectivity_error"
	ErrorTypeInternal     ErrorType = "internal_error"
)

// AppError represents an application error with additional context
type AppError struct {
	Type    ErrorType
	Message string
	Details string
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string, details ...string) *AppError {
	return newError(ErrorTypeNotFound, message, details)
}

// NewDecodeError creates an error for a persisted row whose encoding does
// not match any known variant. These are fatal for the row: engines must not
// coerce them.
func NewDecodeError(message string, details ...string) *AppError {
	return newError(ErrorTypeDecode, message, details)
}

// NewConnectivityError creates an error for an unreachable backing store
func NewConnectivityError(message string, details ...string) *AppError {
	return newError(ErrorTypeConnectivity, message, details)
}

// NewInternalError creates a new internal error
func NewInternalError(message string, details ...string) *AppError {
	return newError(ErrorTypeInternal, message, details)
}

func newError(t ErrorType, message string, details []string) *AppError {
	detail := ""
	if len(details) > 0 {
		detail = details[0]
	}
	return &AppError{Type: t, Message: message, Details: detail}
}

// IsNotFound checks whether err is a not-found AppError anywhere in its chain
func IsNotFound(err error) bool {
	return isType(err, ErrorTypeNotFound)
}

// IsDecode checks whether err is a decode AppError anywhere in its chain
func IsDecode(err error) bool {
	return isType(err, ErrorTypeDecode)
}

// IsConnectivity checks whether err is a connectivity AppError anywhere in its chain
func IsConnectivity(err error) bool {
	return isType(err, ErrorTypeConnectivity)
}

func isType(err error, t ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == t
	}
	return false
}
