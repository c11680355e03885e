package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeInference represents hosted inference API errors
	ErrorTypeInference ErrorType = "inference"
	// ErrorTypeCredential represents API credential errors
	ErrorTypeCredential ErrorType = "credential"
	// ErrorTypeSession represents chat session errors
	ErrorTypeSession ErrorType = "session"
	// ErrorTypeGraph represents graph database errors
	ErrorTypeGraph ErrorType = "graph"
	// ErrorTypeLocal represents local runtime errors
	ErrorTypeLocal ErrorType = "local"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Credential Errors

// ErrCredentialMissing is returned when a chat action needs a credential and none is set
var ErrCredentialMissing = NewBaseError(ErrorTypeCredential, "no valid API token for this session", nil)

// ErrCredentialInvalid is returned when a token fails the format check
type ErrCredentialInvalid struct {
	*BaseError
	Length int
}

func NewCredentialInvalid(length int) *ErrCredentialInvalid {
	return &ErrCredentialInvalid{
		BaseError: NewBaseError(ErrorTypeCredential, fmt.Sprintf("token rejected (length %d)", length), nil),
		Length:    length,
	}
}

// Inference Errors

// ErrInferenceFailed is returned when the hosted inference call cannot be started
type ErrInferenceFailed struct {
	*BaseError
	Model string
}

func NewInferenceFailed(model string, err error) *ErrInferenceFailed {
	return &ErrInferenceFailed{
		BaseError: NewBaseError(ErrorTypeInference, fmt.Sprintf("completion request failed for %s", model), err),
		Model:     model,
	}
}

// ErrInferenceStream is returned when a fragment stream breaks after it started
type ErrInferenceStream struct {
	*BaseError
	Fragments int
}

func NewInferenceStream(fragments int, err error) *ErrInferenceStream {
	return &ErrInferenceStream{
		BaseError: NewBaseError(ErrorTypeInference, fmt.Sprintf("stream interrupted after %d fragments", fragments), err),
		Fragments: fragments,
	}
}

// Session Errors

// ErrEmptyPrompt is returned when a chat submission carries no text
var ErrEmptyPrompt = NewBaseError(ErrorTypeSession, "prompt is empty", nil)

// ErrUnknownModel is returned when a model selection is not in the catalog
type ErrUnknownModel struct {
	*BaseError
	Name string
}

func NewUnknownModel(name string) *ErrUnknownModel {
	return &ErrUnknownModel{
		BaseError: NewBaseError(ErrorTypeSession, fmt.Sprintf("unknown model: %s", name), nil),
		Name:      name,
	}
}

// Graph Errors

// ErrGraphExportDisabled is returned when no graph database is configured
var ErrGraphExportDisabled = NewBaseError(ErrorTypeGraph, "HIFIS export is not configured", nil)

// ErrGraphQueryFailed is returned when a graph query fails
type ErrGraphQueryFailed struct {
	*BaseError
	Query string
}

func NewGraphQueryFailed(query string, err error) *ErrGraphQueryFailed {
	return &ErrGraphQueryFailed{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("query failed: %s", query), err),
		Query:     query,
	}
}

// Local Runtime Errors

// ErrLocalRuntimeFailed is returned when the local inference runtime rejects a request
type ErrLocalRuntimeFailed struct {
	*BaseError
	Status int
}

func NewLocalRuntimeFailed(status int, message string, err error) *ErrLocalRuntimeFailed {
	return &ErrLocalRuntimeFailed{
		BaseError: NewBaseError(ErrorTypeLocal, message, err),
		Status:    status,
	}
}

// Config Errors

// ErrConfigMissingRequired is returned when a required config value is missing
type ErrConfigMissingRequired struct {
	*BaseError
	Field string
}

func NewConfigMissingRequired(field string) *ErrConfigMissingRequired {
	return &ErrConfigMissingRequired{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("missing required config: %s", field), nil),
		Field:     field,
	}
}

// ErrConfigValidationFailed is returned when a config value is out of range
type ErrConfigValidationFailed struct {
	*BaseError
	Field  string
	Reason string
}

func NewConfigValidationFailed(field, reason string) *ErrConfigValidationFailed {
	return &ErrConfigValidationFailed{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("config validation failed: %s - %s", field, reason), nil),
		Field:     field,
		Reason:    reason,
	}
}

// Helper functions

// IsErrorType reports whether any error in err's chain is a BaseError of errType
func IsErrorType(err error, errType ErrorType) bool {
	for err != nil {
		if baseErr, ok := err.(*BaseError); ok && baseErr.Type == errType {
			return true
		}
		if typed, ok := err.(interface{ base() *BaseError }); ok && typed.base().Type == errType {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

func (e *ErrCredentialInvalid) base() *BaseError      { return e.BaseError }
func (e *ErrInferenceFailed) base() *BaseError        { return e.BaseError }
func (e *ErrInferenceStream) base() *BaseError        { return e.BaseError }
func (e *ErrUnknownModel) base() *BaseError           { return e.BaseError }
func (e *ErrGraphQueryFailed) base() *BaseError       { return e.BaseError }
func (e *ErrLocalRuntimeFailed) base() *BaseError     { return e.BaseError }
func (e *ErrConfigMissingRequired) base() *BaseError  { return e.BaseError }
func (e *ErrConfigValidationFailed) base() *BaseError { return e.BaseError }
