// Package errors defines the structured error taxonomy used across llmx:
// InvalidInput, NotFound, IngestWarning, StoreIOError, StoreDecodeError,
// EmbedderError, and Internal.
package errors

import "fmt"

// LlmxError is the structured error type for llmx. It carries enough context
// for logging and for translation into a CLI exit code or RPC error reply.
type LlmxError struct {
	// Code is the unique error code (e.g., "ERR_201_INDEX_NOT_FOUND").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is one of the seven error kinds.
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Retryable indicates if the operation can be retried (EmbedderError only).
	Retryable bool
}

// Error implements the error interface.
func (e *LlmxError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *LlmxError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code, enabling
// errors.Is() to work with LlmxError.
func (e *LlmxError) Is(target error) bool {
	if t, ok := target.(*LlmxError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error. Returns the error for
// method chaining.
func (e *LlmxError) WithDetail(key, value string) *LlmxError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// New creates a new LlmxError with the given code and message. Category
// and severity are derived from the code's numeric block.
func New(code string, message string, cause error) *LlmxError {
	return &LlmxError{
		Code:      code,
		Message:   message,
		Category:  categoryFromCode(code),
		Severity:  severityFromCode(code),
		Cause:     cause,
		Retryable: isRetryableCode(code),
	}
}

// Wrap creates an LlmxError from an existing error, reusing its message.
func Wrap(code string, err error) *LlmxError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// InvalidInput builds an InvalidInput error: unknown explore mode, unknown
// manage action, unknown format, missing index_id for delete, invalid
// chunk-kind filter, missing query.
func InvalidInput(message string, cause error) *LlmxError {
	return New(ErrCodeInvalidArgument, message, cause)
}

// NotFound builds a NotFound error: unknown index id, chunk id/ref.
func NotFound(message string, cause error) *LlmxError {
	return New(ErrCodeIndexNotFound, message, cause)
}

// StoreIOError builds a StoreIOError: filesystem read/write failure,
// including failure to create storage dir, rename a temp file, or delete.
func StoreIOError(message string, cause error) *LlmxError {
	return New(ErrCodeStoreWriteFailed, message, cause)
}

// StoreDecodeError builds a StoreDecodeError: a corrupted {id}.json whose
// decode fails.
func StoreDecodeError(message string, cause error) *LlmxError {
	return New(ErrCodeStoreDecodeFailed, message, cause)
}

// EmbedderError builds an EmbedderError, delegated from the embedder
// adapter. Always retryable: the core falls back to BM25-only search.
func EmbedderError(message string, cause error) *LlmxError {
	return New(ErrCodeEmbedderUnavailable, message, cause)
}

// Internal builds an Internal error, reserved for invariant breakage.
// Never swallowed.
func Internal(message string, cause error) *LlmxError {
	return New(ErrCodeInternal, message, cause)
}

// IsRetryable reports whether err is an LlmxError with Retryable set.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if le, ok := err.(*LlmxError); ok {
		return le.Retryable
	}
	return false
}

// GetCode extracts the error code from an LlmxError, or "" if not one.
func GetCode(err error) string {
	if le, ok := err.(*LlmxError); ok {
		return le.Code
	}
	return ""
}

// GetCategory extracts the category from an LlmxError, or "" if not one.
func GetCategory(err error) Category {
	if le, ok := err.(*LlmxError); ok {
		return le.Category
	}
	return ""
}
