// Package errors provides the error taxonomy for the graphpath client.
// It includes error classification, the typed failure values produced by
// expression construction, compilation, the morphism registry, the
// transport shim and the response decoder, and helper functions for
// consistent error wrapping across the client.
package errors

import (
	"context"
	"errors"
	"fmt"
)

// ErrorClass represents the classification of errors for handling purposes.
type ErrorClass int

const (
	// ErrorTransient represents temporary errors that the caller may retry.
	// The client itself never retries.
	ErrorTransient ErrorClass = iota
	// ErrorInvalid represents errors due to invalid input: malformed steps,
	// bad limits, unknown morphisms, malformed responses.
	ErrorInvalid
	// ErrorFatal represents unrecoverable errors such as invalid client
	// configuration.
	ErrorFatal
)

// String returns the string representation of ErrorClass.
func (ec ErrorClass) String() string {
	switch ec {
	case ErrorTransient:
		return "transient"
	case ErrorInvalid:
		return "invalid"
	case ErrorFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Standard error variables for common conditions.
var (
	// ErrInvalidConfig indicates client configuration that fails validation.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrMissingConfig indicates required configuration that was not provided.
	ErrMissingConfig = errors.New("missing required configuration")
)

// MalformedStepError reports an invalid operand shape for a traversal,
// filter, tagging or combinator step. It is recorded at the call that
// built the step and surfaces on the next terminal operation.
type MalformedStepError struct {
	// Op is the step operation that was being built, e.g. "OutPredicates".
	Op string
	// Reason describes the shape violation.
	Reason string
}

func (e *MalformedStepError) Error() string {
	return fmt.Sprintf("malformed %s step: %s", e.Op, e.Reason)
}

// NestedFinalizerError reports a sub-expression passed to a combinator
// step that carries its own finalizer. Sub-expressions must terminate
// implicitly.
type NestedFinalizerError struct {
	// Op is the combinator step holding the offending sub-expression.
	Op string
}

func (e *NestedFinalizerError) Error() string {
	return fmt.Sprintf("%s sub-expression carries its own finalizer", e.Op)
}

// UnknownMorphismError reports a Follow or FollowReverse step referencing
// a morphism name that is not declared in the registry at compile time.
type UnknownMorphismError struct {
	// Name is the unresolved morphism name.
	Name string
}

func (e *UnknownMorphismError) Error() string {
	return fmt.Sprintf("unknown morphism %q", e.Name)
}

// DuplicateMorphismError reports an attempt to declare a morphism under a
// name that is already registered. The original declaration is unaffected.
type DuplicateMorphismError struct {
	// Name is the morphism name that was already registered.
	Name string
}

func (e *DuplicateMorphismError) Error() string {
	return fmt.Sprintf("morphism %q already declared", e.Name)
}

// InvalidLimitError reports a GetLimit finalizer with a non-positive limit.
type InvalidLimitError struct {
	// Limit is the rejected value.
	Limit int
}

func (e *InvalidLimitError) Error() string {
	return fmt.Sprintf("invalid GetLimit value %d: limit must be positive", e.Limit)
}

// MissingFinalizerError reports a compilation attempt on an expression
// with no finalizer attached. Morphisms are never finalizable and always
// fail compilation with this error.
type MissingFinalizerError struct{}

func (e *MissingFinalizerError) Error() string {
	return "expression has no finalizer attached"
}

// TransportError reports a failed query exchange with the graph service:
// a connection failure, a timeout, or a non-success HTTP status. The
// client performs no retries; StatusCode and Reason carry enough detail
// for the caller to decide whether to retry.
type TransportError struct {
	// URL is the request target.
	URL string
	// StatusCode is the HTTP status code, or 0 when no response was
	// received.
	StatusCode int
	// Reason describes the failure, e.g. the HTTP status line.
	Reason string
	// Err is the underlying transport error, if any.
	Err error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("query request to %s failed: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("query request to %s failed: %d %s", e.URL, e.StatusCode, e.Reason)
}

// Unwrap returns the underlying transport error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// QueryError reports an error the graph service itself returned in an
// otherwise well-formed response body.
type QueryError struct {
	// Message is the service-reported error text.
	Message string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("graph service rejected query: %s", e.Message)
}

// ResponseDecodeError reports a malformed response body. Fragment carries
// the offending payload excerpt for diagnostics.
type ResponseDecodeError struct {
	// Fragment is an excerpt of the payload that failed to decode.
	Fragment string
	// Err is the underlying decoding error, if any.
	Err error
}

func (e *ResponseDecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed query response %q: %v", e.Fragment, e.Err)
	}
	return fmt.Sprintf("malformed query response %q", e.Fragment)
}

// Unwrap returns the underlying decoding error.
func (e *ResponseDecodeError) Unwrap() error {
	return e.Err
}

// IsTransient checks if an error is transient and may be retried by the
// caller.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var te *TransportError
	if errors.As(err, &te) {
		// Client-side request errors (4xx) will not succeed on retry.
		return te.StatusCode < 400 || te.StatusCode >= 500
	}

	return errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled)
}

// IsFatal checks if an error is fatal and should stop processing.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrInvalidConfig) || errors.Is(err, ErrMissingConfig)
}

// IsInvalid checks if an error is due to invalid input: a malformed step,
// a bad limit, a missing or nested finalizer, a registry violation, a
// service-rejected query, or an undecodable response.
func IsInvalid(err error) bool {
	if err == nil {
		return false
	}

	var (
		malformed *MalformedStepError
		nested    *NestedFinalizerError
		unknown   *UnknownMorphismError
		duplicate *DuplicateMorphismError
		limit     *InvalidLimitError
		missing   *MissingFinalizerError
		query     *QueryError
		decode    *ResponseDecodeError
	)
	return errors.As(err, &malformed) ||
		errors.As(err, &nested) ||
		errors.As(err, &unknown) ||
		errors.As(err, &duplicate) ||
		errors.As(err, &limit) ||
		errors.As(err, &missing) ||
		errors.As(err, &query) ||
		errors.As(err, &decode)
}

// Classify returns the error class for an error.
func Classify(err error) ErrorClass {
	if err == nil {
		return ErrorTransient
	}
	if IsFatal(err) {
		return ErrorFatal
	}
	if IsInvalid(err) {
		return ErrorInvalid
	}
	return ErrorTransient
}

// Wrap creates a standardized error with context following the pattern:
// "component.method: action failed: %w"
func Wrap(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s.%s: %s failed: %w", component, method, action, err)
}
