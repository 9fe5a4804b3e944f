package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorClass_String(t *testing.T) {
	tests := []struct {
		class    ErrorClass
		expected string
	}{
		{ErrorTransient, "transient"},
		{ErrorInvalid, "invalid"},
		{ErrorFatal, "fatal"},
		{ErrorClass(999), "unknown"},
	}

	for _, test := range tests {
		t.Run(test.expected, func(t *testing.T) {
			result := test.class.String()
			if result != test.expected {
				t.Errorf("expected %s, got %s", test.expected, result)
			}
		})
	}
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"connection failure", &TransportError{URL: "http://x", Err: fmt.Errorf("connection refused")}, true},
		{"server error status", &TransportError{URL: "http://x", StatusCode: 503, Reason: "503 Service Unavailable"}, true},
		{"client error status", &TransportError{URL: "http://x", StatusCode: 400, Reason: "400 Bad Request"}, false},
		{"not found status", &TransportError{URL: "http://x", StatusCode: 404, Reason: "404 Not Found"}, false},
		{"context deadline exceeded", context.DeadlineExceeded, true},
		{"context canceled", context.Canceled, true},
		{"wrapped transport error", Wrap(&TransportError{URL: "http://x", StatusCode: 502}, "Client", "Execute", "posting query"), true},
		{"malformed step", &MalformedStepError{Op: "Has", Reason: "wildcard"}, false},
		{"plain error", fmt.Errorf("boom"), false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := IsTransient(test.err)
			if result != test.expected {
				t.Errorf("expected %v, got %v for error: %v", test.expected, result, test.err)
			}
		})
	}
}

func TestIsInvalid(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"malformed step", &MalformedStepError{Op: "OutPredicates", Reason: "wildcard"}, true},
		{"nested finalizer", &NestedFinalizerError{Op: "And"}, true},
		{"unknown morphism", &UnknownMorphismError{Name: "fof"}, true},
		{"duplicate morphism", &DuplicateMorphismError{Name: "fof"}, true},
		{"invalid limit", &InvalidLimitError{Limit: 0}, true},
		{"missing finalizer", &MissingFinalizerError{}, true},
		{"query error", &QueryError{Message: "bad"}, true},
		{"decode error", &ResponseDecodeError{Fragment: "{"}, true},
		{"wrapped malformed step", Wrap(&MalformedStepError{Op: "Has", Reason: "x"}, "Path", "Has", "validating"), true},
		{"transport error", &TransportError{URL: "http://x", StatusCode: 503}, false},
		{"plain error", fmt.Errorf("boom"), false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := IsInvalid(test.err)
			if result != test.expected {
				t.Errorf("expected %v, got %v for error: %v", test.expected, result, test.err)
			}
		})
	}
}

func TestIsFatal(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"invalid config", ErrInvalidConfig, true},
		{"missing config", ErrMissingConfig, true},
		{"wrapped invalid config", fmt.Errorf("%w: port out of range", ErrInvalidConfig), true},
		{"transport error", &TransportError{URL: "http://x"}, false},
		{"plain error", fmt.Errorf("boom"), false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := IsFatal(test.err)
			if result != test.expected {
				t.Errorf("expected %v, got %v for error: %v", test.expected, result, test.err)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorClass
	}{
		{"nil error", nil, ErrorTransient},
		{"fatal config", ErrInvalidConfig, ErrorFatal},
		{"invalid step", &MalformedStepError{Op: "Tag", Reason: "wildcard"}, ErrorInvalid},
		{"transport failure", &TransportError{URL: "http://x", StatusCode: 502}, ErrorTransient},
		{"unknown plain error", fmt.Errorf("boom"), ErrorTransient},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := Classify(test.err)
			if result != test.expected {
				t.Errorf("expected %v, got %v for error: %v", test.expected, result, test.err)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	base := fmt.Errorf("connection refused")
	wrapped := Wrap(base, "Client", "Execute", "posting query")
	if wrapped == nil {
		t.Fatal("expected wrapped error")
	}

	expected := "Client.Execute: posting query failed: connection refused"
	if wrapped.Error() != expected {
		t.Errorf("expected %q, got %q", expected, wrapped.Error())
	}
	if !errors.Is(wrapped, base) {
		t.Error("wrapped error should unwrap to the base error")
	}

	if Wrap(nil, "Client", "Execute", "posting query") != nil {
		t.Error("wrapping nil should return nil")
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains []string
	}{
		{"malformed step", &MalformedStepError{Op: "Has", Reason: "predicate must name exactly one"}, []string{"Has", "exactly one"}},
		{"nested finalizer", &NestedFinalizerError{Op: "Or"}, []string{"Or", "finalizer"}},
		{"unknown morphism", &UnknownMorphismError{Name: "fof"}, []string{`"fof"`}},
		{"duplicate morphism", &DuplicateMorphismError{Name: "fof"}, []string{`"fof"`, "already"}},
		{"invalid limit", &InvalidLimitError{Limit: -3}, []string{"-3", "positive"}},
		{"missing finalizer", &MissingFinalizerError{}, []string{"finalizer"}},
		{"transport with status", &TransportError{URL: "http://h:1/q", StatusCode: 500, Reason: "500 Internal Server Error"}, []string{"http://h:1/q", "500"}},
		{"transport with cause", &TransportError{URL: "http://h:1/q", Err: fmt.Errorf("refused")}, []string{"http://h:1/q", "refused"}},
		{"query error", &QueryError{Message: "bad predicate"}, []string{"bad predicate"}},
		{"decode error", &ResponseDecodeError{Fragment: "<html>", Err: fmt.Errorf("invalid character")}, []string{"<html>", "invalid character"}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			msg := test.err.Error()
			for _, want := range test.contains {
				if !strings.Contains(msg, want) {
					t.Errorf("message %q should contain %q", msg, want)
				}
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("read: connection reset")
	terr := &TransportError{URL: "http://x", Err: cause}
	if !errors.Is(terr, cause) {
		t.Error("TransportError should unwrap to its cause")
	}

	derr := &ResponseDecodeError{Fragment: "{", Err: cause}
	if !errors.Is(derr, cause) {
		t.Error("ResponseDecodeError should unwrap to its cause")
	}
}
