package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"plain", New(ErrCodeMissingMeasurer, "no measurer for pass %s", "p1"), "MISSING_MEASURER: no measurer for pass p1"},
		{"with cause", Wrap(ErrCodeIrreducible, errors.New("back edge 4->2"), "vertical layout of cfg %d", 0), "IRREDUCIBLE: vertical layout of cfg 0: back edge 4->2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapUnwraps(t *testing.T) {
	cause := errors.New("dot: syntax error")
	err := Wrap(ErrCodeLayoutFailed, cause, "lay out cfg %d", 3)
	if errors.Unwrap(err) != cause || !errors.Is(err, cause) {
		t.Error("cause not reachable through the standard library")
	}
	if err.Message != "lay out cfg 3" {
		t.Errorf("Message = %q", err.Message)
	}
}

func TestIsAndGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
		is   bool
		get  Code
	}{
		{"matching", New(ErrCodeDoubleOffset, "cfg 1"), ErrCodeDoubleOffset, true, ErrCodeDoubleOffset},
		{"other code", New(ErrCodeInvalidGraph, "dup"), ErrCodeLayoutFailed, false, ErrCodeInvalidGraph},
		{"outermost wins", Wrap(ErrCodeLayoutFailed, New(ErrCodeInvalidInput, "inner"), "outer"), ErrCodeLayoutFailed, true, ErrCodeLayoutFailed},
		{"fmt wrapped", fmt.Errorf("pass: %w", New(ErrCodeNotFound, "cfg 7")), ErrCodeNotFound, true, ErrCodeNotFound},
		{"plain", errors.New("plain"), ErrCodeInvalidInput, false, ""},
		{"nil", nil, ErrCodeInvalidInput, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.is {
				t.Errorf("Is() = %v, want %v", got, tt.is)
			}
			if got := GetCode(tt.err); got != tt.get {
				t.Errorf("GetCode() = %q, want %q", got, tt.get)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeInvalidConfig, "engine %q", "spring")); got != `engine "spring"` {
		t.Errorf("coded: %q", got)
	}
	if got := UserMessage(errors.New("open prog.sdfg")); got != "open prog.sdfg" {
		t.Errorf("plain: %q", got)
	}
}
