package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"usage", fmt.Errorf("args: %w", ErrInvalidInput), ExitUsage},
		{"query", fmt.Errorf("parse: %w", ErrInvalidQuery), ExitFailure},
		{"app error", New(ErrNoDocuments, 7, "boom"), 7},
		{"wrapped app error", fmt.Errorf("outer: %w", Newf(ErrDecode, 3, "file %s", "a.json")), 3},
		{"unknown", errors.New("other"), ExitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	err := Newf(ErrDecode, ExitFailure, "bad record in %s", "x.json")
	if !errors.Is(err, ErrDecode) {
		t.Fatal("AppError does not unwrap to its sentinel")
	}
	if got, want := err.Error(), "decode error: bad record in x.json"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
