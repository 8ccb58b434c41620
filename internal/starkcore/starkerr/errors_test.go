package starkerr

import (
	"errors"
	"fmt"
	"testing"
)

func TestNewHasNoCause(t *testing.T) {
	e := New(WrongParameter, "bad input")
	if e.Unwrap() != nil {
		t.Error("New should not set a cause")
	}
	if e.Code != WrongParameter {
		t.Errorf("Code = %v, want WrongParameter", e.Code)
	}
	if e.Error() == "" {
		t.Error("Error() should not be empty")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("underlying failure")
	e := Wrap(InterpolationFailure, "could not interpolate", cause)
	if !errors.Is(e, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
	if errors.Unwrap(e) != cause {
		t.Error("Unwrap should return the original cause")
	}
}

func TestIsMatchesByCode(t *testing.T) {
	a := New(CompositionDegreeMismatch, "first")
	b := New(CompositionDegreeMismatch, "second")
	c := New(WrongParameter, "third")

	if !errors.Is(a, b) {
		t.Error("two ProvingErrors with the same code should match via errors.Is")
	}
	if errors.Is(a, c) {
		t.Error("ProvingErrors with different codes should not match")
	}
}

func TestCodeString(t *testing.T) {
	cases := map[Code]string{
		WrongParameter:            "WrongParameter",
		InterpolationFailure:      "InterpolationFailure",
		CompositionDegreeMismatch: "CompositionDegreeMismatch",
		Unknown:                   "Unknown",
	}
	for code, want := range cases {
		if got := code.String(); got != want {
			t.Errorf("Code(%d).String() = %q, want %q", code, got, want)
		}
	}
}
