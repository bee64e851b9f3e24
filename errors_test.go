package kem

import (
	"errors"
	"strings"
	"testing"
)

// TestErrorTaxonomy verifies that structured errors match their sentinels
// under errors.Is and nothing else.
func TestErrorTaxonomy(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"range", &RangeError{From: 0, To: 33, Size: 32}, ErrSecretRange},
		{"key", &KeyError{Algorithm: "MLKEM768", Reason: "public key is nil"}, ErrInvalidKey},
		{"parameter", &ParameterError{Algorithm: "X25519", Reason: "unrecognized parameter spec"}, ErrInvalidParameters},
	}
	sentinels := []error{
		ErrInvalidKey,
		ErrInvalidParameters,
		ErrSecretRange,
		ErrUnsupportedCombination,
		ErrDecapsulation,
		ErrNilArgument,
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for _, s := range sentinels {
				got := errors.Is(tc.err, s)
				want := s == tc.sentinel
				if got != want {
					t.Errorf("errors.Is(%v, %v): got %v, want %v", tc.err, s, got, want)
				}
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	err := &RangeError{From: 2, To: 1, Size: 32}
	if !strings.Contains(err.Error(), "[2, 1)") {
		t.Errorf("RangeError message missing range: %q", err.Error())
	}

	keyErr := &KeyError{Algorithm: "MLKEM512", Reason: "not an MLKEM512 public key"}
	if !strings.Contains(keyErr.Error(), "MLKEM512") {
		t.Errorf("KeyError message missing algorithm: %q", keyErr.Error())
	}
}

// TestDecapsulationErrorIsOpaque pins down that ErrDecapsulation carries no
// structured detail for callers to branch on.
func TestDecapsulationErrorIsOpaque(t *testing.T) {
	if errors.Unwrap(ErrDecapsulation) != nil {
		t.Error("ErrDecapsulation wraps another error")
	}
	if errors.Is(ErrDecapsulation, ErrSecretRange) || errors.Is(ErrDecapsulation, ErrInvalidKey) {
		t.Error("ErrDecapsulation matches an unrelated sentinel")
	}
}
