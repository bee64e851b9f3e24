package kem

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is() checks.
var (
	// ErrInvalidKey is returned by NewEncapsulator and NewDecapsulator
	// when the key is nil or not accepted by the algorithm.
	ErrInvalidKey = errors.New("kem: invalid key")

	// ErrInvalidParameters is returned by NewEncapsulator and
	// NewDecapsulator when the parameter spec is invalid for the
	// algorithm, or required but absent.
	ErrInvalidParameters = errors.New("kem: invalid parameters")

	// ErrSecretRange is returned when a requested [from, to) range
	// violates 0 <= from <= to <= SecretSize(). This indicates a
	// programming bug in the caller, not a cryptographic failure.
	ErrSecretRange = errors.New("kem: secret range out of bounds")

	// ErrUnsupportedCombination is returned when a (from, to, algorithm)
	// combination beyond the mandatory full-range/Generic case is not
	// supported by the configuration.
	ErrUnsupportedCombination = errors.New("kem: unsupported combination of range and algorithm")

	// ErrDecapsulation is the single failure signal for decapsulation.
	// Wrong message length, corrupted bytes, and internal scheme errors
	// all collapse into this value; callers must not be able to tell
	// which check failed.
	ErrDecapsulation = errors.New("kem: decapsulation failed")

	// ErrNilArgument is returned when a required argument is absent,
	// such as a nil encapsulation message or an empty algorithm label.
	ErrNilArgument = errors.New("kem: nil argument")
)

// A RangeError reports a secret range that violates the slicing contract.
// It matches ErrSecretRange under errors.Is.
type RangeError struct {
	From int
	To   int
	Size int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("kem: secret range [%d, %d) outside secret of %d bytes", e.From, e.To, e.Size)
}

// Is implements errors.Is for sentinel error matching.
func (e *RangeError) Is(target error) bool {
	return target == ErrSecretRange
}

// A KeyError reports a key rejected at construction time. It matches
// ErrInvalidKey under errors.Is.
type KeyError struct {
	Algorithm string
	Reason    string
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("kem: %s: %s", e.Algorithm, e.Reason)
}

// Is implements errors.Is for sentinel error matching.
func (e *KeyError) Is(target error) bool {
	return target == ErrInvalidKey
}

// A ParameterError reports a parameter spec rejected at construction time.
// It matches ErrInvalidParameters under errors.Is.
type ParameterError struct {
	Algorithm string
	Reason    string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("kem: %s: %s", e.Algorithm, e.Reason)
}

// Is implements errors.Is for sentinel error matching.
func (e *ParameterError) Is(target error) bool {
	return target == ErrInvalidParameters
}
