// Package kem defines the contract for pluggable Key Encapsulation
// Mechanism algorithms: a factory binds a key and optional parameters into
// an immutable Encapsulator or Decapsulator, which callers may then share
// across goroutines to produce or recover sliced, labeled shared secrets.
// ML-KEM, X25519 and hybrid factories are provided; additional algorithms
// implement the KEM interface.
package kem

import "io"

// A PublicKey is an opaque handle to a KEM public key. This package never
// parses key material; the handle is used only for identity and validation
// by the factory that recognizes it.
type PublicKey interface {
	// Algorithm returns the name of the algorithm this key belongs to
	// (e.g., "MLKEM768").
	Algorithm() string
}

// A PrivateKey is an opaque handle to a KEM private key.
type PrivateKey interface {
	// Algorithm returns the name of the algorithm this key belongs to.
	Algorithm() string

	// Public returns the public key corresponding to this private key.
	Public() PublicKey
}

// A ParameterSpec is an opaque, algorithm-specific configuration value
// passed to NewEncapsulator and NewDecapsulator. A nil ParameterSpec is a
// first-class valid value meaning "no parameters"; a non-nil value of a
// type the algorithm does not recognize is a parameter error. The contract
// layer never interprets the value itself.
type ParameterSpec interface{}

// A KEM binds keys and optional parameters into encapsulator and
// decapsulator capability objects. Implementations must be immutable and
// safe to call from multiple goroutines simultaneously.
//
// All key and parameter validation happens at construction time so that
// Encapsulate and Decapsulate can run at high frequency with minimal
// per-call checks. Construction performs no cryptographic computation and
// consumes no randomness.
type KEM interface {
	// Name returns the name of the KEM algorithm (e.g., "MLKEM768").
	Name() string

	// NewEncapsulator creates a sender-side encapsulator bound to the
	// receiver's public key and an optional parameter spec. If random is
	// nil, crypto/rand.Reader is used. A caller-supplied random source
	// must itself be safe for concurrent use if the encapsulator is
	// shared across goroutines.
	NewEncapsulator(publicKey PublicKey, spec ParameterSpec, random io.Reader) (Encapsulator, error)

	// NewDecapsulator creates a receiver-side decapsulator bound to the
	// receiver's private key and an optional parameter spec.
	NewDecapsulator(privateKey PrivateKey, spec ParameterSpec) (Decapsulator, error)
}

// An Encapsulator produces fresh (shared secret, encapsulation message)
// pairs for the single configuration it was constructed with. It holds no
// mutable state between calls and is safe for concurrent use.
type Encapsulator interface {
	// Encapsulate generates a new shared secret and encapsulation
	// message. The returned key carries the bytes [from, to) of the
	// secret, tagged with the given algorithm label. Every
	// implementation supports from=0, to=SecretSize(),
	// algorithm=AlgorithmGeneric; other combinations may fail with
	// ErrUnsupportedCombination.
	Encapsulate(from, to int, algorithm string) (*Encapsulated, error)

	// SecretSize returns the size in bytes of the full shared secret.
	// The value is constant for the lifetime of the encapsulator.
	SecretSize() int

	// EncapsulationSize returns the size in bytes of the encapsulation
	// message. The value is constant for the lifetime of the
	// encapsulator.
	EncapsulationSize() int
}

// A Decapsulator recovers shared secrets from encapsulation messages for
// the single configuration it was constructed with. Decapsulation is a
// pure function of the bound key, bound parameters, and the message: the
// same message always yields the same secret. It is safe for concurrent
// use.
type Decapsulator interface {
	// Decapsulate recovers the shared secret from an encapsulation
	// message and returns the bytes [from, to) of it as a key tagged
	// with the given algorithm label. The message must be exactly
	// EncapsulationSize() bytes; any other length, and any message that
	// does not correspond to a valid encapsulation under the bound key,
	// fails with ErrDecapsulation and no further detail.
	Decapsulate(encapsulation []byte, from, to int, algorithm string) (*SecretKey, error)

	// SecretSize returns the size in bytes of the full shared secret.
	SecretSize() int

	// EncapsulationSize returns the size in bytes of the encapsulation
	// message.
	EncapsulationSize() int
}
