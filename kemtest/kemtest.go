// Package kemtest provides a conformance harness for KEM implementations.
// It drives any kem.KEM factory through the contract's testable
// properties: size invariance, round-trip correctness, freshness, boundary
// errors, opaque decapsulation failure, and safety under concurrent use.
package kemtest

import (
	"bytes"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/go-i2p/kem"
)

// RunScheme runs the full conformance suite against a factory and one
// keypair. The keypair must belong together; spec is bound to both sides
// and may be nil.
func RunScheme(t *testing.T, scheme kem.KEM, publicKey kem.PublicKey, privateKey kem.PrivateKey, spec kem.ParameterSpec) {
	t.Helper()

	enc, err := scheme.NewEncapsulator(publicKey, spec, nil)
	if err != nil {
		t.Fatalf("%s: NewEncapsulator failed: %v", scheme.Name(), err)
	}
	dec, err := scheme.NewDecapsulator(privateKey, spec)
	if err != nil {
		t.Fatalf("%s: NewDecapsulator failed: %v", scheme.Name(), err)
	}

	t.Run("Sizes", func(t *testing.T) { testSizes(t, enc, dec) })
	t.Run("RoundTrip", func(t *testing.T) { testRoundTrip(t, enc, dec) })
	t.Run("Freshness", func(t *testing.T) { testFreshness(t, enc) })
	t.Run("Boundary", func(t *testing.T) { testBoundary(t, enc, dec) })
	t.Run("Tamper", func(t *testing.T) { testTamper(t, enc, dec) })
	t.Run("NilArguments", func(t *testing.T) { testNilArguments(t, enc, dec) })
	t.Run("Concurrency", func(t *testing.T) { testConcurrency(t, enc, dec) })
}

// testSizes verifies that both size accessors are constant across calls
// and agree between the two sides.
func testSizes(t *testing.T, enc kem.Encapsulator, dec kem.Decapsulator) {
	if enc.SecretSize() <= 0 {
		t.Fatalf("SecretSize: got %d, want > 0", enc.SecretSize())
	}
	if enc.EncapsulationSize() <= 0 {
		t.Fatalf("EncapsulationSize: got %d, want > 0", enc.EncapsulationSize())
	}
	if enc.SecretSize() != dec.SecretSize() {
		t.Errorf("SecretSize mismatch: encapsulator %d, decapsulator %d", enc.SecretSize(), dec.SecretSize())
	}
	if enc.EncapsulationSize() != dec.EncapsulationSize() {
		t.Errorf("EncapsulationSize mismatch: encapsulator %d, decapsulator %d", enc.EncapsulationSize(), dec.EncapsulationSize())
	}
	for i := 0; i < 3; i++ {
		if enc.SecretSize() != dec.SecretSize() || enc.EncapsulationSize() != dec.EncapsulationSize() {
			t.Fatalf("sizes changed between calls")
		}
	}
}

// testRoundTrip verifies that the receiver recovers a byte-equal secret
// from the sender's message, and that repeated decapsulation of the same
// message is deterministic.
func testRoundTrip(t *testing.T, enc kem.Encapsulator, dec kem.Decapsulator) {
	for trial := 0; trial < 5; trial++ {
		res, err := enc.Encapsulate(0, enc.SecretSize(), kem.AlgorithmGeneric)
		if err != nil {
			t.Fatalf("Encapsulate failed: %v", err)
		}
		if res.Key().Len() != enc.SecretSize() {
			t.Fatalf("secret length: got %d, want %d", res.Key().Len(), enc.SecretSize())
		}
		if len(res.Encapsulation()) != enc.EncapsulationSize() {
			t.Fatalf("encapsulation length: got %d, want %d", len(res.Encapsulation()), enc.EncapsulationSize())
		}
		if res.Key().Algorithm() != kem.AlgorithmGeneric {
			t.Errorf("key algorithm: got %q, want %q", res.Key().Algorithm(), kem.AlgorithmGeneric)
		}

		recovered, err := dec.Decapsulate(res.Encapsulation(), 0, dec.SecretSize(), kem.AlgorithmGeneric)
		if err != nil {
			t.Fatalf("Decapsulate failed: %v", err)
		}
		if !bytes.Equal(res.Key().Bytes(), recovered.Bytes()) {
			t.Fatal("shared secrets do not match")
		}

		again, err := dec.Decapsulate(res.Encapsulation(), 0, dec.SecretSize(), kem.AlgorithmGeneric)
		if err != nil {
			t.Fatalf("repeated Decapsulate failed: %v", err)
		}
		if !bytes.Equal(recovered.Bytes(), again.Bytes()) {
			t.Fatal("decapsulation is not deterministic")
		}
	}
}

// testFreshness verifies that independent encapsulations are uncorrelated.
func testFreshness(t *testing.T, enc kem.Encapsulator) {
	a, err := enc.Encapsulate(0, enc.SecretSize(), kem.AlgorithmGeneric)
	if err != nil {
		t.Fatalf("Encapsulate failed: %v", err)
	}
	b, err := enc.Encapsulate(0, enc.SecretSize(), kem.AlgorithmGeneric)
	if err != nil {
		t.Fatalf("Encapsulate failed: %v", err)
	}
	if bytes.Equal(a.Key().Bytes(), b.Key().Bytes()) {
		t.Error("two encapsulations produced the same secret")
	}
	if bytes.Equal(a.Encapsulation(), b.Encapsulation()) {
		t.Error("two encapsulations produced the same message")
	}
}

// testBoundary verifies that invalid ranges fail with the boundary error
// on both sides, never with a decapsulation failure.
func testBoundary(t *testing.T, enc kem.Encapsulator, dec kem.Decapsulator) {
	size := enc.SecretSize()
	res, err := enc.Encapsulate(0, size, kem.AlgorithmGeneric)
	if err != nil {
		t.Fatalf("Encapsulate failed: %v", err)
	}

	ranges := []struct{ from, to int }{
		{-1, size},
		{2, 1},
		{0, size + 1},
		{size + 1, size + 2},
	}
	for _, r := range ranges {
		if _, err := enc.Encapsulate(r.from, r.to, kem.AlgorithmGeneric); !errors.Is(err, kem.ErrSecretRange) {
			t.Errorf("Encapsulate(%d, %d): got %v, want ErrSecretRange", r.from, r.to, err)
		}
		_, err := dec.Decapsulate(res.Encapsulation(), r.from, r.to, kem.AlgorithmGeneric)
		if !errors.Is(err, kem.ErrSecretRange) {
			t.Errorf("Decapsulate(%d, %d): got %v, want ErrSecretRange", r.from, r.to, err)
		}
		if errors.Is(err, kem.ErrDecapsulation) {
			t.Errorf("Decapsulate(%d, %d): boundary error reported as decapsulation failure", r.from, r.to)
		}
	}
}

// testTamper verifies that wrong-length and corrupted messages surface
// only the opaque decapsulation failure.
func testTamper(t *testing.T, enc kem.Encapsulator, dec kem.Decapsulator) {
	res, err := enc.Encapsulate(0, enc.SecretSize(), kem.AlgorithmGeneric)
	if err != nil {
		t.Fatalf("Encapsulate failed: %v", err)
	}
	msg := res.Encapsulation()

	// Truncated, extended, and empty messages.
	for _, bad := range [][]byte{msg[:len(msg)-1], append(append([]byte(nil), msg...), 0), {}} {
		if _, err := dec.Decapsulate(bad, 0, dec.SecretSize(), kem.AlgorithmGeneric); !errors.Is(err, kem.ErrDecapsulation) {
			t.Errorf("Decapsulate(%d bytes): got %v, want ErrDecapsulation", len(bad), err)
		}
	}

	// A flipped bit must either fail with the opaque error or succeed
	// with a different secret (implicit rejection).
	flipped := append([]byte(nil), msg...)
	flipped[0] ^= 0x01
	recovered, err := dec.Decapsulate(flipped, 0, dec.SecretSize(), kem.AlgorithmGeneric)
	if err != nil {
		if !errors.Is(err, kem.ErrDecapsulation) {
			t.Errorf("Decapsulate(flipped): got %v, want ErrDecapsulation", err)
		}
	} else if bytes.Equal(recovered.Bytes(), res.Key().Bytes()) {
		t.Error("Decapsulate(flipped) recovered the original secret")
	}
}

// testNilArguments verifies the null-argument taxonomy.
func testNilArguments(t *testing.T, enc kem.Encapsulator, dec kem.Decapsulator) {
	if _, err := enc.Encapsulate(0, enc.SecretSize(), ""); !errors.Is(err, kem.ErrNilArgument) {
		t.Errorf("Encapsulate with empty algorithm: got %v, want ErrNilArgument", err)
	}
	if _, err := dec.Decapsulate(nil, 0, dec.SecretSize(), kem.AlgorithmGeneric); !errors.Is(err, kem.ErrNilArgument) {
		t.Errorf("Decapsulate with nil message: got %v, want ErrNilArgument", err)
	}
	res, err := enc.Encapsulate(0, enc.SecretSize(), kem.AlgorithmGeneric)
	if err != nil {
		t.Fatalf("Encapsulate failed: %v", err)
	}
	if _, err := dec.Decapsulate(res.Encapsulation(), 0, dec.SecretSize(), ""); !errors.Is(err, kem.ErrNilArgument) {
		t.Errorf("Decapsulate with empty algorithm: got %v, want ErrNilArgument", err)
	}
}

// testConcurrency fans out concurrent callers over one shared
// encapsulator and one shared decapsulator and checks that every call
// succeeds, round-trips, and produces a pairwise-distinct secret.
func testConcurrency(t *testing.T, enc kem.Encapsulator, dec kem.Decapsulator) {
	const numGoroutines = 16
	const callsPerGoroutine = 4

	var successfulOperations int64
	var mu sync.Mutex
	seen := make(map[string]bool)

	var wg sync.WaitGroup
	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < callsPerGoroutine; j++ {
				res, err := enc.Encapsulate(0, enc.SecretSize(), kem.AlgorithmGeneric)
				if err != nil {
					t.Errorf("concurrent Encapsulate failed: %v", err)
					return
				}
				recovered, err := dec.Decapsulate(res.Encapsulation(), 0, dec.SecretSize(), kem.AlgorithmGeneric)
				if err != nil {
					t.Errorf("concurrent Decapsulate failed: %v", err)
					return
				}
				if !bytes.Equal(res.Key().Bytes(), recovered.Bytes()) {
					t.Error("concurrent round-trip mismatch")
					return
				}

				mu.Lock()
				key := string(res.Key().Bytes())
				if seen[key] {
					mu.Unlock()
					t.Error("duplicate secret across concurrent calls")
					return
				}
				seen[key] = true
				mu.Unlock()

				atomic.AddInt64(&successfulOperations, 1)
			}
		}()
	}
	wg.Wait()

	want := int64(numGoroutines * callsPerGoroutine)
	if got := atomic.LoadInt64(&successfulOperations); got != want {
		t.Errorf("successful operations: got %d, want %d", got, want)
	}
}
