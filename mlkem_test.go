package kem_test

import (
	"bytes"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/go-i2p/kem"
	"github.com/go-i2p/kem/kemtest"
)

func TestMLKEMConformance(t *testing.T) {
	schemes := []kem.MLKEM{kem.MLKEM512, kem.MLKEM768, kem.MLKEM1024}
	for _, scheme := range schemes {
		t.Run(scheme.Name(), func(t *testing.T) {
			pub, priv, err := scheme.GenerateKeyPair(nil)
			if err != nil {
				t.Fatalf("GenerateKeyPair failed: %v", err)
			}
			kemtest.RunScheme(t, scheme, pub, priv, nil)
		})
	}
}

// TestMLKEM768Implementation verifies the basic functionality of MLKEM-768.
func TestMLKEM768Implementation(t *testing.T) {
	scheme := kem.MLKEM768

	pub, priv, err := scheme.GenerateKeyPair(nil)
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}
	if pub.Algorithm() != "MLKEM768" {
		t.Errorf("public key algorithm: got %q, want %q", pub.Algorithm(), "MLKEM768")
	}

	enc, err := scheme.NewEncapsulator(pub, nil, nil)
	if err != nil {
		t.Fatalf("NewEncapsulator failed: %v", err)
	}
	if enc.SecretSize() != kem.MLKEM768SharedSecretSize {
		t.Errorf("SecretSize: got %d, want %d", enc.SecretSize(), kem.MLKEM768SharedSecretSize)
	}
	if enc.EncapsulationSize() != kem.MLKEM768CiphertextSize {
		t.Errorf("EncapsulationSize: got %d, want %d", enc.EncapsulationSize(), kem.MLKEM768CiphertextSize)
	}

	res, err := enc.Encapsulate(0, enc.SecretSize(), kem.AlgorithmGeneric)
	if err != nil {
		t.Fatalf("Encapsulate failed: %v", err)
	}
	if len(res.Encapsulation()) != kem.MLKEM768CiphertextSize {
		t.Errorf("Ciphertext size: got %d, want %d", len(res.Encapsulation()), kem.MLKEM768CiphertextSize)
	}
	if res.Key().Len() != kem.MLKEM768SharedSecretSize {
		t.Errorf("Shared secret size: got %d, want %d", res.Key().Len(), kem.MLKEM768SharedSecretSize)
	}

	dec, err := scheme.NewDecapsulator(priv, nil)
	if err != nil {
		t.Fatalf("NewDecapsulator failed: %v", err)
	}
	recovered, err := dec.Decapsulate(res.Encapsulation(), 0, dec.SecretSize(), kem.AlgorithmGeneric)
	if err != nil {
		t.Fatalf("Decapsulate failed: %v", err)
	}
	if !bytes.Equal(res.Key().Bytes(), recovered.Bytes()) {
		t.Error("Shared secrets do not match")
	}

	// Cleanup
	res.Key().Destroy()
	recovered.Destroy()
}

// TestMLKEMSubRangeSlicing checks that a sub-range of the secret with a
// non-Generic label round-trips on both sides.
func TestMLKEMSubRangeSlicing(t *testing.T) {
	scheme := kem.MLKEM512
	pub, priv, err := scheme.GenerateKeyPair(nil)
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}
	enc, err := scheme.NewEncapsulator(pub, nil, nil)
	if err != nil {
		t.Fatalf("NewEncapsulator failed: %v", err)
	}
	dec, err := scheme.NewDecapsulator(priv, nil)
	if err != nil {
		t.Fatalf("NewDecapsulator failed: %v", err)
	}

	res, err := enc.Encapsulate(0, 16, "AES")
	if err != nil {
		t.Fatalf("Encapsulate(0, 16, AES) failed: %v", err)
	}
	if res.Key().Len() != 16 {
		t.Fatalf("secret length: got %d, want 16", res.Key().Len())
	}
	if res.Key().Algorithm() != "AES" {
		t.Errorf("key algorithm: got %q, want %q", res.Key().Algorithm(), "AES")
	}

	recovered, err := dec.Decapsulate(res.Encapsulation(), 0, 16, "AES")
	if err != nil {
		t.Fatalf("Decapsulate failed: %v", err)
	}
	if !res.Key().Equal(recovered) {
		t.Error("sub-range keys do not match")
	}
}

// TestMLKEMFactoryValidation checks the construction-time error taxonomy.
func TestMLKEMFactoryValidation(t *testing.T) {
	scheme := kem.MLKEM768
	pub, priv, err := scheme.GenerateKeyPair(nil)
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}

	if _, err := scheme.NewEncapsulator(nil, nil, nil); !errors.Is(err, kem.ErrInvalidKey) {
		t.Errorf("nil public key: got %v, want ErrInvalidKey", err)
	}
	if _, err := scheme.NewDecapsulator(nil, nil); !errors.Is(err, kem.ErrInvalidKey) {
		t.Errorf("nil private key: got %v, want ErrInvalidKey", err)
	}

	// A key from another parameter set must be rejected.
	otherPub, otherPriv, err := kem.MLKEM512.GenerateKeyPair(nil)
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}
	if _, err := scheme.NewEncapsulator(otherPub, nil, nil); !errors.Is(err, kem.ErrInvalidKey) {
		t.Errorf("MLKEM512 key in MLKEM768 factory: got %v, want ErrInvalidKey", err)
	}
	if _, err := scheme.NewDecapsulator(otherPriv, nil); !errors.Is(err, kem.ErrInvalidKey) {
		t.Errorf("MLKEM512 key in MLKEM768 factory: got %v, want ErrInvalidKey", err)
	}

	// ML-KEM takes no parameters.
	if _, err := scheme.NewEncapsulator(pub, kem.XDHParameterSpec{}, nil); !errors.Is(err, kem.ErrInvalidParameters) {
		t.Errorf("unexpected spec: got %v, want ErrInvalidParameters", err)
	}
	if _, err := scheme.NewDecapsulator(priv, kem.XDHParameterSpec{}); !errors.Is(err, kem.ErrInvalidParameters) {
		t.Errorf("unexpected spec: got %v, want ErrInvalidParameters", err)
	}
}

// TestMLKEMKeyMarshalling round-trips keys through their FIPS 203 byte
// encodings.
func TestMLKEMKeyMarshalling(t *testing.T) {
	scheme := kem.MLKEM768
	if _, err := scheme.UnmarshalPublicKey(make([]byte, 10)); !errors.Is(err, kem.ErrInvalidKey) {
		t.Errorf("short public key: got %v, want ErrInvalidKey", err)
	}
	if _, err := scheme.UnmarshalPrivateKey(make([]byte, 10)); !errors.Is(err, kem.ErrInvalidKey) {
		t.Errorf("short private key: got %v, want ErrInvalidKey", err)
	}
	pub, err := scheme.UnmarshalPublicKey(make([]byte, kem.MLKEM768PublicKeySize))
	if err != nil {
		// CIRCL rejects out-of-range coefficients; either outcome must
		// carry the key error class.
		if !errors.Is(err, kem.ErrInvalidKey) {
			t.Errorf("zero public key: got %v, want ErrInvalidKey", err)
		}
		return
	}
	if pub.Algorithm() != "MLKEM768" {
		t.Errorf("algorithm: got %q, want %q", pub.Algorithm(), "MLKEM768")
	}
}

// TestMLKEMConcurrentEncapsulators fans 50 goroutines over one shared
// encapsulator/decapsulator pair and verifies distinct secrets and
// successful round-trips throughout.
func TestMLKEMConcurrentEncapsulators(t *testing.T) {
	scheme := kem.MLKEM768
	pub, priv, err := scheme.GenerateKeyPair(nil)
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}
	enc, err := scheme.NewEncapsulator(pub, nil, nil)
	if err != nil {
		t.Fatalf("NewEncapsulator failed: %v", err)
	}
	dec, err := scheme.NewDecapsulator(priv, nil)
	if err != nil {
		t.Fatalf("NewDecapsulator failed: %v", err)
	}

	const numGoroutines = 50

	var successfulOperations int64
	secrets := make([][]byte, numGoroutines)

	var wg sync.WaitGroup
	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()

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
			secrets[slot] = res.Key().Bytes()
			atomic.AddInt64(&successfulOperations, 1)
		}(i)
	}
	wg.Wait()

	if got := atomic.LoadInt64(&successfulOperations); got != numGoroutines {
		t.Fatalf("successful operations: got %d, want %d", got, numGoroutines)
	}
	for i := 0; i < numGoroutines; i++ {
		for j := i + 1; j < numGoroutines; j++ {
			if bytes.Equal(secrets[i], secrets[j]) {
				t.Fatalf("goroutines %d and %d produced the same secret", i, j)
			}
		}
	}
}
