package kem

// mlkem.go - ML-KEM factories over the Cloudflare CIRCL library
//
// This file implements the KEM contract for the three ML-KEM
// (Module-Lattice-Based Key Encapsulation Mechanism) parameter sets of
// NIST FIPS 203, wrapping CIRCL's kem.Scheme implementations.
//
// Design decisions:
// - Use CIRCL library instead of custom crypto (well-tested, FIPS-compliant)
// - Implement all three security levels (512, 768, 1024) for flexibility
// - MLKEM-768 is recommended as it provides NIST Security Level 3 (~AES-192)
// - Secure memory zeroing is applied to seeds and intermediate secrets
// - Use CIRCL's kem.Scheme interface to avoid code duplication

import (
	"crypto/rand"
	"io"

	circlkem "github.com/cloudflare/circl/kem"
	"github.com/cloudflare/circl/kem/mlkem/mlkem1024"
	"github.com/cloudflare/circl/kem/mlkem/mlkem512"
	"github.com/cloudflare/circl/kem/mlkem/mlkem768"
)

// MLKEM is an immutable KEM factory over one ML-KEM parameter set. The
// zero value is not usable; use MLKEM512, MLKEM768 or MLKEM1024.
//
// ML-KEM takes no algorithm parameters: any non-nil ParameterSpec passed
// to NewEncapsulator or NewDecapsulator is rejected with a parameter
// error.
type MLKEM struct {
	scheme            circlkem.Scheme
	name              string
	publicKeySize     int
	privateKeySize    int
	secretSize        int
	encapsulationSize int
}

// Exported ML-KEM factory instances.
var (
	// MLKEM512 provides NIST Security Level 1 (~AES-128 equivalent)
	// Suitable for IoT and resource-constrained devices.
	MLKEM512 = MLKEM{
		scheme:            mlkem512.Scheme(),
		name:              "MLKEM512",
		publicKeySize:     MLKEM512PublicKeySize,
		privateKeySize:    MLKEM512PrivateKeySize,
		secretSize:        MLKEM512SharedSecretSize,
		encapsulationSize: MLKEM512CiphertextSize,
	}

	// MLKEM768 provides NIST Security Level 3 (~AES-192 equivalent) - RECOMMENDED
	// This is the recommended variant for most use cases, providing a good
	// balance between security and performance.
	MLKEM768 = MLKEM{
		scheme:            mlkem768.Scheme(),
		name:              "MLKEM768",
		publicKeySize:     MLKEM768PublicKeySize,
		privateKeySize:    MLKEM768PrivateKeySize,
		secretSize:        MLKEM768SharedSecretSize,
		encapsulationSize: MLKEM768CiphertextSize,
	}

	// MLKEM1024 provides NIST Security Level 5 (~AES-256 equivalent)
	// Suitable for high-security applications requiring maximum protection.
	MLKEM1024 = MLKEM{
		scheme:            mlkem1024.Scheme(),
		name:              "MLKEM1024",
		publicKeySize:     MLKEM1024PublicKeySize,
		privateKeySize:    MLKEM1024PrivateKeySize,
		secretSize:        MLKEM1024SharedSecretSize,
		encapsulationSize: MLKEM1024CiphertextSize,
	}
)

var _ KEM = MLKEM{}

// mlkemPublicKey wraps a CIRCL public key with its algorithm name.
type mlkemPublicKey struct {
	name string
	pk   circlkem.PublicKey
}

func (k *mlkemPublicKey) Algorithm() string { return k.name }

// mlkemPrivateKey wraps a CIRCL private key with its algorithm name.
type mlkemPrivateKey struct {
	name string
	sk   circlkem.PrivateKey
}

func (k *mlkemPrivateKey) Algorithm() string { return k.name }

func (k *mlkemPrivateKey) Public() PublicKey {
	return &mlkemPublicKey{name: k.name, pk: k.sk.Public()}
}

// Name returns the ML-KEM parameter set name.
func (m MLKEM) Name() string { return m.name }

// GenerateKeyPair generates a new ML-KEM keypair. If random is nil,
// crypto/rand.Reader is used for cryptographically secure randomness.
func (m MLKEM) GenerateKeyPair(random io.Reader) (PublicKey, PrivateKey, error) {
	if random == nil {
		random = rand.Reader
	}

	// Derive the keypair from a random seed, then destroy the seed.
	seed := make([]byte, m.scheme.SeedSize())
	if _, err := io.ReadFull(random, seed); err != nil {
		return nil, nil, err
	}
	pk, sk := m.scheme.DeriveKeyPair(seed)
	secureZero(seed)

	return &mlkemPublicKey{name: m.name, pk: pk},
		&mlkemPrivateKey{name: m.name, sk: sk}, nil
}

// UnmarshalPublicKey parses an encapsulation key from its FIPS 203 byte
// encoding.
func (m MLKEM) UnmarshalPublicKey(data []byte) (PublicKey, error) {
	if len(data) != m.publicKeySize {
		return nil, &KeyError{Algorithm: m.name, Reason: "invalid public key length"}
	}
	pk, err := m.scheme.UnmarshalBinaryPublicKey(data)
	if err != nil {
		return nil, &KeyError{Algorithm: m.name, Reason: "malformed public key"}
	}
	return &mlkemPublicKey{name: m.name, pk: pk}, nil
}

// UnmarshalPrivateKey parses a decapsulation key from its FIPS 203 byte
// encoding.
func (m MLKEM) UnmarshalPrivateKey(data []byte) (PrivateKey, error) {
	if len(data) != m.privateKeySize {
		return nil, &KeyError{Algorithm: m.name, Reason: "invalid private key length"}
	}
	sk, err := m.scheme.UnmarshalBinaryPrivateKey(data)
	if err != nil {
		return nil, &KeyError{Algorithm: m.name, Reason: "malformed private key"}
	}
	return &mlkemPrivateKey{name: m.name, sk: sk}, nil
}

// NewEncapsulator binds the receiver's public key into an encapsulator.
// spec must be nil; random defaults to crypto/rand.Reader.
func (m MLKEM) NewEncapsulator(publicKey PublicKey, spec ParameterSpec, random io.Reader) (Encapsulator, error) {
	pub, err := m.checkPublicKey(publicKey)
	if err != nil {
		return nil, err
	}
	if spec != nil {
		return nil, &ParameterError{Algorithm: m.name, Reason: "algorithm takes no parameters"}
	}
	if random == nil {
		random = rand.Reader
	}
	return &mlkemEncapsulator{kem: m, pk: pub.pk, random: random}, nil
}

// NewDecapsulator binds the receiver's private key into a decapsulator.
// spec must be nil.
func (m MLKEM) NewDecapsulator(privateKey PrivateKey, spec ParameterSpec) (Decapsulator, error) {
	if privateKey == nil {
		return nil, &KeyError{Algorithm: m.name, Reason: "private key is nil"}
	}
	priv, ok := privateKey.(*mlkemPrivateKey)
	if !ok || priv == nil || priv.name != m.name {
		return nil, &KeyError{Algorithm: m.name, Reason: "not an " + m.name + " private key"}
	}
	if spec != nil {
		return nil, &ParameterError{Algorithm: m.name, Reason: "algorithm takes no parameters"}
	}
	return &mlkemDecapsulator{kem: m, sk: priv.sk}, nil
}

func (m MLKEM) checkPublicKey(publicKey PublicKey) (*mlkemPublicKey, error) {
	if publicKey == nil {
		return nil, &KeyError{Algorithm: m.name, Reason: "public key is nil"}
	}
	pub, ok := publicKey.(*mlkemPublicKey)
	if !ok || pub == nil || pub.name != m.name {
		return nil, &KeyError{Algorithm: m.name, Reason: "not an " + m.name + " public key"}
	}
	return pub, nil
}

// mlkemEncapsulator is bound to one public key and one random source. It
// holds no mutable state; all fields are read-only after construction.
type mlkemEncapsulator struct {
	kem    MLKEM
	pk     circlkem.PublicKey
	random io.Reader
}

func (e *mlkemEncapsulator) SecretSize() int        { return e.kem.secretSize }
func (e *mlkemEncapsulator) EncapsulationSize() int { return e.kem.encapsulationSize }

// Encapsulate draws a fresh seed from the bound random source and performs
// one deterministic encapsulation with it, so every call yields an
// independent secret and message.
func (e *mlkemEncapsulator) Encapsulate(from, to int, algorithm string) (*Encapsulated, error) {
	if algorithm == "" {
		return nil, ErrNilArgument
	}
	if err := CheckRange(from, to, e.kem.secretSize); err != nil {
		return nil, err
	}

	seed := make([]byte, e.kem.scheme.EncapsulationSeedSize())
	if _, err := io.ReadFull(e.random, seed); err != nil {
		return nil, err
	}
	ct, ss, err := e.kem.scheme.EncapsulateDeterministically(e.pk, seed)
	secureZero(seed)
	if err != nil {
		return nil, err
	}

	secret := NewSharedSecret(ss)
	key, err := secret.Slice(from, to, algorithm)
	secret.Destroy()
	if err != nil {
		return nil, err
	}
	return NewEncapsulated(key, ct, nil), nil
}

// mlkemDecapsulator is bound to one private key. All fields are read-only
// after construction.
type mlkemDecapsulator struct {
	kem MLKEM
	sk  circlkem.PrivateKey
}

func (d *mlkemDecapsulator) SecretSize() int        { return d.kem.secretSize }
func (d *mlkemDecapsulator) EncapsulationSize() int { return d.kem.encapsulationSize }

// Decapsulate recovers the shared secret from an encapsulation message.
// Length and validity failures both surface as the opaque ErrDecapsulation;
// CIRCL's ML-KEM performs implicit rejection internally, so a corrupted
// message of the right length yields a pseudorandom secret rather than an
// early error.
func (d *mlkemDecapsulator) Decapsulate(encapsulation []byte, from, to int, algorithm string) (*SecretKey, error) {
	if encapsulation == nil || algorithm == "" {
		return nil, ErrNilArgument
	}
	if err := CheckRange(from, to, d.kem.secretSize); err != nil {
		return nil, err
	}
	if len(encapsulation) != d.kem.encapsulationSize {
		return nil, ErrDecapsulation
	}

	ss, err := d.kem.scheme.Decapsulate(d.sk, encapsulation)
	if err != nil {
		return nil, ErrDecapsulation
	}

	secret := NewSharedSecret(ss)
	key, err := secret.Slice(from, to, algorithm)
	secret.Destroy()
	if err != nil {
		return nil, err
	}
	return key, nil
}
