package kem

// hybrid.go - Hybrid classical/post-quantum KEM
//
// This file combines the X25519 KEM with ML-KEM for hybrid key
// establishment. The hybrid approach provides defense-in-depth: security
// relies on both classical and quantum-resistant algorithms.
//
// Design decisions:
// - Reuse the XDH and MLKEM factories (no code duplication)
// - Combine shared secrets using HKDF (cryptographically sound mixing)
// - Support all three MLKEM security levels (512, 768, 1024)
// - Secure memory zeroing for all intermediate key material

import (
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/hkdf"
)

// Hybrid is an immutable KEM factory combining X25519 with one ML-KEM
// parameter set. The encapsulation message is the concatenation of the
// X25519 message and the ML-KEM message; the shared secret is the
// HKDF-SHA256 combination of both sub-secrets.
//
// Hybrid configurations take no algorithm parameters.
type Hybrid struct {
	name      string
	classical XDH
	pq        MLKEM
}

// Exported hybrid factory instances.
var (
	// Hybrid25519MLKEM512 combines Curve25519 with MLKEM-512 (NIST Security Level 1).
	Hybrid25519MLKEM512 = Hybrid{name: "25519+MLKEM512", classical: X25519, pq: MLKEM512}

	// Hybrid25519MLKEM768 combines Curve25519 with MLKEM-768 (NIST Security Level 3) - RECOMMENDED
	Hybrid25519MLKEM768 = Hybrid{name: "25519+MLKEM768", classical: X25519, pq: MLKEM768}

	// Hybrid25519MLKEM1024 combines Curve25519 with MLKEM-1024 (NIST Security Level 5).
	Hybrid25519MLKEM1024 = Hybrid{name: "25519+MLKEM1024", classical: X25519, pq: MLKEM1024}
)

var _ KEM = Hybrid{}

// hybridPublicKey pairs the classical and post-quantum halves.
type hybridPublicKey struct {
	name      string
	classical PublicKey
	pq        PublicKey
}

func (k *hybridPublicKey) Algorithm() string { return k.name }

// hybridPrivateKey pairs the classical and post-quantum halves.
type hybridPrivateKey struct {
	name      string
	classical PrivateKey
	pq        PrivateKey
}

func (k *hybridPrivateKey) Algorithm() string { return k.name }

func (k *hybridPrivateKey) Public() PublicKey {
	return &hybridPublicKey{
		name:      k.name,
		classical: k.classical.Public(),
		pq:        k.pq.Public(),
	}
}

// Name returns the hybrid configuration name, e.g. "25519+MLKEM768".
func (h Hybrid) Name() string { return h.name }

// GenerateKeyPair generates keypairs for both halves. If random is nil,
// crypto/rand.Reader is used.
func (h Hybrid) GenerateKeyPair(random io.Reader) (PublicKey, PrivateKey, error) {
	cPub, cPriv, err := h.classical.GenerateKeyPair(random)
	if err != nil {
		return nil, nil, err
	}
	pPub, pPriv, err := h.pq.GenerateKeyPair(random)
	if err != nil {
		return nil, nil, err
	}
	return &hybridPublicKey{name: h.name, classical: cPub, pq: pPub},
		&hybridPrivateKey{name: h.name, classical: cPriv, pq: pPriv}, nil
}

// NewEncapsulator binds both halves of the receiver's public key. spec
// must be nil; random defaults to crypto/rand.Reader.
func (h Hybrid) NewEncapsulator(publicKey PublicKey, spec ParameterSpec, random io.Reader) (Encapsulator, error) {
	if publicKey == nil {
		return nil, &KeyError{Algorithm: h.name, Reason: "public key is nil"}
	}
	pub, ok := publicKey.(*hybridPublicKey)
	if !ok || pub == nil || pub.name != h.name {
		return nil, &KeyError{Algorithm: h.name, Reason: "not a " + h.name + " public key"}
	}
	if spec != nil {
		return nil, &ParameterError{Algorithm: h.name, Reason: "algorithm takes no parameters"}
	}

	classical, err := h.classical.NewEncapsulator(pub.classical, nil, random)
	if err != nil {
		return nil, err
	}
	pq, err := h.pq.NewEncapsulator(pub.pq, nil, random)
	if err != nil {
		return nil, err
	}
	return &hybridEncapsulator{kem: h, classical: classical, pq: pq}, nil
}

// NewDecapsulator binds both halves of the receiver's private key. spec
// must be nil.
func (h Hybrid) NewDecapsulator(privateKey PrivateKey, spec ParameterSpec) (Decapsulator, error) {
	if privateKey == nil {
		return nil, &KeyError{Algorithm: h.name, Reason: "private key is nil"}
	}
	priv, ok := privateKey.(*hybridPrivateKey)
	if !ok || priv == nil || priv.name != h.name {
		return nil, &KeyError{Algorithm: h.name, Reason: "not a " + h.name + " private key"}
	}
	if spec != nil {
		return nil, &ParameterError{Algorithm: h.name, Reason: "algorithm takes no parameters"}
	}

	classical, err := h.classical.NewDecapsulator(priv.classical, nil)
	if err != nil {
		return nil, err
	}
	pq, err := h.pq.NewDecapsulator(priv.pq, nil)
	if err != nil {
		return nil, err
	}
	return &hybridDecapsulator{kem: h, classical: classical, pq: pq}, nil
}

// hybridCombine uses HKDF-SHA256 to combine classical and post-quantum
// shared secrets into one 32-byte secret.
//
// The combiner uses:
//   - IKM (Input Key Material): classical_ss || pq_ss
//   - Salt: "HYBRID-KEM-V1"
//   - Info: the hybrid configuration name
func hybridCombine(classicalSS, pqSS []byte, context string) ([]byte, error) {
	ikm := make([]byte, 0, len(classicalSS)+len(pqSS))
	ikm = append(ikm, classicalSS...)
	ikm = append(ikm, pqSS...)
	defer secureZero(ikm)

	combined := make([]byte, X25519SharedSecretSize)
	kdf := hkdf.New(sha256.New, ikm, []byte(hybridCombinerSalt), []byte(context))
	if _, err := io.ReadFull(kdf, combined); err != nil {
		return nil, err
	}
	return combined, nil
}

// hybridEncapsulator delegates to the two bound sub-encapsulators. All
// fields are read-only after construction.
type hybridEncapsulator struct {
	kem       Hybrid
	classical Encapsulator
	pq        Encapsulator
}

func (e *hybridEncapsulator) SecretSize() int { return X25519SharedSecretSize }

func (e *hybridEncapsulator) EncapsulationSize() int {
	return e.classical.EncapsulationSize() + e.pq.EncapsulationSize()
}

func (e *hybridEncapsulator) Encapsulate(from, to int, algorithm string) (*Encapsulated, error) {
	if algorithm == "" {
		return nil, ErrNilArgument
	}
	if err := CheckRange(from, to, X25519SharedSecretSize); err != nil {
		return nil, err
	}

	cEnc, err := e.classical.Encapsulate(0, e.classical.SecretSize(), AlgorithmGeneric)
	if err != nil {
		return nil, err
	}
	defer cEnc.Key().Destroy()

	pEnc, err := e.pq.Encapsulate(0, e.pq.SecretSize(), AlgorithmGeneric)
	if err != nil {
		return nil, err
	}
	defer pEnc.Key().Destroy()

	combined, err := hybridCombine(cEnc.Key().Bytes(), pEnc.Key().Bytes(), e.kem.name)
	if err != nil {
		return nil, err
	}

	// Message layout: classical || pq
	ct := make([]byte, 0, e.EncapsulationSize())
	ct = append(ct, cEnc.Encapsulation()...)
	ct = append(ct, pEnc.Encapsulation()...)

	secret := NewSharedSecret(combined)
	key, err := secret.Slice(from, to, algorithm)
	secret.Destroy()
	if err != nil {
		return nil, err
	}
	return NewEncapsulated(key, ct, nil), nil
}

// hybridDecapsulator delegates to the two bound sub-decapsulators. All
// fields are read-only after construction.
type hybridDecapsulator struct {
	kem       Hybrid
	classical Decapsulator
	pq        Decapsulator
}

func (d *hybridDecapsulator) SecretSize() int { return X25519SharedSecretSize }

func (d *hybridDecapsulator) EncapsulationSize() int {
	return d.classical.EncapsulationSize() + d.pq.EncapsulationSize()
}

func (d *hybridDecapsulator) Decapsulate(encapsulation []byte, from, to int, algorithm string) (*SecretKey, error) {
	if encapsulation == nil || algorithm == "" {
		return nil, ErrNilArgument
	}
	if err := CheckRange(from, to, X25519SharedSecretSize); err != nil {
		return nil, err
	}
	if len(encapsulation) != d.EncapsulationSize() {
		return nil, ErrDecapsulation
	}

	split := d.classical.EncapsulationSize()
	cKey, err := d.classical.Decapsulate(encapsulation[:split], 0, d.classical.SecretSize(), AlgorithmGeneric)
	if err != nil {
		return nil, ErrDecapsulation
	}
	defer cKey.Destroy()

	pKey, err := d.pq.Decapsulate(encapsulation[split:], 0, d.pq.SecretSize(), AlgorithmGeneric)
	if err != nil {
		return nil, ErrDecapsulation
	}
	defer pKey.Destroy()

	combined, err := hybridCombine(cKey.Bytes(), pKey.Bytes(), d.kem.name)
	if err != nil {
		return nil, ErrDecapsulation
	}

	secret := NewSharedSecret(combined)
	key, err := secret.Slice(from, to, algorithm)
	secret.Destroy()
	if err != nil {
		return nil, err
	}
	return key, nil
}
