package kem

// xdh.go - Classical X25519 KEM
//
// A Diffie-Hellman KEM over Curve25519: the encapsulation message is an
// ephemeral public key and the shared secret is derived with HKDF-SHA256
// from the DH result and both public keys. This gives the contract a
// classical counterpart to the ML-KEM factories and is the building block
// for the hybrid schemes in hybrid.go.

import (
	"crypto/rand"
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/hkdf"
)

// XDHParameterSpec is the optional parameter spec accepted by the X25519
// factory.
type XDHParameterSpec struct {
	// Info is an optional context string mixed into the key derivation
	// for domain separation. Both sides must supply the same value.
	Info []byte
}

// XDH is an immutable KEM factory over X25519. Use the X25519 instance.
type XDH struct{}

// X25519 is the classical Curve25519 KEM factory instance.
var X25519 = XDH{}

var _ KEM = XDH{}

// xdhPublicKey is a 32-byte Curve25519 point.
type xdhPublicKey struct {
	key []byte
}

func (k *xdhPublicKey) Algorithm() string { return "X25519" }

// xdhPrivateKey is a 32-byte Curve25519 scalar with its cached public key.
type xdhPrivateKey struct {
	key []byte
	pub []byte
}

func (k *xdhPrivateKey) Algorithm() string { return "X25519" }

func (k *xdhPrivateKey) Public() PublicKey {
	pub := make([]byte, X25519PublicKeySize)
	copy(pub, k.pub)
	return &xdhPublicKey{key: pub}
}

// Name returns "X25519".
func (XDH) Name() string { return "X25519" }

// GenerateKeyPair generates a new X25519 keypair. If random is nil,
// crypto/rand.Reader is used.
func (x XDH) GenerateKeyPair(random io.Reader) (PublicKey, PrivateKey, error) {
	if random == nil {
		random = rand.Reader
	}

	priv := make([]byte, X25519PrivateKeySize)
	if _, err := io.ReadFull(random, priv); err != nil {
		return nil, nil, err
	}
	pub, err := curve25519.X25519(priv, curve25519.Basepoint)
	if err != nil {
		secureZero(priv)
		return nil, nil, err
	}

	pubCopy := make([]byte, X25519PublicKeySize)
	copy(pubCopy, pub)
	return &xdhPublicKey{key: pub}, &xdhPrivateKey{key: priv, pub: pubCopy}, nil
}

// UnmarshalPublicKey wraps a raw 32-byte Curve25519 point.
func (x XDH) UnmarshalPublicKey(data []byte) (PublicKey, error) {
	if len(data) != X25519PublicKeySize {
		return nil, &KeyError{Algorithm: "X25519", Reason: "invalid public key length"}
	}
	key := make([]byte, X25519PublicKeySize)
	copy(key, data)
	return &xdhPublicKey{key: key}, nil
}

// NewEncapsulator binds the receiver's public key into an encapsulator.
// spec may be nil or an XDHParameterSpec; random defaults to
// crypto/rand.Reader.
func (x XDH) NewEncapsulator(publicKey PublicKey, spec ParameterSpec, random io.Reader) (Encapsulator, error) {
	if publicKey == nil {
		return nil, &KeyError{Algorithm: "X25519", Reason: "public key is nil"}
	}
	pub, ok := publicKey.(*xdhPublicKey)
	if !ok || pub == nil {
		return nil, &KeyError{Algorithm: "X25519", Reason: "not an X25519 public key"}
	}
	info, err := x.checkParameters(spec)
	if err != nil {
		return nil, err
	}
	if random == nil {
		random = rand.Reader
	}
	return &xdhEncapsulator{pk: pub.key, info: info, random: random}, nil
}

// NewDecapsulator binds the receiver's private key into a decapsulator.
// spec may be nil or an XDHParameterSpec.
func (x XDH) NewDecapsulator(privateKey PrivateKey, spec ParameterSpec) (Decapsulator, error) {
	if privateKey == nil {
		return nil, &KeyError{Algorithm: "X25519", Reason: "private key is nil"}
	}
	priv, ok := privateKey.(*xdhPrivateKey)
	if !ok || priv == nil {
		return nil, &KeyError{Algorithm: "X25519", Reason: "not an X25519 private key"}
	}
	info, err := x.checkParameters(spec)
	if err != nil {
		return nil, err
	}
	return &xdhDecapsulator{sk: priv.key, pub: priv.pub, info: info}, nil
}

// checkParameters resolves the optional spec into the bound KDF info
// string. The info bytes are copied so the configuration stays immutable
// even if the caller reuses the spec's slice.
func (XDH) checkParameters(spec ParameterSpec) ([]byte, error) {
	switch p := spec.(type) {
	case nil:
		return nil, nil
	case XDHParameterSpec:
		return append([]byte(nil), p.Info...), nil
	case *XDHParameterSpec:
		if p == nil {
			return nil, nil
		}
		return append([]byte(nil), p.Info...), nil
	default:
		return nil, &ParameterError{Algorithm: "X25519", Reason: "unrecognized parameter spec"}
	}
}

// deriveXDHSecret derives the 32-byte shared secret from the DH result.
// Both public keys are bound into the derivation so that the secret
// commits to the full exchange, not just the raw DH output.
func deriveXDHSecret(dh, ephemeralPub, recipientPub, info []byte) ([]byte, error) {
	kdfInfo := make([]byte, 0, len(xdhKDFInfo)+len(ephemeralPub)+len(recipientPub)+len(info))
	kdfInfo = append(kdfInfo, xdhKDFInfo...)
	kdfInfo = append(kdfInfo, ephemeralPub...)
	kdfInfo = append(kdfInfo, recipientPub...)
	kdfInfo = append(kdfInfo, info...)

	secret := make([]byte, X25519SharedSecretSize)
	kdf := hkdf.New(sha256.New, dh, nil, kdfInfo)
	if _, err := io.ReadFull(kdf, secret); err != nil {
		return nil, err
	}
	return secret, nil
}

// xdhEncapsulator is bound to one public key, one resolved info string and
// one random source. All fields are read-only after construction.
type xdhEncapsulator struct {
	pk     []byte
	info   []byte
	random io.Reader
}

func (e *xdhEncapsulator) SecretSize() int        { return X25519SharedSecretSize }
func (e *xdhEncapsulator) EncapsulationSize() int { return X25519CiphertextSize }

// Encapsulate generates a fresh ephemeral keypair, performs DH against the
// bound public key and derives the shared secret. The encapsulation
// message is the ephemeral public key.
func (e *xdhEncapsulator) Encapsulate(from, to int, algorithm string) (*Encapsulated, error) {
	if algorithm == "" {
		return nil, ErrNilArgument
	}
	if err := CheckRange(from, to, X25519SharedSecretSize); err != nil {
		return nil, err
	}

	eph := make([]byte, X25519PrivateKeySize)
	if _, err := io.ReadFull(e.random, eph); err != nil {
		return nil, err
	}
	defer secureZero(eph)

	ephPub, err := curve25519.X25519(eph, curve25519.Basepoint)
	if err != nil {
		return nil, err
	}
	dh, err := curve25519.X25519(eph, e.pk)
	if err != nil {
		return nil, err
	}
	defer secureZero(dh)

	ss, err := deriveXDHSecret(dh, ephPub, e.pk, e.info)
	if err != nil {
		return nil, err
	}

	secret := NewSharedSecret(ss)
	key, err := secret.Slice(from, to, algorithm)
	secret.Destroy()
	if err != nil {
		return nil, err
	}
	return NewEncapsulated(key, ephPub, nil), nil
}

// xdhDecapsulator is bound to one private key and one resolved info
// string. All fields are read-only after construction.
type xdhDecapsulator struct {
	sk   []byte
	pub  []byte
	info []byte
}

func (d *xdhDecapsulator) SecretSize() int        { return X25519SharedSecretSize }
func (d *xdhDecapsulator) EncapsulationSize() int { return X25519CiphertextSize }

// Decapsulate performs DH between the bound private key and the ephemeral
// public key carried in the message. Wrong lengths and degenerate points
// both surface as the opaque ErrDecapsulation.
func (d *xdhDecapsulator) Decapsulate(encapsulation []byte, from, to int, algorithm string) (*SecretKey, error) {
	if encapsulation == nil || algorithm == "" {
		return nil, ErrNilArgument
	}
	if err := CheckRange(from, to, X25519SharedSecretSize); err != nil {
		return nil, err
	}
	if len(encapsulation) != X25519CiphertextSize {
		return nil, ErrDecapsulation
	}

	dh, err := curve25519.X25519(d.sk, encapsulation)
	if err != nil {
		return nil, ErrDecapsulation
	}
	defer secureZero(dh)

	ss, err := deriveXDHSecret(dh, encapsulation, d.pub, d.info)
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
