package kem

import "crypto/subtle"

// A SecretKey is a slice of a shared secret tagged with a caller-supplied
// algorithm label. The label is an opaque tag, not a key derivation
// selector. The caller is the sole owner of the key bytes once a SecretKey
// is returned and should call Destroy when the key is no longer needed.
type SecretKey struct {
	algorithm string
	key       []byte
}

// Algorithm returns the label the key was tagged with at slicing time.
func (k *SecretKey) Algorithm() string {
	return k.algorithm
}

// Bytes returns the key material. The returned slice is the key's backing
// storage, not a copy; it is owned by the caller.
func (k *SecretKey) Bytes() []byte {
	return k.key
}

// Len returns the length of the key material in bytes.
func (k *SecretKey) Len() int {
	return len(k.key)
}

// Equal reports whether two keys carry the same label and the same bytes.
// The byte comparison is constant-time.
func (k *SecretKey) Equal(other *SecretKey) bool {
	if other == nil {
		return false
	}
	if k.algorithm != other.algorithm {
		return false
	}
	if len(k.key) != len(other.key) {
		return false
	}
	return subtle.ConstantTimeCompare(k.key, other.key) == 1
}

// Destroy securely zeroes the key material.
func (k *SecretKey) Destroy() {
	secureZero(k.key)
}

// A SharedSecret wraps the raw secret produced by one KEM operation and
// projects sub-ranges of it into labeled keys. The raw bytes are never
// exposed directly; implementations build one, slice it, and destroy it
// before returning.
type SharedSecret struct {
	raw []byte
}

// NewSharedSecret wraps raw secret bytes. The view takes ownership of the
// slice.
func NewSharedSecret(raw []byte) SharedSecret {
	return SharedSecret{raw: raw}
}

// Size returns the total length of the secret in bytes.
func (s SharedSecret) Size() int {
	return len(s.raw)
}

// Slice copies the bytes [from, to) of the secret into a new SecretKey
// tagged with the given algorithm label. The range must satisfy
// 0 <= from <= to <= Size(); violations return a RangeError. An empty
// algorithm label returns ErrNilArgument.
func (s SharedSecret) Slice(from, to int, algorithm string) (*SecretKey, error) {
	if algorithm == "" {
		return nil, ErrNilArgument
	}
	if err := CheckRange(from, to, len(s.raw)); err != nil {
		return nil, err
	}
	key := make([]byte, to-from)
	copy(key, s.raw[from:to])
	return &SecretKey{algorithm: algorithm, key: key}, nil
}

// Destroy securely zeroes the raw secret. Keys already produced by Slice
// are unaffected.
func (s SharedSecret) Destroy() {
	secureZero(s.raw)
}

// CheckRange validates a secret slicing range against the contract
// 0 <= from <= to <= size. Implementations call it before any
// cryptographic work so that a bad range is reported as a boundary error,
// never as a decapsulation failure.
func CheckRange(from, to, size int) error {
	if from < 0 || from > to || to > size {
		return &RangeError{From: from, To: to, Size: size}
	}
	return nil
}
