package kem

// An Encapsulated is the immutable result bundle of one Encapsulate call:
// a slice of the shared secret as a labeled key, the full encapsulation
// message, and optional algorithm parameters. Ownership of the contained
// bytes passes entirely to the caller; the encapsulator retains no
// reference to them after the call returns.
type Encapsulated struct {
	key           *SecretKey
	encapsulation []byte
	params        ParameterSpec
}

// NewEncapsulated builds a result bundle. Intended for KEM implementations;
// params may be nil.
func NewEncapsulated(key *SecretKey, encapsulation []byte, params ParameterSpec) *Encapsulated {
	return &Encapsulated{key: key, encapsulation: encapsulation, params: params}
}

// Key returns the labeled slice of the shared secret.
func (e *Encapsulated) Key() *SecretKey {
	return e.key
}

// Encapsulation returns the encapsulation message to transmit to the
// receiver. Its length equals the encapsulator's EncapsulationSize().
func (e *Encapsulated) Encapsulation() []byte {
	return e.encapsulation
}

// Params returns the optional parameters produced alongside the
// encapsulation, or nil if the algorithm produces none.
func (e *Encapsulated) Params() ParameterSpec {
	return e.params
}
