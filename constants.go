package kem

// AlgorithmGeneric is the uninterpreted algorithm label that every
// encapsulator and decapsulator must accept for the full secret range.
const AlgorithmGeneric = "Generic"

// MLKEM (Module-Lattice-Based Key Encapsulation Mechanism) constants.
// These values are defined in NIST FIPS 203 and represent the sizes of
// keys, ciphertexts, and shared secrets for each security level.
//
// MLKEM-512: NIST Security Level 1 (~AES-128 equivalent)
// MLKEM-768: NIST Security Level 3 (~AES-192 equivalent) - RECOMMENDED
// MLKEM-1024: NIST Security Level 5 (~AES-256 equivalent)
const (
	// MLKEM-512 sizes (NIST Security Level 1)
	MLKEM512PublicKeySize    = 800
	MLKEM512PrivateKeySize   = 1632
	MLKEM512CiphertextSize   = 768
	MLKEM512SharedSecretSize = 32

	// MLKEM-768 sizes (NIST Security Level 3) - Recommended for most use cases
	MLKEM768PublicKeySize    = 1184
	MLKEM768PrivateKeySize   = 2400
	MLKEM768CiphertextSize   = 1088
	MLKEM768SharedSecretSize = 32

	// MLKEM-1024 sizes (NIST Security Level 5)
	MLKEM1024PublicKeySize    = 1568
	MLKEM1024PrivateKeySize   = 3168
	MLKEM1024CiphertextSize   = 1568
	MLKEM1024SharedSecretSize = 32
)

// X25519 KEM sizes. The encapsulation message is the ephemeral public key
// and the shared secret is the 32-byte HKDF-SHA256 output.
const (
	X25519PublicKeySize    = 32
	X25519PrivateKeySize   = 32
	X25519CiphertextSize   = 32
	X25519SharedSecretSize = 32
)

// hybridCombinerSalt is the HKDF salt used to combine classical and
// post-quantum shared secrets in the hybrid schemes.
const hybridCombinerSalt = "HYBRID-KEM-V1"

// xdhKDFInfo is the domain separation prefix for the X25519 KEM key
// derivation.
const xdhKDFInfo = "XDH-KEM-V1"
