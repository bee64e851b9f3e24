package kem

import "testing"

// TestSecureZero verifies that zeroing clears every byte, including the
// degenerate empty and nil cases.
func TestSecureZero(t *testing.T) {
	buf := []byte{0xde, 0xad, 0xbe, 0xef}
	secureZero(buf)
	for i, b := range buf {
		if b != 0 {
			t.Fatalf("byte %d not zeroed: %#x", i, b)
		}
	}

	secureZero(nil)
	secureZero([]byte{})
}

// TestEncapsulateLeavesNoSecretBehind checks that destroying the returned
// key is sufficient to clear the secret: the encapsulator keeps no second
// live copy reachable through the result bundle.
func TestEncapsulateLeavesNoSecretBehind(t *testing.T) {
	pub, _, err := X25519.GenerateKeyPair(nil)
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}
	enc, err := X25519.NewEncapsulator(pub, nil, nil)
	if err != nil {
		t.Fatalf("NewEncapsulator failed: %v", err)
	}
	res, err := enc.Encapsulate(0, enc.SecretSize(), AlgorithmGeneric)
	if err != nil {
		t.Fatalf("Encapsulate failed: %v", err)
	}

	res.Key().Destroy()
	for i, b := range res.Key().Bytes() {
		if b != 0 {
			t.Fatalf("byte %d of destroyed key not zeroed: %#x", i, b)
		}
	}
}
