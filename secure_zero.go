package kem

import "runtime"

// secureZero securely zeroes the provided byte slice to prevent sensitive
// key material from remaining in memory. runtime.KeepAlive prevents the
// compiler from optimizing away the zeroing.
func secureZero(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}
