// Package cryptox computes content checksums for cached document payloads.
package cryptox

import (
	"crypto/subtle"

	"golang.org/x/crypto/blake2b"
)

// Checksum returns the BLAKE2b-256 digest of payload.
func Checksum(payload []byte) []byte {
	sum := blake2b.Sum256(payload)
	return sum[:]
}

// Verify reports whether payload still hashes to sum.
func Verify(payload, sum []byte) bool {
	return subtle.ConstantTimeCompare(Checksum(payload), sum) == 1
}
