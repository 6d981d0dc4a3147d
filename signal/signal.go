// Package signal derives the guest-side address of a named input signal.
//
// The guest locates a signal's destination slot by a 64-bit FNV-1a hash of
// the signal name, passed as two 32-bit halves. The hash parameters (default
// offset basis and prime) are the guest's addressing scheme and must not be
// changed; parity with the guest is locked by golden-value tests.
//
// Colliding names are not detected here. Callers own name uniqueness.
package signal

import "hash/fnv"

// Address returns the high and low 32-bit halves of the FNV-1a 64-bit hash
// of name's UTF-8 bytes.
func Address(name string) (msb, lsb uint32) {
	h := fnv.New64a()
	h.Write([]byte(name))
	sum := h.Sum64()
	return uint32(sum >> 32), uint32(sum)
}
