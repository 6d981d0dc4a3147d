// Package witness implements the host side of the circom witness-exchange
// protocol.
//
// A Calculator owns one compiled circuit module and discovers its field
// parameters once: n32, the element width in 32-bit words on the wire, the
// field prime, and n64, the element width in 64-bit limbs for downstream
// consumers. Every witness computation then runs in a freshly instantiated
// guest:
//
//	load -> init -> set inputs (write-then-signal, strictly sequential)
//	     -> read witness size -> extract slots -> done
//
// The shared transfer region is a single buffer reused for every value, so
// each element's write must complete before its signal call, and extraction
// never overlaps input loading. Failures at any stage abort the whole
// computation; there is no partial witness.
//
// Word order on the wire is reversed relative to the limb codec: transfer
// word j carries limb n32-1-j of the big-endian encoding, in both the input
// and extraction paths.
package witness
