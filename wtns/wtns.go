// Package wtns writes witness vectors in the circom ecosystem's binary
// .wtns container, the format proof systems downstream of the calculator
// consume.
//
// Layout (version 2): a 4-byte "wtns" magic, u32 version, u32 section
// count, then two sections each prefixed by u32 id and u64 byte length.
// Section 1 holds the element byte width n8, the field prime, and the
// witness count; section 2 holds the values, each as n8 little-endian
// bytes. All integers are little-endian.
package wtns

import (
	"encoding/binary"
	"io"
	"math/big"
	"strconv"

	"github.com/fieldworks/witnesscalc/errors"
	"github.com/fieldworks/witnesscalc/limb"
)

const (
	formatVersion = 2
	sectionHeader = 1
	sectionData   = 2
)

var magic = [4]byte{'w', 't', 'n', 's'}

// Write emits values as a version-2 .wtns stream. The element width is
// derived from the prime: the byte size of its 64-bit limb count. Every
// value must already be canonical in [0, prime).
func Write(w io.Writer, prime *big.Int, values []*big.Int) error {
	if prime == nil || prime.Sign() <= 0 {
		return errors.InvalidInput(errors.PhaseEncode, "prime must be positive")
	}
	n8 := ((prime.BitLen() + 63) / 64) * 8

	primeBytes, err := limb.EncodeBytesLE(prime, n8)
	if err != nil {
		return err
	}

	buf := make([]byte, 0, 4+4+4+(4+8)+4+n8+4+(4+8)+n8*len(values))
	buf = append(buf, magic[:]...)
	buf = appendU32(buf, formatVersion)
	buf = appendU32(buf, 2) // section count

	buf = appendU32(buf, sectionHeader)
	buf = appendU64(buf, uint64(4+n8+4))
	buf = appendU32(buf, uint32(n8))
	buf = append(buf, primeBytes...)
	buf = appendU32(buf, uint32(len(values)))

	buf = appendU32(buf, sectionData)
	buf = appendU64(buf, uint64(n8*len(values)))
	for i, v := range values {
		if v == nil || v.Sign() < 0 || v.Cmp(prime) >= 0 {
			return errors.InvalidInput(errors.PhaseEncode,
				"witness value "+strconv.Itoa(i)+" is not canonical in [0, prime)")
		}
		vb, err := limb.EncodeBytesLE(v, n8)
		if err != nil {
			return err
		}
		buf = append(buf, vb...)
	}

	_, err = w.Write(buf)
	return err
}

func appendU32(b []byte, v uint32) []byte {
	return binary.LittleEndian.AppendUint32(b, v)
}

func appendU64(b []byte, v uint64) []byte {
	return binary.LittleEndian.AppendUint64(b, v)
}
