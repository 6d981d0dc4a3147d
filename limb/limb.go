// Package limb converts arbitrary-precision non-negative integers to and
// from fixed-length arrays of 32-bit words, the wire format of the guest's
// shared transfer region.
//
// Word order is big-endian: limbs[0] is the most significant word. The guest
// expects the reverse order on the wire; that reversal belongs to the
// transfer path, not to this codec.
package limb

import (
	"math/big"

	"github.com/fieldworks/witnesscalc/errors"
)

// Encode converts v into width 32-bit limbs, most significant first.
// It rejects negative values and values that do not fit in 32*width bits.
func Encode(v *big.Int, width int) ([]uint32, error) {
	if v.Sign() < 0 {
		return nil, errors.NegativeInput(v)
	}
	if v.BitLen() > 32*width {
		return nil, errors.Overflow(v, width)
	}

	limbs := make([]uint32, width)
	rem := new(big.Int).Set(v)
	word := new(big.Int)
	for i := width - 1; i >= 0 && rem.Sign() != 0; i-- {
		rem.DivMod(rem, radix, word)
		limbs[i] = uint32(word.Uint64())
	}
	return limbs, nil
}

// Decode accumulates big-endian limbs into a big integer. Empty input
// yields zero.
func Decode(limbs []uint32) *big.Int {
	res := new(big.Int)
	for _, l := range limbs {
		res.Lsh(res, 32)
		res.Or(res, big.NewInt(int64(l)))
	}
	return res
}

// EncodeBytesLE converts v into exactly n8 little-endian bytes, the element
// layout of the .wtns container. It rejects negative and oversized values
// like Encode.
func EncodeBytesLE(v *big.Int, n8 int) ([]byte, error) {
	if v.Sign() < 0 {
		return nil, errors.NegativeInput(v)
	}
	if v.BitLen() > 8*n8 {
		return nil, errors.Overflow(v, n8/4)
	}

	buf := make([]byte, n8)
	v.FillBytes(buf)
	// FillBytes is big-endian; the container wants little-endian.
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return buf, nil
}

var radix = new(big.Int).Lsh(big.NewInt(1), 32)
