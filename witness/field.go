package witness

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	bls12381fr "github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	bn254fr "github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/fieldworks/witnesscalc/limb"
)

// Normalize maps w onto its canonical representative in [0, prime).
//
// Values already in range pass through unchanged. Negative values are the
// host-side signed convention for field negatives and map to prime - |w|
// (mod prime); the wasm guest itself always returns canonical limbs, so
// negatives only arise from callers doing their own arithmetic upstream.
// All arithmetic is arbitrary precision; nothing is truncated.
func Normalize(w, prime *big.Int) *big.Int {
	if w.Sign() >= 0 && w.Cmp(prime) < 0 {
		return new(big.Int).Set(w)
	}
	// big.Int.Mod is Euclidean: the result is in [0, prime) for any sign.
	return new(big.Int).Mod(w, prime)
}

// Element is one canonical field element: a value in [0, prime) under the
// circuit's working prime.
type Element struct {
	v big.Int
}

// NewElement constructs the canonical element for w modulo prime. For the
// BN254 and BLS12-381 scalar fields the reduction additionally runs through
// gnark-crypto's field arithmetic, round-tripping the value through
// Montgomery form exactly.
func NewElement(w, prime *big.Int) Element {
	canonical := Normalize(w, prime)

	var e Element
	switch {
	case prime.Cmp(ecc.BN254.ScalarField()) == 0:
		var fe bn254fr.Element
		fe.SetBigInt(canonical)
		fe.BigInt(&e.v)
	case prime.Cmp(ecc.BLS12_381.ScalarField()) == 0:
		var fe bls12381fr.Element
		fe.SetBigInt(canonical)
		fe.BigInt(&e.v)
	default:
		e.v.Set(canonical)
	}
	return e
}

// Curve reports the gnark-crypto curve whose scalar field has order prime,
// if any.
func Curve(prime *big.Int) (ecc.ID, bool) {
	for _, id := range []ecc.ID{ecc.BN254, ecc.BLS12_381, ecc.BLS12_377} {
		if prime.Cmp(id.ScalarField()) == 0 {
			return id, true
		}
	}
	return ecc.UNKNOWN, false
}

// BigInt returns a copy of the element's value.
func (e *Element) BigInt() *big.Int {
	return new(big.Int).Set(&e.v)
}

// BytesLE returns the element as exactly n8 little-endian bytes, the layout
// the .wtns container uses.
func (e *Element) BytesLE(n8 int) ([]byte, error) {
	return limb.EncodeBytesLE(&e.v, n8)
}

func (e Element) String() string {
	return e.v.String()
}
