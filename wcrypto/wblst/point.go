package wblst

import (
	"github.com/gordian-engine/whisk/wcrypto"
	"github.com/holiman/uint256"
	blst "github.com/supranational/blst/bindings/go"
)

// decodePoint decompresses p and checks G1 group membership.
// The point at infinity is rejected:
// no tracker component or commitment is ever the identity,
// since all secret and blinding scalars are nonzero.
func decodePoint(p wcrypto.Point) (*blst.P1Affine, error) {
	aff := new(blst.P1Affine)
	aff = aff.Uncompress(p[:])
	if aff == nil {
		return nil, wcrypto.ErrInvalidPoint
	}
	if !aff.InG1() {
		return nil, wcrypto.ErrInvalidPoint
	}
	if isCompressedInfinity(p) {
		return nil, wcrypto.ErrInvalidPoint
	}
	return aff, nil
}

// isCompressedInfinity reports whether p is the compressed encoding
// of the point at infinity: the infinity flag byte followed by zeros.
func isCompressedInfinity(p wcrypto.Point) bool {
	if p[0] != 0xc0 {
		return false
	}
	for _, b := range p[1:] {
		if b != 0 {
			return false
		}
	}
	return true
}

// encodePoint compresses aff into the fixed-size wire representation.
func encodePoint(aff *blst.P1Affine) wcrypto.Point {
	var p wcrypto.Point
	copy(p[:], aff.Compress())
	return p
}

// mulBase returns s·G for the G1 generator.
func mulBase(s *uint256.Int) *blst.P1Affine {
	return blst.P1Generator().Mult(toBlst(s)).ToAffine()
}

// mulPoint returns s·p.
func mulPoint(p *blst.P1Affine, s *uint256.Int) *blst.P1Affine {
	return new(blst.P1).Add(p).Mult(toBlst(s)).ToAffine()
}

// addPoints returns a + b.
func addPoints(a, b *blst.P1Affine) *blst.P1Affine {
	return new(blst.P1).Add(a).Add(b).ToAffine()
}

// pointsEqual reports whether a and b are the same group element.
func pointsEqual(a, b *blst.P1Affine) bool {
	return a.Equals(b)
}
