package wcrypto

import (
	"encoding/binary"
	"fmt"
	"io"
	"math/big"
)

// simpleModulus is the Mersenne prime 2^61 - 1,
// the order of the toy group used by [SimpleAlgebra].
const simpleModulus = (1 << 61) - 1

// SimpleAlgebra is a trivial, non-hiding implementation of [Algebra]
// intended only for tests of protocol logic.
//
// Group elements are residues modulo a 61-bit prime,
// the generator is 1, and "scalar multiplication" is modular multiplication.
// Opening proofs reveal the secret scalar outright
// and shuffle proofs reveal the permutation,
// so SimpleAlgebra provides none of the anonymity
// the production algebra exists for.
// What it does provide is exact, fast completeness and soundness behavior
// for every protocol-level code path.
type SimpleAlgebra struct{}

var _ Algebra = SimpleAlgebra{}

func (SimpleAlgebra) reduce(s SecretScalar) (uint64, error) {
	v := new(big.Int).SetBytes(s[:])
	v.Mod(v, big.NewInt(simpleModulus))
	if v.Sign() == 0 {
		return 0, ErrInvalidScalar
	}
	return v.Uint64(), nil
}

func simplePoint(v uint64) Point {
	var p Point
	binary.BigEndian.PutUint64(p[PointSize-8:], v)
	return p
}

func simpleValue(p Point) (uint64, error) {
	for _, b := range p[:PointSize-8] {
		if b != 0 {
			return 0, ErrInvalidPoint
		}
	}
	v := binary.BigEndian.Uint64(p[PointSize-8:])
	if v >= simpleModulus {
		return 0, ErrInvalidPoint
	}
	return v, nil
}

func simpleMul(a, b uint64) uint64 {
	var out big.Int
	out.Mul(new(big.Int).SetUint64(a), new(big.Int).SetUint64(b))
	out.Mod(&out, big.NewInt(simpleModulus))
	return out.Uint64()
}

// GenerateTracker returns the toy tracker (r, k·r mod p).
func (a SimpleAlgebra) GenerateTracker(k, r SecretScalar) (Tracker, error) {
	kv, err := a.reduce(k)
	if err != nil {
		return Tracker{}, err
	}
	rv, err := a.reduce(r)
	if err != nil {
		return Tracker{}, err
	}
	return Tracker{
		RG:  simplePoint(rv),
		KRG: simplePoint(simpleMul(kv, rv)),
	}, nil
}

// Commit returns the toy commitment k mod p.
func (a SimpleAlgebra) Commit(k SecretScalar) (Commitment, error) {
	kv, err := a.reduce(k)
	if err != nil {
		return Commitment{}, err
	}
	return Commitment(simplePoint(kv)), nil
}

// RerandomizeTracker multiplies both tracker components by the blinding r.
func (a SimpleAlgebra) RerandomizeTracker(t Tracker, r SecretScalar) (Tracker, error) {
	rv, err := a.reduce(r)
	if err != nil {
		return Tracker{}, err
	}
	rg, err := simpleValue(t.RG)
	if err != nil {
		return Tracker{}, err
	}
	krg, err := simpleValue(t.KRG)
	if err != nil {
		return Tracker{}, err
	}
	return Tracker{
		RG:  simplePoint(simpleMul(rg, rv)),
		KRG: simplePoint(simpleMul(krg, rv)),
	}, nil
}

// IsMatchingTracker reports whether t encodes the secret k.
func (a SimpleAlgebra) IsMatchingTracker(t Tracker, k SecretScalar) bool {
	kv, err := a.reduce(k)
	if err != nil {
		return false
	}
	rg, err := simpleValue(t.RG)
	if err != nil {
		return false
	}
	krg, err := simpleValue(t.KRG)
	if err != nil {
		return false
	}
	return simpleMul(kv, rg) == krg
}

// ProveOpening returns the reduced secret scalar itself.
// The toy proof hides nothing.
func (a SimpleAlgebra) ProveOpening(t Tracker, k SecretScalar, _ io.Reader) (OpeningProof, error) {
	kv, err := a.reduce(k)
	if err != nil {
		return nil, err
	}
	if !a.IsMatchingTracker(t, k) {
		return nil, fmt.Errorf("tracker does not encode the supplied secret")
	}
	proof := make(OpeningProof, 8)
	binary.BigEndian.PutUint64(proof, kv)
	return proof, nil
}

// VerifyOpening checks the revealed scalar against both
// the commitment and the tracker.
func (a SimpleAlgebra) VerifyOpening(t Tracker, c Commitment, proof OpeningProof) bool {
	if len(proof) != 8 {
		return false
	}
	kv := binary.BigEndian.Uint64(proof)
	if kv == 0 || kv >= simpleModulus {
		return false
	}
	cv, err := simpleValue(Point(c))
	if err != nil || cv != kv {
		return false
	}
	rg, err := simpleValue(t.RG)
	if err != nil {
		return false
	}
	krg, err := simpleValue(t.KRG)
	if err != nil {
		return false
	}
	return simpleMul(kv, rg) == krg
}

// ProveShuffle permutes and re-randomizes in,
// emitting the permutation and blinding scalars as the proof.
func (a SimpleAlgebra) ProveShuffle(in []Tracker, rand io.Reader) ([]Tracker, ShuffleProof, error) {
	n := len(in)
	if n == 0 {
		return nil, nil, ErrEmptyShuffle
	}

	perm := make([]uint32, n)
	for i := range perm {
		perm[i] = uint32(i)
	}
	// Fisher-Yates over the randomness source.
	for i := n - 1; i > 0; i-- {
		r, err := randUint64(rand)
		if err != nil {
			return nil, nil, err
		}
		j := int(r % uint64(i+1))
		perm[i], perm[j] = perm[j], perm[i]
	}

	out := make([]Tracker, n)
	scalars := make([]uint64, n)
	for j := range out {
		for {
			r, err := randUint64(rand)
			if err != nil {
				return nil, nil, err
			}
			r %= simpleModulus
			if r != 0 {
				scalars[j] = r
				break
			}
		}

		src := in[perm[j]]
		rg, err := simpleValue(src.RG)
		if err != nil {
			return nil, nil, err
		}
		krg, err := simpleValue(src.KRG)
		if err != nil {
			return nil, nil, err
		}
		out[j] = Tracker{
			RG:  simplePoint(simpleMul(rg, scalars[j])),
			KRG: simplePoint(simpleMul(krg, scalars[j])),
		}
	}

	proof := make(ShuffleProof, 0, 4+n*12)
	proof = binary.BigEndian.AppendUint32(proof, uint32(n))
	for j := range perm {
		proof = binary.BigEndian.AppendUint32(proof, perm[j])
	}
	for j := range scalars {
		proof = binary.BigEndian.AppendUint64(proof, scalars[j])
	}
	return out, proof, nil
}

// VerifyShuffle replays the revealed permutation and scalars
// against the input and output sequences.
func (a SimpleAlgebra) VerifyShuffle(in, out []Tracker, proof ShuffleProof) bool {
	n := len(in)
	if n == 0 || len(out) != n {
		return false
	}
	if len(proof) != 4+n*12 {
		return false
	}
	if binary.BigEndian.Uint32(proof) != uint32(n) {
		return false
	}

	perm := make([]uint32, n)
	seen := make([]bool, n)
	for j := range perm {
		perm[j] = binary.BigEndian.Uint32(proof[4+j*4:])
		if perm[j] >= uint32(n) || seen[perm[j]] {
			return false
		}
		seen[perm[j]] = true
	}

	scalarOff := 4 + n*4
	for j := range out {
		s := binary.BigEndian.Uint64(proof[scalarOff+j*8:])
		if s == 0 || s >= simpleModulus {
			return false
		}

		src := in[perm[j]]
		rg, err := simpleValue(src.RG)
		if err != nil {
			return false
		}
		krg, err := simpleValue(src.KRG)
		if err != nil {
			return false
		}
		want := Tracker{
			RG:  simplePoint(simpleMul(rg, s)),
			KRG: simplePoint(simpleMul(krg, s)),
		}
		if out[j] != want {
			return false
		}
	}
	return true
}

func randUint64(rand io.Reader) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(rand, buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(buf[:]), nil
}
