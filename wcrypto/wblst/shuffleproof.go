package wblst

import (
	"crypto/sha256"
	"encoding/binary"
	"io"

	"github.com/gordian-engine/whisk/wcrypto"
	"github.com/holiman/uint256"
	blst "github.com/supranational/blst/bindings/go"
)

// The domain separation tag for shuffle-proof transcripts.
var shuffleProofDST = []byte("WHISK_SHUFFLE_BLS12381G1_SHA256_1OFN_DLEQ_")

// branchSize is the wire size of a single one-of-N branch:
// the two commitment points and the challenge and response scalars.
const branchSize = 2*wcrypto.PointSize + 2*wcrypto.ScalarSize

// The shuffle argument is a bidirectional one-of-N OR-composition of
// Chaum-Pedersen DLEQ statements.
// The forward blocks prove, for each output j,
// that it re-randomizes *some* input, without revealing which.
// The reverse blocks prove, for each input i,
// that *some* output re-randomizes it.
// Only the branch for the true pairing is proven honestly;
// every other branch is simulated with a freely chosen challenge,
// and each block's branch challenges are constrained to sum to its
// transcript-derived master challenge.
//
// The forward direction alone would accept a mapping that sends
// several outputs to one input, silently dropping the rest.
// With equal cardinality, the reverse blocks close that hole:
// every input must have an image among the outputs,
// and an output cannot re-randomize two unlinked inputs,
// so the mapping is forced into a bijection.
// Inputs that are already linked (duplicates of one validator's tracker)
// remain interchangeable, which is exactly the linkage the pool exposes.
//
// This replaces the polynomial-commitment shuffle argument
// of the reference protocol with an O(N^2) sigma protocol
// satisfying the same contract:
// completeness for any permutation and re-randomization,
// rejection of any mutated output element and of any non-permutation
// mapping, and hiding of the permutation.

// decodedTracker pairs the decoded components of one tracker.
type decodedTracker struct {
	rg, krg *blst.P1Affine
}

func decodeTrackers(ts []wcrypto.Tracker) ([]decodedTracker, error) {
	out := make([]decodedTracker, len(ts))
	for i, t := range ts {
		rg, err := decodePoint(t.RG)
		if err != nil {
			return nil, err
		}
		krg, err := decodePoint(t.KRG)
		if err != nil {
			return nil, err
		}
		out[i] = decodedTracker{rg: rg, krg: krg}
	}
	return out, nil
}

// orStatement is one branch of a one-of-N block:
// the claim that target is a re-randomization of base.
type orStatement struct {
	base, target decodedTracker
}

// shuffleBase hashes the full statement: both tracker sequences.
func shuffleBase(in, out []wcrypto.Tracker) [sha256.Size]byte {
	h := sha256.New()
	h.Write(shuffleProofDST)

	var count [4]byte
	binary.BigEndian.PutUint32(count[:], uint32(len(in)))
	h.Write(count[:])

	for _, t := range in {
		h.Write(t.RG[:])
		h.Write(t.KRG[:])
	}
	for _, t := range out {
		h.Write(t.RG[:])
		h.Write(t.KRG[:])
	}

	var digest [sha256.Size]byte
	h.Sum(digest[:0])
	return digest
}

// shuffleChallenge derives a block's master challenge
// from the statement digest, the block index,
// and the commitment points of every branch.
// Forward blocks use indexes 0..n-1 and reverse blocks n..2n-1.
func shuffleChallenge(base [sha256.Size]byte, block uint32, commitments []byte) *uint256.Int {
	h := sha256.New()
	h.Write(base[:])

	var bb [4]byte
	binary.BigEndian.PutUint32(bb[:], block)
	h.Write(bb[:])

	h.Write(commitments)

	var digest [sha256.Size]byte
	h.Sum(digest[:0])
	return hashToScalar(digest)
}

// appendORBlock appends one one-of-N block to proof,
// proving stmts[real] honestly with the supplied secret
// and simulating every other branch.
func appendORBlock(
	proof wcrypto.ShuffleProof,
	stmts []orStatement,
	real int,
	secret *uint256.Int,
	base [sha256.Size]byte,
	block uint32,
	rand io.Reader,
) (wcrypto.ShuffleProof, error) {
	n := len(stmts)

	a1 := make([]*blst.P1Affine, n)
	a2 := make([]*blst.P1Affine, n)
	chals := make([]*uint256.Int, n)
	resps := make([]*uint256.Int, n)

	sumOther := new(uint256.Int)
	for i := 0; i < n; i++ {
		if i == real {
			continue
		}
		c, err := randScalar(rand)
		if err != nil {
			return nil, err
		}
		z, err := randScalar(rand)
		if err != nil {
			return nil, err
		}
		chals[i] = c
		resps[i] = z
		negC := negMod(c)
		a1[i] = addPoints(mulPoint(stmts[i].base.rg, z), mulPoint(stmts[i].target.rg, negC))
		a2[i] = addPoints(mulPoint(stmts[i].base.krg, z), mulPoint(stmts[i].target.krg, negC))
		sumOther = addMod(sumOther, c)
	}

	w, err := randScalar(rand)
	if err != nil {
		return nil, err
	}
	a1[real] = mulPoint(stmts[real].base.rg, w)
	a2[real] = mulPoint(stmts[real].base.krg, w)

	commitments := make([]byte, 0, n*2*wcrypto.PointSize)
	for i := 0; i < n; i++ {
		commitments = append(commitments, a1[i].Compress()...)
		commitments = append(commitments, a2[i].Compress()...)
	}

	master := shuffleChallenge(base, block, commitments)
	chals[real] = subMod(master, sumOther)
	resps[real] = addMod(w, mulMod(chals[real], secret))

	for i := 0; i < n; i++ {
		proof = append(proof, a1[i].Compress()...)
		proof = append(proof, a2[i].Compress()...)
		cb := scalarBytes(chals[i])
		proof = append(proof, cb[:]...)
		zb := scalarBytes(resps[i])
		proof = append(proof, zb[:]...)
	}
	return proof, nil
}

// verifyORBlock checks one one-of-N block:
// both DLEQ equations per branch,
// and the branch challenges summing to the block's master challenge.
func verifyORBlock(stmts []orStatement, base [sha256.Size]byte, block uint32, branches []byte) bool {
	n := len(stmts)

	commitments := make([]byte, 0, n*2*wcrypto.PointSize)
	for i := 0; i < n; i++ {
		commitments = append(commitments, branches[i*branchSize:i*branchSize+2*wcrypto.PointSize]...)
	}
	master := shuffleChallenge(base, block, commitments)

	sum := new(uint256.Int)
	for i := 0; i < n; i++ {
		branch := branches[i*branchSize : (i+1)*branchSize]

		var a1p, a2p wcrypto.Point
		copy(a1p[:], branch[:wcrypto.PointSize])
		copy(a2p[:], branch[wcrypto.PointSize:2*wcrypto.PointSize])
		a1, err := decodePoint(a1p)
		if err != nil {
			return false
		}
		a2, err := decodePoint(a2p)
		if err != nil {
			return false
		}

		scalars := branch[2*wcrypto.PointSize:]
		c, ok := scalarFromBytes(scalars[:wcrypto.ScalarSize])
		if !ok {
			return false
		}
		z, ok := scalarFromBytes(scalars[wcrypto.ScalarSize:])
		if !ok {
			return false
		}

		if !pointsEqual(
			mulPoint(stmts[i].base.rg, z),
			addPoints(a1, mulPoint(stmts[i].target.rg, c)),
		) {
			return false
		}
		if !pointsEqual(
			mulPoint(stmts[i].base.krg, z),
			addPoints(a2, mulPoint(stmts[i].target.krg, c)),
		) {
			return false
		}

		sum = addMod(sum, c)
	}

	return sum.Cmp(master) == 0
}

func proveShuffle(in []wcrypto.Tracker, rand io.Reader) ([]wcrypto.Tracker, wcrypto.ShuffleProof, error) {
	n := len(in)
	if n == 0 {
		return nil, nil, wcrypto.ErrEmptyShuffle
	}

	decIn, err := decodeTrackers(in)
	if err != nil {
		return nil, nil, err
	}

	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	for i := n - 1; i > 0; i-- {
		var buf [8]byte
		if _, err := io.ReadFull(rand, buf[:]); err != nil {
			return nil, nil, err
		}
		j := int(binary.BigEndian.Uint64(buf[:]) % uint64(i+1))
		perm[i], perm[j] = perm[j], perm[i]
	}
	invPerm := make([]int, n)
	for j, p := range perm {
		invPerm[p] = j
	}

	out := make([]wcrypto.Tracker, n)
	decOut := make([]decodedTracker, n)
	blinders := make([]*uint256.Int, n)
	for j := range out {
		s, err := randScalar(rand)
		if err != nil {
			return nil, nil, err
		}
		blinders[j] = s

		src := decIn[perm[j]]
		rg := mulPoint(src.rg, s)
		krg := mulPoint(src.krg, s)
		decOut[j] = decodedTracker{rg: rg, krg: krg}
		out[j] = wcrypto.Tracker{RG: encodePoint(rg), KRG: encodePoint(krg)}
	}

	base := shuffleBase(in, out)

	proof := make(wcrypto.ShuffleProof, 0, 4+2*n*n*branchSize)
	proof = binary.BigEndian.AppendUint32(proof, uint32(n))

	// Forward blocks: each output re-randomizes some input.
	for j := 0; j < n; j++ {
		stmts := make([]orStatement, n)
		for i := range stmts {
			stmts[i] = orStatement{base: decIn[i], target: decOut[j]}
		}
		proof, err = appendORBlock(proof, stmts, perm[j], blinders[j], base, uint32(j), rand)
		if err != nil {
			return nil, nil, err
		}
	}

	// Reverse blocks: each input has some output as its re-randomization.
	for i := 0; i < n; i++ {
		stmts := make([]orStatement, n)
		for j := range stmts {
			stmts[j] = orStatement{base: decIn[i], target: decOut[j]}
		}
		j := invPerm[i]
		proof, err = appendORBlock(proof, stmts, j, blinders[j], base, uint32(n+i), rand)
		if err != nil {
			return nil, nil, err
		}
	}

	return out, proof, nil
}

func verifyShuffle(in, out []wcrypto.Tracker, proof wcrypto.ShuffleProof) bool {
	n := len(in)
	if n == 0 || len(out) != n {
		return false
	}
	if len(proof) != 4+2*n*n*branchSize {
		return false
	}
	if binary.BigEndian.Uint32(proof) != uint32(n) {
		return false
	}

	decIn, err := decodeTrackers(in)
	if err != nil {
		return false
	}
	decOut, err := decodeTrackers(out)
	if err != nil {
		return false
	}

	base := shuffleBase(in, out)
	body := proof[4:]

	for j := 0; j < n; j++ {
		stmts := make([]orStatement, n)
		for i := range stmts {
			stmts[i] = orStatement{base: decIn[i], target: decOut[j]}
		}
		if !verifyORBlock(stmts, base, uint32(j), body[j*n*branchSize:(j+1)*n*branchSize]) {
			return false
		}
	}

	rev := body[n*n*branchSize:]
	for i := 0; i < n; i++ {
		stmts := make([]orStatement, n)
		for j := range stmts {
			stmts[j] = orStatement{base: decIn[i], target: decOut[j]}
		}
		if !verifyORBlock(stmts, base, uint32(n+i), rev[i*n*branchSize:(i+1)*n*branchSize]) {
			return false
		}
	}

	return true
}
