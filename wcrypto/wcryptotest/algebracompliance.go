package wcryptotest

import (
	"crypto/rand"
	"testing"

	"github.com/gordian-engine/whisk/wcrypto"
	"github.com/stretchr/testify/require"
)

// TestAlgebraCompliance tests the required behavior of
// an implementation of [wcrypto.Algebra].
//
// Every implementation must pass this suite;
// implementation-specific behavior such as proof wire sizes
// belongs in the implementation's own tests.
func TestAlgebraCompliance(t *testing.T, alg wcrypto.Algebra) {
	t.Parallel()

	secrets := DeterministicSecrets(8)

	t.Run("GenerateTracker", func(t *testing.T) {
		t.Run("deterministic", func(t *testing.T) {
			t.Parallel()

			t1, err := alg.GenerateTracker(secrets[0], secrets[1])
			require.NoError(t, err)
			t2, err := alg.GenerateTracker(secrets[0], secrets[1])
			require.NoError(t, err)
			require.Equal(t, t1, t2)
		})

		t.Run("distinct secrets give distinct trackers", func(t *testing.T) {
			t.Parallel()

			t1, err := alg.GenerateTracker(secrets[0], secrets[2])
			require.NoError(t, err)
			t2, err := alg.GenerateTracker(secrets[1], secrets[2])
			require.NoError(t, err)
			require.NotEqual(t, t1, t2)
		})

		t.Run("rejects zero secret", func(t *testing.T) {
			t.Parallel()

			_, err := alg.GenerateTracker(wcrypto.SecretScalar{}, secrets[0])
			require.ErrorIs(t, err, wcrypto.ErrInvalidScalar)

			_, err = alg.GenerateTracker(secrets[0], wcrypto.SecretScalar{})
			require.ErrorIs(t, err, wcrypto.ErrInvalidScalar)
		})
	})

	t.Run("IsMatchingTracker", func(t *testing.T) {
		t.Parallel()

		tr, err := alg.GenerateTracker(secrets[0], secrets[1])
		require.NoError(t, err)

		require.True(t, alg.IsMatchingTracker(tr, secrets[0]))
		require.False(t, alg.IsMatchingTracker(tr, secrets[2]))
	})

	t.Run("RerandomizeTracker", func(t *testing.T) {
		t.Parallel()

		tr, err := alg.GenerateTracker(secrets[0], secrets[1])
		require.NoError(t, err)

		rr, err := alg.RerandomizeTracker(tr, secrets[3])
		require.NoError(t, err)

		// The blinded tracker is a different value
		// but still encodes the same secret.
		require.NotEqual(t, tr, rr)
		require.True(t, alg.IsMatchingTracker(rr, secrets[0]))
		require.False(t, alg.IsMatchingTracker(rr, secrets[2]))
	})

	t.Run("opening proofs", func(t *testing.T) {
		t.Parallel()

		tr, err := alg.GenerateTracker(secrets[0], secrets[1])
		require.NoError(t, err)
		c, err := alg.Commit(secrets[0])
		require.NoError(t, err)

		t.Run("valid proof verifies", func(t *testing.T) {
			t.Parallel()

			proof, err := alg.ProveOpening(tr, secrets[0], rand.Reader)
			require.NoError(t, err)
			require.True(t, alg.VerifyOpening(tr, c, proof))
		})

		t.Run("proving with the wrong secret fails", func(t *testing.T) {
			t.Parallel()

			_, err := alg.ProveOpening(tr, secrets[2], rand.Reader)
			require.Error(t, err)
		})

		t.Run("wrong commitment rejected", func(t *testing.T) {
			t.Parallel()

			proof, err := alg.ProveOpening(tr, secrets[0], rand.Reader)
			require.NoError(t, err)

			other, err := alg.Commit(secrets[2])
			require.NoError(t, err)
			require.False(t, alg.VerifyOpening(tr, other, proof))
		})

		t.Run("wrong tracker rejected", func(t *testing.T) {
			t.Parallel()

			proof, err := alg.ProveOpening(tr, secrets[0], rand.Reader)
			require.NoError(t, err)

			otherTr, err := alg.GenerateTracker(secrets[2], secrets[1])
			require.NoError(t, err)
			require.False(t, alg.VerifyOpening(otherTr, c, proof))
		})

		t.Run("tampered proof rejected", func(t *testing.T) {
			t.Parallel()

			proof, err := alg.ProveOpening(tr, secrets[0], rand.Reader)
			require.NoError(t, err)

			tampered := append(wcrypto.OpeningProof(nil), proof...)
			tampered[len(tampered)-1] ^= 1
			require.False(t, alg.VerifyOpening(tr, c, tampered))

			require.False(t, alg.VerifyOpening(tr, c, proof[:len(proof)-1]))
			require.False(t, alg.VerifyOpening(tr, c, nil))
		})
	})

	t.Run("shuffle proofs", func(t *testing.T) {
		t.Parallel()

		in := make([]wcrypto.Tracker, 4)
		for i := range in {
			tr, err := alg.GenerateTracker(secrets[i], secrets[7-i])
			require.NoError(t, err)
			in[i] = tr
		}

		t.Run("valid shuffle verifies", func(t *testing.T) {
			t.Parallel()

			out, proof, err := alg.ProveShuffle(in, rand.Reader)
			require.NoError(t, err)
			require.Len(t, out, len(in))
			require.True(t, alg.VerifyShuffle(in, out, proof))
		})

		t.Run("outputs still encode the input secrets", func(t *testing.T) {
			t.Parallel()

			out, _, err := alg.ProveShuffle(in, rand.Reader)
			require.NoError(t, err)

			// Every output must be linked to exactly one input secret.
			for _, o := range out {
				matches := 0
				for i := range in {
					if alg.IsMatchingTracker(o, secrets[i]) {
						matches++
					}
				}
				require.Equal(t, 1, matches)
			}
		})

		t.Run("single mutated output rejected", func(t *testing.T) {
			t.Parallel()

			out, proof, err := alg.ProveShuffle(in, rand.Reader)
			require.NoError(t, err)

			mutated := append([]wcrypto.Tracker(nil), out...)
			mutated[2] = in[0]
			require.False(t, alg.VerifyShuffle(in, mutated, proof))
		})

		t.Run("swapped outputs rejected", func(t *testing.T) {
			t.Parallel()

			out, proof, err := alg.ProveShuffle(in, rand.Reader)
			require.NoError(t, err)

			// Still a permutation of a re-randomization,
			// but not the one the proof commits to.
			swapped := append([]wcrypto.Tracker(nil), out...)
			swapped[0], swapped[1] = swapped[1], swapped[0]
			require.False(t, alg.VerifyShuffle(in, swapped, proof))
		})

		t.Run("re-proved non-permutation rejected", func(t *testing.T) {
			t.Parallel()

			// A dishonest shuffler proves from scratch against a forged
			// input list where one entry duplicates another,
			// dropping a validator from the output multiset.
			// The proof is internally consistent for the forged list
			// but must not verify against the true inputs.
			forged := append([]wcrypto.Tracker(nil), in...)
			forged[1] = in[0]

			out, proof, err := alg.ProveShuffle(forged, rand.Reader)
			require.NoError(t, err)
			require.True(t, alg.VerifyShuffle(forged, out, proof))
			require.False(t, alg.VerifyShuffle(in, out, proof))
		})

		t.Run("size mismatch rejected", func(t *testing.T) {
			t.Parallel()

			out, proof, err := alg.ProveShuffle(in, rand.Reader)
			require.NoError(t, err)

			require.False(t, alg.VerifyShuffle(in, out[:len(out)-1], proof))
			require.False(t, alg.VerifyShuffle(in[:len(in)-1], out, proof))
		})

		t.Run("truncated proof rejected", func(t *testing.T) {
			t.Parallel()

			out, proof, err := alg.ProveShuffle(in, rand.Reader)
			require.NoError(t, err)

			require.False(t, alg.VerifyShuffle(in, out, proof[:len(proof)-1]))
			require.False(t, alg.VerifyShuffle(in, out, nil))
		})

		t.Run("empty input rejected", func(t *testing.T) {
			t.Parallel()

			_, _, err := alg.ProveShuffle(nil, rand.Reader)
			require.ErrorIs(t, err, wcrypto.ErrEmptyShuffle)
		})
	})
}
