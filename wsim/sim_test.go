package wsim_test

import (
	"context"
	"crypto/rand"
	"testing"

	"github.com/gordian-engine/whisk/wcrypto"
	"github.com/gordian-engine/whisk/whisk"
	"github.com/gordian-engine/whisk/wsim"
	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/require"
)

var simParams = whisk.Params{
	CandidateTrackersCount: 6,
	ProposerTrackersCount:  3,
}

func TestSimulator_RunEpochs(t *testing.T) {
	t.Parallel()

	sim, err := wsim.New(slogt.New(t), wsim.Config{
		Algebra:       wcrypto.SimpleAlgebra{},
		Params:        simParams,
		NumValidators: 4,
		Rand:          rand.Reader,
	})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, sim.Run(ctx, 3))

	snap := sim.Snapshot()
	require.True(t, snap.ScheduleReady)
	require.Len(t, snap.CandidateTrackers, simParams.CandidateTrackersCount)
	require.Len(t, snap.ProposerTrackers, simParams.ProposerTrackersCount)
	require.Len(t, snap.Validators, 4)
}

func TestSimulator_canceledContextStopsRun(t *testing.T) {
	t.Parallel()

	sim, err := wsim.New(slogt.New(t), wsim.Config{
		Algebra:       wcrypto.SimpleAlgebra{},
		Params:        simParams,
		NumValidators: 4,
		Rand:          rand.Reader,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, sim.Run(ctx, 3), context.Canceled)
}
