package wcrypto_test

import (
	"encoding/json"
	"testing"

	"github.com/gordian-engine/whisk/wcrypto"
	"github.com/stretchr/testify/require"
)

func TestPoint_TextRoundTrip(t *testing.T) {
	t.Parallel()

	var p wcrypto.Point
	for i := range p {
		p[i] = byte(i)
	}

	text, err := p.MarshalText()
	require.NoError(t, err)

	var got wcrypto.Point
	require.NoError(t, got.UnmarshalText(text))
	require.Equal(t, p, got)

	require.Error(t, got.UnmarshalText(text[:10]))
}

func TestTracker_JSON(t *testing.T) {
	t.Parallel()

	var tr wcrypto.Tracker
	tr.RG[0] = 0xaa
	tr.KRG[47] = 0xbb

	data, err := json.Marshal(tr)
	require.NoError(t, err)

	var got wcrypto.Tracker
	require.NoError(t, json.Unmarshal(data, &got))
	require.Equal(t, tr, got)
}
