package cambio

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecisionJSONShape(t *testing.T) {
	data, err := json.Marshal(BlindSwap)
	require.NoError(t, err)
	require.JSONEq(t, `"BlindSwap"`, string(data))

	var got Decision
	require.NoError(t, json.Unmarshal(data, &got))
	require.Equal(t, BlindSwap, got)
}

func TestDecisionUnmarshalRejectsUnknownTag(t *testing.T) {
	var d Decision
	require.Error(t, json.Unmarshal([]byte(`"Teleport"`), &d))
}

func TestValidSetAlwaysAllowsDiscardAndReplace(t *testing.T) {
	for _, c := range []Card{NewCard(Clubs, Ace), NewCard(Hearts, King), JokerCard} {
		set := ValidSet(c)
		require.True(t, set.Contains(Discard))
		require.True(t, set.Contains(Replace))
	}
}

func TestValidSetSevenEightAllowsLookAtOwn(t *testing.T) {
	require.True(t, ValidSet(NewCard(Clubs, Seven)).Contains(LookAtOwn))
	require.True(t, ValidSet(NewCard(Clubs, Eight)).Contains(LookAtOwn))
	require.False(t, ValidSet(NewCard(Clubs, Ace)).Contains(LookAtOwn))
}

func TestValidSetKingAllowsLookAndSwap(t *testing.T) {
	require.True(t, ValidSet(NewCard(Spades, King)).Contains(LookAndSwap))
}

func TestValidSetJokerIsBaselineOnly(t *testing.T) {
	set := ValidSet(JokerCard)
	require.False(t, set.Contains(LookAtOwn))
	require.False(t, set.Contains(BlindSwap))
}
