package cambio

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestTryAddPlayerRejectsDuplicate(t *testing.T) {
	var g GameData
	id := uuid.New()
	require.NoError(t, g.TryAddPlayer(id))
	require.ErrorIs(t, g.TryAddPlayer(id), ErrDuplicatePlayer)
	require.Equal(t, 1, g.PlayerCount())
}

func TestRemovePlayerPreservesOrder(t *testing.T) {
	var g GameData
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	_ = g.TryAddPlayer(a)
	_ = g.TryAddPlayer(b)
	_ = g.TryAddPlayer(c)

	g.RemovePlayer(b)
	require.Equal(t, []uuid.UUID{a, c}, []uuid.UUID{g.Players[0].ID, g.Players[1].ID})
}

func TestDealStartingHandsGivesFourCardsEach(t *testing.T) {
	var g GameData
	_ = g.TryAddPlayer(uuid.New())
	_ = g.TryAddPlayer(uuid.New())
	deck := FullDeck()

	g.DealStartingHands(&deck)
	require.Len(t, g.Players[0].Hand, 4)
	require.Len(t, g.Players[1].Hand, 4)
	require.Equal(t, StartingDeckLen-8, deck.Len())
}
