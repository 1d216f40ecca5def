package cambio

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrDuplicatePlayer is returned by GameData.TryAddPlayer when the id is
// already seated.
var ErrDuplicatePlayer = errors.New("player already exists in this game")

// PlayerData is one seat's durable state across a game: identity, hand,
// and derived score.
type PlayerData struct {
	ID    uuid.UUID `json:"id"`
	Hand  []Card    `json:"hand"`
	Score int       `json:"score"`
}

// Recompute sums the game value of every card in hand into Score.
func (p *PlayerData) Recompute() {
	total := 0
	for _, c := range p.Hand {
		total += c.GameValue()
	}
	p.Score = total
}

// GameData is the ordered collection of seated players. Order is seating
// order: index 0 is always the host.
type GameData struct {
	Players []PlayerData
}

// PlayerCount reports the number of seated players.
func (g *GameData) PlayerCount() int {
	return len(g.Players)
}

// Exists reports whether id already occupies a seat.
func (g *GameData) Exists(id uuid.UUID) bool {
	for _, p := range g.Players {
		if p.ID == id {
			return true
		}
	}
	return false
}

// TryAddPlayer seats a new player, rejecting a duplicate id.
func (g *GameData) TryAddPlayer(id uuid.UUID) error {
	if g.Exists(id) {
		return ErrDuplicatePlayer
	}
	g.Players = append(g.Players, PlayerData{ID: id})
	return nil
}

// RemovePlayer unseats id, if present. Seating order of the remaining
// players is preserved.
func (g *GameData) RemovePlayer(id uuid.UUID) {
	for i, p := range g.Players {
		if p.ID == id {
			g.Players = append(g.Players[:i], g.Players[i+1:]...)
			return
		}
	}
}

// SeatOf returns the seat index of id, or -1 if not seated.
func (g *GameData) SeatOf(id uuid.UUID) int {
	for i, p := range g.Players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// DealStartingHands moves four cards from the top of deck to each
// player, in seat order. Any existing hand is discarded first, so this
// is safe to call again at the start of every round.
func (g *GameData) DealStartingHands(deck *Deck) {
	const startingHandSize = 4
	for i := range g.Players {
		g.Players[i].Hand = g.Players[i].Hand[:0]
		for n := 0; n < startingHandSize; n++ {
			card, ok := deck.Draw()
			if !ok {
				return
			}
			g.Players[i].Hand = append(g.Players[i].Hand, card)
		}
		g.Players[i].Recompute()
	}
}
