package cambio

import "math/rand"

// StartingDeckLen is the number of cards in a freshly built deck: the
// standard 52 plus 2 jokers.
const StartingDeckLen = 54

// Deck is an ordered stack of cards. Draw removes from the end of the
// slice — the "top" of the deck — so repeated appends/pops stay O(1).
type Deck struct {
	cards []Card
}

// FullDeck builds a new, unshuffled 54-card deck: every Suit × Face
// combination followed by two Jokers.
func FullDeck() Deck {
	cards := make([]Card, 0, StartingDeckLen)
	for _, suit := range []Suit{Clubs, Diamonds, Hearts, Spades} {
		for face := Ace; face <= King; face++ {
			cards = append(cards, NewCard(suit, face))
		}
	}
	cards = append(cards, JokerCard, JokerCard)
	return Deck{cards: cards}
}

// Len reports the number of cards remaining in the deck.
func (d *Deck) Len() int {
	return len(d.cards)
}

// Shuffle randomizes the deck in place using the supplied source, so the
// caller controls determinism (tests inject a seeded source; the driver
// injects a process-wide one).
func (d *Deck) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Draw removes and returns the top card. The second return is false if
// the deck is empty.
func (d *Deck) Draw() (Card, bool) {
	n := len(d.cards)
	if n == 0 {
		return Card{}, false
	}
	card := d.cards[n-1]
	d.cards = d.cards[:n-1]
	return card, true
}
