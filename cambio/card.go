// Package cambio holds the domain core of the card game: cards, decks,
// decisions, and per-game player data. It performs no I/O and knows
// nothing about networking, sockets, or JSON framing.
package cambio

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
)

// Suit is one of the four standard card suits.
type Suit int

const (
	Clubs Suit = iota
	Diamonds
	Hearts
	Spades
)

func (s Suit) String() string {
	switch s {
	case Clubs:
		return "clubs"
	case Diamonds:
		return "diamonds"
	case Hearts:
		return "hearts"
	case Spades:
		return "spades"
	default:
		return "unknown"
	}
}

// wireName is the wire-format spelling of a suit: capitalized, matching
// the enum variant names used on the wire.
func (s Suit) wireName() string {
	switch s {
	case Clubs:
		return "Clubs"
	case Diamonds:
		return "Diamonds"
	case Hearts:
		return "Hearts"
	case Spades:
		return "Spades"
	default:
		return "Unknown"
	}
}

func suitFromWire(s string) (Suit, error) {
	switch s {
	case "Clubs":
		return Clubs, nil
	case "Diamonds":
		return Diamonds, nil
	case "Hearts":
		return Hearts, nil
	case "Spades":
		return Spades, nil
	default:
		return 0, errors.Errorf("cambio: unknown suit %q", s)
	}
}

// red reports whether the suit is drawn in red ink (diamonds, hearts).
func (s Suit) red() bool {
	return s == Diamonds || s == Hearts
}

// Face is the rank of a normal card, Ace through King.
type Face int

const (
	Ace Face = 1 + iota
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
)

func (f Face) String() string {
	switch f {
	case Ace:
		return "ace"
	case Jack:
		return "jack"
	case Queen:
		return "queen"
	case King:
		return "king"
	default:
		return fmt.Sprintf("%d", int(f))
	}
}

var faceWireNames = [...]string{
	Ace: "Ace", Two: "Two", Three: "Three", Four: "Four", Five: "Five",
	Six: "Six", Seven: "Seven", Eight: "Eight", Nine: "Nine", Ten: "Ten",
	Jack: "Jack", Queen: "Queen", King: "King",
}

// wireName is the wire-format spelling of a face: capitalized, matching
// the enum variant names used on the wire.
func (f Face) wireName() string {
	if int(f) >= 0 && int(f) < len(faceWireNames) && faceWireNames[f] != "" {
		return faceWireNames[f]
	}
	return "Unknown"
}

func faceFromWire(s string) (Face, error) {
	for f, name := range faceWireNames {
		if name == s {
			return Face(f), nil
		}
	}
	return 0, errors.Errorf("cambio: unknown face %q", s)
}

// Card is a tagged union: either a Normal{Suit,Face} card, or a Joker.
// IsJoker distinguishes the two; Suit/Face are meaningless when IsJoker
// is true.
type Card struct {
	IsJoker bool
	Suit    Suit
	Face    Face
}

type normalCardWire struct {
	Suit string `json:"suit"`
	Face string `json:"face"`
}

type cardWire struct {
	Normal normalCardWire `json:"Normal"`
}

// MarshalJSON encodes Card as the wire's tagged representation:
// {"Normal":{"suit":"Hearts","face":"King"}} for a normal card, or the
// bare string "Joker" for a joker.
func (c Card) MarshalJSON() ([]byte, error) {
	if c.IsJoker {
		return json.Marshal("Joker")
	}
	return json.Marshal(cardWire{Normal: normalCardWire{
		Suit: c.Suit.wireName(),
		Face: c.Face.wireName(),
	}})
}

// UnmarshalJSON decodes Card from either the bare string "Joker" or the
// {"Normal":{...}} tagged object.
func (c *Card) UnmarshalJSON(data []byte) error {
	var tag string
	if err := json.Unmarshal(data, &tag); err == nil {
		if tag != "Joker" {
			return errors.Errorf("cambio: unknown card tag %q", tag)
		}
		*c = JokerCard
		return nil
	}
	var wire cardWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return errors.Wrap(err, "cambio: decode card")
	}
	suit, err := suitFromWire(wire.Normal.Suit)
	if err != nil {
		return err
	}
	face, err := faceFromWire(wire.Normal.Face)
	if err != nil {
		return err
	}
	*c = Card{Suit: suit, Face: face}
	return nil
}

// NewCard builds a Normal card.
func NewCard(suit Suit, face Face) Card {
	return Card{Suit: suit, Face: face}
}

// JokerCard is the wild card, of which a deck holds exactly two.
var JokerCard = Card{IsJoker: true}

// GameValue returns the card's contribution to a player's score.
// A red king scores -2 (the only negative value in the game); a black
// king scores 13. Face cards above ten score their rank; number cards
// score their face value; a joker scores 0.
func (c Card) GameValue() int {
	if c.IsJoker {
		return 0
	}
	if c.Face == King {
		if c.Suit.red() {
			return -2
		}
		return 13
	}
	return int(c.Face)
}

func (c Card) String() string {
	if c.IsJoker {
		return "joker"
	}
	return fmt.Sprintf("%s of %s", c.Face, c.Suit)
}
