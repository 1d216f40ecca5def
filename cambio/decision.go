package cambio

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Decision is an action a player may take after drawing a card.
type Decision int

const (
	Discard Decision = iota
	Replace
	LookAtOwn
	LookAtOther
	BlindSwap
	LookAndSwap
)

func (d Decision) String() string {
	switch d {
	case Discard:
		return "discard"
	case Replace:
		return "replace"
	case LookAtOwn:
		return "look_at_own"
	case LookAtOther:
		return "look_at_other"
	case BlindSwap:
		return "blind_swap"
	case LookAndSwap:
		return "look_and_swap"
	default:
		return "unknown"
	}
}

// wireName is the wire-format spelling of a decision: a bare, capitalized
// variant name, matching how Card's tags are spelled on the wire.
func (d Decision) wireName() string {
	switch d {
	case Discard:
		return "Discard"
	case Replace:
		return "Replace"
	case LookAtOwn:
		return "LookAtOwn"
	case LookAtOther:
		return "LookAtOther"
	case BlindSwap:
		return "BlindSwap"
	case LookAndSwap:
		return "LookAndSwap"
	default:
		return "Unknown"
	}
}

func decisionFromWire(s string) (Decision, error) {
	switch s {
	case "Discard":
		return Discard, nil
	case "Replace":
		return Replace, nil
	case "LookAtOwn":
		return LookAtOwn, nil
	case "LookAtOther":
		return LookAtOther, nil
	case "BlindSwap":
		return BlindSwap, nil
	case "LookAndSwap":
		return LookAndSwap, nil
	default:
		return 0, errors.Errorf("cambio: unknown decision %q", s)
	}
}

// MarshalJSON encodes Decision as a bare, capitalized string tag (e.g.
// "Discard"), matching Card's tagged-variant wire representation.
func (d Decision) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.wireName())
}

// UnmarshalJSON decodes Decision from its wire string tag.
func (d *Decision) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.Wrap(err, "cambio: decode decision")
	}
	v, err := decisionFromWire(s)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// DecisionSet is a bitset over Decision, mirroring the bit-per-variant
// set the original engine used to describe which decisions a drawn card
// permits.
type DecisionSet uint64

func decisionBit(d Decision) DecisionSet {
	return DecisionSet(1) << uint(d)
}

// Contains reports whether d is a member of the set.
func (s DecisionSet) Contains(d Decision) bool {
	return s&decisionBit(d) != 0
}

func newDecisionSet(ds ...Decision) DecisionSet {
	var s DecisionSet
	for _, d := range ds {
		s |= decisionBit(d)
	}
	return s
}

// ValidSet returns the decisions a player may choose from after drawing
// the given card. Discard and Replace are always available; 7s and 8s
// additionally allow looking at one's own card, 9s and 10s allow looking
// at another player's card, jacks and queens allow a blind swap, and
// kings allow a look-and-swap. Jokers only ever permit the baseline
// discard/replace choice.
func ValidSet(c Card) DecisionSet {
	base := newDecisionSet(Discard, Replace)
	if c.IsJoker {
		return base
	}
	switch c.Face {
	case Seven, Eight:
		return base | decisionBit(LookAtOwn)
	case Nine, Ten:
		return base | decisionBit(LookAtOther)
	case Jack, Queen:
		return base | decisionBit(BlindSwap)
	case King:
		return base | decisionBit(LookAndSwap)
	default:
		return base
	}
}
