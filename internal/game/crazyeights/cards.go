package crazyeights

import (
	"fmt"
	"strings"
)

type Suit string

const (
	Hearts   Suit = "hearts"
	Diamonds Suit = "diamonds"
	Clubs    Suit = "clubs"
	Spades   Suit = "spades"
)

// SuitOrder is the fixed enumeration order used wherever the rules need a
// deterministic walk over suits (bot tie-breaks in particular).
var SuitOrder = [4]Suit{Hearts, Diamonds, Clubs, Spades}

type Rank string

const (
	RankAce   Rank = "A"
	Rank2     Rank = "2"
	Rank3     Rank = "3"
	Rank4     Rank = "4"
	Rank5     Rank = "5"
	Rank6     Rank = "6"
	Rank7     Rank = "7"
	RankEight Rank = "8"
	Rank9     Rank = "9"
	Rank10    Rank = "10"
	RankJack  Rank = "J"
	RankQueen Rank = "Q"
	RankKing  Rank = "K"
)

// RankOrder is the canonical deck order within a suit.
var RankOrder = [13]Rank{
	RankAce, Rank2, Rank3, Rank4, Rank5, Rank6, Rank7,
	RankEight, Rank9, Rank10, RankJack, RankQueen, RankKing,
}

// Card is an immutable value. ID is assigned once at deck construction and is
// the sole identity key: two cards with equal suit and rank but different IDs
// are distinct for hand-removal purposes.
type Card struct {
	ID   string `json:"id"`
	Suit Suit   `json:"suit"`
	Rank Rank   `json:"rank"`
}

func (c Card) String() string {
	var s string
	switch c.Suit {
	case Hearts:
		s = "H"
	case Diamonds:
		s = "D"
	case Clubs:
		s = "C"
	case Spades:
		s = "S"
	default:
		s = "?"
	}
	return string(c.Rank) + s
}

// IsWild reports whether the card is the rank-8 wild card.
func (c Card) IsWild() bool {
	return c.Rank == RankEight
}

// ParseSuit accepts the long suit names used on the wire ("hearts") as well
// as single-letter shorthand ("H").
func ParseSuit(s string) (Suit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hearts", "h":
		return Hearts, nil
	case "diamonds", "d":
		return Diamonds, nil
	case "clubs", "c":
		return Clubs, nil
	case "spades", "s":
		return Spades, nil
	default:
		return "", fmt.Errorf("invalid suit %q", s)
	}
}
