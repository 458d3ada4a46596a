package crazyeights

import (
	"crypto/rand"
	"math/big"
	"time"

	"github.com/google/uuid"
)

// NewDeck returns the 52 (suit, rank) combinations in canonical order, each
// with a fresh unique ID. Pure apart from ID generation.
func NewDeck() []Card {
	deck := make([]Card, 0, 52)
	for _, s := range SuitOrder {
		for _, r := range RankOrder {
			deck = append(deck, Card{ID: uuid.NewString(), Suit: s, Rank: r})
		}
	}
	return deck
}

// Shuffle returns a uniformly-random permutation of cards without mutating
// the input. Crypto-secure Fisher–Yates; if crypto/rand fails we fall back to
// a time-seeded shuffle as a last resort.
func Shuffle(cards []Card) []Card {
	out := append([]Card(nil), cards...)
	for i := len(out) - 1; i > 0; i-- {
		nBig, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			fallbackShuffle(out)
			return out
		}
		j := int(nBig.Int64())
		out[i], out[j] = out[j], out[i]
	}
	return out
}

func fallbackShuffle(cards []Card) {
	// Minimal fallback (predictable) used only if crypto/rand fails.
	seed := time.Now().UnixNano()
	for i := len(cards) - 1; i > 0; i-- {
		seed = (seed*6364136223846793005 + 1) & 0x7fffffffffffffff
		j := int(seed % int64(i+1))
		cards[i], cards[j] = cards[j], cards[i]
	}
}
