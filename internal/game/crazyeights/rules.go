package crazyeights

// IsLegalPlay reports whether card may be played against the active suit and
// rank: eights are always legal, otherwise the suit or the rank must match.
func IsLegalPlay(card Card, suit Suit, rank Rank) bool {
	return card.Rank == RankEight || card.Suit == suit || card.Rank == rank
}

// PlayableCards returns the cards in hand that are legal against the active
// suit and rank, preserving hand order. Used by the API layer so clients can
// highlight legal moves without re-implementing the rules.
func PlayableCards(hand []Card, suit Suit, rank Rank) []Card {
	var out []Card
	for _, c := range hand {
		if IsLegalPlay(c, suit, rank) {
			out = append(out, c)
		}
	}
	return out
}
