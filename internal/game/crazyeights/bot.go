package crazyeights

type BotMoveKind int

const (
	BotPass BotMoveKind = iota
	BotPlay
	BotWild
	BotDraw
)

// BotMove is the single action the bot will take this turn. Card is set for
// BotPlay and BotWild; Suit is the chosen suit for BotWild.
type BotMove struct {
	Kind BotMoveKind
	Card *Card
	Suit Suit
}

// ChooseBotMove selects the bot's action by a fixed priority: first matching
// non-8 in hand order, else first 8 (with a suit chosen from the remaining
// hand), else draw, else pass. Pure function of the state, so the same hand
// and match targets always produce the same move.
func ChooseBotMove(s *GameState) BotMove {
	for i, c := range s.BotHand {
		if c.Rank == RankEight {
			continue
		}
		if c.Suit == s.CurrentSuit || c.Rank == s.CurrentRank {
			card := s.BotHand[i]
			return BotMove{Kind: BotPlay, Card: &card}
		}
	}

	for i, c := range s.BotHand {
		if c.Rank == RankEight {
			card := s.BotHand[i]
			remaining := append([]Card(nil), s.BotHand[:i]...)
			remaining = append(remaining, s.BotHand[i+1:]...)
			return BotMove{Kind: BotWild, Card: &card, Suit: bestSuit(remaining)}
		}
	}

	if len(s.DrawPile) > 0 {
		return BotMove{Kind: BotDraw}
	}
	return BotMove{Kind: BotPass}
}

// bestSuit picks the suit the bot holds most of, ties broken by the fixed
// enumeration order hearts, diamonds, clubs, spades.
func bestSuit(hand []Card) Suit {
	counts := map[Suit]int{}
	for _, c := range hand {
		counts[c.Suit]++
	}
	best := SuitOrder[0]
	for _, s := range SuitOrder[1:] {
		if counts[s] > counts[best] {
			best = s
		}
	}
	return best
}
