package crazyeights

import "testing"

func botState(hand []Card, suit Suit, rank Rank, drawPile []Card) *GameState {
	return &GameState{
		PlayerHand:  []Card{tc(Hearts, RankKing)},
		BotHand:     hand,
		DrawPile:    drawPile,
		DiscardPile: []Card{tc(suit, rank)},
		CurrentSuit: suit,
		CurrentRank: rank,
		Turn:        SeatBot,
		Status:      StatusPlaying,
	}
}

func TestBotPlaysFirstMatchInHandOrder(t *testing.T) {
	s := botState(
		[]Card{tc(Spades, RankEight), tc(Clubs, Rank2), tc(Hearts, Rank4), tc(Hearts, Rank6)},
		Hearts, Rank2,
		nil,
	)
	move := ChooseBotMove(s)
	if move.Kind != BotPlay {
		t.Fatalf("expected a match play, got kind %d", move.Kind)
	}
	// Clubs-2 matches by rank and precedes Hearts-4 in hand order; the 8 is
	// skipped by the match scan even though it is playable.
	if move.Card.ID != "2-clubs" {
		t.Fatalf("expected first match 2-clubs, got %s", move.Card)
	}
}

func TestBotWildSuitSelection(t *testing.T) {
	// Hand [Spades-8, Clubs-3, Clubs-9] against hearts/2. No match
	// exists, so the bot plays the 8 and counts the remaining hand: clubs=2.
	s := botState(
		[]Card{tc(Spades, RankEight), tc(Clubs, Rank3), tc(Clubs, Rank9)},
		Hearts, Rank2,
		nil,
	)
	move := ChooseBotMove(s)
	if move.Kind != BotWild {
		t.Fatalf("expected wild play, got kind %d", move.Kind)
	}
	if move.Card.ID != "8-spades" || move.Suit != Clubs {
		t.Fatalf("expected 8-spades with clubs, got %s/%s", move.Card, move.Suit)
	}

	next, _, err := s.AdvanceBotTurn()
	if err != nil {
		t.Fatal(err)
	}
	if next.CurrentSuit != Clubs || next.CurrentRank != RankEight {
		t.Fatalf("expected clubs/8 after wild, got %s/%s", next.CurrentSuit, next.CurrentRank)
	}
	if next.Turn != SeatPlayer || len(next.BotHand) != 2 {
		t.Fatal("wild must pass the turn and remove exactly one card")
	}
}

func TestBotWildSuitTieBreak(t *testing.T) {
	// One spade and one club remain: tie broken by the fixed order, and
	// neither hearts nor diamonds (count zero) may win the tie over them.
	s := botState(
		[]Card{tc(Hearts, RankEight), tc(Spades, Rank4), tc(Clubs, RankJack)},
		Diamonds, Rank2,
		nil,
	)
	move := ChooseBotMove(s)
	if move.Kind != BotWild || move.Suit != Clubs {
		t.Fatalf("expected clubs by enumeration order, got kind=%d suit=%s", move.Kind, move.Suit)
	}
}

func TestBotDrawsWhenNoPlay(t *testing.T) {
	s := botState(
		[]Card{tc(Clubs, Rank3)},
		Hearts, Rank2,
		[]Card{tc(Diamonds, Rank9), tc(Spades, Rank5)},
	)
	if move := ChooseBotMove(s); move.Kind != BotDraw {
		t.Fatalf("expected draw, got kind %d", move.Kind)
	}
	next, _, err := s.AdvanceBotTurn()
	if err != nil {
		t.Fatal(err)
	}
	if len(next.BotHand) != 2 || next.BotHand[1].ID != "9-diamonds" {
		t.Fatalf("expected draw-pile head appended, hand=%v", next.BotHand)
	}
	if len(next.DrawPile) != 1 || next.Turn != SeatPlayer {
		t.Fatal("draw must consume one card and pass the turn")
	}
}

func TestBotPassesOnEmptyPile(t *testing.T) {
	s := botState([]Card{tc(Clubs, Rank3)}, Hearts, Rank2, nil)
	if move := ChooseBotMove(s); move.Kind != BotPass {
		t.Fatalf("expected pass, got kind %d", move.Kind)
	}
	next, _, err := s.AdvanceBotTurn()
	if err != nil {
		t.Fatal(err)
	}
	if len(next.BotHand) != 1 || next.Turn != SeatPlayer {
		t.Fatal("pass must leave the hand alone and return the turn")
	}
}

func TestBotDeterminism(t *testing.T) {
	s := botState(
		[]Card{tc(Spades, RankEight), tc(Clubs, Rank3), tc(Diamonds, Rank9)},
		Hearts, Rank2,
		[]Card{tc(Spades, Rank5)},
	)
	first := ChooseBotMove(s)
	for i := 0; i < 20; i++ {
		again := ChooseBotMove(s)
		if again.Kind != first.Kind || again.Suit != first.Suit {
			t.Fatalf("bot move changed between calls: %v vs %v", again, first)
		}
		if (again.Card == nil) != (first.Card == nil) {
			t.Fatal("bot card presence changed between calls")
		}
		if again.Card != nil && again.Card.ID != first.Card.ID {
			t.Fatalf("bot card changed between calls: %s vs %s", again.Card, first.Card)
		}
	}
}

func TestIsLegalPlayTable(t *testing.T) {
	cases := []struct {
		name string
		card Card
		suit Suit
		rank Rank
		want bool
	}{
		{"suit match", tc(Hearts, Rank3), Hearts, Rank9, true},
		{"rank match", tc(Clubs, Rank9), Hearts, Rank9, true},
		{"eight always legal", tc(Spades, RankEight), Hearts, Rank9, true},
		{"no match", tc(Diamonds, Rank5), Hearts, Rank9, false},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsLegalPlay(tt.card, tt.suit, tt.rank); got != tt.want {
				t.Fatalf("IsLegalPlay(%s, %s, %s) = %v, want %v", tt.card, tt.suit, tt.rank, got, tt.want)
			}
		})
	}
}

func TestEightLegalAgainstEverySuitAndRank(t *testing.T) {
	for _, s := range SuitOrder {
		for _, r := range RankOrder {
			if !IsLegalPlay(tc(Clubs, RankEight), s, r) {
				t.Fatalf("8 must be legal against %s/%s", s, r)
			}
		}
	}
}

func TestPlayableCards(t *testing.T) {
	hand := []Card{tc(Hearts, Rank3), tc(Diamonds, Rank5), tc(Spades, RankEight)}
	got := PlayableCards(hand, Hearts, Rank9)
	if len(got) != 2 {
		t.Fatalf("expected 2 playable cards, got %d", len(got))
	}
	if got[0].ID != "3-hearts" || got[1].ID != "8-spades" {
		t.Fatalf("playable cards out of order: %v", got)
	}
}
