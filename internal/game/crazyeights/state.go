package crazyeights

type Seat string

const (
	SeatPlayer Seat = "player"
	SeatBot    Seat = "bot"
	SeatNone   Seat = ""
)

type Status string

const (
	StatusPlaying     Status = "playing"
	StatusSuitPicking Status = "suit-picking"
	StatusGameOver    Status = "game-over"
)

// GameState is the single source of truth for one game. Engine operations
// never mutate their receiver: each returns a modified deep copy, so a caller
// can never observe a half-applied transition and the previous state stays
// valid for comparison.
type GameState struct {
	PlayerHand []Card `json:"player_hand"`
	BotHand    []Card `json:"bot_hand"`

	// DrawPile[0] is the next card drawn; DiscardPile[0] is the active card.
	DrawPile    []Card `json:"draw_pile"`
	DiscardPile []Card `json:"discard_pile"`

	// CurrentSuit/CurrentRank are the effective match targets. They normally
	// mirror the active card, except after a wild 8 where CurrentSuit is
	// chosen independently and CurrentRank is forced to 8.
	CurrentSuit Suit `json:"current_suit"`
	CurrentRank Rank `json:"current_rank"`

	Turn   Seat   `json:"turn"`
	Status Status `json:"status"`
	Winner Seat   `json:"winner,omitempty"`
}

// Clone deep-copies the state, including all four card zones.
func (s *GameState) Clone() *GameState {
	out := *s
	out.PlayerHand = append([]Card(nil), s.PlayerHand...)
	out.BotHand = append([]Card(nil), s.BotHand...)
	out.DrawPile = append([]Card(nil), s.DrawPile...)
	out.DiscardPile = append([]Card(nil), s.DiscardPile...)
	return &out
}

// ActiveCard returns the discard-pile head.
func (s *GameState) ActiveCard() (Card, bool) {
	if len(s.DiscardPile) == 0 {
		return Card{}, false
	}
	return s.DiscardPile[0], true
}

// removeByID returns hand with the card matching id excised, the removed
// card, and whether it was found. Identity is by ID only.
func removeByID(hand []Card, id string) ([]Card, Card, bool) {
	for i, c := range hand {
		if c.ID == id {
			out := append([]Card(nil), hand[:i]...)
			out = append(out, hand[i+1:]...)
			return out, c, true
		}
	}
	return hand, Card{}, false
}

// pushDiscard places c at the head of the discard pile.
func pushDiscard(pile []Card, c Card) []Card {
	out := make([]Card, 0, len(pile)+1)
	out = append(out, c)
	return append(out, pile...)
}
