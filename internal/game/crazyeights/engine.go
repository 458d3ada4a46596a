package crazyeights

import (
	"fmt"

	"github.com/l361580688-ux/Crazy-Eights/internal/models"
)

const handSize = 8

// NewGame shuffles a fresh 52-card deck and deals: 8 cards to the player,
// 8 to the bot, the first non-8 of the remainder as the starting discard,
// and everything else (order preserved) as the draw pile. The player moves
// first. Returns models.ErrNoStartingCard if no non-8 exists, which aborts
// game creation.
func NewGame() (*GameState, error) {
	return deal(Shuffle(NewDeck()))
}

// deal is split out so tests can feed a fixed deck order.
func deal(deck []Card) (*GameState, error) {
	if len(deck) < 2*handSize+1 {
		return nil, models.ErrNoStartingCard
	}
	s := &GameState{
		PlayerHand: append([]Card(nil), deck[:handSize]...),
		BotHand:    append([]Card(nil), deck[handSize:2*handSize]...),
		Turn:       SeatPlayer,
		Status:     StatusPlaying,
	}

	rest := deck[2*handSize:]
	starter := -1
	for i, c := range rest {
		if c.Rank != RankEight {
			starter = i
			break
		}
	}
	if starter < 0 {
		return nil, models.ErrNoStartingCard
	}

	s.DiscardPile = []Card{rest[starter]}
	s.DrawPile = append([]Card(nil), rest[:starter]...)
	s.DrawPile = append(s.DrawPile, rest[starter+1:]...)
	s.CurrentSuit = rest[starter].Suit
	s.CurrentRank = rest[starter].Rank
	return s, nil
}

// PlayCard applies a player play of the card with the given id. Rejections
// leave the receiver's value untouched and return it unchanged. A legal
// non-8 passes the turn to the bot; a legal 8 moves the game to suit-picking
// with the turn still the player's. Note that on the 8 path CurrentRank is
// deliberately left at its previous value until ChooseSuit resolves.
func (s *GameState) PlayCard(cardID string) (*GameState, string, error) {
	if s.Status != StatusPlaying {
		return s, "", s.phaseError()
	}
	if s.Turn != SeatPlayer {
		return s, "", models.ErrNotYourTurn
	}

	rest, card, ok := removeByID(s.PlayerHand, cardID)
	if !ok {
		return s, "", models.ErrCardNotInHand
	}
	if !IsLegalPlay(card, s.CurrentSuit, s.CurrentRank) {
		return s, "Invalid play.", models.ErrIllegalPlay
	}

	next := s.Clone()
	next.PlayerHand = rest
	next.DiscardPile = pushDiscard(next.DiscardPile, card)

	if card.Rank == RankEight {
		next.Status = StatusSuitPicking
		return next, fmt.Sprintf("You played %s. Pick a suit.", card), nil
	}

	next.CurrentSuit = card.Suit
	next.CurrentRank = card.Rank
	next.Turn = SeatBot
	next.checkWin()
	return next, fmt.Sprintf("You played %s.", card), nil
}

// ChooseSuit resolves a pending wild-8: the chosen suit becomes current and
// the rank is forced to 8. Valid only during suit-picking.
func (s *GameState) ChooseSuit(suit Suit) (*GameState, string, error) {
	if s.Status != StatusSuitPicking {
		return s, "", models.ErrNotPickingSuit
	}
	switch suit {
	case Hearts, Diamonds, Clubs, Spades:
	default:
		return s, "", models.ErrInvalidSuit
	}

	next := s.Clone()
	next.Status = StatusPlaying
	next.CurrentSuit = suit
	next.CurrentRank = RankEight
	next.Turn = SeatBot
	next.checkWin()
	return next, fmt.Sprintf("Suit is now %s.", suit), nil
}

// DrawCard moves the draw-pile head into the player's hand and passes the
// turn. An empty draw pile forfeits the draw but still passes the turn.
func (s *GameState) DrawCard() (*GameState, string, error) {
	if s.Status != StatusPlaying {
		return s, "", s.phaseError()
	}
	if s.Turn != SeatPlayer {
		return s, "", models.ErrNotYourTurn
	}

	next := s.Clone()
	next.Turn = SeatBot
	if len(next.DrawPile) == 0 {
		return next, "Draw pile is empty. Turn passes.", nil
	}
	drawn := next.DrawPile[0]
	next.DrawPile = next.DrawPile[1:]
	next.PlayerHand = append(next.PlayerHand, drawn)
	return next, fmt.Sprintf("You drew %s.", drawn), nil
}

// AdvanceBotTurn applies exactly one bot action per the priority policy and
// returns the turn to the player (or ends the game). Calling it when it is
// not the bot's move is a silent no-op: the same state comes back unchanged.
func (s *GameState) AdvanceBotTurn() (*GameState, string, error) {
	if s.Status != StatusPlaying || s.Turn != SeatBot {
		return s, "", nil
	}

	next := s.Clone()
	next.Turn = SeatPlayer

	move := ChooseBotMove(s)
	switch move.Kind {
	case BotPlay:
		next.BotHand, _, _ = removeByID(next.BotHand, move.Card.ID)
		next.DiscardPile = pushDiscard(next.DiscardPile, *move.Card)
		next.CurrentSuit = move.Card.Suit
		next.CurrentRank = move.Card.Rank
		next.checkWin()
		return next, fmt.Sprintf("Opponent played %s.", *move.Card), nil
	case BotWild:
		next.BotHand, _, _ = removeByID(next.BotHand, move.Card.ID)
		next.DiscardPile = pushDiscard(next.DiscardPile, *move.Card)
		// The bot resolves its own wild in one action: suit chosen and rank
		// forced to 8 immediately, unlike the player's two-step path.
		next.CurrentSuit = move.Suit
		next.CurrentRank = RankEight
		next.checkWin()
		return next, fmt.Sprintf("Opponent played %s and chose %s.", *move.Card, move.Suit), nil
	case BotDraw:
		drawn := next.DrawPile[0]
		next.DrawPile = next.DrawPile[1:]
		next.BotHand = append(next.BotHand, drawn)
		return next, "Opponent draws a card.", nil
	default: // BotPass
		return next, "Opponent passes.", nil
	}
}

// checkWin flips the game to game-over when a hand has emptied. Only one
// hand can change per action, so a tie is unreachable.
func (s *GameState) checkWin() {
	if len(s.PlayerHand) == 0 {
		s.Status = StatusGameOver
		s.Winner = SeatPlayer
		s.Turn = SeatNone
	} else if len(s.BotHand) == 0 {
		s.Status = StatusGameOver
		s.Winner = SeatBot
		s.Turn = SeatNone
	}
}

func (s *GameState) phaseError() error {
	if s.Status == StatusGameOver {
		return models.ErrGameOver
	}
	return models.ErrNotPlaying
}
