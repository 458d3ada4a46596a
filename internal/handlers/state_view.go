package handlers

import (
	"github.com/l361580688-ux/Crazy-Eights/internal/game/crazyeights"
)

// GameView is the client-facing snapshot of a live game. The bot's hand and
// the draw pile are reduced to counts so a snapshot can never leak hidden
// cards; playable card ids are precomputed so clients can highlight legal
// moves without re-implementing the rules.
type GameView struct {
	Status      crazyeights.Status `json:"status"`
	Turn        crazyeights.Seat   `json:"turn"`
	Winner      crazyeights.Seat   `json:"winner,omitempty"`
	CurrentSuit crazyeights.Suit   `json:"current_suit"`
	CurrentRank crazyeights.Rank   `json:"current_rank"`

	PlayerHand []crazyeights.Card `json:"player_hand"`
	Playable   []string           `json:"playable_card_ids"`

	BotCards     int                `json:"bot_cards"`
	DrawCards    int                `json:"draw_cards"`
	DiscardTop   *crazyeights.Card  `json:"discard_top,omitempty"`
	DiscardCount int                `json:"discard_count"`

	Moves int `json:"moves"`
}

func buildGameView(sess *session) *GameView {
	st := sess.state
	view := &GameView{
		Status:       st.Status,
		Turn:         st.Turn,
		Winner:       st.Winner,
		CurrentSuit:  st.CurrentSuit,
		CurrentRank:  st.CurrentRank,
		PlayerHand:   append([]crazyeights.Card(nil), st.PlayerHand...),
		BotCards:     len(st.BotHand),
		DrawCards:    len(st.DrawPile),
		DiscardCount: len(st.DiscardPile),
		Moves:        len(sess.moves),
	}
	if top, ok := st.ActiveCard(); ok {
		view.DiscardTop = &top
	}
	if st.Status == crazyeights.StatusPlaying && st.Turn == crazyeights.SeatPlayer {
		for _, c := range crazyeights.PlayableCards(st.PlayerHand, st.CurrentSuit, st.CurrentRank) {
			view.Playable = append(view.Playable, c.ID)
		}
	}
	return view
}
