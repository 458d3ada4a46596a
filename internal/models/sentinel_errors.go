package models

import "errors"

var (
	ErrInvalidJSON    = errors.New("invalid json")
	ErrInvalidCard    = errors.New("invalid card")
	ErrInvalidSuit    = errors.New("invalid suit")
	ErrNotYourTurn    = errors.New("not your turn")
	ErrNotPlaying     = errors.New("game is not in play")
	ErrNotPickingSuit = errors.New("not picking a suit")
	ErrIllegalPlay    = errors.New("card matches neither suit nor rank")
	ErrCardNotInHand  = errors.New("card not in hand")
	ErrGameOver       = errors.New("game is over")
	ErrGameNotFound   = errors.New("game not found")
	ErrNoActiveGame   = errors.New("no active game")

	// ErrNoStartingCard means the deal scanned the whole remainder of the
	// deck without finding a non-8 starting discard. Unreachable with a full
	// 52-card deck; fatal for game creation if it ever happens.
	ErrNoStartingCard = errors.New("no valid starting card in deck")
)
