package handlers

import (
	"database/sql"
	"log"
	"sync"
	"time"

	"github.com/l361580688-ux/Crazy-Eights/internal/game/crazyeights"
	"github.com/l361580688-ux/Crazy-Eights/internal/models"
)

// MoveRecord is one entry of the in-memory move log for a live game. The log
// dies with the session; only aggregate counts reach the database.
type MoveRecord struct {
	Seq    int               `json:"seq"`
	Actor  crazyeights.Seat  `json:"actor"`
	Action string            `json:"action"` // start|play|draw|pass|choose_suit|bot_play|bot_wild|bot_draw|bot_pass
	Card   *crazyeights.Card `json:"card,omitempty"`
	Suit   crazyeights.Suit  `json:"suit,omitempty"`
	Note   string            `json:"note,omitempty"`
	At     time.Time         `json:"at"`
}

// session is one user's live game. gen increments every time the session is
// replaced or closed, so a bot timer scheduled against an older generation
// discards itself instead of acting on a stale or replaced state.
type session struct {
	state     *crazyeights.GameState
	gen       uint64
	startedAt time.Time
	moves     []MoveRecord
	recorded  bool
}

// GameManager owns every live game, keyed by user id. All transitions happen
// under one mutex; engine operations themselves are copy-on-write, so a
// snapshot taken before an action stays internally consistent.
type GameManager struct {
	mu       sync.Mutex
	sessions map[int64]*session
	nextGen  uint64

	db       *sql.DB
	botDelay time.Duration

	// notify pushes an event to the user's websocket room; nil in tests.
	notify func(userID int64, event string, payload any)
}

func NewGameManager(db *sql.DB, botDelay time.Duration) *GameManager {
	return &GameManager{sessions: map[int64]*session{}, db: db, botDelay: botDelay}
}

func (m *GameManager) SetNotifier(fn func(userID int64, event string, payload any)) {
	m.notify = fn
}

// Start deals a fresh game for the user, replacing any live one. A replaced
// unfinished game is recorded as a concession first.
func (m *GameManager) Start(userID int64) (*GameView, string, error) {
	st, err := crazyeights.NewGame()
	if err != nil {
		return nil, "", err
	}

	m.mu.Lock()
	if old, ok := m.sessions[userID]; ok {
		m.finalizeLocked(userID, old, true)
	}
	m.nextGen++
	sess := &session{state: st, gen: m.nextGen, startedAt: time.Now().UTC()}
	note := "New game dealt. Your move."
	sess.appendMove(MoveRecord{Actor: crazyeights.SeatPlayer, Action: "start", Note: note})
	m.sessions[userID] = sess
	view := buildGameView(sess)
	m.mu.Unlock()

	m.push(userID, view, note)
	return view, note, nil
}

// Snapshot returns the redacted view of the user's live game.
func (m *GameManager) Snapshot(userID int64) (*GameView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[userID]
	if !ok {
		return nil, models.ErrNoActiveGame
	}
	return buildGameView(sess), nil
}

// Moves returns the live game's move log.
func (m *GameManager) Moves(userID int64) ([]MoveRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[userID]
	if !ok {
		return nil, models.ErrNoActiveGame
	}
	return append([]MoveRecord(nil), sess.moves...), nil
}

// Play applies a player card play and, if the move hands the turn to the
// bot, schedules the bot's reply.
func (m *GameManager) Play(userID int64, cardID string) (*GameView, string, error) {
	return m.apply(userID, func(st *crazyeights.GameState) (*crazyeights.GameState, string, error) {
		next, note, err := st.PlayCard(cardID)
		return next, note, err
	}, "play")
}

func (m *GameManager) Draw(userID int64) (*GameView, string, error) {
	return m.apply(userID, func(st *crazyeights.GameState) (*crazyeights.GameState, string, error) {
		return st.DrawCard()
	}, "draw")
}

func (m *GameManager) PickSuit(userID int64, suit crazyeights.Suit) (*GameView, string, error) {
	return m.apply(userID, func(st *crazyeights.GameState) (*crazyeights.GameState, string, error) {
		return st.ChooseSuit(suit)
	}, "choose_suit")
}

// Quit concedes and closes the user's live game.
func (m *GameManager) Quit(userID int64) error {
	m.mu.Lock()
	sess, ok := m.sessions[userID]
	if !ok {
		m.mu.Unlock()
		return models.ErrNoActiveGame
	}
	m.finalizeLocked(userID, sess, true)
	delete(m.sessions, userID)
	m.mu.Unlock()

	m.push(userID, nil, "Game conceded.")
	return nil
}

func (m *GameManager) apply(userID int64, op func(*crazyeights.GameState) (*crazyeights.GameState, string, error), action string) (*GameView, string, error) {
	m.mu.Lock()
	sess, ok := m.sessions[userID]
	if !ok {
		m.mu.Unlock()
		return nil, "", models.ErrNoActiveGame
	}

	next, note, err := op(sess.state)
	if err != nil {
		m.mu.Unlock()
		return nil, note, err
	}

	played := diffDiscardHead(sess.state, next)
	sess.state = next
	sess.appendMove(MoveRecord{Actor: crazyeights.SeatPlayer, Action: action, Card: played, Suit: suitIfPicked(action, next), Note: note})

	if next.Status == crazyeights.StatusGameOver {
		m.finalizeLocked(userID, sess, false)
	}
	view := buildGameView(sess)
	gen := sess.gen
	m.mu.Unlock()

	m.push(userID, view, note)
	m.scheduleBot(userID, gen)
	return view, note, nil
}

// scheduleBot arms the bot's move after the configured thinking delay. The
// generation check inside advanceBot makes a pending timer harmless if the
// game was restarted or conceded in the meantime.
func (m *GameManager) scheduleBot(userID int64, gen uint64) {
	m.mu.Lock()
	sess, ok := m.sessions[userID]
	pending := ok && sess.gen == gen &&
		sess.state.Status == crazyeights.StatusPlaying &&
		sess.state.Turn == crazyeights.SeatBot
	m.mu.Unlock()
	if !pending {
		return
	}

	if m.botDelay <= 0 {
		m.advanceBot(userID, gen)
		return
	}
	time.AfterFunc(m.botDelay, func() { m.advanceBot(userID, gen) })
}

func (m *GameManager) advanceBot(userID int64, gen uint64) {
	m.mu.Lock()
	sess, ok := m.sessions[userID]
	if !ok || sess.gen != gen {
		// Session replaced or closed while the bot was "thinking".
		m.mu.Unlock()
		return
	}

	next, note, err := sess.state.AdvanceBotTurn()
	if err != nil || note == "" {
		m.mu.Unlock()
		return
	}

	played := diffDiscardHead(sess.state, next)
	action := "bot_draw"
	switch {
	case played != nil && played.Rank == crazyeights.RankEight:
		action = "bot_wild"
	case played != nil:
		action = "bot_play"
	case len(next.BotHand) == len(sess.state.BotHand):
		action = "bot_pass"
	}
	sess.state = next
	sess.appendMove(MoveRecord{Actor: crazyeights.SeatBot, Action: action, Card: played, Note: note})

	if next.Status == crazyeights.StatusGameOver {
		m.finalizeLocked(userID, sess, false)
	}
	view := buildGameView(sess)
	m.mu.Unlock()

	m.push(userID, view, note)
}

// finalizeLocked records the result row exactly once per session. Called
// with m.mu held. A session that never reached game-over counts as a
// concession: the bot takes the win.
func (m *GameManager) finalizeLocked(userID int64, sess *session, conceded bool) {
	if sess.recorded {
		return
	}
	sess.recorded = true

	winner := "bot"
	if sess.state.Winner == crazyeights.SeatPlayer {
		winner = "player"
	}
	res := models.GameResult{
		UserID:          userID,
		Winner:          winner,
		PlayerCardsLeft: int64(len(sess.state.PlayerHand)),
		BotCardsLeft:    int64(len(sess.state.BotHand)),
		Moves:           int64(len(sess.moves)),
		Conceded:        conceded && sess.state.Status != crazyeights.StatusGameOver,
		StartedAt:       sess.startedAt,
		FinishedAt:      time.Now().UTC(),
	}
	if m.db == nil {
		return
	}
	if _, err := models.InsertGameResult(m.db, res); err != nil {
		log.Printf("record game result failed: user_id=%d err=%v", userID, err)
	}
}

func (m *GameManager) push(userID int64, view *GameView, note string) {
	if m.notify == nil {
		return
	}
	if view != nil {
		m.notify(userID, "game_update", view)
	}
	if note != "" {
		m.notify(userID, "notice", map[string]string{"text": note})
	}
}

func (s *session) appendMove(r MoveRecord) {
	r.Seq = len(s.moves) + 1
	r.At = time.Now().UTC()
	s.moves = append(s.moves, r)
}

// diffDiscardHead returns the card that arrived at the discard head between
// two states, if any.
func diffDiscardHead(before, after *crazyeights.GameState) *crazyeights.Card {
	if len(after.DiscardPile) == 0 || len(after.DiscardPile) == len(before.DiscardPile) {
		return nil
	}
	c := after.DiscardPile[0]
	return &c
}

func suitIfPicked(action string, st *crazyeights.GameState) crazyeights.Suit {
	if action == "choose_suit" {
		return st.CurrentSuit
	}
	return ""
}
