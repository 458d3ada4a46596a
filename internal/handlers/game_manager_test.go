package handlers

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/l361580688-ux/Crazy-Eights/internal/database"
	"github.com/l361580688-ux/Crazy-Eights/internal/game/crazyeights"
	"github.com/l361580688-ux/Crazy-Eights/internal/models"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// One connection: every statement must see the same in-memory database.
	db.SetMaxOpenConns(1)
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newTestUser(t *testing.T, db *sql.DB) int64 {
	t.Helper()
	u, err := models.CreateUser(db, "alice", "not-a-real-hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u.ID
}

func card(suit crazyeights.Suit, rank crazyeights.Rank) crazyeights.Card {
	return crazyeights.Card{ID: string(rank) + "-" + string(suit), Suit: suit, Rank: rank}
}

// installGame plants a deterministic live game for the user, bypassing the
// random deal.
func installGame(gm *GameManager, userID int64, st *crazyeights.GameState) {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	gm.nextGen++
	gm.sessions[userID] = &session{state: st, gen: gm.nextGen, startedAt: time.Now().UTC()}
}

func fixtureState() *crazyeights.GameState {
	return &crazyeights.GameState{
		PlayerHand:  []crazyeights.Card{card(crazyeights.Hearts, "7"), card(crazyeights.Diamonds, "5")},
		BotHand:     []crazyeights.Card{card(crazyeights.Hearts, "3"), card(crazyeights.Clubs, "9")},
		DrawPile:    []crazyeights.Card{card(crazyeights.Diamonds, "2"), card(crazyeights.Spades, "4")},
		DiscardPile: []crazyeights.Card{card(crazyeights.Hearts, "9")},
		CurrentSuit: crazyeights.Hearts,
		CurrentRank: "9",
		Turn:        crazyeights.SeatPlayer,
		Status:      crazyeights.StatusPlaying,
	}
}

func TestStartDealsLiveGame(t *testing.T) {
	gm := NewGameManager(nil, 0)

	view, note, err := gm.Start(7)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if note == "" {
		t.Error("expected a start notice")
	}
	if len(view.PlayerHand) != 8 {
		t.Errorf("player hand = %d cards, want 8", len(view.PlayerHand))
	}
	if view.BotCards != 8 {
		t.Errorf("bot cards = %d, want 8", view.BotCards)
	}
	if view.Status != crazyeights.StatusPlaying {
		t.Errorf("status = %q, want %q", view.Status, crazyeights.StatusPlaying)
	}
	if view.Turn != crazyeights.SeatPlayer {
		t.Errorf("turn = %q, want %q", view.Turn, crazyeights.SeatPlayer)
	}

	if _, err := gm.Snapshot(7); err != nil {
		t.Errorf("Snapshot after Start: %v", err)
	}
	moves, err := gm.Moves(7)
	if err != nil {
		t.Fatalf("Moves: %v", err)
	}
	if len(moves) != 1 || moves[0].Action != "start" {
		t.Errorf("move log = %+v, want single start record", moves)
	}
}

func TestSnapshotWithoutGame(t *testing.T) {
	gm := NewGameManager(nil, 0)
	if _, err := gm.Snapshot(7); !errors.Is(err, models.ErrNoActiveGame) {
		t.Errorf("Snapshot err = %v, want ErrNoActiveGame", err)
	}
	if _, _, err := gm.Play(7, "x"); !errors.Is(err, models.ErrNoActiveGame) {
		t.Errorf("Play err = %v, want ErrNoActiveGame", err)
	}
}

// With a zero thinking delay the bot replies inside the same Play call.
func TestPlayTriggersBotReply(t *testing.T) {
	gm := NewGameManager(nil, 0)
	installGame(gm, 7, fixtureState())

	view, _, err := gm.Play(7, "7-hearts")
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if view.Turn != crazyeights.SeatBot {
		t.Errorf("returned view turn = %q, want %q (snapshot taken before bot reply)", view.Turn, crazyeights.SeatBot)
	}

	after, err := gm.Snapshot(7)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if after.Turn != crazyeights.SeatPlayer {
		t.Errorf("turn after bot reply = %q, want %q", after.Turn, crazyeights.SeatPlayer)
	}
	if after.BotCards != 1 {
		t.Errorf("bot cards = %d, want 1 after bot played", after.BotCards)
	}

	moves, _ := gm.Moves(7)
	if len(moves) != 2 {
		t.Fatalf("move log has %d entries, want 2: %+v", len(moves), moves)
	}
	if moves[0].Action != "play" || moves[0].Actor != crazyeights.SeatPlayer {
		t.Errorf("first move = %+v, want player play", moves[0])
	}
	if moves[1].Action != "bot_play" || moves[1].Actor != crazyeights.SeatBot {
		t.Errorf("second move = %+v, want bot_play", moves[1])
	}
	// Bot plays its first match in hand order: the three of hearts.
	if moves[1].Card == nil || moves[1].Card.ID != "3-hearts" {
		t.Errorf("bot played %+v, want 3-hearts", moves[1].Card)
	}
}

func TestIllegalPlayLeavesGameUntouched(t *testing.T) {
	gm := NewGameManager(nil, 0)
	st := fixtureState()
	installGame(gm, 7, st)

	_, note, err := gm.Play(7, "5-diamonds")
	if !errors.Is(err, models.ErrIllegalPlay) {
		t.Fatalf("err = %v, want ErrIllegalPlay", err)
	}
	if note == "" {
		t.Error("rejection should carry a player-facing note")
	}

	gm.mu.Lock()
	same := gm.sessions[7].state == st
	nmoves := len(gm.sessions[7].moves)
	gm.mu.Unlock()
	if !same {
		t.Error("state replaced on rejected play")
	}
	if nmoves != 0 {
		t.Errorf("move log grew to %d on rejected play", nmoves)
	}
}

func TestDrawPassesTurnAndBotReplies(t *testing.T) {
	gm := NewGameManager(nil, 0)
	st := fixtureState()
	// Make the player's hand unplayable so drawing is the honest move.
	st.PlayerHand = []crazyeights.Card{card(crazyeights.Diamonds, "5")}
	installGame(gm, 7, st)

	if _, _, err := gm.Draw(7); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	after, _ := gm.Snapshot(7)
	if len(after.PlayerHand) != 2 {
		t.Errorf("player hand = %d cards, want 2 after draw", len(after.PlayerHand))
	}
	if after.Turn != crazyeights.SeatPlayer {
		t.Errorf("turn = %q, want player after bot reply", after.Turn)
	}
	moves, _ := gm.Moves(7)
	if len(moves) != 2 || moves[0].Action != "draw" {
		t.Errorf("move log = %+v, want draw then a bot action", moves)
	}
}

func TestWildSuitPickHandsTurnToBot(t *testing.T) {
	gm := NewGameManager(nil, 0)
	st := fixtureState()
	st.PlayerHand = append(st.PlayerHand, card(crazyeights.Spades, "8"))
	installGame(gm, 7, st)

	view, _, err := gm.Play(7, "8-spades")
	if err != nil {
		t.Fatalf("Play eight: %v", err)
	}
	if view.Status != crazyeights.StatusSuitPicking {
		t.Fatalf("status = %q, want %q", view.Status, crazyeights.StatusSuitPicking)
	}
	// No bot move may fire while the suit pick is pending.
	if moves, _ := gm.Moves(7); len(moves) != 1 {
		t.Fatalf("move log = %+v, want only the play", moves)
	}

	if _, _, err := gm.PickSuit(7, crazyeights.Clubs); err != nil {
		t.Fatalf("PickSuit: %v", err)
	}
	after, _ := gm.Snapshot(7)
	if after.CurrentSuit != crazyeights.Clubs {
		t.Errorf("current suit = %q, want clubs", after.CurrentSuit)
	}
	moves, _ := gm.Moves(7)
	if len(moves) != 3 {
		t.Fatalf("move log has %d entries, want play + choose_suit + bot reply: %+v", len(moves), moves)
	}
	if moves[1].Action != "choose_suit" || moves[1].Suit != crazyeights.Clubs {
		t.Errorf("second move = %+v, want choose_suit clubs", moves[1])
	}
}

func TestPlayerWinRecordsResult(t *testing.T) {
	db := newTestDB(t)
	userID := newTestUser(t, db)
	gm := NewGameManager(db, 0)

	st := fixtureState()
	st.PlayerHand = []crazyeights.Card{card(crazyeights.Hearts, "7")}
	installGame(gm, userID, st)

	view, _, err := gm.Play(userID, "7-hearts")
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if view.Status != crazyeights.StatusGameOver || view.Winner != crazyeights.SeatPlayer {
		t.Fatalf("view = %+v, want player win", view)
	}

	results, err := models.ListResultsByUser(db, userID, 10)
	if err != nil {
		t.Fatalf("list results: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].Winner != "player" || results[0].Conceded {
		t.Errorf("result = %+v, want player win, not conceded", results[0])
	}

	stats, err := models.GetUserStats(db, userID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.GamesPlayed != 1 || stats.GamesWon != 1 {
		t.Errorf("stats = %+v, want 1 played / 1 won", stats)
	}

	// Quitting a finished game must not record a second row.
	if err := gm.Quit(userID); err != nil {
		t.Fatalf("Quit: %v", err)
	}
	results, _ = models.ListResultsByUser(db, userID, 10)
	if len(results) != 1 {
		t.Errorf("got %d results after quit, want still 1", len(results))
	}
}

func TestQuitRecordsConcession(t *testing.T) {
	db := newTestDB(t)
	userID := newTestUser(t, db)
	gm := NewGameManager(db, 0)
	installGame(gm, userID, fixtureState())

	if err := gm.Quit(userID); err != nil {
		t.Fatalf("Quit: %v", err)
	}
	if _, err := gm.Snapshot(userID); !errors.Is(err, models.ErrNoActiveGame) {
		t.Errorf("Snapshot after quit err = %v, want ErrNoActiveGame", err)
	}

	results, err := models.ListResultsByUser(db, userID, 10)
	if err != nil {
		t.Fatalf("list results: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].Winner != "bot" || !results[0].Conceded {
		t.Errorf("result = %+v, want conceded bot win", results[0])
	}
}

func TestStartReplacesAndConcedesOldGame(t *testing.T) {
	db := newTestDB(t)
	userID := newTestUser(t, db)
	gm := NewGameManager(db, 0)
	installGame(gm, userID, fixtureState())

	if _, _, err := gm.Start(userID); err != nil {
		t.Fatalf("Start: %v", err)
	}
	results, err := models.ListResultsByUser(db, userID, 10)
	if err != nil {
		t.Fatalf("list results: %v", err)
	}
	if len(results) != 1 || !results[0].Conceded {
		t.Errorf("results = %+v, want one concession for the replaced game", results)
	}

	view, err := gm.Snapshot(userID)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(view.PlayerHand) != 8 || view.Status != crazyeights.StatusPlaying {
		t.Errorf("replacement game view = %+v, want a fresh deal", view)
	}
}

// A bot timer armed against a replaced session must discard itself.
func TestStaleBotTimerIsDiscarded(t *testing.T) {
	gm := NewGameManager(nil, time.Hour) // never fires on its own
	st := fixtureState()
	st.Turn = crazyeights.SeatBot
	installGame(gm, 7, st)

	gm.mu.Lock()
	staleGen := gm.sessions[7].gen
	gm.mu.Unlock()

	// Replace the session, then fire the old timer's callback by hand.
	installGame(gm, 7, fixtureState())
	gm.advanceBot(7, staleGen)

	moves, err := gm.Moves(7)
	if err != nil {
		t.Fatalf("Moves: %v", err)
	}
	if len(moves) != 0 {
		t.Errorf("stale timer acted on the new session: %+v", moves)
	}
}

func TestNotifierReceivesUpdates(t *testing.T) {
	gm := NewGameManager(nil, 0)
	var events []string
	gm.SetNotifier(func(userID int64, event string, payload any) {
		events = append(events, event)
	})
	installGame(gm, 7, fixtureState())

	if _, _, err := gm.Play(7, "7-hearts"); err != nil {
		t.Fatalf("Play: %v", err)
	}
	// Player move and bot reply each push a game_update plus a notice.
	var updates int
	for _, e := range events {
		if e == "game_update" {
			updates++
		}
	}
	if updates < 2 {
		t.Errorf("got %d game_update events (%v), want at least 2", updates, events)
	}
}
