package models

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/l361580688-ux/Crazy-Eights/internal/database"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func insertResult(t *testing.T, db *sql.DB, userID int64, winner string, conceded bool, finishedAt time.Time) {
	t.Helper()
	_, err := InsertGameResult(db, GameResult{
		UserID:     userID,
		Winner:     winner,
		Moves:      12,
		Conceded:   conceded,
		StartedAt:  finishedAt.Add(-10 * time.Minute),
		FinishedAt: finishedAt,
	})
	if err != nil {
		t.Fatalf("insert result: %v", err)
	}
}

func TestCreateAndGetUser(t *testing.T) {
	db := newTestDB(t)

	u, err := CreateUser(db, "alice", "hash")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.ID == 0 || u.Username != "alice" {
		t.Errorf("created user = %+v", u)
	}

	got, err := GetUserByUsername(db, "alice")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("lookup id = %d, want %d", got.ID, u.ID)
	}

	if _, err := GetUserByID(db, 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing user err = %v, want ErrNotFound", err)
	}

	_, err = CreateUser(db, "alice", "hash2")
	if err == nil || !IsUniqueConstraint(err) {
		t.Errorf("duplicate username err = %v, want unique constraint", err)
	}
}

func TestInsertGameResultBumpsCounters(t *testing.T) {
	db := newTestDB(t)
	u, err := CreateUser(db, "alice", "hash")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	now := time.Now().UTC()
	insertResult(t, db, u.ID, "player", false, now)
	insertResult(t, db, u.ID, "bot", false, now)
	insertResult(t, db, u.ID, "bot", true, now)

	stats, err := GetUserStats(db, u.ID)
	if err != nil {
		t.Fatalf("GetUserStats: %v", err)
	}
	if stats.GamesPlayed != 3 || stats.GamesWon != 1 {
		t.Errorf("stats = %+v, want 3 played / 1 won", stats)
	}
	if want := 1.0 / 3.0; stats.WinRate != want {
		t.Errorf("win rate = %v, want %v", stats.WinRate, want)
	}

	results, err := ListResultsByUser(db, u.ID, 10)
	if err != nil {
		t.Fatalf("ListResultsByUser: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	var conceded int
	for _, r := range results {
		if r.Conceded {
			conceded++
		}
	}
	if conceded != 1 {
		t.Errorf("got %d conceded results, want 1", conceded)
	}
}

func TestScoreboardOrdering(t *testing.T) {
	db := newTestDB(t)
	now := time.Now().UTC()

	alice, _ := CreateUser(db, "alice", "hash")
	bob, _ := CreateUser(db, "bob", "hash")
	carol, _ := CreateUser(db, "carol", "hash")
	_, _ = CreateUser(db, "idle", "hash") // never played, must not appear

	// alice: 2 wins of 3; bob: 2 wins of 2; carol: 1 win of 1.
	insertResult(t, db, alice.ID, "player", false, now)
	insertResult(t, db, alice.ID, "player", false, now)
	insertResult(t, db, alice.ID, "bot", false, now)
	insertResult(t, db, bob.ID, "player", false, now)
	insertResult(t, db, bob.ID, "player", false, now)
	insertResult(t, db, carol.ID, "player", false, now)

	board, err := ListScoreboard(db, 10)
	if err != nil {
		t.Fatalf("ListScoreboard: %v", err)
	}
	if len(board) != 3 {
		t.Fatalf("scoreboard has %d rows, want 3", len(board))
	}
	// Most wins first; fewer games played breaks the tie.
	if board[0].Username != "bob" || board[1].Username != "alice" || board[2].Username != "carol" {
		t.Errorf("order = %s, %s, %s; want bob, alice, carol",
			board[0].Username, board[1].Username, board[2].Username)
	}
}

func TestBuildLeaderboard(t *testing.T) {
	db := newTestDB(t)
	now := time.Now().UTC()

	alice, _ := CreateUser(db, "alice", "hash")
	insertResult(t, db, alice.ID, "player", false, now.AddDate(0, 0, -2))
	insertResult(t, db, alice.ID, "bot", false, now.AddDate(0, 0, -1))
	insertResult(t, db, alice.ID, "player", false, now.AddDate(0, 0, -400)) // outside window

	resp, err := BuildLeaderboard(context.Background(), db, 30)
	if err != nil {
		t.Fatalf("BuildLeaderboard: %v", err)
	}
	if resp.Days != 30 {
		t.Errorf("days = %d, want 30", resp.Days)
	}
	if len(resp.Items) != 1 {
		t.Fatalf("got %d items, want 1", len(resp.Items))
	}
	p := resp.Items[0]
	if p.Username != "alice" || p.GamesPlayed != 3 {
		t.Errorf("player = %+v, want alice with 3 all-time games", p)
	}
	if len(p.Series) != 2 {
		t.Fatalf("series has %d points, want 2 (old result excluded): %+v", len(p.Series), p.Series)
	}
	// Cumulative win rate: 1/1 after day one, 1/2 after day two.
	if p.Series[0].WinRate != 1.0 {
		t.Errorf("day 1 win rate = %v, want 1.0", p.Series[0].WinRate)
	}
	if p.Series[1].WinRate != 0.5 {
		t.Errorf("day 2 win rate = %v, want 0.5", p.Series[1].WinRate)
	}

	if _, err := BuildLeaderboard(context.Background(), db, 0); err != nil {
		t.Errorf("default window: %v", err)
	}
}
