package models

import (
	"database/sql"
	"errors"
	"time"
)

// GameResult is the immutable record of a finished (or conceded) game.
// Live game state is never persisted; this row is written exactly once, when
// the engine reaches game-over or the player quits.
type GameResult struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	Winner          string    `json:"winner"` // player|bot
	PlayerCardsLeft int64     `json:"player_cards_left"`
	BotCardsLeft    int64     `json:"bot_cards_left"`
	Moves           int64     `json:"moves"`
	Conceded        bool      `json:"conceded"`
	StartedAt       time.Time `json:"started_at"`
	FinishedAt      time.Time `json:"finished_at"`
}

// InsertGameResult records a finished game and bumps the user's aggregate
// counters in one transaction.
func InsertGameResult(db *sql.DB, r GameResult) (int64, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.Exec(
		`INSERT INTO game_results(user_id, winner, player_cards_left, bot_cards_left, moves, conceded, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.UserID, r.Winner, r.PlayerCardsLeft, r.BotCardsLeft, r.Moves, boolToInt(r.Conceded),
		r.StartedAt.UTC(), r.FinishedAt.UTC(),
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if _, err := tx.Exec(`UPDATE users SET games_played = games_played + 1 WHERE id = ?`, r.UserID); err != nil {
		return 0, err
	}
	if r.Winner == "player" {
		if _, err := tx.Exec(`UPDATE users SET games_won = games_won + 1 WHERE id = ?`, r.UserID); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return id, nil
}

func ListResultsByUser(db *sql.DB, userID int64, limit int64) ([]GameResult, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := db.Query(
		`SELECT id, user_id, winner, player_cards_left, bot_cards_left, moves, conceded, started_at, finished_at
		 FROM game_results WHERE user_id = ? ORDER BY finished_at DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []GameResult
	for rows.Next() {
		var r GameResult
		var conceded int
		if err := rows.Scan(&r.ID, &r.UserID, &r.Winner, &r.PlayerCardsLeft, &r.BotCardsLeft, &r.Moves, &conceded, &r.StartedAt, &r.FinishedAt); err != nil {
			return nil, err
		}
		r.Conceded = conceded != 0
		out = append(out, r)
	}
	return out, rows.Err()
}

// UserStats is the per-user aggregate shown on the scoreboard.
type UserStats struct {
	UserID      int64   `json:"user_id"`
	Username    string  `json:"username"`
	GamesPlayed int64   `json:"games_played"`
	GamesWon    int64   `json:"games_won"`
	WinRate     float64 `json:"win_rate"` // [0..1]
}

func GetUserStats(db *sql.DB, userID int64) (*UserStats, error) {
	var s UserStats
	err := db.QueryRow(
		`SELECT id, username, games_played, games_won FROM users WHERE id = ?`,
		userID,
	).Scan(&s.UserID, &s.Username, &s.GamesPlayed, &s.GamesWon)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if s.GamesPlayed > 0 {
		s.WinRate = float64(s.GamesWon) / float64(s.GamesPlayed)
	}
	return &s, nil
}

func ListScoreboard(db *sql.DB, limit int64) ([]UserStats, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := db.Query(
		`SELECT id, username, games_played, games_won FROM users
		 WHERE games_played > 0
		 ORDER BY games_won DESC, games_played ASC, username COLLATE NOCASE ASC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []UserStats
	for rows.Next() {
		var s UserStats
		if err := rows.Scan(&s.UserID, &s.Username, &s.GamesPlayed, &s.GamesWon); err != nil {
			return nil, err
		}
		if s.GamesPlayed > 0 {
			s.WinRate = float64(s.GamesWon) / float64(s.GamesPlayed)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
