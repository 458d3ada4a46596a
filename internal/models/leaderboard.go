package models

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"
)

// LeaderboardDayPoint is one day of results for a player inside the window.
// WinRate is cumulative within the window.
type LeaderboardDayPoint struct {
	Date        string  `json:"date"` // YYYY-MM-DD
	GamesPlayed int64   `json:"games_played"`
	GamesWon    int64   `json:"games_won"`
	WinRate     float64 `json:"win_rate"`
}

type LeaderboardPlayer struct {
	UserID      int64                 `json:"user_id"`
	Username    string                `json:"username"`
	GamesPlayed int64                 `json:"games_played"` // all-time
	GamesWon    int64                 `json:"games_won"`    // all-time
	WinRate     float64               `json:"win_rate"`
	Series      []LeaderboardDayPoint `json:"series"`
}

type LeaderboardResponse struct {
	Days  int64               `json:"days"`
	Items []LeaderboardPlayer `json:"items"`
}

type daily struct {
	played int64
	won    int64
}

// BuildLeaderboard aggregates game_results into daily points per player for
// the given window. days is normalized to [1, 365].
func BuildLeaderboard(ctx context.Context, db *sql.DB, days int64) (*LeaderboardResponse, error) {
	if days <= 0 {
		days = 30
	}
	if days > 365 {
		days = 365
	}
	since := time.Now().UTC().AddDate(0, 0, -int(days))

	byUserDay := map[int64]map[string]daily{}
	{
		rows, err := db.QueryContext(
			ctx,
			`SELECT user_id, DATE(finished_at) AS day,
			        COUNT(*) AS played,
			        SUM(CASE WHEN winner = 'player' THEN 1 ELSE 0 END) AS won
			 FROM game_results
			 WHERE finished_at >= ?
			 GROUP BY user_id, DATE(finished_at)`,
			since,
		)
		if err != nil {
			return nil, fmt.Errorf("BuildLeaderboard: querying daily results: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var uid int64
			var day string
			var d daily
			if err := rows.Scan(&uid, &day, &d.played, &d.won); err != nil {
				return nil, fmt.Errorf("BuildLeaderboard: scanning daily row: %w", err)
			}
			if byUserDay[uid] == nil {
				byUserDay[uid] = map[string]daily{}
			}
			byUserDay[uid][day] = d
		}
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("BuildLeaderboard: iterating daily rows: %w", err)
		}
	}

	items := make([]LeaderboardPlayer, 0)
	{
		rows, err := db.QueryContext(ctx,
			`SELECT id, username, games_played, games_won FROM users WHERE games_played > 0 ORDER BY username COLLATE NOCASE ASC`)
		if err != nil {
			return nil, fmt.Errorf("BuildLeaderboard: querying users: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var p LeaderboardPlayer
			if err := rows.Scan(&p.UserID, &p.Username, &p.GamesPlayed, &p.GamesWon); err != nil {
				return nil, fmt.Errorf("BuildLeaderboard: scanning user row: %w", err)
			}
			if p.GamesPlayed > 0 {
				p.WinRate = float64(p.GamesWon) / float64(p.GamesPlayed)
			}
			p.Series = buildSeries(byUserDay[p.UserID])
			items = append(items, p)
		}
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("BuildLeaderboard: iterating user rows: %w", err)
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].GamesWon != items[j].GamesWon {
			return items[i].GamesWon > items[j].GamesWon
		}
		return items[i].GamesPlayed < items[j].GamesPlayed
	})

	return &LeaderboardResponse{Days: days, Items: items}, nil
}

func buildSeries(byDay map[string]daily) []LeaderboardDayPoint {
	if len(byDay) == 0 {
		return nil
	}
	days := make([]string, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Strings(days)

	var cumPlayed, cumWon int64
	out := make([]LeaderboardDayPoint, 0, len(days))
	for _, d := range days {
		p := byDay[d]
		cumPlayed += p.played
		cumWon += p.won
		pt := LeaderboardDayPoint{Date: d, GamesPlayed: p.played, GamesWon: p.won}
		if cumPlayed > 0 {
			pt.WinRate = float64(cumWon) / float64(cumPlayed)
		}
		out = append(out, pt)
	}
	return out
}
