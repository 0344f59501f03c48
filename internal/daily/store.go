// internal/daily/store.go
//
// Append-only log of finished daily challenges, one row per
// (player, date, tier), plus the per-tier leaderboard built on it.
// Rows live in the daily_results table created by the SQL migrations.

package daily

import (
	"context"
	"database/sql"
)

// Result is a finished daily challenge.
type Result struct {
	PlayerID    string `json:"playerId"`
	Date        string `json:"date"`
	Tier        string `json:"tier"`
	VerseNumber int    `json:"verseNumber"`
	Guesses     int    `json:"guesses"`
	Won         bool   `json:"won"`
	HintUsed    bool   `json:"hintUsed"`
}

// LBRow is a leaderboard entry.
type LBRow struct {
	PlayerID string `json:"playerId"`
	Guesses  int    `json:"guesses"`
	Won      bool   `json:"won"`
	HintUsed bool   `json:"hintUsed"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// InsertResult stores r. A second result for the same player, date and tier
// is ignored.
func (s *Store) InsertResult(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT OR IGNORE INTO daily_results
            (player_id, date, tier, verse_number, guesses, won, hint_used)
        VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.PlayerID, r.Date, r.Tier, r.VerseNumber, r.Guesses, r.Won, r.HintUsed,
	)
	return err
}

// Leaderboard returns the best results for a date and tier: wins first, then
// fewer guesses, then no hint, then earliest finish. limit <= 0 means 20.
func (s *Store) Leaderboard(ctx context.Context, date, tier string, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT player_id, guesses, won, hint_used
        FROM daily_results
        WHERE date=? AND tier=?
        ORDER BY won DESC, guesses ASC, hint_used ASC, created_at ASC, id ASC
        LIMIT ?`, date, tier, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]LBRow, 0, limit)
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.PlayerID, &r.Guesses, &r.Won, &r.HintUsed); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
