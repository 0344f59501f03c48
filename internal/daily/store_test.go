package daily_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/tadabbur/assets"
	"github.com/robalobadob/tadabbur/internal/daily"
	"github.com/robalobadob/tadabbur/internal/store"
)

func newStore(t *testing.T) *daily.Store {
	t.Helper()
	db, err := store.OpenSQLite(filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, store.Migrate(db, assets.Migrations()))
	return daily.NewStore(db)
}

func TestInsertResultOncePerTier(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	r := daily.Result{PlayerID: "p1", Date: "2024-01-01", Tier: "Easy", VerseNumber: 6100, Guesses: 2, Won: true}
	require.NoError(t, s.InsertResult(ctx, r))

	// A second insert for the same tier is ignored, not an error.
	r.Guesses = 5
	require.NoError(t, s.InsertResult(ctx, r))

	rows, err := s.Leaderboard(ctx, "2024-01-01", "Easy", 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].Guesses)

	rows, err = s.Leaderboard(ctx, "2024-01-01", "Hard", 0)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestLeaderboardOrdering(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	results := []daily.Result{
		{PlayerID: "lost", Guesses: 5, Won: false},
		{PlayerID: "slow", Guesses: 4, Won: true},
		{PlayerID: "hinted", Guesses: 2, Won: true, HintUsed: true},
		{PlayerID: "fast", Guesses: 2, Won: true},
		{PlayerID: "first", Guesses: 1, Won: true},
	}
	for _, r := range results {
		r.Date, r.Tier, r.VerseNumber = "2024-01-01", "Medium", 42
		require.NoError(t, s.InsertResult(ctx, r))
	}
	require.NoError(t, s.InsertResult(ctx, daily.Result{PlayerID: "other", Date: "2024-01-01", Tier: "Hard", Guesses: 1, Won: true}))

	rows, err := s.Leaderboard(ctx, "2024-01-01", "Medium", 10)
	require.NoError(t, err)

	var ids []string
	for _, r := range rows {
		ids = append(ids, r.PlayerID)
	}
	assert.Equal(t, []string{"first", "fast", "hinted", "slow", "lost"}, ids)
	assert.False(t, rows[4].Won)
	assert.True(t, rows[2].HintUsed)

	rows, err = s.Leaderboard(ctx, "2024-01-01", "Medium", 2)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}
