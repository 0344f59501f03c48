package challenge_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/tadabbur/internal/challenge"
	"github.com/robalobadob/tadabbur/internal/corpus"
	"github.com/robalobadob/tadabbur/internal/corpus/corpustest"
	"github.com/robalobadob/tadabbur/internal/daily"
)

// smallIndex is a ten verse corpus:
//
//	chapter 1: verses 1-3, part 1
//	chapter 2: verse 4 (part 1), verse 5 (part 2)
//	chapter 3: verse 6 (part 3), verses 7-10 (part 4)
func smallIndex(t *testing.T) *corpus.Index {
	t.Helper()
	type row struct{ n, ch, in, part int }
	rows := []row{
		{1, 1, 1, 1}, {2, 1, 2, 1}, {3, 1, 3, 1},
		{4, 2, 1, 1}, {5, 2, 2, 2},
		{6, 3, 1, 3}, {7, 3, 2, 4}, {8, 3, 3, 4}, {9, 3, 4, 4}, {10, 3, 5, 4},
	}
	d := corpus.Data{Chapters: []corpus.Chapter{{Number: 1}, {Number: 2}, {Number: 3}}}
	for _, r := range rows {
		d.Verses = append(d.Verses, corpus.Verse{
			Number: r.n, NumberInChapter: r.in, Part: r.part,
			Chapter: corpus.ChapterRef{Number: r.ch},
		})
	}
	ix, err := corpus.New(d)
	require.NoError(t, err)
	return ix
}

func numbers(vs []corpus.Verse) []int {
	out := make([]int, len(vs))
	for i, v := range vs {
		out[i] = v.Number
	}
	return out
}

func TestLookup(t *testing.T) {
	for _, name := range []string{"easy", "Medium", "HARD"} {
		_, ok := challenge.Lookup(name)
		assert.True(t, ok, name)
	}
	_, ok := challenge.Lookup("expert")
	assert.False(t, ok)

	assert.Equal(t, 5, challenge.MaxAttempts(challenge.Tiers()))
	assert.Equal(t, 3, challenge.MaxAttempts([]challenge.Tier{challenge.Hard}))
	assert.Equal(t, 3, challenge.Hard.MaxAttempts)
	assert.False(t, challenge.Hard.Hints)
}

func TestPoolScopes(t *testing.T) {
	b := challenge.NewBuilder(corpustest.Index())

	easy, err := b.Pool(challenge.Easy, "2024-01-01")
	require.NoError(t, err)
	assert.Len(t, easy, 167)
	for _, v := range easy {
		require.Equal(t, corpus.Parts, v.Part)
	}

	medium, err := b.Pool(challenge.Medium, "2024-01-01")
	require.NoError(t, err)
	assert.Len(t, medium, 354)
	for _, v := range medium {
		require.GreaterOrEqual(t, v.Chapter.Number, 36)
	}
}

func TestPickMatchesSelector(t *testing.T) {
	b := challenge.NewBuilder(corpustest.Index())

	pool, err := b.Pool(challenge.Easy, "2024-01-01")
	require.NoError(t, err)
	v, err := b.Pick(challenge.Easy, "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, pool[daily.SelectIndex("2024-01-01", len(pool), "Easy")], v)
}

func TestBuildIsDeterministic(t *testing.T) {
	a := challenge.NewBuilder(corpustest.Index())
	b := challenge.NewBuilder(corpustest.Index())

	for _, tier := range challenge.Tiers() {
		c1, err := a.Build(tier, "2024-03-10", 2, 1)
		require.NoError(t, err)
		c2, err := b.Build(tier, "2024-03-10", 2, 1)
		require.NoError(t, err)
		assert.Equal(t, c1, c2, tier.Name)
	}
}

func TestHardExcludesOtherPicks(t *testing.T) {
	b := challenge.NewBuilder(corpustest.Index())
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for d := 0; d < 366; d++ {
		key := daily.DateKey(day.AddDate(0, 0, d))

		easy, err := b.Pick(challenge.Easy, key)
		require.NoError(t, err)
		medium, err := b.Pick(challenge.Medium, key)
		require.NoError(t, err)
		hard, err := b.Pick(challenge.Hard, key)
		require.NoError(t, err)

		for _, other := range []corpus.Verse{easy, medium} {
			if hard.Number == other.Number || hard.Chapter.Number == other.Chapter.Number || hard.Part == other.Part {
				t.Fatalf("%s: hard pick %s overlaps %s", key, hard.Key(), other.Key())
			}
		}
	}
}

func TestHardPoolSkipsEmptyExcludedTiers(t *testing.T) {
	// Neither part 30 nor chapters >= 36 exist here, so nothing is excluded.
	b := challenge.NewBuilder(smallIndex(t))

	pool, err := b.Pool(challenge.Hard, "2024-01-01")
	require.NoError(t, err)
	assert.Len(t, pool, 10)

	_, err = b.Pick(challenge.Easy, "2024-01-01")
	assert.ErrorIs(t, err, challenge.ErrDataUnavailable)
}

func TestBuildUnlockedSequence(t *testing.T) {
	b := challenge.NewBuilder(smallIndex(t))
	// Each pool holds exactly one verse: 6, 5 and 4 respectively.
	head := challenge.Tier{Name: "Head", MaxAttempts: 5, Hints: true, Part: 3}
	tail := challenge.Tier{Name: "Tail", MaxAttempts: 5, Hints: true, Part: 2}
	mid := challenge.Tier{Name: "Mid", MaxAttempts: 5, Hints: true, Part: 1, MinChapter: 2}

	tests := []struct {
		name     string
		tier     challenge.Tier
		unlocked int
		want     []int
	}{
		{"fresh", head, 0, []int{6}},
		{"one", head, 1, []int{6}},
		{"two", head, 2, []int{6, 7}},
		{"capped", head, 10, []int{6, 7, 8}},
		{"chapter end", tail, 3, []int{5}},
		{"stops at chapter end", mid, 3, []int{4, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := b.Build(tt.tier, "2024-01-01", tt.unlocked, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, numbers(c.Unlocked))
			assert.Equal(t, tt.want[0], c.Verse.Number)
		})
	}
}

func TestBuildClampsVisible(t *testing.T) {
	b := challenge.NewBuilder(smallIndex(t))
	head := challenge.Tier{Name: "Head", MaxAttempts: 5, Hints: true, Part: 3}

	for visible, want := range map[int]int{-1: 0, 0: 0, 1: 1, 2: 2, 3: 0, 9: 0} {
		c, err := b.Build(head, "2024-01-01", 3, visible)
		require.NoError(t, err)
		assert.Equal(t, want, c.Visible, "visible %d", visible)
		assert.Equal(t, c.Unlocked[want], c.VisibleVerse())
	}
}

func TestBuildDataUnavailable(t *testing.T) {
	_, err := challenge.NewBuilder(nil).Build(challenge.Easy, "2024-01-01", 1, 0)
	assert.ErrorIs(t, err, challenge.ErrDataUnavailable)

	empty := challenge.Tier{Name: "Empty", MaxAttempts: 5, Part: 7}
	_, err = challenge.NewBuilder(smallIndex(t)).Build(empty, "2024-01-01", 1, 0)
	assert.ErrorIs(t, err, challenge.ErrDataUnavailable)
}

func TestChapters(t *testing.T) {
	b := challenge.NewBuilder(corpustest.Index())

	easy := b.Chapters(challenge.Easy, "")
	require.Len(t, easy, corpustest.Chapters-corpustest.LastPartFrom+1)
	assert.Equal(t, corpustest.LastPartFrom, easy[0].Number)

	assert.Len(t, b.Chapters(challenge.Medium, ""), corpustest.Chapters-35)
	assert.Len(t, b.Chapters(challenge.Hard, ""), corpustest.Chapters)

	var got []int
	for _, c := range b.Chapters(challenge.Medium, "chapter 3") {
		got = append(got, c.Number)
	}
	assert.Equal(t, []int{36, 37, 38, 39}, got)

	assert.Nil(t, challenge.NewBuilder(nil).Chapters(challenge.Hard, ""))
}
