package progress_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/tadabbur/internal/challenge"
	"github.com/robalobadob/tadabbur/internal/corpus"
	"github.com/robalobadob/tadabbur/internal/corpus/corpustest"
	"github.com/robalobadob/tadabbur/internal/progress"
)

// hintIndex has chapter 1 with five verses (verse 1 alone in part 1) and
// chapter 2 with a single verse in part 3.
func hintIndex(t *testing.T) *corpus.Index {
	t.Helper()
	d := corpus.Data{Chapters: []corpus.Chapter{{Number: 1}, {Number: 2}}}
	parts := []int{1, 2, 2, 2, 2}
	for i, part := range parts {
		d.Verses = append(d.Verses, corpus.Verse{
			Number: i + 1, NumberInChapter: i + 1, Part: part,
			Chapter: corpus.ChapterRef{Number: 1},
		})
	}
	d.Verses = append(d.Verses, corpus.Verse{Number: 6, NumberInChapter: 1, Part: 3, Chapter: corpus.ChapterRef{Number: 2}})
	ix, err := corpus.New(d)
	require.NoError(t, err)
	return ix
}

var (
	longTier  = challenge.Tier{Name: "Long", MaxAttempts: 5, Hints: true, Part: 1}
	shortTier = challenge.Tier{Name: "Short", MaxAttempts: 5, Hints: true, Part: 3}
)

func build(t *testing.T, ix *corpus.Index, tier challenge.Tier) *challenge.Challenge {
	t.Helper()
	c, err := challenge.NewBuilder(ix).Build(tier, "2024-01-01", 1, 0)
	require.NoError(t, err)
	return c
}

// wrongChapters returns n chapters of the Easy range other than answer.
func wrongChapters(answer, n int) []int {
	var out []int
	for ch := corpustest.LastPartFrom; len(out) < n; ch++ {
		if ch != answer {
			out = append(out, ch)
		}
	}
	return out
}

func TestEasyFourWrongThenRight(t *testing.T) {
	c := build(t, corpustest.Index(), challenge.Easy)
	answer := c.Verse.Chapter.Number
	p := progress.Fresh()

	for i, ch := range wrongChapters(answer, 4) {
		assert.Equal(t, progress.Continue, p.Guess(challenge.Easy, c, ch))
		assert.True(t, p.HintAvailable, "after attempt %d", i+1)
		assert.Equal(t, 4-i, p.Remaining(challenge.Easy))
	}

	assert.Equal(t, progress.Won, p.Guess(challenge.Easy, c, answer))
	assert.True(t, p.Solved)
	assert.True(t, p.Completed)
	assert.Len(t, p.Attempts, 5)
	assert.True(t, p.Attempts[4].Correct)
	assert.False(t, p.HintAvailable)
	assert.Equal(t, progress.StatusWon, p.Status())
}

func TestAttemptBound(t *testing.T) {
	c := build(t, corpustest.Index(), challenge.Hard)
	answer := c.Verse.Chapter.Number
	p := progress.Fresh()

	wrong := []int{}
	for ch := 1; len(wrong) < 4; ch++ {
		if ch != answer {
			wrong = append(wrong, ch)
		}
	}

	assert.Equal(t, progress.Continue, p.Guess(challenge.Hard, c, wrong[0]))
	assert.False(t, p.HintAvailable, "hard tier never offers hints")
	assert.Equal(t, progress.Continue, p.Guess(challenge.Hard, c, wrong[1]))
	assert.Equal(t, progress.Lost, p.Guess(challenge.Hard, c, wrong[2]))

	assert.True(t, p.Completed)
	assert.False(t, p.Solved)
	assert.Equal(t, progress.StatusLost, p.Status())
	assert.Equal(t, 0, p.Remaining(challenge.Hard))

	assert.Equal(t, progress.Ignored, p.Guess(challenge.Hard, c, wrong[3]))
	assert.Equal(t, progress.Ignored, p.Guess(challenge.Hard, c, answer))
	assert.Len(t, p.Attempts, 3)
}

func TestRepeatedGuessUsesNoAttempt(t *testing.T) {
	c := build(t, corpustest.Index(), challenge.Easy)
	wrong := wrongChapters(c.Verse.Chapter.Number, 1)[0]
	p := progress.Fresh()

	require.Equal(t, progress.Continue, p.Guess(challenge.Easy, c, wrong))
	assert.Equal(t, progress.Repeated, p.Guess(challenge.Easy, c, wrong))
	assert.Len(t, p.Attempts, 1)
}

func TestHardRejectsHints(t *testing.T) {
	ix := corpustest.Index()
	c := build(t, ix, challenge.Hard)
	p := progress.Fresh()
	before := *p

	assert.Equal(t, progress.HintNotAllowed, p.Hint(challenge.Hard, c, ix))
	assert.Equal(t, before, *p)
	assert.Len(t, c.Unlocked, 1)
}

func TestHintCapAndMonotonicity(t *testing.T) {
	ix := hintIndex(t)
	c := build(t, ix, longTier)
	require.Equal(t, 1, c.Verse.Number)
	p := progress.Fresh()

	prev := p.UnlockedVerses
	for i := 0; i < challenge.MaxHints; i++ {
		require.Equal(t, progress.HintUnlocked, p.Hint(longTier, c, ix))
		assert.Greater(t, p.UnlockedVerses, prev)
		prev = p.UnlockedVerses
		assert.Equal(t, len(c.Unlocked)-1, c.Visible)
		assert.Equal(t, c.Visible, p.LastPaneIndex)
	}
	assert.True(t, p.HintUsed)
	assert.Equal(t, challenge.MaxHints+1, p.UnlockedVerses)
	assert.Equal(t, []int{1, 2, 3}, []int{c.Unlocked[0].Number, c.Unlocked[1].Number, c.Unlocked[2].Number})

	before := *p
	assert.Equal(t, progress.HintCapReached, p.Hint(longTier, c, ix))
	assert.Equal(t, before, *p)
	assert.Len(t, c.Unlocked, challenge.MaxHints+1)
}

func TestHintAtChapterEnd(t *testing.T) {
	ix := hintIndex(t)
	c := build(t, ix, shortTier)
	p := progress.Fresh()

	assert.Equal(t, progress.HintChapterEnd, p.Hint(shortTier, c, ix))
	assert.False(t, p.HintUsed)
	assert.True(t, p.HintsExhausted)
	assert.Equal(t, 1, p.UnlockedVerses)

	// A rebuilt challenge does not reopen hints.
	c = build(t, ix, shortTier)
	assert.Equal(t, progress.HintChapterEnd, p.Hint(shortTier, c, ix))
	assert.Len(t, c.Unlocked, 1)
}

func TestHintClearsAvailability(t *testing.T) {
	ix := hintIndex(t)
	c := build(t, ix, longTier)
	p := progress.Fresh()

	require.Equal(t, progress.Continue, p.Guess(longTier, c, 2))
	require.True(t, p.HintAvailable)
	require.Equal(t, progress.HintUnlocked, p.Hint(longTier, c, ix))
	assert.False(t, p.HintAvailable)

	// A hint is not offered again once used.
	require.Equal(t, progress.Continue, p.Guess(longTier, c, 3))
	assert.False(t, p.HintAvailable)
}

func TestGiveUp(t *testing.T) {
	ix := hintIndex(t)
	c := build(t, ix, longTier)
	p := progress.Fresh()

	assert.True(t, p.GiveUp())
	assert.True(t, p.Completed)
	assert.True(t, p.GaveUp)
	assert.False(t, p.Solved)
	assert.Equal(t, progress.StatusGaveUp, p.Status())

	assert.False(t, p.GiveUp())
	assert.Equal(t, progress.Ignored, p.Guess(longTier, c, 1))
	assert.Equal(t, progress.HintIgnored, p.Hint(longTier, c, ix))
	assert.Empty(t, p.Attempts)
}

func TestNavigate(t *testing.T) {
	ix := hintIndex(t)
	c := build(t, ix, longTier)
	p := progress.Fresh()
	require.Equal(t, progress.HintUnlocked, p.Hint(longTier, c, ix))

	assert.True(t, p.Navigate(c, 0))
	assert.Equal(t, 0, c.Visible)
	assert.Equal(t, 0, p.LastPaneIndex)

	assert.False(t, p.Navigate(c, 2))
	assert.False(t, p.Navigate(c, -1))
	assert.Equal(t, 0, p.LastPaneIndex)

	p.GiveUp()
	assert.False(t, p.Navigate(c, 1))
	assert.Equal(t, 0, c.Visible)
}

func TestOutcomeStrings(t *testing.T) {
	assert.Equal(t, "won", progress.Won.String())
	assert.Equal(t, "no_more_hints", progress.HintCapReached.String())
	assert.Equal(t, "unknown", progress.GuessOutcome(42).String())
}
