// internal/game/types.go
//
// Type definitions shared by the game session.
// Defines:
//   - Options: everything a Session needs (player, corpus, persistence, clock).
//   - ResultLog: optional sink for finished challenges (leaderboard).
//   - View: read-only snapshot of one tier for rendering.

package game

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/robalobadob/tadabbur/internal/challenge"
	"github.com/robalobadob/tadabbur/internal/daily"
	"github.com/robalobadob/tadabbur/internal/progress"
	"github.com/robalobadob/tadabbur/internal/store"
)

var (
	ErrUnknownTier    = errors.New("game: unknown tier")
	ErrInvalidChapter = errors.New("game: chapter not playable in this tier")
	ErrNotFinished    = errors.New("game: challenge not finished")
)

// ResultLog records finished challenges. *daily.Store implements it.
type ResultLog interface {
	InsertResult(ctx context.Context, r daily.Result) error
}

// Options configure a Session.
type Options struct {
	Player  string             // record owner; required
	Builder *challenge.Builder // required; may wrap a nil corpus
	Store   store.Store        // required
	Results ResultLog          // optional
	Now     func() time.Time   // defaults to time.Now
	Tiers   []challenge.Tier   // defaults to challenge.Tiers()
}

// View is a snapshot of one tier for today.
type View struct {
	Date      string
	Tier      challenge.Tier
	Challenge challenge.Challenge
	Progress  progress.Progress
	Remaining int
	// Review is set once the challenge is completed: the player replays
	// their attempts and nothing can change any more.
	Review bool
	// HintsDisabled is set after a hint hit the end of the chapter.
	HintsDisabled bool
}

func newView(date string, t challenge.Tier, c *challenge.Challenge, p *progress.Progress) *View {
	v := &View{
		Date:          date,
		Tier:          t,
		Challenge:     *c,
		Progress:      *p,
		Remaining:     p.Remaining(t),
		Review:        p.Completed,
		HintsDisabled: p.HintsExhausted,
	}
	v.Challenge.Unlocked = slices.Clone(c.Unlocked)
	v.Progress.Attempts = slices.Clone(p.Attempts)
	return v
}

// Status is the progress status (see progress.Status constants).
func (v *View) Status() string { return v.Progress.Status() }

// Message is the end-of-game text, empty while the challenge is in progress.
func (v *View) Message() string {
	if !v.Progress.Completed {
		return ""
	}
	var head string
	switch v.Progress.Status() {
	case progress.StatusWon:
		head = "MashAllah, correct!"
	case progress.StatusGaveUp:
		head = "Challenge ended."
	default:
		head = "Better luck next time!"
	}
	ch := v.Challenge.Verse.Chapter
	return fmt.Sprintf("%s The verse is from Surah %s (%s).", head, ch.EnglishName, ch.Name)
}
