// internal/progress/progress.go
//
// Per-tier, per-day play state and its transitions.
// Defines:
//   - Attempt: one chapter guess and whether it was right.
//   - Progress: attempts, hint usage, completion, stored pane state.
//   - Guess / Hint / GiveUp / Navigate: the state machine.
//
// State transitions:
//   - A correct guess → Completed, Solved.
//   - The tier's last allowed wrong guess → Completed (loss).
//   - GiveUp → Completed (loss), GaveUp.
//   - A hint past the end of the chapter → HintsExhausted for the day.
//   - Completed is terminal; later calls report Ignored and change nothing.
//
// Progress never returns errors: invalid requests come back as outcomes so
// callers can decide what to show.

package progress

import (
	"slices"

	"github.com/robalobadob/tadabbur/internal/challenge"
	"github.com/robalobadob/tadabbur/internal/corpus"
)

// Attempt is one submitted guess.
type Attempt struct {
	Chapter int  `json:"chapter"`
	Correct bool `json:"correct"`
}

// Progress is the mutable state of one tier for one day.
type Progress struct {
	Attempts       []Attempt `json:"attempts"`
	Solved         bool      `json:"solved"`
	Completed      bool      `json:"completed"`
	GaveUp         bool      `json:"gaveUp"`
	HintUsed       bool      `json:"hintUsed"`
	HintAvailable  bool      `json:"hintAvailable"`
	UnlockedVerses int       `json:"unlockedVerses"`
	LastPaneIndex  int       `json:"lastPaneIndex"`
	StatsRecorded  bool      `json:"statsRecorded"`
	HintsExhausted bool      `json:"hintsExhausted"`
}

// Fresh returns the state of a tier nobody has played yet today.
func Fresh() *Progress {
	return &Progress{Attempts: []Attempt{}, UnlockedVerses: 1}
}

// GuessOutcome is the result of Guess.
type GuessOutcome int

const (
	// Ignored: the challenge is already completed.
	Ignored GuessOutcome = iota
	// Repeated: the chapter was already guessed; no attempt is used.
	Repeated
	// Continue: wrong guess with attempts left.
	Continue
	Won
	Lost
)

func (o GuessOutcome) String() string {
	switch o {
	case Ignored:
		return "ignored"
	case Repeated:
		return "repeated"
	case Continue:
		return "continue"
	case Won:
		return "won"
	case Lost:
		return "lost"
	}
	return "unknown"
}

// HintOutcome is the result of Hint.
type HintOutcome int

const (
	HintIgnored HintOutcome = iota
	HintNotAllowed
	HintCapReached
	HintChapterEnd
	HintUnlocked
)

func (o HintOutcome) String() string {
	switch o {
	case HintIgnored:
		return "ignored"
	case HintNotAllowed:
		return "not_allowed"
	case HintCapReached:
		return "no_more_hints"
	case HintChapterEnd:
		return "chapter_end"
	case HintUnlocked:
		return "unlocked"
	}
	return "unknown"
}

// Status values reported by Progress.Status.
const (
	StatusPlaying = "playing"
	StatusWon     = "won"
	StatusLost    = "lost"
	StatusGaveUp  = "gave_up"
)

// Guess records a guess of chapter against c.
func (p *Progress) Guess(t challenge.Tier, c *challenge.Challenge, chapter int) GuessOutcome {
	if p.Completed || len(p.Attempts) >= t.MaxAttempts {
		return Ignored
	}
	if slices.ContainsFunc(p.Attempts, func(a Attempt) bool { return a.Chapter == chapter }) {
		return Repeated
	}

	correct := chapter == c.Verse.Chapter.Number
	p.Attempts = append(p.Attempts, Attempt{Chapter: chapter, Correct: correct})

	switch {
	case correct:
		p.Solved = true
		p.complete()
		return Won
	case len(p.Attempts) >= t.MaxAttempts:
		p.complete()
		return Lost
	}

	if len(p.Attempts) == 1 && t.Hints && !p.HintUsed {
		p.HintAvailable = true
	}
	return Continue
}

// Hint unlocks the verse following the last unlocked one in the same chapter
// and shows it. ix must be the corpus c was built from.
//
// The cap check is len(Unlocked) > MaxHints, which allows exactly MaxHints
// hints. Once a hint reports HintChapterEnd, every later hint does too.
func (p *Progress) Hint(t challenge.Tier, c *challenge.Challenge, ix *corpus.Index) HintOutcome {
	if p.Completed {
		return HintIgnored
	}
	if !t.Hints {
		return HintNotAllowed
	}
	if p.HintsExhausted {
		return HintChapterEnd
	}
	if len(c.Unlocked) > challenge.MaxHints {
		return HintCapReached
	}
	next, ok := ix.Next(c.Unlocked[len(c.Unlocked)-1])
	if !ok {
		p.HintsExhausted = true
		p.HintAvailable = false
		return HintChapterEnd
	}

	c.Unlocked = append(c.Unlocked, next)
	c.Visible = len(c.Unlocked) - 1

	p.HintUsed = true
	p.HintAvailable = false
	p.UnlockedVerses = len(c.Unlocked)
	p.LastPaneIndex = c.Visible
	return HintUnlocked
}

// GiveUp ends the challenge as a loss. It reports false if it was already
// completed.
func (p *Progress) GiveUp() bool {
	if p.Completed {
		return false
	}
	p.GaveUp = true
	p.complete()
	return true
}

// Navigate shows the unlocked verse at idx. Out-of-range indexes and
// completed challenges are ignored.
func (p *Progress) Navigate(c *challenge.Challenge, idx int) bool {
	if p.Completed || idx < 0 || idx >= len(c.Unlocked) {
		return false
	}
	c.Visible = idx
	p.LastPaneIndex = idx
	return true
}

// Remaining is the number of attempts left in t.
func (p *Progress) Remaining(t challenge.Tier) int {
	return max(t.MaxAttempts-len(p.Attempts), 0)
}

// Status summarizes the state as one of the Status constants.
func (p *Progress) Status() string {
	switch {
	case !p.Completed:
		return StatusPlaying
	case p.Solved:
		return StatusWon
	case p.GaveUp:
		return StatusGaveUp
	}
	return StatusLost
}

func (p *Progress) complete() {
	p.Completed = true
	p.HintAvailable = false
}
