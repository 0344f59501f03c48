package progress

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/robalobadob/tadabbur/internal/challenge"
)

// ErrCorruptRecord reports stored progress that could not be used as is.
var ErrCorruptRecord = errors.New("progress: corrupt record")

// DailyRecord is everything a player did today, keyed by tier name.
type DailyRecord struct {
	Date     string               `json:"date"`
	Progress map[string]*Progress `json:"progress"`
}

// NewDailyRecord returns a record with fresh progress for every tier.
func NewDailyRecord(date string, tiers []challenge.Tier) *DailyRecord {
	rec := &DailyRecord{Date: date, Progress: make(map[string]*Progress, len(tiers))}
	for _, t := range tiers {
		rec.Progress[t.Name] = Fresh()
	}
	return rec
}

// wireProgress mirrors Progress with pointers on the fields a record must
// carry, so that missing fields can be told apart from zero values.
type wireProgress struct {
	Attempts       *[]Attempt `json:"attempts"`
	Solved         *bool      `json:"solved"`
	Completed      *bool      `json:"completed"`
	GaveUp         bool       `json:"gaveUp"`
	HintUsed       *bool      `json:"hintUsed"`
	HintAvailable  bool       `json:"hintAvailable"`
	UnlockedVerses *int       `json:"unlockedVerses"`
	LastPaneIndex  *int       `json:"lastPaneIndex"`
	StatsRecorded  *bool      `json:"statsRecorded"`
	HintsExhausted bool       `json:"hintsExhausted"`
}

type wireDaily struct {
	Date     string                     `json:"date"`
	Progress map[string]json.RawMessage `json:"progress"`
}

// DecodeDailyRecord loads a stored daily record for today.
//
// It always returns a usable record. A record from another day is replaced
// by a fresh one. Unparseable data, and tiers with missing required fields
// or impossible state, are replaced by fresh progress and reported in the
// returned error (wrapping ErrCorruptRecord). Older records without
// unlockedVerses or lastPaneIndex are upgraded.
func DecodeDailyRecord(data []byte, today string, tiers []challenge.Tier) (*DailyRecord, error) {
	fresh := NewDailyRecord(today, tiers)

	var w wireDaily
	if err := json.Unmarshal(data, &w); err != nil {
		return fresh, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	if w.Date != today {
		return fresh, nil
	}

	var errs []error
	for _, t := range tiers {
		raw, ok := w.Progress[t.Name]
		if !ok {
			continue
		}
		p, err := decodeProgress(raw, t)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: tier %s: %v", ErrCorruptRecord, t.Name, err))
			continue
		}
		fresh.Progress[t.Name] = p
	}
	return fresh, errors.Join(errs...)
}

func decodeProgress(raw json.RawMessage, t challenge.Tier) (*Progress, error) {
	var w wireProgress
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, err
	}
	switch {
	case w.Attempts == nil:
		return nil, errors.New("missing attempts")
	case w.Solved == nil:
		return nil, errors.New("missing solved")
	case w.Completed == nil:
		return nil, errors.New("missing completed")
	case w.HintUsed == nil:
		return nil, errors.New("missing hintUsed")
	case w.StatsRecorded == nil:
		return nil, errors.New("missing statsRecorded")
	}

	p := &Progress{
		Attempts:       *w.Attempts,
		Solved:         *w.Solved,
		Completed:      *w.Completed,
		GaveUp:         w.GaveUp,
		HintUsed:       *w.HintUsed,
		HintAvailable:  w.HintAvailable,
		UnlockedVerses: 1,
		StatsRecorded:  *w.StatsRecorded,
		HintsExhausted: w.HintsExhausted,
	}
	if w.UnlockedVerses != nil {
		p.UnlockedVerses = *w.UnlockedVerses
	}
	if w.LastPaneIndex != nil {
		p.LastPaneIndex = *w.LastPaneIndex
	}
	if p.Attempts == nil {
		p.Attempts = []Attempt{}
	}
	if err := p.validate(t); err != nil {
		return nil, err
	}
	return p, nil
}

// validate checks the invariants the state machine maintains.
func (p *Progress) validate(t challenge.Tier) error {
	n := len(p.Attempts)
	if n > t.MaxAttempts {
		return fmt.Errorf("%d attempts exceed %d", n, t.MaxAttempts)
	}
	for i, a := range p.Attempts {
		if a.Correct && i != n-1 {
			return fmt.Errorf("attempt %d is correct but not last", i+1)
		}
	}
	won := n > 0 && p.Attempts[n-1].Correct
	switch {
	case p.Solved != won:
		return errors.New("solved does not match attempts")
	case p.Solved && !p.Completed:
		return errors.New("solved but not completed")
	case n == t.MaxAttempts && !p.Completed:
		return errors.New("attempts exhausted but not completed")
	case p.GaveUp && (!p.Completed || p.Solved):
		return errors.New("inconsistent give-up")
	case p.StatsRecorded && !p.Completed:
		return errors.New("stats recorded before completion")
	case p.UnlockedVerses < 1 || p.UnlockedVerses > challenge.MaxHints+1:
		return fmt.Errorf("unlockedVerses %d out of range", p.UnlockedVerses)
	case p.UnlockedVerses > 1 && !p.HintUsed:
		return errors.New("verses unlocked without a hint")
	case p.HintUsed && !t.Hints:
		return errors.New("hint used in a tier without hints")
	case p.HintsExhausted && !t.Hints:
		return errors.New("hints exhausted in a tier without hints")
	}
	if p.LastPaneIndex < 0 || p.LastPaneIndex >= p.UnlockedVerses {
		// Builders clamp this anyway; keep the record consistent.
		p.LastPaneIndex = 0
	}
	return nil
}
