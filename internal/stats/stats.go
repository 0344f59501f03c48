// Package stats aggregates a player's lifetime results: games played and won,
// streaks, and the distribution of winning guess counts.
//
// Statistics does not know about days or tiers. Callers record each completed
// challenge once (see game.Session, which guards with Progress.StatsRecorded).
package stats

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
)

// FailKey is the distribution bucket of lost games.
const FailKey = "fail"

// ErrCorruptStats reports a stored statistics record that cannot be trusted.
var ErrCorruptStats = errors.New("stats: corrupt record")

// Statistics is the lifetime record of one player.
type Statistics struct {
	GamesPlayed       int            `json:"gamesPlayed"`
	GamesWon          int            `json:"gamesWon"`
	CurrentStreak     int            `json:"currentStreak"`
	MaxStreak         int            `json:"maxStreak"`
	GuessDistribution map[string]int `json:"guessDistribution"`
}

// New returns empty statistics with buckets "1".."maxAttempts" and FailKey.
func New(maxAttempts int) *Statistics {
	s := &Statistics{GuessDistribution: make(map[string]int, maxAttempts+1)}
	for i := 1; i <= maxAttempts; i++ {
		s.GuessDistribution[strconv.Itoa(i)] = 0
	}
	s.GuessDistribution[FailKey] = 0
	return s
}

// Record adds one completed game. A win increments the bucket for attempts
// only when that bucket exists; other counts are dropped.
func (s *Statistics) Record(won bool, attempts int) {
	s.GamesPlayed++
	if !won {
		s.CurrentStreak = 0
		s.GuessDistribution[FailKey]++
		return
	}
	s.GamesWon++
	s.CurrentStreak++
	s.MaxStreak = max(s.MaxStreak, s.CurrentStreak)
	if _, ok := s.GuessDistribution[strconv.Itoa(attempts)]; ok {
		s.GuessDistribution[strconv.Itoa(attempts)]++
	}
}

// WinPercent is the share of games won, rounded half up to a whole percent.
func (s *Statistics) WinPercent() int {
	if s.GamesPlayed <= 0 {
		return 0
	}
	return int(math.Floor(float64(s.GamesWon)/float64(s.GamesPlayed)*100 + 0.5))
}

// Bar is one row of the guess distribution chart.
type Bar struct {
	Label   string  `json:"label"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// Bars returns the distribution for guess counts 1..maxAttempts followed by
// losses (labelled "X"), each scaled against the largest bucket.
func (s *Statistics) Bars(maxAttempts int) []Bar {
	top := 1
	for _, n := range s.GuessDistribution {
		top = max(top, n)
	}
	bar := func(label string, n int) Bar {
		return Bar{Label: label, Count: n, Percent: float64(n) / float64(top) * 100}
	}

	out := make([]Bar, 0, maxAttempts+1)
	for i := 1; i <= maxAttempts; i++ {
		out = append(out, bar(strconv.Itoa(i), s.GuessDistribution[strconv.Itoa(i)]))
	}
	return append(out, bar("X", s.GuessDistribution[FailKey]))
}

// Decode loads stored statistics. Missing counters and buckets are added,
// unknown buckets are dropped. Malformed or impossible records return fresh
// statistics together with an error wrapping ErrCorruptStats.
func Decode(data []byte, maxAttempts int) (*Statistics, error) {
	var w Statistics
	if err := json.Unmarshal(data, &w); err != nil {
		return New(maxAttempts), fmt.Errorf("%w: %v", ErrCorruptStats, err)
	}

	s := New(maxAttempts)
	s.GamesPlayed, s.GamesWon = w.GamesPlayed, w.GamesWon
	s.CurrentStreak, s.MaxStreak = w.CurrentStreak, w.MaxStreak
	for k, n := range w.GuessDistribution {
		if _, ok := s.GuessDistribution[k]; ok {
			s.GuessDistribution[k] = n
		}
	}

	if err := s.validate(); err != nil {
		return New(maxAttempts), fmt.Errorf("%w: %v", ErrCorruptStats, err)
	}
	return s, nil
}

func (s *Statistics) validate() error {
	if s.GamesPlayed < 0 || s.GamesWon < 0 || s.CurrentStreak < 0 || s.MaxStreak < 0 {
		return errors.New("negative counter")
	}
	for k, n := range s.GuessDistribution {
		if n < 0 {
			return fmt.Errorf("negative bucket %q", k)
		}
	}
	switch {
	case s.GamesWon > s.GamesPlayed:
		return errors.New("more wins than games")
	case s.CurrentStreak > s.MaxStreak:
		return errors.New("current streak above max streak")
	case s.MaxStreak > s.GamesWon:
		return errors.New("max streak above wins")
	}
	return nil
}
