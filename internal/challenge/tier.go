// Package challenge builds the daily challenge for each difficulty tier.
package challenge

import (
	"strings"

	"github.com/robalobadob/tadabbur/internal/corpus"
)

// MaxHints is the number of hints a player may take per challenge, so at most
// MaxHints+1 verses are ever unlocked.
const MaxHints = 2

// Tier is a fixed difficulty configuration.
//
// The candidate pool is every verse in Part (0 means any part) whose chapter
// number is at least MinChapter, minus the verses that share a number,
// chapter or part with the daily pick of any tier in Exclude.
type Tier struct {
	Name        string `json:"name"`
	Label       string `json:"label"`
	MaxAttempts int    `json:"maxAttempts"`
	Hints       bool   `json:"hints"`
	Part        int    `json:"part,omitempty"`
	MinChapter  int    `json:"minChapter,omitempty"`
	Exclude     []Tier `json:"-"`
}

var (
	Easy = Tier{
		Name:        "Easy",
		Label:       "Juz Amma (30)",
		MaxAttempts: 5,
		Hints:       true,
		Part:        corpus.Parts,
	}
	Medium = Tier{
		Name:        "Medium",
		Label:       "Surah 36-114",
		MaxAttempts: 5,
		Hints:       true,
		MinChapter:  36,
	}
	Hard = Tier{
		Name:        "Hard",
		Label:       "Full Qur'an",
		MaxAttempts: 3,
		Hints:       false,
		Exclude:     []Tier{Easy, Medium},
	}
)

// Tiers returns the tiers in display order.
func Tiers() []Tier { return []Tier{Easy, Medium, Hard} }

// Lookup finds a tier by name, ignoring case.
func Lookup(name string) (Tier, bool) {
	for _, t := range Tiers() {
		if strings.EqualFold(t.Name, name) {
			return t, true
		}
	}
	return Tier{}, false
}

// MaxAttempts is the largest attempt limit of tiers. It sizes the guess
// distribution histogram.
func MaxAttempts(tiers []Tier) int {
	n := 0
	for _, t := range tiers {
		n = max(n, t.MaxAttempts)
	}
	return n
}

// InScope reports whether v belongs to the tier's base pool, before any
// cross-tier exclusion.
func (t Tier) InScope(v corpus.Verse) bool {
	if t.Part != 0 && v.Part != t.Part {
		return false
	}
	return v.Chapter.Number >= t.MinChapter
}
