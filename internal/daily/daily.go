// internal/daily/daily.go
//
// Deterministic daily selection.
// Responsibilities:
//   - Render the UTC date key shared by every player ("YYYY-MM-DD").
//   - Hash a date key + salt into a stable 32-bit value.
//   - Map that value through a linear-congruential step onto [0, poolSize).
//
// Everything here is pure: the same inputs give the same index on every
// process and platform, which is what makes the daily challenge shared.

package daily

import (
	"time"
	"unicode/utf16"
)

// Linear-congruential constants used to spread the hash over [0, 1).
const (
	lcgMul = 9301
	lcgInc = 49297
	lcgMod = 233280
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Hash is a rolling polynomial hash (h*31 + c) over the UTF-16 code units of
// s, wrapped to a signed 32-bit value. The absolute value is returned as int64
// so that |MinInt32| is representable.
func Hash(s string) int64 {
	var h int32
	for _, c := range utf16.Encode([]rune(s)) {
		h = (h << 5) - h + int32(c)
	}
	n := int64(h)
	if n < 0 {
		n = -n
	}
	return n
}

// SelectIndex returns a deterministic index in [0, poolSize) for a date key,
// using salt to give each tier its own pick.
//
// It panics if poolSize <= 0; callers must reject empty pools first.
func SelectIndex(dateKey string, poolSize int, salt string) int {
	if poolSize <= 0 {
		panic("daily: SelectIndex called with empty pool")
	}
	seed := Hash(dateKey + salt)
	x := (seed*lcgMul + lcgInc) % lcgMod
	return int(float64(x) / lcgMod * float64(poolSize))
}
