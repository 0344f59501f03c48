package challenge

import (
	"errors"
	"fmt"

	"github.com/samber/lo"

	"github.com/robalobadob/tadabbur/internal/corpus"
	"github.com/robalobadob/tadabbur/internal/daily"
)

// ErrDataUnavailable is returned when the corpus is not loaded or a tier's
// candidate pool is empty. Callers may reload data and retry.
var ErrDataUnavailable = errors.New("challenge: data unavailable")

// Challenge is the derived daily puzzle for one tier. It is rebuilt from the
// corpus on every load; only the unlock count and visible index are stored.
type Challenge struct {
	Tier     Tier
	Date     string
	Verse    corpus.Verse
	Unlocked []corpus.Verse
	Visible  int
}

// VisibleVerse returns the verse currently shown.
func (c *Challenge) VisibleVerse() corpus.Verse { return c.Unlocked[c.Visible] }

// Builder computes pools and daily picks over a corpus.
type Builder struct {
	ix *corpus.Index
}

// NewBuilder returns a Builder over ix. A nil index is allowed; every build
// then fails with ErrDataUnavailable.
func NewBuilder(ix *corpus.Index) *Builder { return &Builder{ix: ix} }

// Index returns the underlying corpus.
func (b *Builder) Index() *corpus.Index { return b.ix }

// Pool returns the candidate verses of t for dateKey, in corpus order.
func (b *Builder) Pool(t Tier, dateKey string) ([]corpus.Verse, error) {
	if b.ix == nil {
		return nil, fmt.Errorf("%w: corpus not loaded", ErrDataUnavailable)
	}
	pool := b.ix.Filter(t.InScope)

	for _, ex := range t.Exclude {
		pick, err := b.Pick(ex, dateKey)
		if errors.Is(err, ErrDataUnavailable) {
			// Nothing to keep clear of.
			continue
		}
		if err != nil {
			return nil, err
		}
		pool = lo.Reject(pool, func(v corpus.Verse, _ int) bool {
			return v.Number == pick.Number ||
				v.Chapter.Number == pick.Chapter.Number ||
				v.Part == pick.Part
		})
	}

	if len(pool) == 0 {
		return nil, fmt.Errorf("%w: no %s candidates", ErrDataUnavailable, t.Name)
	}
	return pool, nil
}

// Pick returns the verse t selects for dateKey.
func (b *Builder) Pick(t Tier, dateKey string) (corpus.Verse, error) {
	pool, err := b.Pool(t, dateKey)
	if err != nil {
		return corpus.Verse{}, err
	}
	return pool[daily.SelectIndex(dateKey, len(pool), t.Name)], nil
}

// Build assembles the challenge of t for dateKey, restoring a previously
// stored unlock count and visible index.
//
// The unlocked sequence follows same-chapter successors of the picked verse
// and silently stops at the end of the chapter. visible is reset to 0 when
// it falls outside the rebuilt sequence.
func (b *Builder) Build(t Tier, dateKey string, unlocked, visible int) (*Challenge, error) {
	v, err := b.Pick(t, dateKey)
	if err != nil {
		return nil, err
	}

	want := min(max(unlocked, 1), MaxHints+1)
	seq := []corpus.Verse{v}
	for len(seq) < want {
		next, ok := b.ix.Next(seq[len(seq)-1])
		if !ok {
			break
		}
		seq = append(seq, next)
	}

	if visible < 0 || visible >= len(seq) {
		visible = 0
	}
	return &Challenge{Tier: t, Date: dateKey, Verse: v, Unlocked: seq, Visible: visible}, nil
}

// Chapters lists the chapters a player can choose from in t, filtered by
// query (see corpus.Index.SearchChapters).
func (b *Builder) Chapters(t Tier, query string) []corpus.Chapter {
	if b.ix == nil {
		return nil
	}
	var inPart map[int]bool
	if t.Part != 0 {
		inPart = lo.SliceToMap(b.ix.ChaptersInPart(t.Part), func(c corpus.Chapter) (int, bool) {
			return c.Number, true
		})
	}
	return b.ix.SearchChapters(query, func(c corpus.Chapter) bool {
		if inPart != nil && !inPart[c.Number] {
			return false
		}
		return c.Number >= t.MinChapter
	})
}
