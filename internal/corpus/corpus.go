// internal/corpus/corpus.go
//
// In-memory scripture corpus used by the challenge engine.
// Responsibilities:
//   - Hold verses ordered by global number with O(1) lookup by number.
//   - Hold chapter metadata and the part (juz) → chapters grouping.
//   - Hold parallel translation text and audio URLs keyed by verse number.
//   - Validate that verse numbering is consistent with chapter/part grouping.
//
// The index is immutable once built. Slices returned by accessors are shared
// with the index and must be treated as read-only.

package corpus

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// Parts is the number of fixed contiguous groupings spanning the corpus.
const Parts = 30

// ErrInvalidCorpus reports corpus data that violates numbering invariants.
var ErrInvalidCorpus = errors.New("corpus: invalid data")

// Revelation classifies where a chapter was revealed.
type Revelation string

const (
	Meccan  Revelation = "Meccan"
	Medinan Revelation = "Medinan"
)

// Chapter is a named, numbered grouping of verses.
type Chapter struct {
	Number                 int        `json:"number"`
	Name                   string     `json:"name"`
	EnglishName            string     `json:"englishName"`
	EnglishNameTranslation string     `json:"englishNameTranslation"`
	Revelation             Revelation `json:"revelationType"`
	VerseCount             int        `json:"numberOfAyahs"`
}

// Ref returns the compact reference embedded in verses.
func (c Chapter) Ref() ChapterRef {
	return ChapterRef{Number: c.Number, Name: c.Name, EnglishName: c.EnglishName}
}

// ChapterRef identifies the chapter a verse belongs to.
type ChapterRef struct {
	Number      int    `json:"number"`
	Name        string `json:"name"`
	EnglishName string `json:"englishName"`
}

// Verse is the smallest addressable unit of text.
type Verse struct {
	Number          int        `json:"number"`
	NumberInChapter int        `json:"numberInSurah"`
	Chapter         ChapterRef `json:"surah"`
	Part            int        `json:"juz"`
	Text            string     `json:"text"`
}

// Key renders the conventional "chapter:verse" reference.
func (v Verse) Key() string {
	return strconv.Itoa(v.Chapter.Number) + ":" + strconv.Itoa(v.NumberInChapter)
}

// EditionVerse is a verse of a parallel edition (translation or audio),
// keyed by global verse number.
type EditionVerse struct {
	Number int    `json:"number"`
	Text   string `json:"text,omitempty"`
	Audio  string `json:"audio,omitempty"`
}

// Data is the raw corpus as supplied by the loader.
type Data struct {
	Chapters     []Chapter      `json:"chapters"`
	Verses       []Verse        `json:"verses"`
	Translations []EditionVerse `json:"translations,omitempty"`
	Audio        []EditionVerse `json:"audio,omitempty"`
}

// Index is the read-only corpus lookup structure.
type Index struct {
	verses       []Verse
	byNumber     map[int]int
	chapters     []Chapter
	chapterByNum map[int]Chapter
	partChapters map[int][]int
	translations map[int]string
	audio        map[int]string
}

// New validates d and builds an Index.
func New(d Data) (*Index, error) {
	if len(d.Verses) == 0 {
		return nil, fmt.Errorf("%w: no verses", ErrInvalidCorpus)
	}

	chapters := append([]Chapter(nil), d.Chapters...)
	sort.Slice(chapters, func(i, j int) bool { return chapters[i].Number < chapters[j].Number })
	chapterByNum := make(map[int]Chapter, len(chapters))
	for _, c := range chapters {
		if _, dup := chapterByNum[c.Number]; dup {
			return nil, fmt.Errorf("%w: duplicate chapter %d", ErrInvalidCorpus, c.Number)
		}
		chapterByNum[c.Number] = c
	}

	verses := append([]Verse(nil), d.Verses...)
	sort.Slice(verses, func(i, j int) bool { return verses[i].Number < verses[j].Number })

	byNumber := make(map[int]int, len(verses))
	for i, v := range verses {
		if _, dup := byNumber[v.Number]; dup {
			return nil, fmt.Errorf("%w: duplicate verse %d", ErrInvalidCorpus, v.Number)
		}
		if v.Part < 1 || v.Part > Parts {
			return nil, fmt.Errorf("%w: verse %d has part %d", ErrInvalidCorpus, v.Number, v.Part)
		}
		c, ok := chapterByNum[v.Chapter.Number]
		if !ok {
			return nil, fmt.Errorf("%w: verse %d references unknown chapter %d", ErrInvalidCorpus, v.Number, v.Chapter.Number)
		}
		// Fill in names when the loader only supplied the chapter number.
		if v.Chapter.Name == "" && v.Chapter.EnglishName == "" {
			verses[i].Chapter = c.Ref()
		}
		if i > 0 {
			prev := verses[i-1]
			switch {
			case v.Chapter.Number < prev.Chapter.Number:
				return nil, fmt.Errorf("%w: verse %d goes back to chapter %d", ErrInvalidCorpus, v.Number, v.Chapter.Number)
			case v.Part < prev.Part:
				return nil, fmt.Errorf("%w: verse %d goes back to part %d", ErrInvalidCorpus, v.Number, v.Part)
			case v.Chapter.Number == prev.Chapter.Number && v.NumberInChapter != prev.NumberInChapter+1:
				return nil, fmt.Errorf("%w: verse %d breaks chapter %d numbering", ErrInvalidCorpus, v.Number, v.Chapter.Number)
			}
		}
		byNumber[v.Number] = i
	}

	ix := &Index{
		verses:       verses,
		byNumber:     byNumber,
		chapters:     chapters,
		chapterByNum: chapterByNum,
		partChapters: groupChaptersByPart(verses),
		translations: editionText(d.Translations, func(e EditionVerse) string { return e.Text }),
		audio:        editionText(d.Audio, func(e EditionVerse) string { return e.Audio }),
	}
	return ix, nil
}

// groupChaptersByPart lists, for each part, the distinct chapters that have
// at least one verse in it, in ascending order.
func groupChaptersByPart(verses []Verse) map[int][]int {
	byPart := lo.GroupBy(verses, func(v Verse) int { return v.Part })
	out := make(map[int][]int, len(byPart))
	for part, vs := range byPart {
		nums := lo.Uniq(lo.Map(vs, func(v Verse, _ int) int { return v.Chapter.Number }))
		sort.Ints(nums)
		out[part] = nums
	}
	return out
}

func editionText(list []EditionVerse, pick func(EditionVerse) string) map[int]string {
	m := make(map[int]string, len(list))
	for _, e := range list {
		if s := pick(e); s != "" {
			m[e.Number] = s
		}
	}
	return m
}

// Len reports the number of verses.
func (ix *Index) Len() int { return len(ix.verses) }

// Filter returns the verses matching keep, in corpus order.
func (ix *Index) Filter(keep func(Verse) bool) []Verse {
	return lo.Filter(ix.verses, func(v Verse, _ int) bool { return keep(v) })
}

// Verse looks up a verse by global number.
func (ix *Index) Verse(number int) (Verse, bool) {
	i, ok := ix.byNumber[number]
	if !ok {
		return Verse{}, false
	}
	return ix.verses[i], true
}

// Next returns the verse following v within the same chapter.
// It reports false at the end of a chapter.
func (ix *Index) Next(v Verse) (Verse, bool) {
	n, ok := ix.Verse(v.Number + 1)
	if !ok || n.Chapter.Number != v.Chapter.Number {
		return Verse{}, false
	}
	return n, true
}

// Chapter looks up chapter metadata by number.
func (ix *Index) Chapter(number int) (Chapter, bool) {
	c, ok := ix.chapterByNum[number]
	return c, ok
}

// Chapters returns all chapters ordered by number.
func (ix *Index) Chapters() []Chapter { return ix.chapters[:len(ix.chapters):len(ix.chapters)] }

// ChaptersInPart returns the chapters with at least one verse in part.
func (ix *Index) ChaptersInPart(part int) []Chapter {
	return lo.FilterMap(ix.partChapters[part], func(n int, _ int) (Chapter, bool) {
		c, ok := ix.chapterByNum[n]
		return c, ok
	})
}

// SearchChapters matches query against English name, Arabic name and number
// (case-insensitive substring), restricted to chapters accepted by keep.
// An empty query returns every accepted chapter.
func (ix *Index) SearchChapters(query string, keep func(Chapter) bool) []Chapter {
	q := strings.ToLower(strings.TrimSpace(query))
	return lo.Filter(ix.chapters, func(c Chapter, _ int) bool {
		if keep != nil && !keep(c) {
			return false
		}
		if q == "" {
			return true
		}
		return strings.Contains(strings.ToLower(c.EnglishName), q) ||
			strings.Contains(c.Name, q) ||
			strings.Contains(strconv.Itoa(c.Number), q)
	})
}

// Translation returns the translated text of a verse.
func (ix *Index) Translation(number int) (string, bool) {
	s, ok := ix.translations[number]
	return s, ok
}

// Audio returns the recitation URL of a verse.
func (ix *Index) Audio(number int) (string, bool) {
	s, ok := ix.audio[number]
	return s, ok
}
