// Package corpustest builds a small deterministic corpus shaped like the real
// one: 114 chapters, 30 parts, chapters 78..114 forming the last part.
package corpustest

import (
	"fmt"

	"github.com/robalobadob/tadabbur/internal/corpus"
)

// Chapters is the number of chapters in the fixture.
const Chapters = 114

// LastPartFrom is the first chapter that lies entirely in part 30.
const LastPartFrom = 78

// VerseCount returns the number of verses of chapter c in the fixture.
func VerseCount(c int) int { return 3 + c%4 }

// PartOf returns the part every verse of chapter c belongs to.
func PartOf(c int) int {
	if c >= LastPartFrom {
		return corpus.Parts
	}
	return (c-1)*(corpus.Parts-1)/(LastPartFrom-1) + 1
}

// Data returns the raw fixture corpus.
func Data() corpus.Data {
	var d corpus.Data
	n := 0
	for c := 1; c <= Chapters; c++ {
		ch := corpus.Chapter{
			Number:                 c,
			Name:                   fmt.Sprintf("سورة %d", c),
			EnglishName:            fmt.Sprintf("Chapter %d", c),
			EnglishNameTranslation: fmt.Sprintf("The %dth", c),
			Revelation:             corpus.Meccan,
			VerseCount:             VerseCount(c),
		}
		if c%2 == 0 {
			ch.Revelation = corpus.Medinan
		}
		d.Chapters = append(d.Chapters, ch)

		for i := 1; i <= ch.VerseCount; i++ {
			n++
			text := fmt.Sprintf("verse %d:%d", c, i)
			if i == 1 && c != 1 && c != 9 {
				text = corpus.Basmala + text
			}
			d.Verses = append(d.Verses, corpus.Verse{
				Number:          n,
				NumberInChapter: i,
				Chapter:         ch.Ref(),
				Part:            PartOf(c),
				Text:            text,
			})
			d.Translations = append(d.Translations, corpus.EditionVerse{Number: n, Text: fmt.Sprintf("translation %d:%d", c, i)})
			d.Audio = append(d.Audio, corpus.EditionVerse{Number: n, Audio: fmt.Sprintf("https://cdn.example/audio/%d.mp3", n)})
		}
	}
	return d
}

// Index builds the fixture index. It panics if the fixture is inconsistent.
func Index() *corpus.Index {
	ix, err := corpus.New(Data())
	if err != nil {
		panic(err)
	}
	return ix
}
