package corpus

import "strings"

// Basmala is the invocation prefixed to the first verse of most chapters in
// some editions.
const Basmala = "بِسْمِ اللَّهِ الرَّحْمَٰنِ الرَّحِيمِ "

// SplitBasmala separates a leading Basmala from the first verse of a chapter.
// Chapter 1 (where it is a verse of its own) and chapter 9 (which has none)
// are returned unchanged.
func SplitBasmala(v Verse) (basmala, text string) {
	if v.NumberInChapter != 1 || v.Chapter.Number == 1 || v.Chapter.Number == 9 {
		return "", v.Text
	}
	if !strings.HasPrefix(v.Text, Basmala) {
		return "", v.Text
	}
	return strings.TrimSpace(Basmala), v.Text[len(Basmala):]
}
