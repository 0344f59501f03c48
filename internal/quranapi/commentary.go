package quranapi

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/tidwall/gjson"
)

// ExcerptLimit is the number of characters of commentary shown inline.
const ExcerptLimit = 800

// Commentary is one author's tafsir of a verse.
type Commentary struct {
	Author  string `json:"author"`
	Content string `json:"content"`
}

// Commentary fetches the tafsir entries for chapter:verse. Entries without
// content are skipped, so an empty result is not an error.
func (c *Client) Commentary(ctx context.Context, chapter, verse int) ([]Commentary, error) {
	ctx, cancel := context.WithTimeout(ctx, c.commentaryTimeout)
	defer cancel()

	body, err := c.get(ctx, fmt.Sprintf("%s/%d_%d.json", c.tafsir, chapter, verse))
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %w", ErrCommentaryUnavailable, ctx.Err())
		}
		return nil, fmt.Errorf("%w: %w", ErrCommentaryUnavailable, err)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: malformed response", ErrCommentaryUnavailable)
	}

	var out []Commentary
	gjson.GetBytes(body, "tafsirs").ForEach(func(_, v gjson.Result) bool {
		content := v.Get("content").String()
		if content != "" {
			out = append(out, Commentary{Author: v.Get("author").String(), Content: content})
		}
		return true
	})
	return out, nil
}

// Excerpt truncates s to limit characters and marks the cut with "...".
func Excerpt(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit]) + "..."
}

// ReadMoreURL links to the full commentary of chapter:verse on quran.com.
func ReadMoreURL(chapter, verse int) string {
	return fmt.Sprintf("https://quran.com/%d:%d/tafsirs/en-tafisr-ibn-kathir", chapter, verse)
}
