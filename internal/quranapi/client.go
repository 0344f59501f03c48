// internal/quranapi/client.go
//
// HTTP client for the public scripture APIs.
// Responsibilities:
//   - Fetch chapter metadata and the text, translation and audio editions
//     from an alquran.cloud compatible API and assemble corpus.Data.
//   - Fetch verse commentary (tafsir) with a bounded timeout.
//
// Nothing here touches game state: callers fetch before creating a session
// and treat commentary failures as display-only.

package quranapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/tadabbur/internal/corpus"
)

const (
	DefaultBaseURL     = "https://api.alquran.cloud/v1"
	DefaultTafsirURL   = "https://quranapi.pages.dev/api/tafsir"
	DefaultArabic      = "quran-uthmani"
	DefaultTranslation = "en.sahih"
	DefaultAudio       = "ar.alafasy"

	// CommentaryTimeout bounds a single commentary lookup.
	CommentaryTimeout = 10 * time.Second
)

// ErrCommentaryUnavailable is returned when commentary cannot be fetched or
// parsed. Timeouts also match context.DeadlineExceeded.
var ErrCommentaryUnavailable = errors.New("quranapi: commentary unavailable")

// Options configure a Client. Zero values fall back to the defaults above;
// set Translation or Audio to "-" to skip that edition.
type Options struct {
	BaseURL           string
	TafsirURL         string
	Arabic            string
	Translation       string
	Audio             string
	CommentaryTimeout time.Duration
	HTTPClient        *http.Client
}

// Client talks to the corpus and commentary APIs.
type Client struct {
	base, tafsir               string
	arabic, translation, audio string
	commentaryTimeout          time.Duration
	http                       *http.Client
}

// New returns a Client for o.
func New(o Options) *Client {
	c := &Client{
		base:              strings.TrimRight(or(o.BaseURL, DefaultBaseURL), "/"),
		tafsir:            strings.TrimRight(or(o.TafsirURL, DefaultTafsirURL), "/"),
		arabic:            or(o.Arabic, DefaultArabic),
		translation:       or(o.Translation, DefaultTranslation),
		audio:             or(o.Audio, DefaultAudio),
		commentaryTimeout: o.CommentaryTimeout,
		http:              o.HTTPClient,
	}
	if c.commentaryTimeout <= 0 {
		c.commentaryTimeout = CommentaryTimeout
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: 2 * time.Minute}
	}
	return c
}

func or(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

type envelope[T any] struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
	Data   T      `json:"data"`
}

type editionAyah struct {
	Number        int    `json:"number"`
	NumberInSurah int    `json:"numberInSurah"`
	Juz           int    `json:"juz"`
	Text          string `json:"text"`
	Audio         string `json:"audio"`
}

type editionSurah struct {
	Number      int           `json:"number"`
	Name        string        `json:"name"`
	EnglishName string        `json:"englishName"`
	Ayahs       []editionAyah `json:"ayahs"`
}

type edition struct {
	Surahs []editionSurah `json:"surahs"`
}

// LoadCorpus fetches chapter metadata and all configured editions
// concurrently and assembles them into corpus.Data.
func (c *Client) LoadCorpus(ctx context.Context) (corpus.Data, error) {
	var (
		chapters                   []corpus.Chapter
		arabic, translation, audio edition
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		chapters, err = fetchData[[]corpus.Chapter](ctx, c, c.base+"/surah")
		return err
	})
	fetch := func(name string, dst *edition) {
		if name == "-" {
			return
		}
		g.Go(func() error {
			var err error
			*dst, err = fetchData[edition](ctx, c, c.base+"/quran/"+name)
			return err
		})
	}
	fetch(c.arabic, &arabic)
	fetch(c.translation, &translation)
	fetch(c.audio, &audio)
	if err := g.Wait(); err != nil {
		return corpus.Data{}, err
	}

	d := corpus.Data{Chapters: chapters}
	for _, s := range arabic.Surahs {
		ref := corpus.ChapterRef{Number: s.Number, Name: s.Name, EnglishName: s.EnglishName}
		for _, a := range s.Ayahs {
			d.Verses = append(d.Verses, corpus.Verse{
				Number:          a.Number,
				NumberInChapter: a.NumberInSurah,
				Chapter:         ref,
				Part:            a.Juz,
				Text:            a.Text,
			})
		}
	}
	d.Translations = editionVerses(translation, func(a editionAyah) corpus.EditionVerse {
		return corpus.EditionVerse{Number: a.Number, Text: a.Text}
	})
	d.Audio = editionVerses(audio, func(a editionAyah) corpus.EditionVerse {
		return corpus.EditionVerse{Number: a.Number, Audio: a.Audio}
	})

	log.Info().
		Int("chapters", len(d.Chapters)).
		Int("verses", len(d.Verses)).
		Int("translations", len(d.Translations)).
		Int("audio", len(d.Audio)).
		Msg("corpus fetched")
	return d, nil
}

func editionVerses(e edition, conv func(editionAyah) corpus.EditionVerse) []corpus.EditionVerse {
	var out []corpus.EditionVerse
	for _, s := range e.Surahs {
		for _, a := range s.Ayahs {
			out = append(out, conv(a))
		}
	}
	return out
}

func fetchData[T any](ctx context.Context, c *Client, url string) (T, error) {
	var env envelope[T]
	body, err := c.get(ctx, url)
	if err != nil {
		return env.Data, err
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return env.Data, fmt.Errorf("decode %s: %w", url, err)
	}
	return env.Data, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get %s: status %d", url, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	return body, nil
}
