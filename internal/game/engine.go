// internal/game/engine.go
//
// Game session for one player.
// Responsibilities:
//   - Load today's progress and lifetime statistics from the record store.
//   - Rebuild each tier's challenge from the corpus on demand.
//   - Apply guesses, hints, give-ups and pane navigation through progress.
//   - Persist the daily record after every change; record statistics and the
//     results log at most once per completed tier. The daily record is saved
//     as recorded before the statistics are written, so a failed save can
//     drop one update but never count a tier twice.
//   - Roll over to a fresh daily record when the date changes.
//
// Notes:
//   - A Session is owned by its caller and is not safe for concurrent use.
//     The HTTP server serializes each player's requests.
//   - Completed tiers are in review mode: every mutation is ignored.

package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/tadabbur/internal/challenge"
	"github.com/robalobadob/tadabbur/internal/daily"
	"github.com/robalobadob/tadabbur/internal/progress"
	"github.com/robalobadob/tadabbur/internal/stats"
	"github.com/robalobadob/tadabbur/internal/store"
)

// Session is one player's game state.
type Session struct {
	player  string
	builder *challenge.Builder
	store   store.Store
	results ResultLog
	now     func() time.Time
	tiers   []challenge.Tier
	buckets int

	record *progress.DailyRecord
	stats  *stats.Statistics
	built  map[string]*challenge.Challenge
}

// NewSession loads the player's records. Corrupt records are logged and
// replaced; only store failures are returned.
func NewSession(ctx context.Context, opts Options) (*Session, error) {
	switch {
	case opts.Player == "":
		return nil, errors.New("game: player required")
	case opts.Builder == nil:
		return nil, errors.New("game: builder required")
	case opts.Store == nil:
		return nil, errors.New("game: store required")
	}
	s := &Session{
		player:  opts.Player,
		builder: opts.Builder,
		store:   opts.Store,
		results: opts.Results,
		now:     opts.Now,
		tiers:   opts.Tiers,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if len(s.tiers) == 0 {
		s.tiers = challenge.Tiers()
	}
	s.buckets = challenge.MaxAttempts(s.tiers)
	if err := s.load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) load(ctx context.Context) error {
	today := s.today()
	s.resetDay(today)

	data, err := s.store.Get(ctx, s.player, store.KeyDaily)
	switch {
	case errors.Is(err, store.ErrNotFound):
	case err != nil:
		return fmt.Errorf("load daily record: %w", err)
	default:
		rec, derr := progress.DecodeDailyRecord(data, today, s.tiers)
		if derr != nil {
			log.Warn().Err(derr).Str("player", s.player).Msg("daily record reinitialized")
		}
		s.record = rec
	}

	s.stats = stats.New(s.buckets)
	data, err = s.store.Get(ctx, s.player, store.KeyStats)
	switch {
	case errors.Is(err, store.ErrNotFound):
	case err != nil:
		return fmt.Errorf("load stats record: %w", err)
	default:
		st, derr := stats.Decode(data, s.buckets)
		if derr != nil {
			log.Warn().Err(derr).Str("player", s.player).Msg("stats record reinitialized")
		}
		s.stats = st
	}
	return nil
}

func (s *Session) today() string { return daily.DateKey(s.now()) }

func (s *Session) resetDay(date string) {
	s.record = progress.NewDailyRecord(date, s.tiers)
	s.built = make(map[string]*challenge.Challenge)
}

// rollover starts a new day when the date changed since the record was
// loaded. Statistics carry over.
func (s *Session) rollover() {
	if today := s.today(); s.record.Date != today {
		log.Debug().Str("player", s.player).Str("from", s.record.Date).Str("to", today).Msg("new day")
		s.resetDay(today)
	}
}

// Date returns today's date key.
func (s *Session) Date() string {
	s.rollover()
	return s.record.Date
}

// Tiers returns the tiers this session plays.
func (s *Session) Tiers() []challenge.Tier { return s.tiers }

func (s *Session) lookup(name string) (challenge.Tier, error) {
	for _, t := range s.tiers {
		if strings.EqualFold(t.Name, name) {
			return t, nil
		}
	}
	return challenge.Tier{}, fmt.Errorf("%w: %q", ErrUnknownTier, name)
}

// open returns the tier's state for today, building its challenge if needed.
func (s *Session) open(ctx context.Context, name string) (challenge.Tier, *progress.Progress, *challenge.Challenge, error) {
	s.rollover()
	t, err := s.lookup(name)
	if err != nil {
		return t, nil, nil, err
	}
	p := s.record.Progress[t.Name]

	c, ok := s.built[t.Name]
	if !ok {
		c, err = s.builder.Build(t, s.record.Date, p.UnlockedVerses, p.LastPaneIndex)
		if err != nil {
			return t, nil, nil, err
		}
		p.LastPaneIndex = c.Visible
		s.built[t.Name] = c
	}

	// A completed tier whose statistics were never written (interrupted
	// save) is recorded now.
	if p.Completed && !p.StatsRecorded {
		if err := s.finish(ctx, t, p, c); err != nil {
			return t, nil, nil, err
		}
	}
	return t, p, c, nil
}

func (s *Session) view(t challenge.Tier, p *progress.Progress, c *challenge.Challenge) *View {
	return newView(s.record.Date, t, c, p)
}

// View returns the current state of a tier.
func (s *Session) View(ctx context.Context, tier string) (*View, error) {
	t, p, c, err := s.open(ctx, tier)
	if err != nil {
		return nil, err
	}
	return s.view(t, p, c), nil
}

// Guess submits a chapter guess. The chapter must be selectable in the tier.
func (s *Session) Guess(ctx context.Context, tier string, chapter int) (progress.GuessOutcome, *View, error) {
	t, p, c, err := s.open(ctx, tier)
	if err != nil {
		return progress.Ignored, nil, err
	}
	if p.Completed {
		return progress.Ignored, s.view(t, p, c), nil
	}
	if !s.playable(t, chapter) {
		return progress.Ignored, s.view(t, p, c), fmt.Errorf("%w: %d", ErrInvalidChapter, chapter)
	}

	out := p.Guess(t, c, chapter)
	if out == progress.Ignored || out == progress.Repeated {
		return out, s.view(t, p, c), nil
	}
	if p.Completed {
		err := s.finish(ctx, t, p, c)
		return out, s.view(t, p, c), err
	}
	return out, s.view(t, p, c), s.saveDaily(ctx)
}

func (s *Session) playable(t challenge.Tier, chapter int) bool {
	for _, ch := range s.builder.Chapters(t, "") {
		if ch.Number == chapter {
			return true
		}
	}
	return false
}

// Hint unlocks the next verse. After a hint reaches the end of the chapter,
// hints stay disabled for that tier for the rest of the day.
func (s *Session) Hint(ctx context.Context, tier string) (progress.HintOutcome, *View, error) {
	t, p, c, err := s.open(ctx, tier)
	if err != nil {
		return progress.HintIgnored, nil, err
	}
	if p.Completed {
		return progress.HintIgnored, s.view(t, p, c), nil
	}
	exhausted := p.HintsExhausted
	out := p.Hint(t, c, s.builder.Index())
	if out == progress.HintUnlocked || p.HintsExhausted != exhausted {
		return out, s.view(t, p, c), s.saveDaily(ctx)
	}
	return out, s.view(t, p, c), nil
}

// GiveUp ends the tier as a loss. It reports false in review mode.
func (s *Session) GiveUp(ctx context.Context, tier string) (bool, *View, error) {
	t, p, c, err := s.open(ctx, tier)
	if err != nil {
		return false, nil, err
	}
	if !p.GiveUp() {
		return false, s.view(t, p, c), nil
	}
	err = s.finish(ctx, t, p, c)
	return true, s.view(t, p, c), err
}

// Navigate shows the unlocked verse at idx.
func (s *Session) Navigate(ctx context.Context, tier string, idx int) (bool, *View, error) {
	t, p, c, err := s.open(ctx, tier)
	if err != nil {
		return false, nil, err
	}
	if !p.Navigate(c, idx) {
		return false, s.view(t, p, c), nil
	}
	return true, s.view(t, p, c), s.saveDaily(ctx)
}

// Share returns the shareable result of a completed tier.
func (s *Session) Share(ctx context.Context, tier string) (string, error) {
	t, p, _, err := s.open(ctx, tier)
	if err != nil {
		return "", err
	}
	if !p.Completed {
		return "", ErrNotFinished
	}
	return ShareText(s.record.Date, t, p), nil
}

// Stats returns a copy of the lifetime statistics.
func (s *Session) Stats() *stats.Statistics {
	cp := *s.stats
	cp.GuessDistribution = maps.Clone(s.stats.GuessDistribution)
	return &cp
}

// StatsBuckets is the number of guess-count buckets in Stats.
func (s *Session) StatsBuckets() int { return s.buckets }

// AllCompleted reports whether every tier is done for today.
func (s *Session) AllCompleted() bool {
	s.rollover()
	for _, t := range s.tiers {
		if !s.record.Progress[t.Name].Completed {
			return false
		}
	}
	return true
}

// finish saves a completed tier's daily record, then records it in the
// statistics and the results log. The daily record is marked first: if it
// cannot be saved nothing else is written, and the tier is finished again
// on a later call.
func (s *Session) finish(ctx context.Context, t challenge.Tier, p *progress.Progress, c *challenge.Challenge) error {
	p.StatsRecorded = true
	if err := s.saveDaily(ctx); err != nil {
		p.StatsRecorded = false
		return err
	}
	s.stats.Record(p.Solved, len(p.Attempts))
	if err := s.saveStats(ctx); err != nil {
		return err
	}

	log.Info().
		Str("player", s.player).
		Str("date", s.record.Date).
		Str("tier", t.Name).
		Str("status", p.Status()).
		Int("attempts", len(p.Attempts)).
		Msg("challenge finished")

	if s.results == nil {
		return nil
	}
	err := s.results.InsertResult(ctx, daily.Result{
		PlayerID:    s.player,
		Date:        s.record.Date,
		Tier:        t.Name,
		VerseNumber: c.Verse.Number,
		Guesses:     len(p.Attempts),
		Won:         p.Solved,
		HintUsed:    p.HintUsed,
	})
	if err != nil {
		// The leaderboard is best effort; the player's own records are saved.
		log.Warn().Err(err).Str("player", s.player).Str("tier", t.Name).Msg("insert daily result")
	}
	return nil
}

func (s *Session) saveDaily(ctx context.Context) error {
	return s.save(ctx, store.KeyDaily, s.record)
}

func (s *Session) saveStats(ctx context.Context) error {
	return s.save(ctx, store.KeyStats, s.stats)
}

func (s *Session) save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s record: %w", key, err)
	}
	if err := s.store.Put(ctx, s.player, key, data); err != nil {
		return fmt.Errorf("save %s record: %w", key, err)
	}
	return nil
}

// ShareText renders a completed tier as the shareable summary:
//
//	Tadabbur DD/MM/YYYY
//	Difficulty: <tier>
//	<attempts or X>/<max> Guesses
//	<one 🟩 or 🟥 per attempt>
func ShareText(date string, t challenge.Tier, p *progress.Progress) string {
	shown := date
	if d, err := time.Parse("2006-01-02", date); err == nil {
		shown = d.Format("02/01/2006")
	}
	count := "X"
	if p.Solved {
		count = strconv.Itoa(len(p.Attempts))
	}
	var marks strings.Builder
	for _, a := range p.Attempts {
		if a.Correct {
			marks.WriteString("🟩")
		} else {
			marks.WriteString("🟥")
		}
	}
	return fmt.Sprintf("Tadabbur %s\nDifficulty: %s\n%s/%d Guesses\n%s", shown, t.Name, count, t.MaxAttempts, marks.String())
}
