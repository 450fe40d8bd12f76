// Package progression owns the player record: XP, level, streak, badges,
// inventory and equips. Every mutation goes through the Engine, which
// serializes writers and persists the full record after each change.
package progression

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/zyedidia/generic/mapset"

	"github.com/okian/netninja/pkg/logger"
	"github.com/okian/netninja/pkg/metrics"
)

// Storage keys.
const (
	KeyStats     = "netninja_player_stats"
	KeyLastDaily = "netninja_last_daily"
)

// DateLayout renders the calendar date used as the daily completion marker.
const DateLayout = "Mon Jan 02 2006"

// Store is the key-value backend the engine persists to. Get returns an
// error matching ErrNotFound for missing keys.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// Outcome is the result of a mutation.
type Outcome struct {
	Stats     Stats    `json:"stats"`
	LeveledUp bool     `json:"leveled_up"`
	Unlocked  []string `json:"unlocked,omitempty"`
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLocation sets the zone whose calendar date keys the daily marker.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

// Engine is the single writer of the player record.
type Engine struct {
	mu sync.Mutex

	store Store
	log   logger.Logger
	now   func() time.Time
	loc   *time.Location

	stats     Stats
	lastDaily string
}

// NewEngine loads the saved record from store, falling back to defaults when
// it is missing or corrupt. A store that cannot be read fails instead, so the
// defaults never overwrite a save that is only temporarily out of reach.
func NewEngine(ctx context.Context, store Store, opts ...Option) (*Engine, error) {
	e := &Engine{
		store: store,
		now:   time.Now,
		loc:   time.Local,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = logger.Named("progression")
	}
	if err := e.load(ctx); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Engine) load(ctx context.Context) error {
	e.stats = DefaultStats()

	raw, err := e.store.Get(ctx, KeyStats)
	switch {
	case errors.Is(err, ErrNotFound):
		e.log.Info(ctx, "no saved stats, starting fresh")
	case err != nil:
		metrics.RecordStorageError("get")
		return fmt.Errorf("load player stats: %w", err)
	default:
		s, perr := decodeStats(raw)
		if perr != nil {
			metrics.RecordStorageError("parse")
			e.log.Warn(ctx, "failed to parse save file, using defaults", logger.Error(perr))
		} else {
			e.stats = s
		}
	}

	d, err := e.store.Get(ctx, KeyLastDaily)
	switch {
	case err == nil:
		e.lastDaily = d
	case !errors.Is(err, ErrNotFound):
		metrics.RecordStorageError("get")
		return fmt.Errorf("load daily marker: %w", err)
	}
	metrics.UpdatePlayer(e.stats.XP, e.stats.Level, e.stats.Streak)
	return nil
}

// decodeStats overlays raw onto the defaults and repairs invariants.
func decodeStats(raw string) (Stats, error) {
	s := DefaultStats()
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return Stats{}, fmt.Errorf("%w: %v", ErrStorageParse, err)
	}
	s.normalize()
	return s, nil
}

// Stats returns a copy of the current record.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats.Clone()
}

// AwardXP adds amount and recomputes level and badges.
func (e *Engine) AwardXP(ctx context.Context, amount int) (Outcome, error) {
	if amount < 0 {
		return Outcome{}, fmt.Errorf("%w: %d", ErrNegativeAmount, amount)
	}
	return e.mutate(ctx, func(s *Stats) error {
		s.XP += amount
		return nil
	})
}

// Update applies fn to a copy of the record and commits it when fn returns
// nil. Level and badges are recomputed afterwards.
func (e *Engine) Update(ctx context.Context, fn func(*Stats) error) (Outcome, error) {
	return e.mutate(ctx, fn)
}

// RecordDailyCompletion grants the daily bonus and extends the streak, once
// per calendar day.
func (e *Engine) RecordDailyCompletion(ctx context.Context) (Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	today := e.today()
	if e.lastDaily == today {
		return Outcome{Stats: e.stats.Clone()}, ErrAlreadyRecorded
	}
	out, err := e.apply(ctx, func(s *Stats) error {
		s.XP += DailyBonusXP
		s.Streak++
		return nil
	})
	if err != nil {
		return out, err
	}
	e.lastDaily = today
	e.persist(ctx, KeyLastDaily, today)
	metrics.RecordDailyCompletion()
	e.log.Info(ctx, "daily challenge completed", logger.Int("streak", out.Stats.Streak))
	return out, nil
}

// DailyCompletedToday reports whether today's marker is set.
func (e *Engine) DailyCompletedToday() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastDaily == e.today()
}

// Today is the current date key.
func (e *Engine) Today() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.today()
}

func (e *Engine) today() string {
	return e.now().In(e.loc).Format(DateLayout)
}

func (e *Engine) mutate(ctx context.Context, fn func(*Stats) error) (Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.apply(ctx, fn)
}

// apply must be called with e.mu held.
func (e *Engine) apply(ctx context.Context, fn func(*Stats) error) (Outcome, error) {
	next := e.stats.Clone()
	if err := fn(&next); err != nil {
		return Outcome{Stats: e.stats.Clone()}, err
	}

	prevLevel := e.stats.Level
	next.Level = max(next.Level, prevLevel, LevelFor(next.XP))
	unlocked := recomputeBadges(&next)

	e.stats = next
	e.save(ctx)

	for _, id := range unlocked {
		metrics.RecordBadgeUnlocked(id)
		e.log.Info(ctx, "badge unlocked", logger.String("badge", id))
	}
	leveled := next.Level > prevLevel
	if leveled {
		e.log.Info(ctx, "level up", logger.Int("level", next.Level))
	}
	metrics.UpdatePlayer(next.XP, next.Level, next.Streak)

	return Outcome{Stats: next.Clone(), LeveledUp: leveled, Unlocked: unlocked}, nil
}

// recomputeBadges appends every newly earned badge in catalog order.
func recomputeBadges(s *Stats) []string {
	owned := mapset.New[string]()
	for _, id := range s.Badges {
		owned.Put(id)
	}
	var unlocked []string
	for _, b := range catalog {
		if owned.Has(b.ID) || !b.Earned(*s) {
			continue
		}
		s.Badges = append(s.Badges, b.ID)
		unlocked = append(unlocked, b.ID)
	}
	return unlocked
}

func (e *Engine) save(ctx context.Context) {
	raw, err := json.Marshal(e.stats)
	if err != nil {
		e.log.Error(ctx, "failed to encode stats", logger.Error(err))
		return
	}
	e.persist(ctx, KeyStats, string(raw))
}

// persist writes key; failures are logged and counted, never returned.
func (e *Engine) persist(ctx context.Context, key, value string) {
	if err := e.store.Set(ctx, key, value); err != nil {
		metrics.RecordStorageError("set")
		e.log.Warn(ctx, "failed to persist", logger.String("key", key), logger.Error(err))
	}
}
