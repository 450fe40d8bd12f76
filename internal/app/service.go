// Package service composes the engines, adapters and game loops behind one
// API used by the HTTP server and the CLI.
package service

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/okian/netninja/internal/adapters/mq/queue"
	"github.com/okian/netninja/internal/adapters/mq/worker"
	"github.com/okian/netninja/internal/adapters/storage"
	"github.com/okian/netninja/internal/config"
	"github.com/okian/netninja/internal/domain/daily"
	"github.com/okian/netninja/internal/domain/model"
	"github.com/okian/netninja/internal/domain/pending"
	"github.com/okian/netninja/internal/domain/progression"
	"github.com/okian/netninja/internal/domain/puzzle"
	"github.com/okian/netninja/internal/domain/shop"
	"github.com/okian/netninja/internal/domain/tutor"
	"github.com/okian/netninja/pkg/logger"
	"github.com/okian/netninja/pkg/metrics"
)

const (
	maxRounds       = 8
	shutdownTimeout = 5 * time.Second
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore replaces the store that config would open.
func WithStore(st storage.Store) Option {
	return func(s *Service) {
		s.store = st
	}
}

// WithClock sets the time source used for the daily calendar.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// Service owns every component of a running game.
type Service struct {
	cfg    *config.Config
	logger logger.Logger
	now    func() time.Time

	store   storage.Store
	engine  *progression.Engine
	shop    *shop.Shop
	tutor   *tutor.Tutor
	puzzles *pending.Registry[puzzle.Puzzle]
	tracers *pending.Registry[*tracerGame]
	walls   *pending.Registry[*firewallGame]
	rewards *queue.InMemoryQueue
	worker  *worker.RewardWorker

	runCtx context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	started    bool
	rng        *rand.Rand
	huntStreak int
	daily      *daily.Session
	dailyDate  string
}

// New constructs a Service from cfg. Start must be called before use.
func New(cfg *config.Config, opts ...Option) *Service {
	s := &Service{cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Named("service")
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s.rng = rand.New(rand.NewSource(seed))
	return s
}

// Start opens storage, loads the player record and starts the reward worker.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	s.logger.Info(ctx, "starting netninja service...")

	if s.store == nil {
		st, err := storage.Open(ctx, s.cfg, storage.WithLogger(s.logger.Named("storage")))
		if err != nil {
			return err
		}
		s.store = st
	}
	loc, err := s.cfg.Location()
	if err != nil {
		return err
	}

	engine, err := progression.NewEngine(ctx, s.store,
		progression.WithLogger(s.logger.Named("progression")),
		progression.WithClock(s.now),
		progression.WithLocation(loc),
	)
	if err != nil {
		return err
	}
	s.engine = engine
	s.shop = shop.New(s.engine, shop.WithLogger(s.logger.Named("shop")))
	s.tutor = tutor.New(
		tutor.WithDelay(s.cfg.HintDelay()),
		tutor.WithRand(rand.New(rand.NewSource(s.rng.Int63()))),
		tutor.WithLogger(s.logger.Named("tutor")),
	)
	s.puzzles = pending.New[puzzle.Puzzle](
		pending.WithMaxSize(s.cfg.PendingPuzzles),
		pending.WithEvictHook(func(string, any) { metrics.RecordPendingEviction() }),
	)
	s.tracers = pending.New[*tracerGame](
		pending.WithMaxSize(maxRounds),
		pending.WithEvictHook(func(_ string, v any) { v.(*tracerGame).stop() }),
	)
	s.walls = pending.New[*firewallGame](
		pending.WithMaxSize(maxRounds),
		pending.WithEvictHook(func(_ string, v any) { v.(*firewallGame).stop() }),
	)

	// Rounds and the worker outlive the caller's request context.
	s.runCtx, s.cancel = context.WithCancel(context.WithoutCancel(ctx))
	s.rewards = queue.NewInMemoryQueue(queue.WithCapacity(s.cfg.RewardQueueSize))
	s.worker = worker.NewRewardWorker(s.rewards, s.engine, worker.WithLogger(s.logger.Named("reward-worker")))
	go s.worker.Run(s.runCtx)

	s.started = true
	st := s.engine.Stats()
	s.logger.Info(ctx, "netninja service started",
		logger.String("store", s.cfg.StoreDriver),
		logger.Int("xp", st.XP),
		logger.Int("level", st.Level),
	)
	return nil
}

// Stop ends every round, drains the reward queue and closes storage.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	s.logger.Info(ctx, "stopping netninja service...")

	s.tracers.Each(func(_ string, g *tracerGame) { g.stop() })
	s.walls.Each(func(_ string, g *firewallGame) { g.stop() })

	sctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	var firstErr error
	if err := s.worker.Shutdown(sctx); err != nil {
		firstErr = err
	}
	s.cancel()
	if err := s.store.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("close store: %w", err)
	}

	s.started = false
	s.logger.Info(ctx, "netninja service stopped")
	return firstErr
}

// Stats returns the current player record.
func (s *Service) Stats() progression.Stats {
	return s.engine.Stats()
}

// Badges returns the badge gallery with progress toward each badge.
func (s *Service) Badges() []progression.BadgeStatus {
	return progression.Gallery(s.engine.Stats())
}

// Theme returns the color config of the equipped theme.
func (s *Service) Theme() map[string]string {
	return shop.ActiveTheme(s.engine.Stats())
}

// Shop lists the catalog against the current record.
func (s *Service) Shop() []shop.Listing {
	return shop.List(s.engine.Stats())
}

// Purchase buys item id.
func (s *Service) Purchase(ctx context.Context, id string) (bool, error) {
	return s.shop.Purchase(ctx, id)
}

// Equip equips item id.
func (s *Service) Equip(ctx context.Context, id string) error {
	return s.shop.Equip(ctx, id)
}

// Hint asks the tutor about concept.
func (s *Service) Hint(ctx context.Context, concept, detail string) (string, error) {
	h, err := s.tutor.Hint(ctx, concept, detail)
	metrics.RecordHintRequest(string(tutor.Classify(concept, detail)), outcomeOf(err))
	return h, err
}

// Chat forwards a free-form message to the tutor.
func (s *Service) Chat(ctx context.Context, msg string, history []string) (string, error) {
	r, err := s.tutor.Chat(ctx, msg, history)
	metrics.RecordHintRequest("chat", outcomeOf(err))
	return r, err
}

// Breakdown explains the subnet of ip/cidr.
func (s *Service) Breakdown(ctx context.Context, ip string, cidr int) (string, error) {
	r, err := s.tutor.SubnetBreakdown(ctx, ip, cidr)
	metrics.RecordHintRequest("breakdown", outcomeOf(err))
	return r, err
}

func outcomeOf(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// seed derives an independent RNG so each round owns its source.
func (s *Service) seed() *rand.Rand {
	s.mu.Lock()
	defer s.mu.Unlock()
	return rand.New(rand.NewSource(s.rng.Int63()))
}

// reward hands XP earned on a timer-driven round to the worker.
func (s *Service) reward(source string) func(int) {
	return func(xp int) {
		if xp <= 0 {
			return
		}
		r := model.NewReward(source, xp)
		if err := s.worker.Deliver(s.runCtx, r); err != nil {
			s.logger.Error(s.runCtx, "reward not applied",
				logger.String("source", source),
				logger.Int("amount", xp),
				logger.Error(err),
			)
		}
	}
}
