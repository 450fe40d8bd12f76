package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/netninja/internal/adapters/ticker"
	"github.com/okian/netninja/internal/domain/firewall"
	"github.com/okian/netninja/internal/domain/model"
	"github.com/okian/netninja/internal/domain/shop"
	"github.com/okian/netninja/internal/domain/tracer"
	"github.com/okian/netninja/pkg/logger"
	"github.com/okian/netninja/pkg/metrics"
)

const (
	gameTracer   = "tracer"
	gameFirewall = "firewall"
)

type tracerGame struct {
	round *tracer.Round
	loop  *ticker.Loop
	once  sync.Once
}

func (g *tracerGame) stop() {
	g.once.Do(func() {
		g.round.Stop()
		g.loop.Stop()
	})
}

type firewallGame struct {
	round *firewall.Round
	loop  *ticker.Loop
	once  sync.Once
}

func (g *firewallGame) stop() {
	g.once.Do(func() {
		g.round.Stop()
		g.loop.Stop()
	})
}

// watch keeps the active round gauge in step with a loop's lifetime.
func watch(game string, l *ticker.Loop) {
	metrics.UpdateActiveRounds(game, 1)
	go func() {
		<-l.Done()
		metrics.UpdateActiveRounds(game, -1)
	}()
}

// StartTracer opens a packet tracer session at level 1. Owning the
// time_dilation upgrade slows integrity decay.
func (s *Service) StartTracer(ctx context.Context) (string, tracer.Snapshot, error) {
	dilated := shop.HasTimeDilation(s.engine.Stats())
	round := tracer.NewRound(s.seed(), 1,
		tracer.WithTimeDilation(dilated),
		tracer.WithReward(s.reward(model.SourceTracer)),
	)
	loop := ticker.Start(s.runCtx, s.cfg.TracerTick(), func(time.Time) bool {
		if err := round.Tick(); err != nil {
			// Paused between levels; only Stop ends the session.
			return round.Snapshot().State != tracer.StateStopped
		}
		return true
	})
	watch(gameTracer, loop)

	id := s.tracers.Put(&tracerGame{round: round, loop: loop})
	s.logger.Info(ctx, "tracer started", logger.String("id", id), logger.Bool("time_dilation", dilated))
	return id, round.Snapshot(), nil
}

func (s *Service) tracer(id string) (*tracerGame, error) {
	g, ok := s.tracers.Peek(id)
	if !ok {
		return nil, fmt.Errorf("%w: tracer %s", ErrUnknownGame, id)
	}
	return g, nil
}

// Tracer returns the state of session id.
func (s *Service) Tracer(id string) (tracer.Snapshot, error) {
	g, err := s.tracer(id)
	if err != nil {
		return tracer.Snapshot{}, err
	}
	return g.round.Snapshot(), nil
}

// TracerSelect routes the packet of session id through input.
func (s *Service) TracerSelect(id, input string) (tracer.Result, error) {
	g, err := s.tracer(id)
	if err != nil {
		return tracer.Result{}, err
	}
	res, err := g.round.Select(input)
	if err != nil {
		return res, err
	}
	outcome := metrics.OutcomeWrong
	if res.Correct {
		outcome = metrics.OutcomeCorrect
	}
	metrics.RecordPuzzleAnswered(gameTracer, outcome)
	return res, nil
}

// TracerNext moves a delivered session to the next level.
func (s *Service) TracerNext(id string) (tracer.Snapshot, error) {
	g, err := s.tracer(id)
	if err != nil {
		return tracer.Snapshot{}, err
	}
	if err := g.round.Next(); err != nil {
		return tracer.Snapshot{}, err
	}
	return g.round.Snapshot(), nil
}

// TracerRetry regenerates the current level of session id.
func (s *Service) TracerRetry(id string) (tracer.Snapshot, error) {
	g, err := s.tracer(id)
	if err != nil {
		return tracer.Snapshot{}, err
	}
	if err := g.round.Retry(); err != nil {
		return tracer.Snapshot{}, err
	}
	return g.round.Snapshot(), nil
}

// StopTracer ends session id. No tick or reward follows.
func (s *Service) StopTracer(ctx context.Context, id string) error {
	g, ok := s.tracers.Take(id)
	if !ok {
		return fmt.Errorf("%w: tracer %s", ErrUnknownGame, id)
	}
	g.stop()
	s.logger.Info(ctx, "tracer stopped", logger.String("id", id))
	return nil
}

// StartFirewall opens a firewall defense round at difficulty.
func (s *Service) StartFirewall(ctx context.Context, difficulty string) (string, firewall.Snapshot, error) {
	if difficulty == "" {
		difficulty = s.cfg.FirewallDifficulty
	}
	d, err := firewall.DifficultyByName(difficulty)
	if err != nil {
		return "", firewall.Snapshot{}, err
	}
	round := firewall.NewRound(s.seed(), d, time.Now(), firewall.WithReward(s.reward(model.SourceFirewall)))
	loop := ticker.Start(s.runCtx, s.cfg.FirewallTick(), func(now time.Time) bool {
		before := round.Snapshot().Health
		err := round.Tick(now)
		if lost := before - round.Snapshot().Health; lost > 0 {
			metrics.RecordFirewallDamage(lost)
		}
		return err == nil
	})
	watch(gameFirewall, loop)

	id := s.walls.Put(&firewallGame{round: round, loop: loop})
	s.logger.Info(ctx, "firewall started", logger.String("id", id), logger.String("difficulty", d.Name))
	return id, round.Snapshot(), nil
}

func (s *Service) firewall(id string) (*firewallGame, error) {
	g, ok := s.walls.Peek(id)
	if !ok {
		return nil, fmt.Errorf("%w: firewall %s", ErrUnknownGame, id)
	}
	return g, nil
}

// Firewall returns the state of round id.
func (s *Service) Firewall(id string) (firewall.Snapshot, error) {
	g, err := s.firewall(id)
	if err != nil {
		return firewall.Snapshot{}, err
	}
	return g.round.Snapshot(), nil
}

// FirewallClick destroys packet in round id.
func (s *Service) FirewallClick(id string, packet int) (firewall.ClickResult, error) {
	g, err := s.firewall(id)
	if err != nil {
		return firewall.ClickResult{}, err
	}
	res, err := g.round.Click(packet)
	if err != nil {
		return res, err
	}
	if res.Damage > 0 {
		metrics.RecordFirewallDamage(res.Damage)
	}
	if res.Destroyed {
		outcome := metrics.OutcomeWrong
		if res.Correct {
			outcome = metrics.OutcomeCorrect
		}
		metrics.RecordPuzzleAnswered(gameFirewall, outcome)
	}
	return res, nil
}

// StopFirewall ends round id.
func (s *Service) StopFirewall(ctx context.Context, id string) error {
	g, ok := s.walls.Take(id)
	if !ok {
		return fmt.Errorf("%w: firewall %s", ErrUnknownGame, id)
	}
	g.stop()
	s.logger.Info(ctx, "firewall stopped", logger.String("id", id))
	return nil
}
