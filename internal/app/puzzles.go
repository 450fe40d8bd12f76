package service

import (
	"context"
	"fmt"

	"github.com/okian/netninja/internal/domain/model"
	"github.com/okian/netninja/internal/domain/progression"
	"github.com/okian/netninja/internal/domain/puzzle"
	"github.com/okian/netninja/pkg/logger"
	"github.com/okian/netninja/pkg/metrics"
)

// Issued is a generated puzzle awaiting an answer.
type Issued struct {
	ID string `json:"id"`
	puzzle.View
}

// Answered is the verdict on an issued puzzle plus its effect on the record.
type Answered struct {
	puzzle.Verdict
	LeveledUp bool              `json:"leveled_up"`
	Unlocked  []string          `json:"unlocked,omitempty"`
	Stats     progression.Stats `json:"stats"`
}

// NewPuzzle generates a puzzle of kind and keeps it until answered. Route
// tables scale with the player level when p.Level is unset.
func (s *Service) NewPuzzle(ctx context.Context, kind puzzle.Kind, p puzzle.Params) (Issued, error) {
	if p.Level < 1 {
		p.Level = s.engine.Stats().Level
	}
	pz, err := puzzle.Generate(s.seed(), kind, p)
	if err != nil {
		return Issued{}, err
	}
	id := s.puzzles.Put(pz)
	metrics.RecordPuzzleGenerated(string(kind))
	metrics.UpdatePendingPuzzles(s.puzzles.Len())
	s.logger.Debug(ctx, "puzzle issued", logger.String("id", id), logger.String("kind", string(kind)))
	return Issued{ID: id, View: puzzle.Describe(pz)}, nil
}

// Answer checks input against puzzle id. Malformed input leaves the puzzle
// pending; any well-formed answer consumes it.
func (s *Service) Answer(ctx context.Context, id, input string) (Answered, error) {
	pz, ok := s.puzzles.Peek(id)
	if !ok {
		return Answered{}, fmt.Errorf("%w: %s", puzzle.ErrUnknownPuzzle, id)
	}
	kind := string(pz.Kind())

	v, err := puzzle.Check(pz, input)
	if err != nil {
		metrics.RecordPuzzleAnswered(kind, metrics.OutcomeInvalid)
		return Answered{}, err
	}
	if _, ok := s.puzzles.Take(id); !ok {
		return Answered{}, fmt.Errorf("%w: %s", puzzle.ErrUnknownPuzzle, id)
	}
	metrics.UpdatePendingPuzzles(s.puzzles.Len())

	if pz.Kind() == puzzle.KindPhishing {
		v.XP = s.huntReward(v.Correct)
	}
	if !v.Correct {
		metrics.RecordPuzzleAnswered(kind, metrics.OutcomeWrong)
		return Answered{Verdict: v, Stats: s.engine.Stats()}, nil
	}
	metrics.RecordPuzzleAnswered(kind, metrics.OutcomeCorrect)

	out, err := s.engine.AwardXP(ctx, v.XP)
	if err != nil {
		return Answered{}, err
	}
	metrics.RecordXPAwarded(sourceOf(pz.Kind()), v.XP)
	return Answered{Verdict: v, LeveledUp: out.LeveledUp, Unlocked: out.Unlocked, Stats: out.Stats}, nil
}

// huntReward advances the phishing streak and returns the XP of this call.
func (s *Service) huntReward(correct bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !correct {
		s.huntStreak = 0
		return 0
	}
	xp := puzzle.PhishingXP(s.huntStreak)
	s.huntStreak++
	return xp
}

// HuntStreak is the number of consecutive correct phishing calls.
func (s *Service) HuntStreak() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.huntStreak
}

func sourceOf(k puzzle.Kind) string {
	switch k {
	case puzzle.KindBinaryBuilder, puzzle.KindBinaryDecoder, puzzle.KindBinaryBitwise:
		return model.SourceBinary
	case puzzle.KindHexMatch, puzzle.KindHexTranslate:
		return model.SourceHex
	case puzzle.KindSubnetConceptual, puzzle.KindSubnetCalculation:
		return model.SourceSubnet
	case puzzle.KindRouteHop:
		return model.SourceTracer
	case puzzle.KindFirewall:
		return model.SourceFirewall
	case puzzle.KindPhishing:
		return model.SourcePhishing
	}
	return string(k)
}
