package daily

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"

	"github.com/okian/netninja/internal/domain/progression"
	"github.com/okian/netninja/pkg/logger"
)

// Recorder counts a daily completion on the player record.
type Recorder interface {
	RecordDailyCompletion(ctx context.Context) (progression.Outcome, error)
	DailyCompletedToday() bool
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// Result is the outcome of one submission.
type Result struct {
	Correct   bool                 `json:"correct"`
	Stage     int                  `json:"stage"`
	Completed bool                 `json:"completed"`
	Outcome   *progression.Outcome `json:"outcome,omitempty"`
}

// Session walks one challenge stage by stage.
type Session struct {
	mu sync.Mutex

	recorder  Recorder
	log       logger.Logger
	challenge Challenge
	stage     int
	done      bool
}

// NewSession generates a challenge, unless today's one is already done.
func NewSession(rng *rand.Rand, rec Recorder, opts ...Option) (*Session, error) {
	if rec.DailyCompletedToday() {
		return nil, ErrAlreadyCompleted
	}
	s := &Session{recorder: rec, challenge: Generate(rng)}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Named("daily")
	}
	return s, nil
}

// Current returns the stage awaiting an answer and its index.
func (s *Session) Current() (Stage, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := min(s.stage, len(s.challenge.Stages)-1)
	return s.challenge.Stages[i], i
}

// Done reports whether every stage was answered.
func (s *Session) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// Submit checks answer against the current stage. A wrong answer returns
// ErrWrongAnswer and keeps the stage. Answering the last stage records the
// completion.
func (s *Session) Submit(ctx context.Context, answer string) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done {
		return Result{Stage: s.stage, Completed: true}, ErrFinished
	}
	st := s.challenge.Stages[s.stage]
	if strings.TrimSpace(answer) != st.Answer {
		return Result{Stage: s.stage}, ErrWrongAnswer
	}

	if s.stage < len(s.challenge.Stages)-1 {
		s.stage++
		return Result{Correct: true, Stage: s.stage}, nil
	}

	s.done = true
	out, err := s.recorder.RecordDailyCompletion(ctx)
	if errors.Is(err, progression.ErrAlreadyRecorded) {
		return Result{Correct: true, Stage: s.stage, Completed: true}, ErrAlreadyCompleted
	}
	if err != nil {
		return Result{Correct: true, Stage: s.stage}, err
	}
	s.log.Info(ctx, "daily gauntlet cleared")
	return Result{Correct: true, Stage: s.stage, Completed: true, Outcome: &out}, nil
}
