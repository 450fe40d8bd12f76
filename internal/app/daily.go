package service

import (
	"context"
	"errors"

	"github.com/okian/netninja/internal/domain/daily"
)

// DailyView is the state of today's challenge.
type DailyView struct {
	Date      string       `json:"date"`
	Completed bool         `json:"completed"`
	Stage     *daily.Stage `json:"stage,omitempty"`
	Index     int          `json:"index"`
	Total     int          `json:"total"`
}

// Daily returns the current stage of today's challenge, starting one if
// needed. A completed day has no stage.
func (s *Service) Daily(ctx context.Context) (DailyView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(ctx)
	if errors.Is(err, daily.ErrAlreadyCompleted) {
		return DailyView{Date: s.engine.Today(), Completed: true, Index: daily.StageCount, Total: daily.StageCount}, nil
	}
	if err != nil {
		return DailyView{}, err
	}
	st, i := sess.Current()
	return DailyView{Date: s.dailyDate, Stage: &st, Index: i, Total: daily.StageCount}, nil
}

// DailyAnswer submits answer to the current stage.
func (s *Service) DailyAnswer(ctx context.Context, answer string) (daily.Result, error) {
	s.mu.Lock()
	sess, err := s.session(ctx)
	s.mu.Unlock()
	if err != nil {
		return daily.Result{}, err
	}
	return sess.Submit(ctx, answer)
}

// session must be called with s.mu held. It replaces a session from an
// earlier day.
func (s *Service) session(ctx context.Context) (*daily.Session, error) {
	today := s.engine.Today()
	if s.daily != nil && s.dailyDate == today && !s.daily.Done() {
		return s.daily, nil
	}
	sess, err := daily.NewSession(s.rng, s.engine, daily.WithLogger(s.logger.Named("daily")))
	if err != nil {
		return nil, err
	}
	s.daily, s.dailyDate = sess, today
	s.logger.Debug(ctx, "daily challenge generated")
	return sess, nil
}
