package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/netninja/internal/domain/daily"
	"github.com/okian/netninja/internal/domain/progression"
	"github.com/okian/netninja/internal/domain/puzzle"
)

type puzzleRequest struct {
	Kind  string `json:"kind"`
	Hard  bool   `json:"hard"`
	Level int    `json:"level"`
	Wave  int    `json:"wave"`
}

type answerRequest struct {
	Answer string `json:"answer"`
}

type itemRequest struct {
	ID string `json:"id"`
}

type purchaseResponse struct {
	Purchased bool `json:"purchased"`
}

type hintRequest struct {
	Concept string `json:"concept"`
	Context string `json:"context"`
}

type chatRequest struct {
	Message string   `json:"message"`
	History []string `json:"history"`
}

type breakdownRequest struct {
	IP   string `json:"ip"`
	CIDR int    `json:"cidr"`
}

type textResponse struct {
	Text string `json:"text"`
}

// statsResponse is the player record plus the equipped theme's colors.
type statsResponse struct {
	progression.Stats
	Theme map[string]string `json:"theme"`
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, statsResponse{Stats: s.deps.Stats(), Theme: s.deps.Theme()})
}

func (s *Server) handleBadges(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Badges())
}

func (s *Server) handleNewPuzzle(w http.ResponseWriter, r *http.Request) {
	var req puzzleRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	kind, err := puzzle.ParseKind(req.Kind)
	if err != nil {
		writeError(w, err)
		return
	}
	is, err := s.deps.NewPuzzle(r.Context(), kind, puzzle.Params{Hard: req.Hard, Level: req.Level, Wave: req.Wave})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, is)
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	res, err := s.deps.Answer(r.Context(), r.PathValue("id"), req.Answer)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleDaily(w http.ResponseWriter, r *http.Request) {
	view, err := s.deps.Daily(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// handleDailyAnswer reports a wrong answer as a normal result; the stage
// can be retried.
func (s *Server) handleDailyAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	res, err := s.deps.DailyAnswer(r.Context(), req.Answer)
	if err != nil && !errors.Is(err, daily.ErrWrongAnswer) {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleShop(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Shop())
}

func (s *Server) handlePurchase(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := decodeItem(r, &req); err != nil {
		writeError(w, err)
		return
	}
	ok, err := s.deps.Purchase(r.Context(), req.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, purchaseResponse{Purchased: ok})
}

func (s *Server) handleEquip(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := decodeItem(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := s.deps.Equip(r.Context(), req.ID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.deps.Stats().Equipped)
}

func decodeItem(r *http.Request, req *itemRequest) error {
	if err := decode(r, req); err != nil {
		return err
	}
	if strings.TrimSpace(req.ID) == "" {
		return fmt.Errorf("%w: missing id", ErrBadRequest)
	}
	return nil
}

func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	var req hintRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	text, err := s.deps.Hint(r.Context(), req.Concept, req.Context)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, textResponse{Text: text})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	text, err := s.deps.Chat(r.Context(), req.Message, req.History)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, textResponse{Text: text})
}

func (s *Server) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	var req breakdownRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	text, err := s.deps.Breakdown(r.Context(), req.IP, req.CIDR)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, textResponse{Text: text})
}
