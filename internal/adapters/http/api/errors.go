package api

import (
	"context"
	"errors"
	"net/http"

	service "github.com/okian/netninja/internal/app"
	"github.com/okian/netninja/internal/domain/daily"
	"github.com/okian/netninja/internal/domain/firewall"
	"github.com/okian/netninja/internal/domain/netmath"
	"github.com/okian/netninja/internal/domain/puzzle"
	"github.com/okian/netninja/internal/domain/shop"
	"github.com/okian/netninja/internal/domain/tracer"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
	ErrNotFound   = errors.New("not found")
)

type errorKind struct {
	err    error
	status int
	code   string
}

// errorKinds maps domain errors to responses, first match wins.
var errorKinds = []errorKind{
	{ErrBadRequest, http.StatusBadRequest, "bad_request"},
	{ErrNotFound, http.StatusNotFound, "not_found"},
	{netmath.ErrInvalidFormat, http.StatusBadRequest, "invalid_format"},
	{netmath.ErrInvalidCIDR, http.StatusBadRequest, "invalid_cidr"},
	{puzzle.ErrUnknownKind, http.StatusBadRequest, "unknown_kind"},
	{tracer.ErrUnknownOption, http.StatusBadRequest, "unknown_option"},
	{firewall.ErrUnknownDifficulty, http.StatusBadRequest, "unknown_difficulty"},
	{puzzle.ErrUnknownPuzzle, http.StatusNotFound, "unknown_puzzle"},
	{service.ErrUnknownGame, http.StatusNotFound, "unknown_game"},
	{shop.ErrUnknownItem, http.StatusNotFound, "unknown_item"},
	{firewall.ErrUnknownPacket, http.StatusNotFound, "unknown_packet"},
	{shop.ErrInsufficientFunds, http.StatusConflict, "insufficient_funds"},
	{shop.ErrNotOwned, http.StatusConflict, "not_owned"},
	{shop.ErrNotEquippable, http.StatusConflict, "not_equippable"},
	{daily.ErrAlreadyCompleted, http.StatusConflict, "already_completed"},
	{daily.ErrFinished, http.StatusConflict, "already_completed"},
	{tracer.ErrRoundOver, http.StatusConflict, "round_over"},
	{tracer.ErrNotCleared, http.StatusConflict, "not_cleared"},
	{firewall.ErrRoundOver, http.StatusConflict, "round_over"},
	{context.Canceled, http.StatusServiceUnavailable, "cancelled"},
	{context.DeadlineExceeded, http.StatusServiceUnavailable, "timeout"},
}

// classify picks the status and code for err.
func classify(err error) (int, string) {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.status, k.code
		}
	}
	return http.StatusInternalServerError, "internal_error"
}
