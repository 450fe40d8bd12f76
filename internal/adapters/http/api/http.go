// Package api serves the game over a local JSON HTTP interface.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	service "github.com/okian/netninja/internal/app"
	"github.com/okian/netninja/internal/domain/daily"
	"github.com/okian/netninja/internal/domain/firewall"
	"github.com/okian/netninja/internal/domain/progression"
	"github.com/okian/netninja/internal/domain/puzzle"
	"github.com/okian/netninja/internal/domain/shop"
	"github.com/okian/netninja/internal/domain/tracer"
	"github.com/okian/netninja/pkg/logger"
)

const maxBodyBytes = 1 << 16

// Dependencies required by HTTP handlers. *service.Service implements it.
type Dependencies interface {
	Stats() progression.Stats
	Badges() []progression.BadgeStatus
	Theme() map[string]string

	NewPuzzle(ctx context.Context, kind puzzle.Kind, p puzzle.Params) (service.Issued, error)
	Answer(ctx context.Context, id, input string) (service.Answered, error)

	Daily(ctx context.Context) (service.DailyView, error)
	DailyAnswer(ctx context.Context, answer string) (daily.Result, error)

	Shop() []shop.Listing
	Purchase(ctx context.Context, id string) (bool, error)
	Equip(ctx context.Context, id string) error

	Hint(ctx context.Context, concept, detail string) (string, error)
	Chat(ctx context.Context, msg string, history []string) (string, error)
	Breakdown(ctx context.Context, ip string, cidr int) (string, error)

	StartTracer(ctx context.Context) (string, tracer.Snapshot, error)
	Tracer(id string) (tracer.Snapshot, error)
	TracerSelect(id, input string) (tracer.Result, error)
	TracerNext(id string) (tracer.Snapshot, error)
	TracerRetry(id string) (tracer.Snapshot, error)
	StopTracer(ctx context.Context, id string) error

	StartFirewall(ctx context.Context, difficulty string) (string, firewall.Snapshot, error)
	Firewall(id string) (firewall.Snapshot, error)
	FirewallClick(id string, packet int) (firewall.ClickResult, error)
	StopFirewall(ctx context.Context, id string) error
}

// Server wires HTTP routes for the game API.
type Server struct {
	deps   Dependencies
	logger logger.Logger
}

// NewServer creates a new API server.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{deps: deps}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("api")
	}
	return s
}

type route struct {
	pattern  string
	endpoint string
	handler  http.HandlerFunc
}

func (s *Server) routes() []route {
	return []route{
		{"GET /healthz", "healthz", HandleHealth},
		{"GET /stats", "stats", s.handleStats},
		{"GET /badges", "badges", s.handleBadges},
		{"POST /puzzles", "puzzles", s.handleNewPuzzle},
		{"POST /puzzles/{id}/answer", "puzzle_answer", s.handleAnswer},
		{"GET /daily", "daily", s.handleDaily},
		{"POST /daily/answer", "daily_answer", s.handleDailyAnswer},
		{"GET /shop", "shop", s.handleShop},
		{"POST /shop/purchase", "shop_purchase", s.handlePurchase},
		{"POST /shop/equip", "shop_equip", s.handleEquip},
		{"POST /hint", "hint", s.handleHint},
		{"POST /chat", "chat", s.handleChat},
		{"POST /breakdown", "breakdown", s.handleBreakdown},
		{"POST /tracer", "tracer", s.handleStartTracer},
		{"GET /tracer/{id}", "tracer_get", s.handleTracer},
		{"POST /tracer/{id}/select", "tracer_select", s.handleTracerSelect},
		{"POST /tracer/{id}/next", "tracer_next", s.handleTracerNext},
		{"POST /tracer/{id}/retry", "tracer_retry", s.handleTracerRetry},
		{"DELETE /tracer/{id}", "tracer_stop", s.handleStopTracer},
		{"POST /firewall", "firewall", s.handleStartFirewall},
		{"GET /firewall/{id}", "firewall_get", s.handleFirewall},
		{"POST /firewall/{id}/click", "firewall_click", s.handleFirewallClick},
		{"DELETE /firewall/{id}", "firewall_stop", s.handleStopFirewall},
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	for _, r := range s.routes() {
		mux.HandleFunc(r.pattern, s.instrument(r.endpoint, r.handler))
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	writeJSON(w, status, errorResponse{Code: code, Message: err.Error()})
}

// decode reads a JSON body into v. An empty body leaves v untouched.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return nil
}
