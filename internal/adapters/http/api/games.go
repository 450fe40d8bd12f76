package api

import (
	"net/http"

	"github.com/okian/netninja/internal/domain/firewall"
	"github.com/okian/netninja/internal/domain/tracer"
)

type tracerResponse struct {
	ID string `json:"id"`
	tracer.Snapshot
}

type firewallRequest struct {
	Difficulty string `json:"difficulty"`
}

type firewallResponse struct {
	ID string `json:"id"`
	firewall.Snapshot
}

type clickRequest struct {
	Packet int `json:"packet"`
}

func (s *Server) handleStartTracer(w http.ResponseWriter, r *http.Request) {
	id, snap, err := s.deps.StartTracer(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tracerResponse{ID: id, Snapshot: snap})
}

func (s *Server) handleTracer(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	snap, err := s.deps.Tracer(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tracerResponse{ID: id, Snapshot: snap})
}

func (s *Server) handleTracerSelect(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	res, err := s.deps.TracerSelect(r.PathValue("id"), req.Answer)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleTracerNext(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	snap, err := s.deps.TracerNext(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tracerResponse{ID: id, Snapshot: snap})
}

func (s *Server) handleTracerRetry(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	snap, err := s.deps.TracerRetry(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tracerResponse{ID: id, Snapshot: snap})
}

func (s *Server) handleStopTracer(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.StopTracer(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStartFirewall(w http.ResponseWriter, r *http.Request) {
	var req firewallRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	id, snap, err := s.deps.StartFirewall(r.Context(), req.Difficulty)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, firewallResponse{ID: id, Snapshot: snap})
}

func (s *Server) handleFirewall(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	snap, err := s.deps.Firewall(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, firewallResponse{ID: id, Snapshot: snap})
}

func (s *Server) handleFirewallClick(w http.ResponseWriter, r *http.Request) {
	var req clickRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	res, err := s.deps.FirewallClick(r.PathValue("id"), req.Packet)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleStopFirewall(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.StopFirewall(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
