// Package server exposes the voice webhook over HTTP. Whatever happens
// inside a turn, the telephony provider always gets a 200 with a spoken
// reply; a transport-level error would stall the live call.
package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	contractx "github.com/voxagenda/voxagenda/agent/contract"
	"github.com/voxagenda/voxagenda/agent/orchestrator"
	toolx "github.com/voxagenda/voxagenda/agent/tool"
)

const Version = "1.2.0"

// TurnHandler is what the webhook needs from the orchestrator.
type TurnHandler interface {
	HandleTurn(ctx context.Context, req contractx.TurnRequest) contractx.TurnResponse
}

type Handler struct {
	turns TurnHandler
}

func New(turns TurnHandler) *Handler {
	return &Handler{turns: turns}
}

func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/webhook/voice", h.handleTurn).Methods(http.MethodPost)
	r.HandleFunc("/webhook/voice", h.handleDescriptor).Methods(http.MethodGet)
	return r
}

func (h *Handler) handleTurn(w http.ResponseWriter, r *http.Request) {
	var req contractx.TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn().Err(err).Msg("undecodable turn payload")
		writeJSON(w, contractx.TurnResponse{
			Content:         orchestrator.FallbackReply,
			ContentComplete: true,
		})
		return
	}
	writeJSON(w, h.turns.HandleTurn(r.Context(), req))
}

type descriptor struct {
	Name    string   `json:"name"`
	Version string   `json:"version"`
	Tools   []string `json:"tools"`
}

func (h *Handler) handleDescriptor(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, descriptor{
		Name:    "voxagenda",
		Version: Version,
		Tools:   toolx.Names(),
	})
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("write webhook response")
	}
}
