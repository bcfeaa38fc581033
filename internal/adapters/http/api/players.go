package api

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/okian/riichi/internal/adapters/repository"
	"github.com/okian/riichi/internal/domain/model"
)

// PlayerHandler serves game logs and rating charts.
type PlayerHandler struct {
	deps PlayerDependencies
}

// NewPlayerHandler creates a new player handler.
func NewPlayerHandler(deps PlayerDependencies) *PlayerHandler {
	return &PlayerHandler{deps: deps}
}

type historyResponse struct {
	Run     repository.RunInfo `json:"run"`
	History []model.Snapshot   `json:"history"`
}

// HandleGetHistory handles GET /history requests.
func (h *PlayerHandler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	history, run, err := h.deps.History(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, historyResponse{Run: run, History: history})
}

// HandleGetPlayerHistory handles GET /players/{player}/history requests.
func (h *PlayerHandler) HandleGetPlayerHistory(w http.ResponseWriter, r *http.Request) {
	player, err := playerParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	log, err := h.deps.PlayerLog(r.Context(), player)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, log)
}

// HandleGetChart handles GET /players/{player}/chart.png requests.
func (h *PlayerHandler) HandleGetChart(w http.ResponseWriter, r *http.Request) {
	player, err := playerParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	var buf bytes.Buffer
	if err := h.deps.Chart(r.Context(), &buf, player); err != nil {
		writeDomainError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
