package api

import (
	"context"
	"net/http"

	"github.com/okian/riichi/internal/domain/model"
)

// RankDependencies defines the interface for rank operations.
type RankDependencies interface {
	Rank(ctx context.Context, player string) (model.Standing, error)
}

// RankHandler handles rank requests.
type RankHandler struct {
	deps RankDependencies
}

// NewRankHandler creates a new rank handler.
func NewRankHandler(deps RankDependencies) *RankHandler {
	return &RankHandler{deps: deps}
}

// HandleGetRank handles GET /rank/{player} requests.
func (h *RankHandler) HandleGetRank(w http.ResponseWriter, r *http.Request) {
	player, err := playerParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	standing, err := h.deps.Rank(r.Context(), player)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, standing)
}
