package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/riichi/internal/adapters/repository"
	service "github.com/okian/riichi/internal/app"
)

const maxOverrideBytes = 4 << 10

// ReplayDependencies defines full and what-if replays.
type ReplayDependencies interface {
	Refresh(ctx context.Context, force bool) (repository.RunInfo, error)
	WhatIf(ctx context.Context, o service.Overrides) (service.WhatIf, error)
}

// ReplayHandler handles replay requests.
type ReplayHandler struct {
	deps ReplayDependencies
}

// NewReplayHandler creates a new replay handler.
func NewReplayHandler(deps ReplayDependencies) *ReplayHandler {
	return &ReplayHandler{deps: deps}
}

// HandleRefresh handles POST /refresh[?force=true]: replay the full log and
// publish the result.
func (h *ReplayHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	force := false
	if v := r.URL.Query().Get("force"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: force must be a boolean", ErrBadRequest))
			return
		}
		force = b
	}
	info, err := h.deps.Refresh(r.Context(), force)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// HandleWhatIf handles POST /replay: replay with overridden scoring and
// prior parameters without publishing.
func (h *ReplayHandler) HandleWhatIf(w http.ResponseWriter, r *http.Request) {
	var o service.Overrides
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxOverrideBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&o); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	res, err := h.deps.WhatIf(r.Context(), o)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
