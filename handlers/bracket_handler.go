package handlers

import (
	"net/http"

	"github.com/padelpoint/tournament-system/services"
)

type BracketHandler struct {
	bracketService services.BracketService
	groupService   services.GroupService
	defaults       services.MatchConfig
}

func NewBracketHandler(
	bracketService services.BracketService,
	groupService services.GroupService,
	defaults services.MatchConfig,
) *BracketHandler {
	return &BracketHandler{
		bracketService: bracketService,
		groupService:   groupService,
		defaults:       defaults,
	}
}

// generateRequest carries the optional per-match scoring configuration.
// Omitted fields fall back to the configured defaults.
type generateRequest struct {
	MaxSets      *int `json:"max_sets"`
	PointsPerSet *int `json:"points_per_set"`
}

func (h *BracketHandler) matchConfig(req generateRequest) services.MatchConfig {
	cfg := h.defaults
	if req.MaxSets != nil {
		cfg.MaxSets = *req.MaxSets
	}
	if req.PointsPerSet != nil {
		cfg.PointsPerSet = *req.PointsPerSet
	}
	return cfg
}

func (h *BracketHandler) readGenerateRequest(w http.ResponseWriter, r *http.Request) (services.MatchConfig, bool) {
	var req generateRequest
	if r.ContentLength > 0 {
		if err := readJSON(w, r, &req); err != nil {
			badRequestResponse(w, r, err)
			return services.MatchConfig{}, false
		}
	}
	return h.matchConfig(req), true
}

func (h *BracketHandler) GenerateBracketHandler(w http.ResponseWriter, r *http.Request) {
	divisionID, err := getIDFromURL(r, "divisionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	cfg, ok := h.readGenerateRequest(w, r)
	if !ok {
		return
	}

	matches, err := h.bracketService.GenerateBracket(r.Context(), divisionID, cfg)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *BracketHandler) GenerateGroupPhaseHandler(w http.ResponseWriter, r *http.Request) {
	divisionID, err := getIDFromURL(r, "divisionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	cfg, ok := h.readGenerateRequest(w, r)
	if !ok {
		return
	}

	result, err := h.groupService.GenerateGroupPhase(r.Context(), divisionID, cfg)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"groups": result.Groups, "matches": result.Matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *BracketHandler) GenerateKnockoutStageHandler(w http.ResponseWriter, r *http.Request) {
	divisionID, err := getIDFromURL(r, "divisionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	cfg, ok := h.readGenerateRequest(w, r)
	if !ok {
		return
	}

	matches, err := h.groupService.GenerateKnockoutFromStandings(r.Context(), divisionID, cfg)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
