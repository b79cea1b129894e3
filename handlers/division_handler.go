package handlers

import (
	"net/http"
	"strconv"

	"github.com/padelpoint/tournament-system/models"
	"github.com/padelpoint/tournament-system/repositories"
	"github.com/padelpoint/tournament-system/services"
)

type DivisionHandler struct {
	overviewService services.OverviewService
	standingService services.StandingService
}

func NewDivisionHandler(
	overviewService services.OverviewService,
	standingService services.StandingService,
) *DivisionHandler {
	return &DivisionHandler{
		overviewService: overviewService,
		standingService: standingService,
	}
}

func (h *DivisionHandler) GetDivisionOverviewHandler(w http.ResponseWriter, r *http.Request) {
	divisionID, err := getIDFromURL(r, "divisionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	overview, err := h.overviewService.GetDivisionOverview(r.Context(), divisionID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, overview, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *DivisionHandler) ListDivisionMatchesHandler(w http.ResponseWriter, r *http.Request) {
	divisionID, err := getIDFromURL(r, "divisionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := h.overviewService.ListMatches(r.Context(), divisionID, matchFilterFromQuery(r))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *DivisionHandler) GetStandingsHandler(w http.ResponseWriter, r *http.Request) {
	divisionID, err := getIDFromURL(r, "divisionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	groups, err := h.standingService.GetStandings(r.Context(), divisionID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"groups": groups}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *DivisionHandler) CalculateStandingsHandler(w http.ResponseWriter, r *http.Request) {
	divisionID, err := getIDFromURL(r, "divisionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	groups, err := h.standingService.CalculateStandings(r.Context(), divisionID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"groups": groups}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// matchFilterFromQuery reads the optional list filters. Unknown or malformed
// values are ignored rather than rejected.
func matchFilterFromQuery(r *http.Request) repositories.MatchListFilter {
	filter := repositories.MatchListFilter{}
	q := r.URL.Query()

	if raw := q.Get("round"); raw != "" {
		if round, err := strconv.Atoi(raw); err == nil {
			filter.RoundNumber = &round
		}
	}
	if raw := q.Get("status"); raw != "" {
		status := models.MatchStatus(raw)
		filter.Status = &status
	}
	if raw := q.Get("losers_bracket"); raw != "" {
		if losers, err := strconv.ParseBool(raw); err == nil {
			filter.IsLosersBracket = &losers
		}
	}
	filter.GroupPhaseOnly = q.Get("group_phase") == "true"
	filter.UnscheduledOnly = q.Get("unscheduled") == "true"

	return filter
}
