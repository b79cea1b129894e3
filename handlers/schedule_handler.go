package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/padelpoint/tournament-system/scheduling"
	"github.com/padelpoint/tournament-system/services"
)

type ScheduleHandler struct {
	scheduleService services.ScheduleService
}

func NewScheduleHandler(scheduleService services.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: scheduleService}
}

type scheduleRequest struct {
	StartDate string `json:"start_date"` // YYYY-MM-DD
	EndDate   string `json:"end_date"`   // YYYY-MM-DD
	DayStart  string `json:"day_start"`  // HH:MM
	DayEnd    string `json:"day_end"`    // HH:MM

	MatchDurationMinutes int      `json:"match_duration_minutes"`
	Courts               []string `json:"courts"`
	MaxPerPlayerPerDay   int      `json:"max_per_player_per_day"`
}

func (req scheduleRequest) toParams() (scheduling.Params, error) {
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return scheduling.Params{}, fmt.Errorf("invalid start_date %q, want YYYY-MM-DD", req.StartDate)
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return scheduling.Params{}, fmt.Errorf("invalid end_date %q, want YYYY-MM-DD", req.EndDate)
	}
	dayStart, err := parseDayOffset(req.DayStart)
	if err != nil {
		return scheduling.Params{}, fmt.Errorf("invalid day_start %q, want HH:MM", req.DayStart)
	}
	dayEnd, err := parseDayOffset(req.DayEnd)
	if err != nil {
		return scheduling.Params{}, fmt.Errorf("invalid day_end %q, want HH:MM", req.DayEnd)
	}

	return scheduling.Params{
		StartDate:          start,
		EndDate:            end,
		DayStart:           dayStart,
		DayEnd:             dayEnd,
		MatchDuration:      time.Duration(req.MatchDurationMinutes) * time.Minute,
		Courts:             req.Courts,
		MaxPerPlayerPerDay: req.MaxPerPlayerPerDay,
	}, nil
}

func parseDayOffset(raw string) (time.Duration, error) {
	t, err := time.Parse("15:04", raw)
	if err != nil {
		return 0, err
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

func (h *ScheduleHandler) ScheduleMatchesHandler(w http.ResponseWriter, r *http.Request) {
	divisionID, err := getIDFromURL(r, "divisionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var req scheduleRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if len(req.Courts) == 0 {
		badRequestResponse(w, r, errors.New("courts must contain at least one entry"))
		return
	}

	params, err := req.toParams()
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.scheduleService.ScheduleMatches(r.Context(), divisionID, params)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{
		"scheduled":   result.Scheduled,
		"unscheduled": result.Unscheduled,
	}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
