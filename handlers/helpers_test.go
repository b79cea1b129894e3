package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/padelpoint/tournament-system/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requestWithURLParam(param, value string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(param, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestGetIDFromURL(t *testing.T) {
	id, err := getIDFromURL(requestWithURLParam("divisionID", "12"), "divisionID")
	require.NoError(t, err)
	assert.Equal(t, 12, id)

	_, err = getIDFromURL(requestWithURLParam("divisionID", "abc"), "divisionID")
	assert.Error(t, err)

	_, err = getIDFromURL(requestWithURLParam("divisionID", "0"), "divisionID")
	assert.Error(t, err)

	_, err = getIDFromURL(requestWithURLParam("divisionID", "-4"), "divisionID")
	assert.Error(t, err)
}

func TestMatchFilterFromQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet,
		"/?round=2&status=pending&losers_bracket=true&group_phase=true&unscheduled=true", nil)

	filter := matchFilterFromQuery(req)

	require.NotNil(t, filter.RoundNumber)
	assert.Equal(t, 2, *filter.RoundNumber)
	require.NotNil(t, filter.Status)
	assert.Equal(t, models.MatchPending, *filter.Status)
	require.NotNil(t, filter.IsLosersBracket)
	assert.True(t, *filter.IsLosersBracket)
	assert.True(t, filter.GroupPhaseOnly)
	assert.True(t, filter.UnscheduledOnly)
}

func TestMatchFilterFromQueryIgnoresMalformedValues(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?round=two&losers_bracket=maybe", nil)

	filter := matchFilterFromQuery(req)

	assert.Nil(t, filter.RoundNumber)
	assert.Nil(t, filter.IsLosersBracket)
	assert.False(t, filter.GroupPhaseOnly)
	assert.False(t, filter.UnscheduledOnly)
}

func TestScheduleRequestToParams(t *testing.T) {
	req := scheduleRequest{
		StartDate:            "2026-09-07",
		EndDate:              "2026-09-13",
		DayStart:             "17:00",
		DayEnd:               "22:40",
		MatchDurationMinutes: 80,
		Courts:               []string{"Court 1", "Court 2"},
		MaxPerPlayerPerDay:   2,
	}

	params, err := req.toParams()
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC), params.StartDate)
	assert.Equal(t, 17*time.Hour, params.DayStart)
	assert.Equal(t, 22*time.Hour+40*time.Minute, params.DayEnd)
	assert.Equal(t, 80*time.Minute, params.MatchDuration)
	assert.Equal(t, 2, params.MaxPerPlayerPerDay)
}

func TestScheduleRequestToParamsRejectsMalformedFields(t *testing.T) {
	valid := scheduleRequest{
		StartDate: "2026-09-07", EndDate: "2026-09-13",
		DayStart: "17:00", DayEnd: "22:00",
		MatchDurationMinutes: 60, Courts: []string{"Court 1"},
	}

	broken := valid
	broken.StartDate = "07/09/2026"
	_, err := broken.toParams()
	assert.Error(t, err)

	broken = valid
	broken.DayStart = "5pm"
	_, err = broken.toParams()
	assert.Error(t, err)
}
