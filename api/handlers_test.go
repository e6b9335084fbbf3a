/*
handlers_test.go - HTTP contract tests for the API layer

Tests for:
- Engine endpoints (resolve, parse, shift, distance, sequence)
- Calendar management (presets, stored calendars, activation)
- Error taxonomy to HTTP status mapping
*/
package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/cycle-engine/cycle"
	"github.com/warp/cycle-engine/store/sqlite"
)

func newTestServer(t *testing.T, preset string) *httptest.Server {
	t.Helper()

	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	registry := cycle.NewRegistry()
	if preset != "" {
		require.NoError(t, registry.ActivatePreset(preset))
	}

	server := httptest.NewServer(NewRouter(NewHandler(store, registry)))
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// =============================================================================
// ENGINE ENDPOINTS
// =============================================================================

func TestResolveEndpoint(t *testing.T) {
	server := newTestServer(t, "semester")

	resp, err := http.Get(server.URL + "/api/resolve?position=1&year=2026")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	occ := decode[OccurrenceDTO](t, resp)
	assert.Equal(t, "Fall", occ.Name)
	assert.Equal(t, "2026-08-23", occ.Start)
	assert.Equal(t, "2027-01-14", occ.End)
	assert.Equal(t, "2026-27", occ.YearLabel)
}

func TestParseEndpoint_MixedValuesWithNA(t *testing.T) {
	server := newTestServer(t, "semester")

	resp := postJSON(t, server.URL+"/api/parse", ParseRequest{
		Values: []any{"FA26", nil, 202701},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	occs := decode[[]OccurrenceDTO](t, resp)
	require.Len(t, occs, 3)
	assert.Equal(t, "Fall", occs[0].Name)
	assert.True(t, occs[1].NA)
	assert.Equal(t, "Spring", occs[2].Name)
	assert.Equal(t, 2027, occs[2].CalendarYear)
}

func TestShiftEndpoint(t *testing.T) {
	server := newTestServer(t, "semester")

	resp := postJSON(t, server.URL+"/api/shift", ShiftRequest{Value: "Fall 2026", N: 1})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	occ := decode[OccurrenceDTO](t, resp)
	assert.Equal(t, "Spring", occ.Name)
	assert.Equal(t, 2027, occ.CalendarYear)
}

func TestDistanceEndpoint_NAYieldsNull(t *testing.T) {
	server := newTestServer(t, "semester")

	resp := postJSON(t, server.URL+"/api/distance", DistanceRequest{
		A: []any{"Spring 2027", nil},
		B: []any{"Fall 2026", "Fall 2026"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := decode[[]DistanceDTO](t, resp)
	require.Len(t, out, 2)
	require.NotNil(t, out[0].Value)
	assert.Equal(t, 1, *out[0].Value)
	assert.Nil(t, out[1].Value)
}

func TestSequenceEndpoint_DirectionMismatchIs400(t *testing.T) {
	server := newTestServer(t, "semester")

	resp := postJSON(t, server.URL+"/api/sequence", SequenceRequest{
		From: "Fall 2026", To: "Fall 2027", Step: 1,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	occs := decode[[]OccurrenceDTO](t, resp)
	assert.Len(t, occs, 4)

	resp = postJSON(t, server.URL+"/api/sequence", SequenceRequest{
		From: "Fall 2027", To: "Fall 2026", Step: 1,
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestFormatEndpoint_Template(t *testing.T) {
	server := newTestServer(t, "semester")

	resp := postJSON(t, server.URL+"/api/format", FormatRequest{
		Values:   []any{"FA26"},
		Template: "{code} runs {start}..{end}",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := decode[[]string](t, resp)
	require.Len(t, out, 1)
	assert.Equal(t, "FA runs 2026-08-23..2027-01-14", out[0])
}

func TestCurrentEndpoint(t *testing.T) {
	server := newTestServer(t, "semester")

	resp, err := http.Get(server.URL + "/api/current?date=2026-10-01")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := decode[CurrentDTO](t, resp)
	assert.Equal(t, "Fall", out.Occurrence.Name)
	assert.Equal(t, 2026, out.Occurrence.CalendarYear)
	assert.NotEmpty(t, out.Progress)
}

// =============================================================================
// ERROR MAPPING
// =============================================================================

func TestNoCalendarConfiguredIs503(t *testing.T) {
	server := newTestServer(t, "")

	resp, err := http.Get(server.URL + "/api/resolve?position=1&year=2026")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestUnparseableValueIs400(t *testing.T) {
	server := newTestServer(t, "semester")

	resp := postJSON(t, server.URL+"/api/parse", ParseRequest{Values: []any{"XX99"}})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUnknownPresetIs404(t *testing.T) {
	server := newTestServer(t, "semester")

	resp := postJSON(t, server.URL+"/api/presets/lunar/activate", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// =============================================================================
// CALENDAR MANAGEMENT
// =============================================================================

func TestCreateAndActivateStoredCalendar(t *testing.T) {
	server := newTestServer(t, "semester")

	// Create a two-period calendar.
	body := map[string]any{
		"id":           "halves",
		"display_name": "Halves",
		"periods": []map[string]string{
			{"name": "H1", "code": "H1", "start": "01-01"},
			{"name": "H2", "code": "H2", "start": "07-01"},
		},
	}
	resp := postJSON(t, server.URL+"/api/calendars", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[CalendarDTO](t, resp)
	assert.Equal(t, "halves", created.ID)
	require.Len(t, created.Definition.Periods, 2)
	assert.Equal(t, "H1", created.Definition.YearStartPeriod)

	// Activate it and observe the engine switch.
	resp = postJSON(t, server.URL+"/api/calendars/halves/activate", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err := http.Get(server.URL + "/api/resolve?position=2&year=2026")
	require.NoError(t, err)
	occ := decode[OccurrenceDTO](t, resp)
	assert.Equal(t, "H2", occ.Name)
	assert.Equal(t, "2026-07-01", occ.Start)
	assert.Equal(t, "2026-12-31", occ.End)
}

func TestCreateCalendar_InvalidDefinitionIs400(t *testing.T) {
	server := newTestServer(t, "semester")

	body := map[string]any{
		"id":           "broken",
		"display_name": "Broken",
		"periods": []map[string]string{
			{"name": "A", "code": "AA", "start": "13-01"},
		},
	}
	resp := postJSON(t, server.URL+"/api/calendars", body)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetActiveCalendar(t *testing.T) {
	server := newTestServer(t, "quarter")

	resp, err := http.Get(server.URL + "/api/calendar")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	dto := decode[CalendarDTO](t, resp)
	assert.Equal(t, "Calendar Quarters", dto.DisplayName)
	assert.Len(t, dto.Definition.Periods, 4)
}
