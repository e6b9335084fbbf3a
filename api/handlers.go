/*
handlers.go - HTTP API handlers for the cycle engine

PURPOSE:
  Exposes the calendar resolution and arithmetic engine via REST. Handles
  HTTP request/response, JSON serialization, and delegates to the engine.

ENDPOINTS:
  Calendars:
    GET    /api/presets                     List built-in presets
    POST   /api/presets/{id}/activate       Activate a preset
    GET    /api/calendars                   List stored calendars
    POST   /api/calendars                   Create calendar from JSON
    GET    /api/calendars/{id}              Get a stored calendar
    POST   /api/calendars/{id}/activate     Activate a stored calendar
    GET    /api/calendar                    Active calendar definition

  Engine:
    POST   /api/parse       Parse heterogeneous values
    GET    /api/resolve     Resolve (position, year)
    POST   /api/shift       Advance a value by N periods
    POST   /api/distance    Elementwise signed distances
    POST   /api/sequence    Inclusive stepped range
    POST   /api/format      Named styles / user templates
    POST   /api/years       Academic-year bucketing
    GET    /api/current     Occurrence containing a date, with progress

ERROR HANDLING:
  Errors map to HTTP status via the engine's error taxonomy:
  - 400: parse, arithmetic, and configuration errors
  - 404: unknown preset or stored calendar
  - 409: ambiguous month (strict mapping)
  - 503: no calendar configured
  - 500: storage failures

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/warp/cycle-engine/cycle"
	"github.com/warp/cycle-engine/factory"
	"github.com/warp/cycle-engine/format"
	"github.com/warp/cycle-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for the API endpoints.
type Handler struct {
	Store    *sqlite.Store
	Registry *cycle.Registry
	Factory  *factory.CalendarFactory
}

// NewHandler creates a handler with the given store and registry.
func NewHandler(store *sqlite.Store, registry *cycle.Registry) *Handler {
	return &Handler{
		Store:    store,
		Registry: registry,
		Factory:  factory.NewCalendarFactory(),
	}
}

// RestoreActiveCalendar loads the persisted active calendar, if any, into
// the registry. Called once at startup.
func (h *Handler) RestoreActiveCalendar(ctx context.Context) error {
	rec, err := h.Store.GetActiveCalendar(ctx)
	if err != nil {
		return err
	}
	if rec == nil {
		return nil
	}
	cfg, err := h.Factory.Parse(rec.ConfigJSON)
	if err != nil {
		return fmt.Errorf("stored calendar %q: %w", rec.ID, err)
	}
	return h.Registry.SetCalendar(cfg)
}

// active fetches the registry's calendar or writes a 503.
func (h *Handler) active(w http.ResponseWriter) (*cycle.Calendar, bool) {
	cal, err := h.Registry.Active()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "No calendar configured", err)
		return nil, false
	}
	return cal, true
}

// =============================================================================
// CALENDAR ENDPOINTS
// =============================================================================

// ListPresets returns the built-in calendar presets.
// GET /api/presets
func (h *Handler) ListPresets(w http.ResponseWriter, r *http.Request) {
	var dtos []PresetDTO
	for _, id := range cycle.PresetIDs() {
		cfg, err := cycle.Preset(id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to load preset", err)
			return
		}
		dtos = append(dtos, PresetDTO{
			ID:          id,
			DisplayName: cfg.DisplayName,
			Periods:     len(cfg.Periods),
		})
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ActivatePreset installs a built-in preset as the active calendar.
// POST /api/presets/{id}/activate
func (h *Handler) ActivatePreset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Registry.ActivatePreset(id); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, cycle.ErrUnknownPreset) {
			status = http.StatusNotFound
		}
		writeError(w, status, "Failed to activate preset", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"active": id})
}

// ListCalendars returns all stored calendar definitions.
// GET /api/calendars
func (h *Handler) ListCalendars(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListCalendars(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list calendars", err)
		return
	}

	dtos := make([]CalendarDTO, 0, len(records))
	for _, rec := range records {
		dto, err := h.toCalendarDTO(rec)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to decode stored calendar", err)
			return
		}
		dtos = append(dtos, dto)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateCalendar validates and stores a calendar definition.
// POST /api/calendars
func (h *Handler) CreateCalendar(w http.ResponseWriter, r *http.Request) {
	var cj factory.CalendarJSON
	if err := json.NewDecoder(r.Body).Decode(&cj); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if cj.ID == "" {
		writeError(w, http.StatusBadRequest, "Calendar id is required", nil)
		return
	}

	cfg, err := h.Factory.FromJSON(cj)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid calendar definition", err)
		return
	}
	// Validate before persisting so the store only ever holds usable configs.
	if _, err := cycle.NewCalendar(cfg); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid calendar definition", err)
		return
	}

	configJSON, err := h.Factory.ToJSON(cfg)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to serialize calendar", err)
		return
	}
	rec := sqlite.CalendarRecord{
		ID:          cj.ID,
		DisplayName: cfg.DisplayName,
		ConfigJSON:  configJSON,
	}
	if err := h.Store.SaveCalendar(r.Context(), rec); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save calendar", err)
		return
	}

	dto, err := h.toCalendarDTO(rec)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to decode stored calendar", err)
		return
	}
	writeJSON(w, http.StatusCreated, dto)
}

// GetCalendar returns one stored calendar definition.
// GET /api/calendars/{id}
func (h *Handler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, err := h.Store.GetCalendar(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load calendar", err)
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "Calendar not found", nil)
		return
	}

	dto, err := h.toCalendarDTO(*rec)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to decode stored calendar", err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

// ActivateCalendar installs a stored calendar as the active one and
// persists the choice.
// POST /api/calendars/{id}/activate
func (h *Handler) ActivateCalendar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	rec, err := h.Store.GetCalendar(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load calendar", err)
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "Calendar not found", nil)
		return
	}

	cfg, err := h.Factory.Parse(rec.ConfigJSON)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to decode stored calendar", err)
		return
	}
	if err := h.Registry.SetCalendar(cfg); err != nil {
		writeError(w, http.StatusBadRequest, "Stored calendar failed validation", err)
		return
	}
	if err := h.Store.SetActiveCalendar(ctx, id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to persist active calendar", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"active": id})
}

// GetActiveCalendar returns the currently active calendar definition.
// GET /api/calendar
func (h *Handler) GetActiveCalendar(w http.ResponseWriter, r *http.Request) {
	cal, ok := h.active(w)
	if !ok {
		return
	}
	cfg := cal.Config()
	s, err := h.Factory.ToJSON(cfg)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to serialize calendar", err)
		return
	}
	var cj factory.CalendarJSON
	if err := json.Unmarshal([]byte(s), &cj); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to serialize calendar", err)
		return
	}
	writeJSON(w, http.StatusOK, CalendarDTO{
		DisplayName: cfg.DisplayName,
		Active:      true,
		Definition:  cj,
	})
}

// =============================================================================
// ENGINE ENDPOINTS
// =============================================================================

// Parse parses a batch of heterogeneous period values.
// POST /api/parse
func (h *Handler) Parse(w http.ResponseWriter, r *http.Request) {
	cal, ok := h.active(w)
	if !ok {
		return
	}

	var req ParseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	occs, err := cal.ParseAll(req.Values)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOccurrenceDTOs(occs))
}

// Resolve materializes (position, year) into an occurrence.
// GET /api/resolve?position=1&year=2026
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	cal, ok := h.active(w)
	if !ok {
		return
	}

	position, err := strconv.Atoi(r.URL.Query().Get("position"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid position", err)
		return
	}
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}

	occ, err := cal.Resolve(position, year)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOccurrenceDTO(occ))
}

// Shift advances a value by N periods.
// POST /api/shift
func (h *Handler) Shift(w http.ResponseWriter, r *http.Request) {
	cal, ok := h.active(w)
	if !ok {
		return
	}

	var req ShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	occ, err := cal.Parse(req.Value)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	shifted, err := cal.Shift(occ, req.N)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOccurrenceDTO(shifted))
}

// Distance computes elementwise signed distances A - B.
// POST /api/distance
func (h *Handler) Distance(w http.ResponseWriter, r *http.Request) {
	cal, ok := h.active(w)
	if !ok {
		return
	}

	var req DistanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	a, err := cal.ParseAll(req.A)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	b, err := cal.ParseAll(req.B)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	distances, err := cal.Distances(a, b)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	dtos := make([]DistanceDTO, len(distances))
	for i, d := range distances {
		dtos[i] = DistanceDTO{Value: d}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// Sequence generates the inclusive stepped range between two endpoints.
// POST /api/sequence
func (h *Handler) Sequence(w http.ResponseWriter, r *http.Request) {
	cal, ok := h.active(w)
	if !ok {
		return
	}

	var req SequenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	from, err := cal.Parse(req.From)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	to, err := cal.Parse(req.To)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	occs, err := cal.Sequence(from, to, req.Step)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOccurrenceDTOs(occs))
}

// Format renders parsed values in a named style or a user template.
// POST /api/format
func (h *Handler) Format(w http.ResponseWriter, r *http.Request) {
	cal, ok := h.active(w)
	if !ok {
		return
	}

	var req FormatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	occs, err := cal.ParseAll(req.Values)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	var out []string
	if req.Template != "" {
		for _, o := range occs {
			out = append(out, format.Template(o, req.Template))
		}
	} else {
		style := format.Style(req.Style)
		if req.Style == "" {
			style = format.StyleName
		}
		out, err = format.FormatAll(occs, style)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid format style", err)
			return
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// Years buckets parsed values by academic/fiscal year.
// POST /api/years
func (h *Handler) Years(w http.ResponseWriter, r *http.Request) {
	cal, ok := h.active(w)
	if !ok {
		return
	}

	var req YearsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	occs, err := cal.ParseAll(req.Values)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	groups := format.GroupByYear(occs)
	dtos := make([]YearGroupDTO, 0, len(groups))
	for _, g := range groups {
		dtos = append(dtos, YearGroupDTO{
			Label:       g.Label,
			Occurrences: toOccurrenceDTOs(g.Occurrences),
		})
	}
	writeJSON(w, http.StatusOK, dtos)
}

// Current returns the occurrence containing a date and the progress
// through it. Defaults to today.
// GET /api/current?date=2026-09-15
func (h *Handler) Current(w http.ResponseWriter, r *http.Request) {
	cal, ok := h.active(w)
	if !ok {
		return
	}

	at := time.Now().UTC()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD", err)
			return
		}
		at = parsed
	}

	occ, err := cal.Containing(at)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CurrentDTO{
		Occurrence: toOccurrenceDTO(occ),
		Progress:   occ.Progress(at).StringFixed(4),
	})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func (h *Handler) toCalendarDTO(rec sqlite.CalendarRecord) (CalendarDTO, error) {
	var cj factory.CalendarJSON
	if err := json.Unmarshal([]byte(rec.ConfigJSON), &cj); err != nil {
		return CalendarDTO{}, err
	}
	return CalendarDTO{
		ID:          rec.ID,
		DisplayName: rec.DisplayName,
		Active:      rec.Active,
		Definition:  cj,
	}, nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeEngineError maps the engine's error taxonomy to HTTP status codes.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, cycle.ErrNoCalendar):
		writeError(w, http.StatusServiceUnavailable, "No calendar configured", err)
	case errors.Is(err, cycle.ErrUnknownPreset):
		writeError(w, http.StatusNotFound, "Unknown preset", err)
	case errors.Is(err, cycle.ErrAmbiguousMonth):
		writeError(w, http.StatusConflict, "Ambiguous month", err)
	case errors.Is(err, cycle.ErrParse):
		writeError(w, http.StatusBadRequest, "Unparseable value", err)
	case errors.Is(err, cycle.ErrArithmetic):
		writeError(w, http.StatusBadRequest, "Arithmetic error", err)
	case errors.Is(err, cycle.ErrConfig):
		writeError(w, http.StatusBadRequest, "Invalid calendar configuration", err)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}
