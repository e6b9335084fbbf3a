/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

NA CONVENTION:
  A missing occurrence is returned as {"na": true} with all other fields
  omitted, mirroring the engine's all-or-nothing NA invariant.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/calendar.go: CalendarJSON type embedded in calendar responses
*/
package api

import (
	"github.com/warp/cycle-engine/cycle"
	"github.com/warp/cycle-engine/factory"
)

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// OccurrenceDTO represents a resolved period occurrence.
type OccurrenceDTO struct {
	NA           bool   `json:"na,omitempty"`
	Name         string `json:"name,omitempty"`
	Code         string `json:"code,omitempty"`
	CalendarYear int    `json:"calendar_year,omitempty"`
	YearLabel    string `json:"year_label,omitempty"`
	Position     int    `json:"position,omitempty"`
	Start        string `json:"start,omitempty"`
	End          string `json:"end,omitempty"`
	Midpoint     string `json:"midpoint,omitempty"`
}

// CalendarDTO represents a calendar definition in API responses.
type CalendarDTO struct {
	ID          string               `json:"id,omitempty"`
	DisplayName string               `json:"display_name"`
	Active      bool                 `json:"active,omitempty"`
	Definition  factory.CalendarJSON `json:"definition"`
}

// PresetDTO represents a built-in calendar preset.
type PresetDTO struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Periods     int    `json:"periods"`
}

// CurrentDTO pairs the occurrence containing a date with how far through
// it that date is.
type CurrentDTO struct {
	Occurrence OccurrenceDTO `json:"occurrence"`
	Progress   string        `json:"progress"` // decimal fraction in [0,1]
}

// YearGroupDTO is one academic/fiscal-year bucket.
type YearGroupDTO struct {
	Label       string          `json:"label"`
	Occurrences []OccurrenceDTO `json:"occurrences"`
}

// DistanceDTO carries one elementwise distance; null value means NA input.
type DistanceDTO struct {
	Value *int `json:"value"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// REQUEST TYPES
// =============================================================================

// ParseRequest parses a batch of heterogeneous period values.
type ParseRequest struct {
	Values []any `json:"values"`
}

// ShiftRequest advances a value by N periods.
type ShiftRequest struct {
	Value any `json:"value"`
	N     int `json:"n"`
}

// DistanceRequest computes signed period distances A - B, elementwise.
type DistanceRequest struct {
	A []any `json:"a"`
	B []any `json:"b"`
}

// SequenceRequest generates the inclusive stepped range between endpoints.
type SequenceRequest struct {
	From any `json:"from"`
	To   any `json:"to"`
	Step int `json:"step"`
}

// FormatRequest renders parsed values in a named style or user template.
type FormatRequest struct {
	Values   []any  `json:"values"`
	Style    string `json:"style,omitempty"`
	Template string `json:"template,omitempty"`
}

// YearsRequest buckets parsed values by academic/fiscal year.
type YearsRequest struct {
	Values []any `json:"values"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toOccurrenceDTO(o cycle.Occurrence) OccurrenceDTO {
	if o.IsNA() {
		return OccurrenceDTO{NA: true}
	}
	return OccurrenceDTO{
		Name:         o.Name(),
		Code:         o.Code(),
		CalendarYear: o.CalendarYear(),
		YearLabel:    o.YearLabel(),
		Position:     o.Position(),
		Start:        o.Start().Format("2006-01-02"),
		End:          o.End().Format("2006-01-02"),
		Midpoint:     o.Midpoint().Format("2006-01-02"),
	}
}

func toOccurrenceDTOs(occs []cycle.Occurrence) []OccurrenceDTO {
	dtos := make([]OccurrenceDTO, 0, len(occs))
	for _, o := range occs {
		dtos = append(dtos, toOccurrenceDTO(o))
	}
	return dtos
}
