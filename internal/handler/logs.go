package handler

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/workcal/workcal/internal/model"
	"github.com/workcal/workcal/internal/parser"
	"github.com/workcal/workcal/internal/response"
)

// LogStore is the daily-log persistence the handlers need.
type LogStore interface {
	Upsert(ctx context.Context, entry *model.LogEntry) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.LogEntry, error)
	GetByDate(ctx context.Context, userID uuid.UUID, date string) (*model.LogEntry, error)
}

// LogHandler handles saving and previewing daily logs.
type LogHandler struct {
	Logs LogStore
	Now  func() time.Time
}

type saveLogRequest struct {
	EntryDate string `json:"entryDate"`
	RawText   string `json:"rawText"`
}

type saveLogResponse struct {
	EntryDate string             `json:"entryDate"`
	Parsed    model.ParsedResult `json:"parsed"`
}

// NormalizeEntryDate turns a submitted date into YYYY-MM-DD. An empty value
// means today; RFC 3339 timestamps keep their UTC date.
func NormalizeEntryDate(input string, now time.Time) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return now.UTC().Format(model.DateLayout), nil
	}
	if t, err := time.Parse(time.RFC3339, input); err == nil {
		return t.UTC().Format(model.DateLayout), nil
	}
	return parser.ParseDate(input)
}

func (h *LogHandler) parseRequest(c echo.Context) (string, string, model.ParsedResult, error) {
	var req saveLogRequest
	if err := c.Bind(&req); err != nil {
		return "", "", model.ParsedResult{}, &parser.ValidationError{Field: "body", Reason: "invalid JSON"}
	}
	date, err := NormalizeEntryDate(req.EntryDate, h.Now())
	if err != nil {
		return "", "", model.ParsedResult{}, err
	}
	raw := strings.TrimSpace(req.RawText)
	parsed, err := parser.ParseEntry(raw, date)
	return date, raw, parsed, err
}

// SaveLog parses and upserts the log for one date (POST /api/logs).
func (h *LogHandler) SaveLog(c echo.Context) error {
	date, raw, parsed, err := h.parseRequest(c)
	if err != nil {
		return validationFailure(c, err)
	}

	entry := &model.LogEntry{OwnerID: OwnerID(c), EntryDate: date, RawText: raw, Parsed: parsed}
	if err := h.Logs.Upsert(c.Request().Context(), entry); err != nil {
		zerolog.Ctx(c.Request().Context()).Error().Err(err).Str("entry_date", date).Msg("save log failed")
		return response.InternalError(c, "Failed to save log.", err.Error())
	}
	zerolog.Ctx(c.Request().Context()).Info().
		Str("entry_date", date).
		Int("events", len(parsed.Events)).
		Msg("log saved")
	return response.OK(c, saveLogResponse{EntryDate: date, Parsed: parsed}, parsed.Summary)
}

// PreviewLog parses a log without storing it (POST /api/parse).
func (h *LogHandler) PreviewLog(c echo.Context) error {
	date, _, parsed, err := h.parseRequest(c)
	if err != nil {
		return validationFailure(c, err)
	}
	return response.OK(c, saveLogResponse{EntryDate: date, Parsed: parsed}, parsed.Summary)
}

// GetLog returns the stored log for one date (GET /api/logs/:date).
func (h *LogHandler) GetLog(c echo.Context) error {
	date, err := parser.ParseDate(c.Param("date"))
	if err != nil {
		return response.BadRequest(c, "date must be YYYY-MM-DD", err.Error())
	}
	entry, err := h.Logs.GetByDate(c.Request().Context(), OwnerID(c), date)
	if err != nil {
		return response.InternalError(c, "Failed to load log.", err.Error())
	}
	if entry == nil {
		return response.NotFound(c, "No log for this date.", "no log for "+date)
	}
	return response.OK(c, map[string]any{"log": entry}, "")
}

func validationFailure(c echo.Context, err error) error {
	var verr *parser.ValidationError
	if errors.As(err, &verr) {
		return response.BadRequest(c, "entryDate and rawText are required.", verr.Error())
	}
	return response.InternalError(c, "Failed to parse log.", err.Error())
}
