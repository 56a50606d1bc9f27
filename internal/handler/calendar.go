package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/workcal/workcal/internal/calendar"
	"github.com/workcal/workcal/internal/ical"
	"github.com/workcal/workcal/internal/model"
	"github.com/workcal/workcal/internal/parser"
	"github.com/workcal/workcal/internal/response"
	"github.com/workcal/workcal/internal/storage"
)

// Archive stores log exports.
type Archive interface {
	Export(ctx context.Context, userID uuid.UUID, entries []model.LogEntry, now time.Time) (string, error)
	ListExports(ctx context.Context, userID uuid.UUID) ([]storage.ObjectInfo, error)
	GetExport(ctx context.Context, key string) ([]model.LogEntry, error)
}

// CalendarHandler serves stored logs as lists, month views, ICS feeds and exports.
type CalendarHandler struct {
	Logs    LogStore
	Archive Archive // nil when exports are not configured
	Now     func() time.Time
}

type storedLogResponse struct {
	ID        uuid.UUID          `json:"id"`
	EntryDate string             `json:"entry_date"`
	RawText   string             `json:"raw_text"`
	Parsed    model.ParsedResult `json:"parsed"`
	UpdatedAt time.Time          `json:"updated_at"`
}

type calendarViewResponse struct {
	Year     int            `json:"year"`
	Month    int            `json:"month"`
	Selected string         `json:"selected,omitempty"`
	Days     []calendar.Day `json:"days"`
}

// ListLogs returns every stored log of the user, newest first (GET /api/calendar).
func (h *CalendarHandler) ListLogs(c echo.Context) error {
	entries, err := h.Logs.ListByUser(c.Request().Context(), OwnerID(c))
	if err != nil {
		return response.InternalError(c, "Failed to load logs.", err.Error())
	}
	out := make([]storedLogResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, storedLogResponse{
			ID:        e.ID,
			EntryDate: e.EntryDate,
			RawText:   e.RawText,
			Parsed:    e.Parsed,
			UpdatedAt: e.UpdatedAt,
		})
	}
	return response.OK(c, map[string]any{"logs": out}, "")
}

// View returns the month view (GET /api/calendar/view?month=YYYY-MM&selected=YYYY-MM-DD).
func (h *CalendarHandler) View(c echo.Context) error {
	selected := c.QueryParam("selected")
	if selected != "" {
		var err error
		if selected, err = parser.ParseDate(selected); err != nil {
			return response.BadRequest(c, "selected must be a YYYY-MM-DD date", err.Error())
		}
	}
	year, month, err := calendar.ResolveMonth(c.QueryParam("month"), selected, h.Now())
	if err != nil {
		return response.BadRequest(c, "month must be YYYY-MM", err.Error())
	}

	entries, err := h.Logs.ListByUser(c.Request().Context(), OwnerID(c))
	if err != nil {
		return response.InternalError(c, "Failed to load logs.", err.Error())
	}
	return response.OK(c, calendarViewResponse{
		Year:     year,
		Month:    int(month),
		Selected: selected,
		Days:     calendar.BuildView(entries, year, month, selected),
	}, "")
}

// Feed returns all stored events as an iCalendar feed (GET /api/calendar.ics).
func (h *CalendarHandler) Feed(c echo.Context) error {
	owner := OwnerID(c)
	entries, err := h.Logs.ListByUser(c.Request().Context(), owner)
	if err != nil {
		return response.InternalError(c, "Failed to load logs.", err.Error())
	}
	body := ical.Feed(owner, entries, h.Now()).Serialize()
	c.Response().Header().Set("Content-Disposition", `inline; filename="workcal.ics"`)
	return c.Blob(http.StatusOK, "text/calendar; charset=utf-8", []byte(body))
}

// CreateExport archives every stored log of the user (POST /api/exports).
func (h *CalendarHandler) CreateExport(c echo.Context) error {
	if h.Archive == nil {
		return response.Unavailable(c, "Exports are not configured.", storage.ErrNotConfigured.Error())
	}
	owner := OwnerID(c)
	entries, err := h.Logs.ListByUser(c.Request().Context(), owner)
	if err != nil {
		return response.InternalError(c, "Failed to load logs.", err.Error())
	}
	key, err := h.Archive.Export(c.Request().Context(), owner, entries, h.Now())
	if err != nil {
		return exportFailure(c, err)
	}
	return response.Created(c, map[string]any{"key": key, "count": len(entries)}, "")
}

// ListExports lists the user's archives (GET /api/exports).
func (h *CalendarHandler) ListExports(c echo.Context) error {
	if h.Archive == nil {
		return response.Unavailable(c, "Exports are not configured.", storage.ErrNotConfigured.Error())
	}
	list, err := h.Archive.ListExports(c.Request().Context(), OwnerID(c))
	if err != nil {
		return exportFailure(c, err)
	}
	return response.OK(c, map[string]any{"objects": list}, "")
}

// GetExport returns the entries stored in one of the user's archives (GET /api/exports/download?key=...).
func (h *CalendarHandler) GetExport(c echo.Context) error {
	if h.Archive == nil {
		return response.Unavailable(c, "Exports are not configured.", storage.ErrNotConfigured.Error())
	}
	key := c.QueryParam("key")
	if !strings.HasPrefix(key, storage.ExportPrefix(OwnerID(c))) {
		return response.BadRequest(c, "Unknown export.", "key outside the user's exports")
	}
	entries, err := h.Archive.GetExport(c.Request().Context(), key)
	if err != nil {
		return exportFailure(c, err)
	}
	return response.OK(c, map[string]any{"key": key, "logs": entries}, "")
}

func exportFailure(c echo.Context, err error) error {
	if errors.Is(err, storage.ErrNotConfigured) {
		return response.Unavailable(c, "Exports are not configured.", err.Error())
	}
	return response.InternalError(c, "Export failed.", err.Error())
}
