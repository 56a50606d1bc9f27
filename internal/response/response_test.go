package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopes(t *testing.T) {
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/api/calendar", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, OK(e.NewContext(req, rec), map[string]int{"n": 1}, "done"))

	var ok APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ok))
	assert.Equal(t, http.StatusOK, ok.Status)
	assert.Equal(t, "/api/calendar", ok.Path)
	assert.Equal(t, "done", ok.Message)

	rec = httptest.NewRecorder()
	require.NoError(t, Conflict(e.NewContext(req, rec), "Account already exists for this email.", "duplicate"))
	assert.Equal(t, http.StatusConflict, rec.Code)

	var apiErr APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	assert.Equal(t, "Account already exists for this email.", apiErr.Message)
	assert.Equal(t, http.StatusConflict, apiErr.Status)

	rec = httptest.NewRecorder()
	require.NoError(t, NotFound(e.NewContext(req, rec), "No log for this date.", "no log for 2024-03-11"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	assert.Equal(t, "No log for this date.", apiErr.Message)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}
