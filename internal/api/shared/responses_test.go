package shared

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWantsJSON(t *testing.T) {
	tests := []struct {
		name   string
		accept string
		want   bool
	}{
		{"no accept header", "", true},
		{"explicit json", "application/json", true},
		{"browser", "text/html,application/xhtml+xml", false},
		{"browser with wildcard", "text/html,*/*;q=0.8", false},
		{"json beats html", "application/json, text/html", true},
		{"wildcard only", "*/*", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.accept != "" {
				r.Header.Set("Accept", tt.accept)
			}
			assert.Equal(t, tt.want, WantsJSON(r))
		})
	}
}

func TestRespondWithErrorEnvelope(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	r = r.WithContext(SetTraceID(r.Context()))
	w := httptest.NewRecorder()

	RespondWithError(w, r, http.StatusNotFound, "Task not found")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Task not found", body["error"])
	assert.NotEmpty(t, body["trace_id"])
}

func TestRespondWithErrorRedirectsBrowser(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/tasks/create", nil)
	r.Header.Set("Accept", "text/html")
	w := httptest.NewRecorder()

	RespondWithError(w, r, http.StatusBadRequest, "Task title is required")

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/tasks/create?error=Task+title+is+required", w.Header().Get("Location"))
}

func TestRespondWithErrorAndLogHidesRawError(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	w := httptest.NewRecorder()

	rawErr := errors.New("pq: connection to postgres://app:hunter2@db:5432 refused")
	RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "An unexpected error occurred", rawErr)

	assert.NotContains(t, w.Body.String(), "hunter2")
	assert.NotContains(t, w.Body.String(), "postgres://")

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "An unexpected error occurred", body["error"])
}

func TestRespondWithRedirectAppendsToExistingQuery(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	w := httptest.NewRecorder()

	RespondWithRedirect(w, r, "/tasks?view=week", "oops")

	assert.Equal(t, "/tasks?view=week&error=oops", w.Header().Get("Location"))
}

func TestSessionCookieRoundTrip(t *testing.T) {
	w := httptest.NewRecorder()
	SetSessionCookie(w, "abc123", 24*time.Hour, true)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, SessionCookieName, cookie.Name)
	assert.Equal(t, "abc123", cookie.Value)
	assert.Equal(t, 24*3600, cookie.MaxAge)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)

	w = httptest.NewRecorder()
	ClearSessionCookie(w, false)
	cookies = w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}
