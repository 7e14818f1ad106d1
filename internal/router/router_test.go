package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-adoption-radar/internal/config"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	t.Setenv("DB_DSN", "")
	return NewRouter(Options{Config: config.Config{}})
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestFeedEmpty(t *testing.T) {
	r := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/feed", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Items []json.RawMessage `json:"items"`
		Total int               `json:"total"`
		Limit int               `json:"limit"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Empty(t, body.Items)
	assert.Zero(t, body.Total)
	assert.Equal(t, config.DefaultFeedLimit, body.Limit)
}

func TestViewerCookieIssued(t *testing.T) {
	r := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/feed", nil))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "viewer_key", cookies[0].Name)
	assert.NotEmpty(t, cookies[0].Value)
}

func TestSwipeRoundTrip(t *testing.T) {
	r := newTestRouter(t)

	post := httptest.NewRequest(http.MethodPost, "/swipes",
		strings.NewReader(`{"pet_id": 7, "species": "dog", "direction": "right"}`))
	post.Header.Set("X-Viewer-Key", "viewer-1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, post)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	get := httptest.NewRequest(http.MethodGet, "/likes", nil)
	get.Header.Set("X-Viewer-Key", "viewer-1")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, get)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Items []struct {
			PetID   int    `json:"pet_id"`
			Species string `json:"species"`
		} `json:"items"`
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Total)
	require.Len(t, body.Items, 1)
	assert.Equal(t, 7, body.Items[0].PetID)
	assert.Equal(t, "dog", body.Items[0].Species)
}

func TestSwipeRejectsBadDirection(t *testing.T) {
	r := newTestRouter(t)

	post := httptest.NewRequest(http.MethodPost, "/swipes",
		strings.NewReader(`{"pet_id": 7, "direction": "up"}`))
	post.Header.Set("X-Viewer-Key", "viewer-1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, post)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubscribe(t *testing.T) {
	r := newTestRouter(t)

	post := httptest.NewRequest(http.MethodPost, "/subscriptions",
		strings.NewReader(`{"email": " Reader@Example.com "}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, post)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"email": "reader@example.com"}`, rec.Body.String())

	post = httptest.NewRequest(http.MethodPost, "/subscriptions",
		strings.NewReader(`{"email": "not an email"}`))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, post)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
