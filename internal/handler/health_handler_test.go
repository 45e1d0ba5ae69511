package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth_NoDatabase(t *testing.T) {
	app := newTestApp(&fakeSearch{}, &fakeLLM{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "searxng", body["search"])
	assert.Equal(t, "not_configured", body["db"])
	assert.Equal(t, map[string]any{"backend": "ollama", "name": "llama3"}, body["model"])
}

func TestUnknownRoute_JSONDetail(t *testing.T) {
	app := newTestApp(&fakeSearch{}, &fakeLLM{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/nope", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body["detail"], "Cannot GET /nope")
}
