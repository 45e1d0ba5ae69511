package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MYSTERY2804/kisan-sathi-sahyayak/internal/config"
	"github.com/MYSTERY2804/kisan-sathi-sahyayak/internal/models"
	"github.com/MYSTERY2804/kisan-sathi-sahyayak/internal/service"
)

type fakeSearch struct {
	snippets []models.Snippet
	err      error
}

func (f *fakeSearch) Search(context.Context, string) ([]models.Snippet, error) {
	return f.snippets, f.err
}

type fakeLLM struct {
	answer string
	err    error
	calls  int
	prompt string
}

func (f *fakeLLM) GenerateResponse(_ context.Context, prompt string) (string, error) {
	f.calls++
	f.prompt = prompt
	return f.answer, f.err
}

func newTestApp(search service.SearchClient, llm service.LLM) *fiber.App {
	cfg := config.Default()
	health := NewHealthHandler(cfg.SearchBackend, cfg.ModelBackend, service.ModelName(cfg), nil)
	return NewApp(cfg, service.NewRAGService(search, llm), health)
}

func postJSON(t *testing.T, app *fiber.App, path, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out), "body: %s", raw)
	return resp.StatusCode, out
}

func TestAsk_Success(t *testing.T) {
	search := &fakeSearch{snippets: []models.Snippet{
		{Title: "Rice blast", Content: "Fungal disease of paddy.", URL: "https://icar.example/blast"},
		{Title: "Control", Content: "Tricyclazole 75 WP @ 0.6 g/l."},
	}}
	llm := &fakeLLM{answer: "Spray tricyclazole at tillering."}
	app := newTestApp(search, llm)

	status, body := postJSON(t, app, "/ask", `{
		"question": "How to treat rice blast?",
		"conversation_id": "abc-123",
		"conversation_history": [["Hi", true], ["Namaste!", false]]
	}`)

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Spray tricyclazole at tillering.", body["answer"])
	assert.Equal(t, "abc-123", body["conversation_id"])
	assert.Equal(t, []any{
		map[string]any{"title": "Rice blast", "content": "Fungal disease of paddy.", "url": "https://icar.example/blast"},
		map[string]any{"title": "Control", "content": "Tricyclazole 75 WP @ 0.6 g/l."},
	}, body["sources"])
	assert.Contains(t, llm.prompt, "Previous conversation:\nUser: Hi\nAssistant: Namaste!\n")
}

func TestAsk_NullConversationID(t *testing.T) {
	app := newTestApp(&fakeSearch{}, &fakeLLM{answer: "ok"})

	status, body := postJSON(t, app, "/ask", `{"question": "Best time to plant mustard?"}`)
	require.Equal(t, http.StatusOK, status)

	v, present := body["conversation_id"]
	assert.True(t, present)
	assert.Nil(t, v)
	assert.Equal(t, []any{}, body["sources"])
}

func TestAsk_VersionedAlias(t *testing.T) {
	app := newTestApp(&fakeSearch{}, &fakeLLM{answer: "ok"})

	status, body := postJSON(t, app, "/api/v1/ask", `{"question": "q"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["answer"])
}

func TestAsk_SearchFailure(t *testing.T) {
	llm := &fakeLLM{answer: "unused"}
	app := newTestApp(&fakeSearch{err: errors.New("searxng: unexpected status 502 Bad Gateway")}, llm)

	status, body := postJSON(t, app, "/ask", `{"question": "q"}`)

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Error processing request: search failed: searxng: unexpected status 502 Bad Gateway", body["detail"])
	assert.Equal(t, 0, llm.calls)
}

func TestAsk_ModelFailure(t *testing.T) {
	app := newTestApp(&fakeSearch{}, &fakeLLM{err: errors.New("ollama: request failed")})

	status, body := postJSON(t, app, "/ask", `{"question": "q"}`)

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Error processing request: model failed: ollama: request failed", body["detail"])
}

func TestAsk_BadInput(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantDetail string
	}{
		{name: "not json", body: `question=hi`, wantDetail: "invalid request body"},
		{name: "missing question", body: `{}`, wantDetail: "question is required"},
		{name: "blank question", body: `{"question": "   "}`, wantDetail: "question is required"},
		{name: "bad history", body: `{"question": "q", "conversation_history": [["only message"]]}`, wantDetail: "invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := &fakeLLM{answer: "unused"}
			app := newTestApp(&fakeSearch{}, llm)

			status, body := postJSON(t, app, "/ask", tt.body)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Contains(t, body["detail"], tt.wantDetail)
			assert.Equal(t, 0, llm.calls)
		})
	}
}

func TestCORS_Preflight(t *testing.T) {
	app := newTestApp(&fakeSearch{}, &fakeLLM{answer: "ok"})

	req := httptest.NewRequest(http.MethodOptions, "/ask", nil)
	req.Header.Set(fiber.HeaderOrigin, "http://localhost:3000")
	req.Header.Set(fiber.HeaderAccessControlRequestMethod, http.MethodPost)
	req.Header.Set(fiber.HeaderAccessControlRequestHeaders, "Content-Type, X-Farmer-Id")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
	assert.Contains(t, resp.Header.Get(fiber.HeaderAccessControlAllowMethods), http.MethodPost)
	assert.Equal(t, "Content-Type, X-Farmer-Id", resp.Header.Get(fiber.HeaderAccessControlAllowHeaders))
}

func TestAsk_RequestIDHeader(t *testing.T) {
	app := newTestApp(&fakeSearch{}, &fakeLLM{answer: "ok"})

	req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(`{"question":"q"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))
}
