package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

// OllamaLLM is a minimal client for a local Ollama server's /api/generate.
type OllamaLLM struct {
	http        *http.Client
	baseURL     string
	model       string
	temperature float32
}

// NewOllamaLLM returns a ready-to-use client. hc carries the request timeout.
func NewOllamaLLM(baseURL, model string, temperature float32, hc *http.Client) *OllamaLLM {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &OllamaLLM{
		http:        hc,
		baseURL:     strings.TrimRight(baseURL, "/"),
		model:       model,
		temperature: temperature,
	}
}

type ollamaGenerateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error"`
}

// GenerateResponse posts the prompt with streaming disabled and returns the completion.
func (o *OllamaLLM) GenerateResponse(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(ollamaGenerateRequest{
		Model:   o.model,
		Prompt:  prompt,
		Stream:  false,
		Options: map[string]any{"temperature": o.temperature},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.http.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "ollama: request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", errors.Errorf("ollama: unexpected status %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var out ollamaGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", errors.Wrap(err, "ollama: failed to decode response")
	}
	if out.Error != "" {
		return "", errors.Errorf("ollama: %s", out.Error)
	}
	if strings.TrimSpace(out.Response) == "" {
		return "", errors.New("ollama: no response generated")
	}
	return out.Response, nil
}

// Close is a no-op; the underlying http.Client needs no teardown.
func (o *OllamaLLM) Close() error {
	return nil
}
