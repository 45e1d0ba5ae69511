package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/MYSTERY2804/kisan-sathi-sahyayak/internal/models"
)

// SearxngOptions are the optional query parameters forwarded to SearXNG.
type SearxngOptions struct {
	Categories string
	Language   string
	Engines    string
	MaxResults int
}

// SearxngSearch queries a SearXNG instance through its JSON API.
type SearxngSearch struct {
	http    *http.Client
	baseURL string
	opts    SearxngOptions
}

// NewSearxngSearch returns a client for the instance at baseURL. hc carries the timeout.
func NewSearxngSearch(baseURL string, opts SearxngOptions, hc *http.Client) *SearxngSearch {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &SearxngSearch{
		http:    hc,
		baseURL: strings.TrimRight(baseURL, "/"),
		opts:    opts,
	}
}

type searxngResponse struct {
	Results []struct {
		Title   string `json:"title"`
		Content string `json:"content"`
		URL     string `json:"url"`
	} `json:"results"`
}

// Search sends the raw question and keeps the first MaxResults hits in order.
func (s *SearxngSearch) Search(ctx context.Context, question string) ([]models.Snippet, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/search", nil)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("q", question)
	q.Set("format", "json")
	if s.opts.Categories != "" {
		q.Set("categories", s.opts.Categories)
	}
	if s.opts.Language != "" {
		q.Set("language", s.opts.Language)
	}
	if s.opts.Engines != "" {
		q.Set("engines", s.opts.Engines)
	}
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Accept", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "searxng: request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, errors.Errorf("searxng: unexpected status %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var out searxngResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, errors.Wrap(err, "searxng: failed to decode response")
	}

	n := len(out.Results)
	if s.opts.MaxResults > 0 && n > s.opts.MaxResults {
		n = s.opts.MaxResults
	}
	snippets := make([]models.Snippet, 0, n)
	for _, r := range out.Results[:n] {
		snippets = append(snippets, models.Snippet{
			Title:   r.Title,
			Content: r.Content,
			URL:     r.URL,
		})
	}

	log.Debug().Int("results", len(out.Results)).Int("kept", len(snippets)).Msg("searxng search done")
	return snippets, nil
}
