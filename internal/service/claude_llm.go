package service

import (
	"context"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/MYSTERY2804/kisan-sathi-sahyayak/internal/config"
)

// ClaudeLLM implements LLM with the Anthropic Messages API.
type ClaudeLLM struct {
	client    anthropic.Client
	model     string
	temp      float32
	maxTokens int
	timeout   time.Duration
}

// NewClaudeLLM creates an Anthropic client from the configured API key.
func NewClaudeLLM(cfg config.Config) *ClaudeLLM {
	maxTokens := cfg.ModelMaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	name := ModelName(cfg)

	log.Info().Str("model", name).Int("max_tokens", maxTokens).Msg("Claude model initialized")

	return &ClaudeLLM{
		client:    anthropic.NewClient(option.WithAPIKey(cfg.AnthropicAPIKey)),
		model:     name,
		temp:      cfg.ModelTemperature,
		maxTokens: maxTokens,
		timeout:   cfg.ModelTimeout,
	}
}

// GenerateResponse sends the prompt as one user message and joins the text blocks.
func (c *ClaudeLLM) GenerateResponse(ctx context.Context, prompt string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(c.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if c.temp > 0 {
		params.Temperature = anthropic.Float(float64(c.temp))
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", errors.Wrap(err, "claude: API call failed")
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("claude: no response generated")
	}
	return sb.String(), nil
}

// Close is a no-op for the HTTP-based Anthropic client.
func (c *ClaudeLLM) Close() error {
	return nil
}
