package service

import (
	"context"
	"strings"
	"time"

	"cloud.google.com/go/vertexai/genai"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"

	"github.com/MYSTERY2804/kisan-sathi-sahyayak/internal/config"
)

// VertexLLM implements the LLM interface using Google's Vertex AI
type VertexLLM struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	timeout time.Duration
}

// NewVertexLLM creates a new Vertex AI LLM client
func NewVertexLLM(ctx context.Context, cfg config.Config) (*VertexLLM, error) {
	// Credentials come from the service account file when given, ADC otherwise.
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := genai.NewClient(ctx, cfg.ProjectID, cfg.Location, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Vertex AI client")
	}

	name := ModelName(cfg)
	model := client.GenerativeModel(name)
	model.SetTemperature(cfg.ModelTemperature)
	model.SetTopP(0.8)
	model.SetTopK(40)
	if cfg.ModelMaxTokens > 0 {
		model.SetMaxOutputTokens(int32(cfg.ModelMaxTokens))
	}

	log.Info().
		Str("model", name).
		Str("project", cfg.ProjectID).
		Str("location", cfg.Location).
		Msg("Vertex AI model initialized")

	return &VertexLLM{
		client:  client,
		model:   model,
		timeout: cfg.ModelTimeout,
	}, nil
}

// GenerateResponse generates a response using the Vertex AI model
func (l *VertexLLM) GenerateResponse(ctx context.Context, prompt string) (string, error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	resp, err := l.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", errors.Wrap(err, "vertex: failed to generate response")
	}

	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
		if sb.Len() > 0 {
			break
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("vertex: no response generated")
	}
	return sb.String(), nil
}

// Close closes the Vertex AI client
func (l *VertexLLM) Close() error {
	return l.client.Close()
}
