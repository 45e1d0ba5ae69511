package service

import (
	"context"
	"fmt"
)

// mockLLM answers without any model server, for local runs and demos.
type mockLLM struct{}

// NewMockLLM returns an LLM that echoes a placeholder answer.
func NewMockLLM() ClosableLLM {
	return mockLLM{}
}

func (mockLLM) GenerateResponse(_ context.Context, prompt string) (string, error) {
	return fmt.Sprintf("<placeholder answer: model backend is mock, prompt had %d characters>", len(prompt)), nil
}

func (mockLLM) Close() error { return nil }
