package service

import "context"

// Embedder defines the interface for text embedding services
type Embedder interface {
	// Embed converts a text string into a vector embedding
	Embed(ctx context.Context, text string) ([]float32, error)
}
