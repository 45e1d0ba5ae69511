package service

import (
	"context"

	"github.com/MYSTERY2804/kisan-sathi-sahyayak/internal/models"
)

// ---- Search contract -------------------------------------------------------

// SearchClient turns a question into grounding snippets.
// Implementations are pass-through adapters: ranking belongs to the backend
// and the returned order is the backend's order.
type SearchClient interface {
	Search(ctx context.Context, question string) ([]models.Snippet, error)
}

// SnippetRepository exposes vector search over stored snippets.
type SnippetRepository interface {
	// VectorSearch returns the top‑k snippets whose stored embedding is most
	// similar to queryVec, typically via MongoDB Atlas Vector Search.
	VectorSearch(ctx context.Context, queryVec []float32, k int) ([]models.Snippet, error)
}
