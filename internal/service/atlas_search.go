package service

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/MYSTERY2804/kisan-sathi-sahyayak/internal/models"
)

// AtlasSearch embeds the question and delegates similarity search to
// MongoDB Atlas Vector Search through a SnippetRepository.
type AtlasSearch struct {
	repo     SnippetRepository
	embedder Embedder
	k        int
}

// NewAtlasSearch wires the repository and embedder.
func NewAtlasSearch(repo SnippetRepository, embedder Embedder, k int) *AtlasSearch {
	return &AtlasSearch{repo: repo, embedder: embedder, k: k}
}

// Search embeds the question and calls the repository's VectorSearch method.
func (s *AtlasSearch) Search(ctx context.Context, question string) ([]models.Snippet, error) {
	vec, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate embedding")
	}
	log.Debug().Int("dims", len(vec)).Int("k", s.k).Msg("query embedded")

	snippets, err := s.repo.VectorSearch(ctx, vec, s.k)
	if err != nil {
		return nil, errors.Wrap(err, "vector search failed")
	}
	if snippets == nil {
		snippets = []models.Snippet{}
	}

	log.Debug().Int("results", len(snippets)).Msg("atlas search done")
	return snippets, nil
}
