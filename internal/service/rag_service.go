package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/MYSTERY2804/kisan-sathi-sahyayak/internal/models"
)

// Downstream stages named in DownstreamError.
const (
	StageSearch = "search"
	StageModel  = "model"
)

// DownstreamError reports which outbound call failed.
type DownstreamError struct {
	Stage string
	Err   error
}

func (e *DownstreamError) Error() string {
	return e.Stage + " failed: " + e.Err.Error()
}

func (e *DownstreamError) Unwrap() error {
	return e.Err
}

// RAGService answers a question: search → prompt → model.
// It holds only immutable collaborators and is safe for concurrent use.
type RAGService struct {
	search SearchClient
	llm    LLM
}

func NewRAGService(search SearchClient, llm LLM) *RAGService {
	return &RAGService{
		search: search,
		llm:    llm,
	}
}

// Answer runs one request. A search failure aborts before the model is called.
// Sources are exactly the search results; ConversationID is echoed unchanged.
func (s *RAGService) Answer(ctx context.Context, req models.AskRequest) (*models.AskResponse, error) {
	logger := log.Ctx(ctx).With().
		Int("question_len", len(req.Question)).
		Int("history_turns", len(req.ConversationHistory)).
		Logger()

	// 1. Retrieve snippets
	start := time.Now()
	snippets, err := s.Sources(ctx, req.Question)
	if err != nil {
		logger.Error().Err(err).Msg("search failed")
		return nil, err
	}
	logger.Debug().Int("snippets", len(snippets)).Dur("took", time.Since(start)).Msg("search done")

	// 2. Assemble prompt
	prompt := BuildPrompt(req.Question, snippets, req.ConversationHistory)
	if e := logger.Debug(); e.Enabled() {
		e.Int("prompt_chars", len(prompt)).Int("prompt_tokens", CountTokens(prompt)).Msg("prompt built")
	}

	// 3. Generate answer
	start = time.Now()
	answer, err := s.llm.GenerateResponse(ctx, prompt)
	if err != nil {
		logger.Error().Err(err).Msg("model call failed")
		return nil, &DownstreamError{Stage: StageModel, Err: err}
	}
	logger.Info().
		Int("snippets", len(snippets)).
		Int("answer_len", len(answer)).
		Dur("model_took", time.Since(start)).
		Msg("question answered")

	return &models.AskResponse{
		Answer:         answer,
		Sources:        snippets,
		ConversationID: req.ConversationID,
	}, nil
}

// Sources runs only the retrieval stage. The result is never nil.
func (s *RAGService) Sources(ctx context.Context, question string) ([]models.Snippet, error) {
	snippets, err := s.search.Search(ctx, question)
	if err != nil {
		return nil, &DownstreamError{Stage: StageSearch, Err: err}
	}
	if snippets == nil {
		snippets = []models.Snippet{}
	}
	return snippets, nil
}
