package main

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/MYSTERY2804/kisan-sathi-sahyayak/internal/config"
	"github.com/MYSTERY2804/kisan-sathi-sahyayak/internal/database"
	"github.com/MYSTERY2804/kisan-sathi-sahyayak/internal/repository"
	"github.com/MYSTERY2804/kisan-sathi-sahyayak/internal/service"
)

// deps are the long-lived clients shared by every request.
type deps struct {
	rag     *service.RAGService
	mongo   *mongo.Client
	closers []func() error
}

// Close releases clients in reverse construction order.
func (d *deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			log.Warn().Err(err).Msg("close failed")
		}
	}
}

func buildDeps(ctx context.Context, cfg config.Config) (*deps, error) {
	d := &deps{}

	search, err := buildSearch(ctx, cfg, d)
	if err != nil {
		d.Close()
		return nil, err
	}

	llm, err := service.NewLLM(ctx, cfg)
	if err != nil {
		d.Close()
		return nil, errors.Wrap(err, "failed to initialize model backend")
	}
	d.closers = append(d.closers, llm.Close)

	d.rag = service.NewRAGService(search, llm)
	log.Info().
		Str("search", cfg.SearchBackend).
		Str("model_backend", cfg.ModelBackend).
		Str("model", service.ModelName(cfg)).
		Msg("pipeline ready")
	return d, nil
}

func buildSearch(ctx context.Context, cfg config.Config, d *deps) (service.SearchClient, error) {
	switch cfg.SearchBackend {
	case config.SearchSearxng:
		return service.NewSearxngSearch(cfg.SearxngURL, service.SearxngOptions{
			Categories: cfg.SearxngCategories,
			Language:   cfg.SearxngLanguage,
			Engines:    cfg.SearxngEngines,
			MaxResults: cfg.SearchMaxResults,
		}, &http.Client{Timeout: cfg.SearchTimeout}), nil

	case config.SearchAtlas:
		client, err := database.NewMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, errors.Wrap(err, "failed to connect to MongoDB")
		}
		d.mongo = client
		d.closers = append(d.closers, func() error { return client.Disconnect(context.Background()) })
		log.Info().Str("db", cfg.DBName).Str("collection", cfg.SnippetCollection).Msg("connected to MongoDB")

		embedder, err := service.NewVertexEmbedder(ctx, cfg)
		if err != nil {
			return nil, errors.Wrap(err, "failed to initialize Vertex AI embedder")
		}
		d.closers = append(d.closers, embedder.Close)

		repo := repository.NewSnippetRepository(client.Database(cfg.DBName), cfg.SnippetCollection, cfg.VectorIndex)
		return service.NewAtlasSearch(repo, embedder, cfg.SearchMaxResults), nil

	default:
		return nil, errors.Errorf("unknown search backend %q", cfg.SearchBackend)
	}
}
