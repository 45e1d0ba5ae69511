package repository

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/MYSTERY2804/kisan-sathi-sahyayak/internal/models"
)

// SnippetMongo satisfies service.SnippetRepository with Atlas Vector Search.
type SnippetMongo struct {
	col       *mongo.Collection // one doc per snippet, embedding pre-computed by the ingest job
	vectorIdx string            // name of Atlas Vector Search index
}

// NewSnippetRepository wires the collection.
//
// Expected schema:
//
//	snippets
//	  { _id: ObjectId, title: string, content: string, url: string, embedding: []float32 }
func NewSnippetRepository(db *mongo.Database, collection, vectorIdx string) *SnippetMongo {
	return &SnippetMongo{
		col:       db.Collection(collection),
		vectorIdx: vectorIdx,
	}
}

// VectorSearch performs a K‑NN search across snippet embeddings.
// Documents come back in the index's score order.
func (r *SnippetMongo) VectorSearch(ctx context.Context, queryVec []float32, k int) ([]models.Snippet, error) {
	pipeline := VectorSearchPipeline(r.vectorIdx, queryVec, k)

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, errors.Wrapf(err, "aggregate on %s", r.col.Name())
	}
	defer cur.Close(ctx)

	snippets := []models.Snippet{}
	if err := cur.All(ctx, &snippets); err != nil {
		return nil, errors.Wrap(err, "failed to decode search results")
	}

	log.Debug().
		Str("collection", r.col.Name()).
		Int("k", k).
		Int("results", len(snippets)).
		Msg("[Snippet Repository] vector search")
	return snippets, nil
}

// VectorSearchPipeline builds the $vectorSearch + $project stages.
func VectorSearchPipeline(index string, queryVec []float32, k int) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$vectorSearch", Value: bson.D{
			{Key: "index", Value: index},
			{Key: "queryVector", Value: queryVec},
			{Key: "path", Value: "embedding"},
			{Key: "numCandidates", Value: k * 10},
			{Key: "limit", Value: k},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "title", Value: 1},
			{Key: "content", Value: 1},
			{Key: "url", Value: 1},
		}}},
	}
}
