package service

import (
	"context"
	"fmt"

	aiplatform "cloud.google.com/go/aiplatform/apiv1"
	"cloud.google.com/go/aiplatform/apiv1/aiplatformpb"
	"github.com/pkg/errors"
	"google.golang.org/api/option"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/MYSTERY2804/kisan-sathi-sahyayak/internal/config"
)

// VertexEmbedder uses a Vertex AI text embedding model (text-embedding-005 by default).
type VertexEmbedder struct {
	client    *aiplatform.PredictionClient
	modelName string
}

// NewVertexEmbedder creates a prediction client for the configured embedding model.
func NewVertexEmbedder(ctx context.Context, cfg config.Config) (*VertexEmbedder, error) {
	opts := []option.ClientOption{
		option.WithEndpoint(fmt.Sprintf("%s-aiplatform.googleapis.com:443", cfg.Location)),
	}
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := aiplatform.NewPredictionClient(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Vertex AI prediction client")
	}

	modelName := fmt.Sprintf("projects/%s/locations/%s/publishers/google/models/%s",
		cfg.ProjectID, cfg.Location, cfg.EmbeddingModel)

	return &VertexEmbedder{
		client:    client,
		modelName: modelName,
	}, nil
}

// Embed generates an embedding vector for the input text
// using task_type = "RETRIEVAL_QUERY" so it aligns with document embeddings.
func (v *VertexEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	instance, err := structpb.NewStruct(map[string]interface{}{
		"content":   text,
		"task_type": "RETRIEVAL_QUERY",
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create instance")
	}

	req := &aiplatformpb.PredictRequest{
		Endpoint:  v.modelName,
		Instances: []*structpb.Value{structpb.NewStructValue(instance)},
	}

	resp, err := v.client.Predict(ctx, req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get prediction")
	}
	if len(resp.Predictions) == 0 {
		return nil, errors.New("no predictions returned")
	}

	return embeddingValues(resp.Predictions[0])
}

// embeddingValues extracts predictions[i].embeddings.values as float32.
func embeddingValues(prediction *structpb.Value) ([]float32, error) {
	embeddings := prediction.GetStructValue().GetFields()["embeddings"].GetStructValue()
	values := embeddings.GetFields()["values"].GetListValue().GetValues()
	if len(values) == 0 {
		return nil, errors.New("prediction has no embedding values")
	}

	result := make([]float32, len(values))
	for i, v := range values {
		result[i] = float32(v.GetNumberValue())
	}
	return result, nil
}

// Close releases the Vertex AI client resources
func (v *VertexEmbedder) Close() error {
	return v.client.Close()
}
