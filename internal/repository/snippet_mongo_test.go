package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestVectorSearchPipeline(t *testing.T) {
	vec := []float32{0.1, 0.2}
	p := VectorSearchPipeline("snippet_vector_index", vec, 5)
	require.Len(t, p, 2)

	search := p[0][0]
	assert.Equal(t, "$vectorSearch", search.Key)
	stage, ok := search.Value.(bson.D)
	require.True(t, ok)
	assert.Equal(t, bson.D{
		{Key: "index", Value: "snippet_vector_index"},
		{Key: "queryVector", Value: vec},
		{Key: "path", Value: "embedding"},
		{Key: "numCandidates", Value: 50},
		{Key: "limit", Value: 5},
	}, stage)

	project := p[1][0]
	assert.Equal(t, "$project", project.Key)
	fields, ok := project.Value.(bson.D)
	require.True(t, ok)
	assert.Equal(t, "_id", fields[0].Key)
	assert.Equal(t, 0, fields[0].Value)
}
