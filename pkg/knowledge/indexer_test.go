package knowledge

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"amplified-be/internal/apperror"
	"amplified-be/internal/entity"
	"amplified-be/internal/repository/contract"
	"amplified-be/pkg/embedding"
)

type fakeEmbedder struct {
	calls    int
	failFrom int // fail on the Nth call (1-based), 0 = never
}

func (f *fakeEmbedder) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	f.calls++
	if f.failFrom > 0 && f.calls >= f.failFrom {
		return nil, errors.New("embedding backend down")
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{0.1, 0.2}},
	}, nil
}

type fakeChunkStore struct {
	created   []*entity.KnowledgeChunk
	deleted   []uuid.UUID
	matches   []*contract.ScoredChunk
	createErr error
}

func (f *fakeChunkStore) CreateBulk(ctx context.Context, chunks []*entity.KnowledgeChunk) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, chunks...)
	return nil
}

func (f *fakeChunkStore) DeleteByEntityId(ctx context.Context, entityId uuid.UUID) error {
	f.deleted = append(f.deleted, entityId)
	return nil
}

func (f *fakeChunkStore) SearchSimilarWithScore(ctx context.Context, emb []float32, limit int, userId uuid.UUID, threshold float64) ([]*contract.ScoredChunk, error) {
	return f.matches, nil
}

func testSource(content string) Source {
	return Source{
		EntityId:   uuid.New(),
		EntityType: entity.EntityTypeDocument,
		UserId:     uuid.New(),
		Title:      "runbook",
		Content:    content,
	}
}

func TestBuildChunksSplitsAndEmbeds(t *testing.T) {
	ix := NewIndexer(&fakeEmbedder{})
	src := testSource(strings.Repeat("x", 4500))

	chunks, err := ix.BuildChunks(context.Background(), src)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	for i, c := range chunks {
		assert.Equal(t, src.EntityId, c.EntityId)
		assert.Equal(t, entity.EntityTypeDocument, c.EntityType)
		assert.Equal(t, src.UserId, c.UserId)
		assert.Equal(t, "runbook", c.SourceTitle)
		assert.Equal(t, i, c.ChunkIndex)
		assert.NotEmpty(t, c.Embedding)
	}
}

func TestBuildChunksAllOrNothing(t *testing.T) {
	// Second chunk fails to embed, no chunks come back at all.
	ix := NewIndexer(&fakeEmbedder{failFrom: 2})
	src := testSource(strings.Repeat("x", 4500))

	chunks, err := ix.BuildChunks(context.Background(), src)
	require.Error(t, err)
	assert.Nil(t, chunks)
	assert.Equal(t, apperror.KindProvider, apperror.KindOf(err))
}

func TestReindexDeletesBeforeInsert(t *testing.T) {
	ix := NewIndexer(&fakeEmbedder{})
	store := &fakeChunkStore{}
	src := testSource("short doc")

	chunks, err := ix.BuildChunks(context.Background(), src)
	require.NoError(t, err)

	err = ix.Reindex(context.Background(), store, src.EntityId, chunks)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{src.EntityId}, store.deleted)
	assert.Len(t, store.created, len(chunks))
}

func TestSearchDeduplicatesByEntity(t *testing.T) {
	entA := uuid.New()
	entB := uuid.New()
	store := &fakeChunkStore{
		matches: []*contract.ScoredChunk{
			{Chunk: &entity.KnowledgeChunk{EntityId: entA, SourceTitle: "A", Content: "best a"}, Similarity: 0.95},
			{Chunk: &entity.KnowledgeChunk{EntityId: entA, SourceTitle: "A", Content: "worse a"}, Similarity: 0.90},
			{Chunk: &entity.KnowledgeChunk{EntityId: entB, SourceTitle: "B", Content: "best b"}, Similarity: 0.85},
		},
	}
	ix := NewIndexer(&fakeEmbedder{})

	matches, err := ix.Search(context.Background(), store, uuid.New(), "how do we deploy", 5)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "best a", matches[0].Chunk.Content)
	assert.Equal(t, "best b", matches[1].Chunk.Content)
}

func TestSearchEmptyResultIsEmptySlice(t *testing.T) {
	ix := NewIndexer(&fakeEmbedder{})
	store := &fakeChunkStore{}

	matches, err := ix.Search(context.Background(), store, uuid.New(), "anything", 5)
	require.NoError(t, err)
	assert.NotNil(t, matches)
	assert.Empty(t, matches)
}
