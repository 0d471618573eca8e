package knowledge

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"amplified-be/internal/apperror"
	"amplified-be/internal/entity"
	"amplified-be/internal/repository/contract"
	"amplified-be/pkg/embedding"
	"amplified-be/pkg/utils"
)

const (
	DefaultChunkSize    = 2000
	DefaultChunkOverlap = 200
	DefaultSearchLimit  = 5
)

// Source is the unit the indexer ingests: any owned entity whose text is
// worth retrieving later. The title is denormalized onto every chunk so
// search results can cite their origin without a join.
type Source struct {
	EntityId   uuid.UUID
	EntityType string
	UserId     uuid.UUID
	Title      string
	Content    string
}

// ChunkStore is the slice of the chunk repository the indexer needs. The
// GORM repository satisfies it, tests pass fakes.
type ChunkStore interface {
	CreateBulk(ctx context.Context, chunks []*entity.KnowledgeChunk) error
	DeleteByEntityId(ctx context.Context, entityId uuid.UUID) error
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, userId uuid.UUID, threshold float64) ([]*contract.ScoredChunk, error)
}

// Indexer turns sources into embedded chunks and answers similarity
// queries over them.
type Indexer struct {
	embedder     embedding.EmbeddingProvider
	chunkSize    int
	chunkOverlap int
}

func NewIndexer(embedder embedding.EmbeddingProvider) *Indexer {
	return &Indexer{
		embedder:     embedder,
		chunkSize:    DefaultChunkSize,
		chunkOverlap: DefaultChunkOverlap,
	}
}

// BuildChunks splits and embeds a source. Every chunk must embed
// successfully before anything is returned, so a partial failure never
// produces a half-indexed source.
func (ix *Indexer) BuildChunks(ctx context.Context, src Source) ([]*entity.KnowledgeChunk, error) {
	pieces := utils.SplitText(src.Content, ix.chunkSize, ix.chunkOverlap)

	chunks := make([]*entity.KnowledgeChunk, 0, len(pieces))
	for i, piece := range pieces {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		resp, err := ix.embedder.Generate(piece, embedding.TaskRetrievalDocument)
		if err != nil {
			return nil, apperror.Provider(fmt.Sprintf("embedding chunk %d of %s %s failed", i, src.EntityType, src.EntityId), err)
		}
		chunks = append(chunks, &entity.KnowledgeChunk{
			Id:          uuid.New(),
			EntityId:    src.EntityId,
			EntityType:  src.EntityType,
			UserId:      src.UserId,
			SourceTitle: src.Title,
			ChunkIndex:  i,
			Content:     piece,
			Embedding:   resp.Embedding.Values,
		})
	}
	return chunks, nil
}

// Reindex replaces a source's chunks wholesale. Callers run it inside a
// transaction so readers never observe the delete without the insert.
func (ix *Indexer) Reindex(ctx context.Context, store ChunkStore, entityId uuid.UUID, chunks []*entity.KnowledgeChunk) error {
	if err := store.DeleteByEntityId(ctx, entityId); err != nil {
		return err
	}
	return store.CreateBulk(ctx, chunks)
}

// Search embeds the query and returns the best match per source entity,
// ranked by similarity. Returns an empty slice, never nil, when nothing
// matches.
func (ix *Indexer) Search(ctx context.Context, store ChunkStore, userId uuid.UUID, query string, limit int) ([]*contract.ScoredChunk, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	resp, err := ix.embedder.Generate(query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, apperror.Provider("embedding search query failed", err)
	}

	// Overfetch so per-entity dedupe still fills the limit.
	raw, err := store.SearchSimilarWithScore(ctx, resp.Embedding.Values, limit*3, userId, 0)
	if err != nil {
		return nil, err
	}

	// Keep only the best chunk per entity. Results arrive ordered by
	// similarity, so first hit wins.
	seen := make(map[uuid.UUID]bool)
	matches := make([]*contract.ScoredChunk, 0, limit)
	for _, sc := range raw {
		if seen[sc.Chunk.EntityId] {
			continue
		}
		seen[sc.Chunk.EntityId] = true
		matches = append(matches, sc)
		if len(matches) >= limit {
			break
		}
	}
	return matches, nil
}
