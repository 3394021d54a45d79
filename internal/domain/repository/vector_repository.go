package repository

import (
	"context"

	"promptlab-api/internal/domain/entity"
)

// VectorRepository is the per-user collection vector store the pipeline
// indexes into and retrieves from. Collections are resolved by name on every
// call; the backing store owns handle caching and concurrency.
type VectorRepository interface {
	// SanitizeCollectionName derives the collection name for a user ID.
	SanitizeCollectionName(userID string) (string, error)

	// EnsureCollection creates the named collection with cosine similarity if
	// it does not exist yet. Idempotent.
	EnsureCollection(ctx context.Context, name string) error

	// AddDocuments indexes chunks with their metadata into the collection.
	// All-or-nothing from the caller's perspective: on error the document must
	// be treated as not indexed.
	AddDocuments(ctx context.Context, collection string, chunks []string, metadatas []entity.ChunkMetadata, userID string) error

	// QueryDocuments embeds the question and returns the k most similar
	// chunks, most similar first.
	QueryDocuments(ctx context.Context, collection, question string, k int) ([]entity.ScoredChunk, error)

	// DeleteOldDocuments removes every chunk of the user whose uploadedAt is
	// strictly older than the cutoff and returns the number deleted. Chunks
	// with missing or unparseable timestamps are never deleted.
	DeleteOldDocuments(ctx context.Context, userID string, olderThanDays int) (int, error)
}
