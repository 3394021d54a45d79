package entity

import "time"

// ChunkMetadata is attached to every chunk at index time and stored in the
// vector store payload alongside the chunk text.
type ChunkMetadata struct {
	FileName    string `json:"fileName"`
	UserID      string `json:"userId"`
	UploadedAt  string `json:"uploadedAt"` // RFC3339
	ChunkIndex  int    `json:"chunkIndex"`
	TotalChunks int    `json:"totalChunks"`
}

// NewChunkMetadata builds metadata for one chunk of an upload.
func NewChunkMetadata(fileName, userID string, chunkIndex, totalChunks int, uploadedAt time.Time) ChunkMetadata {
	return ChunkMetadata{
		FileName:    fileName,
		UserID:      userID,
		UploadedAt:  uploadedAt.UTC().Format(time.RFC3339),
		ChunkIndex:  chunkIndex,
		TotalChunks: totalChunks,
	}
}

// ScoredChunk is a chunk returned by a similarity query, most similar first.
// Metadata is nil when the stored payload was missing or unreadable.
type ScoredChunk struct {
	Text     string
	Score    float32
	Metadata *ChunkMetadata
}
