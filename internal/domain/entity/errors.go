package entity

import "errors"

var (
	// ErrUnsupportedFileType is returned for uploads that are not .pdf or .txt.
	ErrUnsupportedFileType = errors.New("unsupported file type, use .pdf or .txt")

	// ErrExtractionFailed is returned when a document cannot be parsed or
	// yields no extractable text.
	ErrExtractionFailed = errors.New("text extraction failed")

	// ErrNoContent is returned when an extracted document produces no chunks.
	ErrNoContent = errors.New("document produced no content")

	// ErrInvalidChunkConfig is returned when the chunk overlap is not smaller
	// than the chunk size.
	ErrInvalidChunkConfig = errors.New("chunk overlap must be smaller than chunk size")

	// ErrEmbeddingService is returned when the embedding endpoint fails.
	ErrEmbeddingService = errors.New("embedding service error")

	// ErrCollectionNameTooLong is returned when a sanitized collection name
	// exceeds the 63 character limit.
	ErrCollectionNameTooLong = errors.New("user ID too long for collection name")

	// ErrStoreUnavailable is returned on vector store connection or backend
	// failures.
	ErrStoreUnavailable = errors.New("vector store unavailable")

	// ErrIndexingFailed is returned when chunks could not be indexed.
	ErrIndexingFailed = errors.New("indexing failed")

	// ErrRetrievalFailed is returned when a similarity query fails.
	ErrRetrievalFailed = errors.New("retrieval failed")

	// ErrCleanupFailed is returned when retention cleanup cannot run, for
	// example when the user has no collection yet.
	ErrCleanupFailed = errors.New("cleanup failed")
)
