package qdrant

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	qdrantclient "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"

	"promptlab-api/internal/domain/entity"
)

// maxCollectionNameLen is the longest collection name the store accepts.
const maxCollectionNameLen = 63

// scrollPageSize bounds how many points one retention scan page fetches.
const scrollPageSize = 256

var collectionNameCleaner = regexp.MustCompile(`[^a-zA-Z0-9-_]`)

// Embedder converts texts into vectors. The store uses it both when indexing
// chunks and when embedding the question at query time.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Store is a per-user collection vector store backed by Qdrant. Each user
// gets one isolated collection using cosine similarity; chunks are stored as
// points carrying the raw text and upload metadata in their payload.
type Store struct {
	collections qdrantclient.CollectionsClient
	points      qdrantclient.PointsClient
	embedder    Embedder
	dimension   uint64

	now func() time.Time
}

func NewStore(conn grpc.ClientConnInterface, embedder Embedder, dimension int) *Store {
	return &Store{
		collections: qdrantclient.NewCollectionsClient(conn),
		points:      qdrantclient.NewPointsClient(conn),
		embedder:    embedder,
		dimension:   uint64(dimension),
		now:         time.Now,
	}
}

// SanitizeCollectionName derives the user's collection name: keep letters,
// digits, hyphen and underscore, replace everything else with underscore,
// prefix with "user_". Never truncates; over-long names are rejected.
func (s *Store) SanitizeCollectionName(userID string) (string, error) {
	name := "user_" + collectionNameCleaner.ReplaceAllString(userID, "_")
	if len(name) > maxCollectionNameLen {
		return "", entity.ErrCollectionNameTooLong
	}
	return name, nil
}

// EnsureCollection creates the collection with cosine similarity if missing.
func (s *Store) EnsureCollection(ctx context.Context, name string) error {
	exists, err := s.collectionExists(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	_, err = s.collections.Create(ctx, &qdrantclient.CreateCollection{
		CollectionName: name,
		VectorsConfig: &qdrantclient.VectorsConfig{
			Config: &qdrantclient.VectorsConfig_Params{
				Params: &qdrantclient.VectorParams{
					Size:     s.dimension,
					Distance: qdrantclient.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("%w: failed to create collection %s: %v", entity.ErrStoreUnavailable, name, err)
	}
	return nil
}

// AddDocuments embeds the chunks and upserts them with their metadata into
// the collection. The upsert waits for the write so an immediately following
// query observes the new chunks. One batch call; on error the caller must
// treat the whole document as not indexed.
func (s *Store) AddDocuments(ctx context.Context, collection string, chunks []string, metadatas []entity.ChunkMetadata, userID string) error {
	if len(chunks) != len(metadatas) {
		return fmt.Errorf("chunks and metadatas length mismatch: %d != %d", len(chunks), len(metadatas))
	}
	if len(chunks) == 0 {
		return nil
	}

	vectors, err := s.embedder.EmbedBatch(ctx, chunks)
	if err != nil {
		return err
	}

	timestamp := s.now().UnixNano()
	points := make([]*qdrantclient.PointStruct, len(chunks))
	for i, chunk := range chunks {
		docID := chunkID(userID, timestamp, i)
		points[i] = &qdrantclient.PointStruct{
			Id:      pointID(docID),
			Vectors: pointVector(vectors[i]),
			Payload: chunkPayload(docID, chunk, metadatas[i]),
		}
	}

	wait := true
	_, err = s.points.Upsert(ctx, &qdrantclient.UpsertPoints{
		CollectionName: collection,
		Wait:           &wait,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("%w: failed to upsert points: %v", entity.ErrStoreUnavailable, err)
	}
	return nil
}

// QueryDocuments embeds the question and returns the k nearest chunks by
// cosine similarity, most similar first.
func (s *Store) QueryDocuments(ctx context.Context, collection, question string, k int) ([]entity.ScoredChunk, error) {
	vectors, err := s.embedder.EmbedBatch(ctx, []string{question})
	if err != nil {
		return nil, err
	}

	resp, err := s.points.Search(ctx, &qdrantclient.SearchPoints{
		CollectionName: collection,
		Vector:         vectors[0],
		Limit:          uint64(k),
		WithPayload: &qdrantclient.WithPayloadSelector{
			SelectorOptions: &qdrantclient.WithPayloadSelector_Enable{Enable: true},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: search failed: %v", entity.ErrStoreUnavailable, err)
	}

	results := make([]entity.ScoredChunk, 0, len(resp.GetResult()))
	for _, point := range resp.GetResult() {
		results = append(results, scoredChunk(point.GetPayload(), point.GetScore()))
	}
	return results, nil
}

// DeleteOldDocuments scans the user's collection and deletes, in one batch,
// every chunk uploaded strictly before now minus olderThanDays. Chunks whose
// uploadedAt is missing or unparseable are left alone.
func (s *Store) DeleteOldDocuments(ctx context.Context, userID string, olderThanDays int) (int, error) {
	name, err := s.SanitizeCollectionName(userID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", entity.ErrCleanupFailed, err)
	}

	exists, err := s.collectionExists(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", entity.ErrCleanupFailed, err)
	}
	if !exists {
		return 0, fmt.Errorf("%w: user %s has no collection", entity.ErrCleanupFailed, userID)
	}

	cutoff := s.now().AddDate(0, 0, -olderThanDays)

	var toDelete []*qdrantclient.PointId
	limit := uint32(scrollPageSize)
	var offset *qdrantclient.PointId
	for {
		resp, err := s.points.Scroll(ctx, &qdrantclient.ScrollPoints{
			CollectionName: name,
			Limit:          &limit,
			Offset:         offset,
			WithPayload: &qdrantclient.WithPayloadSelector{
				SelectorOptions: &qdrantclient.WithPayloadSelector_Enable{Enable: true},
			},
		})
		if err != nil {
			return 0, fmt.Errorf("%w: scroll failed: %v", entity.ErrCleanupFailed, err)
		}

		for _, point := range resp.GetResult() {
			if uploadedBefore(payloadString(point.GetPayload(), "uploadedAt"), cutoff) {
				toDelete = append(toDelete, point.GetId())
			}
		}

		offset = resp.GetNextPageOffset()
		if offset == nil || len(resp.GetResult()) == 0 {
			break
		}
	}

	if len(toDelete) == 0 {
		return 0, nil
	}

	wait := true
	_, err = s.points.Delete(ctx, &qdrantclient.DeletePoints{
		CollectionName: name,
		Wait:           &wait,
		Points: &qdrantclient.PointsSelector{
			PointsSelectorOneOf: &qdrantclient.PointsSelector_Points{
				Points: &qdrantclient.PointsIdsList{Ids: toDelete},
			},
		},
	})
	if err != nil {
		return 0, fmt.Errorf("%w: delete failed: %v", entity.ErrCleanupFailed, err)
	}
	return len(toDelete), nil
}

func (s *Store) collectionExists(ctx context.Context, name string) (bool, error) {
	resp, err := s.collections.List(ctx, &qdrantclient.ListCollectionsRequest{})
	if err != nil {
		return false, fmt.Errorf("%w: failed to list collections: %v", entity.ErrStoreUnavailable, err)
	}
	for _, col := range resp.GetCollections() {
		if col.GetName() == name {
			return true, nil
		}
	}
	return false, nil
}

// chunkID builds the logical chunk identifier. The timestamp is nanoseconds
// so two uploads by the same user cannot collide at millisecond granularity.
func chunkID(userID string, timestamp int64, chunkIndex int) string {
	return fmt.Sprintf("%s_%d_chunk_%d", userID, timestamp, chunkIndex)
}

// pointID maps a logical chunk ID onto the UUID form Qdrant requires.
// Deterministic, so the same logical ID always addresses the same point.
func pointID(docID string) *qdrantclient.PointId {
	return &qdrantclient.PointId{
		PointIdOptions: &qdrantclient.PointId_Uuid{
			Uuid: uuid.NewSHA1(uuid.NameSpaceOID, []byte(docID)).String(),
		},
	}
}

func pointVector(vector []float32) *qdrantclient.Vectors {
	return &qdrantclient.Vectors{
		VectorsOptions: &qdrantclient.Vectors_Vector{
			Vector: &qdrantclient.Vector{Data: vector},
		},
	}
}

func chunkPayload(docID, text string, meta entity.ChunkMetadata) map[string]*qdrantclient.Value {
	return map[string]*qdrantclient.Value{
		"docId":       stringValue(docID),
		"text":        stringValue(text),
		"fileName":    stringValue(meta.FileName),
		"userId":      stringValue(meta.UserID),
		"uploadedAt":  stringValue(meta.UploadedAt),
		"chunkIndex":  integerValue(int64(meta.ChunkIndex)),
		"totalChunks": integerValue(int64(meta.TotalChunks)),
	}
}

// scoredChunk rebuilds a chunk from a point payload. A payload without a file
// name yields nil metadata; the pipeline drops such entries from sources.
func scoredChunk(payload map[string]*qdrantclient.Value, score float32) entity.ScoredChunk {
	chunk := entity.ScoredChunk{
		Text:  payloadString(payload, "text"),
		Score: score,
	}
	if _, ok := payload["fileName"]; !ok {
		return chunk
	}
	chunk.Metadata = &entity.ChunkMetadata{
		FileName:    payloadString(payload, "fileName"),
		UserID:      payloadString(payload, "userId"),
		UploadedAt:  payloadString(payload, "uploadedAt"),
		ChunkIndex:  int(payloadInteger(payload, "chunkIndex")),
		TotalChunks: int(payloadInteger(payload, "totalChunks")),
	}
	return chunk
}

// uploadedBefore reports whether the timestamp parses and is strictly older
// than the cutoff. Ambiguous data is never considered expired.
func uploadedBefore(uploadedAt string, cutoff time.Time) bool {
	if uploadedAt == "" {
		return false
	}
	t, err := time.Parse(time.RFC3339, uploadedAt)
	if err != nil {
		return false
	}
	return t.Before(cutoff)
}

func stringValue(s string) *qdrantclient.Value {
	return &qdrantclient.Value{Kind: &qdrantclient.Value_StringValue{StringValue: s}}
}

func integerValue(i int64) *qdrantclient.Value {
	return &qdrantclient.Value{Kind: &qdrantclient.Value_IntegerValue{IntegerValue: i}}
}

func payloadString(payload map[string]*qdrantclient.Value, key string) string {
	return payload[key].GetStringValue()
}

func payloadInteger(payload map[string]*qdrantclient.Value, key string) int64 {
	return payload[key].GetIntegerValue()
}
