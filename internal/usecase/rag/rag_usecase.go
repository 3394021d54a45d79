package rag

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"promptlab-api/internal/domain/entity"
	"promptlab-api/internal/domain/repository"
)

// DefaultRetentionDays is applied when cleanup is requested without a
// positive age threshold.
const DefaultRetentionDays = 30

type ChatService interface {
	GenerateAnswer(ctx context.Context, question, docContext string) entity.Answer
}

// RagUsecase runs the retrieval-augmented query pipeline: extract, chunk,
// index, retrieve, generate, format. One invocation is one independent,
// sequential pipeline run; shared state lives only in the external services.
type RagUsecase struct {
	vectorRepo  repository.VectorRepository
	chatService ChatService
	extractor   *TextExtractor
	chunker     *Chunker
	topK        int

	now func() time.Time
}

func NewRagUsecase(
	vectorRepo repository.VectorRepository,
	chatService ChatService,
	chunkSize, chunkOverlap int,
	topK int,
) (*RagUsecase, error) {
	chunker, err := NewChunker(chunkSize, chunkOverlap)
	if err != nil {
		return nil, err
	}
	return &RagUsecase{
		vectorRepo:  vectorRepo,
		chatService: chatService,
		extractor:   NewTextExtractor(),
		chunker:     chunker,
		topK:        topK,
		now:         time.Now,
	}, nil
}

// pipelineState enumerates the stages of one query run. Failures from any
// stage land in stateFailed; generation is the one stage that cannot fail
// the pipeline and only ever transitions forward.
type pipelineState int

const (
	stateExtracting pipelineState = iota
	stateChunking
	stateIndexing
	stateRetrieving
	stateGenerating
	stateFormatting
	stateDone
	stateFailed
)

// pipelineRun carries the data flowing between stages of one invocation.
type pipelineRun struct {
	userID   string
	fileName string
	fileData []byte
	question string

	text       string
	chunks     []string
	collection string
	retrieved  []entity.ScoredChunk
	answer     entity.Answer

	result *entity.QueryResult
	err    error
}

// ProcessAndQuery indexes the uploaded document into the user's collection
// and answers the question against its most relevant chunks.
func (uc *RagUsecase) ProcessAndQuery(
	ctx context.Context,
	userID string,
	fileName string,
	fileData []byte,
	question string,
) (*entity.QueryResult, error) {
	run := &pipelineRun{
		userID:   userID,
		fileName: fileName,
		fileData: fileData,
		question: question,
	}

	for state := stateExtracting; state != stateDone && state != stateFailed; {
		state = uc.step(ctx, state, run)
	}

	if run.err != nil {
		return nil, run.err
	}
	return run.result, nil
}

func (uc *RagUsecase) step(ctx context.Context, state pipelineState, run *pipelineRun) pipelineState {
	switch state {
	case stateExtracting:
		return uc.extract(run)
	case stateChunking:
		return uc.chunk(run)
	case stateIndexing:
		return uc.index(ctx, run)
	case stateRetrieving:
		return uc.retrieve(ctx, run)
	case stateGenerating:
		return uc.generate(ctx, run)
	case stateFormatting:
		return uc.format(run)
	default:
		run.err = fmt.Errorf("invalid pipeline state %d", state)
		return stateFailed
	}
}

func (uc *RagUsecase) extract(run *pipelineRun) pipelineState {
	text, err := uc.extractor.ExtractText(run.fileName, run.fileData)
	if err != nil {
		run.err = err
		return stateFailed
	}
	run.text = text

	log.Printf("Extracted %d characters from %s", len(text), run.fileName)
	return stateChunking
}

func (uc *RagUsecase) chunk(run *pipelineRun) pipelineState {
	run.chunks = uc.chunker.ChunkText(run.text)
	if len(run.chunks) == 0 {
		run.err = entity.ErrNoContent
		return stateFailed
	}

	log.Printf("Generated %d chunks from %s", len(run.chunks), run.fileName)
	return stateIndexing
}

func (uc *RagUsecase) index(ctx context.Context, run *pipelineRun) pipelineState {
	collection, err := uc.vectorRepo.SanitizeCollectionName(run.userID)
	if err != nil {
		run.err = fmt.Errorf("%w: %v", entity.ErrIndexingFailed, err)
		return stateFailed
	}

	if err := uc.vectorRepo.EnsureCollection(ctx, collection); err != nil {
		run.err = fmt.Errorf("%w: %v", entity.ErrIndexingFailed, err)
		return stateFailed
	}

	uploadedAt := uc.now()
	metadatas := make([]entity.ChunkMetadata, len(run.chunks))
	for i := range run.chunks {
		metadatas[i] = entity.NewChunkMetadata(run.fileName, run.userID, i, len(run.chunks), uploadedAt)
	}

	if err := uc.vectorRepo.AddDocuments(ctx, collection, run.chunks, metadatas, run.userID); err != nil {
		run.err = fmt.Errorf("%w: %v", entity.ErrIndexingFailed, err)
		return stateFailed
	}

	run.collection = collection
	log.Printf("Indexed %d chunks into %s", len(run.chunks), collection)
	return stateRetrieving
}

func (uc *RagUsecase) retrieve(ctx context.Context, run *pipelineRun) pipelineState {
	k := min(uc.topK, len(run.chunks))
	retrieved, err := uc.vectorRepo.QueryDocuments(ctx, run.collection, run.question, k)
	if err != nil {
		run.err = fmt.Errorf("%w: %v", entity.ErrRetrievalFailed, err)
		return stateFailed
	}

	run.retrieved = retrieved
	return stateGenerating
}

func (uc *RagUsecase) generate(ctx context.Context, run *pipelineRun) pipelineState {
	contexts := make([]string, 0, len(run.retrieved))
	for _, chunk := range run.retrieved {
		contexts = append(contexts, chunk.Text)
	}

	run.answer = uc.chatService.GenerateAnswer(ctx, run.question, strings.Join(contexts, "\n\n"))
	if !run.answer.OK {
		log.Printf("Answer generation degraded for %s: %s", run.fileName, run.answer.Message)
	}
	return stateFormatting
}

func (uc *RagUsecase) format(run *pipelineRun) pipelineState {
	sources := make([]entity.SourceInfo, 0, len(run.retrieved))
	for _, chunk := range run.retrieved {
		if chunk.Metadata == nil {
			continue
		}
		sources = append(sources, entity.SourceInfo{
			Text:       TruncateText(chunk.Text, DefaultTruncateChars),
			FileName:   chunk.Metadata.FileName,
			UploadedAt: chunk.Metadata.UploadedAt,
			ChunkIndex: chunk.Metadata.ChunkIndex,
		})
	}

	run.result = &entity.QueryResult{
		Answer:  run.answer.Render(),
		Sources: sources,
	}
	return stateDone
}

// CleanupOldDocuments removes the user's chunks older than the given number
// of days. Non-positive thresholds fall back to the default retention.
func (uc *RagUsecase) CleanupOldDocuments(ctx context.Context, userID string, olderThanDays int) (int, error) {
	if olderThanDays <= 0 {
		olderThanDays = DefaultRetentionDays
	}

	count, err := uc.vectorRepo.DeleteOldDocuments(ctx, userID, olderThanDays)
	if err != nil {
		return 0, err
	}

	if count > 0 {
		log.Printf("Deleted %d old chunks for user %s", count, userID)
	}
	return count, nil
}
