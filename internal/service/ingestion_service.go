package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"super-rag-be/internal/dto"
	"super-rag-be/internal/pkg/logger"
	"super-rag-be/pkg/docstore"
	"super-rag-be/pkg/utils"
)

type IIngestionService interface {
	// Ingest loads and chunks every document under the directory and publishes
	// one embed message per document for the consumer to embed and upsert.
	Ingest(ctx context.Context, req *dto.IngestRequest) (*dto.IngestResponse, error)
}

type ingestionService struct {
	defaultDataDir string
	chunkSize      int
	chunkOverlap   int
	publisher      IPublisherService
	newStore       func(root string) docstore.Store
	logger         logger.ILogger
}

func NewIngestionService(
	defaultDataDir string,
	chunkSize int,
	chunkOverlap int,
	publisher IPublisherService,
	log logger.ILogger,
) IIngestionService {
	return &ingestionService{
		defaultDataDir: defaultDataDir,
		chunkSize:      chunkSize,
		chunkOverlap:   chunkOverlap,
		publisher:      publisher,
		newStore: func(root string) docstore.Store {
			return docstore.NewFSStore(root)
		},
		logger: log,
	}
}

func (s *ingestionService) Ingest(ctx context.Context, req *dto.IngestRequest) (*dto.IngestResponse, error) {
	start := time.Now()

	dataDir := req.DataDir
	if dataDir == "" {
		dataDir = s.defaultDataDir
	}

	s.logger.Info("Ingestion", "starting ingestion pipeline", map[string]interface{}{
		"data_dir": dataDir,
	})

	store := s.newStore(dataDir)
	names, err := store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("ingestion: %w", err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("ingestion: no documents found in %s", dataDir)
	}

	documents := 0
	totalChunks := 0
	for _, name := range names {
		text, err := store.Read(ctx, name)
		if err != nil {
			s.logger.Warn("Ingestion", "failed to read document, skipping", map[string]interface{}{
				"source": name,
				"error":  err.Error(),
			})
			continue
		}

		splits := utils.SplitText(text, s.chunkSize, s.chunkOverlap)
		msg := dto.PublishEmbedDocumentMessage{
			Source: name,
			Chunks: make([]dto.EmbedChunkPayload, 0, len(splits)),
		}
		for idx, chunk := range splits {
			msg.Chunks = append(msg.Chunks, dto.EmbedChunkPayload{
				ChunkId: idx,
				Text:    chunk,
			})
		}

		payload, err := json.Marshal(msg)
		if err != nil {
			return nil, fmt.Errorf("ingestion: marshal embed message: %w", err)
		}
		if err := s.publisher.Publish(ctx, payload); err != nil {
			return nil, fmt.Errorf("ingestion: publish embed message: %w", err)
		}

		documents++
		totalChunks += len(msg.Chunks)
	}

	s.logger.Info("Ingestion", "ingestion pipeline completed", map[string]interface{}{
		"documents": documents,
		"chunks":    totalChunks,
	})

	return &dto.IngestResponse{
		Status:         "success",
		Message:        fmt.Sprintf("Documents ingested from '%s'", dataDir),
		Documents:      documents,
		Chunks:         totalChunks,
		LatencySeconds: time.Since(start).Seconds(),
	}, nil
}
