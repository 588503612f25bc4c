package service

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"super-rag-be/internal/dto"
	"super-rag-be/internal/entity"
	"super-rag-be/internal/pkg/logger"
	"super-rag-be/internal/repository/contract"
	"super-rag-be/pkg/embedding"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService embeds published chunk records and upserts them into the
// chunk index. Re-ingesting a document replaces its previous rows.
type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	chunks            contract.DocumentChunkRepository
	embeddingProvider embedding.Provider
	logger            logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	chunks contract.DocumentChunkRepository,
	embeddingProvider embedding.Provider,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		chunks:            chunks,
		embeddingProvider: embeddingProvider,
		logger:            log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedDocumentMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("Consumer", "failed to unmarshal embed message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	cs.logger.Info("Consumer", "processing document embedding", map[string]interface{}{
		"source": payload.Source,
		"chunks": len(payload.Chunks),
	})

	if len(payload.Chunks) == 0 {
		msg.Ack()
		return
	}

	texts := make([]string, len(payload.Chunks))
	for i, chunk := range payload.Chunks {
		texts[i] = chunk.Text
	}

	vectors, err := cs.embeddingProvider.Embed(ctx, texts, embedding.TaskRetrievalDocument)
	if err != nil {
		cs.logger.Error("Consumer", "embedding generation failed", map[string]interface{}{
			"source": payload.Source,
			"error":  err.Error(),
		})
		msg.Nack() // Nack for retriable errors
		return
	}

	entities := make([]*entity.DocumentChunk, len(payload.Chunks))
	for i, chunk := range payload.Chunks {
		entities[i] = &entity.DocumentChunk{
			Source:     payload.Source,
			ChunkIndex: chunk.ChunkId,
			Content:    chunk.Text,
			Embedding:  vectors[i],
		}
	}

	// Replace any previous rows of this document before inserting the new set.
	if err := cs.chunks.DeleteBySource(ctx, payload.Source); err != nil {
		cs.logger.Error("Consumer", "failed to clear previous chunks", map[string]interface{}{
			"source": payload.Source,
			"error":  err.Error(),
		})
		msg.Nack()
		return
	}
	if err := cs.chunks.CreateBulk(ctx, entities); err != nil {
		cs.logger.Error("Consumer", "failed to store chunks", map[string]interface{}{
			"source": payload.Source,
			"error":  err.Error(),
		})
		msg.Nack()
		return
	}

	cs.logger.Info("Consumer", "document chunks stored", map[string]interface{}{
		"source": payload.Source,
		"chunks": len(entities),
	})
	msg.Ack()
}
