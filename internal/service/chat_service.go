package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"super-rag-be/internal/dto"
	"super-rag-be/internal/pkg/logger"
	"super-rag-be/pkg/agent"
	"super-rag-be/pkg/agent/state"
)

type IChatService interface {
	Query(ctx context.Context, req *dto.QueryRequest) (*dto.QueryResponse, error)
}

type chatService struct {
	orchestrator *agent.Orchestrator
	logger       logger.ILogger
}

func NewChatService(orchestrator *agent.Orchestrator, log logger.ILogger) IChatService {
	return &chatService{
		orchestrator: orchestrator,
		logger:       log,
	}
}

// Query generates the request_id, runs the full agentic pipeline and maps the
// final state onto the response contract. A degraded pipeline still answers
// with partial results plus a non-empty error field.
func (s *chatService) Query(ctx context.Context, req *dto.QueryRequest) (*dto.QueryResponse, error) {
	requestId := uuid.NewString()

	s.logger.Info("Chat", "incoming query", map[string]interface{}{
		"request_id": requestId,
		"query":      req.Query,
	})

	start := time.Now()
	st := s.orchestrator.Run(ctx, state.New(requestId, req.Query))
	st.LatencySeconds = time.Since(start).Seconds()

	s.logger.Info("Chat", "response ready", map[string]interface{}{
		"request_id":      requestId,
		"mode":            st.Mode,
		"latency_seconds": st.LatencySeconds,
	})

	return &dto.QueryResponse{
		RequestId:      st.RequestID,
		Query:          st.Query,
		Answer:         st.FinalAnswer,
		Mode:           st.Mode,
		Sources:        st.Sources,
		Citations:      st.Citations,
		SemanticHit:    st.SemanticHit,
		LatencySeconds: st.LatencySeconds,
		Error:          st.Error,
	}, nil
}
