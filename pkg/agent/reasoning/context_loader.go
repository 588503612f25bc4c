package reasoning

import (
	"context"
	"sort"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"super-rag-be/internal/pkg/logger"
	"super-rag-be/pkg/agent/state"
	"super-rag-be/pkg/llm"
)

const cacheSystemInstruction = "You are an enterprise reasoning engine. " +
	"Answer strictly based on the provided documents. " +
	"Perform deep cross-document analysis and return structured JSON."

// ContextLoader registers the full document set as a server-side reusable cache.
// On any failure it falls back to carrying the combined text inline, so the
// caching subsystem can never take the pipeline down.
type ContextLoader struct {
	llm     llm.Provider
	model   string
	ttl     time.Duration
	handles *gocache.Cache
	logger  logger.ILogger
}

func NewContextLoader(provider llm.Provider, model string, ttl time.Duration, log logger.ILogger) *ContextLoader {
	// Handles are memoized slightly shorter than the server-side TTL so a reused
	// handle is never already expired upstream.
	handleTTL := ttl - 5*time.Minute
	if handleTTL <= 0 {
		handleTTL = ttl / 2
	}
	return &ContextLoader{
		llm:     provider,
		model:   model,
		ttl:     ttl,
		handles: gocache.New(handleTTL, 10*time.Minute),
		logger:  log,
	}
}

// Run sets exactly one of st.CacheHandle / st.InlineContext when documents are
// present, and leaves both empty otherwise. It never fails.
func (l *ContextLoader) Run(ctx context.Context, st *state.RequestState) {
	l.logger.Info("LongContextLoader", "started", map[string]interface{}{
		"request_id": st.RequestID,
		"documents":  len(st.RelevantDocuments),
	})

	if len(st.RelevantDocuments) == 0 {
		l.logger.Warn("LongContextLoader", "no documents provided for long-context loading", map[string]interface{}{
			"request_id": st.RequestID,
		})
		return
	}

	var combined strings.Builder
	for _, doc := range st.RelevantDocuments {
		combined.WriteString("\n\n--- Document: " + doc.DocName + " ---\n")
		combined.WriteString(doc.FullText)
	}
	combinedText := combined.String()

	// The same document set produces the same key, so repeat complex queries
	// reuse the server-side cache within its TTL.
	key := documentSetKey(st.RelevantDocuments)
	if handle, found := l.handles.Get(key); found {
		st.CacheHandle = handle.(string)
		l.logger.Info("LongContextLoader", "reusing existing context cache", map[string]interface{}{
			"request_id": st.RequestID,
			"cache_id":   st.CacheHandle,
		})
		return
	}

	handle, err := l.llm.CreateCache(ctx, llm.CacheConfig{
		Model:             l.model,
		DisplayName:       "super_rag_cache_" + st.RequestID,
		SystemInstruction: cacheSystemInstruction,
		Contents:          []string{combinedText},
		TTL:               l.ttl,
	})
	if err != nil {
		l.logger.Error("LongContextLoader", "cache creation failed, falling back to inline context", map[string]interface{}{
			"request_id": st.RequestID,
			"error":      err.Error(),
		})
		st.CacheHandle = ""
		st.InlineContext = combinedText
		return
	}

	st.CacheHandle = handle
	st.InlineContext = ""
	l.handles.Set(key, handle, gocache.DefaultExpiration)

	l.logger.Info("LongContextLoader", "long context cached", map[string]interface{}{
		"request_id": st.RequestID,
		"cache_id":   handle,
	})
}

func documentSetKey(docs []state.Document) string {
	names := make([]string, 0, len(docs))
	for _, doc := range docs {
		names = append(names, doc.DocName)
	}
	sort.Strings(names)
	return strings.Join(names, "|")
}
