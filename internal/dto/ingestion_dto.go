package dto

type IngestRequest struct {
	DataDir string `json:"data_dir"`
}

type IngestResponse struct {
	Status         string  `json:"status"`
	Message        string  `json:"message"`
	Documents      int     `json:"documents"`
	Chunks         int     `json:"chunks"`
	LatencySeconds float64 `json:"latency_seconds"`
}

// EmbedChunkPayload is one chunk record awaiting embedding.
type EmbedChunkPayload struct {
	ChunkId int    `json:"chunk_id"`
	Text    string `json:"text"`
}

// PublishEmbedDocumentMessage carries one document's chunk records from the
// ingest endpoint to the embedding consumer.
type PublishEmbedDocumentMessage struct {
	Source string              `json:"source"`
	Chunks []EmbedChunkPayload `json:"chunks"`
}
