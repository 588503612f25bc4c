package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

type embedContentPart struct {
	Text string `json:"text"`
}

type embedContent struct {
	Parts []embedContentPart `json:"parts"`
}

type embedRequest struct {
	Model    string       `json:"model"`
	Content  embedContent `json:"content"`
	TaskType string       `json:"taskType,omitempty"`
}

type batchEmbedRequest struct {
	Requests []embedRequest `json:"requests"`
}

type embeddingValues struct {
	Values []float32 `json:"values"`
}

type batchEmbedResponse struct {
	Embeddings []embeddingValues `json:"embeddings"`
}

// GeminiProvider calls the Gemini batchEmbedContents REST endpoint. Every
// returned vector is checked against dim, the dimension of the vector columns;
// a mismatched model must fail here rather than poison the index.
type GeminiProvider struct {
	apiKey string
	model  string
	dim    int
	client *http.Client
}

func NewGeminiProvider(apiKey, model string, dim int) Provider {
	return &GeminiProvider{
		apiKey: apiKey,
		model:  model,
		dim:    dim,
		client: &http.Client{},
	}
}

func (p *GeminiProvider) Embed(ctx context.Context, texts []string, taskType string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	payload := batchEmbedRequest{
		Requests: make([]embedRequest, 0, len(texts)),
	}
	for _, text := range texts {
		payload.Requests = append(payload.Requests, embedRequest{
			Model: "models/" + p.model,
			Content: embedContent{
				Parts: []embedContentPart{{Text: text}},
			},
			TaskType: taskType,
		})
	}

	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf(
		"https://generativelanguage.googleapis.com/v1beta/models/%s:batchEmbedContents",
		p.model,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(payloadJson))
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-goog-api-key", p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	resByte, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error from gemini response, code %d, body %s", res.StatusCode, string(resByte))
	}

	var batchRes batchEmbedResponse
	if err := json.Unmarshal(resByte, &batchRes); err != nil {
		return nil, err
	}

	if len(batchRes.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: sent %d texts, got %d vectors", len(texts), len(batchRes.Embeddings))
	}

	vectors := make([][]float32, len(batchRes.Embeddings))
	for i, e := range batchRes.Embeddings {
		if p.dim > 0 && len(e.Values) != p.dim {
			return nil, fmt.Errorf("embedding dimension mismatch: model %s returned %d values, index expects %d", p.model, len(e.Values), p.dim)
		}
		vectors[i] = e.Values
	}
	return vectors, nil
}
