package gemini

import (
	"context"
	"errors"
	"fmt"

	genai "google.golang.org/genai"

	"super-rag-be/pkg/llm"
)

var ErrEmptyResponse = errors.New("gemini: empty response from model")

// Provider is a thin wrapper around the official genai client.
type Provider struct {
	cli          *genai.Client
	defaultModel string
}

func NewProvider(ctx context.Context, apiKey, defaultModel string) (*Provider, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &Provider{cli: cli, defaultModel: defaultModel}, nil
}

func (p *Provider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	opts := llm.Options{Model: p.defaultModel}
	for _, o := range options {
		o(&opts)
	}
	if opts.Model == "" {
		opts.Model = p.defaultModel
	}

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(opts.Temperature)),
	}
	if opts.CachedContent != "" {
		cfg.CachedContent = opts.CachedContent
	}
	if opts.SystemInstruct != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: opts.SystemInstruct}},
		}
	}

	resp, err := p.cli.Models.GenerateContent(ctx, opts.Model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		cfg,
	)
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 ||
		resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}

func (p *Provider) CreateCache(ctx context.Context, cfg llm.CacheConfig) (string, error) {
	model := cfg.Model
	if model == "" {
		model = p.defaultModel
	}

	contents := make([]*genai.Content, 0, len(cfg.Contents))
	for _, text := range cfg.Contents {
		contents = append(contents, &genai.Content{
			Parts: []*genai.Part{{Text: text}},
			Role:  genai.RoleUser,
		})
	}

	createCfg := &genai.CreateCachedContentConfig{
		DisplayName: cfg.DisplayName,
		Contents:    contents,
		TTL:         cfg.TTL,
	}
	if cfg.SystemInstruction != "" {
		createCfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: cfg.SystemInstruction}},
		}
	}

	cache, err := p.cli.Caches.Create(ctx, model, createCfg)
	if err != nil {
		return "", err
	}
	return cache.Name, nil
}
