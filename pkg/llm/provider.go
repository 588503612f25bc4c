package llm

import (
	"context"
	"time"
)

// Option allows for optional parameters like Temperature, Model, etc.
type Option func(*Options)

type Options struct {
	Temperature    float64
	Model          string // Override default model
	CachedContent  string // Server-side cached-content handle to attach
	SystemInstruct string
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// WithCachedContent attaches a previously created long-context cache handle so
// the model reads the cached documents instead of inline prompt text.
func WithCachedContent(handle string) Option {
	return func(o *Options) {
		o.CachedContent = handle
	}
}

// WithSystemInstruction sets a system instruction on the call. Not combinable
// with a cached-content handle; a cache carries its own instruction.
func WithSystemInstruction(instruction string) Option {
	return func(o *Options) {
		o.SystemInstruct = instruction
	}
}

// CacheConfig describes a server-side long-context cache to create.
type CacheConfig struct {
	Model             string
	DisplayName       string
	SystemInstruction string
	Contents          []string
	TTL               time.Duration
}

// Provider defines the contract for the generative-text backend.
type Provider interface {
	// Generate sends a single prompt to the model and returns the raw text response.
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)

	// CreateCache registers contents as a server-side reusable context blob and
	// returns its opaque handle. Failure is expected under size or quota limits;
	// callers must be prepared to fall back to inline context.
	CreateCache(ctx context.Context, cfg CacheConfig) (string, error)
}
