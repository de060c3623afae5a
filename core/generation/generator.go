package generation

import (
	"context"
	"errors"
)

// ErrMissingCredentials is returned when a provider is selected without an API key
var ErrMissingCredentials = errors.New("missing generation provider credentials")

// Request is a single grounded generation call
type Request struct {
	SystemPrompt    string
	Query           string
	Temperature     float32
	MaxOutputTokens int32
}

// Generator produces text for a request from an external language model
type Generator interface {
	Generate(ctx context.Context, request Request) (string, error)
}

// FallbackReason names why a response was rendered from the template
type FallbackReason string

const (
	FallbackNone                   FallbackReason = ""
	FallbackGeneratorNotConfigured FallbackReason = "generator_not_configured"
	FallbackNoContext              FallbackReason = "no_context"
	FallbackTimeout                FallbackReason = "timeout"
	FallbackCancelled              FallbackReason = "cancelled"
	FallbackProviderError          FallbackReason = "provider_error"
	FallbackEmptyResponse          FallbackReason = "empty_response"
)

// Outcome is either generated text or a template response with the reason
type Outcome struct {
	Text           string
	Generated      bool
	FallbackReason FallbackReason
}
