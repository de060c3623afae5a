package generation

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/siherrmann/medgraph/model"
)

// Composer turns traversed nodes into a response, generated when possible and templated otherwise
type Composer struct {
	generator Generator
	config    model.GenerationConfig
	logger    *slog.Logger
}

// NewComposer creates a composer. A nil generator always falls back to the template.
func NewComposer(generator Generator, config model.GenerationConfig, logger *slog.Logger) *Composer {
	if logger == nil {
		logger = slog.Default()
	}

	return &Composer{
		generator: generator,
		config:    config,
		logger:    logger,
	}
}

// Compose asks the generator for a response grounded in nodes.
// Failures never surface as errors, they yield the template with a fallback reason.
func (c *Composer) Compose(ctx context.Context, query string, nodes []*model.Node, graphContext GraphContext) Outcome {
	if len(nodes) == 0 {
		return c.fallback(FallbackNoContext, nodes, graphContext, nil)
	}
	if c.generator == nil {
		return c.fallback(FallbackGeneratorNotConfigured, nodes, graphContext, nil)
	}

	genCtx, cancel := ctx, context.CancelFunc(func() {})
	if c.config.Timeout > 0 {
		genCtx, cancel = context.WithTimeout(ctx, c.config.Timeout)
	}
	defer cancel()

	request := Request{
		SystemPrompt:    BuildSystemPrompt(nodes, graphContext),
		Query:           query,
		Temperature:     c.config.Temperature,
		MaxOutputTokens: c.config.MaxOutputTokens,
	}

	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		text, err := c.generator.Generate(genCtx, request)
		done <- result{text: text, err: err}
	}()

	// The provider may ignore the context, the select bounds the wait regardless.
	select {
	case r := <-done:
		if r.err != nil {
			return c.fallback(classify(ctx, genCtx, r.err), nodes, graphContext, r.err)
		}
		if strings.TrimSpace(r.text) == "" {
			return c.fallback(FallbackEmptyResponse, nodes, graphContext, nil)
		}
		return Outcome{Text: r.text, Generated: true}
	case <-genCtx.Done():
		return c.fallback(classify(ctx, genCtx, genCtx.Err()), nodes, graphContext, genCtx.Err())
	}
}

func (c *Composer) fallback(reason FallbackReason, nodes []*model.Node, graphContext GraphContext, err error) Outcome {
	attrs := []any{slog.String("reason", string(reason)), slog.Int("nodes", len(nodes))}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	c.logger.Warn("Generation fell back to template", attrs...)

	return Outcome{
		Text:           RenderTemplate(nodes, graphContext),
		Generated:      false,
		FallbackReason: reason,
	}
}

func classify(parent context.Context, genCtx context.Context, err error) FallbackReason {
	switch {
	case parent.Err() != nil || errors.Is(err, context.Canceled):
		return FallbackCancelled
	case errors.Is(genCtx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded):
		return FallbackTimeout
	case errors.Is(err, ErrMissingCredentials):
		return FallbackGeneratorNotConfigured
	default:
		return FallbackProviderError
	}
}
