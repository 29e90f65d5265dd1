package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/muster/internal/common"
	"github.com/Veraticus/muster/internal/model"
)

// Gateway extracts attendance candidates from text and images through a
// configured provider. It is safe for concurrent use.
type Gateway struct {
	client       Client
	cache        *resultCache
	logger       *slog.Logger
	rateLimiter  *rateLimiter
	provider     string
	includeShape bool
}

// NewGateway creates a gateway for the provider named in cfg.
func NewGateway(cfg Config, logger *slog.Logger) (*Gateway, error) {
	client, err := NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return NewGatewayWithClient(client, cfg, logger), nil
}

// NewGatewayWithClient wraps an existing client. cfg supplies the provider
// name, cache TTL and rate limit.
func NewGatewayWithClient(client Client, cfg Config, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		client:       client,
		cache:        newResultCache(cfg.CacheTTL),
		logger:       logger,
		rateLimiter:  newRateLimiter(cfg.RateLimit),
		provider:     cfg.Provider,
		includeShape: !enforcesSchema(cfg.Provider),
	}
}

// Extract sends text, images and the learned rules to the provider.
//
// A transport or provider failure is returned as an error wrapping
// common.ErrExtractionFailed. An unusable response is not an error: it
// yields FallbackResult so the caller can ask the user to rephrase.
func (g *Gateway) Extract(ctx context.Context, text string, images []model.Image, rules []model.LearningRule) (model.ExtractionResult, error) {
	prompt, err := BuildPrompt(text, images, rules, g.includeShape)
	if err != nil {
		return model.ExtractionResult{}, fmt.Errorf("%w: %w", common.ErrExtractionFailed, err)
	}

	key := promptKey(prompt)
	if result, found := g.cache.get(key); found {
		g.logger.Debug("cache hit for extraction",
			"provider", g.provider,
			"records", len(result.Records))
		return result, nil
	}

	if err := g.rateLimiter.wait(ctx); err != nil {
		return model.ExtractionResult{}, fmt.Errorf("%w: %w", common.ErrExtractionFailed, err)
	}

	g.logger.Debug("sending extraction request",
		"provider", g.provider,
		"text_length", len(text),
		"images", len(images),
		"rules", len(rules))

	content, err := g.client.Generate(ctx, prompt)
	if err != nil {
		g.logger.Error("extraction request failed",
			"provider", g.provider,
			"error", err)
		return model.ExtractionResult{}, fmt.Errorf("%w: %w", common.ErrExtractionFailed, err)
	}

	result, err := ParseExtraction(content)
	if err != nil {
		g.logger.Warn("could not parse extraction response",
			"provider", g.provider,
			"error", err,
			"response_length", len(content))
		return FallbackResult(), nil
	}

	g.cache.set(key, result)
	g.logger.Info("extraction complete",
		"provider", g.provider,
		"records", len(result.Records),
		"uncertainties", len(result.Uncertainties))

	return result, nil
}

// Close releases the gateway's background goroutines.
func (g *Gateway) Close() {
	g.cache.Close()
	g.rateLimiter.Close()
}
