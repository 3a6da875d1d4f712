package ollama

import (
	"context"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"

	"github.com/toriana04/fraudintel/ai"
)

const systemPrompt = "You are IntelliFraud, an assistant that explains financial fraud " +
	"clearly and concisely for a general audience. Answer in plain prose."

// Embedder implements ai.Embedder with an Ollama embedding model.
type Embedder struct {
	embedder embeddings.Embedder
	logger   *slog.Logger
}

// EmbedText generates a vector embedding for a single text string.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vector, err := e.embedder.EmbedQuery(ctx, text)
	if err != nil {
		e.logger.Error("failed to generate embedding", "err", err)
		return nil, err
	}
	if len(vector) == 0 {
		return nil, ai.ErrEmptyResponse
	}
	return vector, nil
}

// EmbedTexts generates vector embeddings for multiple text strings in a batch.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	e.logger.Debug("generating embeddings for texts", "count", len(texts))
	vectors, err := e.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		e.logger.Error("failed to generate embeddings", "count", len(texts), "err", err)
		return nil, err
	}
	if len(vectors) != len(texts) {
		return nil, ai.ErrBatchSizeMismatch
	}
	return vectors, nil
}

// Generator implements ai.Generator with an Ollama chat model.
type Generator struct {
	llm         llms.Model
	temperature float64
	maxTokens   int
	logger      *slog.Logger
}

// Generate returns the model's answer to prompt.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}
	response, err := g.llm.GenerateContent(ctx, content,
		llms.WithTemperature(g.temperature),
		llms.WithMaxTokens(g.maxTokens),
	)
	if err != nil {
		g.logger.Error("failed to generate content", "err", err)
		return "", err
	}
	if len(response.Choices) < 1 {
		return "", ai.ErrEmptyResponse
	}
	text := strings.TrimSpace(response.Choices[0].Content)
	if text == "" {
		return "", ai.ErrEmptyResponse
	}
	return text, nil
}

// Provider implements ai.AIProvider against an Ollama server.
type Provider struct {
	embedder  *Embedder
	generator *Generator
	logger    *slog.Logger
}

// NewProvider creates embedding and generation clients from config. The
// provider kind is forced to ollama before validation.
//
// Returns ai.AIProvider interface to enforce abstraction.
func NewProvider(config *ai.Config) (ai.AIProvider, error) {
	config.Provider = ai.ProviderOllama
	if err := config.Validate(); err != nil {
		return nil, err
	}

	embedLLM, err := ollama.New(
		ollama.WithModel(config.EmbeddingModel),
		ollama.WithServerURL(config.EmbeddingHost),
	)
	if err != nil {
		return nil, err
	}
	embedder, err := embeddings.NewEmbedder(embedLLM, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, err
	}

	chatLLM, err := ollama.New(
		ollama.WithModel(config.GeneratorModel),
		ollama.WithServerURL(config.GeneratorHost),
	)
	if err != nil {
		return nil, err
	}

	return &Provider{
		embedder: &Embedder{
			embedder: embedder,
			logger:   slog.Default().With("component", "ollama-embedder", "model", config.EmbeddingModel),
		},
		generator: &Generator{
			llm:         chatLLM,
			temperature: config.Temperature,
			maxTokens:   config.MaxTokens,
			logger:      slog.Default().With("component", "ollama-generator", "model", config.GeneratorModel),
		},
		logger: slog.Default().With("component", "ollama-provider"),
	}, nil
}

// Embedder returns the text embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// Generator returns the text generation service.
func (p *Provider) Generator() ai.Generator {
	return p.generator
}

// Close releases resources held by the provider.
func (p *Provider) Close() error {
	p.logger.Debug("closing Ollama provider")
	return nil
}
