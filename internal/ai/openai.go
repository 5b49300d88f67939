package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
	"golang.org/x/time/rate"
)

const (
	DefaultModel   = "gpt-4o"
	DefaultTimeout = 20 * time.Second

	// 60 requests per minute with small bursts.
	defaultRateLimit = 1.0
	defaultBurst     = 5
)

// ErrMissingAPIKey means no credentials are configured; callers should run
// with a nil Completer and rely on fallbacks.
var ErrMissingAPIKey = errors.New("openai api key required")

type OpenAIConfig struct {
	APIKey  string `json:"-"`
	Model   string
	BaseURL string
	Timeout time.Duration
}

type contentGenerator interface {
	GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
}

// OpenAICompleter implements Completer on top of langchaingo's OpenAI client.
type OpenAICompleter struct {
	model   contentGenerator
	timeout time.Duration
	limiter *rate.Limiter
}

func NewOpenAICompleter(cfg OpenAIConfig) (*OpenAICompleter, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = DefaultModel
	}

	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
		openai.WithModel(modelName),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OpenAI client: %w", err)
	}

	return newOpenAICompleter(llm, cfg.Timeout), nil
}

func newOpenAICompleter(model contentGenerator, timeout time.Duration) *OpenAICompleter {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &OpenAICompleter{
		model:   model,
		timeout: timeout,
		limiter: rate.NewLimiter(rate.Limit(defaultRateLimit), defaultBurst),
	}
}

func (c *OpenAICompleter) Complete(ctx context.Context, systemPrompt string, userPrompt string, options CompletionOptions) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	callOptions := []llms.CallOption{
		llms.WithMaxTokens(options.MaxTokens),
		llms.WithTemperature(options.Temperature),
	}
	if options.JSON {
		callOptions = append(callOptions, llms.WithJSONMode())
	}

	messages := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(schema.ChatMessageTypeHuman, userPrompt),
	}

	resp, err := c.model.GenerateContent(ctx, messages, callOptions...)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0] == nil {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Content, nil
}
