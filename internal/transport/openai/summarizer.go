package openai

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/articles/internal/domain"
	"github.com/kailas-cloud/articles/internal/metrics"
)

const summarySystemPrompt = "You write summaries of articles. Produce a short, clear summary " +
	"that keeps only the most important points, in a neutral and informative tone. " +
	"Always return a summary, even when the article is vague, very short or empty: " +
	"infer a brief general summary from whatever is there. " +
	"Never say that you are an AI or that you are writing a summary."

const summaryUserPrompt = "Summarize the following article briefly:\n\n"

// SummarizerConfig holds the chat completion settings used for summaries.
type SummarizerConfig struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
	Timeout   time.Duration
	Logger    *zap.Logger
}

// Summarizer turns article content into a short summary via chat completions.
// One request per call; failures are not retried.
type Summarizer struct {
	client    *openai.Client
	model     string
	maxTokens int
	logger    *zap.Logger
}

// NewSummarizer creates a summary provider.
func NewSummarizer(cfg *SummarizerConfig) *Summarizer {
	model := cfg.Model
	if model == "" {
		model = domain.DefaultCompletionConfig().Model
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = domain.DefaultCompletionConfig().MaxTokens
	}
	return &Summarizer{
		client:    newClient(cfg.APIKey, cfg.BaseURL, cfg.Timeout),
		model:     model,
		maxTokens: maxTokens,
		logger:    cfg.Logger,
	}
}

// Summarize returns a summary of content. Errors wrap domain.ErrCompletionProviderError.
func (s *Summarizer) Summarize(ctx context.Context, content string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: summarySystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: summaryUserPrompt + content},
		},
		MaxTokens: s.maxTokens,
	}

	start := time.Now()
	resp, err := s.client.CreateChatCompletion(ctx, req)
	duration := time.Since(start)

	if err != nil {
		metrics.CompletionRequestsTotal.WithLabelValues(s.model, "error").Inc()
		return "", parseAPIError("completion", err, domain.ErrCompletionProviderError)
	}

	if len(resp.Choices) == 0 {
		metrics.CompletionRequestsTotal.WithLabelValues(s.model, "error").Inc()
		return "", fmt.Errorf("empty completion response: %w", domain.ErrCompletionProviderError)
	}

	metrics.CompletionRequestsTotal.WithLabelValues(s.model, "success").Inc()
	metrics.CompletionRequestDuration.WithLabelValues(s.model).Observe(duration.Seconds())
	if resp.Usage.TotalTokens > 0 {
		metrics.CompletionTokensTotal.WithLabelValues(s.model, "prompt").Add(float64(resp.Usage.PromptTokens))
		metrics.CompletionTokensTotal.WithLabelValues(s.model, "completion").Add(float64(resp.Usage.CompletionTokens))
	}

	choice := resp.Choices[0]
	if choice.FinishReason == openai.FinishReasonLength {
		s.logger.Debug("Summary truncated by max_tokens",
			zap.String("model", s.model), zap.Int("max_tokens", s.maxTokens))
	}

	return strings.TrimSpace(choice.Message.Content), nil
}
