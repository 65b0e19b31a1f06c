package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"
)

// Completer is the narrow surface the enrichment session needs; it exists
// so tests can substitute a scripted implementation.
type Completer interface {
	Complete(ctx context.Context, model string, messages []openai.ChatCompletionMessageParamUnion) (string, error)
}

// Client wraps the OpenAI SDK with retry logic and logging
type Client struct {
	client     *openai.Client
	logger     *zap.Logger
	maxRetries int
	baseDelay  time.Duration
}

// NewClient creates a new OpenAI client
func NewClient(apiKey string, logger *zap.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("apiKey is required")
	}

	client := openai.NewClient(option.WithAPIKey(apiKey))

	return &Client{
		client:     &client,
		logger:     logger,
		maxRetries: 3,
		baseDelay:  time.Second,
	}, nil
}

// Complete sends a chat completion request with retry logic
func (c *Client) Complete(ctx context.Context, model string, messages []openai.ChatCompletionMessageParamUnion) (string, error) {
	startTime := time.Now()
	var lastErr error

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.baseDelay * time.Duration(1<<uint(attempt-1))
			c.logger.Info("retrying OpenAI request",
				zap.Int("attempt", attempt+1),
				zap.Duration("delay", delay),
			)
			time.Sleep(delay)
		}

		result, err := c.complete(ctx, model, messages)
		if err == nil {
			c.logger.Info("OpenAI request completed",
				zap.Duration("processing_time", time.Since(startTime)),
				zap.Int("attempts", attempt+1),
			)
			return result, nil
		}

		lastErr = err
		if !isRetryable(err) {
			c.logger.Error("non-retryable OpenAI error",
				zap.Error(err),
				zap.String("category", FailureCategory(err)),
				zap.Int("attempt", attempt+1),
			)
			break
		}

		c.logger.Warn("OpenAI request failed, will retry",
			zap.Error(err),
			zap.Int("attempt", attempt+1),
		)
	}

	c.logger.Error("OpenAI request failed after retries",
		zap.Error(lastErr),
		zap.Duration("total_time", time.Since(startTime)),
		zap.Int("max_retries", c.maxRetries),
	)

	return "", fmt.Errorf("OpenAI request failed after %d attempts: %w", c.maxRetries, lastErr)
}

// complete performs a single chat completion request
func (c *Client) complete(ctx context.Context, model string, messages []openai.ChatCompletionMessageParamUnion) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned from OpenAI")
	}

	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("empty content in response")
	}

	c.logger.Info("OpenAI token usage",
		zap.Int64("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int64("completion_tokens", resp.Usage.CompletionTokens),
		zap.Int64("total_tokens", resp.Usage.TotalTokens),
	)

	return content, nil
}

// isRetryable determines if an error should trigger a retry
func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	switch FailureCategory(err) {
	case CategoryQuota:
		// rate limits clear themselves; quota exhaustion does not, but
		// the backoff is cheap enough to confirm which one this is
		return true
	case CategoryNotFound:
		return false
	}

	errStr := err.Error()
	if strings.Contains(errStr, "authentication") || strings.Contains(errStr, "unauthorized") || strings.Contains(errStr, "401") {
		return false
	}
	if strings.Contains(errStr, "invalid") || strings.Contains(errStr, "bad request") || strings.Contains(errStr, "400") {
		return false
	}

	return true
}

// Failure categories used for observability; they never surface to callers
const (
	CategoryQuota    = "quota"
	CategoryNotFound = "not_found"
	CategoryOther    = "other"
)

// FailureCategory classifies an enrichment error for logging
func FailureCategory(err error) string {
	if err == nil {
		return CategoryOther
	}
	errStr := strings.ToLower(err.Error())

	switch {
	case strings.Contains(errStr, "quota"), strings.Contains(errStr, "rate limit"), strings.Contains(errStr, "429"):
		return CategoryQuota
	case strings.Contains(errStr, "model_not_found"), strings.Contains(errStr, "does not exist"), strings.Contains(errStr, "404"):
		return CategoryNotFound
	default:
		return CategoryOther
	}
}
