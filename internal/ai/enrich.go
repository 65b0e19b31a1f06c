package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"go.uber.org/zap"

	"github.com/eliotalders0n/chatlens/pkg/model"
)

const sentimentSystemPrompt = `You are a sentiment annotator for chat messages.
Respond with a JSON object only: {"sentiment": "positive"|"negative"|"neutral", "confidence": 0.0-1.0}.`

const narrativeSystemPrompt = `You are a relationship analyst. Given a sample of chat messages
and per-sender statistics, write a short narrative (3-5 sentences) describing the
tone and dynamic of the conversation. Plain text only, no lists.`

// Enricher issues sequential enrichment calls against a Completer. It is
// optional end to end: every method degrades to nil on failure and the
// pipeline stays complete without it.
type Enricher struct {
	completer  Completer
	models     []string
	callDelay  time.Duration
	sampleSize int
	logger     *zap.Logger
}

// NewEnricher creates an Enricher over the primary model and its fallbacks
func NewEnricher(completer Completer, primary string, fallbacks []string, callDelay time.Duration, sampleSize int, logger *zap.Logger) *Enricher {
	models := append([]string{primary}, fallbacks...)
	if sampleSize <= 0 {
		sampleSize = 20
	}
	return &Enricher{
		completer:  completer,
		models:     models,
		callDelay:  callDelay,
		sampleSize: sampleSize,
		logger:     logger,
	}
}

// Session carries the fallback-model index for one analysis run. Sessions
// are independent: concurrent analyses each get their own, so one run's
// fallback never bleeds into another.
type Session struct {
	enricher   *Enricher
	modelIndex int
	lastCall   time.Time
}

// NewSession starts a fresh enrichment session at the primary model
func (e *Enricher) NewSession() *Session {
	return &Session{enricher: e}
}

// Reset returns the session to the primary model
func (s *Session) Reset() {
	s.modelIndex = 0
}

// MessageOverride is the partial per-message enrichment result
type MessageOverride struct {
	Label      model.SentimentLabel `json:"sentiment"`
	Confidence float64              `json:"confidence"`
}

// EnrichMessage asks the model to re-judge one message's sentiment.
// Any failure returns nil; the deterministic classifier result stands.
func (s *Session) EnrichMessage(ctx context.Context, text string) *MessageOverride {
	content, err := s.call(ctx, sentimentSystemPrompt, text)
	if err != nil {
		return nil
	}

	var override MessageOverride
	if err := json.Unmarshal([]byte(extractJSON(content)), &override); err != nil {
		s.enricher.logger.Warn("unparseable enrichment response", zap.Error(err))
		return nil
	}

	switch override.Label {
	case model.SentimentPositive, model.SentimentNegative, model.SentimentNeutral:
	default:
		s.enricher.logger.Warn("enrichment returned unknown sentiment label",
			zap.String("label", string(override.Label)))
		return nil
	}

	return &override
}

// EnrichConversation asks the model for a narrative over a message sample.
// Any failure returns an empty string.
func (s *Session) EnrichConversation(ctx context.Context, messages []model.Message, stats []model.SenderStats) string {
	sample := messages
	if len(sample) > s.enricher.sampleSize {
		sample = sample[len(sample)-s.enricher.sampleSize:]
	}

	var b strings.Builder
	for _, stat := range stats {
		fmt.Fprintf(&b, "%s: %d messages, avg %.0f chars\n", stat.Sender, stat.MessageCount, stat.AvgMessageLength)
	}
	b.WriteString("\n")
	for _, msg := range sample {
		fmt.Fprintf(&b, "%s: %s\n", msg.Sender, msg.Text)
	}

	content, err := s.call(ctx, narrativeSystemPrompt, b.String())
	if err != nil {
		return ""
	}
	return strings.TrimSpace(content)
}

// call issues one completion, pacing calls by the configured delay and
// advancing to the next fallback model when the current one is missing.
func (s *Session) call(ctx context.Context, systemPrompt, userContent string) (string, error) {
	e := s.enricher

	if !s.lastCall.IsZero() {
		if wait := e.callDelay - time.Since(s.lastCall); wait > 0 {
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
	}

	for s.modelIndex < len(e.models) {
		s.lastCall = time.Now()
		content, err := e.completer.Complete(ctx, e.models[s.modelIndex], []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userContent),
		})
		if err == nil {
			return content, nil
		}

		category := FailureCategory(err)
		e.logger.Warn("enrichment call failed",
			zap.Error(err),
			zap.String("category", category),
			zap.String("model", e.models[s.modelIndex]),
		)
		if category != CategoryNotFound {
			return "", err
		}
		// missing model: fall through to the next one for the rest of
		// this session
		s.modelIndex++
	}

	return "", fmt.Errorf("no usable enrichment model")
}

// extractJSON tolerates models that wrap the JSON object in prose or fences
func extractJSON(content string) string {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || end < start {
		return content
	}
	return content[start : end+1]
}
