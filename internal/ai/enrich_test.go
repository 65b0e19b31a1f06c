package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/openai/openai-go/v3"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/eliotalders0n/chatlens/pkg/model"
)

// scriptedCompleter returns canned responses per model name and records
// the models it was asked for.
type scriptedCompleter struct {
	responses map[string]string
	errs      map[string]error
	calls     []string
}

func (s *scriptedCompleter) Complete(_ context.Context, model string, _ []openai.ChatCompletionMessageParamUnion) (string, error) {
	s.calls = append(s.calls, model)
	if err, ok := s.errs[model]; ok {
		return "", err
	}
	return s.responses[model], nil
}

func newEnricher(c Completer, fallbacks ...string) *Enricher {
	return NewEnricher(c, "primary", fallbacks, 0, 20, zap.NewNop())
}

func TestEnrichMessage_ParsesOverride(t *testing.T) {
	// Arrange
	completer := &scriptedCompleter{responses: map[string]string{
		"primary": `{"sentiment": "positive", "confidence": 0.91}`,
	}}
	session := newEnricher(completer).NewSession()

	// Act
	override := session.EnrichMessage(context.Background(), "what a day!")

	// Assert
	assert.NotNil(t, override)
	assert.Equal(t, model.SentimentPositive, override.Label)
	assert.InDelta(t, 0.91, override.Confidence, 0.001)
}

func TestEnrichMessage_FailureDegradesToNil(t *testing.T) {
	// Arrange: quota failure must not propagate
	completer := &scriptedCompleter{errs: map[string]error{
		"primary": errors.New("429 rate limit exceeded"),
	}}
	session := newEnricher(completer).NewSession()

	// Act + Assert
	assert.Nil(t, session.EnrichMessage(context.Background(), "hello"))
}

func TestEnrichMessage_UnparseableResponseIsNil(t *testing.T) {
	completer := &scriptedCompleter{responses: map[string]string{
		"primary": "I feel this message is quite positive overall.",
	}}
	session := newEnricher(completer).NewSession()

	assert.Nil(t, session.EnrichMessage(context.Background(), "hello"))
}

func TestEnrichMessage_ToleratesFencedJSON(t *testing.T) {
	completer := &scriptedCompleter{responses: map[string]string{
		"primary": "```json\n{\"sentiment\": \"negative\", \"confidence\": 0.7}\n```",
	}}
	session := newEnricher(completer).NewSession()

	override := session.EnrichMessage(context.Background(), "ugh")

	assert.NotNil(t, override)
	assert.Equal(t, model.SentimentNegative, override.Label)
}

func TestSession_FallbackAdvancesAndSticks(t *testing.T) {
	// Arrange: primary model is gone, fallback answers
	completer := &scriptedCompleter{
		errs:      map[string]error{"primary": errors.New("404 model does not exist")},
		responses: map[string]string{"backup": `{"sentiment": "neutral", "confidence": 0.5}`},
	}
	session := newEnricher(completer, "backup").NewSession()

	// Act: two calls in the same session
	first := session.EnrichMessage(context.Background(), "one")
	second := session.EnrichMessage(context.Background(), "two")

	// Assert: the missing model is only tried once
	assert.NotNil(t, first)
	assert.NotNil(t, second)
	assert.Equal(t, []string{"primary", "backup", "backup"}, completer.calls)
}

func TestSession_ResetReturnsToPrimary(t *testing.T) {
	// Arrange
	completer := &scriptedCompleter{
		errs:      map[string]error{"primary": errors.New("404 model does not exist")},
		responses: map[string]string{"backup": `{"sentiment": "neutral", "confidence": 0.5}`},
	}
	session := newEnricher(completer, "backup").NewSession()
	session.EnrichMessage(context.Background(), "one")

	// Act
	session.Reset()
	session.EnrichMessage(context.Background(), "two")

	// Assert: primary retried after the reset
	assert.Equal(t, []string{"primary", "backup", "primary", "backup"}, completer.calls)
}

func TestSession_AllModelsMissingIsNil(t *testing.T) {
	completer := &scriptedCompleter{errs: map[string]error{
		"primary": errors.New("404 model does not exist"),
		"backup":  errors.New("404 model does not exist"),
	}}
	session := newEnricher(completer, "backup").NewSession()

	assert.Nil(t, session.EnrichMessage(context.Background(), "hello"))
	// subsequent calls short-circuit without touching the network
	assert.Nil(t, session.EnrichMessage(context.Background(), "again"))
	assert.Len(t, completer.calls, 2)
}

func TestEnrichConversation_SampleAndStats(t *testing.T) {
	// Arrange
	completer := &scriptedCompleter{responses: map[string]string{
		"primary": "  A warm, even-tempered exchange between close friends.  ",
	}}
	session := newEnricher(completer).NewSession()

	messages := []model.Message{
		{Sender: "Asha", Text: "morning!"},
		{Sender: "Ben", Text: "morning :)"},
	}
	stats := []model.SenderStats{{Sender: "Asha", MessageCount: 1}, {Sender: "Ben", MessageCount: 1}}

	// Act
	narrative := session.EnrichConversation(context.Background(), messages, stats)

	// Assert
	assert.Equal(t, "A warm, even-tempered exchange between close friends.", narrative)
}

func TestFailureCategory(t *testing.T) {
	assert.Equal(t, CategoryQuota, FailureCategory(errors.New("insufficient quota")))
	assert.Equal(t, CategoryQuota, FailureCategory(errors.New("429 Too Many Requests")))
	assert.Equal(t, CategoryNotFound, FailureCategory(errors.New("model_not_found")))
	assert.Equal(t, CategoryOther, FailureCategory(errors.New("connection refused")))
}
