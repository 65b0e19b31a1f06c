package classifier

import (
	"testing"

	"github.com/eliotalders0n/chatlens/pkg/model"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func classify(t *testing.T, text string) model.Message {
	t.Helper()
	c := NewClassifier(zap.NewNop())
	msg := model.Message{Sender: "Alice", Text: text}
	c.Classify(&msg)
	return msg
}

func TestClassifier_PositiveMessage(t *testing.T) {
	// Act
	msg := classify(t, "thank you so much, this is awesome!")

	// Assert
	assert.Equal(t, model.SentimentPositive, msg.Sentiment.Label)
	assert.Greater(t, msg.Sentiment.Confidence, 0.0)
	assert.Positive(t, msg.Sentiment.Scores[model.EmotionGratitude])
	assert.Positive(t, msg.Sentiment.Scores[model.EmotionJoy])
}

func TestClassifier_NegativeMessage(t *testing.T) {
	// Act
	msg := classify(t, "i'm so angry, you lied to me again")

	// Assert
	assert.Equal(t, model.SentimentNegative, msg.Sentiment.Label)
	assert.Positive(t, msg.Sentiment.Scores[model.EmotionAnger])
	assert.Positive(t, msg.Sentiment.Scores[model.EmotionBetrayal])
}

func TestClassifier_UnmatchedTextIsExplicitNeutral(t *testing.T) {
	// Act
	msg := classify(t, "the meeting room is on the third floor")

	// Assert: well-defined neutral, zero confidence, never an error
	assert.Equal(t, model.SentimentNeutral, msg.Sentiment.Label)
	assert.Equal(t, 0.0, msg.Sentiment.Confidence)
	assert.Equal(t, 0, msg.Sentiment.EmotionalComplexity)
	assert.Empty(t, msg.Emotions)
}

func TestClassifier_EmotionIndependence(t *testing.T) {
	// Arrange: keywords from two distinct categories in one message
	msg := classify(t, "i'm happy for you but also a bit worried")

	// Assert: both categories score nonzero, no mutual exclusion
	assert.Positive(t, msg.Sentiment.Scores[model.EmotionJoy])
	assert.Positive(t, msg.Sentiment.Scores[model.EmotionAnxiety])
	assert.GreaterOrEqual(t, msg.Sentiment.EmotionalComplexity, 2)
}

func TestClassifier_ComplexEmotionThreshold(t *testing.T) {
	// Arrange: three categories at once
	msg := classify(t, "sorry for earlier, thank you for staying, i was so worried")

	// Assert
	assert.GreaterOrEqual(t, msg.Sentiment.EmotionalComplexity, 3)
	assert.True(t, msg.Sentiment.IsComplexEmotion)
}

func TestClassifier_PrimaryAndSecondaryOrdering(t *testing.T) {
	// Arrange: joy scores twice (happy + haha), anxiety once
	msg := classify(t, "happy days haha, still a bit nervous though")

	// Assert
	assert.Equal(t, model.EmotionJoy, msg.Sentiment.Primary)
	assert.Contains(t, msg.Sentiment.Secondary, model.EmotionAnxiety)
}

func TestClassifier_TieBreaksByDeclarationOrder(t *testing.T) {
	// Arrange: joy and sadness each score exactly once; joy is declared first
	msg := classify(t, "happy and sad at the same time")

	// Assert
	assert.Equal(t, 1, msg.Sentiment.Scores[model.EmotionJoy])
	assert.Equal(t, 1, msg.Sentiment.Scores[model.EmotionSadness])
	assert.Equal(t, model.EmotionJoy, msg.Sentiment.Primary)
}

func TestClassifier_BalancedClustersAreNeutral(t *testing.T) {
	// Arrange: one positive hit, one negative hit
	msg := classify(t, "happy but also sad")

	// Assert: neither cluster is strictly greater
	assert.Equal(t, model.SentimentNeutral, msg.Sentiment.Label)
}

func TestClassifier_StyleDetection(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"planning", "let's meet tomorrow at 6, i'll book the table", "planning"},
		{"supportive", "don't worry, i'm here for you", "supportive"},
		{"disagreeing", "i don't think so, that's wrong", "disagreeing"},
		{"no match", "the sky is blue", "neutral"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := classify(t, tt.text)
			assert.Equal(t, tt.want, msg.CommunicationStyle)
		})
	}
}

func TestClassifier_ClassifyAll(t *testing.T) {
	// Arrange
	c := NewClassifier(zap.NewNop())
	messages := []model.Message{
		{Sender: "Alice", Text: "love you"},
		{Sender: "Bob", Text: "miss you too"},
	}

	// Act
	c.ClassifyAll(messages)

	// Assert: enrichment happens in place
	assert.NotNil(t, messages[0].Sentiment)
	assert.NotNil(t, messages[1].Sentiment)
	assert.Equal(t, model.SentimentPositive, messages[0].Sentiment.Label)
}
