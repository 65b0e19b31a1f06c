package classifier

import (
	"fmt"
	"testing"

	"github.com/eliotalders0n/chatlens/pkg/model"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func summarize(messages []model.Message) model.SentimentSummary {
	c := NewClassifier(zap.NewNop())
	c.ClassifyAll(messages)
	return c.Summarize(messages)
}

func plainMessages(texts ...string) []model.Message {
	messages := make([]model.Message, len(texts))
	for i, text := range texts {
		sender := "Alice"
		if i%2 == 1 {
			sender = "Bob"
		}
		messages[i] = model.Message{Sender: sender, Text: text}
	}
	return messages
}

func TestSummarize_PercentagesSumToHundred(t *testing.T) {
	// Act
	summary := summarize(plainMessages(
		"love you so much", "meeting at noon", "i'm so angry", "ok",
	))

	// Assert
	assert.InDelta(t, 100.0, summary.PositivePercent+summary.NegativePercent+summary.NeutralPercent, 0.2)
	assert.GreaterOrEqual(t, summary.NeutralPercent, 0.0)
}

func TestSummarize_ContextDetection(t *testing.T) {
	// Act
	summary := summarize(plainMessages(
		"the server is down again", "found the bug in the api",
		"database migration failed", "deploy after the fix",
	))

	// Assert
	assert.Equal(t, "technical", summary.Context)
}

func TestSummarize_ContextDefaultsToPersonal(t *testing.T) {
	// Act
	summary := summarize(plainMessages("hello", "hi there", "see you"))

	// Assert
	assert.Equal(t, "personal", summary.Context)
}

func TestSummarize_TopEmotionsRanked(t *testing.T) {
	// Arrange: affection appears in two messages, joy in one
	summary := summarize(plainMessages(
		"love you", "miss you babe", "haha nice",
	))

	// Assert
	assert.NotEmpty(t, summary.TopEmotions)
	assert.Equal(t, model.EmotionAffection, summary.TopEmotions[0].Emotion)
	assert.Equal(t, 2, summary.TopEmotions[0].Count)
}

func TestSummarize_EmptyCorpus(t *testing.T) {
	// Act
	c := NewClassifier(zap.NewNop())
	summary := c.Summarize(nil)

	// Assert
	assert.Equal(t, "personal", summary.Context)
	assert.Equal(t, model.ToxicityHealthy, summary.Toxicity.Level)
}

func TestDetectToxicity_ExactBoundaryIsNotConcerning(t *testing.T) {
	// Arrange: exactly 10% flagged (2 of 20)
	texts := make([]string, 20)
	for i := range texts {
		texts[i] = "normal chatter"
	}
	texts[3] = "you idiot"
	texts[11] = "shut up already"

	// Act
	summary := summarize(plainMessages(texts...))

	// Assert: the concerning band opens strictly above 10%
	assert.Equal(t, 10.0, summary.Toxicity.Score)
	assert.Equal(t, model.ToxicityNeedsAttention, summary.Toxicity.Level)
}

func TestDetectToxicity_AboveBoundaryIsConcerning(t *testing.T) {
	// Arrange: 3 of 20 flagged = 15%
	texts := make([]string, 20)
	for i := range texts {
		texts[i] = "normal chatter"
	}
	texts[0] = "you idiot"
	texts[1] = "screw you"
	texts[2] = "it's all your fault"

	// Act
	summary := summarize(plainMessages(texts...))

	// Assert
	assert.Equal(t, model.ToxicityConcerning, summary.Toxicity.Level)
}

func TestDetectToxicity_BandsProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("band always matches the flagged percentage", prop.ForAll(
		func(total int, flagged int) bool {
			if flagged > total {
				flagged = total
			}

			texts := make([]string, total)
			for i := range texts {
				if i < flagged {
					texts[i] = "you are so stupid"
				} else {
					texts[i] = fmt.Sprintf("regular message %d", i)
				}
			}

			summary := summarize(plainMessages(texts...))
			pct := 100 * float64(flagged) / float64(total)

			switch {
			case pct < 2:
				return summary.Toxicity.Level == model.ToxicityHealthy
			case pct < 5:
				return summary.Toxicity.Level == model.ToxicityModerate
			case pct <= 10:
				return summary.Toxicity.Level == model.ToxicityNeedsAttention
			default:
				return summary.Toxicity.Level == model.ToxicityConcerning
			}
		},
		gen.IntRange(1, 200),
		gen.IntRange(0, 200),
	))

	properties.TestingRun(t)
}

func TestResolveConflicts_ApologyWithinWindow(t *testing.T) {
	// Arrange: the apology arrives two messages after the conflict
	summary := summarize(plainMessages(
		"i'm so angry at you",
		"calm down please",
		"sorry, that was out of line",
		"ok",
	))

	// Assert
	assert.Equal(t, 1, summary.ConflictResolution.ConflictCount)
	assert.Equal(t, 1, summary.ConflictResolution.ResolvedCount)
	assert.Equal(t, 1.0, summary.ConflictResolution.Ratio)
}

func TestResolveConflicts_ApologyBeyondWindowDoesNotCount(t *testing.T) {
	// Arrange: six filler messages push the apology out of the window
	summary := summarize(plainMessages(
		"i'm so angry at you",
		"filler one", "filler two", "filler three",
		"filler four", "filler five",
		"sorry about before",
	))

	// Assert
	assert.Equal(t, 1, summary.ConflictResolution.ConflictCount)
	assert.Equal(t, 0, summary.ConflictResolution.ResolvedCount)
}

func TestResolveConflicts_NoConflictsCountsAsResolved(t *testing.T) {
	// Act
	summary := summarize(plainMessages("hello", "hi", "how are you"))

	// Assert
	assert.Equal(t, 0, summary.ConflictResolution.ConflictCount)
	assert.Equal(t, 1.0, summary.ConflictResolution.Ratio)
	assert.Contains(t, summary.ConflictResolution.Patterns, "no significant conflicts")
}

func TestEmotionSynchrony_IdenticalProfilesScoreHundred(t *testing.T) {
	// Arrange: both participants express the same emotions at the same rate
	summary := summarize(plainMessages(
		"love you", "love you too", "so happy today", "happy as well",
	))

	// Assert
	assert.Equal(t, 100.0, summary.EmotionSynchrony)
}

func TestAffectionLevel_Saturation(t *testing.T) {
	// Arrange: every message is affectionate; the scale saturates at 100
	summary := summarize(plainMessages("love you", "miss you", "love you babe"))

	// Assert
	assert.Equal(t, 100.0, summary.AffectionLevel)
}
