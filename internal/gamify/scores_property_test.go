package gamify

import (
	"testing"
	"time"

	"github.com/eliotalders0n/chatlens/pkg/model"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.uber.org/zap"
)

func TestFrequencyScore_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	properties.Property("bounded and monotonic in message rate", prop.ForAll(
		func(a, b float64) bool {
			lo, hi := a, b
			if lo > hi {
				lo, hi = hi, lo
			}
			sLo, sHi := frequencyScore(lo), frequencyScore(hi)
			return sLo >= 0 && sHi <= 10 && sLo <= sHi
		},
		gen.Float64Range(0, 200),
		gen.Float64Range(0, 200),
	))

	properties.TestingRun(t)
}

func TestCompositeScores_BoundsProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	engine := NewEngine(zap.NewNop())

	properties.Property("level stays on the 1-10 ladder and score within 0-100", prop.ForAll(
		func(msgCount int, spanDays int, positivePct float64, synchrony float64, affection float64, ratio float64) bool {
			in := syntheticInput(msgCount, spanDays, positivePct, synchrony, affection, ratio)

			level := engine.relationshipLevel(in)
			score := engine.compatibilityScore(in)

			if level.Level < 1 || level.Level > 10 {
				return false
			}
			if score.Score < 0 || score.Score > 100 {
				return false
			}
			return score.Tier == compatibilityTier(score.Score)
		},
		gen.IntRange(1, 5000),
		gen.IntRange(1, 1000),
		gen.Float64Range(0, 100),
		gen.Float64Range(0, 100),
		gen.Float64Range(0, 100),
		gen.Float64Range(0, 2),
	))

	properties.TestingRun(t)
}

// syntheticInput fabricates a two-sender input with the given corpus-level
// signals, bypassing the classifier.
func syntheticInput(msgCount, spanDays int, positivePct, synchrony, affection, ratio float64) *Input {
	start := time.Date(2021, 1, 1, 8, 0, 0, 0, time.UTC)

	messages := make([]model.Message, msgCount)
	for i := range messages {
		sender := "Asha"
		if i%3 == 0 {
			sender = "Ben"
		}
		messages[i] = model.Message{
			Sender:    sender,
			Text:      "hello",
			Timestamp: start.Add(time.Duration(i) * time.Minute),
		}
	}

	return &Input{
		Metadata: model.ChatMetadata{
			StartDate: start,
			EndDate:   start.AddDate(0, 0, spanDays-1),
		},
		Messages: messages,
		Stats: []model.SenderStats{
			{Sender: "Asha", MessageCount: msgCount - msgCount/3},
			{Sender: "Ben", MessageCount: msgCount / 3},
		},
		Sentiment: model.SentimentSummary{
			PositivePercent:    positivePct,
			EmotionSynchrony:   synchrony,
			AffectionLevel:     affection,
			ConflictResolution: model.ConflictResolution{Ratio: ratio},
		},
		Now: start,
	}
}
