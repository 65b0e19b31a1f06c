package gamify

import (
	"fmt"
	"testing"
	"time"

	"github.com/eliotalders0n/chatlens/internal/analytics"
	"github.com/eliotalders0n/chatlens/internal/classifier"
	"github.com/eliotalders0n/chatlens/pkg/model"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

var scenarioStart = time.Date(2021, 6, 1, 9, 0, 0, 0, time.Local)

// scenarioCorpus builds a two-participant transcript of 120 messages over
// 10 consecutive days: Asha sends 65, Ben 55, and 84 messages (70%) carry
// positive keywords.
func scenarioCorpus() []model.Message {
	messages := make([]model.Message, 0, 120)
	ashaSent, benSent := 0, 0

	for i := 0; i < 120; i++ {
		day := i / 12
		slot := i % 12
		ts := scenarioStart.AddDate(0, 0, day).Add(time.Duration(slot) * 10 * time.Minute)

		sender := "Ben"
		if i%2 == 0 || i%24 == 11 {
			sender = "Asha"
		}

		text := "see you at the station"
		if sender == "Asha" {
			if ashaSent < 50 {
				text = "haha that was awesome"
			}
			ashaSent++
		} else {
			if benSent < 34 {
				text = "haha that was awesome"
			}
			benSent++
		}

		messages = append(messages, model.Message{
			Sender:    sender,
			Text:      text,
			Timestamp: ts,
		})
	}
	return messages
}

// runPipeline pushes a corpus through the classifier and analytics stages
// and assembles the gamification input the way the service layer does.
func runPipeline(t *testing.T, messages []model.Message, now time.Time) *Input {
	t.Helper()

	c := classifier.NewClassifier(zap.NewNop())
	c.ClassifyAll(messages)

	return &Input{
		Metadata: model.ChatMetadata{
			Participants:  []string{"Asha", "Ben"},
			TotalMessages: len(messages),
			StartDate:     messages[0].Timestamp,
			EndDate:       messages[len(messages)-1].Timestamp,
		},
		Messages:  messages,
		Stats:     analytics.SenderStats(messages),
		Analytics: analytics.NewEngine(3, 24, zap.NewNop()).Analyze(messages),
		Sentiment: c.Summarize(messages),
		Now:       now,
	}
}

func TestBuild_EndToEndScenario(t *testing.T) {
	// Arrange: 120 messages, 10 consecutive days, 70% positive, 65/55 split
	messages := scenarioCorpus()
	in := runPipeline(t, messages, messages[len(messages)-1].Timestamp.Add(time.Hour))

	// Act
	bundle := NewEngine(zap.NewNop()).Build(in)

	// Assert: level, tier, streak and badge expectations all hold at once
	assert.GreaterOrEqual(t, bundle.RelationshipLevel.Level, 5.0)
	assert.Contains(t, []string{"Good Match", "Great Connection"}, bundle.CompatibilityScore.Tier)
	assert.Equal(t, 10, bundle.StreakData.LongestDays)

	unlocked := make([]string, 0, len(bundle.Badges))
	for _, badge := range bundle.Badges {
		unlocked = append(unlocked, badge.ID)
	}
	assert.Contains(t, unlocked, "century")
}

func TestBuild_ScenarioStreakIsCurrent(t *testing.T) {
	// Arrange: evaluation an hour after the last message
	messages := scenarioCorpus()
	in := runPipeline(t, messages, messages[len(messages)-1].Timestamp.Add(time.Hour))

	// Act
	bundle := NewEngine(zap.NewNop()).Build(in)

	// Assert
	assert.True(t, bundle.StreakData.CurrentActive)
	assert.Equal(t, 10, bundle.StreakData.CurrentDays)
	assert.Equal(t, 10, bundle.StreakData.TotalActiveDays)
}

func TestMinorityShare_BalancedSplit(t *testing.T) {
	stats := []model.SenderStats{
		{Sender: "Asha", MessageCount: 65},
		{Sender: "Ben", MessageCount: 55},
	}

	share := minorityShare(stats)

	assert.InDelta(t, 45.83, share, 0.01)
	assert.Equal(t, 10.0, balanceScore(stats))
}

func TestMinorityShare_SingleParticipant(t *testing.T) {
	stats := []model.SenderStats{{Sender: "Solo", MessageCount: 40}}

	assert.Equal(t, 0.0, minorityShare(stats))
	assert.Equal(t, 0.0, balanceScore(stats))
}

func TestResponseQualityScore_Bands(t *testing.T) {
	cases := []struct {
		median   float64
		expected float64
	}{
		{4, 10},
		{5, 9},
		{14, 9},
		{29, 8},
		{59, 7},
		{119, 6},
		{239, 5},
		{479, 4},
		{480, 3},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("median_%v", tc.median), func(t *testing.T) {
			rt := map[string]model.ResponseTimeStats{
				"Asha": {Sender: "Asha", MedianMinutes: tc.median},
			}
			assert.Equal(t, tc.expected, responseQualityScore(rt))
		})
	}
}

func TestResponseQualityScore_NoSamplesIsMidfield(t *testing.T) {
	assert.Equal(t, 7.0, responseQualityScore(nil))
}

func TestElapsedDays_NeverBelowOne(t *testing.T) {
	in := &Input{Metadata: model.ChatMetadata{
		StartDate: scenarioStart,
		EndDate:   scenarioStart,
	}}

	assert.Equal(t, 1, elapsedDays(in))
}
