package gamify

import (
	"math"
	"time"

	"github.com/eliotalders0n/chatlens/pkg/model"
	"go.uber.org/zap"
)

// Input aggregates everything the gamification engine scores over. Now is
// the evaluation instant, injected so streak currency is testable.
type Input struct {
	Metadata  model.ChatMetadata
	Messages  []model.Message
	Stats     []model.SenderStats
	Analytics model.AnalyticsBundle
	Sentiment model.SentimentSummary
	Now       time.Time
}

// Engine folds classifier and analytics output into bounded composite
// scores and rule-based unlocks. Every score is a pure function of the
// input; nothing is carried between runs.
type Engine struct {
	logger *zap.Logger
}

// NewEngine creates a new gamification Engine
func NewEngine(logger *zap.Logger) *Engine {
	return &Engine{logger: logger}
}

// Build computes the full gamification bundle
func (e *Engine) Build(in *Input) model.GamificationBundle {
	bundle := model.GamificationBundle{
		RelationshipLevel:  e.relationshipLevel(in),
		CompatibilityScore: e.compatibilityScore(in),
		Badges:             e.evaluateBadges(in),
		Milestones:         milestones(in),
		HealthScores:       healthScores(in),
		StreakData:         streakData(in),
	}

	e.logger.Info("gamification computed",
		zap.Float64("level", bundle.RelationshipLevel.Level),
		zap.Int("compatibility", bundle.CompatibilityScore.Score),
		zap.Int("badges", len(bundle.Badges)),
		zap.Int("milestones", len(bundle.Milestones)),
	)

	return bundle
}

// elapsedDays is the inclusive calendar span of the conversation, never
// less than one day.
func elapsedDays(in *Input) int {
	days := int(in.Metadata.EndDate.Sub(in.Metadata.StartDate).Hours()/24) + 1
	if days < 1 {
		return 1
	}
	return days
}

func messagesPerDay(in *Input) float64 {
	return float64(len(in.Messages)) / float64(elapsedDays(in))
}

// minorityShare returns the smaller message share between the two most
// active participants, as a percentage of their combined traffic.
func minorityShare(stats []model.SenderStats) float64 {
	if len(stats) < 2 {
		return 0
	}

	first, second := 0, 0
	for _, s := range stats {
		switch {
		case s.MessageCount > first:
			first, second = s.MessageCount, first
		case s.MessageCount > second:
			second = s.MessageCount
		}
	}
	if first+second == 0 {
		return 0
	}
	return 100 * float64(second) / float64(first+second)
}

// balanceScore maps the minority share onto 0-10, with full credit once
// the minority participant holds at least 45% of the traffic.
func balanceScore(stats []model.SenderStats) float64 {
	share := minorityShare(stats)
	if share >= 45 {
		return 10
	}
	return share / 4.5
}

// overallMedianResponse averages the per-sender median response times.
// With no samples at all there is nothing to judge, so a midfield value
// is used.
func overallMedianResponse(rt map[string]model.ResponseTimeStats) (float64, bool) {
	if len(rt) == 0 {
		return 0, false
	}
	sum := 0.0
	for _, s := range rt {
		sum += s.MedianMinutes
	}
	return sum / float64(len(rt)), true
}

// responseQualityScore bands the overall median reply latency onto 0-10
func responseQualityScore(rt map[string]model.ResponseTimeStats) float64 {
	median, ok := overallMedianResponse(rt)
	if !ok {
		return 7
	}

	switch {
	case median < 5:
		return 10
	case median < 15:
		return 9
	case median < 30:
		return 8
	case median < 60:
		return 7
	case median < 120:
		return 6
	case median < 240:
		return 5
	case median < 480:
		return 4
	default:
		return 3
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func roundHalf(v float64) float64 {
	return math.Round(v*2) / 2
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
