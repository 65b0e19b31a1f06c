// Package align reconciles the classifier's independently-computed sentiment
// summary with the gamification composites so callers see one consistent
// label set. The pre-alignment labels are preserved for inspection.
package align

import (
	"github.com/eliotalders0n/chatlens/pkg/model"
	"go.uber.org/zap"
)

// Blend weights between the compatibility score and the relationship level
const (
	weightCompatibility = 0.6
	weightLevel         = 0.4
)

// Aligner remaps summary labels from the blended health value
type Aligner struct {
	logger *zap.Logger
}

// NewAligner creates a new Aligner
func NewAligner(logger *zap.Logger) *Aligner {
	return &Aligner{logger: logger}
}

// Align returns a copy of the summary with communicationHealth and
// overallSentiment remapped from the blended value. The input summary is
// not modified; the originals are kept under PreAlignment.
func (a *Aligner) Align(summary model.SentimentSummary, gamification model.GamificationBundle) model.SentimentSummary {
	blended := Blend(gamification)

	aligned := summary
	aligned.PreAlignment = &model.AlignmentSnapshot{
		OverallSentiment:    summary.OverallSentiment,
		CommunicationHealth: summary.CommunicationHealth,
	}
	aligned.CommunicationHealth = healthBand(blended)
	aligned.OverallSentiment = sentimentBand(blended, summary.PositivePercent)

	if aligned.CommunicationHealth != summary.CommunicationHealth {
		a.logger.Debug("communication health remapped",
			zap.String("from", string(summary.CommunicationHealth)),
			zap.String("to", string(aligned.CommunicationHealth)),
			zap.Float64("blended", blended),
		)
	}

	return aligned
}

// Blend folds the two gamification composites onto a single 0-100 value
func Blend(g model.GamificationBundle) float64 {
	return weightCompatibility*float64(g.CompatibilityScore.Score) +
		weightLevel*(g.RelationshipLevel.Level*10)
}

func healthBand(blended float64) model.CommunicationHealth {
	switch {
	case blended < 30:
		return model.HealthCritical
	case blended < 45:
		return model.HealthNeedsAttention
	case blended < 65:
		return model.HealthModerate
	case blended < 80:
		return model.HealthHealthy
	default:
		return model.HealthExcellent
	}
}

// sentimentBand combines the blended health with the raw positive share,
// so a mediocre corpus cannot read as "very positive" on composites alone.
func sentimentBand(blended, positivePercent float64) string {
	switch {
	case blended >= 80 && positivePercent >= 60:
		return "very_positive"
	case blended >= 65 && positivePercent >= 40:
		return "positive"
	case blended >= 45:
		return "neutral"
	case blended >= 30:
		return "negative"
	default:
		return "very_negative"
	}
}
