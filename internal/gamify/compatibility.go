package gamify

import (
	"math"

	"github.com/eliotalders0n/chatlens/pkg/model"
)

// compatibilityTiers maps score floors onto tier names, highest first
var compatibilityTiers = []struct {
	Floor int
	Name  string
}{
	{90, "Soulmates"},
	{85, "Excellent Match"},
	{70, "Great Connection"},
	{55, "Good Match"},
	{40, "Growing Bond"},
	{0, "Building Chemistry"},
}

// compatibilityScore composes the 0-100 compatibility from five bounded
// components: sentiment balance (30), emotion synchrony (25),
// communication balance (20), affection (15) and conflict handling (10).
func (e *Engine) compatibilityScore(in *Input) model.CompatibilityScore {
	sentimentBalance := sentimentBalanceComponent(in)
	synchrony := clamp(in.Sentiment.EmotionSynchrony, 0, 100) * 0.25
	commBalance := balanceScore(in.Stats) * 2
	affection := clamp(in.Sentiment.AffectionLevel, 0, 100) * 0.15
	conflict := math.Min(1, in.Sentiment.ConflictResolution.Ratio) * 10

	total := int(math.Round(clamp(sentimentBalance+synchrony+commBalance+affection+conflict, 0, 100)))

	return model.CompatibilityScore{
		Score:                total,
		Tier:                 compatibilityTier(total),
		SentimentBalance:     round1(sentimentBalance),
		EmotionSynchrony:     round1(synchrony),
		CommunicationBalance: round1(commBalance),
		AffectionLevel:       round1(affection),
		ConflictHandling:     round1(conflict),
	}
}

// sentimentBalanceComponent awards the full 30 points when both
// participants carry identical positive percentages and decays linearly
// with the gap.
func sentimentBalanceComponent(in *Input) float64 {
	gap, ok := positivePercentGap(in)
	if !ok {
		return 15 // single-participant corpus: midfield, nothing to compare
	}
	return math.Max(0, 30-0.3*gap)
}

// positivePercentGap measures the absolute difference between the two most
// active participants' positive-message percentages.
func positivePercentGap(in *Input) (float64, bool) {
	if len(in.Stats) < 2 {
		return 0, false
	}

	first, second := topTwoParticipants(in.Stats)

	counts := make(map[string]int)
	positives := make(map[string]int)
	for _, msg := range in.Messages {
		counts[msg.Sender]++
		if msg.Sentiment != nil && msg.Sentiment.Label == model.SentimentPositive {
			positives[msg.Sender]++
		}
	}

	if counts[first] == 0 || counts[second] == 0 {
		return 0, false
	}

	a := 100 * float64(positives[first]) / float64(counts[first])
	b := 100 * float64(positives[second]) / float64(counts[second])
	return math.Abs(a - b), true
}

func topTwoParticipants(stats []model.SenderStats) (string, string) {
	var first, second model.SenderStats
	for _, s := range stats {
		switch {
		case s.MessageCount > first.MessageCount:
			first, second = s, first
		case s.MessageCount > second.MessageCount:
			second = s
		}
	}
	return first.Sender, second.Sender
}

func compatibilityTier(score int) string {
	for _, tier := range compatibilityTiers {
		if score >= tier.Floor {
			return tier.Name
		}
	}
	return compatibilityTiers[len(compatibilityTiers)-1].Name
}
