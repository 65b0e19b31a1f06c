package classifier

import (
	"math"
	"strings"

	"github.com/eliotalders0n/chatlens/pkg/model"
	"go.uber.org/zap"
)

// conflictLookahead is how many following messages may resolve a conflict
const conflictLookahead = 5

// Summarize computes the corpus-level sentiment summary over classified
// messages: sentiment percentages, emotion breakdown, context, toxicity,
// affection, synchrony and conflict resolution. Like per-message
// classification it never fails.
func (c *Classifier) Summarize(messages []model.Message) model.SentimentSummary {
	total := len(messages)
	if total == 0 {
		return model.SentimentSummary{
			OverallSentiment:    string(model.SentimentNeutral),
			Context:             "personal",
			CommunicationHealth: model.HealthModerate,
			EmotionBreakdown:    make(map[model.EmotionCategory]int),
			Toxicity:            model.Toxicity{Level: model.ToxicityHealthy},
		}
	}

	posCount, negCount := 0, 0
	breakdown := make(map[model.EmotionCategory]int)
	for _, msg := range messages {
		if msg.Sentiment == nil {
			continue
		}
		switch msg.Sentiment.Label {
		case model.SentimentPositive:
			posCount++
		case model.SentimentNegative:
			negCount++
		}
		for cat, score := range msg.Sentiment.Scores {
			if score > 0 {
				breakdown[cat]++
			}
		}
	}

	// Percentages sum to 100 with neutral absorbing the remainder
	posPct := round1(100 * float64(posCount) / float64(total))
	negPct := round1(100 * float64(negCount) / float64(total))
	neutralPct := round1(100 - posPct - negPct)
	if neutralPct < 0 {
		neutralPct = 0
	}

	summary := model.SentimentSummary{
		PositivePercent:     posPct,
		NegativePercent:     negPct,
		NeutralPercent:      neutralPct,
		OverallSentiment:    string(overallLabel(posCount, negCount)),
		TopEmotions:         topEmotions(breakdown, 3),
		EmotionBreakdown:    breakdown,
		CommunicationHealth: healthFromPositivity(posPct),
		Context:             c.detectContext(messages),
		Toxicity:            c.detectToxicity(messages),
		AffectionLevel:      affectionLevel(breakdown, total),
		EmotionSynchrony:    emotionSynchrony(messages),
		ConflictResolution:  resolveConflicts(messages),
	}

	c.logger.Info("corpus summarized",
		zap.Float64("positive_pct", posPct),
		zap.Float64("negative_pct", negPct),
		zap.String("context", summary.Context),
		zap.String("toxicity_level", string(summary.Toxicity.Level)),
	)

	return summary
}

func overallLabel(pos, neg int) model.SentimentLabel {
	switch {
	case pos > neg:
		return model.SentimentPositive
	case neg > pos:
		return model.SentimentNegative
	default:
		return model.SentimentNeutral
	}
}

// topEmotions ranks the breakdown by count descending, ties broken by
// category declaration order.
func topEmotions(breakdown map[model.EmotionCategory]int, limit int) []model.RankedEmotion {
	var ranked []model.RankedEmotion
	for _, cat := range model.EmotionCategories {
		if breakdown[cat] > 0 {
			ranked = append(ranked, model.RankedEmotion{Emotion: cat, Count: breakdown[cat]})
		}
	}

	for i := 1; i < len(ranked); i++ {
		for j := i; j > 0 && ranked[j].Count > ranked[j-1].Count; j-- {
			ranked[j], ranked[j-1] = ranked[j-1], ranked[j]
		}
	}

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// healthFromPositivity is the pre-alignment communication-health banding;
// the alignment layer replaces it with the blended value downstream.
func healthFromPositivity(posPct float64) model.CommunicationHealth {
	switch {
	case posPct >= 60:
		return model.HealthExcellent
	case posPct >= 45:
		return model.HealthHealthy
	case posPct >= 30:
		return model.HealthModerate
	case posPct >= 15:
		return model.HealthNeedsAttention
	default:
		return model.HealthCritical
	}
}

// detectContext counts keyword hits per context category across all
// messages; primary context is the argmax, defaulting to "personal" when
// nothing matches anywhere.
func (c *Classifier) detectContext(messages []model.Message) string {
	counts := make(map[string]int)
	for _, msg := range messages {
		lower := strings.ToLower(msg.Text)
		for _, ctx := range contextOrder {
			for _, kw := range contextLexicon[ctx] {
				if strings.Contains(lower, kw) {
					counts[ctx]++
				}
			}
		}
	}

	best := ""
	bestCount := 0
	for _, ctx := range contextOrder {
		if counts[ctx] > bestCount {
			best = ctx
			bestCount = counts[ctx]
		}
	}
	if best == "" {
		return "personal"
	}
	return best
}

// detectToxicity flags messages matching any toxicity category and bands
// the resulting percentage. Exactly 10% is still needs_attention; only a
// strictly greater share is concerning.
func (c *Classifier) detectToxicity(messages []model.Message) model.Toxicity {
	flagged := 0
	categoryHits := make(map[string]int)

	for _, msg := range messages {
		hits := toxicityHits(msg.Text)
		if len(hits) > 0 {
			flagged++
		}
		for _, h := range hits {
			categoryHits[h]++
		}
	}

	score := 100 * float64(flagged) / float64(len(messages))

	var level model.ToxicityLevel
	switch {
	case score < 2:
		level = model.ToxicityHealthy
	case score < 5:
		level = model.ToxicityModerate
	case score <= 10:
		level = model.ToxicityNeedsAttention
	default:
		level = model.ToxicityConcerning
	}

	return model.Toxicity{
		Score:        round1(score),
		Level:        level,
		FlaggedCount: flagged,
		CategoryHits: categoryHits,
	}
}

// affectionLevel scales the share of affectionate messages onto 0-100.
// One message in five carrying affection saturates the scale.
func affectionLevel(breakdown map[model.EmotionCategory]int, total int) float64 {
	pct := 100 * float64(breakdown[model.EmotionAffection]) / float64(total)
	return round1(math.Min(100, pct*5))
}

// emotionSynchrony compares the two most active participants' per-emotion
// expression rates; 100 means identical emotional profiles. Below two
// participants there is nothing to compare and the midpoint is reported.
func emotionSynchrony(messages []model.Message) float64 {
	counts := make(map[string]int)
	perEmotion := make(map[string]map[model.EmotionCategory]int)
	for _, msg := range messages {
		counts[msg.Sender]++
		if msg.Sentiment == nil {
			continue
		}
		if perEmotion[msg.Sender] == nil {
			perEmotion[msg.Sender] = make(map[model.EmotionCategory]int)
		}
		for cat, score := range msg.Sentiment.Scores {
			if score > 0 {
				perEmotion[msg.Sender][cat]++
			}
		}
	}

	first, second := topTwoSenders(counts)
	if second == "" {
		return 50
	}

	var diffSum float64
	for _, cat := range model.EmotionCategories {
		a := 100 * float64(perEmotion[first][cat]) / float64(counts[first])
		b := 100 * float64(perEmotion[second][cat]) / float64(counts[second])
		diffSum += math.Abs(a - b)
	}
	avgDiff := diffSum / float64(len(model.EmotionCategories))

	return round1(math.Max(0, 100-avgDiff))
}

func topTwoSenders(counts map[string]int) (string, string) {
	var first, second string
	for sender, n := range counts {
		switch {
		case first == "" || n > counts[first] || (n == counts[first] && sender < first):
			first, second = sender, first
		case second == "" || n > counts[second] || (n == counts[second] && sender < second):
			second = sender
		}
	}
	return first, second
}

// resolveConflicts measures how often a conflict-flagged message is
// followed by an apology or gratitude signal within the lookahead window.
// A corpus with no conflicts counts as fully resolved.
func resolveConflicts(messages []model.Message) model.ConflictResolution {
	conflicts, resolved := 0, 0

	for i, msg := range messages {
		if !isConflictMessage(msg) {
			continue
		}
		conflicts++

		end := i + 1 + conflictLookahead
		if end > len(messages) {
			end = len(messages)
		}
		for _, follow := range messages[i+1 : end] {
			if follow.Sentiment == nil {
				continue
			}
			if follow.Sentiment.Scores[model.EmotionApology] > 0 ||
				follow.Sentiment.Scores[model.EmotionGratitude] > 0 {
				resolved++
				break
			}
		}
	}

	cr := model.ConflictResolution{
		ConflictCount: conflicts,
		ResolvedCount: resolved,
	}

	if conflicts == 0 {
		cr.Ratio = 1.0
		cr.Patterns = []string{"no significant conflicts"}
		return cr
	}

	cr.Ratio = float64(resolved) / float64(conflicts)
	switch {
	case cr.Ratio >= 0.75:
		cr.Patterns = []string{"conflicts are repaired quickly", "apologies follow tension"}
	case cr.Ratio >= 0.4:
		cr.Patterns = []string{"some conflicts get repaired", "resolution is inconsistent"}
	default:
		cr.Patterns = []string{"conflicts often left unresolved"}
	}
	return cr
}

func isConflictMessage(msg model.Message) bool {
	if msg.Sentiment != nil {
		if msg.Sentiment.Scores[model.EmotionAnger] > 0 ||
			msg.Sentiment.Scores[model.EmotionBetrayal] > 0 {
			return true
		}
	}
	return len(toxicityHits(msg.Text)) > 0
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
