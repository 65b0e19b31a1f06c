package classifier

import (
	"strings"

	"github.com/eliotalders0n/chatlens/pkg/model"
	"go.uber.org/zap"
)

// Classifier assigns sentiment, emotion and communication-style signals to
// messages using fixed keyword tables. It never fails: text that matches
// nothing yields an explicit neutral result with zero confidence.
type Classifier struct {
	logger *zap.Logger
}

// NewClassifier creates a new Classifier
func NewClassifier(logger *zap.Logger) *Classifier {
	return &Classifier{logger: logger}
}

// complexEmotionThreshold is the category count at which a message is
// considered emotionally complex.
const complexEmotionThreshold = 3

// Classify annotates a single message in place with its emotion vector,
// derived sentiment label, emotion tags and dominant communication style.
func (c *Classifier) Classify(msg *model.Message) {
	scores := scoreEmotions(msg.Text)

	sentiment := deriveSentiment(scores)
	msg.Sentiment = sentiment
	msg.Emotions = emotionTags(scores)
	msg.CommunicationStyle = detectStyle(msg.Text)
}

// ClassifyAll annotates every message in the slice
func (c *Classifier) ClassifyAll(messages []model.Message) {
	for i := range messages {
		c.Classify(&messages[i])
	}
	c.logger.Info("messages classified", zap.Int("count", len(messages)))
}

// scoreEmotions counts lexicon hits per category. Categories are
// independent: one message can score on several at once.
func scoreEmotions(text string) map[model.EmotionCategory]int {
	lower := strings.ToLower(text)
	scores := make(map[model.EmotionCategory]int)

	for _, cat := range model.EmotionCategories {
		for _, kw := range emotionLexicon[cat] {
			if strings.Contains(lower, kw) {
				scores[cat]++
			}
		}
	}
	return scores
}

// deriveSentiment builds the sentiment vector summary from raw scores
func deriveSentiment(scores map[model.EmotionCategory]int) *model.Sentiment {
	complexity := 0
	total := 0
	for _, s := range scores {
		if s > 0 {
			complexity++
			total += s
		}
	}

	s := &model.Sentiment{
		Scores:              scores,
		Label:               sentimentLabel(scores),
		EmotionalComplexity: complexity,
		IsComplexEmotion:    complexity >= complexEmotionThreshold,
	}

	if total == 0 {
		// Explicit neutral: no matches, no confidence
		s.Label = model.SentimentNeutral
		s.Confidence = 0
		return s
	}

	s.Confidence = float64(total) / float64(total+2)

	ranked := rankEmotions(scores)
	s.Primary = ranked[0]
	if len(ranked) > 1 {
		limit := len(ranked)
		if limit > 3 {
			limit = 3
		}
		s.Secondary = ranked[1:limit]
	}
	return s
}

// sentimentLabel sums the positive cluster against the negative cluster;
// the label is whichever is strictly greater, else neutral.
func sentimentLabel(scores map[model.EmotionCategory]int) model.SentimentLabel {
	pos, neg := 0, 0
	for _, cat := range model.PositiveEmotions {
		pos += scores[cat]
	}
	for _, cat := range model.NegativeEmotions {
		neg += scores[cat]
	}

	switch {
	case pos > neg:
		return model.SentimentPositive
	case neg > pos:
		return model.SentimentNegative
	default:
		return model.SentimentNeutral
	}
}

// rankEmotions orders nonzero categories by score descending, breaking ties
// by category declaration order.
func rankEmotions(scores map[model.EmotionCategory]int) []model.EmotionCategory {
	var ranked []model.EmotionCategory
	for _, cat := range model.EmotionCategories {
		if scores[cat] > 0 {
			ranked = append(ranked, cat)
		}
	}

	// Insertion sort keeps declaration order stable for equal scores
	for i := 1; i < len(ranked); i++ {
		for j := i; j > 0 && scores[ranked[j]] > scores[ranked[j-1]]; j-- {
			ranked[j], ranked[j-1] = ranked[j-1], ranked[j]
		}
	}
	return ranked
}

func emotionTags(scores map[model.EmotionCategory]int) []string {
	ranked := rankEmotions(scores)
	tags := make([]string, 0, len(ranked))
	for _, cat := range ranked {
		tags = append(tags, string(cat))
	}
	return tags
}

// detectStyle runs the independent 8-category style scan; dominant style is
// the highest nonzero scorer, else neutral.
func detectStyle(text string) string {
	lower := strings.ToLower(text)

	best := "neutral"
	bestScore := 0
	for _, style := range styleOrder {
		score := 0
		for _, kw := range styleLexicon[style] {
			if strings.Contains(lower, kw) {
				score++
			}
		}
		if score > bestScore {
			best = style
			bestScore = score
		}
	}
	return best
}

// toxicityHits returns the toxicity categories the text matches
func toxicityHits(text string) []string {
	lower := strings.ToLower(text)

	var hits []string
	for _, category := range []string{"insults", "aggression", "dismissive", "manipulation", "blame"} {
		for _, kw := range toxicityLexicon[category] {
			if strings.Contains(lower, kw) {
				hits = append(hits, category)
				break
			}
		}
	}
	return hits
}
