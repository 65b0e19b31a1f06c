package gamify

import (
	"strings"

	"github.com/eliotalders0n/chatlens/pkg/model"
	"go.uber.org/zap"
)

// BadgeRule is one entry of the declarative badge registry. Predicates are
// pure and stateless; unlocks are recomputed from scratch every run.
type BadgeRule struct {
	Badge     model.Badge
	Predicate func(in *Input) bool
}

// badgeRegistry is the fixed rule table. Each predicate is evaluated in
// isolation: a panicking rule is logged and treated as not unlocked
// without affecting the rest.
var badgeRegistry = []BadgeRule{
	{
		Badge:     model.Badge{ID: "first_words", Name: "First Words", Description: "Exchanged the very first message", Rarity: model.RarityCommon, Category: "milestone"},
		Predicate: func(in *Input) bool { return len(in.Messages) >= 1 },
	},
	{
		Badge:     model.Badge{ID: "century", Name: "Century", Description: "100 messages exchanged", Rarity: model.RarityCommon, Category: "milestone"},
		Predicate: func(in *Input) bool { return len(in.Messages) >= 100 },
	},
	{
		Badge:     model.Badge{ID: "chatterbox", Name: "Chatterbox", Description: "1,000 messages exchanged", Rarity: model.RarityRare, Category: "milestone"},
		Predicate: func(in *Input) bool { return len(in.Messages) >= 1000 },
	},
	{
		Badge:     model.Badge{ID: "message_marathon", Name: "Message Marathon", Description: "10,000 messages exchanged", Rarity: model.RarityEpic, Category: "milestone"},
		Predicate: func(in *Input) bool { return len(in.Messages) >= 10000 },
	},
	{
		Badge:     model.Badge{ID: "anniversary", Name: "Anniversary", Description: "A full year of conversation", Rarity: model.RarityEpic, Category: "milestone"},
		Predicate: func(in *Input) bool { return elapsedDays(in) >= 365 },
	},
	{
		Badge:     model.Badge{ID: "week_streak", Name: "Week Streak", Description: "Seven consecutive active days", Rarity: model.RarityCommon, Category: "activity"},
		Predicate: func(in *Input) bool { return longestStreakDays(in) >= 7 },
	},
	{
		Badge:     model.Badge{ID: "month_streak", Name: "Monthly Devotion", Description: "Thirty consecutive active days", Rarity: model.RarityEpic, Category: "activity"},
		Predicate: func(in *Input) bool { return longestStreakDays(in) >= 30 },
	},
	{
		Badge:     model.Badge{ID: "unbreakable", Name: "Unbreakable", Description: "One hundred consecutive active days", Rarity: model.RarityLegendary, Category: "activity"},
		Predicate: func(in *Input) bool { return longestStreakDays(in) >= 100 },
	},
	{
		Badge:     model.Badge{ID: "night_owl", Name: "Night Owl", Description: "Most messages land between midnight and 5am", Rarity: model.RarityRare, Category: "activity"},
		Predicate: func(in *Input) bool { h := topHour(in); return h >= 0 && h < 5 },
	},
	{
		Badge:     model.Badge{ID: "early_bird", Name: "Early Bird", Description: "Most messages land between 5am and 9am", Rarity: model.RarityRare, Category: "activity"},
		Predicate: func(in *Input) bool { h := topHour(in); return h >= 5 && h < 9 },
	},
	{
		Badge:     model.Badge{ID: "question_master", Name: "Question Master", Description: "Fifty questions asked", Rarity: model.RarityCommon, Category: "activity"},
		Predicate: func(in *Input) bool { return countContaining(in, "?") >= 50 },
	},
	{
		Badge:     model.Badge{ID: "emoji_enthusiast", Name: "Emoji Enthusiast", Description: "Emojis in at least one message out of ten", Rarity: model.RarityCommon, Category: "activity"},
		Predicate: emojiEnthusiast,
	},
	{
		Badge:     model.Badge{ID: "daily_devotion", Name: "Daily Devotion", Description: "An active streak of a week or more, still running", Rarity: model.RarityRare, Category: "activity"},
		Predicate: func(in *Input) bool { sd := streakData(in); return sd.CurrentActive && sd.CurrentDays >= 7 },
	},
	{
		Badge:     model.Badge{ID: "speed_demon", Name: "Speed Demon", Description: "Typical replies arrive within five minutes", Rarity: model.RarityRare, Category: "quality"},
		Predicate: func(in *Input) bool { m, ok := overallMedianResponse(in.Analytics.ResponseTimes); return ok && m < 5 },
	},
	{
		Badge:     model.Badge{ID: "wordsmith", Name: "Wordsmith", Description: "Twenty words or more in an average message", Rarity: model.RarityRare, Category: "quality"},
		Predicate: wordsmith,
	},
	{
		Badge:     model.Badge{ID: "novelist", Name: "Novelist", Description: "A single message over 500 characters", Rarity: model.RarityRare, Category: "quality"},
		Predicate: func(in *Input) bool { return longestMessageChars(in) > 500 },
	},
	{
		Badge:     model.Badge{ID: "balanced_duo", Name: "Balanced Duo", Description: "Neither side dominates the conversation", Rarity: model.RarityRare, Category: "quality"},
		Predicate: func(in *Input) bool { return minorityShare(in.Stats) >= 45 },
	},
	{
		Badge:     model.Badge{ID: "drama_free", Name: "Drama Free", Description: "Fifty-plus messages without a hint of toxicity", Rarity: model.RarityRare, Category: "quality"},
		Predicate: func(in *Input) bool { return len(in.Messages) >= 50 && in.Sentiment.Toxicity.Level == model.ToxicityHealthy },
	},
	{
		Badge:     model.Badge{ID: "peacemaker", Name: "Peacemaker", Description: "Conflicts happen, and get repaired", Rarity: model.RarityEpic, Category: "quality"},
		Predicate: func(in *Input) bool {
			cr := in.Sentiment.ConflictResolution
			return cr.ConflictCount >= 3 && cr.Ratio >= 0.75
		},
	},
	{
		Badge:     model.Badge{ID: "positive_vibes", Name: "Positive Vibes", Description: "More than 60% of messages are positive", Rarity: model.RarityCommon, Category: "emotion"},
		Predicate: func(in *Input) bool { return in.Sentiment.PositivePercent >= 60 },
	},
	{
		Badge:     model.Badge{ID: "love_birds", Name: "Love Birds", Description: "Affection is practically the default register", Rarity: model.RarityEpic, Category: "emotion"},
		Predicate: func(in *Input) bool { return in.Sentiment.AffectionLevel >= 80 },
	},
	{
		Badge:     model.Badge{ID: "grateful_heart", Name: "Grateful Heart", Description: "Gratitude expressed in ten or more messages", Rarity: model.RarityCommon, Category: "emotion"},
		Predicate: func(in *Input) bool { return in.Sentiment.EmotionBreakdown[model.EmotionGratitude] >= 10 },
	},
	{
		Badge:     model.Badge{ID: "deep_talker", Name: "Deep Talker", Description: "Five messages carrying three or more emotions at once", Rarity: model.RarityRare, Category: "emotion"},
		Predicate: deepTalker,
	},
	{
		Badge:     model.Badge{ID: "happy_place", Name: "Happy Place", Description: "Joy tops the emotion charts", Rarity: model.RarityCommon, Category: "emotion"},
		Predicate: func(in *Input) bool {
			return len(in.Sentiment.TopEmotions) > 0 && in.Sentiment.TopEmotions[0].Emotion == model.EmotionJoy
		},
	},
	{
		Badge:     model.Badge{ID: "synchronized", Name: "Synchronized", Description: "Both sides mirror each other's emotions", Rarity: model.RarityEpic, Category: "emotion"},
		Predicate: func(in *Input) bool { return in.Sentiment.EmotionSynchrony >= 90 },
	},
}

// evaluateBadges runs every registry predicate against the input,
// isolating failures per rule.
func (e *Engine) evaluateBadges(in *Input) []model.Badge {
	return runBadgeRules(badgeRegistry, in, e.logger)
}

// runBadgeRules is the generic evaluate-all runner. A predicate that
// panics is treated as not unlocked; the remaining rules still run.
func runBadgeRules(rules []BadgeRule, in *Input, logger *zap.Logger) []model.Badge {
	unlocked := make([]model.Badge, 0, len(rules))

	for _, rule := range rules {
		ok := func() (result bool) {
			defer func() {
				if r := recover(); r != nil {
					logger.Warn("badge predicate failed, treating as locked",
						zap.String("badge_id", rule.Badge.ID),
						zap.Any("panic", r),
					)
					result = false
				}
			}()
			return rule.Predicate(in)
		}()

		if ok {
			unlocked = append(unlocked, rule.Badge)
		}
	}
	return unlocked
}

func longestStreakDays(in *Input) int {
	if len(in.Analytics.Streaks) == 0 {
		return 0
	}
	return in.Analytics.Streaks[0].Days
}

func topHour(in *Input) int {
	best, bestCount := -1, 0
	for hour, count := range in.Analytics.PeakHours {
		if count > bestCount {
			best, bestCount = hour, count
		}
	}
	return best
}

func countContaining(in *Input, substr string) int {
	count := 0
	for _, msg := range in.Messages {
		if strings.Contains(msg.Text, substr) {
			count++
		}
	}
	return count
}

func longestMessageChars(in *Input) int {
	longest := 0
	for _, msg := range in.Messages {
		if len(msg.Text) > longest {
			longest = len(msg.Text)
		}
	}
	return longest
}

func emojiEnthusiast(in *Input) bool {
	if len(in.Messages) == 0 {
		return false
	}
	withEmoji := 0
	for _, msg := range in.Messages {
		for _, r := range msg.Text {
			if r >= 0x1F300 && r <= 0x1FAFF {
				withEmoji++
				break
			}
		}
	}
	return 10*withEmoji >= len(in.Messages)
}

func wordsmith(in *Input) bool {
	for _, s := range in.Stats {
		if s.AvgWordsPerMsg >= 20 {
			return true
		}
	}
	return false
}

func deepTalker(in *Input) bool {
	layered := 0
	for _, msg := range in.Messages {
		if msg.Sentiment != nil && msg.Sentiment.IsComplexEmotion {
			layered++
		}
	}
	return layered >= 5
}
