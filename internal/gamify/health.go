package gamify

import (
	"time"

	"github.com/eliotalders0n/chatlens/pkg/model"
)

// streakCurrencyWindow is how long after the last message a streak still
// counts as ongoing.
const streakCurrencyWindow = 48 * time.Hour

// healthScores computes the three 0-100 sub-scores and their unweighted
// average. The trend label is a pure band of the overall score, so the
// same input always produces the same trend.
func healthScores(in *Input) model.HealthScores {
	longest := float64(longestStreakDays(in))
	elapsed := float64(elapsedDays(in))

	communication := 40*(longest/elapsed) +
		30*(balanceScore(in.Stats)/10) +
		30*(responseQualityScore(in.Analytics.ResponseTimes)/10)

	emotional := emotionalScore(in)

	engagement := 80 * minFloat(1, messagesPerDay(in)/50)
	if longest >= 7 {
		engagement += 20
	}

	communication = clamp(round1(communication), 0, 100)
	emotional = clamp(round1(emotional), 0, 100)
	engagement = clamp(round1(engagement), 0, 100)
	overall := round1((communication + emotional + engagement) / 3)

	return model.HealthScores{
		Communication:   communication,
		Emotional:       emotional,
		Engagement:      engagement,
		Overall:         overall,
		Trend:           healthTrend(overall),
		Recommendations: recommendations(communication, emotional, engagement),
	}
}

// emotionalScore rewards positivity and emotional range. The range bonus
// caps at 30 so a wide vocabulary cannot mask a negative corpus.
func emotionalScore(in *Input) float64 {
	distinct := 0
	for _, count := range in.Sentiment.EmotionBreakdown {
		if count > 0 {
			distinct++
		}
	}

	score := 0.6*in.Sentiment.PositivePercent +
		minFloat(30, float64(distinct)*4) +
		10 // baseline stability credit

	return minFloat(100, score)
}

func healthTrend(overall float64) string {
	switch {
	case overall >= 70:
		return "improving"
	case overall >= 50:
		return "stable"
	default:
		return "needs_attention"
	}
}

// recommendations names the weakest sub-score. Scores above 70 across
// the board need no advice.
func recommendations(communication, emotional, engagement float64) []string {
	weakest, label := communication, "communication"
	if emotional < weakest {
		weakest, label = emotional, "emotional"
	}
	if engagement < weakest {
		weakest, label = engagement, "engagement"
	}
	if weakest >= 70 {
		return nil
	}

	switch label {
	case "communication":
		return []string{"Reply a little sooner and keep the exchange two-sided to strengthen communication."}
	case "emotional":
		return []string{"Share more positive moments; the emotional tone of the conversation is trending flat."}
	default:
		return []string{"Message more regularly to keep the conversation engaged."}
	}
}

// streakData reports streak standing at evaluation time. The current
// streak is the run ending at the last active day, and it only counts as
// ongoing while the last message is within the currency window of Now.
func streakData(in *Input) model.StreakData {
	sd := model.StreakData{
		TotalActiveDays: len(in.Analytics.ActiveDays),
		LongestDays:     longestStreakDays(in),
	}
	if len(in.Analytics.ActiveDays) == 0 {
		return sd
	}

	lastActive := in.Analytics.ActiveDays[len(in.Analytics.ActiveDays)-1]
	for _, streak := range in.Analytics.Streaks {
		if streak.EndDate.Equal(lastActive) {
			sd.CurrentDays = streak.Days
			break
		}
	}

	sd.CurrentActive = in.Now.Sub(in.Metadata.EndDate) <= streakCurrencyWindow
	return sd
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
