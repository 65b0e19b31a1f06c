package gamify

import (
	"math"

	"github.com/eliotalders0n/chatlens/pkg/model"
)

// Sub-score weights for the relationship level
const (
	weightFrequency  = 0.25
	weightPositivity = 0.30
	weightEngagement = 0.25
	weightResolution = 0.20
)

// levelLadder maps the integer part of the level onto its title band
var levelLadder = []struct {
	Title       string
	Description string
}{
	{"New Acquaintances", "The conversation is just getting started."},
	{"Breaking the Ice", "First real exchanges are happening."},
	{"Casual Connection", "A comfortable rhythm is forming."},
	{"Regular Contacts", "You check in with each other often."},
	{"Good Friends", "A steady, friendly back-and-forth."},
	{"Close Companions", "Conversations come easily and often."},
	{"Trusted Confidants", "You share the good days and the bad ones."},
	{"Inseparable Duo", "Barely a day passes without a message."},
	{"Kindred Spirits", "The connection runs deep on both sides."},
	{"Soul Connection", "A rare bond most conversations never reach."},
}

// relationshipLevel computes the continuous 1-10 level from four 0-10
// sub-scores, rounded to the nearest half step.
func (e *Engine) relationshipLevel(in *Input) model.RelationshipLevel {
	frequency := frequencyScore(messagesPerDay(in))
	positivity := clamp(in.Sentiment.PositivePercent/10, 0, 10)
	engagement := (balanceScore(in.Stats) + responseQualityScore(in.Analytics.ResponseTimes)) / 2
	resolution := math.Min(1, in.Sentiment.ConflictResolution.Ratio*1.5) * 10

	raw := weightFrequency*frequency +
		weightPositivity*positivity +
		weightEngagement*engagement +
		weightResolution*resolution

	level := clamp(roundHalf(raw), 1, 10)

	band := int(math.Floor(level)) - 1
	if band < 0 {
		band = 0
	}
	if band >= len(levelLadder) {
		band = len(levelLadder) - 1
	}

	return model.RelationshipLevel{
		Level:       level,
		Title:       levelLadder[band].Title,
		Description: levelLadder[band].Description,
		Frequency:   round1(frequency),
		Positivity:  round1(positivity),
		Engagement:  round1(engagement),
		Resolution:  round1(resolution),
	}
}

// frequencyScore is the piecewise curve over messages per day:
// linear 0-5 up to 5/day, 5-8 over 6-10/day, 8-9 over 11-20/day, and
// capped at 10 above 20/day.
func frequencyScore(perDay float64) float64 {
	switch {
	case perDay <= 5:
		return perDay
	case perDay <= 10:
		return 5 + (perDay-5)*0.6
	case perDay <= 20:
		return 8 + (perDay-10)*0.1
	default:
		return math.Min(10, 9+(perDay-20)*0.1)
	}
}
