package analytics

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/eliotalders0n/chatlens/pkg/model"
	"go.uber.org/zap"
)

// Engine derives behavioral analytics from classified messages. All
// derivations are pure functions of the message slice.
type Engine struct {
	logger               *zap.Logger
	silenceThresholdDays int
	responseCutoff       time.Duration
}

// NewEngine creates a new analytics Engine
func NewEngine(silenceThresholdDays int, responseCutoffHours int, logger *zap.Logger) *Engine {
	if silenceThresholdDays < 1 {
		silenceThresholdDays = 3
	}
	if responseCutoffHours < 1 {
		responseCutoffHours = 24
	}
	return &Engine{
		logger:               logger,
		silenceThresholdDays: silenceThresholdDays,
		responseCutoff:       time.Duration(responseCutoffHours) * time.Hour,
	}
}

// Analyze computes the full analytics bundle
func (e *Engine) Analyze(messages []model.Message) model.AnalyticsBundle {
	streaks, silences := e.streaksAndSilences(messages)

	bundle := model.AnalyticsBundle{
		WordFrequency:      wordFrequency(messages, 20),
		ActiveDays:         ActiveDays(messages),
		Streaks:            streaks,
		Silences:           silences,
		PeakHours:          peakHours(messages),
		EngagementTimeline: e.engagementTimeline(messages),
		ResponseTimes:      e.responseTimes(messages),
	}

	e.logger.Info("analytics computed",
		zap.Int("streaks", len(bundle.Streaks)),
		zap.Int("silences", len(bundle.Silences)),
		zap.Int("timeline_points", len(bundle.EngagementTimeline)),
	)

	return bundle
}

// ActiveDays returns the sorted set of distinct calendar days with at least
// one message.
func ActiveDays(messages []model.Message) []time.Time {
	seen := make(map[string]time.Time)
	for _, msg := range messages {
		day := time.Date(msg.Timestamp.Year(), msg.Timestamp.Month(), msg.Timestamp.Day(), 0, 0, 0, 0, msg.Timestamp.Location())
		seen[day.Format("2006-01-02")] = day
	}

	days := make([]time.Time, 0, len(seen))
	for _, day := range seen {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

// streaksAndSilences reduces messages to distinct active days and walks
// them once: consecutive days merge into streaks, gaps at or above the
// threshold surface as silences. Every gap between consecutive active days
// belongs to exactly one span.
func (e *Engine) streaksAndSilences(messages []model.Message) ([]model.Streak, []model.Silence) {
	days := ActiveDays(messages)
	if len(days) == 0 {
		return nil, nil
	}

	var streaks []model.Streak
	var silences []model.Silence

	start := days[0]
	prev := days[0]

	for _, day := range days[1:] {
		gap := dayGap(prev, day)
		if gap == 1 {
			prev = day
			continue
		}

		streaks = append(streaks, model.Streak{
			StartDate: start,
			EndDate:   prev,
			Days:      dayGap(start, prev) + 1,
		})
		if gap >= e.silenceThresholdDays {
			silences = append(silences, model.Silence{
				LastActive: prev,
				NextActive: day,
				GapDays:    gap,
			})
		}
		start, prev = day, day
	}
	streaks = append(streaks, model.Streak{
		StartDate: start,
		EndDate:   prev,
		Days:      dayGap(start, prev) + 1,
	})

	sort.SliceStable(streaks, func(i, j int) bool { return streaks[i].Days > streaks[j].Days })
	sort.SliceStable(silences, func(i, j int) bool { return silences[i].GapDays > silences[j].GapDays })

	return streaks, silences
}

// dayGap returns the whole-day distance between two midnight-normalized days
func dayGap(a, b time.Time) int {
	return int(math.Round(b.Sub(a).Hours() / 24))
}

// peakHours builds the 24-bucket hour-of-day histogram, independent of
// calendar date.
func peakHours(messages []model.Message) [24]int {
	var buckets [24]int
	for _, msg := range messages {
		buckets[msg.Timestamp.Hour()]++
	}
	return buckets
}

// responseTimes collects reply latencies per sender. An adjacent pair with
// differing senders counts as a response unless the gap exceeds the cutoff,
// which marks a new conversation instead.
func (e *Engine) responseTimes(messages []model.Message) map[string]model.ResponseTimeStats {
	samples := make(map[string][]float64)

	for i := 1; i < len(messages); i++ {
		prev, cur := messages[i-1], messages[i]
		if prev.Sender == cur.Sender {
			continue
		}
		elapsed := cur.Timestamp.Sub(prev.Timestamp)
		if elapsed < 0 || elapsed > e.responseCutoff {
			continue
		}
		samples[cur.Sender] = append(samples[cur.Sender], elapsed.Minutes())
	}

	stats := make(map[string]model.ResponseTimeStats, len(samples))
	for sender, values := range samples {
		stats[sender] = model.ResponseTimeStats{
			Sender:        sender,
			SampleCount:   len(values),
			MeanMinutes:   round1(mean(values)),
			MedianMinutes: round1(median(values)),
		}
	}
	return stats
}

// engagementTimeline groups messages by day (or ISO week past 60 active
// days) and scores each bucket as
// 0.4*count + 0.3*(chars/10) + 0.3*(uniqueSenders*10).
func (e *Engine) engagementTimeline(messages []model.Message) []model.EngagementPoint {
	weekly := len(ActiveDays(messages)) > 60

	type bucket struct {
		count   int
		chars   int
		senders map[string]bool
	}
	buckets := make(map[string]*bucket)

	for _, msg := range messages {
		var key string
		if weekly {
			year, week := msg.Timestamp.ISOWeek()
			key = isoWeekKey(year, week)
		} else {
			key = msg.Timestamp.Format("2006-01-02")
		}

		b := buckets[key]
		if b == nil {
			b = &bucket{senders: make(map[string]bool)}
			buckets[key] = b
		}
		b.count++
		b.chars += len(msg.Text)
		b.senders[msg.Sender] = true
	}

	keys := make([]string, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	points := make([]model.EngagementPoint, 0, len(keys))
	for _, key := range keys {
		b := buckets[key]
		score := 0.4*float64(b.count) + 0.3*(float64(b.chars)/10) + 0.3*(float64(len(b.senders))*10)
		points = append(points, model.EngagementPoint{
			Period:        key,
			MessageCount:  b.count,
			Score:         int(math.Round(score)),
			ActiveSenders: len(b.senders),
		})
	}
	return points
}

func isoWeekKey(year, week int) string {
	return fmt.Sprintf("%04d-W%02d", year, week)
}

// stopWords are excluded from the word-frequency ranking
var stopWords = map[string]bool{
	"the": true, "and": true, "you": true, "for": true, "that": true,
	"this": true, "with": true, "are": true, "was": true, "but": true,
	"not": true, "have": true, "its": true, "it's": true, "your": true,
	"just": true, "what": true, "all": true, "can": true, "will": true,
}

// wordFrequency ranks the most common words of at least three characters
func wordFrequency(messages []model.Message, limit int) []model.WordFrequency {
	counts := make(map[string]int)
	for _, msg := range messages {
		for _, word := range strings.Fields(strings.ToLower(msg.Text)) {
			word = strings.Trim(word, ".,!?;:\"'()[]")
			if len(word) < 3 || stopWords[word] {
				continue
			}
			counts[word]++
		}
	}

	ranked := make([]model.WordFrequency, 0, len(counts))
	for word, count := range counts {
		ranked = append(ranked, model.WordFrequency{Word: word, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Word < ranked[j].Word
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// SenderStats derives per-participant aggregates from the messages
func SenderStats(messages []model.Message) []model.SenderStats {
	type agg struct {
		count int
		chars int
		words int
	}
	bySender := make(map[string]*agg)
	var order []string

	for _, msg := range messages {
		a := bySender[msg.Sender]
		if a == nil {
			a = &agg{}
			bySender[msg.Sender] = a
			order = append(order, msg.Sender)
		}
		a.count++
		a.chars += len(msg.Text)
		a.words += len(strings.Fields(msg.Text))
	}

	total := len(messages)
	stats := make([]model.SenderStats, 0, len(order))
	for _, sender := range order {
		a := bySender[sender]
		stats = append(stats, model.SenderStats{
			Sender:           sender,
			MessageCount:     a.count,
			CharacterCount:   a.chars,
			WordCount:        a.words,
			AvgMessageLength: round1(float64(a.chars) / float64(a.count)),
			AvgWordsPerMsg:   round1(float64(a.words) / float64(a.count)),
			Share:            round1(100 * float64(a.count) / float64(total)),
		})
	}
	return stats
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
