package model

import "time"

// ChatFormat identifies the source export format of a transcript
type ChatFormat string

const (
	ChatFormatPlain ChatFormat = "plain-export"
	ChatFormatJSON  ChatFormat = "json"
	ChatFormatPDF   ChatFormat = "pdf-extracted-text"
)

// DateFormat is the resolved day/month ordering of a plain-text export
type DateFormat string

const (
	DateFormatDMY DateFormat = "DMY"
	DateFormatMDY DateFormat = "MDY"
)

// EmotionCategory is one of the twelve fixed emotion categories
type EmotionCategory string

// Emotion categories in declaration order. The order is load-bearing:
// ties between equally-scored categories are broken by it.
const (
	EmotionJoy        EmotionCategory = "joy"
	EmotionAffection  EmotionCategory = "affection"
	EmotionGratitude  EmotionCategory = "gratitude"
	EmotionExcitement EmotionCategory = "excitement"
	EmotionTrust      EmotionCategory = "trust"
	EmotionPride      EmotionCategory = "pride"
	EmotionSadness    EmotionCategory = "sadness"
	EmotionAnger      EmotionCategory = "anger"
	EmotionAnxiety    EmotionCategory = "anxiety"
	EmotionApology    EmotionCategory = "apology"
	EmotionBetrayal   EmotionCategory = "betrayal"
	EmotionShame      EmotionCategory = "shame"
)

// EmotionCategories lists all categories in declaration (tie-break) order
var EmotionCategories = []EmotionCategory{
	EmotionJoy, EmotionAffection, EmotionGratitude, EmotionExcitement,
	EmotionTrust, EmotionPride, EmotionSadness, EmotionAnger,
	EmotionAnxiety, EmotionApology, EmotionBetrayal, EmotionShame,
}

// PositiveEmotions and NegativeEmotions split the twelve categories into
// the two clusters used for the overall sentiment label.
var (
	PositiveEmotions = []EmotionCategory{
		EmotionJoy, EmotionAffection, EmotionGratitude,
		EmotionExcitement, EmotionTrust, EmotionPride,
	}
	NegativeEmotions = []EmotionCategory{
		EmotionSadness, EmotionAnger, EmotionAnxiety,
		EmotionApology, EmotionBetrayal, EmotionShame,
	}
)

// SentimentLabel is the per-message overall sentiment
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNegative SentimentLabel = "negative"
	SentimentNeutral  SentimentLabel = "neutral"
)

// Sentiment is the per-message emotion score vector with its derived label
type Sentiment struct {
	Scores              map[EmotionCategory]int `json:"scores,omitempty"`
	Label               SentimentLabel          `json:"label"`
	Primary             EmotionCategory         `json:"primary,omitempty"`
	Secondary           []EmotionCategory       `json:"secondary,omitempty"`
	EmotionalComplexity int                     `json:"emotional_complexity"`
	IsComplexEmotion    bool                    `json:"is_complex_emotion"`
	Confidence          float64                 `json:"confidence"`
}

// Message is a canonical, format-independent transcript record.
// Created by the parser, enriched in place by the classifier, and
// immutable afterwards.
type Message struct {
	Sender             string     `json:"sender"`
	Text               string     `json:"text"`
	Timestamp          time.Time  `json:"timestamp"`
	Sentiment          *Sentiment `json:"sentiment,omitempty"`
	Emotions           []string   `json:"emotions,omitempty"`
	CommunicationStyle string     `json:"communication_style,omitempty"`
}

// ChatMetadata describes a parsed transcript as a whole
type ChatMetadata struct {
	Participants      []string   `json:"participants"`
	TotalMessages     int        `json:"total_messages"`
	StartDate         time.Time  `json:"start_date"`
	EndDate           time.Time  `json:"end_date"`
	Format            ChatFormat `json:"format"`
	DateFormat        DateFormat `json:"date_format,omitempty"`
	DateFormatAssumed bool       `json:"date_format_assumed,omitempty"`
}

// SenderStats is a per-participant aggregate, derived once and never mutated
type SenderStats struct {
	Sender           string  `json:"sender"`
	MessageCount     int     `json:"message_count"`
	CharacterCount   int     `json:"character_count"`
	WordCount        int     `json:"word_count"`
	AvgMessageLength float64 `json:"avg_message_length"`
	AvgWordsPerMsg   float64 `json:"avg_words_per_msg"`
	Share            float64 `json:"share"` // percentage of total messages
}

// WordFrequency is a word and how often it appears across the corpus
type WordFrequency struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// Streak is a maximal run of consecutive active calendar days
type Streak struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Days      int       `json:"days"`
}

// Silence is a gap between two active days meeting the silence threshold
type Silence struct {
	LastActive time.Time `json:"last_active"`
	NextActive time.Time `json:"next_active"`
	GapDays    int       `json:"gap_days"`
}

// ResponseTimeStats summarises one sender's reply latency in minutes
type ResponseTimeStats struct {
	Sender        string  `json:"sender"`
	SampleCount   int     `json:"sample_count"`
	MeanMinutes   float64 `json:"mean_minutes"`
	MedianMinutes float64 `json:"median_minutes"`
}

// EngagementPoint is one bucket of the engagement timeline
type EngagementPoint struct {
	Period        string `json:"period"` // YYYY-MM-DD for daily, YYYY-Www for weekly
	MessageCount  int    `json:"message_count"`
	Score         int    `json:"score"`
	ActiveSenders int    `json:"active_senders"`
}

// AnalyticsBundle is the behavioral-analytics stage output, a pure
// derivation from the canonical messages.
type AnalyticsBundle struct {
	WordFrequency      []WordFrequency              `json:"word_frequency"`
	ActiveDays         []time.Time                  `json:"active_days"`
	Streaks            []Streak                     `json:"streaks"`
	Silences           []Silence                    `json:"silences"`
	PeakHours          [24]int                      `json:"peak_hours"`
	EngagementTimeline []EngagementPoint            `json:"engagement_timeline"`
	ResponseTimes      map[string]ResponseTimeStats `json:"response_times"`
}

// CommunicationHealth is the five-band health enum
type CommunicationHealth string

const (
	HealthCritical       CommunicationHealth = "critical"
	HealthNeedsAttention CommunicationHealth = "needs_attention"
	HealthModerate       CommunicationHealth = "moderate"
	HealthHealthy        CommunicationHealth = "healthy"
	HealthExcellent      CommunicationHealth = "excellent"
)

// ToxicityLevel is the banded corpus toxicity classification
type ToxicityLevel string

const (
	ToxicityHealthy        ToxicityLevel = "healthy"
	ToxicityModerate       ToxicityLevel = "moderate"
	ToxicityNeedsAttention ToxicityLevel = "needs_attention"
	ToxicityConcerning     ToxicityLevel = "concerning"
)

// Toxicity is the corpus-level toxicity summary
type Toxicity struct {
	Score        float64        `json:"score"` // percentage of flagged messages
	Level        ToxicityLevel  `json:"level"`
	FlaggedCount int            `json:"flagged_count"`
	CategoryHits map[string]int `json:"category_hits,omitempty"`
}

// RankedEmotion is an emotion with its corpus-wide count
type RankedEmotion struct {
	Emotion EmotionCategory `json:"emotion"`
	Count   int             `json:"count"`
}

// ConflictResolution summarises how conflicts in the corpus were repaired
type ConflictResolution struct {
	ConflictCount int      `json:"conflict_count"`
	ResolvedCount int      `json:"resolved_count"`
	Ratio         float64  `json:"ratio"`
	Patterns      []string `json:"patterns,omitempty"`
}

// SentimentSummary is the corpus-level classifier output. PreAlignment is
// populated by the alignment layer with the independent values it replaced.
type SentimentSummary struct {
	PositivePercent     float64                 `json:"positive_percent"`
	NegativePercent     float64                 `json:"negative_percent"`
	NeutralPercent      float64                 `json:"neutral_percent"`
	OverallSentiment    string                  `json:"overall_sentiment"`
	TopEmotions         []RankedEmotion         `json:"top_emotions"`
	EmotionBreakdown    map[EmotionCategory]int `json:"emotion_breakdown"`
	CommunicationHealth CommunicationHealth     `json:"communication_health"`
	Context             string                  `json:"context"`
	Toxicity            Toxicity                `json:"toxicity"`
	AffectionLevel      float64                 `json:"affection_level"`   // 0-100
	EmotionSynchrony    float64                 `json:"emotion_synchrony"` // 0-100
	ConflictResolution  ConflictResolution      `json:"conflict_resolution"`
	Narrative           string                  `json:"narrative,omitempty"` // optional enrichment overlay
	PreAlignment        *AlignmentSnapshot      `json:"pre_alignment,omitempty"`
}

// AlignmentSnapshot preserves the independently-computed labels that the
// alignment layer remapped, so both remain inspectable.
type AlignmentSnapshot struct {
	OverallSentiment    string              `json:"overall_sentiment"`
	CommunicationHealth CommunicationHealth `json:"communication_health"`
}

// RelationshipLevel is the 1-10 composite level with its sub-scores
type RelationshipLevel struct {
	Level       float64 `json:"level"` // 1-10, half-step rounded
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Frequency   float64 `json:"frequency"`   // 0-10
	Positivity  float64 `json:"positivity"`  // 0-10
	Engagement  float64 `json:"engagement"`  // 0-10
	Resolution  float64 `json:"resolution"`  // 0-10
}

// CompatibilityScore is the 0-100 composite with its five components
type CompatibilityScore struct {
	Score                int     `json:"score"`
	Tier                 string  `json:"tier"`
	SentimentBalance     float64 `json:"sentiment_balance"`     // max 30
	EmotionSynchrony     float64 `json:"emotion_synchrony"`     // max 25
	CommunicationBalance float64 `json:"communication_balance"` // max 20
	AffectionLevel       float64 `json:"affection_level"`       // max 15
	ConflictHandling     float64 `json:"conflict_handling"`     // max 10
}

// BadgeRarity classifies how hard a badge is to unlock
type BadgeRarity string

const (
	RarityCommon    BadgeRarity = "common"
	RarityRare      BadgeRarity = "rare"
	RarityEpic      BadgeRarity = "epic"
	RarityLegendary BadgeRarity = "legendary"
)

// Badge is an unlocked achievement
type Badge struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Rarity      BadgeRarity `json:"rarity"`
	Category    string      `json:"category"`
}

// Milestone is a threshold that has been met
type Milestone struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Threshold   int    `json:"threshold"`
	Kind        string `json:"kind"` // messages, days, streak
}

// HealthScores holds the three 0-100 sub-scores and their average
type HealthScores struct {
	Communication   float64  `json:"communication"`
	Emotional       float64  `json:"emotional"`
	Engagement      float64  `json:"engagement"`
	Overall         float64  `json:"overall"`
	Trend           string   `json:"trend"` // improving, stable, needs_attention
	Recommendations []string `json:"recommendations,omitempty"`
}

// StreakData reports streak standing at evaluation time
type StreakData struct {
	CurrentDays     int  `json:"current_days"`
	LongestDays     int  `json:"longest_days"`
	TotalActiveDays int  `json:"total_active_days"`
	CurrentActive   bool `json:"current_active"`
}

// GamificationBundle is the gamification-engine output
type GamificationBundle struct {
	RelationshipLevel  RelationshipLevel  `json:"relationship_level"`
	CompatibilityScore CompatibilityScore `json:"compatibility_score"`
	Badges             []Badge            `json:"badges"`
	Milestones         []Milestone        `json:"milestones"`
	HealthScores       HealthScores       `json:"health_scores"`
	StreakData         StreakData         `json:"streak_data"`
}

// AnalysisBundle is the single serializable output contract consumed by
// the presentation layer.
type AnalysisBundle struct {
	Messages     []Message          `json:"messages"`
	Metadata     ChatMetadata       `json:"metadata"`
	Stats        []SenderStats      `json:"stats"`
	Analytics    AnalyticsBundle    `json:"analytics"`
	Sentiment    SentimentSummary   `json:"sentiment"`
	Gamification GamificationBundle `json:"gamification"`
}

// AnalysisRun is a persisted record of one completed analysis
type AnalysisRun struct {
	ID          string          `json:"id"`
	Filename    string          `json:"filename"`
	Format      ChatFormat      `json:"format"`
	Bundle      *AnalysisBundle `json:"bundle,omitempty"`
	RawBlobPath *string         `json:"raw_blob_path,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Report is a generated relationship report
type Report struct {
	ID          string    `json:"id"`
	RunID       string    `json:"run_id"`
	BlobPath    string    `json:"blob_path"`
	GeneratedAt time.Time `json:"generated_at"`
}
