package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"

	"github.com/eliotalders0n/chatlens/pkg/model"
)

// PDFGenerator renders relationship analysis reports
type PDFGenerator struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewPDFGenerator creates a new PDFGenerator
func NewPDFGenerator(logger *zap.Logger) *PDFGenerator {
	return &PDFGenerator{
		logger: logger,
		now:    time.Now,
	}
}

// Generate creates a PDF report from a completed analysis run
func (g *PDFGenerator) Generate(run *model.AnalysisRun) ([]byte, error) {
	bundle := run.Bundle
	if bundle == nil {
		return nil, fmt.Errorf("analysis run %s has no bundle", run.ID)
	}
	g.logger.Info("generating PDF report",
		zap.String("run_id", run.ID),
		zap.Int("total_messages", bundle.Metadata.TotalMessages),
	)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)

	pdf.AddPage()

	g.addTitle(pdf, &bundle.Metadata)
	g.addRelationshipSummary(pdf, &bundle.Gamification)
	g.addSentimentSection(pdf, &bundle.Sentiment)
	g.addActivitySection(pdf, &bundle.Analytics, bundle.Stats)
	g.addBadgesSection(pdf, bundle.Gamification.Badges)
	g.addNarrative(pdf, bundle.Sentiment.Narrative)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		g.logger.Error("failed to generate PDF", zap.Error(err))
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	g.logger.Info("PDF report generated successfully",
		zap.Int("size_bytes", buf.Len()),
	)

	return buf.Bytes(), nil
}

// addTitle adds the report title and header information
func (g *PDFGenerator) addTitle(pdf *gofpdf.Fpdf, meta *model.ChatMetadata) {
	pdf.SetFont("Arial", "B", 20)
	pdf.CellFormat(0, 10, "Conversation Report", "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("Participants: %s", strings.Join(meta.Participants, ", ")), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("Period: %s - %s",
		meta.StartDate.Format("2006-01-02"), meta.EndDate.Format("2006-01-02")), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("Messages: %d", meta.TotalMessages), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("Generated: %s", g.now().Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")
	pdf.Ln(10)
}

// addSectionHeader adds a section header
func (g *PDFGenerator) addSectionHeader(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Arial", "B", 14)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(0, 10, title, "", 1, "L", true, 0, "")
	pdf.Ln(3)
	pdf.SetFont("Arial", "", 10)
}

// addRelationshipSummary adds the level, compatibility and health section
func (g *PDFGenerator) addRelationshipSummary(pdf *gofpdf.Fpdf, gamification *model.GamificationBundle) {
	g.addSectionHeader(pdf, "Relationship Summary")

	level := gamification.RelationshipLevel
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Level %.1f - %s", level.Level, level.Title), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 5, fmt.Sprintf("  %s", level.Description), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	compat := gamification.CompatibilityScore
	pdf.CellFormat(0, 6, fmt.Sprintf("Compatibility: %d/100 (%s)", compat.Score, compat.Tier), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("  Sentiment balance %.1f, synchrony %.1f, communication %.1f, affection %.1f, conflict handling %.1f",
		compat.SentimentBalance, compat.EmotionSynchrony, compat.CommunicationBalance, compat.AffectionLevel, compat.ConflictHandling), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	health := gamification.HealthScores
	pdf.CellFormat(0, 6, fmt.Sprintf("Health: %.0f overall (%s) - communication %.0f, emotional %.0f, engagement %.0f",
		health.Overall, health.Trend, health.Communication, health.Emotional, health.Engagement), "", 1, "L", false, 0, "")
	for _, rec := range health.Recommendations {
		pdf.CellFormat(0, 5, fmt.Sprintf("  - %s", rec), "", 1, "L", false, 0, "")
	}
	pdf.Ln(5)
}

// addSentimentSection adds the sentiment and emotion breakdown
func (g *PDFGenerator) addSentimentSection(pdf *gofpdf.Fpdf, sentiment *model.SentimentSummary) {
	g.addSectionHeader(pdf, "Sentiment")

	pdf.CellFormat(0, 6, fmt.Sprintf("Overall: %s (%.1f%% positive, %.1f%% negative, %.1f%% neutral)",
		sentiment.OverallSentiment, sentiment.PositivePercent, sentiment.NegativePercent, sentiment.NeutralPercent), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Communication health: %s", sentiment.CommunicationHealth), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Context: %s", sentiment.Context), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Toxicity: %s (%.1f%% flagged)", sentiment.Toxicity.Level, sentiment.Toxicity.Score), "", 1, "L", false, 0, "")

	if len(sentiment.TopEmotions) > 0 {
		parts := make([]string, 0, len(sentiment.TopEmotions))
		for _, ranked := range sentiment.TopEmotions {
			parts = append(parts, fmt.Sprintf("%s (%d)", ranked.Emotion, ranked.Count))
		}
		pdf.CellFormat(0, 6, fmt.Sprintf("Top emotions: %s", strings.Join(parts, ", ")), "", 1, "L", false, 0, "")
	}
	pdf.Ln(5)
}

// addActivitySection adds streaks, peak hour and per-sender activity
func (g *PDFGenerator) addActivitySection(pdf *gofpdf.Fpdf, analytics *model.AnalyticsBundle, stats []model.SenderStats) {
	g.addSectionHeader(pdf, "Activity")

	if len(analytics.Streaks) > 0 {
		longest := analytics.Streaks[0]
		pdf.CellFormat(0, 6, fmt.Sprintf("Longest streak: %d days (%s - %s)",
			longest.Days, longest.StartDate.Format("2006-01-02"), longest.EndDate.Format("2006-01-02")), "", 1, "L", false, 0, "")
	}

	peakHour, peakCount := 0, 0
	for hour, count := range analytics.PeakHours {
		if count > peakCount {
			peakHour, peakCount = hour, count
		}
	}
	if peakCount > 0 {
		pdf.CellFormat(0, 6, fmt.Sprintf("Most active hour: %02d:00 (%d messages)", peakHour, peakCount), "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	for _, s := range stats {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 6, s.Sender, "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 5, fmt.Sprintf("  %d messages (%.1f%%), avg %.0f characters",
			s.MessageCount, s.Share, s.AvgMessageLength), "", 1, "L", false, 0, "")
		if rt, ok := analytics.ResponseTimes[s.Sender]; ok {
			pdf.CellFormat(0, 5, fmt.Sprintf("  replies in %.0f min (median)", rt.MedianMinutes), "", 1, "L", false, 0, "")
		}
		pdf.Ln(1)
	}
	pdf.Ln(5)
}

// addBadgesSection adds unlocked badges
func (g *PDFGenerator) addBadgesSection(pdf *gofpdf.Fpdf, badges []model.Badge) {
	g.addSectionHeader(pdf, "Badges")

	if len(badges) == 0 {
		pdf.CellFormat(0, 8, "No badges unlocked yet.", "", 1, "L", false, 0, "")
		pdf.Ln(5)
		return
	}

	for _, badge := range badges {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 6, fmt.Sprintf("%s (%s)", badge.Name, badge.Rarity), "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 5, fmt.Sprintf("  %s", badge.Description), "", 1, "L", false, 0, "")
	}
	pdf.Ln(5)
}

// addNarrative adds the optional enrichment narrative
func (g *PDFGenerator) addNarrative(pdf *gofpdf.Fpdf, narrative string) {
	if narrative == "" {
		return
	}

	g.addSectionHeader(pdf, "Narrative")
	pdf.MultiCell(0, 5, narrative, "", "L", false)
	pdf.Ln(5)
}
