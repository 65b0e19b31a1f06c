package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eliotalders0n/chatlens/internal/ai"
	"github.com/eliotalders0n/chatlens/internal/align"
	"github.com/eliotalders0n/chatlens/internal/analytics"
	"github.com/eliotalders0n/chatlens/internal/classifier"
	"github.com/eliotalders0n/chatlens/internal/gamify"
	"github.com/eliotalders0n/chatlens/internal/parser"
	"github.com/eliotalders0n/chatlens/internal/storage"
	"github.com/eliotalders0n/chatlens/pkg/model"
)

// AnalysisStore is the persistence surface the services need
type AnalysisStore interface {
	CreateRun(ctx context.Context, run *model.AnalysisRun) error
	GetRun(ctx context.Context, runID string) (*model.AnalysisRun, error)
	ListRuns(ctx context.Context, limit int) ([]model.AnalysisRun, error)
	CreateReport(ctx context.Context, report *model.Report) error
}

// enrichSampleSize caps how many recent messages get a per-message
// enrichment pass.
const enrichSampleSize = 10

// AnalysisService orchestrates the full pipeline: parse, classify,
// analyze, gamify, align, optionally enrich, then persist and archive.
type AnalysisService struct {
	parser          *parser.Parser
	classifier      *classifier.Classifier
	analytics       *analytics.Engine
	gamify          *gamify.Engine
	aligner         *align.Aligner
	enricher        *ai.Enricher
	store           AnalysisStore
	blobClient      storage.BlobStorage
	logger          *zap.Logger
	classifyTimeout time.Duration
	now             func() time.Time
}

// NewAnalysisService creates a new AnalysisService. enricher and
// blobClient are optional; pass nil to run without enrichment or archival.
func NewAnalysisService(
	p *parser.Parser,
	c *classifier.Classifier,
	a *analytics.Engine,
	g *gamify.Engine,
	aligner *align.Aligner,
	enricher *ai.Enricher,
	store AnalysisStore,
	blobClient storage.BlobStorage,
	classifyTimeout time.Duration,
	logger *zap.Logger,
) *AnalysisService {
	if classifyTimeout <= 0 {
		classifyTimeout = 2 * time.Minute
	}
	return &AnalysisService{
		parser:          p,
		classifier:      c,
		analytics:       a,
		gamify:          g,
		aligner:         aligner,
		enricher:        enricher,
		store:           store,
		blobClient:      blobClient,
		logger:          logger,
		classifyTimeout: classifyTimeout,
		now:             time.Now,
	}
}

// Analyze runs the whole pipeline over a raw chat export and persists the
// completed run. The returned run always carries a complete bundle; a
// failed stage fails the whole analysis rather than returning partials.
func (s *AnalysisService) Analyze(ctx context.Context, filename, content string, hint model.ChatFormat) (*model.AnalysisRun, error) {
	startTime := s.now()

	result, err := s.parser.Parse(content, hint)
	if err != nil {
		return nil, fmt.Errorf("could not parse this file: %w", err)
	}

	messages, err := s.classifyWithTimeout(ctx, result.Messages)
	if err != nil {
		return nil, err
	}

	stats := analytics.SenderStats(messages)
	analyticsBundle := s.analytics.Analyze(messages)
	summary := s.classifier.Summarize(messages)

	gamification := s.gamify.Build(&gamify.Input{
		Metadata:  result.Metadata,
		Messages:  messages,
		Stats:     stats,
		Analytics: analyticsBundle,
		Sentiment: summary,
		Now:       s.now(),
	})

	aligned := s.aligner.Align(summary, gamification)

	if s.enricher != nil {
		s.enrich(ctx, messages, stats, &aligned)
	}

	run := &model.AnalysisRun{
		ID:       uuid.New().String(),
		Filename: filename,
		Format:   result.Metadata.Format,
		Bundle: &model.AnalysisBundle{
			Messages:     messages,
			Metadata:     result.Metadata,
			Stats:        stats,
			Analytics:    analyticsBundle,
			Sentiment:    aligned,
			Gamification: gamification,
		},
		CreatedAt: s.now(),
	}

	if s.blobClient != nil {
		blobPath, err := s.blobClient.UploadExport(ctx, run.ID, strings.NewReader(content))
		if err != nil {
			// archival is best-effort; the analysis itself stands
			s.logger.Warn("failed to archive raw export", zap.Error(err), zap.String("run_id", run.ID))
		} else {
			run.RawBlobPath = &blobPath
		}
	}

	if err := s.store.CreateRun(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to persist analysis run: %w", err)
	}

	s.logger.Info("analysis completed",
		zap.String("run_id", run.ID),
		zap.Int("messages", len(messages)),
		zap.Float64("level", gamification.RelationshipLevel.Level),
		zap.Duration("duration", time.Since(startTime)),
	)

	return run, nil
}

// GetRun returns a stored analysis run with its bundle
func (s *AnalysisService) GetRun(ctx context.Context, runID string) (*model.AnalysisRun, error) {
	return s.store.GetRun(ctx, runID)
}

// ListRuns returns recent analysis runs without bundles
func (s *AnalysisService) ListRuns(ctx context.Context, limit int) ([]model.AnalysisRun, error) {
	return s.store.ListRuns(ctx, limit)
}

// classifyWithTimeout offloads the per-message classification pass to a
// worker goroutine. The handoff is pure data; on timeout the pass counts
// as failed and no partially-annotated messages escape.
func (s *AnalysisService) classifyWithTimeout(ctx context.Context, messages []model.Message) ([]model.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("classification aborted: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.classifyTimeout)
	defer cancel()

	done := make(chan []model.Message, 1)
	go func() {
		working := make([]model.Message, len(messages))
		copy(working, messages)
		s.classifier.ClassifyAll(working)
		done <- working
	}()

	select {
	case annotated := <-done:
		return annotated, nil
	case <-ctx.Done():
		s.logger.Error("classification pass timed out",
			zap.Int("messages", len(messages)),
			zap.Duration("timeout", s.classifyTimeout),
		)
		return nil, fmt.Errorf("classification did not finish within %s: %w", s.classifyTimeout, ctx.Err())
	}
}

// enrich overlays optional model-derived insight onto the aligned summary
// and a recent sample of messages. Every failure inside degrades silently
// to the deterministic results.
func (s *AnalysisService) enrich(ctx context.Context, messages []model.Message, stats []model.SenderStats, aligned *model.SentimentSummary) {
	session := s.enricher.NewSession()

	if narrative := session.EnrichConversation(ctx, messages, stats); narrative != "" {
		aligned.Narrative = narrative
	}

	sample := messages
	if len(sample) > enrichSampleSize {
		sample = sample[len(sample)-enrichSampleSize:]
	}
	for i := range sample {
		override := session.EnrichMessage(ctx, sample[i].Text)
		if override == nil || sample[i].Sentiment == nil {
			continue
		}
		if override.Confidence > sample[i].Sentiment.Confidence {
			sample[i].Sentiment.Label = override.Label
			sample[i].Sentiment.Confidence = override.Confidence
		}
	}
}
