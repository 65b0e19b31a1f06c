package integration_tests

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/eliotalders0n/chatlens/pkg/model"
)

// MemoryAnalysisStore is an in-memory AnalysisStore for integration tests
// that exercise the full HTTP flow without a PostgreSQL instance.
type MemoryAnalysisStore struct {
	mu      sync.RWMutex
	runs    map[string]model.AnalysisRun
	reports map[string]model.Report
}

// NewMemoryAnalysisStore creates a new in-memory analysis store
func NewMemoryAnalysisStore() *MemoryAnalysisStore {
	return &MemoryAnalysisStore{
		runs:    make(map[string]model.AnalysisRun),
		reports: make(map[string]model.Report),
	}
}

// CreateRun stores an analysis run in memory
func (s *MemoryAnalysisStore) CreateRun(ctx context.Context, run *model.AnalysisRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs[run.ID] = *run
	return nil
}

// GetRun retrieves an analysis run by ID
func (s *MemoryAnalysisStore) GetRun(ctx context.Context, runID string) (*model.AnalysisRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[runID]
	if !ok {
		return nil, fmt.Errorf("analysis run not found: %s", runID)
	}
	return &run, nil
}

// ListRuns returns stored runs newest first, without bundles
func (s *MemoryAnalysisStore) ListRuns(ctx context.Context, limit int) ([]model.AnalysisRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > 100 {
		limit = 20
	}

	runs := make([]model.AnalysisRun, 0, len(s.runs))
	for _, run := range s.runs {
		run.Bundle = nil
		runs = append(runs, run)
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].CreatedAt.After(runs[j].CreatedAt)
	})
	if len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

// CreateReport stores a report record in memory
func (s *MemoryAnalysisStore) CreateReport(ctx context.Context, report *model.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reports[report.ID] = *report
	return nil
}

// GetReport retrieves a stored report record by ID
func (s *MemoryAnalysisStore) GetReport(id string) (*model.Report, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report, ok := s.reports[id]
	if !ok {
		return nil, false
	}
	return &report, true
}
