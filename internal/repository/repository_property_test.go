package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/eliotalders0n/chatlens/pkg/model"
)

// setupTestDB creates a PostgreSQL testcontainer and returns the connection pool
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("chatlens_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	connString, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connString)
	require.NoError(t, err)

	runMigrations(t, pool)

	cleanup := func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return pool, cleanup
}

// runMigrations creates the schema the repository expects
func runMigrations(t *testing.T, pool *pgxpool.Pool) {
	ctx := context.Background()

	migrations := []string{
		`CREATE TABLE IF NOT EXISTS analysis_runs (
			id UUID PRIMARY KEY,
			filename VARCHAR(500) NOT NULL,
			format VARCHAR(50) NOT NULL,
			bundle JSONB,
			raw_blob_path VARCHAR(500),
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS reports (
			id UUID PRIMARY KEY,
			run_id UUID NOT NULL REFERENCES analysis_runs(id) ON DELETE CASCADE,
			blob_path VARCHAR(500) NOT NULL,
			generated_at TIMESTAMP NOT NULL
		)`,
	}

	for _, migration := range migrations {
		_, err := pool.Exec(ctx, migration)
		require.NoError(t, err)
	}
}

func sampleBundle(totalMessages int, positivePct float64) *model.AnalysisBundle {
	return &model.AnalysisBundle{
		Metadata: model.ChatMetadata{
			Participants:  []string{"Asha", "Ben"},
			TotalMessages: totalMessages,
			Format:        model.ChatFormatPlain,
		},
		Sentiment: model.SentimentSummary{
			PositivePercent:  positivePct,
			OverallSentiment: "positive",
		},
		Gamification: model.GamificationBundle{
			RelationshipLevel:  model.RelationshipLevel{Level: 5.5, Title: "Close Companions"},
			CompatibilityScore: model.CompatibilityScore{Score: 72, Tier: "Great Connection"},
		},
	}
}

func TestAnalysisRepository_BundleRoundTripProperty(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewAnalysisRepository(pool, zap.NewNop())
	ctx := context.Background()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20
	properties := gopter.NewProperties(parameters)

	properties.Property("a stored bundle reads back identically", prop.ForAll(
		func(totalMessages int, positivePct float64) bool {
			run := &model.AnalysisRun{
				ID:       uuid.New().String(),
				Filename: "chat.txt",
				Format:   model.ChatFormatPlain,
				Bundle:   sampleBundle(totalMessages, positivePct),
			}

			if err := repo.CreateRun(ctx, run); err != nil {
				return false
			}

			stored, err := repo.GetRun(ctx, run.ID)
			if err != nil || stored.Bundle == nil {
				return false
			}

			return stored.Bundle.Metadata.TotalMessages == totalMessages &&
				stored.Bundle.Sentiment.PositivePercent == positivePct &&
				stored.Bundle.Gamification.CompatibilityScore.Tier == "Great Connection" &&
				stored.Format == model.ChatFormatPlain
		},
		gen.IntRange(0, 100000),
		gen.Float64Range(0, 100),
	))

	properties.TestingRun(t)
}

func TestAnalysisRepository_GetMissingRun(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewAnalysisRepository(pool, zap.NewNop())

	_, err := repo.GetRun(context.Background(), uuid.New().String())

	require.Error(t, err)
	require.Contains(t, err.Error(), "not found")
}

func TestAnalysisRepository_ListRunsNewestFirst(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewAnalysisRepository(pool, zap.NewNop())
	ctx := context.Background()

	ids := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		run := &model.AnalysisRun{
			ID:       uuid.New().String(),
			Filename: "chat.txt",
			Format:   model.ChatFormatJSON,
			Bundle:   sampleBundle(10*(i+1), 50),
		}
		require.NoError(t, repo.CreateRun(ctx, run))
		ids = append(ids, run.ID)
		time.Sleep(10 * time.Millisecond)
	}

	runs, err := repo.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	require.Equal(t, ids[2], runs[0].ID)
	require.Equal(t, ids[1], runs[1].ID)
	// listings omit the heavy bundle column
	require.Nil(t, runs[0].Bundle)
}
