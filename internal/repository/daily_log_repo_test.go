package repository

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/himudigonda/Vyayamam/internal/models"
)

var (
	repoPoolOnce sync.Once
	repoPool     *pgxpool.Pool
)

// repoDB returns a shared pool against TEST_DB_URL, skipping the test when the
// variable is unset. The target database must have migrations applied.
func repoDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dbUrl := os.Getenv("TEST_DB_URL")
	if dbUrl == "" {
		t.Skip("TEST_DB_URL not set, skipping integration test")
	}
	repoPoolOnce.Do(func() {
		pool, err := pgxpool.New(context.Background(), dbUrl)
		if err != nil {
			t.Fatalf("connect: %v", err)
		}
		repoPool = pool
	})
	return repoPool
}

func logSetOn(t *testing.T, repo *DailyLogRepository, userID, date string, exerciseID uuid.UUID, weight float64) {
	t.Helper()
	ctx := context.Background()

	dayLog, err := repo.GetOrCreate(ctx, userID, date)
	if err != nil {
		t.Fatalf("GetOrCreate(%s): %v", date, err)
	}
	if _, err := repo.EnsureSession(ctx, userID, date, time.Now().UTC()); err != nil {
		t.Fatalf("EnsureSession(%s): %v", date, err)
	}
	entryID, err := repo.InsertCompletedExercise(ctx, dayLog.ID, exerciseID, "Test Bench Press")
	if err != nil {
		t.Fatalf("InsertCompletedExercise(%s): %v", date, err)
	}
	if _, err := repo.AppendSet(ctx, entryID, models.SetEntry{Weight: weight, Reps: 5, LoggedAt: time.Now().UTC()}); err != nil {
		t.Fatalf("AppendSet(%s): %v", date, err)
	}
}

func TestAggregateMaxWeightExcludeDate(t *testing.T) {
	repo := NewDailyLogRepository(repoDB(t))
	ctx := context.Background()

	userID := "test-" + uuid.NewString()
	exerciseID := uuid.New()
	logSetOn(t, repo, userID, "2026-08-20", exerciseID, 100)
	logSetOn(t, repo, userID, "2026-08-21", exerciseID, 140)

	// Empty sentinel: no day is excluded.
	max, err := repo.AggregateMaxWeight(ctx, userID, exerciseID, "")
	if err != nil {
		t.Fatalf("AggregateMaxWeight(all): %v", err)
	}
	if max != 140 {
		t.Errorf("max = %v, want 140 across all days", max)
	}

	// Excluding the heavy day leaves the earlier max.
	max, err = repo.AggregateMaxWeight(ctx, userID, exerciseID, "2026-08-21")
	if err != nil {
		t.Fatalf("AggregateMaxWeight(exclude): %v", err)
	}
	if max != 100 {
		t.Errorf("max = %v, want 100 with the heavy day excluded", max)
	}

	// No history at all aggregates to zero.
	max, err = repo.AggregateMaxWeight(ctx, userID, uuid.New(), "")
	if err != nil {
		t.Fatalf("AggregateMaxWeight(none): %v", err)
	}
	if max != 0 {
		t.Errorf("max = %v, want 0 without history", max)
	}
}
