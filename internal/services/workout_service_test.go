package services

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

func TestNewPersonalRecord(t *testing.T) {
	tests := []struct {
		name     string
		weight   float64
		priorMax float64
		want     bool
	}{
		{"first ever set is a record", 45, 0, true},
		{"beating the max is a record", 140, 135, true},
		{"matching the max is not", 135, 135, false},
		{"below the max is not", 130, 135, false},
		{"bodyweight zero with no history is not", 0, 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := newPersonalRecord(tc.weight, tc.priorMax); got != tc.want {
				t.Errorf("newPersonalRecord(%v, %v) = %v, want %v", tc.weight, tc.priorMax, got, tc.want)
			}
		})
	}
}

func TestIsoWeekday(t *testing.T) {
	// 2026-08-24 is a Monday.
	monday := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	for offset, want := range []int{1, 2, 3, 4, 5, 6, 7} {
		day := monday.AddDate(0, 0, offset)
		if got := isoWeekday(day); got != want {
			t.Errorf("isoWeekday(%s) = %d, want %d", day.Weekday(), got, want)
		}
	}
}

var (
	testPoolOnce sync.Once
	testPool     *pgxpool.Pool
)

// testDB returns a shared pool against TEST_DB_URL, skipping the test when the
// variable is unset. The target database must have migrations applied.
func testDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dbUrl := os.Getenv("TEST_DB_URL")
	if dbUrl == "" {
		t.Skip("TEST_DB_URL not set, skipping integration test")
	}
	testPoolOnce.Do(func() {
		pool, err := pgxpool.New(context.Background(), dbUrl)
		if err != nil {
			t.Fatalf("connect: %v", err)
		}
		testPool = pool
	})
	return testPool
}

func TestWorkoutServiceSessionLifecycle(t *testing.T) {
	pool := testDB(t)
	ctx := context.Background()

	svc := NewWorkoutService(pool)
	userID := "test-" + uuid.NewString()

	outcome, err := svc.StartSession(ctx, userID)
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if outcome != StartedNew {
		t.Fatalf("outcome = %v, want StartedNew", outcome)
	}

	outcome, err = svc.StartSession(ctx, userID)
	if err != nil {
		t.Fatalf("StartSession (repeat): %v", err)
	}
	if outcome != StartAlreadyInProgress {
		t.Errorf("outcome = %v, want StartAlreadyInProgress", outcome)
	}
}

func TestWorkoutServiceLogSetRecordsFirstSetAsPR(t *testing.T) {
	pool := testDB(t)
	ctx := context.Background()

	svc := NewWorkoutService(pool)
	userID := "test-" + uuid.NewString()
	def := models.ExerciseDefinition{ID: uuid.New(), Name: "Test Bench Press", TargetSets: 3, TargetReps: "8-12"}

	result, err := svc.LogSet(ctx, userID, def, models.SetEntry{Weight: 135, Reps: 8})
	if err != nil {
		t.Fatalf("LogSet: %v", err)
	}
	if result.SetNumber != 1 {
		t.Errorf("set number = %d, want 1", result.SetNumber)
	}
	if !result.NewRecord {
		t.Error("first weighted set with no history must be a record")
	}

	// The baseline excludes today, so a lighter second set still beats the
	// historical max of 0 and keeps the flag set.
	result, err = svc.LogSet(ctx, userID, def, models.SetEntry{Weight: 125, Reps: 10})
	if err != nil {
		t.Fatalf("LogSet (second): %v", err)
	}
	if result.SetNumber != 2 {
		t.Errorf("set number = %d, want 2", result.SetNumber)
	}
	if !result.NewRecord {
		t.Error("sets above the pre-session max keep reporting a record")
	}
}
