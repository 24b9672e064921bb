package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/himudigonda/Vyayamam/internal/models"
)

type stubPlanReader struct {
	plan *models.DayPlan
	err  error
}

func (s *stubPlanReader) FindByWeekday(_ context.Context, _ int) (*models.DayPlan, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.plan, nil
}

type stubHistoryReader struct {
	dayLog    *models.DailyLog
	findErr   error
	maxWeight float64
	maxErr    error
	lastPerf  *models.PerformanceSnapshot
	lastErr   error
}

func (s *stubHistoryReader) Find(_ context.Context, _, _ string) (*models.DailyLog, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.dayLog, nil
}

func (s *stubHistoryReader) AggregateMaxWeight(_ context.Context, _ string, _ uuid.UUID, _ string) (float64, error) {
	return s.maxWeight, s.maxErr
}

func (s *stubHistoryReader) LastPerformance(_ context.Context, _ string, _ uuid.UUID) (*models.PerformanceSnapshot, error) {
	if s.lastErr != nil {
		return nil, s.lastErr
	}
	return s.lastPerf, nil
}

// A Monday morning, so weekday resolution is deterministic.
var progressionNow = time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)

func pushDayPlan() *models.DayPlan {
	return &models.DayPlan{
		DayOfWeek: 1,
		DayName:   "Push A",
		Exercises: []models.ExerciseDefinition{
			{ID: uuid.New(), Name: "Incline Press", Order: 1, TargetSets: 4, TargetReps: "8-12"},
			{ID: uuid.New(), Name: "Shoulder Press", Order: 2, TargetSets: 3, TargetReps: "10-15"},
			{ID: uuid.New(), Name: "Cable Crossover", Order: 3, TargetSets: 3, TargetReps: "12-15"},
			{ID: uuid.New(), Name: "Lateral Raises", Order: 4, TargetSets: 3, TargetReps: "15-20"},
		},
	}
}

func newProgressionForTest(plans planReader, logs historyReader) *ProgressionService {
	svc := NewProgressionService(plans, logs)
	svc.clock = func() time.Time { return progressionNow }
	return svc
}

func sessionWith(names ...string) *models.DailyLog {
	session := &models.WorkoutSession{Status: models.SessionInProgress}
	for _, name := range names {
		session.CompletedExercises = append(session.CompletedExercises, models.CompletedExercise{Name: name})
	}
	return &models.DailyLog{UserID: "u1", Date: "2026-08-24", WorkoutSession: session}
}

func TestNextExerciseNoPlanToday(t *testing.T) {
	svc := newProgressionForTest(
		&stubPlanReader{err: pgx.ErrNoRows},
		&stubHistoryReader{findErr: pgx.ErrNoRows},
	)

	result, err := svc.NextExercise(context.Background(), "u1")
	if err != nil {
		t.Fatalf("NextExercise: %v", err)
	}
	if result.Outcome != NoPlanToday {
		t.Fatalf("outcome = %v, want NoPlanToday", result.Outcome)
	}
}

func TestNextExerciseEmptyPlanIsNoPlan(t *testing.T) {
	svc := newProgressionForTest(
		&stubPlanReader{plan: &models.DayPlan{DayOfWeek: 1}},
		&stubHistoryReader{findErr: pgx.ErrNoRows},
	)

	result, err := svc.NextExercise(context.Background(), "u1")
	if err != nil {
		t.Fatalf("NextExercise: %v", err)
	}
	if result.Outcome != NoPlanToday {
		t.Fatalf("outcome = %v, want NoPlanToday", result.Outcome)
	}
}

func TestNextExerciseFreshDayStartsAtFirst(t *testing.T) {
	svc := newProgressionForTest(
		&stubPlanReader{plan: pushDayPlan()},
		&stubHistoryReader{findErr: pgx.ErrNoRows, lastErr: pgx.ErrNoRows},
	)

	result, err := svc.NextExercise(context.Background(), "u1")
	if err != nil {
		t.Fatalf("NextExercise: %v", err)
	}
	if result.Outcome != NextUp {
		t.Fatalf("outcome = %v, want NextUp", result.Outcome)
	}
	if result.Exercise.Name != "Incline Press" {
		t.Errorf("exercise = %q, want Incline Press", result.Exercise.Name)
	}
	if result.LastPerformance != nil {
		t.Errorf("expected no last performance, got %+v", result.LastPerformance)
	}
	if result.PersonalRecord != nil || result.SuggestedTarget != nil {
		t.Errorf("expected no record without history, got %+v", result)
	}
}

func TestNextExerciseAdvancesPastFurthestCompleted(t *testing.T) {
	// Completing #1 and #3 (a superset jump) advances past #2 entirely:
	// the walk resumes after the furthest completed plan position.
	svc := newProgressionForTest(
		&stubPlanReader{plan: pushDayPlan()},
		&stubHistoryReader{
			dayLog:  sessionWith("Incline Press", "Cable Crossover"),
			lastErr: pgx.ErrNoRows,
		},
	)

	result, err := svc.NextExercise(context.Background(), "u1")
	if err != nil {
		t.Fatalf("NextExercise: %v", err)
	}
	if result.Outcome != NextUp {
		t.Fatalf("outcome = %v, want NextUp", result.Outcome)
	}
	if result.Exercise.Name != "Lateral Raises" {
		t.Errorf("exercise = %q, want Lateral Raises", result.Exercise.Name)
	}
}

func TestNextExerciseSessionComplete(t *testing.T) {
	svc := newProgressionForTest(
		&stubPlanReader{plan: pushDayPlan()},
		&stubHistoryReader{dayLog: sessionWith("Lateral Raises")},
	)

	result, err := svc.NextExercise(context.Background(), "u1")
	if err != nil {
		t.Fatalf("NextExercise: %v", err)
	}
	if result.Outcome != SessionComplete {
		t.Fatalf("outcome = %v, want SessionComplete", result.Outcome)
	}
}

func TestNextExerciseReportsHistoryAndTarget(t *testing.T) {
	svc := newProgressionForTest(
		&stubPlanReader{plan: pushDayPlan()},
		&stubHistoryReader{
			findErr:   pgx.ErrNoRows,
			maxWeight: 100,
			lastPerf:  &models.PerformanceSnapshot{Date: "2026-08-17", Weight: 95, Reps: 10},
		},
	)

	result, err := svc.NextExercise(context.Background(), "u1")
	if err != nil {
		t.Fatalf("NextExercise: %v", err)
	}
	if result.LastPerformance == nil || result.LastPerformance.Weight != 95 {
		t.Fatalf("last performance = %+v, want weight 95", result.LastPerformance)
	}
	if result.PersonalRecord == nil || *result.PersonalRecord != 100 {
		t.Fatalf("record = %v, want 100", result.PersonalRecord)
	}
	if result.SuggestedTarget == nil || *result.SuggestedTarget != 102.5 {
		t.Fatalf("target = %v, want 102.5", result.SuggestedTarget)
	}
}

func TestNextExerciseDuplicateOrderIsIntegrityError(t *testing.T) {
	plan := pushDayPlan()
	plan.Exercises[1].Order = 1

	svc := newProgressionForTest(
		&stubPlanReader{plan: plan},
		&stubHistoryReader{findErr: pgx.ErrNoRows},
	)

	_, err := svc.NextExercise(context.Background(), "u1")
	if !errors.Is(err, ErrPlanIntegrity) {
		t.Fatalf("expected ErrPlanIntegrity, got %v", err)
	}
}
