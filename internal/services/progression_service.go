package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/himudigonda/Vyayamam/internal/models"
	"github.com/himudigonda/Vyayamam/internal/repository"
)

// OverloadIncrement is the fixed progressive-overload bump suggested on top
// of an existing personal record.
const OverloadIncrement = 2.5

type planReader interface {
	FindByWeekday(ctx context.Context, dayOfWeek int) (*models.DayPlan, error)
}

type historyReader interface {
	Find(ctx context.Context, userID, date string) (*models.DailyLog, error)
	AggregateMaxWeight(ctx context.Context, userID string, exerciseID uuid.UUID, excludeDate string) (float64, error)
	LastPerformance(ctx context.Context, userID string, exerciseID uuid.UUID) (*models.PerformanceSnapshot, error)
}

type NextOutcome int

const (
	// NoPlanToday means the weekday has no (or an empty) plan.
	NoPlanToday NextOutcome = iota
	// SessionComplete means every planned exercise has been logged today.
	SessionComplete
	// NextUp carries the next exercise plus its performance context.
	NextUp
)

type NextExerciseResult struct {
	Outcome         NextOutcome
	Exercise        *models.ExerciseDefinition
	LastPerformance *models.PerformanceSnapshot
	// PersonalRecord is nil when the user has never logged weight for the
	// exercise; SuggestedTarget is set only alongside a record.
	PersonalRecord  *float64
	SuggestedTarget *float64
}

// ProgressionService walks the day plan in order and picks the first
// exercise past the furthest one completed today.
type ProgressionService struct {
	plans planReader
	logs  historyReader
	clock func() time.Time
}

func NewProgressionService(plans planReader, logs historyReader) *ProgressionService {
	return &ProgressionService{plans: plans, logs: logs, clock: time.Now}
}

func (s *ProgressionService) NextExercise(ctx context.Context, userID string) (*NextExerciseResult, error) {
	now := s.clock().UTC()
	date := now.Format(models.DateLayout)

	plan, err := s.plans.FindByWeekday(ctx, isoWeekday(now))
	if err != nil {
		if repository.IsNotFound(err) {
			return &NextExerciseResult{Outcome: NoPlanToday}, nil
		}
		return nil, err
	}
	if len(plan.Exercises) == 0 {
		return &NextExerciseResult{Outcome: NoPlanToday}, nil
	}
	if err := checkPlanIntegrity(plan); err != nil {
		return nil, err
	}

	completed, err := s.completedToday(ctx, userID, date)
	if err != nil {
		return nil, err
	}

	lastCompletedOrder := 0
	for _, def := range plan.Exercises {
		if _, done := completed[def.Name]; done && def.Order > lastCompletedOrder {
			lastCompletedOrder = def.Order
		}
	}

	var next *models.ExerciseDefinition
	for i := range plan.Exercises {
		def := &plan.Exercises[i]
		if def.Order > lastCompletedOrder && (next == nil || def.Order < next.Order) {
			next = def
		}
	}
	if next == nil {
		return &NextExerciseResult{Outcome: SessionComplete}, nil
	}

	result := &NextExerciseResult{Outcome: NextUp, Exercise: next}

	last, err := s.logs.LastPerformance(ctx, userID, next.ID)
	switch {
	case err == nil:
		result.LastPerformance = last
	case repository.IsNotFound(err):
		// No history yet; leave the snapshot empty.
	default:
		return nil, err
	}

	// All-time max including today: mid-session sets count toward the target.
	record, err := s.logs.AggregateMaxWeight(ctx, userID, next.ID, "")
	if err != nil {
		return nil, err
	}
	if record > 0 {
		target := record + OverloadIncrement
		result.PersonalRecord = &record
		result.SuggestedTarget = &target
	}

	return result, nil
}

func (s *ProgressionService) completedToday(ctx context.Context, userID, date string) (map[string]struct{}, error) {
	completed := make(map[string]struct{})
	dayLog, err := s.logs.Find(ctx, userID, date)
	if err != nil {
		if repository.IsNotFound(err) {
			return completed, nil
		}
		return nil, err
	}
	if dayLog.WorkoutSession == nil {
		return completed, nil
	}
	for _, entry := range dayLog.WorkoutSession.CompletedExercises {
		completed[entry.Name] = struct{}{}
	}
	return completed, nil
}

// checkPlanIntegrity rejects duplicate order values: the catalog invariant
// says they are unique, and silently picking one would hide corrupt data.
func checkPlanIntegrity(plan *models.DayPlan) error {
	seen := make(map[int]string, len(plan.Exercises))
	for _, def := range plan.Exercises {
		if other, dup := seen[def.Order]; dup {
			return fmt.Errorf("%w: position %d held by %q and %q (weekday %d)",
				ErrPlanIntegrity, def.Order, other, def.Name, plan.DayOfWeek)
		}
		seen[def.Order] = def.Name
	}
	return nil
}

// isoWeekday maps time.Weekday to the 1-7 Monday-first convention used by
// the catalog.
func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}
