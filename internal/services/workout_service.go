package services

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"github.com/himudigonda/Vyayamam/internal/models"
	"github.com/himudigonda/Vyayamam/internal/repository"
)

var (
	ErrNoSession            = errors.New("no active session")
	ErrNoCompletedExercises = errors.New("no completed exercises")
	ErrPlanIntegrity        = errors.New("day plan order integrity violation")
)

type StartOutcome int

const (
	// StartedNew means this call opened today's session.
	StartedNew StartOutcome = iota
	// StartAlreadyInProgress means a session is open; nothing changed.
	StartAlreadyInProgress
	// StartAlreadyCompleted means today's session was already finalized.
	StartAlreadyCompleted
)

// SetResult reports the outcome of one logged set.
type SetResult struct {
	// SetNumber is how many sets the exercise now has today.
	SetNumber int
	// NewRecord is true only when this set just beat the historical max.
	NewRecord bool
}

// WorkoutService is the session state machine: it creates the day's session
// lazily, appends sets, and runs the personal-record check after each append.
// All mutations for a (user, day) run under a per-key advisory lock so two
// rapid messages cannot both create a first entry for the same exercise.
type WorkoutService struct {
	db    *pgxpool.Pool
	clock func() time.Time
}

func NewWorkoutService(db *pgxpool.Pool) *WorkoutService {
	return &WorkoutService{db: db, clock: time.Now}
}

// StartSession opens today's session if none exists. Idempotent: reports what
// already held instead of mutating when a session is open or finalized.
func (s *WorkoutService) StartSession(ctx context.Context, userID string) (StartOutcome, error) {
	now := s.clock().UTC()
	date := now.Format(models.DateLayout)

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return StartedNew, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := lockUserDay(ctx, tx, userID, date); err != nil {
		return StartedNew, err
	}

	logs := repository.NewDailyLogRepository(tx)
	dayLog, err := logs.GetOrCreate(ctx, userID, date)
	if err != nil {
		return StartedNew, err
	}
	if dayLog.WorkoutSession != nil {
		if dayLog.WorkoutSession.Status == models.SessionCompleted {
			return StartAlreadyCompleted, nil
		}
		return StartAlreadyInProgress, nil
	}
	if _, err := logs.EnsureSession(ctx, userID, date, now); err != nil {
		return StartedNew, err
	}

	if err := tx.Commit(ctx); err != nil {
		return StartedNew, err
	}
	return StartedNew, nil
}

// LogSet appends one set for the resolved exercise to today's session,
// creating the daily log, the session, and the exercise entry as needed.
// Exercise identity within a session is the denormalized canonical name.
func (s *WorkoutService) LogSet(ctx context.Context, userID string, def models.ExerciseDefinition, set models.SetEntry) (*SetResult, error) {
	now := s.clock().UTC()
	date := now.Format(models.DateLayout)
	if set.LoggedAt.IsZero() {
		set.LoggedAt = now
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := lockUserDay(ctx, tx, userID, date); err != nil {
		return nil, err
	}

	logs := repository.NewDailyLogRepository(tx)
	dayLog, err := logs.GetOrCreate(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	if _, err := logs.EnsureSession(ctx, userID, date, now); err != nil {
		return nil, err
	}

	var entryID int64
	entry, err := logs.FindCompletedExercise(ctx, dayLog.ID, def.Name)
	switch {
	case err == nil:
		entryID = entry.ID
	case repository.IsNotFound(err):
		entryID, err = logs.InsertCompletedExercise(ctx, dayLog.ID, def.ID, def.Name)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	setNumber, err := logs.AppendSet(ctx, entryID, set)
	if err != nil {
		return nil, err
	}

	// PR check against all history except today, so mid-session sets don't
	// compare against themselves.
	priorMax, err := logs.AggregateMaxWeight(ctx, userID, def.ID, date)
	if err != nil {
		return nil, err
	}
	newRecord := newPersonalRecord(set.Weight, priorMax)
	if newRecord {
		if err := logs.MarkPersonalRecord(ctx, entryID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"user":     userID,
		"exercise": def.Name,
		"set":      setNumber,
		"weight":   set.Weight,
		"reps":     set.Reps,
		"pr":       newRecord,
	}).Info("set logged")

	return &SetResult{SetNumber: setNumber, NewRecord: newRecord}, nil
}

// newPersonalRecord holds when the logged weight strictly beats the prior
// all-time max (no history counts as 0).
func newPersonalRecord(weight, priorMax float64) bool {
	return weight > priorMax
}

func lockUserDay(ctx context.Context, tx repository.DBTX, userID, date string) error {
	_, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", userID+":"+date)
	return err
}
