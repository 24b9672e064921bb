package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	SessionInProgress = "in-progress"
	SessionCompleted  = "completed"
	SessionSkipped    = "skipped"
)

// DateLayout is the calendar-day key format used throughout the store.
const DateLayout = "2006-01-02"

// SetEntry is a single performed set. Immutable once written.
type SetEntry struct {
	Weight   float64   `json:"weight"`
	Reps     int       `json:"reps"`
	RPE      *int      `json:"rpe,omitempty"`
	Notes    *string   `json:"notes,omitempty"`
	LoggedAt time.Time `json:"logged_at"`
}

// CompletedExercise collects every set performed for one exercise in a session.
// Name is a snapshot of the canonical name at logging time and is the
// session-local identity of the exercise: two sets with the same name land in
// the same entry even if the catalog row is edited later.
type CompletedExercise struct {
	ID                     int64      `json:"id"`
	ExerciseID             uuid.UUID  `json:"exercise_id"`
	Name                   string     `json:"name"`
	Sets                   []SetEntry `json:"sets"`
	PersonalRecordAchieved bool       `json:"personal_record_achieved"`
}

// WorkoutSession holds one day's workout. Completed exercises are ordered by
// first-logged time, not plan order.
type WorkoutSession struct {
	Status             string              `json:"status"`
	StartTime          time.Time           `json:"start_time"`
	EndTime            *time.Time          `json:"end_time,omitempty"`
	Grade              *string             `json:"grade,omitempty"`
	AISummary          *string             `json:"ai_summary,omitempty"`
	CompletedExercises []CompletedExercise `json:"completed_exercises"`
}

// Readiness captures the user's subjective daily metrics.
type Readiness struct {
	SleepHours  *float64 `json:"sleep_hours,omitempty"`
	StressLevel *int     `json:"stress_level,omitempty"`
	Soreness    []string `json:"soreness"`
}

// DailyLog is the per-(user, calendar day) record. At most one exists per key;
// the store enforces this with a unique constraint.
type DailyLog struct {
	ID             int64           `json:"id"`
	UserID         string          `json:"user_id"`
	Date           string          `json:"date"`
	Readiness      Readiness       `json:"readiness"`
	WorkoutSession *WorkoutSession `json:"workout_session,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// PerformanceSnapshot is the last recorded set for an exercise on some prior
// day, used by the progression engine's "last time you did X" readout.
type PerformanceSnapshot struct {
	Date   string  `json:"date"`
	Weight float64 `json:"weight"`
	Reps   int     `json:"reps"`
}
