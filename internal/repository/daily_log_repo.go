package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/himudigonda/Vyayamam/internal/models"
)

// DailyLogRepository owns the per-(user, day) log documents: readiness
// metrics, the workout session and its completed exercises and sets.
type DailyLogRepository struct {
	db DBTX
}

func NewDailyLogRepository(db DBTX) *DailyLogRepository {
	return &DailyLogRepository{db: db}
}

// GetOrCreate returns the log for (userID, date), inserting an empty one if
// none exists. The unique constraint on (user_id, log_date) guarantees two
// concurrent callers converge on the same row.
func (r *DailyLogRepository) GetOrCreate(ctx context.Context, userID, date string) (*models.DailyLog, error) {
	insert := `
		INSERT INTO daily_logs (user_id, log_date)
		VALUES ($1, $2::date)
		ON CONFLICT (user_id, log_date) DO NOTHING
	`
	if _, err := r.db.Exec(ctx, insert, userID, date); err != nil {
		return nil, err
	}
	return r.Find(ctx, userID, date)
}

// Find loads a fully hydrated log, including its session, completed exercises
// and sets. Returns pgx.ErrNoRows when no log exists for the key.
func (r *DailyLogRepository) Find(ctx context.Context, userID, date string) (*models.DailyLog, error) {
	query := `
		SELECT id, user_id, log_date, sleep_hours, stress_level, soreness,
		       session_status, session_started_at, session_ended_at,
		       session_grade, ai_summary, created_at, updated_at
		FROM daily_logs
		WHERE user_id = $1 AND log_date = $2::date
	`
	log, err := r.scanLog(r.db.QueryRow(ctx, query, userID, date))
	if err != nil {
		return nil, err
	}
	if err := r.hydrateSession(ctx, log); err != nil {
		return nil, err
	}
	return log, nil
}

func (r *DailyLogRepository) SetSleepHours(ctx context.Context, userID, date string, hours float64) error {
	query := `
		UPDATE daily_logs
		SET sleep_hours = $3, updated_at = now()
		WHERE user_id = $1 AND log_date = $2::date
	`
	return r.execExpectingRow(ctx, query, userID, date, hours)
}

func (r *DailyLogRepository) SetStressLevel(ctx context.Context, userID, date string, level int) error {
	query := `
		UPDATE daily_logs
		SET stress_level = $3, updated_at = now()
		WHERE user_id = $1 AND log_date = $2::date
	`
	return r.execExpectingRow(ctx, query, userID, date, level)
}

func (r *DailyLogRepository) AppendSoreness(ctx context.Context, userID, date, area string) error {
	query := `
		UPDATE daily_logs
		SET soreness = array_append(soreness, $3), updated_at = now()
		WHERE user_id = $1 AND log_date = $2::date
	`
	return r.execExpectingRow(ctx, query, userID, date, area)
}

// EnsureSession starts an in-progress session if the day has none yet.
// Reports whether this call created it, making explicit and implicit session
// starts idempotent.
func (r *DailyLogRepository) EnsureSession(ctx context.Context, userID, date string, startedAt time.Time) (bool, error) {
	query := `
		UPDATE daily_logs
		SET session_status = $4, session_started_at = $3, updated_at = now()
		WHERE user_id = $1 AND log_date = $2::date AND session_status IS NULL
	`
	tag, err := r.db.Exec(ctx, query, userID, date, startedAt, models.SessionInProgress)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// FindCompletedExercise looks up today's entry for an exercise by its
// denormalized name, the session-local identity key.
func (r *DailyLogRepository) FindCompletedExercise(ctx context.Context, dailyLogID int64, name string) (*models.CompletedExercise, error) {
	query := `
		SELECT ce.id, ce.exercise_id, ce.name, ce.pr_achieved,
		       (SELECT COUNT(*) FROM set_entries s WHERE s.completed_exercise_id = ce.id)
		FROM completed_exercises ce
		WHERE ce.daily_log_id = $1 AND ce.name = $2
	`
	var entry models.CompletedExercise
	var setCount int
	err := r.db.QueryRow(ctx, query, dailyLogID, name).Scan(
		&entry.ID,
		&entry.ExerciseID,
		&entry.Name,
		&entry.PersonalRecordAchieved,
		&setCount,
	)
	if err != nil {
		return nil, err
	}
	entry.Sets = make([]models.SetEntry, setCount)
	return &entry, nil
}

func (r *DailyLogRepository) InsertCompletedExercise(ctx context.Context, dailyLogID int64, exerciseID uuid.UUID, name string) (int64, error) {
	query := `
		INSERT INTO completed_exercises (daily_log_id, exercise_id, name, position)
		VALUES ($1, $2, $3,
			(SELECT COALESCE(MAX(position), 0) + 1 FROM completed_exercises WHERE daily_log_id = $1))
		RETURNING id
	`
	var id int64
	err := r.db.QueryRow(ctx, query, dailyLogID, exerciseID, name).Scan(&id)
	return id, err
}

// AppendSet stores one set and returns the resulting set count for the
// exercise today.
func (r *DailyLogRepository) AppendSet(ctx context.Context, completedExerciseID int64, set models.SetEntry) (int, error) {
	query := `
		INSERT INTO set_entries (completed_exercise_id, weight, reps, rpe, notes, logged_at, position)
		VALUES ($1, $2, $3, $4, $5, $6,
			(SELECT COALESCE(MAX(position), 0) + 1 FROM set_entries WHERE completed_exercise_id = $1))
		RETURNING position
	`
	var position int
	err := r.db.QueryRow(ctx, query,
		completedExerciseID, set.Weight, set.Reps, set.RPE, set.Notes, set.LoggedAt,
	).Scan(&position)
	return position, err
}

// MarkPersonalRecord flips the PR flag to true. The flag is monotone: there is
// no way to unset it within a session.
func (r *DailyLogRepository) MarkPersonalRecord(ctx context.Context, completedExerciseID int64) error {
	query := `UPDATE completed_exercises SET pr_achieved = TRUE WHERE id = $1`
	_, err := r.db.Exec(ctx, query, completedExerciseID)
	return err
}

// AggregateMaxWeight returns the heaviest set ever logged by the user for the
// exercise id, 0 when no history exists. A non-empty excludeDate leaves that
// day out, so mid-session sets don't compete with themselves. NULLIF keeps the
// empty-string sentinel from ever being cast to a date, regardless of how the
// planner orders the OR.
func (r *DailyLogRepository) AggregateMaxWeight(ctx context.Context, userID string, exerciseID uuid.UUID, excludeDate string) (float64, error) {
	query := `
		SELECT COALESCE(MAX(s.weight), 0)
		FROM set_entries s
		JOIN completed_exercises ce ON ce.id = s.completed_exercise_id
		JOIN daily_logs dl ON dl.id = ce.daily_log_id
		WHERE dl.user_id = $1 AND ce.exercise_id = $2
		  AND ($3 = '' OR dl.log_date <> NULLIF($3, '')::date)
	`
	var maxWeight float64
	err := r.db.QueryRow(ctx, query, userID, exerciseID, excludeDate).Scan(&maxWeight)
	return maxWeight, err
}

// LastPerformance returns the final set of the most recent day on which the
// user logged the exercise. Returns pgx.ErrNoRows when there is no history.
func (r *DailyLogRepository) LastPerformance(ctx context.Context, userID string, exerciseID uuid.UUID) (*models.PerformanceSnapshot, error) {
	query := `
		SELECT dl.log_date, s.weight, s.reps
		FROM set_entries s
		JOIN completed_exercises ce ON ce.id = s.completed_exercise_id
		JOIN daily_logs dl ON dl.id = ce.daily_log_id
		WHERE dl.user_id = $1 AND ce.exercise_id = $2
		ORDER BY dl.log_date DESC, s.position DESC
		LIMIT 1
	`
	var snapshot models.PerformanceSnapshot
	var logDate time.Time
	err := r.db.QueryRow(ctx, query, userID, exerciseID).Scan(&logDate, &snapshot.Weight, &snapshot.Reps)
	if err != nil {
		return nil, err
	}
	snapshot.Date = logDate.Format(models.DateLayout)
	return &snapshot, nil
}

// FinalizeSession marks the session completed and records grade and summary
// as one update.
func (r *DailyLogRepository) FinalizeSession(ctx context.Context, userID, date string, endedAt time.Time, grade, aiSummary string) error {
	query := `
		UPDATE daily_logs
		SET session_status = $6, session_ended_at = $3,
		    session_grade = $4, ai_summary = $5, updated_at = now()
		WHERE user_id = $1 AND log_date = $2::date
	`
	return r.execExpectingRow(ctx, query, userID, date, endedAt, grade, aiSummary, models.SessionCompleted)
}

// RecentSessions returns the user's latest logs that contain a workout
// session, newest first, fully hydrated.
func (r *DailyLogRepository) RecentSessions(ctx context.Context, userID string, limit int) ([]models.DailyLog, error) {
	query := `
		SELECT id, user_id, log_date, sleep_hours, stress_level, soreness,
		       session_status, session_started_at, session_ended_at,
		       session_grade, ai_summary, created_at, updated_at
		FROM daily_logs
		WHERE user_id = $1 AND session_status IS NOT NULL
		ORDER BY log_date DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []models.DailyLog
	for rows.Next() {
		log, err := r.scanLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, *log)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range logs {
		if err := r.hydrateSession(ctx, &logs[i]); err != nil {
			return nil, err
		}
	}
	return logs, nil
}

func (r *DailyLogRepository) scanLog(row pgx.Row) (*models.DailyLog, error) {
	var log models.DailyLog
	var logDate time.Time
	var status *string
	var startedAt, endedAt *time.Time
	var grade, aiSummary *string
	err := row.Scan(
		&log.ID,
		&log.UserID,
		&logDate,
		&log.Readiness.SleepHours,
		&log.Readiness.StressLevel,
		&log.Readiness.Soreness,
		&status,
		&startedAt,
		&endedAt,
		&grade,
		&aiSummary,
		&log.CreatedAt,
		&log.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	log.Date = logDate.Format(models.DateLayout)
	if status != nil {
		session := &models.WorkoutSession{
			Status:    *status,
			EndTime:   endedAt,
			Grade:     grade,
			AISummary: aiSummary,
		}
		if startedAt != nil {
			session.StartTime = *startedAt
		}
		log.WorkoutSession = session
	}
	return &log, nil
}

func (r *DailyLogRepository) hydrateSession(ctx context.Context, log *models.DailyLog) error {
	if log.WorkoutSession == nil {
		return nil
	}

	query := `
		SELECT id, exercise_id, name, pr_achieved
		FROM completed_exercises
		WHERE daily_log_id = $1
		ORDER BY position
	`
	rows, err := r.db.Query(ctx, query, log.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	var exercises []models.CompletedExercise
	for rows.Next() {
		var entry models.CompletedExercise
		if err := rows.Scan(&entry.ID, &entry.ExerciseID, &entry.Name, &entry.PersonalRecordAchieved); err != nil {
			return err
		}
		exercises = append(exercises, entry)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range exercises {
		sets, err := r.exerciseSets(ctx, exercises[i].ID)
		if err != nil {
			return err
		}
		exercises[i].Sets = sets
	}
	log.WorkoutSession.CompletedExercises = exercises
	return nil
}

func (r *DailyLogRepository) exerciseSets(ctx context.Context, completedExerciseID int64) ([]models.SetEntry, error) {
	query := `
		SELECT weight, reps, rpe, notes, logged_at
		FROM set_entries
		WHERE completed_exercise_id = $1
		ORDER BY position
	`
	rows, err := r.db.Query(ctx, query, completedExerciseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sets []models.SetEntry
	for rows.Next() {
		var set models.SetEntry
		if err := rows.Scan(&set.Weight, &set.Reps, &set.RPE, &set.Notes, &set.LoggedAt); err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}
	return sets, rows.Err()
}

func (r *DailyLogRepository) execExpectingRow(ctx context.Context, query string, args ...any) error {
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
