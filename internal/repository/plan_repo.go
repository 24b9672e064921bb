package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/himudigonda/Vyayamam/internal/models"
)

// PlanRepository reads the exercise catalog. The catalog is seeded offline and
// treated as read-only at request time.
type PlanRepository struct {
	db DBTX
}

func NewPlanRepository(db DBTX) *PlanRepository {
	return &PlanRepository{db: db}
}

func (r *PlanRepository) FindByWeekday(ctx context.Context, dayOfWeek int) (*models.DayPlan, error) {
	query := `
		SELECT id, day_of_week, day_name
		FROM workout_plans
		WHERE day_of_week = $1
	`
	var planID int64
	var plan models.DayPlan
	err := r.db.QueryRow(ctx, query, dayOfWeek).Scan(&planID, &plan.DayOfWeek, &plan.DayName)
	if err != nil {
		return nil, err
	}

	exercises, err := r.planExercises(ctx, planID)
	if err != nil {
		return nil, err
	}
	plan.Exercises = exercises
	return &plan, nil
}

func (r *PlanRepository) FindAll(ctx context.Context) ([]models.DayPlan, error) {
	query := `
		SELECT id, day_of_week, day_name
		FROM workout_plans
		ORDER BY day_of_week
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type planRow struct {
		id   int64
		plan models.DayPlan
	}
	var planRows []planRow
	for rows.Next() {
		var pr planRow
		if err := rows.Scan(&pr.id, &pr.plan.DayOfWeek, &pr.plan.DayName); err != nil {
			return nil, err
		}
		planRows = append(planRows, pr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	plans := make([]models.DayPlan, 0, len(planRows))
	for _, pr := range planRows {
		exercises, err := r.planExercises(ctx, pr.id)
		if err != nil {
			return nil, err
		}
		pr.plan.Exercises = exercises
		plans = append(plans, pr.plan)
	}
	return plans, nil
}

func (r *PlanRepository) planExercises(ctx context.Context, planID int64) ([]models.ExerciseDefinition, error) {
	query := `
		SELECT id, name, aliases, muscle_groups, position, target_sets, target_reps
		FROM plan_exercises
		WHERE plan_id = $1
		ORDER BY position
	`
	rows, err := r.db.Query(ctx, query, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exercises []models.ExerciseDefinition
	for rows.Next() {
		var def models.ExerciseDefinition
		err := rows.Scan(
			&def.ID,
			&def.Name,
			&def.Aliases,
			&def.MuscleGroups,
			&def.Order,
			&def.TargetSets,
			&def.TargetReps,
		)
		if err != nil {
			return nil, err
		}
		exercises = append(exercises, def)
	}
	return exercises, rows.Err()
}

// IsNotFound reports whether err means the requested row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
