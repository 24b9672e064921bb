package models

import "github.com/google/uuid"

// ExerciseDefinition is one catalog entry inside a day plan. Definitions are
// immutable after seeding; historical logs reference them by id only and keep
// their own copy of the name.
type ExerciseDefinition struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Aliases      []string  `json:"aliases"`
	MuscleGroups []string  `json:"muscle_groups"`
	Order        int       `json:"order"`
	TargetSets   int       `json:"target_sets"`
	TargetReps   string    `json:"target_reps"`
}

// DayPlan is the ordered exercise list for one weekday (1 = Monday).
type DayPlan struct {
	DayOfWeek int                  `json:"day_of_week"`
	DayName   string               `json:"day_name"`
	Exercises []ExerciseDefinition `json:"exercises"`
}
