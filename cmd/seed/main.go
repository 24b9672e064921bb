package main

import (
	"context"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
)

type seedExercise struct {
	name         string
	aliases      []string
	muscleGroups []string
	targetSets   int
	targetReps   string
}

type seedPlan struct {
	dayOfWeek int
	dayName   string
	exercises []seedExercise
}

// The six-day push/pull/legs split the coach runs on.
var workoutPlans = []seedPlan{
	{
		dayOfWeek: 1,
		dayName:   "Push A",
		exercises: []seedExercise{
			{"Smith Machine Incline Press", []string{"smith incline", "incline smith press"}, []string{"Chest", "Shoulders", "Triceps"}, 4, "8-12"},
			{"Dumbbell Shoulder Press", []string{"db shoulder press", "seated dumbbell press"}, []string{"Shoulders"}, 3, "10-15"},
			{"Cable Crossover", []string{"cable fly", "crossovers"}, []string{"Chest"}, 3, "12-15"},
			{"Dumbbell Lateral Raises", []string{"db lat raises", "side raises"}, []string{"Shoulders"}, 3, "15-20"},
			{"Cable Tricep Pushdowns", []string{"tricep pushdowns", "rope pushdowns"}, []string{"Triceps"}, 3, "12-15"},
		},
	},
	{
		dayOfWeek: 2,
		dayName:   "Pull A",
		exercises: []seedExercise{
			{"Lat Pulldowns", []string{"lats pulldown"}, []string{"Back", "Biceps"}, 4, "8-12"},
			{"Dumbbell Rows", []string{"db rows", "single arm row"}, []string{"Back"}, 3, "10-12"},
			{"Rowing Machine", []string{"rower"}, []string{"Back", "Legs", "Cardio"}, 1, "5 min"},
			{"Cable Face Pulls", []string{"face pulls"}, []string{"Shoulders", "Back"}, 3, "15-20"},
			{"Dumbbell Bicep Curls", []string{"db curls", "bicep curls"}, []string{"Biceps"}, 3, "10-15"},
		},
	},
	{
		dayOfWeek: 3,
		dayName:   "Legs A",
		exercises: []seedExercise{
			{"Leg Press Machine", []string{"leg press"}, []string{"Quads", "Glutes", "Hamstrings"}, 4, "10-15"},
			{"Dumbbell RDLs", []string{"rdl", "romanian deadlift"}, []string{"Hamstrings", "Glutes"}, 3, "12-15"},
			{"Kettlebell Goblet Squats", []string{"goblet squat", "kb squat"}, []string{"Quads", "Glutes"}, 3, "15-20"},
			{"Leg Extensions", []string{"quad extensions"}, []string{"Quads"}, 3, "15-20"},
			{"Calf Raises", []string{"standing calf raises"}, []string{"Calves"}, 4, "15-25"},
		},
	},
	{
		dayOfWeek: 4,
		dayName:   "Push B",
		exercises: []seedExercise{
			{"Machine Chest Press", []string{"chest press machine"}, []string{"Chest"}, 4, "8-12"},
			{"Seated Dumbbell Lateral Raises", []string{"seated lat raises"}, []string{"Shoulders"}, 3, "15-20"},
			{"Smith Machine Shoulder Press", []string{"smith shoulder press"}, []string{"Shoulders"}, 3, "10-15"},
			{"Incline Dumbbell Flyes", []string{"incline db fly"}, []string{"Chest"}, 3, "12-15"},
			{"Overhead Cable Tricep Extensions", []string{"overhead tricep extension"}, []string{"Triceps"}, 3, "12-15"},
		},
	},
	{
		dayOfWeek: 5,
		dayName:   "Pull B",
		exercises: []seedExercise{
			{"Pull-ups", []string{"pullups"}, []string{"Back", "Biceps"}, 4, "To Failure"},
			{"Seated Cable Rows", []string{"cable row"}, []string{"Back"}, 3, "10-15"},
			{"Dumbbell Pullovers", []string{"db pullover"}, []string{"Back", "Chest"}, 3, "12-15"},
			{"Hammer Curls", []string{"db hammer curls"}, []string{"Biceps"}, 3, "10-15"},
			{"Boxing Bag", []string{"heavy bag"}, []string{"Cardio", "Shoulders"}, 1, "5 min"},
		},
	},
	{
		dayOfWeek: 6,
		dayName:   "Legs B",
		exercises: []seedExercise{
			{"Smith Machine Squats", []string{"smith squat"}, []string{"Quads", "Glutes"}, 4, "8-12"},
			{"Dumbbell Walking Lunges", []string{"db lunges"}, []string{"Quads", "Glutes"}, 3, "20 steps"},
			{"Hamstring Curls", []string{"leg curls"}, []string{"Hamstrings"}, 3, "15-20"},
			{"Bulgarian Split Squats", []string{"bss", "split squats"}, []string{"Quads", "Glutes"}, 3, "10-12/leg"},
			{"Kettlebell Swings", []string{"kb swings"}, []string{"Glutes", "Hamstrings", "Cardio"}, 4, "20"},
		},
	},
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	dbUrl := os.Getenv("DB_URL")
	if dbUrl == "" {
		log.Fatal("DB_URL environment variable is required")
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, dbUrl)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close(ctx)

	tx, err := conn.Begin(ctx)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	// Reseeding replaces the whole catalog.
	if _, err := tx.Exec(ctx, "DELETE FROM workout_plans"); err != nil {
		log.Fatalf("Failed to clear existing plans: %v", err)
	}

	inserted := 0
	for _, plan := range workoutPlans {
		var planID int64
		err := tx.QueryRow(ctx,
			"INSERT INTO workout_plans (day_of_week, day_name) VALUES ($1, $2) RETURNING id",
			plan.dayOfWeek, plan.dayName,
		).Scan(&planID)
		if err != nil {
			log.Fatalf("Failed to insert plan %q: %v", plan.dayName, err)
		}

		for position, exercise := range plan.exercises {
			_, err := tx.Exec(ctx, `
				INSERT INTO plan_exercises (id, plan_id, name, aliases, muscle_groups, position, target_sets, target_reps)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				uuid.New(), planID, exercise.name, exercise.aliases, exercise.muscleGroups,
				position+1, exercise.targetSets, exercise.targetReps,
			)
			if err != nil {
				log.Fatalf("Failed to insert exercise %q: %v", exercise.name, err)
			}
			inserted++
		}
	}

	if err := tx.Commit(ctx); err != nil {
		log.Fatal(err)
	}

	log.Printf("Seeded %d plans with %d exercises", len(workoutPlans), inserted)
}
