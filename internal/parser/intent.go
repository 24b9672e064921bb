package parser

import (
	"fmt"

	"github.com/himudigonda/Vyayamam/internal/models"
)

// Intent is a parsed inbound message. Each kind carries only the fields that
// intent needs, so dispatch can switch exhaustively on the concrete type.
type Intent interface {
	intent()
}

// ListAll asks for every day plan in the catalog.
type ListAll struct{}

// ListToday asks for today's day plan.
type ListToday struct{}

// Help asks for the command reference.
type Help struct{}

// Ping is a liveness check.
type Ping struct{}

// AskAI is a free-form question for the AI coach.
type AskAI struct {
	Question string
}

// StartSession explicitly opens today's workout session.
type StartSession struct{}

// EndSession finalizes today's workout session.
type EndSession struct{}

// LogSleep records last night's sleep in hours.
type LogSleep struct {
	Hours float64
}

// LogStress records today's stress level (1-10).
type LogStress struct {
	Level int
}

// LogSoreness appends a free-text sore area to today's readiness.
type LogSoreness struct {
	Area string
}

// NextExercise asks the progression engine what to do next.
type NextExercise struct{}

// LogSet records one performed set for a resolved catalog exercise.
type LogSet struct {
	Exercise models.ExerciseDefinition
	Set      models.SetEntry
}

func (ListAll) intent()      {}
func (ListToday) intent()    {}
func (Help) intent()         {}
func (Ping) intent()         {}
func (AskAI) intent()        {}
func (StartSession) intent() {}
func (EndSession) intent()   {}
func (LogSleep) intent()     {}
func (LogStress) intent()    {}
func (LogSoreness) intent()  {}
func (NextExercise) intent() {}
func (LogSet) intent()       {}

type FailureReason string

const (
	ReasonUnrecognized      FailureReason = "unrecognized"
	ReasonEmptyQuestion     FailureReason = "empty_question"
	ReasonInvalidDataFormat FailureReason = "invalid_data_format"
	ReasonExerciseNotFound  FailureReason = "exercise_not_found"
)

// ParseFailure is a recoverable parse outcome: the caller turns it into a
// user-facing hint, never a fault.
type ParseFailure struct {
	Reason FailureReason
	// Query holds the exercise text that failed to resolve for
	// ReasonExerciseNotFound.
	Query string
}

func (f *ParseFailure) Error() string {
	if f.Query != "" {
		return fmt.Sprintf("parse failure: %s (%q)", f.Reason, f.Query)
	}
	return fmt.Sprintf("parse failure: %s", f.Reason)
}
