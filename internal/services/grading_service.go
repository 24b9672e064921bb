package services

import (
	"context"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/himudigonda/Vyayamam/internal/models"
	"github.com/himudigonda/Vyayamam/internal/repository"
)

const (
	// GradeNoPlan is assigned when the session day has no plan to adhere to.
	GradeNoPlan = "N/A"

	// summaryTimeout bounds the text-generation call; on expiry the grader
	// falls back to FallbackSummary and finalizes anyway.
	summaryTimeout = 120 * time.Second

	// FallbackSummary replaces the AI summary whenever the collaborator
	// fails; finalization must never block on it.
	FallbackSummary = "Couldn't generate an AI summary this time, but great work on the session!"
)

type sessionFinalizer interface {
	Find(ctx context.Context, userID, date string) (*models.DailyLog, error)
	FinalizeSession(ctx context.Context, userID, date string, endedAt time.Time, grade, aiSummary string) error
}

type sessionSummarizer interface {
	SummarizeSession(ctx context.Context, exercises []models.CompletedExercise) (string, error)
}

type GradeResult struct {
	Grade   string
	Summary string
	// AlreadyCompleted marks the idempotent no-op path: the session was
	// finalized earlier and nothing was mutated.
	AlreadyCompleted bool
}

// GradingService scores plan adherence at session end, asks the AI coach for
// a summary, and finalizes the session as one atomic update.
type GradingService struct {
	logs  sessionFinalizer
	plans planReader
	coach sessionSummarizer
	clock func() time.Time
}

func NewGradingService(logs sessionFinalizer, plans planReader, coach sessionSummarizer) *GradingService {
	return &GradingService{logs: logs, plans: plans, coach: coach, clock: time.Now}
}

func (s *GradingService) GradeAndFinalize(ctx context.Context, userID string) (*GradeResult, error) {
	now := s.clock().UTC()
	date := now.Format(models.DateLayout)

	dayLog, err := s.logs.Find(ctx, userID, date)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNoSession
		}
		return nil, err
	}
	session := dayLog.WorkoutSession
	if session == nil {
		return nil, ErrNoSession
	}
	if session.Status == models.SessionCompleted {
		result := &GradeResult{AlreadyCompleted: true}
		if session.Grade != nil {
			result.Grade = *session.Grade
		}
		if session.AISummary != nil {
			result.Summary = *session.AISummary
		}
		return result, nil
	}
	if len(session.CompletedExercises) == 0 {
		return nil, ErrNoCompletedExercises
	}

	grade, err := s.grade(ctx, now, session)
	if err != nil {
		return nil, err
	}
	summary := s.summarize(ctx, session)

	if err := s.logs.FinalizeSession(ctx, userID, date, now, grade, summary); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"user": userID, "grade": grade}).Info("session finalized")
	return &GradeResult{Grade: grade, Summary: summary}, nil
}

func (s *GradingService) grade(ctx context.Context, now time.Time, session *models.WorkoutSession) (string, error) {
	plan, err := s.plans.FindByWeekday(ctx, isoWeekday(now))
	if err != nil {
		if repository.IsNotFound(err) {
			return GradeNoPlan, nil
		}
		return "", err
	}
	if len(plan.Exercises) == 0 {
		return GradeNoPlan, nil
	}

	completed := make(map[string]struct{}, len(session.CompletedExercises))
	hasRecord := false
	for _, entry := range session.CompletedExercises {
		completed[entry.Name] = struct{}{}
		if entry.PersonalRecordAchieved {
			hasRecord = true
		}
	}

	matched := 0
	for _, def := range plan.Exercises {
		if _, ok := completed[def.Name]; ok {
			matched++
		}
	}
	adherence := float64(matched) / float64(len(plan.Exercises))

	return letterGrade(adherence, hasRecord), nil
}

func letterGrade(adherence float64, hasRecord bool) string {
	switch {
	case adherence >= 0.90 && hasRecord:
		return "A+"
	case adherence >= 0.90:
		return "A"
	case adherence >= 0.70:
		return "B"
	case adherence >= 0.50:
		return "C"
	case adherence > 0:
		return "D"
	default:
		return "F"
	}
}

func (s *GradingService) summarize(ctx context.Context, session *models.WorkoutSession) string {
	ctx, cancel := context.WithTimeout(ctx, summaryTimeout)
	defer cancel()

	summary, err := s.coach.SummarizeSession(ctx, session.CompletedExercises)
	if err != nil {
		log.WithError(err).Warn("session summary generation failed, using fallback")
		return FallbackSummary
	}
	if strings.TrimSpace(summary) == "" {
		return FallbackSummary
	}
	return strings.TrimSpace(summary)
}
