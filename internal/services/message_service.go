package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/himudigonda/Vyayamam/internal/models"
	"github.com/himudigonda/Vyayamam/internal/parser"
	"github.com/himudigonda/Vyayamam/internal/repository"
	livews "github.com/himudigonda/Vyayamam/internal/websocket"
)

const (
	historyLimit = 5

	helpText = "🏋️ Here's what I understand:\n\n" +
		"Log a set: '<exercise> <weight> <reps> [rpe #] [notes ...]'\n" +
		"next — what to do next\n" +
		"/start — start today's session\n" +
		"/end — finish and grade today's session\n" +
		"/sleep <hours>, /stress <1-10>, /soreness <area>\n" +
		"/today — today's plan, /plans — the full week\n" +
		"/ask <question> — ask your AI coach\n" +
		"/ping — check I'm alive"

	unrecognizedReply = "Sorry, I didn't understand that. Please use the format:\n" +
		"'exercise weight reps [rpe #] [notes ...]'\n" +
		"Or a command like 'next'. Type /help to see everything I know."

	invalidFormatReply = "There was an error in the format of your log. Please check the weight/reps/rpe."

	emptyQuestionReply = "Please include a question after /ask."

	noHistoryReply = "I don't have enough workout history for you yet. " +
		"Please log a few more workouts before asking for analysis."

	coachUnavailableReply = "I'm having trouble connecting to my analysis engine right now. " +
		"Please try again in a bit."
)

type intentParser interface {
	Parse(ctx context.Context, raw string) (parser.Intent, error)
}

type readinessStore interface {
	GetOrCreate(ctx context.Context, userID, date string) (*models.DailyLog, error)
	SetSleepHours(ctx context.Context, userID, date string, hours float64) error
	SetStressLevel(ctx context.Context, userID, date string, level int) error
	AppendSoreness(ctx context.Context, userID, date, area string) error
	RecentSessions(ctx context.Context, userID string, limit int) ([]models.DailyLog, error)
}

type catalogReader interface {
	planLister
	planReader
}

type setLogger interface {
	StartSession(ctx context.Context, userID string) (StartOutcome, error)
	LogSet(ctx context.Context, userID string, def models.ExerciseDefinition, set models.SetEntry) (*SetResult, error)
}

type nextSelector interface {
	NextExercise(ctx context.Context, userID string) (*NextExerciseResult, error)
}

type gradeFinalizer interface {
	GradeAndFinalize(ctx context.Context, userID string) (*GradeResult, error)
}

type questionAnswerer interface {
	Ask(ctx context.Context, question string, history []models.DailyLog) (string, error)
}

// EventPublisher receives live training events; a nil publisher disables the
// feed.
type EventPublisher interface {
	Publish(event livews.Event)
}

// MessageService runs the full inbound pipeline for one message: parse,
// dispatch on intent, mutate state, and render the reply text. Parse and
// session failures become friendly replies; persistence failures propagate
// and fail the request.
type MessageService struct {
	parser      intentParser
	logs        readinessStore
	catalog     catalogReader
	workouts    setLogger
	progression nextSelector
	grader      gradeFinalizer
	coach       questionAnswerer
	events      EventPublisher
	clock       func() time.Time
}

func NewMessageService(
	intents intentParser,
	logs readinessStore,
	catalog catalogReader,
	workouts setLogger,
	progression nextSelector,
	grader gradeFinalizer,
	coach questionAnswerer,
	events EventPublisher,
) *MessageService {
	return &MessageService{
		parser:      intents,
		logs:        logs,
		catalog:     catalog,
		workouts:    workouts,
		progression: progression,
		grader:      grader,
		coach:       coach,
		events:      events,
		clock:       time.Now,
	}
}

func (s *MessageService) HandleMessage(ctx context.Context, userID, body string) (string, error) {
	date := s.clock().UTC().Format(models.DateLayout)

	// The daily log exists from the first interaction of the day onward.
	if _, err := s.logs.GetOrCreate(ctx, userID, date); err != nil {
		return "", fmt.Errorf("get or create daily log: %w", err)
	}

	intent, err := s.parser.Parse(ctx, body)
	if err != nil {
		var failure *parser.ParseFailure
		if errors.As(err, &failure) {
			return failureReply(failure), nil
		}
		return "", err
	}

	switch in := intent.(type) {
	case parser.Ping:
		return "pong 🏓", nil
	case parser.Help:
		return helpText, nil
	case parser.ListAll:
		return s.listAllPlans(ctx)
	case parser.ListToday:
		return s.listTodayPlan(ctx)
	case parser.AskAI:
		return s.askCoach(ctx, userID, in.Question)
	case parser.StartSession:
		return s.startSession(ctx, userID)
	case parser.EndSession:
		return s.endSession(ctx, userID)
	case parser.LogSleep:
		if err := s.logs.SetSleepHours(ctx, userID, date, in.Hours); err != nil {
			return "", fmt.Errorf("set sleep hours: %w", err)
		}
		return fmt.Sprintf("😴 Logged %s hours of sleep.", formatNumber(in.Hours)), nil
	case parser.LogStress:
		if err := s.logs.SetStressLevel(ctx, userID, date, in.Level); err != nil {
			return "", fmt.Errorf("set stress level: %w", err)
		}
		return fmt.Sprintf("Stress level %d/10 recorded.", in.Level), nil
	case parser.LogSoreness:
		if err := s.logs.AppendSoreness(ctx, userID, date, in.Area); err != nil {
			return "", fmt.Errorf("append soreness: %w", err)
		}
		return fmt.Sprintf("Noted soreness: %s. I'll keep it in mind.", in.Area), nil
	case parser.NextExercise:
		return s.nextExercise(ctx, userID)
	case parser.LogSet:
		return s.logSet(ctx, userID, in)
	default:
		// Unreachable as long as the switch covers every intent kind.
		return "", fmt.Errorf("unhandled intent type %T", intent)
	}
}

func failureReply(failure *parser.ParseFailure) string {
	switch failure.Reason {
	case parser.ReasonExerciseNotFound:
		return fmt.Sprintf("Could not find an exercise matching '%s'. Please check the name.", failure.Query)
	case parser.ReasonInvalidDataFormat:
		return invalidFormatReply
	case parser.ReasonEmptyQuestion:
		return emptyQuestionReply
	default:
		return unrecognizedReply
	}
}

func (s *MessageService) logSet(ctx context.Context, userID string, in parser.LogSet) (string, error) {
	result, err := s.workouts.LogSet(ctx, userID, in.Exercise, in.Set)
	if err != nil {
		return "", fmt.Errorf("log set: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "✅ Set %d/%d for %s logged.\n(%s lbs/kg x %d reps)",
		result.SetNumber, in.Exercise.TargetSets, in.Exercise.Name,
		formatNumber(in.Set.Weight), in.Set.Reps)
	if result.NewRecord {
		b.WriteString("\n\n🎉 New personal record! Heaviest you've ever moved on this one.")
	}
	if result.SetNumber >= in.Exercise.TargetSets {
		b.WriteString("\n\nAll sets complete! Type 'next' for the next exercise.")
	}

	s.publish(livews.Event{
		Type:      livews.EventSetLogged,
		UserID:    userID,
		Exercise:  in.Exercise.Name,
		Weight:    in.Set.Weight,
		Reps:      in.Set.Reps,
		SetNumber: result.SetNumber,
	})
	if result.NewRecord {
		s.publish(livews.Event{
			Type:     livews.EventPRAchieved,
			UserID:   userID,
			Exercise: in.Exercise.Name,
			Weight:   in.Set.Weight,
		})
	}

	return b.String(), nil
}

func (s *MessageService) startSession(ctx context.Context, userID string) (string, error) {
	outcome, err := s.workouts.StartSession(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("start session: %w", err)
	}
	switch outcome {
	case StartAlreadyCompleted:
		return "Today's session is already wrapped up. See you tomorrow! 🌙", nil
	case StartAlreadyInProgress:
		return "Workout already in progress. Keep going! 💪", nil
	}
	return "💪 Session started. Log your first set or type 'next' to see what's up.", nil
}

func (s *MessageService) endSession(ctx context.Context, userID string) (string, error) {
	result, err := s.grader.GradeAndFinalize(ctx, userID)
	switch {
	case errors.Is(err, ErrNoSession):
		return "No active session to end. Log a set or /start to begin one.", nil
	case errors.Is(err, ErrNoCompletedExercises):
		return "You haven't logged any exercises yet — nothing to grade.", nil
	case err != nil:
		return "", fmt.Errorf("finalize session: %w", err)
	}

	if result.AlreadyCompleted {
		return fmt.Sprintf("This session is already wrapped up. Grade: %s", result.Grade), nil
	}

	s.publish(livews.Event{
		Type:   livews.EventSessionCompleted,
		UserID: userID,
		Grade:  result.Grade,
	})

	return fmt.Sprintf("🏁 Session complete! Grade: %s\n\n%s", result.Grade, result.Summary), nil
}

func (s *MessageService) nextExercise(ctx context.Context, userID string) (string, error) {
	result, err := s.progression.NextExercise(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("next exercise: %w", err)
	}

	switch result.Outcome {
	case NoPlanToday:
		return "No plan for today — rest day 🧘", nil
	case SessionComplete:
		return "All planned exercises are done. Type '/end' to wrap up and get your grade! 🏁", nil
	}

	def := result.Exercise
	var b strings.Builder
	fmt.Fprintf(&b, "➡️ Next up: %s (%d sets of %s)", def.Name, def.TargetSets, def.TargetReps)
	if result.LastPerformance != nil {
		fmt.Fprintf(&b, "\nLast time: %s lbs/kg x %d reps (%s)",
			formatNumber(result.LastPerformance.Weight),
			result.LastPerformance.Reps,
			result.LastPerformance.Date)
	} else {
		b.WriteString("\nNo previous data for this one.")
	}
	if result.PersonalRecord != nil {
		fmt.Fprintf(&b, "\nPR: %s lbs/kg — go for %s to set a new record!",
			formatNumber(*result.PersonalRecord), formatNumber(*result.SuggestedTarget))
	} else {
		b.WriteString("\nNo record yet — set a baseline today!")
	}
	return b.String(), nil
}

func (s *MessageService) askCoach(ctx context.Context, userID, question string) (string, error) {
	history, err := s.logs.RecentSessions(ctx, userID, historyLimit)
	if err != nil {
		return "", fmt.Errorf("load workout history: %w", err)
	}
	if len(history) == 0 {
		return noHistoryReply, nil
	}

	answer, err := s.coach.Ask(ctx, question, history)
	if err != nil {
		log.WithError(err).Warn("ai coach unavailable")
		return coachUnavailableReply, nil
	}
	return answer, nil
}

func (s *MessageService) listAllPlans(ctx context.Context) (string, error) {
	plans, err := s.catalog.FindAll(ctx)
	if err != nil {
		return "", fmt.Errorf("list plans: %w", err)
	}
	if len(plans) == 0 {
		return "No workout plans are loaded yet.", nil
	}

	var b strings.Builder
	for i, plan := range plans {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(renderPlan(plan))
	}
	return b.String(), nil
}

func (s *MessageService) listTodayPlan(ctx context.Context) (string, error) {
	plan, err := s.catalog.FindByWeekday(ctx, isoWeekday(s.clock().UTC()))
	if err != nil {
		if repository.IsNotFound(err) {
			return "No plan for today — rest day 🧘", nil
		}
		return "", fmt.Errorf("load today's plan: %w", err)
	}
	return renderPlan(*plan), nil
}

func renderPlan(plan models.DayPlan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📋 %s (day %d):", plan.DayName, plan.DayOfWeek)
	for _, def := range plan.Exercises {
		fmt.Fprintf(&b, "\n%d. %s — %d x %s", def.Order, def.Name, def.TargetSets, def.TargetReps)
	}
	return b.String()
}

func (s *MessageService) publish(event livews.Event) {
	if s.events == nil {
		return
	}
	s.events.Publish(event)
}

// formatNumber renders weights and hours without trailing zeros.
func formatNumber(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
