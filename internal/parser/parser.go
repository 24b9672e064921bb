package parser

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/himudigonda/Vyayamam/internal/models"
)

// ExerciseResolver maps noisy exercise text to a catalog definition.
// A nil definition with a nil error means no candidate scored high enough.
type ExerciseResolver interface {
	Resolve(ctx context.Context, query string) (*models.ExerciseDefinition, error)
}

var (
	// Flexible set-log grammar: {exercise name} {weight} {reps} with optional,
	// order-fixed rpe and notes clauses. Matches almost anything ending in two
	// numbers, so it is tried dead last.
	setLogPattern = regexp.MustCompile(
		`(?i)^(?P<exercise_name>.+?)\s+(?P<weight>\d+\.?\d*)\s+(?P<reps>\d+)` +
			`(?:\s+rpe\s+(?P<rpe>\d+))?(?:\s+notes\s+(?P<notes>.+))?$`,
	)

	sleepPattern    = regexp.MustCompile(`(?i)^/sleep\s+(\d+(?:\.\d+)?)$`)
	stressPattern   = regexp.MustCompile(`(?i)^/stress\s+(\d+)$`)
	sorenessPattern = regexp.MustCompile(`(?i)^/soreness\s+(.+)$`)
)

// Parser turns a raw message into one typed intent. Rules are tried in a
// fixed precedence order; the first match wins.
type Parser struct {
	resolver ExerciseResolver
}

func New(resolver ExerciseResolver) *Parser {
	return &Parser{resolver: resolver}
}

// Parse returns the matched intent, or a *ParseFailure (as error) when no
// rule matches or a matched rule carries bad data. Any other error is a
// resolver (persistence) failure and is fatal to the request.
func (p *Parser) Parse(ctx context.Context, raw string) (Intent, error) {
	message := strings.TrimSpace(raw)
	lower := strings.ToLower(message)

	// 1. Exact keyword commands.
	switch lower {
	case "/plans":
		return ListAll{}, nil
	case "/today":
		return ListToday{}, nil
	case "/help", "help":
		return Help{}, nil
	case "/ping", "ping":
		return Ping{}, nil
	}

	// 2. AI coach question.
	if lower == "/ask" || strings.HasPrefix(lower, "/ask ") {
		question := strings.TrimSpace(message[len("/ask"):])
		if question == "" {
			return nil, &ParseFailure{Reason: ReasonEmptyQuestion}
		}
		return AskAI{Question: question}, nil
	}

	// 3. Session commands, including the legacy no-slash forms.
	switch lower {
	case "/start", "/start workout":
		return StartSession{}, nil
	case "/end", "/done", "/end workout", "done", "end workout":
		return EndSession{}, nil
	}

	// 4. Readiness commands. A malformed argument falls through rather than
	// producing an error, matching the strict per-command grammar.
	if m := sleepPattern.FindStringSubmatch(message); m != nil {
		hours, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			return LogSleep{Hours: hours}, nil
		}
	}
	if m := stressPattern.FindStringSubmatch(message); m != nil {
		level, err := strconv.Atoi(m[1])
		if err == nil && level >= 1 && level <= 10 {
			return LogStress{Level: level}, nil
		}
	}
	if m := sorenessPattern.FindStringSubmatch(message); m != nil {
		return LogSoreness{Area: strings.TrimSpace(m[1])}, nil
	}

	// 5. Legacy next-exercise synonyms.
	switch lower {
	case "next", "what's next?", "next exercise":
		return NextExercise{}, nil
	}

	// 6. Fallback: the set-log grammar.
	if m := setLogPattern.FindStringSubmatch(message); m != nil {
		return p.parseSetLog(ctx, m)
	}

	return nil, &ParseFailure{Reason: ReasonUnrecognized}
}

func (p *Parser) parseSetLog(ctx context.Context, match []string) (Intent, error) {
	fields := captures(setLogPattern, match)
	query := strings.TrimSpace(fields["exercise_name"])

	definition, err := p.resolver.Resolve(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("resolve exercise %q: %w", query, err)
	}
	if definition == nil {
		return nil, &ParseFailure{Reason: ReasonExerciseNotFound, Query: query}
	}

	weight, err := strconv.ParseFloat(fields["weight"], 64)
	if err != nil {
		return nil, &ParseFailure{Reason: ReasonInvalidDataFormat}
	}
	reps, err := strconv.Atoi(fields["reps"])
	if err != nil {
		return nil, &ParseFailure{Reason: ReasonInvalidDataFormat}
	}

	set := models.SetEntry{Weight: weight, Reps: reps}
	if raw := fields["rpe"]; raw != "" {
		rpe, err := strconv.Atoi(raw)
		if err != nil {
			return nil, &ParseFailure{Reason: ReasonInvalidDataFormat}
		}
		set.RPE = &rpe
	}
	if raw := strings.TrimSpace(fields["notes"]); raw != "" {
		notes := raw
		set.Notes = &notes
	}

	return LogSet{Exercise: *definition, Set: set}, nil
}

func captures(pattern *regexp.Regexp, match []string) map[string]string {
	fields := make(map[string]string)
	for i, name := range pattern.SubexpNames() {
		if name != "" && i < len(match) {
			fields[name] = match[i]
		}
	}
	return fields
}
