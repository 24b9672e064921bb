package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/himudigonda/Vyayamam/internal/models"
)

// AICoachService is the external text-generation collaborator. Both calls
// are fallible and bounded; callers substitute fallback text on failure.
type AICoachService interface {
	Ask(ctx context.Context, question string, history []models.DailyLog) (string, error)
	SummarizeSession(ctx context.Context, exercises []models.CompletedExercise) (string, error)
}

const (
	askSystemPrompt = "You are Astra, an expert strength coach. " +
		"Reply with a short, factual, actionable answer for WhatsApp. " +
		"Use only the workout data provided. No hallucination. " +
		"Use clear language, short paragraphs, and emojis. No markdown, no code blocks."

	summarySystemPrompt = "You are Astra, an expert strength coach. Your client just finished a workout. " +
		"Your task is to provide a short (2-3 sentences), encouraging, and insightful summary. " +
		"Directly address the user. Mention 1-2 specific positive achievements from the data, " +
		"like a new PR or consistent volume. " +
		"Your tone should be like a proud but professional coach. Use emojis."
)

// OllamaCoachService talks to a local Ollama daemon over its chat endpoint.
type OllamaCoachService struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

func NewOllamaCoachService(baseURL, model string) *OllamaCoachService {
	return &OllamaCoachService{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
}

func (s *OllamaCoachService) Ask(ctx context.Context, question string, history []models.DailyLog) (string, error) {
	historyJSON, err := json.MarshalIndent(historyPayload(history), "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode workout history: %w", err)
	}

	prompt := fmt.Sprintf("Question: %s\nWorkout data:\n%s", question, historyJSON)
	return s.chat(ctx, askSystemPrompt, prompt)
}

func (s *OllamaCoachService) SummarizeSession(ctx context.Context, exercises []models.CompletedExercise) (string, error) {
	sessionJSON, err := json.MarshalIndent(sessionPayload(exercises), "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode session data: %w", err)
	}

	prompt := fmt.Sprintf(
		"Here is the data for the workout I just completed. Please give me a summary.\n\n%s",
		sessionJSON,
	)
	return s.chat(ctx, summarySystemPrompt, prompt)
}

func (s *OllamaCoachService) chat(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	log.WithField("model", s.model).Debug("sending prompt to ollama")
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("call ollama: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("ollama: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var decoded chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode ollama response: %w", err)
	}
	return strings.TrimSpace(decoded.Message.Content), nil
}

// Prompt payloads carry only training data: no statuses, timestamps, or ids.

type setPayload struct {
	Weight float64 `json:"weight"`
	Reps   int     `json:"reps"`
	RPE    *int    `json:"rpe,omitempty"`
}

type exercisePayload struct {
	Name           string       `json:"name"`
	Sets           []setPayload `json:"sets"`
	PersonalRecord bool         `json:"personal_record,omitempty"`
}

type dayPayload struct {
	Date      string            `json:"date"`
	Grade     *string           `json:"grade,omitempty"`
	Exercises []exercisePayload `json:"exercises"`
}

func sessionPayload(exercises []models.CompletedExercise) []exercisePayload {
	payload := make([]exercisePayload, 0, len(exercises))
	for _, entry := range exercises {
		sets := make([]setPayload, 0, len(entry.Sets))
		for _, set := range entry.Sets {
			sets = append(sets, setPayload{Weight: set.Weight, Reps: set.Reps, RPE: set.RPE})
		}
		payload = append(payload, exercisePayload{
			Name:           entry.Name,
			Sets:           sets,
			PersonalRecord: entry.PersonalRecordAchieved,
		})
	}
	return payload
}

func historyPayload(history []models.DailyLog) []dayPayload {
	payload := make([]dayPayload, 0, len(history))
	for _, dayLog := range history {
		if dayLog.WorkoutSession == nil {
			continue
		}
		payload = append(payload, dayPayload{
			Date:      dayLog.Date,
			Grade:     dayLog.WorkoutSession.Grade,
			Exercises: sessionPayload(dayLog.WorkoutSession.CompletedExercises),
		})
	}
	return payload
}
