package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"voice-todo/internal/logger"
	"voice-todo/internal/model"
)

// AIService turns free text into a to-do list action through an
// OpenAI-compatible chat completion endpoint (Groq by default).
type AIService struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

func NewAIService(baseURL, apiKey, model string) *AIService {
	return &AIService{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

func (s *AIService) chatJSON(ctx context.Context, system, user string) (string, error) {
	body := map[string]any{
		"model":           s.model,
		"temperature":     0,
		"response_format": map[string]string{"type": "json_object"},
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("llm call: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("llm call: %w", &APIError{Status: resp.StatusCode, Body: string(data)})
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("%w: empty choices", ErrInvalidReply)
	}
	return result.Choices[0].Message.Content, nil
}

// DetermineAction asks the model which action the user's text implies.
// emoji and todos are optional; see BuildActionPrompt.
func (s *AIService) DetermineAction(ctx context.Context, text, emoji string, todos []model.TodoItem) (*model.Action, error) {
	log := logger.Ctx(ctx)
	log.Info("ai.determine_action", "text", text, "emoji", emoji, "todos", len(todos), "has_list", todos != nil)
	start := time.Now()

	reply, err := s.chatJSON(ctx, actionSystemPrompt(), BuildActionPrompt(text, emoji, todos))
	if err != nil {
		return nil, fmt.Errorf("determine action: %w", err)
	}
	action, err := parseAction(reply)
	if err != nil {
		log.Warn("ai.determine_action.bad_reply", "reply", reply, "err", err)
		return nil, fmt.Errorf("determine action: %w", err)
	}

	log.Info("ai.determine_action.done", "duration_ms", time.Since(start).Milliseconds(), "action", action)
	return action, nil
}

func parseAction(reply string) (*model.Action, error) {
	raw := []byte(extractJSON(reply))
	nulls, err := model.NullFields(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReply, err)
	}
	if len(nulls) > 0 {
		return nil, fmt.Errorf("%w: null value for %s", ErrInvalidReply, strings.Join(nulls, ", "))
	}
	var a model.Action
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReply, err)
	}
	if err := a.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReply, err)
	}
	a.Normalize()
	return &a, nil
}

// extractJSON strips markdown fences and any chatter around the object.
func extractJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	if i, j := strings.Index(s, "{"), strings.LastIndex(s, "}"); i >= 0 && j > i {
		return s[i : j+1]
	}
	return strings.TrimSpace(s)
}
