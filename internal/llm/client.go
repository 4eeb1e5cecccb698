// Package llm implements the remote dialogue model collaborator against an
// OpenAI-compatible chat completions API. Every operation sends one blocking
// request asking for a JSON object, validates the response shape, and
// decodes it into the typed domain structure.
package llm

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/parley-labs/parley/internal/logging"
	"github.com/parley-labs/parley/pkg/domain"
)

//go:embed prompts/remediation.txt
var remediationPrompt string

//go:embed prompts/mini_lesson.txt
var miniLessonPrompt string

//go:embed prompts/evaluation.txt
var evaluationPrompt string

const systemPrompt = "You are a training engine for difficult conversations. Always respond with valid JSON."

const requestTimeout = 60 * time.Second

// Client talks to an OpenAI-compatible chat completions endpoint.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
	logger  *slog.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.client = c
	}
}

// WithModel overrides the completion model.
func WithModel(model string) Option {
	return func(cl *Client) {
		cl.model = model
	}
}

// WithLogger configures request logging.
func WithLogger(logger *slog.Logger) Option {
	return func(cl *Client) {
		cl.logger = logger
	}
}

// New creates a client for the given API base URL and key.
func New(baseURL, apiKey string, opts ...Option) *Client {
	cl := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   "gpt-4o-mini",
		client:  &http.Client{Timeout: requestTimeout},
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(cl)
	}
	return cl
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    float64        `json:"temperature"`
	MaxTokens      int            `json:"max_tokens"`
	ResponseFormat responseFormat `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// complete sends one chat completion request and returns the raw message
// content. Network and API failures map to domain.ErrRemoteUnavailable.
func (c *Client) complete(ctx context.Context, operation, prompt string, temperature float64, maxTokens int) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature:    temperature,
		MaxTokens:      maxTokens,
		ResponseFormat: responseFormat{Type: "json_object"},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.client.Do(req)
	requestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		c.logger.Warn("dialogue model request failed", "operation", operation, "err", err)
		return "", fmt.Errorf("%w: %v", domain.ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %v", domain.ErrRemoteUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("dialogue model returned error status",
			"operation", operation, "status", resp.StatusCode)
		return "", fmt.Errorf("%w: status %d", domain.ErrRemoteUnavailable, resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in response", domain.ErrMalformedResponse)
	}

	c.logger.Debug("dialogue model request completed",
		"operation", operation, "duration", time.Since(start))
	return parsed.Choices[0].Message.Content, nil
}

// decodeJSON parses the model's message content into a generic map and then
// into the target struct. Validation happens on the map so missing keys are
// reported precisely instead of surfacing as zero values.
func decodeJSON(content string, required []string, target any) (map[string]any, error) {
	var payload map[string]any
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	for _, key := range required {
		if _, ok := payload[key]; !ok {
			return nil, fmt.Errorf("%w: missing required key %q", domain.ErrMalformedResponse, key)
		}
	}
	if target != nil {
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           target,
			WeaklyTypedInput: true,
		})
		if err != nil {
			return nil, err
		}
		if err := decoder.Decode(payload); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
		}
	}
	return payload, nil
}

// GenerateRemediation synthesizes a remedial multiple-choice exercise
// tailored to the user's failed answer.
func (c *Client) GenerateRemediation(ctx context.Context, topic, userAnswer, failureReason string, failureCount int) (*domain.Remediation, error) {
	prompt := fmt.Sprintf(remediationPrompt, topic, failureCount, userAnswer, failureReason)

	content, err := c.complete(ctx, "generate_remediation", prompt, 0.7, 1500)
	if err != nil {
		return nil, err
	}

	var remediation domain.Remediation
	if _, err := decodeJSON(content, []string{
		"explanation", "remedial_scenario", "remedial_options", "remedial_correct_answer", "hint",
	}, &remediation); err != nil {
		return nil, err
	}

	if len(remediation.Options) != 4 {
		return nil, fmt.Errorf("%w: remedial_options must contain 4 options, got %d",
			domain.ErrMalformedResponse, len(remediation.Options))
	}
	switch remediation.CorrectAnswer {
	case "A", "B", "C", "D":
	default:
		return nil, fmt.Errorf("%w: remedial_correct_answer must be A, B, C, or D",
			domain.ErrMalformedResponse)
	}

	return &remediation, nil
}

// GenerateMiniLesson produces a longer-form lesson on the module topic.
func (c *Client) GenerateMiniLesson(ctx context.Context, topic string) (*domain.MiniLesson, error) {
	prompt := fmt.Sprintf(miniLessonPrompt, topic)

	content, err := c.complete(ctx, "generate_mini_lesson", prompt, 0.7, 2000)
	if err != nil {
		return nil, err
	}

	var lesson domain.MiniLesson
	if _, err := decodeJSON(content, []string{
		"lesson_title", "core_principle", "examples", "common_mistakes", "key_takeaway",
	}, &lesson); err != nil {
		return nil, err
	}

	if len(lesson.Examples) == 0 {
		return nil, fmt.Errorf("%w: examples must be a non-empty list", domain.ErrMalformedResponse)
	}
	for i, example := range lesson.Examples {
		if example.Situation == "" || example.WrongApproach == "" ||
			example.RightApproach == "" || example.WhyItWorks == "" {
			return nil, fmt.Errorf("%w: example %d is incomplete", domain.ErrMalformedResponse, i)
		}
	}

	return &lesson, nil
}

// EvaluateFreeForm scores a free-form answer against the gold response using
// the five-dimension rubric.
func (c *Client) EvaluateFreeForm(ctx context.Context, userAnswer, scenario, goldResponse string, stepID int) (*domain.EvaluationResult, error) {
	prompt := fmt.Sprintf(evaluationPrompt, stepID, scenario, userAnswer, goldResponse)

	content, err := c.complete(ctx, "evaluate_free_form", prompt, 0.3, 1500)
	if err != nil {
		return nil, err
	}

	var verdict struct {
		Dimensions   domain.Rubric `mapstructure:"dimensions"`
		Feedback     string        `mapstructure:"feedback"`
		Strengths    []string      `mapstructure:"strengths"`
		Improvements []string      `mapstructure:"improvements"`
	}
	if _, err := decodeJSON(content, []string{"dimensions"}, &verdict); err != nil {
		return nil, err
	}

	total := verdict.Dimensions.Total()

	feedback := verdict.Feedback
	if len(verdict.Strengths) > 0 {
		feedback += "\n\nStrengths:\n- " + strings.Join(verdict.Strengths, "\n- ")
	}
	if len(verdict.Improvements) > 0 {
		feedback += "\n\nAreas for improvement:\n- " + strings.Join(verdict.Improvements, "\n- ")
	}

	rubric := verdict.Dimensions
	return &domain.EvaluationResult{
		Passed:    total >= domain.DefaultPassThreshold,
		Score:     total,
		Feedback:  feedback,
		Rubric:    &rubric,
		Threshold: domain.DefaultPassThreshold,
	}, nil
}
