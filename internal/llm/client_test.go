package llm_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parley-labs/parley/internal/llm"
	"github.com/parley-labs/parley/pkg/domain"
)

// chatServer fakes an OpenAI-compatible chat completions endpoint that
// returns the given message content, recording the last request.
func chatServer(t *testing.T, content string) (*httptest.Server, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.path = r.URL.Path
		captured.auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured.body))

		w.Header().Set("Content-Type", "application/json")
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": content}},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	t.Cleanup(srv.Close)
	return srv, captured
}

type capturedRequest struct {
	path string
	auth string
	body map[string]any
}

func errorServer(t *testing.T, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "nope"}}`, status)
	}))
	t.Cleanup(srv.Close)
	return srv
}

const remediationJSON = `{
	"explanation": "The answer dismissed the concern.",
	"remedial_scenario": "A teammate calls the check-ins surveillance.",
	"remedial_options": ["Tough luck.", "I hear you; the format is yours to choose.", "Everyone does it.", "Moving on."],
	"remedial_correct_answer": "B",
	"hint": "Validate first."
}`

func TestClient_GenerateRemediation(t *testing.T) {
	srv, captured := chatServer(t, remediationJSON)
	client := llm.New(srv.URL, "sk-test")

	remediation, err := client.GenerateRemediation(context.Background(), "Autonomy vs Accountability", "A", "dismissive", 1)
	require.NoError(t, err)

	assert.Equal(t, "The answer dismissed the concern.", remediation.Explanation)
	assert.Len(t, remediation.Options, 4)
	assert.Equal(t, "B", remediation.CorrectAnswer)
	assert.Equal(t, "Validate first.", remediation.Hint)

	assert.Equal(t, "/chat/completions", captured.path)
	assert.Equal(t, "Bearer sk-test", captured.auth)
	assert.Equal(t, "gpt-4o-mini", captured.body["model"])
	format, ok := captured.body["response_format"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "json_object", format["type"])

	messages, ok := captured.body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
	user := messages[1].(map[string]any)["content"].(string)
	assert.Contains(t, user, "Autonomy vs Accountability")
	assert.Contains(t, user, "dismissive")
}

func TestClient_GenerateRemediation_Validation(t *testing.T) {
	t.Run("missing key", func(t *testing.T) {
		srv, _ := chatServer(t, `{"explanation": "x", "remedial_scenario": "y"}`)
		client := llm.New(srv.URL, "sk-test")

		_, err := client.GenerateRemediation(context.Background(), "t", "a", "r", 1)
		require.ErrorIs(t, err, domain.ErrMalformedResponse)
		assert.ErrorContains(t, err, "remedial_options")
	})

	t.Run("wrong option count", func(t *testing.T) {
		srv, _ := chatServer(t, `{
			"explanation": "x", "remedial_scenario": "y",
			"remedial_options": ["one", "two"],
			"remedial_correct_answer": "A", "hint": "h"
		}`)
		client := llm.New(srv.URL, "sk-test")

		_, err := client.GenerateRemediation(context.Background(), "t", "a", "r", 1)
		require.ErrorIs(t, err, domain.ErrMalformedResponse)
		assert.ErrorContains(t, err, "4 options")
	})

	t.Run("correct answer outside A-D", func(t *testing.T) {
		srv, _ := chatServer(t, `{
			"explanation": "x", "remedial_scenario": "y",
			"remedial_options": ["one", "two", "three", "four"],
			"remedial_correct_answer": "E", "hint": "h"
		}`)
		client := llm.New(srv.URL, "sk-test")

		_, err := client.GenerateRemediation(context.Background(), "t", "a", "r", 1)
		require.ErrorIs(t, err, domain.ErrMalformedResponse)
	})

	t.Run("content is not json", func(t *testing.T) {
		srv, _ := chatServer(t, "I cannot answer that.")
		client := llm.New(srv.URL, "sk-test")

		_, err := client.GenerateRemediation(context.Background(), "t", "a", "r", 1)
		assert.ErrorIs(t, err, domain.ErrMalformedResponse)
	})
}

const miniLessonJSON = `{
	"lesson_title": "Autonomy vs Accountability",
	"core_principle": "Own outcomes, delegate methods.",
	"examples": [{
		"situation": "Status pushback",
		"wrong_approach": "Demand daily reports",
		"right_approach": "Agree one checkpoint",
		"why_it_works": "Ownership stays with the doer"
	}],
	"common_mistakes": ["Arguing about trust"],
	"key_takeaway": "State the constraint, return the choice."
}`

func TestClient_GenerateMiniLesson(t *testing.T) {
	srv, _ := chatServer(t, miniLessonJSON)
	client := llm.New(srv.URL, "sk-test")

	lesson, err := client.GenerateMiniLesson(context.Background(), "Autonomy vs Accountability")
	require.NoError(t, err)

	assert.Equal(t, "Autonomy vs Accountability", lesson.Title)
	require.Len(t, lesson.Examples, 1)
	assert.Equal(t, "Status pushback", lesson.Examples[0].Situation)
	assert.Equal(t, []string{"Arguing about trust"}, lesson.CommonMistakes)
}

func TestClient_GenerateMiniLesson_Validation(t *testing.T) {
	t.Run("empty examples", func(t *testing.T) {
		srv, _ := chatServer(t, `{
			"lesson_title": "t", "core_principle": "p",
			"examples": [], "common_mistakes": [], "key_takeaway": "k"
		}`)
		client := llm.New(srv.URL, "sk-test")

		_, err := client.GenerateMiniLesson(context.Background(), "t")
		require.ErrorIs(t, err, domain.ErrMalformedResponse)
		assert.ErrorContains(t, err, "non-empty")
	})

	t.Run("incomplete example", func(t *testing.T) {
		srv, _ := chatServer(t, `{
			"lesson_title": "t", "core_principle": "p",
			"examples": [{"situation": "s", "wrong_approach": "w"}],
			"common_mistakes": [], "key_takeaway": "k"
		}`)
		client := llm.New(srv.URL, "sk-test")

		_, err := client.GenerateMiniLesson(context.Background(), "t")
		require.ErrorIs(t, err, domain.ErrMalformedResponse)
		assert.ErrorContains(t, err, "incomplete")
	})
}

func TestClient_EvaluateFreeForm(t *testing.T) {
	t.Run("passing verdict with composed feedback", func(t *testing.T) {
		srv, captured := chatServer(t, `{
			"dimensions": {"de_escalation": 2, "validation": 2, "clarity": 1.5, "autonomy": 1.5, "next_step": 1.5},
			"feedback": "Strong response.",
			"strengths": ["Validates the concern"],
			"improvements": ["Name the checkpoint date"]
		}`)
		client := llm.New(srv.URL, "sk-test")

		res, err := client.EvaluateFreeForm(context.Background(), "my answer", "the scenario", "the gold", 5)
		require.NoError(t, err)

		assert.True(t, res.Passed)
		assert.Equal(t, 8.5, res.Score)
		assert.Equal(t, 7.0, res.Threshold)
		require.NotNil(t, res.Rubric)
		assert.Equal(t, 2.0, res.Rubric.DeEscalation)

		assert.Contains(t, res.Feedback, "Strong response.")
		assert.Contains(t, res.Feedback, "Strengths:\n- Validates the concern")
		assert.Contains(t, res.Feedback, "Areas for improvement:\n- Name the checkpoint date")

		user := captured.body["messages"].([]any)[1].(map[string]any)["content"].(string)
		assert.Contains(t, user, "my answer")
		assert.Contains(t, user, "the gold")
	})

	t.Run("exact threshold passes", func(t *testing.T) {
		srv, _ := chatServer(t, `{
			"dimensions": {"de_escalation": 2, "validation": 2, "clarity": 1, "autonomy": 1, "next_step": 1},
			"feedback": "Adequate."
		}`)
		client := llm.New(srv.URL, "sk-test")

		res, err := client.EvaluateFreeForm(context.Background(), "a", "s", "g", 4)
		require.NoError(t, err)
		assert.True(t, res.Passed)
		assert.Equal(t, 7.0, res.Score)
	})

	t.Run("below threshold fails", func(t *testing.T) {
		srv, _ := chatServer(t, `{
			"dimensions": {"de_escalation": 1, "validation": 1, "clarity": 2, "autonomy": 1.5, "next_step": 1},
			"feedback": "Missing validation."
		}`)
		client := llm.New(srv.URL, "sk-test")

		res, err := client.EvaluateFreeForm(context.Background(), "a", "s", "g", 4)
		require.NoError(t, err)
		assert.False(t, res.Passed)
		assert.Equal(t, 6.5, res.Score)
	})

	t.Run("missing dimensions", func(t *testing.T) {
		srv, _ := chatServer(t, `{"feedback": "no scores"}`)
		client := llm.New(srv.URL, "sk-test")

		_, err := client.EvaluateFreeForm(context.Background(), "a", "s", "g", 4)
		require.ErrorIs(t, err, domain.ErrMalformedResponse)
		assert.ErrorContains(t, err, "dimensions")
	})
}

func TestClient_RemoteFailures(t *testing.T) {
	t.Run("error status", func(t *testing.T) {
		srv := errorServer(t, http.StatusTooManyRequests)
		client := llm.New(srv.URL, "sk-test")

		_, err := client.GenerateMiniLesson(context.Background(), "t")
		require.ErrorIs(t, err, domain.ErrRemoteUnavailable)
		assert.ErrorContains(t, err, "429")
	})

	t.Run("unreachable endpoint", func(t *testing.T) {
		srv := errorServer(t, http.StatusOK)
		url := srv.URL
		srv.Close()

		client := llm.New(url, "sk-test")
		_, err := client.GenerateMiniLesson(context.Background(), "t")
		assert.ErrorIs(t, err, domain.ErrRemoteUnavailable)
	})

	t.Run("empty choices", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"choices": []}`))
		}))
		t.Cleanup(srv.Close)

		client := llm.New(srv.URL, "sk-test")
		_, err := client.GenerateMiniLesson(context.Background(), "t")
		require.ErrorIs(t, err, domain.ErrMalformedResponse)
		assert.ErrorContains(t, err, "no choices")
	})
}

func TestClient_ModelOverride(t *testing.T) {
	srv, captured := chatServer(t, miniLessonJSON)
	client := llm.New(srv.URL, "sk-test", llm.WithModel("gpt-4o"))

	_, err := client.GenerateMiniLesson(context.Background(), "t")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", captured.body["model"])
}
