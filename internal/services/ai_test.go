package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFakeOpenAI(t *testing.T, content string) *AIService {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req openai.ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Messages) == 0 {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			ID:     "chatcmpl-test",
			Object: "chat.completion",
			Model:  req.Model,
			Choices: []openai.ChatCompletionChoice{{
				Index:        0,
				Message:      openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content},
				FinishReason: openai.FinishReasonStop,
			}},
		})
	}))
	t.Cleanup(server.Close)

	config := openai.DefaultConfig("test-key")
	config.BaseURL = server.URL + "/v1"
	return NewAIServiceWithConfig(config)
}

func TestAIService_GenerateTaskDrafts(t *testing.T) {
	ai := newFakeOpenAI(t, `[
		{"title": "Prepare slides", "description": "for the review", "priority": 1, "deadline": "2030-01-02T15:00:00Z"},
		{"title": "Send minutes", "description": "", "priority": 3, "deadline": null}
	]`)

	drafts, err := ai.GenerateTaskDrafts(context.Background(), "prepare slides by Jan 2nd and send the minutes")
	require.NoError(t, err)
	require.Len(t, drafts, 2)

	assert.Equal(t, "Prepare slides", drafts[0].Title)
	assert.Equal(t, 1, drafts[0].Priority)
	require.NotNil(t, drafts[0].Deadline)
	assert.Equal(t, 2030, drafts[0].Deadline.Year())

	assert.Equal(t, "Send minutes", drafts[1].Title)
	assert.Nil(t, drafts[1].Deadline)
}

func TestAIService_GenerateTaskDrafts_InvalidJSON(t *testing.T) {
	ai := newFakeOpenAI(t, "Sure! Here are your tasks.")

	_, err := ai.GenerateTaskDrafts(context.Background(), "text")
	assert.ErrorContains(t, err, "failed to parse AI response")
}
