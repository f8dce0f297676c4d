package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BerylCAtieno/document-qa-api/internal/utils"
)

func TestAskSendsSystemAndUserMessages(t *testing.T) {
	var got chatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("missing bearer token, got %q", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		json.NewEncoder(w).Encode(chatResponse{
			Choices: []choice{{Message: Message{Role: "assistant", Content: "blue"}}},
		})
	}))
	defer server.Close()

	client := NewOpenRouterClient("test-key", server.URL, utils.NewDiscardLogger())

	answer, err := client.Ask(context.Background(), AskRequest{
		UserContent:   "Context: The sky is blue.\nQuestion: What color is the sky?",
		SystemMessage: "Answer from context only.",
		Model:         "openai/gpt-4o-mini",
	})
	if err != nil {
		t.Fatalf("Ask returned error: %v", err)
	}

	if answer != "blue" {
		t.Errorf("Ask returned %q, want %q", answer, "blue")
	}
	if got.Model != "openai/gpt-4o-mini" {
		t.Errorf("request model %q, want %q", got.Model, "openai/gpt-4o-mini")
	}
	if len(got.Messages) != 2 {
		t.Fatalf("request has %d messages, want 2", len(got.Messages))
	}
	if got.Messages[0].Role != "system" || got.Messages[0].Content != "Answer from context only." {
		t.Errorf("first message = %+v, want the system instruction", got.Messages[0])
	}
	if got.Messages[1].Role != "user" {
		t.Errorf("second message role %q, want user", got.Messages[1].Role)
	}
}

func TestAskOmitsSystemMessageWhenEmpty(t *testing.T) {
	var got chatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(chatResponse{
			Choices: []choice{{Message: Message{Role: "assistant", Content: "ok"}}},
		})
	}))
	defer server.Close()

	client := NewOpenRouterClient("test-key", server.URL, utils.NewDiscardLogger())

	if _, err := client.Ask(context.Background(), AskRequest{UserContent: "hi", Model: "m"}); err != nil {
		t.Fatalf("Ask returned error: %v", err)
	}

	if len(got.Messages) != 1 || got.Messages[0].Role != "user" {
		t.Errorf("messages = %+v, want a single user message", got.Messages)
	}
}

func TestAskNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewOpenRouterClient("test-key", server.URL, utils.NewDiscardLogger())

	if _, err := client.Ask(context.Background(), AskRequest{UserContent: "hi", Model: "m"}); err == nil {
		t.Fatal("Ask ignored a non-200 response")
	}
}

func TestAskAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"message": "invalid model", "code": "400"},
		})
	}))
	defer server.Close()

	client := NewOpenRouterClient("test-key", server.URL, utils.NewDiscardLogger())

	_, err := client.Ask(context.Background(), AskRequest{UserContent: "hi", Model: "bad"})
	if err == nil {
		t.Fatal("Ask ignored the API error object")
	}
}

func TestAskEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(chatResponse{})
	}))
	defer server.Close()

	client := NewOpenRouterClient("test-key", server.URL, utils.NewDiscardLogger())

	if _, err := client.Ask(context.Background(), AskRequest{UserContent: "hi", Model: "m"}); err == nil {
		t.Fatal("Ask accepted a response with no choices")
	}
}
