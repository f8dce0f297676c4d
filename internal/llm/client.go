package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/BerylCAtieno/document-qa-api/internal/utils"
)

// AskRequest is one synchronous model call: a user-content string, an
// optional system instruction sent as a separate message, and the model id.
type AskRequest struct {
	UserContent   string
	SystemMessage string
	Model         string
}

// Client is the model boundary. Implementations return the model's textual
// reply and nothing else; token counts and finish reasons are not surfaced.
type Client interface {
	Ask(ctx context.Context, req AskRequest) (string, error)
}

type openRouterClient struct {
	apiKey  string
	baseURL string
	logger  *utils.Logger
	client  *http.Client
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []choice `json:"choices"`
	Error   *struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error,omitempty"`
}

type choice struct {
	Message Message `json:"message"`
}

const defaultBaseURL = "https://openrouter.ai/api/v1/chat/completions"

// NewOpenRouterClient returns a Client backed by OpenRouter's
// chat-completions endpoint. baseURL overrides the endpoint when non-empty;
// tests point it at a local server.
func NewOpenRouterClient(apiKey, baseURL string, logger *utils.Logger) Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &openRouterClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		logger:  logger,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (c *openRouterClient) Ask(ctx context.Context, req AskRequest) (string, error) {
	var messages []Message
	if req.SystemMessage != "" {
		messages = append(messages, Message{Role: "system", Content: req.SystemMessage})
	}
	messages = append(messages, Message{Role: "user", Content: req.UserContent})

	reqBody := chatRequest{
		Model:    req.Model,
		Messages: messages,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("OpenRouter API error", "status", resp.StatusCode, "body", string(body))
		return "", fmt.Errorf("OpenRouter API returned status %d", resp.StatusCode)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if chatResp.Error != nil {
		return "", fmt.Errorf("OpenRouter API error: %s", chatResp.Error.Message)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	return chatResp.Choices[0].Message.Content, nil
}
