// Package agent composes document-grounded prompts and orchestrates one
// extract-then-ask round trip per call. Nothing is shared across calls.
package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/BerylCAtieno/document-qa-api/internal/extractor"
	"github.com/BerylCAtieno/document-qa-api/internal/llm"
)

// DefaultSystemInstruction keeps the model inside the supplied context.
const DefaultSystemInstruction = `Use the provided context to answer the question. If you cannot find the answer from the provided context, say "I cannot find the answer in the provided context."`

// Options select the model and system instruction for one ask. Zero values
// fall back to the agent's defaults.
type Options struct {
	SystemMessage string
	Model         string
}

// DocumentQA answers questions about a document's content. Each Ask is
// independent: read the document, build the prompt, call the model.
type DocumentQA struct {
	client       llm.Client
	reader       *extractor.Registry
	defaultModel string
}

func New(client llm.Client, reader *extractor.Registry, defaultModel string) *DocumentQA {
	return &DocumentQA{
		client:       client,
		reader:       reader,
		defaultModel: defaultModel,
	}
}

// ComposePrompt embeds the document text and the question verbatim into a
// single prompt string.
func ComposePrompt(docText, question string) string {
	return fmt.Sprintf("Context: %s\nQuestion: %s", docText, question)
}

// Ask reads the document at path and answers the question from its content.
// Any downstream failure, from extraction or the model call, is wrapped
// under a single message; the underlying error remains recoverable with
// errors.As.
func (a *DocumentQA) Ask(ctx context.Context, path, question string, opts Options) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", fmt.Errorf("question must not be empty")
	}

	docText, err := a.reader.Read(path)
	if err != nil {
		return "", fmt.Errorf("error processing the document: %w", err)
	}

	answer, err := a.AskText(ctx, docText, question, opts)
	if err != nil {
		return "", err
	}

	return answer, nil
}

// AskText answers the question from already-extracted document text.
func (a *DocumentQA) AskText(ctx context.Context, docText, question string, opts Options) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", fmt.Errorf("question must not be empty")
	}

	systemMessage := opts.SystemMessage
	if systemMessage == "" {
		systemMessage = DefaultSystemInstruction
	}

	model := opts.Model
	if model == "" {
		model = a.defaultModel
	}

	answer, err := a.client.Ask(ctx, llm.AskRequest{
		UserContent:   ComposePrompt(docText, question),
		SystemMessage: systemMessage,
		Model:         model,
	})
	if err != nil {
		return "", fmt.Errorf("error processing the document: %w", err)
	}

	return answer, nil
}
