package handlers_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/BerylCAtieno/document-qa-api/internal/agent"
	"github.com/BerylCAtieno/document-qa-api/internal/extractor"
	"github.com/BerylCAtieno/document-qa-api/internal/llm"
	"github.com/BerylCAtieno/document-qa-api/internal/router"
	"github.com/BerylCAtieno/document-qa-api/internal/services"
	"github.com/BerylCAtieno/document-qa-api/internal/utils"
)

type stubLLM struct {
	answer string
}

func (c *stubLLM) Ask(ctx context.Context, req llm.AskRequest) (string, error) {
	return c.answer, nil
}

var testModels = []string{"openai/gpt-4o-mini", "openai/gpt-4o"}

func newWebServer(t *testing.T, answer string) http.Handler {
	t.Helper()
	qa := agent.New(&stubLLM{answer: answer}, extractor.NewRegistry(), testModels[0])
	return router.NewRouter(&stubService{}, qa, testModels, utils.NewDiscardLogger())
}

func newAPIServer(t *testing.T, svc services.DocumentService) http.Handler {
	t.Helper()
	qa := agent.New(&stubLLM{}, extractor.NewRegistry(), testModels[0])
	return router.NewRouter(svc, qa, testModels, utils.NewDiscardLogger())
}

func multipartBody(t *testing.T, filename, content, question, model string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if filename != "" {
		part, err := w.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("failed to create file part: %v", err)
		}
		if _, err := part.Write([]byte(content)); err != nil {
			t.Fatalf("failed to write file part: %v", err)
		}
	}
	if err := w.WriteField("question", question); err != nil {
		t.Fatalf("failed to write question field: %v", err)
	}
	if err := w.WriteField("model", model); err != nil {
		t.Fatalf("failed to write model field: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	return &buf, w.FormDataContentType()
}

func TestFormListsModels(t *testing.T) {
	handler := newWebServer(t, "")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("GET / returned %d", rec.Code)
	}
	for _, model := range testModels {
		if !strings.Contains(rec.Body.String(), model) {
			t.Errorf("form does not offer model %s", model)
		}
	}
}

func TestAskFormHappyPath(t *testing.T) {
	handler := newWebServer(t, "blue")

	body, contentType := multipartBody(t, "notes.txt", "The sky is blue.", "What color is the sky?", testModels[0])
	req := httptest.NewRequest(http.MethodPost, "/ask", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("POST /ask returned %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "blue") {
		t.Errorf("page does not show the answer: %s", rec.Body.String())
	}
}

func TestAskFormWithoutFile(t *testing.T) {
	handler := newWebServer(t, "unreachable")

	body, contentType := multipartBody(t, "", "", "What color is the sky?", testModels[0])
	req := httptest.NewRequest(http.MethodPost, "/ask", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !strings.Contains(rec.Body.String(), "Error: Please upload a document first.") {
		t.Errorf("page does not show the missing-file error: %s", rec.Body.String())
	}
}

func TestAskFormBlankQuestion(t *testing.T) {
	handler := newWebServer(t, "unreachable")

	body, contentType := multipartBody(t, "notes.txt", "content", "   ", testModels[0])
	req := httptest.NewRequest(http.MethodPost, "/ask", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !strings.Contains(rec.Body.String(), "Error: Please enter a question.") {
		t.Errorf("page does not show the blank-question error: %s", rec.Body.String())
	}
}

func TestAskFormExtractionFailureRendered(t *testing.T) {
	handler := newWebServer(t, "unreachable")

	body, contentType := multipartBody(t, "table.csv", "a,b,c", "anything?", testModels[0])
	req := httptest.NewRequest(http.MethodPost, "/ask", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	page := rec.Body.String()
	if !strings.Contains(page, "Error:") {
		t.Fatalf("page does not show an error string: %s", page)
	}
	if !strings.Contains(page, "unsupported file format") {
		t.Errorf("page does not show the extraction failure: %s", page)
	}
}
