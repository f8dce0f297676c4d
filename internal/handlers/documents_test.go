package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/BerylCAtieno/document-qa-api/internal/models"
	"github.com/BerylCAtieno/document-qa-api/internal/utils"
)

// stubService returns canned responses; the handler layer under test only
// routes, validates and serializes.
type stubService struct {
	uploaded *models.UploadRequest
	asked    *models.AskRequest
	askedID  string
}

func (s *stubService) UploadDocument(ctx context.Context, req *models.UploadRequest) (*models.UploadResponse, error) {
	s.uploaded = req
	return &models.UploadResponse{ID: "doc-1", Filename: req.Filename}, nil
}

func (s *stubService) AskDocument(ctx context.Context, id string, req *models.AskRequest) (*models.AskResponse, error) {
	s.askedID = id
	s.asked = req
	if id == "missing" {
		return nil, utils.NewNotFoundError("Document not found")
	}
	return &models.AskResponse{ID: id, Model: "openai/gpt-4o-mini", Answer: "blue"}, nil
}

func (s *stubService) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	if id == "missing" {
		return nil, utils.NewNotFoundError("Document not found")
	}
	return &models.Document{ID: id, Filename: "notes.txt"}, nil
}

func (s *stubService) DeleteDocument(ctx context.Context, id string) error {
	return nil
}

func (s *stubService) Formats() []string {
	return []string{".doc", ".docx", ".pdf", ".txt"}
}

func TestUploadEndpoint(t *testing.T) {
	svc := &stubService{}
	handler := newAPIServer(t, svc)

	body, contentType := multipartBody(t, "notes.txt", "The sky is blue.", "", "")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("upload returned %d: %s", rec.Code, rec.Body.String())
	}
	if svc.uploaded == nil || svc.uploaded.Filename != "notes.txt" {
		t.Errorf("service got %+v, want the uploaded file", svc.uploaded)
	}
	if svc.uploaded.ContentType != "text/plain" {
		t.Errorf("content type %q, want text/plain", svc.uploaded.ContentType)
	}
}

func TestUploadEndpointNoFile(t *testing.T) {
	handler := newAPIServer(t, &stubService{})

	body, contentType := multipartBody(t, "", "", "", "")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("upload without file returned %d", rec.Code)
	}
}

func TestAskEndpoint(t *testing.T) {
	svc := &stubService{}
	handler := newAPIServer(t, svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/doc-1/ask",
		strings.NewReader(`{"question":"What color is the sky?"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("ask returned %d: %s", rec.Code, rec.Body.String())
	}

	var resp models.AskResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Answer != "blue" {
		t.Errorf("answer %q, want %q", resp.Answer, "blue")
	}
	if svc.askedID != "doc-1" || svc.asked.Question != "What color is the sky?" {
		t.Errorf("service got id=%q req=%+v", svc.askedID, svc.asked)
	}
}

func TestAskEndpointNotFound(t *testing.T) {
	handler := newAPIServer(t, &stubService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/missing/ask",
		strings.NewReader(`{"question":"anything?"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("ask on missing document returned %d", rec.Code)
	}
}

func TestAskEndpointInvalidJSON(t *testing.T) {
	handler := newAPIServer(t, &stubService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/doc-1/ask",
		strings.NewReader(`{`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("ask with invalid JSON returned %d", rec.Code)
	}
}

func TestFormatsEndpoint(t *testing.T) {
	handler := newAPIServer(t, &stubService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/formats", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("formats returned %d", rec.Code)
	}

	var resp models.FormatsResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Formats) != 4 {
		t.Errorf("formats = %v, want 4 entries", resp.Formats)
	}
}

func TestHealthEndpoint(t *testing.T) {
	handler := newAPIServer(t, &stubService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("health returned %d", rec.Code)
	}
}
