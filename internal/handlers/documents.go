package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/BerylCAtieno/document-qa-api/internal/models"
	"github.com/BerylCAtieno/document-qa-api/internal/services"
	"github.com/BerylCAtieno/document-qa-api/internal/utils"
	"github.com/gorilla/mux"
)

const (
	MaxFileSize = 5 << 20 // 5MB
)

type DocumentHandler struct {
	service services.DocumentService
	logger  *utils.Logger
}

func NewDocumentHandler(service services.DocumentService, logger *utils.Logger) *DocumentHandler {
	return &DocumentHandler{
		service: service,
		logger:  logger,
	}
}

func (h *DocumentHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	data, filename, appErr := readUpload(w, r)
	if appErr != nil {
		h.respondError(w, appErr)
		return
	}

	h.logger.Info("File upload attempt",
		"filename", filename,
		"size", len(data))

	req := &models.UploadRequest{
		File:        data,
		Filename:    filename,
		ContentType: contentTypeFor(filename),
	}

	resp, err := h.service.UploadDocument(r.Context(), req)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, resp)
}

func (h *DocumentHandler) AskDocument(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]

	if id == "" {
		h.respondError(w, utils.NewBadRequestError("Document ID is required"))
		return
	}

	var req models.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, utils.NewBadRequestError("Invalid JSON body"))
		return
	}

	resp, err := h.service.AskDocument(r.Context(), id, &req)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, resp)
}

func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]

	if id == "" {
		h.respondError(w, utils.NewBadRequestError("Document ID is required"))
		return
	}

	doc, err := h.service.GetDocument(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, doc)
}

func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]

	if id == "" {
		h.respondError(w, utils.NewBadRequestError("Document ID is required"))
		return
	}

	if err := h.service.DeleteDocument(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *DocumentHandler) ListFormats(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, models.FormatsResponse{Formats: h.service.Formats()})
}

// readUpload parses the multipart form and returns the file bytes and
// filename, enforcing the size cap before anything is read into memory.
func readUpload(w http.ResponseWriter, r *http.Request) ([]byte, string, *utils.AppError) {
	if r.ContentLength > MaxFileSize {
		return nil, "", utils.NewBadRequestError("File size exceeds 5MB limit")
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxFileSize)

	if err := r.ParseMultipartForm(MaxFileSize); err != nil {
		if strings.Contains(err.Error(), "request body too large") {
			return nil, "", utils.NewBadRequestError("File size exceeds 5MB limit")
		}
		return nil, "", utils.NewBadRequestError("Invalid form data")
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", utils.NewBadRequestError("No file provided")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, MaxFileSize+1))
	if err != nil {
		return nil, "", utils.NewInternalError("Failed to read file")
	}

	if len(data) > MaxFileSize {
		return nil, "", utils.NewBadRequestError("File size exceeds 5MB limit")
	}

	if len(data) == 0 {
		return nil, "", utils.NewBadRequestError("Uploaded file is empty")
	}

	return data, header.Filename, nil
}

// contentTypeFor maps the filename extension to a MIME type for storage
// metadata. Format validation itself happens in the extractor registry.
func contentTypeFor(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return "application/pdf"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".doc":
		return "application/msword"
	case ".txt":
		return "text/plain"
	}
	return "application/octet-stream"
}

func (h *DocumentHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode JSON response", "error", err)
	}
}

func (h *DocumentHandler) respondError(w http.ResponseWriter, err error) {
	var status int
	var message string

	switch e := err.(type) {
	case *utils.AppError:
		status = e.StatusCode
		message = e.Message
	default:
		status = http.StatusInternalServerError
		message = "Internal server error"
	}

	h.logger.Error("Request error", "status", status, "error", message)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
