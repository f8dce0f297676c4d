package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BerylCAtieno/document-qa-api/internal/agent"
	"github.com/BerylCAtieno/document-qa-api/internal/config"
	"github.com/BerylCAtieno/document-qa-api/internal/extractor"
	"github.com/BerylCAtieno/document-qa-api/internal/models"
	"github.com/BerylCAtieno/document-qa-api/internal/repository"
	"github.com/BerylCAtieno/document-qa-api/internal/storage"
	"github.com/BerylCAtieno/document-qa-api/internal/utils"
)

type DocumentService interface {
	UploadDocument(ctx context.Context, req *models.UploadRequest) (*models.UploadResponse, error)
	AskDocument(ctx context.Context, id string, req *models.AskRequest) (*models.AskResponse, error)
	GetDocument(ctx context.Context, id string) (*models.Document, error)
	DeleteDocument(ctx context.Context, id string) error
	Formats() []string
}

type documentService struct {
	repo    repository.Repository
	storage storage.Storage
	qa      *agent.DocumentQA
	reader  *extractor.Registry
	cfg     *config.Config
	logger  *utils.Logger
}

func NewService(repo repository.Repository, store storage.Storage, qa *agent.DocumentQA, reader *extractor.Registry, cfg *config.Config, logger *utils.Logger) DocumentService {
	return &documentService{
		repo:    repo,
		storage: store,
		qa:      qa,
		reader:  reader,
		cfg:     cfg,
		logger:  logger,
	}
}

func (s *documentService) UploadDocument(ctx context.Context, req *models.UploadRequest) (*models.UploadResponse, error) {
	docID := utils.GenerateID()

	extractedText, err := s.reader.ReadBytes(req.Filename, req.File)
	if err != nil {
		s.logger.Error("Failed to extract text", "error", err, "filename", req.Filename)
		return nil, extractionError(err)
	}

	if strings.TrimSpace(extractedText) == "" {
		s.logger.Warn("No text extracted from document", "filename", req.Filename)
		return nil, utils.NewBadRequestError("No text could be extracted from the document. The file may be empty or corrupted")
	}

	s3Key := fmt.Sprintf("documents/%s/%s", docID, req.Filename)
	if err := s.storage.Upload(ctx, s3Key, req.File, req.ContentType); err != nil {
		s.logger.Error("Failed to upload to S3", "error", err, "s3_key", s3Key)
		return nil, utils.NewInternalError("Failed to store document")
	}

	now := time.Now()
	doc := &models.Document{
		ID:            docID,
		Filename:      req.Filename,
		FileSize:      int64(len(req.File)),
		ContentType:   req.ContentType,
		S3Key:         s3Key,
		ExtractedText: extractedText,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, doc); err != nil {
		s.logger.Error("Failed to save document to database", "error", err, "doc_id", docID)
		// Attempt to cleanup S3
		_ = s.storage.Delete(ctx, s3Key)
		return nil, utils.NewInternalError("Failed to save document metadata")
	}

	s.logger.Info("Document uploaded successfully",
		"id", docID,
		"filename", req.Filename,
		"text_length", len(extractedText))

	return &models.UploadResponse{
		ID:          docID,
		Filename:    req.Filename,
		FileSize:    doc.FileSize,
		ContentType: doc.ContentType,
		CreatedAt:   now,
		Message:     "Document uploaded successfully. Use /documents/{id}/ask to ask questions about it.",
	}, nil
}

func (s *documentService) AskDocument(ctx context.Context, id string, req *models.AskRequest) (*models.AskResponse, error) {
	if strings.TrimSpace(req.Question) == "" {
		return nil, utils.NewBadRequestError("Question is required")
	}

	model := req.Model
	if model == "" {
		model = s.cfg.OpenRouterModel
	}
	if !s.isAllowedModel(model) {
		return nil, utils.NewBadRequestError(fmt.Sprintf("Model %q is not available. Available models: %s",
			model, strings.Join(s.cfg.OpenRouterModels, ", ")))
	}

	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get document", "error", err, "id", id)
		return nil, utils.NewInternalError("Failed to retrieve document")
	}
	if doc == nil {
		return nil, utils.NewNotFoundError("Document not found")
	}

	s.logger.Info("Asking question about document", "id", id, "model", model, "text_length", len(doc.ExtractedText))

	answer, err := s.qa.AskText(ctx, doc.ExtractedText, req.Question, agent.Options{Model: model})
	if err != nil {
		s.logger.Error("Failed to answer question", "error", err, "id", id)
		return nil, utils.NewInternalError("Failed to get an answer from the model")
	}

	return &models.AskResponse{
		ID:     id,
		Model:  model,
		Answer: answer,
	}, nil
}

func (s *documentService) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get document", "error", err, "id", id)
		return nil, utils.NewInternalError("Failed to retrieve document")
	}
	if doc == nil {
		return nil, utils.NewNotFoundError("Document not found")
	}

	return doc, nil
}

func (s *documentService) DeleteDocument(ctx context.Context, id string) error {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get document", "error", err, "id", id)
		return utils.NewInternalError("Failed to retrieve document")
	}
	if doc == nil {
		return utils.NewNotFoundError("Document not found")
	}

	if err := s.storage.Delete(ctx, doc.S3Key); err != nil {
		s.logger.Error("Failed to delete from S3", "error", err, "s3_key", doc.S3Key)
		return utils.NewInternalError("Failed to delete stored document")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete document record", "error", err, "id", id)
		return utils.NewInternalError("Failed to delete document metadata")
	}

	s.logger.Info("Document deleted", "id", id)
	return nil
}

func (s *documentService) Formats() []string {
	return s.reader.Formats()
}

func (s *documentService) isAllowedModel(model string) bool {
	for _, m := range s.cfg.OpenRouterModels {
		if m == model {
			return true
		}
	}
	return false
}

// extractionError maps extractor failures onto HTTP-facing errors. Client
// mistakes (wrong format, broken encoding) are 400s; a missing parser
// capability is on us.
func extractionError(err error) error {
	var unsupported *extractor.UnsupportedFormatError
	if errors.As(err, &unsupported) {
		return utils.NewBadRequestError(unsupported.Error())
	}

	var decoding *extractor.DecodingError
	if errors.As(err, &decoding) {
		return utils.NewBadRequestError(decoding.Error())
	}

	var capability *extractor.CapabilityError
	if errors.As(err, &capability) {
		return utils.NewInternalError(capability.Error())
	}

	return utils.NewBadRequestError(fmt.Sprintf("Failed to extract text from document: %v", err))
}
