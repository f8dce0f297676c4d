package router

import (
	"net/http"

	"github.com/BerylCAtieno/document-qa-api/internal/agent"
	"github.com/BerylCAtieno/document-qa-api/internal/handlers"
	"github.com/BerylCAtieno/document-qa-api/internal/middleware"
	"github.com/BerylCAtieno/document-qa-api/internal/services"
	"github.com/BerylCAtieno/document-qa-api/internal/utils"

	"github.com/gorilla/mux"
)

func NewRouter(docService services.DocumentService, qa *agent.DocumentQA, models []string, logger *utils.Logger) http.Handler {
	r := mux.NewRouter()

	// Middlewares
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS())
	r.Use(middleware.Recovery(logger))

	docHandler := handlers.NewDocumentHandler(docService, logger)
	webHandler := handlers.NewWebHandler(qa, models, logger)

	// Upload-and-ask form
	r.HandleFunc("/", webHandler.ShowForm).Methods(http.MethodGet)
	r.HandleFunc("/ask", webHandler.Ask).Methods(http.MethodPost)

	api := r.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)

	// Document endpoints
	api.HandleFunc("/formats", docHandler.ListFormats).Methods(http.MethodGet)
	api.HandleFunc("/documents/upload", docHandler.UploadDocument).Methods(http.MethodPost)
	api.HandleFunc("/documents/{id}/ask", docHandler.AskDocument).Methods(http.MethodPost)
	api.HandleFunc("/documents/{id}", docHandler.GetDocument).Methods(http.MethodGet)
	api.HandleFunc("/documents/{id}", docHandler.DeleteDocument).Methods(http.MethodDelete)

	return r
}
