package handlers

import (
	"fmt"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/BerylCAtieno/document-qa-api/internal/agent"
	"github.com/BerylCAtieno/document-qa-api/internal/utils"
)

// WebHandler serves the upload-and-ask form. One-shot: the upload is staged
// in a temp file for the duration of the request and removed on every exit
// path; nothing is stored.
type WebHandler struct {
	qa     *agent.DocumentQA
	models []string
	logger *utils.Logger
	tmpl   *template.Template
}

func NewWebHandler(qa *agent.DocumentQA, models []string, logger *utils.Logger) *WebHandler {
	return &WebHandler{
		qa:     qa,
		models: models,
		logger: logger,
		tmpl:   template.Must(template.New("page").Parse(pageTemplate)),
	}
}

type pageData struct {
	Models        []string
	SelectedModel string
	Question      string
	Result        string
}

func (h *WebHandler) ShowForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, pageData{Models: h.models})
}

func (h *WebHandler) Ask(w http.ResponseWriter, r *http.Request) {
	data, filename, appErr := readUpload(w, r)

	// readUpload parses the multipart form, so the text fields are only
	// available after it runs.
	question := r.FormValue("question")
	model := r.FormValue("model")

	if appErr != nil {
		h.render(w, pageData{
			Models:        h.models,
			SelectedModel: model,
			Question:      question,
			Result:        "Error: Please upload a document first.",
		})
		return
	}

	if strings.TrimSpace(question) == "" {
		h.render(w, pageData{
			Models:        h.models,
			SelectedModel: model,
			Result:        "Error: Please enter a question.",
		})
		return
	}

	path, err := stageUpload(filename, data)
	if err != nil {
		h.logger.Error("Failed to stage upload", "error", err, "filename", filename)
		h.render(w, pageData{
			Models:        h.models,
			SelectedModel: model,
			Question:      question,
			Result:        "Error: failed to process the uploaded file.",
		})
		return
	}
	defer os.Remove(path)

	answer, err := h.qa.Ask(r.Context(), path, question, agent.Options{Model: model})

	result := answer
	if err != nil {
		h.logger.Error("Ask failed", "error", err, "filename", filename)
		result = fmt.Sprintf("Error: %v", err)
	}

	h.render(w, pageData{
		Models:        h.models,
		SelectedModel: model,
		Question:      question,
		Result:        result,
	})
}

// stageUpload writes the upload to a temp file that keeps the original
// extension, since the reader dispatches on it.
func stageUpload(filename string, data []byte) (string, error) {
	ext := filepath.Ext(filename)

	f, err := os.CreateTemp("", "upload-*"+ext)
	if err != nil {
		return "", err
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}

	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}

	return f.Name(), nil
}

func (h *WebHandler) render(w http.ResponseWriter, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.Execute(w, data); err != nil {
		h.logger.Error("Failed to render page", "error", err)
	}
}

const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<title>Document Q&amp;A</title>
<style>
body { font-family: sans-serif; max-width: 640px; margin: 2rem auto; padding: 0 1rem; }
label { display: block; margin-top: 1rem; font-weight: bold; }
textarea, select { width: 100%; margin-top: 0.25rem; }
button { margin-top: 1rem; padding: 0.5rem 1.5rem; }
pre { background: #f4f4f4; padding: 1rem; white-space: pre-wrap; }
</style>
</head>
<body>
<h1>Document Q&amp;A</h1>
<p>Upload a document and ask questions about its content.</p>
<form method="post" action="/ask" enctype="multipart/form-data">
<label for="file">Upload Document</label>
<input type="file" id="file" name="file">
<label for="model">Select Model</label>
<select id="model" name="model">
{{range .Models}}<option value="{{.}}"{{if eq . $.SelectedModel}} selected{{end}}>{{.}}</option>
{{end}}</select>
<label for="question">Your Question</label>
<textarea id="question" name="question" rows="3" placeholder="Enter your question about the document here...">{{.Question}}</textarea>
<button type="submit">Get Answer</button>
</form>
{{if .Result}}<h2>Answer</h2>
<pre>{{.Result}}</pre>
{{end}}</body>
</html>
`
