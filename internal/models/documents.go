package models

import (
	"time"
)

type Document struct {
	ID            string    `json:"id" db:"id"`
	Filename      string    `json:"filename" db:"filename"`
	FileSize      int64     `json:"file_size" db:"file_size"`
	ContentType   string    `json:"content_type" db:"content_type"`
	S3Key         string    `json:"s3_key" db:"s3_key"`
	ExtractedText string    `json:"extracted_text,omitempty" db:"extracted_text"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

type UploadRequest struct {
	File        []byte
	Filename    string
	ContentType string
}

type UploadResponse struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	FileSize    int64     `json:"file_size"`
	ContentType string    `json:"content_type"`
	CreatedAt   time.Time `json:"created_at"`
	Message     string    `json:"message"`
}

// AskRequest is the JSON body of a stored-document ask. Model is optional;
// the configured default is used when empty.
type AskRequest struct {
	Question string `json:"question"`
	Model    string `json:"model,omitempty"`
}

// AskResponse carries the model's answer. Neither the question nor the
// answer is persisted anywhere.
type AskResponse struct {
	ID     string `json:"id"`
	Model  string `json:"model"`
	Answer string `json:"answer"`
}

type FormatsResponse struct {
	Formats []string `json:"formats"`
}
