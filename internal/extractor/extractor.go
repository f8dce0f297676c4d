// Package extractor converts document files into plain text. A Registry
// dispatches on the file extension to one Extractor per format.
package extractor

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// NotFoundError is returned when the document path does not exist. The
// existence check runs before any extension or content handling.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("file not found: %s", e.Path)
}

// UnsupportedFormatError is returned for extensions with no registered
// extractor. Supported always holds the full registered set.
type UnsupportedFormatError struct {
	Extension string
	Supported []string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file format: %q. Supported formats are: %s",
		e.Extension, strings.Join(e.Supported, ", "))
}

// DecodingError is returned when every attempted text encoding failed.
type DecodingError struct {
	Attempted []string
	Last      error
}

func (e *DecodingError) Error() string {
	return fmt.Sprintf("failed to decode text file (tried %s): %v",
		strings.Join(e.Attempted, ", "), e.Last)
}

func (e *DecodingError) Unwrap() error {
	return e.Last
}

// CapabilityError is returned when a binary-format extractor was built
// without its parser.
type CapabilityError struct {
	Capability string
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("%s is required to read this file but is not available", e.Capability)
}

// Extractor produces the plain-text content of one document format.
type Extractor interface {
	Extract(data []byte) (string, error)
}

type Registry struct {
	extractors map[string]Extractor
}

// NewRegistry returns a registry with the default format set: .txt, .pdf,
// and .doc/.docx (both routed to the Word extractor).
func NewRegistry() *Registry {
	r := &Registry{extractors: make(map[string]Extractor)}

	word := NewWordExtractor()
	r.Register(".txt", NewTextExtractor())
	r.Register(".pdf", NewPDFExtractor())
	r.Register(".doc", word)
	r.Register(".docx", word)

	return r
}

// Register binds an extension (with leading dot, lowercase) to an extractor.
func (r *Registry) Register(ext string, e Extractor) {
	r.extractors[strings.ToLower(ext)] = e
}

// Formats returns the registered extensions in sorted order.
func (r *Registry) Formats() []string {
	formats := make([]string, 0, len(r.extractors))
	for ext := range r.extractors {
		formats = append(formats, ext)
	}
	sort.Strings(formats)
	return formats
}

// Read extracts the text content of the file at path. The existence check
// runs first, then extension validation, then the format extractor; each
// phase either succeeds or aborts the whole read.
func (r *Registry) Read(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &NotFoundError{Path: path}
		}
		return "", fmt.Errorf("failed to stat %s: %w", path, err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	e, ok := r.extractors[ext]
	if !ok {
		return "", &UnsupportedFormatError{Extension: ext, Supported: r.Formats()}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	return e.Extract(data)
}

// ReadBytes extracts text from in-memory content, dispatching on the
// extension of the supplied filename. Used for uploads that never touch
// disk; there is no existence check.
func (r *Registry) ReadBytes(filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	e, ok := r.extractors[ext]
	if !ok {
		return "", &UnsupportedFormatError{Extension: ext, Supported: r.Formats()}
	}

	return e.Extract(data)
}
