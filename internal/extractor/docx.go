package extractor

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

type wordDocument struct {
	XMLName xml.Name `xml:"document"`
	Body    wordBody `xml:"body"`
}

type wordBody struct {
	Paragraphs []wordParagraph `xml:"p"`
}

type wordParagraph struct {
	Runs []wordRun `xml:"r"`
}

type wordRun struct {
	Text string `xml:"t"`
}

// WordExtractor reads Word documents paragraph by paragraph. Both .doc and
// .docx are routed here; the DOCX container (a ZIP holding
// word/document.xml) is the format actually parsed.
type WordExtractor struct {
	parse func(data []byte) (string, error)
}

func NewWordExtractor() *WordExtractor {
	return &WordExtractor{parse: parseDOCX}
}

func (e *WordExtractor) Extract(data []byte) (string, error) {
	if e.parse == nil {
		return "", &CapabilityError{Capability: "Word document parsing"}
	}
	return e.parse(data)
}

func parseDOCX(data []byte) (string, error) {
	reader := bytes.NewReader(data)

	zipReader, err := zip.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read Word document as ZIP: %w", err)
	}

	var documentFile *zip.File
	for _, file := range zipReader.File {
		if file.Name == "word/document.xml" {
			documentFile = file
			break
		}
	}

	if documentFile == nil {
		return "", fmt.Errorf("document.xml not found in Word document")
	}

	xmlFile, err := documentFile.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open document.xml: %w", err)
	}
	defer xmlFile.Close()

	xmlData, err := io.ReadAll(xmlFile)
	if err != nil {
		return "", fmt.Errorf("failed to read document.xml: %w", err)
	}

	var doc wordDocument
	if err := xml.Unmarshal(xmlData, &doc); err != nil {
		return "", fmt.Errorf("failed to parse document.xml: %w", err)
	}

	paragraphs := make([]string, 0, len(doc.Body.Paragraphs))
	for _, para := range doc.Body.Paragraphs {
		var runs strings.Builder
		for _, run := range para.Runs {
			runs.WriteString(run.Text)
		}
		paragraphs = append(paragraphs, runs.String())
	}

	extracted := strings.TrimSpace(strings.Join(paragraphs, "\n"))
	if extracted == "" {
		return "", fmt.Errorf("no text could be extracted from Word document")
	}

	return extracted, nil
}
