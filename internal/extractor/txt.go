package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// textEncoding is one entry in the fallback chain. decode must fail rather
// than guess: a decoder that accepts anything would shadow the encodings
// behind it in the chain.
type textEncoding struct {
	name   string
	decode func(data []byte) (string, error)
}

// TextExtractor decodes plain-text files. UTF-8 is the primary encoding;
// on failure the fallback encodings are tried in order and the first
// success wins. When the chain is exhausted the last failure is surfaced
// as a DecodingError.
type TextExtractor struct {
	fallbacks []textEncoding
}

func NewTextExtractor() *TextExtractor {
	return &TextExtractor{
		fallbacks: []textEncoding{
			{name: "utf-16", decode: decodeUTF16},
			{name: "windows-1252", decode: decodeWindows1252},
		},
	}
}

func (e *TextExtractor) Extract(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty text file")
	}

	if utf8.Valid(data) {
		return string(stripUTF8BOM(data)), nil
	}

	attempted := []string{"utf-8"}
	last := errors.New("invalid UTF-8 byte sequence")

	for _, enc := range e.fallbacks {
		attempted = append(attempted, enc.name)
		text, err := enc.decode(data)
		if err == nil {
			return text, nil
		}
		last = err
	}

	return "", &DecodingError{Attempted: attempted, Last: last}
}

func stripUTF8BOM(data []byte) []byte {
	if bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}) {
		return data[3:]
	}
	return data
}

// decodeUTF16 requires a byte order mark; without one the endianness would
// be a guess.
func decodeUTF16(data []byte) (string, error) {
	var endianness unicode.Endianness

	switch {
	case bytes.HasPrefix(data, []byte{0xFF, 0xFE}):
		endianness = unicode.LittleEndian
	case bytes.HasPrefix(data, []byte{0xFE, 0xFF}):
		endianness = unicode.BigEndian
	default:
		return "", fmt.Errorf("missing UTF-16 byte order mark")
	}

	decoder := unicode.UTF16(endianness, unicode.UseBOM).NewDecoder()
	decoded, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return "", err
	}

	return string(decoded), nil
}

// decodeWindows1252 rejects the five code points Windows-1252 leaves
// undefined; anything else decodes unconditionally.
func decodeWindows1252(data []byte) (string, error) {
	for _, b := range data {
		switch b {
		case 0x81, 0x8D, 0x8F, 0x90, 0x9D:
			return "", fmt.Errorf("byte 0x%02X has no windows-1252 mapping", b)
		}
	}

	decoder := charmap.Windows1252.NewDecoder()
	decoded, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return "", err
	}

	return string(decoded), nil
}
