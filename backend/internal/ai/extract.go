package ai

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// maxExtractChars caps how much document text is forwarded to the provider.
const maxExtractChars = 15000

// ExtractText pulls plain text out of an uploaded document. Only PDF and
// plain text are supported; anything else is a validation failure, not a
// provider failure.
func ExtractText(path string) (string, error) {
	var text string

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		extracted, err := extractPDF(path)
		if err != nil {
			log.Printf("Error extracting PDF text from %s: %v", path, err)
			return "", status.Error(codes.InvalidArgument, "could not read PDF document")
		}
		text = extracted
	case ".txt":
		raw, err := os.ReadFile(path)
		if err != nil {
			log.Printf("Error reading text file %s: %v", path, err)
			return "", status.Error(codes.Internal, "failed to read uploaded file")
		}
		text = string(raw)
	default:
		return "", status.Error(codes.InvalidArgument, "unsupported file type")
	}

	if len(text) > maxExtractChars {
		// Never split a multi-byte rune at the cap.
		cut := maxExtractChars
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}
	return text, nil
}

func extractPDF(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	content, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(content); err != nil {
		return "", err
	}
	return buf.String(), nil
}
