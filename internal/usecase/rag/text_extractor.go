package rag

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"promptlab-api/internal/domain/entity"
)

type TextExtractor struct{}

func NewTextExtractor() *TextExtractor {
	return &TextExtractor{}
}

// ExtractText turns an uploaded file into plain text, dispatching on the
// filename suffix. Only .txt and .pdf are supported.
func (te *TextExtractor) ExtractText(fileName string, data []byte) (string, error) {
	if strings.HasSuffix(fileName, ".txt") {
		return string(data), nil
	}
	if strings.HasSuffix(fileName, ".pdf") {
		return te.extractPDF(data)
	}
	return "", entity.ErrUnsupportedFileType
}

// extractPDF parses the PDF in memory. The parser can panic on malformed
// input, so the recover guarantees every exit path reports a clean error. A
// whitespace-only result counts as an extraction failure: a scanned PDF must
// be rejected, not answered against blank context.
func (te *TextExtractor) extractPDF(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("%w: parser panic: %v", entity.ErrExtractionFailed, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: failed to parse PDF: %v", entity.ErrExtractionFailed, err)
	}

	var fullText strings.Builder
	numPages := reader.NumPage()

	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		pageText, pageErr := page.GetPlainText(nil)
		if pageErr != nil {
			continue
		}

		fullText.WriteString(pageText)
		fullText.WriteString("\n")
	}

	if strings.TrimSpace(fullText.String()) == "" {
		return "", fmt.Errorf("%w: PDF appears to be empty or contains no extractable text", entity.ErrExtractionFailed)
	}

	return fullText.String(), nil
}
