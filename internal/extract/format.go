// Package extract converts uploaded documents into plain text.
package extract

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

var ErrUnsupportedFormat = errors.New("unsupported document format")

// Format is the closed set of supported document formats. It is resolved once
// at upload time; nothing downstream dispatches on MIME strings.
type Format int

const (
	FormatPDF Format = iota
	FormatDocx
	FormatCSV
	FormatXLSX
	FormatText
)

func (f Format) String() string {
	switch f {
	case FormatPDF:
		return "pdf"
	case FormatDocx:
		return "docx"
	case FormatCSV:
		return "csv"
	case FormatXLSX:
		return "xlsx"
	case FormatText:
		return "text"
	default:
		return "unknown"
	}
}

// Detect resolves the format from the declared content type, falling back to
// the filename extension. Some browsers report a generic office MIME type for
// both docx and xlsx, so the extension decides when the type is ambiguous.
func Detect(contentType, filename string) (Format, error) {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	switch {
	case strings.Contains(ct, "pdf"):
		return FormatPDF, nil
	case strings.Contains(ct, "wordprocessingml"), strings.Contains(ct, "msword"), strings.Contains(ct, "word"):
		return FormatDocx, nil
	case strings.Contains(ct, "csv"):
		return FormatCSV, nil
	case strings.Contains(ct, "spreadsheetml"), strings.Contains(ct, "excel"):
		return FormatXLSX, nil
	case strings.Contains(ct, "text"):
		return FormatText, nil
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return FormatPDF, nil
	case ".docx":
		return FormatDocx, nil
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	case ".txt":
		return FormatText, nil
	}

	return 0, fmt.Errorf("%w: %q (%s)", ErrUnsupportedFormat, filename, contentType)
}

// Extract reads the document and returns its plain text.
func (f Format) Extract(r io.Reader) (string, error) {
	switch f {
	case FormatPDF:
		return extractPDF(r)
	case FormatDocx:
		return extractDocx(r)
	case FormatCSV:
		return extractCSV(r)
	case FormatXLSX:
		return extractXLSX(r)
	case FormatText:
		return extractText(r)
	default:
		return "", ErrUnsupportedFormat
	}
}

func extractText(r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", fmt.Errorf("file is not valid UTF-8 text")
	}
	return string(b), nil
}
