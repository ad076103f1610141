// Package source pulls anthology text out of the file formats the library
// can load from disk.
package source

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Extractor converts raw file bytes into anthology text.
type Extractor interface {
	Extract(r io.Reader, filename string) (string, error)
}

// Options tune individual extractors.
type Options struct {
	// PDFFallback shells out to pdftotext when the Go PDF reader fails.
	PDFFallback bool
}

// SupportedExtensions lists file extensions this package can handle. Any of
// them may additionally be wrapped in ".xz".
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".text":     true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

const xzExt = ".xz"

// ForFile returns the appropriate extractor for a filename.
func ForFile(filename string, opts Options) (Extractor, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case xzExt:
		inner, err := ForFile(strings.TrimSuffix(filename, filepath.Ext(filename)), opts)
		if err != nil {
			return nil, err
		}
		return &XZExtractor{Inner: inner}, nil
	case ".txt", ".text", ".md", ".markdown":
		return &TextExtractor{}, nil
	case ".html", ".htm":
		return &HTMLExtractor{}, nil
	case ".pdf":
		return &PDFExtractor{FallbackPdftotext: opts.PDFFallback}, nil
	case ".docx":
		return &DOCXExtractor{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %q", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == xzExt {
		filename = strings.TrimSuffix(filename, filepath.Ext(filename))
		ext = strings.ToLower(filepath.Ext(filename))
	}
	return SupportedExtensions[ext]
}
