package source

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// PDFExtractor handles PDF files. It tries the Go library first,
// then falls back to pdftotext if enabled.
type PDFExtractor struct {
	FallbackPdftotext bool
}

func (e *PDFExtractor) Extract(r io.Reader, filename string) (string, error) {
	// ledongthuc/pdf requires a ReadSeeker+size, so we write to a temp file.
	tmp, err := os.CreateTemp("", "typeordie-pdf-*.pdf")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	text, err := extractPDFText(tmpPath)
	if err != nil && e.FallbackPdftotext {
		text, err = extractPdftotext(tmpPath)
	}
	if err != nil {
		return "", fmt.Errorf("extract pdf text from %s: %w", filename, err)
	}

	// Page breaks are line breaks; the anthology markers carry the structure.
	return strings.ReplaceAll(text, "\f", "\n"), nil
}

func extractPDFText(path string) (string, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	return joinPages(reader.NumPage(), func(i int) (string, bool, error) {
		page := reader.Page(i)
		if page.V.IsNull() {
			return "", false, nil
		}
		text, err := page.GetPlainText(nil)
		return text, true, err
	})
}

// joinPages concatenates pages 1..n separated by form feeds. page reports
// false for pages with no content object; any page error fails the whole
// document so no poems are silently lost.
func joinPages(n int, page func(i int) (string, bool, error)) (string, error) {
	var buf strings.Builder
	for i := 1; i <= n; i++ {
		text, ok, err := page(i)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		if !ok {
			continue
		}
		if i > 1 {
			buf.WriteString("\f")
		}
		buf.WriteString(text)
	}
	return buf.String(), nil
}

func extractPdftotext(path string) (string, error) {
	cmd := exec.Command("pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w", err)
	}
	return string(out), nil
}
