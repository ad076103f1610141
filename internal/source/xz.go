package source

import (
	"fmt"
	"io"
	"strings"

	"github.com/ulikunitz/xz"
)

// XZExtractor decompresses an .xz stream and hands the result to the
// extractor for the wrapped file type.
type XZExtractor struct {
	Inner Extractor
}

func (e *XZExtractor) Extract(r io.Reader, filename string) (string, error) {
	zr, err := xz.NewReader(r)
	if err != nil {
		return "", fmt.Errorf("open xz stream %s: %w", filename, err)
	}
	inner := filename
	if i := strings.LastIndexByte(filename, '.'); i > 0 {
		inner = filename[:i]
	}
	return e.Inner.Extract(zr, inner)
}
