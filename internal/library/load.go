package library

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/zeebo/blake3"
	"golang.org/x/sync/errgroup"

	"github.com/dgallion1/typeordie/internal/corpus"
	"github.com/dgallion1/typeordie/internal/parser"
	"github.com/dgallion1/typeordie/internal/source"
)

// LoadConfig controls how source files are read.
type LoadConfig struct {
	Concurrency int // Files extracted in parallel; <= 0 means 4.
	Source      source.Options
}

// Digest returns the BLAKE3 hex digest of raw source bytes.
func Digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Discover lists the supported source files directly inside dir, sorted by
// name.
func Discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read sources dir: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !source.IsSupportedExtension(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	return paths, nil
}

type extracted struct {
	text   string
	digest string
}

// LoadFiles extracts the given files concurrently, then parses them in
// input order. Every file must parse; the first failure aborts the load.
// Files with identical content are both loaded and a warning is logged.
func LoadFiles(ctx context.Context, paths []string, log *slog.Logger, cfg LoadConfig, opts ...Option) (*Library, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no source files: %w", corpus.ErrEmptyCorpus)
	}
	limit := cfg.Concurrency
	if limit <= 0 {
		limit = 4
	}

	results := make([]extracted, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := extractFile(path, cfg.Source)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	books := make([]*corpus.Book, 0, len(paths))
	seen := make(map[string]string, len(paths))
	for i, path := range paths {
		name := filepath.Base(path)
		book, err := parser.ParseText(results[i].text)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		book.Source = name
		book.Digest = results[i].digest

		if prev, ok := seen[book.Digest]; ok {
			log.Warn("duplicate source content", "file", name, "same_as", prev, "digest", book.Digest)
		} else {
			seen[book.Digest] = name
		}

		log.Info("loaded book",
			"file", name,
			"title", book.Title,
			"author", book.Author,
			"poems", len(book.Poems),
			"lines", book.LineCount(),
		)
		books = append(books, book)
	}

	return New(books, opts...)
}

func extractFile(path string, opts source.Options) (extracted, error) {
	name := filepath.Base(path)
	ext, err := source.ForFile(name, opts)
	if err != nil {
		return extracted{}, fmt.Errorf("%s: %w", name, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return extracted{}, fmt.Errorf("read %s: %w", name, err)
	}
	text, err := ext.Extract(bytes.NewReader(data), name)
	if err != nil {
		return extracted{}, fmt.Errorf("extract %s: %w", name, err)
	}
	return extracted{text: text, digest: Digest(data)}, nil
}
