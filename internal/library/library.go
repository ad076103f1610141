// Package library holds the loaded anthologies and the process-wide random
// source used to pick books, poems and excerpts.
package library

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/dgallion1/typeordie/internal/corpus"
	"github.com/dgallion1/typeordie/internal/excerpt"
	"github.com/dgallion1/typeordie/internal/parser"
)

// Library is an ordered set of books plus a random source. It is safe for
// concurrent use; the books themselves are never modified after loading.
type Library struct {
	books []*corpus.Book

	mu  sync.Mutex
	rnd *rand.Rand
}

// Stats summarises the library contents.
type Stats struct {
	Books int `json:"books"`
	Poems int `json:"poems"`
	Lines int `json:"lines"`
}

type options struct {
	src rand.Source
}

// Option configures a Library.
type Option func(*options)

// WithSeed makes every draw reproducible.
func WithSeed(seed uint64) Option {
	return func(o *options) { o.src = rand.NewPCG(seed, seed) }
}

// WithSource uses src for every draw.
func WithSource(src rand.Source) Option {
	return func(o *options) { o.src = src }
}

// New wraps already-parsed books. An empty list is ErrEmptyCorpus.
func New(books []*corpus.Book, opts ...Option) (*Library, error) {
	if len(books) == 0 {
		return nil, fmt.Errorf("library has no books: %w", corpus.ErrEmptyCorpus)
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.src == nil {
		now := uint64(time.Now().UnixNano())
		o.src = rand.NewPCG(now, now>>1)
	}
	return &Library{books: books, rnd: rand.New(o.src)}, nil
}

// Load parses each text as one book. Any parse failure aborts the load.
func Load(texts []string, opts ...Option) (*Library, error) {
	books := make([]*corpus.Book, 0, len(texts))
	for i, text := range texts {
		book, err := parser.ParseText(text)
		if err != nil {
			return nil, fmt.Errorf("book %d: %w", i, err)
		}
		books = append(books, book)
	}
	return New(books, opts...)
}

// Int returns a non-negative pseudo-random int. It satisfies excerpt.Source.
func (l *Library) Int() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rnd.Int()
}

// Books returns the books in load order. The slice must not be modified.
func (l *Library) Books() []*corpus.Book {
	return l.books
}

// Book returns the book at index i.
func (l *Library) Book(i int) (*corpus.Book, bool) {
	if i < 0 || i >= len(l.books) {
		return nil, false
	}
	return l.books[i], true
}

// RandomBook picks a book as Int() modulo the book count.
func (l *Library) RandomBook() (*corpus.Book, error) {
	if len(l.books) == 0 {
		return nil, corpus.ErrEmptyCorpus
	}
	return l.books[l.Int()%len(l.books)], nil
}

// RandomPoem picks a poem of book as Int() modulo the poem count.
func (l *Library) RandomPoem(book *corpus.Book) (*corpus.Poem, error) {
	if book == nil || len(book.Poems) == 0 {
		return nil, fmt.Errorf("%w: book has no poems", corpus.ErrInvalidSelection)
	}
	return book.Poems[l.Int()%len(book.Poems)], nil
}

// Excerpt selects display lines from poem using the library's random source.
func (l *Library) Excerpt(poem *corpus.Poem, maxChars, maxCharsPerLine int) ([]string, error) {
	return excerpt.Select(poem, maxChars, maxCharsPerLine, l)
}

// Stats counts books, poems and content lines.
func (l *Library) Stats() Stats {
	s := Stats{Books: len(l.books)}
	for _, b := range l.books {
		s.Poems += len(b.Poems)
		s.Lines += b.LineCount()
	}
	return s
}
