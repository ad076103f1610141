package corpus

// Book is one parsed anthology: a title, an author, and its poems in the
// order they first appeared in the source.
type Book struct {
	Title  string  // From the #Title: header field
	Author string  // From the #Author: header field
	Poems  []*Poem // Ordered by first appearance

	// Set by the file loader; empty when parsed from in-memory text.
	Source string // Base name of the source file
	Digest string // BLAKE3 hex digest of the raw source bytes
}

// Poem is a single poem within a Book, identified by (Section, Title).
type Poem struct {
	Section string
	Title   string
	Lines   []string // Validated, trimmed content lines
}

// Len returns the total number of characters across all lines.
func (p *Poem) Len() int {
	n := 0
	for _, l := range p.Lines {
		n += len(l)
	}
	return n
}

// LineCount returns the number of content lines across all poems.
func (b *Book) LineCount() int {
	n := 0
	for _, p := range b.Poems {
		n += len(p.Lines)
	}
	return n
}
