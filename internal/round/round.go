// Package round runs typing rounds over excerpts drawn from the library.
package round

import (
	"time"

	"github.com/dgallion1/typeordie/internal/corpus"
)

// Status represents the state of a round.
type Status string

const (
	StatusReady   Status = "ready"   // Excerpt chosen, no key typed yet.
	StatusRunning Status = "running" // Clock and deadline running.
	StatusWon     Status = "won"
	StatusLost    Status = "lost"
)

// Finished reports whether the round accepts no more keys.
func (s Status) Finished() bool {
	return s == StatusWon || s == StatusLost
}

// line is one display line of the excerpt and what has been typed on it.
type line struct {
	text  string
	input []byte
}

func (l *line) complete() bool { return len(l.input) == len(l.text) }

// round is the state of a single excerpt being typed.
type round struct {
	id        string
	status    Status
	book      *corpus.Book
	poem      *corpus.Poem
	lines     []line
	current   int
	deadline  time.Time // Zero until the first key.
	finished  time.Time
	lastWrong rune
}

// LineSnapshot is one excerpt line with the typed prefix.
type LineSnapshot struct {
	Text  string `json:"text"`
	Input string `json:"input"`
}

// Snapshot is a read-only, JSON-safe copy of the round and stats.
type Snapshot struct {
	ID          string         `json:"round_id,omitempty"`
	Status      Status         `json:"status,omitempty"`
	BookTitle   string         `json:"book_title,omitempty"`
	BookAuthor  string         `json:"book_author,omitempty"`
	Section     string         `json:"section,omitempty"`
	PoemTitle   string         `json:"poem_title,omitempty"`
	Lines       []LineSnapshot `json:"lines"`
	CurrentLine int            `json:"current_line"`
	Deadline    *time.Time     `json:"deadline,omitempty"`
	LastWrong   string         `json:"last_wrong,omitempty"`
	Stats       StatsSnapshot  `json:"stats"`
}

func (r *round) snapshot() Snapshot {
	snap := Snapshot{
		ID:          r.id,
		Status:      r.status,
		BookTitle:   r.book.Title,
		BookAuthor:  r.book.Author,
		Section:     r.poem.Section,
		PoemTitle:   r.poem.Title,
		Lines:       make([]LineSnapshot, len(r.lines)),
		CurrentLine: r.current,
	}
	for i, l := range r.lines {
		snap.Lines[i] = LineSnapshot{Text: l.text, Input: string(l.input)}
	}
	if !r.deadline.IsZero() {
		d := r.deadline
		snap.Deadline = &d
	}
	if r.lastWrong != 0 {
		snap.LastWrong = string(r.lastWrong)
	}
	return snap
}
