package round

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dgallion1/typeordie/internal/corpus"
)

var (
	// ErrNoRound means there is no round accepting keys.
	ErrNoRound = errors.New("no active round")
	// ErrRoundInProgress means a new round was requested before the
	// current one finished.
	ErrRoundInProgress = errors.New("round in progress")
)

// maxDraws bounds how many excerpts Next tries before giving up, since an
// excerpt fails when a word is wider than a display line.
const maxDraws = 5

// Picker chooses the text for a round. *library.Library implements it.
type Picker interface {
	RandomBook() (*corpus.Book, error)
	RandomPoem(book *corpus.Book) (*corpus.Poem, error)
	Excerpt(poem *corpus.Poem, maxChars, maxCharsPerLine int) ([]string, error)
}

// Options configures round timing and excerpt size.
type Options struct {
	MaxChars        int
	MaxCharsPerLine int
	RoundTimeout    time.Duration // Time from the first key to the deadline.
	WrongKeyPenalty time.Duration // Each wrong key pulls the deadline forward by this much.
	NextRoundDelay  time.Duration // Pause before the ticker starts the next round.
	TickInterval    time.Duration
}

// DefaultOptions returns the settings used when none are configured.
func DefaultOptions() Options {
	return Options{
		MaxChars:        100,
		MaxCharsPerLine: 20,
		RoundTimeout:    60 * time.Second,
		WrongKeyPenalty: 3 * time.Second,
		NextRoundDelay:  3 * time.Second,
		TickInterval:    100 * time.Millisecond,
	}
}

// Outcome describes the effect of one key.
type Outcome struct {
	Correct bool   `json:"correct"`
	Status  Status `json:"status"`
	Line    int    `json:"line"`
}

// Manager owns the active round and the running stats. Next, Key, Forfeit
// and the ticker take the write lock; Snapshot takes the read lock.
type Manager struct {
	mu    sync.RWMutex
	round *round
	stats Stats

	picker Picker
	opts   Options
	log    *slog.Logger
	now    func() time.Time

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewManager creates a manager with no active round. Call Next or Start to
// begin playing.
func NewManager(picker Picker, opts Options, log *slog.Logger) *Manager {
	def := DefaultOptions()
	if opts.MaxChars <= 0 {
		opts.MaxChars = def.MaxChars
	}
	if opts.MaxCharsPerLine <= 0 {
		opts.MaxCharsPerLine = def.MaxCharsPerLine
	}
	if opts.RoundTimeout <= 0 {
		opts.RoundTimeout = def.RoundTimeout
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = def.TickInterval
	}
	return &Manager{
		picker: picker,
		opts:   opts,
		log:    log,
		now:    time.Now,
	}
}

// Start launches the ticker that expires overdue rounds and starts the next
// round after NextRoundDelay. A round is started immediately if none exists.
// Calling Start while the ticker runs does nothing.
func (m *Manager) Start(ctx context.Context) {
	m.mu.Lock()
	if m.cancel != nil {
		m.mu.Unlock()
		return
	}
	tickCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.mu.Unlock()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.tick()
		ticker := time.NewTicker(m.opts.TickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-tickCtx.Done():
				return
			case <-ticker.C:
				m.tick()
			}
		}
	}()
}

// Stop halts the ticker and waits for it to exit.
func (m *Manager) Stop() {
	m.mu.Lock()
	cancel := m.cancel
	m.cancel = nil
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	m.wg.Wait()
}

// tick expires a round past its deadline and starts the next one once the
// delay after a finished round has passed.
func (m *Manager) tick() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	rd := m.round
	if rd != nil && rd.status == StatusRunning && now.After(rd.deadline) {
		m.finish(rd, now, false)
		m.log.Info("round lost", "round_id", rd.id, "line", rd.current, "lines", len(rd.lines))
		return
	}

	if rd == nil || (rd.status.Finished() && !now.Before(rd.finished.Add(m.opts.NextRoundDelay))) {
		if err := m.next(now); err != nil {
			m.log.Error("start next round", "error", err)
		}
	}
}

// Next starts a new round. It fails with ErrRoundInProgress while the
// current round still accepts keys.
func (m *Manager) Next() (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if err := m.next(now); err != nil {
		return Snapshot{}, err
	}
	return m.snapshot(now), nil
}

func (m *Manager) next(now time.Time) error {
	if m.round != nil && !m.round.status.Finished() {
		return ErrRoundInProgress
	}

	var lastErr error
	for range maxDraws {
		rd, err := m.draw()
		if err != nil {
			lastErr = err
			if errors.Is(err, corpus.ErrWrapFailure) {
				continue
			}
			return err
		}
		m.stats.reset(now)
		m.round = rd
		m.log.Info("round started",
			"round_id", rd.id,
			"round", m.stats.round,
			"book", rd.book.Title,
			"poem", rd.poem.Title,
			"lines", len(rd.lines),
		)
		return nil
	}
	return fmt.Errorf("no usable excerpt after %d draws: %w", maxDraws, lastErr)
}

func (m *Manager) draw() (*round, error) {
	book, err := m.picker.RandomBook()
	if err != nil {
		return nil, fmt.Errorf("pick book: %w", err)
	}
	poem, err := m.picker.RandomPoem(book)
	if err != nil {
		return nil, fmt.Errorf("pick poem: %w", err)
	}
	text, err := m.picker.Excerpt(poem, m.opts.MaxChars, m.opts.MaxCharsPerLine)
	if err != nil {
		return nil, fmt.Errorf("excerpt %q: %w", poem.Title, err)
	}
	if len(text) == 0 {
		return nil, fmt.Errorf("excerpt %q: %w", poem.Title, corpus.ErrInvalidSelection)
	}

	rd := &round{
		id:     uuid.NewString(),
		status: StatusReady,
		book:   book,
		poem:   poem,
		lines:  make([]line, len(text)),
	}
	for i, t := range text {
		rd.lines[i] = line{text: t}
	}
	return rd, nil
}

// Key applies one typed character to the active round.
//
// At the end of a line, space, '\r' or '\n' moves to the next line and
// counts a word; any other key is wrong. Inside a line the key must match
// the next character; a matching space counts a word. A wrong key pulls the
// deadline forward by WrongKeyPenalty. Finishing the last line wins.
func (m *Manager) Key(r rune) (Outcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.key(r, m.now())
}

// Keys applies each character of s in order and returns the resulting
// snapshot. Keys after the round finishes are ignored.
func (m *Manager) Keys(s string) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for _, r := range s {
		if m.round != nil && m.round.status.Finished() {
			break
		}
		if _, err := m.key(r, now); err != nil {
			return Snapshot{}, err
		}
	}
	return m.snapshot(now), nil
}

func (m *Manager) key(r rune, now time.Time) (Outcome, error) {
	rd := m.round
	if rd == nil || rd.status.Finished() {
		return Outcome{}, ErrNoRound
	}
	if rd.status == StatusReady {
		rd.status = StatusRunning
		rd.deadline = now.Add(m.opts.RoundTimeout)
	}

	cur := &rd.lines[rd.current]
	correct := true
	switch {
	case cur.complete():
		if r == ' ' || r == '\r' || r == '\n' {
			rd.current++
			m.stats.incrWords(now)
		} else {
			correct = false
		}
	case rune(cur.text[len(cur.input)]) != r:
		correct = false
	default:
		cur.input = append(cur.input, byte(r))
		m.stats.incrCorrect(now)
		if r == ' ' {
			m.stats.incrWords(now)
		}
	}

	if correct {
		rd.lastWrong = 0
	} else {
		m.stats.incrWrong(now)
		rd.lastWrong = r
		rd.deadline = rd.deadline.Add(-m.opts.WrongKeyPenalty)
	}

	if rd.current >= len(rd.lines) {
		m.finish(rd, now, true)
		m.log.Info("round won", "round_id", rd.id)
	}

	return Outcome{Correct: correct, Status: rd.status, Line: min(rd.current, len(rd.lines)-1)}, nil
}

// Forfeit ends the active round as a loss.
func (m *Manager) Forfeit() (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rd := m.round
	if rd == nil || rd.status.Finished() {
		return Snapshot{}, ErrNoRound
	}
	now := m.now()
	m.finish(rd, now, false)
	m.log.Info("round forfeited", "round_id", rd.id)
	return m.snapshot(now), nil
}

func (m *Manager) finish(rd *round, now time.Time, won bool) {
	if won {
		rd.status = StatusWon
	} else {
		rd.status = StatusLost
	}
	rd.finished = now
	m.stats.done(now, won)
}

// Snapshot returns a copy of the current round and stats. A manager with
// no round yet returns only the stats.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot(m.now())
}

// Stats returns a copy of the running stats.
func (m *Manager) Stats() StatsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stats.snapshot(m.now())
}

func (m *Manager) snapshot(now time.Time) Snapshot {
	var snap Snapshot
	if m.round != nil {
		snap = m.round.snapshot()
	} else {
		snap.Lines = []LineSnapshot{}
	}
	snap.Stats = m.stats.snapshot(now)
	return snap
}
