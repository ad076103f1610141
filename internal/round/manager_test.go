package round

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/typeordie/internal/corpus"
)

type fakePicker struct {
	mu    sync.Mutex
	lines []string
	err   error
	calls int
}

var testBook = &corpus.Book{
	Title:  "Songs",
	Author: "Anon",
	Poems:  []*corpus.Poem{{Section: "One", Title: "First", Lines: []string{"ab cd ef"}}},
}

func (p *fakePicker) RandomBook() (*corpus.Book, error) { return testBook, nil }

func (p *fakePicker) RandomPoem(b *corpus.Book) (*corpus.Poem, error) { return b.Poems[0], nil }

func (p *fakePicker) Excerpt(*corpus.Poem, int, int) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.lines, nil
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func testOptions() Options {
	return Options{
		MaxChars:        100,
		MaxCharsPerLine: 20,
		RoundTimeout:    time.Minute,
		WrongKeyPenalty: 3 * time.Second,
		NextRoundDelay:  2 * time.Second,
		TickInterval:    10 * time.Millisecond,
	}
}

func newTestManager(t *testing.T) (*Manager, *fakeClock, *fakePicker) {
	t.Helper()
	picker := &fakePicker{lines: []string{"ab cd", "ef"}}
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	m := NewManager(picker, testOptions(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	m.now = clock.now
	return m, clock, picker
}

func TestNext_StartsRound(t *testing.T) {
	m, _, _ := newTestManager(t)

	snap, err := m.Next()
	require.NoError(t, err)

	_, err = uuid.Parse(snap.ID)
	assert.NoError(t, err)
	assert.Equal(t, StatusReady, snap.Status)
	assert.Equal(t, "Songs", snap.BookTitle)
	assert.Equal(t, "First", snap.PoemTitle)
	assert.Equal(t, []LineSnapshot{{Text: "ab cd"}, {Text: "ef"}}, snap.Lines)
	assert.Nil(t, snap.Deadline)
	assert.Equal(t, 1, snap.Stats.Round)
}

func TestNext_RejectsWhileInProgress(t *testing.T) {
	m, _, _ := newTestManager(t)
	_, err := m.Next()
	require.NoError(t, err)

	_, err = m.Next()
	assert.ErrorIs(t, err, ErrRoundInProgress)

	_, err = m.Key('a')
	require.NoError(t, err)
	_, err = m.Next()
	assert.ErrorIs(t, err, ErrRoundInProgress)
}

func TestKey_NoRound(t *testing.T) {
	m, _, _ := newTestManager(t)

	_, err := m.Key('a')
	assert.ErrorIs(t, err, ErrNoRound)
	_, err = m.Forfeit()
	assert.ErrorIs(t, err, ErrNoRound)

	snap := m.Snapshot()
	assert.Empty(t, snap.ID)
	assert.NotNil(t, snap.Lines)
}

func TestKeys_WinsRound(t *testing.T) {
	m, _, _ := newTestManager(t)
	_, err := m.Next()
	require.NoError(t, err)

	snap, err := m.Keys("ab cd ef\n")
	require.NoError(t, err)

	assert.Equal(t, StatusWon, snap.Status)
	assert.Equal(t, "ab cd", snap.Lines[0].Input)
	assert.Equal(t, "ef", snap.Lines[1].Input)
	assert.Equal(t, 7, snap.Stats.CorrectCharacters)
	assert.Equal(t, 0, snap.Stats.WrongCharacters)
	assert.Equal(t, 3, snap.Stats.Words)
	assert.Equal(t, 1, snap.Stats.Wins)

	_, err = m.Key('x')
	assert.ErrorIs(t, err, ErrNoRound)
}

func TestKeys_IgnoredAfterFinish(t *testing.T) {
	m, _, _ := newTestManager(t)
	_, err := m.Next()
	require.NoError(t, err)

	snap, err := m.Keys("ab cd\ref\rtrailing keys")
	require.NoError(t, err)
	assert.Equal(t, StatusWon, snap.Status)
	assert.Equal(t, 0, snap.Stats.WrongCharacters)
}

func TestKey_WrongCharacter(t *testing.T) {
	m, clock, _ := newTestManager(t)
	_, err := m.Next()
	require.NoError(t, err)
	start := clock.now()

	out, err := m.Key('x')
	require.NoError(t, err)
	assert.False(t, out.Correct)
	assert.Equal(t, StatusRunning, out.Status)

	snap := m.Snapshot()
	assert.Equal(t, "x", snap.LastWrong)
	assert.Equal(t, "", snap.Lines[0].Input)
	require.NotNil(t, snap.Deadline)
	assert.Equal(t, start.Add(time.Minute-3*time.Second), *snap.Deadline)
	assert.Equal(t, 1, snap.Stats.WrongCharacters)

	out, err = m.Key('a')
	require.NoError(t, err)
	assert.True(t, out.Correct)
	assert.Empty(t, m.Snapshot().LastWrong)
}

func TestKey_LineEndNeedsSeparator(t *testing.T) {
	m, _, _ := newTestManager(t)
	_, err := m.Next()
	require.NoError(t, err)

	_, err = m.Keys("ab cd")
	require.NoError(t, err)

	out, err := m.Key('e')
	require.NoError(t, err)
	assert.False(t, out.Correct)
	assert.Equal(t, 0, out.Line)

	out, err = m.Key('\n')
	require.NoError(t, err)
	assert.True(t, out.Correct)
	assert.Equal(t, 1, out.Line)
}

func TestTick_ExpiresRound(t *testing.T) {
	m, clock, _ := newTestManager(t)
	_, err := m.Next()
	require.NoError(t, err)

	// The deadline is not set until the first key.
	clock.advance(time.Hour)
	m.tick()
	assert.Equal(t, StatusReady, m.Snapshot().Status)

	_, err = m.Key('a')
	require.NoError(t, err)
	clock.advance(59 * time.Second)
	m.tick()
	assert.Equal(t, StatusRunning, m.Snapshot().Status)

	clock.advance(2 * time.Second)
	m.tick()
	snap := m.Snapshot()
	assert.Equal(t, StatusLost, snap.Status)
	assert.Equal(t, 1, snap.Stats.Losses)
}

func TestTick_PenaltyShortensRound(t *testing.T) {
	m, clock, _ := newTestManager(t)
	_, err := m.Next()
	require.NoError(t, err)

	_, err = m.Keys("xxxx")
	require.NoError(t, err)

	clock.advance(50 * time.Second)
	m.tick()
	assert.Equal(t, StatusLost, m.Snapshot().Status)
}

func TestTick_StartsNextRoundAfterDelay(t *testing.T) {
	m, clock, _ := newTestManager(t)

	m.tick()
	first := m.Snapshot()
	require.NotEmpty(t, first.ID)

	_, err := m.Forfeit()
	require.NoError(t, err)

	clock.advance(time.Second)
	m.tick()
	assert.Equal(t, first.ID, m.Snapshot().ID)

	clock.advance(time.Second)
	m.tick()
	second := m.Snapshot()
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, StatusReady, second.Status)
	assert.Equal(t, 2, second.Stats.Round)
	assert.Equal(t, 1, second.Stats.Losses)
}

func TestNext_RetriesWrapFailures(t *testing.T) {
	m, _, picker := newTestManager(t)
	picker.err = corpus.ErrWrapFailure

	_, err := m.Next()
	assert.ErrorIs(t, err, corpus.ErrWrapFailure)
	assert.Equal(t, maxDraws, picker.calls)
}

func TestNext_OtherErrorsAreNotRetried(t *testing.T) {
	m, _, picker := newTestManager(t)
	picker.err = errors.New("boom")

	_, err := m.Next()
	assert.ErrorContains(t, err, "boom")
	assert.Equal(t, 1, picker.calls)
}

func TestStats_Rates(t *testing.T) {
	m, clock, _ := newTestManager(t)
	_, err := m.Next()
	require.NoError(t, err)

	_, err = m.Key('a')
	require.NoError(t, err)
	clock.advance(time.Minute)
	_, err = m.Key('b')
	require.NoError(t, err)
	_, err = m.Key(' ')
	require.NoError(t, err)

	s := m.Stats()
	assert.Equal(t, int64(60000), s.ElapsedMillis)
	assert.InDelta(t, 1.0, s.WordsPerMinute, 1e-9)
	assert.InDelta(t, 0.05, s.CharactersPerSecond, 1e-9)

	// The clock stops with the round.
	_, err = m.Forfeit()
	require.NoError(t, err)
	clock.advance(time.Hour)
	assert.Equal(t, int64(60000), m.Stats().ElapsedMillis)
}

func TestStats_ZeroBeforeTyping(t *testing.T) {
	m, _, _ := newTestManager(t)
	s := m.Stats()
	assert.Zero(t, s.WordsPerMinute)
	assert.Zero(t, s.CharactersPerSecond)
}

func TestStartStop(t *testing.T) {
	picker := &fakePicker{lines: []string{"ab"}}
	m := NewManager(picker, testOptions(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	m.Start(context.Background())
	defer m.Stop()

	require.Eventually(t, func() bool {
		return m.Snapshot().ID != ""
	}, time.Second, 5*time.Millisecond)
}

func TestStart_SecondCallIsNoop(t *testing.T) {
	picker := &fakePicker{lines: []string{"ab"}}
	m := NewManager(picker, testOptions(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	m.Start(context.Background())
	m.Start(context.Background())

	stopped := make(chan struct{})
	go func() {
		m.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return after Start was called twice")
	}

	m.Start(context.Background())
	m.Stop()
}

func TestConcurrentKeysAndSnapshots(t *testing.T) {
	m, _, _ := newTestManager(t)
	_, err := m.Next()
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for range 50 {
				_, _ = m.Key('z')
			}
		}()
		go func() {
			defer wg.Done()
			for range 50 {
				snap := m.Snapshot()
				if len(snap.Lines) != 2 {
					t.Errorf("expected 2 lines, got %d", len(snap.Lines))
					return
				}
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 200, m.Stats().WrongCharacters)
}
