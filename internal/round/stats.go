package round

import "time"

// Stats tracks typing progress across rounds. The clock starts on the first
// key of a round and stops when the round ends, so elapsed time only counts
// time spent typing. Stats is not safe for concurrent use; the Manager
// guards it.
type Stats struct {
	correct int
	wrong   int
	words   int
	round   int
	wins    int
	losses  int

	elapsed time.Duration // Completed typing time.
	since   time.Time     // Start of the current typing span; zero when stopped.
}

// StatsSnapshot is a read-only, JSON-safe copy of Stats.
type StatsSnapshot struct {
	CorrectCharacters   int     `json:"correct_characters"`
	WrongCharacters     int     `json:"wrong_characters"`
	Words               int     `json:"words"`
	Round               int     `json:"round"`
	Wins                int     `json:"wins"`
	Losses              int     `json:"losses"`
	ElapsedMillis       int64   `json:"elapsed_ms"`
	WordsPerMinute      float64 `json:"words_per_minute"`
	CharactersPerSecond float64 `json:"characters_per_second"`
}

func (s *Stats) running() bool { return !s.since.IsZero() }

func (s *Stats) start(now time.Time) {
	if !s.running() {
		s.since = now
	}
}

func (s *Stats) stop(now time.Time) {
	if s.running() {
		s.elapsed += now.Sub(s.since)
		s.since = time.Time{}
	}
}

func (s *Stats) incrCorrect(now time.Time) {
	s.start(now)
	s.correct++
}

func (s *Stats) incrWrong(now time.Time) {
	s.start(now)
	s.wrong++
}

func (s *Stats) incrWords(now time.Time) {
	s.start(now)
	s.words++
}

// done stops the clock and records the result of a round.
func (s *Stats) done(now time.Time, won bool) {
	s.stop(now)
	if won {
		s.wins++
	} else {
		s.losses++
	}
}

// reset stops the clock and moves to the next round number.
func (s *Stats) reset(now time.Time) {
	s.stop(now)
	s.round++
}

func (s *Stats) elapsedAt(now time.Time) time.Duration {
	if s.running() {
		return s.elapsed + now.Sub(s.since)
	}
	return s.elapsed
}

func (s *Stats) snapshot(now time.Time) StatsSnapshot {
	el := s.elapsedAt(now)
	snap := StatsSnapshot{
		CorrectCharacters: s.correct,
		WrongCharacters:   s.wrong,
		Words:             s.words,
		Round:             s.round,
		Wins:              s.wins,
		Losses:            s.losses,
		ElapsedMillis:     el.Milliseconds(),
	}
	if el > 0 {
		snap.WordsPerMinute = float64(s.words) / el.Minutes()
		snap.CharactersPerSecond = float64(s.correct+s.wrong) / el.Seconds()
	}
	return snap
}
