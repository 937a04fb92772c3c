// Package session drives games round by round: it suggests a guess, takes
// the feedback and narrows the remaining answers.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/japaniel/wordlesolver/pkg/wordle"
)

var (
	// ErrNoCandidates means no remaining answer is consistent with the
	// feedback, usually a mistyped grade.
	ErrNoCandidates = errors.New("no candidate words left")
	// ErrGameOver is returned once the game is solved or out of rounds.
	ErrGameOver = errors.New("game is over")
)

// DefaultMaxRounds is the number of guesses a standard game allows.
const DefaultMaxRounds = 6

// Options configures a Session.
type Options struct {
	// Selector scores guesses. nil uses a default selector.
	Selector *wordle.Selector
	Policy   wordle.Policy
	// MaxRounds defaults to DefaultMaxRounds.
	MaxRounds int
	// Opener, when set, is always the first suggestion.
	Opener wordle.Word
	Logger *slog.Logger
}

// Turn is one played round.
type Turn struct {
	Guess     wordle.Word
	Grade     wordle.Grade
	Remaining int
}

// Session tracks one game. It is not safe for concurrent use.
type Session struct {
	opts       Options
	dictionary *wordle.Corpus
	remaining  *wordle.Corpus
	history    []Turn
	solved     bool
}

// New starts a game where any word of answers may be hidden and dictionary
// words may be guessed. A nil dictionary means only answers are guessed.
func New(dictionary, answers *wordle.Corpus, opts Options) (*Session, error) {
	if answers.Len() == 0 {
		return nil, fmt.Errorf("new session: %w", wordle.ErrEmptyPool)
	}
	if dictionary.Len() > 0 && dictionary.Length() != answers.Length() {
		return nil, fmt.Errorf("new session: dictionary of length %d, answers of length %d: %w",
			dictionary.Length(), answers.Length(), wordle.ErrLengthMismatch)
	}
	if !opts.Opener.IsZero() && opts.Opener.Len() != answers.Length() {
		return nil, fmt.Errorf("new session: opener %q: %w", opts.Opener, wordle.ErrLengthMismatch)
	}
	if opts.Selector == nil {
		opts.Selector = &wordle.Selector{Logger: opts.Logger}
	}
	if opts.MaxRounds <= 0 {
		opts.MaxRounds = DefaultMaxRounds
	}
	return &Session{opts: opts, dictionary: dictionary, remaining: answers}, nil
}

// Remaining returns the answers still consistent with every applied grade.
func (s *Session) Remaining() *wordle.Corpus { return s.remaining }

// Round is the number of grades applied so far.
func (s *Session) Round() int { return len(s.history) }

// Solved reports whether an all-exact grade has been applied.
func (s *Session) Solved() bool { return s.solved }

// Over reports whether no more guesses may be made.
func (s *Session) Over() bool { return s.solved || len(s.history) >= s.opts.MaxRounds }

// History returns the rounds played so far.
func (s *Session) History() []Turn {
	out := make([]Turn, len(s.history))
	copy(out, s.history)
	return out
}

// Suggest picks the next guess.
func (s *Session) Suggest(ctx context.Context) (wordle.Choice, error) {
	if s.Over() {
		return wordle.Choice{}, ErrGameOver
	}
	switch {
	case s.remaining.Len() == 0:
		return wordle.Choice{}, ErrNoCandidates
	case s.Round() == 0 && !s.opts.Opener.IsZero():
		return s.fixed(s.opts.Opener)
	case s.remaining.Len() == 1:
		return s.fixed(s.remaining.At(0))
	}
	return s.opts.Policy.BestGuess(ctx, s.opts.Selector, s.dictionary, s.remaining)
}

func (s *Session) fixed(w wordle.Word) (wordle.Choice, error) {
	st, err := wordle.NewTally(w.Len()).Summarize(s.remaining, w)
	if err != nil {
		return wordle.Choice{}, err
	}
	return wordle.Choice{Word: w, Score: s.opts.Selector.Metric.Score(st), Stats: st}, nil
}

// Apply records that guess received g and narrows the remaining answers to
// the group g selects. A grade no remaining answer could produce is rejected
// with ErrNoCandidates and leaves the session unchanged.
func (s *Session) Apply(guess wordle.Word, g wordle.Grade) error {
	if s.Over() {
		return ErrGameOver
	}
	next, err := s.remaining.Consistent(guess, g)
	if err != nil {
		return err
	}
	if next.Len() == 0 {
		return fmt.Errorf("apply %s %s: %w", guess, g.Ternary(guess.Len()), ErrNoCandidates)
	}
	s.remaining = next
	s.history = append(s.history, Turn{Guess: guess, Grade: g, Remaining: next.Len()})
	s.solved = g.IsWin(guess.Len())
	if s.opts.Logger != nil {
		s.opts.Logger.Debug("applied grade",
			slog.Int("round", len(s.history)),
			slog.String("guess", guess.String()),
			slog.String("grade", g.Ternary(guess.Len())),
			slog.Int("remaining", next.Len()),
		)
	}
	return nil
}
