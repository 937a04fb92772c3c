// Package game plays a hidden-word game against the user.
package game

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/japaniel/wordlesolver/pkg/wordle"
)

var (
	// ErrNotAllowed is returned for guesses missing from both word lists.
	ErrNotAllowed = errors.New("not in word list")
	// ErrFinished is returned for guesses after the game ended.
	ErrFinished = errors.New("game finished")
)

// DefaultAttempts is the number of guesses a player gets.
const DefaultAttempts = 6

// Game is one round of play with a hidden answer. It is not safe for
// concurrent use.
type Game struct {
	answers  *wordle.Corpus
	allowed  *wordle.Corpus
	index    int
	answer   wordle.Word
	attempts int
	guesses  []wordle.Word
	grades   []wordle.Grade
	won      bool
}

// New starts a game whose answer is answers[index]. Guesses must appear in
// allowed or answers; a nil allowed list accepts only answers.
func New(answers, allowed *wordle.Corpus, index int) (*Game, error) {
	if answers.Len() == 0 {
		return nil, fmt.Errorf("new game: %w", wordle.ErrEmptyPool)
	}
	if index < 0 || index >= answers.Len() {
		return nil, fmt.Errorf("new game: answer index %d out of range [0, %d)", index, answers.Len())
	}
	if allowed.Len() > 0 && allowed.Length() != answers.Length() {
		return nil, fmt.Errorf("new game: %w", wordle.ErrLengthMismatch)
	}
	return &Game{
		answers:  answers,
		allowed:  allowed,
		index:    index,
		answer:   answers.At(index),
		attempts: DefaultAttempts,
	}, nil
}

// Random starts a game with a uniformly chosen answer. A nil r uses the
// global source.
func Random(answers, allowed *wordle.Corpus, r *rand.Rand) (*Game, error) {
	if answers.Len() == 0 {
		return nil, fmt.Errorf("random game: %w", wordle.ErrEmptyPool)
	}
	var i int
	if r != nil {
		i = r.IntN(answers.Len())
	} else {
		i = rand.IntN(answers.Len())
	}
	return New(answers, allowed, i)
}

// Guess grades a guess against the answer.
func (g *Game) Guess(text string) (wordle.Grade, error) {
	if g.Over() {
		return 0, ErrFinished
	}
	w, err := wordle.NewWord(text)
	if err != nil {
		return 0, err
	}
	if w.Len() != g.answer.Len() {
		return 0, fmt.Errorf("guess %q: %w", text, wordle.ErrLengthMismatch)
	}
	if !g.answers.Contains(w) && !g.allowed.Contains(w) {
		return 0, fmt.Errorf("guess %q: %w", text, ErrNotAllowed)
	}
	gr, err := wordle.GradeOf(g.answer, w)
	if err != nil {
		return 0, err
	}
	g.guesses = append(g.guesses, w)
	g.grades = append(g.grades, gr)
	g.won = gr.IsWin(w.Len())
	return gr, nil
}

// Won reports whether the answer was guessed.
func (g *Game) Won() bool { return g.won }

// Over reports whether the game ended, won or lost.
func (g *Game) Over() bool { return g.won || len(g.guesses) >= g.attempts }

// Attempts is the number of guesses made.
func (g *Game) Attempts() int { return len(g.guesses) }

// Remaining is the number of guesses left.
func (g *Game) Remaining() int { return g.attempts - len(g.guesses) }

// Answer is the hidden word.
func (g *Game) Answer() wordle.Word { return g.answer }

// Index is the answer's position in the answer list.
func (g *Game) Index() int { return g.index }

// Grades returns the grade of every guess so far.
func (g *Game) Grades() []wordle.Grade {
	out := make([]wordle.Grade, len(g.grades))
	copy(out, g.grades)
	return out
}

// Share renders the result without revealing letters:
//
//	5 Letter Wordle 12 3/6
//	⬛🟨⬛⬛🟩
//	...
//
// Lost games read "5 Letter Wordle Lost 12". Numeric answers are titled
// "Number Primel".
func (g *Game) Share() string {
	n := g.answer.Len()
	title := "Letter Wordle"
	if isNumeric(g.answer.String()) {
		title = "Number Primel"
	}
	var b strings.Builder
	if g.won {
		fmt.Fprintf(&b, "%d %s %d %d/%d\n", n, title, g.index, len(g.guesses), g.attempts)
	} else {
		fmt.Fprintf(&b, "%d %s Lost %d\n", n, title, g.index)
	}
	for _, gr := range g.grades {
		b.WriteString(gr.Clue(n))
		b.WriteByte('\n')
	}
	return b.String()
}

func isNumeric(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
