package wordle

import (
	"strings"
)

// MaxWordLength is the longest word the package accepts. Grades of this length
// still fit in a uint32 and packed codes in a uint64.
const MaxWordLength = 10

// DefaultWordLength is the length of classic puzzle words.
const DefaultWordLength = 5

const symbolBits = 6

// Word is an immutable puzzle word. The zero value is the empty word and is
// never produced by NewWord. Words are comparable and usable as map keys.
type Word struct {
	text string
	code uint64
}

// NewWord normalizes s (trimmed, lowercased) and validates it. Accepted symbols
// are a-z and 0-9; digits allow number variants of the puzzle.
func NewWord(s string) (Word, error) {
	text := strings.ToLower(strings.TrimSpace(s))
	if len(text) == 0 || len(text) > MaxWordLength {
		return Word{}, inputErr("new word", s, ErrInvalidWord)
	}
	var code uint64
	for i := 0; i < len(text); i++ {
		v := symbolValue(text[i])
		if v == 0 {
			return Word{}, inputErr("new word", s, ErrInvalidWord)
		}
		code = code<<symbolBits | uint64(v)
	}
	return Word{text: text, code: code}, nil
}

// MustWord is like NewWord but panics on invalid input. It is meant for
// constants and tests.
func MustWord(s string) Word {
	w, err := NewWord(s)
	if err != nil {
		panic(err)
	}
	return w
}

// symbolValue maps an accepted byte to 1..36, or 0 when the byte is rejected.
// Values start at 1 so packed codes have no leading zero symbols.
func symbolValue(b byte) uint8 {
	switch {
	case b >= 'a' && b <= 'z':
		return b - 'a' + 1
	case b >= '0' && b <= '9':
		return b - '0' + 27
	}
	return 0
}

// String returns the normalized text.
func (w Word) String() string { return w.text }

// Len is the number of symbols.
func (w Word) Len() int { return len(w.text) }

// Code is the packed integer encoding, first symbol most significant. Distinct
// words always have distinct codes.
func (w Word) Code() uint64 { return w.code }

// IsZero reports whether w is the zero Word.
func (w Word) IsZero() bool { return w.code == 0 }
