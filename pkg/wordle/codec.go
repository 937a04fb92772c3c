package wordle

import (
	"strings"
)

// Clue symbols, indexed by Digit.
var clueSymbols = [3]string{"⬛", "🟨", "🟩"}

// ParseTernary parses a grade written as one '0', '1' or '2' per position,
// leftmost position first.
func ParseTernary(text string, length int) (Grade, error) {
	text = strings.TrimSpace(text)
	if len(text) != length || !validLength(length) {
		return 0, inputErr("parse grade", text, ErrLengthMismatch)
	}
	var g Grade
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c < '0' || c > '2' {
			return 0, inputErr("parse grade", text, ErrInvalidDigit)
		}
		g = g*3 + Grade(c-'0')
	}
	return g, nil
}

// Ternary renders g as exactly length digits; it is the inverse of ParseTernary.
// It panics unless g.Valid(length): grades at or above 3^length have no
// length-digit form.
func (g Grade) Ternary(length int) string {
	g.mustFit("ternary", length)
	b := make([]byte, length)
	v := uint32(g)
	for i := length - 1; i >= 0; i-- {
		b[i] = byte('0' + v%3)
		v /= 3
	}
	return string(b)
}

// Clue renders g with one colored square per position, in Ternary order. It
// panics unless g.Valid(length).
func (g Grade) Clue(length int) string {
	g.mustFit("clue", length)
	var sb strings.Builder
	for i := 0; i < length; i++ {
		sb.WriteString(clueSymbols[g.digit(i, length)])
	}
	return sb.String()
}

// ParseClue accepts the ternary form, the colored squares produced by Clue
// (white squares count as absent), or the letters b/y/g.
func ParseClue(text string, length int) (Grade, error) {
	text = strings.TrimSpace(text)
	if g, err := ParseTernary(text, length); err == nil {
		return g, nil
	}
	var g Grade
	n := 0
	for _, r := range text {
		var d Digit
		switch r {
		case '\uFE0F': // emoji variation selector
			continue
		case '0', 'b', 'B', '⬛', '⬜':
			d = Absent
		case '1', 'y', 'Y', '🟨':
			d = Present
		case '2', 'g', 'G', '🟩':
			d = Exact
		default:
			return 0, inputErr("parse clue", text, ErrInvalidDigit)
		}
		g = g*3 + Grade(d)
		n++
	}
	if n != length {
		return 0, inputErr("parse clue", text, ErrLengthMismatch)
	}
	return g, nil
}
