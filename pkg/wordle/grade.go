package wordle

import "fmt"

// Digit is the feedback for one letter position.
type Digit uint8

const (
	Absent  Digit = iota // letter not in the answer (gray)
	Present              // letter elsewhere in the answer (yellow)
	Exact                // letter in this position (green)
)

// Grade is the feedback for a whole guess, encoded as a base-3 number with one
// digit per position. Position 0 (the leftmost letter) is the most significant
// digit, so the ternary text of a grade reads in the same order as the guess.
type Grade uint32

var pow3 = func() [MaxWordLength + 1]uint32 {
	var p [MaxWordLength + 1]uint32
	p[0] = 1
	for i := 1; i <= MaxWordLength; i++ {
		p[i] = p[i-1] * 3
	}
	return p
}()

func validLength(length int) bool { return length >= 1 && length <= MaxWordLength }

func mustLength(op string, length int) {
	if !validLength(length) {
		panic(fmt.Sprintf("wordle: %s: length %d outside 1..%d", op, length, MaxWordLength))
	}
}

// GradeCount is the number of distinct grades for words of the given length,
// 3^length. It panics if length is outside 1..MaxWordLength.
func GradeCount(length int) int {
	mustLength("grade count", length)
	return int(pow3[length])
}

// AllExact is the grade of guessing the answer itself. It panics if length is
// outside 1..MaxWordLength.
func AllExact(length int) Grade {
	mustLength("all exact", length)
	return Grade(pow3[length] - 1)
}

// Valid reports whether g is a grade for words of the given length, that is
// length is within 1..MaxWordLength and g < 3^length.
func (g Grade) Valid(length int) bool {
	return validLength(length) && uint32(g) < pow3[length]
}

// mustFit panics unless g.Valid(length).
func (g Grade) mustFit(op string, length int) {
	mustLength(op, length)
	if uint32(g) >= pow3[length] {
		panic(fmt.Sprintf("wordle: %s: grade %d out of range for length %d", op, uint32(g), length))
	}
}

// GradeFromInt validates n as a grade for words of the given length.
func GradeFromInt(n int, length int) (Grade, error) {
	if !validLength(length) {
		return 0, inputErr("grade from int", fmt.Sprint(n), ErrLengthMismatch)
	}
	if n < 0 || n >= GradeCount(length) {
		return 0, inputErr("grade from int", fmt.Sprint(n), ErrInvalidDigit)
	}
	return Grade(n), nil
}

// GradeOf grades guess against answer.
func GradeOf(answer, guess Word) (Grade, error) {
	if answer.IsZero() || guess.IsZero() {
		return 0, inputErr("grade", guess.text, ErrInvalidWord)
	}
	if answer.Len() != guess.Len() {
		return 0, inputErr("grade", guess.text, ErrLengthMismatch)
	}
	return grade(answer.text, guess.text), nil
}

// grade is the unchecked hot path. Both strings must have the same length,
// at most MaxWordLength. It does not allocate.
//
// Exact matches are taken first and consume their answer letter. Remaining
// guess positions, left to right, each consume the first unconsumed equal
// answer letter and become Present; positions that find none stay Absent.
func grade(answer, guess string) Grade {
	var consumed [MaxWordLength]bool
	var digits [MaxWordLength]Digit
	n := len(guess)
	for i := 0; i < n; i++ {
		if guess[i] == answer[i] {
			digits[i] = Exact
			consumed[i] = true
		}
	}
	for i := 0; i < n; i++ {
		if digits[i] == Exact {
			continue
		}
		for j := 0; j < n; j++ {
			if !consumed[j] && answer[j] == guess[i] {
				consumed[j] = true
				digits[i] = Present
				break
			}
		}
	}
	var g Grade
	for i := 0; i < n; i++ {
		g = g*3 + Grade(digits[i])
	}
	return g
}

// Digit returns the feedback at position i for a grade of the given length.
// It panics unless g.Valid(length) and 0 <= i < length.
func (g Grade) Digit(i, length int) Digit {
	g.mustFit("digit", length)
	if i < 0 || i >= length {
		panic(fmt.Sprintf("wordle: digit: position %d outside 0..%d", i, length-1))
	}
	return g.digit(i, length)
}

func (g Grade) digit(i, length int) Digit {
	return Digit(uint32(g) / pow3[length-1-i] % 3)
}

// Digits returns the per-position feedback, leftmost position first. It
// panics unless g.Valid(length).
func (g Grade) Digits(length int) []Digit {
	g.mustFit("digits", length)
	out := make([]Digit, length)
	for i := range out {
		out[i] = g.digit(i, length)
	}
	return out
}

// IsWin reports whether every position is Exact.
func (g Grade) IsWin(length int) bool { return g == AllExact(length) }

// GradeRow grades guess against every answer, writing into dst in answer
// order. dst must have answers.Len() elements.
func GradeRow(answers *Corpus, guess Word, dst []Grade) error {
	if answers.Len() == 0 {
		return fmt.Errorf("grade row: %w", ErrEmptyPool)
	}
	if guess.Len() != answers.Length() {
		return inputErr("grade row", guess.text, ErrLengthMismatch)
	}
	if len(dst) != answers.Len() {
		return fmt.Errorf("grade row: dst holds %d grades, need %d", len(dst), answers.Len())
	}
	for i, w := range answers.words {
		dst[i] = grade(w.text, guess.text)
	}
	return nil
}
