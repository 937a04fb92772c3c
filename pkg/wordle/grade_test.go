package wordle

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustGrade(t *testing.T, answer, guess string) Grade {
	t.Helper()
	g, err := GradeOf(MustWord(answer), MustWord(guess))
	require.NoError(t, err)
	return g
}

func TestGradeSelfIsAllExact(t *testing.T) {
	for _, w := range []string{"abcde", "aabbb", "speed", "eerie", "zzzzz", "12345"} {
		g := mustGrade(t, w, w)
		if g != AllExact(5) {
			t.Fatalf("grade(%s, %s) = %s, want 22222", w, w, g.Ternary(5))
		}
		if !g.IsWin(5) {
			t.Fatalf("grade(%s, %s) is not a win", w, w)
		}
	}
	if AllExact(5) != 242 {
		t.Fatalf("AllExact(5) = %d, want 242", AllExact(5))
	}
}

func TestGradeNoSharedLetters(t *testing.T) {
	if g := mustGrade(t, "abcde", "fghij"); g != 0 {
		t.Fatalf("expected all absent, got %s", g.Ternary(5))
	}
}

func TestGradeKnownPatterns(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		answer string
		guess  string
		want   string
	}{
		{"self", "abcde", "abcde", "22222"},
		{"reversed shares middle letter", "edcba", "abcde", "11211"},
		{"one exact one present", "aabbb", "abcde", "21000"},
		{"repeated guess letter consumed left to right", "allee", "eagle", "11012"},
		{"excess repeated letter is absent", "abbey", "bobby", "10202"},
		{"exact match takes priority over earlier present", "crane", "eerie", "00102"},
		{"single answer letter shared by two guess letters", "those", "geese", "00022"},
		{"digits", "12345", "54321", "11211"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := mustGrade(t, tt.answer, tt.guess)
			assert.Equal(t, tt.want, g.Ternary(5))
		})
	}
}

func TestGradePresentNeverExceedsAnswerOccurrences(t *testing.T) {
	// The guess has three e's, the answer two; exactly two may be marked.
	g := mustGrade(t, "level", "eeeaa")
	marked := 0
	for _, d := range g.Digits(5) {
		if d != Absent {
			marked++
		}
	}
	if marked != 2 {
		t.Fatalf("expected 2 marked positions, got %d (%s)", marked, g.Ternary(5))
	}
	assert.Equal(t, "12000", g.Ternary(5))
}

func TestGradeLengthMismatch(t *testing.T) {
	_, err := GradeOf(MustWord("abcde"), MustWord("abcd"))
	if !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("expected ErrLengthMismatch, got %v", err)
	}
	_, err = GradeOf(Word{}, MustWord("abcd"))
	if !errors.Is(err, ErrInvalidWord) {
		t.Fatalf("expected ErrInvalidWord, got %v", err)
	}
}

func TestGradeDigits(t *testing.T) {
	g, err := ParseTernary("21012", 5)
	require.NoError(t, err)
	assert.Equal(t, []Digit{Exact, Present, Absent, Present, Exact}, g.Digits(5))
	assert.Equal(t, Grade(2*81+1*27+0*9+1*3+2), g)
}

func TestGradeFromInt(t *testing.T) {
	g, err := GradeFromInt(242, 5)
	require.NoError(t, err)
	assert.Equal(t, "22222", g.Ternary(5))

	_, err = GradeFromInt(243, 5)
	assert.ErrorIs(t, err, ErrInvalidDigit)
	_, err = GradeFromInt(-1, 5)
	assert.ErrorIs(t, err, ErrInvalidDigit)
	_, err = GradeFromInt(0, MaxWordLength+1)
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestGradeDoesNotAllocate(t *testing.T) {
	answer, guess := MustWord("allee"), MustWord("eagle")
	allocs := testing.AllocsPerRun(100, func() {
		_ = grade(answer.text, guess.text)
	})
	if allocs != 0 {
		t.Fatalf("grade allocated %.0f times per call", allocs)
	}
}

func BenchmarkGrade(b *testing.B) {
	answer, guess := MustWord("allee"), MustWord("eagle")
	for i := 0; i < b.N; i++ {
		_ = grade(answer.text, guess.text)
	}
}

func TestGradeRow(t *testing.T) {
	answers, err := NewCorpus([]string{"abcde", "edcba", "aabbb"})
	require.NoError(t, err)
	dst := make([]Grade, 3)
	require.NoError(t, GradeRow(answers, MustWord("abcde"), dst))
	for i, w := range answers.Words() {
		want, err := GradeOf(w, MustWord("abcde"))
		require.NoError(t, err)
		assert.Equal(t, want, dst[i])
	}
	assert.Error(t, GradeRow(answers, MustWord("abcde"), make([]Grade, 2)))
	assert.ErrorIs(t, GradeRow(answers, MustWord("abc"), dst), ErrLengthMismatch)
}
