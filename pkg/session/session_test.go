package session

import (
	"context"
	"errors"
	"testing"

	"github.com/japaniel/wordlesolver/pkg/wordle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAnswers = []string{"crane", "slate", "tiles", "stale", "abcde", "edcba", "aabbb"}

func corpus(t testing.TB, words ...string) *wordle.Corpus {
	t.Helper()
	c, err := wordle.NewCorpus(words)
	require.NoError(t, err)
	return c
}

func grade(t testing.TB, ternary string) wordle.Grade {
	t.Helper()
	g, err := wordle.ParseTernary(ternary, len(ternary))
	require.NoError(t, err)
	return g
}

func TestNewValidates(t *testing.T) {
	_, err := New(nil, nil, Options{})
	assert.True(t, errors.Is(err, wordle.ErrEmptyPool))

	_, err = New(corpus(t, "abcd"), corpus(t, testAnswers...), Options{})
	assert.True(t, errors.Is(err, wordle.ErrLengthMismatch))

	_, err = New(nil, corpus(t, testAnswers...), Options{Opener: wordle.MustWord("tares1")})
	assert.True(t, errors.Is(err, wordle.ErrLengthMismatch))
}

func TestSessionRounds(t *testing.T) {
	ctx := context.Background()
	s, err := New(nil, corpus(t, testAnswers...), Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, s.Round())
	assert.False(t, s.Over())

	choice, err := s.Suggest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "slate", choice.Word.String())
	assert.Equal(t, 7, choice.Stats.Buckets)

	// "abcde" against a hidden "edcba" leaves only that word.
	require.NoError(t, s.Apply(wordle.MustWord("abcde"), grade(t, "11211")))
	assert.Equal(t, 1, s.Round())
	assert.Equal(t, []string{"edcba"}, s.Remaining().Strings())
	assert.False(t, s.Solved())

	choice, err = s.Suggest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "edcba", choice.Word.String())

	require.NoError(t, s.Apply(choice.Word, wordle.AllExact(5)))
	assert.True(t, s.Solved())
	assert.True(t, s.Over())

	_, err = s.Suggest(ctx)
	assert.True(t, errors.Is(err, ErrGameOver))
	assert.True(t, errors.Is(s.Apply(choice.Word, wordle.AllExact(5)), ErrGameOver))

	h := s.History()
	require.Len(t, h, 2)
	assert.Equal(t, "abcde", h[0].Guess.String())
	assert.Equal(t, 1, h[0].Remaining)
}

func TestApplyImpossibleGrade(t *testing.T) {
	s, err := New(nil, corpus(t, testAnswers...), Options{})
	require.NoError(t, err)

	err = s.Apply(wordle.MustWord("abcde"), grade(t, "22220"))
	assert.True(t, errors.Is(err, ErrNoCandidates))
	assert.Equal(t, 0, s.Round())
	assert.Equal(t, len(testAnswers), s.Remaining().Len())

	err = s.Apply(wordle.MustWord("abcd"), 0)
	assert.True(t, errors.Is(err, wordle.ErrLengthMismatch))
}

func TestOpenerAndMaxRounds(t *testing.T) {
	ctx := context.Background()
	s, err := New(nil, corpus(t, testAnswers...), Options{Opener: wordle.MustWord("tiles"), MaxRounds: 1})
	require.NoError(t, err)

	choice, err := s.Suggest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tiles", choice.Word.String())

	g, err := wordle.GradeOf(wordle.MustWord("crane"), choice.Word)
	require.NoError(t, err)
	require.NoError(t, s.Apply(choice.Word, g))
	assert.False(t, s.Solved())
	assert.True(t, s.Over())
	_, err = s.Suggest(ctx)
	assert.True(t, errors.Is(err, ErrGameOver))
}

func TestSolve(t *testing.T) {
	answers := corpus(t, testAnswers...)
	for _, a := range testAnswers {
		res, err := Solve(context.Background(), answers, answers, wordle.MustWord(a), Options{})
		require.NoError(t, err)
		assert.True(t, res.Solved, a)
		assert.Equal(t, a, res.Guesses[len(res.Guesses)-1].String())
		assert.LessOrEqual(t, len(res.Guesses), 2, a)
	}

	res, err := Solve(context.Background(), answers, answers, wordle.MustWord("slate"), Options{})
	require.NoError(t, err)
	assert.Len(t, res.Guesses, 1)
}

func TestSolveUnknownAnswer(t *testing.T) {
	answers := corpus(t, testAnswers...)
	_, err := Solve(context.Background(), answers, answers, wordle.MustWord("zzzzz"), Options{})
	assert.True(t, errors.Is(err, ErrNoCandidates))
}

func TestEvaluate(t *testing.T) {
	answers := corpus(t, testAnswers...)
	dictionary := corpus(t, append([]string{"arose", "unlit"}, testAnswers...)...)

	var reports []Report
	for _, workers := range []int{1, 4} {
		last := 0
		rep, err := Evaluate(context.Background(), dictionary, answers, Options{},
			EvalOptions{Workers: workers, Observer: func(done, total int) {
				assert.Equal(t, len(testAnswers), total)
				assert.Greater(t, done, last)
				last = done
			}})
		require.NoError(t, err)
		assert.Equal(t, len(testAnswers), last)
		reports = append(reports, rep)
	}
	for _, rep := range reports {
		assert.Equal(t, 7, rep.Games)
		assert.Equal(t, 7, rep.Wins)
		assert.Empty(t, rep.Failures)
		assert.Equal(t, map[int]int{1: 1, 2: 6}, rep.Distribution)
		assert.InDelta(t, 13.0/7.0, rep.AverageGuesses, 1e-12)
		assert.InDelta(t, 1.0, rep.WinRate(), 1e-12)
	}

	rep, err := Evaluate(context.Background(), dictionary, answers, Options{}, EvalOptions{Games: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, rep.Games)
}

func TestEvaluateErrors(t *testing.T) {
	_, err := Evaluate(context.Background(), nil, nil, Options{}, EvalOptions{})
	assert.True(t, errors.Is(err, wordle.ErrEmptyPool))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Evaluate(ctx, nil, corpus(t, testAnswers...), Options{}, EvalOptions{})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestEvaluateFailures(t *testing.T) {
	answers := corpus(t, testAnswers...)
	// A fixed opener that never wins on its own plus a single round loses
	// every game but the opener's own.
	rep, err := Evaluate(context.Background(), nil, answers,
		Options{Opener: wordle.MustWord("crane"), MaxRounds: 1}, EvalOptions{Workers: 2})
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Wins)
	assert.Len(t, rep.Failures, 6)
	assert.Equal(t, map[int]int{1: 1}, rep.Distribution)
}
