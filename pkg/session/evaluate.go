package session

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/japaniel/wordlesolver/pkg/wordle"
	"golang.org/x/sync/errgroup"
)

// Result is the outcome of one automatic game.
type Result struct {
	Answer  wordle.Word
	Guesses []wordle.Word
	Solved  bool
}

// Solve plays a whole game against answer, always taking the suggested
// guess.
func Solve(ctx context.Context, dictionary, answers *wordle.Corpus, answer wordle.Word, opts Options) (Result, error) {
	s, err := New(dictionary, answers, opts)
	if err != nil {
		return Result{}, err
	}
	res := Result{Answer: answer}
	for !s.Over() {
		choice, err := s.Suggest(ctx)
		if err != nil {
			return res, fmt.Errorf("solve %s: round %d: %w", answer, s.Round()+1, err)
		}
		g, err := wordle.GradeOf(answer, choice.Word)
		if err != nil {
			return res, fmt.Errorf("solve %s: %w", answer, err)
		}
		res.Guesses = append(res.Guesses, choice.Word)
		if err := s.Apply(choice.Word, g); err != nil {
			return res, fmt.Errorf("solve %s: %w", answer, err)
		}
	}
	res.Solved = s.Solved()
	return res, nil
}

// Report summarizes an evaluation run.
type Report struct {
	Games int
	Wins  int
	// AverageGuesses is the mean number of guesses over won games.
	AverageGuesses float64
	// Distribution counts won games by number of guesses.
	Distribution map[int]int
	Failures     []wordle.Word
	Elapsed      time.Duration
}

// WinRate is Wins over Games.
func (r Report) WinRate() float64 {
	if r.Games == 0 {
		return 0
	}
	return float64(r.Wins) / float64(r.Games)
}

// EvalOptions tunes Evaluate.
type EvalOptions struct {
	// Games limits evaluation to the first Games answers; 0 means all.
	Games int
	// Workers is the number of games played at once; 0 means one per CPU.
	Workers int
	// Observer receives the number of finished games.
	Observer wordle.Observer
}

// Evaluate plays an automatic game for every answer and reports how the
// solver did. Games run in parallel; each game scores guesses on a single
// goroutine. The opening guess is computed once and shared.
func Evaluate(ctx context.Context, dictionary, answers *wordle.Corpus, opts Options, eval EvalOptions) (Report, error) {
	if answers.Len() == 0 {
		return Report{}, fmt.Errorf("evaluate: %w", wordle.ErrEmptyPool)
	}
	start := time.Now()

	if opts.Opener.IsZero() {
		s, err := New(dictionary, answers, opts)
		if err != nil {
			return Report{}, fmt.Errorf("evaluate: %w", err)
		}
		choice, err := s.Suggest(ctx)
		if err != nil {
			return Report{}, fmt.Errorf("evaluate: opener: %w", err)
		}
		opts.Opener = choice.Word
		if opts.Logger != nil {
			opts.Logger.Info("evaluation opener", slog.String("word", choice.Word.String()))
		}
	}

	// Games already run in parallel, so each one scores on one goroutine.
	base := wordle.Selector{}
	if opts.Selector != nil {
		base = *opts.Selector
	}
	base.Workers = 1
	base.Observer = nil
	opts.Selector = &base

	n := answers.Len()
	if eval.Games > 0 && eval.Games < n {
		n = eval.Games
	}
	workers := eval.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]Result, n)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	var (
		mu   sync.Mutex
		done int
	)
	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			res, err := Solve(gctx, dictionary, answers, answers.At(i), opts)
			if err != nil {
				return err
			}
			results[i] = res
			if eval.Observer != nil {
				mu.Lock()
				done++
				eval.Observer(done, n)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, fmt.Errorf("evaluate: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return Report{}, fmt.Errorf("evaluate: %w", err)
	}

	rep := Report{Games: n, Distribution: make(map[int]int)}
	total := 0
	for _, r := range results {
		if !r.Solved {
			rep.Failures = append(rep.Failures, r.Answer)
			continue
		}
		rep.Wins++
		total += len(r.Guesses)
		rep.Distribution[len(r.Guesses)]++
	}
	if rep.Wins > 0 {
		rep.AverageGuesses = float64(total) / float64(rep.Wins)
	}
	rep.Elapsed = time.Since(start)
	if opts.Logger != nil {
		opts.Logger.Info("evaluation complete",
			slog.Int("games", rep.Games),
			slog.Int("wins", rep.Wins),
			slog.Float64("average_guesses", rep.AverageGuesses),
			slog.Duration("elapsed", rep.Elapsed),
		)
	}
	return rep, nil
}
