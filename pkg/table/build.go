package table

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

// BuildOptions tunes Build.
type BuildOptions struct {
	// Workers bounds concurrent row producers; 0 means one per CPU.
	Workers int
	// RowsPerJob is how many rows one producer grades before reporting.
	RowsPerJob int
	// Observer receives the number of finished rows.
	Observer wordle.Observer
	Logger   *slog.Logger
}

const defaultRowsPerJob = 32

// Build grades every guess against every answer. Each pair is graded exactly
// once. Canceling ctx abandons the build.
func Build(ctx context.Context, guesses, answers *wordle.Corpus, opts BuildOptions) (*Matrix, error) {
	if guesses.Len() == 0 || answers.Len() == 0 {
		return nil, fmt.Errorf("build table: %w", wordle.ErrEmptyPool)
	}
	if guesses.Length() != answers.Length() {
		return nil, fmt.Errorf("build table: guesses of length %d, answers of length %d: %w",
			guesses.Length(), answers.Length(), wordle.ErrLengthMismatch)
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	per := opts.RowsPerJob
	if per <= 0 {
		per = defaultRowsPerJob
	}

	start := time.Now()
	m := newMatrix(guesses, answers)
	n := guesses.Len()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var (
		mu   sync.Mutex
		done int
	)
	for lo := 0; lo < n; lo += per {
		if gctx.Err() != nil {
			break
		}
		hi := min(lo+per, n)
		g.Go(func() error {
			scratch := make([]wordle.Grade, answers.Len())
			for gi := lo; gi < hi; gi++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				if err := wordle.GradeRow(answers, guesses.At(gi), scratch); err != nil {
					return fmt.Errorf("row %d: %w", gi, err)
				}
				m.setRow(gi, scratch)
			}
			if opts.Observer != nil {
				mu.Lock()
				done += hi - lo
				opts.Observer(done, n)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("build table: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("build table: %w", err)
	}

	if opts.Logger != nil {
		opts.Logger.Info("grade table built",
			slog.Int("guesses", n),
			slog.Int("answers", answers.Len()),
			slog.Duration("elapsed", time.Since(start)),
		)
	}
	return m, nil
}
