package wordle

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/japaniel/wordlesolver/pkg/pool"
)

// Metric decides how a partition is scored. Lower scores are better.
type Metric int

const (
	// MeanBucketSize scores a guess by the mean size of its groups.
	MeanBucketSize Metric = iota
	// LargestBucket scores a guess by its biggest group (minimax).
	LargestBucket
	// Entropy scores a guess by the negated expected information in bits.
	Entropy
)

// ParseMetric accepts "mean", "minimax"/"largest" and "entropy".
func ParseMetric(s string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "mean", "average":
		return MeanBucketSize, nil
	case "minimax", "largest":
		return LargestBucket, nil
	case "entropy":
		return Entropy, nil
	}
	return 0, fmt.Errorf("unknown metric %q", s)
}

func (m Metric) String() string {
	switch m {
	case LargestBucket:
		return "minimax"
	case Entropy:
		return "entropy"
	}
	return "mean"
}

// Score maps partition statistics to a comparable score.
func (m Metric) Score(s Stats) float64 {
	switch m {
	case LargestBucket:
		return float64(s.Largest)
	case Entropy:
		return -s.Entropy
	}
	return s.AverageBucketSize()
}

// Observer is told how many candidates have been scored so far. Calls are
// serialized.
type Observer func(done, total int)

// Choice is the outcome of a best-guess search.
type Choice struct {
	Word  Word
	Score float64
	Stats Stats
}

// Selector searches for the guess that best splits a target pool.
type Selector struct {
	// Workers is the number of scoring goroutines; 0 means one per CPU.
	Workers int
	Metric  Metric
	// Observer is optional progress reporting, invoked once per scored chunk.
	Observer Observer
	// Logger is used for debug messages. nil means no logging.
	Logger *slog.Logger
	// PoolFactory allows tests to inject custom worker pool implementations.
	PoolFactory pool.Factory
}

// chunkSize bounds how many candidates one pool job scores.
const chunkSize = 64

// BestGuess scores every candidate against targets and returns the one with
// the lowest score. Ties go to the earliest candidate, so the result is
// deterministic regardless of worker scheduling.
func (s *Selector) BestGuess(ctx context.Context, candidates, targets *Corpus) (Choice, error) {
	if candidates.Len() == 0 || targets.Len() == 0 {
		return Choice{}, fmt.Errorf("best guess: %w", ErrEmptyPool)
	}
	if candidates.Length() != targets.Length() {
		return Choice{}, fmt.Errorf("best guess: candidates of length %d, targets of length %d: %w",
			candidates.Length(), targets.Length(), ErrLengthMismatch)
	}

	n := candidates.Len()
	stats := make([]Stats, n)

	newPool := s.PoolFactory
	if newPool == nil {
		newPool = pool.New
	}
	wp := newPool(s.Workers, 0)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	wp.Start(ctx)

	var (
		mu    sync.Mutex
		done  int
		tally = sync.Pool{New: func() any { return NewTally(targets.Length()) }}
	)
	var submitErr error
	for lo := 0; lo < n; lo += chunkSize {
		hi := min(lo+chunkSize, n)
		job := func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			t := tally.Get().(*Tally)
			for i := lo; i < hi; i++ {
				stats[i] = t.summarize(targets, candidates.words[i])
			}
			tally.Put(t)
			if s.Observer != nil {
				mu.Lock()
				done += hi - lo
				s.Observer(done, n)
				mu.Unlock()
			}
			return nil
		}
		if err := wp.SubmitCtx(ctx, job); err != nil {
			submitErr = err
			break
		}
	}
	poolErr := wp.Close()
	if submitErr != nil {
		return Choice{}, fmt.Errorf("best guess: %w", submitErr)
	}
	if poolErr != nil {
		return Choice{}, fmt.Errorf("best guess: %w", poolErr)
	}
	if err := ctx.Err(); err != nil {
		return Choice{}, fmt.Errorf("best guess: %w", err)
	}

	best := 0
	bestScore := s.Metric.Score(stats[0])
	for i := 1; i < n; i++ {
		if sc := s.Metric.Score(stats[i]); sc < bestScore {
			best, bestScore = i, sc
		}
	}
	choice := Choice{Word: candidates.words[best], Score: bestScore, Stats: stats[best]}
	if s.Logger != nil {
		s.Logger.Debug("best guess",
			slog.String("word", choice.Word.String()),
			slog.String("metric", s.Metric.String()),
			slog.Float64("score", choice.Score),
			slog.Int("candidates", n),
			slog.Int("targets", targets.Len()),
		)
	}
	return choice, nil
}

// DefaultCandidateThreshold is the remaining-pool size below which only the
// remaining words are tried as guesses.
const DefaultCandidateThreshold = 50

// Policy picks which words are worth trying as guesses.
type Policy struct {
	// CandidateThreshold: when fewer words remain than this, only remaining
	// words are tried; otherwise the whole dictionary is. 0 always uses the
	// dictionary.
	CandidateThreshold int
}

// DefaultPolicy uses DefaultCandidateThreshold.
func DefaultPolicy() Policy { return Policy{CandidateThreshold: DefaultCandidateThreshold} }

// Candidates returns the guess pool for the current state.
func (p Policy) Candidates(dictionary, remaining *Corpus) *Corpus {
	if remaining.Len() < p.CandidateThreshold || dictionary.Len() == 0 {
		return remaining
	}
	return dictionary
}

// BestGuess applies the policy and runs the selector against remaining.
func (p Policy) BestGuess(ctx context.Context, s *Selector, dictionary, remaining *Corpus) (Choice, error) {
	return s.BestGuess(ctx, p.Candidates(dictionary, remaining), remaining)
}
