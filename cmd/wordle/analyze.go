package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"

	"github.com/japaniel/wordlesolver/pkg/dictionary"
	"github.com/japaniel/wordlesolver/pkg/session"
	"github.com/japaniel/wordlesolver/pkg/table"
	"github.com/japaniel/wordlesolver/pkg/wordle"
	"github.com/spf13/cobra"
)

func newGradeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "grade <answer> <guess>",
		Short: "Show the feedback a guess gets against an answer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			answer, err := c.word(args[0])
			if err != nil {
				return err
			}
			guess, err := c.word(args[1])
			if err != nil {
				return err
			}
			g, err := wordle.GradeOf(answer, guess)
			if err != nil {
				return err
			}
			n := guess.Len()
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %d\n", g.Ternary(n), g.Clue(n), g)
			return nil
		},
	}
}

func newGroupsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "groups <guess> [guess=grade ...]",
		Short: "Partition the remaining answers by the feedback a guess would get",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			guess, err := c.word(args[0])
			if err != nil {
				return err
			}
			s, err := c.replay(cmd.Context(), args[1:], nil)
			if err != nil {
				return err
			}
			gr, err := wordle.GroupByGrade(s.Remaining(), guess)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), gr.String())
			return nil
		},
	}
}

func newBestCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "best [guess=grade ...]",
		Short: "Suggest the next guess given the feedback so far",
		Long: "Suggest the next guess. Each argument records a previous round as\n" +
			"guess=grade, where grade is ternary (02110), letters (bgyyb) or squares.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			conn, err := c.openCache()
			if err != nil {
				return err
			}
			if conn != nil {
				defer conn.Close()
				return c.bestFromTable(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), conn, args)
			}

			p := newProgress(cmd.ErrOrStderr(), "scoring guesses", c.quiet)
			s, err := c.replay(ctx, args, p.Observer())
			if err != nil {
				return err
			}
			choice, err := s.Suggest(ctx)
			p.Done()
			if err != nil {
				return err
			}
			printChoice(cmd.OutOrStdout(), choice.Word, choice.Stats, c.cfg.Solver.MetricValue(), s.Remaining())
			return nil
		},
	}
}

type round struct {
	guess wordle.Word
	grade wordle.Grade
}

func (c *cli) parseRounds(args []string) ([]round, error) {
	out := make([]round, 0, len(args))
	for _, a := range args {
		w, g, ok := strings.Cut(a, "=")
		if !ok {
			return nil, fmt.Errorf("round %q: want guess=grade", a)
		}
		guess, err := c.word(w)
		if err != nil {
			return nil, fmt.Errorf("round %q: %w", a, err)
		}
		gr, err := wordle.ParseClue(g, guess.Len())
		if err != nil {
			return nil, fmt.Errorf("round %q: %w", a, err)
		}
		out = append(out, round{guess: guess, grade: gr})
	}
	return out, nil
}

// replay loads the word lists and applies previously played rounds to a new
// session.
func (c *cli) replay(ctx context.Context, args []string, observer wordle.Observer) (*session.Session, error) {
	rounds, err := c.parseRounds(args)
	if err != nil {
		return nil, err
	}
	l, err := c.lists(ctx)
	if err != nil {
		return nil, err
	}
	opts, err := c.sessionOptions(observer)
	if err != nil {
		return nil, err
	}
	// Replayed rounds are history, not a new game; do not cap them.
	opts.MaxRounds = max(opts.MaxRounds, len(rounds)+1)
	s, err := session.New(l.Guesses, l.Answers, opts)
	if err != nil {
		return nil, err
	}
	for _, r := range rounds {
		if err := s.Apply(r.guess, r.grade); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// bestFromTable answers "best" from the precomputed grade table, building and
// caching it first when needed.
func (c *cli) bestFromTable(ctx context.Context, out, errOut io.Writer, conn *sql.DB, args []string) error {
	rounds, err := c.parseRounds(args)
	if err != nil {
		return err
	}
	l, err := c.lists(ctx)
	if err != nil {
		return err
	}
	m, err := c.loadTable(ctx, errOut, conn, l)
	if err != nil {
		return err
	}

	within := m.All()
	for _, r := range rounds {
		gi, ok := m.RowIndex(r.guess)
		if !ok {
			return fmt.Errorf("%s is not in the guess list", r.guess)
		}
		within = m.Consistent(gi, r.grade, within)
		if within.None() {
			return fmt.Errorf("after %s: %w", r.guess, session.ErrNoCandidates)
		}
	}
	remaining := m.Select(within)
	metric := c.cfg.Solver.MetricValue()

	var guess wordle.Word
	switch {
	case len(rounds) == 0 && c.cfg.Solver.Opener != "":
		if guess, err = c.word(c.cfg.Solver.Opener); err != nil {
			return err
		}
	case remaining.Len() == 1:
		guess = remaining.At(0)
	}
	if !guess.IsZero() {
		st, err := wordle.NewTally(guess.Len()).Summarize(remaining, guess)
		if err != nil {
			return err
		}
		printChoice(out, guess, st, metric, remaining)
		return nil
	}

	var rows []int
	if remaining.Len() < c.cfg.Solver.CandidateThreshold {
		for _, w := range remaining.Words() {
			if gi, ok := m.RowIndex(w); ok {
				rows = append(rows, gi)
			}
		}
	}
	gi, st, err := m.BestGuess(metric, within, rows)
	if err != nil {
		return err
	}
	printChoice(out, m.Guesses().At(gi), st, metric, remaining)
	return nil
}

func (c *cli) loadTable(ctx context.Context, errOut io.Writer, conn *sql.DB, l dictionary.Lists) (*table.Matrix, error) {
	p := newProgress(errOut, "building grade table", c.quiet)
	m, hit, err := table.LoadOrBuild(ctx, conn, l.Guesses, l.Answers, table.BuildOptions{
		Workers:  c.cfg.Solver.Workers,
		Observer: p.Observer(),
		Logger:   c.logger,
	}, c.cfg.Cache.BatchSize)
	p.Done()
	if err != nil {
		return nil, err
	}
	c.logger.Debug("grade table ready", "cache_hit", hit)
	return m, nil
}

func printChoice(w io.Writer, guess wordle.Word, st wordle.Stats, metric wordle.Metric, remaining *wordle.Corpus) {
	fmt.Fprintf(w, "Best guess: %s\n", guess)
	fmt.Fprintf(w, "Remaining words: %d\n", remaining.Len())
	fmt.Fprintf(w, "Groups: %d, average group length: %.2f, longest group: %d, entropy: %.3f bits (%s)\n",
		st.Buckets, st.AverageBucketSize(), st.Largest, st.Entropy, metric)
	if remaining.Len() <= 20 {
		fmt.Fprintf(w, "Candidates: %s\n", remaining)
	}
}
