package main

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/japaniel/wordlesolver/pkg/session"
	"github.com/spf13/cobra"
)

func newEvaluateCmd(c *cli) *cobra.Command {
	var games int
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Play every answer automatically and report how the solver does",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l, err := c.lists(ctx)
			if err != nil {
				return err
			}
			opts, err := c.sessionOptions(nil)
			if err != nil {
				return err
			}
			p := newProgress(cmd.ErrOrStderr(), "playing games", c.quiet)
			rep, err := session.Evaluate(ctx, l.Guesses, l.Answers, opts, session.EvalOptions{
				Games:    games,
				Workers:  c.cfg.Solver.Workers,
				Observer: p.Observer(),
			})
			p.Done()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Evaluation complete: won %d of %d games (%.2f%%), average %.3f guesses for wins, took %v\n",
				rep.Wins, rep.Games, 100*rep.WinRate(), rep.AverageGuesses, rep.Elapsed.Round(time.Millisecond))
			var rounds []int
			for k := range rep.Distribution {
				rounds = append(rounds, k)
			}
			slices.Sort(rounds)
			for _, k := range rounds {
				fmt.Fprintf(out, "%d: %d\n", k, rep.Distribution[k])
			}
			for _, w := range rep.Failures {
				fmt.Fprintf(out, "Lost! %s\n", w)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&games, "games", 0, "only play the first N answers (0 = all)")
	return cmd
}

func newPrecomputeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "precompute",
		Short: "Build the grade table for the word lists and store it in the cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := c.openCache()
			if err != nil {
				return err
			}
			if conn == nil {
				return errors.New("precompute needs a cache: set --cache or cache.path")
			}
			defer conn.Close()

			l, err := c.lists(cmd.Context())
			if err != nil {
				return err
			}
			m, err := c.loadTable(cmd.Context(), cmd.ErrOrStderr(), conn, l)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Grade table ready: %d guesses x %d answers in %s\n",
				m.Guesses().Len(), m.Answers().Len(), c.cfg.Cache.Path)
			return nil
		},
	}
}
