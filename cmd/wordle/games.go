package main

import (
	"bufio"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/japaniel/wordlesolver/pkg/game"
	"github.com/japaniel/wordlesolver/pkg/session"
	"github.com/japaniel/wordlesolver/pkg/wordle"
	"github.com/spf13/cobra"
)

func newSolveCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "solve <answer>",
		Short: "Let the solver play a game against a known answer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			answer, err := c.word(args[0])
			if err != nil {
				return err
			}
			l, err := c.lists(cmd.Context())
			if err != nil {
				return err
			}
			p := newProgress(cmd.ErrOrStderr(), "scoring guesses", c.quiet)
			opts, err := c.sessionOptions(p.Observer())
			if err != nil {
				return err
			}
			res, err := session.Solve(cmd.Context(), l.Guesses, l.Answers, answer, opts)
			p.Done()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			n := answer.Len()
			for i, g := range res.Guesses {
				gr, _ := wordle.GradeOf(answer, g)
				fmt.Fprintf(out, "%d. %s %s\n", i+1, g, gr.Clue(n))
			}
			if res.Solved {
				fmt.Fprintf(out, "Solved in %d/%d\n", len(res.Guesses), opts.MaxRounds)
			} else {
				fmt.Fprintf(out, "Not solved in %d guesses\n", len(res.Guesses))
			}
			return nil
		},
	}
}

func newAssistCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "assist",
		Short: "Suggest guesses round by round while you play elsewhere",
		Long: "Prints a suggested guess, then reads the feedback you got. Enter the\n" +
			"grade alone to accept the suggestion, or \"word grade\" if you typed\n" +
			"something else. An empty line quits.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l, err := c.lists(ctx)
			if err != nil {
				return err
			}
			p := newProgress(cmd.ErrOrStderr(), "scoring guesses", c.quiet)
			opts, err := c.sessionOptions(p.Observer())
			if err != nil {
				return err
			}
			s, err := session.New(l.Guesses, l.Answers, opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			in := bufio.NewScanner(cmd.InOrStdin())
			for !s.Over() {
				choice, err := s.Suggest(ctx)
				p.Done()
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Round %d: try %s (%d candidates left)\n", s.Round()+1, choice.Word, s.Remaining().Len())
				fmt.Fprint(out, "Feedback: ")

				for {
					if !in.Scan() {
						return in.Err()
					}
					line := strings.TrimSpace(in.Text())
					if line == "" {
						return nil
					}
					guess, gr, err := c.parseFeedback(line, choice.Word)
					if err == nil {
						err = s.Apply(guess, gr)
					}
					if err != nil {
						fmt.Fprintf(out, "Invalid input: %v\nFeedback: ", err)
						continue
					}
					break
				}
			}
			if s.Solved() {
				h := s.History()
				fmt.Fprintf(out, "Solved in %d: %s\n", len(h), h[len(h)-1].Guess)
			} else {
				fmt.Fprintf(out, "Out of rounds; %d candidates left: %s\n", s.Remaining().Len(), s.Remaining())
			}
			return nil
		},
	}
}

func (c *cli) parseFeedback(line string, suggested wordle.Word) (wordle.Word, wordle.Grade, error) {
	fields := strings.Fields(line)
	guess := suggested
	switch len(fields) {
	case 1:
	case 2:
		w, err := c.word(fields[0])
		if err != nil {
			return wordle.Word{}, 0, err
		}
		guess = w
		fields = fields[1:]
	default:
		return wordle.Word{}, 0, fmt.Errorf("want a grade or \"word grade\"")
	}
	gr, err := wordle.ParseClue(fields[0], guess.Len())
	return guess, gr, err
}

func newPlayCmd(c *cli) *cobra.Command {
	var (
		seed  uint64
		index int
	)
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a game against a random answer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := c.lists(cmd.Context())
			if err != nil {
				return err
			}
			var g *game.Game
			switch {
			case cmd.Flags().Changed("index"):
				g, err = game.New(l.Answers, l.Guesses, index)
			case seed != 0:
				g, err = game.Random(l.Answers, l.Guesses, rand.New(rand.NewPCG(seed, seed)))
			default:
				g, err = game.Random(l.Answers, l.Guesses, nil)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			n := g.Answer().Len()
			in := bufio.NewScanner(cmd.InOrStdin())
			fmt.Fprintf(out, "Guess the %d letter word. %d attempts.\n", n, g.Remaining())
			for !g.Over() {
				if !in.Scan() {
					if err := in.Err(); err != nil {
						return err
					}
					fmt.Fprintf(out, "Gave up. The word was %s\n", g.Answer())
					return nil
				}
				gr, err := g.Guess(strings.TrimSpace(in.Text()))
				if errors.Is(err, game.ErrNotAllowed) || errors.Is(err, wordle.ErrLengthMismatch) || errors.Is(err, wordle.ErrInvalidWord) {
					fmt.Fprintf(out, "%v\n", err)
					continue
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s  %d left\n", gr.Clue(n), g.Remaining())
			}
			if !g.Won() {
				fmt.Fprintf(out, "The word was %s\n", g.Answer())
			}
			fmt.Fprint(out, g.Share())
			return nil
		},
	}
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed for the answer (0 = random)")
	cmd.Flags().IntVar(&index, "index", 0, "play the answer at this position instead of a random one")
	return cmd
}
